package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"plataforma/pkg/auth"
	"plataforma/pkg/models"
	"plataforma/pkg/repository"
)

type TokenIssuer interface {
	Issue(p auth.Principal, ttl time.Duration) (string, error)
}

type AuthService interface {
	Registrar(ctx context.Context, req models.CriarUsuarioRequest) (int, error)
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	Me(ctx context.Context, id int) (models.Usuario, error)
	ListarUsuarios(ctx context.Context) ([]models.Usuario, error)
}

type authService struct {
	repo   repository.UsuariosRepository
	tokens TokenIssuer
	ttl    time.Duration

	// compared against when the e-mail is unknown so both failures cost one bcrypt
	dummyHash string
}

const senhaInexistente = "senha-inexistente"

func NewAuthService(repo repository.UsuariosRepository, tokens TokenIssuer, ttl time.Duration) (AuthService, error) {
	return newAuthService(repo, tokens, ttl, senhaInexistente)
}

func newAuthService(repo repository.UsuariosRepository, tokens TokenIssuer, ttl time.Duration, senhaFicticia string) (AuthService, error) {
	dummy, err := auth.HashPassword(senhaFicticia)
	if err != nil {
		return nil, fmt.Errorf("hash fictício: %w", err)
	}
	return &authService{repo: repo, tokens: tokens, ttl: ttl, dummyHash: dummy}, nil
}

func (s *authService) Registrar(ctx context.Context, req models.CriarUsuarioRequest) (int, error) {
	req.Nome = strings.TrimSpace(req.Nome)
	req.Email = strings.TrimSpace(req.Email)
	if req.Nome == "" || req.Email == "" || req.Senha == "" || req.Tipo == "" {
		return 0, fmt.Errorf("%w: campos obrigatórios", ErrValidacao)
	}
	if !req.Tipo.Valid() {
		return 0, fmt.Errorf("%w: tipo %q", ErrValidacao, req.Tipo)
	}

	hashed, err := auth.HashPassword(req.Senha)
	if err != nil {
		return 0, err
	}

	return s.repo.Criar(ctx, models.Usuario{
		Nome:  req.Nome,
		Email: req.Email,
		Senha: hashed,
		Tipo:  req.Tipo,
	})
}

// Login returns ErrCredenciaisInvalidas for both an unknown e-mail and a wrong
// password; any other error comes from the store.
func (s *authService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	usuario, err := s.repo.BuscarPorEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, repository.ErrNaoEncontrado) {
		auth.CheckPassword(s.dummyHash, req.Senha)
		return "", ErrCredenciaisInvalidas
	}
	if err != nil {
		return "", err
	}

	if !auth.CheckPassword(usuario.Senha, req.Senha) {
		return "", ErrCredenciaisInvalidas
	}

	return s.tokens.Issue(usuario.Principal(), s.ttl)
}

func (s *authService) Me(ctx context.Context, id int) (models.Usuario, error) {
	return s.repo.BuscarPorID(ctx, id)
}

func (s *authService) ListarUsuarios(ctx context.Context) ([]models.Usuario, error) {
	return s.repo.Listar(ctx)
}
