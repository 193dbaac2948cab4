package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"plataforma/pkg/auth"
	"plataforma/pkg/events"
	"plataforma/pkg/models"
	"plataforma/pkg/repository"
)

const (
	listaCacheKey = "servicos:todos"
	listaCacheTTL = 30 * time.Second
)

// Cache is satisfied by *cache.Redis.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type ServicosService interface {
	Listar(ctx context.Context) ([]models.Servico, error)
	Criar(ctx context.Context, p auth.Principal, req models.ServicoRequest) (int, error)
	Atualizar(ctx context.Context, p auth.Principal, id int, req models.ServicoRequest) error
	Deletar(ctx context.Context, p auth.Principal, id int) error
	Registrar(ctx context.Context, dados events.Payload) (int, error)
}

type servicosService struct {
	repo   repository.ServicosRepository
	cache  Cache
	logger zerolog.Logger
}

// NewServicosService accepts a nil cache; listings then always hit the store.
func NewServicosService(repo repository.ServicosRepository, cache Cache, logger zerolog.Logger) ServicosService {
	return &servicosService{repo: repo, cache: cache, logger: logger}
}

func (s *servicosService) Listar(ctx context.Context) ([]models.Servico, error) {
	var cached []models.Servico
	if s.cache != nil && s.cache.Get(ctx, listaCacheKey, &cached) {
		return cached, nil
	}

	lista, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, listaCacheKey, lista, listaCacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("falha ao gravar cache de serviços")
		}
	}
	return lista, nil
}

func (s *servicosService) Criar(ctx context.Context, p auth.Principal, req models.ServicoRequest) (int, error) {
	if !p.HasTipo(auth.TipoPrestador, auth.TipoAdmin) {
		return 0, ErrAcessoNegado
	}
	if err := validarServico(req); err != nil {
		return 0, err
	}

	dono := p.ID
	id, err := s.repo.Criar(ctx, models.Servico{
		Nome:      strings.TrimSpace(req.Nome),
		Descricao: strings.TrimSpace(req.Descricao),
		Categoria: strings.TrimSpace(req.Categoria),
		UsuarioID: &dono,
	})
	if err != nil {
		return 0, err
	}
	s.invalidar(ctx)
	return id, nil
}

func (s *servicosService) Atualizar(ctx context.Context, p auth.Principal, id int, req models.ServicoRequest) error {
	if err := validarServico(req); err != nil {
		return err
	}
	if err := s.autorizar(ctx, p, id); err != nil {
		return err
	}
	req.Nome = strings.TrimSpace(req.Nome)
	req.Descricao = strings.TrimSpace(req.Descricao)
	req.Categoria = strings.TrimSpace(req.Categoria)
	if err := s.repo.Atualizar(ctx, id, req); err != nil {
		return err
	}
	s.invalidar(ctx)
	return nil
}

func (s *servicosService) Deletar(ctx context.Context, p auth.Principal, id int) error {
	if err := s.autorizar(ctx, p, id); err != nil {
		return err
	}
	if err := s.repo.Deletar(ctx, id); err != nil {
		return err
	}
	s.invalidar(ctx)
	return nil
}

// Registrar persists a registration that arrived through the topic. The row
// has no owner and keeps the producer's timestamp.
func (s *servicosService) Registrar(ctx context.Context, dados events.Payload) (int, error) {
	id, err := s.repo.Criar(ctx, models.Servico{
		Nome:         dados.Nome,
		Descricao:    dados.Descricao,
		Categoria:    dados.Categoria,
		DataCadastro: dados.DataCadastro,
	})
	if err != nil {
		return 0, err
	}
	s.invalidar(ctx)
	return id, nil
}

func (s *servicosService) autorizar(ctx context.Context, p auth.Principal, id int) error {
	atual, err := s.repo.BuscarPorID(ctx, id)
	if err != nil {
		return err
	}
	if !p.CanModify(atual.UsuarioID) {
		return ErrAcessoNegado
	}
	return nil
}

func (s *servicosService) invalidar(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, listaCacheKey); err != nil {
		s.logger.Warn().Err(err).Msg("falha ao invalidar cache de serviços")
	}
}

func validarServico(req models.ServicoRequest) error {
	if strings.TrimSpace(req.Nome) == "" || strings.TrimSpace(req.Descricao) == "" || strings.TrimSpace(req.Categoria) == "" {
		return fmt.Errorf("%w: nome, descricao e categoria são obrigatórios", ErrValidacao)
	}
	return nil
}
