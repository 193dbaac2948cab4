package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"plataforma/pkg/auth"
	"plataforma/pkg/models"
	"plataforma/pkg/repository"
)

func novoAuthService(t *testing.T) (AuthService, *fakeUsuariosRepo, *recordingIssuer) {
	t.Helper()
	repo := &fakeUsuariosRepo{byEmail: map[string]models.Usuario{}}
	issuer := &recordingIssuer{}
	svc, err := NewAuthService(repo, issuer, 4*time.Hour)
	require.NoError(t, err)
	return svc, repo, issuer
}

func TestNewAuthServiceFailsWithoutDummyHash(t *testing.T) {
	repo := &fakeUsuariosRepo{byEmail: map[string]models.Usuario{}}

	_, err := newAuthService(repo, &recordingIssuer{}, time.Hour, strings.Repeat("x", 73))
	require.Error(t, err)
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}

func TestRegistrarHashesPassword(t *testing.T) {
	svc, repo, _ := novoAuthService(t)

	id, err := svc.Registrar(context.Background(), models.CriarUsuarioRequest{
		Nome: " Ana ", Email: "ana@example.com", Senha: "s3nh4", Tipo: auth.TipoPrestador,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	stored := repo.byEmail["ana@example.com"]
	assert.Equal(t, "Ana", stored.Nome)
	assert.NotEqual(t, "s3nh4", stored.Senha)
	assert.True(t, auth.CheckPassword(stored.Senha, "s3nh4"))
}

func TestRegistrarValidation(t *testing.T) {
	svc, _, _ := novoAuthService(t)

	_, err := svc.Registrar(context.Background(), models.CriarUsuarioRequest{Nome: "Ana", Email: "ana@example.com", Tipo: auth.TipoUsuario})
	assert.ErrorIs(t, err, ErrValidacao)

	_, err = svc.Registrar(context.Background(), models.CriarUsuarioRequest{Nome: "Ana", Email: "ana@example.com", Senha: "x", Tipo: "root"})
	assert.ErrorIs(t, err, ErrValidacao)
}

func TestRegistrarDuplicate(t *testing.T) {
	svc, _, _ := novoAuthService(t)
	req := models.CriarUsuarioRequest{Nome: "Ana", Email: "ana@example.com", Senha: "x", Tipo: auth.TipoUsuario}

	_, err := svc.Registrar(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Registrar(context.Background(), req)
	assert.ErrorIs(t, err, repository.ErrDuplicado)
}

func TestLogin(t *testing.T) {
	svc, _, issuer := novoAuthService(t)
	ctx := context.Background()

	id, err := svc.Registrar(ctx, models.CriarUsuarioRequest{Nome: "Ana", Email: "ana@example.com", Senha: "s3nh4", Tipo: auth.TipoAdmin})
	require.NoError(t, err)

	token, err := svc.Login(ctx, models.LoginRequest{Email: "ana@example.com", Senha: "s3nh4"})
	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
	assert.Equal(t, auth.Principal{ID: id, Email: "ana@example.com", Tipo: auth.TipoAdmin}, issuer.principal)
	assert.Equal(t, 4*time.Hour, issuer.ttl)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := novoAuthService(t)
	ctx := context.Background()

	_, err := svc.Registrar(ctx, models.CriarUsuarioRequest{Nome: "Ana", Email: "ana@example.com", Senha: "s3nh4", Tipo: auth.TipoUsuario})
	require.NoError(t, err)

	_, errSenha := svc.Login(ctx, models.LoginRequest{Email: "ana@example.com", Senha: "errada"})
	_, errConta := svc.Login(ctx, models.LoginRequest{Email: "ninguem@example.com", Senha: "s3nh4"})

	assert.ErrorIs(t, errSenha, ErrCredenciaisInvalidas)
	assert.Equal(t, errSenha, errConta)
}

func TestLoginStoreError(t *testing.T) {
	svc, repo, _ := novoAuthService(t)
	repo.failWith = errors.New("connection refused")

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Senha: "x"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCredenciaisInvalidas)
}

func TestMeOmitsSenha(t *testing.T) {
	svc, _, _ := novoAuthService(t)
	ctx := context.Background()

	id, err := svc.Registrar(ctx, models.CriarUsuarioRequest{Nome: "Ana", Email: "ana@example.com", Senha: "s3nh4", Tipo: auth.TipoUsuario})
	require.NoError(t, err)

	u, err := svc.Me(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, u.Senha)

	_, err = svc.Me(ctx, 999)
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}
