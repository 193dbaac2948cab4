package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plataforma/pkg/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var servicoColumns = []string{"id", "nome", "descricao", "categoria", "usuario_id", "data_cadastro"}

func TestServicosCriarWithoutOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewServicosRepository(db)
	quando := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO servicos")).
		WithArgs("Encanador", "Conserto de torneira", "Hidráulica", nil, quando).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	id, err := repo.Criar(context.Background(), models.Servico{
		Nome: "Encanador", Descricao: "Conserto de torneira", Categoria: "Hidráulica", DataCadastro: quando,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestServicosCriarWithOwnerDefaultsDate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewServicosRepository(db)
	dono := 7

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO servicos")).
		WithArgs("a", "b", "c", int64(7), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	_, err := repo.Criar(context.Background(), models.Servico{Nome: "a", Descricao: "b", Categoria: "c", UsuarioID: &dono})
	require.NoError(t, err)
}

func TestServicosCriarError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewServicosRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO servicos")).WillReturnError(errors.New("connection reset"))

	_, err := repo.Criar(context.Background(), models.Servico{Nome: "a", Descricao: "b", Categoria: "c"})
	assert.EqualError(t, err, "connection reset")
}

func TestServicosListar(t *testing.T) {
	db, mock := newMock(t)
	repo := NewServicosRepository(db)
	quando := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM servicos ORDER BY")).
		WillReturnRows(sqlmock.NewRows(servicoColumns).
			AddRow(2, "Pintor", "Parede", "Reforma", 7, quando).
			AddRow(1, "Encanador", "Torneira", "Hidráulica", nil, quando))

	servicos, err := repo.Listar(context.Background())
	require.NoError(t, err)
	require.Len(t, servicos, 2)
	require.NotNil(t, servicos[0].UsuarioID)
	assert.Equal(t, 7, *servicos[0].UsuarioID)
	assert.Nil(t, servicos[1].UsuarioID)
}

func TestServicosListarEmpty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewServicosRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM servicos ORDER BY")).WillReturnRows(sqlmock.NewRows(servicoColumns))

	servicos, err := repo.Listar(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, servicos)
	assert.Empty(t, servicos)
}

func TestServicosBuscarPorIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewServicosRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM servicos WHERE id = $1")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(servicoColumns))

	_, err := repo.BuscarPorID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}

func TestServicosAtualizarAndDeletar(t *testing.T) {
	db, mock := newMock(t)
	repo := NewServicosRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE servicos SET")).
		WithArgs("n", "d", "c", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM servicos")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Atualizar(context.Background(), 3, models.ServicoRequest{Nome: "n", Descricao: "d", Categoria: "c"}))
	assert.ErrorIs(t, repo.Deletar(context.Background(), 3), ErrNaoEncontrado)
}
