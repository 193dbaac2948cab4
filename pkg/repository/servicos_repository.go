package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"plataforma/pkg/models"
)

type ServicosRepository interface {
	Criar(ctx context.Context, s models.Servico) (int, error)
	Listar(ctx context.Context) ([]models.Servico, error)
	BuscarPorID(ctx context.Context, id int) (models.Servico, error)
	Atualizar(ctx context.Context, id int, req models.ServicoRequest) error
	Deletar(ctx context.Context, id int) error
}

type servicosRepository struct {
	db *sql.DB
}

func NewServicosRepository(db *sql.DB) ServicosRepository {
	return &servicosRepository{db: db}
}

// Criar inserts one row. Equal triples are not deduplicated.
func (r *servicosRepository) Criar(ctx context.Context, s models.Servico) (int, error) {
	if s.DataCadastro.IsZero() {
		s.DataCadastro = time.Now().UTC()
	}

	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO servicos (nome, descricao, categoria, usuario_id, data_cadastro)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		s.Nome, s.Descricao, s.Categoria, nullableInt(s.UsuarioID), s.DataCadastro,
	).Scan(&id)
	return id, err
}

func (r *servicosRepository) Listar(ctx context.Context) ([]models.Servico, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nome, descricao, categoria, usuario_id, data_cadastro
		 FROM servicos ORDER BY data_cadastro DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	servicos := []models.Servico{}
	for rows.Next() {
		s, err := scanServico(rows)
		if err != nil {
			return nil, err
		}
		servicos = append(servicos, s)
	}
	return servicos, rows.Err()
}

func (r *servicosRepository) BuscarPorID(ctx context.Context, id int) (models.Servico, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, nome, descricao, categoria, usuario_id, data_cadastro
		 FROM servicos WHERE id = $1`, id,
	)
	s, err := scanServico(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Servico{}, ErrNaoEncontrado
	}
	return s, err
}

func (r *servicosRepository) Atualizar(ctx context.Context, id int, req models.ServicoRequest) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE servicos SET nome = $1, descricao = $2, categoria = $3 WHERE id = $4`,
		req.Nome, req.Descricao, req.Categoria, id,
	)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *servicosRepository) Deletar(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM servicos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanServico(row scanner) (models.Servico, error) {
	var (
		s       models.Servico
		usuario sql.NullInt64
	)
	if err := row.Scan(&s.ID, &s.Nome, &s.Descricao, &s.Categoria, &usuario, &s.DataCadastro); err != nil {
		return models.Servico{}, err
	}
	if usuario.Valid {
		id := int(usuario.Int64)
		s.UsuarioID = &id
	}
	return s, nil
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNaoEncontrado
	}
	return nil
}
