package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"plataforma/pkg/models"
)

type UsuariosRepository interface {
	Criar(ctx context.Context, u models.Usuario) (int, error)
	BuscarPorEmail(ctx context.Context, email string) (models.Usuario, error)
	BuscarPorID(ctx context.Context, id int) (models.Usuario, error)
	Listar(ctx context.Context) ([]models.Usuario, error)
}

type usuariosRepository struct {
	db *sql.DB
}

func NewUsuariosRepository(db *sql.DB) UsuariosRepository {
	return &usuariosRepository{db: db}
}

// Criar stores u with its already-hashed Senha. An e-mail in use yields ErrDuplicado.
func (r *usuariosRepository) Criar(ctx context.Context, u models.Usuario) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO usuarios (nome, email, senha, tipo) VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Nome, strings.ToLower(u.Email), u.Senha, string(u.Tipo),
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrDuplicado
	}
	return id, err
}

// BuscarPorEmail is the only lookup that returns the password hash.
func (r *usuariosRepository) BuscarPorEmail(ctx context.Context, email string) (models.Usuario, error) {
	var u models.Usuario
	err := r.db.QueryRowContext(ctx,
		`SELECT id, nome, email, senha, tipo, criado_em FROM usuarios WHERE email = $1`,
		strings.ToLower(email),
	).Scan(&u.ID, &u.Nome, &u.Email, &u.Senha, &u.Tipo, &u.CriadoEm)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Usuario{}, ErrNaoEncontrado
	}
	return u, err
}

func (r *usuariosRepository) BuscarPorID(ctx context.Context, id int) (models.Usuario, error) {
	var u models.Usuario
	err := r.db.QueryRowContext(ctx,
		`SELECT id, nome, email, tipo, criado_em FROM usuarios WHERE id = $1`, id,
	).Scan(&u.ID, &u.Nome, &u.Email, &u.Tipo, &u.CriadoEm)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Usuario{}, ErrNaoEncontrado
	}
	return u, err
}

func (r *usuariosRepository) Listar(ctx context.Context) ([]models.Usuario, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nome, email, tipo, criado_em FROM usuarios ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usuarios := []models.Usuario{}
	for rows.Next() {
		var u models.Usuario
		if err := rows.Scan(&u.ID, &u.Nome, &u.Email, &u.Tipo, &u.CriadoEm); err != nil {
			return nil, err
		}
		usuarios = append(usuarios, u)
	}
	return usuarios, rows.Err()
}
