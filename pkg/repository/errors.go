package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNaoEncontrado = errors.New("registro não encontrado")
	ErrDuplicado     = errors.New("registro duplicado")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
