package services

import (
	"errors"

	"plataforma/pkg/repository"
)

var (
	ErrValidacao            = errors.New("dados inválidos")
	ErrCredenciaisInvalidas = errors.New("credenciais inválidas")
	ErrAcessoNegado         = errors.New("acesso negado")
	ErrNaoEncontrado        = repository.ErrNaoEncontrado
)
