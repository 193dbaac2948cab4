package models

import (
	"time"

	"plataforma/pkg/auth"
)

type Usuario struct {
	ID       int       `json:"id"`
	Nome     string    `json:"nome"`
	Email    string    `json:"email"`
	Senha    string    `json:"-"`
	Tipo     auth.Tipo `json:"tipo"`
	CriadoEm time.Time `json:"criadoEm"`
}

func (u Usuario) Principal() auth.Principal {
	return auth.Principal{ID: u.ID, Email: u.Email, Tipo: u.Tipo}
}

type CriarUsuarioRequest struct {
	Nome  string    `json:"nome"`
	Email string    `json:"email"`
	Senha string    `json:"senha"`
	Tipo  auth.Tipo `json:"tipo"`
}

type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}
