package models

import "time"

type Servico struct {
	ID           int       `json:"id"`
	Nome         string    `json:"nome"`
	Descricao    string    `json:"descricao"`
	Categoria    string    `json:"categoria"`
	UsuarioID    *int      `json:"usuarioId"`
	DataCadastro time.Time `json:"dataCadastro"`
}

// NovoServicoRequest is the body accepted by the gateway.
type NovoServicoRequest struct {
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
	Categoria string `json:"categoria"`
	Email     string `json:"email"`
}

type ServicoRequest struct {
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
	Categoria string `json:"categoria"`
}
