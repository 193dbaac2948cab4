// Package events defines the payloads exchanged over the servicos topic.
//
// An event is either NovoServico (registration accepted by the gateway) or
// ServicoCadastrado (row persisted). The "tipo" field on the wire selects the
// variant; Decode rejects any other value.
package events

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

type Tipo string

const (
	TipoNovoServico       Tipo = "NOVO_SERVICO"
	TipoServicoCadastrado Tipo = "SERVICO_CADASTRADO"
)

var (
	ErrTipoDesconhecido = errors.New("events: tipo desconhecido")
	ErrCampoObrigatorio = errors.New("events: campo obrigatório")
)

var codec = sonic.ConfigStd

// Event is implemented by NovoServico and ServicoCadastrado only.
type Event interface {
	Tipo() Tipo
	Dados() Payload
	isEvent()
}

// Payload carries the fields common to both variants.
type Payload struct {
	Nome         string
	Descricao    string
	Categoria    string
	Email        string
	DataCadastro time.Time
}

type NovoServico struct{ Payload }

type ServicoCadastrado struct{ Payload }

func (NovoServico) Tipo() Tipo       { return TipoNovoServico }
func (e NovoServico) Dados() Payload { return e.Payload }
func (NovoServico) isEvent()         {}

func (ServicoCadastrado) Tipo() Tipo       { return TipoServicoCadastrado }
func (e ServicoCadastrado) Dados() Payload { return e.Payload }
func (ServicoCadastrado) isEvent()         {}

func (e NovoServico) MarshalJSON() ([]byte, error)       { return codec.Marshal(toWire(e)) }
func (e ServicoCadastrado) MarshalJSON() ([]byte, error) { return codec.Marshal(toWire(e)) }

type wire struct {
	Nome         string    `json:"nome"`
	Descricao    string    `json:"descricao"`
	Categoria    string    `json:"categoria"`
	Email        string    `json:"email,omitempty"`
	Tipo         Tipo      `json:"tipo"`
	DataCadastro time.Time `json:"dataCadastro"`
}

func toWire(e Event) wire {
	p := e.Dados()
	return wire{
		Nome:         p.Nome,
		Descricao:    p.Descricao,
		Categoria:    p.Categoria,
		Email:        p.Email,
		Tipo:         e.Tipo(),
		DataCadastro: p.DataCadastro,
	}
}

// Now returns the producer timestamp in the precision used on the wire.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func NewNovoServico(nome, descricao, categoria, email string) NovoServico {
	return NovoServico{Payload{
		Nome:         nome,
		Descricao:    descricao,
		Categoria:    categoria,
		Email:        email,
		DataCadastro: Now(),
	}}
}

// Confirmar builds the SERVICO_CADASTRADO event for a persisted registration.
func Confirmar(p Payload) ServicoCadastrado {
	p.DataCadastro = Now()
	return ServicoCadastrado{p}
}

func Marshal(e Event) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("events: evento nulo")
	}
	return codec.Marshal(toWire(e))
}

// Decode parses a topic payload. Missing fields are not an error here;
// consumers decide what a malformed registration means for them.
func Decode(data []byte) (Event, error) {
	var w wire
	if err := codec.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("events: payload inválido: %w", err)
	}

	p := Payload{
		Nome:         w.Nome,
		Descricao:    w.Descricao,
		Categoria:    w.Categoria,
		Email:        w.Email,
		DataCadastro: w.DataCadastro,
	}

	switch w.Tipo {
	case TipoNovoServico:
		return NovoServico{p}, nil
	case TipoServicoCadastrado:
		return ServicoCadastrado{p}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrTipoDesconhecido, w.Tipo)
	}
}

// Validar checks the registration triple and, when exigirEmail is set, the
// recipient address.
func (p Payload) Validar(exigirEmail bool) error {
	var faltando []string
	if strings.TrimSpace(p.Nome) == "" {
		faltando = append(faltando, "nome")
	}
	if strings.TrimSpace(p.Descricao) == "" {
		faltando = append(faltando, "descricao")
	}
	if strings.TrimSpace(p.Categoria) == "" {
		faltando = append(faltando, "categoria")
	}
	if exigirEmail && strings.TrimSpace(p.Email) == "" {
		faltando = append(faltando, "email")
	}
	if len(faltando) > 0 {
		return fmt.Errorf("%w: %s", ErrCampoObrigatorio, strings.Join(faltando, ", "))
	}
	return nil
}
