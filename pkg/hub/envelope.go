package hub

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/oklog/ulid/v2"
)

// Envelope is the frame written to every websocket client.
type Envelope struct {
	ID    string      `json:"id"`
	Tipo  string      `json:"tipo"`
	Dados interface{} `json:"dados,omitempty"`
	Erro  string      `json:"erro,omitempty"`
	TS    int64       `json:"ts"`
}

func novoEnvelope(tipo string, dados interface{}) Envelope {
	return Envelope{
		ID:    ulid.Make().String(),
		Tipo:  tipo,
		Dados: dados,
		TS:    time.Now().UnixMilli(),
	}
}

func (e Envelope) Marshal() ([]byte, error) {
	return sonic.Marshal(e)
}
