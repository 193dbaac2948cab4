// Package hub keeps the websocket clients of the notification service and
// pushes registration updates to them.
package hub

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"

	"plataforma/pkg/auth"
)

const (
	TipoServicoCadastrado = "servico_cadastrado"
	tipoConectados        = "conectados"
	tipoPing              = "ping"
	tipoPong              = "pong"
)

type cliente struct {
	conn      *websocket.Conn
	principal auth.Principal
	mu        sync.Mutex
}

func (c *cliente) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*cliente
	logger  zerolog.Logger
}

func New(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*cliente),
		logger:  logger.With().Str("component", "hub").Logger(),
	}
}

// HandleConn blocks until the client goes away. Incoming frames are only
// answered when they are a ping.
func (h *Hub) HandleConn(c *websocket.Conn, p auth.Principal) {
	cc := &cliente{conn: c, principal: p}

	h.mu.Lock()
	h.clients[c] = cc
	h.mu.Unlock()

	h.logger.Debug().Int("usuario_id", p.ID).Int("total", h.ClientCount()).Msg("cliente conectado")
	h.Broadcast(tipoConectados, map[string]int{"total": h.ClientCount()})

	defer h.remove(cc)

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			return
		}
		if string(raw) != tipoPing {
			continue
		}
		h.write(cc, novoEnvelope(tipoPong, nil))
	}
}

func (h *Hub) remove(cc *cliente) {
	h.mu.Lock()
	delete(h.clients, cc.conn)
	h.mu.Unlock()

	_ = cc.conn.Close()
	h.logger.Debug().Int("usuario_id", cc.principal.ID).Int("total", h.ClientCount()).Msg("cliente desconectado")
}

func (h *Hub) write(cc *cliente, env Envelope) {
	data, err := env.Marshal()
	if err != nil {
		h.logger.Error().Err(err).Str("tipo", env.Tipo).Msg("erro ao serializar frame")
		return
	}
	if err := cc.send(data); err != nil {
		h.logger.Warn().Err(err).Int("usuario_id", cc.principal.ID).Msg("erro ao enviar frame")
	}
}

// Broadcast sends one frame to every connected client.
func (h *Hub) Broadcast(tipo string, dados interface{}) {
	env := novoEnvelope(tipo, dados)

	h.mu.RLock()
	alvos := make([]*cliente, 0, len(h.clients))
	for _, cc := range h.clients {
		alvos = append(alvos, cc)
	}
	h.mu.RUnlock()

	for _, cc := range alvos {
		h.write(cc, env)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
