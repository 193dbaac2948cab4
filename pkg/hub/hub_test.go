package hub

import (
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	fastws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plataforma/pkg/auth"
)

var jwtManager = auth.NewJWTManager("hub-secret", time.Hour)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	h := New(zerolog.Nop())
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	Rotas(app, h, jwtManager)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return h, "ws://" + ln.Addr().String() + "/ws"
}

func dial(t *testing.T, url string, p auth.Principal) *fastws.Conn {
	t.Helper()
	token, err := jwtManager.Issue(p, 0)
	require.NoError(t, err)

	conn, _, err := fastws.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *fastws.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var env map[string]interface{}
	require.NoError(t, sonic.Unmarshal(raw, &env))
	return env
}

func readUntil(t *testing.T, conn *fastws.Conn, tipo string) map[string]interface{} {
	t.Helper()
	for i := 0; i < 5; i++ {
		env := readEnvelope(t, conn)
		if env["tipo"] == tipo {
			return env
		}
	}
	t.Fatalf("frame %q not received", tipo)
	return nil
}

func TestBroadcastReachesClients(t *testing.T) {
	h, url := startHub(t)
	conn := dial(t, url, auth.Principal{ID: 1, Tipo: auth.TipoPrestador})

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	h.Broadcast(TipoServicoCadastrado, map[string]string{"nome": "Pintor"})

	env := readUntil(t, conn, TipoServicoCadastrado)
	assert.Equal(t, map[string]interface{}{"nome": "Pintor"}, env["dados"])
	assert.NotEmpty(t, env["id"])
}

func TestPingPong(t *testing.T) {
	_, url := startHub(t)
	conn := dial(t, url, auth.Principal{ID: 2, Tipo: auth.TipoUsuario})

	require.NoError(t, conn.WriteMessage(fastws.TextMessage, []byte("ping")))
	readUntil(t, conn, tipoPong)
}

func TestDisconnectRemovesClient(t *testing.T) {
	h, url := startHub(t)
	conn := dial(t, url, auth.Principal{ID: 3, Tipo: auth.TipoAdmin})

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return h.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestUpgradeRequiresToken(t *testing.T) {
	app := fiber.New()
	Rotas(app, New(zerolog.Nop()), jwtManager)

	upgrade := func(query string) int {
		req := httptest.NewRequest("GET", "/ws"+query, nil)
		req.Header.Set("Connection", "Upgrade")
		req.Header.Set("Upgrade", "websocket")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusUnauthorized, upgrade(""))
	assert.Equal(t, fiber.StatusForbidden, upgrade("?token=lixo"))

	resp, err := app.Test(httptest.NewRequest("GET", "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/ws/status", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
