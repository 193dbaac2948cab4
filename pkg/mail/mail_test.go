package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plataforma/pkg/config"
)

func TestConfirmacaoCadastro(t *testing.T) {
	m := ConfirmacaoCadastro("x@example.com", "Encanador", "Conserto de torneira")

	assert.Equal(t, "x@example.com", m.Para)
	assert.Equal(t, "Seu serviço foi cadastrado!", m.Assunto)
	assert.Equal(t, `Olá, Encanador! Seu serviço "Conserto de torneira" foi cadastrado com sucesso.`, m.Texto)
}

func TestValidarEndereco(t *testing.T) {
	assert.NoError(t, validarEndereco("ana@example.com"))
	assert.ErrorIs(t, validarEndereco("not-an-address"), ErrDestinatarioInvalido)
	assert.ErrorIs(t, validarEndereco(""), ErrDestinatarioInvalido)
	assert.ErrorIs(t, validarEndereco("ana@example.com\r\nBcc: evil@example.com"), ErrDestinatarioInvalido)
}

func TestNewSelectsProvider(t *testing.T) {
	m, err := New(config.EmailConfig{Provider: "log"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)

	m, err = New(config.EmailConfig{Provider: "resend", ResendAPIKey: "re_123", From: "a@example.com"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &ResendMailer{}, m)

	m, err = New(config.EmailConfig{Provider: "smtp", SMTPHost: "smtp.example.com", SMTPPort: 587, From: "a@example.com"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	_, err = New(config.EmailConfig{Provider: "smtp"}, zerolog.Nop())
	assert.Error(t, err)
	_, err = New(config.EmailConfig{Provider: "resend"}, zerolog.Nop())
	assert.Error(t, err)
	_, err = New(config.EmailConfig{Provider: "pombo"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(zerolog.New(&buf))

	require.NoError(t, m.Enviar(context.Background(), ConfirmacaoCadastro("x@example.com", "a", "b")))
	assert.Contains(t, buf.String(), `"to":"x@example.com"`)

	assert.ErrorIs(t, m.Enviar(context.Background(), Mensagem{Para: "nope"}), ErrDestinatarioInvalido)
}

func TestMontarMensagem(t *testing.T) {
	raw := string(montarMensagem("from@example.com", ConfirmacaoCadastro("x@example.com", "a", "b")))

	assert.Contains(t, raw, "From: from@example.com\r\n")
	assert.Contains(t, raw, "To: x@example.com\r\n")
	assert.Contains(t, raw, "Subject: =?utf-8?q?")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nOlá, a! Seu serviço \"b\" foi cadastrado com sucesso."))
}

func newResendMailer(t *testing.T, handler http.HandlerFunc) *ResendMailer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	m := NewResendMailer("test-api-key", "from@example.com", zerolog.Nop())
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	m.client.BaseURL = base
	return m
}

func TestResendMailerSends(t *testing.T) {
	var got resend.SendEmailRequest
	m := newResendMailer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "mock-email-id"})
	})

	require.NoError(t, m.Enviar(context.Background(), ConfirmacaoCadastro("x@example.com", "a", "b")))
	assert.Equal(t, "from@example.com", got.From)
	assert.Equal(t, []string{"x@example.com"}, got.To)
	assert.Equal(t, "Seu serviço foi cadastrado!", got.Subject)
}

func TestResendMailerRateLimited(t *testing.T) {
	m := newResendMailer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Rate limit exceeded"})
	})

	err := m.Enviar(context.Background(), ConfirmacaoCadastro("x@example.com", "a", "b"))
	require.Error(t, err)
	assert.ErrorIs(t, err, resend.ErrRateLimit)
}
