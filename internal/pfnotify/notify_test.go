package pfnotify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, "texte simple", escapeMarkdown("texte simple"))
	assert.Equal(t, "a\\_b \\*c\\* \\[d \\`e\\`", escapeMarkdown("a_b *c* [d `e`"))
}

func TestTelegram_SendContact(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer server.Close()

	tg := NewTelegram("token", "42")
	tg.BaseURL = server.URL

	err := tg.SendContact(ContactNotification{
		Name:    "Alice_B",
		Email:   "alice@example.com",
		Message: "Bonjour",
	})
	require.NoError(t, err)

	assert.Equal(t, "42", received["chat_id"])
	assert.Equal(t, "Markdown", received["parse_mode"])
	text := received["text"].(string)
	assert.Contains(t, text, "Alice\\_B")
	assert.Contains(t, text, "alice@example.com")
	assert.Contains(t, text, "Bonjour")
}

func TestTelegram_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "chat not found"})
	}))
	defer server.Close()

	tg := NewTelegram("token", "42")
	tg.BaseURL = server.URL

	err := tg.SendContact(ContactNotification{Name: "A", Email: "a@b.com", Message: "x"})
	assert.ErrorContains(t, err, "chat not found")
}

func TestTelegram_MissingCredentials(t *testing.T) {
	assert.Nil(t, NewTelegram("", "42"))
	assert.Nil(t, NewTelegram("token", ""))
}

func TestWablas_SendContact(t *testing.T) {
	var received map[string]any
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/send-message", r.URL.Path)
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]any{"status": true})
	}))
	defer server.Close()

	w := NewWablas(server.URL, "apikey", "secret", "628123456")
	err := w.SendContact(ContactNotification{Name: "Alice", Email: "a@b.com", Message: "Bonjour"})
	require.NoError(t, err)

	assert.Equal(t, "apikey", authHeader)
	assert.Equal(t, "628123456", received["phone"])
	assert.Equal(t, "secret", received["secret"])
	assert.Equal(t, false, received["retry"])
	assert.Equal(t, false, received["isGroup"])
	assert.Contains(t, received["message"], "Alice")
}

func TestWablas_GatewayRejects(t *testing.T) {
	// La passerelle signale l'échec via son champ status, pas le code HTTP
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": false, "message": "invalid number"})
	}))
	defer server.Close()

	w := NewWablas(server.URL, "apikey", "", "628123456")
	err := w.SendContact(ContactNotification{Name: "A", Email: "a@b.com", Message: "x"})
	assert.ErrorContains(t, err, "invalid number")
}

func TestEmailJS_SendOTP(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	e := NewEmailJS(server.URL, "service_1", "user_1", "tmpl_otp", "tmpl_notify", "admin@example.com")
	require.NoError(t, e.SendOTP("123456"))

	assert.Equal(t, "service_1", received["service_id"])
	assert.Equal(t, "tmpl_otp", received["template_id"])
	assert.Equal(t, "user_1", received["user_id"])

	params := received["template_params"].(map[string]any)
	assert.Equal(t, "123456", params["otp_code"])
	assert.Equal(t, "admin@example.com", params["to_email"])
}

func TestEmailJS_SendContact(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	e := NewEmailJS(server.URL, "service_1", "user_1", "tmpl_otp", "tmpl_notify", "admin@example.com")
	err := e.SendContact(ContactNotification{Name: "Alice", Email: "a@b.com", Message: "Bonjour"})
	require.NoError(t, err)

	assert.Equal(t, "tmpl_notify", received["template_id"])
	params := received["template_params"].(map[string]any)
	assert.Equal(t, "Alice", params["from_name"])
	assert.Equal(t, "a@b.com", params["from_email"])
}

func TestEmailJS_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	e := NewEmailJS(server.URL, "service_1", "user_1", "tmpl_otp", "", "admin@example.com")
	assert.Error(t, e.SendOTP("123456"))
}

type fakeChannel struct {
	name string
	fail bool
	sent int
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) SendContact(n ContactNotification) error {
	if f.fail {
		return assert.AnError
	}
	f.sent++
	return nil
}

func TestNotifier_FanOut(t *testing.T) {
	ok1 := &fakeChannel{name: "ok1"}
	ko := &fakeChannel{name: "ko", fail: true}
	ok2 := &fakeChannel{name: "ok2"}

	n := NewNotifier(ok1, ko, ok2, nil)
	assert.True(t, n.HasChannels())

	// L'échec d'un canal n'empêche pas les autres
	sent := n.NotifyContact(ContactNotification{Name: "A", Email: "a@b.com", Message: "x"})
	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, ok1.sent)
	assert.Equal(t, 1, ok2.sent)
}

func TestNotifier_Empty(t *testing.T) {
	n := NewNotifier()
	assert.False(t, n.HasChannels())
	assert.Equal(t, 0, n.NotifyContact(ContactNotification{}))
}
