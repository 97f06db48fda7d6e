package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/nexushq/nexus-core/internal/assistant"
	"github.com/nexushq/nexus-core/internal/audit"
	"github.com/nexushq/nexus-core/internal/directory"
	"github.com/nexushq/nexus-core/internal/kvstore"
	"github.com/nexushq/nexus-core/internal/session"
	"github.com/nexushq/nexus-core/internal/vault"
	"github.com/nexushq/nexus-core/internal/workspace"
	"github.com/nexushq/nexus-core/pkg/schema"
)

type stubGenerator struct {
	text string
	err  error
}

func (s stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

func setupRouter(t *testing.T, gen assistant.Generator) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := kvstore.NewMemory()
	clock := clockwork.NewFakeClock()
	sessions := session.NewManager(store)
	auditLog := audit.New(store, clock)
	ws := workspace.New(store, clock, zap.NewNop(), auditLog)

	key := bytes.Repeat([]byte{0x17}, 32)
	keyring, err := vault.NewKeyring(store, key)
	if err != nil {
		t.Fatalf("keyring: %v", err)
	}

	h := &Handler{
		Directory: directory.New(store, sessions),
		Sessions:  sessions,
		Workspace: ws,
		Audit:     auditLog,
		Assistant: assistant.NewService(gen),
		Keyring:   keyring,
		Store:     store,
		Log:       zap.NewNop(),
	}
	return Router(h), h
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, r *gin.Engine) schema.User {
	t.Helper()
	w := do(r, "POST", "/api/auth/register", gin.H{
		"name": "Ana", "email": "ana@acme.io", "password": "secret",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", w.Code, w.Body.String())
	}
	var u schema.User
	json.Unmarshal(w.Body.Bytes(), &u)
	return u
}

func TestRegisterAndSession(t *testing.T) {
	r, _ := setupRouter(t, stubGenerator{})
	u := register(t, r)

	w := do(r, "GET", "/api/session", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("session: status %d", w.Code)
	}
	var current schema.User
	json.Unmarshal(w.Body.Bytes(), &current)
	if current.ID != u.ID {
		t.Errorf("session user %s, want %s", current.ID, u.ID)
	}

	// Duplicate email rejected.
	w = do(r, "POST", "/api/auth/register", gin.H{
		"name": "Other", "email": "ana@acme.io", "password": "x",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register: status %d", w.Code)
	}
}

func TestLoginFailure(t *testing.T) {
	r, _ := setupRouter(t, stubGenerator{})
	register(t, r)

	w := do(r, "POST", "/api/auth/login", gin.H{"email": "ana@acme.io", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login: status %d", w.Code)
	}

	w = do(r, "POST", "/api/auth/login", gin.H{"email": "ana@acme.io", "password": "secret"})
	if w.Code != http.StatusOK {
		t.Errorf("good login: status %d body %s", w.Code, w.Body.String())
	}
}

func TestLogout(t *testing.T) {
	r, _ := setupRouter(t, stubGenerator{})
	register(t, r)

	if w := do(r, "POST", "/api/auth/logout", nil); w.Code != http.StatusOK {
		t.Fatalf("logout: status %d", w.Code)
	}
	if w := do(r, "GET", "/api/session", nil); w.Code != http.StatusNotFound {
		t.Errorf("session after logout: status %d", w.Code)
	}
	// A mutating call without a session is unauthorized.
	if w := do(r, "POST", "/api/channels", gin.H{"name": "general"}); w.Code != http.StatusUnauthorized {
		t.Errorf("channel create without session: status %d", w.Code)
	}
}

func TestChannelAndMessageFlow(t *testing.T) {
	r, _ := setupRouter(t, stubGenerator{})
	u := register(t, r)

	w := do(r, "POST", "/api/channels", gin.H{"name": "Deal Room", "private": true})
	if w.Code != http.StatusCreated {
		t.Fatalf("create channel: status %d body %s", w.Code, w.Body.String())
	}
	var ch schema.Channel
	json.Unmarshal(w.Body.Bytes(), &ch)
	if ch.Name != "deal-room" || ch.Type != schema.ChannelPrivate {
		t.Errorf("unexpected channel: %+v", ch)
	}

	w = do(r, "POST", "/api/channels/"+ch.ID+"/messages", gin.H{"content": "kickoff at 3pm"})
	if w.Code != http.StatusCreated {
		t.Fatalf("send message: status %d", w.Code)
	}
	var msg schema.Message
	json.Unmarshal(w.Body.Bytes(), &msg)
	if msg.SenderID != u.ID {
		t.Errorf("sender %s, want %s", msg.SenderID, u.ID)
	}

	// Audit trail records the actions newest-first.
	w = do(r, "GET", "/api/audit", nil)
	var entries []schema.AuditEntry
	json.Unmarshal(w.Body.Bytes(), &entries)
	if len(entries) != 2 || entries[0].Action != workspace.ActionSendMessage {
		t.Errorf("unexpected audit trail: %+v", entries)
	}

	if w := do(r, "POST", "/api/channels/missing/messages", gin.H{"content": "x"}); w.Code != http.StatusNotFound {
		t.Errorf("message to unknown channel: status %d", w.Code)
	}
}

func TestContactWonFlow(t *testing.T) {
	r, h := setupRouter(t, stubGenerator{})
	register(t, r)

	do(r, "POST", "/api/channels", gin.H{"name": "general"})

	w := do(r, "POST", "/api/contacts", gin.H{
		"name": "Bob", "company": "Initech", "value": 50000, "stage": "NEGOTIATION",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create contact: status %d body %s", w.Code, w.Body.String())
	}
	var ct schema.Contact
	json.Unmarshal(w.Body.Bytes(), &ct)

	ct.Stage = schema.StageWon
	w = do(r, "PUT", "/api/contacts/"+ct.ID, ct)
	if w.Code != http.StatusOK {
		t.Fatalf("update contact: status %d body %s", w.Code, w.Body.String())
	}

	msgs := h.Workspace.Channels()[0].Messages
	if len(msgs) != 1 || msgs[0].SenderID != schema.BotUserID {
		t.Fatalf("expected one announcement, got %+v", msgs)
	}

	// Saving again while WON must not announce again.
	do(r, "PUT", "/api/contacts/"+ct.ID, ct)
	if got := len(h.Workspace.Channels()[0].Messages); got != 1 {
		t.Errorf("announcement repeated: %d", got)
	}
}

func TestContactValidation(t *testing.T) {
	r, _ := setupRouter(t, stubGenerator{})
	register(t, r)

	if w := do(r, "POST", "/api/contacts", gin.H{"name": "Bob", "value": -5}); w.Code != http.StatusBadRequest {
		t.Errorf("negative value: status %d", w.Code)
	}
	if w := do(r, "POST", "/api/contacts", gin.H{"name": "Bob", "stage": "SHIPPED"}); w.Code != http.StatusBadRequest {
		t.Errorf("unknown stage: status %d", w.Code)
	}
}

func TestUpgradePlan(t *testing.T) {
	r, _ := setupRouter(t, stubGenerator{})
	u := register(t, r)

	w := do(r, "POST", fmt.Sprintf("/api/users/%s/upgrade", u.ID), gin.H{"code": "bogus-code"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bogus code: status %d", w.Code)
	}
	// Plan unchanged after a rejected code.
	var current schema.User
	json.Unmarshal(do(r, "GET", "/api/session", nil).Body.Bytes(), &current)
	if current.Plan != schema.PlanFree {
		t.Errorf("plan altered by invalid code: %s", current.Plan)
	}

	w = do(r, "POST", fmt.Sprintf("/api/users/%s/upgrade", u.ID), gin.H{"code": "NEXUS-PRO-2025"})
	if w.Code != http.StatusOK {
		t.Fatalf("valid code: status %d body %s", w.Code, w.Body.String())
	}
	json.Unmarshal(do(r, "GET", "/api/session", nil).Body.Bytes(), &current)
	if current.Plan != schema.PlanPremium {
		t.Errorf("plan not upgraded: %s", current.Plan)
	}
}

func TestBotConfigRoundTrip(t *testing.T) {
	r, _ := setupRouter(t, stubGenerator{})
	register(t, r)

	if w := do(r, "GET", "/api/settings/bot", nil); w.Code != http.StatusNotFound {
		t.Errorf("unset bot config: status %d", w.Code)
	}

	cfg := schema.BotConfig{Name: "Atlas", Role: schema.BotAuditor, Personality: "blunt", FocusAreas: []string{"sales"}}
	if w := do(r, "PUT", "/api/settings/bot", cfg); w.Code != http.StatusOK {
		t.Fatalf("save bot config: status %d", w.Code)
	}
	if w := do(r, "PUT", "/api/settings/bot", gin.H{"name": "X", "role": "pirate"}); w.Code != http.StatusBadRequest {
		t.Errorf("invalid role: status %d", w.Code)
	}

	w := do(r, "GET", "/api/settings/bot", nil)
	var loaded schema.BotConfig
	json.Unmarshal(w.Body.Bytes(), &loaded)
	if loaded.Name != "Atlas" || loaded.Role != schema.BotAuditor {
		t.Errorf("unexpected config: %+v", loaded)
	}
}

func TestAssistantErrorSurfacesAsText(t *testing.T) {
	r, _ := setupRouter(t, stubGenerator{err: fmt.Errorf("%w: quota exceeded", assistant.ErrExternalService)})
	register(t, r)

	w := do(r, "POST", "/api/assistant/insight", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("assistant error: status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "AI error") {
		t.Errorf("no displayable error string: %s", w.Body.String())
	}
}

func TestAssistantInsight(t *testing.T) {
	r, _ := setupRouter(t, stubGenerator{text: "Focus on Initech today."})
	register(t, r)

	w := do(r, "POST", "/api/assistant/insight", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("insight: status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Focus on Initech") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestSaveAPIKey(t *testing.T) {
	r, h := setupRouter(t, stubGenerator{})
	register(t, r)

	if w := do(r, "PUT", "/api/settings/apikey", gin.H{"apiKey": "sk-live-123"}); w.Code != http.StatusOK {
		t.Fatalf("save api key: status %d", w.Code)
	}
	got, ok, err := h.Keyring.LoadAPIKey()
	if err != nil || !ok || got != "sk-live-123" {
		t.Errorf("keyring load: %q ok=%v err=%v", got, ok, err)
	}
}
