package auth

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/itemforge/pkg/config"
	"github.com/ghuser/itemforge/pkg/logger"
)

// newTestStore returns a gorilla CookieStore (no Redis required) for unit tests.
// In production the RedisStore is used; the sessions.Store interface is identical.
func newTestStore() sessions.Store {
	return sessions.NewCookieStore(
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
	)
}

// newTestLogger creates a logger that discards output.
func newTestLogger() logger.Logger {
	return logger.NewWithWriter(&config.Config{LogLevel: "error"}, io.Discard)
}

// requestWithSession builds an *http.Request that carries a valid session
// cookie containing the given workspaceID.
func requestWithSession(t *testing.T, store sessions.Store, workspaceID uuid.UUID) *http.Request {
	t.Helper()

	// Write the session cookie into a recorder, then copy it to the real request.
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/item/templates", nil)

	session, err := store.Get(r, sessionName)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	session.Values[sessionWorkspaceKey] = workspaceID.String()
	if err := session.Save(r, w); err != nil {
		t.Fatalf("save session: %v", err)
	}

	// Copy Set-Cookie header from recorder to a fresh request.
	req := httptest.NewRequest(http.MethodPost, "/api/item/templates", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestRequireAuth_ValidSession(t *testing.T) {
	store := newTestStore()
	log := newTestLogger()
	workspaceID := uuid.New()

	var capturedWorkspaceID uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedWorkspaceID, _ = WorkspaceIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := requestWithSession(t, store, workspaceID)
	w := httptest.NewRecorder()
	RequireAuth(store, log)(next).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if capturedWorkspaceID != workspaceID {
		t.Fatalf("expected WorkspaceID %v in context, got %v", workspaceID, capturedWorkspaceID)
	}
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	store := newTestStore()
	log := newTestLogger()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	})

	r := httptest.NewRequest(http.MethodPost, "/api/item/templates", nil)
	w := httptest.NewRecorder()
	RequireAuth(store, log)(next).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_SessionMissingWorkspaceID(t *testing.T) {
	store := newTestStore()
	log := newTestLogger()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	})

	// Build a session with no workspace_id value.
	writeReq := httptest.NewRequest(http.MethodPost, "/api/item/templates", nil)
	w1 := httptest.NewRecorder()
	session, _ := store.Get(writeReq, sessionName)
	// intentionally no session.Values[sessionWorkspaceKey]
	_ = session.Save(writeReq, w1)

	r := httptest.NewRequest(http.MethodPost, "/api/item/templates", nil)
	for _, c := range w1.Result().Cookies() {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	RequireAuth(store, log)(next).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_InvalidWorkspaceIDInSession(t *testing.T) {
	store := newTestStore()
	log := newTestLogger()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	})

	writeReq := httptest.NewRequest(http.MethodPost, "/api/item/templates", nil)
	w1 := httptest.NewRecorder()
	session, _ := store.Get(writeReq, sessionName)
	session.Values[sessionWorkspaceKey] = "not-a-valid-uuid"
	_ = session.Save(writeReq, w1)

	r := httptest.NewRequest(http.MethodPost, "/api/item/templates", nil)
	for _, c := range w1.Result().Cookies() {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	RequireAuth(store, log)(next).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestFixedWorkspace_InjectsWorkspace(t *testing.T) {
	var got uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = WorkspaceIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/item/templates", nil)
	w := httptest.NewRecorder()
	FixedWorkspace(DefaultWorkspaceID)(next).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got != DefaultWorkspaceID {
		t.Fatalf("expected %v in context, got %v", DefaultWorkspaceID, got)
	}
}

func TestDefaultWorkspaceID_NotNil(t *testing.T) {
	// uuid.Nil is reserved for built-in templates.
	if DefaultWorkspaceID == uuid.Nil {
		t.Fatal("DefaultWorkspaceID must not be uuid.Nil")
	}
}

func TestWorkspaceMiddlewares_TagLogLines(t *testing.T) {
	workspaceID := uuid.New()
	store := newTestStore()

	tests := []struct {
		name string
		mw   func(http.Handler) http.Handler
		req  func() *http.Request
	}{
		{"RequireAuth", RequireAuth(store, newTestLogger()), func() *http.Request { return requestWithSession(t, store, workspaceID) }},
		{"FixedWorkspace", FixedWorkspace(workspaceID), func() *http.Request {
			return httptest.NewRequest(http.MethodGet, "/api/item/templates", http.NoBody)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.NewWithWriter(&config.Config{LogLevel: "info"}, &buf)

			h := tt.mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				log.InfoContext(r.Context(), "templates listed")
			}))
			h.ServeHTTP(httptest.NewRecorder(), tt.req())

			if !strings.Contains(buf.String(), `"workspace_id":"`+workspaceID.String()+`"`) {
				t.Fatalf("expected workspace_id on log line, got %s", buf.String())
			}
		})
	}
}
