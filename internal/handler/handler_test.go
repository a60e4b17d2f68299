package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/lawease/lawease/internal/blob"
	"github.com/lawease/lawease/internal/config"
	"github.com/lawease/lawease/internal/handler"
	"github.com/lawease/lawease/internal/queue"
	"github.com/lawease/lawease/internal/router"
	"github.com/lawease/lawease/internal/store"
	"github.com/lawease/lawease/internal/store/jsonfile"
)

// testEnv spins up the full API against a jsonfile store and a local blob
// store in temp dirs. No redis and no broker, so the rate limiter passes
// through and audit fanout is off.
type testEnv struct {
	e    *echo.Echo
	st   store.Store
	blob blob.Store
	cfg  config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	st, err := jsonfile.Open(filepath.Join(dir, "data.json"))
	require.NoError(t, err)
	bs, err := blob.NewLocalStore(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	cfg := config.Config{
		Env:            "test",
		JWTSecret:      "test-secret",
		SessionTTL:     time.Hour,
		BcryptCost:     4,
		ResetTokenTTL:  30 * time.Minute,
		MaxUploadBytes: 1 << 20,
		AllowedOrigins: []string{"http://localhost:5500"},
	}

	var pub *queue.Publisher
	e := echo.New()
	router.Register(e, router.Deps{
		Cfg:       cfg,
		Store:     st,
		Auth:      handler.NewAuthHandler(cfg, st, pub),
		Admin:     handler.NewAdminHandler(st, pub),
		Clients:   handler.NewClientHandler(st, pub),
		Cases:     handler.NewCaseHandler(st, pub),
		Documents: handler.NewDocumentHandler(cfg, st, bs, pub),
		Messages:  handler.NewMessageHandler(st, pub),
		Stats:     handler.NewStatsHandler(st),
		Audit:     handler.NewAuditHandler(st),
	})

	return &testEnv{e: e, st: st, blob: bs, cfg: cfg}
}

// doJSON sends a JSON request, with a bearer token when given.
func (env *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// signup registers an account and returns the session token and the user's
// public view.
func (env *testEnv) signup(t *testing.T, name, email, password, role string) (string, map[string]any) {
	t.Helper()
	rec := env.doJSON(t, http.MethodPost, "/api/auth/signup", "", echo.Map{
		"name": name, "email": email, "password": password, "role": role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User
}

func (env *testEnv) createClient(t *testing.T, token, fullName string) map[string]any {
	t.Helper()
	rec := env.doJSON(t, http.MethodPost, "/api/clients", token, echo.Map{"fullName": fullName})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Client map[string]any `json:"client"`
	}
	decode(t, rec, &resp)
	return resp.Client
}

type filePart struct {
	name, contentType string
	content           []byte
}

// doMultipart sends a multipart form with the given fields and an optional
// file part carrying an explicit content type.
func (env *testEnv) doMultipart(t *testing.T, method, path, token string, fields map[string]string, file *filePart) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+file.name+`"`)
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}
