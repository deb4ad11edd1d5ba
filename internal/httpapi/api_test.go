package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/DoyleJ11/portfolio-backend/internal/chat"
	"github.com/DoyleJ11/portfolio-backend/internal/clock"
	"github.com/DoyleJ11/portfolio-backend/internal/contact"
	"github.com/DoyleJ11/portfolio-backend/internal/hub"
	"github.com/DoyleJ11/portfolio-backend/internal/layout"
	"github.com/DoyleJ11/portfolio-backend/internal/projects"
	"github.com/DoyleJ11/portfolio-backend/internal/resume"
	"github.com/DoyleJ11/portfolio-backend/internal/section"
	"github.com/DoyleJ11/portfolio-backend/internal/store"
	"github.com/DoyleJ11/portfolio-backend/internal/types"
)

const adminToken = "let-me-in"

func newTestServer(t *testing.T, chatURL string) *httptest.Server {
	t.Helper()
	log := zaptest.NewLogger(t)

	h := hub.NewHub(context.Background(), hub.Config{Clock: clock.NewFake(time.Unix(0, 0)), Logger: log})
	t.Cleanup(func() { h.Inbox() <- hub.ShutdownHub{} })

	st, err := store.Open(context.Background(), store.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte(adminToken), bcrypt.MinCost)
	require.NoError(t, err)

	srv := httptest.NewServer(SetupRoutes(Deps{
		Hub:            h,
		Store:          st,
		Contact:        contact.NewService(st, log),
		Chat:           chat.NewProxy(chat.Config{URL: chatURL, Key: "k", Prompt: "p", Logger: log}),
		AdminTokenHash: string(hash),
		AllowedOrigins: []string{"*"},
		Logger:         log,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, body any, hdr ...string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

// decodeAs unmarshals into a fresh value so fields omitted from one response
// never carry over from an earlier one.
func decodeAs[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func mount(t *testing.T, srv *httptest.Server, catalogName string) string {
	t.Helper()
	resp, data := do(t, http.MethodPost, srv.URL+"/sections", types.MountRequest{Catalog: catalogName, Width: 1300})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	var m types.MountResponse
	require.NoError(t, json.Unmarshal(data, &m))
	return m.ID
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, "")
	resp, _ := do(t, http.MethodGet, srv.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Headers"))
}

func TestSections_Lifecycle(t *testing.T) {
	srv := newTestServer(t, "")
	id := mount(t, srv, "skills")
	base := srv.URL + "/sections/" + id

	resp, data := do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decodeAs[section.View](t, data)
	assert.Equal(t, id, v.ID)
	assert.False(t, v.State.Visible)

	resp, data = do(t, http.MethodPost, base+"/visibility", map[string]float64{"top": 2000, "bottom": 2400, "viewport_height": 800})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"visible":false}`, string(data))

	resp, data = do(t, http.MethodPost, base+"/visibility", map[string]float64{"top": 200, "bottom": 800, "viewport_height": 800})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"visible":true}`, string(data))

	resp, data = do(t, http.MethodPut, base+"/hover", types.HoverRequest{ItemID: "frontend"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = decodeAs[section.View](t, data)
	assert.Equal(t, 1, v.Frame.Display.Index)
	assert.True(t, v.Frame.Display.Hovered)

	resp, data = do(t, http.MethodDelete, base+"/hover", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = decodeAs[section.View](t, data)
	assert.False(t, v.Hover.Active())

	resp, data = do(t, http.MethodPost, base+"/pause", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = decodeAs[section.View](t, data)
	assert.True(t, v.State.Paused)

	resp, data = do(t, http.MethodPost, base+"/resume", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = decodeAs[section.View](t, data)
	assert.False(t, v.State.Paused)

	resp, _ = do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSections_MountErrors(t *testing.T) {
	srv := newTestServer(t, "")

	resp, _ := do(t, http.MethodPost, srv.URL+"/sections", types.MountRequest{Catalog: "nope"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, srv.URL+"/sections", types.MountRequest{Catalog: "skills", Layout: "spiral"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, data := do(t, http.MethodPost, srv.URL+"/sections", map[string]string{"catalog": "skills", "colour": "red"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(data), "bad json")
}

func TestLayout(t *testing.T) {
	srv := newTestServer(t, "")

	resp, data := do(t, http.MethodGet, srv.URL+"/layout/skills?index=2&progress=1&width=1300", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	f := decodeAs[layout.Frame](t, data)
	assert.Equal(t, layout.StrategyLinear, f.Strategy)
	assert.Equal(t, 2, f.Display.Index)
	assert.NotEmpty(t, f.SubNodes)

	resp, data = do(t, http.MethodGet, srv.URL+"/layout/skills?index=2&progress=0.5", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	f = decodeAs[layout.Frame](t, data)
	assert.Empty(t, f.SubNodes)

	resp, data = do(t, http.MethodGet, srv.URL+"/layout/achievements?hover=ibm&rotation=30", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	f = decodeAs[layout.Frame](t, data)
	assert.Equal(t, layout.StrategyRadial, f.Strategy)
	assert.Equal(t, 5, f.Display.Index)

	resp, _ = do(t, http.MethodGet, srv.URL+"/layout/skills?width=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, http.MethodGet, srv.URL+"/layout/skills?progress=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, http.MethodGet, srv.URL+"/layout/unknown", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResume(t *testing.T) {
	srv := newTestServer(t, "")

	resp, data := do(t, http.MethodGet, srv.URL+"/api/resume", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var roles []resume.Role
	require.NoError(t, json.Unmarshal(data, &roles))
	assert.Equal(t, resume.Roles(), roles)

	resp, data = do(t, http.MethodGet, srv.URL+"/api/resume/astronaut", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got resumeResponse
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, got.Fallback)
	assert.Equal(t, resume.DefaultRole, got.Role)
}

func TestProjects(t *testing.T) {
	srv := newTestServer(t, "")

	resp, data := do(t, http.MethodGet, srv.URL+"/api/projects", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, projects.All(), decodeAs[[]projects.Project](t, data))

	resp, data = do(t, http.MethodGet, srv.URL+"/api/projects/movie-recommender", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decodeAs[projects.Project](t, data)
	assert.Equal(t, "Movie Recommender", p.Title)
	assert.Contains(t, p.Features, "80% recommendation accuracy")

	resp, data = do(t, http.MethodGet, srv.URL+"/api/projects/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, decodeAs[types.ErrorResponse](t, data).Error, "project not found")
}

func TestContactAndAdmin(t *testing.T) {
	srv := newTestServer(t, "")

	resp, data := do(t, http.MethodPost, srv.URL+"/api/contact", contact.Form{Name: "Ada", Email: "bad"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e types.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &e))
	assert.Contains(t, e.Fields, "email")
	assert.Contains(t, e.Fields, "message")

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/contact", contact.Form{Name: "Ada", Email: "ada@example.com", Message: "Loved the skills animation!"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/admin/messages", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = do(t, http.MethodGet, srv.URL+"/admin/messages", nil, "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, data = do(t, http.MethodGet, srv.URL+"/admin/messages", nil, "Authorization", "Bearer "+adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var msgs []contact.Message
	require.NoError(t, json.Unmarshal(data, &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, "Ada", msgs[0].Name)

	resp, _ = do(t, http.MethodGet, srv.URL+"/admin/messages", nil, "Cookie", "admin_token="+adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChat(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
		_, _ = io.WriteString(w, "data: hello\n\n")
	}))
	defer upstream.Close()
	srv := newTestServer(t, upstream.URL)
	req := chat.Request{Messages: []chat.Message{{Role: "user", Content: "hi"}}}

	resp, data := do(t, http.MethodPost, srv.URL+"/api/chat", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "data: hello\n\n", string(data))

	status.Store(http.StatusTooManyRequests)
	resp, data = do(t, http.MethodPost, srv.URL+"/api/chat", req)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, string(data), "too many requests")
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, "")
	resp, _ := do(t, http.MethodOptions, srv.URL+"/api/chat", nil, "Origin", "https://example.com")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
