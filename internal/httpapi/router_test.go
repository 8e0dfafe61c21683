package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ergolab/consulta/internal/ai"
	"github.com/ergolab/consulta/internal/configcache"
	"github.com/ergolab/consulta/internal/consult"
	"github.com/ergolab/consulta/internal/db"
	"github.com/ergolab/consulta/internal/httpapi/handlers"
	"github.com/ergolab/consulta/internal/httpapi/middleware"
	"github.com/ergolab/consulta/internal/session"
	"github.com/ergolab/consulta/internal/store"
)

type fakeProvider struct {
	reply  string
	tokens int
}

func (f *fakeProvider) GenerateContent(_ context.Context, _ ai.Request) (*ai.Result, error) {
	return &ai.Result{Text: f.reply, TokensUsed: f.tokens}, nil
}

var testDBSeq atomic.Int64

type testEnv struct {
	router *gin.Engine
	repo   *store.Repo
}

func newTestEnv(t *testing.T, chatMax int) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	repo := store.NewRepo(gdb)
	cache := configcache.New(repo)
	require.NoError(t, cache.Initialize(context.Background()))

	sessions := session.NewMemoryStore(time.Hour)
	svc := consult.NewService(repo, cache, &fakeProvider{reply: "Resposta da IA.", tokens: 100}, nil)
	h := handlers.NewHandler(repo, cache, sessions, svc)

	limiter := middleware.NewRateLimiter(chatMax, time.Minute)
	return &testEnv{router: NewRouter(h, sessions, limiter), repo: repo}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/admin/login", gin.H{"username": "admin", "password": "senha123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c.Value
		}
	}
	t.Fatal("session cookie not set on login")
	return ""
}

func TestProfileLifecycle(t *testing.T) {
	e := newTestEnv(t, 10)

	profile := gin.H{
		"sessionId": "sess-1", "gender": "masculino", "goal": "ganho_massa",
		"preferences": []string{"oral"}, "age": 28, "experience": 3,
	}
	w := e.do(t, http.MethodPost, "/api/profile", profile, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decodeJSON(t, w)
	assert.Equal(t, "ganho_massa", created["goal"])

	// idempotent on sessionId
	w = e.do(t, http.MethodPost, "/api/profile", profile, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created["id"], decodeJSON(t, w)["id"])

	w = e.do(t, http.MethodGet, "/api/profile/sess-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, "/api/profile/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Usuário não encontrado"}`, w.Body.String())

	w = e.do(t, http.MethodPost, "/api/profile", gin.H{"sessionId": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Dados do perfil inválidos"}`, w.Body.String())
}

func TestChatFlow(t *testing.T) {
	e := newTestEnv(t, 10)
	e.do(t, http.MethodPost, "/api/profile", gin.H{
		"sessionId": "sess-1", "gender": "feminino", "goal": "cutting", "age": 27,
	}, "")

	w := e.do(t, http.MethodPost, "/api/chat", gin.H{"sessionId": "sess-1", "message": "Oi"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reply := decodeJSON(t, w)
	assert.Equal(t, "ai", reply["sender"])
	assert.Equal(t, "Resposta da IA.", reply["message"])

	w = e.do(t, http.MethodGet, "/api/conversations/sess-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var convs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &convs))
	assert.Len(t, convs, 2)

	w = e.do(t, http.MethodPost, "/api/chat", gin.H{"sessionId": "missing", "message": "Oi"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatRateLimit(t *testing.T) {
	e := newTestEnv(t, 2)
	e.do(t, http.MethodPost, "/api/profile", gin.H{
		"sessionId": "sess-1", "gender": "masculino", "goal": "cutting", "age": 30,
	}, "")

	body := gin.H{"sessionId": "sess-1", "message": "Oi"}
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/chat", body, "").Code)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/consultation", body, "").Code)

	// chat and consultation share one limiter
	w := e.do(t, http.MethodPost, "/api/chat", body, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestCalculatorEndpoints(t *testing.T) {
	e := newTestEnv(t, 10)

	w := e.do(t, http.MethodPost, "/api/calculators/tmb", gin.H{
		"sessionId": "sess-1", "age": 25, "weight": 70, "height": 170,
		"gender": "masculino", "activityLevel": "moderado",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decodeJSON(t, w)
	assert.EqualValues(t, 1700, res["tmb"])
	assert.EqualValues(t, 2635, res["tdee"])

	w = e.do(t, http.MethodPost, "/api/calculators/macros", gin.H{
		"sessionId": "sess-1", "calories": 2000, "objective": "cutting", "weight": 80,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	// weight is optional; the per-kg figure comes back null, not a broken body
	w = e.do(t, http.MethodPost, "/api/calculators/macros", gin.H{
		"sessionId": "sess-1", "calories": 2000, "objective": "cutting",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	macros := decodeJSON(t, w)
	assert.Nil(t, macros["proteinaPorKg"])
	assert.NotNil(t, macros["proteina"])

	w = e.do(t, http.MethodGet, "/api/calculators/sess-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var calcs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &calcs))
	assert.Len(t, calcs, 3)
}

func TestAdminAuth(t *testing.T) {
	e := newTestEnv(t, 10)

	w := e.do(t, http.MethodGet, "/api/admin/dashboard", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Acesso negado"}`, w.Body.String())

	w = e.do(t, http.MethodGet, "/api/admin/dashboard", nil, "not-a-session")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodPost, "/api/admin/login", gin.H{"username": "admin", "password": "errada"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Credenciais inválidas"}`, w.Body.String())

	w = e.do(t, http.MethodPost, "/api/admin/login", gin.H{"username": "admin"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	cookie := e.login(t)
	w = e.do(t, http.MethodGet, "/api/admin/dashboard", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dash := decodeJSON(t, w)
	assert.Contains(t, dash, "totalUsers")
	assert.Contains(t, dash, "apiUsage")

	w = e.do(t, http.MethodPost, "/api/admin/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, "/api/admin/dashboard", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "session must be gone after logout")
}

func TestAdminSettings(t *testing.T) {
	e := newTestEnv(t, 10)
	cookie := e.login(t)

	w := e.do(t, http.MethodGet, "/api/admin/settings", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var settings []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.NotEmpty(t, settings, "defaults are seeded on startup")

	w = e.do(t, http.MethodPost, "/api/admin/settings", gin.H{
		"key": "ai_temperature", "value": "0.9", "category": "ai",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "0.9", decodeJSON(t, w)["value"])

	w = e.do(t, http.MethodPost, "/api/admin/settings", gin.H{"key": "sem_valor"}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminProductCRUD(t *testing.T) {
	e := newTestEnv(t, 10)
	cookie := e.login(t)

	w := e.do(t, http.MethodPost, "/api/admin/products", gin.H{
		"name": "Whey", "category": "suplemento", "dosageInfo": "30g/dia",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decodeJSON(t, w)
	id := fmt.Sprintf("%.0f", created["id"].(float64))

	w = e.do(t, http.MethodPut, "/api/admin/products/"+id, gin.H{"name": "Whey Isolado"}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeJSON(t, w)
	assert.Equal(t, "Whey Isolado", updated["name"])
	assert.Equal(t, "30g/dia", updated["dosageInfo"], "partial update keeps other fields")

	w = e.do(t, http.MethodPut, "/api/admin/products/9999", gin.H{"name": "x"}, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Registro não encontrado"}`, w.Body.String())

	w = e.do(t, http.MethodDelete, "/api/admin/products/"+id, nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, "/api/admin/products", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var products []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.Empty(t, products)

	w = e.do(t, http.MethodPost, "/api/admin/products", gin.H{"name": "Sem categoria"}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	e := newTestEnv(t, 10)

	w := e.do(t, http.MethodGet, "/api/nada", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Rota não encontrada"}`, w.Body.String())

	w = e.do(t, http.MethodDelete, "/api/profile", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
