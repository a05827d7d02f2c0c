package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/myposcore/backend/internal/checks"
	"github.com/myposcore/backend/internal/i18n"
	"github.com/myposcore/backend/internal/middleware"
	"github.com/myposcore/backend/internal/response"
)

const miniCollection = `{
  "info": {"name": "Mini"},
  "item": [
    {
      "name": "Ping",
      "response": [
        {"name": "OK", "code": 200, "body": "{\"code\":0,\"message\":\"pong\"}"},
        {"name": "Missing", "code": 404, "body": "{\"error\":\"gone\"}"}
      ]
    }
  ]
}`

func init() {
	gin.SetMode(gin.TestMode)
	if err := i18n.Load(); err != nil {
		panic(err)
	}
}

func do(r *gin.Engine, method, target, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	assert.Equal(t, response.ContentTypeJSON, w.Header().Get("Content-Type"))
	require.NoError(t, response.Validate(w.Code, w.Body.Bytes()))
	env, err := response.Decode(w.Body.Bytes())
	require.NoError(t, err)
	return env
}

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/health", Health)

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"message":"ok","data":{"status":"ok"}}`, w.Body.String())
}

func TestStatusCodesLocalized(t *testing.T) {
	r := gin.New()
	r.Use(middleware.LanguageMiddleware())
	r.GET("/status-codes", StatusCodes)

	w := do(r, http.MethodGet, "/status-codes", "", "Accept-Language", "id")
	decodeEnvelope(t, w)
	items := gjson.Get(w.Body.String(), "data").Array()
	require.Len(t, items, len(response.Codes()))
	assert.Equal(t, int64(6), items[6].Get("code").Int())
	assert.Equal(t, "conflict", items[6].Get("name").String())
	assert.Equal(t, int64(409), items[6].Get("status").Int())
	assert.Equal(t, "Sumber daya bertentangan dengan kondisi saat ini", items[6].Get("message").String())

	w = do(r, http.MethodGet, "/status-codes", "")
	assert.Equal(t, "Operation successful", gjson.Get(w.Body.String(), "data.0.message").String())
}

func TestValidateEnvelope(t *testing.T) {
	r := gin.New()
	r.POST("/validate", ValidateEnvelope)

	cases := []struct {
		name     string
		body     string
		status   int
		code     int64
		valid    bool
		problems int
	}{
		{"valid object", `{"status":200,"body":{"code":0,"message":"ok","data":[]}}`, 200, 0, true, 0},
		{"valid string body", `{"status":404,"body":"{\"code\":4,\"message\":\"not found\"}"}`, 200, 0, true, 0},
		{"mismatch", `{"status":409,"body":{"code":1,"message":"dup"}}`, 200, 0, false, 1},
		{"legacy", `{"status":404,"body":{"error":"gone"}}`, 200, 0, false, 2},
		{"malformed", `{"status":`, 400, 1, false, 0},
		{"missing body", `{"status":200}`, 400, 1, false, 0},
		{"status out of range", `{"status":600,"body":{}}`, 422, 7, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/validate", tc.body)
			assert.Equal(t, tc.status, w.Code)
			env := decodeEnvelope(t, w)
			assert.Equal(t, tc.code, int64(env.Code))
			if tc.status != http.StatusOK {
				assert.False(t, env.HasData())
				return
			}
			assert.Equal(t, tc.valid, gjson.Get(w.Body.String(), "data.valid").Bool())
			assert.Len(t, gjson.Get(w.Body.String(), "data.problems").Array(), tc.problems)
		})
	}
}

func TestCollectionCheckAndFix(t *testing.T) {
	h := NewCollectionHandler(1 << 20)
	r := gin.New()
	r.POST("/check", h.Check)
	r.POST("/fix", h.Fix)

	w := do(r, http.MethodPost, "/check", miniCollection)
	assert.Equal(t, http.StatusOK, w.Code)
	decodeEnvelope(t, w)
	assert.Equal(t, int64(2), gjson.Get(w.Body.String(), "data.total").Int())
	assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "data.valid").Int())
	assert.Equal(t, "Ping > Missing", gjson.Get(w.Body.String(), "data.issues.0.where").String())

	w = do(r, http.MethodPost, "/fix", miniCollection)
	assert.Equal(t, http.StatusOK, w.Code)
	decodeEnvelope(t, w)
	out := gjson.Parse(w.Body.String())
	assert.Equal(t, int64(2), out.Get("data.report.examined").Int())
	assert.Len(t, out.Get("data.report.fixed").Array(), 1)
	fixed := out.Get("data.collection.item.0.response.1.body").String()
	assert.NoError(t, response.Validate(404, []byte(fixed)))
	assert.Equal(t, "gone", gjson.Get(fixed, "message").String())
	// the valid example is byte-identical
	assert.Equal(t, `{"code":0,"message":"pong"}`, out.Get("data.collection.item.0.response.0.body").String())
}

func TestCollectionRejects(t *testing.T) {
	h := NewCollectionHandler(64)
	r := gin.New()
	r.POST("/check", h.Check)

	w := do(r, http.MethodPost, "/check", `{"item": [`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeBadRequest, decodeEnvelope(t, w).Code)

	w = do(r, http.MethodPost, "/check", `{"info": {}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, response.CodeUnprocessable, decodeEnvelope(t, w).Code)

	w = do(r, http.MethodPost, "/check", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/check", miniCollection)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, response.CodeBadRequest, decodeEnvelope(t, w).Code)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, run *checks.Run) error {
	args := m.Called(ctx, run)
	if args.Error(0) == nil {
		run.ID = uuid.MustParse("5f0c8f4e-3b7e-4c55-9f0e-2c1c1a9e0a01")
		run.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	return args.Error(0)
}

func (m *mockStore) FindByID(ctx context.Context, id uuid.UUID) (*checks.Run, error) {
	args := m.Called(ctx, id)
	run, _ := args.Get(0).(*checks.Run)
	return run, args.Error(1)
}

func (m *mockStore) List(ctx context.Context, limit, offset int) ([]checks.Run, int64, error) {
	args := m.Called(ctx, limit, offset)
	runs, _ := args.Get(0).([]checks.Run)
	return runs, args.Get(1).(int64), args.Error(2)
}

func checkRouter(store CheckStore) *gin.Engine {
	h := NewCheckHandler(store, 1<<20, zap.NewNop())
	r := gin.New()
	r.POST("/checks", h.Create)
	r.GET("/checks", h.List)
	r.GET("/checks/:id", h.Get)
	return r
}

func TestCreateCheck(t *testing.T) {
	store := new(mockStore)
	store.On("Create", mock.Anything, mock.MatchedBy(func(run *checks.Run) bool {
		return run.Name == "Mini" && run.Total == 2 && run.Valid == 1 && len(run.Issues) == 1
	})).Return(nil).Once()
	store.On("Create", mock.Anything, mock.Anything).Return(checks.ErrDuplicate).Once()

	r := checkRouter(store)
	w := do(r, http.MethodPost, "/checks", miniCollection)
	assert.Equal(t, http.StatusCreated, w.Code)
	decodeEnvelope(t, w)
	assert.Equal(t, "5f0c8f4e-3b7e-4c55-9f0e-2c1c1a9e0a01", gjson.Get(w.Body.String(), "data.id").String())
	assert.Equal(t, checks.Fingerprint([]byte(miniCollection)), gjson.Get(w.Body.String(), "data.fingerprint").String())

	w = do(r, http.MethodPost, "/checks?name=again", miniCollection)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.CodeConflict, decodeEnvelope(t, w).Code)

	store.AssertExpectations(t)
}

func TestCreateCheckStoreFailure(t *testing.T) {
	store := new(mockStore)
	store.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	w := do(checkRouter(store), http.MethodPost, "/checks", miniCollection)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":5,"message":"internal error"}`, w.Body.String())
}

func TestListChecks(t *testing.T) {
	store := new(mockStore)
	store.On("List", mock.Anything, 10, 10).Return([]checks.Run{{Name: "a"}}, int64(21), nil)
	store.On("List", mock.Anything, response.DefaultPageSize, 0).Return(nil, int64(0), nil)

	r := checkRouter(store)
	w := do(r, http.MethodGet, "/checks?page=2&page_size=10", "")
	assert.Equal(t, http.StatusOK, w.Code)
	decodeEnvelope(t, w)
	body := gjson.Parse(w.Body.String())
	assert.Equal(t, "a", body.Get("data.items.0.name").String())
	assert.Equal(t, int64(2), body.Get("data.pagination.page").Int())
	assert.Equal(t, int64(3), body.Get("data.pagination.total_pages").Int())

	w = do(r, http.MethodGet, "/checks", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", gjson.Get(w.Body.String(), "data.items").Raw)
	store.AssertExpectations(t)
}

func TestListChecksHugePage(t *testing.T) {
	store := new(mockStore)
	offset := (response.MaxPage - 1) * 32
	store.On("List", mock.Anything, 32, offset).Return([]checks.Run{}, int64(3), nil).Once()
	store.On("List", mock.Anything, response.MaxPageSize, 0).Return([]checks.Run{}, int64(3), nil).Once()

	r := checkRouter(store)
	w := do(r, http.MethodGet, "/checks?page=9223372036854775807&page_size=32", "")
	assert.Equal(t, http.StatusOK, w.Code)
	decodeEnvelope(t, w)
	assert.Equal(t, int64(response.MaxPage), gjson.Get(w.Body.String(), "data.pagination.page").Int())

	w = do(r, http.MethodGet, "/checks?page_size=5000", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(response.MaxPageSize), gjson.Get(w.Body.String(), "data.pagination.limit").Int())
	store.AssertExpectations(t)
}

func TestGetCheck(t *testing.T) {
	found := uuid.MustParse("5f0c8f4e-3b7e-4c55-9f0e-2c1c1a9e0a01")
	missing := uuid.MustParse("00000000-0000-4000-8000-000000000000")

	store := new(mockStore)
	store.On("FindByID", mock.Anything, found).Return(&checks.Run{ID: found, Name: "Mini"}, nil)
	store.On("FindByID", mock.Anything, missing).Return(nil, checks.ErrNotFound)
	r := checkRouter(store)

	w := do(r, http.MethodGet, "/checks/"+found.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Mini", gjson.Get(w.Body.String(), "data.name").String())

	w = do(r, http.MethodGet, "/checks/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"code":4,"message":"check run not found"}`, w.Body.String())

	w = do(r, http.MethodGet, "/checks/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"code":1,"message":"invalid id"}`, w.Body.String())
}
