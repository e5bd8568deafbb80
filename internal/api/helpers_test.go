package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cozinhecomigo/recipes/backend/internal/api"
	internallog "github.com/cozinhecomigo/recipes/backend/internal/logger"
	"github.com/cozinhecomigo/recipes/backend/internal/middleware"
	"github.com/cozinhecomigo/recipes/backend/internal/service"
	"github.com/cozinhecomigo/recipes/backend/internal/testhelpers"
	"github.com/cozinhecomigo/recipes/backend/internal/validation"
)

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
}

// envelope mirrors types.Response with the data left undecoded
type envelope struct {
	StatusCode string            `json:"statusCode"`
	Message    string            `json:"message"`
	Data       json.RawMessage   `json:"data"`
	Details    map[string]string `json:"details"`
	TotalItems *int64            `json:"totalItems"`
	PageNumber *int              `json:"pageNumber"`
	PageSize   *int              `json:"pageSize"`
	TotalPages *int              `json:"totalPages"`
}

func setupTestAPI(t *testing.T, limiter *middleware.RateLimiter) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	db := testhelpers.SetupSQLite(t)
	log := internallog.Discard()
	auth := service.NewAuthService(db, time.Hour)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ErrorHandler(log))
	api.RegisterRoutes(router, api.Dependencies{
		DB:             db,
		AuthService:    auth,
		RecipeService:  service.NewRecipeService(db, auth, nil),
		CommentService: service.NewCommentService(db, auth, nil),
		WriteLimiter:   limiter,
		Log:            log,
	})

	return &testAPI{router: router, db: db}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func (a *testAPI) login(t *testing.T, name string) (uint, string) {
	t.Helper()
	user := testhelpers.CreateTestUser(t, a.db, name)
	return user.ID, testhelpers.CreateTestToken(t, a.db, user.ID, time.Now().Add(time.Hour))
}

func (a *testAPI) doWithHeader(t *testing.T, path, header, value string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set(header, value)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}
