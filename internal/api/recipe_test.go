package api_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozinhecomigo/recipes/backend/internal/middleware"
	"github.com/cozinhecomigo/recipes/backend/internal/models"
	"github.com/cozinhecomigo/recipes/backend/internal/testhelpers"
)

func TestListRecipesAnonymous(t *testing.T) {
	a := setupTestAPI(t, nil)
	ownerID, _ := a.login(t, "Maria")
	otherID, _ := a.login(t, "João")
	for i := 0; i < 3; i++ {
		testhelpers.CreateTestRecipe(t, a.db, ownerID)
	}
	for i := 0; i < 2; i++ {
		testhelpers.CreateTestRecipe(t, a.db, otherID, testhelpers.Private())
	}

	w, env := a.do(t, http.MethodGet, "/api/v1/recipes?pageSize=50&pageNumber=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", env.StatusCode)
	assert.EqualValues(t, 3, *env.TotalItems)
	assert.Equal(t, 1, *env.PageNumber)
	assert.Equal(t, 50, *env.PageSize)
	assert.Equal(t, 1, *env.TotalPages)

	items := decode[[]map[string]interface{}](t, env.Data)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.NotContains(t, item, "ingredients", "summary projection only")
		assert.Contains(t, item, "averageRating")
	}
}

func TestListRecipesFullResult(t *testing.T) {
	a := setupTestAPI(t, nil)
	ownerID, _ := a.login(t, "Maria")
	testhelpers.CreateTestRecipe(t, a.db, ownerID, testhelpers.WithTitle("Bolo de Chocolate"))

	w, env := a.do(t, http.MethodGet, "/api/v1/recipes?pageSize=10&pageNumber=1&fullResult=true&titleSearch=bolo", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	items := decode[[]models.Recipe](t, env.Data)
	require.Len(t, items, 1)
	assert.Equal(t, "Bolo de Chocolate", items[0].Title)
	assert.Equal(t, models.StringArray{"ingredient1", "ingredient2"}, items[0].Ingredients)
}

func TestListRecipesValidationErrors(t *testing.T) {
	a := setupTestAPI(t, nil)

	cases := []struct {
		query   string
		message string
		detail  string
	}{
		{"pageSize=201&pageNumber=1", "invalid page size", ""},
		{"pageSize=0&pageNumber=1", "invalid page size", ""},
		{"pageNumber=1", "invalid page size", ""},
		{"pageSize=10&pageNumber=0", "invalid page number", ""},
		{"pageSize=abc&pageNumber=1", "", "query"},
		{"pageSize=10&pageNumber=1&sortBy=calories", "", "sortBy"},
		{"pageSize=10&pageNumber=1&minRating=9", "", "minRating"},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			w, env := a.do(t, http.MethodGet, "/api/v1/recipes?"+tc.query, "", nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "VALIDATION_ERROR", env.StatusCode)
			if tc.message != "" {
				assert.Equal(t, tc.message, env.Message)
			}
			if tc.detail != "" {
				assert.Contains(t, env.Details, tc.detail)
			}
		})
	}
}

func TestListRecipesAuthorization(t *testing.T) {
	a := setupTestAPI(t, nil)
	ownerID, ownerToken := a.login(t, "Maria")
	_, otherToken := a.login(t, "João")
	testhelpers.CreateTestRecipe(t, a.db, ownerID, testhelpers.Private())
	expired := testhelpers.CreateTestToken(t, a.db, ownerID, time.Now().Add(-time.Second))

	w, env := a.do(t, http.MethodGet, "/api/v1/recipes?pageSize=10&pageNumber=1", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", env.StatusCode)
	assert.Equal(t, "invalid or expired token", env.Message)

	privateQuery := fmt.Sprintf("/api/v1/recipes?pageSize=10&pageNumber=1&isPublic=false&userId=%d", ownerID)

	w, env = a.do(t, http.MethodGet, privateQuery, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", env.StatusCode)
	assert.Equal(t, "owner mismatch", env.Message)

	w, _ = a.do(t, http.MethodGet, privateQuery, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = a.do(t, http.MethodGet, privateQuery, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, *env.TotalItems)
}

func TestListRecipesLegacyTokenHeader(t *testing.T) {
	a := setupTestAPI(t, nil)
	ownerID, ownerToken := a.login(t, "Maria")
	testhelpers.CreateTestRecipe(t, a.db, ownerID, testhelpers.Private())

	req := fmt.Sprintf("/api/v1/recipes?pageSize=10&pageNumber=1&isPublic=false&userId=%d", ownerID)
	w := a.doWithHeader(t, req, middleware.LegacyTokenHeader, ownerToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListRecipesCategoriesAndSort(t *testing.T) {
	a := setupTestAPI(t, nil)
	ownerID, _ := a.login(t, "Maria")
	testhelpers.CreateTestRecipe(t, a.db, ownerID, testhelpers.WithCategories("Salada"), testhelpers.WithRating(3, 1))
	testhelpers.CreateTestRecipe(t, a.db, ownerID, testhelpers.WithCategories("Sobremesa"), testhelpers.WithRating(5, 1))
	testhelpers.CreateTestRecipe(t, a.db, ownerID, testhelpers.WithCategories("Massa"), testhelpers.WithRating(4, 1))

	for _, query := range []string{
		"categories=Salada&categories=Sobremesa",
		"categories=Salada,Sobremesa",
	} {
		w, env := a.do(t, http.MethodGet, "/api/v1/recipes?pageSize=10&pageNumber=1&sortBy=averageRating&sortDescending=true&"+query, "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		items := decode[[]models.RecipeSummary](t, env.Data)
		require.Len(t, items, 2, query)
		assert.Equal(t, 5.0, items[0].AverageRating)
		assert.Equal(t, 3.0, items[1].AverageRating)
	}
}

func TestGetRecipe(t *testing.T) {
	a := setupTestAPI(t, nil)
	ownerID, ownerToken := a.login(t, "Maria")
	_, otherToken := a.login(t, "João")
	public := testhelpers.CreateTestRecipe(t, a.db, ownerID, testhelpers.WithTitle("Moqueca"))
	private := testhelpers.CreateTestRecipe(t, a.db, ownerID, testhelpers.Private())
	orphan := testhelpers.CreateTestRecipe(t, a.db, 777)

	w, env := a.do(t, http.MethodGet, fmt.Sprintf("/api/v1/recipes/%d", public.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[models.RecipeDetail](t, env.Data)
	assert.Equal(t, "Moqueca", detail.Title)
	assert.Equal(t, "Maria", detail.Author.Name)

	privatePath := fmt.Sprintf("/api/v1/recipes/%d", private.ID)
	w, env = a.do(t, http.MethodGet, privatePath, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", env.StatusCode)

	w, env = a.do(t, http.MethodGet, privatePath, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", env.StatusCode)

	w, _ = a.do(t, http.MethodGet, privatePath, ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = a.do(t, http.MethodGet, "/api/v1/recipes/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.StatusCode)

	w, env = a.do(t, http.MethodGet, "/api/v1/recipes/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.StatusCode)

	w, env = a.do(t, http.MethodGet, fmt.Sprintf("/api/v1/recipes/%d", orphan.ID), "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", env.StatusCode)
	assert.Equal(t, "internal server error", env.Message)
}

func TestCreateRecipe(t *testing.T) {
	a := setupTestAPI(t, nil)
	ownerID, ownerToken := a.login(t, "Maria")

	body := map[string]interface{}{
		"userId":          ownerID,
		"title":           "Pão de Queijo",
		"ingredients":     []string{"polvilho", "queijo", "ovo"},
		"instructions":    "Misture e asse por 30 minutos.",
		"isPublic":        true,
		"categories":      []string{"Lanche"},
		"portions":        12,
		"preparationTime": 45,
	}

	w, env := a.do(t, http.MethodPost, "/api/v1/recipes", ownerToken, body)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	created := decode[models.Recipe](t, env.Data)
	assert.NotZero(t, created.ID)
	assert.Equal(t, ownerID, created.UserID)
	assert.Equal(t, 12, *created.Portions)

	w, env = a.do(t, http.MethodPost, "/api/v1/recipes", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", env.StatusCode)

	delete(body, "title")
	body["portions"] = 0
	w, env = a.do(t, http.MethodPost, "/api/v1/recipes", ownerToken, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "is required", env.Details["title"])

	w, env = a.do(t, http.MethodPost, "/api/v1/recipes", ownerToken, map[string]interface{}{
		"userId":       ownerID + 1,
		"title":        "Outro",
		"ingredients":  []string{"sal"},
		"instructions": "Tempere.",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "owner mismatch", env.Message)
}
