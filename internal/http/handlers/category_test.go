package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thorfins/thorfins-be/internal/models"
)

func TestCategoryList(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	stranger := uuid.New()

	e.categories.seed(models.Category{UserID: nil, Name: "Food", Icon: "utensils", Editable: false})
	e.categories.seed(models.Category{UserID: &owner, Name: "Games", Icon: "joystick", Editable: true})
	e.categories.seed(models.Category{UserID: &stranger, Name: "Secret", Icon: "lock", Editable: true})

	resp := e.do(t, http.MethodGet, "/api/category", e.tokenFor(t, owner), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	categories := decodeBody[[]models.Category](t, resp)

	names := map[string]bool{}
	for _, cat := range categories {
		names[cat.Name] = true
	}
	assert.Equal(t, map[string]bool{"Food": true, "Games": true}, names)
}

func TestCategoryGet(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	stranger := uuid.New()
	token := e.tokenFor(t, owner)

	global := e.categories.seed(models.Category{UserID: nil, Name: "Food", Icon: "utensils"})
	foreign := e.categories.seed(models.Category{UserID: &stranger, Name: "Secret", Icon: "lock"})

	t.Run("missing", func(t *testing.T) {
		resp := e.do(t, http.MethodGet, "/api/category/"+uuid.NewString(), token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Category not found", errorMessage(t, resp))
	})

	t.Run("global visible to everyone", func(t *testing.T) {
		resp := e.do(t, http.MethodGet, "/api/category/"+global.ID.String(), token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("foreign rejected", func(t *testing.T) {
		resp := e.do(t, http.MethodGet, "/api/category/"+foreign.ID.String(), token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Category is not from user", errorMessage(t, resp))
	})

	t.Run("unauthenticated", func(t *testing.T) {
		resp := e.do(t, http.MethodGet, "/api/category/"+global.ID.String(), "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestCategoryCreate(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	token := e.tokenFor(t, owner)

	t.Run("validation", func(t *testing.T) {
		resp := e.do(t, http.MethodPost, "/api/category", token, map[string]string{"name": "Games"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Name and icon are required", errorMessage(t, resp))
	})

	t.Run("created editable and owned", func(t *testing.T) {
		resp := e.do(t, http.MethodPost, "/api/category", token, map[string]string{"name": "Games", "icon": "joystick"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		created := decodeBody[models.Category](t, resp)
		assert.True(t, created.Editable)
		require.NotNil(t, created.UserID)
		assert.Equal(t, owner, *created.UserID)
	})
}

// TestCategoryMutationGuard exercises the guard order shared by update and
// delete: missing beats non-editable beats non-owned.
func TestCategoryMutationGuard(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	stranger := uuid.New()
	token := e.tokenFor(t, owner)

	locked := e.categories.seed(models.Category{UserID: &owner, Name: "Fixed", Icon: "pin", Editable: false})
	lockedGlobal := e.categories.seed(models.Category{UserID: nil, Name: "Food", Icon: "utensils", Editable: false})
	foreign := e.categories.seed(models.Category{UserID: &stranger, Name: "Theirs", Icon: "lock", Editable: true})
	mine := e.categories.seed(models.Category{UserID: &owner, Name: "Games", Icon: "joystick", Editable: true})

	body := map[string]string{"name": "Renamed", "icon": "tag"}

	t.Run("update missing", func(t *testing.T) {
		resp := e.do(t, http.MethodPut, "/api/category/"+uuid.NewString(), token, body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("update non-editable regardless of owner", func(t *testing.T) {
		for _, cat := range []models.Category{locked, lockedGlobal} {
			resp := e.do(t, http.MethodPut, "/api/category/"+cat.ID.String(), token, body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "This category is not editable", errorMessage(t, resp))
		}
	})

	t.Run("update foreign editable", func(t *testing.T) {
		resp := e.do(t, http.MethodPut, "/api/category/"+foreign.ID.String(), token, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Category is not from user", errorMessage(t, resp))
	})

	t.Run("update own editable", func(t *testing.T) {
		resp := e.do(t, http.MethodPut, "/api/category/"+mine.ID.String(), token, body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		updated := decodeBody[models.Category](t, resp)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, "tag", updated.Icon)
	})

	t.Run("delete non-editable", func(t *testing.T) {
		resp := e.do(t, http.MethodDelete, "/api/category/"+locked.ID.String(), token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "This category is not deletable", errorMessage(t, resp))
	})

	t.Run("delete foreign editable", func(t *testing.T) {
		resp := e.do(t, http.MethodDelete, "/api/category/"+foreign.ID.String(), token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Category is not from user", errorMessage(t, resp))
	})

	t.Run("delete own editable", func(t *testing.T) {
		resp := e.do(t, http.MethodDelete, "/api/category/"+mine.ID.String(), token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, fmt.Sprintf("Category with id: %s deleted", mine.ID), message(t, resp))

		resp = e.do(t, http.MethodDelete, "/api/category/"+mine.ID.String(), token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
