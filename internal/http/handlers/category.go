package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/thorfins/thorfins-be/internal/http/respond"
	"github.com/thorfins/thorfins-be/internal/middleware"
	"github.com/thorfins/thorfins-be/internal/models"
	"github.com/thorfins/thorfins-be/internal/models/dto"
	"github.com/thorfins/thorfins-be/internal/storage"
)

// CategoryHandler owns the category CRUD endpoints. Mutation is gated by the
// editable flag first and ownership second; seeded global categories are
// visible to everyone but never editable.
type CategoryHandler struct {
	categories storage.CategoryStore
}

// NewCategoryHandler constructs the handler.
func NewCategoryHandler(categories storage.CategoryStore) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// Register attaches category routes to the mux behind auth.
func (h *CategoryHandler) Register(mux *http.ServeMux, requireAuth func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("GET /api/category", requireAuth(h.handleList))
	mux.HandleFunc("GET /api/category/{id}", requireAuth(h.handleGet))
	mux.HandleFunc("POST /api/category", requireAuth(h.handleCreate))
	mux.HandleFunc("PUT /api/category/{id}", requireAuth(h.handleUpdate))
	mux.HandleFunc("DELETE /api/category/{id}", requireAuth(h.handleDelete))
}

func (h *CategoryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	categories, err := h.categories.ListCategories(r.Context(), userID)
	if err != nil {
		log.Printf("list categories: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	respond.JSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Category ID is required")
		return
	}

	category, err := h.categories.GetCategory(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Category not found")
			return
		}
		log.Printf("get category %s: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to retrieve category")
		return
	}
	if !ownsCategory(category, userID) {
		respond.Error(w, http.StatusBadRequest, "Category is not from user")
		return
	}
	respond.JSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req dto.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Icon) == "" {
		respond.Error(w, http.StatusBadRequest, "Name and icon are required")
		return
	}

	category := models.Category{
		ID:       uuid.New(),
		UserID:   &userID,
		Name:     strings.TrimSpace(req.Name),
		Icon:     strings.TrimSpace(req.Icon),
		Editable: true,
	}
	created, err := h.categories.CreateCategory(r.Context(), category)
	if err != nil {
		log.Printf("create category: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to create category")
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *CategoryHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Category ID is required")
		return
	}

	var req dto.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Icon) == "" {
		respond.Error(w, http.StatusBadRequest, "Name and icon are required")
		return
	}

	category, err := h.categories.GetCategory(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Category not found")
			return
		}
		log.Printf("update category %s: fetch: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update category")
		return
	}
	// Editable is checked before ownership: a locked category reports the same
	// failure no matter who asks.
	if !category.Editable {
		respond.Error(w, http.StatusBadRequest, "This category is not editable")
		return
	}
	if !ownsCategory(category, userID) {
		respond.Error(w, http.StatusBadRequest, "Category is not from user")
		return
	}

	updated, err := h.categories.UpdateCategory(r.Context(), id, strings.TrimSpace(req.Name), strings.TrimSpace(req.Icon))
	if err != nil {
		log.Printf("update category %s: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update category")
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *CategoryHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Category ID is required")
		return
	}

	category, err := h.categories.GetCategory(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Category not found")
			return
		}
		log.Printf("delete category %s: fetch: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	if !category.Editable {
		respond.Error(w, http.StatusBadRequest, "This category is not deletable")
		return
	}
	if !ownsCategory(category, userID) {
		respond.Error(w, http.StatusBadRequest, "Category is not from user")
		return
	}

	if err := h.categories.DeleteCategory(r.Context(), id); err != nil {
		log.Printf("delete category %s: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	respond.Message(w, http.StatusOK, fmt.Sprintf("Category with id: %s deleted", id))
}

// ownsCategory allows access to global categories (nil owner) and the
// caller's own.
func ownsCategory(category models.Category, userID uuid.UUID) bool {
	return category.UserID == nil || *category.UserID == userID
}
