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

// TransactionHandler owns the transaction CRUD endpoints. Every record is
// strictly per-user; touching another user's transaction is rejected.
type TransactionHandler struct {
	transactions storage.TransactionStore
}

// NewTransactionHandler constructs the handler.
func NewTransactionHandler(transactions storage.TransactionStore) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// Register attaches transaction routes to the mux behind auth.
func (h *TransactionHandler) Register(mux *http.ServeMux, requireAuth func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("GET /api/transactions", requireAuth(h.handleList))
	mux.HandleFunc("GET /api/transactions/{id}", requireAuth(h.handleGet))
	mux.HandleFunc("POST /api/transactions", requireAuth(h.handleCreate))
	mux.HandleFunc("PUT /api/transactions/{id}", requireAuth(h.handleUpdate))
	mux.HandleFunc("DELETE /api/transactions/{id}", requireAuth(h.handleDelete))
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	txs, err := h.transactions.ListTransactions(r.Context(), userID)
	if err != nil {
		log.Printf("list transactions: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to retrieve transactions")
		return
	}
	respond.JSON(w, http.StatusOK, txs)
}

func (h *TransactionHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Transaction ID is required")
		return
	}

	tx, err := h.transactions.GetTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Transaction not found")
			return
		}
		log.Printf("get transaction %s: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to retrieve transaction")
		return
	}
	if tx.UserID != userID {
		respond.Error(w, http.StatusBadRequest, "Transaction not from user")
		return
	}
	respond.JSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Amount == 0 || strings.TrimSpace(req.CategoryID) == "" || strings.TrimSpace(req.Type) == "" {
		respond.Error(w, http.StatusBadRequest, "Amount, categoryId, and type are required")
		return
	}
	if !models.ValidTransactionType(req.Type) {
		respond.Error(w, http.StatusBadRequest, "Invalid transaction type")
		return
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	tx := models.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      req.Amount,
		Description: req.Desc,
		Type:        req.Type,
	}
	created, err := h.transactions.CreateTransaction(r.Context(), tx)
	if err != nil {
		log.Printf("create transaction: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *TransactionHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Transaction ID is required")
		return
	}

	var req dto.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Amount == 0 || strings.TrimSpace(req.CategoryID) == "" {
		respond.Error(w, http.StatusBadRequest, "Amount and categoryId are required")
		return
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	existing, err := h.transactions.GetTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Transaction not found")
			return
		}
		log.Printf("update transaction %s: fetch: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update transaction")
		return
	}
	if existing.UserID != userID {
		respond.Error(w, http.StatusBadRequest, "Transaction not from user")
		return
	}

	existing.Amount = req.Amount
	existing.Description = req.Desc
	existing.CategoryID = categoryID
	updated, err := h.transactions.UpdateTransaction(r.Context(), existing)
	if err != nil {
		log.Printf("update transaction %s: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update transaction")
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *TransactionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Transaction ID is required")
		return
	}

	existing, err := h.transactions.GetTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Transaction not found")
			return
		}
		log.Printf("delete transaction %s: fetch: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}
	if existing.UserID != userID {
		respond.Error(w, http.StatusBadRequest, "Transaction not from user")
		return
	}

	if err := h.transactions.DeleteTransaction(r.Context(), id); err != nil {
		log.Printf("delete transaction %s: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}
	respond.Message(w, http.StatusOK, fmt.Sprintf("Transaction with id %s deleted", id))
}
