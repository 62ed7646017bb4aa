package handlers

import (
	"log"
	"net/http"

	"github.com/thorfins/thorfins-be/internal/http/respond"
	"github.com/thorfins/thorfins-be/internal/middleware"
	"github.com/thorfins/thorfins-be/internal/storage"
)

// ReportsHandler serves aggregate views over the caller's transactions.
type ReportsHandler struct {
	transactions storage.TransactionStore
}

// NewReportsHandler constructs the handler.
func NewReportsHandler(transactions storage.TransactionStore) *ReportsHandler {
	return &ReportsHandler{transactions: transactions}
}

// Register attaches report routes to the mux behind auth.
func (h *ReportsHandler) Register(mux *http.ServeMux, requireAuth func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("GET /api/reports/amounts", requireAuth(h.handleAmounts))
}

func (h *ReportsHandler) handleAmounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusBadRequest, "User ID is required")
		return
	}

	amounts, err := h.transactions.Amounts(r.Context(), userID)
	if err != nil {
		log.Printf("report amounts: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to retrieve amounts")
		return
	}
	respond.JSON(w, http.StatusOK, amounts)
}
