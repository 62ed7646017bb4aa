package handlers

import (
	"log"
	"net/http"

	"github.com/thorfins/thorfins-be/internal/http/respond"
	"github.com/thorfins/thorfins-be/internal/storage"
)

// CurrencyHandler lists the available currencies. No auth: the register form
// needs them before an account exists.
type CurrencyHandler struct {
	currencies storage.CurrencyStore
}

// NewCurrencyHandler constructs the handler.
func NewCurrencyHandler(currencies storage.CurrencyStore) *CurrencyHandler {
	return &CurrencyHandler{currencies: currencies}
}

// Register attaches the currency route to the mux.
func (h *CurrencyHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/currency", h.handleList)
}

func (h *CurrencyHandler) handleList(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.currencies.ListCurrencies(r.Context())
	if err != nil {
		log.Printf("list currencies: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Currencies failed")
		return
	}
	respond.JSON(w, http.StatusOK, currencies)
}
