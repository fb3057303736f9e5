package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"frota/internal/core"
)

// transactionRequest carries the amount as a decimal string ("150" or
// "149,90") and the date as YYYY-MM-DD.
type transactionRequest struct {
	VehicleID     string      `json:"vehicleId"`
	CategoryID    string      `json:"categoryId"`
	Kind          core.Kind   `json:"kind"`
	Amount        string      `json:"amount"`
	Description   string      `json:"description"`
	Date          string      `json:"date"`
	PaymentMethod string      `json:"paymentMethod"`
	Status        core.Status `json:"status"`
}

func (s *Server) transactionFromRequest(id string, req transactionRequest) (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseCalendarDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{
		ID:            id,
		VehicleID:     req.VehicleID,
		CategoryID:    req.CategoryID,
		Kind:          req.Kind,
		Amount:        core.Money{Cents: cents},
		Description:   req.Description,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := s.transactionFromRequest("", req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.CreateTransaction(r.Context(), t)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.invalidateDerived()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := s.transactionFromRequest(chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.store.UpdateTransaction(r.Context(), t)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.invalidateDerived()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTransaction(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	s.invalidateDerived()
	w.WriteHeader(http.StatusNoContent)
}
