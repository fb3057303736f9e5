package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"frota/internal/core"
)

type fuelingRequest struct {
	VehicleID string  `json:"vehicleId"`
	Liters    float64 `json:"liters"`
	FuelType  string  `json:"fuelType"`
	Total     string  `json:"total"`
	Odometer  int64   `json:"odometer"`
	Date      string  `json:"date"`
}

func (s *Server) fuelingFromRequest(id string, req fuelingRequest) (core.Fueling, error) {
	cents, err := core.ParseDecimalToCents(req.Total)
	if err != nil {
		return core.Fueling{}, err
	}
	date, err := core.ParseCalendarDate(req.Date)
	if err != nil {
		return core.Fueling{}, err
	}
	f := core.Fueling{
		ID:        id,
		VehicleID: req.VehicleID,
		Liters:    req.Liters,
		FuelType:  req.FuelType,
		Total:     core.Money{Cents: cents},
		Odometer:  req.Odometer,
		Date:      date,
	}
	if err := f.Validate(); err != nil {
		return core.Fueling{}, err
	}
	return f, nil
}

func (s *Server) listFuelings(w http.ResponseWriter, r *http.Request) {
	fuels, err := s.store.ListFuelings(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if fuels == nil {
		fuels = []core.Fueling{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"fuelings": fuels})
}

func (s *Server) getFueling(w http.ResponseWriter, r *http.Request) {
	f, err := s.store.GetFueling(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) createFueling(w http.ResponseWriter, r *http.Request) {
	var req fuelingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, err := s.fuelingFromRequest("", req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.CreateFueling(r.Context(), f)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.invalidateDerived()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateFueling(w http.ResponseWriter, r *http.Request) {
	var req fuelingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, err := s.fuelingFromRequest(chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.store.UpdateFueling(r.Context(), f)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.invalidateDerived()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteFueling(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteFueling(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	s.invalidateDerived()
	w.WriteHeader(http.StatusNoContent)
}
