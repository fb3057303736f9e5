package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"frota/internal/core"
)

type vehicleRequest struct {
	Name  string `json:"name"`
	Brand string `json:"brand"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Plate string `json:"plate"`
}

func (s *Server) listVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.store.ListVehicles(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if vehicles == nil {
		vehicles = []core.Vehicle{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicles": vehicles})
}

func (s *Server) getVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.GetVehicle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) createVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v := core.Vehicle{Name: req.Name, Brand: req.Brand, Model: req.Model, Year: req.Year, Plate: req.Plate}
	if err := v.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.CreateVehicle(r.Context(), v)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.invalidateDerived()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v := core.Vehicle{
		ID:    chi.URLParam(r, "id"),
		Name:  req.Name,
		Brand: req.Brand,
		Model: req.Model,
		Year:  req.Year,
		Plate: req.Plate,
	}
	if err := v.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.store.UpdateVehicle(r.Context(), v)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.invalidateDerived()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteVehicle(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	s.invalidateDerived()
	w.WriteHeader(http.StatusNoContent)
}
