package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"frota/internal/core"
	"frota/internal/records"
	"frota/internal/report"
)

// dashboardParams resolves year/month/vehicleId query parameters,
// defaulting to the current month and the whole fleet.
func dashboardParams(r *http.Request) (year, month int, vehicleID string, err error) {
	now := time.Now()
	year, month = now.Year(), int(now.Month())

	if v := r.URL.Query().Get("year"); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil || year < 1 {
			return 0, 0, "", fmt.Errorf("invalid year %q", v)
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		month, err = strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			return 0, 0, "", fmt.Errorf("invalid month %q", v)
		}
	}
	vehicleID = r.URL.Query().Get("vehicleId")
	if vehicleID == "" {
		vehicleID = core.AllVehicles
	}
	return year, month, vehicleID, nil
}

func (s *Server) aggregateMonth(r *http.Request, year, month int, vehicleID string) (report.Result, error) {
	key := fmt.Sprintf("%04d-%02d-%s", year, month, vehicleID)
	if res, ok := s.dashCache.Get(key); ok {
		s.metrics.IncrCacheHit(dashboardCacheName)
		return res, nil
	}
	s.metrics.IncrCacheMiss(dashboardCacheName)

	snap, err := records.FetchSnapshot(r.Context(), s.store)
	if err != nil {
		return report.Result{}, err
	}
	res := report.Aggregate(report.Input{
		Vehicles:     snap.Vehicles,
		Categories:   snap.Categories,
		Transactions: snap.Transactions,
		Fuelings:     snap.Fuelings,
		Window:       core.MonthWindow(year, month),
		VehicleID:    vehicleID,
	})
	s.dashCache.Set(key, res)
	return res, nil
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	year, month, vehicleID, err := dashboardParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.aggregateMonth(r, year, month, vehicleID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) dashboardSeries(w http.ResponseWriter, r *http.Request) {
	year, month, vehicleID, err := dashboardParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	months := s.trailingMonths
	if v := r.URL.Query().Get("months"); v != "" {
		months, err = strconv.Atoi(v)
		if err != nil || months < 1 || months > 36 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid months %q", v))
			return
		}
	}

	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	series := report.TrailingSeries(txs, vehicleID, year, month, months)
	writeJSON(w, http.StatusOK, map[string]any{"series": series})
}
