package http

import (
	"net/http"
	"time"

	"frota/internal/amqp"
	"frota/internal/core"
	"frota/internal/pdf"
	"frota/internal/records"
	"frota/internal/report"
)

type reportRequest struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	VehicleID string `json:"vehicleId"`
}

func (req reportRequest) window() (core.Window, error) {
	start, err := core.ParseCalendarDate(req.Start)
	if err != nil {
		return core.Window{}, err
	}
	end, err := core.ParseCalendarDate(req.End)
	if err != nil {
		return core.Window{}, err
	}
	if end.Before(start) {
		return core.Window{}, core.ErrInvalidDateFormat
	}
	return core.Window{Start: start, End: end}, nil
}

// requestReport enqueues a report job for the worker and returns 202
// with the job id. Without a configured queue it renders the PDF
// inline instead, same as the download endpoint.
func (s *Server) requestReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	window, err := req.window()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report period, expected YYYY-MM-DD dates")
		return
	}

	if s.publisher == nil {
		s.streamReport(w, r, window, req.VehicleID)
		return
	}

	msg := amqp.NewReportJobMessage(window, req.VehicleID)
	if err := s.publisher.PublishReportJob(r.Context(), msg); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to enqueue report job", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to enqueue report job")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"jobId": msg.JobID})
}

// downloadReport renders the month's PDF inline, bypassing the queue.
func (s *Server) downloadReport(w http.ResponseWriter, r *http.Request) {
	year, month, vehicleID, err := dashboardParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.streamReport(w, r, core.MonthWindow(year, month), vehicleID)
}

func (s *Server) streamReport(w http.ResponseWriter, r *http.Request, window core.Window, vehicleID string) {
	snap, err := records.FetchSnapshot(r.Context(), s.store)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	res := report.Aggregate(report.Input{
		Vehicles:     snap.Vehicles,
		Categories:   snap.Categories,
		Transactions: snap.Transactions,
		Fuelings:     snap.Fuelings,
		Window:       window,
		VehicleID:    vehicleID,
	})

	generatedAt := time.Now()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+pdf.Filename(generatedAt)+`"`)
	if err := pdf.NewComposer().Compose(w, res, snap.Vehicles, snap.Categories, generatedAt); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.ErrorContext(r.Context(), "Failed to render report", "error", err)
	}
}
