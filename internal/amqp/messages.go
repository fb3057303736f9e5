package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"frota/internal/core"
)

// ReportJobMessage asks the worker to render one report. The window
// travels as YYYY-MM-DD strings so the wire format stays timezone-free.
type ReportJobMessage struct {
	JobID       string    `json:"jobId"`
	Start       string    `json:"start"`
	End         string    `json:"end"`
	VehicleID   string    `json:"vehicleId"`
	RequestedAt time.Time `json:"requestedAt"`
}

// NewReportJobMessage builds a job for one window and vehicle filter.
func NewReportJobMessage(w core.Window, vehicleID string) *ReportJobMessage {
	if vehicleID == "" {
		vehicleID = core.AllVehicles
	}
	return &ReportJobMessage{
		JobID:       uuid.NewString(),
		Start:       w.Start.String(),
		End:         w.End.String(),
		VehicleID:   vehicleID,
		RequestedAt: time.Now(),
	}
}

// Window parses the job's period back into a core.Window.
func (m *ReportJobMessage) Window() (core.Window, error) {
	start, err := core.ParseCalendarDate(m.Start)
	if err != nil {
		return core.Window{}, fmt.Errorf("job %s start: %w", m.JobID, err)
	}
	end, err := core.ParseCalendarDate(m.End)
	if err != nil {
		return core.Window{}, fmt.Errorf("job %s end: %w", m.JobID, err)
	}
	if end.Before(start) {
		return core.Window{}, fmt.Errorf("job %s: end %s before start %s", m.JobID, m.End, m.Start)
	}
	return core.Window{Start: start, End: end}, nil
}

// ToJSON converts the message to JSON bytes
func (m *ReportJobMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportJobMessageFromJSON creates a message from JSON bytes
func ReportJobMessageFromJSON(data []byte) (*ReportJobMessage, error) {
	var msg ReportJobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
