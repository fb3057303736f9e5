// Package worker turns queued report jobs into PDF files on disk.
package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"frota/internal/amqp"
	"frota/internal/log"
	"frota/internal/observability"
	"frota/internal/pdf"
	"frota/internal/records"
	"frota/internal/report"
)

// SummaryExporter pushes a one-row summary of a finished report to an
// external sink. Optional; nil disables export.
type SummaryExporter interface {
	AppendSummary(ctx context.Context, res report.Result, generatedAt time.Time) error
}

// ReportWorker renders one PDF per job into OutputDir.
type ReportWorker struct {
	store     records.Store
	composer  *pdf.Composer
	exporter  SummaryExporter
	metrics   *observability.Metrics
	logger    *log.Logger
	outputDir string

	now func() time.Time
}

func NewReportWorker(store records.Store, outputDir string, exporter SummaryExporter, metrics *observability.Metrics, logger *log.Logger) *ReportWorker {
	return &ReportWorker{
		store:     store,
		composer:  pdf.NewComposer(),
		exporter:  exporter,
		metrics:   metrics,
		logger:    logger.WithComponent(log.ComponentWorker),
		outputDir: outputDir,
		now:       time.Now,
	}
}

// Run consumes jobs from the queue until ctx is cancelled.
func (w *ReportWorker) Run(ctx context.Context, client *amqp.Client) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("create report output directory: %w", err)
	}
	return client.ConsumeReportJobs(ctx, func(msg *amqp.ReportJobMessage) error {
		_, err := w.Process(ctx, msg)
		return err
	})
}

// Process renders one job and returns the written file path.
func (w *ReportWorker) Process(ctx context.Context, msg *amqp.ReportJobMessage) (string, error) {
	started := w.now()

	window, err := msg.Window()
	if err != nil {
		// A malformed job never becomes valid; mark it permanent so the
		// consume loop drops the delivery instead of requeueing it.
		w.metrics.RecordReport("invalid", w.now().Sub(started))
		return "", fmt.Errorf("%w: %w", amqp.ErrPermanent, err)
	}

	snap, err := records.FetchSnapshot(ctx, w.store)
	if err != nil {
		w.metrics.RecordReport("error", w.now().Sub(started))
		return "", fmt.Errorf("fetch snapshot: %w", err)
	}

	res := report.Aggregate(report.Input{
		Vehicles:     snap.Vehicles,
		Categories:   snap.Categories,
		Transactions: snap.Transactions,
		Fuelings:     snap.Fuelings,
		Window:       window,
		VehicleID:    msg.VehicleID,
	})

	generatedAt := w.now()
	path := filepath.Join(w.outputDir, pdf.Filename(generatedAt))

	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		w.metrics.RecordReport("error", w.now().Sub(started))
		return "", fmt.Errorf("create report output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		w.metrics.RecordReport("error", w.now().Sub(started))
		return "", fmt.Errorf("create report file: %w", err)
	}
	if err := w.composer.Compose(f, res, snap.Vehicles, snap.Categories, generatedAt); err != nil {
		f.Close()
		os.Remove(path)
		w.metrics.RecordReport("error", w.now().Sub(started))
		return "", fmt.Errorf("compose report: %w", err)
	}
	if err := f.Close(); err != nil {
		w.metrics.RecordReport("error", w.now().Sub(started))
		return "", fmt.Errorf("close report file: %w", err)
	}

	w.logger.InfoContext(ctx, "Report written",
		log.FieldJobID, msg.JobID,
		log.FieldPeriodStart, msg.Start,
		log.FieldPeriodEnd, msg.End,
		log.FieldVehicleID, msg.VehicleID,
		log.FieldOutputPath, path)

	if w.exporter != nil {
		if err := w.exporter.AppendSummary(ctx, res, generatedAt); err != nil {
			// The PDF is already on disk; a failed export is logged
			// but does not requeue the job.
			w.logger.ErrorContext(ctx, "Summary export failed",
				log.FieldJobID, msg.JobID,
				log.FieldError, err)
		}
	}

	w.metrics.RecordReport("success", w.now().Sub(started))
	return path, nil
}
