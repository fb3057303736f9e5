// Package google appends report summary rows to a Google Sheets
// spreadsheet, giving the fleet owner a running history outside the
// PDF archive.
package google

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"frota/internal/core"
	"frota/internal/report"
)

// Exporter appends one row per generated report.
type Exporter struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

// Config selects the target spreadsheet and the service account
// credentials. Exactly one of CredentialsFile or CredentialsJSON must
// be set.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if cfg.SheetName == "" {
		return nil, fmt.Errorf("sheet name is required")
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	default:
		return nil, fmt.Errorf("service account credentials are required")
	}
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsScope))

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Exporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}, nil
}

// AppendSummary appends one summary row for a finished report:
// period, filter, totals, consumption and cost figures.
func (e *Exporter) AppendSummary(ctx context.Context, res report.Result, generatedAt time.Time) error {
	row := []interface{}{
		generatedAt.Format("2006-01-02 15:04:05"),
		res.Window.Start.String(),
		res.Window.End.String(),
		res.VehicleID,
		core.FormatBRL(res.Totals.Income.Cents),
		core.FormatBRL(res.Totals.Expense.Cents),
		core.FormatBRL(res.Totals.Balance.Cents),
		core.FormatBRL(res.FuelingTotal.Cents),
		fmt.Sprintf("%.1f", res.AvgConsumption),
		res.KmDriven,
		fmt.Sprintf("%.2f", res.CostPerKm),
	}

	valueRange := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err := e.service.Spreadsheets.Values.
		Append(e.spreadsheetID, e.sheetName+"!A:K", valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append summary row: %w", err)
	}

	slog.InfoContext(ctx, "Report summary exported to Google Sheets",
		"spreadsheet_id", e.spreadsheetID,
		"sheet", e.sheetName,
		"period_start", res.Window.Start.String(),
		"period_end", res.Window.End.String())

	return nil
}
