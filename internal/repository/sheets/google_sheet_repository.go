package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/washify/internal/config"
)

// GoogleSheetRepository appends report rows to a spreadsheet using the
// official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// SpreadsheetURL is the browser link of the target spreadsheet.
func (r *GoogleSheetRepository) SpreadsheetURL() string {
	return "https://docs.google.com/spreadsheets/d/" + r.spreadsheetID
}

// EnsureSheet adds a tab named title unless the spreadsheet already has one.
// It reports whether the tab was created.
func (r *GoogleSheetRepository) EnsureSheet(ctx context.Context, title string) (bool, error) {
	if title == "" {
		return false, fmt.Errorf("sheet title must not be empty")
	}

	spreadsheet, err := r.service.Spreadsheets.Get(r.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("load spreadsheet: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return false, nil
		}
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: title},
			},
		}},
	}
	if _, err := r.service.Spreadsheets.BatchUpdate(r.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return false, fmt.Errorf("add sheet %s: %w", title, err)
	}

	r.logger.Info("sheet created", zap.String("title", title))
	return true, nil
}

// AppendRows appends rows below the existing data of the named sheet.
func (r *GoogleSheetRepository) AppendRows(ctx context.Context, sheet string, rows [][]interface{}) error {
	if sheet == "" {
		return fmt.Errorf("sheet must not be empty")
	}
	if len(rows) == 0 {
		return nil
	}

	sheetRange := fmt.Sprintf("'%s'!A1", sheet)
	payload := &sheetsapi.ValueRange{Values: rows}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append rows into %s: %w", sheetRange, err)
	}

	r.logger.Debug("rows appended to sheet", zap.String("sheet", sheet), zap.Int("rows", len(rows)))
	return nil
}
