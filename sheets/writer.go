package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// appendRange is where report rows are appended: timestamp, link, source page
const appendRange = "Sheet1!A:C"

// Writer appends newly found links to a Google Sheets spreadsheet
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
	log           zerolog.Logger
}

// NewWriter creates a new Google Sheets writer. Credentials are read from
// credentialsPath, or from GOOGLE_SHEETS_CREDENTIALS when the path is empty.
func NewWriter(ctx context.Context, spreadsheetURL, credentialsPath string, log zerolog.Logger) (*Writer, error) {
	spreadsheetID := ExtractSpreadsheetID(spreadsheetURL)
	if spreadsheetID == "" {
		return nil, fmt.Errorf("could not extract spreadsheet ID from URL: %s", spreadsheetURL)
	}

	credsJSON, err := loadCredentials(credentialsPath)
	if err != nil {
		return nil, err
	}

	return newWriter(ctx, spreadsheetID, log, option.WithCredentialsJSON(credsJSON))
}

func newWriter(ctx context.Context, spreadsheetID string, log zerolog.Logger, opts ...option.ClientOption) (*Writer, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: spreadsheetID,
		log:           log,
	}, nil
}

func loadCredentials(credentialsPath string) ([]byte, error) {
	var credsJSON []byte
	if credentialsPath != "" {
		data, err := os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		credsJSON = data
	} else {
		credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
		if credsEnv == "" {
			return nil, fmt.Errorf("credentials not found: GOOGLE_SHEETS_CREDENTIALS environment variable is empty or not set")
		}
		credsJSON = []byte(credsEnv)
	}

	var creds map[string]any
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON: %w", err)
	}
	if creds["type"] != "service_account" {
		return nil, fmt.Errorf("credentials must be a service account JSON file (type: service_account), got type: %v", creds["type"])
	}

	return credsJSON, nil
}

// AppendLinks appends one row per link below the existing data
func (w *Writer) AppendLinks(ctx context.Context, links []string, sourceURL string, at time.Time) error {
	if len(links) == 0 {
		return nil
	}

	stamp := at.Format("2006-01-02 15:04:05")
	values := make([][]any, 0, len(links))
	for _, link := range links {
		values = append(values, []any{stamp, link, sourceURL})
	}

	_, err := w.service.Spreadsheets.Values.Append(w.spreadsheetID, appendRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to sheets: %w", err)
	}

	w.log.Info().Int("rows", len(values)).Msg("Appended new links to Google Sheets")
	return nil
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func ExtractSpreadsheetID(url string) string {
	// https://docs.google.com/spreadsheets/d/SPREADSHEET_ID/edit?usp=sharing
	parts := strings.Split(url, "/d/")
	if len(parts) < 2 {
		return ""
	}

	idPart := parts[1]
	if idx := strings.Index(idPart, "/"); idx != -1 {
		idPart = idPart[:idx]
	}
	if idx := strings.Index(idPart, "?"); idx != -1 {
		idPart = idPart[:idx]
	}

	return strings.TrimSpace(idPart)
}
