// Package google writes the statement to a Google Sheets tab using a service
// account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"ghostledger/internal/resilience"
	ports "ghostledger/internal/sheets"
)

var _ ports.StatementWriter = (*Client)(nil)

// Config selects the target spreadsheet and credentials. Exactly one of
// ServiceAccountJSON and ServiceAccountFile is needed unless
// GOOGLE_APPLICATION_CREDENTIALS is set.
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	breaker       *gobreaker.CircuitBreaker
	logger        *slog.Logger
}

// New creates a client from cfg.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName, logger), nil
}

// NewWithService wraps an existing service; tests point it at a fake server.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheetName string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if sheetName == "" {
		sheetName = "Statement"
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		breaker:       resilience.NewCircuitBreaker("google-sheets", 30*time.Second, logger),
		logger:        logger,
	}
}

func credentials(cfg Config) ([]byte, error) {
	serviceAccountJSON := strings.TrimSpace(cfg.ServiceAccountJSON)
	serviceAccountFile := strings.TrimSpace(cfg.ServiceAccountFile)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		return []byte(serviceAccountJSON), nil
	case serviceAccountFile != "":
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
}

// ReplaceStatement clears the tab and writes s from A1.
func (c *Client) ReplaceStatement(ctx context.Context, s ports.Statement) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := make([][]any, 0, len(s.Rows)+1)
	values = append(values, toInterfaces(s.Header))
	for _, r := range s.Rows {
		values = append(values, toInterfaces(r))
	}

	_, err := c.breaker.Execute(func() (any, error) {
		clearRange := fmt.Sprintf("%s!A:F", c.sheetName)
		if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
			Context(ctx).Do(); err != nil {
			return nil, fmt.Errorf("clear %s: %w", clearRange, err)
		}

		rng := fmt.Sprintf("%s!A1", c.sheetName)
		vr := &gsheet.ValueRange{Range: rng, Values: values}
		if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
			ValueInputOption("RAW").Context(ctx).Do(); err != nil {
			return nil, fmt.Errorf("update %s: %w", rng, err)
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "Statement mirrored to Google Sheets",
		"sheet", c.sheetName,
		"rows", len(values))
	return nil
}

func toInterfaces(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
