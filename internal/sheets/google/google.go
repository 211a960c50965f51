// Package google mirrors transactions into a Google spreadsheet using a
// service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Sheet layout: one row per transaction.
// A: ID, B: Date, C: Description, D: Category, E: Type, F: Amount,
// G: Payment Method, H: User ID.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var (
	_ ports.TransactionAppender = (*Client)(nil)
	_ ports.TransactionRemover  = (*Client)(nil)
)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS. Optional: GOOGLE_SHEET_NAME
// (default "Transactions").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Transactions"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// AppendTransaction writes tx to the sheet. When a row with the same ID
// already exists it is rewritten in place, so replays of the same sync
// message stay idempotent.
func (c *Client) AppendTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	row, err := c.findRow(ctx, tx.ID)
	if err != nil {
		return "", err
	}
	if row == 0 {
		ids, err := c.readIDColumn(ctx)
		if err != nil {
			return "", err
		}
		row = len(ids) + 1
	}

	values := transactionRow(tx)
	rng := fmt.Sprintf("%s!A%d:H%d", c.sheetName, row, row)
	vr := &gsheet.ValueRange{Values: [][]any{values}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update row in sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Transaction written to sheet",
		"id", tx.ID, "range", rng)
	return rng, nil
}

// RemoveTransaction clears the row holding id. A missing row is a no-op.
func (c *Client) RemoveTransaction(ctx context.Context, id string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	row, err := c.findRow(ctx, id)
	if err != nil {
		return err
	}
	if row == 0 {
		return nil
	}

	rng := fmt.Sprintf("%s!A%d:H%d", c.sheetName, row, row)
	_, err = c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear row in sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Transaction removed from sheet", "id", id, "range", rng)
	return nil
}

// findRow returns the 1-based row holding id, or 0 when absent.
func (c *Client) findRow(ctx context.Context, id string) (int, error) {
	ids, err := c.readIDColumn(ctx)
	if err != nil {
		return 0, err
	}
	for i, existing := range ids {
		if existing == id {
			return i + 1, nil
		}
	}
	return 0, nil
}

func (c *Client) readIDColumn(ctx context.Context) ([]string, error) {
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	ids := make([]string, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) > 0 {
			ids[i] = strings.TrimSpace(fmt.Sprint(row[0]))
		}
	}
	return ids, nil
}

func transactionRow(tx core.Transaction) []any {
	return []any{
		tx.ID,
		tx.Date.Format("2006-01-02"),
		tx.Description,
		tx.CategoryName("N/A"),
		string(tx.Type),
		float64(tx.Amount.Cents) / 100.0,
		tx.PaymentMethod,
		tx.UserID,
	}
}
