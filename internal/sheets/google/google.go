package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fitlog/internal/core"
	ports "fitlog/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// valueInputOption lets Sheets parse numbers the way typing them would.
const valueInputOption = "USER_ENTERED"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var _ ports.CellStore = (*Client)(nil)

// New creates a cell store over one sheet of a spreadsheet. Authentication
// and transport come from opts; see CredentialsOption.
func New(ctx context.Context, spreadsheetID, sheetName string, opts ...goption.ClientOption) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created successfully",
		"spreadsheet_id", spreadsheetID,
		"sheet", sheetName)

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// Get reads a single cell. Sheets omits trailing empty cells, so an empty
// value matrix means the cell is empty.
func (c *Client) Get(ctx context.Context, addr core.CellAddress) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	rng := a1Range(c.sheetName, addr)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return "", nil
	}
	return fmt.Sprint(resp.Values[0][0]), nil
}

func (c *Client) Set(ctx context.Context, addr core.CellAddress, value string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if err := addr.Validate(); err != nil {
		return err
	}
	rng := a1Range(c.sheetName, addr)
	vr := &gsheet.ValueRange{Values: [][]any{{value}}}

	resp, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption(valueInputOption).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}

	slog.DebugContext(ctx, "Sheet cell updated",
		"range", rng,
		"updated_cells", resp.UpdatedCells)
	return nil
}

// a1Range qualifies addr with the sheet name. Names are always quoted since
// they may contain spaces and commas.
func a1Range(sheet string, addr core.CellAddress) string {
	sheet = strings.TrimSpace(sheet)
	if sheet == "" {
		return addr.String()
	}
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + addr.String()
}
