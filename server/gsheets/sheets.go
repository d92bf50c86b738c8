package gsheets

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const rawInput = "RAW"

// Client reads and writes cell ranges of a single spreadsheet
type Client struct {
	srv           *sheets.Service
	spreadsheetID string
	log           *zap.SugaredLogger
}

func NewClient(ctx context.Context, log *zap.SugaredLogger, spreadsheetID string, opts ...option.ClientOption) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{srv: srv, spreadsheetID: spreadsheetID, log: log.With("client", "GoogleSheets")}, nil
}

// TabNames returns the titles of every tab in the spreadsheet
func (c *Client) TabNames(ctx context.Context) ([]string, error) {
	ss, err := c.srv.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}
	names := make([]string, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			names = append(names, s.Properties.Title)
		}
	}
	return names, nil
}

// EnsureTab creates the tab with a header row when it does not exist yet
func (c *Client) EnsureTab(ctx context.Context, tab string, header []interface{}) error {
	return c.EnsureTabs(ctx, []string{tab}, header)
}

// EnsureTabs is EnsureTab for several tabs sharing the same header, the spreadsheet is only fetched once
func (c *Client) EnsureTabs(ctx context.Context, tabs []string, header []interface{}) error {
	existing, err := c.TabNames(ctx)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, name := range existing {
		seen[name] = true
	}
	for _, tab := range tabs {
		if seen[tab] {
			continue
		}
		c.log.Infow("creating sheet tab", "tab", tab)
		_, err := c.srv.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: tab}}},
			},
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to create tab %v: %w", tab, err)
		}
		seen[tab] = true
		if len(header) == 0 {
			continue
		}
		headerRange := Range(tab, "A1", ColumnName(len(header))+"1")
		if err := c.WriteRows(ctx, headerRange, [][]interface{}{header}); err != nil {
			return fmt.Errorf("failed to write header for tab %v: %w", tab, err)
		}
	}
	return nil
}

func (c *Client) ReadRows(ctx context.Context, rng string) ([][]interface{}, error) {
	vr, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", rng, err)
	}
	return vr.Values, nil
}

// WriteRows overwrites the cells in rng
func (c *Client) WriteRows(ctx context.Context, rng string, rows [][]interface{}) error {
	_, err := c.srv.Spreadsheets.Values.
		Update(c.spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption(rawInput).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write %v: %w", rng, err)
	}
	c.log.Debugw("rows written", "range", rng, "rows", len(rows))
	return nil
}

// AppendRows adds rows after the last non-empty row of the table found in rng
func (c *Client) AppendRows(ctx context.Context, rng string, rows [][]interface{}) error {
	_, err := c.srv.Spreadsheets.Values.
		Append(c.spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption(rawInput).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to %v: %w", rng, err)
	}
	c.log.Debugw("rows appended", "range", rng, "rows", len(rows))
	return nil
}

func (c *Client) ClearRange(ctx context.Context, rng string) error {
	_, err := c.srv.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear %v: %w", rng, err)
	}
	c.log.Debugw("range cleared", "range", rng)
	return nil
}

// Range builds an A1 range for tab. Tab names with anything other than letters and digits are quoted.
// to may be empty for a single cell, or a bare column ("D") for an open-ended range.
func Range(tab, from, to string) string {
	name := tab
	for _, r := range tab {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			name = "'" + strings.ReplaceAll(tab, "'", "''") + "'"
			break
		}
	}
	if to == "" {
		return name + "!" + from
	}
	return name + "!" + from + ":" + to
}

// ColumnName converts a 1-based column index to its letters, 1 -> A, 27 -> AA
func ColumnName(n int) string {
	var name []byte
	for n > 0 {
		n--
		name = append([]byte{byte('A' + n%26)}, name...)
		n /= 26
	}
	return string(name)
}
