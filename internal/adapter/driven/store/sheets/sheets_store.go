// Package sheets keeps regions in a Google Sheets spreadsheet. Regions are A1
// ranges such as "RawData!A:C" or "Summary!A1".
package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/diillson/ticket-ledger/internal/adapter/driven/store/rows"
	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/diillson/ticket-ledger/internal/shared/types"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// valuesAPI is the subset of spreadsheets.values the store calls.
type valuesAPI interface {
	Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error)
	Append(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error
	Clear(ctx context.Context, spreadsheetID, rng string) error
	Update(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error
}

// Store is a TabularStore over one spreadsheet.
type Store struct {
	spreadsheetID string
	values        valuesAPI
}

// Open authenticates with the service account file and returns a store for spreadsheetID.
func Open(ctx context.Context, spreadsheetID, credentialsFile string) (*Store, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: creating sheets client: %w", types.ErrConfig, err)
	}
	return newStore(spreadsheetID, &serviceValues{svc: svc.Spreadsheets.Values}), nil
}

func newStore(spreadsheetID string, values valuesAPI) *Store {
	return &Store{spreadsheetID: spreadsheetID, values: values}
}

func (s *Store) Read(ctx context.Context, region string) ([][]string, error) {
	values, err := s.values.Get(ctx, s.spreadsheetID, region)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", types.ErrStoreRead, region, err)
	}
	out := make([][]string, 0, len(values))
	for _, row := range values {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = rows.Cell(c)
		}
		out = append(out, cells)
	}
	return out, nil
}

// Append inserts m after the last row of the region's table.
func (s *Store) Append(ctx context.Context, region string, m entity.Matrix) error {
	if err := s.values.Append(ctx, s.spreadsheetID, region, rows.Values(m)); err != nil {
		return fmt.Errorf("%w: append %s: %w", types.ErrStoreWrite, region, err)
	}
	return nil
}

// Overwrite writes m from the top-left corner of region's sheet, then clears
// whatever the previous contents left below and to the right of it. A failed
// write leaves the sheet as it was.
func (s *Store) Overwrite(ctx context.Context, region string, m entity.Matrix) error {
	sheet := sheetName(region)

	existing, err := s.values.Get(ctx, s.spreadsheetID, sheet)
	if err != nil {
		return fmt.Errorf("%w: get %s: %w", types.ErrStoreWrite, sheet, err)
	}

	if len(m) > 0 {
		if err := s.values.Update(ctx, s.spreadsheetID, sheet+"!A1", rows.Values(m)); err != nil {
			return fmt.Errorf("%w: update %s: %w", types.ErrStoreWrite, sheet, err)
		}
	}

	for _, rng := range staleRanges(sheet, extent(m), extentOf(existing)) {
		if err := s.values.Clear(ctx, s.spreadsheetID, rng); err != nil {
			return fmt.Errorf("%w: clear %s: %w", types.ErrStoreWrite, rng, err)
		}
	}
	return nil
}

type size struct{ rows, cols int }

func extent(m entity.Matrix) size {
	sz := size{rows: len(m)}
	for _, row := range m {
		sz.cols = max(sz.cols, len(row))
	}
	return sz
}

func extentOf(values [][]interface{}) size {
	sz := size{rows: len(values)}
	for _, row := range values {
		sz.cols = max(sz.cols, len(row))
	}
	return sz
}

// staleRanges returns the A1 ranges holding old cells outside the new extent:
// the rows below it, and the columns right of it within its rows.
func staleRanges(sheet string, written, old size) []string {
	var out []string
	if old.rows > written.rows && old.cols > 0 {
		out = append(out, fmt.Sprintf("%s!A%d:%s%d", sheet, written.rows+1, columnName(old.cols), old.rows))
	}
	if old.cols > written.cols && written.rows > 0 {
		out = append(out, fmt.Sprintf("%s!%s1:%s%d", sheet,
			columnName(written.cols+1), columnName(old.cols), min(written.rows, old.rows)))
	}
	return out
}

// columnName converts a 1-based column number to its A1 letters (1 -> A, 27 -> AA).
func columnName(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

func (s *Store) Close() error { return nil }

// sheetName strips the cell range from an A1 reference.
func sheetName(region string) string {
	if i := strings.LastIndex(region, "!"); i >= 0 {
		return region[:i]
	}
	return region
}

type serviceValues struct {
	svc *gsheets.SpreadsheetsValuesService
}

func (v *serviceValues) Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	resp, err := v.svc.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (v *serviceValues) Append(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error {
	_, err := v.svc.Append(spreadsheetID, rng, &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (v *serviceValues) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := v.svc.Clear(spreadsheetID, rng, &gsheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (v *serviceValues) Update(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error {
	_, err := v.svc.Update(spreadsheetID, rng, &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}
