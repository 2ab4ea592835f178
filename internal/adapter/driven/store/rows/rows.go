// Package rows converts ledger matrices to string cells and back through CSV.
package rows

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/diillson/ticket-ledger/internal/domain/entity"
)

// Cell renders one cell the way it is stored. Ints keep their decimal form.
func Cell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	default:
		return fmt.Sprint(c)
	}
}

// Strings renders every row of m.
func Strings(m entity.Matrix) [][]string {
	out := make([][]string, 0, len(m))
	for _, row := range m {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = Cell(c)
		}
		out = append(out, cells)
	}
	return out
}

// Values renders m as interface cells, the shape spreadsheet APIs take.
func Values(m entity.Matrix) [][]interface{} {
	out := make([][]interface{}, 0, len(m))
	for _, row := range m {
		cells := make([]interface{}, len(row))
		copy(cells, row)
		out = append(out, cells)
	}
	return out
}

// Decode reads CSV rows of any width. Blank lines are not returned.
func Decode(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decoding csv: %w", err)
	}
	if records == nil {
		records = [][]string{}
	}
	return records, nil
}

// Encode writes rows as CSV.
func Encode(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("encoding csv: %w", err)
	}
	return nil
}

// EncodeBytes is Encode into a fresh buffer.
func EncodeBytes(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
