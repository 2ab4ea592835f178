package usecase

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/diillson/ticket-ledger/internal/shared/types"
)

const (
	// ReportHeaderToken starts the header line of the export; everything above it is preamble.
	ReportHeaderToken = `"Request Date and Time"`

	buyerColumn    = "User Name"
	quantityColumn = "Order QTY"
)

// AggregateReport sums the ordered quantity per buyer in a raw report export.
//
// Buyers are returned in first-seen order and compared verbatim. A quantity that
// does not parse, or a missing quantity cell, counts as 0. An export with a
// header and no data rows yields an empty slice.
func AggregateReport(text string) ([]entity.AggregateRow, error) {
	body, ok := stripPreamble(text)
	if !ok {
		return nil, fmt.Errorf("%w: no line starts with %s", types.ErrMalformedReport, ReportHeaderToken)
	}

	reader := csv.NewReader(strings.NewReader(body))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", types.ErrMalformedReport, err)
	}

	buyerIdx, qtyIdx := -1, -1
	for i, name := range header {
		switch name {
		case buyerColumn:
			if buyerIdx < 0 {
				buyerIdx = i
			}
		case quantityColumn:
			if qtyIdx < 0 {
				qtyIdx = i
			}
		}
	}
	if buyerIdx < 0 {
		return nil, fmt.Errorf("%w: column %q missing from header", types.ErrMalformedReport, buyerColumn)
	}

	totals := make(map[string]int)
	rows := []entity.AggregateRow{}
	line := 1

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", types.ErrMalformedReport, line, err)
		}

		buyer := field(record, buyerIdx)
		qty := entity.ParseQuantity(field(record, qtyIdx))
		if _, seen := totals[buyer]; !seen {
			rows = append(rows, entity.AggregateRow{Buyer: buyer})
		}
		totals[buyer] += qty
	}

	for i := range rows {
		rows[i].Total = totals[rows[i].Buyer]
	}
	return rows, nil
}

func stripPreamble(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimPrefix(line, "\ufeff"), ReportHeaderToken) {
			lines[i] = strings.TrimPrefix(line, "\ufeff")
			return strings.Join(lines[i:], "\n"), true
		}
	}
	return "", false
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
