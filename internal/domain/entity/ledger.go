package entity

import (
	"fmt"
	"time"
)

const (
	// HeaderBuyer opens the fixed header row of every ledger block and the pivot header.
	HeaderBuyer = "Buyer"
	// HeaderTotal is the second column of a ledger block header.
	HeaderTotal = "Tickets Purchased"

	labelDateLayout = "1/2/2006"
)

// Row is one line of cells written to a tabular store. Cells hold strings or ints.
type Row []any

// Matrix is an ordered set of rows.
type Matrix []Row

// LedgerBlock is the persisted output of one ingest run.
type LedgerBlock struct {
	Label string
	Rows  []AggregateRow
}

// BlockLabel names a block after its range key and the local date of the run.
func BlockLabel(key RangeKey, at time.Time) string {
	return fmt.Sprintf("%s (%s)", key, at.Format(labelDateLayout))
}

// NewLedgerBlock builds the block for one ingest run.
func NewLedgerBlock(key RangeKey, at time.Time, rows []AggregateRow) LedgerBlock {
	return LedgerBlock{Label: BlockLabel(key, at), Rows: rows}
}

// Matrix lays the block out as label row, header row, one row per buyer and a blank separator.
func (b LedgerBlock) Matrix() Matrix {
	m := make(Matrix, 0, len(b.Rows)+3)
	m = append(m, Row{b.Label}, Row{HeaderBuyer, HeaderTotal})
	for _, r := range b.Rows {
		m = append(m, Row{r.Buyer, r.Total})
	}
	return append(m, Row{})
}

// RowKind tags a ledger row by shape.
type RowKind int

const (
	SeparatorRow RowKind = iota
	LabelRow
	HeaderRow
	DataRow
	MalformedRow
)

func (k RowKind) String() string {
	switch k {
	case SeparatorRow:
		return "separator"
	case LabelRow:
		return "label"
	case HeaderRow:
		return "header"
	case DataRow:
		return "data"
	default:
		return "malformed"
	}
}

// LedgerRow is a classified ledger row.
type LedgerRow struct {
	Kind  RowKind
	Label string
	Buyer string
	Total int
}

// ClassifyRow decides the shape of a raw ledger row. Trailing empty cells are
// ignored, since stores disagree on whether they report them.
func ClassifyRow(cells []string) LedgerRow {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	cells = cells[:n]

	switch {
	case n == 0:
		return LedgerRow{Kind: SeparatorRow}
	case n == 1:
		return LedgerRow{Kind: LabelRow, Label: cells[0]}
	case n == 2 && cells[0] == HeaderBuyer:
		return LedgerRow{Kind: HeaderRow}
	case n == 2:
		return LedgerRow{Kind: DataRow, Buyer: cells[0], Total: ParseQuantity(cells[1])}
	default:
		return LedgerRow{Kind: MalformedRow}
	}
}

// BlockTotals is the buyer -> total bucket of one labelled ledger block.
type BlockTotals struct {
	Label  string
	buyers []string
	totals map[string]int
}

func newBlockTotals(label string) *BlockTotals {
	return &BlockTotals{Label: label, totals: make(map[string]int)}
}

func (b *BlockTotals) set(buyer string, total int) {
	if _, seen := b.totals[buyer]; !seen {
		b.buyers = append(b.buyers, buyer)
	}
	b.totals[buyer] = total
}

// Buyers returns the block's buyers in first-seen order.
func (b *BlockTotals) Buyers() []string {
	return append([]string(nil), b.buyers...)
}

// Total returns the buyer's total and whether the buyer appears in the block.
func (b *BlockTotals) Total(buyer string) (int, bool) {
	v, ok := b.totals[buyer]
	return v, ok
}

// AllZero reports whether every total in the block is zero. Empty blocks are all zero.
func (b *BlockTotals) AllZero() bool {
	for _, v := range b.totals {
		if v != 0 {
			return false
		}
	}
	return true
}

// ScanStats counts how the ledger rows were classified.
type ScanStats struct {
	Rows      int
	Blocks    int
	DataRows  int
	Malformed int
}

// ScanLedger folds the raw ledger rows into labelled blocks in ledger order.
//
// A later data row for the same buyer in a block overwrites the earlier one.
// A repeated label starts its bucket over and keeps the column position of its
// first occurrence, so the latest run for a period wins. Data rows before the
// first label and rows of any other shape are counted as malformed and skipped.
func ScanLedger(rows [][]string) ([]*BlockTotals, ScanStats) {
	var (
		blocks  []*BlockTotals
		index   = make(map[string]int)
		current = -1
		stats   = ScanStats{Rows: len(rows)}
	)

	for _, cells := range rows {
		row := ClassifyRow(cells)
		switch row.Kind {
		case LabelRow:
			stats.Blocks++
			if i, ok := index[row.Label]; ok {
				blocks[i] = newBlockTotals(row.Label)
				current = i
				continue
			}
			index[row.Label] = len(blocks)
			current = len(blocks)
			blocks = append(blocks, newBlockTotals(row.Label))
		case DataRow:
			if current < 0 {
				stats.Malformed++
				continue
			}
			stats.DataRows++
			blocks[current].set(row.Buyer, row.Total)
		case MalformedRow:
			stats.Malformed++
		}
	}

	return blocks, stats
}
