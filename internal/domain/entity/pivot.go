package entity

// PivotTable is the buyer x label matrix of totals derived from the ledger.
type PivotTable struct {
	Labels []string `json:"labels"`
	Buyers []string `json:"buyers"`

	totals map[pivotKey]int
}

type pivotKey struct {
	buyer string
	label string
}

// BuildPivot keeps the blocks with at least one nonzero total and lays them out
// as columns in ledger order. Buyers are ordered by first appearance across the
// kept blocks.
func BuildPivot(blocks []*BlockTotals) PivotTable {
	p := PivotTable{
		Labels: []string{},
		Buyers: []string{},
		totals: make(map[pivotKey]int),
	}
	seen := make(map[string]struct{})

	for _, b := range blocks {
		if b.AllZero() {
			continue
		}
		p.Labels = append(p.Labels, b.Label)
		for _, buyer := range b.buyers {
			if _, ok := seen[buyer]; !ok {
				seen[buyer] = struct{}{}
				p.Buyers = append(p.Buyers, buyer)
			}
			p.totals[pivotKey{buyer: buyer, label: b.Label}] = b.totals[buyer]
		}
	}

	return p
}

// Total returns the buyer's total under label, 0 when the pair is absent.
func (p PivotTable) Total(buyer, label string) int {
	return p.totals[pivotKey{buyer: buyer, label: label}]
}

// Header is the first matrix row: "Buyer" then one column per kept label.
func (p PivotTable) Header() []string {
	return append([]string{HeaderBuyer}, p.Labels...)
}

// Matrix renders the pivot as the summary region contents.
func (p PivotTable) Matrix() Matrix {
	m := make(Matrix, 0, len(p.Buyers)+1)

	header := make(Row, 0, len(p.Labels)+1)
	for _, h := range p.Header() {
		header = append(header, h)
	}
	m = append(m, header)

	for _, buyer := range p.Buyers {
		row := make(Row, 0, len(p.Labels)+1)
		row = append(row, buyer)
		for _, label := range p.Labels {
			row = append(row, p.Total(buyer, label))
		}
		m = append(m, row)
	}
	return m
}

// Rows returns the pivot as a buyer-keyed view for JSON export.
func (p PivotTable) Rows() []PivotRow {
	rows := make([]PivotRow, 0, len(p.Buyers))
	for _, buyer := range p.Buyers {
		totals := make([]int, len(p.Labels))
		for i, label := range p.Labels {
			totals[i] = p.Total(buyer, label)
		}
		rows = append(rows, PivotRow{Buyer: buyer, Totals: totals})
	}
	return rows
}

// PivotRow is one buyer's totals aligned with PivotTable.Labels.
type PivotRow struct {
	Buyer  string `json:"buyer"`
	Totals []int  `json:"totals"`
}
