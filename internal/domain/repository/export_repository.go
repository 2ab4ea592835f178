package repository

import (
	"github.com/diillson/ticket-ledger/internal/domain/entity"
)

type ExportRepository interface {
	ExportSummaryToCSV(pivot entity.PivotTable, filename, outputDir string) (string, error)
	ExportSummaryToJSON(pivot entity.PivotTable, filename, outputDir string) (string, error)
	ExportSummaryToPDF(pivot entity.PivotTable, filename, outputDir string) (string, error)
}
