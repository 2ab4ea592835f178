package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/diillson/ticket-ledger/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// labelsPerPage is how many period columns fit next to the buyer column on a landscape A4 page.
const labelsPerPage = 7

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	now func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{now: time.Now}
}

func (r *ExportRepositoryImpl) ExportSummaryToCSV(pivot entity.PivotTable, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(pivot.Header()); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, row := range pivot.Rows() {
		record := make([]string, 0, len(row.Totals)+1)
		record = append(record, row.Buyer)
		for _, total := range row.Totals {
			record = append(record, strconv.Itoa(total))
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

type summaryDocument struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Labels      []string          `json:"labels"`
	Rows        []entity.PivotRow `json:"rows"`
}

func (r *ExportRepositoryImpl) ExportSummaryToJSON(pivot entity.PivotTable, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	doc := summaryDocument{
		GeneratedAt: r.now(),
		Labels:      pivot.Labels,
		Rows:        pivot.Rows(),
	}
	if doc.Labels == nil {
		doc.Labels = []string{}
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportSummaryToPDF draws the pivot as a table, splitting the period columns
// across pages when they do not fit.
func (r *ExportRepositoryImpl) ExportSummaryToPDF(pivot entity.PivotTable, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	stripeColor := [3]int{240, 240, 240}
	buyerWidth, totalWidth := 55.0, 30.0

	generated := r.now()
	chunks := labelChunks(len(pivot.Labels))
	for page, chunk := range chunks {
		pdf.AddPage()

		pdf.SetFont("Arial", "B", 16)
		pdf.SetTextColor(0, 0, 0)
		pdf.Cell(0, 10, tr("Tickets Purchased per Buyer"))
		pdf.Ln(12)

		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
		pdf.SetFont("Arial", "B", 8)
		pdf.CellFormat(buyerWidth, 8, tr(entity.HeaderBuyer), "1", 0, "L", true, 0, "")
		for _, label := range pivot.Labels[chunk[0]:chunk[1]] {
			pdf.CellFormat(totalWidth, 8, tr(label), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.SetFillColor(stripeColor[0], stripeColor[1], stripeColor[2])
		for i, row := range pivot.Rows() {
			fill := i%2 == 1
			pdf.CellFormat(buyerWidth, 7, tr(row.Buyer), "1", 0, "L", fill, 0, "")
			for _, total := range row.Totals[chunk[0]:chunk[1]] {
				pdf.CellFormat(totalWidth, 7, strconv.Itoa(total), "1", 0, "R", fill, 0, "")
			}
			pdf.Ln(-1)
		}

		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by ticket-ledger | %s", generated.Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d/%d", page+1, len(chunks))), "", 0, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// labelChunks splits n columns into [start, end) ranges of labelsPerPage.
// A pivot without columns still gets one page for its buyer list.
func labelChunks(n int) [][2]int {
	if n == 0 {
		return [][2]int{{0, 0}}
	}
	var chunks [][2]int
	for start := 0; start < n; start += labelsPerPage {
		end := start + labelsPerPage
		if end > n {
			end = n
		}
		chunks = append(chunks, [2]int{start, end})
	}
	return chunks
}

func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := r.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
