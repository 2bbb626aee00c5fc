// Package importer loads the book catalog from CSV exports.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shelfmark/shelfmark/internal/entities"
)

// CatalogRow represents a single row from a catalog CSV file.
type CatalogRow struct {
	ISBN   string
	Title  string
	Author string
	Year   int
}

// ParseCatalogCSV parses a catalog CSV file with columns isbn,title,author,year.
// Returns the parsed rows, any parse errors encountered, and a fatal error if
// parsing fails completely.
func ParseCatalogCSV(r io.Reader) ([]CatalogRow, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	// Read header row
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Build header index map
	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}

	// Validate required headers
	requiredHeaders := []string{"isbn", "title", "author", "year"}
	for _, h := range requiredHeaders {
		if _, ok := headerIndex[h]; !ok {
			return nil, nil, fmt.Errorf("missing required header: %s", h)
		}
	}

	var rows []CatalogRow
	var errors []string
	lineNum := 1 // Start at 1 because we already read the header

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errors = append(errors, fmt.Sprintf("Line %d: %v", lineNum, err))
			continue
		}

		row := CatalogRow{
			ISBN:   getCSVValue(record, headerIndex, "isbn"),
			Title:  getCSVValue(record, headerIndex, "title"),
			Author: getCSVValue(record, headerIndex, "author"),
		}

		if row.ISBN == "" || row.Title == "" {
			errors = append(errors, fmt.Sprintf("Line %d: skipped - missing isbn or title", lineNum))
			continue
		}

		yearValue := getCSVValue(record, headerIndex, "year")
		if yearValue != "" {
			year, err := strconv.Atoi(yearValue)
			if err != nil {
				errors = append(errors, fmt.Sprintf("Line %d: skipped - invalid year %q", lineNum, yearValue))
				continue
			}
			row.Year = year
		}

		rows = append(rows, row)
	}

	return rows, errors, nil
}

func getCSVValue(record []string, headerIndex map[string]int, header string) string {
	if idx, ok := headerIndex[header]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

// BookStore is the catalog write surface the importer needs.
type BookStore interface {
	ExistsByISBN(isbn string) (bool, error)
	CreateBatch(books []entities.Book, batchSize int) error
}

// Result summarizes one import run.
type Result struct {
	Imported int
	Skipped  int
	Errors   []string
}

// Importer writes parsed catalog rows into the book store.
type Importer struct {
	store     BookStore
	batchSize int
}

// NewImporter creates an importer that inserts in batches of batchSize.
func NewImporter(store BookStore, batchSize int) *Importer {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Importer{store: store, batchSize: batchSize}
}

// Import inserts all rows whose ISBN is not already in the catalog. Rows with
// an ISBN already present are counted as skipped, so re-running an import is
// safe.
func (imp *Importer) Import(rows []CatalogRow) (*Result, error) {
	result := &Result{}

	seen := make(map[string]bool)
	var pending []entities.Book

	for _, row := range rows {
		if seen[row.ISBN] {
			result.Skipped++
			continue
		}
		seen[row.ISBN] = true

		exists, err := imp.store.ExistsByISBN(row.ISBN)
		if err != nil {
			return nil, fmt.Errorf("failed to check ISBN %s: %w", row.ISBN, err)
		}
		if exists {
			result.Skipped++
			continue
		}

		pending = append(pending, entities.Book{
			ISBN:    row.ISBN,
			Title:   row.Title,
			Author:  row.Author,
			PubYear: row.Year,
		})
	}

	if len(pending) > 0 {
		if err := imp.store.CreateBatch(pending, imp.batchSize); err != nil {
			return nil, fmt.Errorf("failed to insert books: %w", err)
		}
	}

	result.Imported = len(pending)
	return result, nil
}
