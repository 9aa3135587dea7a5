// Package importer loads the phrase catalog from spreadsheet or CSV files.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/phrasebot/internal/database"
	"github.com/example/phrasebot/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath            string // Path to the Excel or CSV file
	CategoryColumn      string // Column with the category
	SituationColumn     string // Column with the situation
	KoreanColumn        string // Column with the Korean sentence
	PronunciationColumn string // Column with the romanized reading
	MeaningColumn       string // Column with the translation
	SheetName           string // Name of the sheet to import
	StartRow            int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration, matching the
// column layout of the shared staff spreadsheet
// (Category, Situation, Korean, Pronunciation, Meaning).
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		CategoryColumn:      "A",
		SituationColumn:     "B",
		KoreanColumn:        "C",
		PronunciationColumn: "D",
		MeaningColumn:       "E",
		SheetName:           "Sheet1",
		StartRow:            2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportPhrases imports catalog phrases from an Excel or CSV file
func ImportPhrases(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	if ext == ".csv" {
		return importFromCSV(config)
	}
	return importFromExcel(config)
}

// importFromExcel imports phrases from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	result := &ImportResult{
		Errors: make([]string, 0),
	}
	phraseRepo := database.NewPhraseRepository()
	existing, err := existingByKey(phraseRepo)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		result.TotalProcessed++

		if err := processRow(row, config, phraseRepo, existing, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importFromCSV imports phrases from a CSV file. The expected layout is the
// header-first format the web client ships with:
// Category,Situation,Korean,Pronunciation,Meaning
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := &ImportResult{
		Errors: make([]string, 0),
	}
	phraseRepo := database.NewPhraseRepository()
	existing, err := existingByKey(phraseRepo)
	if err != nil {
		return nil, err
	}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++

		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++

		if err := processRow(row, config, phraseRepo, existing, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// existingByKey maps (korean, category) to already-imported phrases
func existingByKey(repo *database.PhraseRepository) (map[string]models.Phrase, error) {
	catalog, err := repo.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get existing phrases: %v", err)
	}

	existing := make(map[string]models.Phrase, len(catalog))
	for _, p := range catalog {
		existing[p.Korean+"\x00"+strings.ToLower(p.Category)] = p
	}
	return existing, nil
}

// processRow upserts a single row of phrase data
func processRow(row []string, config ImportConfig, repo *database.PhraseRepository,
	existing map[string]models.Phrase, result *ImportResult) error {
	var category, situation, korean, pronunciation, meaning string

	// Check bounds for each column
	if colIdx := columnToIndex(config.CategoryColumn); colIdx >= 0 && colIdx < len(row) {
		category = strings.TrimSpace(row[colIdx])
	}
	if colIdx := columnToIndex(config.SituationColumn); colIdx >= 0 && colIdx < len(row) {
		situation = strings.TrimSpace(row[colIdx])
	}
	if colIdx := columnToIndex(config.KoreanColumn); colIdx >= 0 && colIdx < len(row) {
		korean = strings.TrimSpace(row[colIdx])
	}
	if colIdx := columnToIndex(config.PronunciationColumn); colIdx >= 0 && colIdx < len(row) {
		pronunciation = strings.TrimSpace(row[colIdx])
	}
	if colIdx := columnToIndex(config.MeaningColumn); colIdx >= 0 && colIdx < len(row) {
		meaning = strings.TrimSpace(row[colIdx])
	}

	if korean == "" {
		result.Skipped++
		return nil
	}
	if category == "" {
		category = "Daily"
	}

	key := korean + "\x00" + strings.ToLower(category)
	if prev, ok := existing[key]; ok {
		prev.Situation = situation
		prev.Pronunciation = pronunciation
		prev.Meaning = meaning
		if err := repo.Update(&prev); err != nil {
			return fmt.Errorf("failed to update phrase: %v", err)
		}
		existing[key] = prev
		result.Updated++
		return nil
	}

	phrase := models.Phrase{
		Category:      category,
		Situation:     situation,
		Korean:        korean,
		Pronunciation: pronunciation,
		Meaning:       meaning,
	}
	if err := repo.Create(&phrase); err != nil {
		return fmt.Errorf("failed to create phrase: %v", err)
	}
	existing[key] = phrase
	result.Created++
	return nil
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return -1
	}
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
