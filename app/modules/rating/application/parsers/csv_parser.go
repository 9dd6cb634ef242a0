package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"

	ratingservice "github.com/smk-league/smk-rating/app/modules/rating/application"
)

// CSVParser parses comma or semicolon separated result files.
type CSVParser struct{}

// NewCSVParser creates a new CSV parser
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Parse(data []byte) ([]ratingservice.ScoreLine, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	if firstLine, _, _ := bytes.Cut(data, []byte("\n")); bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		reader.Comma = ';'
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}
	return parseRows(records)
}
