package parsers

import (
	"bytes"
	"fmt"

	ratingservice "github.com/smk-league/smk-rating/app/modules/rating/application"
	"github.com/xuri/excelize/v2"
)

// XLSXParser reads the first sheet of a workbook.
type XLSXParser struct{}

// NewXLSXParser creates a new XLSX parser
func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

func (p *XLSXParser) Parse(data []byte) ([]ratingservice.ScoreLine, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}

	sheetName := sheets[0]
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}
	return parseRows(rows)
}
