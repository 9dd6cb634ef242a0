package parsers

import (
	"fmt"
	"path/filepath"
	"strings"

	ratingservice "github.com/smk-league/smk-rating/app/modules/rating/application"
)

// Parser turns an uploaded results file into score lines.
type Parser interface {
	Parse(data []byte) ([]ratingservice.ScoreLine, error)
}

// Factory creates the appropriate parser based on file extension
type Factory struct{}

// NewFactory creates a new parser factory
func NewFactory() *Factory {
	return &Factory{}
}

// GetParser returns the appropriate parser for the given filename
func (f *Factory) GetParser(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".csv":
		return NewCSVParser(), nil
	case ".xlsx", ".xlsm":
		return NewXLSXParser(), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %q", ext)
	}
}
