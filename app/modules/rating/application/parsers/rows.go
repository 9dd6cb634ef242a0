package parsers

import (
	"fmt"
	"strconv"
	"strings"

	ratingservice "github.com/smk-league/smk-rating/app/modules/rating/application"
)

var (
	nameHeaders  = []string{"name", "player", "joueur", "pseudo"}
	scoreHeaders = []string{"score", "points", "pts"}
	guestHeaders = []string{"guest", "invite", "invité", "excluded"}
)

type columns struct {
	name, score, guest int
}

// findColumns looks for a header row in the first lines of the sheet. Without
// one, the first column is the name and the second the score.
func findColumns(rows [][]string) (columns, int) {
	for i := 0; i < len(rows) && i < 5; i++ {
		cols := columns{name: -1, score: -1, guest: -1}
		for j, cell := range rows[i] {
			h := strings.ToLower(strings.TrimSpace(cell))
			switch {
			case cols.name < 0 && matches(h, nameHeaders):
				cols.name = j
			case cols.score < 0 && matches(h, scoreHeaders):
				cols.score = j
			case cols.guest < 0 && matches(h, guestHeaders):
				cols.guest = j
			}
		}
		if cols.name >= 0 && cols.score >= 0 {
			return cols, i + 1
		}
	}
	return columns{name: 0, score: 1, guest: 2}, 0
}

func matches(header string, candidates []string) bool {
	for _, c := range candidates {
		if header == c || strings.HasPrefix(header, c+" ") {
			return true
		}
	}
	return false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "x", "1", "y", "yes", "true", "oui":
		return true
	default:
		return false
	}
}

// parseRows extracts score lines, skipping blank rows. Scores may be written
// with a decimal part as long as it is zero.
func parseRows(rows [][]string) ([]ratingservice.ScoreLine, error) {
	cols, start := findColumns(rows)

	var out []ratingservice.ScoreLine
	for i := start; i < len(rows); i++ {
		name := cell(rows[i], cols.name)
		raw := cell(rows[i], cols.score)
		if name == "" && raw == "" {
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("row %d: missing player name", i+1)
		}
		score, err := parseScore(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", i+1, name, err)
		}
		out = append(out, ratingservice.ScoreLine{
			Name:               name,
			Score:              score,
			ExcludedFromRating: isTruthy(cell(rows[i], cols.guest)),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no score rows found")
	}
	return out, nil
}

func parseScore(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid score %q", raw)
	}
	return int(f), nil
}
