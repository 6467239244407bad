// Package cli renders ranking results for the saiyo command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/saiyo/internal/models"
	"github.com/hyperjump/saiyo/internal/report"
)

// OutputFormat is the format for ranking output.
type OutputFormat string

const (
	// OutputText is human-readable text with progress bars (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one tab-separated line per résumé.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
	// OutputXLSX is an Excel workbook.
	OutputXLSX OutputFormat = "xlsx"
)

// barWidth is the number of cells in a text progress bar.
const barWidth = 20

// ParseFormat validates s as an output format. Empty means text.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return OutputText, nil
	case OutputText, OutputCompact, OutputJSON, OutputXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text, compact, json or xlsx)", s)
	}
}

// WriteResults writes a ranking to w in the given format. Unknown formats are
// written as text.
func WriteResults(w io.Writer, response *models.RankResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	case OutputCompact:
		return writeCompact(w, response)
	case OutputXLSX:
		return report.WriteXLSX(w, response)
	default:
		writeText(w, response)
		return nil
	}
}

func writeText(w io.Writer, response *models.RankResponse) {
	fmt.Fprintf(w, "\nRanked Resumes (%d in %dms)\n\n", response.Total, response.QueryTime)
	for _, result := range response.Results {
		fmt.Fprintf(w, "%d. %s - Score: %.2f\n", result.Rank, result.Name, result.Score)
		fmt.Fprintf(w, "   %s %3.0f%%\n", ProgressBar(result.Progress, barWidth), result.Progress*100)
		if len(result.MatchedTerms) > 0 {
			fmt.Fprintf(w, "   Matched: %s\n", strings.Join(result.MatchedTerms, ", "))
		}
		if result.Preview != "" {
			fmt.Fprintf(w, "   %s\n", result.Preview)
		}
		fmt.Fprintln(w)
	}
}

func writeCompact(w io.Writer, response *models.RankResponse) error {
	for _, result := range response.Results {
		if _, err := fmt.Fprintf(w, "%d\t%.4f\t%s\n", result.Rank, result.Score, result.Name); err != nil {
			return err
		}
	}
	return nil
}

// ProgressBar renders progress (clamped to [0, 1]) as a bar of width cells.
func ProgressBar(progress float64, width int) string {
	if width <= 0 {
		return ""
	}
	if progress < 0 || progress != progress {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filled := int(progress*float64(width) + 0.5)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
