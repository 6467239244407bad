// Package report writes rankings as Excel workbooks.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/saiyo/internal/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the worksheet holding the ranking.
const SheetName = "Ranking"

var headers = []string{"Rank", "Résumé", "Score", "Matched terms", "Preview"}

// WriteXLSX writes response as a single-sheet workbook. The score column carries
// a data bar scaled to [0, 1] in place of a progress bar.
func WriteXLSX(w io.Writer, response *models.RankResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeHeader(f); err != nil {
		return err
	}
	for i, result := range response.Results {
		row := []interface{}{
			result.Rank,
			result.Name,
			result.Score,
			strings.Join(result.MatchedTerms, ", "),
			result.Preview,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if len(response.Results) > 0 {
		if err := formatScores(f, len(response.Results)); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File) error {
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", "E1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "B", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "C", "C", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "D", "D", 36); err != nil {
		return err
	}
	return f.SetColWidth(SheetName, "E", "E", 60)
}

func formatScores(f *excelize.File, n int) error {
	last := fmt.Sprintf("C%d", n+1)
	score, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "C2", last, score); err != nil {
		return err
	}
	err = f.SetConditionalFormat(SheetName, "C2:"+last, []excelize.ConditionalFormatOptions{{
		Type:     "data_bar",
		Criteria: "=",
		MinType:  "num",
		MinValue: "0",
		MaxType:  "num",
		MaxValue: "1",
		BarColor: "#638EC6",
	}})
	if err != nil {
		return fmt.Errorf("score data bar: %w", err)
	}
	return nil
}
