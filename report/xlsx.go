package report

import (
	"errors"
	"fmt"

	"github.com/matt-g-everett/ledchart/chart"
	"github.com/xuri/excelize/v2"
)

// ValuesSheet is the sheet ExportXLSX writes samples to.
const ValuesSheet = "Values"

// ExportXLSX writes one row per sample (runtime then each series value) and a
// line chart of the values to path.
func ExportXLSX(path string, samples []Sample, names map[chart.Index]string) error {
	if len(samples) == 0 {
		return errors.New("no samples to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ValuesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	series := indexes(samples)
	if err := f.SetCellValue(ValuesSheet, "A1", "runtimeMs"); err != nil {
		return err
	}
	for col, index := range series {
		cell, err := excelize.CoordinatesToCellName(col+2, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(ValuesSheet, cell, seriesName(names, index)); err != nil {
			return err
		}
	}

	for row, sample := range samples {
		cell, _ := excelize.CoordinatesToCellName(1, row+2)
		if err := f.SetCellValue(ValuesSheet, cell, sample.RuntimeMs); err != nil {
			return err
		}
		for col, index := range series {
			st, ok := find(sample.Series, index)
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+2, row+2)
			if err := f.SetCellValue(ValuesSheet, cell, st.Value); err != nil {
				return err
			}
		}
	}

	lastRow := len(samples) + 1
	lines := make([]excelize.ChartSeries, 0, len(series))
	for col := range series {
		name, _ := excelize.CoordinatesToCellName(col+2, 1, true)
		first, _ := excelize.CoordinatesToCellName(col+2, 2, true)
		last, _ := excelize.CoordinatesToCellName(col+2, lastRow, true)
		lines = append(lines, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!%s", ValuesSheet, name),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", ValuesSheet, lastRow),
			Values:     fmt.Sprintf("%s!%s:%s", ValuesSheet, first, last),
		})
	}
	anchor, _ := excelize.CoordinatesToCellName(len(series)+3, 2)
	if err := f.AddChart(ValuesSheet, anchor, &excelize.Chart{
		Type:   excelize.Line,
		Series: lines,
		Title:  []excelize.RichTextRun{{Text: "Series values"}},
	}); err != nil {
		return fmt.Errorf("failed to add chart: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
