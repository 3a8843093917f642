// Package export writes the series table as a spreadsheet with a native
// stacked-area chart.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"salescharts/internal/charts/palette"
	"salescharts/internal/dataset"
)

const (
	DataSheet  = "Sales"
	ChartSheet = "Chart"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ErrNoData = errors.New("no data to export")

// WriteXLSX writes a workbook with the table on the Sales sheet (one date
// column then one column per product) and a stacked-area chart sheet over it.
func WriteXLSX(t *dataset.SeriesTable, w io.Writer, title string) error {
	if t.Len() == 0 || len(t.Products) == 0 {
		return ErrNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DataSheet); err != nil {
		return fmt.Errorf("failed to name data sheet: %w", err)
	}
	if err := writeTable(f, t); err != nil {
		return err
	}

	lastRow := t.Len() + 1
	series := make([]excelize.ChartSeries, 0, len(t.Products))
	for i := range t.Products {
		col, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return err
		}
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", DataSheet, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", DataSheet, lastRow),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", DataSheet, col, col, lastRow),
			Fill: excelize.Fill{
				Type:         "pattern",
				Pattern:      1,
				Color:        []string{palette.Pick(palette.Vivid20, i)},
				Transparency: 20,
			},
		})
	}

	if err := f.AddChartSheet(ChartSheet, &excelize.Chart{
		Type:   excelize.AreaStacked,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{Position: "right"},
		XAxis: excelize.ChartAxis{
			TickLabelSkip: 30,
			Title:         []excelize.RichTextRun{{Text: "Date"}},
		},
		YAxis: excelize.ChartAxis{
			MajorGridLines: true,
			Title:          []excelize.RichTextRun{{Text: "Sales"}},
		},
	}); err != nil {
		return fmt.Errorf("failed to add chart: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, t *dataset.SeriesTable) error {
	header := make([]interface{}, 0, len(t.Products)+1)
	header = append(header, "Date")
	for _, p := range t.Products {
		header = append(header, p)
	}
	if err := f.SetSheetRow(DataSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]interface{}, len(t.Products)+1)
	for i, d := range t.Dates {
		row[0] = d
		for j, p := range t.Products {
			row[j+1] = t.Matrix[p][i]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(DataSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %s: %w", d, err)
		}
	}

	return f.SetColWidth(DataSheet, "A", "A", 12)
}
