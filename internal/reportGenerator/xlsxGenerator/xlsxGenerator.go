package xlsxGenerator

import (
	"fmt"
	"log/slog"

	"github.com/ldutos/market_reporter/internal/model"
	"github.com/ldutos/market_reporter/internal/reportGenerator"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Market report"

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

// Generate builds the spreadsheet attachment: one sheet, one row per
// report entry in report order, missing entries kept with their marker.
func (g *XLSXGenerator) Generate(report model.Report) (model.Attachment, error) {
	op := "XLSXGenerator.Generate"

	if len(report.Entries) == 0 {
		return model.Attachment{}, reportGenerator.ErrNoData
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if _, err := f.NewSheet(sheetName); err != nil {
		return model.Attachment{}, err
	}

	if err := g.fillSheet(f, report); err != nil {
		return model.Attachment{}, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("op", op), slog.String("err", err.Error()))
		return model.Attachment{}, err
	}

	return model.Attachment{
		Filename: fmt.Sprintf("market_report_%s.xlsx", report.GeneratedAt.Format("2006-01-02")),
		MIMEType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:     buf.Bytes(),
	}, nil
}

func (g *XLSXGenerator) fillSheet(f *excelize.File, report model.Report) error {
	if err := f.MergeCell(sheetName, "A1", "G1"); err != nil {
		return err
	}
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Market report %s", report.GeneratedAt.Format("2006-01-02")))

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#cfe2f3"},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetName, "A1", "A1", styleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	_ = f.SetCellStr(sheetName, "A2", "instrument")
	_ = f.SetCellStr(sheetName, "B2", "value")
	_ = f.SetCellStr(sheetName, "C2", "unit")
	_ = f.SetCellStr(sheetName, "D2", "change %")
	_ = f.SetCellStr(sheetName, "E2", "USD/kg")
	_ = f.SetCellStr(sheetName, "F2", "status")
	_ = f.SetCellStr(sheetName, "G2", "source")

	for i, entry := range report.Entries {
		row := i + 3
		switch entry.Kind {
		case model.KindQuote:
			_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), entry.Symbol.Name)
			if entry.Quote != nil {
				_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), entry.Quote.Price.InexactFloat64())
				_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", row), entry.Symbol.Unit)
				_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), entry.Quote.ChangePct.InexactFloat64())
				if !entry.Quote.USDPerKg.IsZero() {
					_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), entry.Quote.USDPerKg.InexactFloat64())
				}
				_ = f.SetCellStr(sheetName, fmt.Sprintf("G%d", row), entry.Quote.Source)
			}
		case model.KindFigure:
			_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s (%s)", entry.IndicatorKey.Indicator, entry.IndicatorKey.Region))
			if entry.Figure != nil {
				_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), entry.Figure.Value.InexactFloat64())
				_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", row), entry.Figure.Unit)
				_ = f.SetCellStr(sheetName, fmt.Sprintf("G%d", row), entry.Figure.Source)
			}
		}
		_ = f.SetCellStr(sheetName, fmt.Sprintf("F%d", row), string(entry.Status))
	}

	return nil
}
