package render

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/tokoyanto/nota/internal/i18n"
	"github.com/tokoyanto/nota/internal/models"
)

// ExcelRenderer exports notas to a spreadsheet: one summary sheet plus a
// per-line detail sheet.
type ExcelRenderer struct {
	Logger *zap.Logger
}

func (e *ExcelRenderer) log() *zap.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return zap.NewNop()
}

func (e *ExcelRenderer) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		e.log().Warn("failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}

// NotasExcel writes the given notas (with lines and customers preloaded) to
// xlsx bytes, with labels in the requested language.
func (e *ExcelRenderer) NotasExcel(notas []models.Nota, lang string) ([]byte, error) {
	lang = i18n.Normalize(lang)
	label := func(code string) string { return i18n.T(lang, code) }

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.log().Warn("failed to close workbook", zap.Error(err))
		}
	}()

	summary := label("nota")
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	detail := label("col_item")
	if _, err := f.NewSheet(detail); err != nil {
		return nil, fmt.Errorf("create detail sheet: %w", err)
	}

	summaryHeader := []string{
		label("nota_number"), label("nota_date"), label("due_date"),
		label("customer"), label("status"), label("payment_status"), label("total"),
	}
	for i, h := range summaryHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		e.setCell(f, summary, cell, h)
	}
	detailHeader := []string{
		label("nota_number"), label("col_item"), label("col_qty"),
		label("col_unit"), label("col_price"), label("col_amount"),
	}
	for i, h := range detailHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		e.setCell(f, detail, cell, h)
	}

	detailRow := 2
	for i, n := range notas {
		customerName := ""
		if n.Customer != nil {
			customerName = n.Customer.StoreName
			if customerName == "" {
				customerName = n.Customer.Name
			}
		}
		rowValues := []interface{}{
			n.Number, formatDate(n.NotaDate), formatOptDate(n.DueDate),
			customerName, statusLabel(lang, n.Status), paymentLabel(lang, n.PaymentStatus), n.Total(),
		}
		for col, v := range rowValues {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			e.setCell(f, summary, cell, v)
		}

		for _, it := range n.Items {
			lineValues := []interface{}{
				n.Number, itemName(it, lang), it.Qty, it.Unit, it.Price, it.Amount(),
			}
			for col, v := range lineValues {
				cell, _ := excelize.CoordinatesToCellName(col+1, detailRow)
				e.setCell(f, detail, cell, v)
			}
			detailRow++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
