package render

import (
	"embed"
	"html/template"
	"io"

	"github.com/tokoyanto/nota/internal/i18n"
	"github.com/tokoyanto/nota/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var printTemplates = template.Must(template.New("print").Funcs(template.FuncMap{
	"rupiah": Rupiah,
	"qty":    Qty,
}).ParseFS(templateFS, "templates/*.html"))

type printLine struct {
	No     int
	Name   string
	Qty    string
	Unit   string
	Price  string
	Amount string
}

type printData struct {
	L          func(string) string
	ShowHeader bool
	Number     string
	Customer   string
	NotaDate   string
	DueDate    string
	Lines      []printLine
	Total      string
	Payment    string
	Edited     bool
	EditedAt   string
}

func buildPrintData(n *models.Nota, c *models.Customer, lang string) printData {
	lang = i18n.Normalize(lang)
	lines := make([]printLine, 0, len(n.Items))
	for i, it := range n.Items {
		lines = append(lines, printLine{
			No:     i + 1,
			Name:   itemName(it, lang),
			Qty:    Qty(it.Qty),
			Unit:   it.Unit,
			Price:  Rupiah(it.Price),
			Amount: Rupiah(it.Amount()),
		})
	}
	customerName := ""
	showHeader := true
	if c != nil {
		customerName = c.StoreName
		if customerName == "" {
			customerName = c.Name
		}
		showHeader = c.RequireHeader
	}
	return printData{
		L:          func(code string) string { return i18n.T(lang, code) },
		ShowHeader: showHeader,
		Number:     n.Number,
		Customer:   customerName,
		NotaDate:   formatDate(n.NotaDate),
		DueDate:    formatOptDate(n.DueDate),
		Lines:      lines,
		Total:      Rupiah(n.Total()),
		Payment:    paymentLabel(lang, n.PaymentStatus),
		Edited:     n.LastEditedAt != nil,
		EditedAt:   formatOptDate(n.LastEditedAt),
	}
}

// NotaHTML writes the printable nota view.
func NotaHTML(w io.Writer, n *models.Nota, c *models.Customer, lang string) error {
	return printTemplates.ExecuteTemplate(w, "nota.html", buildPrintData(n, c, lang))
}

// SuratJalanHTML writes the printable delivery note: same identification block
// as the nota, but only item names and quantities, no prices.
func SuratJalanHTML(w io.Writer, n *models.Nota, c *models.Customer, lang string) error {
	return printTemplates.ExecuteTemplate(w, "surat_jalan.html", buildPrintData(n, c, lang))
}
