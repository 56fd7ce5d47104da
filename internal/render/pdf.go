package render

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	"github.com/tokoyanto/nota/internal/i18n"
	"github.com/tokoyanto/nota/internal/models"
)

// pdfFontFamily is the registered name for the optional UTF-8 font.
const pdfFontFamily = "notautf8"

// a5MaxLines mirrors the printed layout: short notas fit A5 paper, longer
// ones fall back to A4.
const a5MaxLines = 10

// PDFRenderer produces the nota PDF. FontPath may point at a UTF-8 TTF
// (PDF_FONT_PATH); without one the built-in fonts cannot draw Mandarin, so
// zh output silently falls back to Indonesian labels.
type PDFRenderer struct {
	FontPath string
}

func (p *PDFRenderer) build(n *models.Nota) (core.Maroto, string, error) {
	size := pagesize.A5
	if len(n.Items) > a5MaxLines {
		size = pagesize.A4
	}
	builder := config.NewBuilder().
		WithPageSize(size).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10)

	family := ""
	if p.FontPath != "" {
		fonts, err := repository.New().
			AddUTF8Font(pdfFontFamily, fontstyle.Normal, p.FontPath).
			AddUTF8Font(pdfFontFamily, fontstyle.Bold, p.FontPath).
			Load()
		if err != nil {
			return nil, "", fmt.Errorf("load pdf font: %w", err)
		}
		family = pdfFontFamily
		builder = builder.WithCustomFonts(fonts).WithDefaultFont(&props.Font{Family: family})
	}
	return maroto.New(builder.Build()), family, nil
}

// NotaPDF renders a finalized nota to PDF bytes.
func (p *PDFRenderer) NotaPDF(n *models.Nota, c *models.Customer, lang string) ([]byte, error) {
	lang = i18n.Normalize(lang)
	if lang == i18n.LangZH && p.FontPath == "" {
		lang = i18n.LangID
	}
	data := buildPrintData(n, c, lang)

	m, family, err := p.build(n)
	if err != nil {
		return nil, err
	}
	label := func(code string) string { return i18n.T(lang, code) }
	bold := props.Text{Style: fontstyle.Bold, Family: family}

	if data.ShowHeader {
		m.AddRow(8, text.NewCol(12, label("store_name"), props.Text{Style: fontstyle.Bold, Size: 14, Align: align.Center, Family: family}))
		m.AddRow(4, text.NewCol(12, label("store_tagline"), props.Text{Size: 8, Align: align.Center, Family: family}))
		m.AddRow(4, text.NewCol(12, label("store_address"), props.Text{Size: 8, Align: align.Center, Family: family}))
		m.AddRow(6, text.NewCol(12, label("store_phone"), props.Text{Size: 8, Align: align.Center, Family: family}))
	}

	m.AddRow(5,
		text.NewCol(6, label("customer"), props.Text{Size: 8, Family: family}),
		text.NewCol(6, label("nota_number"), props.Text{Size: 8, Family: family}),
	)
	m.AddRow(6,
		text.NewCol(6, data.Customer, bold),
		text.NewCol(6, data.Number, bold),
	)
	m.AddRow(5,
		text.NewCol(6, label("nota_date"), props.Text{Size: 8, Family: family}),
		text.NewCol(6, label("due_date"), props.Text{Size: 8, Family: family}),
	)
	m.AddRow(8,
		text.NewCol(6, data.NotaDate, bold),
		text.NewCol(6, data.DueDate, bold),
	)
	if data.Edited {
		m.AddRow(5, text.NewCol(12, label("edited")+" "+data.EditedAt, props.Text{Size: 8, Family: family}))
	}

	m.AddRow(6,
		text.NewCol(1, "#", props.Text{Style: fontstyle.Bold, Size: 8, Family: family}),
		text.NewCol(4, label("col_item"), props.Text{Style: fontstyle.Bold, Size: 8, Family: family}),
		text.NewCol(2, label("col_qty"), props.Text{Style: fontstyle.Bold, Size: 8, Family: family}),
		text.NewCol(2, label("col_price"), props.Text{Style: fontstyle.Bold, Size: 8, Family: family}),
		text.NewCol(3, label("col_amount"), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Family: family}),
	)
	for _, l := range data.Lines {
		m.AddRow(5,
			text.NewCol(1, fmt.Sprintf("%d", l.No), props.Text{Size: 9, Family: family}),
			text.NewCol(4, l.Name, props.Text{Size: 9, Family: family}),
			text.NewCol(2, l.Qty+" "+l.Unit, props.Text{Size: 9, Family: family}),
			text.NewCol(2, l.Price, props.Text{Size: 9, Family: family}),
			text.NewCol(3, l.Amount, props.Text{Size: 9, Align: align.Right, Family: family}),
		)
	}
	m.AddRow(8,
		text.NewCol(9, label("total"), bold),
		text.NewCol(3, data.Total, props.Text{Style: fontstyle.Bold, Align: align.Right, Family: family}),
	)
	m.AddRow(6,
		text.NewCol(6, label("payment_status"), props.Text{Size: 8, Family: family}),
		text.NewCol(6, data.Payment, bold),
	)

	m.AddRows(row.New(12).Add(
		text.NewCol(4, label("made_by"), props.Text{Size: 9, Align: align.Center, Family: family}),
		text.NewCol(4, label("courier"), props.Text{Size: 9, Align: align.Center, Family: family}),
		text.NewCol(4, label("receiver"), props.Text{Size: 9, Align: align.Center, Family: family}),
	))
	m.AddRows(row.New(5).Add(
		col.New(4).Add(text.New("____________", props.Text{Align: align.Center, Family: family})),
		col.New(4).Add(text.New("____________", props.Text{Align: align.Center, Family: family})),
		col.New(4).Add(text.New("____________", props.Text{Align: align.Center, Family: family})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}
