// Package render is the document renderer: it turns a finalized nota plus its
// customer into printable and exportable output (HTML print view, PDF, Excel).
// It never mutates the nota.
package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tokoyanto/nota/internal/i18n"
	"github.com/tokoyanto/nota/internal/models"
)

// Rupiah formats an amount the way the printed nota shows it: "Rp7.500",
// with dots as thousands separators and no decimals.
func Rupiah(v float64) string {
	n := int64(math.Round(v))
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-Rp" + b.String()
	}
	return "Rp" + b.String()
}

// Qty renders a quantity without trailing zeros (2, 1.5).
func Qty(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// itemName picks the line's display name for the language, falling back to
// the Indonesian name when no Mandarin name was captured.
func itemName(it models.NotaItem, lang string) string {
	if lang == i18n.LangZH && it.NameMandarin != "" {
		return it.NameMandarin
	}
	return it.Name
}

func paymentLabel(lang string, p models.PaymentStatus) string {
	if p == models.PaymentStatusPaid {
		return i18n.T(lang, "paid")
	}
	return i18n.T(lang, "unpaid")
}

func statusLabel(lang string, s models.NotaStatus) string {
	if s == models.NotaStatusPublished {
		return i18n.T(lang, "published")
	}
	return i18n.T(lang, "draft")
}

const dateLayout = "02-01-2006"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatOptDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}
