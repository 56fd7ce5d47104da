package handlers

import (
	"fmt"
	"net/http"

	"github.com/tokoyanto/nota/internal/httpx"
	"github.com/tokoyanto/nota/internal/middleware"
	"github.com/tokoyanto/nota/internal/models"
	"github.com/tokoyanto/nota/internal/render"
	"github.com/tokoyanto/nota/internal/services"
)

// ExportHandler serves the printable and downloadable views of notas.
type ExportHandler struct {
	Svc   *services.NotaService
	PDF   *render.PDFRenderer
	Excel *render.ExcelRenderer
}

func NewExportHandler(svc *services.NotaService, pdf *render.PDFRenderer, excel *render.ExcelRenderer) *ExportHandler {
	return &ExportHandler{Svc: svc, PDF: pdf, Excel: excel}
}

func (h *ExportHandler) loadNota(w http.ResponseWriter, r *http.Request) (*models.Nota, string, bool) {
	id, ok := idParam(w, r)
	if !ok {
		return nil, "", false
	}
	n, err := h.Svc.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return nil, "", false
	}
	return n, middleware.LangFrom(r), true
}

// Print: GET /notas/print?id=&lang= renders the full nota as printable HTML.
func (h *ExportHandler) Print(w http.ResponseWriter, r *http.Request) {
	n, lang, ok := h.loadNota(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.NotaHTML(w, n, n.Customer, lang); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "render_failed", nil)
	}
}

// SuratJalan: GET /notas/surat-jalan?id=&lang= renders the delivery note, no prices.
func (h *ExportHandler) SuratJalan(w http.ResponseWriter, r *http.Request) {
	n, lang, ok := h.loadNota(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.SuratJalanHTML(w, n, n.Customer, lang); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "render_failed", nil)
	}
}

// PDFNota: GET /notas/pdf?id=&lang=
func (h *ExportHandler) PDFNota(w http.ResponseWriter, r *http.Request) {
	n, lang, ok := h.loadNota(w, r)
	if !ok {
		return
	}
	out, err := h.PDF.NotaPDF(n, n.Customer, lang)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "render_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", n.Number+".pdf"))
	w.Write(out)
}

// ExcelExport: GET /notas/export accepts the list filters, without
// pagination, streamed back as an xlsx workbook.
func (h *ExportHandler) ExcelExport(w http.ResponseWriter, r *http.Request) {
	f, ok := parseListFilter(w, r)
	if !ok {
		return
	}
	f.Page = 1
	f.Limit = 200
	notas, _, err := h.Svc.List(f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out, err := h.Excel.NotasExcel(notas, middleware.LangFrom(r))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "render_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="nota-export.xlsx"`)
	w.Write(out)
}
