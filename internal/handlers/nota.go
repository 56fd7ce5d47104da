package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/tokoyanto/nota/internal/httpx"
	"github.com/tokoyanto/nota/internal/models"
	"github.com/tokoyanto/nota/internal/services"
)

const dateParamLayout = "2006-01-02"

// NotaHandler exposes the nota lifecycle over HTTP. All business rules live in
// the services; this layer only parses, dispatches and maps errors.
type NotaHandler struct {
	DB        *gorm.DB
	Svc       *services.NotaService
	Numbering *services.NumberingService
}

func NewNotaHandler(db *gorm.DB, svc *services.NotaService, numbering *services.NumberingService) *NotaHandler {
	return &NotaHandler{DB: db, Svc: svc, Numbering: numbering}
}

// writeServiceError maps domain errors onto HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	if ve, ok := services.AsValidation(err); ok {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", ve.Violations)
		return
	}
	switch {
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrPublishRejected):
		httpx.JSONError(w, http.StatusBadRequest, "publish_rejected", map[string]string{"total": "must_be_positive"})
	case errors.Is(err, services.ErrSequenceConflict):
		// Transient: the caller should retry the whole request.
		httpx.JSONError(w, http.StatusConflict, "sequence_conflict", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

type notaRequest struct {
	CustomerID    uint                 `json:"customer_id"`
	NotaDate      string               `json:"nota_date"`
	DueDate       string               `json:"due_date,omitempty"`
	Status        models.NotaStatus    `json:"status,omitempty"`
	PaymentStatus models.PaymentStatus `json:"payment_status,omitempty"`
	Items         []services.LineInput `json:"items"`
}

func (req *notaRequest) dates(w http.ResponseWriter) (time.Time, *time.Time, bool) {
	var notaDate time.Time
	if req.NotaDate != "" {
		var err error
		notaDate, err = time.Parse(dateParamLayout, req.NotaDate)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"nota_date": "invalid_date"})
			return time.Time{}, nil, false
		}
	}
	var dueDate *time.Time
	if req.DueDate != "" {
		d, err := time.Parse(dateParamLayout, req.DueDate)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"due_date": "invalid_date"})
			return time.Time{}, nil, false
		}
		dueDate = &d
	}
	return notaDate, dueDate, true
}

// List: GET /api/notas?page=&limit=&status=&paymentStatus=&date=&customerId=
func (h *NotaHandler) List(w http.ResponseWriter, r *http.Request) {
	f, ok := parseListFilter(w, r)
	if !ok {
		return
	}
	notas, total, err := h.Svc.List(f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 5
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"notas":        notas,
		"total_items":  total,
		"current_page": page,
		"total_pages":  totalPages,
	})
}

func parseListFilter(w http.ResponseWriter, r *http.Request) (services.ListFilter, bool) {
	f := services.ListFilter{}
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Page = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			f.Limit = n
		}
	}
	if v := q.Get("status"); v != "" && v != "all" {
		f.Status = models.NotaStatus(v)
	}
	if v := q.Get("paymentStatus"); v != "" && v != "all" {
		f.PaymentStatus = models.PaymentStatus(v)
	}
	if v := q.Get("date"); v != "" {
		d, err := time.Parse(dateParamLayout, v)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_date", nil)
			return f, false
		}
		f.Date = &d
	}
	if v := q.Get("customerId"); v != "" && v != "all" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.CustomerID = uint(n)
		}
	}
	return f, true
}

// Create: POST /api/notas. A "published" status publishes immediately, subject
// to the zero-total gate.
func (h *NotaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req notaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	notaDate, dueDate, ok := req.dates(w)
	if !ok {
		return
	}
	n, err := h.Svc.Create(services.CreateInput{
		CustomerID:    req.CustomerID,
		NotaDate:      notaDate,
		DueDate:       dueDate,
		PaymentStatus: req.PaymentStatus,
		Publish:       req.Status == models.NotaStatusPublished,
		Lines:         req.Items,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, n)
}

// Get: GET /api/notas/get?id=...
func (h *NotaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	n, err := h.Svc.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, n)
}

// Update: POST /api/notas/update?id=...
func (h *NotaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req notaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	notaDate, dueDate, ok := req.dates(w)
	if !ok {
		return
	}
	n, err := h.Svc.Update(id, services.UpdateInput{
		CustomerID:    req.CustomerID,
		NotaDate:      notaDate,
		DueDate:       dueDate,
		PaymentStatus: req.PaymentStatus,
		Lines:         req.Items,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, n)
}

// Publish: POST /api/notas/publish?id=...
func (h *NotaHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	n, err := h.Svc.Publish(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, n)
}

// Delete: POST /api/notas/delete?id=...
func (h *NotaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Delete(id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.NoContent(w)
}

// LastNumber serves the legacy peek/commit pair:
// GET /api/notas/last-number?code= previews the stored counter;
// POST commits a caller-extracted value. New notas never need this, since their
// number is reserved atomically during creation, but the endpoints remain
// for compatibility with existing clients.
func (h *NotaHandler) LastNumber(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		code := r.URL.Query().Get("code")
		last, err := h.Numbering.LastNumber(code)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"last_number": last})
	case http.MethodPost:
		var req struct {
			Code       string `json:"code"`
			LastNumber *int64 `json:"last_number"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LastNumber == nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		if err := h.Numbering.Commit(req.Code, *req.LastNumber); err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "last_number": *req.LastNumber})
	default:
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}
