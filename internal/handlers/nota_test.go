package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tokoyanto/nota/internal/models"
	"github.com/tokoyanto/nota/internal/render"
	"github.com/tokoyanto/nota/internal/services"
)

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Customer{}, &models.Unit{}, &models.Item{}, &models.NotaSequence{}, &models.Nota{}, &models.NotaItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedHandlerCustomer(t *testing.T, db *gorm.DB, code string) models.Customer {
	t.Helper()
	c := models.Customer{Name: "Gunung Indah", StoreName: "Toko Gunung Indah", Code: code, RequireHeader: true}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

func newNotaHandlers(db *gorm.DB) (*NotaHandler, *ExportHandler) {
	numbering := services.NewNumberingService(db)
	svc := services.NewNotaService(db, numbering)
	return NewNotaHandler(db, svc, numbering),
		NewExportHandler(svc, &render.PDFRenderer{}, &render.ExcelRenderer{})
}

func notaBody(customerID uint, status string) string {
	return `{"customer_id":` + strconv.Itoa(int(customerID)) + `,"nota_date":"2025-03-15","status":"` + status + `",` +
		`"items":[{"name":"Kentang","qty":2,"unit":"kg","price":1500},{"name":"Wortel","qty":1,"unit":"kg","price":4500}]}`
}

func createNota(t *testing.T, h *NotaHandler, body string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/notas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return created
}

func TestNotaCreateAndGet(t *testing.T) {
	db := setupHandlerDB(t)
	cust := seedHandlerCustomer(t, db, "GI")
	h, _ := newNotaHandlers(db)

	created := createNota(t, h, notaBody(cust.ID, "draft"))
	if created["number"] != "GI0001" {
		t.Fatalf("expected number GI0001, got %v", created["number"])
	}
	if created["status"] != "draft" {
		t.Fatalf("expected draft, got %v", created["status"])
	}

	id := int(created["id"].(float64))
	getReq := httptest.NewRequest(http.MethodGet, "/api/notas/get?id="+strconv.Itoa(id), nil)
	getW := httptest.NewRecorder()
	h.Get(getW, getReq)
	if getW.Code != http.StatusOK {
		t.Fatalf("get expected 200 got %d", getW.Code)
	}
	var got models.Nota
	if err := json.Unmarshal(getW.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode get: %v", err)
	}
	if len(got.Items) != 2 || got.Customer == nil {
		t.Fatalf("expected 2 items and preloaded customer, got %+v", got)
	}
	if got.Total() != 7500 {
		t.Fatalf("expected total 7500, got %v", got.Total())
	}
}

func TestNotaCreateValidation(t *testing.T) {
	db := setupHandlerDB(t)
	cust := seedHandlerCustomer(t, db, "GI")
	h, _ := newNotaHandlers(db)

	body := `{"customer_id":` + strconv.Itoa(int(cust.ID)) + `,"nota_date":"2025-03-15","items":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/notas", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty items, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "validation_failed") {
		t.Fatalf("expected validation_failed, got %s", w.Body.String())
	}

	// Unknown customer
	req = httptest.NewRequest(http.MethodPost, "/api/notas", strings.NewReader(notaBody(9999, "draft")))
	w = httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown customer, got %d", w.Code)
	}

	// Bad date format
	body = `{"customer_id":` + strconv.Itoa(int(cust.ID)) + `,"nota_date":"15/03/2025","items":[{"name":"X","qty":1,"unit":"kg","price":100}]}`
	req = httptest.NewRequest(http.MethodPost, "/api/notas", strings.NewReader(body))
	w = httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", w.Code)
	}
}

func TestNotaPublishFlow(t *testing.T) {
	db := setupHandlerDB(t)
	cust := seedHandlerCustomer(t, db, "GI")
	h, _ := newNotaHandlers(db)

	created := createNota(t, h, notaBody(cust.ID, "draft"))
	id := int(created["id"].(float64))

	pubReq := httptest.NewRequest(http.MethodPost, "/api/notas/publish?id="+strconv.Itoa(id), nil)
	pubW := httptest.NewRecorder()
	h.Publish(pubW, pubReq)
	if pubW.Code != http.StatusOK {
		t.Fatalf("publish expected 200 got %d body=%s", pubW.Code, pubW.Body.String())
	}
	var published models.Nota
	if err := json.Unmarshal(pubW.Body.Bytes(), &published); err != nil {
		t.Fatalf("decode publish: %v", err)
	}
	if !published.IsPublished() {
		t.Fatalf("expected published status, got %s", published.Status)
	}

	// Republish is an idempotent success.
	againW := httptest.NewRecorder()
	h.Publish(againW, httptest.NewRequest(http.MethodPost, "/api/notas/publish?id="+strconv.Itoa(id), nil))
	if againW.Code != http.StatusOK {
		t.Fatalf("republish expected 200 got %d", againW.Code)
	}
}

func TestNotaPublishZeroTotalRejected(t *testing.T) {
	db := setupHandlerDB(t)
	cust := seedHandlerCustomer(t, db, "GI")
	h, _ := newNotaHandlers(db)

	body := `{"customer_id":` + strconv.Itoa(int(cust.ID)) + `,"nota_date":"2025-03-15","status":"published",` +
		`"items":[{"name":"Bonus","qty":1,"unit":"pcs","price":0}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/notas", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero-total publish, got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "publish_rejected") {
		t.Fatalf("expected publish_rejected, got %s", w.Body.String())
	}
}

func TestNotaUpdateAndDelete(t *testing.T) {
	db := setupHandlerDB(t)
	cust := seedHandlerCustomer(t, db, "GI")
	h, _ := newNotaHandlers(db)

	created := createNota(t, h, notaBody(cust.ID, "draft"))
	id := int(created["id"].(float64))

	body := `{"customer_id":` + strconv.Itoa(int(cust.ID)) + `,"nota_date":"2025-03-16","payment_status":"paid",` +
		`"items":[{"name":"Kentang","qty":3,"unit":"kg","price":1500}]}`
	updReq := httptest.NewRequest(http.MethodPost, "/api/notas/update?id="+strconv.Itoa(id), strings.NewReader(body))
	updW := httptest.NewRecorder()
	h.Update(updW, updReq)
	if updW.Code != http.StatusOK {
		t.Fatalf("update expected 200 got %d body=%s", updW.Code, updW.Body.String())
	}
	var updated models.Nota
	if err := json.Unmarshal(updW.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if len(updated.Items) != 1 || updated.Total() != 4500 {
		t.Fatalf("expected single 4500 line, got %+v", updated.Items)
	}
	if updated.PaymentStatus != models.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", updated.PaymentStatus)
	}

	delReq := httptest.NewRequest(http.MethodPost, "/api/notas/delete?id="+strconv.Itoa(id), nil)
	delW := httptest.NewRecorder()
	h.Delete(delW, delReq)
	if delW.Code != http.StatusNoContent {
		t.Fatalf("delete expected 204 got %d", delW.Code)
	}

	// A later nota must not reuse the deleted number.
	next := createNota(t, h, notaBody(cust.ID, "draft"))
	if next["number"] != "GI0002" {
		t.Fatalf("expected GI0002 after delete, got %v", next["number"])
	}
}

func TestNotaListFiltersAndPaging(t *testing.T) {
	db := setupHandlerDB(t)
	cust := seedHandlerCustomer(t, db, "GI")
	other := models.Customer{Name: "Berkat", Code: "BK"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed other: %v", err)
	}
	h, _ := newNotaHandlers(db)

	createNota(t, h, notaBody(cust.ID, "draft"))
	createNota(t, h, notaBody(cust.ID, "published"))
	createNota(t, h, notaBody(other.ID, "published"))

	check := func(query string, want int) {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/api/notas"+query, nil)
		w := httptest.NewRecorder()
		h.List(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("list %s expected 200 got %d", query, w.Code)
		}
		var resp struct {
			Notas      []models.Nota `json:"notas"`
			TotalItems int64         `json:"total_items"`
			TotalPages int64         `json:"total_pages"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		if int(resp.TotalItems) != want {
			t.Fatalf("list %s: expected %d items, got %d", query, want, resp.TotalItems)
		}
	}

	check("", 3)
	check("?status=published", 2)
	check("?status=draft", 1)
	check("?customerId="+strconv.Itoa(int(other.ID)), 1)
	check("?date=2025-03-15", 3)
	check("?date=2025-03-14", 0)
	check("?paymentStatus=paid", 0)

	// Paging metadata
	req := httptest.NewRequest(http.MethodGet, "/api/notas?limit=2&page=2", nil)
	w := httptest.NewRecorder()
	h.List(w, req)
	var resp struct {
		Notas       []models.Nota `json:"notas"`
		CurrentPage int           `json:"current_page"`
		TotalPages  int64         `json:"total_pages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(resp.Notas) != 1 || resp.CurrentPage != 2 || resp.TotalPages != 2 {
		t.Fatalf("unexpected page: len=%d page=%d pages=%d", len(resp.Notas), resp.CurrentPage, resp.TotalPages)
	}
}

func TestNotaLastNumberPeekAndCommit(t *testing.T) {
	db := setupHandlerDB(t)
	seedHandlerCustomer(t, db, "GI")
	h, _ := newNotaHandlers(db)

	req := httptest.NewRequest(http.MethodGet, "/api/notas/last-number?code=gi", nil)
	w := httptest.NewRecorder()
	h.LastNumber(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("peek expected 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"last_number":0`) {
		t.Fatalf("expected last_number 0, got %s", w.Body.String())
	}

	commitReq := httptest.NewRequest(http.MethodPost, "/api/notas/last-number", strings.NewReader(`{"code":"GI","last_number":7}`))
	commitW := httptest.NewRecorder()
	h.LastNumber(commitW, commitReq)
	if commitW.Code != http.StatusOK {
		t.Fatalf("commit expected 200 got %d body=%s", commitW.Code, commitW.Body.String())
	}

	againW := httptest.NewRecorder()
	h.LastNumber(againW, httptest.NewRequest(http.MethodGet, "/api/notas/last-number?code=GI", nil))
	if !strings.Contains(againW.Body.String(), `"last_number":7`) {
		t.Fatalf("expected committed 7, got %s", againW.Body.String())
	}

	// Missing code
	badW := httptest.NewRecorder()
	h.LastNumber(badW, httptest.NewRequest(http.MethodGet, "/api/notas/last-number", nil))
	if badW.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing code, got %d", badW.Code)
	}
}

func TestNotaPrintAndExport(t *testing.T) {
	db := setupHandlerDB(t)
	cust := seedHandlerCustomer(t, db, "GI")
	h, exp := newNotaHandlers(db)

	created := createNota(t, h, notaBody(cust.ID, "published"))
	id := strconv.Itoa(int(created["id"].(float64)))

	printW := httptest.NewRecorder()
	exp.Print(printW, httptest.NewRequest(http.MethodGet, "/notas/print?id="+id, nil))
	if printW.Code != http.StatusOK {
		t.Fatalf("print expected 200 got %d", printW.Code)
	}
	if body := printW.Body.String(); !strings.Contains(body, "GI0001") || !strings.Contains(body, "Rp7.500") {
		t.Fatalf("print missing number or total: %s", body)
	}

	sjW := httptest.NewRecorder()
	exp.SuratJalan(sjW, httptest.NewRequest(http.MethodGet, "/notas/surat-jalan?id="+id, nil))
	if sjW.Code != http.StatusOK {
		t.Fatalf("surat jalan expected 200 got %d", sjW.Code)
	}
	if strings.Contains(sjW.Body.String(), "Rp") {
		t.Fatalf("surat jalan must not show prices")
	}

	pdfW := httptest.NewRecorder()
	exp.PDFNota(pdfW, httptest.NewRequest(http.MethodGet, "/notas/pdf?id="+id, nil))
	if pdfW.Code != http.StatusOK {
		t.Fatalf("pdf expected 200 got %d", pdfW.Code)
	}
	if ct := pdfW.Header().Get("Content-Type"); !strings.Contains(ct, "application/pdf") {
		t.Fatalf("expected pdf content-type, got %s", ct)
	}
	if !strings.HasPrefix(pdfW.Body.String(), "%PDF") {
		t.Fatalf("expected a pdf body")
	}

	xlsW := httptest.NewRecorder()
	exp.ExcelExport(xlsW, httptest.NewRequest(http.MethodGet, "/notas/export?status=published", nil))
	if xlsW.Code != http.StatusOK {
		t.Fatalf("export expected 200 got %d", xlsW.Code)
	}
	if cd := xlsW.Header().Get("Content-Disposition"); !strings.Contains(cd, "nota-export.xlsx") {
		t.Fatalf("expected attachment disposition, got %s", cd)
	}

	// Unknown nota id on a render route
	missW := httptest.NewRecorder()
	exp.Print(missW, httptest.NewRequest(http.MethodGet, "/notas/print?id=999", nil))
	if missW.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown nota, got %d", missW.Code)
	}
}
