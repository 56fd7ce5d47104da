package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/tokoyanto/nota/internal/models"
)

func TestCustomerCRUD(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewCustomerHandler(db)

	// Create with code lowercased on input; stored uppercase.
	body := `{"name":"Gunung Indah","store_name":"Toko Gunung Indah","code":"gi","address":"Jl. Pasar 1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Customer
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Code != "GI" {
		t.Fatalf("expected code GI, got %s", created.Code)
	}
	if !created.RequireHeader {
		t.Fatalf("expected header flag to default on")
	}
	id := strconv.Itoa(int(created.ID))

	// Duplicate code conflicts.
	dupW := httptest.NewRecorder()
	h.Create(dupW, httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`{"name":"Other","code":"GI"}`)))
	if dupW.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate code, got %d", dupW.Code)
	}

	// Update flips the header flag.
	updBody := `{"name":"Gunung Indah","store_name":"Toko Gunung Indah","code":"GI","require_header":false}`
	updW := httptest.NewRecorder()
	h.Update(updW, httptest.NewRequest(http.MethodPost, "/api/customers/update?id="+id, strings.NewReader(updBody)))
	if updW.Code != http.StatusOK {
		t.Fatalf("update expected 200 got %d body=%s", updW.Code, updW.Body.String())
	}
	getW := httptest.NewRecorder()
	h.Get(getW, httptest.NewRequest(http.MethodGet, "/api/customers/get?id="+id, nil))
	var got models.Customer
	if err := json.Unmarshal(getW.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode get: %v", err)
	}
	if got.RequireHeader {
		t.Fatalf("expected header flag off after update")
	}

	// Missing name rejected.
	badW := httptest.NewRecorder()
	h.Create(badW, httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`{"code":"XX"}`)))
	if badW.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", badW.Code)
	}
}

func TestCustomerSearchAndSoftDelete(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewCustomerHandler(db)

	for _, c := range []models.Customer{
		{Name: "Gunung Indah", StoreName: "Toko Gunung Indah", Code: "GI"},
		{Name: "Berkat Jaya", StoreName: "Toko Berkat", Code: "BK"},
	} {
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	list := func(query string) []models.Customer {
		t.Helper()
		w := httptest.NewRecorder()
		h.List(w, httptest.NewRequest(http.MethodGet, "/api/customers"+query, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("list expected 200 got %d", w.Code)
		}
		var out []models.Customer
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		return out
	}

	if got := list(""); len(got) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(got))
	}
	if got := list("?search=berkat"); len(got) != 1 || got[0].Code != "BK" {
		t.Fatalf("unexpected search result: %+v", got)
	}
	// Hostile characters are stripped, not passed to the query; a search left
	// with no letters or digits is no filter at all.
	if got := list("?search=%25%27%3B--"); len(got) != 2 {
		t.Fatalf("sanitized empty search should list all, got %d", len(got))
	}
	if got := list("?search=--"); len(got) != 2 {
		t.Fatalf("punctuation-only search should list all, got %d", len(got))
	}

	var gi models.Customer
	if err := db.Where("code = ?", "GI").First(&gi).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	delW := httptest.NewRecorder()
	h.Delete(delW, httptest.NewRequest(http.MethodPost, "/api/customers/delete?id="+strconv.Itoa(int(gi.ID)), nil))
	if delW.Code != http.StatusNoContent {
		t.Fatalf("delete expected 204 got %d", delW.Code)
	}
	if got := list(""); len(got) != 1 || got[0].Code != "BK" {
		t.Fatalf("soft-deleted customer still listed: %+v", got)
	}

	// Row is still present for historical notas.
	var count int64
	if err := db.Unscoped().Model(&models.Customer{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected soft delete to keep the row, count=%d", count)
	}

	// Second delete is a 404.
	againW := httptest.NewRecorder()
	h.Delete(againW, httptest.NewRequest(http.MethodPost, "/api/customers/delete?id="+strconv.Itoa(int(gi.ID)), nil))
	if againW.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", againW.Code)
	}
}
