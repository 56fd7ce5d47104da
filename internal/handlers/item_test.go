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

func TestItemBilingualSearch(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewItemHandler(db)

	for _, it := range []models.Item{
		{Name: "Kentang", NameMandarin: "土豆"},
		{Name: "Wortel", NameMandarin: "胡萝卜"},
	} {
		if err := db.Create(&it).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	list := func(query string) []models.Item {
		t.Helper()
		w := httptest.NewRecorder()
		h.List(w, httptest.NewRequest(http.MethodGet, "/api/items"+query, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("list expected 200 got %d", w.Code)
		}
		var out []models.Item
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return out
	}

	if got := list("?search=kentang"); len(got) != 1 || got[0].NameMandarin != "土豆" {
		t.Fatalf("latin search failed: %+v", got)
	}
	if got := list("?search=" + "胡萝卜"); len(got) != 1 || got[0].Name != "Wortel" {
		t.Fatalf("mandarin search failed: %+v", got)
	}
}

func TestItemUpdateAndDelete(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewItemHandler(db)

	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(`{"name":"Kentang"}`)))
	if w.Code != http.StatusCreated {
		t.Fatalf("create expected 201 got %d", w.Code)
	}
	var item models.Item
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil {
		t.Fatalf("decode: %v", err)
	}
	id := strconv.Itoa(int(item.ID))

	updW := httptest.NewRecorder()
	h.Update(updW, httptest.NewRequest(http.MethodPost, "/api/items/update?id="+id,
		strings.NewReader(`{"name":"Kentang","name_mandarin":"土豆"}`)))
	if updW.Code != http.StatusOK {
		t.Fatalf("update expected 200 got %d", updW.Code)
	}

	getW := httptest.NewRecorder()
	h.Get(getW, httptest.NewRequest(http.MethodGet, "/api/items/get?id="+id, nil))
	var got models.Item
	if err := json.Unmarshal(getW.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode get: %v", err)
	}
	if got.NameMandarin != "土豆" {
		t.Fatalf("expected mandarin name persisted, got %q", got.NameMandarin)
	}

	delW := httptest.NewRecorder()
	h.Delete(delW, httptest.NewRequest(http.MethodPost, "/api/items/delete?id="+id, nil))
	if delW.Code != http.StatusNoContent {
		t.Fatalf("delete expected 204 got %d", delW.Code)
	}
	missW := httptest.NewRecorder()
	h.Get(missW, httptest.NewRequest(http.MethodGet, "/api/items/get?id="+id, nil))
	if missW.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", missW.Code)
	}
}

func TestUnitUniqueName(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewUnitHandler(db)

	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/api/units", strings.NewReader(`{"name":"kg"}`)))
	if w.Code != http.StatusCreated {
		t.Fatalf("create expected 201 got %d", w.Code)
	}
	dupW := httptest.NewRecorder()
	h.Create(dupW, httptest.NewRequest(http.MethodPost, "/api/units", strings.NewReader(`{"name":"kg"}`)))
	if dupW.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate unit, got %d", dupW.Code)
	}
}
