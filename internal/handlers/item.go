package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/tokoyanto/nota/internal/httpx"
	"github.com/tokoyanto/nota/internal/models"
	"github.com/tokoyanto/nota/internal/validation"
)

type ItemHandler struct{ DB *gorm.DB }

func NewItemHandler(db *gorm.DB) *ItemHandler { return &ItemHandler{DB: db} }

type itemInput struct {
	Name         string `json:"name"`
	NameMandarin string `json:"name_mandarin"`
}

// List: GET /api/items?search=. Matches either language's name.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Model(&models.Item{})
	if search := sanitizeSearch(r.URL.Query().Get("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(name_mandarin) LIKE ?", like, like)
	}
	var items []models.Item
	if err := q.Order("name asc").Find(&items).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_items", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

// Create: POST /api/items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in itemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	item := models.Item{Name: strings.TrimSpace(in.Name), NameMandarin: strings.TrimSpace(in.NameMandarin)}
	if err := h.DB.Create(&item).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_item", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

// Get: GET /api/items/get?id=...
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var item models.Item
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_item", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

// Update: POST /api/items/update?id=...
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in itemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var item models.Item
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_item", nil)
		return
	}
	item.Name = strings.TrimSpace(in.Name)
	item.NameMandarin = strings.TrimSpace(in.NameMandarin)
	if err := h.DB.Save(&item).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_item", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

// Delete: POST /api/items/delete?id=... (hard delete). Nota lines keep their
// name snapshots so printed notas are unaffected.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res := h.DB.Delete(&models.Item{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_item", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.NoContent(w)
}
