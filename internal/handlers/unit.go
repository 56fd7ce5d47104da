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

type UnitHandler struct{ DB *gorm.DB }

func NewUnitHandler(db *gorm.DB) *UnitHandler { return &UnitHandler{DB: db} }

// List: GET /api/units?search=
func (h *UnitHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Model(&models.Unit{})
	if search := sanitizeSearch(r.URL.Query().Get("search")); search != "" {
		q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	var units []models.Unit
	if err := q.Order("name asc").Find(&units).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_units", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, units)
}

// Create: POST /api/units
func (h *UnitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
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
	unit := models.Unit{Name: strings.TrimSpace(in.Name)}
	if err := h.DB.Create(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			httpx.JSONError(w, http.StatusConflict, "name_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_unit", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, unit)
}

// Get: GET /api/units/get?id=...
func (h *UnitHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var unit models.Unit
	if err := h.DB.First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_unit", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, unit)
}

// Update: POST /api/units/update?id=...
func (h *UnitHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in struct {
		Name string `json:"name"`
	}
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
	var unit models.Unit
	if err := h.DB.First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_unit", nil)
		return
	}
	unit.Name = strings.TrimSpace(in.Name)
	if err := h.DB.Save(&unit).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_unit", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, unit)
}

// Delete: POST /api/units/delete?id=...
func (h *UnitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res := h.DB.Delete(&models.Unit{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_unit", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.NoContent(w)
}
