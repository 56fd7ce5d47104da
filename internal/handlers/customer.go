package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/tokoyanto/nota/internal/httpx"
	"github.com/tokoyanto/nota/internal/models"
	"github.com/tokoyanto/nota/internal/validation"
)

type CustomerHandler struct{ DB *gorm.DB }

func NewCustomerHandler(db *gorm.DB) *CustomerHandler { return &CustomerHandler{DB: db} }

var (
	searchSanitizer  = regexp.MustCompile(`[^\p{L}\p{N} \-_]`)
	searchMeaningful = regexp.MustCompile(`[\p{L}\p{N}]`)
)

// sanitizeSearch strips hostile characters from a search term. A term left
// without any letter or digit after stripping is treated as no filter.
func sanitizeSearch(raw string) string {
	safe := searchSanitizer.ReplaceAllString(raw, "")
	if !searchMeaningful.MatchString(safe) {
		return ""
	}
	return strings.TrimSpace(safe)
}

type customerInput struct {
	Name          string `json:"name"`
	StoreName     string `json:"store_name"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Code          string `json:"code"`
	RequireHeader *bool  `json:"require_header"`
}

func (in *customerInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("code", in.Code, v)
	return v
}

// List: GET /api/customers?search=. Deleted customers are excluded by the
// soft-delete scope on every read path.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Model(&models.Customer{})
	if search := sanitizeSearch(r.URL.Query().Get("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(store_name) LIKE ? OR lower(code) LIKE ?", like, like, like)
	}
	var customers []models.Customer
	if err := q.Order("name asc").Find(&customers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_customers", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, customers)
}

// Create: POST /api/customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in customerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	requireHeader := true
	if in.RequireHeader != nil {
		requireHeader = *in.RequireHeader
	}
	c := models.Customer{
		Name:          strings.TrimSpace(in.Name),
		StoreName:     strings.TrimSpace(in.StoreName),
		Address:       strings.TrimSpace(in.Address),
		Phone:         strings.TrimSpace(in.Phone),
		Code:          strings.ToUpper(strings.TrimSpace(in.Code)),
		RequireHeader: requireHeader,
	}
	if err := h.DB.Create(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			httpx.JSONError(w, http.StatusConflict, "code_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_customer", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

// Get: GET /api/customers/get?id=...
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var c models.Customer
	if err := h.DB.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_customer", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// Update: POST /api/customers/update?id=...
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in customerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var c models.Customer
	if err := h.DB.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_customer", nil)
		return
	}
	updates := map[string]interface{}{
		"name":       strings.TrimSpace(in.Name),
		"store_name": strings.TrimSpace(in.StoreName),
		"address":    strings.TrimSpace(in.Address),
		"phone":      strings.TrimSpace(in.Phone),
		"code":       strings.ToUpper(strings.TrimSpace(in.Code)),
	}
	if in.RequireHeader != nil {
		updates["require_header"] = *in.RequireHeader
	}
	if err := h.DB.Model(&c).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			httpx.JSONError(w, http.StatusConflict, "code_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_customer", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// Delete: POST /api/customers/delete?id=... (soft delete). Notas already
// issued keep their numbers; only future listings hide the customer.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res := h.DB.Delete(&models.Customer{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_customer", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.NoContent(w)
}

// idParam parses the ?id= query param shared by the get/update/delete routes.
func idParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return uint(id), true
}
