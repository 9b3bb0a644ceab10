package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/toko-admin/internal/common"
)

// Handler exposes the admin bulk edit endpoints.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

type bulkRequest[E any] struct {
	Entities    []E      `json:"entities" validate:"dive"`
	SelectedIDs []string `json:"selectedIds"`
	Change      Change   `json:"change"`
}

// Routes mounts the bulk edit endpoints under /{domain}.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{domain}/fields", h.Fields)
	r.Post("/{domain}/bulk/preview", h.Preview)
	r.Post("/{domain}/bulk/apply", h.Apply)
}

// Fields handles GET /api/v1/admin/{domain}/fields.
func (h *Handler) Fields(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	switch chi.URLParam(r, "domain") {
	case h.service.Courses.Name:
		common.JSON(w, http.StatusOK, map[string]any{"data": h.service.Courses.Fields()})
	case h.service.Products.Name:
		common.JSON(w, http.StatusOK, map[string]any{"data": h.service.Products.Fields()})
	default:
		unknownDomain(w)
	}
}

// Preview handles POST /api/v1/admin/{domain}/bulk/preview.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	switch chi.URLParam(r, "domain") {
	case h.service.Courses.Name:
		servePreview(w, r, h.service.Courses)
	case h.service.Products.Name:
		servePreview(w, r, h.service.Products)
	default:
		unknownDomain(w)
	}
}

// Apply handles POST /api/v1/admin/{domain}/bulk/apply.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	switch chi.URLParam(r, "domain") {
	case h.service.Courses.Name:
		serveApply(w, r, h.service.Courses)
	case h.service.Products.Name:
		serveApply(w, r, h.service.Products)
	default:
		unknownDomain(w)
	}
}

func servePreview[E any](w http.ResponseWriter, r *http.Request, d *Domain[E]) {
	var req bulkRequest[E]
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	preview, err := d.Preview(r.Context(), req.Entities, req.SelectedIDs, req.Change)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": preview.Results, "summary": preview.Summary})
}

func serveApply[E any](w http.ResponseWriter, r *http.Request, d *Domain[E]) {
	var req bulkRequest[E]
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	updated, preview, err := d.Apply(r.Context(), req.Entities, req.SelectedIDs, req.Change)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated, "summary": preview.Summary})
}

func unknownDomain(w http.ResponseWriter) {
	common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "unknown catalog domain", nil)
}
