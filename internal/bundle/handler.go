package bundle

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-admin/internal/common"
	"github.com/noah-isme/toko-admin/internal/obs"
	"github.com/noah-isme/toko-admin/internal/pricing"
	"github.com/noah-isme/toko-admin/internal/validation"
)

// Handler serves bundle price quotes.
type Handler struct {
	minItems int
	logger   zerolog.Logger
	metrics  *obs.EngineMetrics
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	MinItems int
	Logger   zerolog.Logger
	Metrics  *obs.EngineMetrics
}

// NewHandler constructs a Handler. MinItems below 1 falls back to 2.
func NewHandler(cfg HandlerConfig) *Handler {
	minItems := cfg.MinItems
	if minItems < 1 {
		minItems = 2
	}
	return &Handler{minItems: minItems, logger: cfg.Logger, metrics: cfg.Metrics}
}

type quoteItem struct {
	ID    string  `json:"id" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
}

type quoteDiscount struct {
	Type  string  `json:"type" validate:"omitempty,oneof=none percentage fixed"`
	Value float64 `json:"value" validate:"gte=0"`
}

type quoteRequest struct {
	Items    []quoteItem   `json:"items" validate:"dive"`
	Discount quoteDiscount `json:"discount"`
}

// Quote handles POST /api/v1/admin/bundles/quote. The pricing summary is
// returned even when validation fails.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	items := make([]pricing.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, pricing.LineItem{ID: it.ID, Price: it.Price})
	}
	discount := pricing.Discount{Type: pricing.ParseDiscountType(req.Discount.Type), Value: req.Discount.Value}

	summary := pricing.Compute(items, discount)
	if !summary.Finite() {
		h.metrics.ObserveQuote(string(discount.Type), "invalid")
		common.WriteError(w, common.Unprocessable("TOTAL_OUT_OF_RANGE", "bundle total is out of range", nil, map[string]string{"items": "bundle total is out of range"}))
		return
	}
	res := validation.Bundle(items, discount, h.minItems)

	result := "valid"
	if !res.OK() {
		result = "invalid"
	}
	h.metrics.ObserveQuote(string(discount.Type), result)
	h.logger.Debug().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("discount_type", string(discount.Type)).
		Int("items", len(items)).
		Float64("discounted_total", summary.DiscountedTotal).
		Bool("valid", res.OK()).
		Msg("bundle quote computed")

	common.JSON(w, http.StatusOK, map[string]any{
		"data":   summary,
		"errors": res,
		"valid":  res.OK(),
	})
}
