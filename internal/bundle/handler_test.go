package bundle_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-admin/internal/bundle"
	"github.com/noah-isme/toko-admin/internal/obs"
)

type quoteResponse struct {
	Data struct {
		OriginalTotal     float64 `json:"originalTotal"`
		DiscountedTotal   float64 `json:"discountedTotal"`
		AbsoluteSavings   float64 `json:"absoluteSavings"`
		SavingsPercentage float64 `json:"savingsPercentage"`
	} `json:"data"`
	Errors map[string]string `json:"errors"`
	Valid  bool              `json:"valid"`
}

func quote(t *testing.T, h *bundle.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/bundles/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Quote(rec, req)
	return rec
}

func TestQuote(t *testing.T) {
	metrics := obs.NewEngineMetrics("test", prometheus.NewRegistry())
	h := bundle.NewHandler(bundle.HandlerConfig{MinItems: 2, Logger: zerolog.Nop(), Metrics: metrics})

	t.Run("percentage discount", func(t *testing.T) {
		rec := quote(t, h, `{"items":[{"id":"a","price":100},{"id":"b","price":50}],"discount":{"type":"percentage","value":20}}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp quoteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, resp.Valid)
		require.Empty(t, resp.Errors)
		require.Equal(t, 150.0, resp.Data.OriginalTotal)
		require.Equal(t, 120.0, resp.Data.DiscountedTotal)
		require.Equal(t, 30.0, resp.Data.AbsoluteSavings)
		require.Equal(t, 20.0, resp.Data.SavingsPercentage)
	})

	t.Run("invalid bundle still quotes", func(t *testing.T) {
		rec := quote(t, h, `{"items":[{"id":"a","price":40},{"id":"a","price":40}],"discount":{"type":"fixed","value":100}}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp quoteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.False(t, resp.Valid)
		require.Equal(t, "select at least 2 items", resp.Errors["items"])
		require.Contains(t, resp.Errors, "discount")
		require.Equal(t, 80.0, resp.Data.OriginalTotal)
		require.Equal(t, 0.0, resp.Data.DiscountedTotal)
	})

	t.Run("percentage above 100", func(t *testing.T) {
		rec := quote(t, h, `{"items":[{"id":"a","price":10},{"id":"b","price":10}],"discount":{"type":"percentage","value":150}}`)
		var resp quoteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.False(t, resp.Valid)
		require.Contains(t, resp.Errors, "discount")
	})

	t.Run("empty bundle", func(t *testing.T) {
		rec := quote(t, h, `{"items":[],"discount":{"type":"none"}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp quoteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.False(t, resp.Valid)
		require.Zero(t, resp.Data.OriginalTotal)
		require.Zero(t, resp.Data.SavingsPercentage)
	})

	t.Run("total out of range", func(t *testing.T) {
		rec := quote(t, h, `{"items":[{"id":"a","price":1e308},{"id":"b","price":1e308}],"discount":{"type":"none"}}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp struct {
			Error struct {
				Code    string            `json:"code"`
				Details map[string]string `json:"details"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "TOTAL_OUT_OF_RANGE", resp.Error.Code)
		require.Contains(t, resp.Error.Details, "items")
	})

	t.Run("zero fixed discount", func(t *testing.T) {
		rec := quote(t, h, `{"items":[{"id":"a","price":10},{"id":"b","price":10}],"discount":{"type":"fixed","value":0}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp quoteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.False(t, resp.Valid)
		require.Equal(t, "fixed discount must be greater than 0", resp.Errors["discount"])
		require.Equal(t, 20.0, resp.Data.DiscountedTotal)
	})

	t.Run("payload validation", func(t *testing.T) {
		rec := quote(t, h, `{"items":[{"id":"a","price":-5}],"discount":{"type":"bogus","value":1}}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp struct {
			Error struct {
				Code    string            `json:"code"`
				Details map[string]string `json:"details"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "BAD_REQUEST", resp.Error.Code)
		require.Equal(t, "gte=0", resp.Error.Details["items[0].price"])
		require.Equal(t, "oneof=none percentage fixed", resp.Error.Details["discount.type"])
	})

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.BundleQuotes.WithLabelValues("percentage", "valid")))
	require.Equal(t, 2.0, testutil.ToFloat64(metrics.BundleQuotes.WithLabelValues("fixed", "invalid")))
	require.Equal(t, 2.0, testutil.ToFloat64(metrics.BundleQuotes.WithLabelValues("none", "invalid")))
}
