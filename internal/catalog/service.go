package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-admin/internal/bulkedit"
	"github.com/noah-isme/toko-admin/internal/common"
	"github.com/noah-isme/toko-admin/internal/obs"
	"github.com/noah-isme/toko-admin/internal/validation"
)

// Change is one bulk edit request as entered by the operator.
type Change struct {
	Field string `json:"field" validate:"required"`
	Mode  string `json:"mode" validate:"required,oneof=set adjust"`
	Value string `json:"value"`
}

// Preview is the result of a bulk edit preview.
type Preview struct {
	Results []bulkedit.MutationResult `json:"results"`
	Summary bulkedit.Summary          `json:"summary"`
}

// Domain runs bulk edits for one entity type.
type Domain[E any] struct {
	Name    string
	Editor  *bulkedit.Editor[E]
	Logger  zerolog.Logger
	Metrics *obs.EngineMetrics
}

// Fields lists the editable field schemas.
func (d *Domain[E]) Fields() []bulkedit.FieldSchema {
	return d.Editor.Schemas()
}

// Preview resolves the change for the selected entities without touching them.
func (d *Domain[E]) Preview(ctx context.Context, entities []E, selected []string, change Change) (Preview, error) {
	mode, err := bulkedit.ParseMode(change.Mode)
	if err != nil {
		return Preview{}, common.BadRequest("invalid mode", err, map[string]string{"mode": err.Error()})
	}
	if err := validation.RequiredField(change.Value); err != nil {
		d.observe(ctx, change, validation.Code(err), 0, err)
		return Preview{}, common.Unprocessable(validation.Code(err), err.Error(), err, map[string]string{"value": err.Error()})
	}
	desc := bulkedit.ChangeDescriptor{Field: change.Field, Mode: mode, RawInput: change.Value}
	results, err := d.Editor.Preview(entities, bulkedit.NewSelection(selected...), desc)
	if err != nil {
		appErr := engineError(err)
		d.observe(ctx, change, appErr.Code, 0, err)
		return Preview{}, appErr
	}
	d.observe(ctx, change, "ok", len(results), nil)
	return Preview{Results: results, Summary: bulkedit.Summarize(results)}, nil
}

// Apply recomputes the preview and returns copies of entities with the
// finalised after-values written back. Persisting them is up to the caller.
func (d *Domain[E]) Apply(ctx context.Context, entities []E, selected []string, change Change) ([]E, Preview, error) {
	if err := validation.NonEmptyBulkSelection(selected); err != nil {
		return nil, Preview{}, common.Unprocessable(validation.Code(err), err.Error(), err, map[string]string{"selectedIds": err.Error()})
	}
	preview, err := d.Preview(ctx, entities, selected, change)
	if err != nil {
		return nil, Preview{}, err
	}
	updated, err := d.Editor.Apply(entities, preview.Results)
	if err != nil {
		return nil, Preview{}, engineError(err)
	}
	return updated, preview, nil
}

func (d *Domain[E]) observe(ctx context.Context, change Change, result string, size int, err error) {
	fieldLabel := change.Field
	if _, known := d.Editor.Schema(change.Field); !known {
		fieldLabel = "unknown"
	}
	d.Metrics.ObservePreview(d.Name, fieldLabel, change.Mode, result, size)
	logger := d.Logger.With().
		Str("domain", d.Name).
		Str("field", change.Field).
		Str("mode", change.Mode).
		Str("request_id", middleware.GetReqID(ctx)).
		Logger()
	if err != nil {
		logger.Info().Err(err).Str("code", result).Msg("bulk preview rejected")
		return
	}
	logger.Debug().Int("entities", size).Msg("bulk preview computed")
}

// engineError maps bulk edit failures to API errors keyed by the form field
// the operator has to correct.
func engineError(err error) *common.AppError {
	code := bulkedit.Code(err)
	if code == "" {
		return common.NewAppError("INTERNAL", "bulk edit failed", http.StatusInternalServerError, err)
	}
	control := "value"
	switch {
	case errors.Is(err, bulkedit.ErrUnknownField):
		control = "field"
	case errors.Is(err, bulkedit.ErrModeNotSupported):
		control = "mode"
	}
	msg := rootMessage(err)
	return common.Unprocessable(code, msg, err, map[string]string{control: msg})
}

func rootMessage(err error) string {
	var parseErr *bulkedit.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Err.Error()
	}
	var resolveErr *bulkedit.ResolveError
	if errors.As(err, &resolveErr) {
		return fmt.Sprintf("%s: %v", resolveErr.Field, resolveErr.Err)
	}
	return err.Error()
}

// Service bundles the catalog domains that support bulk edits.
type Service struct {
	Courses  *Domain[Course]
	Products *Domain[DigitalProduct]
}

// ServiceConfig configures NewService.
type ServiceConfig struct {
	Enums   Enums
	Logger  zerolog.Logger
	Metrics *obs.EngineMetrics
}

// NewService builds the field tables for every domain.
func NewService(cfg ServiceConfig) (*Service, error) {
	courses, err := NewCourseEditor(cfg.Enums)
	if err != nil {
		return nil, fmt.Errorf("course editor: %w", err)
	}
	products, err := NewProductEditor(cfg.Enums)
	if err != nil {
		return nil, fmt.Errorf("product editor: %w", err)
	}
	return &Service{
		Courses:  &Domain[Course]{Name: "courses", Editor: courses, Logger: cfg.Logger, Metrics: cfg.Metrics},
		Products: &Domain[DigitalProduct]{Name: "digital-products", Editor: products, Logger: cfg.Logger, Metrics: cfg.Metrics},
	}, nil
}
