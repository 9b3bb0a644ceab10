package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-admin/internal/catalog"
	"github.com/noah-isme/toko-admin/internal/common"
	"github.com/noah-isme/toko-admin/internal/config"
)

type options struct {
	domain string
	file   string
	field  string
	mode   string
	value  string
	ids    string
	apply  bool
	asJSON bool
}

func main() {
	var opts options
	flag.StringVar(&opts.domain, "domain", "courses", "entity domain: courses or digital-products")
	flag.StringVar(&opts.file, "file", "", "path to a JSON array of entities")
	flag.StringVar(&opts.field, "field", "", "field key to change")
	flag.StringVar(&opts.mode, "mode", "set", "set or adjust")
	flag.StringVar(&opts.value, "value", "", `raw value, e.g. "99", "+10", "-5%", "true", "published"`)
	flag.StringVar(&opts.ids, "ids", "", "comma separated entity ids; defaults to every entity in the file")
	flag.BoolVar(&opts.apply, "apply", false, "print the updated entities instead of the preview table")
	flag.BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Str("run", uuid.NewString()).Logger()

	if err := run(context.Background(), opts, cfg, logger, os.Stdout); err != nil {
		logger.Error().Err(err).Msg("bulk preview failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, cfg *config.Config, logger zerolog.Logger, out io.Writer) error {
	if strings.TrimSpace(opts.file) == "" {
		return errors.New("-file is required")
	}
	if strings.TrimSpace(opts.field) == "" {
		return errors.New("-field is required")
	}
	raw, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("read entities: %w", err)
	}

	svc, err := catalog.NewService(catalog.ServiceConfig{
		Enums: catalog.Enums{
			Statuses:          cfg.Statuses,
			CourseCategories:  cfg.CourseCategories,
			ProductCategories: cfg.ProductCategories,
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}
	change := catalog.Change{Field: opts.field, Mode: opts.mode, Value: opts.value}

	switch opts.domain {
	case svc.Courses.Name:
		return runDomain(ctx, svc.Courses, raw, opts, change, out)
	case svc.Products.Name:
		return runDomain(ctx, svc.Products, raw, opts, change, out)
	default:
		return fmt.Errorf("unknown domain %q", opts.domain)
	}
}

func runDomain[E any](ctx context.Context, d *catalog.Domain[E], raw []byte, opts options, change catalog.Change, out io.Writer) error {
	var entities []E
	if err := json.Unmarshal(raw, &entities); err != nil {
		return fmt.Errorf("decode entities: %w", err)
	}
	selected := splitIDs(opts.ids)
	if len(selected) == 0 {
		selected = allIDs(raw)
	}

	if opts.apply {
		updated, preview, err := d.Apply(ctx, entities, selected, change)
		if err != nil {
			return describe(err)
		}
		return writeJSON(out, map[string]any{"data": updated, "summary": preview.Summary})
	}

	preview, err := d.Preview(ctx, entities, selected, change)
	if err != nil {
		return describe(err)
	}
	if opts.asJSON {
		return writeJSON(out, map[string]any{"data": preview.Results, "summary": preview.Summary})
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFIELD\tBEFORE\tAFTER")
	for _, r := range preview.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.EntityID, r.FieldKey, r.Before, r.After)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	s := preview.Summary
	_, err = fmt.Fprintf(out, "%d selected, %d changed, %d unchanged\n", s.Selected, s.Changed, s.Unchanged)
	return err
}

// describe flattens an API error into a single line with its details.
func describe(err error) error {
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		return err
	}
	if details, ok := appErr.Details.(map[string]string); ok && len(details) > 0 {
		parts := make([]string, 0, len(details))
		for k, v := range details {
			parts = append(parts, k+": "+v)
		}
		sort.Strings(parts)
		return fmt.Errorf("%s: %s (%s)", appErr.Code, appErr.Message, strings.Join(parts, "; "))
	}
	return fmt.Errorf("%s: %s", appErr.Code, appErr.Message)
}

func splitIDs(csv string) []string {
	var ids []string
	for _, id := range strings.Split(csv, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// allIDs reads the id of every entity without knowing its concrete type.
func allIDs(raw []byte) []string {
	var rows []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
