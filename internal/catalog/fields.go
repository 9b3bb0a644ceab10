package catalog

import (
	"math"

	"github.com/noah-isme/toko-admin/internal/bulkedit"
)

// Course is the bulk-editable view of a course listing.
type Course struct {
	ID       string  `json:"id" validate:"required"`
	Title    string  `json:"title"`
	Price    float64 `json:"price" validate:"gte=0"`
	Capacity int     `json:"capacity" validate:"gte=0"`
	Status   string  `json:"status"`
	Category string  `json:"category"`
	Featured bool    `json:"featured"`
}

// DigitalProduct is the bulk-editable view of a downloadable product.
type DigitalProduct struct {
	ID           string  `json:"id" validate:"required"`
	Name         string  `json:"name"`
	Price        float64 `json:"price" validate:"gte=0"`
	Stock        int     `json:"stock" validate:"gte=0"`
	Status       string  `json:"status"`
	Category     string  `json:"category"`
	Downloadable bool    `json:"downloadable"`
}

// Enums carries the legal values of enum fields, supplied by configuration.
type Enums struct {
	Statuses          []string
	CourseCategories  []string
	ProductCategories []string
}

var bothModes = []bulkedit.Mode{bulkedit.ModeSet, bulkedit.ModeAdjust}
var setOnly = []bulkedit.Mode{bulkedit.ModeSet}

func priceSchema() bulkedit.FieldSchema {
	return bulkedit.FieldSchema{Key: "price", Kind: bulkedit.KindNumeric, Modes: bothModes, Unit: "currency", ClampNonNegative: true, Rounding: true, Places: 2}
}

func countSchema(key, unit string) bulkedit.FieldSchema {
	return bulkedit.FieldSchema{Key: key, Kind: bulkedit.KindNumeric, Modes: bothModes, Unit: unit, ClampNonNegative: true, Rounding: true, Max: math.MaxInt32}
}

func enumSchema(key string, allowed []string) bulkedit.FieldSchema {
	return bulkedit.FieldSchema{Key: key, Kind: bulkedit.KindEnum, Modes: setOnly, Allowed: allowed}
}

func flagSchema(key string) bulkedit.FieldSchema {
	return bulkedit.FieldSchema{Key: key, Kind: bulkedit.KindBoolean, Modes: setOnly}
}

// toCount expects a finalised value, which countSchema bounds to [0, MaxInt32].
func toCount(v bulkedit.Value) int {
	return int(math.Round(v.Float()))
}

// NewCourseEditor builds the course field table.
func NewCourseEditor(enums Enums) (*bulkedit.Editor[Course], error) {
	return bulkedit.NewEditor(func(c Course) string { return c.ID },
		bulkedit.Field[Course]{
			Schema: priceSchema(),
			Get:    func(c Course) bulkedit.Value { return bulkedit.NumberValue(c.Price) },
			Set:    func(c *Course, v bulkedit.Value) { c.Price = v.Float() },
		},
		bulkedit.Field[Course]{
			Schema: countSchema("capacity", "seats"),
			Get:    func(c Course) bulkedit.Value { return bulkedit.NumberValue(float64(c.Capacity)) },
			Set:    func(c *Course, v bulkedit.Value) { c.Capacity = toCount(v) },
		},
		bulkedit.Field[Course]{
			Schema: enumSchema("status", enums.Statuses),
			Get:    func(c Course) bulkedit.Value { return bulkedit.EnumValue(c.Status) },
			Set:    func(c *Course, v bulkedit.Value) { c.Status = v.Token() },
		},
		bulkedit.Field[Course]{
			Schema: enumSchema("category", enums.CourseCategories),
			Get:    func(c Course) bulkedit.Value { return bulkedit.EnumValue(c.Category) },
			Set:    func(c *Course, v bulkedit.Value) { c.Category = v.Token() },
		},
		bulkedit.Field[Course]{
			Schema: flagSchema("featured"),
			Get:    func(c Course) bulkedit.Value { return bulkedit.BoolValue(c.Featured) },
			Set:    func(c *Course, v bulkedit.Value) { c.Featured = v.Bool() },
		},
	)
}

// NewProductEditor builds the digital product field table.
func NewProductEditor(enums Enums) (*bulkedit.Editor[DigitalProduct], error) {
	return bulkedit.NewEditor(func(p DigitalProduct) string { return p.ID },
		bulkedit.Field[DigitalProduct]{
			Schema: priceSchema(),
			Get:    func(p DigitalProduct) bulkedit.Value { return bulkedit.NumberValue(p.Price) },
			Set:    func(p *DigitalProduct, v bulkedit.Value) { p.Price = v.Float() },
		},
		bulkedit.Field[DigitalProduct]{
			Schema: countSchema("stock", "units"),
			Get:    func(p DigitalProduct) bulkedit.Value { return bulkedit.NumberValue(float64(p.Stock)) },
			Set:    func(p *DigitalProduct, v bulkedit.Value) { p.Stock = toCount(v) },
		},
		bulkedit.Field[DigitalProduct]{
			Schema: enumSchema("status", enums.Statuses),
			Get:    func(p DigitalProduct) bulkedit.Value { return bulkedit.EnumValue(p.Status) },
			Set:    func(p *DigitalProduct, v bulkedit.Value) { p.Status = v.Token() },
		},
		bulkedit.Field[DigitalProduct]{
			Schema: enumSchema("category", enums.ProductCategories),
			Get:    func(p DigitalProduct) bulkedit.Value { return bulkedit.EnumValue(p.Category) },
			Set:    func(p *DigitalProduct, v bulkedit.Value) { p.Category = v.Token() },
		},
		bulkedit.Field[DigitalProduct]{
			Schema: flagSchema("downloadable"),
			Get:    func(p DigitalProduct) bulkedit.Value { return bulkedit.BoolValue(p.Downloadable) },
			Set:    func(p *DigitalProduct, v bulkedit.Value) { p.Downloadable = v.Bool() },
		},
	)
}
