package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-admin/internal/config"
)

const fixture = `[
	{"id":"c1","title":"Go Basics","price":100,"capacity":30,"status":"draft","category":"programming"},
	{"id":"c2","title":"UX 101","price":200,"capacity":10,"status":"published","category":"design"}
]`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courses.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))
	return path
}

func testConfig() *config.Config {
	return &config.Config{
		Statuses:          []string{"draft", "published", "archived"},
		CourseCategories:  []string{"programming", "design"},
		ProductCategories: []string{"ebook"},
	}
}

func TestRunPrintsPreviewTable(t *testing.T) {
	var out bytes.Buffer
	opts := options{domain: "courses", file: writeFixture(t), field: "price", mode: "adjust", value: "-10%"}
	require.NoError(t, run(context.Background(), opts, testConfig(), zerolog.Nop(), &out))

	got := out.String()
	require.Contains(t, got, "ID")
	require.Contains(t, got, "c1  price  100     90")
	require.Contains(t, got, "c2  price  200     180")
	require.Contains(t, got, "2 selected, 2 changed, 0 unchanged")
}

func TestRunApplyHonoursIDs(t *testing.T) {
	var out bytes.Buffer
	opts := options{domain: "courses", file: writeFixture(t), field: "status", mode: "set", value: "archived", ids: "c2", apply: true}
	require.NoError(t, run(context.Background(), opts, testConfig(), zerolog.Nop(), &out))
	require.Contains(t, out.String(), `"status": "draft"`)
	require.Contains(t, out.String(), `"status": "archived"`)
	require.Contains(t, out.String(), `"changed": 1`)
}

func TestRunReportsEngineErrors(t *testing.T) {
	var out bytes.Buffer
	opts := options{domain: "courses", file: writeFixture(t), field: "status", mode: "set", value: "deleted"}
	err := run(context.Background(), opts, testConfig(), zerolog.Nop(), &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "INVALID_ENUM_VALUE")
}

func TestRunValidatesFlags(t *testing.T) {
	err := run(context.Background(), options{domain: "courses", field: "price"}, testConfig(), zerolog.Nop(), &bytes.Buffer{})
	require.EqualError(t, err, "-file is required")

	err = run(context.Background(), options{domain: "suppliers", file: writeFixture(t), field: "price"}, testConfig(), zerolog.Nop(), &bytes.Buffer{})
	require.EqualError(t, err, `unknown domain "suppliers"`)
}
