package catalog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
)

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	doc := `{"$schema":"https://json.schemastore.org/schema-catalog.json","version":1,"schemas":[{"name":"A","url":"https://example.com/a.json"}]}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(cat.Entries))
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{{{`},
		{"no schemas field", `{"version":1}`},
		{"schemas not an array", `{"schemas":{"a":1}}`},
		{"schemas is a string", `{"schemas":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Errorf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestEntryAccessors(t *testing.T) {
	e := NewEntry([]byte(`{"name":"Example","url":"https://example.com/example.json","fileMatch":["*.ex"]}`))

	url, ok := e.URL()
	if !ok || url != "https://example.com/example.json" {
		t.Errorf("URL() = %q, %v", url, ok)
	}
	name, ok := e.Name()
	if !ok || name != "Example" {
		t.Errorf("Name() = %q, %v", name, ok)
	}

	if _, ok := NewEntry([]byte(`["not","an","object"]`)).URL(); ok {
		t.Error("expected no URL for array entry")
	}
	if _, ok := NewEntry([]byte(`{"url":123}`)).URL(); ok {
		t.Error("expected no URL for numeric url")
	}
	if _, ok := NewEntry([]byte(`{"url":"x"}`)).Name(); ok {
		t.Error("expected no Name when absent")
	}
}

func TestWithURLPreservesOtherFields(t *testing.T) {
	e := NewEntry([]byte(`{"name":"Example","url":"https://example.com/example.json","fileMatch":["*.ex"],"versions":{"1.0":"https://example.com/v1.json"}}`))

	rewritten, err := e.WithURL("./schemas/example.json")
	if err != nil {
		t.Fatalf("WithURL: %v", err)
	}

	raw := rewritten.Raw()
	if got := gjson.GetBytes(raw, "url").Str; got != "./schemas/example.json" {
		t.Errorf("url = %q", got)
	}
	if got := gjson.GetBytes(raw, "name").Str; got != "Example" {
		t.Errorf("name = %q", got)
	}
	if got := gjson.GetBytes(raw, "fileMatch").Raw; got != `["*.ex"]` {
		t.Errorf("fileMatch = %s", got)
	}
	if got := gjson.GetBytes(raw, "versions").Raw; got != `{"1.0":"https://example.com/v1.json"}` {
		t.Errorf("versions = %s", got)
	}
}

func TestAssemblePreservesOrderAndMetadata(t *testing.T) {
	doc := `{"$schema":"https://json.schemastore.org/schema-catalog.json","version":1,"schemas":[{"name":"A","url":"https://example.com/a.json"},{"name":"B","url":"https://example.com/b.json"}]}`
	cat, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	rewritten, err := cat.Entries[1].WithURL("./schemas/b.json")
	if err != nil {
		t.Fatalf("WithURL: %v", err)
	}
	out, err := cat.Assemble([]Entry{cat.Entries[0], rewritten})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if !bytes.HasSuffix(out, []byte("\n")) {
		t.Error("expected trailing newline")
	}

	res := gjson.ParseBytes(out)
	if got := res.Get("version").Int(); got != 1 {
		t.Errorf("version = %d, want 1", got)
	}
	if got := res.Get("$schema").Str; got != "https://json.schemastore.org/schema-catalog.json" {
		t.Errorf("$schema = %q", got)
	}

	schemas := res.Get("schemas").Array()
	if len(schemas) != 2 {
		t.Fatalf("expected 2 schemas, got %d", len(schemas))
	}
	want := []string{"https://example.com/a.json", "./schemas/b.json"}
	got := []string{schemas[0].Get("url").Str, schemas[1].Get("url").Str}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("urls mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleLengthMismatch(t *testing.T) {
	cat, err := Parse([]byte(`{"schemas":[{"url":"https://example.com/a.json"}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := cat.Assemble(nil); err == nil {
		t.Error("expected error for mismatched entry count")
	}
}

func TestAssembleIsIdempotent(t *testing.T) {
	doc := `{"version":3,"schemas":[{"name":"A","url":"https://example.com/a.json","fileMatch":["a.yml","a.yaml"]},"passthrough",{"name":"B","url":"https://example.com/b.json"}]}`
	cat, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	first, err := cat.Assemble(cat.Entries)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	second, err := cat.Assemble(cat.Entries)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("Assemble output not byte-identical:\n%s\n---\n%s", first, second)
	}
}
