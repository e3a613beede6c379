package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Common errors.
var (
	ErrNotFound       = errors.New("catalog: catalog file not found")
	ErrInvalidCatalog = errors.New("catalog: document has no schemas array")
)

// Entry is a single schema record. The raw JSON is retained so that entries
// which are never rewritten stay byte-identical in the output.
type Entry struct {
	raw json.RawMessage
}

// NewEntry wraps raw JSON as an Entry. The bytes are not copied.
func NewEntry(raw []byte) Entry {
	return Entry{raw: raw}
}

// Raw returns the entry's JSON bytes.
func (e Entry) Raw() []byte {
	return e.raw
}

// URL returns the entry's url field. ok is false when the entry is not a
// JSON object or url is missing or not a string; such entries are passed
// through the pipeline untouched.
func (e Entry) URL() (string, bool) {
	if !gjson.ParseBytes(e.raw).IsObject() {
		return "", false
	}
	v := gjson.GetBytes(e.raw, "url")
	if v.Type != gjson.String {
		return "", false
	}
	return v.Str, true
}

// Name returns the entry's name field, if present and a string.
func (e Entry) Name() (string, bool) {
	v := gjson.GetBytes(e.raw, "name")
	if v.Type != gjson.String {
		return "", false
	}
	return v.Str, true
}

// WithURL returns a copy of the entry with only its url field replaced.
func (e Entry) WithURL(url string) (Entry, error) {
	raw, err := sjson.SetBytes(e.raw, "url", url)
	if err != nil {
		return Entry{}, fmt.Errorf("rewrite url: %w", err)
	}
	return Entry{raw: raw}, nil
}

// Catalog is a parsed catalog document.
type Catalog struct {
	raw []byte

	// Entries holds the schemas array in document order.
	Entries []Entry
}

// Load reads and parses the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse parses catalog JSON. The input bytes are retained by the returned
// Catalog and must not be modified afterwards.
func Parse(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidCatalog)
	}

	schemas := gjson.GetBytes(data, "schemas")
	if !schemas.IsArray() {
		return nil, ErrInvalidCatalog
	}

	items := schemas.Array()
	entries := make([]Entry, len(items))
	for i, item := range items {
		entries[i] = Entry{raw: json.RawMessage(item.Raw)}
	}

	return &Catalog{raw: data, Entries: entries}, nil
}

// Assemble splices entries back into the source document as the schemas
// array, preserving every other top-level field, and returns the
// pretty-printed result with a trailing newline. entries must be parallel
// to c.Entries: one element per original entry, at the original index.
func (c *Catalog) Assemble(entries []Entry) ([]byte, error) {
	if len(entries) != len(c.Entries) {
		return nil, fmt.Errorf("assemble: got %d entries, want %d", len(entries), len(c.Entries))
	}

	var arr bytes.Buffer
	arr.WriteByte('[')
	for i, e := range entries {
		if i > 0 {
			arr.WriteByte(',')
		}
		arr.Write(e.raw)
	}
	arr.WriteByte(']')

	doc, err := sjson.SetRawBytes(c.raw, "schemas", arr.Bytes())
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	out := pretty.Pretty(doc)
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out, nil
}
