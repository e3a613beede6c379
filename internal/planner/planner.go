package planner

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/ebuildy/schemastore/internal/catalog"
)

// Plan computes the local filename for every entry, in catalog order.
// The returned slice is parallel to entries; an empty string marks an entry
// that will not be fetched (not an object, or no usable URL).
//
// Filenames are unique within a single plan: duplicates get an incrementing
// numeric suffix before the extension, assigned in catalog order.
func Plan(entries []catalog.Entry) []string {
	names := make([]string, len(entries))
	seen := make(map[string]int)

	for i, e := range entries {
		base := baseFilename(e)
		if base == "" {
			continue
		}

		seen[base]++
		if n := seen[base]; n > 1 {
			ext := path.Ext(base)
			stem := strings.TrimSuffix(base, ext)
			names[i] = fmt.Sprintf("%s-%d%s", stem, n, ext)
		} else {
			names[i] = base
		}
	}

	return names
}

// baseFilename derives the pre-collision filename for a single entry.
// Returns "" for entries that should be skipped.
func baseFilename(e catalog.Entry) string {
	rawURL, ok := e.URL()
	if !ok {
		return ""
	}

	if name, ok := e.Name(); ok {
		return Slug(name) + ".json"
	}

	return filenameFromURL(rawURL)
}

// filenameFromURL takes the last path segment of the URL, strips any query
// and fragment, ensures a .json extension, and slugifies the stem.
func filenameFromURL(rawURL string) string {
	segment := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		segment = path.Base(u.Path)
		if segment == "/" || segment == "." {
			segment = ""
		}
	} else {
		// Unparseable URL: fall back to manual stripping.
		if i := strings.IndexAny(segment, "?#"); i >= 0 {
			segment = segment[:i]
		}
		if i := strings.LastIndex(segment, "/"); i >= 0 {
			segment = segment[i+1:]
		}
	}

	stem := strings.TrimSuffix(segment, ".json")
	return Slug(stem) + ".json"
}

// Slug lowercases s, replaces every run of non-alphanumeric characters with
// a single hyphen, and trims leading and trailing hyphens. The result may be
// empty for degenerate input; callers accept the resulting ".json"-only
// names rather than guard against them.
func Slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}

	return b.String()
}
