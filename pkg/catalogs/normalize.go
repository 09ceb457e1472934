package catalogs

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/agentstation/atlas/pkg/errors"
)

// Field fallback chains. The first non-empty path wins. Canonical names come
// first, followed by the column names of the portal spreadsheet export.
var (
	idPaths          = []string{"id", "Id", "ID"}
	kindPaths        = []string{"kind", "type", "Type"}
	titlePaths       = []string{"title", "Report and Dataset Name", "Product Name (Business)", "name"}
	descriptionPaths = []string{"description", "Description"}
	ownerPaths       = []string{"owner", "productOwner", "Product Owner"}
	statusPaths      = []string{"publishedStatus", "status", "Portal Status"}
	publishedPaths   = []string{"lastPublishedAt", "lastPublished", "Last Published"}
)

// Normalize converts a JSON array of loosely shaped record objects into
// canonical records. Objects may use canonical keys or export column names.
func Normalize(data []byte) ([]Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.NewParseError("json", "", "invalid JSON document", nil)
	}
	root := gjson.ParseBytes(data)
	if root.IsObject() {
		// {"records": [...]} wrapper
		for _, key := range []string{"records", "items", "data"} {
			if inner := root.Get(key); inner.IsArray() {
				root = inner
				break
			}
		}
	}
	if !root.IsArray() {
		return nil, errors.NewParseError("json", "", "expected an array of records", nil)
	}

	var (
		records []Record
		err     error
	)
	root.ForEach(func(idx, item gjson.Result) bool {
		var r Record
		r, err = NormalizeOne(item)
		if err != nil {
			err = errors.WrapResource("normalize", "record", idx.String(), err)
			return false
		}
		records = append(records, r)
		return true
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// NormalizeOne resolves a single record object through the fallback chains.
func NormalizeOne(item gjson.Result) (Record, error) {
	if !item.IsObject() {
		return Record{}, errors.NewValidationError("record", item.Raw, "expected an object")
	}
	kind, err := ParseKind(first(item, kindPaths))
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID:            first(item, idPaths),
		Kind:          kind,
		Title:         first(item, titlePaths),
		Description:   first(item, descriptionPaths),
		Owner:         first(item, ownerPaths),
		Status:        first(item, statusPaths),
		LastPublished: first(item, publishedPaths),
	}, nil
}

func first(item gjson.Result, paths []string) string {
	for _, p := range paths {
		v := item.Get(escapePath(p))
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			return s
		}
	}
	return ""
}

// escapePath escapes gjson path syntax so that export column names with
// spaces and punctuation are looked up literally.
func escapePath(p string) string {
	var b strings.Builder
	for _, r := range p {
		switch r {
		case '.', '*', '?', '|', '#', '@', '!', '=', '<', '>', '%', '(', ')', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
