// Package embedded carries the sample analytics catalog compiled into the
// binary. It is used when no catalog file is configured.
package embedded

import (
	"embed"
)

// FS holds the embedded catalog documents.
//
//go:embed catalog/*
var FS embed.FS

// CatalogFile is the path of the default catalog inside FS.
const CatalogFile = "catalog/analytics.json"

// Catalog returns the raw default catalog document.
func Catalog() []byte {
	data, err := FS.ReadFile(CatalogFile)
	if err != nil {
		panic("embedded catalog missing: " + err.Error())
	}
	return data
}
