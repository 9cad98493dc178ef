package tree

import (
	_ "embed"
	"fmt"
)

//go:embed layouts/default.yaml
var defaultLayout []byte

// DefaultLayout returns the raw bytes of the built-in layout.
func DefaultLayout() []byte {
	return defaultLayout
}

// Default parses the built-in layout.
func Default() (*Document, error) {
	doc, err := Parse(defaultLayout)
	if err != nil {
		return nil, fmt.Errorf("loading built-in layout: %w", err)
	}
	return doc, nil
}
