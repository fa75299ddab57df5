package rules

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed embedded/*.yaml
var embedded embed.FS

// Embedded holds the default rule sets.
var Embedded, _ = fs.Sub(embedded, "embedded")

// Default returns an engine with the embedded rule sets loaded and compiled.
func Default() (*Engine, error) {
	e := New()

	if err := e.LoadFS(Embedded); err != nil {
		return nil, fmt.Errorf("load embedded rules: %w", err)
	}

	if err := e.CompileRules(); err != nil {
		return nil, fmt.Errorf("compile embedded rules: %w", err)
	}

	return e, nil
}
