// Package embedded carries the reference data snapshot compiled into the
// hangar binary.
package embedded

import (
	"embed"
)

// Root is the directory inside FS that holds the reference data files.
const Root = "catalog"

// FS embeds the reference data yaml files at build time.
//
//go:embed catalog/*
var FS embed.FS
