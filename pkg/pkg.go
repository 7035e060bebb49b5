//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module, embedded at build time from
// the VERSION file.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It appears in help text and selects the
	// configuration and cache directories.
	Name = "expression-parser"
	// Description is the one-line summary shown in help output.
	Description = "Parse, evaluate and format boolean/arithmetic expressions"
)

// AuthorInfo identifies a project author.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{Name: "wildwinter"},
}
