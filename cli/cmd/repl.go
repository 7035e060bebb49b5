package cmd

import (
	"context"

	"github.com/wildwinter/expression-parser/cli/cmd/repl"
	"github.com/wildwinter/expression-parser/lang"
	"github.com/wildwinter/expression-parser/log"
)

// Repl starts an interactive session.
type Repl struct {
	Watch bool   `help:"Reload the bindings file when it changes"                short:"w"`
	Trace bool   `help:"Show evaluation steps (toggle with the trace command)"   short:"t"`
	Style string `help:"Quoting style used by the style command" default:"single" enum:"single,escaped-single,double,escaped-double"`
}

// Run executes the repl command. The last bindings file given is the one
// edited and watched.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	style, err := lang.ParseStyle(r.Style)
	if err != nil {
		return err
	}

	bindings, err := loadBindings(ctx)
	if err != nil {
		return err
	}

	var path string
	if files := bindingFilesFrom(ctx); !files.IsZero() && len(files.Paths) > 0 {
		path = files.Paths[len(files.Paths)-1]
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, repl.Config{
		Bindings: bindings,
		Path:     path,
		CacheDir: cacheDir,
		Watch:    r.Watch,
		Trace:    r.Trace,
		Style:    style,
		Logger:   log.Default(),
	})
}
