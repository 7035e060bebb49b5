package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/wildwinter/expression-parser/cli/cmd"
	"github.com/wildwinter/expression-parser/pkg"
)

// CLI is the top-level command-line interface.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Bindings []string `help:"Bindings file(s) or '-' for stdin"   short:"b"                    type:"existingfile"`
	Set      []string `help:"Bind a variable, overriding any file" short:"D" placeholder:"NAME=VALUE" sep:"none"`

	Eval   cmd.Eval   `cmd:"" default:"withargs" help:"Evaluate an expression"`
	Fmt    cmd.Fmt    `cmd:""                    help:"Write an expression in canonical form"`
	AST    cmd.AST    `cmd:""                    help:"Print the syntax tree of an expression" name:"ast"`
	Tokens cmd.Tokens `cmd:""                    help:"Print the tokens of an expression"`
	Repl   cmd.Repl   `cmd:""                    help:"Start an interactive session"`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file"`
}

// Run parses args and executes the selected command. The exit function is
// called by kong for --help and usage errors.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	yamlPath := configPath(configYAML)

	vars := kong.Vars{
		cmd.ConfigIdentifier: yamlPath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(configJSON)),
		kong.Configuration(resolve(ctx), yamlPath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithBindingFiles(ctx, cli.Bindings)
	ctx = cmd.WithOverrides(ctx, cli.Set)

	defer cli.Log.start(ctx)()

	// No-op unless built with the pprof tag and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
