package cli

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/snek/cli/cmd"
	"github.com/ardnew/snek/lang"
	"github.com/ardnew/snek/log"
	"github.com/ardnew/snek/pkg"
)

// CLI is the top-level command-line interface for snek.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Include  []string         `help:"Prepend directory to the script search path (repeatable)." placeholder:"DIR" short:"I" type:"path"`
	MaxDepth int              `default:"${maxDepth}" help:"Maximum block nesting depth."`
	Version  kong.VersionFlag `help:"Print version and exit." short:"V"`

	Run    cmd.Run    `cmd:"" default:"withargs" help:"Run a script (default)."`
	Tokens cmd.Tokens `cmd:""                    help:"Print the token stream of a script."`
	Fmt    cmd.Fmt    `cmd:""                    help:"Format a script."`
	JS     cmd.JS     `cmd:""                    help:"Lower a script to JavaScript." name:"js"`
	Repl   cmd.Repl   `cmd:""                    help:"Start an interactive session."`
	Init   cmd.Init   `cmd:""                    help:"Write the configuration script from the current flags."`
}

// Run executes the snek CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: scriptConfig(),
		cmd.CacheIdentifier:  cacheDir(),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
		"version":            pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Apply logger flags before parsing so that errors reported by kong,
	// including those from the configuration script, are already formatted.
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
		kong.Configuration(kong.JSON, jsonConfig()),
		kong.Configuration(resolve(ctx), scriptConfig()),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSearchPath(ctx, cli.Include)
	ctx = cmd.WithParseOptions(ctx,
		lang.WithMaxDepth(cli.MaxDepth),
		lang.WithLogger(log.Default()),
	)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
