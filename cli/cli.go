package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quant/cli/cmd"
	"github.com/ardnew/quant/pkg"
)

// CLI is the top-level command-line interface for quant.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Include   []string `help:"Directories searched for catalogs and programs" short:"I" type:"path"`
	Catalogs  []string `help:"YAML catalog file(s) loaded before any input" name:"catalog" short:"c"`
	NoPrelude bool     `help:"Do not load the built-in prelude"`

	Run     cmd.Run     `cmd:"" help:"Execute program files"`
	Eval    cmd.Eval    `cmd:"" help:"Evaluate expressions"`
	List    cmd.List    `cmd:"" help:"List declarations"`
	Catalog cmd.Catalog `cmd:"" help:"Export declarations as a YAML catalog"`
	Fmt     cmd.Fmt     `cmd:"" help:"Print programs in canonical form"`
	Init    cmd.Init    `cmd:"" help:"Initialize configuration file"`
	Repl    cmd.Repl    `cmd:"" default:"1" help:"Start an interactive session"`
}

// Run executes the quant CLI with the given context and arguments.
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

	configFilePath := configPath(configFile)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Name + " " + pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Configure logging before parsing so that parse-time messages (such as
	// an invalid configuration file) already honor the log flags.
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
		kong.Configuration(resolve(ctx, baseConfig), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values, including those
	// read from the configuration file.
	cli.Log.start(ctx)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSetup(ctx, cmd.Setup{
		Prelude:    !cli.NoPrelude,
		Catalogs:   cli.Catalogs,
		SearchPath: searchPath(cli.Include...),
	})

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}
