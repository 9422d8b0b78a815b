package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZenLiuCN/gomponent"
	"github.com/ZenLiuCN/gomponent/config"
	"github.com/ZenLiuCN/gomponent/dynamic"
	"github.com/ZenLiuCN/gomponent/host"
	"github.com/ZenLiuCN/gomponent/pool"
	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "gomponent"
	app.Usage = "native gamemode and plugin host"
	app.Description = "load gamemode and plugin modules, forward host events into them, or inspect modules for their entry points"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}},
		&cli.StringFlag{Name: "plugins", Aliases: []string{"p"}, Usage: "module directory", Value: dynamic.DefaultDir},
	}
	app.Commands = []*cli.Command{
		{Name: "run",
			Action: run,
			Usage:  "host the modules named by go.gamemode and go.plugin until interrupted",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "toml, yaml or json config file", Value: "config.toml"},
			},
		},
		{Name: "inspect",
			Action: inspect,
			Usage:  "load modules one by one and report the entry points and events they export",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "dump", Usage: "dump the cached symbols of each module"},
			},
			Args: true,
		},
		{Name: "install",
			Action: install,
			Usage:  "copy a built module into the module directory",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "module identifier", Required: true},
			},
			Args: true,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("failure %s", err)
	}
}

func run(ctx *cli.Context) (err error) {
	debug := ctx.Bool("debug")
	var cfg config.Store
	if cfg, err = config.Load(ctx.String("config")); err != nil {
		return
	}
	dir := ctx.String("plugins")
	if !ctx.IsSet("plugins") && cfg.GetString(config.KeyPluginsDir) != "" {
		dir = cfg.GetString(config.KeyPluginsDir)
	}
	level := gomponent.LogMessage
	if debug {
		level = gomponent.LogDebug
	}
	core := host.New(cfg, host.NewLogger(log.Default(), level), gomponent.Categories()...)
	hub := gomponent.New(gomponent.WithDir(dir), gomponent.WithDebug(debug))
	sig, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(sig, core, hub)
}

// serve hosts hub on core until ctx is done. A failed module load was already logged by the hub,
// the host keeps running without the modules that failed.
func serve(ctx context.Context, core *host.Core, hub *gomponent.Hub) error {
	if err := core.Start(hub); errors.Is(err, host.ErrStarted) {
		return err
	} else if err != nil {
		core.Logf(gomponent.LogWarning, "serving without gamemode %q and plugin %q", hub.Gamemode().Names(), hub.Plugin().Names())
	} else {
		core.Logf(gomponent.LogMessage, "gamemode %q and plugin %q ready", hub.Gamemode().Names(), hub.Plugin().Names())
	}
	<-ctx.Done()
	return core.Stop()
}

func inspect(ctx *cli.Context) (err error) {
	names := ctx.Args().Slice()
	if len(names) == 0 {
		return fmt.Errorf("missing module names")
	}
	p := pool.NewPool(ctx.String("plugins"), nil)
	defer func() {
		if e := p.Close(); err == nil {
			err = e
		}
	}()
	for _, name := range names {
		if err = p.Load(name); err != nil {
			return
		}
		var e dynamic.EntryPoints
		if e, err = p.EntryPoints(name); err != nil {
			return
		}
		fmt.Printf("%s:\n", p.Loader(name).Path())
		fmt.Printf("\t%s: %v\n", dynamic.OnGameModeInit, e.Has(dynamic.OnGameModeInit))
		fmt.Printf("\t%s: %v\n", dynamic.OnGameModeExit, e.Has(dynamic.OnGameModeExit))
		for _, ev := range exportedEvents(p, name) {
			fmt.Printf("\t%s\n", ev)
		}
		if ctx.Bool("dump") {
			spew.Dump(p.Loader(name).Symbols())
		}
	}
	return
}

func exportedEvents(p *pool.Pool, name string) (found []string) {
	var events []string
	for _, c := range gomponent.Categories() {
		events = append(events, gomponent.Events(c)...)
	}
	for _, d := range gomponent.PlayerDispatches() {
		events = append(events, gomponent.PlayerEvents(d)...)
	}
	for _, ev := range events {
		if _, err := p.Require(name, ev); err == nil {
			found = append(found, ev)
		}
	}
	return
}

func install(ctx *cli.Context) error {
	src := ctx.Args().First()
	if src == "" {
		return fmt.Errorf("missing module file")
	}
	dest, err := dynamic.NewLoader(ctx.String("plugins"), ctx.Bool("debug")).Install(src, ctx.String("name"))
	if err != nil {
		return err
	}
	log.Printf("installed %s", dest)
	return nil
}
