package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"choopy/core"
	"choopy/demo"
	"choopy/logging"
	"choopy/playlist"
	"choopy/terminal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type networkFlags struct {
	seed   int64
	script string
	music  string
}

func (c *cli) networkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "network [source]",
		Short: "Open the paper network",
		Long: `Open the paper network in the terminal.

Papers are read from source (a file path or an http(s) URL), or from
network.source in the config. Drag a bubble and let go: after a short
pause it links to every bubble close enough. Double-click a bubble, or
hover it and press u, to unlink it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.runNetwork,
	}
	c.bindNetworkFlags(cmd)
	return cmd
}

func (c *cli) bindNetworkFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&c.net.seed, "seed", 0, "seed the initial layout and shuffle (0 = random)")
	cmd.Flags().StringVar(&c.net.script, "script", "", "play a demo script once the papers load")
	cmd.Flags().StringVar(&c.net.music, "music", "", "music index file or URL (overrides music.index)")
}

func (c *cli) runNetwork(cmd *cobra.Command, args []string) error {
	cfg := c.cfg
	log, err := logging.New(cfg.Log, c.verbose, logging.File)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	mode, err := playlist.ParseMode(cfg.Music.Mode)
	if err != nil {
		return err
	}

	var script *demo.Script
	if c.net.script != "" {
		if script, err = demo.LoadScript(c.net.script); err != nil {
			return err
		}
	}

	index := cfg.Music.Index
	if c.net.music != "" {
		index = c.net.music
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := c.source(args)
	log.Info("opening network",
		zap.String("source", source),
		zap.String("music", index),
		zap.Int64("seed", c.net.seed))

	app := terminal.New(screen, terminal.Options{
		Source:      source,
		MusicIndex:  index,
		MusicGroups: cfg.Music.Groups,
		MusicMode:   mode,
		MusicVolume: cfg.Music.Volume,
		Params:      c.params(),
		SettleDelay: cfg.Network.SettleDelay.Duration,
		DoubleClick: cfg.Network.DoubleClick.Duration,
		Viewport:    c.viewport(),
		Fallback:    core.Size{W: cfg.Network.ViewportWidth, H: cfg.Network.ViewportHeight},
		Seed:        c.net.seed,
		Script:      script,
		Logger:      log,
	})
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if n := len(app.State().Links); n > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d linked bubbles\n", Subtle.Sprint("closed with"), n)
	}
	return nil
}
