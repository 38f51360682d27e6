package main

import (
	"fmt"
	"io"
	"os"

	"choopy/config"
	"choopy/logging"
	"choopy/network"
	"choopy/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.3.0"

// cli carries what the commands share: flags, config and the logger.
type cli struct {
	cfgPath string
	verbose bool

	net networkFlags

	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "choopy",
		Short: "choopy - a paper network in your terminal",
		Long: Brand.Sprint("♪ choopy") + " - drag paper bubbles around, let nearby ones link up\n" +
			Subtle.Sprint("Run without arguments to open the network; letters and music live in subcommands."),
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.cfgPath)
			if err != nil {
				return err
			}
			c.cfg = cfg

			// the network owns the screen and opens its own file logger
			if isNetworkCmd(cmd) {
				c.log = zap.NewNop()
				return nil
			}
			log, err := logging.New(cfg.Log, c.verbose, logging.Stderr)
			if err != nil {
				return err
			}
			c.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNetwork(cmd, args)
		},
	}

	root.SetVersionTemplate("choopy {{ .Version }}\n")
	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")
	c.bindNetworkFlags(root)

	root.AddCommand(
		c.networkCmd(),
		c.exportCmd(),
		c.lettersCmd(),
		c.playlistCmd(),
		c.configCmd(),
	)
	return root
}

func isNetworkCmd(cmd *cobra.Command) bool {
	return cmd.Name() == "network" || !cmd.HasParent()
}

// params returns the simulation parameters from config.
func (c *cli) params() network.Params {
	n := c.cfg.Network
	return network.Params{Radius: n.Radius, Size: n.Size, LinkFactor: n.LinkFactor}
}

// viewport returns the cell geometry from config.
func (c *cli) viewport() render.Viewport {
	v := render.DefaultViewport()
	v.CellWidth = c.cfg.Network.CellWidth
	v.CellHeight = c.cfg.Network.CellHeight
	return v
}

func (c *cli) source(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return c.cfg.Network.Source
}

// writeOutput writes to path, or to w when path is empty.
func writeOutput(w io.Writer, path, content string) error {
	if path == "" {
		_, err := io.WriteString(w, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
