// Package cli implements the wardrobe command-line interface.
//
// # Commands
//
//   - build: generate a wardrobe and write STL, PNG, sketch and cut list output
//   - validate: check wardrobe parameters
//   - layout: print the structural sketch as JSON
//   - materials: list the wood materials
//   - dialog: edit parameters in an interactive command dialog
//   - serve: run the HTTP server
//   - config: write or show wardrobe.toml
//
// Every command reads wardrobe.toml from the working directory, or the file
// named by --config. Flags override the file.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/soypat/wardrobe/material"
	"github.com/spf13/cobra"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        Config
}

// New creates a CLI logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: defaultConfig()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "wardrobe",
		Short:        "Wardrobe generates parametric wardrobe models",
		Long:         `Wardrobe lays out the walls, dividers and shelves of a wardrobe from its dimensions and builds solid panels you can export as STL, preview as PNG or serve over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+defaultConfigFile+" if present)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.materialsCommand())
	root.AddCommand(c.dialogCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	return root
}

// resolver returns a refreshed resolver over the configured libraries.
func (c *CLI) resolver() (*material.Resolver, error) {
	r := material.NewResolver(c.cfg.materialSource())
	if err := r.Refresh(); err != nil {
		return nil, err
	}
	return r, nil
}

// createFile opens path for writing, or returns stdout for "-".
func createFile(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
