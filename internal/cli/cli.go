// Package cli implements the marmot command-line interface.
//
// This package provides commands for inspecting a project manifest, listing
// and querying tasks, and managing the package metadata cache. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - info: Show project metadata and the dependency sets for a platform
//   - task: List tasks and query reverse task dependencies
//   - auth: Manage credentials for authenticated package indexes
//   - cache: Manage the package metadata cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/marmot-dev/marmot/pkg/buildinfo"
	"github.com/marmot-dev/marmot/pkg/project"
)

// appName is the application name used for directories and display.
const appName = "marmot"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// manifestPath is the --manifest-path flag value; empty means discover
	// the manifest from the working directory.
	manifestPath string
	verbose      bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Marmot manages multi-platform project environments",
		Long:         `Marmot reads a marmot.toml project manifest and resolves its dependency sets, tasks, activation scripts and system requirements per target platform.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.manifestPath, "manifest-path", "", "path to marmot.toml (defaults to searching parent directories)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if c.verbose {
			c.SetLogLevel(LogDebug)
		}
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	}

	root.AddCommand(c.infoCommand())
	root.AddCommand(c.taskCommand())
	root.AddCommand(c.authCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// openProject loads the project named by --manifest-path, or discovers one
// from the working directory. The CLI logger is attached so project-level
// warnings surface in the command output.
func (c *CLI) openProject() (*project.Project, error) {
	p, err := project.LoadOrDiscover(c.manifestPath)
	if err != nil {
		return nil, err
	}
	p.SetLogger(c.Logger)
	c.Logger.Debug("loaded project", "name", p.Name(), "root", p.Root())
	return p, nil
}
