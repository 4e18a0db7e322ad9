// Package cli provides the command-line interface for backdrop.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/backdrop/internal/version"
)

var (
	// Global flags
	globalVerbose bool
	globalQuiet   bool

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "backdrop",
		Short: "Resolve the effective background colour behind a scene node",
		Long: `Backdrop analyses a layered scene document and determines the single solid
colour that visually sits behind a selected node once every intersecting
layer around it is composited.

The resolved background feeds contrast checking: knowing what a piece of
text or a shape actually sits on is what makes a contrast ratio meaningful.
Scene documents are plain JSON or YAML files, or can be served by an
external provider plugin bridging a live design tool.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&globalQuiet, "quiet", "q", false, "suppress non-error output")

	// Set version template
	rootCmd.SetVersionTemplate(version.String() + "\n")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(inspectCmd)
}

// newLogger builds the diagnostic logger honouring the global verbosity
// flags.
func newLogger(name string) hclog.Logger {
	if globalVerbose {
		return hclog.New(&hclog.LoggerOptions{
			Name:   name,
			Output: log.Writer(),
			Level:  hclog.Debug,
		})
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Output: io.Discard,
		Level:  hclog.Off,
	})
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including build date, commit hash, and Go version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}
