package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gocut/version"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "gocut",
	Short: "Cut triangle meshes along planes into closed fragments",
	Long: `gocut splits closed triangle meshes along arbitrary planes. Every cut
produces two watertight pieces with triangulated cross-section caps.
Input can be STL, OpenSCAD or a generated primitive; fragments are
written as STL.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
