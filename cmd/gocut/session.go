package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/philipparndt/gocut/pkg/config"
	"github.com/philipparndt/gocut/pkg/fragment"
	"github.com/philipparndt/gocut/pkg/mesh"
	"github.com/philipparndt/gocut/pkg/viewer"
	"github.com/philipparndt/gocut/pkg/watcher"
)

var sessionWatch bool

var sessionCmd = &cobra.Command{
	Use:   "session [file]",
	Short: "Run a scripted sequence of cuts",
	Long: `Run the cuts listed in a YAML or TOML session file against one input and
write every resulting fragment plus a manifest.json to the output directory.

Example session.yaml:

  input: bracket.stl
  output: out
  separation: 0.5
  cuts:
    - point: [0, 10, 0]
      normal: [0, 1, 0]
    - point: [5, 0, 0]
      normal: [1, 0, 0]
      volume: {min: [-50, 10, -50], max: [50, 50, 50]}`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionCmd,
}

func init() {
	rootCmd.AddCommand(sessionCmd)

	sessionCmd.Flags().BoolVarP(&sessionWatch, "watch", "w", false, "Rerun whenever the session or its input changes")
}

func runSessionCmd(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	path := args[0]
	logger := newLogger()

	m, err := runSession(ctx, path, logger)
	if err != nil {
		if !sessionWatch {
			return err
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	} else {
		printManifest(m)
	}

	if !sessionWatch {
		return nil
	}
	return watchSession(ctx, path, logger)
}

// runSession loads the session at path, applies its cuts and exports the
// fragments
func runSession(ctx context.Context, path string, logger *slog.Logger) (*manifest, error) {
	s, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	src, source, err := sessionInput(ctx, s)
	if err != nil {
		return nil, err
	}

	registry := fragment.NewRegistry()
	registry.Register(fragment.New(src, mgl64.Ident4()))
	cutter := fragment.NewCutter(registry, &fragment.Options{
		Slicer:  s.SlicerOptions(),
		Workers: s.Workers,
		Logger:  logger,
	})

	exploded := newExplosion(s.Separation)
	for i, c := range s.Cuts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := cutter.Cut(c.Request())
		if err != nil {
			return nil, fmt.Errorf("cut %d: %w", i+1, err)
		}
		exploded.record(res.Splits)
	}

	fragments := registry.All()
	exploded.apply(fragments)

	base := src.Name
	if base == "" {
		base = "fragment"
	}
	entries, err := exportFragments(s.Output, base, fragments, s.Format == config.FormatASCII)
	if err != nil {
		return nil, err
	}

	m := manifest{Source: source, Cuts: len(s.Cuts), Fragments: entries}
	if err := writeManifest(filepath.Join(s.Output, "manifest.json"), m); err != nil {
		return nil, err
	}

	if s.Preview != "" {
		opts := viewer.DefaultOptions()
		opts.Label = fmt.Sprintf("%s: %d fragments", base, len(fragments))
		img, err := viewer.Render(fragments, opts)
		if err != nil {
			return nil, err
		}
		if err := viewer.SavePNG(s.Preview, img); err != nil {
			return nil, err
		}
	}

	logger.Info("session complete", "path", path, "fragments", len(fragments), "output", s.Output)
	return &m, nil
}

func sessionInput(ctx context.Context, s *config.Session) (*mesh.Buffer, string, error) {
	if s.Primitive != nil {
		m, err := s.Primitive.Build()
		return m, s.Primitive.Shape, err
	}
	m, err := loadInput(ctx, s.Input)
	return m, s.Input, err
}

// watchSession reruns the session until ctx is cancelled. Runs never
// overlap; changes arriving during a run trigger one more run.
func watchSession(ctx context.Context, path string, logger *slog.Logger) error {
	files := []string{path}
	if s, err := config.Load(path); err == nil && s.Input != "" {
		deps, err := inputFiles(s.Input)
		if err != nil {
			return err
		}
		files = append(files, deps...)
	}

	fw, err := watcher.New(200*time.Millisecond, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	changes := make(chan string, 1)
	err = fw.Watch(files, func(changed string) {
		select {
		case changes <- changed:
		default:
		}
	})
	if err != nil {
		return err
	}

	go func() {
		if err := fw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("watcher stopped", "error", err)
		}
	}()

	fmt.Printf("Watching %d file(s), press Ctrl+C to stop\n", len(files))
	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-changes:
			fmt.Printf("\n%s changed, rerunning\n", filepath.Base(changed))
			m, err := runSession(ctx, path, logger)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			printManifest(m)
		}
	}
}

func printManifest(m *manifest) {
	fmt.Printf("Source: %s\n", m.Source)
	fmt.Printf("Cuts: %d\n", m.Cuts)
	fmt.Printf("Fragments: %d\n\n", len(m.Fragments))

	fmt.Printf("%-16s %-4s %-12s %-12s %s\n", "File", "Gen", "Area", "Volume", "ID")
	fmt.Println("--------------------------------------------------------------------------------")
	for _, e := range m.Fragments {
		fmt.Printf("%-16s %-4d %-12.6f %-12.6f %s\n", e.File, e.Generation, e.Area, e.Volume, e.ID)
	}
}
