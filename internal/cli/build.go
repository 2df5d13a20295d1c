package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/inkforge/inkforge/pkg/diagram/theme"
	"github.com/inkforge/inkforge/pkg/pipeline"
)

// diagramExt is the extension of diagram source files picked up by build.
const diagramExt = ".diag"

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	outDir   string
	theme    string
	workers  int
	noCache  bool
	refresh  bool
	redisURL string
}

// buildCommand creates the build command: render every diagram file under a
// directory into HTML fragments, in parallel.
//
// Each occurrence is an independent pure transform, so the build is an
// embarrassingly parallel map over the source files. One malformed diagram
// is reported and skipped; it never aborts its siblings.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{workers: 4}

	cmd := &cobra.Command{
		Use:   "build [dir]",
		Short: "Render all diagram files under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.workers < 1 {
				return fmt.Errorf("workers must be at least 1, got %d", opts.workers)
			}
			return c.runBuild(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory (default: alongside sources)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "theme TOML file")
	cmd.Flags().IntVarP(&opts.workers, "workers", "j", opts.workers, "number of parallel render workers")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "redis URL for a shared render cache")

	return cmd
}

// buildResult is one file's outcome, collected for the final report.
type buildResult struct {
	path     string
	outPath  string
	warnings int
	cached   bool
	err      error
}

func (c *CLI) runBuild(cmd *cobra.Command, dir string, opts *buildOpts) error {
	sources, err := findDiagramFiles(dir)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		printInfo("No %s files under %s", diagramExt, dir)
		return nil
	}

	th, err := loadTheme(opts.theme)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(cmd, opts.noCache, opts.redisURL)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Rendering %d diagrams...", len(sources)))
	spinner.Start()
	prog := newProgress(c.Logger)

	jobs := make(chan string)
	results := make(chan buildResult, len(sources))

	var wg sync.WaitGroup
	for w := 0; w < opts.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- c.buildOne(cmd.Context(), runner, th, path, opts)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range sources {
			select {
			case jobs <- path:
			case <-cmd.Context().Done():
				return
			}
		}
	}()

	wg.Wait()
	close(results)
	spinner.Stop()

	if err := cmd.Context().Err(); err != nil {
		return err
	}

	rendered, cached, warned, failed := 0, 0, 0, 0
	for res := range results {
		switch {
		case res.err != nil:
			failed++
			printError("%s: %v", res.path, res.err)
		default:
			rendered++
			if res.cached {
				cached++
			}
			warned += res.warnings
			printFile(res.outPath)
		}
	}

	prog.done(fmt.Sprintf("Rendered %d diagrams (%d cached)", rendered, cached))
	printStats(rendered, warned, cached == rendered && rendered > 0)
	if failed > 0 {
		return fmt.Errorf("%d of %d diagrams failed", failed, len(sources))
	}
	return nil
}

// buildOne renders a single source file and writes the fragment next to it
// (or under the --out directory, mirroring the source name).
func (c *CLI) buildOne(ctx context.Context, runner *pipeline.Runner, th *theme.Theme, path string, opts *buildOpts) buildResult {
	res := buildResult{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.err = err
		return res
	}
	d, err := parseDirective(string(data))
	if err != nil {
		res.err = err
		return res
	}

	result, err := runner.Execute(ctx, pipeline.Options{
		Type:    d.Type,
		Content: d.Content,
		Options: d.options(),
		Theme:   th,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	})
	if err != nil {
		res.err = err
		return res
	}

	res.outPath = fragmentPath(path, opts.outDir)
	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0755); err != nil {
			res.err = err
			return res
		}
	}
	if err := os.WriteFile(res.outPath, []byte(result.HTML), 0644); err != nil {
		res.err = err
		return res
	}

	res.warnings = len(result.Warnings)
	res.cached = result.CacheInfo.Hit
	return res
}

// findDiagramFiles walks dir collecting diagram sources in a stable order.
func findDiagramFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, diagramExt) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// fragmentPath maps a source path to its output fragment path.
func fragmentPath(src, outDir string) string {
	name := strings.TrimSuffix(filepath.Base(src), diagramExt) + ".html"
	if outDir == "" {
		return filepath.Join(filepath.Dir(src), name)
	}
	return filepath.Join(outDir, name)
}
