package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkforge/inkforge/pkg/diagram"
	"github.com/inkforge/inkforge/pkg/diagram/flowchart"
	"github.com/inkforge/inkforge/pkg/diagram/state"
	"github.com/inkforge/inkforge/pkg/diagram/theme"
	"github.com/inkforge/inkforge/pkg/errors"
	"github.com/inkforge/inkforge/pkg/pipeline"
	"github.com/inkforge/inkforge/pkg/render/dot"
)

// Output format constants for the render command.
const (
	formatHTML  = "html"  // embeddable container fragment (default)
	formatSVG   = "svg"   // bare SVG document
	formatDOT   = "dot"   // Graphviz DOT source (graph kinds only)
	formatGVSVG = "gvsvg" // SVG laid out by Graphviz (graph kinds only)
	formatGVPNG = "gvpng" // PNG laid out by Graphviz (graph kinds only)
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{
	formatHTML:  true,
	formatSVG:   true,
	formatDOT:   true,
	formatGVSVG: true,
	formatGVPNG: true,
}

// directive is one parsed diagram source file: a `%kind[: Title]` header
// line followed by the diagram body.
type directive struct {
	Type    string
	Title   string
	Content string
}

// parseDirective splits a diagram file into header and body.
// The first non-blank line must be `%kind` or `%kind: Title`.
func parseDirective(data string) (directive, error) {
	lines := strings.Split(data, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "%") {
			return directive{}, errors.New(errors.ErrCodeInvalidFormat,
				"missing %%kind header (got %q)", trimmed)
		}

		d := directive{Content: strings.Join(lines[i+1:], "\n")}
		header := strings.TrimPrefix(trimmed, "%")
		if colon := strings.Index(header, ":"); colon >= 0 {
			d.Type = strings.TrimSpace(header[:colon])
			d.Title = strings.TrimSpace(header[colon+1:])
		} else {
			d.Type = strings.TrimSpace(header)
		}
		return d, nil
	}
	return directive{}, errors.New(errors.ErrCodeInvalidFormat, "empty diagram file")
}

// options builds the directive's option map for the rendering engine.
func (d directive) options() map[string]string {
	if d.Title == "" {
		return nil
	}
	return map[string]string{"title": d.Title}
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path; empty writes to stdout
	format   string // output format, see format constants
	theme    string // theme TOML path
	noCache  bool
	refresh  bool
	redisURL string
}

// renderCommand creates the render command for single diagram files.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatHTML}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a diagram file to an embeddable fragment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be html, svg, dot, gvsvg, or gvpng)", opts.format)
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: html (default), svg, dot, gvsvg, gvpng")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "theme TOML file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "redis URL for a shared render cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts *renderOpts) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	d, err := parseDirective(string(data))
	if err != nil {
		return err
	}

	if isGraphvizFormat(opts.format) {
		return c.renderGraphviz(cmd, d, opts)
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

	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Type:    d.Type,
		Content: d.Content,
		Options: d.options(),
		Theme:   th,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		printWarning("%s: %s", w.Kind, w.Message)
	}

	out := result.HTML
	if opts.format == formatSVG {
		out = extractSVG(result.HTML)
	}
	if err := writeOutput(opts.output, []byte(out)); err != nil {
		return err
	}

	printStats(1, len(result.Warnings), result.CacheInfo.Hit)
	return nil
}

// renderGraphviz handles the dot/gvsvg/gvpng formats, which bypass the
// built-in layout and hand the graph to Graphviz. Only the graph kinds
// carry enough structure for this path.
func (c *CLI) renderGraphviz(cmd *cobra.Command, d directive, opts *renderOpts) error {
	kind, err := diagram.ParseKind(d.Type)
	if err != nil {
		return err
	}

	var source string
	switch kind {
	case diagram.KindFlowchart:
		source = dot.ToDOT(flowchart.Parse(d.Content, loadThemeClassifier(opts.theme)).Graph, dot.Options{})
	case diagram.KindState:
		source = dot.ToDOT(state.Parse(d.Content).Graph, dot.Options{})
	default:
		return errors.New(errors.ErrCodeUnsupported,
			"format %s only supports flowchart and state diagrams, not %s", opts.format, kind)
	}

	var out []byte
	switch opts.format {
	case formatDOT:
		out = []byte(source)
	case formatGVSVG:
		out, err = dot.RenderSVG(cmd.Context(), source)
	case formatGVPNG:
		out, err = dot.RenderPNG(cmd.Context(), source)
	}
	if err != nil {
		return err
	}
	return writeOutput(opts.output, out)
}

// loadThemeClassifier loads only the classifier from a theme path, falling
// back to defaults when the path is empty or unreadable.
func loadThemeClassifier(path string) theme.Classifier {
	th, err := loadTheme(path)
	if err != nil {
		return theme.Default().Classifier
	}
	return th.Classifier
}

func isGraphvizFormat(format string) bool {
	return format == formatDOT || format == formatGVSVG || format == formatGVPNG
}

// extractSVG returns the inline <svg> element of a container fragment.
func extractSVG(html string) string {
	start := strings.Index(html, "<svg")
	end := strings.LastIndex(html, "</svg>")
	if start < 0 || end < 0 {
		return html
	}
	return html[start : end+len("</svg>")]
}

// writeOutput writes data to path, or stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	printFile(path)
	return nil
}
