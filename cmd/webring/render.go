package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/webring/internal/app"
	"github.com/MrSnakeDoc/webring/internal/widget"
)

var renderOpts struct {
	page            string
	out             string
	categories      string
	color           string
	backgroundColor string
	source          string
	maxLinks        string
	border          string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Mount the widget into a static HTML page",
	Long: `render reads an HTML page, boots the widget on it the way a browser would
and writes the resulting page. Attributes are read from the page's widget.js
script tag; flags override them.`,
	Example: `  webring render --page index.html --out dist/index.html
  webring render --page index.html --categories '["art","music"]' --max-links 6`,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderOpts.page, "page", "-", "Input HTML page (- for stdin)")
	f.StringVar(&renderOpts.out, "out", "-", "Output file (- for stdout)")
	f.StringVar(&renderOpts.categories, "categories", "", "Overrides data-categories")
	f.StringVar(&renderOpts.color, "color", "", "Overrides data-color")
	f.StringVar(&renderOpts.backgroundColor, "background-color", "", "Overrides data-background-color")
	f.StringVar(&renderOpts.source, "source", "", "Overrides data-source")
	f.StringVar(&renderOpts.maxLinks, "max-links", "", "Overrides data-max-links")
	f.StringVar(&renderOpts.border, "border", "", "Overrides data-border")
}

// renderOverrides returns the attributes of the flags that were set.
func renderOverrides(cmd *cobra.Command) widget.MapAttributes {
	flags := map[string]string{
		"categories":       widget.AttrCategories,
		"color":            widget.AttrColor,
		"background-color": widget.AttrBackgroundColor,
		"source":           widget.AttrSource,
		"max-links":        widget.AttrMaxLinks,
		"border":           widget.AttrBorder,
	}

	attrs := widget.MapAttributes{}
	for flag, attr := range flags {
		if cmd.Flags().Changed(flag) {
			attrs[attr] = cmd.Flags().Lookup(flag).Value.String()
		}
	}
	return attrs
}

func runRender(cmd *cobra.Command, args []string) (err error) {
	var in io.Reader = cmd.InOrStdin()
	if renderOpts.page != "-" {
		f, err := os.Open(renderOpts.page)
		if err != nil {
			return fmt.Errorf("failed to open page: %w", err)
		}
		defer f.Close()
		in = f
	}

	var out io.Writer = cmd.OutOrStdout()
	if renderOpts.out != "-" {
		f, err := os.Create(renderOpts.out)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output: %w", cerr)
			}
		}()
		out = f
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
	defer cancel()

	return app.RenderPage(ctx, cfg, loggerClient, in, out, renderOverrides(cmd))
}
