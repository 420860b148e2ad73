package cli

import (
	"image"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mydungeon/pkg/classify"
	"github.com/matzehuels/mydungeon/pkg/errors"
	"github.com/matzehuels/mydungeon/pkg/layout"
	"github.com/matzehuels/mydungeon/pkg/render"
)

type layoutOpts struct {
	numbers []int
	with    []int
	name    string
	output  string
	asJSON  bool
}

// layoutCommand creates the offline layout command. It skips fetching and
// storage, which makes it useful for checking table edits and fonts.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Lay out and render known numbers without fetching",
		Long: `Layout resolves a number sequence you already have against the tables
and renders it to a PNG file, or prints the computed block positions as
JSON. With --with the numbers are treated as the first person of a
compatibility diagnosis.`,
		Example: `  mydungeon layout --numbers 1,8,42 -o single.png
  mydungeon layout --numbers 1,2,6 --with 8,5 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntSliceVar(&opts.numbers, "numbers", nil, "comma-separated numbers")
	cmd.Flags().IntSliceVar(&opts.with, "with", nil, "second person's numbers (compatibility layout)")
	cmd.Flags().StringVar(&opts.name, "name", "", "name shown in the header")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "layout.png", "output PNG file")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print block positions instead of rendering")
	cmd.MarkFlagRequired("numbers")

	return cmd
}

func (c *CLI) runLayout(w io.Writer, opts layoutOpts) error {
	cat, err := c.openCatalog()
	if err != nil {
		return err
	}
	engine := layout.New(c.Logger)
	cls := classify.New(cat, c.Logger)

	var (
		result any
		draw   func(*render.Renderer) (image.Image, error)
		blocks int
	)
	if len(opts.with) > 0 {
		rows := cls.Categorize(opts.numbers, opts.with).Rows()
		l := engine.Compat(rows, layout.DefaultCompat())
		result, blocks = l, len(l.Blocks())
		draw = func(r *render.Renderer) (image.Image, error) {
			return r.RenderCompat(l, render.CompatHeader{Person1: render.Header{Name: opts.name}})
		}
	} else {
		items := cat.ItemsByNumbers(opts.numbers)
		l := engine.Single(items, cls.DetectMoves(opts.numbers), layout.DefaultSingle())
		result, blocks = l, len(l.Blocks())
		draw = func(r *render.Renderer) (image.Image, error) {
			return r.RenderSingle(l, render.Header{Name: opts.name})
		}
		if missing := len(opts.numbers) - len(items); missing > 0 {
			printWarning("%d numbers have no item", missing)
		}
	}

	if opts.asJSON {
		return writeJSON(w, result)
	}

	prog := newProgress(c.Logger)
	r, err := c.newRenderer()
	if err != nil {
		return err
	}
	img, err := draw(r)
	if err != nil {
		return err
	}
	data, err := render.EncodePNG(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStorageFailed, err, "write %s", opts.output)
	}

	prog.done("Rendered " + opts.output)
	printSuccess("Rendered %d blocks (%dx%d)", blocks, img.Bounds().Dx(), img.Bounds().Dy())
	printFile(opts.output)
	return nil
}
