package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mydungeon/pkg/pipeline"
	"github.com/matzehuels/mydungeon/pkg/render"
)

// compatCommand creates the two-person compatibility command.
func (c *CLI) compatCommand() *cobra.Command {
	var (
		req    pipeline.CompatibilityRequest
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "compat",
		Aliases: []string{"compatibility"},
		Short:   "Compare the hissatsu moves of two people",
		Long: `Compat fetches both number sequences concurrently and sorts the hissatsu
moves they form together into four categories: moves only the pair can
trigger, moves one person triggers with synergy from the other (both
directions), and moves both people trigger on their own.`,
		Example: `  mydungeon compat --date1 1991-09-16 --time1 13:50 --date2 1993-04-01 --time2 08:05`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompat(cmd.Context(), cmd.OutOrStdout(), req, asJSON)
		},
	}

	cmd.Flags().StringVar(&req.Person1Birthdate, "date1", "", "first person's birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Person1Birthtime, "time1", "", "first person's birth time (HH:MM)")
	cmd.Flags().StringVar(&req.Person1Name, "name1", "", "first person's name")
	cmd.Flags().StringVar(&req.Person2Birthdate, "date2", "", "second person's birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Person2Birthtime, "time2", "", "second person's birth time (HH:MM)")
	cmd.Flags().StringVar(&req.Person2Name, "name2", "", "second person's name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full response as JSON")
	for _, f := range []string{"date1", "time1", "date2", "time2"} {
		cmd.MarkFlagRequired(f)
	}

	return cmd
}

func (c *CLI) runCompat(ctx context.Context, w io.Writer, req pipeline.CompatibilityRequest, asJSON bool) error {
	if err := req.Validate(); err != nil {
		return err
	}
	runner, cs, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer cs.close()

	var resp *pipeline.CompatibilityResponse
	err = withSpinner(ctx, "Diagnosing compatibility", func() (string, error) {
		r, err := runner.Compatibility(ctx, req)
		if err != nil {
			return "", err
		}
		resp = r
		if asJSON {
			return "", nil
		}
		return fmt.Sprintf("Found %d joint hissatsus", len(resp.JointHissatsus)), nil
	})
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(w, resp)
	}
	printCompat(resp)
	return nil
}

func printCompat(resp *pipeline.CompatibilityResponse) {
	h := render.CompatHeader{
		Person1: render.Header{Name: resp.Person1.Name},
		Person2: render.Header{Name: resp.Person2.Name},
	}
	n1, n2 := h.Names()
	fmt.Println(StyleTitle.Render(n1 + " × " + n2))
	printFile(resp.ImagePath)
	fmt.Println()

	labels := h.Labels()
	rows := [4][]pipeline.MoveView{
		resp.JointHissatsus,
		resp.Person1SynergyHissatsus,
		resp.Person2SynergyHissatsus,
		resp.BothHaveHissatsus,
	}
	for i, row := range rows {
		printInfo("%s", labels[i])
		printDetail("%s", moveLine(row))
	}
	fmt.Println()

	for _, p := range []struct {
		name string
		res  pipeline.PersonResult
	}{{n1, resp.Person1}, {n2, resp.Person2}} {
		printKeyValue(p.name, formatNumbers(p.res.Numbers,
			highlightOf(p.res.Joint, styleJoint),
			highlightOf(p.res.Person1Synergy, styleSynergy1),
			highlightOf(p.res.Person2Synergy, styleSynergy2),
			highlightOf(p.res.BothHave, styleBothHave),
			highlightOf(p.res.Solo, styleSolo)))
		printDetail("solo: %s", moveLine(p.res.SoloHissatsus))
	}
	fmt.Println()
	printColorCounts(resp.ColorCounts)
	fmt.Println()
	printNextStep("Browse results in a browser", appName+" serve")
}
