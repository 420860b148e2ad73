package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mydungeon/pkg/catalog"
	"github.com/matzehuels/mydungeon/pkg/pipeline"
)

// diagnoseCommand creates the single-person diagnose command.
func (c *CLI) diagnoseCommand() *cobra.Command {
	var (
		req    pipeline.DiagnoseRequest
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Diagnose one birth date and time",
		Long: `Diagnose fetches the numbers for a birth date and time, resolves the items
and hissatsu moves they activate, and saves the result image to the
configured store.`,
		Example: `  mydungeon diagnose --date 1991-09-16 --time 13:50 --name 太郎
  mydungeon diagnose --date 1991-09-16 --time 13:50 --json > result.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDiagnose(cmd.Context(), cmd.OutOrStdout(), req, asJSON)
		},
	}

	cmd.Flags().StringVar(&req.Birthdate, "date", "", "birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Birthtime, "time", "", "birth time (HH:MM)")
	cmd.Flags().StringVar(&req.Name, "name", "", "name shown in the image header")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full response as JSON")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("time")

	return cmd
}

func (c *CLI) runDiagnose(ctx context.Context, w io.Writer, req pipeline.DiagnoseRequest, asJSON bool) error {
	// Reject bad input before a browser is launched.
	if err := req.Validate(); err != nil {
		return err
	}
	runner, cs, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer cs.close()

	var resp *pipeline.DiagnoseResponse
	err = withSpinner(ctx, fmt.Sprintf("Diagnosing %s %s", req.Birthdate, req.Birthtime), func() (string, error) {
		r, err := runner.Diagnose(ctx, req)
		if err != nil {
			return "", err
		}
		resp = r
		if asJSON {
			return "", nil
		}
		return fmt.Sprintf("Diagnosed %d numbers", len(resp.Numbers)), nil
	})
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(w, resp)
	}
	printDiagnosis(resp)
	return nil
}

func printDiagnosis(resp *pipeline.DiagnoseResponse) {
	title := resp.Birthdate + " " + resp.Birthtime
	if resp.Name != "" {
		title = resp.Name + " (" + title + ")"
	}
	fmt.Println(StyleTitle.Render(title))
	printFile(resp.ImagePath)
	fmt.Println()

	if len(resp.Numbers) == 0 {
		printWarning("No numbers were found; the source page may have changed")
	}
	printKeyValue("Numbers", formatNumbers(resp.Numbers, highlightOf(resp.HissatsuNumbers, styleActive)))
	printKeyValue("Items", strconv.Itoa(resp.ItemCount))
	printKeyValue("Hissatsu", strconv.Itoa(resp.HissatsuCount))
	for _, h := range resp.Hissatsus {
		pair := resp.HissatsuPairs[h.MoveNo]
		printDetail("No.%d %s  %s  (%d + %d)", h.MoveNo, h.Name, colorChip(h.Color), pair[0], pair[1])
	}
	printColorCounts(resp.ColorCounts)
	printDetail("fetch %s · render %s · store %s", resp.Stats.FetchTime.Round(time.Millisecond), resp.Stats.RenderTime.Round(time.Millisecond), resp.Stats.StoreTime.Round(time.Millisecond))
	fmt.Println()
	printNextStep("Browse results in a browser", appName+" serve")
}

func printColorCounts(cc catalog.ColorCounts) {
	for _, sys := range cc.ColorSystems {
		chips := make([]string, 0, len(sys.Colors))
		for _, col := range sys.Colors {
			chips = append(chips, fmt.Sprintf("%s×%d", colorChip(col.Name), col.Count))
		}
		printKeyValue(string(sys.Name), fmt.Sprintf("%d  %s", sys.TotalCount, strings.Join(chips, "  ")))
	}
}

// writeJSON writes v indented, leaving Japanese text and "×" unescaped.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// moveLine formats moves as "No.1 スター, No.6 エロ".
func moveLine(moves []pipeline.MoveView) string {
	if len(moves) == 0 {
		return StyleDim.Render("-")
	}
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = fmt.Sprintf("No.%d %s", m.MoveNo, m.Name)
	}
	return strings.Join(parts, ", ")
}
