package cli

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mydungeon/pkg/catalog"
	"github.com/matzehuels/mydungeon/pkg/errors"
)

// catalogCommand creates the reference table inspection command.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the item and hissatsu tables",
	}

	cmd.AddCommand(c.catalogListCommand())
	cmd.AddCommand(c.catalogShowCommand())
	cmd.AddCommand(c.catalogColorsCommand())
	cmd.AddCommand(c.catalogBrowseCommand())

	return cmd
}

// catalogListCommand creates the "catalog list" subcommand.
func (c *CLI) catalogListCommand() *cobra.Command {
	var items bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List hissatsu moves, or items with --items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.openCatalog()
			if err != nil {
				return err
			}
			m := NewCatalogModel(cat)
			rows, extra := m.Moves, "Items"
			if items {
				rows, extra = m.Items, "Pair"
			}
			fmt.Println(entryTable(rows, extra))
			printDetail("%d rows", len(rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&items, "items", false, "list items instead of hissatsu moves")

	return cmd
}

func entryTable(rows []entry, extra string) string {
	cells := make([][]string, 0, len(rows))
	for _, e := range rows {
		cells = append(cells, []string{strconv.Itoa(e.No), e.Name, colorChip(e.Color), e.Extra})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("No", "Name", "Color", extra).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// catalogShowCommand creates the "catalog show" subcommand.
func (c *CLI) catalogShowCommand() *cobra.Command {
	var item bool

	cmd := &cobra.Command{
		Use:   "show <no>",
		Short: "Show one hissatsu move, or one item with --item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			no, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "not a number: %q", args[0])
			}
			cat, err := c.openCatalog()
			if err != nil {
				return err
			}

			var e entry
			if item {
				it, ok := cat.Item(no)
				if !ok {
					printError("No item %d", no)
					return errors.New(errors.ErrCodeNotFound, "item %d", no)
				}
				e = itemEntry(it)
			} else {
				mv, ok := cat.Move(no)
				if !ok {
					printError("No hissatsu %d", no)
					return errors.New(errors.ErrCodeNotFound, "hissatsu %d", no)
				}
				e = moveEntry(mv, cat.ItemsForMove(no))
			}

			fmt.Println(detailBoxStyle.Render(renderDetail(e)))
			printKeyValue("Color", colorChip(e.Color))
			if e.Extra != "" {
				printKeyValue("Numbers", e.Extra)
			}
			if url := catalog.ImageURL(fieldValue(e, "Image")); url != "" {
				printKeyValue("Image URL", url)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&item, "item", false, "look up an item instead of a hissatsu move")

	return cmd
}

func fieldValue(e entry, key string) string {
	for _, f := range e.Fields {
		if f[0] == key {
			return f[1]
		}
	}
	return ""
}

// catalogColorsCommand creates the "catalog colors" subcommand.
func (c *CLI) catalogColorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "colors",
		Short: "List color systems and color meanings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.openCatalog()
			if err != nil {
				return err
			}
			var system string
			for _, cm := range cat.ColorMeanings() {
				if string(cm.System) != system {
					system = string(cm.System)
					printInfo("%s %s", StyleTitle.Render(system), StyleDim.Render(cm.SystemMeaning))
				}
				if cm.Color != "" {
					printKeyValue("  "+string(cm.Color), colorChip(cm.Color)+"  "+cm.Meaning)
				}
			}
			return nil
		},
	}
}

// catalogBrowseCommand creates the interactive "catalog browse" subcommand.
func (c *CLI) catalogBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the tables interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.openCatalog()
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(NewCatalogModel(cat), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}
