package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/pipeline"
)

// pagesCommand creates the pages command.
func (c *CLI) pagesCommand() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "pages [plan.json]",
		Short: "Browse the pages of a plan",
		Long: `Browse the pages of a plan written by "plan".

The browser is interactive on a terminal. Use --list, or redirect the
output, to print the page table instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(args[0])
			if err != nil {
				return err
			}
			if list || !isatty.IsTerminal(os.Stdout.Fd()) {
				fmt.Println(StyleTitle.Render(NewPageListModel(plan).Title))
				fmt.Println(pagesTable(planEntries(plan), -1).Render())
				printDetail("%d pages on %s", plan.PageCount(), plan.Paper)
				return nil
			}
			_, err = tea.NewProgram(NewPageListModel(plan)).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "print the page table instead of browsing")

	return cmd
}

// loadPlan reads a plan file.
func loadPlan(path string) (*pipeline.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "plan %s", path)
		}
		return nil, err
	}
	defer f.Close()
	plan, err := pipeline.ReadPlan(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read plan %s", path)
	}
	return plan, nil
}
