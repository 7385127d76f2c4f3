// internal/cli/catalog_cmd.go
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pump-advisor/internal/advisor/catalog"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect pump catalogs",
	}
	cmd.AddCommand(
		newCatalogListCmd(app),
		newCatalogValidateCmd(app),
	)
	return cmd
}

func newCatalogListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the models of the active catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := app.catalog()
			if err != nil {
				return err
			}
			return printCatalog(app, cat)
		},
	}
}

func newCatalogValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%s: %d models OK\n", args[0], len(cat.Models()))
			return nil
		},
	}
}

func printCatalog(app *App, cat *catalog.Catalog) error {
	w := tabwriter.NewWriter(app.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "MODEL\tSTAGES\tVOLTS\tWATTS\tMAX FLOW\tMAX HEAD\n")
	for _, m := range cat.Models() {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.1f\t%.0f\n", m.Name, m.Stages, m.Voltage, m.PowerDraw(), m.MaxFlow, m.MaxHead)
	}
	if cat.Degraded() {
		fmt.Fprintf(w, "(degraded catalog)\n")
	}
	return w.Flush()
}
