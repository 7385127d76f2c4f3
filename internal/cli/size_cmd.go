// internal/cli/size_cmd.go
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pump-advisor/internal/advisor/sizing"
	"pump-advisor/internal/models"
)

func newSizeCmd(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "size",
		Short: "Size a system from intake data JSON",
		Long:  "Reads collected intake data as JSON from --file or stdin and prints the recommendation.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = app.In
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			var data models.CollectedData
			if err := json.NewDecoder(r).Decode(&data); err != nil {
				return fmt.Errorf("decode intake data: %w", err)
			}
			data.Recommendation = nil

			cat, err := app.catalog()
			if err != nil {
				return err
			}
			rec := sizing.Compute(data, cat, sizing.Options{PeakSunHours: app.PeakSunHours})

			enc := json.NewEncoder(app.Out)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "intake data JSON file")
	return cmd
}
