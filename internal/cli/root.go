// internal/cli/root.go
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"pump-advisor/internal/advisor/catalog"
	"pump-advisor/internal/common/logger"
)

// App carries the streams and shared flags the pumpctl commands use.
type App struct {
	In  io.Reader
	Out io.Writer

	CatalogPath  string
	PeakSunHours float64
	LogLevel     string

	log logger.Logger
}

func NewApp() *App {
	return &App{In: os.Stdin, Out: os.Stdout}
}

// NewRootCmd creates the top-level "pumpctl" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "pumpctl",
		Short:         "Offline tools for the solar pump advisor",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.log = logger.NewStructured(logger.Options{
				Level:  app.LogLevel,
				Format: "console",
				Output: "stderr",
			})
		},
	}
	root.SetIn(app.In)
	root.SetOut(app.Out)

	root.PersistentFlags().StringVar(&app.CatalogPath, "catalog", "", "pump catalog JSON file (built-in table when empty)")
	root.PersistentFlags().Float64Var(&app.PeakSunHours, "peak-sun-hours", 0, "fallback peak sun hours")
	root.PersistentFlags().StringVar(&app.LogLevel, "log-level", "warn", "debug | info | warn | error")

	root.AddCommand(
		newSizeCmd(app),
		newCatalogCmd(app),
		newChatCmd(app),
	)
	return root
}

func (a *App) logger() logger.Logger {
	if a.log == nil {
		return logger.NewNoOpLogger()
	}
	return a.log
}

func (a *App) catalog() (*catalog.Catalog, error) {
	return catalog.Load(a.CatalogPath, false, a.logger())
}
