package cli

import (
	"github.com/spf13/cobra"
)

func (app *CLIApp) newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the producers summary as charts (bar, pie and doughnut)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := app.servicesFor(cmd)
			if err != nil {
				return err
			}
			return services.Dashboard.RunDashboard(cmd.Context(), reportArgs(cmd, services))
		},
	}
	cmd.Flags().StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	cmd.Flags().StringSliceP("report-type", "y", []string{"pdf"}, "Specify report types: pdf, json")
	return cmd
}
