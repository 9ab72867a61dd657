package cli

import (
	"github.com/diillson/agro-console/internal/application/usecase"
	"github.com/spf13/cobra"
)

func (app *CLIApp) newCulturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cultures",
		Aliases: []string{"culture", "c"},
		Short:   "Add or remove a producer's cultures",
	}
	cmd.AddCommand(app.newCulturesAddCmd(), app.newCulturesRemoveCmd())
	return cmd
}

func (app *CLIApp) newCulturesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add PRODUCER_ID",
		Short: "Add a culture to an existing producer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			services, err := app.servicesFor(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			form, err := services.Forms.LoadForm(ctx, id)
			if err != nil {
				app.console.LogError("%s", form.Error)
				return err
			}
			year, _ := cmd.Flags().GetString("crop-year")
			name, _ := cmd.Flags().GetString("name")
			in := parseCulture(year + ":" + name)
			if err := services.Forms.AddCulture(ctx, form, in); err != nil {
				app.console.LogError("%s", form.Error)
				return err
			}
			app.console.LogSuccess("%s", usecase.MsgCultureAdded)
			return nil
		},
	}
	cmd.Flags().String("crop-year", "", "Crop year, e.g. 2024")
	cmd.Flags().String("name", "", "Culture name, e.g. Soja")
	return cmd
}

func (app *CLIApp) newCulturesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove PRODUCER_ID CULTURE_ID",
		Aliases: []string{"rm"},
		Short:   "Remove a culture from a producer (saves the producer, then deletes the culture)",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cultureID, err := parseID(args[1])
			if err != nil {
				return err
			}
			services, err := app.servicesFor(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			form, err := services.Forms.LoadForm(ctx, id)
			if err != nil {
				app.console.LogError("%s", form.Error)
				return err
			}
			if err := app.queueRemovals(services, form, []int64{cultureID}); err != nil {
				return err
			}
			if len(form.CulturesToDelete) == 0 {
				return nil
			}
			_, err = services.Producers.RunSubmit(ctx, form)
			return err
		},
	}
}
