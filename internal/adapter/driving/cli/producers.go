package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diillson/agro-console/internal/application/usecase"
	"github.com/diillson/agro-console/internal/domain/entity"
	"github.com/diillson/agro-console/internal/shared/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func (app *CLIApp) newProducersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "producers",
		Aliases: []string{"producer", "p"},
		Short:   "Manage producers",
	}
	cmd.AddCommand(
		app.newProducersListCmd(),
		app.newProducersShowCmd(),
		app.newProducersCreateCmd(),
		app.newProducersEditCmd(),
		app.newProducersDeleteCmd(),
		app.newProducersExportCmd(),
		app.newProducersImportCmd(),
	)
	return cmd
}

func addReportFlags(cmd *cobra.Command, defaultName string, defaultTypes []string) {
	cmd.Flags().StringP("report-name", "n", defaultName, "Specify the base name for the report file (without extension)")
	cmd.Flags().StringSliceP("report-type", "y", defaultTypes, "Specify report types: csv, json, xlsx, pdf")
}

func reportArgs(cmd *cobra.Command, services *Services) types.ReportArgs {
	name, _ := cmd.Flags().GetString("report-name")
	reportTypes, _ := cmd.Flags().GetStringSlice("report-type")
	return types.ReportArgs{ReportName: name, ReportType: reportTypes, Dir: reportDir(services)}
}

func (app *CLIApp) newProducersListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List producers (optionally exporting them with --report-name)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := app.servicesFor(cmd)
			if err != nil {
				return err
			}
			return services.Producers.RunList(cmd.Context(), reportArgs(cmd, services))
		},
	}
	addReportFlags(cmd, "", []string{"csv"})
	return cmd
}

func (app *CLIApp) newProducersExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export producers to csv, json, xlsx or pdf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := app.servicesFor(cmd)
			if err != nil {
				return err
			}
			return services.Producers.RunList(cmd.Context(), reportArgs(cmd, services))
		},
	}
	addReportFlags(cmd, "producers", []string{"csv", "json", "xlsx", "pdf"})
	return cmd
}

func (app *CLIApp) newProducersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a producer and its cultures",
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
			return services.Producers.RunShow(cmd.Context(), id)
		},
	}
}

func (app *CLIApp) newProducersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a producer",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			services, err := app.servicesFor(cmd)
			if err != nil {
				return err
			}
			return services.Producers.RunDelete(cmd.Context(), id)
		},
	}
}

func (app *CLIApp) newProducersImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE.xlsx",
		Short: "Create producers from a spreadsheet (one producer per row)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := app.servicesFor(cmd)
			if err != nil {
				return err
			}
			summary, err := services.Producers.RunImport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(summary.Failed) > 0 {
				return fmt.Errorf("%d row(s) could not be imported", len(summary.Failed))
			}
			return nil
		},
	}
}

// addFieldFlags registra as flags dos campos do formulário de produtor.
func addFieldFlags(flags *pflag.FlagSet, withCPF bool) {
	if withCPF {
		flags.String("cpf-cnpj", "", "CPF (11 digits) or CNPJ (14 digits); punctuation is ignored")
	}
	flags.String("name", "", "Producer name")
	flags.String("farm-name", "", "Farm name")
	flags.String("city", "", "City")
	flags.String("state", "", "State (UF)")
	flags.Float64("total-area", 0, "Total area in hectares")
	flags.Float64("agricultural-area", 0, "Agricultural area in hectares")
	flags.Float64("vegetation-area", 0, "Vegetation area in hectares")
	flags.StringArray("culture", nil, `Culture as "CROP_YEAR:NAME", e.g. "2024:Soja" (repeatable)`)
}

// applyFieldFlags copia para o formulário apenas as flags informadas.
func applyFieldFlags(flags *pflag.FlagSet, form *usecase.ProducerForm) {
	f := &form.Fields
	strs := map[string]*string{
		"cpf-cnpj":  &f.CPFCNPJ,
		"name":      &f.Name,
		"farm-name": &f.FarmName,
		"city":      &f.City,
		"state":     &f.State,
	}
	for name, dst := range strs {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	nums := map[string]*float64{
		"total-area":        &f.TotalArea,
		"agricultural-area": &f.AgriculturalArea,
		"vegetation-area":   &f.VegetationArea,
	}
	for name, dst := range nums {
		if flags.Changed(name) {
			*dst, _ = flags.GetFloat64(name)
		}
	}
}

// parseCulture lê "2024:Soja". Sem ":" o valor inteiro vira o nome e a
// validação do formulário acusa a safra ausente.
func parseCulture(v string) entity.CultureCreate {
	year, name, ok := strings.Cut(v, ":")
	if !ok {
		return entity.CultureCreate{Name: strings.TrimSpace(v)}
	}
	return entity.CultureCreate{CropYear: strings.TrimSpace(year), Name: strings.TrimSpace(name)}
}

func (app *CLIApp) newProducersCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a producer with its cultures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := app.servicesFor(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			form := services.Forms.NewForm()
			applyFieldFlags(cmd.Flags(), form)
			cultures, _ := cmd.Flags().GetStringArray("culture")
			for _, c := range cultures {
				if err := services.Forms.AddCulture(ctx, form, parseCulture(c)); err != nil {
					app.console.LogError("%s", form.Error)
					return err
				}
			}

			_, err = services.Producers.RunSubmit(ctx, form)
			return err
		},
	}
	addFieldFlags(cmd.Flags(), true)
	return cmd
}

func (app *CLIApp) newProducersEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Update a producer, add cultures and remove cultures by ID",
		Long: `Update a producer. Only the flags given are changed; CPF/CNPJ is read-only.
--culture adds a culture right away; --remove-culture queues a culture for
removal, applied after the producer is saved.`,
		Args: cobra.ExactArgs(1),
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
			applyFieldFlags(cmd.Flags(), form)

			cultures, _ := cmd.Flags().GetStringArray("culture")
			for _, c := range cultures {
				if err := services.Forms.AddCulture(ctx, form, parseCulture(c)); err != nil {
					app.console.LogError("%s", form.Error)
					return err
				}
				app.console.LogSuccess("%s", usecase.MsgCultureAdded)
			}

			remove, _ := cmd.Flags().GetInt64Slice("remove-culture")
			if err := app.queueRemovals(services, form, remove); err != nil {
				return err
			}

			_, err = services.Producers.RunSubmit(ctx, form)
			return err
		},
	}
	addFieldFlags(cmd.Flags(), false)
	cmd.Flags().Int64Slice("remove-culture", nil, "ID of a culture to remove (repeatable or comma-separated)")
	return cmd
}

// queueRemovals confirma e enfileira cada cultura para remoção.
func (app *CLIApp) queueRemovals(services *Services, form *usecase.ProducerForm, ids []int64) error {
	for _, cultureID := range ids {
		idx := form.CultureIndex(cultureID)
		if idx < 0 {
			app.console.LogError("Culture %d not found for producer %d.", cultureID, form.ProducerID)
			return fmt.Errorf("%w: culture %d", types.ErrNotFound, cultureID)
		}
		if !app.console.Confirm(usecase.CultureRemovalQuestion(form.Cultures[idx], form.EditMode)) {
			app.console.LogWarning("Culture %d kept.", cultureID)
			continue
		}
		if _, err := services.Forms.RemoveCulture(form, idx); err != nil {
			return err
		}
		app.console.LogInfo("%s", usecase.MsgCultureQueued)
	}
	return nil
}

func parseID(v string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", v)
	}
	return id, nil
}
