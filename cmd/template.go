package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/billing-ledger/internal/xlsxexport"
	"github.com/ginjaninja78/billing-ledger/pkg/utils"
)

// templateForce is the --force flag of 'template init'.
var templateForce bool

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage the export template",
}

var templateInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter export template",
	Long: `Write a starter XLSX template holding the configured bill-to and details
labels and a styled row for product lines. The path defaults to
export.template_path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTemplateInit,
}

func runTemplateInit(cmd *cobra.Command, args []string) error {
	path := cfg.Export.TemplatePath
	if len(args) == 1 {
		path = args[0]
	}

	if utils.FileExists(path) && !templateForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	opts := xlsxexport.Options{
		DetailsLabel: cfg.Export.DetailsLabel,
		BillToLabel:  cfg.Export.BillToLabel,
	}
	if err := xlsxexport.WriteTemplate(path, opts); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func init() {
	templateInitCmd.Flags().BoolVar(&templateForce, "force", false, "Overwrite an existing file")

	templateCmd.AddCommand(templateInitCmd)
	rootCmd.AddCommand(templateCmd)
}
