package main

import (
	"fmt"

	"model-notes-be/internal/dto"
	"model-notes-be/internal/pkg/serverutils"
	"model-notes-be/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	exportReq dto.ExportRequest
	importReq dto.ImportRequest
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write notes to files",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := serverutils.ValidateRequest(exportReq); err != nil {
			return err
		}

		stop := watchProgress(cmd.Context())
		res := container.TransferService.Export(cmd.Context(), exportReq)
		stop()

		report(res.Error, res.Summary)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Read notes back from files",
	Long: `Read one note per model from files. Formats are tried in the order given;
the first file found for a model wins. HTML files are converted to markdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := serverutils.ValidateRequest(importReq); err != nil {
			return err
		}

		stop := watchProgress(cmd.Context())
		res := container.TransferService.Import(cmd.Context(), importReq)
		stop()

		report(res.Error, res.Summary)
		return nil
	},
}

func report(failed int, summary string) {
	if failed > 0 {
		color.Yellow("%s", summary)
		return
	}
	color.Green("%s", summary)
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	formats := fmt.Sprintf("%s, %s, %s or %s", service.FormatText, service.FormatMarkdown, service.FormatHTML, service.FormatCSV)

	exportCmd.Flags().StringVar(&exportReq.Format, "format", string(service.FormatMarkdown), "File format: "+formats)
	exportCmd.Flags().StringVar(&exportReq.Destination, "destination", service.DestinationOutputDir, "Where to write: model_dir or output_dir")
	exportCmd.Flags().StringVar(&exportReq.Naming, "naming", service.NamingName, "File names: name or hash")
	exportCmd.Flags().StringVar(&exportReq.OutputDir, "output-dir", "", "Output directory; defaults to EXPORT_DIR")
	exportCmd.Flags().BoolVar(&exportReq.Overwrite, "overwrite", false, "Replace files that already exist")

	importCmd.Flags().StringSliceVar(&importReq.Formats, "formats", []string{string(service.FormatMarkdown), string(service.FormatText)}, "Formats to try, in priority order: "+formats)
	importCmd.Flags().StringVar(&importReq.Source, "source", service.DestinationOutputDir, "Where to read: model_dir or output_dir")
	importCmd.Flags().StringVar(&importReq.Naming, "naming", service.NamingName, "File names: name or hash")
	importCmd.Flags().StringVar(&importReq.InputDir, "input-dir", "", "Input directory; defaults to EXPORT_DIR")
	importCmd.Flags().BoolVar(&importReq.Overwrite, "overwrite", false, "Replace notes that already exist")
}
