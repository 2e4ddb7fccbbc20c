package main

import (
	"strings"

	"model-notes-be/internal/dto"
	"model-notes-be/internal/service"
	"model-notes-be/pkg/modeltype"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var syncReq dto.SyncRequest

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fill notes from Civitai descriptions",
	Long: `Look every model of the selected kinds up on Civitai by its SHA-256 and store
the description as its note. Existing notes are kept unless --overwrite is set.`,
	Run: func(cmd *cobra.Command, args []string) {
		stop := watchProgress(cmd.Context())
		res := container.SyncService.Sync(cmd.Context(), syncReq)
		stop()

		if res.Summary == service.NothingSelectedSummary {
			color.Yellow("%s", res.Summary)
			return
		}
		for _, line := range strings.Split(res.Summary, "\n") {
			color.Green("%s", line)
		}
	},
}

func kindLabels() []string {
	labels := make([]string, 0, 4)
	for _, kind := range modeltype.All() {
		labels = append(labels, kind.Label())
	}
	return labels
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringSliceVar(&syncReq.Kinds, "kinds", kindLabels(), "Model kinds to sync")
	syncCmd.Flags().BoolVar(&syncReq.Overwrite, "overwrite", false, "Replace notes that already exist")
	syncCmd.Flags().BoolVar(&syncReq.Markdown, "markdown", false, "Keep descriptions as markdown (needs MODEL_NOTE_MARKDOWN=true)")
	syncCmd.Flags().BoolVar(&syncReq.Images, "images", false, "Also download preview images")
	syncCmd.Flags().BoolVar(&syncReq.OverwriteImages, "overwrite-images", false, "Replace preview images that already exist")
}
