package main

import (
	"fmt"

	"model-notes-be/pkg/modeltype"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var noteMarkdown bool

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Read or write a single note",
}

var noteGetCmd = &cobra.Command{
	Use:   "get <type> <name>",
	Short: "Print the note of a model",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(container.NoteService.GetNoteByName(cmd.Context(), modeltype.Match(args[0]), args[1]))
	},
}

var noteSetCmd = &cobra.Command{
	Use:   "set <type> <name> <note>",
	Short: "Replace the note of a model",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := modeltype.Match(args[0])
		if !container.NoteService.SetNoteByName(cmd.Context(), kind, args[1], args[2]) {
			return fmt.Errorf("no %s named %q", kind.Label(), args[1])
		}
		color.Green("Saved note for %s %s", kind.Label(), args[1])
		return nil
	},
}

var noteDescribeCmd = &cobra.Command{
	Use:   "describe <type> <name>",
	Short: "Print the Civitai description of a model without saving it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := container.NoteService.DescribeByName(cmd.Context(), modeltype.Match(args[0]), args[1], noteMarkdown && cfg.Notes.Markdown)
		if description == "" {
			return fmt.Errorf("no Civitai description found for %q", args[1])
		}
		fmt.Println(description)
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list <type>",
	Short: "List the non-empty notes of one model kind",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, item := range container.NoteService.ListNotes(cmd.Context(), modeltype.Match(args[0])) {
			color.Cyan("%s", item.ModelHash)
			fmt.Println(item.Note)
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteGetCmd, noteSetCmd, noteDescribeCmd, noteListCmd)

	noteDescribeCmd.Flags().BoolVar(&noteMarkdown, "markdown", false, "Convert HTML descriptions to markdown")
}
