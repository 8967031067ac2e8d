package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillform/quillform/internal/engine"
	"github.com/quillform/quillform/internal/registry"
	"github.com/quillform/quillform/internal/schema"
)

// ExportResult is the JSON payload of the export command.
type ExportResult struct {
	Items  []engine.ExportItem      `json:"items"`
	Errors []schema.ValidationError `json:"errors,omitempty"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var answersPath string

	cmd := &cobra.Command{
		Use:   "export <forms-dir>",
		Short: "Render a response against a form",
		Long: `Compile a form document, apply an answers file, and print the
flat export items together with any validation errors.

The answers file is a JSON object of field ID to tagged answer
envelope, the same encoding used for saved drafts.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, args[0], answersPath, cmd)
		},
	}

	cmd.Flags().StringVar(&answersPath, "answers", "", "path to the answers JSON file")

	return cmd
}

func runExport(opts *RootOptions, formsDir, answersPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	form, err := loadOneForm(formatter, formsDir)
	if err != nil {
		return err
	}

	answers := schema.AnswerSet{}
	if answersPath != "" {
		payload, readErr := os.ReadFile(answersPath)
		if readErr != nil {
			formatter.Error(ErrCodeReadFailed, fmt.Sprintf("reading answers file: %v", readErr), nil)
			return NewExitError(ExitCommandError, "answers file unreadable")
		}
		if err := json.Unmarshal(payload, &answers); err != nil {
			formatter.Error(ErrCodeReadFailed, fmt.Sprintf("parsing answers file: %v", err), nil)
			return NewExitError(ExitCommandError, "answers file invalid")
		}
	}

	store := engine.NewStore(registry.New())
	store.Load(form.Fields)
	store.SetAnswers(answers)

	result := ExportResult{
		Items:  store.HydrateResponse(),
		Errors: store.Errors(),
	}

	if opts.Format == "json" {
		if err := formatter.JSON(result); err != nil {
			return err
		}
	} else {
		for _, item := range result.Items {
			fmt.Fprintf(formatter.Writer, "%s: %s\n", item.DisplayText, item.AnswerValue)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(formatter.Writer, "error: %s\n", e.String())
		}
	}

	if len(result.Errors) > 0 {
		return NewExitError(ExitFailure, "response has validation errors")
	}
	return nil
}
