package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillform/quillform/internal/compiler"
	"github.com/quillform/quillform/internal/registry"
)

// ValidationResult holds validation results for one forms directory.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
	Warnings []compiler.CycleWarning    `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <forms-dir>",
		Short: "Validate authored form documents",
		Long: `Validate CUE form documents: compile, check structural rules
(unique IDs, known field types, resolvable rule targets), and report
rule-dependency cycles as warnings.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, formsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadForms(formsDir)
	if loadResult == nil && len(loadErrors) > 0 {
		if loadErr, ok := loadErrors[0].(*LoadError); ok {
			formatter.Error(loadErr.Code, loadErr.Message, nil)
		} else {
			formatter.Error(ErrCodeGeneric, loadErrors[0].Error(), nil)
		}
		return NewExitError(ExitCommandError, "load failed")
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, formsDir)

	result := ValidationResult{Valid: true}
	for _, err := range loadErrors {
		result.Valid = false
		if loadErr, ok := err.(*LoadError); ok {
			result.Errors = append(result.Errors, compiler.ValidationError{
				Field:   "load",
				Message: loadErr.Message,
				Code:    loadErr.Code,
			})
		}
	}

	reg := registry.New()
	for _, form := range loadResult.Forms {
		formatter.VerboseLog("Validating form: %s", form.Title)
		if errs := compiler.Validate(form.Fields, reg); len(errs) > 0 {
			result.Valid = false
			result.Errors = append(result.Errors, errs...)
		}
		result.Warnings = append(result.Warnings, compiler.AnalyzeCycles(form.Fields)...)
	}

	if opts.Format == "json" {
		if err := formatter.JSON(result); err != nil {
			return err
		}
	} else {
		for _, e := range result.Errors {
			fmt.Fprintln(formatter.Writer, e.Error())
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(formatter.Writer, "warning: %s\n", w.Message)
		}
		if result.Valid {
			fmt.Fprintf(formatter.Writer, "OK: %d form(s) valid\n", len(loadResult.Forms))
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}
