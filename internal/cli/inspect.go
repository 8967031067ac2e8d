package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillform/quillform/internal/compiler"
	"github.com/quillform/quillform/internal/engine"
	"github.com/quillform/quillform/internal/schema"
)

// InspectResult is the JSON payload of the inspect command.
type InspectResult struct {
	Title  string        `json:"title,omitempty"`
	Fields int           `json:"fields"`
	Roots  []string      `json:"roots"`
	Index  *schema.Index `json:"index"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <forms-dir>",
		Short: "Print the normalized index of a form",
		Long: `Compile a form document and print its normalized index: every
field with its parent, children, and sibling position.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runInspect(opts *RootOptions, formsDir string, cmd *cobra.Command) error {
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

	idx := engine.Normalize(form.Fields)

	if opts.Format == "json" {
		return formatter.JSON(InspectResult{
			Title:  form.Title,
			Fields: idx.Len(),
			Roots:  idx.RootIDs,
			Index:  idx,
		})
	}

	if form.Title != "" {
		fmt.Fprintf(formatter.Writer, "%s\n\n", form.Title)
	}
	printLevel(formatter, idx, idx.RootIDs, 0)
	fmt.Fprintf(formatter.Writer, "\n%d field(s)\n", idx.Len())
	return nil
}

func printLevel(formatter *OutputFormatter, idx *schema.Index, ids []string, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, id := range ids {
		n := idx.Node(id)
		if n == nil {
			continue
		}
		label := n.Field.Label
		if label != "" {
			label = fmt.Sprintf(" %q", label)
		}
		fmt.Fprintf(formatter.Writer, "%s[%d] %s (%s)%s\n", indent, n.Index, id, n.Field.Type, label)
		if len(n.ChildIDs) > 0 {
			printLevel(formatter, idx, n.ChildIDs, depth+1)
		}
	}
}

// loadOneForm loads a directory expected to hold exactly one form.
func loadOneForm(formatter *OutputFormatter, formsDir string) (*compiler.Form, error) {
	loadResult, loadErrors := LoadForms(formsDir)
	if loadResult == nil || len(loadResult.Forms) == 0 {
		msg := "no forms found"
		code := ErrCodeGeneric
		if len(loadErrors) > 0 {
			if loadErr, ok := loadErrors[0].(*LoadError); ok {
				msg, code = loadErr.Message, loadErr.Code
			} else {
				msg = loadErrors[0].Error()
			}
		}
		formatter.Error(code, msg, nil)
		return nil, NewExitError(ExitCommandError, "load failed")
	}
	return &loadResult.Forms[0], nil
}
