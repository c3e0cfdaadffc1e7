package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/matzehuels/stacklayout/pkg/errors"
	lio "github.com/matzehuels/stacklayout/pkg/io"
	"github.com/matzehuels/stacklayout/pkg/layout"
)

// validateCommand checks a document's structure without resolving it.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a layout document for structural errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := lio.ImportDocument(args[0])
			if err != nil {
				return err
			}
			nodes := doc.Nodes()

			var all []error
			if err := layout.Validate(nodes); err != nil {
				all = append(all, problems(err)...)
			}
			if _, err := doc.Registry(); err != nil {
				all = append(all, err)
			}
			out := newPrinter(cmd.OutOrStdout())
			if len(all) > 0 {
				for _, e := range all {
					out.error("%v", e)
				}
				return fmt.Errorf("%s: %d problem(s)", args[0], len(all))
			}

			out.success("%s is valid", filepath.Base(args[0]))
			out.detail("%d nodes", len(nodes))
			return nil
		},
	}
}

// problems splits an aggregated validation error into its parts.
func problems(err error) []error {
	var e *errors.Error
	if errors.As(err, &e) && e.Cause != nil {
		if errs := multierr.Errors(e.Cause); len(errs) > 1 {
			return errs
		}
	}
	return multierr.Errors(err)
}
