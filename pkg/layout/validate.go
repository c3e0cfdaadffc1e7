package layout

import (
	"go.uber.org/multierr"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

// Validate checks the structure of a node sequence: names are non-empty and
// unique, no node is its own parent, and every parent is declared before
// its children. All problems are reported together.
func Validate(nodes []Node) error {
	var errs error
	seen := make(map[string]bool, len(nodes))
	for i, n := range nodes {
		if err := errors.ValidateNodeName(n.Name); err != nil {
			errs = multierr.Append(errs, errors.Wrap(errors.ErrCodeInvalidNode, err, "node #%d", i))
			continue
		}
		if seen[n.Name] {
			errs = multierr.Append(errs, errors.New(errors.ErrCodeInvalidNode, "duplicate node name %q", n.Name))
		}
		switch {
		case n.Parent == "":
		case n.Parent == n.Name:
			errs = multierr.Append(errs, errors.New(errors.ErrCodeInvalidNode, "node %q is its own parent", n.Name))
		case !seen[n.Parent]:
			errs = multierr.Append(errs, errors.New(errors.ErrCodeUnresolvedParent, "node %q names parent %q which is not declared before it", n.Name, n.Parent))
		}
		if n.Display > Absolute {
			errs = multierr.Append(errs, errors.New(errors.ErrCodeInvalidDisplay, "node %q has unknown display mode %d", n.Name, uint8(n.Display)))
		}
		if n.Flex > FlexDynamic {
			errs = multierr.Append(errs, errors.New(errors.ErrCodeInvalidFlexRole, "node %q has unknown flex role %d", n.Name, uint8(n.Flex)))
		}
		seen[n.Name] = true
	}
	if errs == nil {
		return nil
	}
	problems := multierr.Errors(errs)
	if len(problems) == 1 {
		return problems[0]
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, errs, "%d problems in node sequence", len(problems))
}
