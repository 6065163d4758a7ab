// Package cli holds the cobra commands of the arclength binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/Gal0-avrd/LongD-Arc/internal/arclength"
)

// NewRootCommand builds the command tree. Errors are returned, not printed.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "arclength",
		Short:         "Arc length of single-variable functions, with symbolic working",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newComputeCmd())
	return root
}

// userError shows the localized message of a computation failure while
// keeping the original error for errors.Is.
type userError struct{ err error }

func (e userError) Error() string { return arclength.UserMessage(e.err) }
func (e userError) Unwrap() error { return e.err }
