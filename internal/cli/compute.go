package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gal0-avrd/LongD-Arc/internal/arclength"
	"github.com/Gal0-avrd/LongD-Arc/internal/symbolic"
)

func newComputeCmd() *cobra.Command {
	var (
		function string
		a, b     string
		asJSON   bool
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute one arc length and print the working",
		Example: `  arclength compute --function "x^2" --a 0 --b 1
  arclength compute --function "cosh(t)" --a -1 --b 1 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			calc := arclength.NewCalculator(symbolic.NewEngine(), arclength.WithTimeout(timeout))
			res, err := calc.Compute(cmd.Context(), arclength.Request{
				Function:   function,
				LowerBound: a,
				UpperBound: b,
			})
			if err != nil {
				return userError{err}
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&function, "function", "f", "", "function of one variable, e.g. \"x^2\"")
	cmd.Flags().StringVar(&a, "a", "", "lower bound")
	cmd.Flags().StringVar(&b, "b", "", "upper bound")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", arclength.DefaultTimeout, "integration time limit")
	_ = cmd.MarkFlagRequired("function")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}

func printResult(w io.Writer, res *arclength.Result) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", res.Display); err != nil {
		return err
	}
	for i, step := range res.Steps {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, step); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nL = %s\n  ≈ %s\n", res.Exact, strconv.FormatFloat(res.Numeric, 'g', -1, 64))
	return err
}
