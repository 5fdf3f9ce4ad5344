package deckcmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gfx.cafe/gfx/deck/lib/calc"
)

func newCalcCmd(st *state) *cobra.Command {
	var prefix bool

	cmd := &cobra.Command{
		Use:   "calc [expression...]",
		Short: "Evaluates a postfix (or prefix) integer expression",
		Long: `Evaluates the expression given as arguments, or every non blank line of stdin
when no arguments are given. Operators are + - * and /, where / rounds toward
negative infinity.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			notation := calc.Postfix
			if prefix {
				notation = calc.Prefix
			}

			eval := func(expr string) error {
				v, err := calc.Eval(notation, expr)
				if err != nil {
					st.log.Debug("evaluation failed",
						zap.String("notation", string(notation)),
						zap.String("expression", expr),
						zap.Error(err))
					return fmt.Errorf("%q: %w", expr, err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
				return err
			}

			if len(args) != 0 {
				return eval(strings.Join(args, " "))
			}

			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				if strings.TrimSpace(sc.Text()) == "" {
					continue
				}
				if err := eval(sc.Text()); err != nil {
					return err
				}
			}
			return sc.Err()
		},
	}
	cmd.Flags().BoolVar(&prefix, "prefix", false, "read the expression in prefix (Polish) notation")

	return cmd
}
