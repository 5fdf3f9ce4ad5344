package deckcmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"gfx.cafe/gfx/deck/lib/deck"
)

func newRunCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "run [script]",
		Short: "Runs a command script against a fresh deck",
		Long: `Reads the command count, the deck capacity and then one command per line
from the script file, or stdin when no file (or "-") is given. Every value a
command produces is printed on its own line in the order the commands were
issued.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			return deck.NewSession(st.conf, st.log).Execute(cmd.Context(), in, cmd.OutOrStdout())
		},
	}
}
