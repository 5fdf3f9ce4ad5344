package deckcmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const fullDocsFooter = `Environment:
  DECK_FORMAT, DECK_FAIL_FAST, DECK_LOG_LEVEL, DECK_LOG_DEV, DECK_METRICS,
  DECK_MAX_CAPACITY
  DECK_OTEL_ENDPOINT, DECK_OTEL_SAMPLE_RATE, DECK_OTEL_SERVICE_NAME
Flags take precedence over the environment.`

type flagValues struct {
	format   string
	failFast bool
	logLevel string
	dev      bool
	metrics  bool
	maxCap   int
}

func (T *flagValues) register(fs *pflag.FlagSet) {
	fs.StringVar(&T.format, "format", "text", "output format: text, json or legacy")
	fs.BoolVar(&T.failFast, "fail-fast", false, "stop at the first failed command")
	fs.StringVar(&T.logLevel, "log-level", "warn", "log level")
	fs.BoolVar(&T.dev, "dev", false, "human readable development logging")
	fs.BoolVar(&T.metrics, "metrics", false, "write metrics to stderr when done")
	fs.IntVar(&T.maxCap, "max-capacity", 1<<20, "largest deck capacity a script may ask for")
}

func newRootCmd() *cobra.Command {
	var flags flagValues
	var st state

	rootCmd := &cobra.Command{
		Use: "deck",
		Long: `
	deck drives a fixed capacity double-ended queue from a command script,
	and evaluates prefix and postfix integer expressions.
`,
		Example: `  $ printf '3\n2\npush_back 1\npush_front 2\nget_front\n' | deck run
  $ deck calc 7 2 + 4 '*' 2 +
  $ deck calc --prefix - '*' 5 8 3
  `,

		// a bad script is not a usage error
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.setup(cmd, &flags)
		},
	}
	rootCmd.SetHelpTemplate(rootCmd.HelpTemplate() + "\n" + fullDocsFooter + "\n")
	flags.register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newRunCmd(&st),
		newCalcCmd(&st),
		newCommandsCmd(),
	)
	for _, sub := range rootCmd.Commands() {
		withTeardown(sub, &st)
	}

	return rootCmd
}

// withTeardown runs teardown after cmd whether or not it failed. cobra skips the post run hooks
// once RunE returns an error.
func withTeardown(cmd *cobra.Command, st *state) {
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		return errors.Join(err, st.teardown(cmd))
	}
}
