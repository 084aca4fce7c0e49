// Command html2ast converts HTML and other documents into a CommonMark AST.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type options struct {
	verbose bool
	log     *slog.Logger
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "html2ast",
		Short: "Convert HTML documents into CommonMark ASTs",
		Long: `html2ast parses an HTML document (or a Markdown, text, CSV, PDF or DOCX
file) and prints the CommonMark AST of its content as XML or JSON.

Usage:
  html2ast convert page.html --format json
  html2ast roundtrip README.md`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(newConvertCmd(opts), newRoundtripCmd(opts))
	return root
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
