package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dgallion1/html2md/internal/convert"
	"github.com/dgallion1/html2md/internal/htmldom"
	"github.com/dgallion1/html2md/internal/mdast"
	"github.com/dgallion1/html2md/internal/parser"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"
)

func newConvertCmd(opts *options) *cobra.Command {
	var (
		format    string
		selector  string
		pdftotext bool
	)
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Print the AST of a document",
		Long: `Convert parses a document and prints its CommonMark AST. Without a file
argument HTML is read from stdin. The parser is chosen by file extension.

Examples:
  html2ast convert index.html
  curl -s https://example.com | html2ast convert --selector main --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "xml" && format != "json" {
				return fmt.Errorf("invalid --format %q (want xml or json)", format)
			}
			if selector != "" {
				if err := htmldom.ValidateSelector(selector); err != nil {
					return err
				}
			}

			start := time.Now()
			doc, err := readDocument(cmd.InOrStdin(), args, parser.Options{PDFFallback: pdftotext})
			if err != nil {
				return err
			}
			ast, err := convert.NewConverter(selector, opts.log).Convert(doc)
			if err != nil {
				return err
			}
			opts.log.Debug("converted", "nodes", ast.Count(), "duration", time.Since(start))

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(ast)
			}
			return mdast.RenderXML(out, ast)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "xml", "Output format: xml or json")
	cmd.Flags().StringVarP(&selector, "selector", "s", "body", "CSS selector of the content root")
	cmd.Flags().BoolVar(&pdftotext, "pdftotext", true, "Fall back to pdftotext for unreadable PDFs")
	return cmd
}

func readDocument(stdin io.Reader, args []string, po parser.Options) (*html.Node, error) {
	if len(args) == 0 {
		doc, err := html.Parse(stdin)
		if err != nil {
			return nil, fmt.Errorf("parse stdin: %w", err)
		}
		return doc, nil
	}

	path := args[0]
	p, err := po.ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Parse(f, path)
}
