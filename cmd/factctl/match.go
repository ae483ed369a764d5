package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/factd/internal/extraction"
	"github.com/fyrsmithlabs/factd/internal/parser"
	"github.com/fyrsmithlabs/factd/internal/parsetree"
	"github.com/fyrsmithlabs/factd/internal/templates"
)

func matchCmd() *cobra.Command {
	var (
		templatesPath string
		parsePath     string
		text          string
		showTree      bool
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run templates against a pre-parsed document",
		Long: `Run the extraction pipeline offline on a parser response saved as JSON
({"sentences": [{"tokens": [...]}]}) and report which template decided each
group. No server or parsing service is needed.

Examples:
  factctl match --templates configs/contexts.json --parse statement.json --tree`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := templates.Load(templatesPath)
			if err != nil {
				return err
			}
			doc, err := loadDocument(parsePath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("text") {
				text = documentText(doc)
			}

			analyzer, err := extraction.NewAnalyzer(parser.Static{Doc: doc}, set.Groups(), extraction.DefaultConfig())
			if err != nil {
				return err
			}
			rec, err := analyzer.Analyze(cmd.Context(), text)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showTree {
				for i, tree := range doc {
					fmt.Fprintf(out, "sentence %d:\n%s", i, parsetree.Format(tree.Root()))
				}
			}

			line, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(line))
			for _, f := range rec.Facts {
				if f.Template == "" {
					fmt.Fprintf(out, "%s: no match\n", f.Group)
					continue
				}
				fmt.Fprintf(out, "%s: %q (template %s, sentence %d)\n", f.Group, f.Value, f.Template, f.Sentence)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&templatesPath, "templates", "configs/contexts.json", "templates file")
	f.StringVar(&parsePath, "parse", "", "parser response JSON file")
	f.StringVar(&text, "text", "", "statement text (defaults to the document tokens)")
	f.BoolVar(&showTree, "tree", false, "print the sentence trees")
	_ = cmd.MarkFlagRequired("parse")

	return cmd
}

func loadDocument(path string) (parsetree.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parse file %s: %w", path, err)
	}
	var resp parser.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("invalid parse file %s: %w", path, err)
	}
	doc, err := parsetree.DocumentFromSentences(resp.Sentences)
	if err != nil {
		return nil, fmt.Errorf("invalid parse file %s: %w", path, err)
	}
	return doc, nil
}

// documentText joins the sentence texts.
func documentText(doc parsetree.Document) string {
	texts := make([]string, len(doc))
	for i, tree := range doc {
		texts[i] = tree.Text()
	}
	return strings.Join(texts, " ")
}
