package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/factd/internal/templates"
)

func templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Work with templates files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Load and build a templates file",
		Long: `Load a JSON or YAML templates file, build every template and print a
summary. Configuration errors name the group, template and node.

Examples:
  factctl templates validate configs/contexts.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := templates.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, g := range set.Groups() {
				names := make([]string, len(g.Templates))
				for i, t := range g.Templates {
					names[i] = t.Name()
				}
				fmt.Fprintf(out, "%s: %d templates (%s)\n", g.Name, len(g.Templates), strings.Join(names, ", "))
			}
			fmt.Fprintf(out, "OK: %d groups, %d templates\n", len(set.Names()), set.TemplateCount())
			return nil
		},
	})
	return cmd
}
