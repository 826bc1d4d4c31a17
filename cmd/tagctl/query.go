package main

import (
	"fmt"

	gameplaytags "github.com/mkislenko/com.radiodecadance.gameplaytags"
	"github.com/mkislenko/com.radiodecadance.gameplaytags/query"
	"github.com/spf13/cobra"
)

func newQueryCmd(a *app) *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "query <expr>",
		Short: "Evaluate a tag query against a set of tags",
		Long: `Evaluate a CEL tag query with tags bound to the set given by --tags.

Examples:
  tagctl query 'tags.has("Status.Debuff")' --tags Status.Debuff.Slow,Combat.Melee
  tagctl query 'tags.hasAll(["Combat", "Status"]) && !tags.hasExact("Status.Immune")' -t Combat.Melee`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, release, err := a.openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			engine, err := query.NewEngine(reg, query.WithLogger(a.logger))
			if err != nil {
				return err
			}

			set := gameplaytags.NewSetIn(reg)
			for _, raw := range tags {
				path, err := gameplaytags.Canonicalize(raw)
				if err != nil {
					return err
				}
				set.Add(reg.ResolveID(path))
			}

			ok, err := engine.Evaluate(args[0], set)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "tags held by the set (comma separated)")
	return cmd
}
