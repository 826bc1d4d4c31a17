package main

import (
	"fmt"
	"io"
	"strings"

	gameplaytags "github.com/mkislenko/com.radiodecadance.gameplaytags"
	"github.com/spf13/cobra"
)

func newTreeCmd(a *app) *cobra.Command {
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the tag hierarchy",
		Long: `Print every tag as an indented tree. Tags that were not listed by the
source but exist as parents of listed tags are marked with *.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, release, err := a.openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			for _, root := range reg.Roots() {
				printTree(cmd.OutOrStdout(), reg, root, 0, showIDs)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showIDs, "ids", false, "show tag IDs")
	return cmd
}

func printTree(w io.Writer, reg *gameplaytags.Registry, id gameplaytags.ID, depth int, showIDs bool) {
	name, _ := reg.ResolveName(id)
	line := strings.Repeat("  ", depth) + gameplaytags.LeafName(name)
	if !reg.IsExplicit(id) {
		line += " *"
	}
	if showIDs {
		line += fmt.Sprintf(" (%d)", id.Raw())
	}
	fmt.Fprintln(w, line)

	for _, child := range reg.Children(id) {
		printTree(w, reg, child, depth+1, showIDs)
	}
}
