package main

import (
	"fmt"
	"strconv"

	gameplaytags "github.com/mkislenko/com.radiodecadance.gameplaytags"
	"github.com/spf13/cobra"
)

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id|name>...",
		Short: "Translate between tag IDs and names",
		Long: `Resolve numeric IDs to tag names and tag names to IDs using the loaded
tag universe. Unknown IDs print as #<id>; unknown names print "unknown".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, release, err := a.openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			out := cmd.OutOrStdout()
			for _, arg := range args {
				if raw, err := strconv.ParseUint(arg, 10, 32); err == nil {
					fmt.Fprintf(out, "%s\t%s\n", arg, reg.Display(gameplaytags.FromRawID(uint32(raw))))
					continue
				}
				if id, ok := reg.Request(arg); ok {
					fmt.Fprintf(out, "%s\t%d\n", arg, id.Raw())
					continue
				}
				fmt.Fprintf(out, "%s\tunknown\n", arg)
			}
			return nil
		},
	}
}
