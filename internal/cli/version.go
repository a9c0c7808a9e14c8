package cli

import (
	"fmt"
	"runtime/debug"

	httpDelivery "github.com/labelwise/backend/internal/delivery/http"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "labelwise %s", httpDelivery.Version)
			if info, ok := debug.ReadBuildInfo(); ok {
				for _, setting := range info.Settings {
					if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
						fmt.Fprintf(out, " (%s)", setting.Value[:7])
					}
				}
			}
			fmt.Fprintln(out)
		},
	}
}
