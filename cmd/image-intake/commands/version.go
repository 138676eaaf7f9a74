package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	imageintake "github.com/menta2k/image-intake"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "image-intake %s\n", imageintake.GetVersion())
			return nil
		},
	}
}
