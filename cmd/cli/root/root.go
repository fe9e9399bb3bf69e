package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:   "giftreg",
	Short: "Gift Registry CLI",
	Long:  "Command line interface for interacting with the Gift Registry API",
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// GetRoot returns the root command so subcommand packages can attach to it.
func GetRoot() *cobra.Command {
	return RootCmd
}
