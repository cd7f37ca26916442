package topic

import (
	"os"

	"github.com/dennishilgert/lambdeploy/cmd/lambdeploy/cmd/events/topic/create"
	"github.com/dennishilgert/lambdeploy/cmd/lambdeploy/cmd/events/topic/remove"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "topic",
	Short: "Manage the deployment events topic on the bootstrap servers",
	Long:  "",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(0)
	},
}

func init() {
	Command.AddCommand(create.Command)
	Command.AddCommand(remove.Command)
}
