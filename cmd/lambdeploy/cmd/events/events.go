package events

import (
	"os"

	"github.com/dennishilgert/lambdeploy/cmd/lambdeploy/cmd/events/topic"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "events",
	Short: "Manage deployment event messaging",
	Long:  "Manage the messaging system that deployment events and diagnostics are published to",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(0)
	},
}

func init() {
	Command.AddCommand(topic.Command)
}
