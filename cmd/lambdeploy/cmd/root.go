package cmd

import (
	"os"

	"github.com/dennishilgert/lambdeploy/cmd/lambdeploy/cmd/deploy"
	"github.com/dennishilgert/lambdeploy/cmd/lambdeploy/cmd/events"
	"github.com/dennishilgert/lambdeploy/cmd/lambdeploy/cmd/history"
	"github.com/dennishilgert/lambdeploy/cmd/lambdeploy/cmd/validate"
	"github.com/dennishilgert/lambdeploy/pkg/logger"
	"github.com/dennishilgert/lambdeploy/pkg/signals"
	"github.com/spf13/cobra"
)

var log = logger.NewLogger("lambdeploy.cli")

var rootCommand = &cobra.Command{
	Use:     "lambdeploy",
	Short:   "Deploy serverless functions",
	Long:    "Converge a serverless function, its event sources and its permissions to a desired state",
	Version: logger.LambdeployVersion,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(0)
	},
}

var logFlags = logger.ParseFlags()

func initFlags() {
	rootCommand.PersistentFlags().AddFlagSet(logFlags.FlagSet())
}

func init() {
	initFlags()

	rootCommand.AddCommand(deploy.Command)
	rootCommand.AddCommand(validate.Command)
	rootCommand.AddCommand(history.Command)
	rootCommand.AddCommand(events.Command)
}

func Run() {
	if err := rootCommand.ExecuteContext(signals.Context()); err != nil {
		log.Fatal(err)
	}
}
