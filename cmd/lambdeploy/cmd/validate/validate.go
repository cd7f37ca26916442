package validate

import (
	"context"
	"os"

	"github.com/dennishilgert/lambdeploy/internal/app/deployer/models"
	"github.com/dennishilgert/lambdeploy/pkg/logger"
	"github.com/spf13/cobra"
)

var log = logger.NewLogger("lambdeploy.cli.validate")

var Command = &cobra.Command{
	Use:   "validate",
	Short: "Validate desired state documents",
	Long:  "Load and validate desired state documents without contacting the function platform",
	Run:   run,
}

var cmdFlags = ParseFlags()

func initFlags() {
	Command.Flags().AddFlagSet(cmdFlags.FlagSet())
	Command.MarkFlagRequired("config")
}

func init() {
	initFlags()
}

func run(cobraCommand *cobra.Command, args []string) {
	logger.ReadAndApply(cobraCommand, log)
	os.Exit(processCommand(cobraCommand.Context()))
}

func processCommand(ctx context.Context) int {
	exitCode := 0
	for _, path := range cmdFlags.CommandFlags().ConfigFiles {
		state, err := models.Load(path)
		if err != nil {
			log.Error(err)
			exitCode = 1
			continue
		}
		log.Infof("%s is valid: function %s with %d event source(s) and %d permission grant(s)", path, state.FunctionName, len(state.EventSources), len(state.Permissions))
	}
	return exitCode
}
