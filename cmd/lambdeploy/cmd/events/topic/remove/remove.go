package remove

import (
	"context"
	"os"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/dennishilgert/lambdeploy/pkg/logger"
	"github.com/dennishilgert/lambdeploy/pkg/messaging"
	"github.com/dennishilgert/lambdeploy/pkg/utils"
	"github.com/spf13/cobra"
)

var log = logger.NewLogger("lambdeploy.cli.events.topic.delete")

var Command = &cobra.Command{
	Use:   "delete",
	Short: "Delete the deployment events topic",
	Long:  "",
	Run:   run,
}

var cmdFlags = ParseFlags()

func initFlags() {
	Command.Flags().AddFlagSet(cmdFlags.FlagSet())
}

func init() {
	initFlags()
}

func run(cobraCommand *cobra.Command, args []string) {
	logger.ReadAndApply(cobraCommand, log)
	os.Exit(processCommand(cobraCommand.Context()))
}

func processCommand(ctx context.Context) int {
	bootstrapServers := cmdFlags.CommandFlags().BootstrapServers
	if bootstrapServers == "" {
		bootstrapServers = utils.GetEnvOrElse("LAMBDEPLOY_MESSAGING_BOOTSTRAP_SERVERS", "")
	}
	if bootstrapServers == "" {
		log.Fatalf("neither bootstrap servers flag nor env variable LAMBDEPLOY_MESSAGING_BOOTSTRAP_SERVERS is set")
	}

	adminClient, err := messaging.GetDefaultAdminClient(bootstrapServers)
	if err != nil {
		log.Fatalf("failed to get default admin client: %v", err)
	}
	defer adminClient.Close()

	result, err := messaging.DeleteTopic(ctx, adminClient, log, cmdFlags.CommandFlags().TopicName)
	if err != nil {
		log.Errorf("failed to delete topic: %s - reason: %v", cmdFlags.CommandFlags().TopicName, err)
		return 1
	}
	if result.Error.Code() != kafka.ErrNoError {
		log.Errorf("failed to delete topic: %s - reason: %v", result.Topic, result.Error)
		return 1
	}

	log.Infof("topic deleted successfully: %s", result.Topic)
	return 0
}
