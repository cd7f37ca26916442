package create

import (
	"github.com/dennishilgert/lambdeploy/internal/pkg/naming"
	"github.com/spf13/pflag"
)

type commandFlags struct {
	BootstrapServers string
	TopicName        string
}

type parsedFlags struct {
	cmdFlags *commandFlags
	flagSet  *pflag.FlagSet
}

func ParseFlags() *parsedFlags {
	var f commandFlags

	fs := pflag.NewFlagSet("topic-create", pflag.ExitOnError)
	fs.SortFlags = true

	fs.StringVar(&f.BootstrapServers, "bootstrap-servers", "", "Kafka bootstrap servers to connect to - optional with LAMBDEPLOY_MESSAGING_BOOTSTRAP_SERVERS set")
	fs.StringVar(&f.TopicName, "topic", naming.MessagingDeploymentEventsTopic, "Name of the topic to create")

	return &parsedFlags{
		cmdFlags: &f,
		flagSet:  fs,
	}
}

func (p *parsedFlags) CommandFlags() *commandFlags {
	return p.cmdFlags
}

func (p *parsedFlags) FlagSet() *pflag.FlagSet {
	return p.flagSet
}
