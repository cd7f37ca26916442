package history

import "github.com/spf13/pflag"

type commandFlags struct {
	FunctionName   string
	DeploymentUuid string
	Limit          int
}

type parsedFlags struct {
	cmdFlags *commandFlags
	flagSet  *pflag.FlagSet
}

func ParseFlags() *parsedFlags {
	var f commandFlags

	fs := pflag.NewFlagSet("history", pflag.ExitOnError)
	fs.SortFlags = true

	fs.StringVar(&f.FunctionName, "function", "", "Name of the function")
	fs.StringVar(&f.DeploymentUuid, "uuid", "", "Uuid of a single deployment to show")
	fs.IntVar(&f.Limit, "limit", 10, "Maximum number of deployments to list, 0 lists all")

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
