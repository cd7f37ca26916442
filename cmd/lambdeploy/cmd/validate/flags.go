package validate

import "github.com/spf13/pflag"

type commandFlags struct {
	ConfigFiles []string
}

type parsedFlags struct {
	cmdFlags *commandFlags
	flagSet  *pflag.FlagSet
}

func ParseFlags() *parsedFlags {
	var f commandFlags

	fs := pflag.NewFlagSet("validate", pflag.ExitOnError)
	fs.SortFlags = true

	fs.StringSliceVar(&f.ConfigFiles, "config", nil, "Desired state document to validate, repeat the flag to validate several documents")

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
