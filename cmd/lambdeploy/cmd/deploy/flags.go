package deploy

import (
	"fmt"

	"github.com/spf13/pflag"
)

type commandFlags struct {
	PackageRef  string
	ConfigFiles []string
	Region      string
	Profile     string
	Parallelism int
}

type parsedFlags struct {
	cmdFlags *commandFlags
	flagSet  *pflag.FlagSet
}

func ParseFlags() *parsedFlags {
	var f commandFlags

	fs := pflag.NewFlagSet("deploy", pflag.ExitOnError)
	fs.SortFlags = true

	fs.StringVar(&f.PackageRef, "package", "", "Deployment package to upload, a local path or s3://bucket/object")
	fs.StringSliceVar(&f.ConfigFiles, "config", nil, "Desired state document of a function, repeat the flag to deploy several functions")
	fs.StringVar(&f.Region, "region", "", "Region of the function platform - overrides LAMBDEPLOY_REGION")
	fs.StringVar(&f.Profile, "profile", "", "Shared credentials profile - overrides LAMBDEPLOY_PROFILE")
	fs.IntVar(&f.Parallelism, "parallelism", 4, "Maximum number of functions deployed at the same time")

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

// validate rejects flag values that cannot be used to run deployments.
func (f *commandFlags) validate() error {
	if f.Parallelism < 1 {
		return fmt.Errorf("invalid value for --parallelism: %d, at least one deployment must run at a time", f.Parallelism)
	}
	return nil
}
