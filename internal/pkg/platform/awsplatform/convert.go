package awsplatform

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/dennishilgert/lambdeploy/internal/pkg/platform"
)

const stateEnabled = "Enabled"

func fromFunctionConfiguration(config *lambdatypes.FunctionConfiguration) *platform.FunctionRecord {
	if config == nil {
		return &platform.FunctionRecord{}
	}
	return &platform.FunctionRecord{
		FunctionArn:   aws.ToString(config.FunctionArn),
		Configuration: toConfiguration(config.FunctionName, config.Description, config.Handler, config.Role, config.Timeout, config.MemorySize, config.VpcConfig, config.Environment),
		Runtime:       string(config.Runtime),
		CodeSha256:    aws.ToString(config.CodeSha256),
		Version:       aws.ToString(config.Version),
	}
}

func toConfiguration(
	name *string,
	description *string,
	handler *string,
	role *string,
	timeout *int32,
	memorySize *int32,
	vpc *lambdatypes.VpcConfigResponse,
	environment *lambdatypes.EnvironmentResponse,
) platform.FunctionConfiguration {
	config := platform.FunctionConfiguration{
		FunctionName: aws.ToString(name),
		Description:  aws.ToString(description),
		Handler:      aws.ToString(handler),
		Role:         aws.ToString(role),
		Timeout:      aws.ToInt32(timeout),
		MemorySize:   aws.ToInt32(memorySize),
	}
	if vpc != nil && (len(vpc.SubnetIds) > 0 || len(vpc.SecurityGroupIds) > 0) {
		config.Vpc = &platform.VpcConfig{
			SubnetIds:        vpc.SubnetIds,
			SecurityGroupIds: vpc.SecurityGroupIds,
		}
	}
	if environment != nil && len(environment.Variables) > 0 {
		config.Environment = environment.Variables
	}
	return config
}

func toVpcConfig(vpc *platform.VpcConfig) *lambdatypes.VpcConfig {
	if vpc == nil {
		return nil
	}
	return &lambdatypes.VpcConfig{
		SubnetIds:        vpc.SubnetIds,
		SecurityGroupIds: vpc.SecurityGroupIds,
	}
}

func toEnvironment(variables map[string]string) *lambdatypes.Environment {
	if variables == nil {
		return nil
	}
	return &lambdatypes.Environment{Variables: variables}
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return aws.String(value)
}

func optionalInt32(value int32) *int32 {
	if value == 0 {
		return nil
	}
	return aws.Int32(value)
}

func isEnabledState(state string) bool {
	return state == stateEnabled
}
