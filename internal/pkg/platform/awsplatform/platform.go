package awsplatform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/smithy-go"
	"github.com/dennishilgert/lambdeploy/internal/pkg/platform"
	"github.com/dennishilgert/lambdeploy/pkg/logger"
)

var log = logger.NewLogger("lambdeploy.platform.aws")

// LambdaApi is the part of the lambda client the platform uses.
type LambdaApi interface {
	GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error)
	CreateFunction(ctx context.Context, params *lambda.CreateFunctionInput, optFns ...func(*lambda.Options)) (*lambda.CreateFunctionOutput, error)
	UpdateFunctionCode(ctx context.Context, params *lambda.UpdateFunctionCodeInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionCodeOutput, error)
	UpdateFunctionConfiguration(ctx context.Context, params *lambda.UpdateFunctionConfigurationInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionConfigurationOutput, error)
	ListEventSourceMappings(ctx context.Context, params *lambda.ListEventSourceMappingsInput, optFns ...func(*lambda.Options)) (*lambda.ListEventSourceMappingsOutput, error)
	CreateEventSourceMapping(ctx context.Context, params *lambda.CreateEventSourceMappingInput, optFns ...func(*lambda.Options)) (*lambda.CreateEventSourceMappingOutput, error)
	UpdateEventSourceMapping(ctx context.Context, params *lambda.UpdateEventSourceMappingInput, optFns ...func(*lambda.Options)) (*lambda.UpdateEventSourceMappingOutput, error)
	AddPermission(ctx context.Context, params *lambda.AddPermissionInput, optFns ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error)
}

// SnsApi is the part of the sns client the platform uses.
type SnsApi interface {
	Subscribe(ctx context.Context, params *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error)
}

type awsPlatform struct {
	lambdaClient LambdaApi
	snsClient    SnsApi
	waitTimeout  time.Duration
}

// NewPlatform creates a platform backed by the given clients.
func NewPlatform(lambdaClient LambdaApi, snsClient SnsApi, waitTimeout time.Duration) platform.Platform {
	return &awsPlatform{
		lambdaClient: lambdaClient,
		snsClient:    snsClient,
		waitTimeout:  waitTimeout,
	}
}

// GetFunction returns the function record.
func (p *awsPlatform) GetFunction(ctx context.Context, name string) (*platform.FunctionRecord, error) {
	out, err := p.lambdaClient.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(name),
	})
	if err != nil {
		return nil, classifyError("GetFunction", err)
	}
	record := fromFunctionConfiguration(out.Configuration)
	if out.Code != nil {
		record.CodeLocation = aws.ToString(out.Code.Location)
	}
	return record, nil
}

// CreateFunction creates the function with inline zip code.
func (p *awsPlatform) CreateFunction(ctx context.Context, spec *platform.FunctionSpec) (*platform.FunctionRecord, error) {
	input := &lambda.CreateFunctionInput{
		FunctionName: aws.String(spec.FunctionName),
		Role:         aws.String(spec.Role),
		Handler:      aws.String(spec.Handler),
		Runtime:      lambdatypes.Runtime(spec.Runtime),
		PackageType:  lambdatypes.PackageTypeZip,
		Code:         &lambdatypes.FunctionCode{ZipFile: spec.Code},
		Publish:      spec.Publish,
		Description:  optionalString(spec.Description),
		Timeout:      optionalInt32(spec.Timeout),
		MemorySize:   optionalInt32(spec.MemorySize),
		VpcConfig:    toVpcConfig(spec.Vpc),
		Environment:  toEnvironment(spec.Environment),
	}
	out, err := p.lambdaClient.CreateFunction(ctx, input)
	if err != nil {
		return nil, classifyError("CreateFunction", err)
	}
	record := &platform.FunctionRecord{
		FunctionArn:   aws.ToString(out.FunctionArn),
		Configuration: toConfiguration(out.FunctionName, out.Description, out.Handler, out.Role, out.Timeout, out.MemorySize, out.VpcConfig, out.Environment),
		Runtime:       string(out.Runtime),
		CodeSha256:    aws.ToString(out.CodeSha256),
		Version:       aws.ToString(out.Version),
	}
	if p.waitTimeout > 0 {
		log.Debugf("waiting for function to become active: %s", spec.FunctionName)
		waiter := lambda.NewFunctionActiveV2Waiter(p.lambdaClient)
		if err := waiter.Wait(ctx, &lambda.GetFunctionInput{FunctionName: aws.String(spec.FunctionName)}, p.waitTimeout); err != nil {
			// The function exists from here on, so the record is returned with the error.
			return record, fmt.Errorf("%w: function %s did not become active: %w", platform.ErrNotReady, spec.FunctionName, err)
		}
	}
	return record, nil
}

// UpdateFunctionCode replaces the zip code of the function.
func (p *awsPlatform) UpdateFunctionCode(ctx context.Context, name string, code []byte, publish bool) (*platform.FunctionRecord, error) {
	out, err := p.lambdaClient.UpdateFunctionCode(ctx, &lambda.UpdateFunctionCodeInput{
		FunctionName: aws.String(name),
		ZipFile:      code,
		Publish:      publish,
	})
	if err != nil {
		return nil, classifyError("UpdateFunctionCode", err)
	}
	record := &platform.FunctionRecord{
		FunctionArn:   aws.ToString(out.FunctionArn),
		Configuration: toConfiguration(out.FunctionName, out.Description, out.Handler, out.Role, out.Timeout, out.MemorySize, out.VpcConfig, out.Environment),
		Runtime:       string(out.Runtime),
		CodeSha256:    aws.ToString(out.CodeSha256),
		Version:       aws.ToString(out.Version),
	}
	return record, p.waitUpdated(ctx, name)
}

// UpdateFunctionConfiguration overwrites the configuration fields that are set.
func (p *awsPlatform) UpdateFunctionConfiguration(ctx context.Context, config *platform.FunctionConfiguration) (*platform.FunctionRecord, error) {
	out, err := p.lambdaClient.UpdateFunctionConfiguration(ctx, &lambda.UpdateFunctionConfigurationInput{
		FunctionName: aws.String(config.FunctionName),
		Description:  optionalString(config.Description),
		Handler:      optionalString(config.Handler),
		Role:         optionalString(config.Role),
		Timeout:      optionalInt32(config.Timeout),
		MemorySize:   optionalInt32(config.MemorySize),
		VpcConfig:    toVpcConfig(config.Vpc),
		Environment:  toEnvironment(config.Environment),
	})
	if err != nil {
		return nil, classifyError("UpdateFunctionConfiguration", err)
	}
	record := &platform.FunctionRecord{
		FunctionArn:   aws.ToString(out.FunctionArn),
		Configuration: toConfiguration(out.FunctionName, out.Description, out.Handler, out.Role, out.Timeout, out.MemorySize, out.VpcConfig, out.Environment),
		Runtime:       string(out.Runtime),
		CodeSha256:    aws.ToString(out.CodeSha256),
		Version:       aws.ToString(out.Version),
	}
	return record, p.waitUpdated(ctx, config.FunctionName)
}

// ListEventSourceMappings lists all pages of mappings of the function for the source.
func (p *awsPlatform) ListEventSourceMappings(ctx context.Context, functionName string, sourceArn string) ([]platform.EventSourceMapping, error) {
	paginator := lambda.NewListEventSourceMappingsPaginator(p.lambdaClient, &lambda.ListEventSourceMappingsInput{
		FunctionName:   aws.String(functionName),
		EventSourceArn: aws.String(sourceArn),
	})

	mappings := []platform.EventSourceMapping{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyError("ListEventSourceMappings", err)
		}
		for _, mapping := range page.EventSourceMappings {
			mappings = append(mappings, platform.EventSourceMapping{
				Uuid:             aws.ToString(mapping.UUID),
				FunctionArn:      aws.ToString(mapping.FunctionArn),
				EventSourceArn:   aws.ToString(mapping.EventSourceArn),
				BatchSize:        aws.ToInt32(mapping.BatchSize),
				Enabled:          isEnabledState(aws.ToString(mapping.State)),
				StartingPosition: string(mapping.StartingPosition),
				State:            aws.ToString(mapping.State),
			})
		}
	}
	return mappings, nil
}

// CreateEventSourceMapping creates a mapping between the source and the function.
func (p *awsPlatform) CreateEventSourceMapping(ctx context.Context, spec *platform.EventSourceMappingSpec) (*platform.EventSourceMapping, error) {
	out, err := p.lambdaClient.CreateEventSourceMapping(ctx, &lambda.CreateEventSourceMappingInput{
		FunctionName:     aws.String(spec.FunctionName),
		EventSourceArn:   aws.String(spec.EventSourceArn),
		BatchSize:        optionalInt32(spec.BatchSize),
		StartingPosition: lambdatypes.EventSourcePosition(spec.StartingPosition),
		Enabled:          spec.Enabled,
	})
	if err != nil {
		return nil, classifyError("CreateEventSourceMapping", err)
	}
	return &platform.EventSourceMapping{
		Uuid:             aws.ToString(out.UUID),
		FunctionArn:      aws.ToString(out.FunctionArn),
		EventSourceArn:   aws.ToString(out.EventSourceArn),
		BatchSize:        aws.ToInt32(out.BatchSize),
		Enabled:          isEnabledState(aws.ToString(out.State)),
		StartingPosition: string(out.StartingPosition),
		State:            aws.ToString(out.State),
	}, nil
}

// UpdateEventSourceMapping updates the batch size and the enabled flag of the mapping.
func (p *awsPlatform) UpdateEventSourceMapping(ctx context.Context, mappingUuid string, batchSize int32, enabled *bool) error {
	_, err := p.lambdaClient.UpdateEventSourceMapping(ctx, &lambda.UpdateEventSourceMappingInput{
		UUID:      aws.String(mappingUuid),
		BatchSize: optionalInt32(batchSize),
		Enabled:   enabled,
	})
	if err != nil {
		return classifyError("UpdateEventSourceMapping", err)
	}
	return nil
}

// AddPermission adds the statement to the resource policy of the function.
func (p *awsPlatform) AddPermission(ctx context.Context, permission *platform.Permission) error {
	_, err := p.lambdaClient.AddPermission(ctx, &lambda.AddPermissionInput{
		FunctionName: aws.String(permission.FunctionName),
		Action:       aws.String(permission.Action),
		Principal:    aws.String(permission.Principal),
		StatementId:  aws.String(permission.StatementId),
		SourceArn:    optionalString(permission.SourceArn),
	})
	if err != nil {
		return classifyError("AddPermission", err)
	}
	return nil
}

// Subscribe subscribes the endpoint to the topic.
func (p *awsPlatform) Subscribe(ctx context.Context, topicArn string, protocol string, endpoint string) error {
	out, err := p.snsClient.Subscribe(ctx, &sns.SubscribeInput{
		TopicArn:              aws.String(topicArn),
		Protocol:              aws.String(protocol),
		Endpoint:              aws.String(endpoint),
		ReturnSubscriptionArn: true,
	})
	if err != nil {
		return classifyError("Subscribe", err)
	}
	log.Debugf("subscription created: %s", aws.ToString(out.SubscriptionArn))
	return nil
}

func (p *awsPlatform) waitUpdated(ctx context.Context, name string) error {
	if p.waitTimeout <= 0 {
		return nil
	}
	log.Debugf("waiting for function update to complete: %s", name)
	waiter := lambda.NewFunctionUpdatedV2Waiter(p.lambdaClient)
	if err := waiter.Wait(ctx, &lambda.GetFunctionInput{FunctionName: aws.String(name)}, p.waitTimeout); err != nil {
		return fmt.Errorf("%w: update of function %s did not complete: %w", platform.ErrNotReady, name, err)
	}
	return nil
}

// classifyError converts a client error into a platform error carrying the status code.
func classifyError(operation string, err error) error {
	var notFound *lambdatypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return platform.NewNotFoundError(operation, err)
	}

	statusErr := &platform.StatusError{
		Operation: operation,
		Err:       err,
	}
	var responseErr *awshttp.ResponseError
	if errors.As(err, &responseErr) {
		statusErr.StatusCode = responseErr.HTTPStatusCode()
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		statusErr.Code = apiErr.ErrorCode()
	}
	if statusErr.StatusCode == 0 && statusErr.Code == "" {
		// No response was received.
		return fmt.Errorf("%s failed: %w", operation, err)
	}
	return statusErr
}
