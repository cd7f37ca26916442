package awsplatform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/dennishilgert/lambdeploy/internal/pkg/platform"
)

type Options struct {
	Region          string
	Profile         string
	AccessKeyId     string
	SecretAccessKey string
	SessionToken    string
	HttpsProxy      string
	Endpoint        string

	// WaitTimeout bounds the time to wait for the function to become ready
	// after a create or update. Zero disables waiting.
	WaitTimeout time.Duration
}

// NewPlatformFromOptions resolves credentials, region and transport once and
// returns a ready to use platform.
func NewPlatformFromOptions(ctx context.Context, opts Options) (platform.Platform, error) {
	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}

	lambdaClient := lambda.NewFromConfig(cfg, func(o *lambda.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})
	snsClient := sns.NewFromConfig(cfg, func(o *sns.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return NewPlatform(lambdaClient, snsClient, opts.WaitTimeout), nil
}

func loadConfig(ctx context.Context, opts Options) (aws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	if opts.AccessKeyId != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyId, opts.SecretAccessKey, opts.SessionToken),
		))
	}
	if opts.HttpsProxy != "" {
		proxyUrl, err := url.Parse(opts.HttpsProxy)
		if err != nil {
			return aws.Config{}, fmt.Errorf("failed to parse proxy url: %w", err)
		}
		httpClient := awshttp.NewBuildableClient().WithTransportOptions(func(tr *http.Transport) {
			tr.Proxy = http.ProxyURL(proxyUrl)
		})
		loadOpts = append(loadOpts, config.WithHTTPClient(httpClient))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws configuration: %w", err)
	}
	return cfg, nil
}
