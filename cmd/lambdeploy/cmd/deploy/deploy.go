package deploy

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/dennishilgert/lambdeploy/cmd/lambdeploy/config"
	"github.com/dennishilgert/lambdeploy/internal/app/deployer/models"
	"github.com/dennishilgert/lambdeploy/internal/pkg/artifact"
	"github.com/dennishilgert/lambdeploy/internal/pkg/cache"
	"github.com/dennishilgert/lambdeploy/internal/pkg/journal"
	"github.com/dennishilgert/lambdeploy/internal/pkg/platform"
	"github.com/dennishilgert/lambdeploy/internal/pkg/platform/awsplatform"
	"github.com/dennishilgert/lambdeploy/pkg/defers"
	"github.com/dennishilgert/lambdeploy/pkg/logger"
	"github.com/dennishilgert/lambdeploy/pkg/messaging/producer"
	"github.com/dennishilgert/lambdeploy/pkg/storage"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var log = logger.NewLogger("lambdeploy.cli.deploy")

var Command = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a function package",
	Long:  "Create or update functions from a package and converge their configuration, event sources and permissions to the desired state documents",
	Run:   run,
}

var cmdFlags = ParseFlags()

func initFlags() {
	Command.Flags().AddFlagSet(cmdFlags.FlagSet())
	Command.MarkFlagRequired("package")
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
	if err := cmdFlags.CommandFlags().validate(); err != nil {
		log.Error(err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cmdFlags.CommandFlags().Region != "" {
		cfg.Region = cmdFlags.CommandFlags().Region
	}
	if cmdFlags.CommandFlags().Profile != "" {
		cfg.Profile = cmdFlags.CommandFlags().Profile
	}

	states, err := loadStates(cmdFlags.CommandFlags().ConfigFiles)
	if err != nil {
		log.Error(err)
		return 1
	}

	cleanup := defers.NewDefers()
	defer cleanup.CallAll()

	env, err := setupEnvironment(ctx, cfg, cleanup)
	if err != nil {
		log.Error(err)
		return 1
	}

	group := errgroup.Group{}
	group.SetLimit(cmdFlags.CommandFlags().Parallelism)

	failedLock := sync.Mutex{}
	failed := []string{}
	for _, state := range states {
		group.Go(func() error {
			// A failed deployment does not cancel the others.
			if err := env.deploy(ctx, cmdFlags.CommandFlags().PackageRef, state); err != nil {
				log.Errorf("deployment of %s failed: %v", state.FunctionName, err)
				failedLock.Lock()
				failed = append(failed, state.FunctionName)
				failedLock.Unlock()
			}
			return nil
		})
	}
	group.Wait()

	if len(failed) > 0 {
		log.Errorf("%d of %d deployments failed: %v", len(failed), len(states), failed)
		return 1
	}
	log.Infof("%d function(s) deployed", len(states))
	return 0
}

func loadStates(paths []string) ([]*models.DesiredState, error) {
	seen := map[string]string{}
	states := make([]*models.DesiredState, 0, len(paths))
	for _, path := range paths {
		state, err := models.Load(path)
		if err != nil {
			return nil, err
		}
		// Deployments of the same function must not run concurrently.
		if other, ok := seen[state.FunctionName]; ok {
			return nil, fmt.Errorf("function %s is declared in both %s and %s", state.FunctionName, other, path)
		}
		seen[state.FunctionName] = path
		states = append(states, state)
	}
	return states, nil
}

// setupEnvironment connects to every optional backend that is configured.
func setupEnvironment(ctx context.Context, cfg *config.Config, cleanup defers.Defers) (*environment, error) {
	env := &environment{
		cfg:       cfg,
		platforms: map[models.Connection]platform.Platform{},
	}

	var storageSource artifact.Source
	if cfg.StorageEnabled() {
		storageService, err := storage.NewStorageService(storage.Options{
			Endpoint:        cfg.StorageEndpoint,
			AccessKeyId:     cfg.StorageAccessKeyId,
			SecretAccessKey: cfg.StorageSecretAccessKey,
			SessionToken:    cfg.StorageSessionToken,
			UseSsl:          cfg.StorageUseSsl,
			Region:          cfg.Region,
		})
		if err != nil {
			return nil, err
		}
		storageSource = artifact.NewStorageSource(storageService)
	}
	env.artifacts = artifact.NewResolver(artifact.NewFileSource(), storageSource)

	if cfg.MessagingEnabled() {
		producerCtx, cancel := context.WithCancel(context.Background())
		messagingProducer, err := producer.NewMessagingProducer(producerCtx, producer.Options{
			BootstrapServers: cfg.MessagingBootstrapServers,
		})
		if err != nil {
			cancel()
			return nil, err
		}
		env.producer = messagingProducer
		cleanup.Add(func() {
			if err := messagingProducer.Close(); err != nil {
				log.Warnf("failed to close messaging producer: %v", err)
			}
			cancel()
		})
	}

	if cfg.CacheEnabled() {
		cacheClient := cache.NewCacheClient(cache.Options{
			Address:  cfg.CacheAddress,
			Username: cfg.CacheUsername,
			Password: cfg.CachePassword,
			Database: cfg.CacheDatabase,
		})
		env.cache = cacheClient
		cleanup.Add(func() {
			if err := cacheClient.Close(); err != nil {
				log.Warnf("failed to close cache client: %v", err)
			}
		})
	}

	if cfg.JournalEnabled() {
		journalClient, err := journal.NewJournalClient(journal.Options{
			Host:     cfg.DatabaseHost,
			Port:     cfg.DatabasePort,
			Username: cfg.DatabaseUsername,
			Password: cfg.DatabasePassword,
			Database: cfg.DatabaseDb,
			SslMode:  cfg.DatabaseSslMode,
		})
		if err != nil {
			return nil, err
		}
		cleanup.Add(func() {
			if err := journalClient.Close(); err != nil {
				log.Warnf("failed to close journal: %v", err)
			}
		})
		if err := journalClient.Migrate(); err != nil {
			return nil, err
		}
		env.journal = journalClient
	}

	env.newPlatform = func(connection models.Connection) (platform.Platform, error) {
		return awsplatform.NewPlatformFromOptions(ctx, platformOptions(cfg, connection))
	}
	return env, nil
}

// platformOptions merges the connection overrides of a document into the configuration.
func platformOptions(cfg *config.Config, connection models.Connection) awsplatform.Options {
	opts := awsplatform.Options{
		Region:          cfg.Region,
		Profile:         cfg.Profile,
		AccessKeyId:     cfg.AccessKeyId,
		SecretAccessKey: cfg.SecretAccessKey,
		SessionToken:    cfg.SessionToken,
		HttpsProxy:      cfg.HttpsProxy,
		Endpoint:        cfg.Endpoint,
		WaitTimeout:     cfg.WaitTimeoutDuration(),
	}
	if connection.Region != "" {
		opts.Region = connection.Region
	}
	if connection.Profile != "" {
		opts.Profile = connection.Profile
	}
	if connection.AccessKeyId != "" {
		opts.AccessKeyId = connection.AccessKeyId
		opts.SecretAccessKey = connection.SecretAccessKey
		opts.SessionToken = connection.SessionToken
	}
	return opts
}
