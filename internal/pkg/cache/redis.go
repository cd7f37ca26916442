package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dennishilgert/lambdeploy/internal/pkg/naming"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when another holder owns the deployment lock of a function.
var ErrLockHeld = errors.New("deployment lock is held by another process")

// releaseScript deletes the lock only if it is still owned by the holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Options struct {
	Address  string
	Username string
	Password string
	Database int
}

type CacheClient interface {
	Close() error
	AcquireDeploymentLock(ctx context.Context, holderUuid string, functionName string, ttl time.Duration) error
	ReleaseDeploymentLock(ctx context.Context, holderUuid string, functionName string) error
	DeploymentLockHolder(ctx context.Context, functionName string) (string, error)
}

type cacheClient struct {
	client *redis.Client
}

// NewCacheClient creates a new cache client.
func NewCacheClient(opts Options) CacheClient {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.Database,
	})

	return &cacheClient{
		client: client,
	}
}

// Close closes the cache client.
func (c *cacheClient) Close() error {
	if c.client != nil {
		if err := c.client.Close(); err != nil {
			return fmt.Errorf("failed to close cache client: %w", err)
		}
	}
	return nil
}

// AcquireDeploymentLock takes the deployment lock of the function for the holder.
// The lock expires after ttl so a crashed holder does not block the function forever.
func (c *cacheClient) AcquireDeploymentLock(ctx context.Context, holderUuid string, functionName string, ttl time.Duration) error {
	acquired, err := c.client.SetNX(ctx, naming.CacheDeploymentLockKeyName(functionName), holderUuid, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire deployment lock: %w", err)
	}
	if !acquired {
		return fmt.Errorf("%s: %w", functionName, ErrLockHeld)
	}
	return nil
}

// ReleaseDeploymentLock releases the deployment lock if it is still owned by the holder.
func (c *cacheClient) ReleaseDeploymentLock(ctx context.Context, holderUuid string, functionName string) error {
	released, err := releaseScript.Run(ctx, c.client, []string{naming.CacheDeploymentLockKeyName(functionName)}, holderUuid).Int()
	if err != nil {
		return fmt.Errorf("failed to release deployment lock: %w", err)
	}
	if released == 0 {
		return fmt.Errorf("deployment lock of %s is no longer owned by %s", functionName, holderUuid)
	}
	return nil
}

// DeploymentLockHolder returns the uuid of the current holder or an empty string if the function is not locked.
func (c *cacheClient) DeploymentLockHolder(ctx context.Context, functionName string) (string, error) {
	holder, err := c.client.Get(ctx, naming.CacheDeploymentLockKeyName(functionName)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read deployment lock: %w", err)
	}
	return holder, nil
}
