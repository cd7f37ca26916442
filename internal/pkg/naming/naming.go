package naming

import (
	"fmt"
	"strings"
)

var (
	// Prefix of keys and topics owned by lambdeploy.
	Prefix = "lambdeploy"

	// Messaging topics.
	MessagingDeploymentEventsTopic = "lambdeploy_deployments"

	// Runtime used when the desired state does not declare one.
	DefaultRuntime = "nodejs20.x"

	// Scheme of artifact references located in object storage.
	ObjectStorageScheme = "s3"
)

// CacheDeploymentLockKeyName returns the key of the lock that serializes deployments of a function.
func CacheDeploymentLockKeyName(functionName string) string {
	return fmt.Sprintf("%s:lock:%s", Prefix, functionName)
}

// CacheIsDeploymentLockKey reports whether the key is a deployment lock key.
func CacheIsDeploymentLockKey(key string) bool {
	return strings.HasPrefix(key, fmt.Sprintf("%s:lock:", Prefix))
}

// CacheExtractLockedFunctionName returns the function name of a deployment lock key.
func CacheExtractLockedFunctionName(key string) string {
	return strings.TrimPrefix(key, fmt.Sprintf("%s:lock:", Prefix))
}

// ObjectStorageRef builds an artifact reference to an object in object storage.
func ObjectStorageRef(bucketName string, objectName string) string {
	return fmt.Sprintf("%s://%s/%s", ObjectStorageScheme, bucketName, objectName)
}
