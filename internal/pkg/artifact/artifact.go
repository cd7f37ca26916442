// Package artifact reads deployment packages from the local filesystem or
// from object storage.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/dennishilgert/lambdeploy/internal/pkg/naming"
	"github.com/dennishilgert/lambdeploy/pkg/logger"
	"github.com/dennishilgert/lambdeploy/pkg/storage"
)

var log = logger.NewLogger("lambdeploy.artifact")

// ErrArtifactNotFound is returned when the referenced package does not exist.
var ErrArtifactNotFound = errors.New("artifact not found")

// Source reads the bytes of a deployment package.
type Source interface {
	ReadArtifact(ctx context.Context, ref string) ([]byte, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, ref string) ([]byte, error)

func (f SourceFunc) ReadArtifact(ctx context.Context, ref string) ([]byte, error) {
	return f(ctx, ref)
}

type fileSource struct{}

// NewFileSource returns a source that reads packages from the local filesystem.
func NewFileSource() Source {
	return &fileSource{}
}

func (f *fileSource) ReadArtifact(ctx context.Context, ref string) ([]byte, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", ref, ErrArtifactNotFound)
		}
		return nil, fmt.Errorf("failed to read file %s: %w", ref, err)
	}
	return data, nil
}

type storageSource struct {
	storageService storage.StorageService
}

// NewStorageSource returns a source that reads packages referenced as s3://bucket/object.
func NewStorageSource(storageService storage.StorageService) Source {
	return &storageSource{
		storageService: storageService,
	}
}

func (s *storageSource) ReadArtifact(ctx context.Context, ref string) ([]byte, error) {
	bucketName, objectName, err := ParseObjectStorageRef(ref)
	if err != nil {
		return nil, err
	}
	data, err := s.storageService.ReadObject(ctx, bucketName, objectName)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("%s: %w", ref, ErrArtifactNotFound)
		}
		return nil, err
	}
	return data, nil
}

// ParseObjectStorageRef splits an s3://bucket/object reference into bucket and object name.
func ParseObjectStorageRef(ref string) (string, string, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse artifact reference: %w", err)
	}
	if parsed.Scheme != naming.ObjectStorageScheme {
		return "", "", fmt.Errorf("unsupported artifact scheme: %s", parsed.Scheme)
	}
	objectName := strings.TrimPrefix(parsed.Path, "/")
	if parsed.Host == "" || objectName == "" {
		return "", "", fmt.Errorf("artifact reference must have the form %s://bucket/object: %s", naming.ObjectStorageScheme, ref)
	}
	return parsed.Host, objectName, nil
}

type resolver struct {
	file    Source
	storage Source
}

// NewResolver returns a source that dispatches on the reference scheme. A nil
// storage source rejects object storage references.
func NewResolver(file Source, storage Source) Source {
	return &resolver{
		file:    file,
		storage: storage,
	}
}

func (r *resolver) ReadArtifact(ctx context.Context, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, naming.ObjectStorageScheme+"://") {
		if r.storage == nil {
			return nil, fmt.Errorf("object storage is not configured for artifact %s", ref)
		}
		log.Debugf("reading artifact from object storage: %s", ref)
		return r.storage.ReadArtifact(ctx, ref)
	}
	log.Debugf("reading artifact from file: %s", ref)
	return r.file.ReadArtifact(ctx, ref)
}
