package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrObjectNotFound is returned when the bucket or the object does not exist.
var ErrObjectNotFound = errors.New("object not found")

type Options struct {
	Endpoint        string
	AccessKeyId     string
	SecretAccessKey string
	SessionToken    string
	UseSsl          bool
	Region          string
}

type StorageService interface {
	ReadObject(ctx context.Context, bucketName string, objectName string) ([]byte, error)
}

type storageService struct {
	minioClient *minio.Client
}

// NewStorageService creates a new storage service.
func NewStorageService(opts Options) (StorageService, error) {
	minioClient, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyId, opts.SecretAccessKey, opts.SessionToken),
		Secure: opts.UseSsl,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &storageService{
		minioClient: minioClient,
	}, nil
}

// ReadObject reads the whole object into memory.
func (s *storageService) ReadObject(ctx context.Context, bucketName string, objectName string) ([]byte, error) {
	object, err := s.minioClient.GetObject(ctx, bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, classifyError(bucketName, objectName, err)
	}
	defer object.Close()

	// GetObject is lazy, errors of the request surface on the first read.
	data, err := io.ReadAll(object)
	if err != nil {
		return nil, classifyError(bucketName, objectName, err)
	}
	return data, nil
}

func classifyError(bucketName string, objectName string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%s/%s: %w", bucketName, objectName, ErrObjectNotFound)
	}
	return fmt.Errorf("failed to read object %s/%s: %w", bucketName, objectName, err)
}
