// Package journal records the outcome of deployments in a postgres database.
package journal

import (
	"errors"
	"fmt"

	"github.com/dennishilgert/lambdeploy/internal/pkg/journal/models"
	"github.com/dennishilgert/lambdeploy/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var log = logger.NewLogger("lambdeploy.journal")

const defaultTimezone = "UTC"

// ErrDeploymentNotFound is returned when no deployment is recorded under the uuid.
var ErrDeploymentNotFound = errors.New("deployment not found")

type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
	SslMode  bool
	Timezone string
}

type JournalClient interface {
	Close() error
	Migrate() error
	RecordDeployment(deployment *models.Deployment) error
	GetDeployment(uuid string) (*models.Deployment, error)
	ListDeployments(functionName string, limit int) ([]models.Deployment, error)
}

type journalClient struct {
	db *gorm.DB
}

// NewJournalClient connects to the journal database.
func NewJournalClient(opts Options) (JournalClient, error) {
	log.Debugf("connecting to journal database: %s:%d", opts.Host, opts.Port)

	gormDb, err := gorm.Open(postgres.New(postgres.Config{
		DSN: dsn(opts),
	}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to journal database: %w", err)
	}

	return &journalClient{
		db: gormDb,
	}, nil
}

func dsn(opts Options) string {
	sslMode := "disable"
	if opts.SslMode {
		sslMode = "require"
	}
	timezone := defaultTimezone
	if opts.Timezone != "" {
		timezone = opts.Timezone
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s", opts.Host, opts.Port, opts.Username, opts.Password, opts.Database, sslMode, timezone)
}

// Close closes the database connection.
func (j *journalClient) Close() error {
	sqlDb, err := j.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	if err := sqlDb.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// Migrate migrates the journal schema.
func (j *journalClient) Migrate() error {
	if err := j.db.AutoMigrate(&models.Deployment{}); err != nil {
		return fmt.Errorf("failed to migrate journal: %w", err)
	}
	return nil
}

// RecordDeployment stores a finished deployment.
func (j *journalClient) RecordDeployment(deployment *models.Deployment) error {
	if err := j.db.Create(deployment).Error; err != nil {
		return fmt.Errorf("failed to record deployment: %w", err)
	}
	return nil
}

// GetDeployment retrieves a deployment by its uuid.
func (j *journalClient) GetDeployment(uuid string) (*models.Deployment, error) {
	var deployment models.Deployment
	if err := j.db.First(&deployment, "uuid = ?", uuid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", uuid, ErrDeploymentNotFound)
		}
		return nil, fmt.Errorf("failed to get deployment: %w", err)
	}
	return &deployment, nil
}

// ListDeployments retrieves the latest deployments of a function, newest first.
func (j *journalClient) ListDeployments(functionName string, limit int) ([]models.Deployment, error) {
	var deployments []models.Deployment
	query := j.db.Where("function_name = ?", functionName).Order("started_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&deployments).Error; err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}
	return deployments, nil
}
