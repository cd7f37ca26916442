package models

import (
	"time"

	"github.com/lib/pq"
)

// Deployment is one journal entry. The journal is written after a deployment
// finishes and is never read while reconciling.
type Deployment struct {
	Uuid               string `gorm:"primary_key; not null"`
	FunctionName       string `gorm:"index; not null"`
	FunctionArn        string
	ArtifactRef        string `gorm:"not null"`
	Runtime            string
	Status             string         `gorm:"not null"`
	Created            bool           `gorm:"not null"`
	EventSourceArns    pq.StringArray `gorm:"type:text[]"`
	TopicArns          pq.StringArray `gorm:"type:text[]"`
	MappingsCreated    int32          `gorm:"not null"`
	MappingsUpdated    int32          `gorm:"not null"`
	Subscriptions      int32          `gorm:"not null"`
	PermissionsGranted int32          `gorm:"not null"`
	Error              string
	StartedAt          time.Time `gorm:"not null"`
	FinishedAt         time.Time `gorm:"not null"`
	CreatedAt          time.Time
}
