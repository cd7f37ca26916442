// Package messaging holds the messages lambdeploy publishes to the deployment events topic.
package messaging

import "time"

const (
	MessageTypeDeployment = "deployment"
	MessageTypeDiagnostic = "diagnostic"
)

const (
	DeploymentStatusSucceeded = "succeeded"
	DeploymentStatusFailed    = "failed"
)

// DeploymentEventMessage reports the outcome of one deployment.
type DeploymentEventMessage struct {
	Type               string    `json:"type"`
	DeploymentUuid     string    `json:"deploymentUuid"`
	FunctionName       string    `json:"functionName"`
	FunctionArn        string    `json:"functionArn,omitempty"`
	ArtifactRef        string    `json:"artifactRef"`
	Status             string    `json:"status"`
	Created            bool      `json:"created"`
	MappingsCreated    int       `json:"mappingsCreated"`
	MappingsUpdated    int       `json:"mappingsUpdated"`
	Subscriptions      int       `json:"subscriptions"`
	PermissionsGranted int       `json:"permissionsGranted"`
	Error              string    `json:"error,omitempty"`
	StartedAt          time.Time `json:"startedAt"`
	FinishedAt         time.Time `json:"finishedAt"`
}

// DiagnosticMessage carries a hint emitted while deploying a function.
type DiagnosticMessage struct {
	Type         string    `json:"type"`
	FunctionName string    `json:"functionName,omitempty"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}
