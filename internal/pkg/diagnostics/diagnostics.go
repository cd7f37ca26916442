// Package diagnostics delivers human readable hints emitted while a
// deployment runs. Hints never affect the outcome of a deployment.
package diagnostics

import (
	"context"
	"time"

	"github.com/dennishilgert/lambdeploy/internal/pkg/messaging"
	"github.com/dennishilgert/lambdeploy/pkg/logger"
	"github.com/dennishilgert/lambdeploy/pkg/messaging/producer"
)

// Sink receives diagnostic messages.
type Sink interface {
	Emit(message string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(message string)

func (f SinkFunc) Emit(message string) {
	f(message)
}

// Discard drops every message.
var Discard Sink = SinkFunc(func(string) {})

type loggerSink struct {
	log logger.Logger
}

// NewLoggerSink returns a sink that logs messages as warnings with the diagnostic log type.
func NewLoggerSink(log logger.Logger) Sink {
	return &loggerSink{
		log: log.WithLogType(logger.LogTypeDiagnostic),
	}
}

func (l *loggerSink) Emit(message string) {
	l.log.Warn(message)
}

type messagingSink struct {
	ctx          context.Context
	producer     producer.MessagingProducer
	topic        string
	functionName string
}

// NewMessagingSink returns a sink that publishes messages to the topic, keyed by function name.
func NewMessagingSink(ctx context.Context, messagingProducer producer.MessagingProducer, topic string, functionName string) Sink {
	return &messagingSink{
		ctx:          ctx,
		producer:     messagingProducer,
		topic:        topic,
		functionName: functionName,
	}
}

func (m *messagingSink) Emit(message string) {
	m.producer.Publish(m.ctx, m.topic, m.functionName, &messaging.DiagnosticMessage{
		Type:         messaging.MessageTypeDiagnostic,
		FunctionName: m.functionName,
		Message:      message,
		Timestamp:    time.Now().UTC(),
	})
}

type multiSink []Sink

// Multi returns a sink that forwards every message to all non nil sinks in order.
func Multi(sinks ...Sink) Sink {
	filtered := make(multiSink, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			filtered = append(filtered, sink)
		}
	}
	return filtered
}

func (m multiSink) Emit(message string) {
	for _, sink := range m {
		sink.Emit(message)
	}
}

// Recorder collects messages in memory.
type Recorder struct {
	Messages []string
}

func (r *Recorder) Emit(message string) {
	r.Messages = append(r.Messages, message)
}
