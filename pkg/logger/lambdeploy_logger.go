package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type lambdeployLogger struct {
	// name defines the name of the logger that is published to log as a scope
	name string

	// logger defines the instance of a logrus logger
	logger *logrus.Entry
}

var LambdeployVersion = "unknown"

func newLambdeployLogger(name string) *lambdeployLogger {
	newLogger := logrus.New()
	newLogger.SetOutput(os.Stdout)

	ll := &lambdeployLogger{
		name: name,
		logger: newLogger.WithFields(logrus.Fields{
			logFieldScope: name,
			logFieldType:  LogTypeLog,
		}),
	}

	ll.EnableJSONOutput(defaultJsonOutput)

	return ll
}

// EnableJSONOutput enables JSON formatted output logging.
func (l *lambdeployLogger) EnableJSONOutput(enabled bool) {
	var formatter logrus.Formatter

	fieldMap := logrus.FieldMap{
		// If time field name is conflicted, logrus adds "fields." prefix.
		// So rename to unused field @time to avoid the confliction.
		logrus.FieldKeyTime:  logFieldTimeStamp,
		logrus.FieldKeyLevel: logFieldLevel,
		logrus.FieldKeyMsg:   logFieldMessage,
	}

	hostname, _ := os.Hostname()
	data := logrus.Fields{
		logFieldScope:    l.logger.Data[logFieldScope],
		logFieldType:     l.logger.Data[logFieldType],
		logFieldInstance: hostname,
		logFieldVersion:  LambdeployVersion,
	}
	if appId, ok := l.logger.Data[logFieldAppId]; ok {
		data[logFieldAppId] = appId
	}
	l.logger.Data = data

	if enabled {
		formatter = &logrus.JSONFormatter{ //nolint: exhaustruct
			TimestampFormat: time.RFC3339Nano,
			FieldMap:        fieldMap,
		}
	} else {
		formatter = &logrus.TextFormatter{ //nolint: exhaustruct
			TimestampFormat: time.RFC3339Nano,
			FieldMap:        fieldMap,
		}
	}

	l.logger.Logger.SetFormatter(formatter)
}

// SetAppId sets app_id field in the log. Default value is an empty string.
func (l *lambdeployLogger) SetAppId(id string) {
	if id == undefinedAppId {
		return
	}
	l.logger = l.logger.WithField(logFieldAppId, id)
}

func toLogrusLevel(lvl LogLevel) logrus.Level {
	// ignore error because it will never happen
	l, _ := logrus.ParseLevel(string(lvl))
	return l
}

// SetLogLevel sets the log output level.
func (l *lambdeployLogger) SetLogLevel(logLevel LogLevel) {
	l.logger.Logger.SetLevel(toLogrusLevel(logLevel))
}

// LogLevel returns the current log output level.
func (l *lambdeployLogger) LogLevel() string {
	return l.logger.Logger.GetLevel().String()
}

// IsLogLevelEnabled returns true if the logger will output this LogLevel.
func (l *lambdeployLogger) IsLogLevelEnabled(level LogLevel) bool {
	return l.logger.Logger.IsLevelEnabled(toLogrusLevel(level))
}

// SetOutput sets the destination for the logs.
func (l *lambdeployLogger) SetOutput(dst io.Writer) {
	l.logger.Logger.SetOutput(dst)
}

// WithLogType specify the log_type field in log. Default value is LogTypeLog.
func (l *lambdeployLogger) WithLogType(logType string) Logger {
	return &lambdeployLogger{
		name:   l.name,
		logger: l.logger.WithField(logFieldType, logType),
	}
}

// WithFields returns a logger with the added structured fields.
func (l *lambdeployLogger) WithFields(fields map[string]any) Logger {
	return &lambdeployLogger{
		name:   l.name,
		logger: l.logger.WithFields(fields),
	}
}

// Info logs a message at level Info.
func (l *lambdeployLogger) Info(args ...interface{}) {
	l.logger.Log(logrus.InfoLevel, args...)
}

// Infof logs a formatted message at level Info.
func (l *lambdeployLogger) Infof(format string, args ...interface{}) {
	l.logger.Logf(logrus.InfoLevel, format, args...)
}

// Debug logs a message at level Debug.
func (l *lambdeployLogger) Debug(args ...interface{}) {
	l.logger.Log(logrus.DebugLevel, args...)
}

// Debugf logs a formatted message at level Debug.
func (l *lambdeployLogger) Debugf(format string, args ...interface{}) {
	l.logger.Logf(logrus.DebugLevel, format, args...)
}

// Warn logs a message at level Warn.
func (l *lambdeployLogger) Warn(args ...interface{}) {
	l.logger.Log(logrus.WarnLevel, args...)
}

// Warnf logs a formatted message at level Warn.
func (l *lambdeployLogger) Warnf(format string, args ...interface{}) {
	l.logger.Logf(logrus.WarnLevel, format, args...)
}

// Error logs a message at level Error.
func (l *lambdeployLogger) Error(args ...interface{}) {
	l.logger.Log(logrus.ErrorLevel, args...)
}

// Errorf logs a formatted message at level Error.
func (l *lambdeployLogger) Errorf(format string, args ...interface{}) {
	l.logger.Logf(logrus.ErrorLevel, format, args...)
}

// Fatal logs a message at level Fatal then the process will exit with status set to 1.
func (l *lambdeployLogger) Fatal(args ...interface{}) {
	l.logger.Fatal(args...)
}

// Fatalf logs a formatted message at level Fatal then the process will exit with status set to 1.
func (l *lambdeployLogger) Fatalf(format string, args ...interface{}) {
	l.logger.Fatalf(format, args...)
}
