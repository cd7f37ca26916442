package utils

import "os"

// GetEnvOrElse gets the value from the os environment or use the else value if variable is not present.
func GetEnvOrElse(name, orElse string) string {
	if value, ok := os.LookupEnv(name); ok {
		return value
	}
	return orElse
}

// FirstEnv returns the value of the first of the given environment variables that is set and not empty.
func FirstEnv(names ...string) string {
	for _, name := range names {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return ""
}
