package util

import (
	"os"
	"strings"
)

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// EnvName turns a dotted configuration key into its environment variable:
// EnvName("TASKBOARD", "server.addr") is "TASKBOARD_SERVER_ADDR".
func EnvName(prefix, key string) string {
	name := strings.ToUpper(envKeyReplacer.Replace(key))
	if prefix == "" {
		return name
	}
	return strings.ToUpper(prefix) + "_" + name
}

// EnvOrDefault returns the trimmed environment variable value or fallback when it is blank.
func EnvOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
