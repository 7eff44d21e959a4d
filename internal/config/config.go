// Package config loads the forwarder's runtime settings and destination
// configuration from the environment and configuration files.
package config

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bjaus/fanout"
)

// Config holds the process-level settings.
type Config struct {
	Workers              int
	SendTimeout          time.Duration
	Subject              fanout.SubjectMode
	PartialFailureStatus int

	Region   string
	Endpoint string

	LogLevel       string
	PushgatewayURL string
	MetricsJob     string

	Environment   string
	SourceBucket  string
	DeploymentKey string
}

// Load reads Config from the environment.
func Load() Config {
	config := Config{
		Workers:              getEnvInt("S3_FORWARDER_WORKERS", fanout.DefaultWorkers),
		SendTimeout:          getEnvDuration("S3_FORWARDER_SEND_TIMEOUT", fanout.DefaultSendTimeout),
		Subject:              fanout.ParseSubjectMode(getEnv("S3_FORWARDER_SUBJECT", "event")),
		PartialFailureStatus: getEnvInt("S3_FORWARDER_FAILURE_STATUS", http.StatusOK),
		Region:               firstNonEmpty(os.Getenv("AWS_REGION"), os.Getenv("AWS_DEFAULT_REGION")),
		Endpoint:             getEnv("S3_FORWARDER_AWS_ENDPOINT", ""),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		PushgatewayURL:       getEnv("PUSHGATEWAY_URL", ""),
		MetricsJob:           getEnv("METRICS_JOB", "s3_forwarder"),
		Environment:          getEnv("ENVIRONMENT", "unknown"),
		SourceBucket:         getEnv("SOURCE_BUCKET", "unknown"),
		DeploymentKey:        getEnv("DEPLOYMENT_KEY", "unknown"),
	}

	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.SendTimeout < 0 {
		config.SendTimeout = fanout.DefaultSendTimeout
	}
	if config.PartialFailureStatus < 100 || config.PartialFailureStatus > 599 {
		config.PartialFailureStatus = http.StatusOK
	}

	return config
}

// Metadata returns the deployment fields reported in every response.
func (c Config) Metadata() map[string]string {
	return map[string]string{
		"environment":    c.Environment,
		"source_bucket":  c.SourceBucket,
		"deployment_key": c.DeploymentKey,
	}
}

// Options returns the fanout options implied by c.
func (c Config) Options() []fanout.Option {
	return []fanout.Option{
		fanout.WithWorkers(c.Workers),
		fanout.WithSendTimeout(c.SendTimeout),
		fanout.WithSubjectMode(c.Subject),
		fanout.WithPartialFailureStatus(c.PartialFailureStatus),
		fanout.WithMetadata(c.Metadata()),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// getEnvDuration accepts Go durations ("3s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return fallback
}
