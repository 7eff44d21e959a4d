package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bjaus/fanout"
)

// Environment variables that carry destination configuration.
const (
	EnvConfig       = "S3_FORWARDER_CONFIG"
	EnvDestinations = "S3_FORWARDER_DESTINATIONS"
	EnvQueues       = "S3_FORWARDER_SQS_QUEUES"
	EnvTopics       = "S3_FORWARDER_SNS_TOPICS"
	EnvConfigFile   = "S3_FORWARDER_CONFIG_FILE"
)

// DefaultFiles are searched in order when no file is named explicitly.
var DefaultFiles = []string{
	"/tmp/s3-forwarder-config.json",
	"./config.json",
	"./s3-forwarder-config.json",
	"./destinations.json",
}

// Origins reported by Source.Resolve.
const (
	OriginEnvironment = "environment"
	OriginFile        = "file"
	OriginDefault     = "default"
)

// Default is used when neither the environment nor a file configures
// destinations.
var Default = []fanout.Destination{
	fanout.Queue("s3-events-processing-queue", "https://sqs.us-east-1.amazonaws.com/123456789012/s3-events-processing-queue"),
	fanout.Topic("s3-events-notifications", "arn:aws:sns:us-east-1:123456789012:s3-events-notifications"),
}

// document is the destination configuration file format. Both the unified
// destinations list and the per-kind sqs_queues/sns_topics lists are
// accepted; entries keep the order destinations, queues, topics.
type document struct {
	Destinations []entry `yaml:"destinations"`
	Queues       []entry `yaml:"sqs_queues"`
	Topics       []entry `yaml:"sns_topics"`
}

type entry struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Kind        string `yaml:"kind"`
	Target      string `yaml:"target"`
	URL         string `yaml:"url"`
	ARN         string `yaml:"arn"`
	Enabled     *bool  `yaml:"enabled"`
	Description string `yaml:"description"`
}

func (e entry) destination(kind fanout.Kind) fanout.Destination {
	if kind == "" {
		kind = fanout.ParseKind(firstNonEmpty(e.Type, e.Kind))
	}

	var target string
	switch kind {
	case fanout.KindTopic:
		target = firstNonEmpty(e.ARN, e.Target)
	default:
		target = firstNonEmpty(e.URL, e.Target, e.ARN)
	}

	enabled := true
	if e.Enabled != nil {
		enabled = *e.Enabled
	}

	return fanout.Destination{
		Name:        firstNonEmpty(e.Name, fanout.DefaultDestinationName),
		Kind:        kind,
		Target:      target,
		Enabled:     enabled,
		Description: e.Description,
	}
}

func (d document) destinations() []fanout.Destination {
	out := make([]fanout.Destination, 0, len(d.Destinations)+len(d.Queues)+len(d.Topics))
	for _, e := range d.Destinations {
		out = append(out, e.destination(""))
	}
	for _, e := range d.Queues {
		out = append(out, e.destination(fanout.KindQueue))
	}
	for _, e := range d.Topics {
		out = append(out, e.destination(fanout.KindTopic))
	}
	return out
}

// Parse decodes a destination document. YAML and JSON are both accepted.
func Parse(data []byte) ([]fanout.Destination, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty configuration document")
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	return doc.destinations(), nil
}

func parseList(data string) ([]entry, error) {
	var list []entry
	if err := yaml.Unmarshal([]byte(data), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Source resolves destinations from the environment, then a file, then
// Default.
type Source struct {
	// File, when set, is the only file considered and must exist.
	File string

	// Files are searched in order when File is empty. Nil means
	// DefaultFiles.
	Files []string
}

// NewSource returns a Source honoring S3_FORWARDER_CONFIG_FILE.
func NewSource() *Source {
	return &Source{File: getEnv(EnvConfigFile, "")}
}

// Load implements fanout.Loader.
func (s *Source) Load(ctx context.Context) (*fanout.Registry, error) {
	ds, _, err := s.Resolve()
	if err != nil {
		return nil, err
	}
	return fanout.NewRegistry(ds), nil
}

// Resolve returns the configured destinations and where they came from.
// Malformed environment or file content is an error wrapping
// fanout.ErrConfiguration rather than a silent fallback.
func (s *Source) Resolve() ([]fanout.Destination, string, error) {
	ds, ok, err := fromEnv()
	if err != nil {
		return nil, OriginEnvironment, fmt.Errorf("%w: %w", fanout.ErrConfiguration, err)
	}
	if ok {
		return ds, OriginEnvironment, nil
	}

	ds, path, err := s.fromFile()
	if err != nil {
		return nil, OriginFile, fmt.Errorf("%w: %w", fanout.ErrConfiguration, err)
	}
	if path != "" {
		return ds, OriginFile + ":" + path, nil
	}

	return append([]fanout.Destination(nil), Default...), OriginDefault, nil
}

func fromEnv() ([]fanout.Destination, bool, error) {
	if raw := getEnv(EnvConfig, ""); raw != "" {
		ds, err := Parse([]byte(raw))
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", EnvConfig, err)
		}
		return ds, true, nil
	}

	var doc document
	found := false
	for _, v := range []struct {
		key  string
		list *[]entry
	}{
		{EnvDestinations, &doc.Destinations},
		{EnvQueues, &doc.Queues},
		{EnvTopics, &doc.Topics},
	} {
		raw := getEnv(v.key, "")
		if raw == "" {
			continue
		}
		list, err := parseList(raw)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", v.key, err)
		}
		*v.list = list
		found = true
	}
	if !found {
		return nil, false, nil
	}
	return doc.destinations(), true, nil
}

func (s *Source) fromFile() ([]fanout.Destination, string, error) {
	if s.File != "" {
		data, err := os.ReadFile(s.File)
		if err != nil {
			return nil, "", err
		}
		ds, err := Parse(data)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", s.File, err)
		}
		return ds, s.File, nil
	}

	files := s.Files
	if files == nil {
		files = DefaultFiles
	}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		ds, err := Parse(data)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", path, err)
		}
		return ds, path, nil
	}
	return nil, "", nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
