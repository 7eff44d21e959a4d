package fanout

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// Message is the payload handed to a send capability.
type Message struct {
	Body       []byte
	Subject    string
	Attributes map[string]string
}

// SubjectMode selects the subject line format for topic messages.
type SubjectMode int

const (
	// SubjectEventBucket formats "S3 Event: <event name> - <bucket>".
	SubjectEventBucket SubjectMode = iota

	// SubjectDestination formats "S3 Event Notification - <destination>".
	SubjectDestination
)

// ParseSubjectMode maps "destination" to SubjectDestination and anything
// else to SubjectEventBucket.
func ParseSubjectMode(s string) SubjectMode {
	if strings.EqualFold(strings.TrimSpace(s), "destination") {
		return SubjectDestination
	}
	return SubjectEventBucket
}

// maxSubjectLen is the SNS limit on subject length.
const maxSubjectLen = 100

// AttributeSource is the value of the Source attribute on every message.
const AttributeSource = "s3-event-forwarder"

type body struct {
	EventType       string          `json:"event_type"`
	EventName       string          `json:"event_name"`
	BucketName      string          `json:"bucket_name"`
	ObjectKey       string          `json:"object_key"`
	EventTime       string          `json:"event_time"`
	EventSource     string          `json:"event_source"`
	AWSRegion       string          `json:"aws_region"`
	DestinationType Kind            `json:"destination_type"`
	DestinationName string          `json:"destination_name"`
	DestinationURL  string          `json:"destination_url,omitempty"`
	DestinationARN  string          `json:"destination_arn,omitempty"`
	RawEvent        json.RawMessage `json:"raw_event"`
	Timestamp       string          `json:"timestamp"`
}

func newBody(ev Event, d Destination) body {
	raw := ev.Raw
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	return body{
		EventType:       "s3_event",
		EventName:       ev.Name,
		BucketName:      ev.Bucket,
		ObjectKey:       ev.Key,
		EventTime:       ev.Time,
		EventSource:     ev.Source,
		AWSRegion:       ev.Region,
		DestinationType: d.Kind,
		DestinationName: d.Name,
		RawEvent:        raw,
		Timestamp:       ev.Time,
	}
}

// BuildQueueMessage builds the message sent to a queue destination.
func BuildQueueMessage(ev Event, d Destination) (Message, error) {
	b := newBody(ev, d)
	b.DestinationURL = d.Target
	data, err := json.Marshal(b)
	if err != nil {
		return Message{}, fmt.Errorf("marshal queue message: %w", err)
	}
	return Message{Body: data, Attributes: Attributes(ev)}, nil
}

// BuildTopicMessage builds the message published to a topic destination.
func BuildTopicMessage(ev Event, d Destination, mode SubjectMode) (Message, error) {
	b := newBody(ev, d)
	b.DestinationARN = d.Target
	data, err := json.Marshal(b)
	if err != nil {
		return Message{}, fmt.Errorf("marshal topic message: %w", err)
	}
	return Message{Body: data, Subject: Subject(ev, d, mode), Attributes: Attributes(ev)}, nil
}

// Attributes returns the string attributes consumers filter on. Empty
// values become "Unknown" since SQS and SNS reject empty attributes.
func Attributes(ev Event) map[string]string {
	return map[string]string{
		"EventType":  orUnknown(ev.Name),
		"BucketName": orUnknown(ev.Bucket),
		"ObjectKey":  orUnknown(ev.Key),
		"EventTime":  orUnknown(ev.Time),
		"Source":     AttributeSource,
	}
}

// Subject formats the topic subject line for mode, trimmed to the SNS
// length limit with control characters removed.
func Subject(ev Event, d Destination, mode SubjectMode) string {
	var s string
	switch mode {
	case SubjectDestination:
		s = "S3 Event Notification - " + d.Name
	default:
		s = fmt.Sprintf("S3 Event: %s - %s", orUnknown(ev.Name), orUnknown(ev.Bucket))
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	if len(s) > maxSubjectLen {
		s = s[:maxSubjectLen]
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return UnknownEventName
	}
	return s
}
