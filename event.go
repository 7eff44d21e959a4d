package fanout

import "encoding/json"

// Event is the shape-independent record of one S3 object change.
//
// Name is always non-empty for an event returned by a Normalizer. Bucket
// and Key may be empty when the trigger omitted them; treat that as a data
// quality problem rather than a normalization failure.
type Event struct {
	Name   string          `json:"eventName"`
	Bucket string          `json:"bucketName"`
	Key    string          `json:"objectKey"`
	Time   string          `json:"eventTime"`
	Source string          `json:"eventSource"`
	Region string          `json:"awsRegion"`
	Raw    json.RawMessage `json:"rawEvent,omitempty"`
}

// Event source tags as they appear in trigger payloads.
const (
	SourceS3Notification = "aws:s3"
	SourceS3EventBridge  = "aws.s3"
)

// UnknownEventName is used when a recognized trigger carries no event name.
const UnknownEventName = "Unknown"
