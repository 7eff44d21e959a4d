package fanout

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent() Event {
	return Event{
		Name:   "ObjectCreated:Put",
		Bucket: "test-bucket",
		Key:    "test/file.txt",
		Time:   "2024-12-01T10:00:00.000Z",
		Source: SourceS3Notification,
		Region: "us-east-1",
		Raw:    json.RawMessage(`{"eventSource":"aws:s3"}`),
	}
}

func TestBuildQueueMessage(t *testing.T) {
	d := Queue("processing", "https://sqs.us-east-1.amazonaws.com/123/processing")

	msg, err := BuildQueueMessage(testEvent(), d)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"event_type": "s3_event",
		"event_name": "ObjectCreated:Put",
		"bucket_name": "test-bucket",
		"object_key": "test/file.txt",
		"event_time": "2024-12-01T10:00:00.000Z",
		"event_source": "aws:s3",
		"aws_region": "us-east-1",
		"destination_type": "sqs",
		"destination_name": "processing",
		"destination_url": "https://sqs.us-east-1.amazonaws.com/123/processing",
		"raw_event": {"eventSource": "aws:s3"},
		"timestamp": "2024-12-01T10:00:00.000Z"
	}`, string(msg.Body))
	assert.Empty(t, msg.Subject)
	assert.Equal(t, Attributes(testEvent()), msg.Attributes)
}

func TestBuildTopicMessage(t *testing.T) {
	d := Topic("alerts", "arn:aws:sns:us-east-1:123:alerts")

	msg, err := BuildTopicMessage(testEvent(), d, SubjectEventBucket)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &got))

	assert.Equal(t, "sns", got["destination_type"])
	assert.Equal(t, "alerts", got["destination_name"])
	assert.Equal(t, "arn:aws:sns:us-east-1:123:alerts", got["destination_arn"])
	assert.NotContains(t, got, "destination_url")
	assert.Equal(t, "S3 Event: ObjectCreated:Put - test-bucket", msg.Subject)
}

func TestBuildMessage_EmptyRawEvent(t *testing.T) {
	ev := testEvent()
	ev.Raw = nil

	msg, err := BuildQueueMessage(ev, Queue("q", "url"))
	require.NoError(t, err)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.JSONEq(t, `{}`, string(got["raw_event"]))
}

func TestAttributes(t *testing.T) {
	t.Run("carries event fields", func(t *testing.T) {
		assert.Equal(t, map[string]string{
			"EventType":  "ObjectCreated:Put",
			"BucketName": "test-bucket",
			"ObjectKey":  "test/file.txt",
			"EventTime":  "2024-12-01T10:00:00.000Z",
			"Source":     AttributeSource,
		}, Attributes(testEvent()))
	})

	t.Run("replaces empty values", func(t *testing.T) {
		attrs := Attributes(Event{Name: "ObjectCreated:Put"})

		assert.Equal(t, UnknownEventName, attrs["BucketName"])
		assert.Equal(t, UnknownEventName, attrs["ObjectKey"])
		assert.Equal(t, UnknownEventName, attrs["EventTime"])
		for k, v := range attrs {
			assert.NotEmpty(t, v, k)
		}
	})
}

func TestSubject(t *testing.T) {
	d := Topic("alerts", "arn")

	t.Run("event and bucket", func(t *testing.T) {
		assert.Equal(t, "S3 Event: ObjectCreated:Put - test-bucket", Subject(testEvent(), d, SubjectEventBucket))
	})

	t.Run("destination", func(t *testing.T) {
		assert.Equal(t, "S3 Event Notification - alerts", Subject(testEvent(), d, SubjectDestination))
	})

	t.Run("truncates long subjects", func(t *testing.T) {
		ev := testEvent()
		ev.Bucket = strings.Repeat("b", 200)

		got := Subject(ev, d, SubjectEventBucket)

		assert.Len(t, got, maxSubjectLen)
		assert.True(t, strings.HasPrefix(got, "S3 Event: ObjectCreated:Put - bbb"))
	})

	t.Run("strips control and non-ASCII characters", func(t *testing.T) {
		ev := testEvent()
		ev.Bucket = "bu\ncket\té"

		assert.Equal(t, "S3 Event: ObjectCreated:Put - bucket", Subject(ev, d, SubjectEventBucket))
	})
}

func TestParseSubjectMode(t *testing.T) {
	assert.Equal(t, SubjectDestination, ParseSubjectMode("destination"))
	assert.Equal(t, SubjectDestination, ParseSubjectMode(" Destination "))
	assert.Equal(t, SubjectEventBucket, ParseSubjectMode("event"))
	assert.Equal(t, SubjectEventBucket, ParseSubjectMode(""))
}
