package fanout

// Shape recognizes one trigger envelope format and extracts an Event from it.
//
// Shapes are registered with a Normalizer and matched using their
// Discriminator before Extract is called, so Extract may assume the marker
// fields are present.
//
// Example:
//
//	type replayShape struct{}
//
//	func (replayShape) Name() string { return "replay" }
//
//	func (replayShape) Discriminator() fanout.Discriminator {
//	    return fanout.FieldEquals("kind", "replay")
//	}
//
//	func (replayShape) Extract(v fanout.View, raw []byte) (fanout.Event, error) {
//	    bucket, _ := v.GetString("bucket")
//	    key, _ := v.GetString("key")
//	    return fanout.Event{Name: "Replay", Bucket: bucket, Key: key, Raw: raw}, nil
//	}
type Shape interface {
	// Name identifies the shape in logs and responses.
	Name() string

	// Discriminator returns the cheap predicate used to select this shape.
	Discriminator() Discriminator

	// Extract builds the Event. raw is the full trigger payload.
	Extract(v View, raw []byte) (Event, error)
}

// ShapeFunc creates a Shape from a name, discriminator, and extract function.
func ShapeFunc(name string, disc Discriminator, extract func(View, []byte) (Event, error)) Shape {
	return &shapeFunc{name: name, disc: disc, extract: extract}
}

type shapeFunc struct {
	name    string
	disc    Discriminator
	extract func(View, []byte) (Event, error)
}

func (s *shapeFunc) Name() string                 { return s.name }
func (s *shapeFunc) Discriminator() Discriminator { return s.disc }
func (s *shapeFunc) Extract(v View, raw []byte) (Event, error) {
	return s.extract(v, raw)
}

// Shape names of the built-in shapes.
const (
	ShapeS3Records        = "s3-records"
	ShapeCloudWatchObject = "cloudwatch-object-created"
	ShapeEventBridgeS3    = "eventbridge-s3"
)

// DefaultShapes returns the built-in shapes in matching order: S3
// notification records, CloudWatch "Object Created:Put" events, then
// EventBridge events from the aws.s3 source.
func DefaultShapes() []Shape {
	return []Shape{
		S3RecordsShape(),
		CloudWatchObjectShape(),
		EventBridgeS3Shape(),
	}
}

var s3RecordQuery = elementQuery("Records", "eventSource", SourceS3Notification)

// S3RecordsShape matches the S3 notification format, a Records list with at
// least one entry from the aws:s3 event source. The first such entry becomes
// the event.
func S3RecordsShape() Shape {
	return ShapeFunc(
		ShapeS3Records,
		AnyElementEquals("Records", "eventSource", SourceS3Notification),
		func(v View, _ []byte) (Event, error) {
			rec, ok := v.Sub(s3RecordQuery)
			if !ok {
				return Event{}, ErrNotRecognized
			}
			raw, _ := v.GetBytes(s3RecordQuery)
			bucket, _ := rec.GetString("s3.bucket.name")
			key, _ := rec.GetString("s3.object.key")
			ts, _ := rec.GetString("eventTime")
			region, _ := rec.GetString("awsRegion")
			return Event{
				Name:   stringOr(rec, "eventName", UnknownEventName),
				Bucket: bucket,
				Key:    key,
				Time:   ts,
				Source: SourceS3Notification,
				Region: region,
				Raw:    raw,
			}, nil
		},
	)
}

// CloudWatchObjectShape matches CloudWatch Events notifications whose
// detail-type is "Object Created:Put".
func CloudWatchObjectShape() Shape {
	return ShapeFunc(
		ShapeCloudWatchObject,
		FieldEquals("detail-type", "Object Created:Put"),
		func(v View, raw []byte) (Event, error) {
			bucket, _ := v.GetString("detail.bucket.name")
			key, _ := v.GetString("detail.object.key")
			ts, _ := v.GetString("time")
			region, _ := v.GetString("region")
			return Event{
				Name:   "ObjectCreated:Put",
				Bucket: bucket,
				Key:    key,
				Time:   ts,
				Source: SourceS3Notification,
				Region: region,
				Raw:    raw,
			}, nil
		},
	)
}

// EventBridgeS3Shape matches EventBridge events emitted by the aws.s3
// source, reading the bucket and key from the CloudTrail request parameters.
func EventBridgeS3Shape() Shape {
	return ShapeFunc(
		ShapeEventBridgeS3,
		FieldEquals("source", SourceS3EventBridge),
		func(v View, raw []byte) (Event, error) {
			bucket, _ := v.GetString("detail.requestParameters.bucketName")
			key, _ := v.GetString("detail.requestParameters.key")
			ts, _ := v.GetString("time")
			region, _ := v.GetString("region")
			return Event{
				Name:   stringOr(v, "detail.eventName", UnknownEventName),
				Bucket: bucket,
				Key:    key,
				Time:   ts,
				Source: SourceS3EventBridge,
				Region: region,
				Raw:    raw,
			}, nil
		},
	)
}
