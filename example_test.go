package fanout_test

import (
	"context"
	"fmt"
	"time"

	"github.com/bjaus/fanout"
)

// printSenders print each message target instead of sending it.
func printSenders() fanout.Senders {
	return fanout.Senders{
		Queue: fanout.QueueSenderFunc(func(ctx context.Context, target string, msg fanout.Message) (string, error) {
			fmt.Printf("queue %s: %s\n", target, msg.Attributes["ObjectKey"])
			return "queue-msg-1", nil
		}),
		Topic: fanout.TopicSenderFunc(func(ctx context.Context, target string, msg fanout.Message) (string, error) {
			fmt.Printf("topic %s: %s\n", target, msg.Subject)
			return "topic-msg-1", nil
		}),
	}
}

func Example() {
	f := fanout.NewForwarder(
		fanout.StaticLoader(
			fanout.Queue("processing", "https://sqs.us-east-1.amazonaws.com/123456789012/processing"),
			fanout.Topic("notifications", "arn:aws:sns:us-east-1:123456789012:notifications"),
		),
		printSenders(),
		fanout.WithWorkers(1),
	)

	trigger := []byte(`{"Records":[{
		"eventSource": "aws:s3",
		"eventName": "ObjectCreated:Put",
		"eventTime": "2024-12-01T10:00:00.000Z",
		"awsRegion": "us-east-1",
		"s3": {"bucket": {"name": "uploads"}, "object": {"key": "images/cat.png"}}
	}]}`)

	resp := f.Handle(context.Background(), trigger)
	fmt.Println(resp.StatusCode, resp.Body.Message)

	// Output:
	// queue https://sqs.us-east-1.amazonaws.com/123456789012/processing: images/cat.png
	// topic arn:aws:sns:us-east-1:123456789012:notifications: S3 Event: ObjectCreated:Put - uploads
	// 200 Forwarded to 2 destinations, 0 failed
}

func Example_dispatcher() {
	d := fanout.NewDispatcher(fanout.Senders{
		Queue: fanout.QueueSenderFunc(func(ctx context.Context, target string, msg fanout.Message) (string, error) {
			return "", &fanout.SendError{Kind: fanout.ErrPermissionDenied, Code: "AccessDenied", Message: "not authorized"}
		}),
	})

	reg := fanout.NewRegistry([]fanout.Destination{
		fanout.Queue("audit", "https://sqs.us-east-1.amazonaws.com/123456789012/audit"),
		fanout.Queue("broken", ""),
	})

	report := d.Dispatch(context.Background(), fanout.Event{Name: "ObjectRemoved:Delete", Bucket: "uploads"}, reg)
	for _, o := range report.Failures {
		fmt.Printf("%s: %s (%s)\n", o.Destination, o.Error, o.Detail)
	}
	fmt.Println("success:", report.Success())

	// Output:
	// audit: PermissionDenied (Permission denied: not authorized)
	// broken: MissingTarget (Missing target for broken)
	// success: false
}

func Example_hooks() {
	f := fanout.NewForwarder(
		fanout.StaticLoader(fanout.Queue("processing", "https://sqs.example/processing")),
		printSenders(),
		fanout.WithOnNormalize(func(ctx context.Context, shape string, ev fanout.Event) context.Context {
			fmt.Printf("normalized %s via %s\n", ev.Key, shape)
			return ctx
		}),
		fanout.WithOnComplete(func(ctx context.Context, ev fanout.Event, r fanout.Report, _ time.Duration) {
			fmt.Printf("processed %d\n", r.TotalProcessed)
		}),
	)

	f.Handle(context.Background(), []byte(`{
		"source": "aws.s3",
		"detail": {"eventName": "PutObject", "requestParameters": {"bucketName": "uploads", "key": "docs/a.pdf"}}
	}`))

	// Output:
	// normalized docs/a.pdf via eventbridge-s3
	// queue https://sqs.example/processing: docs/a.pdf
	// processed 1
}

func ExampleRegistry_Summary() {
	reg := fanout.NewRegistry([]fanout.Destination{
		{Name: "processing", Kind: fanout.KindQueue, Target: "https://sqs.example/processing", Enabled: true, Description: "Main queue"},
		{Name: "legacy", Kind: fanout.KindTopic, Target: "arn:aws:sns:us-east-1:1:legacy", Enabled: false},
	})

	fmt.Println(reg.Summary())

	// Output:
	// Currently Enabled Destinations:
	//   1. processing (SQS)
	//      Target: https://sqs.example/processing
	//      Description: Main queue
	//
	// Total Enabled Destinations: 1
}
