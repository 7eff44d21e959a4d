// Package fanout forwards S3 object notifications to a configured set of
// SQS queues and SNS topics.
//
// A trigger payload may arrive in several envelope shapes (S3 notification
// records, CloudWatch Events, EventBridge). The package normalizes it into a
// single Event, sends that event to every enabled destination, and reports a
// per-destination outcome. One destination failing never prevents the
// others from being attempted.
//
// # Quick Start
//
//	sess, _ := awssend.NewSession(awssend.Config{Region: "us-east-1"})
//
//	f := fanout.NewForwarder(
//	    fanout.StaticLoader(
//	        fanout.Queue("processing", "https://sqs.us-east-1.amazonaws.com/123456789012/processing"),
//	        fanout.Topic("notifications", "arn:aws:sns:us-east-1:123456789012:notifications"),
//	    ),
//	    awssend.NewSenders(sess),
//	)
//
//	resp := f.Handle(ctx, rawTrigger)
//
// # Design
//
// The package separates an invocation into layers:
//
//   - Shapes: recognize an envelope format and extract an Event
//   - Registry: the ordered, read-only list of destinations
//   - Dispatcher: sends to each enabled destination and classifies results
//   - Forwarder: ties the layers together and builds the Response
//
// Send capabilities (QueueSender, TopicSender) are injected, so tests can
// pass fakes and the package itself never talks to AWS. The awssend
// sub-package provides SQS and SNS implementations.
//
// # Discriminator Pattern
//
// Shapes use a two-phase match. A Discriminator runs cheap field checks;
// Extract runs only on the first shape whose discriminator matches:
//
//	fanout.ShapeFunc("replay",
//	    fanout.And(
//	        fanout.HasFields("bucket", "key"),
//	        fanout.FieldEquals("kind", "replay"),
//	    ),
//	    extractReplay,
//	)
//
// Composable discriminators are provided:
//   - HasFields: Check for field presence
//   - FieldEquals: Check field value
//   - AnyElementEquals: Check that some array element has a field value
//   - And: All discriminators must match
//   - Or: Any discriminator must match
//
// Field paths use gjson syntax through the Inspector/View abstraction.
//
// # Outcomes
//
// Every enabled destination yields exactly one Outcome. Failures carry an
// ErrorKind:
//
//   - MissingTarget: the destination has no URL or ARN; nothing was sent
//   - UnsupportedKind: the destination type is neither sqs nor sns
//   - PermissionDenied: the provider refused access
//   - InvalidDestination: the queue or topic does not exist or is malformed
//   - ProviderError: any other provider-classified failure
//   - NoCredentials: no credentials were available
//   - Unexpected: anything else, including send timeouts
//
// Senders report provider failures as *SendError; the dispatcher never
// inspects SDK error types.
//
// # Hooks
//
// Hooks provide observability without coupling to a logging or metrics
// library:
//
//	f := fanout.NewForwarder(loader, senders,
//	    fanout.WithOnFailure(func(ctx context.Context, d fanout.Destination, o fanout.Outcome, dur time.Duration) {
//	        metrics.Incr("fanout.failure", "destination:"+d.Name, "kind:"+o.Error.String())
//	    }),
//	)
//
// Available hooks:
//   - WithOnNormalize: Called after normalization, enriches context
//   - WithOnNoShape: Called when the trigger is not recognized
//   - WithOnConfigError: Called when the registry fails to load
//   - WithOnInvalidDestination: Called per registry validation error
//   - WithOnSkip: Called per disabled destination
//   - WithOnSend: Called before each send
//   - WithOnSuccess: Called after each successful send
//   - WithOnFailure: Called after each failed destination
//   - WithOnComplete: Called with the final Report
//
// Send, success and failure hooks run on dispatch workers and must be safe
// for concurrent use.
//
// # Thread Safety
//
// Normalizer, Registry, Dispatcher and Forwarder are safe for concurrent
// use once constructed.
package fanout
