package awssend

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"

	"github.com/bjaus/fanout"
)

// Queue sends messages to SQS queues.
type Queue struct {
	api sqsiface.SQSAPI
}

// NewQueue returns a Queue backed by api.
func NewQueue(api sqsiface.SQSAPI) *Queue {
	return &Queue{api: api}
}

// SendQueue implements fanout.QueueSender. target may be a queue URL or a
// queue ARN.
func (q *Queue) SendQueue(ctx context.Context, target string, msg fanout.Message) (string, error) {
	url, err := QueueURL(target)
	if err != nil {
		return "", &fanout.SendError{Kind: fanout.ErrInvalidDestination, Message: err.Error(), Err: err}
	}

	attrs := make(map[string]*sqs.MessageAttributeValue, len(msg.Attributes))
	for k, v := range msg.Attributes {
		attrs[k] = &sqs.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(v),
		}
	}

	res, err := q.api.SendMessageWithContext(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(url),
		MessageBody:       aws.String(string(msg.Body)),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", Classify(err)
	}

	return aws.StringValue(res.MessageId), nil
}

// QueueURL returns target unchanged when it is already a URL, and derives
// the queue URL when target is an SQS ARN
// (arn:<partition>:sqs:<region>:<account>:<name>).
func QueueURL(target string) (string, error) {
	if !strings.HasPrefix(target, "arn:") {
		return target, nil
	}

	parts := strings.Split(target, ":")
	if len(parts) != 6 || parts[2] != "sqs" || parts[3] == "" || parts[4] == "" || parts[5] == "" {
		return "", fmt.Errorf("not an SQS queue ARN: %s", target)
	}

	domain := "amazonaws.com"
	if parts[1] == "aws-cn" {
		domain = "amazonaws.com.cn"
	}
	return fmt.Sprintf("https://sqs.%s.%s/%s/%s", parts[3], domain, parts[4], parts[5]), nil
}
