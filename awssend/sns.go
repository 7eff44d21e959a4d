package awssend

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"

	"github.com/bjaus/fanout"
)

// Topic publishes messages to SNS topics.
type Topic struct {
	api snsiface.SNSAPI
}

// NewTopic returns a Topic backed by api.
func NewTopic(api snsiface.SNSAPI) *Topic {
	return &Topic{api: api}
}

// Publish implements fanout.TopicSender. target is the topic ARN.
func (t *Topic) Publish(ctx context.Context, target string, msg fanout.Message) (string, error) {
	attrs := make(map[string]*sns.MessageAttributeValue, len(msg.Attributes))
	for k, v := range msg.Attributes {
		attrs[k] = &sns.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(v),
		}
	}

	in := &sns.PublishInput{
		TopicArn:          aws.String(target),
		Message:           aws.String(string(msg.Body)),
		MessageAttributes: attrs,
	}
	if msg.Subject != "" {
		in.Subject = aws.String(msg.Subject)
	}

	res, err := t.api.PublishWithContext(ctx, in)
	if err != nil {
		return "", Classify(err)
	}

	return aws.StringValue(res.MessageId), nil
}
