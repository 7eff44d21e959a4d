// Package awssend implements fanout send capabilities on SQS and SNS.
//
// Provider errors are classified into *fanout.SendError so the dispatcher
// never has to inspect SDK error types.
package awssend

import (
	"net"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sqs"

	"github.com/bjaus/fanout"
)

// Config holds the settings for the shared AWS session.
type Config struct {
	Region   string
	Endpoint string

	// MaxConns bounds idle keep-alive connections per host. Set it to the
	// dispatch worker count so parallel sends reuse connections.
	MaxConns int
}

// NewSession creates a session whose HTTP transport is shared by the SQS
// and SNS clients.
func NewSession(cfg Config) (*session.Session, error) {
	conns := cfg.MaxConns
	if conns < 1 {
		conns = fanout.DefaultWorkers
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        conns * 2,
		MaxIdleConnsPerHost: conns,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}

	config := &aws.Config{
		HTTPClient: &http.Client{Transport: transport},
	}
	if cfg.Region != "" {
		config.Region = aws.String(cfg.Region)
	}
	if cfg.Endpoint != "" {
		config.Endpoint = aws.String(cfg.Endpoint)
	}
	if os.Getenv("DEBUG") != "" {
		config.WithLogLevel(aws.LogDebugWithHTTPBody)
	}

	return session.NewSession(config)
}

// NewSenders returns fanout.Senders backed by SQS and SNS clients on sess.
func NewSenders(sess *session.Session) fanout.Senders {
	return fanout.Senders{
		Queue: NewQueue(sqs.New(sess)),
		Topic: NewTopic(sns.New(sess)),
	}
}
