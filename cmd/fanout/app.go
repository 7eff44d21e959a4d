package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bjaus/fanout"
	"github.com/bjaus/fanout/awssend"
	"github.com/bjaus/fanout/internal/config"
	"github.com/bjaus/fanout/internal/logging"
	"github.com/bjaus/fanout/internal/metrics"
)

// app wires configuration, transports, logging and metrics into a
// Forwarder.
type app struct {
	config    config.Config
	source    *config.Source
	log       *zap.Logger
	metrics   *metrics.Metrics
	forwarder *fanout.Forwarder
}

func newApp(dryRun bool) (*app, error) {
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	var senders fanout.Senders
	if dryRun {
		senders = dryRunSenders(log)
	} else {
		sess, err := awssend.NewSession(awssend.Config{
			Region:   cfg.Region,
			Endpoint: cfg.Endpoint,
			MaxConns: cfg.Workers,
		})
		if err != nil {
			return nil, fmt.Errorf("create AWS session: %w", err)
		}
		senders = awssend.NewSenders(sess)
	}

	m := metrics.New(cfg.PushgatewayURL, cfg.MetricsJob)
	source := config.NewSource()

	opts := cfg.Options()
	opts = append(opts, logging.Hooks(log)...)
	opts = append(opts, m.Hooks()...)

	return &app{
		config:    cfg,
		source:    source,
		log:       log,
		metrics:   m,
		forwarder: fanout.NewForwarder(fanout.CacheLoader(source), senders, opts...),
	}, nil
}

// handle processes one trigger and pushes metrics afterwards.
func (a *app) handle(ctx context.Context, raw []byte) fanout.Response {
	resp := a.forwarder.Handle(ctx, raw)
	if err := a.metrics.Push(ctx); err != nil {
		logging.FromContext(ctx, a.log).Warn("metrics push failed", zap.Error(err))
	}
	return resp
}

// dryRunSenders accept every message without contacting AWS.
func dryRunSenders(log *zap.Logger) fanout.Senders {
	accept := func(kind fanout.Kind) func(context.Context, string, fanout.Message) (string, error) {
		return func(ctx context.Context, target string, msg fanout.Message) (string, error) {
			id := uuid.NewString()
			logging.FromContext(ctx, log).Info("dry run send",
				zap.Stringer("type", kind),
				zap.String("target", target),
				zap.String("subject", msg.Subject),
				zap.ByteString("body", msg.Body),
				zap.String("message_id", id),
			)
			return id, nil
		}
	}
	return fanout.Senders{
		Queue: fanout.QueueSenderFunc(accept(fanout.KindQueue)),
		Topic: fanout.TopicSenderFunc(accept(fanout.KindTopic)),
	}
}
