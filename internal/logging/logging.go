// Package logging builds the process logger and adapts it to fanout hooks.
package logging

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bjaus/fanout"
)

// New builds a JSON production logger at level ("debug", "info", "warn",
// "error"). Unknown levels fall back to info.
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.CallerKey = "caller"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

type ctxKey struct{}

// WithLogger stores log on ctx.
func WithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the logger stored on ctx, or fallback. When ctx
// carries a Lambda invocation, the request ID is attached.
func FromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return log
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return fallback.With(zap.String("request_id", lc.AwsRequestID))
	}
	return fallback
}

// Hooks returns fanout options that log every stage of an invocation.
func Hooks(log *zap.Logger) []fanout.Option {
	return []fanout.Option{
		fanout.WithOnNormalize(func(ctx context.Context, shape string, ev fanout.Event) context.Context {
			l := FromContext(ctx, log).With(
				zap.String("event_name", ev.Name),
				zap.String("bucket", ev.Bucket),
				zap.String("key", ev.Key),
			)
			l.Info("processing S3 event", zap.String("shape", shape))
			if ev.Bucket == "" || ev.Key == "" {
				l.Warn("S3 event is missing bucket or object key")
			}
			return WithLogger(ctx, l)
		}),
		fanout.WithOnNoShape(func(ctx context.Context, raw []byte, err error) {
			FromContext(ctx, log).Warn("unsupported event structure",
				zap.Error(err),
				zap.ByteString("event", truncate(raw, 2048)),
			)
		}),
		fanout.WithOnConfigError(func(ctx context.Context, err error) {
			FromContext(ctx, log).Error("failed to load configuration", zap.Error(err))
		}),
		fanout.WithOnInvalidDestination(func(ctx context.Context, err error) {
			FromContext(ctx, log).Warn("invalid destination", zap.Error(err))
		}),
		fanout.WithOnSkip(func(ctx context.Context, d fanout.Destination) {
			FromContext(ctx, log).Info("skipping disabled destination",
				zap.String("destination", d.Name),
				zap.Stringer("type", d.Kind),
			)
		}),
		fanout.WithOnSend(func(ctx context.Context, d fanout.Destination) {
			FromContext(ctx, log).Debug("sending",
				zap.String("destination", d.Name),
				zap.Stringer("type", d.Kind),
			)
		}),
		fanout.WithOnSuccess(func(ctx context.Context, d fanout.Destination, o fanout.Outcome, dur time.Duration) {
			FromContext(ctx, log).Info("forwarded event",
				zap.String("destination", d.Name),
				zap.Stringer("type", d.Kind),
				zap.String("message_id", o.MessageID),
				zap.Duration("duration", dur),
			)
		}),
		fanout.WithOnFailure(func(ctx context.Context, d fanout.Destination, o fanout.Outcome, dur time.Duration) {
			FromContext(ctx, log).Error("failed to forward event",
				zap.String("destination", d.Name),
				zap.Stringer("type", d.Kind),
				zap.Stringer("error_kind", o.Error),
				zap.String("error_code", o.Code),
				zap.String("error", o.Detail),
				zap.Duration("duration", dur),
			)
		}),
		fanout.WithOnComplete(func(ctx context.Context, ev fanout.Event, r fanout.Report, dur time.Duration) {
			l := FromContext(ctx, log)
			fields := []zap.Field{
				zap.Int("total", r.TotalProcessed),
				zap.Int("successful", len(r.Successes)),
				zap.Int("failed", len(r.Failures)),
				zap.Duration("duration", dur),
			}
			if r.Success() {
				l.Info("forwarding completed", fields...)
				return
			}
			l.Warn("forwarding completed with failures", fields...)
		}),
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
