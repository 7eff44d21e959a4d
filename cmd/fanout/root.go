package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bjaus/fanout"
	"github.com/bjaus/fanout/internal/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fanout",
		Short:         "Forward S3 notifications to SQS queues and SNS topics",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: "  fanout                      # serve Lambda invocations\n" +
			"  fanout verify\n" +
			"  fanout invoke --event event.json --dry-run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve()
		},
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newInvokeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve Lambda invocations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve()
		},
	}
}

func serve() error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	lambda.Start(func(ctx context.Context, raw json.RawMessage) (any, error) {
		return a.handle(ctx, raw), nil
	})
	return nil
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Print the configured destinations and any validation errors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			ds, origin, err := a.source.Resolve()
			if err != nil {
				return err
			}
			reg := fanout.NewRegistry(ds)
			v := reg.Verify(time.Now().UTC().Format(time.RFC3339))
			v.Origin = origin
			return writeJSON(cmd.OutOrStdout(), v)
		},
	}
}

func newInvokeCmd() *cobra.Command {
	var eventPath string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Process one trigger payload locally and print the response",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readEvent(cmd.InOrStdin(), eventPath)
			if err != nil {
				return err
			}
			a, err := newApp(dryRun)
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			id := uuid.NewString()
			ctx := logging.WithLogger(cmd.Context(), a.log.With(zap.String("invocation_id", id)))
			return writeJSON(cmd.OutOrStdout(), a.handle(ctx, raw))
		},
	}
	cmd.Flags().StringVar(&eventPath, "event", "-", "Path to a trigger payload (- for stdin)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log messages instead of sending them")
	return cmd
}

func readEvent(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event: %w", err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
