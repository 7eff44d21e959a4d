package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bjaus/fanout"
)

const destinations = `{"sqs_queues": [{"name": "q", "url": "https://sqs.example/q"}], "sns_topics": [{"name": "t", "arn": "arn:aws:sns:us-east-1:1:t"}, {"name": "off", "arn": "arn:aws:sns:us-east-1:1:off", "enabled": false}]}`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("S3_FORWARDER_CONFIG", destinations)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("PUSHGATEWAY_URL", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInvokeDryRun(t *testing.T) {
	trigger := `{"Records":[{"eventSource":"aws:s3","eventName":"ObjectCreated:Put","s3":{"bucket":{"name":"b"},"object":{"key":"k"}}}]}`

	out, err := execute(t, trigger, "invoke", "--dry-run")
	require.NoError(t, err)

	var resp fanout.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 200, resp.StatusCode)
	assert.True(t, resp.Body.Success)
	require.NotNil(t, resp.Body.Results)
	assert.Equal(t, 2, resp.Body.Results.TotalProcessed)
	for _, o := range resp.Body.Results.Successes {
		assert.NotEmpty(t, o.MessageID)
	}
}

func TestInvokeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"unknown":true}`), 0o600))

	out, err := execute(t, "", "invoke", "--dry-run", "--event", path)
	require.NoError(t, err)

	var resp fanout.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 400, resp.StatusCode)
}

func TestInvokeMissingFile(t *testing.T) {
	_, err := execute(t, "", "invoke", "--dry-run", "--event", filepath.Join(t.TempDir(), "missing.json"))

	assert.ErrorContains(t, err, "read event")
}

func TestVerify(t *testing.T) {
	out, err := execute(t, "", "verify")
	require.NoError(t, err)

	var v fanout.Verification
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "environment", v.Origin)
	assert.Equal(t, 3, v.Total)
	assert.Len(t, v.Enabled, 2)
	assert.Equal(t, fanout.VerificationSuccess, v.Status)
	assert.NotEmpty(t, v.Timestamp)
}

func TestDryRunSenders(t *testing.T) {
	s := dryRunSenders(zap.NewNop())

	id1, err := s.Queue.SendQueue(context.Background(), "url", fanout.Message{})
	require.NoError(t, err)
	id2, err := s.Topic.Publish(context.Background(), "arn", fanout.Message{})
	require.NoError(t, err)

	assert.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)
}
