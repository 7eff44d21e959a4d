// Command fanout forwards S3 notifications to SQS queues and SNS topics.
//
// Run without arguments (as the Lambda runtime does) it serves Lambda
// invocations. The verify and invoke subcommands inspect the configured
// destinations and process a single event locally.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
