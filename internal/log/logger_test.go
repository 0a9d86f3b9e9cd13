// SPDX-License-Identifier: MIT
package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestWithComponentFromContext(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "test"})

	ctx := ContextWithMarket(ContextWithRunID(context.Background(), "r-1"), "it")
	logger := WithComponentFromContext(ctx, "jobs")
	logger.Info().Str("event", "test.event").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, buf.String())
	}
	for key, want := range map[string]string{
		"component": "jobs",
		"run_id":    "r-1",
		"market":    "it",
		"event":     "test.event",
		"service":   "test",
	} {
		if got, _ := entry[key].(string); got != want {
			t.Errorf("field %s = %q, want %q", key, got, want)
		}
	}
}

func TestFromContextWithoutFields(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf})

	FromContext(context.Background()).Info().Msg("bare")
	if buf.Len() == 0 {
		t.Fatal("expected log output")
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if _, ok := entry["run_id"]; ok {
		t.Error("run_id must be absent when context carries none")
	}
}
