// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestErrKeyConstant(t *testing.T) {
	if ErrKey != "error" {
		t.Errorf("expected ErrKey to be 'error', got %q", ErrKey)
	}
}

func TestAppendCtx(t *testing.T) {
	attr := slog.String("key1", "value1")
	ctx := AppendCtx(context.TODO(), attr)

	if ctx == nil {
		t.Fatal("expected non-nil context")
	}

	attrs, ok := ctx.Value(slogFields).([]slog.Attr)
	if !ok {
		t.Fatal("expected slog attributes in context")
	}
	if len(attrs) != 1 {
		t.Errorf("expected 1 attribute, got %d", len(attrs))
	}
	if attrs[0].Key != "key1" {
		t.Errorf("expected key 'key1', got %q", attrs[0].Key)
	}
	if attrs[0].Value.String() != "value1" {
		t.Errorf("expected value 'value1', got %q", attrs[0].Value.String())
	}
}

func TestAppendCtx_WithParent(t *testing.T) {
	parentCtx := AppendCtx(context.Background(), slog.String("parent_key", "parent_value"))
	childCtx := AppendCtx(parentCtx, slog.String("child_key", "child_value"))

	attrs, ok := childCtx.Value(slogFields).([]slog.Attr)
	if !ok {
		t.Fatal("expected slog attributes in context")
	}
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "parent_key" {
		t.Errorf("expected first key 'parent_key', got %q", attrs[0].Key)
	}
	if attrs[1].Key != "child_key" {
		t.Errorf("expected second key 'child_key', got %q", attrs[1].Key)
	}
}

func TestContextHandler_AddsContextAttributes(t *testing.T) {
	var captured *slog.Record
	inner := &testSlogHandler{
		handleFunc: func(ctx context.Context, r slog.Record) error {
			captured = &r
			return nil
		},
	}

	handler := contextHandler{inner}
	ctx := AppendCtx(context.Background(), slog.String("request_id", "abc-123"))

	record := slog.Record{Message: "test message", Level: slog.LevelInfo}
	if err := handler.Handle(ctx, record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured == nil {
		t.Fatal("expected record to be handled")
	}

	found := false
	captured.Attrs(func(a slog.Attr) bool {
		if a.Key == "request_id" && a.Value.String() == "abc-123" {
			found = true
			return false
		}
		return true
	})
	if !found {
		t.Error("expected request_id attribute from context to be added to record")
	}
}

func TestPriority(t *testing.T) {
	attr := Priority("high")
	if attr.Key != "priority" || attr.Value.String() != "high" {
		t.Errorf("unexpected priority attribute: %v", attr)
	}

	critical := PriorityCritical()
	if critical.Key != "priority" || critical.Value.String() != "critical" {
		t.Errorf("unexpected critical priority attribute: %v", critical)
	}
}

// testSlogHandler is a minimal slog.Handler for capturing records in tests
type testSlogHandler struct {
	handleFunc func(ctx context.Context, r slog.Record) error
}

func (h *testSlogHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *testSlogHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.handleFunc(ctx, r)
}

func (h *testSlogHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *testSlogHandler) WithGroup(string) slog.Handler { return h }
