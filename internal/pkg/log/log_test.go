package log

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestToFields_PairsErrorsAndDanglingValue(t *testing.T) {
	fields := toFields("command_type", "harvest_resource", errors.New("boom"), zap.Int("n", 3), "dangling")
	if len(fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(fields))
	}
	if fields[0].Key != "command_type" {
		t.Fatalf("unexpected first key %q", fields[0].Key)
	}
	if fields[1].Key != "error" {
		t.Fatalf("expected error field, got %q", fields[1].Key)
	}
	if fields[2].Key != "n" {
		t.Fatalf("expected passthrough zap field, got %q", fields[2].Key)
	}
	if fields[3].Key != "arg#4" {
		t.Fatalf("expected dangling arg key, got %q", fields[3].Key)
	}
}

func TestZapLogger_WithValuesAndError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).WithName("dispatcher").WithValues("area", "north")

	l.Error(errors.New("handler exploded"), "dispatch failed", "command_type", "destroy_node")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["area"] != "north" || ctx["command_type"] != "destroy_node" {
		t.Fatalf("unexpected context: %v", ctx)
	}
	if ctx["error"] != "handler exploded" {
		t.Fatalf("expected error field, got %v", ctx["error"])
	}
	if entries[0].LoggerName != "dispatcher" {
		t.Fatalf("unexpected logger name %q", entries[0].LoggerName)
	}
}

func TestNew_FallsBackToInfoOnUnknownLevel(t *testing.T) {
	l, err := New(Options{Level: "loud", Format: "json"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l == nil {
		t.Fatalf("expected logger")
	}
}
