package services

import (
	"context"
	"testing"
)

func TestRunContextValues(t *testing.T) {
	ctx := context.Background()
	if _, ok := RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id on empty context")
	}
	ctx = WithRunID(ctx, "abc")
	ctx = WithStage(ctx, "extract")
	if id, ok := RunIDFromContext(ctx); !ok || id != "abc" {
		t.Fatalf("RunIDFromContext = %q, %v", id, ok)
	}
	if stage, ok := StageFromContext(ctx); !ok || stage != "extract" {
		t.Fatalf("StageFromContext = %q, %v", stage, ok)
	}
	if got := WithStage(ctx, ""); got != ctx {
		t.Fatal("expected empty stage to return original context")
	}
}
