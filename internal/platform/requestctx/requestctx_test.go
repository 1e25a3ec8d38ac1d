package requestctx

import (
	"context"
	"testing"
)

func TestMemberIDFromContextRoundTrip(t *testing.T) {
	ctx := WithMemberID(context.Background(), "member-42")
	got := MemberIDFromContext(ctx)
	if got != "member-42" {
		t.Fatalf("MemberIDFromContext = %q, want %q", got, "member-42")
	}
}

func TestMemberIDFromContextEmpty(t *testing.T) {
	got := MemberIDFromContext(context.Background())
	if got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestMemberIDFromContextNil(t *testing.T) {
	got := MemberIDFromContext(nil)
	if got != "" {
		t.Fatalf("expected empty string for nil context, got %q", got)
	}
}

func TestWithMemberIDNilContext(t *testing.T) {
	ctx := WithMemberID(nil, "member-99")
	if ctx == nil {
		t.Fatalf("expected non-nil context")
	}
	if got := MemberIDFromContext(ctx); got != "member-99" {
		t.Fatalf("MemberIDFromContext = %q, want %q", got, "member-99")
	}
}
