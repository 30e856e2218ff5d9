package instance

import "testing"

func TestIDPrefersDyno(t *testing.T) {
	t.Setenv("DYNO", "web.2")
	t.Setenv("STOREFRONT_INSTANCE_ID", "explicit")
	if got := ID(); got != "web.2" {
		t.Fatalf("expected dyno id, got %q", got)
	}
}

func TestIDFallsBackToExplicitThenHost(t *testing.T) {
	t.Setenv("DYNO", "")
	t.Setenv("STOREFRONT_INSTANCE_ID", "cron-a")
	if got := ID(); got != "cron-a" {
		t.Fatalf("expected explicit id, got %q", got)
	}

	t.Setenv("STOREFRONT_INSTANCE_ID", " ")
	if got := ID(); got == "" {
		t.Fatal("expected hostname or local fallback")
	}
}
