package enums

import "testing"

func TestParseSubmissionStatus(t *testing.T) {
	for _, s := range validSubmissionStatuses {
		got, err := ParseSubmissionStatus(string(s))
		if err != nil || got != s {
			t.Fatalf("round trip failed for %q: %v", s, err)
		}
	}
	if _, err := ParseSubmissionStatus("shipped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestSubmissionStatusTerminal(t *testing.T) {
	if SubmissionStatusPending.IsTerminal() {
		t.Fatal("pending must not be terminal")
	}
	for _, s := range []SubmissionStatus{SubmissionStatusAccepted, SubmissionStatusRejected, SubmissionStatusFailed, SubmissionStatusAbandoned} {
		if !s.IsTerminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	if SubmissionStatus("bogus").IsTerminal() {
		t.Fatal("unknown status must not be terminal")
	}
}

func TestParseSubmissionKind(t *testing.T) {
	if k, err := ParseSubmissionKind("direct"); err != nil || k != SubmissionKindDirect {
		t.Fatalf("unexpected parse result %q %v", k, err)
	}
	if _, err := ParseSubmissionKind("wishlist"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestParseDeliveryOption(t *testing.T) {
	if d, err := ParseDeliveryOption(" Outside "); err != nil || d != DeliveryOptionOutside {
		t.Fatalf("unexpected parse result %q %v", d, err)
	}
	if _, err := ParseDeliveryOption("abroad"); err == nil {
		t.Fatal("expected error for unknown option")
	}
}
