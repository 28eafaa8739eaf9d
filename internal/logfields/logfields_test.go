package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Stage", KeyStage, "load", Stage("load")},
		{"Slug", KeySlug, "my-post", Slug("my-post")},
		{"File", KeyFile, "2024-01-05-my-post", File("2024-01-05-my-post")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Outcome", KeyOutcome, "success", Outcome("success")},
		{"Method", KeyMethod, "GET", Method("GET")},
		{"RemoteAddr", KeyRemoteAddr, "1.2.3.4", RemoteAddr("1.2.3.4")},
		{"UserAgent", KeyUserAgent, "ua", UserAgent("ua")},
		{"Language", KeyLanguage, "cs", Language("cs")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if v := Count(3); v.Key != KeyCount || v.Value.Int64() != 3 {
		t.Fatalf("Count mismatch: %v", v)
	}
	if v := Status(404); v.Key != KeyStatus {
		t.Fatalf("Status key mismatch: %s", v.Key)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS {
		t.Fatalf("DurationMS key mismatch: %s", v.Key)
	}
}

func TestErrorHelper(t *testing.T) {
	if attr := Error(nil); attr.Value.String() != "" {
		t.Fatalf("expected empty error string, got %s", attr.Value.String())
	}
	if attr := Error(errors.New("err-test")); attr.Value.String() != "err-test" {
		t.Fatalf("expected 'err-test', got %s", attr.Value.String())
	}
}
