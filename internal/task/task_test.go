package task

import (
	"strings"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "Buy milk", "Buy milk", false},
		{"trims whitespace", "  Write report  ", "Write report", false},
		{"trims tabs and newlines", "\t\nCall dentist\n", "Call dentist", false},
		{"empty", "", "", true},
		{"whitespace only", "   \t  ", "", true},
		{"exactly max length", strings.Repeat("a", 200), strings.Repeat("a", 200), false},
		{"one over max", strings.Repeat("a", 201), "", true},
		{"padded to max is fine", "  " + strings.Repeat("a", 200) + "  ", strings.Repeat("a", 200), false},
		{"multibyte counts characters not bytes", strings.Repeat("日", 200), strings.Repeat("日", 200), false},
		{"multibyte one over max", strings.Repeat("日", 201), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTitle(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got title %q", got)
				}
				if !IsValidation(err) {
					t.Errorf("expected ValidationError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("Pending"); err != nil || s != StatusPending {
		t.Errorf("ParseStatus(Pending) = %q, %v", s, err)
	}
	if s, err := ParseStatus("Completed"); err != nil || s != StatusCompleted {
		t.Errorf("ParseStatus(Completed) = %q, %v", s, err)
	}
	for _, bad := range []string{"", "pending", "COMPLETED", "Done", "In Progress"} {
		if _, err := ParseStatus(bad); err == nil {
			t.Errorf("ParseStatus(%q): expected error", bad)
		} else if !IsValidation(err) {
			t.Errorf("ParseStatus(%q): expected ValidationError, got %T", bad, err)
		}
	}
}

func TestStatusToggle(t *testing.T) {
	if StatusPending.Toggle() != StatusCompleted {
		t.Error("Pending should toggle to Completed")
	}
	if StatusCompleted.Toggle() != StatusPending {
		t.Error("Completed should toggle to Pending")
	}
}

func TestPatchIsZero(t *testing.T) {
	if !(Patch{}).IsZero() {
		t.Error("empty patch should be zero")
	}
	title := "x"
	if (Patch{Title: &title}).IsZero() {
		t.Error("patch with title should not be zero")
	}
	status := StatusCompleted
	if (Patch{Status: &status}).IsZero() {
		t.Error("patch with status should not be zero")
	}
}
