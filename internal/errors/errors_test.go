package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("something went wrong"), expected: "Error: something went wrong"},
		{
			name:     "validation error",
			err:      &ValidationError{Field: "title", Reason: "cannot be empty"},
			expected: "Error: invalid title: cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("failed to load %s", "events")
	if got != "Error: failed to load events" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestTaxonomyUnwrap(t *testing.T) {
	cause := errors.New("disk full")

	storageErr := fmt.Errorf("persist: %w", &StorageError{Op: "write", Key: "calendar_events", Err: cause})
	if !errors.Is(storageErr, cause) {
		t.Error("expected StorageError to unwrap to its cause")
	}
	var se *StorageError
	if !errors.As(storageErr, &se) || se.Op != "write" {
		t.Errorf("errors.As(StorageError) failed: %v", storageErr)
	}

	deliveryErr := &DeliveryError{Channel: "email", Err: cause}
	if !errors.Is(deliveryErr, cause) {
		t.Error("expected DeliveryError to unwrap to its cause")
	}
	if !strings.Contains(deliveryErr.Error(), "email delivery failed") {
		t.Errorf("unexpected message %q", deliveryErr.Error())
	}

	if !IsValidation(fmt.Errorf("create: %w", &ValidationError{Field: "date", Reason: "empty"})) {
		t.Error("expected wrapped ValidationError to be detected")
	}
	if IsValidation(ErrNotFound) {
		t.Error("ErrNotFound must not be a validation error")
	}
}

// TestFatal runs Fatal in a subprocess and checks the exit code and stderr.
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatal_NilError$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
