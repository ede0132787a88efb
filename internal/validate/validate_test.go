package validate_test

import (
	"errors"
	"testing"
	"time"

	"github.com/adamwoolhether/rester/internal/validate"
)

type settings struct {
	Endpoint string        `mapstructure:"endpoint" validate:"required,url"`
	Timeout  time.Duration `json:"timeout" validate:"gte=0"`
	Mode     string        `validate:"omitempty,oneof=fast slow"`
}

func TestCheck_Valid(t *testing.T) {
	s := settings{Endpoint: "https://api.example.com", Timeout: time.Second, Mode: "fast"}
	if err := validate.Check(&s); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestCheck_MissingRequired(t *testing.T) {
	err := validate.Check(&settings{})
	if err == nil {
		t.Fatal("expected error for missing required field")
	}

	var fe validate.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %T", err)
	}

	fields := fe.Fields()
	if fields["endpoint"] != "This field is required" {
		t.Fatalf("endpoint error = %q, want %q", fields["endpoint"], "This field is required")
	}
}

func TestCheck_FieldNames(t *testing.T) {
	s := settings{Endpoint: "not a url", Timeout: -time.Second, Mode: "medium"}
	err := validate.Check(&s)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	var fe validate.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %T", err)
	}

	fields := fe.Fields()
	for _, name := range []string{"endpoint", "timeout", "Mode"} {
		if _, ok := fields[name]; !ok {
			t.Errorf("expected %q field error, got %v", name, fields)
		}
	}
}
