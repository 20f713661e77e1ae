package validation

import (
	"errors"
	"strings"
	"testing"
)

type bootstrapOptions struct {
	Replicates int     `validate:"min=1"`
	Resolution float64 `validate:"gt=0"`
	Format     string  `validate:"omitempty,oneof=json yaml text"`
}

func TestConfigValidator_CollectsAllErrors(t *testing.T) {
	err := NewConfigValidator("ensemble").
		Positive("num_bootstraps", 0).
		PositiveFloat("resolution", -1).
		MinInt("num_trials", 5, 1).
		Validate()

	if err == nil {
		t.Fatal("Expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"ensemble.num_bootstraps", "ensemble.resolution"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %q in %q", want, msg)
		}
	}
	if strings.Contains(msg, "num_trials") {
		t.Errorf("Valid field reported: %q", msg)
	}
}

func TestConfigValidator_OpenUnitInterval(t *testing.T) {
	tests := []struct {
		value   float64
		wantErr bool
	}{
		{0.05, false},
		{0, true},
		{1, true},
		{1.5, true},
	}

	for _, tt := range tests {
		cv := NewConfigValidator("sigclu").OpenUnitInterval("significance", tt.value)
		if cv.HasErrors() != tt.wantErr {
			t.Errorf("OpenUnitInterval(%v): HasErrors = %v, want %v", tt.value, cv.HasErrors(), tt.wantErr)
		}
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	cv := NewConfigValidator("export").OneOf("format", "csv", []string{"json", "yaml"})
	if !cv.HasErrors() {
		t.Error("Expected error for disallowed value")
	}
}

func TestConfigValidator_CustomAndWhen(t *testing.T) {
	sentinel := errors.New("bucket missing")

	err := NewConfigValidator("store").
		When(true, func(cv *ConfigValidator) {
			cv.Custom("s3", func() error { return sentinel })
		}).
		When(false, func(cv *ConfigValidator) {
			cv.Positive("never", 0)
		}).
		Validate()

	if !errors.Is(err, sentinel) {
		t.Errorf("Expected wrapped sentinel, got %v", err)
	}
	if strings.Contains(err.Error(), "never") {
		t.Error("When(false) validations should not run")
	}
}

func TestStruct(t *testing.T) {
	if err := Struct(bootstrapOptions{Replicates: 10, Resolution: 1}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	err := Struct(bootstrapOptions{Replicates: 0, Resolution: 0, Format: "csv"})
	if err == nil {
		t.Fatal("Expected error")
	}
	msg := err.Error()
	for _, want := range []string{"Replicates: must be at least 1", "Resolution: must be greater than 0", "Format: must be one of"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %q in %q", want, msg)
		}
	}
}

func TestConfigValidator_Struct(t *testing.T) {
	cv := NewConfigValidator("run").Struct("bootstrap", bootstrapOptions{Resolution: 1})
	if !cv.HasErrors() || len(cv.Errors()) != 1 {
		t.Errorf("Expected a single struct error, got %v", cv.Errors())
	}
}

func TestDefaultOr(t *testing.T) {
	if DefaultOr("", "json") != "json" {
		t.Error("Expected default for zero value")
	}
	if DefaultOr(3, 5) != 3 {
		t.Error("Expected value for non-zero")
	}
}
