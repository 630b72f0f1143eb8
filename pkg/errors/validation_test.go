package errors

import (
	"math"
	"testing"
)

func TestValidateDimension(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{"positive", 4000, false},
		{"one", 1, false},
		{"zero", 0, true},
		{"negative", -10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimension("width", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimension(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("ValidateDimension(%d) code = %v", tt.input, GetCode(err))
			}
		})
	}
}

func TestValidateCount(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{"many", 10, false},
		{"one", 1, false},
		{"zero", 0, true},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCount("benches", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCount(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name    string
		lo, hi  float64
		wantErr bool
	}{
		{"ordered", -50, 50, false},
		{"equal", 3, 3, false},
		{"inverted", 900, 500, true},
		{"nan", math.NaN(), 1, true},
		{"inf", 0, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange("magnitude", tt.lo, tt.hi)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRange(%v, %v) error = %v, wantErr %v", tt.lo, tt.hi, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	if err := ValidateNonNegative("radius", 0); err != nil {
		t.Errorf("zero should be accepted: %v", err)
	}
	if err := ValidateNonNegative("radius", -1); err == nil {
		t.Error("negative should be rejected")
	}
	if err := ValidateNonNegative("radius", math.NaN()); err == nil {
		t.Error("NaN should be rejected")
	}
}

func TestValidateAtMost(t *testing.T) {
	tests := []struct {
		input   int
		wantErr bool
	}{
		{1, false},
		{1000, false},
		{1001, true},
		{1 << 40, true},
	}
	for _, tt := range tests {
		err := ValidateAtMost("subdivisions", tt.input, 1000)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAtMost(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidConfig) {
			t.Errorf("ValidateAtMost(%d) code = %v", tt.input, GetCode(err))
		}
	}
}
