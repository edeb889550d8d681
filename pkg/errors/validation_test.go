package errors

import (
	"math"
	"testing"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{"one", 1, false},
		{"large", 4096, false},
		{"zero", 0, true},
		{"negative", -3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("x-cells", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositive(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}

func TestValidatePositiveFloat(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"small", 0.001, false},
		{"canvas", 512, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositiveFloat("width", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositiveFloat(%g) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUnitRange(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"middle", 0.5, false},
		{"below", -0.01, true},
		{"above", 1.01, true},
		{"nan", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUnitRange("value-low", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUnitRange(%g) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOneOf(t *testing.T) {
	allowed := []string{"px", "mm", "cm"}

	if err := ValidateOneOf("units", "mm", allowed); err != nil {
		t.Errorf("ValidateOneOf(mm) = %v, want nil", err)
	}

	err := ValidateOneOf("units", "furlong", allowed)
	if err == nil {
		t.Fatal("ValidateOneOf(furlong) = nil, want error")
	}
	if !Is(err, ErrCodeInvalidMode) {
		t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidMode)
	}
	want := `invalid units: "furlong" (must be one of: px, mm, cm)`
	if UserMessage(err) != want {
		t.Errorf("UserMessage() = %q, want %q", UserMessage(err), want)
	}
}
