package validation

import "testing"

type orderRequest struct {
	Amount int64  `validate:"required,gt=0"`
	UserID string `validate:"required,uuid"`
}

func TestValidateStruct(t *testing.T) {
	v := NewValidator()

	valid := orderRequest{Amount: 500, UserID: "8c2f9a60-7a51-4a2e-9a61-0f5c1d2e3f4a"}
	if err := v.ValidateStruct(valid); err != nil {
		t.Fatalf("Expected valid struct, got: %v", err)
	}

	invalid := orderRequest{Amount: 0, UserID: "not-a-uuid"}
	err := v.ValidateStruct(invalid)
	if err == nil {
		t.Fatal("Expected validation errors")
	}

	formatted := FormatValidationErrors(err)
	if _, ok := formatted["amount"]; !ok {
		t.Error("Expected an error for amount")
	}
	if got := formatted["userid"]; got != "UserID must be a valid UUID" {
		t.Errorf("Unexpected uuid message: %q", got)
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"a\x00b", "ab"},
		{"\x00  x \x00", "x"},
	}
	for _, tt := range tests {
		if got := SanitizeString(tt.in); got != tt.want {
			t.Errorf("SanitizeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
