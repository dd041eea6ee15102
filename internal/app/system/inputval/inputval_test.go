package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		// Valid emails
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},
		{"user123@example.co.uk", true},
		{"a@b.co", true},
		{"user@localhost", true},   // RFC 5322 allows single-label domains
		{"admin@mailserver", true}, // useful for dev/test environments

		// Invalid emails - empty/whitespace
		{"", false},
		{"   ", false},

		// Invalid emails - missing parts
		{"user", false},
		{"user@", false},
		{"@example.com", false},

		// Invalid emails - bad format
		{".user@example.com", false},
		{"user.@example.com", false},
		{"user..name@example.com", false},
		{"user@.example.com", false},
		{"user@example..com", false},

		// Invalid emails - display name format
		{"User Name <user@example.com>", false},

		// Invalid emails - other malformed
		{"user @example.com", false},
		{"user@ example.com", false},
		{"user@exam ple.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidate_Required(t *testing.T) {
	type input struct {
		Name string `validate:"required,max=200" label:"Name"`
	}

	res := Validate(input{Name: ""})
	if !res.HasErrors() {
		t.Fatal("expected error for missing required field")
	}
	if res.First() != "Name is required." {
		t.Errorf("First() = %q", res.First())
	}

	res = Validate(input{Name: "ok"})
	if res.HasErrors() {
		t.Errorf("unexpected errors: %v", res.Errors)
	}
}

func TestValidate_Max(t *testing.T) {
	type input struct {
		Name string `validate:"max=5" label:"Name"`
	}

	if res := Validate(input{Name: "123456"}); !res.HasErrors() {
		t.Error("expected error for over-long field")
	}
	if res := Validate(input{Name: "12345"}); res.HasErrors() {
		t.Errorf("unexpected errors: %v", res.Errors)
	}
}

func TestValidate_Email(t *testing.T) {
	type input struct {
		Email string `validate:"required,email" label:"Email"`
	}

	if res := Validate(input{Email: "not-an-email"}); !res.HasErrors() {
		t.Error("expected error for malformed email")
	}
	if res := Validate(input{Email: "a@b.co"}); res.HasErrors() {
		t.Errorf("unexpected errors: %v", res.Errors)
	}
}

func TestValidate_MultipleFields(t *testing.T) {
	type input struct {
		Name  string `validate:"required" label:"Name"`
		Email string `validate:"required,email" label:"Email"`
	}

	res := Validate(input{})
	if len(res.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d: %v", len(res.Errors), res.Errors)
	}
}
