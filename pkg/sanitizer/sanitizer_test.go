package sanitizer

import "testing"

func TestGuestName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Ada   Lovelace ", "Ada Lovelace"},
		{"José\tÁlvarez", "José Álvarez"},
		{"Bob\x00by", "Bobby"},
		{"Mary\r\nAnne\n", "Mary Anne"},
		{"\tLin \x07 Wei", "Lin Wei"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := GuestName(tt.in); got != tt.want {
			t.Errorf("GuestName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEmail(t *testing.T) {
	if got := Email("  Guest@Example.COM "); got != "guest@example.com" {
		t.Errorf("unexpected email %q", got)
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"already e164", "+14155552671", "+14155552671"},
		{"us national", "(415) 555-2671", "+14155552671"},
		{"uk with prefix", "+44 20 7946 0958", "+442079460958"},
		{"empty", "   ", ""},
		{"garbage kept for validator", "call me", "call me"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Phone(tt.in); got != tt.want {
				t.Errorf("Phone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{" bk-2024/05 ", "BK-202405"},
		{"walk_in 17", "WALK_IN17"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Identifier(tt.in); got != tt.want {
			t.Errorf("Identifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNote(t *testing.T) {
	if got := Note("  restock\n\n after   check-in ", 0); got != "restock after check-in" {
		t.Errorf("unexpected note %q", got)
	}
	if got := Note("abcdefgh", 4); got != "abcd" {
		t.Errorf("expected truncation, got %q", got)
	}
}

func TestIdempotent(t *testing.T) {
	inputs := []string{"  Ada   Lovelace ", "(415) 555-2671", " bk-1 ", "A@B.C"}
	for _, fn := range []Strategy{GuestName, Phone, Identifier, Email} {
		for _, in := range inputs {
			once := fn(in)
			if twice := fn(once); twice != once {
				t.Errorf("not idempotent: %q -> %q -> %q", in, once, twice)
			}
		}
	}
}
