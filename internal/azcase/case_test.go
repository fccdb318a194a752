package azcase

import "testing"

func TestLower(t *testing.T) {
	tests := []struct {
		in, want rune
	}{
		{'I', 'ı'},
		{'İ', 'i'},
		{'A', 'a'},
		{'Ə', 'ə'},
		{'Ş', 'ş'},
		{'z', 'z'},
		{'Д', 'д'},
		{'7', '7'},
	}
	for _, tt := range tests {
		if got := Lower(tt.in); got != tt.want {
			t.Errorf("Lower(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUpper(t *testing.T) {
	tests := []struct {
		in, want rune
	}{
		{'i', 'İ'},
		{'ı', 'I'},
		{'a', 'A'},
		{'ə', 'Ə'},
		{'ğ', 'Ğ'},
		{'д', 'Д'},
		{'-', '-'},
	}
	for _, tt := range tests {
		if got := Upper(tt.in); got != tt.want {
			t.Errorf("Upper(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLowerUpperRoundTrip(t *testing.T) {
	for _, r := range []rune{'i', 'ı', 'a', 'ə', 'ç'} {
		if got := Lower(Upper(r)); got != r {
			t.Errorf("Lower(Upper(%q)) = %q, want identity", r, got)
		}
	}
}
