package codec

import "testing"

func TestIsValid(t *testing.T) {
	cases := []struct {
		tag  uint16
		want bool
	}{
		{WMAv1, true},
		{WMAv2, true},
		{0x0055, false}, // MP3.
		{0x0000, false},
	}
	for _, c := range cases {
		if got := IsValid(c.tag); got != c.want {
			t.Errorf("IsValid(0x%04x) = %v, want %v", c.tag, got, c.want)
		}
	}
}

func TestName(t *testing.T) {
	if Name(WMAv1) != "wmav1" {
		t.Errorf("Name(WMAv1) = %q, want wmav1", Name(WMAv1))
	}
	if Name(0x9999) != "" {
		t.Errorf("Name(unknown) = %q, want empty string", Name(0x9999))
	}
}
