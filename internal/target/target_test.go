package target

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw      string
		keepHost bool
		want     string
		wantErr  bool
	}{
		{"example.com", false, "example.com", false},
		{"  WWW.Example.COM.  ", false, "example.com", false},
		{"https://shop.example.co.uk/path?q=1", false, "example.co.uk", false},
		{"https://dev.api.example.com:8443", true, "dev.api.example.com", false},
		{"dev.api.example.com", false, "example.com", false},
		{"", false, "", true},
		{"localhost", false, "", true},
		{"bad_label.example.com", true, "", true},
		{"-bad.example.com", true, "", true},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.raw, tt.keepHost)
		if (err != nil) != tt.wantErr {
			t.Errorf("Normalize(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
