package hash

import "testing"

func TestSHA256Hex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:  "bvid",
			input: "BV1xx411c7mD",
			want:  SHA256Hex("BV1xx411c7mD"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SHA256Hex(tt.input)
			if len(got) != 64 {
				t.Errorf("SHA256Hex(%q) length = %d, want 64", tt.input, len(got))
			}
			if got != tt.want {
				t.Errorf("SHA256Hex(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestSHA256Hex_Deterministic(t *testing.T) {
	a := SHA256Hex("same-input")
	b := SHA256Hex("same-input")
	if a != b {
		t.Errorf("same input produced different hashes: %s vs %s", a, b)
	}
}

func TestShortHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		n       int
		wantLen int
	}{
		{"normal prefix", "10.0.0.1", 12, 12},
		{"full length", "10.0.0.1", 64, 64},
		{"over length clamps", "10.0.0.1", 100, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShortHex(tt.input, tt.n)
			if len(got) != tt.wantLen {
				t.Errorf("ShortHex(%q, %d) length = %d, want %d", tt.input, tt.n, len(got), tt.wantLen)
			}
			if got != SHA256Hex(tt.input)[:tt.wantLen] {
				t.Errorf("ShortHex is not a prefix of the full hash")
			}
		})
	}
}

func TestHashIP_SaltChangesOutput(t *testing.T) {
	a := HashIP("192.168.1.1", "salt-a")
	b := HashIP("192.168.1.1", "salt-b")
	if a == b {
		t.Error("different salts produced the same IP hash")
	}
}

func TestHashIP_ShortAndDeterministic(t *testing.T) {
	a := HashIP("192.168.1.1", "salt")
	b := HashIP("192.168.1.1", "salt")
	if a != b {
		t.Errorf("same input produced different hashes: %s vs %s", a, b)
	}
	if len(a) != 12 {
		t.Errorf("HashIP length = %d, want 12", len(a))
	}
	if a == HashIP("192.168.1.2", "salt") {
		t.Error("different IPs produced the same hash")
	}
}
