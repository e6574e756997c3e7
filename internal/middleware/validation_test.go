package middleware

import "testing"

func TestValidateBVID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid bvid", "BV1xx411c7mD", "BV1xx411c7mD", false},
		{"whitespace trimmed", "  BV1xx411c7mD  ", "BV1xx411c7mD", false},
		{"empty", "", "", true},
		{"missing prefix", "1xx411c7mD", "", true},
		{"lowercase prefix", "bv1xx411c7mD", "", true},
		{"special characters", "BV1xx411c7mD;DROP", "", true},
		{"too long", "BV123456789012345678901234567890", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateBVID(tt.input)
			if (errMsg != "") != tt.wantErr {
				t.Errorf("ValidateBVID(%q) error = %q, wantErr %v", tt.input, errMsg, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateBVID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "alice", false},
		{"with digits and dash", "user-42_x", false},
		{"empty", "", true},
		{"spaces inside", "a b", true},
		{"too long", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errMsg := ValidateUsername(tt.input)
			if (errMsg != "") != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %q, wantErr %v", tt.input, errMsg, tt.wantErr)
			}
		})
	}
}

func TestValidateBatch(t *testing.T) {
	t.Run("valid list", func(t *testing.T) {
		got, errMsg := ValidateBatch([]string{"BV1xx411c7mD", "BV1yy411c7mE"})
		if errMsg != "" {
			t.Fatalf("unexpected error: %s", errMsg)
		}
		if len(got) != 2 {
			t.Errorf("got %d entries, want 2", len(got))
		}
	})

	t.Run("empty list rejected", func(t *testing.T) {
		if _, errMsg := ValidateBatch(nil); errMsg == "" {
			t.Error("expected error for empty list")
		}
	})

	t.Run("one bad entry rejects the batch", func(t *testing.T) {
		if _, errMsg := ValidateBatch([]string{"BV1xx411c7mD", "nope"}); errMsg == "" {
			t.Error("expected error for invalid entry")
		}
	})

	t.Run("oversized batch rejected", func(t *testing.T) {
		bvids := make([]string, MaxBatchBVIDs+1)
		for i := range bvids {
			bvids[i] = "BV1xx411c7mD"
		}
		if _, errMsg := ValidateBatch(bvids); errMsg == "" {
			t.Error("expected error for oversized batch")
		}
	})
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name         string
		page, size   int
		wantPage     int
		wantPageSize int
	}{
		{"defaults", 0, 0, 1, 10},
		{"negative page", -3, 10, 1, 10},
		{"size capped", 2, 500, 2, MaxPageSize},
		{"passthrough", 3, 25, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := ClampPage(tt.page, tt.size)
			if page != tt.wantPage || size != tt.wantPageSize {
				t.Errorf("ClampPage(%d, %d) = (%d, %d), want (%d, %d)",
					tt.page, tt.size, page, size, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}
