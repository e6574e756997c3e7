package service

import "testing"

func TestTierForPoints(t *testing.T) {
	tests := []struct {
		name   string
		points int
		want   string
	}{
		{"zero points", 0, TierBronze},
		{"just under silver", 99, TierBronze},
		{"exactly silver", 100, TierSilver},
		{"mid silver", 499, TierSilver},
		{"exactly gold", 500, TierGold},
		{"just under platinum", 999, TierGold},
		{"exactly platinum", 1000, TierPlatinum},
		{"far past platinum", 100000, TierPlatinum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TierForPoints(tt.points)
			if got != tt.want {
				t.Errorf("TierForPoints(%d) = %s, want %s", tt.points, got, tt.want)
			}
		})
	}
}
