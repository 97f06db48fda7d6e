package license

import (
	"testing"

	"github.com/nexushq/nexus-core/pkg/schema"
)

func TestRedeem(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"NEXUS-PRO-2025", true},
		{"nexus-pro-2025", true}, // case-insensitive
		{"  VIP-CLIENT-X  ", true},
		{"Admin-Unlock", true},
		{"bogus-code", false},
		{"", false},
		{"NEXUS-PRO-2024", false},
	}
	for _, tc := range cases {
		if got := Redeem(tc.code); got != tc.want {
			t.Errorf("Redeem(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestRedeemDoesNotMutate(t *testing.T) {
	u := schema.User{ID: "u1", Plan: schema.PlanFree}
	Redeem("bogus-code")
	Redeem("NEXUS-PRO-2025")
	if u.Plan != schema.PlanFree {
		t.Error("Redeem must not alter any plan itself")
	}
}

func TestHasEntitlement(t *testing.T) {
	if HasEntitlement(schema.User{Plan: schema.PlanFree}) {
		t.Error("free plan must not be entitled")
	}
	if !HasEntitlement(schema.User{Plan: schema.PlanPremium}) {
		t.Error("premium plan must be entitled")
	}
}
