// Package license gates premium features behind a plan flag and a static
// list of activation codes. The codes are plain strings compiled into the
// client; this reproduces the product's behavior, not a security posture.
package license

import (
	"strings"

	"github.com/nexushq/nexus-core/pkg/schema"
)

// validCodes is the fixed allow-list issued by the vendor.
var validCodes = []string{
	"NEXUS-PRO-2025",
	"VIP-CLIENT-X",
	"ADMIN-UNLOCK",
}

// HasEntitlement reports whether the user is on the premium plan.
func HasEntitlement(u schema.User) bool {
	return u.Plan == schema.PlanPremium
}

// Redeem reports whether code is a valid activation code, case-insensitively.
// It does not mutate anything: on success the caller flips the user's plan
// and persists it through the directory.
func Redeem(code string) bool {
	upper := strings.ToUpper(strings.TrimSpace(code))
	for _, valid := range validCodes {
		if upper == valid {
			return true
		}
	}
	return false
}
