// Package schema defines the record types shared across the Nexus workspace core.
package schema

// Plan is the entitlement tier on a user record.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// Presence is the user's broadcast availability state.
type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceOffline Presence = "offline"
	PresenceBusy    Presence = "busy"
)

// BotUserID is the reserved sender id for messages the system writes itself.
const BotUserID = "bot-system"

// Theme holds per-workspace branding overrides on a user record.
type Theme struct {
	PrimaryColor string `json:"primaryColor"`
	SidebarColor string `json:"sidebarColor"`
	LogoURL      string `json:"logoUrl,omitempty"`
	AppName      string `json:"appName,omitempty"`
	CompanyName  string `json:"companyName,omitempty"`
}

// User is one identity in the workspace directory. One user record is
// additionally mirrored as the current session user.
//
// Password is stored and compared in plaintext. That reproduces the
// behavior of the client this core was extracted from; auth here is
// advisory, not a security boundary.
type User struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email,omitempty"`
	Password        string   `json:"password,omitempty"`
	Avatar          string   `json:"avatar"`
	Status          Presence `json:"status"`
	StatusMessage   string   `json:"statusMessage,omitempty"`
	Plan            Plan     `json:"plan"`
	Theme           *Theme   `json:"theme,omitempty"`
	HasSeenTutorial bool     `json:"hasSeenTutorial,omitempty"`
	IsAdmin         bool     `json:"isAdmin,omitempty"`
}
