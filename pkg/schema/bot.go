package schema

// BotRole selects the persona preset driving a configured bot's reports.
type BotRole string

const (
	BotAuditor   BotRole = "auditor"
	BotAssistant BotRole = "assistant"
	BotManager   BotRole = "manager"
)

// BotConfig is the session-scoped configuration for the workspace bot.
// It is only persisted when the operator explicitly saves it.
type BotConfig struct {
	Name        string   `json:"name"`
	Role        BotRole  `json:"role"`
	Personality string   `json:"personality"`
	FocusAreas  []string `json:"focusAreas"`
}
