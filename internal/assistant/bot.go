package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/nexushq/nexus-core/internal/sched"
	"github.com/nexushq/nexus-core/internal/workspace"
	"github.com/nexushq/nexus-core/pkg/schema"
)

// ReplyDelay simulates the bot "typing" before its canned answer lands.
const ReplyDelay = 1500 * time.Millisecond

// Bot is the rule-driven responder that reacts to trigger words in channel
// messages with canned replies, no provider call involved.
type Bot struct {
	store *workspace.Store
	tasks *sched.Scheduler
	clock clockwork.Clock
	log   *zap.Logger
}

func NewBot(store *workspace.Store, tasks *sched.Scheduler, clock clockwork.Clock, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{store: store, tasks: tasks, clock: clock, log: logger}
}

// Triggered reports whether a message content summons the bot.
func Triggered(content string) bool {
	lower := strings.ToLower(content)
	for _, word := range []string{"bot", "help", "status", "nexus"} {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// Observe inspects a just-sent message and, when triggered, schedules a
// delayed synthetic reply into the same channel.
func (b *Bot) Observe(channelID, content string, sender schema.User) {
	if !Triggered(content) {
		return
	}
	reply := b.composeReply(content, sender)
	b.tasks.After(ReplyDelay, func() {
		msg := schema.Message{
			ID:        ksuid.New().String(),
			SenderID:  schema.BotUserID,
			Content:   reply,
			Timestamp: b.clock.Now(),
		}
		if err := b.store.Append(channelID, msg); err != nil {
			b.log.Warn("bot reply dropped", zap.String("channel", channelID), zap.Error(err))
		}
	})
}

func (b *Bot) composeReply(content string, sender schema.User) string {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "help"):
		return "Available commands:\n- 'Status': pipeline summary\n- 'CRM': go to sales\n- 'Bot': get my attention"
	case strings.Contains(lower, "status") || strings.Contains(lower, "summary"):
		contacts := b.store.Contacts()
		var total float64
		for _, c := range contacts {
			total += c.Value
		}
		return fmt.Sprintf(
			"📊 **Current status:**\n- We have %d active deals.\n- Total pipeline value: $%s.\n- Full focus on closing!",
			len(contacts), humanize.CommafWithDigits(total, 2),
		)
	case strings.Contains(lower, "hi") || strings.Contains(lower, "hello"):
		return fmt.Sprintf("Hello, %s! Ready to sell today?", sender.Name)
	default:
		return "I'm listening! How can I help?"
	}
}
