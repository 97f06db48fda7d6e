package workspace

import (
	"sync"

	"github.com/nexushq/nexus-core/pkg/schema"
)

// Event announces a message appended to a channel. Notify carries the
// channel's notification flag so desktop-notification and audio collaborators
// can decide whether to fire.
type Event struct {
	ChannelID   string
	ChannelName string
	Notify      bool
	Message     schema.Message
}

// Notifier fans message-append events out to subscribers. Delivery is
// fire-and-forget: a subscriber that falls behind loses events rather than
// ever blocking message persistence.
type Notifier struct {
	mu   sync.RWMutex
	subs []chan Event
}

// Subscribe registers a new subscriber with the given buffer size.
func (n *Notifier) Subscribe(buffer int) <-chan Event {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	n.mu.Lock()
	n.subs = append(n.subs, ch)
	n.mu.Unlock()
	return ch
}

func (n *Notifier) publish(e Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, sub := range n.subs {
		select {
		case sub <- e:
		default:
		}
	}
}
