// Package workspace owns the channel and contact collections for the active
// session. Every mutation re-serializes the whole collection to its storage
// key: the adapter has no partial-update primitive, which is acceptable at
// single-user local scale and an explicit non-goal to fix here.
package workspace

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/nexushq/nexus-core/internal/audit"
	"github.com/nexushq/nexus-core/internal/kvstore"
	"github.com/nexushq/nexus-core/pkg/schema"
)

var (
	// ErrChannelNotFound is returned when a referenced channel id does not exist.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrContactNotFound is returned when a referenced contact id does not exist.
	ErrContactNotFound = errors.New("contact not found")
)

// Audit action tags recorded for workspace mutations.
const (
	ActionCreateChannel = "CREATE_CHANNEL"
	ActionSendMessage   = "SEND_MESSAGE"
	ActionCreateContact = "CREATE_CONTACT"
)

var whitespace = regexp.MustCompile(`\s+`)

// Slugify normalizes a channel name: lowercase, runs of whitespace
// collapsed to single hyphens.
func Slugify(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// Store mirrors both collections in memory and persists on every mutation.
// The mutex is held across the storage write, so writes for a collection
// key are issued in mutation order and a failed write surfaces to the
// caller before any later mutation can run.
type Store struct {
	kv    kvstore.Store
	clock clockwork.Clock
	log   *zap.Logger
	audit *audit.Log

	events Notifier

	mu       sync.RWMutex
	channels []schema.Channel
	contacts []schema.Contact
}

func New(kv kvstore.Store, clock clockwork.Clock, logger *zap.Logger, auditLog *audit.Log) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, clock: clock, log: logger, audit: auditLog}
}

// Events exposes the message-append notifier for notification/audio
// collaborators.
func (s *Store) Events() *Notifier {
	return &s.events
}

// Load hydrates both collections at session start.
func (s *Store) Load() error {
	if _, err := s.LoadChannels(); err != nil {
		return err
	}
	_, err := s.LoadContacts()
	return err
}

// LoadChannels reads the stored channel collection, refreshing the in-memory
// mirror. An absent key yields an empty collection.
func (s *Store) LoadChannels() ([]schema.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var channels []schema.Channel
	if _, err := s.kv.Get(kvstore.KeyChannels, &channels); err != nil {
		return nil, err
	}
	s.channels = channels
	return copyChannels(channels), nil
}

// LoadContacts reads the stored contact collection, refreshing the in-memory
// mirror.
func (s *Store) LoadContacts() ([]schema.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var contacts []schema.Contact
	if _, err := s.kv.Get(kvstore.KeyContacts, &contacts); err != nil {
		return nil, err
	}
	s.contacts = contacts
	return append([]schema.Contact(nil), contacts...), nil
}

// SaveChannels replaces the channel collection wholesale. No merge with any
// previously stored state.
func (s *Store) SaveChannels(all []schema.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels = copyChannels(all)
	return s.persistChannelsLocked()
}

// SaveContacts replaces the contact collection wholesale.
func (s *Store) SaveContacts(all []schema.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append([]schema.Contact(nil), all...)
	return s.persistContactsLocked()
}

// Channels returns a copy of the channel collection in stored order.
func (s *Store) Channels() []schema.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyChannels(s.channels)
}

// Contacts returns a copy of the contact collection.
func (s *Store) Contacts() []schema.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]schema.Contact(nil), s.contacts...)
}

// CreateChannel appends a new channel with a slugified name. The creator is
// always a member of a private channel.
func (s *Store) CreateChannel(name string, channelType schema.ChannelType, creatorID string) (schema.Channel, error) {
	ch := schema.Channel{
		ID:                   "c-" + ksuid.New().String(),
		Name:                 Slugify(name),
		Type:                 channelType,
		Messages:             []schema.Message{},
		NotificationsEnabled: true,
	}
	switch channelType {
	case schema.ChannelPrivate, schema.ChannelDM:
		ch.Description = "Private group"
		ch.Members = []string{creatorID}
	default:
		ch.Description = "Open channel"
		ch.Members = []string{creatorID}
	}

	s.mu.Lock()
	s.channels = append(s.channels, ch)
	err := s.persistChannelsLocked()
	s.mu.Unlock()
	if err != nil {
		return schema.Channel{}, err
	}

	s.logAction(ActionCreateChannel, fmt.Sprintf("Channel created: #%s (%s)", ch.Name, ch.Type), creatorID)
	s.log.Info("channel created", zap.String("channel", ch.ID), zap.String("name", ch.Name))
	return ch, nil
}

// SendMessage appends a user-typed message to a channel.
func (s *Store) SendMessage(channelID, senderID, content string) (schema.Message, error) {
	msg := schema.Message{
		ID:        ksuid.New().String(),
		SenderID:  senderID,
		Content:   content,
		Timestamp: s.clock.Now(),
	}
	if err := s.Append(channelID, msg); err != nil {
		return schema.Message{}, err
	}
	s.logAction(ActionSendMessage, "Message sent to "+channelID, senderID)
	return msg, nil
}

// Append appends an already-built message (user or synthetic) to a channel
// and publishes the message-append event after the write succeeds.
func (s *Store) Append(channelID string, msg schema.Message) error {
	s.mu.Lock()
	idx := s.channelIndexLocked(channelID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrChannelNotFound
	}
	s.channels[idx].Messages = append(s.channels[idx].Messages, msg)
	name := s.channels[idx].Name
	notify := s.channels[idx].NotificationsEnabled
	err := s.persistChannelsLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.events.publish(Event{ChannelID: channelID, ChannelName: name, Notify: notify, Message: msg})
	return nil
}

// ToggleNotifications flips a channel's notification flag, returning the new
// value.
func (s *Store) ToggleNotifications(channelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.channelIndexLocked(channelID)
	if idx < 0 {
		return false, ErrChannelNotFound
	}
	s.channels[idx].NotificationsEnabled = !s.channels[idx].NotificationsEnabled
	if err := s.persistChannelsLocked(); err != nil {
		return false, err
	}
	return s.channels[idx].NotificationsEnabled, nil
}

// AddMember grants a user access to a channel. Adding an existing member is
// a no-op.
func (s *Store) AddMember(channelID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.channelIndexLocked(channelID)
	if idx < 0 {
		return ErrChannelNotFound
	}
	for _, m := range s.channels[idx].Members {
		if m == userID {
			return nil
		}
	}
	s.channels[idx].Members = append(s.channels[idx].Members, userID)
	return s.persistChannelsLocked()
}

// AddContact registers a new CRM contact, assigning its id and initial
// activity timestamp.
func (s *Store) AddContact(c schema.Contact, actorID string) (schema.Contact, error) {
	c.ID = "ct-" + ksuid.New().String()
	c.LastActivity = s.clock.Now()
	if c.Stage == "" {
		c.Stage = schema.StageLead
	}

	s.mu.Lock()
	s.contacts = append(s.contacts, c)
	err := s.persistContactsLocked()
	s.mu.Unlock()
	if err != nil {
		return schema.Contact{}, err
	}

	s.logAction(ActionCreateContact, "Contact created: "+c.Name, actorID)
	return c, nil
}

// UpdateContact replaces the stored contact with the same id. A stage change
// refreshes LastActivity, and a transition into WON appends the derived
// announcement to the first channel in stored order, exactly once.
func (s *Store) UpdateContact(updated schema.Contact, actor schema.User) (schema.Contact, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.contacts {
		if s.contacts[i].ID == updated.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return schema.Contact{}, ErrContactNotFound
	}
	oldStage := s.contacts[idx].Stage
	if updated.Stage != oldStage {
		updated.LastActivity = s.clock.Now()
	}
	s.contacts[idx] = updated
	err := s.persistContactsLocked()
	s.mu.Unlock()
	if err != nil {
		return schema.Contact{}, err
	}

	if content, ok := StageAnnouncement(oldStage, updated.Stage, updated, actor.Name); ok {
		if err := s.announce(content); err != nil {
			return schema.Contact{}, err
		}
		s.log.Info("deal won", zap.String("contact", updated.ID), zap.Float64("value", updated.Value))
	}
	return updated, nil
}

// announce appends a synthetic bot message to the designated announcement
// channel, the first channel in stored order. With no channels there is
// nowhere to announce and the event is dropped.
func (s *Store) announce(content string) error {
	s.mu.RLock()
	if len(s.channels) == 0 {
		s.mu.RUnlock()
		return nil
	}
	target := s.channels[0].ID
	s.mu.RUnlock()

	return s.Append(target, schema.Message{
		ID:        ksuid.New().String(),
		SenderID:  schema.BotUserID,
		Content:   content,
		Timestamp: s.clock.Now(),
	})
}

func (s *Store) channelIndexLocked(channelID string) int {
	for i := range s.channels {
		if s.channels[i].ID == channelID {
			return i
		}
	}
	return -1
}

func (s *Store) persistChannelsLocked() error {
	return s.kv.Put(kvstore.KeyChannels, s.channels)
}

func (s *Store) persistContactsLocked() error {
	return s.kv.Put(kvstore.KeyContacts, s.contacts)
}

func (s *Store) logAction(action, details, userID string) {
	if s.audit == nil {
		return
	}
	if _, err := s.audit.Append(action, details, userID); err != nil {
		s.log.Warn("audit append failed", zap.String("action", action), zap.Error(err))
	}
}

func copyChannels(in []schema.Channel) []schema.Channel {
	out := make([]schema.Channel, len(in))
	for i, ch := range in {
		out[i] = ch
		out[i].Messages = append([]schema.Message(nil), ch.Messages...)
		out[i].Members = append([]string(nil), ch.Members...)
	}
	return out
}
