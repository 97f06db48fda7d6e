package schema

import "time"

// ChannelType distinguishes open channels, invite-only groups and DMs.
type ChannelType string

const (
	ChannelPublic  ChannelType = "public"
	ChannelPrivate ChannelType = "private"
	ChannelDM      ChannelType = "dm"
)

// MessageType tags the payload kind of a message.
type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageFile  MessageType = "file"
)

// Message is one entry in a channel's conversation. Messages are immutable
// once appended; the slice order in Channel.Messages is the chronological
// order, not any timestamp sort.
type Message struct {
	ID            string      `json:"id"`
	SenderID      string      `json:"senderId"`
	Content       string      `json:"content"`
	Timestamp     time.Time   `json:"timestamp"`
	IsAIGenerated bool        `json:"isAiGenerated,omitempty"`
	Type          MessageType `json:"type,omitempty"`
	FileURL       string      `json:"fileUrl,omitempty"`
}

// Channel is a named conversation scope. Channels are created and appended
// to, never deleted.
type Channel struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	Type                 ChannelType `json:"type"`
	Messages             []Message   `json:"messages"`
	Description          string      `json:"description,omitempty"`
	NotificationsEnabled bool        `json:"notificationsEnabled"`
	// Members lists user ids with access. Empty means open membership; the
	// creator is always present for private channels.
	Members []string `json:"members,omitempty"`
}
