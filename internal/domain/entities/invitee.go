package entities

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidInvitee = errors.New("invalid invitee")

// Channel is a messaging channel used to contact invitees.
type Channel string

const (
	ChannelTelegram Channel = "telegram"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
)

// Channels lists every supported channel in display order.
var Channels = []Channel{ChannelTelegram, ChannelWhatsApp, ChannelSMS}

// Invitee is a wedding guest. The RSVP response is stored separately.
type Invitee struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Cellphone      string                `json:"cellphone"`
	Side           string                `json:"side,omitempty"`           // "bride" or "groom"
	Relation       string                `json:"relation,omitempty"`       // relation to the couple
	ExpectedAmount int                   `json:"expectedAmount,omitempty"` // invited party size
	InviteCode     string                `json:"inviteCode"`               // public RSVP token
	TelegramChatID int64                 `json:"telegramChatId,omitempty"`
	MessagesSent   map[Channel]time.Time `json:"messagesSent,omitempty"` // last send per channel
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// Validate checks the required invitee fields.
func (i *Invitee) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrInvalidInvitee
	}
	return nil
}

// MessageSentAt returns when a message was last sent on channel.
func (i *Invitee) MessageSentAt(ch Channel) (time.Time, bool) {
	t, ok := i.MessagesSent[ch]
	return t, ok && !t.IsZero()
}

// InviteLink maps a public invite code to its wedding and invitee.
type InviteLink struct {
	Code      string `json:"code"`
	WeddingID string `json:"weddingId"`
	GuestID   string `json:"guestId"`
}

// NormalizeCellphone strips formatting characters from a phone number.
func NormalizeCellphone(phone string) string {
	r := strings.NewReplacer("+", "", " ", "", "-", "", "(", "", ")", "")
	return r.Replace(strings.TrimSpace(phone))
}
