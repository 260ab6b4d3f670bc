package entities

import "time"

// ReminderPayload carries what a reminder message needs about the guest.
type ReminderPayload struct {
	WeddingID  string
	GuestID    string
	GuestName  string
	InviteCode string
}

// DueForReminder reports whether a guest linked to Telegram should get a
// reminder at now: the response is not submitted and the last Telegram
// message is at least interval old.
func DueForReminder(inv *Invitee, submitted bool, now time.Time, interval time.Duration) bool {
	if inv == nil || inv.TelegramChatID == 0 || submitted {
		return false
	}
	last, ok := inv.MessageSentAt(ChannelTelegram)
	if !ok {
		return true
	}
	return now.Sub(last) >= interval
}
