package entity

import "time"

// Notification channels.
const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
	ChannelCall     = "call"
)

// CommunicationLog is one append-only record of an outbound notification
// attempt for a lead. Status mirrors the dispatcher's delivery result.
type CommunicationLog struct {
	ID        int64     `json:"id"`
	LeadID    int64     `json:"lead_id"`
	Channel   string    `json:"type"`
	Status    string    `json:"status"` // "sent", "mock", "failed"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
