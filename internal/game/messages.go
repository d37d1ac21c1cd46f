package game

import (
	"strings"
	"time"
)

// MsgPriority controls the color of an entry in the comms log.
type MsgPriority uint8

const (
	MsgInfo      MsgPriority = iota // cyan
	MsgWarning                      // yellow: caps, failed scans, empty tanks
	MsgDiscovery                    // green: new planets
	MsgDelivery                     // rarity color of the cargo
	MsgEconomy                      // white: refinery and upgrades
)

// Message is a single line in the comms log.
type Message struct {
	Text     string        `json:"text"`
	Priority MsgPriority   `json:"priority"`
	At       time.Duration `json:"at"` // simulation time
	Rarity   string        `json:"rarity,omitempty"`
}

// MessageLog is a bounded FIFO of comms lines.
type MessageLog struct {
	Messages []Message
	Width    int
	maxSize  int
}

// NewMessageLog creates a log that keeps the most recent maxSize lines.
func NewMessageLog(maxSize int) *MessageLog {
	return &MessageLog{
		Messages: make([]Message, 0, maxSize),
		Width:    48,
		maxSize:  maxSize,
	}
}

// Add appends a message, wrapping it to the panel width and evicting the oldest lines.
func (l *MessageLog) Add(at time.Duration, text string, priority MsgPriority) {
	l.add(Message{Text: text, Priority: priority, At: at})
}

// AddDelivery logs a delivery tagged with its rarity so the HUD can color it.
func (l *MessageLog) AddDelivery(at time.Duration, text, rarity string) {
	l.add(Message{Text: text, Priority: MsgDelivery, At: at, Rarity: rarity})
}

func (l *MessageLog) add(msg Message) {
	if l.maxSize <= 0 {
		return
	}
	for _, line := range wrapText(msg.Text, l.Width) {
		m := msg
		m.Text = line
		if len(l.Messages) >= l.maxSize {
			copy(l.Messages, l.Messages[1:])
			l.Messages[len(l.Messages)-1] = m
		} else {
			l.Messages = append(l.Messages, m)
		}
	}
}

// wrapText breaks s on spaces into lines no wider than width.
// A single word longer than width gets its own line.
func wrapText(s string, width int) []string {
	if width <= 0 || len(s) <= width {
		return []string{s}
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var b strings.Builder
	for _, w := range words {
		if b.Len() > 0 && b.Len()+1+len(w) > width {
			lines = append(lines, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	return append(lines, b.String())
}

// Recent returns the last n lines (or fewer if the log is shorter).
func (l *MessageLog) Recent(n int) []Message {
	if n > len(l.Messages) {
		n = len(l.Messages)
	}
	if n <= 0 {
		return nil
	}
	out := make([]Message, n)
	copy(out, l.Messages[len(l.Messages)-n:])
	return out
}

// Len returns the number of lines held.
func (l *MessageLog) Len() int { return len(l.Messages) }
