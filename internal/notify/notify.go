package notify

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Level classifies a user-visible message
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Message is one line shown to the player
type Message struct {
	Level Level
	Text  string
	At    time.Time
}

// Notifier is the non-fatal notification channel
type Notifier interface {
	Notify(level Level, text string)
}

// Defaults
const (
	DefaultCapacity      = 50
	DefaultSuppressTTL   = 30 * time.Second
	suppressCacheEntries = 128
	subscriberBuffer     = 16
)

// MessageLog keeps the most recent messages in order. Identical warnings and
// errors repeated within the suppression window are dropped so a dead server
// does not flood the view on every refresh tick. Info messages are never
// suppressed.
type MessageLog struct {
	mu          sync.Mutex
	capacity    int
	entries     []Message
	unread      int
	recent      *expirable.LRU[string, struct{}]
	subscribers []chan Message
	now         func() time.Time
}

// NewMessageLog creates a log holding at most capacity messages.
// suppressTTL <= 0 disables duplicate suppression.
func NewMessageLog(capacity int, suppressTTL time.Duration) *MessageLog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	l := &MessageLog{
		capacity: capacity,
		entries:  make([]Message, 0, capacity),
		now:      time.Now,
	}
	if suppressTTL > 0 {
		l.recent = expirable.NewLRU[string, struct{}](suppressCacheEntries, nil, suppressTTL)
	}
	return l
}

// Notify records a message and forwards it to subscribers
func (l *MessageLog) Notify(level Level, text string) {
	if text == "" {
		return
	}

	l.mu.Lock()
	if l.recent != nil && level != LevelInfo {
		key := level.String() + ":" + text
		if l.recent.Contains(key) {
			l.mu.Unlock()
			return
		}
		l.recent.Add(key, struct{}{})
	}

	msg := Message{Level: level, Text: text, At: l.now()}
	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:l.capacity-1]
	}
	l.entries = append(l.entries, msg)
	if l.unread < l.capacity {
		l.unread++
	}
	for _, ch := range l.subscribers {
		select {
		case ch <- msg:
		default:
			// slow subscriber; the message is still in the log
		}
	}
	l.mu.Unlock()
}

// Recent returns up to n of the newest messages, oldest first. n <= 0 returns all.
func (l *MessageLog) Recent(n int) []Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Message, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Drain returns the messages recorded since the previous Drain, oldest first
func (l *MessageLog) Drain() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.unread
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Message, n)
	copy(out, l.entries[len(l.entries)-n:])
	l.unread = 0
	return out
}

// Subscribe returns a channel receiving every message recorded from now on.
// Sends never block; a full channel drops the message.
func (l *MessageLog) Subscribe() <-chan Message {
	ch := make(chan Message, subscriberBuffer)
	l.mu.Lock()
	l.subscribers = append(l.subscribers, ch)
	l.mu.Unlock()
	return ch
}

// Close closes all subscriber channels
func (l *MessageLog) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.subscribers {
		close(ch)
	}
	l.subscribers = nil
}

// Texts extracts the text of each message
func Texts(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Text
	}
	return out
}

// Discard is a Notifier that drops everything
type Discard struct{}

// Notify implements Notifier
func (Discard) Notify(Level, string) {}
