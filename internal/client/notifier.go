package client

import (
	"sync"
	"time"
)

// DefaultNoticeTTL is how long a banner stays visible.
const DefaultNoticeTTL = 5 * time.Second

// Notice levels
const (
	LevelInfo  = "info"
	LevelError = "error"
)

// Notice is one transient banner.
type Notice struct {
	Level   string
	Message string
	At      time.Time
}

// Notifier holds transient banners. Notices expire after the TTL without being dismissed.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	notices []Notice

	// OnNotice, when set, is called for every new notice.
	OnNotice func(Notice)
}

// NewNotifier creates a notifier whose notices live for ttl (DefaultNoticeTTL when ttl <= 0).
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &Notifier{ttl: ttl, now: time.Now}
}

// Error shows an error banner.
func (n *Notifier) Error(message string) {
	n.push(LevelError, message)
}

// Info shows an informational banner.
func (n *Notifier) Info(message string) {
	n.push(LevelInfo, message)
}

func (n *Notifier) push(level, message string) {
	if n == nil {
		return
	}
	n.mu.Lock()
	notice := Notice{Level: level, Message: message, At: n.now()}
	n.notices = append(n.expire(), notice)
	hook := n.OnNotice
	n.mu.Unlock()

	if hook != nil {
		hook(notice)
	}
}

// expire drops notices older than the TTL. Callers hold mu.
func (n *Notifier) expire() []Notice {
	now := n.now()
	kept := n.notices[:0]
	for _, notice := range n.notices {
		if now.Sub(notice.At) < n.ttl {
			kept = append(kept, notice)
		}
	}
	n.notices = kept
	return kept
}

// Active returns the notices that have not expired, oldest first.
func (n *Notifier) Active() []Notice {
	if n == nil {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.expire()...)
}

// Dismiss removes every notice.
func (n *Notifier) Dismiss() {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = nil
}
