package tui

import (
	"time"

	"github.com/colonyops/feedback/internal/core/notify"
)

const (
	defaultToastTTL   = 4 * time.Second
	defaultMaxToasts  = 3
	toastTickInterval = 100 * time.Millisecond
	toastWidth        = 44
)

type toast struct {
	notification notify.Notification
	remaining    time.Duration
}

// ToastController manages the lifecycle of active toast notifications:
// push, eviction, TTL countdown and dismissal.
type ToastController struct {
	ttl     time.Duration
	max     int
	toasts  []toast
	ticking bool
}

// NewToastController creates a controller. Zero values select the defaults.
func NewToastController(ttl time.Duration, maxToasts int) *ToastController {
	if ttl <= 0 {
		ttl = defaultToastTTL
	}
	if maxToasts <= 0 {
		maxToasts = defaultMaxToasts
	}
	return &ToastController{ttl: ttl, max: maxToasts}
}

// Push adds a notification to the stack, evicting the oldest toast when the
// stack is full.
func (c *ToastController) Push(n notify.Notification) {
	c.toasts = append(c.toasts, toast{notification: n, remaining: c.ttl})
	if len(c.toasts) > c.max {
		c.toasts = c.toasts[len(c.toasts)-c.max:]
	}
}

// Tick decrements the remaining TTL of every toast by d and drops expired
// ones.
func (c *ToastController) Tick(d time.Duration) {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		t.remaining -= d
		if t.remaining > 0 {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
}

// Dismiss removes the newest toast.
func (c *ToastController) Dismiss() {
	if len(c.toasts) > 0 {
		c.toasts = c.toasts[:len(c.toasts)-1]
	}
}

func (c *ToastController) HasToasts() bool { return len(c.toasts) > 0 }
func (c *ToastController) Toasts() []toast { return c.toasts }

// Ticking reports whether a tick is scheduled.
func (c *ToastController) Ticking() bool     { return c.ticking }
func (c *ToastController) SetTicking(v bool) { c.ticking = v }
