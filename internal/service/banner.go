package service

import (
	"sync"
	"time"
)

// Banner holds a transient status message that clears itself after a
// delay. The timer is scoped to the banner: Stop releases it, so a torn
// down view never sees a late clear fire.
type Banner struct {
	mu    sync.Mutex
	msg   string
	timer *time.Timer
}

// Show replaces the current message and arms the auto-clear timer.
func (b *Banner) Show(msg string, clearAfter time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.msg = msg
	b.timer = time.AfterFunc(clearAfter, func() {
		b.mu.Lock()
		b.msg = ""
		b.timer = nil
		b.mu.Unlock()
	})
}

// Message returns the current message, empty once cleared.
func (b *Banner) Message() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.msg
}

// Stop cancels the pending clear, for teardown before the timer fires.
func (b *Banner) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// BannerBoard keys transient banners by user so each signed-in account sees
// only its own status message.
type BannerBoard struct {
	mu      sync.Mutex
	banners map[string]*Banner
}

func NewBannerBoard() *BannerBoard {
	return &BannerBoard{banners: make(map[string]*Banner)}
}

func (b *BannerBoard) Show(uid, msg string, clearAfter time.Duration) {
	b.mu.Lock()
	banner, ok := b.banners[uid]
	if !ok {
		banner = &Banner{}
		b.banners[uid] = banner
	}
	b.mu.Unlock()
	banner.Show(msg, clearAfter)
}

func (b *BannerBoard) Message(uid string) string {
	b.mu.Lock()
	banner, ok := b.banners[uid]
	b.mu.Unlock()
	if !ok {
		return ""
	}
	return banner.Message()
}
