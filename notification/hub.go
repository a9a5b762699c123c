// Package notification fans grouping progress out to SSE subscribers.
package notification

import "sync"

type Progress struct {
	SessionId    string `json:"sessionId"`
	Category     string `json:"category"`
	Processed    int    `json:"processed"`
	Pending      int    `json:"pending"`
	Total        int    `json:"total"`
	ElapsedInSec int    `json:"elapsedInSec"`
}

var (
	mu          sync.Mutex
	subscribers = make(map[string][]chan Progress)
)

// Subscribe registers a listener for progress events under key. The caller
// must Unsubscribe when done.
func Subscribe(key string) chan Progress {
	ch := make(chan Progress, 8)
	mu.Lock()
	defer mu.Unlock()
	subscribers[key] = append(subscribers[key], ch)
	return ch
}

// Unsubscribe removes and closes a previously subscribed channel. No-op for
// unknown channels.
func Unsubscribe(key string, ch chan Progress) {
	mu.Lock()
	defer mu.Unlock()
	subs := subscribers[key]
	for i, s := range subs {
		if s == ch {
			subscribers[key] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
	if len(subscribers[key]) == 0 {
		delete(subscribers, key)
	}
}

// Publish delivers p to every subscriber of key. A slow subscriber drops
// events rather than blocking the publisher.
func Publish(key string, p Progress) {
	mu.Lock()
	defer mu.Unlock()
	for _, ch := range subscribers[key] {
		select {
		case ch <- p:
		default:
		}
	}
}
