package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// statusEvent is pushed to status feed subscribers.
type statusEvent struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	UpdatedAt *time.Time `json:"updated_at"`
}

const subscriberBuffer = 8

// statusFeed fans status changes out to websocket clients, keyed by
// application id.
type statusFeed struct {
	subscribers map[string]map[chan []byte]struct{}
	*sync.RWMutex
}

func newStatusFeed() *statusFeed {
	return &statusFeed{
		subscribers: make(map[string]map[chan []byte]struct{}),
		RWMutex:     &sync.RWMutex{},
	}
}

func (f *statusFeed) subscribe(id string) chan []byte {
	ch := make(chan []byte, subscriberBuffer)
	f.Lock()
	defer f.Unlock()
	subs, ok := f.subscribers[id]
	if !ok {
		subs = make(map[chan []byte]struct{})
		f.subscribers[id] = subs
	}
	subs[ch] = struct{}{}
	return ch
}

// unsubscribe removes and closes ch.
func (f *statusFeed) unsubscribe(id string, ch chan []byte) {
	f.Lock()
	subs, ok := f.subscribers[id]
	if ok {
		delete(subs, ch)
		if len(subs) == 0 {
			delete(f.subscribers, id)
		}
	}
	f.Unlock()
	if ok {
		close(ch)
	}
}

// Publish sends msg to every subscriber of id without blocking. Subscribers
// with a full buffer miss the message. It returns the number delivered.
func (f *statusFeed) Publish(id string, msg []byte) int {
	f.RLock()
	defer f.RUnlock()
	delivered := 0
	for ch := range f.subscribers[id] {
		select {
		case ch <- msg:
			delivered++
		default:
		}
	}
	return delivered
}

func (f *statusFeed) count(id string) int {
	f.RLock()
	defer f.RUnlock()
	return len(f.subscribers[id])
}

const wsIdHeader = "WS-ID"

const (
	readBuffSize  = 2 << 10
	writeBuffSize = 2 << 10
	writeWait     = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  readBuffSize,
	WriteBufferSize: writeBuffSize,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
