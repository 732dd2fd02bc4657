package event

import (
	"slices"
	"sync"

	"github.com/assetdesk/backend/internal/domain/shared"
)

// subscription is one Subscribe call. A nil types set matches every event.
type subscription struct {
	handler shared.EventHandler
	types   map[string]struct{}
}

func (s subscription) matches(eventType string) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// registry keeps subscriptions in the order they were made. Handlers for
// an event run in that order whether they asked for specific types or all.
type registry struct {
	mu   sync.RWMutex
	subs []subscription
}

func (r *registry) add(handler shared.EventHandler, eventTypes []string) {
	sub := subscription{handler: handler}
	if len(eventTypes) > 0 {
		sub.types = make(map[string]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			sub.types[t] = struct{}{}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, sub)
}

func (r *registry) remove(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = slices.DeleteFunc(r.subs, func(s subscription) bool { return s.handler == handler })
}

func (r *registry) match(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []shared.EventHandler
	for _, s := range r.subs {
		if s.matches(eventType) {
			out = append(out, s.handler)
		}
	}
	return out
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
