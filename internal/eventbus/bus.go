package eventbus

import (
	"slices"
	"sync"
)

// Event names understood by the properties panel.
const (
	// SetErrorsEvent replaces the panel's global error map.
	SetErrorsEvent = "propertiesPanel.setErrors"
	// ShowEntryEvent asks the panel to reveal and focus one entry.
	ShowEntryEvent = "propertiesPanel.showEntry"
)

// SetErrors is the payload of SetErrorsEvent. Errors maps entry ids to
// messages and replaces whatever the panel held before.
type SetErrors struct {
	Errors map[string]string `json:"errors"`
}

// ShowEntry is the payload of ShowEntryEvent.
type ShowEntry struct {
	ID string `json:"id"`
}

// Handler receives the payload passed to Fire.
type Handler func(payload any)

// Subscription identifies a handler registered with On.
type Subscription uint64

// Bus is the publish/subscribe boundary between a panel and its host.
type Bus interface {
	Fire(event string, payload any)
	On(event string, handler Handler) Subscription
	Off(event string, sub Subscription)
}

type listener struct {
	id      Subscription
	handler Handler
}

// EventBus is an in-process Bus. Listener lists are copied on write, so a
// handler may subscribe or unsubscribe while an event is being delivered;
// the change takes effect from the next Fire.
type EventBus struct {
	mutex     sync.Mutex
	nextID    Subscription
	listeners map[string][]listener
}

// New returns an empty bus.
func New() *EventBus {
	return &EventBus{
		listeners: map[string][]listener{},
	}
}

func (b *EventBus) get(event string) []listener {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.listeners[event]
}

// Fire calls every handler registered for event, in registration order.
// Handlers run on the caller's goroutine, outside the bus lock.
func (b *EventBus) Fire(event string, payload any) {
	for _, l := range b.get(event) {
		l.handler(payload)
	}
}

// On registers handler for event.
func (b *EventBus) On(event string, handler Handler) Subscription {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.nextID++
	next := slices.Clone(b.listeners[event])
	next = append(next, listener{id: b.nextID, handler: handler})
	b.listeners[event] = next
	return b.nextID
}

// Off removes a subscription. Unknown subscriptions are ignored.
func (b *EventBus) Off(event string, sub Subscription) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	current := b.listeners[event]
	i := slices.IndexFunc(current, func(l listener) bool { return l.id == sub })
	if i < 0 {
		return
	}
	next := slices.Clone(current)
	next = slices.Delete(next, i, i+1)
	if len(next) == 0 {
		delete(b.listeners, event)
		return
	}
	b.listeners[event] = next
}

// Count returns the number of handlers registered for event.
func (b *EventBus) Count(event string) int {
	return len(b.get(event))
}
