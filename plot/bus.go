package plot

import "sync"

// Event is one of Added, Selected, Deleted or Renamed.
type Event interface {
	Element() ID
}

// Added is published after an element is attached to the tree.
type Added struct {
	ID     ID
	Parent ID
	Kind   Kind
	Name   string
}

// Selected is published when an element becomes the current selection.
type Selected struct {
	ID   ID
	Kind Kind
}

// Deleted is published for every removed element, children before parents.
type Deleted struct {
	ID     ID
	Parent ID
	Kind   Kind
}

// Renamed is published after an element's name changes.
type Renamed struct {
	ID   ID
	Name string
}

func (e Added) Element() ID    { return e.ID }
func (e Selected) Element() ID { return e.ID }
func (e Deleted) Element() ID  { return e.ID }
func (e Renamed) Element() ID  { return e.ID }

// Handler receives published events.
type Handler func(Event)

// Bus fans events out to subscribers synchronously, in subscription order.
// Handlers run without the bus lock held and may publish or unsubscribe.
type Bus struct {
	mu   sync.Mutex
	next int
	subs []subscription
}

type subscription struct {
	id int
	h  Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	if h == nil {
		return func() {}
	}

	b.mu.Lock()
	b.next++
	id := b.next
	b.subs = append(b.subs, subscription{id: id, h: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every current subscriber.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	subs := b.subs
	b.mu.Unlock()

	for _, s := range subs {
		s.h(e)
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
