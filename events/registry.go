package events

type Callback func(Event) error

// Registry holds callbacks per event kind. Subscribers are called on the
// goroutine that invokes the event, in the order they subscribed. Registry is
// not safe for concurrent use: subscribe everything before the tracker runs.
type Registry struct {
	subs [kindCount][]Callback
}

func NewRegistry() *Registry {
	return new(Registry)
}

func (r *Registry) Subscribe(kind Kind, cb Callback) {
	if kind < 0 || kind >= kindCount {
		panic("events: subscribe to unknown kind " + kind.String())
	}
	r.subs[kind] = append(r.subs[kind], cb)
}

// SubscribeAll registers cb for every kind.
func (r *Registry) SubscribeAll(cb Callback) {
	for kind := range kindCount {
		r.subs[kind] = append(r.subs[kind], cb)
	}
}

// Invoke stops at the first subscriber that returns an error and returns it.
// Panics are not recovered.
func (r *Registry) Invoke(ev Event) error {
	if ev.Kind < 0 || ev.Kind >= kindCount {
		return nil
	}
	for _, cb := range r.subs[ev.Kind] {
		if err := cb(ev); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) Count(kind Kind) int {
	if kind < 0 || kind >= kindCount {
		return 0
	}
	return len(r.subs[kind])
}
