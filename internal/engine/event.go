package engine

// ListenerID identifies a registered listener so it can be removed later.
type ListenerID int

// EventWithArg is a Unity-style multi-cast event carrying one argument.
type EventWithArg[T any] struct {
	listeners []eventListener[T]
	nextID    ListenerID
}

type eventListener[T any] struct {
	id ListenerID
	fn func(T)
}

// AddListener adds a callback and returns its ID. A nil callback is ignored
// and gets ID 0.
func (e *EventWithArg[T]) AddListener(callback func(T)) ListenerID {
	if callback == nil {
		return 0
	}
	e.nextID++
	e.listeners = append(e.listeners, eventListener[T]{id: e.nextID, fn: callback})
	return e.nextID
}

// RemoveListener removes the callback registered under id.
func (e *EventWithArg[T]) RemoveListener(id ListenerID) {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

func (e *EventWithArg[T]) RemoveAllListeners() {
	e.listeners = nil
}

func (e *EventWithArg[T]) Invoke(arg T) {
	for _, l := range e.listeners {
		l.fn(arg)
	}
}

func (e *EventWithArg[T]) GetListenerCount() int {
	return len(e.listeners)
}
