package game

// EventKind identifies a canvas event.
type EventKind int

const (
	EventPointerMove EventKind = iota
	EventPointerLeave
	EventResize
)

func (k EventKind) String() string {
	switch k {
	case EventPointerMove:
		return "pointer_move"
	case EventPointerLeave:
		return "pointer_leave"
	case EventResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Event is a pointer or resize notification in canvas coordinates.
// For EventResize, X and Y carry the new width and height.
type Event struct {
	Kind EventKind
	X, Y float64
}

// Listeners dispatches canvas events to registered handlers.
// Handlers run on the frame goroutine in registration order.
type Listeners struct {
	nextID   int
	handlers map[EventKind][]listener
}

type listener struct {
	id int
	fn func(Event)
}

// NewListeners creates an empty registry.
func NewListeners() *Listeners {
	return &Listeners{handlers: make(map[EventKind][]listener)}
}

// Add registers fn for kind and returns a function that removes it.
// Calling the returned function more than once is a no-op.
func (l *Listeners) Add(kind EventKind, fn func(Event)) (remove func()) {
	id := l.nextID
	l.nextID++
	l.handlers[kind] = append(l.handlers[kind], listener{id: id, fn: fn})

	return func() {
		hs := l.handlers[kind]
		for i, h := range hs {
			if h.id == id {
				l.handlers[kind] = append(hs[:i:i], hs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers ev to every handler registered for its kind and
// returns how many ran.
func (l *Listeners) Dispatch(ev Event) int {
	hs := l.handlers[ev.Kind]
	for _, h := range hs {
		h.fn(ev)
	}
	return len(hs)
}

// Len returns the number of registered handlers across all kinds.
func (l *Listeners) Len() int {
	n := 0
	for _, hs := range l.handlers {
		n += len(hs)
	}
	return n
}
