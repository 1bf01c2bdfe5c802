package doc

// EventKind distinguishes content changes from selection-only changes.
type EventKind uint8

const (
	EventContent EventKind = iota
	EventSelection
)

// Change is a normalized, versioned transaction record.
type Change struct {
	Label           string
	VersionBefore   uint64
	VersionAfter    uint64
	SelectionBefore Range
	SelectionAfter  Range
	DocChanged      bool
}

// Event is delivered to subscribers after every committed transaction.
type Event struct {
	Kind   EventKind
	Change Change
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for document and selection changes. fn runs
// synchronously inside the committing call and may itself transact; events
// raised that way are delivered once the current event has reached every
// subscriber.
func (d *Document) Subscribe(fn func(Event)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	d.nextSub++
	id := d.nextSub
	d.subs = append(d.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range d.subs {
			if s.id == id {
				d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
				return
			}
		}
	}
}

// LastChange returns the most recent committed change.
func (d *Document) LastChange() (Change, bool) {
	if !d.hasLastChange {
		return Change{}, false
	}
	return d.lastChange, true
}

func (d *Document) commitChange(c Change) {
	d.lastChange = c
	d.hasLastChange = true

	ev := Event{Kind: EventSelection, Change: c}
	if c.DocChanged {
		ev.Kind = EventContent
	}
	d.pending = append(d.pending, ev)
	if d.notifying {
		return
	}
	d.notifying = true
	defer func() { d.notifying = false }()
	for len(d.pending) > 0 {
		ev := d.pending[0]
		d.pending = d.pending[1:]
		subs := append([]subscriber(nil), d.subs...)
		for _, s := range subs {
			s.fn(ev)
		}
	}
}
