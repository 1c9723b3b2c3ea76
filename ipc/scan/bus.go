package scan

// Observer is a stateful subscriber to a mask of scanner Events.
// Instances are held side-by-side in the State's observer list rather
// than forming an owning/owned object graph: a Field observer's
// reference to its installing Serializable observer, or a Method
// observer's reference to its installing Interface observer, is a
// plain Go pointer held by the concrete observer value, not tracked by
// this bus.
//
// Mask is read fresh on every dispatch, so an observer may change its
// own Mask from within Notify. A common pattern: listen for
// BracketStart, then switch to BracketEnd to await the construct's own
// closure.
type Observer struct {
	Mask   Event
	Notify func(event Event, state *State) error
}

// addObserver appends o to the bus. New observers become visible to
// dispatch starting with the next event: the current notify call
// already took its snapshot.
func (s *State) addObserver(o *Observer) {
	s.observers = append(s.observers, o)
}

// AddObserver registers o to receive future events matching its Mask.
func (s *State) AddObserver(o *Observer) { s.addObserver(o) }

// RemoveObserver unregisters o. A no-op if o is not currently
// registered.
func (s *State) RemoveObserver(o *Observer) {
	for idx, existing := range s.observers {
		if existing == o {
			s.observers = append(s.observers[:idx], s.observers[idx+1:]...)
			return
		}
	}
}

// notify dispatches event to every currently-registered observer whose
// Mask selects it, iterating a snapshot of the observer list so
// observers may freely add or remove observers (including themselves)
// during dispatch. The first error returned by any observer aborts the
// walk.
func (s *State) notify(event Event) error {
	snapshot := make([]*Observer, len(s.observers))
	copy(snapshot, s.observers)
	for _, o := range snapshot {
		if o.Mask&event == 0 {
			continue
		}
		if err := o.Notify(event, s); err != nil {
			return err
		}
	}
	return nil
}
