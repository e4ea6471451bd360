package core

// Event is emitted by the controller to its observers.
type Event interface {
	playfieldEvent()
}

// HitEvent reports the cell cleared by a dig before it became a hole.
type HitEvent struct {
	Cell  Cell // Prior cell at the targeted column
	Row   int  // Logical row in the current window
	Col   int  // Targeted column after clamping
	Depth int  // Depth reached by this dig
}

func (HitEvent) playfieldEvent() {}

// ScrolledPastThresholdEvent fires once when the player first digs below the
// visible window threshold, and again only after a reset.
type ScrolledPastThresholdEvent struct {
	Depth  int
	Offset int
}

func (ScrolledPastThresholdEvent) playfieldEvent() {}

// ScrolledEvent fires on every step that regenerates a row.
type ScrolledEvent struct {
	Depth    int
	Offset   int
	Physical int // Regenerated storage row
}

func (ScrolledEvent) playfieldEvent() {}

// ResetEvent fires after the grid has been (re)initialized.
type ResetEvent struct {
	Depth  int
	Offset int
}

func (ResetEvent) playfieldEvent() {}

// Observer receives controller events in emission order.
type Observer interface {
	Notify(e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(e Event)

// Notify calls f(e).
func (f ObserverFunc) Notify(e Event) { f(e) }

// Rebuilder consumes the grid after initialization and after every step.
// The mesh synthesizer is wired in through this interface.
type Rebuilder interface {
	Rebuild(snap Snapshot)
}

// RebuilderFunc adapts a function to Rebuilder.
type RebuilderFunc func(snap Snapshot)

// Rebuild calls f(snap).
func (f RebuilderFunc) Rebuild(snap Snapshot) { f(snap) }
