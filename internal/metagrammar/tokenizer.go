package metagrammar

// Checkpoint is the length of a Tokenizer's event log at a point in time,
// used as a rollback token (spec §3.3).
type Checkpoint int

// Tokenizer is an append-only, ordered log of meta-events. Rollback
// truncates the log back to an earlier Checkpoint, discarding everything
// appended since - the mechanism Select/Optional/SeparatedBy use to back out
// of a failed alternative.
type Tokenizer struct {
	events []Event
}

// NewTokenizer returns an empty Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Mark returns a Checkpoint for the current log length.
func (t *Tokenizer) Mark() Checkpoint {
	return Checkpoint(len(t.events))
}

// Rollback truncates the log to cp, destroying any events appended after it.
// It is a no-op if cp is not before the current length.
func (t *Tokenizer) Rollback(cp Checkpoint) {
	if int(cp) < len(t.events) {
		t.events = t.events[:cp]
	}
}

// Append records an event and returns the Checkpoint just past it.
func (t *Tokenizer) Append(ev Event) Checkpoint {
	t.events = append(t.events, ev)
	return Checkpoint(len(t.events))
}

// Events returns the recorded event log. The caller must not retain it
// across a subsequent Rollback/Append on the same Tokenizer without copying.
func (t *Tokenizer) Events() []Event {
	return t.events
}

// Reset truncates the log to zero length so the Tokenizer's storage can be
// reused across parses (spec §5, "Resource discipline").
func (t *Tokenizer) Reset() {
	t.events = t.events[:0]
}
