package progress

// Event is one discrete progress notification emitted while a run
// advances through its phases. Percent is 0-100 across the whole run.
type Event struct {
	Phase   string
	Detail  string
	Percent float64
}

// Func receives progress events. Front-ends (console, GUI) subscribe by
// passing one in; the pipeline never talks to a console directly.
type Func func(Event)

// Nop discards events. Used wherever the caller did not subscribe.
func Nop(Event) {}

// OrNop returns fn, or Nop when fn is nil, so emit sites never have to
// nil-check.
func OrNop(fn Func) Func {
	if fn == nil {
		return Nop
	}
	return fn
}
