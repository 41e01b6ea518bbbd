// Package engine implements the scheduling core: the weekly time-window
// model, availability resolution, conflict detection and the appointment
// state machine. It performs no I/O of its own and never logs; persistence
// is reached through the store interfaces and every operation returns a
// typed success-or-error result.
package engine

type Engine struct {
	services     ServiceStore
	windows      WindowStore
	appointments AppointmentStore
}

func New(services ServiceStore, windows WindowStore, appointments AppointmentStore) *Engine {
	return &Engine{
		services:     services,
		windows:      windows,
		appointments: appointments,
	}
}
