package availability

// Interval is a half-open [Start, End) wall-clock interval in minutes from
// midnight.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether the two half-open intervals intersect:
// [a.Start,a.End) overlaps [b.Start,b.End) iff a.Start < b.End && b.Start < a.End.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Contains reports whether b lies fully within a.
func (a Interval) Contains(b Interval) bool {
	return b.Start >= a.Start && b.End <= a.End
}

// GenerateSlots slices [startMinute, endMinute) into consecutive intervals of
// slotMinutes each, starting at startMinute. A trailing remainder shorter
// than slotMinutes is dropped. Returns nil when the window cannot hold a
// single slot or the arguments are degenerate.
//
// The result is deterministic and independent of any calendar date; callers
// attach a date when turning slots into concrete bookable instants.
func GenerateSlots(startMinute, endMinute, slotMinutes int) []Interval {
	if slotMinutes <= 0 || endMinute <= startMinute {
		return nil
	}
	if endMinute-startMinute < slotMinutes {
		return nil
	}

	var slots []Interval
	for t := startMinute; t+slotMinutes <= endMinute; t += slotMinutes {
		slots = append(slots, Interval{Start: t, End: t + slotMinutes})
	}
	return slots
}

// OverlapsAny reports whether candidate intersects any of busy.
func OverlapsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}
