package model

import "time"

// Status is the appointment lifecycle state. Rejected, cancelled and
// completed are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Known reports whether s is one of the defined statuses.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are permitted from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Active reports whether s blocks other bookings on the same interval.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

type Service struct {
	ID           string
	ProviderID   string
	Name         string
	Description  string
	DurationMins int
	Price        string
	Active       bool
	CreatedAt    time.Time
}

// TimeWindow is one recurring weekly availability window of a service.
// Times are minutes from midnight, provider-local wall clock; dates in
// ExceptionDates suspend the window for those specific days and always fall
// on the window's weekday.
type TimeWindow struct {
	ID             string
	ServiceID      string
	Weekday        int // 0-6, Sunday = 0
	StartMinute    int
	EndMinute      int
	SlotMinutes    int
	ExceptionDates []time.Time
	CreatedAt      time.Time
}

// HasException reports whether the window is suspended on date.
func (w TimeWindow) HasException(date time.Time) bool {
	for _, d := range w.ExceptionDates {
		if SameDate(d, date) {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID          string
	ClientID    string
	ProviderID  string
	ServiceID   string
	Date        time.Time // calendar date, midnight UTC
	StartMinute int
	EndMinute   int
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Slot is a derived bookable sub-interval of a window for one calendar date.
// It is regenerated on every availability query and never stored.
type Slot struct {
	StartMinute int
	EndMinute   int
	Available   bool
}
