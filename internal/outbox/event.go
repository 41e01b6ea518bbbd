package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (event per topic).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// Appointment lifecycle event types. Each status change publishes exactly
// one event in the same transaction as the write it describes.
const (
	EventAppointmentRequested   = "scheduling.appointment.requested.v1"
	EventAppointmentConfirmed   = "scheduling.appointment.confirmed.v1"
	EventAppointmentRejected    = "scheduling.appointment.rejected.v1"
	EventAppointmentCancelled   = "scheduling.appointment.cancelled.v1"
	EventAppointmentCompleted   = "scheduling.appointment.completed.v1"
	EventAppointmentRescheduled = "scheduling.appointment.rescheduled.v1"
)
