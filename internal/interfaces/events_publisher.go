package interfaces

// EventPublisher pushes engine events (recorded transactions, alerts,
// reminder requests) onto an external bus.
type EventPublisher interface {
	Publish(topic string, event any) error
}
