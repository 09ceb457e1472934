package events

// Subscriber consumes broker events. Send must not block.
type Subscriber interface {
	Send(Event) error
	Close() error
}
