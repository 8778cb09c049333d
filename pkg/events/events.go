package events

import "github.com/charmbracelet/log"

// Mutation topics published by the server.
const (
	TopicCreated = "todo.created"
	TopicUpdated = "todo.updated"
	TopicDeleted = "todo.deleted"
)

// Publisher receives todo mutation events. Swap in a real broker here
// if the app ever grows consumers beyond the log.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

type Noop struct{}

func (Noop) Publish(topic string, payload []byte) error { return nil }

// LogPublisher writes each event to the structured log.
type LogPublisher struct {
	Logger *log.Logger
}

func (p LogPublisher) Publish(topic string, payload []byte) error {
	p.Logger.Debug("event", "topic", topic, "payload", string(payload))
	return nil
}
