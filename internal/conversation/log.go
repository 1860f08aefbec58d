// Package conversation holds the append-only chat transcript.
package conversation

import "github.com/terralink/terralink/internal/model"

// Log is an ordered, append-only sequence of messages. Entries are immutable
// once appended; slice order is both display and causal order.
type Log struct {
	messages []model.Message
}

// NewLog creates a Log seeded with the standard agent greeting.
func NewLog() *Log {
	l := &Log{}
	l.AppendAgent(Greeting)
	return l
}

// Greeting is the seeded first agent message shown before any query.
const Greeting = "Hi! I can help you find renewable energy sites. " +
	"Describe what you are looking for, e.g. \"30 acre solar farm in Texas\"."

// AppendUser appends a user-authored message.
func (l *Log) AppendUser(text string) {
	l.messages = append(l.messages, model.Message{Role: model.RoleUser, Text: text})
}

// AppendAgent appends an agent-authored message.
func (l *Log) AppendAgent(text string) {
	l.messages = append(l.messages, model.Message{Role: model.RoleAgent, Text: text})
}

// Messages returns a copy of the transcript in order.
func (l *Log) Messages() []model.Message {
	out := make([]model.Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	return len(l.messages)
}

// Last returns the most recent message and true, or a zero message and false
// when the log is empty.
func (l *Log) Last() (model.Message, bool) {
	if len(l.messages) == 0 {
		return model.Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}
