package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terralink/terralink/internal/model"
)

func TestNewLogSeedsGreeting(t *testing.T) {
	l := NewLog()

	require.Equal(t, 1, l.Len())
	msg, ok := l.Last()
	require.True(t, ok)
	assert.Equal(t, model.RoleAgent, msg.Role)
	assert.Equal(t, Greeting, msg.Text)
}

func TestAppendPreservesOrder(t *testing.T) {
	l := NewLog()
	l.AppendUser("solar farm in Texas")
	l.AppendAgent("Analyzing...")
	l.AppendAgent("Found 20 sites.")

	msgs := l.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, model.RoleAgent, msgs[0].Role)
	assert.Equal(t, model.RoleUser, msgs[1].Role)
	assert.Equal(t, "solar farm in Texas", msgs[1].Text)
	assert.Equal(t, "Analyzing...", msgs[2].Text)
	assert.Equal(t, "Found 20 sites.", msgs[3].Text)
}

func TestMessagesReturnsCopy(t *testing.T) {
	l := NewLog()
	l.AppendUser("wind site in Nevada")

	msgs := l.Messages()
	msgs[0].Text = "mutated"

	fresh := l.Messages()
	assert.Equal(t, Greeting, fresh[0].Text)
}

func TestLastOnEmptyLog(t *testing.T) {
	var l Log
	_, ok := l.Last()
	assert.False(t, ok)
	assert.Equal(t, 0, l.Len())
}
