package messaging

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageRoundTripsPayload(t *testing.T) {
	event := &SectionEvent{SectionID: "s-1", ProjectID: "p-1", UserID: "u-1", Version: 3, ContentLength: 42}

	msg, err := NewMessage(EventSectionGenerated, "p-1", event)
	require.NoError(t, err)
	msg.SetMetadata("section_id", "s-1")

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "p-1", msg.ProjectID)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(raw, &decoded))

	var got SectionEvent
	require.NoError(t, decoded.UnmarshalPayload(&got))
	assert.Equal(t, *event, got)
	assert.Equal(t, "s-1", decoded.Metadata["section_id"])
}

func TestNewProducerDefaults(t *testing.T) {
	p := NewProducer(nil, 0, "")
	assert.Equal(t, int64(100000), p.maxLen)
	assert.Equal(t, DefaultSectionStream, p.sectionStream)
}
