package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPublisher_NoBroker(t *testing.T) {
	pub, err := NewPublisher("", "fleetcheck-test")
	assert.NoError(t, err)
	assert.IsType(t, NopPublisher{}, pub)

	// Must be safe to call
	pub.PublishChange("vehicles", ActionInsert, "abc")
	pub.Close()
}
