package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHubRegistration(t *testing.T) {
	hub := NewHub(zap.NewNop())

	a := &Client{room: "general", user: "anonymous"}
	b := &Client{room: "general", user: "anonymous"}
	c := &Client{room: "user_1", user: "user_1"}

	hub.Register(a)
	hub.Register(b)
	hub.Register(c)

	assert.Equal(t, 2, hub.RoomSize("general"))
	assert.Equal(t, 1, hub.RoomSize("user_1"))

	hub.Unregister(a)
	assert.Equal(t, 1, hub.RoomSize("general"))

	hub.Unregister(b)
	assert.Equal(t, 0, hub.RoomSize("general"), "empty rooms are dropped")

	// Unregistering twice is harmless.
	hub.Unregister(b)
	assert.Equal(t, 0, hub.RoomSize("general"))
}
