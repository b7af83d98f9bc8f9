package usecase

import "sync/atomic"

// CurrentKey holds the id of the key used for new encryptions.
// It is shared by the facade and the rotation coordinator.
type CurrentKey struct {
	id atomic.Pointer[string]
}

// NewCurrentKey creates a CurrentKey pointing at id.
func NewCurrentKey(id string) *CurrentKey {
	c := &CurrentKey{}
	c.Set(id)
	return c
}

// ID returns the current key id.
func (c *CurrentKey) ID() string {
	return *c.id.Load()
}

// Set replaces the current key id.
func (c *CurrentKey) Set(id string) {
	c.id.Store(&id)
}
