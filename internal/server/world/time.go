package world

import (
	"sync"

	"github.com/mcpp/server/internal/server/clientbound"
	mcnet "github.com/mcpp/server/internal/server/net"
)

// DayLength is the number of ticks in one Minecraft day.
const DayLength = 24000

// Clock tracks world age and time of day in ticks.
type Clock struct {
	mu        sync.Mutex
	worldAge  int64
	timeOfDay int64
}

// NewClock returns a clock at the start of day zero.
func NewClock() *Clock {
	return &Clock{}
}

// Advance moves the clock forward and returns the Update Time frame.
func (c *Clock) Advance(ticks int64) mcnet.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.worldAge += ticks
	c.timeOfDay = (c.timeOfDay + ticks) % DayLength
	return clientbound.UpdateTime(c.worldAge, c.timeOfDay)
}

// SetTimeOfDay jumps the day clock without touching world age.
func (c *Clock) SetTimeOfDay(ticks int64) mcnet.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeOfDay = ((ticks % DayLength) + DayLength) % DayLength
	return clientbound.UpdateTime(c.worldAge, c.timeOfDay)
}

// Now returns the current world age and time of day.
func (c *Clock) Now() (worldAge, timeOfDay int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.worldAge, c.timeOfDay
}

// Update builds the Update Time frame without advancing.
func (c *Clock) Update() mcnet.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clientbound.UpdateTime(c.worldAge, c.timeOfDay)
}
