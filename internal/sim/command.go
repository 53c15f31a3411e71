package sim

import (
	"errors"
	"sync"

	"github.com/udisondev/horde/internal/combat"
	"github.com/udisondev/horde/internal/model"
)

// ErrQueueFull is returned by Enqueue when the command buffer is at capacity.
var ErrQueueFull = errors.New("command queue full")

// CommandType enumerates the supported simulation commands.
type CommandType string

const (
	CommandFire       CommandType = "fire"
	CommandSpawn      CommandType = "spawn"
	CommandMovePlayer CommandType = "move"
)

// Shot is one weapon discharge. The noise always propagates from Origin;
// damage is applied only when Target is set and Damage is positive.
type Shot struct {
	Origin   model.Vec3
	Silenced bool

	Target   model.Handle
	HitPoint model.Vec3
	Collider combat.ColliderID
	Damage   float64
}

// Command is an external request applied at the start of the next step.
type Command struct {
	Type     CommandType
	Shot     Shot
	Position model.Vec3
	Class    model.Classification
}

// commandBuffer stores staged commands in FIFO order. Safe for concurrent
// producers and a single consumer.
type commandBuffer struct {
	mu       sync.Mutex
	data     []Command
	capacity int
}

func newCommandBuffer(capacity int) *commandBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &commandBuffer{capacity: capacity}
}

// Push stages a command, returning false if the buffer is full.
func (b *commandBuffer) Push(cmd Command) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.data) >= b.capacity {
		return false
	}
	b.data = append(b.data, cmd)
	return true
}

// Drain returns all staged commands and clears the buffer.
func (b *commandBuffer) Drain() []Command {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.data) == 0 {
		return nil
	}
	out := b.data
	b.data = nil
	return out
}

// Len reports the number of staged commands.
func (b *commandBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}
