// Package inventory implements the multi-collection slot-allocation and
// stacking engine for a character: fixed-size prioritized collections of
// item stacks, merge arithmetic, best-fit placement, relocation, and drops.
package inventory

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/charsim/internal/game/item"
)

// Stack binds an item definition to a mutable quantity.
// Identity is the InstanceID: two stacks of the same item type are distinct
// entities and must never be compared by definition.
//
// Invariant: while a stack occupies a collection slot, 0 < Quantity <= Def.MaxStack.
// A stack whose quantity reaches 0 is evicted from its slot, never left behind.
type Stack struct {
	// InstanceID is the stable per-instance identity handle.
	InstanceID string
	// Def is the shared, immutable item definition.
	Def *item.ItemDef
	// Quantity is the current unit count.
	Quantity int
}

// NewStack creates a Stack of qty units of def.
//
// Precondition: def must not be nil.
// Postcondition: returned stack has a fresh InstanceID.
func NewStack(def *item.ItemDef, qty int) *Stack {
	return &Stack{
		InstanceID: uuid.New().String(),
		Def:        def,
		Quantity:   qty,
	}
}

// Room returns how many more units the stack can hold.
//
// Postcondition: result == Def.MaxStack - Quantity, floored at 0.
func (s *Stack) Room() int {
	room := s.Def.MaxStack - s.Quantity
	if room < 0 {
		return 0
	}
	return room
}

// Same reports whether other is the exact same stack instance.
func (s *Stack) Same(other *Stack) bool {
	return s != nil && other != nil && s.InstanceID == other.InstanceID
}
