// Package equipment provides the hand-slot equipping mechanism. It owns no
// weapon logic: it stores which inventory stacks sit in the character's
// hands and notifies observers (the weapon handler, UI) on every change.
package equipment

import "github.com/cory-johannsen/charsim/internal/game/inventory"

// Hand identifies a hand equipment slot.
type Hand string

const (
	// HandMain is the main-hand slot.
	HandMain Hand = "main"
	// HandOff is the off-hand slot.
	HandOff Hand = "off"
)

// Handler tracks the stacks equipped into each hand slot.
// Invariant: each Hand holds at most one stack reference.
type Handler struct {
	slots map[Hand]*inventory.Stack

	equippedFns   []func(Hand, *inventory.Stack)
	unequippedFns []func(Hand, *inventory.Stack)
}

// NewHandler returns a Handler with empty hand slots.
//
// Postcondition: Equipped returns nil for every hand.
func NewHandler() *Handler {
	return &Handler{slots: make(map[Hand]*inventory.Stack)}
}

// OnEquipped registers fn to run after a stack is placed into a hand slot.
func (h *Handler) OnEquipped(fn func(Hand, *inventory.Stack)) {
	h.equippedFns = append(h.equippedFns, fn)
}

// OnUnequipped registers fn to run after a stack leaves a hand slot.
func (h *Handler) OnUnequipped(fn func(Hand, *inventory.Stack)) {
	h.unequippedFns = append(h.unequippedFns, fn)
}

// Equipped returns the stack in the given hand slot, or nil if empty.
func (h *Handler) Equipped(hand Hand) *inventory.Stack {
	return h.slots[hand]
}

// Equip places s into the given hand slot. A stack already occupying the
// slot is unequipped first, with its own notification.
//
// Precondition: s must not be nil.
// Postcondition: Equipped(hand) == s; equipped observers ran.
func (h *Handler) Equip(hand Hand, s *inventory.Stack) {
	if s == nil {
		return
	}
	if cur := h.slots[hand]; cur != nil {
		h.Unequip(hand)
	}
	h.slots[hand] = s
	for _, fn := range h.equippedFns {
		fn(hand, s)
	}
}

// Unequip removes the stack from the given hand slot. Empty slot is a no-op.
//
// Postcondition: Equipped(hand) == nil; unequipped observers ran for the
// removed stack.
func (h *Handler) Unequip(hand Hand) {
	cur := h.slots[hand]
	if cur == nil {
		return
	}
	delete(h.slots, hand)
	for _, fn := range h.unequippedFns {
		fn(hand, cur)
	}
}
