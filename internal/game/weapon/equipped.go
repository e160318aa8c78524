package weapon

import (
	"github.com/cory-johannsen/charsim/internal/game/geom"
	"github.com/cory-johannsen/charsim/internal/game/inventory"
	"github.com/cory-johannsen/charsim/internal/game/item"
)

// Equipped pairs an inventory stack with its resolved weapon definition.
// Magazine is nil when the weapon has no ammunition gate.
//
// Equipped never owns the stack: its lifetime belongs to the inventory and
// the equipping mechanism.
type Equipped struct {
	// Stack is the inventory stack the weapon was equipped from.
	Stack *inventory.Stack
	// Def is the static weapon definition.
	Def *item.WeaponDef
	// Magazine holds the loaded round state; nil when Def has no magazine.
	Magazine *Magazine

	// AimActive mirrors the last resolved toggle passed to UseSecondary,
	// letting the weapon react to being told to stop aiming.
	AimActive bool
}

// NewEquipped constructs an Equipped for the stack and def.
// For weapons with a magazine a fully loaded Magazine is initialised.
//
// Precondition: stack and def must not be nil; def must have passed
// def.Validate() so MagazineCapacity > 0 whenever HasMagazine holds.
func NewEquipped(stack *inventory.Stack, def *item.WeaponDef) *Equipped {
	eq := &Equipped{Stack: stack, Def: def}
	if def.HasMagazine() {
		eq.Magazine = NewMagazine(def.ID, def.MagazineCapacity)
	}
	return eq
}

// Same reports whether other wraps the exact same stack instance.
func (e *Equipped) Same(other *Equipped) bool {
	return e != nil && other != nil && e.Stack.Same(other.Stack)
}

// Use performs the weapon's primary effect toward target.
//
// Postcondition: reports whether the weapon actually fired; a weapon with an
// empty magazine reports false and consumes nothing.
func (e *Equipped) Use(target geom.Vec3) bool {
	if e.Magazine != nil {
		if e.Magazine.IsEmpty() {
			return false
		}
		_ = e.Magazine.Consume(1)
	}
	return true
}

// UseSecondary performs the weapon's secondary effect: the resolved aiming
// toggle and direction are always delivered, including a denial, so the
// weapon can wind down an active aim.
func (e *Equipped) UseSecondary(aiming bool, dir geom.Vec3) {
	e.AimActive = aiming
}
