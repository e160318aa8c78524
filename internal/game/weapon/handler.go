package weapon

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsim/internal/game/geom"
	"github.com/cory-johannsen/charsim/internal/game/inventory"
	"github.com/cory-johannsen/charsim/internal/game/item"
	"github.com/cory-johannsen/charsim/internal/game/motor"
)

// UseOverride is a behavior extension consulted before weapon use. All
// registered overrides must approve; with none registered approval is
// vacuous.
type UseOverride interface {
	// CanUsePrimary approves or vetoes a primary use toward target.
	CanUsePrimary(target geom.Vec3, w *Equipped) bool
	// CanUseSecondary approves or vetoes an aim toggle in direction dir.
	CanUseSecondary(dir geom.Vec3, toggle bool, w *Equipped) bool
}

// Handler tracks the primary and secondary equipped weapon references,
// enforces hand-occupation exclusivity, and drives the two usage modes:
// immediate primary use and the toggled aim mode.
//
// Weapon references are set and cleared only in response to equip/unequip
// notifications; the handler never creates or destroys the underlying items.
type Handler struct {
	inv    *inventory.Inventory
	reg    *item.Registry
	motor  motor.Motor
	logger *zap.Logger

	overrides []UseOverride

	primary   *Equipped
	secondary *Equipped

	aiming         bool
	aimingWalkMode bool
	aimDirection   geom.Vec3

	primaryChangedFns   []func(*Equipped)
	secondaryChangedFns []func(*Equipped)
	primaryUsedFns      []func(*Equipped, geom.Vec3)
}

// NewHandler creates a Handler with empty hands.
//
// Precondition: inv, reg, m, and logger must not be nil.
func NewHandler(inv *inventory.Inventory, reg *item.Registry, m motor.Motor, logger *zap.Logger) *Handler {
	return &Handler{
		inv:    inv,
		reg:    reg,
		motor:  m,
		logger: logger,
	}
}

// RegisterOverride appends a behavior-override extension.
func (h *Handler) RegisterOverride(o UseOverride) {
	h.overrides = append(h.overrides, o)
}

// OnPrimaryWeaponChanged registers fn to run when the primary reference
// changes; fn receives the new value (nil on clear).
func (h *Handler) OnPrimaryWeaponChanged(fn func(*Equipped)) {
	h.primaryChangedFns = append(h.primaryChangedFns, fn)
}

// OnSecondaryWeaponChanged registers fn to run when the secondary reference
// changes; fn receives the new value (nil on clear).
func (h *Handler) OnSecondaryWeaponChanged(fn func(*Equipped)) {
	h.secondaryChangedFns = append(h.secondaryChangedFns, fn)
}

// OnPrimaryUsed registers fn to run after a successful primary use.
func (h *Handler) OnPrimaryUsed(fn func(*Equipped, geom.Vec3)) {
	h.primaryUsedFns = append(h.primaryUsedFns, fn)
}

// Primary returns the primary hand reference, or nil.
func (h *Handler) Primary() *Equipped { return h.primary }

// Secondary returns the secondary hand reference, or nil.
func (h *Handler) Secondary() *Equipped { return h.secondary }

// IsTwoHanded reports whether one weapon instance occupies both hands.
func (h *Handler) IsTwoHanded() bool {
	return h.primary != nil && h.primary.Same(h.secondary)
}

// IsAiming reports the aiming flag.
func (h *Handler) IsAiming() bool { return h.aiming }

// AimDirection returns the last aim direction.
func (h *Handler) AimDirection() geom.Vec3 { return h.aimDirection }

// setPrimary assigns the primary reference, notifying only on an actual
// identity change. Re-equip of the identical instance is silent.
func (h *Handler) setPrimary(eq *Equipped) {
	if h.primary.Same(eq) {
		return
	}
	h.primary = eq
	for _, fn := range h.primaryChangedFns {
		fn(eq)
	}
}

func (h *Handler) setSecondary(eq *Equipped) {
	if h.secondary.Same(eq) {
		return
	}
	h.secondary = eq
	for _, fn := range h.secondaryChangedFns {
		fn(eq)
	}
}

// displace moves a weapon's stack back into the inventory (or the world
// when no collection accepts it) with combination disabled, so the item
// survives as its own stack.
func (h *Handler) displace(eq *Equipped) {
	h.logger.Debug("displacing equipped weapon",
		zap.String("weapon", eq.Def.ID),
	)
	h.inv.AutoMoveItem(eq.Stack, false)
}

// HandleEquipped reacts to an equip notification. Stacks without weapon
// data are ignored. Occupation is resolved first: a one-handed weapon
// displaces any currently equipped two-handed weapon; a two-handed weapon
// vacates the other hand's occupant and is mirrored into both hands.
// Assignment then routes by the weapon's declared slot, notifying only on
// an actual reference change.
func (h *Handler) HandleEquipped(s *inventory.Stack) {
	if s == nil || !s.Def.IsWeapon() {
		return
	}
	def, ok := h.reg.Weapon(s.Def.WeaponRef)
	if !ok {
		h.logger.Warn("equipped item references unknown weapon",
			zap.String("item", s.Def.ID),
			zap.String("weapon_ref", s.Def.WeaponRef),
		)
		return
	}
	eq := NewEquipped(s, def)

	if def.IsOneHanded() {
		// A two-handed weapon cannot coexist with anything in the other
		// hand, so it leaves entirely before the new weapon lands.
		if h.IsTwoHanded() {
			displaced := h.primary
			h.setPrimary(nil)
			h.setSecondary(nil)
			h.displace(displaced)
		}
		if def.Slot == item.HandSlotSecondary {
			h.setSecondary(eq)
		} else {
			h.setPrimary(eq)
		}
		return
	}

	// Two-handed: nothing may share the hands. Vacate both current
	// occupants, then mirror the reference into both slots.
	if occupant := h.primary; occupant != nil && !occupant.Same(eq) {
		h.setPrimary(nil)
		if occupant.Same(h.secondary) {
			h.setSecondary(nil)
		}
		h.displace(occupant)
	}
	if occupant := h.secondary; occupant != nil && !occupant.Same(eq) {
		h.setSecondary(nil)
		h.displace(occupant)
	}
	h.setPrimary(eq)
	h.setSecondary(eq)
}

// HandleUnequipped reacts to an unequip notification: each hand reference
// matching the stack is cleared independently. Clearing the secondary also
// resets aiming state and commands the motor to leave walk mode.
func (h *Handler) HandleUnequipped(s *inventory.Stack) {
	if s == nil {
		return
	}
	if h.primary != nil && h.primary.Stack.Same(s) {
		h.setPrimary(nil)
	}
	if h.secondary != nil && h.secondary.Stack.Same(s) {
		h.setSecondary(nil)
		h.aiming = false
		h.aimingWalkMode = false
		h.motor.SetWalkMode(false)
	}
}

// PrimaryUse attempts the immediate use action toward target. The attempt
// is a silent no-op unless a primary weapon is equipped, movement is not
// locked, the character is grounded or the weapon is usable airborne, any
// active aim belongs to the same instance, and every override approves.
//
// Postcondition: when the weapon reports it fired, the motor receives a
// movement lock for the weapon's cooldown and the primaryUsed notification
// fires; a weapon that declines (e.g. empty magazine) causes neither.
func (h *Handler) PrimaryUse(target geom.Vec3) {
	if h.primary == nil {
		return
	}
	if h.motor.IsMovementLocked() {
		return
	}
	if !h.motor.IsGrounded() && !h.primary.Def.UsableAirborne {
		return
	}
	if h.aiming && !h.primary.Same(h.secondary) {
		return
	}
	for _, o := range h.overrides {
		if !o.CanUsePrimary(target, h.primary) {
			return
		}
	}
	if !h.primary.Use(target) {
		return
	}
	h.motor.MoveLock(h.primary.Def.UseCooldown)
	for _, fn := range h.primaryUsedFns {
		fn(h.primary, target)
	}
}

// CanAim resolves a requested aim toggle: denied (forced false) when the
// character is airborne and the weapon disallows airborne use, when
// movement is locked, or when any override vetoes; otherwise the request
// passes through.
func (h *Handler) CanAim(toggle bool, dir geom.Vec3) bool {
	if h.secondary == nil {
		return false
	}
	if !h.motor.IsGrounded() && !h.secondary.Def.UsableAirborne {
		return false
	}
	if h.motor.IsMovementLocked() {
		return false
	}
	for _, o := range h.overrides {
		if !o.CanUseSecondary(dir, toggle, h.secondary) {
			return false
		}
	}
	return toggle
}

// Aim drives the toggled secondary usage mode. With no secondary weapon the
// aiming state is force-reset. Otherwise the resolved toggle is delivered
// to the weapon's secondary effect even when denied, state is updated, and
// the motor's walk mode is set to match (walk mode only holds while aiming).
func (h *Handler) Aim(dir geom.Vec3, toggle, walkMode bool) {
	if h.secondary == nil {
		h.aiming = false
		h.aimingWalkMode = false
		h.motor.SetWalkMode(false)
		return
	}
	resolved := h.CanAim(toggle, dir)
	h.secondary.UseSecondary(resolved, dir)
	h.aimDirection = dir
	h.aiming = resolved
	h.aimingWalkMode = resolved && walkMode
	h.motor.SetWalkMode(h.aimingWalkMode)
}
