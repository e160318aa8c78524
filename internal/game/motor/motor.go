// Package motor defines the locomotion collaborator contract the weapon
// handler reads and commands, plus a reference implementation for the demo
// binary and tests.
package motor

import "time"

// Motor is the locomotion state the character core consumes.
type Motor interface {
	// IsMovementLocked reports whether a movement cooldown is active.
	IsMovementLocked() bool
	// IsGrounded reports whether the character is on the ground.
	IsGrounded() bool
	// IsCrouching reports whether the character is crouching.
	IsCrouching() bool
	// IsSprinting reports whether the character is sprinting.
	IsSprinting() bool
	// MoveLock applies a movement cooldown for the given duration.
	MoveLock(d time.Duration)
	// SetWalkMode toggles slow-walk movement.
	SetWalkMode(on bool)
}

// SimMotor is a time-driven Motor for the simulation loop. Movement locks
// expire by wall clock; the clock source is injectable for tests.
type SimMotor struct {
	now func() time.Time

	lockedUntil time.Time
	grounded    bool
	crouching   bool
	sprinting   bool
	walkMode    bool
}

// SimMotorOption configures SimMotor construction.
type SimMotorOption func(*SimMotor)

// WithClock injects a clock source.
func WithClock(now func() time.Time) SimMotorOption {
	return func(m *SimMotor) {
		m.now = now
	}
}

// NewSimMotor returns a grounded, unlocked SimMotor.
func NewSimMotor(opts ...SimMotorOption) *SimMotor {
	m := &SimMotor{
		now:      time.Now,
		grounded: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsMovementLocked reports whether the current lock has not yet expired.
func (m *SimMotor) IsMovementLocked() bool {
	return m.now().Before(m.lockedUntil)
}

// IsGrounded reports the grounded flag.
func (m *SimMotor) IsGrounded() bool { return m.grounded }

// IsCrouching reports the crouch flag.
func (m *SimMotor) IsCrouching() bool { return m.crouching }

// IsSprinting reports the sprint flag.
func (m *SimMotor) IsSprinting() bool { return m.sprinting }

// WalkMode reports the walk-mode latch.
func (m *SimMotor) WalkMode() bool { return m.walkMode }

// MoveLock extends the movement lock to d from now. A shorter lock never
// truncates a longer one already in effect.
func (m *SimMotor) MoveLock(d time.Duration) {
	until := m.now().Add(d)
	if until.After(m.lockedUntil) {
		m.lockedUntil = until
	}
}

// SetWalkMode latches the walk-mode flag.
func (m *SimMotor) SetWalkMode(on bool) { m.walkMode = on }

// SetGrounded sets the grounded flag.
func (m *SimMotor) SetGrounded(on bool) { m.grounded = on }

// SetCrouching sets the crouch flag.
func (m *SimMotor) SetCrouching(on bool) { m.crouching = on }

// SetSprinting sets the sprint flag.
func (m *SimMotor) SetSprinting(on bool) { m.sprinting = on }
