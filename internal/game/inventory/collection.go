package inventory

// SlotPredicate restricts which stacks a specific slot index accepts.
// The check is independent of whether the slot is currently occupied.
type SlotPredicate func(s *Stack, index int) bool

// CollectionOption configures collection construction.
type CollectionOption func(*Collection)

// WithAllowedKinds restricts the collection's admission predicate to the
// given item kinds. Without this option all kinds are admitted.
func WithAllowedKinds(kinds ...string) CollectionOption {
	return func(c *Collection) {
		c.allowedKinds = make(map[string]bool, len(kinds))
		for _, k := range kinds {
			c.allowedKinds[k] = true
		}
	}
}

// WithSlotPredicate installs a per-slot admission filter.
func WithSlotPredicate(p SlotPredicate) CollectionOption {
	return func(c *Collection) {
		c.slotAllows = p
	}
}

// Collection is a fixed-capacity, ordered array of optional stack slots with
// a priority and an item-admission filter.
//
// Invariant: each live stack is owned by exactly one collection and occupies
// exactly one slot index at any time. Slot-level combination logic lives in
// Inventory; Collection only stores and filters.
type Collection struct {
	// Name identifies the collection (e.g. "backpack", "hotbar").
	Name string
	// Priority orders best-fit selection; lower is preferred.
	Priority int

	slots        []*Stack
	allowedKinds map[string]bool
	slotAllows   SlotPredicate
}

// NewCollection creates a Collection with size empty slots.
//
// Precondition: size >= 1.
// Postcondition: all slots are empty.
func NewCollection(name string, size, priority int, opts ...CollectionOption) *Collection {
	c := &Collection{
		Name:     name,
		Priority: priority,
		slots:    make([]*Stack, size),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Size returns the number of slots.
func (c *Collection) Size() int {
	return len(c.slots)
}

// Slot returns the stack at index, or nil when the slot is empty or the
// index is out of range.
func (c *Collection) Slot(index int) *Stack {
	if index < 0 || index >= len(c.slots) {
		return nil
	}
	return c.slots[index]
}

// admitsKind reports whether the admission predicate accepts the stack's
// item kind.
func (c *Collection) admitsKind(s *Stack) bool {
	if c.allowedKinds == nil {
		return true
	}
	return c.allowedKinds[s.Def.Kind]
}

// AllowItem reports whether the collection admits the stack: the admission
// predicate accepts its item kind and at least one slot individually allows
// it. Fullness is not considered.
func (c *Collection) AllowItem(s *Stack) bool {
	if s == nil || !c.admitsKind(s) {
		return false
	}
	for i := range c.slots {
		if c.SlotAllows(s, i) {
			return true
		}
	}
	return false
}

// SlotAllows reports whether the per-slot filter accepts s at index.
// The check is independent of fullness.
func (c *Collection) SlotAllows(s *Stack, index int) bool {
	if s == nil || index < 0 || index >= len(c.slots) {
		return false
	}
	if c.slotAllows == nil {
		return true
	}
	return c.slotAllows(s, index)
}

// IsFull reports whether the collection has no capacity at all for any new
// incoming item: every slot holds a stack and every held stack is at its
// max. The check is type-agnostic.
func (c *Collection) IsFull() bool {
	for _, s := range c.slots {
		if s == nil {
			return false
		}
		if s.Quantity < s.Def.MaxStack {
			return false
		}
	}
	return true
}

// IsFullyOccupied reports whether no slot is empty. Stricter than IsFull for
// placement purposes: a fully occupied collection can still absorb quantity
// into partial stacks but cannot take a new slot entry.
func (c *Collection) IsFullyOccupied() bool {
	for _, s := range c.slots {
		if s == nil {
			return false
		}
	}
	return true
}

// Contains reports whether the exact stack instance occupies a slot.
func (c *Collection) Contains(s *Stack) bool {
	return c.SlotOf(s) >= 0
}

// SlotOf returns the slot index holding the exact stack instance, or -1.
func (c *Collection) SlotOf(s *Stack) int {
	if s == nil {
		return -1
	}
	for i, held := range c.slots {
		if held != nil && held.Same(s) {
			return i
		}
	}
	return -1
}

// FirstAllowedFreeSlot returns the lowest empty slot index whose filter
// accepts s, or -1 when none exists.
func (c *Collection) FirstAllowedFreeSlot(s *Stack) int {
	for i := range c.slots {
		if c.slots[i] == nil && c.SlotAllows(s, i) {
			return i
		}
	}
	return -1
}

// SetSlot stores s (or nil to clear) at index, replacing whatever is there.
// No combination logic; that is Inventory's responsibility.
//
// Precondition: index is in range.
func (c *Collection) SetSlot(s *Stack, index int) {
	if index < 0 || index >= len(c.slots) {
		return
	}
	c.slots[index] = s
}

// Insert places s into the first allowed empty slot. When no such slot
// exists the call is a silent no-op; callers are expected to have verified
// capacity beforehand.
//
// Postcondition: reports whether s was placed.
func (c *Collection) Insert(s *Stack) bool {
	idx := c.FirstAllowedFreeSlot(s)
	if idx < 0 {
		return false
	}
	c.slots[idx] = s
	return true
}
