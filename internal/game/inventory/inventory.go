package inventory

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsim/internal/game/geom"
	"github.com/cory-johannsen/charsim/internal/game/item"
	"github.com/cory-johannsen/charsim/internal/game/world"
)

// PoseProvider exposes the owning character's world pose, used to place
// dropped items in front of the owner.
type PoseProvider interface {
	Pose() geom.Pose
}

// DefaultDropOffset is the distance in front of the owner at which dropped
// items spawn when no offset is configured.
const DefaultDropOffset = 1.5

// InventoryOption configures inventory construction.
type InventoryOption func(*Inventory)

// WithDropOffset overrides the drop spawn distance.
func WithDropOffset(d float64) InventoryOption {
	return func(inv *Inventory) {
		inv.dropOffset = d
	}
}

// Inventory orchestrates an ordered set of collections: add, remove,
// combine, move, swap, drop, and best-collection selection.
//
// All operations are synchronous and single-threaded; callers must not
// re-enter the inventory mid-operation.
type Inventory struct {
	collections []*Collection
	owner       PoseProvider
	spawner     world.Spawner
	dropOffset  float64
	logger      *zap.Logger

	addedFns   []func(*Stack, *Collection)
	droppedFns []func(*world.Object)
}

// NewInventory creates an Inventory with no collections.
//
// Precondition: owner, spawner, and logger must not be nil.
func NewInventory(owner PoseProvider, spawner world.Spawner, logger *zap.Logger, opts ...InventoryOption) *Inventory {
	inv := &Inventory{
		owner:      owner,
		spawner:    spawner,
		dropOffset: DefaultDropOffset,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// AddCollection appends c to the inventory's collection list.
func (inv *Inventory) AddCollection(c *Collection) {
	inv.collections = append(inv.collections, c)
}

// Collections returns the inventory's collections in order.
func (inv *Inventory) Collections() []*Collection {
	return inv.collections
}

// OnItemAdded registers fn to run whenever an Add places a stack into a new
// slot entry. Merged-into-existing quantity does not notify.
func (inv *Inventory) OnItemAdded(fn func(*Stack, *Collection)) {
	inv.addedFns = append(inv.addedFns, fn)
}

// OnItemDropped registers fn to run whenever a stack is dropped into the world.
func (inv *Inventory) OnItemDropped(fn func(*world.Object)) {
	inv.droppedFns = append(inv.droppedFns, fn)
}

func (inv *Inventory) notifyAdded(s *Stack, c *Collection) {
	for _, fn := range inv.addedFns {
		fn(s, c)
	}
}

func (inv *Inventory) notifyDropped(obj *world.Object) {
	for _, fn := range inv.droppedFns {
		fn(obj)
	}
}

// FindCollection returns the collection holding the exact stack instance,
// or nil when the stack is not slotted anywhere.
func (inv *Inventory) FindCollection(s *Stack) *Collection {
	for _, c := range inv.collections {
		if c.Contains(s) {
			return c
		}
	}
	return nil
}

// BestCollectionFor selects the preferred collection for s: it must admit
// the item, must not be full, and must not already contain this exact
// instance. Ties break by ascending priority; the earliest-registered
// collection wins among equals. Returns nil when no candidate exists.
func (inv *Inventory) BestCollectionFor(s *Stack) *Collection {
	var best *Collection
	for _, c := range inv.collections {
		if !c.AllowItem(s) || c.IsFull() || c.Contains(s) {
			continue
		}
		if best == nil || c.Priority < best.Priority {
			best = c
		}
	}
	return best
}

// Add places the incoming stack into the inventory. The best collection is
// selected, the quantity is merged into existing partial stacks of the same
// item type in slot order, and any residual is inserted as a new slot entry.
//
// Returns false and leaves s untouched when s is nil, its quantity is not
// positive, or no collection accepts it.
//
// Postcondition: an "item added" notification fires only for a residual
// that became a new slot entry.
func (inv *Inventory) Add(s *Stack) bool {
	if s == nil || s.Quantity <= 0 {
		return false
	}
	target := inv.BestCollectionFor(s)
	if target == nil {
		inv.logger.Debug("add rejected: no accepting collection",
			zap.String("item", s.Def.ID),
			zap.Int("quantity", s.Quantity),
		)
		return false
	}

	inv.CombineWithExistingItems(s, target)
	if s.Quantity == 0 {
		return true
	}
	if target.Insert(s) {
		inv.notifyAdded(s, target)
	}
	return true
}

// RemoveItems removes up to count units of def from the collection, scanning
// slots in order and clearing any stack it fully consumes.
//
// Postcondition: returns the actually-removed count, in [0, count].
func (inv *Inventory) RemoveItems(def *item.ItemDef, count int, c *Collection) int {
	if def == nil || c == nil || count <= 0 {
		return 0
	}
	removed := 0
	for i := 0; i < c.Size() && removed < count; i++ {
		s := c.Slot(i)
		if s == nil || s.Def != def {
			continue
		}
		take := count - removed
		if take > s.Quantity {
			take = s.Quantity
		}
		s.Quantity -= take
		removed += take
		if s.Quantity == 0 {
			c.SetSlot(nil, i)
		}
	}
	return removed
}

// CombineWithExistingItems transfers quantity from s into every same-type
// stack under its max within c, in slot order, until s is exhausted or no
// eligible stack remains. Pure quantity transfer; stack identities are
// never created or destroyed beyond zero-quantity eviction of s by callers.
func (inv *Inventory) CombineWithExistingItems(s *Stack, c *Collection) {
	if s == nil || c == nil {
		return
	}
	for i := 0; i < c.Size(); i++ {
		if s.Quantity == 0 {
			return
		}
		held := c.Slot(i)
		if held == nil || held.Same(s) || held.Def != s.Def || held.Room() == 0 {
			continue
		}
		inv.Combine(s, held)
	}
}

// Combine moves as much quantity as possible from give into receive, capped
// at receive's max stack. Both quantities are written back as a pair.
//
// Postcondition: give.Quantity + receive.Quantity is conserved; terminates
// with give empty or receive at max.
func (inv *Inventory) Combine(give, receive *Stack) {
	if give == nil || receive == nil {
		return
	}
	n := receive.Room()
	if n > give.Quantity {
		n = give.Quantity
	}
	if n <= 0 {
		return
	}
	give.Quantity, receive.Quantity = give.Quantity-n, receive.Quantity+n
}

// AutoMoveItem relocates s out of its current collection into the best
// alternate one. With nowhere to go the item is dropped into the world.
// When combineFirst is set, quantity is first merged into the target's
// existing stacks; a stack fully absorbed that way just vacates its slot.
func (inv *Inventory) AutoMoveItem(s *Stack, combineFirst bool) {
	if s == nil {
		return
	}
	src := inv.FindCollection(s)
	if src == nil {
		return
	}
	target := inv.BestCollectionFor(s)
	if target == nil {
		inv.DropItem(s)
		return
	}
	if combineFirst {
		inv.CombineWithExistingItems(s, target)
		if s.Quantity == 0 {
			src.SetSlot(nil, src.SlotOf(s))
			return
		}
	}
	idx := target.FirstAllowedFreeSlot(s)
	if target.IsFullyOccupied() || idx < 0 {
		inv.DropItem(s)
		return
	}
	src.SetSlot(nil, src.SlotOf(s))
	target.SetSlot(s, idx)
}

// DropItem removes s from its slot and spawns its drop template in front of
// the owner, carrying the dropped quantity onto the spawned object.
//
// Postcondition: the "dropped" notification fires with the spawned object.
func (inv *Inventory) DropItem(s *Stack) *world.Object {
	if s == nil {
		return nil
	}
	if src := inv.FindCollection(s); src != nil {
		src.SetSlot(nil, src.SlotOf(s))
	}
	pose := inv.owner.Pose()
	dropPose := geom.Pose{
		Position: pose.Ahead(inv.dropOffset),
		Forward:  pose.Forward,
	}
	obj := inv.spawner.Spawn(s.Def.DropRef, dropPose, s.Quantity)
	inv.logger.Info("item dropped",
		zap.String("item", s.Def.ID),
		zap.Int("quantity", s.Quantity),
	)
	inv.notifyDropped(obj)
	return obj
}

// MoveItem relocates s to the given slot of the target collection.
//
// No-ops: the target collection or slot rejects the item, or the
// destination already holds this exact stack. An occupied destination
// combines when it holds the same item type under max, swaps when the two
// slots are mutually compatible, and otherwise declines. An empty
// destination is a plain relocation.
func (inv *Inventory) MoveItem(s *Stack, target *Collection, slot int) {
	if s == nil || target == nil {
		return
	}
	if !target.admitsKind(s) || !target.SlotAllows(s, slot) {
		return
	}
	existing := target.Slot(slot)
	if existing != nil && existing.Same(s) {
		return
	}
	src := inv.FindCollection(s)
	if src == nil {
		return
	}
	srcIdx := src.SlotOf(s)

	if existing == nil {
		src.SetSlot(nil, srcIdx)
		target.SetSlot(s, slot)
		return
	}

	// Occupied destination: the swap must be legal in both directions
	// before either combining or exchanging.
	if !src.admitsKind(existing) || !src.SlotAllows(existing, srcIdx) {
		return
	}
	if existing.Def == s.Def && existing.Room() > 0 {
		inv.Combine(s, existing)
		if s.Quantity == 0 {
			src.SetSlot(nil, srcIdx)
		}
		return
	}
	inv.Swap(s, src, existing, target)
}

// Swap places b into a's former slot in colA and a into b's former slot in
// colB. Atomic two-way relocation: stacks retain identity and no
// intermediate zero- or double-ownership state is observable to callers.
//
// Precondition: a is slotted in colA and b in colB.
func (inv *Inventory) Swap(a *Stack, colA *Collection, b *Stack, colB *Collection) {
	if a == nil || b == nil || colA == nil || colB == nil {
		return
	}
	ia := colA.SlotOf(a)
	ib := colB.SlotOf(b)
	if ia < 0 || ib < 0 {
		return
	}
	colA.SetSlot(b, ia)
	colB.SetSlot(a, ib)
}
