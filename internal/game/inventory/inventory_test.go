package inventory

import (
	"testing"

	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsim/internal/game/geom"
	"github.com/cory-johannsen/charsim/internal/game/item"
	"github.com/cory-johannsen/charsim/internal/game/world"
)

type fixedPose struct{ pose geom.Pose }

func (f fixedPose) Pose() geom.Pose { return f.pose }

func newTestInventory(collections ...*Collection) (*Inventory, *world.Ground) {
	ground := world.NewGround()
	owner := fixedPose{pose: geom.Pose{Forward: geom.Vec3{Z: 1}}}
	inv := NewInventory(owner, ground, zap.NewNop())
	for _, c := range collections {
		inv.AddCollection(c)
	}
	return inv, ground
}

func TestInventory_Add_FreshItem(t *testing.T) {
	bag := NewCollection("bag", 4, 0)
	inv, _ := newTestInventory(bag)
	s := NewStack(potionDef(), 3)
	if !inv.Add(s) {
		t.Fatal("expected Add to succeed")
	}
	if bag.Slot(0) != s {
		t.Fatal("expected stack in first slot")
	}
}

func TestInventory_Add_NonPositiveQuantity(t *testing.T) {
	inv, _ := newTestInventory(NewCollection("bag", 4, 0))
	if inv.Add(NewStack(potionDef(), 0)) {
		t.Fatal("expected rejection of zero quantity")
	}
	if inv.Add(nil) {
		t.Fatal("expected rejection of nil stack")
	}
}

func TestInventory_Add_NoAcceptingCollection(t *testing.T) {
	belt := NewCollection("belt", 2, 0, WithAllowedKinds(item.KindConsumable))
	inv, _ := newTestInventory(belt)
	s := NewStack(swordDef(), 1)
	if inv.Add(s) {
		t.Fatal("expected Add to fail with no accepting collection")
	}
	if s.Quantity != 1 {
		t.Fatal("failed Add must leave the source stack untouched")
	}
	if belt.Contains(s) {
		t.Fatal("failed Add must not place the stack")
	}
}

func TestInventory_Add_MergesThenInsertsResidual(t *testing.T) {
	// Spec scenario: slot holds (potion, qty 3, max 5); adding qty 4 yields
	// one maxed slot plus a new qty-2 slot, with exactly one notification
	// for the new slot entry.
	def := potionDef()
	bag := NewCollection("bag", 4, 0)
	existing := NewStack(def, 3)
	bag.SetSlot(existing, 0)
	inv, _ := newTestInventory(bag)

	var notified []*Stack
	inv.OnItemAdded(func(s *Stack, c *Collection) {
		if c != bag {
			t.Fatalf("notification for wrong collection %q", c.Name)
		}
		notified = append(notified, s)
	})

	incoming := NewStack(def, 4)
	if !inv.Add(incoming) {
		t.Fatal("expected Add to succeed")
	}
	if existing.Quantity != 5 {
		t.Fatalf("expected existing stack maxed at 5, got %d", existing.Quantity)
	}
	if incoming.Quantity != 2 {
		t.Fatalf("expected residual 2, got %d", incoming.Quantity)
	}
	if bag.Slot(1) != incoming {
		t.Fatal("expected residual in the next free slot")
	}
	if len(notified) != 1 || notified[0] != incoming {
		t.Fatalf("expected exactly one notification for the new slot entry, got %d", len(notified))
	}
}

func TestInventory_Add_FullMergeDoesNotNotify(t *testing.T) {
	def := potionDef()
	bag := NewCollection("bag", 4, 0)
	bag.SetSlot(NewStack(def, 3), 0)
	inv, _ := newTestInventory(bag)

	fired := 0
	inv.OnItemAdded(func(*Stack, *Collection) { fired++ })

	if !inv.Add(NewStack(def, 2)) {
		t.Fatal("expected Add to succeed")
	}
	if fired != 0 {
		t.Fatalf("fully merged add must not notify, got %d notifications", fired)
	}
	if bag.Slot(0).Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", bag.Slot(0).Quantity)
	}
}

func TestInventory_BestCollectionFor_PriorityTieBreak(t *testing.T) {
	low := NewCollection("low", 2, 1)
	high := NewCollection("high", 2, 2)
	inv, _ := newTestInventory(high, low)
	if got := inv.BestCollectionFor(NewStack(potionDef(), 1)); got != low {
		t.Fatalf("expected priority-1 collection, got %q", got.Name)
	}
}

func TestInventory_BestCollectionFor_SkipsFullAndOwning(t *testing.T) {
	def := potionDef()
	full := NewCollection("full", 1, 0)
	full.SetSlot(NewStack(def, 5), 0)
	owning := NewCollection("owning", 2, 1)
	held := NewStack(def, 1)
	owning.SetSlot(held, 0)
	spare := NewCollection("spare", 2, 2)
	inv, _ := newTestInventory(full, owning, spare)

	if got := inv.BestCollectionFor(held); got != spare {
		t.Fatalf("expected spare collection, got %q", got.Name)
	}
}

func TestInventory_AddThenRemove_RoundTrip(t *testing.T) {
	bag := NewCollection("bag", 4, 0)
	inv, _ := newTestInventory(bag)
	def := potionDef()
	if !inv.Add(NewStack(def, 4)) {
		t.Fatal("expected Add to succeed")
	}
	if got := inv.RemoveItems(def, 4, bag); got != 4 {
		t.Fatalf("expected 4 removed, got %d", got)
	}
	for i := 0; i < bag.Size(); i++ {
		if bag.Slot(i) != nil {
			t.Fatalf("expected slot %d empty after round trip", i)
		}
	}
}

func TestInventory_RemoveItems_Partial(t *testing.T) {
	def := potionDef()
	bag := NewCollection("bag", 4, 0)
	bag.SetSlot(NewStack(def, 2), 0)
	bag.SetSlot(NewStack(def, 1), 2)
	inv, _ := newTestInventory(bag)

	if got := inv.RemoveItems(def, 10, bag); got != 3 {
		t.Fatalf("expected 3 removed with insufficient quantity, got %d", got)
	}
	if bag.Slot(0) != nil || bag.Slot(2) != nil {
		t.Fatal("expected consumed stacks evicted")
	}
}

func TestInventory_RemoveItems_SpansStacksInSlotOrder(t *testing.T) {
	def := potionDef()
	bag := NewCollection("bag", 3, 0)
	first := NewStack(def, 5)
	second := NewStack(def, 5)
	bag.SetSlot(first, 0)
	bag.SetSlot(second, 1)
	inv, _ := newTestInventory(bag)

	if got := inv.RemoveItems(def, 7, bag); got != 7 {
		t.Fatalf("expected 7 removed, got %d", got)
	}
	if bag.Slot(0) != nil {
		t.Fatal("expected first stack fully consumed")
	}
	if second.Quantity != 3 {
		t.Fatalf("expected 3 left on second stack, got %d", second.Quantity)
	}
}

func TestInventory_Combine_Conservation(t *testing.T) {
	def := potionDef()
	give := NewStack(def, 4)
	receive := NewStack(def, 3)
	inv, _ := newTestInventory()
	inv.Combine(give, receive)
	if give.Quantity+receive.Quantity != 7 {
		t.Fatalf("quantity not conserved: %d + %d", give.Quantity, receive.Quantity)
	}
	if receive.Quantity != 5 || give.Quantity != 2 {
		t.Fatalf("expected receive at max 5 and give at 2, got %d/%d", receive.Quantity, give.Quantity)
	}
}

func TestInventory_MoveItem_EmptyDestination(t *testing.T) {
	bag := NewCollection("bag", 2, 0)
	belt := NewCollection("belt", 2, 1)
	s := NewStack(potionDef(), 2)
	bag.SetSlot(s, 0)
	inv, _ := newTestInventory(bag, belt)

	inv.MoveItem(s, belt, 1)
	if bag.Slot(0) != nil {
		t.Fatal("expected source slot cleared")
	}
	if belt.Slot(1) != s {
		t.Fatal("expected stack in destination slot")
	}
}

func TestInventory_MoveItem_FilterRejectIsNoop(t *testing.T) {
	bag := NewCollection("bag", 2, 0)
	belt := NewCollection("belt", 2, 1, WithAllowedKinds(item.KindConsumable))
	s := NewStack(swordDef(), 1)
	bag.SetSlot(s, 0)
	inv, _ := newTestInventory(bag, belt)

	inv.MoveItem(s, belt, 0)
	if bag.Slot(0) != s || belt.Slot(0) != nil {
		t.Fatal("rejected move must not change state")
	}
}

func TestInventory_MoveItem_SameStackIsNoop(t *testing.T) {
	bag := NewCollection("bag", 2, 0)
	s := NewStack(potionDef(), 2)
	bag.SetSlot(s, 0)
	inv, _ := newTestInventory(bag)

	inv.MoveItem(s, bag, 0)
	if bag.Slot(0) != s {
		t.Fatal("moving a stack onto itself must be a no-op")
	}
}

func TestInventory_MoveItem_CombinesSameType(t *testing.T) {
	def := potionDef()
	bag := NewCollection("bag", 2, 0)
	belt := NewCollection("belt", 2, 1)
	moving := NewStack(def, 2)
	existing := NewStack(def, 4)
	bag.SetSlot(moving, 0)
	belt.SetSlot(existing, 0)
	inv, _ := newTestInventory(bag, belt)

	inv.MoveItem(moving, belt, 0)
	if existing.Quantity != 5 {
		t.Fatalf("expected destination at max 5, got %d", existing.Quantity)
	}
	if moving.Quantity != 1 {
		t.Fatalf("expected residual 1 on moving stack, got %d", moving.Quantity)
	}
	if bag.Slot(0) != moving {
		t.Fatal("residual must stay in the source slot")
	}
}

func TestInventory_MoveItem_CombineExhaustsMovingStack(t *testing.T) {
	def := potionDef()
	bag := NewCollection("bag", 2, 0)
	belt := NewCollection("belt", 2, 1)
	moving := NewStack(def, 1)
	existing := NewStack(def, 3)
	bag.SetSlot(moving, 0)
	belt.SetSlot(existing, 0)
	inv, _ := newTestInventory(bag, belt)

	inv.MoveItem(moving, belt, 0)
	if existing.Quantity != 4 {
		t.Fatalf("expected 4, got %d", existing.Quantity)
	}
	if bag.Slot(0) != nil {
		t.Fatal("fully transferred stack must vacate its source slot")
	}
}

func TestInventory_MoveItem_SwapsDifferentTypes(t *testing.T) {
	// Spec scenario: slot A in collection1 holds X, slot B in collection2
	// holds Y; moving X onto B swaps the two stacks across collections.
	bag := NewCollection("bag", 2, 0)
	belt := NewCollection("belt", 2, 1)
	x := NewStack(potionDef(), 2)
	y := NewStack(swordDef(), 1)
	bag.SetSlot(x, 0)
	belt.SetSlot(y, 1)
	inv, _ := newTestInventory(bag, belt)

	inv.MoveItem(x, belt, 1)
	if bag.Slot(0) != y {
		t.Fatal("expected Y in collection1/slotA")
	}
	if belt.Slot(1) != x {
		t.Fatal("expected X in collection2/slotB")
	}
}

func TestInventory_MoveItem_SwapBlockedByReverseFilter(t *testing.T) {
	// The destination accepts the moving stack, but the source collection
	// rejects the displaced occupant, so nothing moves.
	bag := NewCollection("bag", 2, 0, WithAllowedKinds(item.KindConsumable))
	belt := NewCollection("belt", 2, 1)
	x := NewStack(potionDef(), 2)
	y := NewStack(swordDef(), 1)
	bag.SetSlot(x, 0)
	belt.SetSlot(y, 0)
	inv, _ := newTestInventory(bag, belt)

	inv.MoveItem(x, belt, 0)
	if bag.Slot(0) != x || belt.Slot(0) != y {
		t.Fatal("swap must be rejected when the reverse placement is disallowed")
	}
}

func TestInventory_Swap_AcrossCollections(t *testing.T) {
	bag := NewCollection("bag", 2, 0)
	belt := NewCollection("belt", 2, 1)
	a := NewStack(potionDef(), 2)
	b := NewStack(swordDef(), 1)
	bag.SetSlot(a, 1)
	belt.SetSlot(b, 0)
	inv, _ := newTestInventory(bag, belt)

	inv.Swap(a, bag, b, belt)
	if bag.Slot(1) != b || belt.Slot(0) != a {
		t.Fatal("expected reciprocal placement")
	}
}

func TestInventory_DropItem_SpawnsAndClears(t *testing.T) {
	bag := NewCollection("bag", 2, 0)
	s := NewStack(potionDef(), 3)
	bag.SetSlot(s, 0)
	inv, ground := newTestInventory(bag)

	var dropped *world.Object
	inv.OnItemDropped(func(obj *world.Object) { dropped = obj })

	obj := inv.DropItem(s)
	if obj == nil {
		t.Fatal("expected spawned object")
	}
	if bag.Slot(0) != nil {
		t.Fatal("expected source slot cleared")
	}
	if obj.Template != "potion_drop" || obj.Quantity != 3 {
		t.Fatalf("unexpected object: %+v", obj)
	}
	if dropped != obj {
		t.Fatal("expected dropped notification with the spawned object")
	}
	if ground.Object(obj.ID) == nil {
		t.Fatal("expected object tracked by the ground")
	}
	// Owner faces +Z, so the drop lands in front of the origin.
	if obj.Pose.Position.Z != DefaultDropOffset {
		t.Fatalf("expected drop offset %v ahead, got %v", DefaultDropOffset, obj.Pose.Position.Z)
	}
}

func TestInventory_AutoMoveItem_MovesToAlternate(t *testing.T) {
	bag := NewCollection("bag", 2, 0)
	belt := NewCollection("belt", 2, 1)
	s := NewStack(potionDef(), 2)
	bag.SetSlot(s, 0)
	inv, _ := newTestInventory(bag, belt)

	inv.AutoMoveItem(s, true)
	if bag.Slot(0) != nil {
		t.Fatal("expected source slot cleared")
	}
	if !belt.Contains(s) {
		t.Fatal("expected stack moved to the alternate collection")
	}
}

func TestInventory_AutoMoveItem_CombineAbsorbsFully(t *testing.T) {
	def := potionDef()
	bag := NewCollection("bag", 2, 0)
	belt := NewCollection("belt", 2, 1)
	s := NewStack(def, 2)
	absorber := NewStack(def, 1)
	bag.SetSlot(s, 0)
	belt.SetSlot(absorber, 0)
	inv, ground := newTestInventory(bag, belt)

	inv.AutoMoveItem(s, true)
	if absorber.Quantity != 3 {
		t.Fatalf("expected absorbed quantity 3, got %d", absorber.Quantity)
	}
	if bag.Slot(0) != nil {
		t.Fatal("expected source slot cleared with no move or drop")
	}
	if len(ground.Objects()) != 0 {
		t.Fatal("full absorption must not drop")
	}
}

func TestInventory_AutoMoveItem_CombineDisabled(t *testing.T) {
	def := potionDef()
	bag := NewCollection("bag", 2, 0)
	belt := NewCollection("belt", 2, 1)
	s := NewStack(def, 2)
	partial := NewStack(def, 1)
	bag.SetSlot(s, 0)
	belt.SetSlot(partial, 0)
	inv, _ := newTestInventory(bag, belt)

	inv.AutoMoveItem(s, false)
	if partial.Quantity != 1 {
		t.Fatal("combine disabled must not transfer quantity")
	}
	if belt.Slot(1) != s {
		t.Fatal("expected whole stack relocated to a free slot")
	}
}

func TestInventory_AutoMoveItem_DropsWhenNowhereToGo(t *testing.T) {
	// Spec scenario: no collection can accept the item, so it is spawned
	// into the world and the source slot cleared.
	def := potionDef()
	bag := NewCollection("bag", 1, 0)
	full := NewCollection("full", 1, 1)
	full.SetSlot(NewStack(def, 5), 0)
	s := NewStack(def, 2)
	bag.SetSlot(s, 0)
	inv, ground := newTestInventory(bag, full)

	inv.AutoMoveItem(s, true)
	if bag.Slot(0) != nil {
		t.Fatal("expected source slot cleared")
	}
	objs := ground.Objects()
	if len(objs) != 1 || objs[0].Quantity != 2 {
		t.Fatalf("expected one dropped object carrying quantity 2, got %v", objs)
	}
}

func TestInventory_AutoMoveItem_DropsWhenTargetFullyOccupied(t *testing.T) {
	def := potionDef()
	bag := NewCollection("bag", 1, 0)
	// Partial stack of a different item keeps the target non-full but
	// leaves no empty slot for the residual.
	other := &item.ItemDef{ID: "ore", Name: "Ore", Kind: item.KindMaterial, MaxStack: 9, DropRef: "ore_drop"}
	belt := NewCollection("belt", 1, 1)
	belt.SetSlot(NewStack(other, 1), 0)
	s := NewStack(def, 2)
	bag.SetSlot(s, 0)
	inv, ground := newTestInventory(bag, belt)

	inv.AutoMoveItem(s, true)
	if len(ground.Objects()) != 1 {
		t.Fatal("expected drop when the target has no empty slot")
	}
}

func TestProperty_Combine_Conserves(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maxStack := rapid.IntRange(1, 20).Draw(rt, "max")
		def := &item.ItemDef{ID: "x", Name: "X", Kind: item.KindMaterial, MaxStack: maxStack, DropRef: "d"}
		give := NewStack(def, rapid.IntRange(0, maxStack).Draw(rt, "give"))
		receive := NewStack(def, rapid.IntRange(0, maxStack).Draw(rt, "receive"))
		total := give.Quantity + receive.Quantity

		inv, _ := newTestInventory()
		inv.Combine(give, receive)

		if give.Quantity+receive.Quantity != total {
			rt.Fatalf("quantity not conserved: %d != %d", give.Quantity+receive.Quantity, total)
		}
		if give.Quantity != 0 && receive.Quantity != maxStack {
			rt.Fatal("combine must terminate with give empty or receive at max")
		}
		if receive.Quantity > maxStack {
			rt.Fatal("receive exceeded max stack")
		}
	})
}

func TestProperty_Add_SlotInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		def := &item.ItemDef{ID: "x", Name: "X", Kind: item.KindMaterial, MaxStack: 5, DropRef: "d"}
		bag := NewCollection("bag", 4, 0)
		belt := NewCollection("belt", 2, 1)
		inv, _ := newTestInventory(bag, belt)

		adds := rapid.IntRange(1, 8).Draw(rt, "adds")
		for i := 0; i < adds; i++ {
			inv.Add(NewStack(def, rapid.IntRange(1, 5).Draw(rt, "qty")))
		}

		seen := map[string]int{}
		for _, c := range inv.Collections() {
			for i := 0; i < c.Size(); i++ {
				s := c.Slot(i)
				if s == nil {
					continue
				}
				if s.Quantity <= 0 || s.Quantity > s.Def.MaxStack {
					rt.Fatalf("stack invariant violated: quantity %d", s.Quantity)
				}
				seen[s.InstanceID]++
			}
		}
		for id, n := range seen {
			if n != 1 {
				rt.Fatalf("stack %s owned by %d slots", id, n)
			}
		}
	})
}

func TestProperty_RemoveItems_NeverExceedsHeld(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		def := &item.ItemDef{ID: "x", Name: "X", Kind: item.KindMaterial, MaxStack: 5, DropRef: "d"}
		bag := NewCollection("bag", 4, 0)
		inv, _ := newTestInventory(bag)

		held := 0
		for i := 0; i < rapid.IntRange(0, 4).Draw(rt, "stacks"); i++ {
			q := rapid.IntRange(1, 5).Draw(rt, "q")
			if inv.Add(NewStack(def, q)) {
				held += q
			}
		}
		want := rapid.IntRange(0, 25).Draw(rt, "want")
		got := inv.RemoveItems(def, want, bag)
		if got > want || got > held {
			rt.Fatalf("removed %d with want %d and held %d", got, want, held)
		}
		if want <= held && got != want {
			rt.Fatalf("expected full removal of %d, got %d", want, got)
		}
	})
}
