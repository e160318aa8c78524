// Package world provides the spawn system the inventory core uses to place
// dropped items into the simulation world.
package world

import (
	"sync"

	"github.com/google/uuid"

	"github.com/cory-johannsen/charsim/internal/game/geom"
)

// Object is a world representation of a dropped item.
type Object struct {
	// ID is the stable handle for the spawned object.
	ID uuid.UUID
	// Template names the spawn template the object was instantiated from.
	Template string
	// Pose is the object's world position and facing.
	Pose geom.Pose
	// Quantity is the item count carried onto the object at drop time.
	Quantity int
}

// Spawner instantiates and destroys world objects.
type Spawner interface {
	// Spawn instantiates the named template at pose carrying qty units.
	Spawn(template string, pose geom.Pose, qty int) *Object
	// Destroy removes the object with the given id; reports whether it existed.
	Destroy(id uuid.UUID) bool
}

// Ground tracks live dropped objects.
// It is thread-safe via sync.RWMutex.
type Ground struct {
	mu      sync.RWMutex
	objects map[uuid.UUID]*Object
}

// NewGround creates a Ground with no live objects.
//
// Postcondition: returned Ground is ready for use with zero objects.
func NewGround() *Ground {
	return &Ground{
		objects: make(map[uuid.UUID]*Object),
	}
}

// Spawn instantiates a new object from template at pose.
//
// Precondition: template is non-empty; qty > 0.
// Postcondition: the returned object is tracked until Destroy is called.
func (g *Ground) Spawn(template string, pose geom.Pose, qty int) *Object {
	obj := &Object{
		ID:       uuid.New(),
		Template: template,
		Pose:     pose,
		Quantity: qty,
	}
	g.mu.Lock()
	g.objects[obj.ID] = obj
	g.mu.Unlock()
	return obj
}

// Destroy removes the object with the given id.
//
// Postcondition: Object(id) no longer returns the object; reports whether it existed.
func (g *Ground) Destroy(id uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.objects[id]; !ok {
		return false
	}
	delete(g.objects, id)
	return true
}

// Object returns the tracked object with the given id, or nil.
func (g *Ground) Object(id uuid.UUID) *Object {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.objects[id]
}

// Objects returns a snapshot of all live objects in unspecified order.
//
// Postcondition: returned slice is a copy; mutations do not affect internal state.
func (g *Ground) Objects() []*Object {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Object, 0, len(g.objects))
	for _, obj := range g.objects {
		out = append(out, obj)
	}
	return out
}
