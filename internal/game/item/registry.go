package item

import "fmt"

// Registry holds all loaded item and weapon definitions indexed by ID.
type Registry struct {
	items   map[string]*ItemDef
	weapons map[string]*WeaponDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		items:   make(map[string]*ItemDef),
		weapons: make(map[string]*WeaponDef),
	}
}

// RegisterItem adds d to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Item(d.ID) returns (d, true); returns error if d.ID already registered.
func (r *Registry) RegisterItem(d *ItemDef) error {
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("item: Registry.RegisterItem: item ID %q already registered", d.ID)
	}
	r.items[d.ID] = d
	return nil
}

// RegisterWeapon adds w to the registry.
//
// Precondition:  w must not be nil.
// Postcondition: Weapon(w.ID) returns (w, true); returns error if w.ID already registered.
func (r *Registry) RegisterWeapon(w *WeaponDef) error {
	if _, exists := r.weapons[w.ID]; exists {
		return fmt.Errorf("item: Registry.RegisterWeapon: weapon ID %q already registered", w.ID)
	}
	r.weapons[w.ID] = w
	return nil
}

// RegisterAll registers every definition in items and weapons, then verifies
// that each weapon-kind item's WeaponRef resolves.
//
// Postcondition: on success every def is registered and all refs resolve.
func (r *Registry) RegisterAll(items []*ItemDef, weapons []*WeaponDef) error {
	for _, w := range weapons {
		if err := r.RegisterWeapon(w); err != nil {
			return err
		}
	}
	for _, d := range items {
		if err := r.RegisterItem(d); err != nil {
			return err
		}
	}
	for _, d := range r.items {
		if d.WeaponRef == "" {
			continue
		}
		if _, ok := r.weapons[d.WeaponRef]; !ok {
			return fmt.Errorf("item: Registry.RegisterAll: item %q references unknown weapon %q", d.ID, d.WeaponRef)
		}
	}
	return nil
}

// Item returns the ItemDef for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Item(id string) (*ItemDef, bool) {
	d, ok := r.items[id]
	return d, ok
}

// Weapon returns the WeaponDef for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Weapon(id string) (*WeaponDef, bool) {
	w, ok := r.weapons[id]
	return w, ok
}

// AllItems returns all registered ItemDefs in unspecified order.
//
// Postcondition: len(result) == number of registered items.
func (r *Registry) AllItems() []*ItemDef {
	out := make([]*ItemDef, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, d)
	}
	return out
}
