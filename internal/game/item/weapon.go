package item

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// HandSlot identifies which hand reference a weapon routes to when equipped.
type HandSlot string

const (
	// HandSlotPrimary routes the weapon to the primary hand reference.
	HandSlotPrimary HandSlot = "primary"
	// HandSlotSecondary routes the weapon to the secondary hand reference.
	HandSlotSecondary HandSlot = "secondary"
)

// Hands declares how many hand slots a weapon occupies.
type Hands string

const (
	// HandsOne occupies a single hand slot.
	HandsOne Hands = "one"
	// HandsTwo occupies both hand slots; the weapon reference is mirrored
	// into primary and secondary.
	HandsTwo Hands = "two"
)

// WeaponDef defines the static properties of a weapon loaded from YAML.
type WeaponDef struct {
	ID   string   `yaml:"id"`
	Name string   `yaml:"name"`
	Slot HandSlot `yaml:"slot"`
	// Hands is "one" or "two"; two-handed weapons occupy both hand slots.
	Hands Hands `yaml:"hands"`
	// UsableAirborne permits use while the character is not grounded.
	UsableAirborne bool `yaml:"usable_airborne"`
	// UseCooldown is the movement-lock duration applied after a successful
	// primary use.
	UseCooldown time.Duration `yaml:"use_cooldown"`
	// MagazineCapacity is the round count per magazine; 0 means the weapon
	// has no ammunition gate.
	MagazineCapacity int `yaml:"magazine_capacity"`
}

// IsTwoHanded reports whether the weapon occupies both hand slots.
func (w *WeaponDef) IsTwoHanded() bool {
	return w.Hands == HandsTwo
}

// IsOneHanded reports whether the weapon occupies a single hand slot.
func (w *WeaponDef) IsOneHanded() bool {
	return w.Hands == HandsOne
}

// HasMagazine reports whether the weapon consumes ammunition on use.
func (w *WeaponDef) HasMagazine() bool {
	return w.MagazineCapacity > 0
}

// UnmarshalYAML decodes a WeaponDef, accepting UseCooldown as a duration
// string ("400ms", "1.5s").
func (w *WeaponDef) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ID               string   `yaml:"id"`
		Name             string   `yaml:"name"`
		Slot             HandSlot `yaml:"slot"`
		Hands            Hands    `yaml:"hands"`
		UsableAirborne   bool     `yaml:"usable_airborne"`
		UseCooldown      string   `yaml:"use_cooldown"`
		MagazineCapacity int      `yaml:"magazine_capacity"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	var cooldown time.Duration
	if raw.UseCooldown != "" {
		d, err := time.ParseDuration(raw.UseCooldown)
		if err != nil {
			return fmt.Errorf("weapon %q: invalid use_cooldown %q: %w", raw.ID, raw.UseCooldown, err)
		}
		cooldown = d
	}
	*w = WeaponDef{
		ID:               raw.ID,
		Name:             raw.Name,
		Slot:             raw.Slot,
		Hands:            raw.Hands,
		UsableAirborne:   raw.UsableAirborne,
		UseCooldown:      cooldown,
		MagazineCapacity: raw.MagazineCapacity,
	}
	return nil
}

// Validate checks that the WeaponDef satisfies its invariants.
//
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if w.Slot != HandSlotPrimary && w.Slot != HandSlotSecondary {
		errs = append(errs, fmt.Errorf("Slot must be primary or secondary; got %q", w.Slot))
	}
	if w.Hands != HandsOne && w.Hands != HandsTwo {
		errs = append(errs, fmt.Errorf("Hands must be one or two; got %q", w.Hands))
	}
	if w.UseCooldown < 0 {
		errs = append(errs, errors.New("UseCooldown must not be negative"))
	}
	if w.MagazineCapacity < 0 {
		errs = append(errs, errors.New("MagazineCapacity must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}

// LoadWeapons reads all *.yaml files from dir, parses each as a WeaponDef,
// validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid WeaponDefs or the first encountered error.
func LoadWeapons(dir string) ([]*WeaponDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadWeapons: cannot read directory %q: %w", dir, err)
	}

	var weapons []*WeaponDef
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot read file %q: %w", path, err)
		}
		var w WeaponDef
		if err := yaml.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot parse file %q: %w", path, err)
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("LoadWeapons: invalid weapon in %q: %w", path, err)
		}
		weapons = append(weapons, &w)
	}
	return weapons, nil
}
