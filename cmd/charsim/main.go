// Package main provides the character simulation demo binary: it loads
// content, assembles the inventory and weapon-occupation core for a single
// character, and runs a short scripted sequence against it.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsim/internal/config"
	"github.com/cory-johannsen/charsim/internal/game/equipment"
	"github.com/cory-johannsen/charsim/internal/game/geom"
	"github.com/cory-johannsen/charsim/internal/game/inventory"
	"github.com/cory-johannsen/charsim/internal/game/item"
	"github.com/cory-johannsen/charsim/internal/game/motor"
	"github.com/cory-johannsen/charsim/internal/game/weapon"
	"github.com/cory-johannsen/charsim/internal/game/world"
	"github.com/cory-johannsen/charsim/internal/observability"
	"github.com/cory-johannsen/charsim/internal/scripting"
)

// character is the demo's pose provider: a fixed position facing +X.
type character struct {
	pose geom.Pose
}

func (c *character) Pose() geom.Pose { return c.pose }

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	// Load content definitions.
	contentStart := time.Now()
	items, err := item.LoadItems(cfg.Content.ItemsDir)
	if err != nil {
		logger.Fatal("loading item definitions", zap.Error(err))
	}
	weapons, err := item.LoadWeapons(cfg.Content.WeaponsDir)
	if err != nil {
		logger.Fatal("loading weapon definitions", zap.Error(err))
	}
	registry := item.NewRegistry()
	if err := registry.RegisterAll(items, weapons); err != nil {
		logger.Fatal("registering content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("items", len(items)),
		zap.Int("weapons", len(weapons)),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	// Assemble the character core.
	ground := world.NewGround()
	owner := &character{pose: geom.Pose{Forward: geom.Vec3{X: 1}}}

	inv := inventory.NewInventory(owner, ground, logger,
		inventory.WithDropOffset(cfg.Inventory.DropOffset))
	for _, cc := range cfg.Inventory.Collections {
		var opts []inventory.CollectionOption
		if len(cc.AllowedKinds) > 0 {
			opts = append(opts, inventory.WithAllowedKinds(cc.AllowedKinds...))
		}
		inv.AddCollection(inventory.NewCollection(cc.Name, cc.Slots, cc.Priority, opts...))
	}
	inv.OnItemAdded(func(s *inventory.Stack, c *inventory.Collection) {
		logger.Info("item added",
			zap.String("item", s.Def.ID),
			zap.Int("quantity", s.Quantity),
			zap.String("collection", c.Name),
		)
	})
	inv.OnItemDropped(func(obj *world.Object) {
		logger.Info("item dropped into world",
			zap.String("template", obj.Template),
			zap.Int("quantity", obj.Quantity),
			zap.Float64("x", obj.Pose.Position.X),
		)
	})

	simMotor := motor.NewSimMotor()
	weaponHandler := weapon.NewHandler(inv, registry, simMotor, logger)
	weaponHandler.OnPrimaryWeaponChanged(func(eq *weapon.Equipped) {
		if eq == nil {
			logger.Info("primary weapon cleared")
			return
		}
		logger.Info("primary weapon changed", zap.String("weapon", eq.Def.ID))
	})
	weaponHandler.OnPrimaryUsed(func(eq *weapon.Equipped, target geom.Vec3) {
		logger.Info("primary weapon used",
			zap.String("weapon", eq.Def.ID),
			zap.Float64("target_x", target.X),
		)
	})

	equipHandler := equipment.NewHandler()
	equipHandler.OnEquipped(func(_ equipment.Hand, s *inventory.Stack) {
		weaponHandler.HandleEquipped(s)
	})
	equipHandler.OnUnequipped(func(_ equipment.Hand, s *inventory.Stack) {
		weaponHandler.HandleUnequipped(s)
	})

	// Behavior-override scripts.
	if cfg.Scripting.Enabled {
		if info, statErr := os.Stat(cfg.Scripting.Dir); statErr == nil && info.IsDir() {
			overrides := scripting.NewOverrideManager(logger)
			if err := overrides.LoadDir(cfg.Scripting.Dir, cfg.Scripting.InstructionLimit); err != nil {
				logger.Fatal("loading override scripts", zap.Error(err))
			}
			defer overrides.Close()
			weaponHandler.RegisterOverride(overrides)
			logger.Info("override scripts loaded", zap.String("dir", cfg.Scripting.Dir))
		} else {
			logger.Warn("scripting enabled but script dir not found",
				zap.String("dir", cfg.Scripting.Dir))
		}
	}

	logger.Info("character core initialized", zap.Duration("startup", time.Since(start)))

	runDemo(logger, registry, inv, equipHandler, weaponHandler, ground)
}

// findStackOf returns the first slotted stack of the given item type, or nil.
func findStackOf(inv *inventory.Inventory, def *item.ItemDef) *inventory.Stack {
	for _, col := range inv.Collections() {
		for i := 0; i < col.Size(); i++ {
			if s := col.Slot(i); s != nil && s.Def == def {
				return s
			}
		}
	}
	return nil
}

// runDemo exercises the core: stacking adds, weapon equips with hand
// displacement, primary use with cooldown, aim mode, and a world drop.
func runDemo(
	logger *zap.Logger,
	registry *item.Registry,
	inv *inventory.Inventory,
	equipHandler *equipment.Handler,
	weaponHandler *weapon.Handler,
	ground *world.Ground,
) {
	lookup := func(id string) *item.ItemDef {
		d, ok := registry.Item(id)
		if !ok {
			logger.Fatal("demo item missing from content", zap.String("item", id))
		}
		return d
	}

	ration := lookup("field_ration")
	scrap := lookup("scrap_metal")
	pistolItem := lookup("pistol")
	rifleItem := lookup("rifle")

	// Two partial stacks of the same consumable merge on add.
	inv.Add(inventory.NewStack(ration, 3))
	inv.Add(inventory.NewStack(ration, 4))
	inv.Add(inventory.NewStack(scrap, 6))

	// Equip the pistol and fire at a target ahead.
	pistol := inventory.NewStack(pistolItem, 1)
	inv.Add(pistol)
	equipHandler.Equip(equipment.HandMain, pistol)
	target := geom.Vec3{X: 10}
	weaponHandler.PrimaryUse(target)
	weaponHandler.PrimaryUse(target) // cooldown still active; silently ignored

	// Toggle aim mode, then release it.
	weaponHandler.Aim(geom.Vec3{X: 1, Z: 0.2}, true, true)
	logger.Info("aim state", zap.Bool("aiming", weaponHandler.IsAiming()))
	weaponHandler.Aim(geom.Vec3{}, false, false)

	// A two-handed rifle claims both hands, displacing the pistol back into
	// the inventory.
	rifle := inventory.NewStack(rifleItem, 1)
	inv.Add(rifle)
	equipHandler.Equip(equipment.HandMain, rifle)
	logger.Info("hands after rifle equip",
		zap.Bool("two_handed", weaponHandler.IsTwoHanded()),
	)

	// Drop the scrap in front of the character.
	if s := findStackOf(inv, scrap); s != nil {
		inv.DropItem(s)
	}

	logger.Info("demo complete",
		zap.Int("ground_objects", len(ground.Objects())),
	)
}
