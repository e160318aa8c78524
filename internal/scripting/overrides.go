package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsim/internal/game/geom"
	"github.com/cory-johannsen/charsim/internal/game/weapon"
)

// Hook names looked up as Lua globals by the override manager.
const (
	hookCanUsePrimary   = "can_use_primary"
	hookCanUseSecondary = "can_use_secondary"
)

// OverrideManager owns one sandboxed LState holding behavior-override
// scripts and adapts its hooks onto the weapon handler's UseOverride
// interface.
//
// A hook approves unless it explicitly returns false; a missing hook or a
// Lua runtime error approves as well, so a broken script can never brick
// weapon usage. The mutex serializes hook calls: an LState is
// single-threaded.
type OverrideManager struct {
	mu     sync.Mutex
	state  *lua.LState
	cancel context.CancelFunc
	logger *zap.Logger
}

// NewOverrideManager creates an OverrideManager with no scripts loaded.
//
// Precondition: logger must be non-nil.
func NewOverrideManager(logger *zap.Logger) *OverrideManager {
	return &OverrideManager{logger: logger}
}

// LoadDir creates a sandboxed VM and executes every *.lua file in scriptDir
// in lexicographic order, replacing any previously loaded VM.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: hooks defined by the scripts are callable; returns error on
// Lua load failure.
func (m *OverrideManager) LoadDir(scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	if m.state != nil {
		m.cancel()
		m.state.Close()
	}
	m.state = L
	m.cancel = cancel
	m.mu.Unlock()
	return nil
}

// Close releases the Lua VM.
func (m *OverrideManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		m.cancel()
		m.state.Close()
		m.state = nil
	}
}

// callHook calls the named Lua global function and reports whether the hook
// approved. Returns true when no VM is loaded, the hook is not defined, or
// the hook errors; only an explicit false return denies.
func (m *OverrideManager) callHook(hook string, args ...lua.LValue) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return true
	}
	fn := m.state.GetGlobal(hook)
	if fn == lua.LNil {
		return true
	}

	if err := m.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return true
	}

	ret := m.state.Get(-1)
	m.state.Pop(1)
	return ret != lua.LFalse
}

// CanUsePrimary implements weapon.UseOverride by calling the
// can_use_primary(weapon_id, x, y, z) hook.
func (m *OverrideManager) CanUsePrimary(target geom.Vec3, w *weapon.Equipped) bool {
	return m.callHook(hookCanUsePrimary,
		lua.LString(w.Def.ID),
		lua.LNumber(target.X),
		lua.LNumber(target.Y),
		lua.LNumber(target.Z),
	)
}

// CanUseSecondary implements weapon.UseOverride by calling the
// can_use_secondary(weapon_id, toggle, x, y, z) hook.
func (m *OverrideManager) CanUseSecondary(dir geom.Vec3, toggle bool, w *weapon.Equipped) bool {
	return m.callHook(hookCanUseSecondary,
		lua.LString(w.Def.ID),
		lua.LBool(toggle),
		lua.LNumber(dir.X),
		lua.LNumber(dir.Y),
		lua.LNumber(dir.Z),
	)
}

// Interface guard.
var _ weapon.UseOverride = (*OverrideManager)(nil)
