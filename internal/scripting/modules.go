package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers all engine.* Lua functions into L:
//
//	engine.combatant(uid) -> table or nil
//	engine.roll(n)        -> integer in [1, n]
//	engine.log.<level>(msg) for debug, info, warn and error
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "combatant", L.NewFunction(m.luaCombatant))
	L.SetField(engine, "roll", L.NewFunction(m.luaRoll))
	log := L.NewTable()
	for level, fn := range map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	} {
		L.SetField(log, level, L.NewFunction(luaLog(fn)))
	}
	L.SetField(engine, "log", log)
	L.SetGlobal("engine", engine)
}

func (m *Manager) luaCombatant(L *lua.LState) int {
	uid := L.CheckString(1)
	if m.GetCombatant == nil {
		L.Push(lua.LNil)
		return 1
	}
	info := m.GetCombatant(uid)
	if info == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(combatantTable(L, info))
	return 1
}

func combatantTable(L *lua.LState, c *CombatantInfo) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "uid", lua.LString(c.UID))
	L.SetField(t, "name", lua.LString(c.Name))
	L.SetField(t, "class", lua.LString(c.Class))
	L.SetField(t, "level", lua.LNumber(c.Level))
	L.SetField(t, "hp", lua.LNumber(c.HP))
	L.SetField(t, "max_hp", lua.LNumber(c.MaxHP))
	L.SetField(t, "ammo", lua.LNumber(c.Ammo))
	L.SetField(t, "max_ammo", lua.LNumber(c.MaxAmmo))
	L.SetField(t, "charge", lua.LNumber(c.Charge))
	L.SetField(t, "ability_ready", lua.LBool(c.AbilityReady))
	L.SetField(t, "invincible", lua.LBool(c.Invincible))
	L.SetField(t, "stunned", lua.LBool(c.Stunned))
	L.SetField(t, "status", lua.LString(c.Status))
	L.SetField(t, "summon_hp", lua.LNumber(c.SummonHP))
	L.SetField(t, "distance", lua.LNumber(c.Distance))
	L.SetField(t, "range", lua.LNumber(c.Range))
	return t
}

func (m *Manager) luaRoll(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 1 {
		L.ArgError(1, "n must be >= 1")
		return 0
	}
	L.Push(lua.LNumber(m.roller.Intn("lua", n) + 1))
	return 1
}

func luaLog(write func(string, ...zap.Field)) lua.LGFunction {
	return func(L *lua.LState) int {
		write("lua", zap.String("message", L.CheckString(1)))
		return 0
	}
}
