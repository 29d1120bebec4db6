package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/scoundrel/internal/game/combat"
	"github.com/cory-johannsen/scoundrel/internal/game/room"
	"github.com/cory-johannsen/scoundrel/internal/game/run"
	"github.com/cory-johannsen/scoundrel/internal/game/shuffle"
)

// RegisterModules defines the engine global in L:
//
//	engine.log.debug/info/warn(msg)  write to the strategy logger
//	engine.random(n)                 uniform integer in [1, n]
//	engine.MAX_HP, engine.ROOM_SIZE, engine.PICKS_PER_TURN
//
// Precondition: L must be from NewSandboxedState; logger and src must be non-nil.
// Postcondition: engine global is defined in L.
func RegisterModules(L *lua.LState, logger *zap.Logger, src shuffle.Source) {
	engine := L.NewTable()

	logTbl := L.NewTable()
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": logger.Debug,
		"info":  logger.Info,
		"warn":  logger.Warn,
	} {
		L.SetField(logTbl, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	L.SetField(engine, "log", logTbl)

	L.SetField(engine, "random", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n < 1 {
			L.ArgError(1, "n must be >= 1")
			return 0
		}
		L.Push(lua.LNumber(src.Intn(n) + 1))
		return 1
	}))

	L.SetField(engine, "MAX_HP", lua.LNumber(combat.MaxHP))
	L.SetField(engine, "ROOM_SIZE", lua.LNumber(room.Size))
	L.SetField(engine, "PICKS_PER_TURN", lua.LNumber(run.PicksPerTurn))

	L.SetGlobal("engine", engine)
}
