package scripting

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/scoundrel/internal/autoplay"
	"github.com/cory-johannsen/scoundrel/internal/game/card"
	"github.com/cory-johannsen/scoundrel/internal/game/room"
	"github.com/cory-johannsen/scoundrel/internal/game/run"
	"github.com/cory-johannsen/scoundrel/internal/game/shuffle"
)

// chooseFn is the global every strategy must define.
const chooseFn = "choose"

var (
	// ErrNoChoose is returned when a strategy file does not define choose.
	ErrNoChoose = errors.New("strategy does not define choose(state)")
	// ErrBadDecision is returned when choose returns something that is not an action.
	ErrBadDecision = errors.New("invalid strategy decision")
)

// Strategy is a loaded Lua strategy. It satisfies autoplay.Chooser.
//
// A Strategy owns a single LState and is not safe for concurrent use.
type Strategy struct {
	name   string
	L      *lua.LState
	limit  int
	logger *zap.Logger
}

var _ autoplay.Chooser = (*Strategy)(nil)

// LoadStrategy creates a sandboxed VM, registers the engine module and runs
// the file at path.
//
// Precondition: logger and src must be non-nil; instLimit >= 0.
// Postcondition: Returns a Strategy whose choose global is a function, or a
// non-nil error. The caller must Close the Strategy.
func LoadStrategy(path string, instLimit int, src shuffle.Source, logger *zap.Logger) (*Strategy, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	logger = logger.With(zap.String("strategy", name))

	L := NewSandboxedState(instLimit)
	RegisterModules(L, logger, src)

	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("scripting: loading %q: %w", path, err)
	}
	if _, ok := L.GetGlobal(chooseFn).(*lua.LFunction); !ok {
		L.Close()
		return nil, fmt.Errorf("scripting: %q: %w", path, ErrNoChoose)
	}

	logger.Info("strategy loaded", zap.String("path", path))
	return &Strategy{name: name, L: L, limit: instLimit, logger: logger}, nil
}

// Name returns the strategy file name without extension.
func (s *Strategy) Name() string { return s.name }

// Close releases the VM.
func (s *Strategy) Close() { s.L.Close() }

// Choose calls choose(state) with a fresh instruction budget.
//
// Postcondition: Returns a decision with Slot in [0, room.Size) for actions
// other than avoid, or a non-nil error. Lua runtime errors and instruction
// limit overruns are returned as errors.
func (s *Strategy) Choose(v run.View) (autoplay.Decision, error) {
	cancel := limitInstructions(s.L, s.limit)
	defer cancel()

	if err := s.L.CallByParam(lua.P{
		Fn:      s.L.GetGlobal(chooseFn),
		NRet:    2,
		Protect: true,
	}, StateTable(s.L, v)); err != nil {
		return autoplay.Decision{}, fmt.Errorf("scripting: %s: %w", s.name, err)
	}
	action, slot := s.L.Get(-2), s.L.Get(-1)
	s.L.Pop(2)

	d, err := decode(action, slot)
	if err != nil {
		return autoplay.Decision{}, fmt.Errorf("scripting: %s: %w", s.name, err)
	}
	s.logger.Debug("strategy decision", zap.String("decision", d.String()))
	return d, nil
}

func decode(action, slot lua.LValue) (autoplay.Decision, error) {
	name, ok := action.(lua.LString)
	if !ok {
		return autoplay.Decision{}, fmt.Errorf("%w: action is %s, want string", ErrBadDecision, action.Type())
	}
	a, err := autoplay.ParseAction(string(name))
	if err != nil {
		return autoplay.Decision{}, fmt.Errorf("%w: %w", ErrBadDecision, err)
	}
	if a == autoplay.ActionAvoid {
		return autoplay.Decision{Action: a}, nil
	}
	n, ok := slot.(lua.LNumber)
	if !ok {
		return autoplay.Decision{}, fmt.Errorf("%w: slot is %s, want number", ErrBadDecision, slot.Type())
	}
	i := int(n)
	if lua.LNumber(i) != n || i < 1 || i > room.Size {
		return autoplay.Decision{}, fmt.Errorf("%w: slot %v out of range 1..%d", ErrBadDecision, n, room.Size)
	}
	return autoplay.Decision{Action: a, Slot: i - 1}, nil
}

// StateTable converts v into the table passed to choose. Slots are 1-based;
// empty slots are {occupied = false}. weapon and cap are 0 when absent.
func StateTable(L *lua.LState, v run.View) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "hp", lua.LNumber(v.HP))
	L.SetField(t, "max_hp", lua.LNumber(v.MaxHP))
	L.SetField(t, "weapon", lua.LNumber(v.Weapon))
	L.SetField(t, "cap", lua.LNumber(v.Cap))
	L.SetField(t, "deck", lua.LNumber(v.DeckRemaining))
	L.SetField(t, "room", lua.LNumber(v.RoomNumber))
	L.SetField(t, "picks", lua.LNumber(v.Picks))
	L.SetField(t, "potion_used", lua.LBool(v.PotionUsed))
	L.SetField(t, "can_avoid", lua.LBool(v.CanAvoid))

	slots := L.NewTable()
	for i, sv := range v.Slots {
		st := L.NewTable()
		L.SetField(st, "occupied", lua.LBool(sv.Occupied))
		if sv.Occupied {
			L.SetField(st, "rank", lua.LNumber(sv.Card.Rank))
			L.SetField(st, "label", lua.LString(sv.Card.String()))
			L.SetField(st, "suit", lua.LString(suitName(sv.Card.Suit)))
			L.SetField(st, "kind", lua.LString(sv.Card.Category().String()))
			L.SetField(st, "damage", lua.LNumber(sv.Projection.Damage))
			L.SetField(st, "heal", lua.LNumber(sv.Projection.Heal))
			L.SetField(st, "with_weapon", lua.LBool(sv.Projection.WithWeapon))
			L.SetField(st, "weapon_usable", lua.LBool(sv.WeaponUsable))
		}
		slots.RawSetInt(i+1, st)
	}
	L.SetField(t, "slots", slots)
	return t
}

func suitName(s card.Suit) string {
	switch s {
	case card.Clubs:
		return "clubs"
	case card.Diamonds:
		return "diamonds"
	case card.Hearts:
		return "hearts"
	case card.Spades:
		return "spades"
	default:
		return "unknown"
	}
}
