// Package combat resolves a single card turned over from a room against the
// player: monster fights with weapon binding, weapon equips, and the one
// potion per turn limit.
package combat

import (
	"errors"

	"github.com/cory-johannsen/scoundrel/internal/game/card"
)

// MaxHP is the player's starting and maximum health.
const MaxHP = 20

var (
	// ErrNoWeaponEquipped is returned when a weapon fight is forced barehanded.
	ErrNoWeaponEquipped = errors.New("no weapon equipped")
	// ErrWeaponCapExceeded is returned when a forced weapon fight targets a
	// monster stronger than the last one the weapon killed.
	ErrWeaponCapExceeded = errors.New("weapon cannot fight a monster stronger than its last kill")
)

// Mode selects how a monster is fought.
type Mode int

const (
	// ModeAuto fights with the weapon when it can be used, otherwise barehanded.
	ModeAuto Mode = iota
	// ModeWeapon forces the equipped weapon.
	ModeWeapon
	// ModeBarehand fights without the weapon, leaving its cap untouched.
	ModeBarehand
)

// String returns a lowercase mode name.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeWeapon:
		return "weapon"
	case ModeBarehand:
		return "barehand"
	default:
		return "unknown"
	}
}

// Memory is the equipped weapon and its binding cap. Zero means none.
//
// Invariant: Cap, once set, only decreases until a new weapon is equipped.
type Memory struct {
	Weapon card.Rank
	Cap    card.Rank
}

// HasWeapon reports whether a weapon is equipped.
func (m Memory) HasWeapon() bool { return m.Weapon != 0 }

// HasCap reports whether the equipped weapon has killed anything yet.
func (m Memory) HasCap() bool { return m.Cap != 0 }

// CanUseOn reports whether the weapon may fight a monster of the given rank.
//
// Postcondition: true iff a weapon is equipped and (no cap or monster <= Cap).
func (m Memory) CanUseOn(monster card.Rank) bool {
	if !m.HasWeapon() {
		return false
	}
	return !m.HasCap() || monster <= m.Cap
}

// Player is the health and per-turn potion state of the adventurer.
type Player struct {
	HP         int
	PotionUsed bool
}

// NewPlayer returns a player at full health.
func NewPlayer() Player { return Player{HP: MaxHP} }

// ApplyDamage reduces HP by amount, flooring at zero.
//
// Precondition: amount >= 0.
// Postcondition: HP >= 0.
func (p *Player) ApplyDamage(amount int) {
	p.HP -= amount
	if p.HP < 0 {
		p.HP = 0
	}
}

// Heal raises HP by amount, capped at MaxHP, and returns the HP actually gained.
//
// Postcondition: HP <= MaxHP.
func (p *Player) Heal(amount int) int {
	before := p.HP
	p.HP += amount
	if p.HP > MaxHP {
		p.HP = MaxHP
	}
	return p.HP - before
}

// Dead reports whether HP has reached zero.
func (p Player) Dead() bool { return p.HP <= 0 }

// StartTurn clears the per-turn potion flag.
func (p *Player) StartTurn() { p.PotionUsed = false }
