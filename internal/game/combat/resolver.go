package combat

import (
	"fmt"

	"github.com/cory-johannsen/scoundrel/internal/game/card"
)

// Resolution describes the effect of resolving one card.
type Resolution struct {
	Card     card.Card
	HPBefore int
	HPAfter  int
	// Damage is the HP lost to a monster.
	Damage int
	// WithWeapon is true when a monster was fought with the equipped weapon.
	WithWeapon bool
	// Weapon is the weapon rank used in a fight, or equipped by a weapon card.
	Weapon card.Rank
	// Replaced is the rank of the weapon discarded by an equip, zero if none.
	Replaced card.Rank
	// Healed is the HP gained from a potion.
	Healed int
	// Discarded is true for a potion thrown away because one was already drunk this turn.
	Discarded bool
}

// CheckMonster decides whether a fight in the given mode would use the weapon,
// without changing anything.
//
// Postcondition: returns ErrNoWeaponEquipped or ErrWeaponCapExceeded only for ModeWeapon.
func CheckMonster(mem Memory, monster card.Card, mode Mode) (useWeapon bool, err error) {
	switch mode {
	case ModeWeapon:
		if !mem.HasWeapon() {
			return false, ErrNoWeaponEquipped
		}
		if !mem.CanUseOn(monster.Rank) {
			return false, fmt.Errorf("%s against cap %s: %w", monster, mem.Cap, ErrWeaponCapExceeded)
		}
		return true, nil
	case ModeBarehand:
		return false, nil
	default:
		return mem.CanUseOn(monster.Rank), nil
	}
}

// Check validates resolving c in the given mode. Only monsters can fail.
func Check(mem Memory, c card.Card, mode Mode) error {
	if c.Category() != card.Monster {
		return nil
	}
	_, err := CheckMonster(mem, c, mode)
	return err
}

// ResolveMonster fights monster. A weapon fight deals max(monster-weapon, 0)
// and binds the weapon to the monster's rank; a barehand fight deals the full rank.
//
// Precondition: monster.Category() == card.Monster.
// Postcondition: on error mem and p are unchanged.
func ResolveMonster(mem *Memory, p *Player, monster card.Card, mode Mode) (Resolution, error) {
	useWeapon, err := CheckMonster(*mem, monster, mode)
	if err != nil {
		return Resolution{}, err
	}
	res := Resolution{Card: monster, HPBefore: p.HP}
	dmg := monster.Value()
	if useWeapon {
		dmg = max(monster.Value()-int(mem.Weapon), 0)
		res.WithWeapon = true
		res.Weapon = mem.Weapon
		mem.Cap = monster.Rank
	}
	p.ApplyDamage(dmg)
	res.Damage = dmg
	res.HPAfter = p.HP
	return res, nil
}

// Equip replaces any held weapon with weapon and clears the binding cap.
//
// Postcondition: mem.Weapon == weapon.Rank and !mem.HasCap().
func Equip(mem *Memory, p *Player, weapon card.Card) Resolution {
	res := Resolution{Card: weapon, HPBefore: p.HP, HPAfter: p.HP, Weapon: weapon.Rank, Replaced: mem.Weapon}
	*mem = Memory{Weapon: weapon.Rank}
	return res
}

// DrinkPotion heals by the potion's rank if no potion was drunk this turn;
// otherwise the potion is discarded with no effect.
//
// Postcondition: p.PotionUsed is true and p.HP <= MaxHP.
func DrinkPotion(p *Player, potion card.Card) Resolution {
	res := Resolution{Card: potion, HPBefore: p.HP}
	if p.PotionUsed {
		res.Discarded = true
	} else {
		res.Healed = p.Heal(potion.Value())
	}
	p.PotionUsed = true
	res.HPAfter = p.HP
	return res
}

// Resolve dispatches c to the resolver for its category. mode only affects monsters.
//
// Postcondition: on error mem and p are unchanged.
func Resolve(mem *Memory, p *Player, c card.Card, mode Mode) (Resolution, error) {
	switch c.Category() {
	case card.Weapon:
		return Equip(mem, p, c), nil
	case card.Potion:
		return DrinkPotion(p, c), nil
	default:
		return ResolveMonster(mem, p, c, mode)
	}
}

// Projection is what taking a card with the default action would do right now.
type Projection struct {
	Damage     int
	WithWeapon bool
	Heal       int
}

// Project previews ModeAuto resolution of c without mutating anything.
func Project(mem Memory, p Player, c card.Card) Projection {
	switch c.Category() {
	case card.Monster:
		if mem.CanUseOn(c.Rank) {
			return Projection{Damage: max(c.Value()-int(mem.Weapon), 0), WithWeapon: true}
		}
		return Projection{Damage: c.Value()}
	case card.Potion:
		if p.PotionUsed {
			return Projection{}
		}
		return Projection{Heal: min(c.Value(), MaxHP-p.HP)}
	default:
		return Projection{}
	}
}
