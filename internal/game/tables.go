// Package game holds the difficulty balance tables: how much damage a task
// deals, how many hit points a boss spawns with, and how much experience a
// defeated boss awards. Tables are loaded once from configuration and treated
// as immutable for the life of the process.
package game

// Difficulty is an enumerated label shared by tasks and bosses.
type Difficulty string

const (
	Easy     Difficulty = "Easy"
	Medium   Difficulty = "Medium"
	Hard     Difficulty = "Hard"
	VeryHard Difficulty = "Very Hard"
)

// Difficulties lists the valid labels in display order.
var Difficulties = []Difficulty{Easy, Medium, Hard, VeryHard}

// Valid reports whether d is one of the known difficulty labels.
func (d Difficulty) Valid() bool {
	for _, known := range Difficulties {
		if d == known {
			return true
		}
	}
	return false
}

const defaultMaxHP = 100

// Tables maps difficulties to damage, max HP, and XP reward amounts.
type Tables struct {
	damage   map[Difficulty]int
	maxHP    map[Difficulty]int
	xpReward map[Difficulty]int
}

// New builds Tables from the given maps. Nil maps fall back to the defaults.
func New(damage, maxHP, xpReward map[Difficulty]int) *Tables {
	t := &Tables{damage: damage, maxHP: maxHP, xpReward: xpReward}
	if t.damage == nil {
		t.damage = DefaultDamage()
	}
	if t.maxHP == nil {
		t.maxHP = DefaultMaxHP()
	}
	if t.xpReward == nil {
		t.xpReward = DefaultXPReward()
	}
	return t
}

// Default returns Tables populated entirely from the defaults.
func Default() *Tables {
	return New(nil, nil, nil)
}

// Damage returns the damage dealt by completing a task of the given
// difficulty. Unknown difficulties deal 0 damage rather than erroring.
func (t *Tables) Damage(d Difficulty) int {
	return t.damage[d]
}

// MaxHP returns the hit points a boss of the given difficulty spawns with.
// Unknown difficulties fall back to 100.
func (t *Tables) MaxHP(d Difficulty) int {
	if hp, ok := t.maxHP[d]; ok {
		return hp
	}
	return defaultMaxHP
}

// XPReward returns the experience awarded when a boss of the given
// difficulty is defeated. Unknown difficulties award nothing.
func (t *Tables) XPReward(d Difficulty) int {
	return t.xpReward[d]
}

// DefaultDamage returns the stock difficulty→damage table.
func DefaultDamage() map[Difficulty]int {
	return map[Difficulty]int{
		Easy:     10,
		Medium:   20,
		Hard:     30,
		VeryHard: 50,
	}
}

// DefaultMaxHP returns the stock difficulty→max-HP table.
func DefaultMaxHP() map[Difficulty]int {
	return map[Difficulty]int{
		Easy:     100,
		Medium:   200,
		Hard:     300,
		VeryHard: 500,
	}
}

// DefaultXPReward returns the stock difficulty→XP table.
func DefaultXPReward() map[Difficulty]int {
	return map[Difficulty]int{
		Easy:     25,
		Medium:   50,
		Hard:     75,
		VeryHard: 100,
	}
}
