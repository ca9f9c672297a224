package domain

// PrizeTable maps level indices to cash values. A subset of levels are
// fireproof: their prize is guaranteed once the level has been cleared,
// even if the player later fails or times out.
type PrizeTable struct {
	prizes    []int
	fireproof map[int]bool
}

// NewPrizeTable builds a table from a strictly increasing prize ladder and
// the indices of its fireproof levels.
func NewPrizeTable(prizes []int, fireproofLevels []int) PrizeTable {
	fp := make(map[int]bool, len(fireproofLevels))
	for _, level := range fireproofLevels {
		fp[level] = true
	}
	ladder := make([]int, len(prizes))
	copy(ladder, prizes)
	return PrizeTable{prizes: ladder, fireproof: fp}
}

// DefaultPrizeTable is the classic 15-level ladder with a 1,000,000 jackpot
// and guarantees at levels 4, 9 and 14.
func DefaultPrizeTable() PrizeTable {
	return NewPrizeTable([]int{
		100, 200, 300, 500, 1000,
		2000, 4000, 8000, 16000, 32000,
		64000, 125000, 250000, 500000, 1000000,
	}, []int{4, 9, 14})
}

// Levels returns the number of levels in the ladder.
func (t PrizeTable) Levels() int { return len(t.prizes) }

// PrizeFor returns the cash value of a level, or 0 when out of range.
func (t PrizeTable) PrizeFor(level int) int {
	if level < 0 || level >= len(t.prizes) {
		return 0
	}
	return t.prizes[level]
}

// MaxPrize is the jackpot paid for clearing every level.
func (t PrizeTable) MaxPrize() int {
	if len(t.prizes) == 0 {
		return 0
	}
	return t.prizes[len(t.prizes)-1]
}

// IsFireproof reports whether a level carries a guarantee.
func (t PrizeTable) IsFireproof(level int) bool { return t.fireproof[level] }

// FireproofPrizeBelow returns the highest guaranteed prize among fireproof
// levels the player has already cleared, i.e. levels strictly below the one
// being played, or 0 if none were reached.
func (t PrizeTable) FireproofPrizeBelow(level int) int {
	best := 0
	for i := 0; i < level && i < len(t.prizes); i++ {
		if t.fireproof[i] && t.prizes[i] > best {
			best = t.prizes[i]
		}
	}
	return best
}
