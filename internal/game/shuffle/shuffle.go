package shuffle

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/scoundrel/internal/game/card"
)

// Cards permutes cards in place with a Fisher-Yates walk over src.
//
// Precondition: src must be non-nil.
// Postcondition: cards holds the same multiset; every permutation is equally
// likely when src is uniform.
func Cards(cards []card.Card, src Source) {
	for i := len(cards) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Shuffler wraps a Source and logger so every deck shuffle is recorded.
type Shuffler struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedShuffler creates a Shuffler that draws from src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedShuffler(src Source, logger *zap.Logger) *Shuffler {
	return &Shuffler{src: src, logger: logger}
}

// Intn satisfies Source so a Shuffler can stand in wherever a Source is taken.
func (s *Shuffler) Intn(n int) int { return s.src.Intn(n) }

// Shuffle permutes cards and logs the resulting order at debug level.
func (s *Shuffler) Shuffle(cards []card.Card) {
	Cards(cards, s.src)
	if ce := s.logger.Check(zap.DebugLevel, "deck shuffled"); ce != nil {
		order := make([]string, len(cards))
		for i, c := range cards {
			order[i] = c.String()
		}
		ce.Write(zap.Int("cards", len(cards)), zap.Strings("order", order))
	}
}
