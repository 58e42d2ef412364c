package metrics

import (
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// Facets is the set of counters one pair fans out to
type Facets struct {
	Overall PickCategoryCounter
	TD      PickCategoryCounter
	NonTD   PickCategoryCounter
	Spicy   PickCategoryCounter
	Bitch   PickCategoryCounter
	Overs   PickCategoryCounter
	Unders  PickCategoryCounter

	Vetoes      VetoCategoryCounter
	OverVetoes  VetoCategoryCounter
	UnderVetoes VetoCategoryCounter
}

// Fold applies pair to every facet it belongs to
func (f Facets) Fold(pair Pair) Facets {
	f.Overall = f.Overall.Fold(pair)

	if pair.Pick.PropType.IsTD() {
		f.TD = f.TD.Fold(pair)
	} else {
		f.NonTD = f.NonTD.Fold(pair)
	}

	switch {
	case pair.Pick.IsSauce(models.SauceSpicy):
		f.Spicy = f.Spicy.Fold(pair)
	case pair.Pick.IsSauce(models.SauceBitch):
		f.Bitch = f.Bitch.Fold(pair)
	}

	switch pair.Pick.Direction {
	case models.DirectionOver:
		f.Overs = f.Overs.Fold(pair)
		f.OverVetoes = f.OverVetoes.Fold(pair)
	case models.DirectionUnder:
		f.Unders = f.Unders.Fold(pair)
		f.UnderVetoes = f.UnderVetoes.Fold(pair)
	}

	f.Vetoes = f.Vetoes.Fold(pair)
	return f
}

// Tree is a gambler's full metric tree: the top-level facets plus one
// independent facet set per prop type and per bet target.
type Tree struct {
	Facets
	PropTypes map[models.PropBetType]Facets
	Targets   map[int]Facets
}

func NewTree() *Tree {
	return &Tree{
		PropTypes: make(map[models.PropBetType]Facets),
		Targets:   make(map[int]Facets),
	}
}

// Apply folds pair into every branch of the tree
func (t *Tree) Apply(pair Pair) {
	t.Facets = t.Facets.Fold(pair)
	t.PropTypes[pair.Pick.PropType] = t.PropTypes[pair.Pick.PropType].Fold(pair)
	t.Targets[pair.Pick.Target.ID] = t.Targets[pair.Pick.Target.ID].Fold(pair)
}

// GamblerCalculator accumulates a gambler's pairs into a Tree and remembers
// the display name of every target seen.
type GamblerCalculator struct {
	tree        *Tree
	targetNames map[int]string
	pairs       int
}

func NewGamblerCalculator() *GamblerCalculator {
	return &GamblerCalculator{
		tree:        NewTree(),
		targetNames: make(map[int]string),
	}
}

// Process folds one pair into the calculator
func (c *GamblerCalculator) Process(pair Pair) {
	c.tree.Apply(pair)
	c.pairs++
	if _, ok := c.targetNames[pair.Pick.Target.ID]; !ok {
		c.targetNames[pair.Pick.Target.ID] = pair.Pick.Target.DisplayName()
	}
}

// Pairs is the number of pairs processed so far
func (c *GamblerCalculator) Pairs() int {
	return c.pairs
}

// Tree exposes the underlying counters
func (c *GamblerCalculator) Tree() *Tree {
	return c.tree
}

// CalculatorFromParlays replays every closed, resulted parlay for one gambler
func CalculatorFromParlays(gamblerID int, parlays []models.Parlay) *GamblerCalculator {
	calc := NewGamblerCalculator()
	for _, pair := range PairsForGambler(gamblerID, parlays) {
		calc.Process(pair)
	}
	return calc
}

// CalculatorsFromParlays builds one calculator per gambler
func CalculatorsFromParlays(gamblerIDs []int, parlays []models.Parlay) map[int]*GamblerCalculator {
	ordered := OrderedReplayable(parlays)
	calcs := make(map[int]*GamblerCalculator, len(gamblerIDs))
	for _, id := range gamblerIDs {
		calcs[id] = NewGamblerCalculator()
	}
	for _, p := range ordered {
		for id, calc := range calcs {
			if pair, ok := PairForGambler(id, p); ok {
				calc.Process(pair)
			}
		}
	}
	return calcs
}
