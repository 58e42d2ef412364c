package metrics

import (
	"math"

	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// RatePrecision is the number of decimals rates are rounded to
const RatePrecision = 2

// Rate returns 100*count/denominator rounded to RatePrecision, or nil when
// the denominator is zero.
func Rate(count, denominator int) *float64 {
	if denominator == 0 {
		return nil
	}
	scale := math.Pow(10, RatePrecision)
	r := math.Round(100*float64(count)/float64(denominator)*scale) / scale
	return &r
}

// PickCategoryCounter aggregates pick outcomes for one category
type PickCategoryCounter struct {
	Total  int
	Wins   int
	Losses int // includes BOZO
	Pushes int
	Voids  int
	Bozos  int

	CurrWinStreak     int
	CurrLossStreak    int
	CurrBozoStreak    int
	LongestWinStreak  int
	LongestLossStreak int
	LongestBozoStreak int

	// streak length -> number of finished streaks of that length
	WinStreakFreqs  map[int]int
	LossStreakFreqs map[int]int
	BozoStreakFreqs map[int]int
}

// Fold returns the counter with pair applied. c is left untouched, including
// its histogram maps. Unresolved picks are skipped.
func (c PickCategoryCounter) Fold(pair Pair) PickCategoryCounter {
	if !pair.hasResult() {
		return c
	}
	result := pair.pickResult()

	c.Total++
	if result == models.PickBozo {
		c.Bozos++
		c.CurrBozoStreak++
		c.LongestBozoStreak = max(c.LongestBozoStreak, c.CurrBozoStreak)
	}

	switch {
	case result == models.PickWin:
		c.Wins++
		c.CurrWinStreak++
		c.LongestWinStreak = max(c.LongestWinStreak, c.CurrWinStreak)
		if c.CurrLossStreak > 0 {
			c.LossStreakFreqs = bump(c.LossStreakFreqs, c.CurrLossStreak)
		}
		if c.CurrBozoStreak > 0 {
			c.BozoStreakFreqs = bump(c.BozoStreakFreqs, c.CurrBozoStreak)
		}
		c.CurrLossStreak = 0
		c.CurrBozoStreak = 0
	case result.IsIncorrect():
		c.Losses++
		c.CurrLossStreak++
		c.LongestLossStreak = max(c.LongestLossStreak, c.CurrLossStreak)
		if c.CurrWinStreak > 0 {
			c.WinStreakFreqs = bump(c.WinStreakFreqs, c.CurrWinStreak)
		}
		c.CurrWinStreak = 0
	case result == models.PickPush:
		c.Pushes++
	case result == models.PickVoid:
		c.Voids++
	}
	return c
}

func (c PickCategoryCounter) decided() int {
	return c.Total - c.Pushes - c.Voids
}

func (c PickCategoryCounter) WinRate() *float64 {
	return Rate(c.Wins, c.decided())
}

func (c PickCategoryCounter) BozoRate() *float64 {
	return Rate(c.Bozos, c.decided())
}

// VetoCategoryCounter aggregates results of approved vetoes for one category
type VetoCategoryCounter struct {
	Total      int
	Goods      int // Good + BOZO Saver
	Bads       int // Bad + BOZO
	Pushes     int
	Voids      int
	Bozos      int
	BozoSavers int

	CurrGoodStreak      int
	CurrBadStreak       int
	CurrBozoStreak      int
	CurrBozoSaverStreak int
	LongestGoodStreak   int
	LongestBadStreak    int
}

// Fold returns the counter with the pair's veto applied. Pairs without an
// approved, resulted veto are skipped.
func (c VetoCategoryCounter) Fold(pair Pair) VetoCategoryCounter {
	result, ok := pair.vetoResult()
	if !ok {
		return c
	}

	c.Total++
	switch result {
	case models.VetoBozo:
		c.Bozos++
		c.CurrBozoStreak++
	case models.VetoBozoSaver:
		c.BozoSavers++
		c.CurrBozoSaverStreak++
	}

	switch {
	case result.IsGood():
		c.Goods++
		c.CurrGoodStreak++
		c.LongestGoodStreak = max(c.LongestGoodStreak, c.CurrGoodStreak)
		c.CurrBadStreak = 0
		c.CurrBozoStreak = 0
	case result.IsBad():
		c.Bads++
		c.CurrBadStreak++
		c.LongestBadStreak = max(c.LongestBadStreak, c.CurrBadStreak)
		c.CurrGoodStreak = 0
		c.CurrBozoSaverStreak = 0
	case result == models.VetoVoid:
		c.Voids++
	case result == models.VetoPush:
		c.Pushes++
	}
	return c
}

func (c VetoCategoryCounter) decided() int {
	return c.Total - c.Pushes - c.Voids
}

func (c VetoCategoryCounter) GoodRate() *float64 {
	return Rate(c.Goods, c.decided())
}

func (c VetoCategoryCounter) BozoRate() *float64 {
	return Rate(c.Bozos, c.decided())
}

func (c VetoCategoryCounter) BozoSaverRate() *float64 {
	return Rate(c.BozoSavers, c.decided())
}

// bump returns a copy of freqs with the count for length incremented
func bump(freqs map[int]int, length int) map[int]int {
	out := make(map[int]int, len(freqs)+1)
	for k, v := range freqs {
		out[k] = v
	}
	out[length]++
	return out
}
