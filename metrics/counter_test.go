package metrics

import (
	"testing"

	"github.com/GabeSucich/elmo-fire-bets-backend/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func foldPicks(results ...models.PickResult) PickCategoryCounter {
	var c PickCategoryCounter
	for _, r := range results {
		c = c.Fold(pickPair(r))
	}
	return c
}

func TestPickCounterStreaks(t *testing.T) {
	c := foldPicks(
		models.PickWin, models.PickLoss, models.PickLoss, models.PickWin,
		models.PickBozo, models.PickBozo, models.PickBozo,
	)

	want := PickCategoryCounter{
		Total:             7,
		Wins:              2,
		Losses:            5,
		Bozos:             3,
		CurrWinStreak:     0,
		CurrLossStreak:    3,
		CurrBozoStreak:    3,
		LongestWinStreak:  1,
		LongestLossStreak: 3, // BOZO picks are losses
		LongestBozoStreak: 3,
		WinStreakFreqs:    map[int]int{1: 2},
		LossStreakFreqs:   map[int]int{2: 1},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("counter mismatch (-want +got):\n%s", diff)
	}
}

func TestPickCounterBozoStreakSurvivesPlainLoss(t *testing.T) {
	c := foldPicks(models.PickBozo, models.PickLoss, models.PickBozo)
	assert.Equal(t, 2, c.CurrBozoStreak)
	assert.Equal(t, 2, c.LongestBozoStreak)
	assert.Equal(t, 3, c.CurrLossStreak)

	c = c.Fold(pickPair(models.PickWin))
	assert.Equal(t, 0, c.CurrBozoStreak)
	assert.Equal(t, map[int]int{2: 1}, c.BozoStreakFreqs)
	assert.Equal(t, map[int]int{3: 1}, c.LossStreakFreqs)
}

func TestPickCounterPushAndVoidLeaveStreaks(t *testing.T) {
	c := foldPicks(models.PickWin, models.PickPush, models.PickVoid, models.PickWin)
	assert.Equal(t, 4, c.Total)
	assert.Equal(t, 1, c.Pushes)
	assert.Equal(t, 1, c.Voids)
	assert.Equal(t, 2, c.CurrWinStreak)

	require.NotNil(t, c.WinRate())
	assert.Equal(t, 100.0, *c.WinRate())
}

func TestPickCounterSkipsUnresolved(t *testing.T) {
	c := foldPicks(models.PickWin)
	c = c.Fold(Pair{Pick: models.Pick{ID: 99}})
	assert.Equal(t, 1, c.Total)
}

func TestPickCounterFoldDoesNotAlias(t *testing.T) {
	before := foldPicks(models.PickLoss, models.PickLoss, models.PickWin)
	snapshot := map[int]int{2: 1}
	require.Equal(t, snapshot, before.LossStreakFreqs)

	after := before.Fold(pickPair(models.PickLoss)).Fold(pickPair(models.PickWin))
	assert.Equal(t, snapshot, before.LossStreakFreqs, "folding must not write through to earlier values")
	assert.Equal(t, map[int]int{1: 1, 2: 1}, after.LossStreakFreqs)
}

func TestRate(t *testing.T) {
	tests := []struct {
		name  string
		count int
		denom int
		want  *float64
	}{
		{name: "zero denominator", count: 0, denom: 0, want: nil},
		{name: "whole", count: 1, denom: 2, want: floatPtr(50)},
		{name: "rounded down", count: 2, denom: 7, want: floatPtr(28.57)},
		{name: "rounded up", count: 2, denom: 3, want: floatPtr(66.67)},
		{name: "zero count", count: 0, denom: 5, want: floatPtr(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rate(tt.count, tt.denom)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestPickCounterRateNilWhenOnlyPushesAndVoids(t *testing.T) {
	c := foldPicks(models.PickPush, models.PickVoid)
	assert.Nil(t, c.WinRate())
	assert.Nil(t, c.BozoRate())
}

func TestVetoCounter(t *testing.T) {
	var c VetoCategoryCounter
	for _, r := range []models.VetoResult{
		models.VetoGood, models.VetoBozoSaver, models.VetoBad, models.VetoBozo,
		models.VetoPush, models.VetoVoid, models.VetoGood,
	} {
		c = c.Fold(vetoPair(models.PickWin, models.VetoApproved, &r))
	}

	want := VetoCategoryCounter{
		Total:               7,
		Goods:               3,
		Bads:                2,
		Pushes:              1,
		Voids:               1,
		Bozos:               1,
		BozoSavers:          1,
		CurrGoodStreak:      1,
		CurrBadStreak:       0,
		CurrBozoStreak:      0,
		CurrBozoSaverStreak: 0,
		LongestGoodStreak:   2,
		LongestBadStreak:    2,
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("veto counter mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, c.GoodRate())
	assert.Equal(t, 60.0, *c.GoodRate())
	assert.Equal(t, 20.0, *c.BozoRate())
	assert.Equal(t, 20.0, *c.BozoSaverRate())
}

func TestVetoCounterSkipsUnapprovedAndUnresulted(t *testing.T) {
	good := models.VetoGood
	var c VetoCategoryCounter
	c = c.Fold(pickPair(models.PickWin))
	c = c.Fold(vetoPair(models.PickWin, models.VetoRejected, &good))
	c = c.Fold(vetoPair(models.PickWin, models.VetoUndecided, &good))
	c = c.Fold(vetoPair(models.PickWin, models.VetoApproved, nil))
	assert.Equal(t, VetoCategoryCounter{}, c)
	assert.Nil(t, c.GoodRate())
}
