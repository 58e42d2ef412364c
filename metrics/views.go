package metrics

import (
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// SetMetrics is the serializable view of a PickCategoryCounter
type SetMetrics struct {
	Total             int      `json:"total" bson:"total"`
	Wins              int      `json:"wins" bson:"wins"`
	Losses            int      `json:"losses" bson:"losses"`
	Bozos             int      `json:"bozos" bson:"bozos"`
	Pushes            int      `json:"pushes" bson:"pushes"`
	Voids             int      `json:"voids" bson:"voids"`
	CurrWinStreak     int      `json:"curr_win_streak" bson:"curr_win_streak"`
	CurrLossStreak    int      `json:"curr_loss_streak" bson:"curr_loss_streak"`
	CurrBozoStreak    int      `json:"curr_bozo_streak" bson:"curr_bozo_streak"`
	LongestWinStreak  int      `json:"longest_win_streak" bson:"longest_win_streak"`
	LongestLossStreak int      `json:"longest_loss_streak" bson:"longest_loss_streak"`
	LongestBozoStreak int      `json:"longest_bozo_streak" bson:"longest_bozo_streak"`
	WinRate           *float64 `json:"win_rate" bson:"win_rate"`
	BozoRate          *float64 `json:"bozo_rate" bson:"bozo_rate"`
}

func NewSetMetrics(c PickCategoryCounter) SetMetrics {
	return SetMetrics{
		Total:             c.Total,
		Wins:              c.Wins,
		Losses:            c.Losses,
		Bozos:             c.Bozos,
		Pushes:            c.Pushes,
		Voids:             c.Voids,
		CurrWinStreak:     c.CurrWinStreak,
		CurrLossStreak:    c.CurrLossStreak,
		CurrBozoStreak:    c.CurrBozoStreak,
		LongestWinStreak:  c.LongestWinStreak,
		LongestLossStreak: c.LongestLossStreak,
		LongestBozoStreak: c.LongestBozoStreak,
		WinRate:           c.WinRate(),
		BozoRate:          c.BozoRate(),
	}
}

// SetVetoMetrics is the serializable view of a VetoCategoryCounter
type SetVetoMetrics struct {
	Total               int      `json:"total" bson:"total"`
	Goods               int      `json:"goods" bson:"goods"`
	Bads                int      `json:"bads" bson:"bads"`
	Bozos               int      `json:"bozos" bson:"bozos"`
	BozoSavers          int      `json:"bozo_savers" bson:"bozo_savers"`
	Pushes              int      `json:"pushes" bson:"pushes"`
	Voids               int      `json:"voids" bson:"voids"`
	CurrGoodStreak      int      `json:"curr_good_streak" bson:"curr_good_streak"`
	CurrBadStreak       int      `json:"curr_bad_streak" bson:"curr_bad_streak"`
	CurrBozoStreak      int      `json:"curr_bozo_streak" bson:"curr_bozo_streak"`
	CurrBozoSaverStreak int      `json:"curr_bozo_saver_streak" bson:"curr_bozo_saver_streak"`
	LongestGoodStreak   int      `json:"longest_good_streak" bson:"longest_good_streak"`
	LongestBadStreak    int      `json:"longest_bad_streak" bson:"longest_bad_streak"`
	GoodRate            *float64 `json:"good_rate" bson:"good_rate"`
	BozoRate            *float64 `json:"bozo_rate" bson:"bozo_rate"`
	BozoSaverRate       *float64 `json:"bozo_saver_rate" bson:"bozo_saver_rate"`
}

func NewSetVetoMetrics(c VetoCategoryCounter) SetVetoMetrics {
	return SetVetoMetrics{
		Total:               c.Total,
		Goods:               c.Goods,
		Bads:                c.Bads,
		Bozos:               c.Bozos,
		BozoSavers:          c.BozoSavers,
		Pushes:              c.Pushes,
		Voids:               c.Voids,
		CurrGoodStreak:      c.CurrGoodStreak,
		CurrBadStreak:       c.CurrBadStreak,
		CurrBozoStreak:      c.CurrBozoStreak,
		CurrBozoSaverStreak: c.CurrBozoSaverStreak,
		LongestGoodStreak:   c.LongestGoodStreak,
		LongestBadStreak:    c.LongestBadStreak,
		GoodRate:            c.GoodRate(),
		BozoRate:            c.BozoRate(),
		BozoSaverRate:       c.BozoSaverRate(),
	}
}

type SauceFactorMetrics struct {
	Spicy SetMetrics `json:"spicy" bson:"spicy"`
	Bitch SetMetrics `json:"bitch" bson:"bitch"`
}

type DirectionVetoMetrics struct {
	Overs  SetVetoMetrics `json:"overs" bson:"overs"`
	Unders SetVetoMetrics `json:"unders" bson:"unders"`
}

type DirectionMetrics struct {
	Overs  SetMetrics           `json:"overs" bson:"overs"`
	Unders SetMetrics           `json:"unders" bson:"unders"`
	Vetoes DirectionVetoMetrics `json:"vetoes" bson:"vetoes"`
}

func newSauceFactorMetrics(f Facets) SauceFactorMetrics {
	return SauceFactorMetrics{
		Spicy: NewSetMetrics(f.Spicy),
		Bitch: NewSetMetrics(f.Bitch),
	}
}

func newDirectionMetrics(f Facets) DirectionMetrics {
	return DirectionMetrics{
		Overs:  NewSetMetrics(f.Overs),
		Unders: NewSetMetrics(f.Unders),
		Vetoes: DirectionVetoMetrics{
			Overs:  NewSetVetoMetrics(f.OverVetoes),
			Unders: NewSetVetoMetrics(f.UnderVetoes),
		},
	}
}

// PropBetTypeMetrics is the view of one prop type or target sub-tree
type PropBetTypeMetrics struct {
	Overall          SetMetrics         `json:"overall"`
	SauceFactor      SauceFactorMetrics `json:"sauce_factor"`
	DirectionMetrics DirectionMetrics   `json:"direction_metrics"`
	Vetoes           SetVetoMetrics     `json:"vetoes"`
}

func NewPropBetTypeMetrics(f Facets) PropBetTypeMetrics {
	return PropBetTypeMetrics{
		Overall:          NewSetMetrics(f.Overall),
		SauceFactor:      newSauceFactorMetrics(f),
		DirectionMetrics: newDirectionMetrics(f),
		Vetoes:           NewSetVetoMetrics(f.Vetoes),
	}
}

// GamblerBaseMetrics is the summary used for scoring and the time series
type GamblerBaseMetrics struct {
	Overall     SetMetrics         `json:"overall" bson:"overall"`
	TD          SetMetrics         `json:"TD" bson:"td"`
	NonTD       SetMetrics         `json:"non_TD" bson:"non_td"`
	SauceFactor SauceFactorMetrics `json:"sauce_factor" bson:"sauce_factor"`
	Direction   DirectionMetrics   `json:"direction" bson:"direction"`
	VetoMetrics SetVetoMetrics     `json:"veto_metrics" bson:"veto_metrics"`
}

type BetTypeMetrics struct {
	BetTypes map[models.PropBetType]PropBetTypeMetrics `json:"bet_types"`
}

type PropTargetMetrics struct {
	PropTargets map[int]PropBetTypeMetrics `json:"prop_targets"`
	TargetNames map[int]string             `json:"target_names"`
}

// GamblerAdvancedMetrics adds the per prop type and per target breakdowns
type GamblerAdvancedMetrics struct {
	GamblerBaseMetrics
	BetTypes          BetTypeMetrics    `json:"bet_types"`
	PropTargetMetrics PropTargetMetrics `json:"prop_target_metrics"`
}

func (c *GamblerCalculator) BaseMetrics() GamblerBaseMetrics {
	f := c.tree.Facets
	return GamblerBaseMetrics{
		Overall:     NewSetMetrics(f.Overall),
		TD:          NewSetMetrics(f.TD),
		NonTD:       NewSetMetrics(f.NonTD),
		SauceFactor: newSauceFactorMetrics(f),
		Direction:   newDirectionMetrics(f),
		VetoMetrics: NewSetVetoMetrics(f.Vetoes),
	}
}

func (c *GamblerCalculator) AdvancedMetrics() GamblerAdvancedMetrics {
	betTypes := make(map[models.PropBetType]PropBetTypeMetrics, len(c.tree.PropTypes))
	for propType, facets := range c.tree.PropTypes {
		betTypes[propType] = NewPropBetTypeMetrics(facets)
	}
	targets := make(map[int]PropBetTypeMetrics, len(c.tree.Targets))
	for targetID, facets := range c.tree.Targets {
		targets[targetID] = NewPropBetTypeMetrics(facets)
	}
	names := make(map[int]string, len(c.targetNames))
	for id, name := range c.targetNames {
		names[id] = name
	}
	return GamblerAdvancedMetrics{
		GamblerBaseMetrics: c.BaseMetrics(),
		BetTypes:           BetTypeMetrics{BetTypes: betTypes},
		PropTargetMetrics:  PropTargetMetrics{PropTargets: targets, TargetNames: names},
	}
}
