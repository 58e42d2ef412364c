package models

// PropBetType is the stat category a pick is wagering on
type PropBetType string

const (
	PropTargets           PropBetType = "Targets"
	PropFGs               PropBetType = "FGs"
	PropLongestRush       PropBetType = "Longest Rush"
	PropPassAttempts      PropBetType = "Pass Attempts"
	PropRushYards         PropBetType = "Rush Yards"
	PropRecYards          PropBetType = "Rec Yards"
	PropRushAttempts      PropBetType = "Rush Attempts"
	PropTacklesAssists    PropBetType = "Tackles + Assists"
	PropRushRecYards      PropBetType = "Rush + Rec yds"
	PropLongestReception  PropBetType = "Longest Reception"
	PropLongestTD         PropBetType = "Longest TD"
	PropPassingTDs        PropBetType = "Passing TDs"
	PropPassingInts       PropBetType = "Passing Ints"
	PropPassingYards      PropBetType = "Passing Yds"
	PropTDs               PropBetType = "TDs"
	PropReceptions        PropBetType = "Receptions"
	PropLongestCompletion PropBetType = "Longest Completion"
	PropPassCompletions   PropBetType = "Pass Completions"
	PropSacks             PropBetType = "Sacks"
)

// AllPropBetTypes lists every supported prop type in display order
var AllPropBetTypes = []PropBetType{
	PropTargets, PropFGs, PropLongestRush, PropPassAttempts, PropRushYards,
	PropRecYards, PropRushAttempts, PropTacklesAssists, PropRushRecYards,
	PropLongestReception, PropLongestTD, PropPassingTDs, PropPassingInts,
	PropPassingYards, PropTDs, PropReceptions, PropLongestCompletion,
	PropPassCompletions, PropSacks,
}

// Valid reports whether t is a known prop type
func (t PropBetType) Valid() bool {
	for _, known := range AllPropBetTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsTD reports whether the prop is the anytime touchdown prop
func (t PropBetType) IsTD() bool {
	return t == PropTDs
}

// SauceFactor is an optional confidence tag on a pick
type SauceFactor string

const (
	SauceBitch SauceFactor = "Bitch"
	SauceSpicy SauceFactor = "Spicy"
)

func (s SauceFactor) Valid() bool {
	return s == SauceBitch || s == SauceSpicy
}

// PropBetDirection is the side of the line a pick takes
type PropBetDirection string

const (
	DirectionOver  PropBetDirection = "Over"
	DirectionUnder PropBetDirection = "Under"
)

func (d PropBetDirection) Valid() bool {
	return d == DirectionOver || d == DirectionUnder
}

// PickResult represents the outcome of a single pick
type PickResult string

const (
	PickWin  PickResult = "Win"
	PickLoss PickResult = "Loss"
	PickVoid PickResult = "Void"
	PickBozo PickResult = "BOZO"
	PickPush PickResult = "Push"
)

// IsIncorrect reports whether the pick missed
func (r PickResult) IsIncorrect() bool {
	return r == PickLoss || r == PickBozo
}

// IsBasic reports whether r can be entered directly by a user.
// BOZO is only ever derived during finalization.
func (r PickResult) IsBasic() bool {
	switch r {
	case PickWin, PickLoss, PickVoid, PickPush:
		return true
	}
	return false
}

// VetoApprovalStatus is the quorum verdict on a veto
type VetoApprovalStatus string

const (
	VetoPending   VetoApprovalStatus = "Pending"
	VetoApproved  VetoApprovalStatus = "Approved"
	VetoRejected  VetoApprovalStatus = "Rejected"
	VetoUndecided VetoApprovalStatus = "Undecided"
)

// IsSettled reports whether the status can no longer change through voting
func (s VetoApprovalStatus) IsSettled() bool {
	return s == VetoApproved || s == VetoRejected || s == VetoUndecided
}

// VetoResult represents the outcome of an approved veto
type VetoResult string

const (
	VetoGood      VetoResult = "Good"
	VetoBad       VetoResult = "Bad"
	VetoVoid      VetoResult = "Void"
	VetoPush      VetoResult = "Push"
	VetoBozoSaver VetoResult = "BOZO Saver"
	VetoBozo      VetoResult = "BOZO"
)

// IsGood reports whether the veto helped the parlay
func (r VetoResult) IsGood() bool {
	return r == VetoGood || r == VetoBozoSaver
}

// IsBad reports whether the veto hurt the parlay
func (r VetoResult) IsBad() bool {
	return r == VetoBad || r == VetoBozo
}

// ParlayState is the lifecycle state of a parlay
type ParlayState string

const (
	ParlayBuilding ParlayState = "Building"
	ParlayOpen     ParlayState = "Open"
	ParlayClosed   ParlayState = "Closed"
)

func (s ParlayState) Valid() bool {
	return s == ParlayBuilding || s == ParlayOpen || s == ParlayClosed
}

// ParlayResult is the committed outcome of a closed parlay
type ParlayResult string

const (
	ParlayWin  ParlayResult = "Win"
	ParlayLoss ParlayResult = "Loss"
	ParlayVoid ParlayResult = "Void"
	ParlayBozo ParlayResult = "BOZO"
	ParlayPush ParlayResult = "Push"
)

func (r ParlayResult) Valid() bool {
	switch r {
	case ParlayWin, ParlayLoss, ParlayVoid, ParlayBozo, ParlayPush:
		return true
	}
	return false
}

// SlateType is the group of games a parlay was built for
type SlateType string

const (
	SlateTNF               SlateType = "TNF"
	SlateFNF               SlateType = "FNF"
	SlateMorning           SlateType = "Morning slate"
	SlateAfternoon         SlateType = "Afternoon slate"
	SlateTD                SlateType = "TD"
	SlateSNF               SlateType = "SNF"
	SlateMNF               SlateType = "MNF"
	SlateInternationalGame SlateType = "International Game"
	SlateSaturday          SlateType = "Saturday"
	SlateXmas              SlateType = "Xmas"
	SlateWildcard          SlateType = "Wildcard"
	SlateDivisional        SlateType = "Divisional"
	SlateConference        SlateType = "Conference"
)

// AllSlateTypes lists every slate in display order
var AllSlateTypes = []SlateType{
	SlateTNF, SlateFNF, SlateMorning, SlateAfternoon, SlateTD, SlateSNF, SlateMNF,
	SlateInternationalGame, SlateSaturday, SlateXmas, SlateWildcard, SlateDivisional,
	SlateConference,
}

func (s SlateType) Valid() bool {
	for _, known := range AllSlateTypes {
		if s == known {
			return true
		}
	}
	return false
}

// GamblingSeasonState tracks whether a season still accepts changes
type GamblingSeasonState string

const (
	SeasonInProgress GamblingSeasonState = "In Progress"
	SeasonComplete   GamblingSeasonState = "Complete"
)
