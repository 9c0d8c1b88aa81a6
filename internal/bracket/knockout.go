package bracket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/festy23/league_engine/internal/domain"
)

// Matchup is a knockout pairing. A nil side is not yet determined.
type Matchup struct {
	Team1 *uint
	Team2 *uint
}

// Determined reports whether both sides are known.
func (m Matchup) Determined() bool {
	return m.Team1 != nil && m.Team2 != nil
}

// GroupSeeds is a group's ranking as fed into the initial knockout phase.
type GroupSeeds struct {
	Name     string
	Complete bool
	// Ranked holds team ids in standings order.
	Ranked []uint
}

// seed returns the team at the 1-based rank, or nil when the group is not
// complete or too small.
func (g GroupSeeds) seed(rank int) *uint {
	if !g.Complete || rank < 1 || rank > len(g.Ranked) {
		return nil
	}
	id := g.Ranked[rank-1]
	return &id
}

// ManualSlot is one side of a manual pair: either a group seed label such as
// "Group A#2" (initial phase) or a 1-based index into the phase participants.
type ManualSlot struct {
	Label string
	Index int
}

// UnmarshalJSON accepts a JSON string label or a JSON number index.
func (s *ManualSlot) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		if n, err := strconv.Atoi(strings.TrimSpace(label)); err == nil {
			*s = ManualSlot{Index: n}
			return nil
		}
		*s = ManualSlot{Label: label}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("manual slot must be a label or an index: %w", err)
	}
	*s = ManualSlot{Index: n}
	return nil
}

// MarshalJSON writes the label when set, otherwise the index.
func (s ManualSlot) MarshalJSON() ([]byte, error) {
	if s.Label != "" {
		return json.Marshal(s.Label)
	}
	return json.Marshal(s.Index)
}

// ManualPair is an ordered pair of manual slots.
type ManualPair [2]ManualSlot

// PhasePlan is the input to knockout pairing.
type PhasePlan struct {
	Mode        domain.PairingMode
	ManualPairs []ManualPair
	// Rand drives RANDOM pairing. A nil Rand uses a fresh source.
	Rand *rand.Rand
}

// InitialPhase pairs the qualifiers of groups for the first knockout phase.
// CROSS and MANUAL leave sides empty for groups that are not complete;
// SEEDED and RANDOM fail with ErrGroupsIncomplete.
func InitialPhase(groups []GroupSeeds, qualifiersPerGroup int, plan PhasePlan) (domain.KnockoutRound, []Matchup, error) {
	if qualifiersPerGroup <= 0 {
		return "", nil, ErrInvalidQualifiers
	}
	n := len(groups) * qualifiersPerGroup
	round, ok := domain.InitialRound(n)
	if !ok {
		return "", nil, fmt.Errorf("%d participants: %w", n, ErrUnsupportedParticipantCount)
	}

	var (
		matchups []Matchup
		err      error
	)
	switch plan.Mode {
	case domain.PairingCross, "":
		matchups, err = crossPairs(groups, qualifiersPerGroup)
	case domain.PairingSeeded, domain.PairingRandom:
		var seeds []uint
		seeds, err = flattenComplete(groups, qualifiersPerGroup)
		if err == nil {
			matchups = pairSeeds(seeds, plan)
		}
	case domain.PairingManual:
		matchups, err = manualFromLabels(groups, qualifiersPerGroup, plan.ManualPairs, n/2)
	default:
		err = fmt.Errorf("pairing mode %q: %w", plan.Mode, domain.ErrUnknownValue)
	}
	if err != nil {
		return "", nil, err
	}
	return round, matchups, nil
}

// LaterPhase pairs the winners of the previous phase. CROSS behaves as
// SEEDED here; MANUAL slots are 1-based indices into participants.
func LaterPhase(participants []uint, plan PhasePlan) ([]Matchup, error) {
	if len(participants) == 0 || len(participants)%2 != 0 {
		return nil, fmt.Errorf("%d participants: %w", len(participants), ErrOddParticipants)
	}
	switch plan.Mode {
	case domain.PairingCross, domain.PairingSeeded, "":
		return pairSeeds(participants, PhasePlan{Mode: domain.PairingSeeded}), nil
	case domain.PairingRandom:
		return pairSeeds(participants, plan), nil
	case domain.PairingManual:
		return manualFromIndices(participants, plan.ManualPairs)
	}
	return nil, fmt.Errorf("pairing mode %q: %w", plan.Mode, domain.ErrUnknownValue)
}

// ThirdPlace pairs the two semifinal losers.
func ThirdPlace(loser1, loser2 uint) Matchup {
	return Matchup{Team1: &loser1, Team2: &loser2}
}

func crossPairs(groups []GroupSeeds, q int) ([]Matchup, error) {
	if len(groups)%2 != 0 || q > 2 {
		return nil, ErrCrossUnsupported
	}
	matchups := make([]Matchup, 0, len(groups)*q/2)
	for i := 0; i+1 < len(groups); i += 2 {
		a, b := groups[i], groups[i+1]
		if q == 1 {
			matchups = append(matchups, Matchup{Team1: a.seed(1), Team2: b.seed(1)})
			continue
		}
		matchups = append(matchups,
			Matchup{Team1: a.seed(1), Team2: b.seed(2)},
			Matchup{Team1: b.seed(1), Team2: a.seed(2)},
		)
	}
	return matchups, nil
}

func flattenComplete(groups []GroupSeeds, q int) ([]uint, error) {
	seeds := make([]uint, 0, len(groups)*q)
	for _, g := range groups {
		if !g.Complete || len(g.Ranked) < q {
			return nil, fmt.Errorf("group %s: %w", g.Name, ErrGroupsIncomplete)
		}
		seeds = append(seeds, g.Ranked[:q]...)
	}
	return seeds, nil
}

// pairSeeds pairs first with last under SEEDED and neighbours after a
// shuffle under RANDOM.
func pairSeeds(seeds []uint, plan PhasePlan) []Matchup {
	order := append([]uint(nil), seeds...)
	matchups := make([]Matchup, 0, len(order)/2)

	if plan.Mode == domain.PairingRandom {
		rng := plan.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(rand.Int63()))
		}
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for i := 0; i+1 < len(order); i += 2 {
			matchups = append(matchups, Matchup{Team1: &order[i], Team2: &order[i+1]})
		}
		return matchups
	}

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		matchups = append(matchups, Matchup{Team1: &order[i], Team2: &order[j]})
	}
	return matchups
}

// ParseSeedLabel splits "Group A#2" or "A#2" into group name and rank.
func ParseSeedLabel(label string) (string, int, error) {
	name, rankText, ok := strings.Cut(label, "#")
	if !ok {
		return "", 0, fmt.Errorf("label %q has no rank: %w", label, ErrManualPairs)
	}
	name = strings.TrimSpace(name)
	rank, err := strconv.Atoi(strings.TrimSpace(rankText))
	if err != nil || name == "" {
		return "", 0, fmt.Errorf("label %q: %w", label, ErrManualPairs)
	}
	return name, rank, nil
}

func findGroup(groups []GroupSeeds, name string) (GroupSeeds, bool) {
	for _, g := range groups {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	if trimmed, ok := cutPrefixFold(name, "Group "); ok {
		for _, g := range groups {
			if strings.EqualFold(g.Name, trimmed) {
				return g, true
			}
		}
	}
	return GroupSeeds{}, false
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return strings.TrimSpace(s[len(prefix):]), true
	}
	return s, false
}

func manualFromLabels(groups []GroupSeeds, q int, pairs []ManualPair, want int) ([]Matchup, error) {
	if len(pairs) != want {
		return nil, fmt.Errorf("expected %d pairs, got %d: %w", want, len(pairs), ErrManualPairs)
	}
	used := make(map[string]struct{}, want*2)
	matchups := make([]Matchup, 0, want)
	for _, pair := range pairs {
		var sides [2]*uint
		for k, slot := range pair {
			name, rank, err := ParseSeedLabel(slot.Label)
			if err != nil {
				return nil, err
			}
			g, ok := findGroup(groups, name)
			if !ok || rank < 1 || rank > q {
				return nil, fmt.Errorf("label %q out of range: %w", slot.Label, ErrManualPairs)
			}
			key := strings.ToLower(g.Name) + "#" + strconv.Itoa(rank)
			if _, dup := used[key]; dup {
				return nil, fmt.Errorf("label %q used twice: %w", slot.Label, ErrManualPairs)
			}
			used[key] = struct{}{}
			sides[k] = g.seed(rank)
		}
		matchups = append(matchups, Matchup{Team1: sides[0], Team2: sides[1]})
	}
	return matchups, nil
}

func manualFromIndices(participants []uint, pairs []ManualPair) ([]Matchup, error) {
	want := len(participants) / 2
	if len(pairs) != want {
		return nil, fmt.Errorf("expected %d pairs, got %d: %w", want, len(pairs), ErrManualPairs)
	}
	used := make(map[int]struct{}, len(participants))
	matchups := make([]Matchup, 0, want)
	for _, pair := range pairs {
		var sides [2]*uint
		for k, slot := range pair {
			if slot.Label != "" || slot.Index < 1 || slot.Index > len(participants) {
				return nil, fmt.Errorf("slot %v out of range: %w", slot, ErrManualPairs)
			}
			if _, dup := used[slot.Index]; dup {
				return nil, fmt.Errorf("index %d used twice: %w", slot.Index, ErrManualPairs)
			}
			used[slot.Index] = struct{}{}
			id := participants[slot.Index-1]
			sides[k] = &id
		}
		matchups = append(matchups, Matchup{Team1: sides[0], Team2: sides[1]})
	}
	return matchups, nil
}
