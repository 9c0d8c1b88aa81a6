// Package bracket implements the pure tournament structure algorithms:
// group assignment, round-robin scheduling, standings and knockout pairing.
// It has no storage dependencies; callers feed it identifiers and results.
package bracket

import (
	"fmt"
	"math/rand"
)

// AssignGroups places teams[i] into group i mod groupCount. When rng is not
// nil the team list is shuffled first. The input slice is never modified.
func AssignGroups(teams []uint, groupCount int, rng *rand.Rand) ([][]uint, error) {
	if groupCount <= 0 || groupCount > len(teams) {
		return nil, fmt.Errorf("%d groups for %d teams: %w", groupCount, len(teams), ErrInvalidGroupCount)
	}

	order := append([]uint(nil), teams...)
	if rng != nil {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	groups := make([][]uint, groupCount)
	for i, team := range order {
		groups[i%groupCount] = append(groups[i%groupCount], team)
	}
	return groups, nil
}

// ResolveGroupShape fills in whichever of groupCount and teamsPerGroup is
// missing as ceil(teams/provided). A zero value means missing.
func ResolveGroupShape(teams, groupCount, teamsPerGroup int) (int, int, error) {
	switch {
	case groupCount <= 0 && teamsPerGroup <= 0:
		return 0, 0, ErrInvalidGroupCount
	case groupCount <= 0:
		groupCount = ceilDiv(teams, teamsPerGroup)
	case teamsPerGroup <= 0:
		teamsPerGroup = ceilDiv(teams, groupCount)
	}
	if groupCount <= 0 || groupCount > teams {
		return 0, 0, fmt.Errorf("%d groups for %d teams: %w", groupCount, teams, ErrInvalidGroupCount)
	}
	return groupCount, teamsPerGroup, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// GroupName returns the display name of the group at the zero-based index:
// "A" through "Z", then "Group 27", "Group 28" and so on.
func GroupName(index int) string {
	if index >= 0 && index < 26 {
		return string(rune('A' + index))
	}
	return fmt.Sprintf("Group %d", index+1)
}
