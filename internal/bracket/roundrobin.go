package bracket

import "math/rand"

// Pair is a single fixture between two teams.
type Pair struct {
	Home uint
	Away uint
}

// Involves reports whether team plays in the pair.
func (p Pair) Involves(team uint) bool {
	return p.Home == team || p.Away == team
}

// SharesTeam reports whether both pairs have a team in common.
func (p Pair) SharesTeam(other Pair) bool {
	return p.Involves(other.Home) || p.Involves(other.Away)
}

const bye = -1

// RoundRobin builds a single-leg round robin with the circle method. For n
// teams (plus a bye when n is odd) there are n-1 rounds; in each round
// position i meets position n-1-i, then every position except the first
// rotates one slot. Pairs against the bye are skipped.
//
// When rng is not nil the teams are shuffled up front and home/away is
// flipped at random per pair.
func RoundRobin(teams []uint, rng *rand.Rand) [][]Pair {
	if len(teams) < 2 {
		return nil
	}

	order := append([]uint(nil), teams...)
	if rng != nil {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	positions := make([]int, len(order))
	for i := range order {
		positions[i] = i
	}
	if len(positions)%2 == 1 {
		positions = append(positions, bye)
	}
	n := len(positions)

	rounds := make([][]Pair, 0, n-1)
	for r := 0; r < n-1; r++ {
		round := make([]Pair, 0, n/2)
		for i := 0; i < n/2; i++ {
			a, b := positions[i], positions[n-1-i]
			if a == bye || b == bye {
				continue
			}
			pair := Pair{Home: order[a], Away: order[b]}
			if rng != nil && rng.Intn(2) == 1 {
				pair.Home, pair.Away = pair.Away, pair.Home
			}
			round = append(round, pair)
		}
		rounds = append(rounds, round)

		last := positions[n-1]
		copy(positions[2:], positions[1:n-1])
		positions[1] = last
	}
	return rounds
}

// Fixture is a round-robin pair placed on the global schedule.
type Fixture struct {
	Group int
	Round int
	Pair
}

// OrderFixtures flattens the per-group rounds into a single schedule. Pairs
// are collected round by round across groups. With avoidConsecutive, each
// next slot takes the first remaining pair that shares no team with the
// previous slot, falling back to the first remaining pair.
func OrderFixtures(groups [][][]Pair, avoidConsecutive bool) []Fixture {
	maxRounds := 0
	for _, rounds := range groups {
		if len(rounds) > maxRounds {
			maxRounds = len(rounds)
		}
	}

	var pending []Fixture
	for r := 0; r < maxRounds; r++ {
		for g, rounds := range groups {
			if r >= len(rounds) {
				continue
			}
			for _, p := range rounds[r] {
				pending = append(pending, Fixture{Group: g, Round: r + 1, Pair: p})
			}
		}
	}
	if !avoidConsecutive {
		return pending
	}

	ordered := make([]Fixture, 0, len(pending))
	for len(pending) > 0 {
		pick := 0
		if len(ordered) > 0 {
			prev := ordered[len(ordered)-1].Pair
			for i, f := range pending {
				if !f.SharesTeam(prev) {
					pick = i
					break
				}
			}
		}
		ordered = append(ordered, pending[pick])
		pending = append(pending[:pick], pending[pick+1:]...)
	}
	return ordered
}
