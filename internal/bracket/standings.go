package bracket

import (
	"sort"
	"strings"
)

// Result is the final score of a completed match.
type Result struct {
	MatchID uint
	Team1   uint
	Team2   uint
	Score1  int
	Score2  int
}

// Outcome returns the winner and loser of the result. ok is false on a draw.
func (r Result) Outcome() (winner, loser uint, ok bool) {
	switch {
	case r.Score1 > r.Score2:
		return r.Team1, r.Team2, true
	case r.Score2 > r.Score1:
		return r.Team2, r.Team1, true
	}
	return 0, 0, false
}

// TeamRef identifies a team in a standings table.
type TeamRef struct {
	ID   uint
	Name string
}

// Row is one line of a points table.
type Row struct {
	TeamID       uint   `json:"teamId"`
	TeamName     string `json:"teamName"`
	Played       int    `json:"played"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	GoalsFor     int    `json:"goalsFor"`
	GoalsAgainst int    `json:"goalsAgainst"`
	Points       int    `json:"points"`
}

// GoalDifference returns goals for minus goals against.
func (r Row) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}

// Apply accounts a single match from this team's point of view.
func (r *Row) Apply(scored, conceded int) {
	r.Played++
	r.GoalsFor += scored
	r.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		r.Wins++
		r.Points += 3
	case scored == conceded:
		r.Draws++
		r.Points++
	default:
		r.Losses++
	}
}

// RowLess orders rows by points, goal difference and goals for (all
// descending), then by team name ignoring case, then by team id.
func RowLess(a, b Row) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if gdA, gdB := a.GoalDifference(), b.GoalDifference(); gdA != gdB {
		return gdA > gdB
	}
	if a.GoalsFor != b.GoalsFor {
		return a.GoalsFor > b.GoalsFor
	}
	if na, nb := strings.ToLower(a.TeamName), strings.ToLower(b.TeamName); na != nb {
		return na < nb
	}
	return a.TeamID < b.TeamID
}

// SortRows sorts rows in table order.
func SortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool { return RowLess(rows[i], rows[j]) })
}

// ComputeStandings builds the sorted table for teams from results. Results
// involving teams outside the table are ignored for those teams, and each
// match id is counted once.
func ComputeStandings(teams []TeamRef, results []Result) []Row {
	rows := make([]Row, len(teams))
	index := make(map[uint]int, len(teams))
	for i, t := range teams {
		rows[i] = Row{TeamID: t.ID, TeamName: t.Name}
		index[t.ID] = i
	}

	seen := make(map[uint]struct{}, len(results))
	for _, res := range results {
		if _, dup := seen[res.MatchID]; dup {
			continue
		}
		seen[res.MatchID] = struct{}{}

		if i, ok := index[res.Team1]; ok {
			rows[i].Apply(res.Score1, res.Score2)
		}
		if i, ok := index[res.Team2]; ok {
			rows[i].Apply(res.Score2, res.Score1)
		}
	}

	SortRows(rows)
	return rows
}

// RankedTeamIDs returns the team ids of sorted rows.
func RankedTeamIDs(rows []Row) []uint {
	ids := make([]uint, len(rows))
	for i, r := range rows {
		ids[i] = r.TeamID
	}
	return ids
}
