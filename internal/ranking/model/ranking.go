// Package model provides the ranking cache model and DTOs.
package model

import "github.com/festy23/league_engine/internal/bracket"

// Ranking is the derived per-(team, league) counters row. It is rebuilt from
// the match ledger and never edited incrementally.
type Ranking struct {
	ID            uint `gorm:"primaryKey;column:id"`
	TeamID        uint `gorm:"column:team_id;not null;uniqueIndex:ranking_team_league_unique"`
	LeagueID      uint `gorm:"column:league_id;not null;uniqueIndex:ranking_team_league_unique"`
	GamesPlayed   int  `gorm:"column:games_played;not null"`
	GamesWon      int  `gorm:"column:games_won;not null"`
	GamesTied     int  `gorm:"column:games_tied;not null"`
	GamesLost     int  `gorm:"column:games_lost;not null"`
	GoalsScored   int  `gorm:"column:goals_scored;not null"`
	GoalsConceded int  `gorm:"column:goals_conceded;not null"`
	Points        int  `gorm:"column:points;not null"`
}

// TableName specifies the table name for GORM.
func (Ranking) TableName() string {
	return "ranking"
}

// SetFrom overwrites the counters with an accumulated table row.
func (r *Ranking) SetFrom(row bracket.Row) {
	r.GamesPlayed = row.Played
	r.GamesWon = row.Wins
	r.GamesTied = row.Draws
	r.GamesLost = row.Losses
	r.GoalsScored = row.GoalsFor
	r.GoalsConceded = row.GoalsAgainst
	r.Points = row.Points
}

// Row converts the counters to a table row.
func (r *Ranking) Row(teamName string) bracket.Row {
	return bracket.Row{
		TeamID:       r.TeamID,
		TeamName:     teamName,
		Played:       r.GamesPlayed,
		Wins:         r.GamesWon,
		Draws:        r.GamesTied,
		Losses:       r.GamesLost,
		GoalsFor:     r.GoalsScored,
		GoalsAgainst: r.GoalsConceded,
		Points:       r.Points,
	}
}

// TableResponse is a league ranking table.
type TableResponse struct {
	LeagueID uint          `json:"leagueId"`
	Rows     []bracket.Row `json:"rows"`
}
