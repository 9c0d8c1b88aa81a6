// Package testutil provides an in-memory database with the engine schema
// and small seeding helpers for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/festy23/league_engine/internal/domain"
	leagueModel "github.com/festy23/league_engine/internal/league/model"
	matchModel "github.com/festy23/league_engine/internal/match/model"
	rankingModel "github.com/festy23/league_engine/internal/ranking/model"
	tournamentModel "github.com/festy23/league_engine/internal/tournament/model"
)

// NewDB opens a fresh sqlite in-memory database with every engine table.
// The pool is capped at one connection so all statements share the same
// in-memory database; code running inside a transaction must use the
// transaction handle only.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&leagueModel.Team{},
		&leagueModel.League{},
		&leagueModel.LeagueTeam{},
		&matchModel.Match{},
		&matchModel.Goal{},
		&rankingModel.Ranking{},
		&tournamentModel.Tournament{},
		&tournamentModel.Group{},
		&tournamentModel.GroupTeam{},
		&tournamentModel.GroupMatch{},
		&tournamentModel.KnockoutMatch{},
		&tournamentModel.KnockoutConfig{},
	)
	require.NoError(t, err)

	return db
}

// SeedTeams creates teams with the given names and returns them in order.
func SeedTeams(t *testing.T, db *gorm.DB, names ...string) []leagueModel.Team {
	t.Helper()
	teams := make([]leagueModel.Team, 0, len(names))
	for _, name := range names {
		team := leagueModel.Team{Name: name}
		require.NoError(t, db.Create(&team).Error)
		teams = append(teams, team)
	}
	return teams
}

// SeedLeague creates a league (optionally inside a tournament) with the
// given member teams.
func SeedLeague(t *testing.T, db *gorm.DB, name string, tournamentID *uint, teams ...leagueModel.Team) leagueModel.League {
	t.Helper()
	var maxOrder int
	require.NoError(t, db.Model(&leagueModel.League{}).Select("COALESCE(MAX(relevance_order), 0)").Scan(&maxOrder).Error)

	league := leagueModel.League{Name: name, Season: "2026", RelevanceOrder: maxOrder + 1, TournamentID: tournamentID}
	require.NoError(t, db.Create(&league).Error)
	for _, team := range teams {
		require.NoError(t, db.Create(&leagueModel.LeagueTeam{LeagueID: league.ID, TeamID: team.ID}).Error)
	}
	return league
}

// TeamIDs returns the ids of teams in order.
func TeamIDs(teams []leagueModel.Team) []uint {
	ids := make([]uint, len(teams))
	for i, team := range teams {
		ids[i] = team.ID
	}
	return ids
}

// SeedMatch creates a ledger match. Nil scores stay null.
func SeedMatch(
	t *testing.T,
	db *gorm.DB,
	leagueID, team1, team2 uint,
	score1, score2 *int,
	state domain.MatchState,
) matchModel.Match {
	t.Helper()
	m := matchModel.Match{
		Team1ID:    team1,
		Team2ID:    team2,
		LeagueID:   leagueID,
		Timestamp:  time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		ScoreTeam1: score1,
		ScoreTeam2: score2,
		State:      state,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

// Score returns a pointer to v.
func Score(v int) *int {
	return &v
}
