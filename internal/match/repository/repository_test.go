package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/league_engine/internal/domain"
	matchModel "github.com/festy23/league_engine/internal/match/model"
	"github.com/festy23/league_engine/internal/testutil"
)

func TestRepository_GetByID(t *testing.T) {
	db := testutil.NewDB(t)
	teams := testutil.SeedTeams(t, db, "Lions", "Tigers")
	league := testutil.SeedLeague(t, db, "Spring", nil, teams...)
	repo := New(db, zap.NewNop().Sugar())
	ctx := context.Background()

	seeded := testutil.SeedMatch(t, db, league.ID, teams[0].ID, teams[1].ID, nil, nil, domain.MatchStateScheduled)

	got, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.Team1ID, got.Team1ID)
	assert.Nil(t, got.ScoreTeam1)

	locked, err := repo.GetForUpdate(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, locked.ID)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, matchModel.ErrMatchNotFound)
}

func TestRepository_SaveClearsScores(t *testing.T) {
	db := testutil.NewDB(t)
	teams := testutil.SeedTeams(t, db, "Lions", "Tigers")
	league := testutil.SeedLeague(t, db, "Spring", nil, teams...)
	repo := New(db, zap.NewNop().Sugar())
	ctx := context.Background()

	m := testutil.SeedMatch(t, db, league.ID, teams[0].ID, teams[1].ID,
		testutil.Score(1), testutil.Score(1), domain.MatchStateOngoing)
	m.ScoreTeam1, m.ScoreTeam2 = nil, nil
	m.State = domain.MatchStateScheduled
	require.NoError(t, repo.Save(ctx, &m))

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ScoreTeam1)
	assert.Nil(t, got.ScoreTeam2)
	assert.Equal(t, domain.MatchStateScheduled, got.State)
}

func TestRepository_ReplaceGoals(t *testing.T) {
	db := testutil.NewDB(t)
	teams := testutil.SeedTeams(t, db, "Lions", "Tigers")
	league := testutil.SeedLeague(t, db, "Spring", nil, teams...)
	repo := New(db, zap.NewNop().Sugar())
	ctx := context.Background()
	m := testutil.SeedMatch(t, db, league.ID, teams[0].ID, teams[1].ID, nil, nil, domain.MatchStateScheduled)

	minute := 12
	require.NoError(t, repo.ReplaceGoals(ctx, m.ID, []matchModel.Goal{
		{TeamID: teams[0].ID, PlayerID: 7, PlayerName: "Ann", Minute: &minute},
		{TeamID: teams[1].ID, PlayerID: 8, PlayerName: "Bob"},
	}))
	require.NoError(t, repo.ReplaceGoals(ctx, m.ID, []matchModel.Goal{
		{TeamID: teams[1].ID, PlayerID: 9, PlayerName: "Cid"},
	}))

	goals, err := repo.ListGoals(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Cid", goals[0].PlayerName)
	assert.Equal(t, m.ID, goals[0].MatchID)

	require.NoError(t, repo.ReplaceGoals(ctx, m.ID, nil))
	goals, err = repo.ListGoals(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestRepository_DeleteCascade(t *testing.T) {
	db := testutil.NewDB(t)
	teams := testutil.SeedTeams(t, db, "Lions", "Tigers")
	league := testutil.SeedLeague(t, db, "Spring", nil, teams...)
	repo := New(db, zap.NewNop().Sugar())
	ctx := context.Background()

	m1 := testutil.SeedMatch(t, db, league.ID, teams[0].ID, teams[1].ID, nil, nil, domain.MatchStateScheduled)
	m2 := testutil.SeedMatch(t, db, league.ID, teams[1].ID, teams[0].ID, nil, nil, domain.MatchStateScheduled)
	keep := testutil.SeedMatch(t, db, league.ID, teams[0].ID, teams[1].ID, nil, nil, domain.MatchStateScheduled)
	require.NoError(t, db.Create(&matchModel.Goal{MatchID: m1.ID, TeamID: teams[0].ID, PlayerID: 1}).Error)
	require.NoError(t, db.Exec(
		"INSERT INTO tournament_knockout_matches (tournament_id, round, match_order, match_id) VALUES (1, 'F', 1, ?)", m2.ID,
	).Error)

	require.NoError(t, repo.DeleteCascade(ctx, []uint{m1.ID, m2.ID}))
	require.NoError(t, repo.DeleteCascade(ctx, nil))

	left, err := repo.ListByIDs(ctx, []uint{m1.ID, m2.ID, keep.ID})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, keep.ID, left[0].ID)

	var goals, links int64
	require.NoError(t, db.Model(&matchModel.Goal{}).Count(&goals).Error)
	require.NoError(t, db.Table("tournament_knockout_matches").Count(&links).Error)
	assert.Zero(t, goals)
	assert.Zero(t, links)
}
