package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/league_engine/internal/domain"
	leagueModel "github.com/festy23/league_engine/internal/league/model"
	matchModel "github.com/festy23/league_engine/internal/match/model"
	rankingModel "github.com/festy23/league_engine/internal/ranking/model"
	"github.com/festy23/league_engine/internal/ranking/repository"
	"github.com/festy23/league_engine/internal/testutil"
)

type fixture struct {
	db     *gorm.DB
	svc    Service
	teams  []leagueModel.Team
	league leagueModel.League
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	logger := zap.NewNop().Sugar()
	teams := testutil.SeedTeams(t, db, "lions", "Tigers", "Bears")
	league := testutil.SeedLeague(t, db, "Spring", nil, teams...)
	return fixture{
		db:     db,
		svc:    New(repository.New(db, logger), db, logger),
		teams:  teams,
		league: league,
	}
}

func countRankings(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&rankingModel.Ranking{}).Count(&count).Error)
	return count
}

func TestService_Recompute(t *testing.T) {
	ctx := context.Background()

	t.Run("no matches and no row is not persisted", func(t *testing.T) {
		f := setup(t)

		ranking, err := f.svc.Recompute(ctx, f.db, f.teams[0].ID, f.league.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, ranking.GamesPlayed)
		assert.Equal(t, int64(0), countRankings(t, f.db))
	})

	t.Run("accumulates completed matches", func(t *testing.T) {
		f := setup(t)
		a, b, c := f.teams[0].ID, f.teams[1].ID, f.teams[2].ID
		testutil.SeedMatch(t, f.db, f.league.ID, a, b, testutil.Score(2), testutil.Score(1), domain.MatchStateFinished)
		testutil.SeedMatch(t, f.db, f.league.ID, c, a, testutil.Score(1), testutil.Score(1), domain.MatchStateScheduled)
		testutil.SeedMatch(t, f.db, f.league.ID, b, a, testutil.Score(3), testutil.Score(0), domain.MatchStateOngoing)
		testutil.SeedMatch(t, f.db, f.league.ID, a, c, nil, nil, domain.MatchStateScheduled)

		ranking, err := f.svc.Recompute(ctx, f.db, a, f.league.ID)
		require.NoError(t, err)

		assert.Equal(t, 2, ranking.GamesPlayed)
		assert.Equal(t, 1, ranking.GamesWon)
		assert.Equal(t, 1, ranking.GamesTied)
		assert.Equal(t, 0, ranking.GamesLost)
		assert.Equal(t, 3, ranking.GoalsScored)
		assert.Equal(t, 2, ranking.GoalsConceded)
		assert.Equal(t, 4, ranking.Points)
	})

	t.Run("idempotent", func(t *testing.T) {
		f := setup(t)
		a, b := f.teams[0].ID, f.teams[1].ID
		testutil.SeedMatch(t, f.db, f.league.ID, a, b, testutil.Score(0), testutil.Score(1), domain.MatchStateFinished)

		first, err := f.svc.Recompute(ctx, f.db, b, f.league.ID)
		require.NoError(t, err)
		second, err := f.svc.Recompute(ctx, f.db, b, f.league.ID)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, int64(1), countRankings(t, f.db))
	})

	t.Run("existing row is reset when matches disappear", func(t *testing.T) {
		f := setup(t)
		a, b := f.teams[0].ID, f.teams[1].ID
		m := testutil.SeedMatch(t, f.db, f.league.ID, a, b, testutil.Score(3), testutil.Score(1), domain.MatchStateFinished)

		_, err := f.svc.Recompute(ctx, f.db, a, f.league.ID)
		require.NoError(t, err)
		require.NoError(t, f.db.Delete(&matchModel.Match{}, m.ID).Error)

		ranking, err := f.svc.Recompute(ctx, f.db, a, f.league.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, ranking.GamesPlayed)
		assert.Equal(t, 0, ranking.Points)

		var stored rankingModel.Ranking
		require.NoError(t, f.db.Where("team_id = ?", a).First(&stored).Error)
		assert.Equal(t, 0, stored.GoalsScored)
	})

	t.Run("runs inside the caller transaction", func(t *testing.T) {
		f := setup(t)
		a, b := f.teams[0].ID, f.teams[1].ID
		testutil.SeedMatch(t, f.db, f.league.ID, a, b, testutil.Score(1), testutil.Score(0), domain.MatchStateFinished)

		err := f.db.Transaction(func(tx *gorm.DB) error {
			if _, err := f.svc.Recompute(ctx, tx, a, f.league.ID); err != nil {
				return err
			}
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, int64(0), countRankings(t, f.db))
	})
}

func TestService_GetTable(t *testing.T) {
	ctx := context.Background()

	t.Run("sorted with empty rows for members without matches", func(t *testing.T) {
		f := setup(t)
		a, b, c := f.teams[0].ID, f.teams[1].ID, f.teams[2].ID
		testutil.SeedMatch(t, f.db, f.league.ID, b, c, testutil.Score(2), testutil.Score(0), domain.MatchStateFinished)
		for _, id := range []uint{b, c} {
			_, err := f.svc.Recompute(ctx, f.db, id, f.league.ID)
			require.NoError(t, err)
		}

		table, err := f.svc.GetTable(ctx, f.league.ID)
		require.NoError(t, err)
		require.Len(t, table.Rows, 3)
		assert.Equal(t, f.league.ID, table.LeagueID)

		// Tigers won; lions and Bears tie on points and the empty row wins on
		// goal difference.
		assert.Equal(t, b, table.Rows[0].TeamID)
		assert.Equal(t, a, table.Rows[1].TeamID)
		assert.Equal(t, c, table.Rows[2].TeamID)
		assert.Equal(t, "lions", table.Rows[1].TeamName)
	})

	t.Run("unknown league", func(t *testing.T) {
		f := setup(t)

		_, err := f.svc.GetTable(ctx, 999)
		assert.ErrorIs(t, err, rankingModel.ErrLeagueNotFound)
	})
}

func TestService_RebuildLeague(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a, b := f.teams[0].ID, f.teams[1].ID
	testutil.SeedMatch(t, f.db, f.league.ID, a, b, testutil.Score(1), testutil.Score(1), domain.MatchStateFinished)
	testutil.SeedMatch(t, f.db, f.league.ID, b, f.teams[2].ID, testutil.Score(4), testutil.Score(2), domain.MatchStateFinished)

	stale := rankingModel.Ranking{TeamID: a, LeagueID: f.league.ID, GamesPlayed: 5, GamesWon: 5, Points: 15}
	require.NoError(t, f.db.Create(&stale).Error)

	table, err := f.svc.RebuildLeague(ctx, f.league.ID)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	byTeam := make(map[uint]int)
	for _, row := range table.Rows {
		byTeam[row.TeamID] = row.Points
	}
	assert.Equal(t, 1, byTeam[a])
	assert.Equal(t, 4, byTeam[b])
	assert.Equal(t, 0, byTeam[f.teams[2].ID])

	var scored, conceded int
	for _, row := range table.Rows {
		scored += row.GoalsFor
		conceded += row.GoalsAgainst
	}
	assert.Equal(t, scored, conceded)

	again, err := f.svc.RebuildLeague(ctx, f.league.ID)
	require.NoError(t, err)
	assert.Equal(t, table, again)

	_, err = f.svc.RebuildLeague(ctx, 999)
	assert.ErrorIs(t, err, rankingModel.ErrLeagueNotFound)
}
