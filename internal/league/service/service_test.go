package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/league_engine/internal/apperror"
	leagueModel "github.com/festy23/league_engine/internal/league/model"
	"github.com/festy23/league_engine/internal/league/repository"
	"github.com/festy23/league_engine/internal/testutil"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	logger := zap.NewNop().Sugar()
	return New(repository.New(db, logger), db, logger), db
}

func intPtr(v int) *int { return &v }

func TestService_CreateTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("trims name", func(t *testing.T) {
		svc, _ := newTestService(t)

		team, err := svc.CreateTeam(ctx, &leagueModel.CreateTeamRequest{Name: "  Lions "})
		require.NoError(t, err)
		assert.Equal(t, "Lions", team.Name)
	})

	t.Run("blank name", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.CreateTeam(ctx, &leagueModel.CreateTeamRequest{Name: "   "})
		assert.ErrorIs(t, err, leagueModel.ErrInvalidTeamName)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("duplicate", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.CreateTeam(ctx, &leagueModel.CreateTeamRequest{Name: "Lions"})
		require.NoError(t, err)
		_, err = svc.CreateTeam(ctx, &leagueModel.CreateTeamRequest{Name: "Lions"})
		assert.True(t, apperror.Is(err, apperror.KindConflict))
	})
}

func TestService_CreateLeague(t *testing.T) {
	ctx := context.Background()

	t.Run("relevance order is assigned per tournament", func(t *testing.T) {
		svc, db := newTestService(t)
		require.NoError(t, db.Exec(`INSERT INTO tournaments (id, name, format_type, has_knockout) VALUES (1, 'Cup', 'GROUPS', false)`).Error)
		tournamentID := uint(1)

		first, err := svc.CreateLeague(ctx, &leagueModel.CreateLeagueRequest{Name: "Div 1", TournamentID: &tournamentID})
		require.NoError(t, err)
		second, err := svc.CreateLeague(ctx, &leagueModel.CreateLeagueRequest{Name: "Div 2", TournamentID: &tournamentID})
		require.NoError(t, err)
		standalone, err := svc.CreateLeague(ctx, &leagueModel.CreateLeagueRequest{Name: "Friendly"})
		require.NoError(t, err)

		assert.Equal(t, 1, first.RelevanceOrder)
		assert.Equal(t, 2, second.RelevanceOrder)
		assert.Equal(t, 1, standalone.RelevanceOrder)
		assert.Empty(t, first.TeamIDs)
	})

	t.Run("explicit relevance order", func(t *testing.T) {
		svc, _ := newTestService(t)

		resp, err := svc.CreateLeague(ctx, &leagueModel.CreateLeagueRequest{Name: "Div", RelevanceOrder: intPtr(4)})
		require.NoError(t, err)
		assert.Equal(t, 4, resp.RelevanceOrder)
	})

	t.Run("invalid input", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.CreateLeague(ctx, &leagueModel.CreateLeagueRequest{Name: ""})
		assert.ErrorIs(t, err, leagueModel.ErrInvalidLeagueName)

		_, err = svc.CreateLeague(ctx, &leagueModel.CreateLeagueRequest{Name: "Div", RelevanceOrder: intPtr(0)})
		assert.ErrorIs(t, err, leagueModel.ErrInvalidRelevanceOrder)
	})

	t.Run("unknown tournament", func(t *testing.T) {
		svc, _ := newTestService(t)
		missing := uint(77)

		_, err := svc.CreateLeague(ctx, &leagueModel.CreateLeagueRequest{Name: "Div", TournamentID: &missing})
		assert.ErrorIs(t, err, leagueModel.ErrTournamentNotFound)
	})
}

func TestService_AddTeams(t *testing.T) {
	ctx := context.Background()

	t.Run("success with duplicates in request", func(t *testing.T) {
		svc, db := newTestService(t)
		teams := testutil.SeedTeams(t, db, "Lions", "Tigers")
		league := testutil.SeedLeague(t, db, "Spring", nil)

		resp, err := svc.AddTeams(ctx, league.ID, &leagueModel.AddTeamsRequest{
			TeamIDs: []uint{teams[1].ID, teams[0].ID, teams[1].ID},
		})
		require.NoError(t, err)
		assert.Equal(t, testutil.TeamIDs(teams), resp.TeamIDs)

		got, err := svc.GetLeague(ctx, league.ID)
		require.NoError(t, err)
		assert.Equal(t, testutil.TeamIDs(teams), got.TeamIDs)
	})

	t.Run("unknown team rolls back", func(t *testing.T) {
		svc, db := newTestService(t)
		teams := testutil.SeedTeams(t, db, "Lions")
		league := testutil.SeedLeague(t, db, "Spring", nil)

		_, err := svc.AddTeams(ctx, league.ID, &leagueModel.AddTeamsRequest{TeamIDs: []uint{teams[0].ID, 404}})
		assert.ErrorIs(t, err, leagueModel.ErrTeamNotFound)

		got, err := svc.GetLeague(ctx, league.ID)
		require.NoError(t, err)
		assert.Empty(t, got.TeamIDs)
	})

	t.Run("unknown league", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.AddTeams(ctx, 404, &leagueModel.AddTeamsRequest{TeamIDs: []uint{1}})
		assert.ErrorIs(t, err, leagueModel.ErrLeagueNotFound)
	})

	t.Run("empty list", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.AddTeams(ctx, 1, &leagueModel.AddTeamsRequest{})
		assert.ErrorIs(t, err, leagueModel.ErrEmptyTeamList)
	})
}
