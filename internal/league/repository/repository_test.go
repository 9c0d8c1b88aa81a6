package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	leagueModel "github.com/festy23/league_engine/internal/league/model"
	"github.com/festy23/league_engine/internal/testutil"
)

func TestRepository_CreateTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := New(testutil.NewDB(t), zap.NewNop().Sugar())

		team, err := repo.CreateTeam(ctx, "Lions")

		require.NoError(t, err)
		assert.NotZero(t, team.ID)
		assert.Equal(t, "Lions", team.Name)
	})

	t.Run("duplicate name", func(t *testing.T) {
		repo := New(testutil.NewDB(t), zap.NewNop().Sugar())

		_, err := repo.CreateTeam(ctx, "Lions")
		require.NoError(t, err)
		_, err = repo.CreateTeam(ctx, "Lions")

		assert.ErrorIs(t, err, leagueModel.ErrTeamExists)
	})
}

func TestRepository_GetTeam(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := New(db, zap.NewNop().Sugar())
	teams := testutil.SeedTeams(t, db, "Lions", "Tigers")

	team, err := repo.GetTeam(ctx, teams[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Tigers", team.Name)

	_, err = repo.GetTeam(ctx, 999)
	assert.ErrorIs(t, err, leagueModel.ErrTeamNotFound)

	got, err := repo.GetTeams(ctx, []uint{teams[1].ID, teams[0].ID, 999})
	require.NoError(t, err)
	assert.Equal(t, testutil.TeamIDs(teams), testutil.TeamIDs(got))

	empty, err := repo.GetTeams(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepository_MaxRelevanceOrder(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := New(db, zap.NewNop().Sugar())
	tournamentID := uint(7)

	order, err := repo.MaxRelevanceOrder(ctx, &tournamentID)
	require.NoError(t, err)
	assert.Equal(t, 0, order)

	require.NoError(t, repo.CreateLeague(ctx, &leagueModel.League{Name: "a", RelevanceOrder: 3, TournamentID: &tournamentID}))
	require.NoError(t, repo.CreateLeague(ctx, &leagueModel.League{Name: "b", RelevanceOrder: 5}))

	order, err = repo.MaxRelevanceOrder(ctx, &tournamentID)
	require.NoError(t, err)
	assert.Equal(t, 3, order)

	order, err = repo.MaxRelevanceOrder(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, order)
}

func TestRepository_Memberships(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := New(db, zap.NewNop().Sugar())
	teams := testutil.SeedTeams(t, db, "Lions", "Tigers", "Bears")
	tournamentID := uint(1)

	spring := testutil.SeedLeague(t, db, "Spring", &tournamentID)
	autumn := testutil.SeedLeague(t, db, "Autumn", nil)

	require.NoError(t, repo.AddMembers(ctx, spring.ID, []uint{teams[0].ID, teams[1].ID}))
	// Adding an existing membership again is a no-op.
	require.NoError(t, repo.AddMembers(ctx, spring.ID, []uint{teams[1].ID, teams[2].ID}))
	require.NoError(t, repo.AddMembers(ctx, autumn.ID, []uint{teams[0].ID}))

	members, err := repo.ListMemberIDs(ctx, spring.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.TeamIDs(teams), members)

	leagues, err := repo.ListLeagueIDsForTeam(ctx, teams[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{spring.ID, autumn.ID}, leagues)

	inTournament, err := repo.ListTournamentTeamIDs(ctx, tournamentID)
	require.NoError(t, err)
	assert.Equal(t, testutil.TeamIDs(teams), inTournament)

	none, err := repo.ListTournamentTeamIDs(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestIsDuplicateError(t *testing.T) {
	assert.False(t, IsDuplicateError(nil))
	assert.False(t, IsDuplicateError(assert.AnError))
	assert.True(t, IsDuplicateError(errors.New("UNIQUE constraint failed: teams.name")))
	assert.True(t, IsDuplicateError(errors.New(`ERROR: duplicate key value violates unique constraint "teams_name_unique"`)))
}
