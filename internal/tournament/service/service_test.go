package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/league_engine/internal/apperror"
	"github.com/festy23/league_engine/internal/domain"
	"github.com/festy23/league_engine/internal/events"
	leagueModel "github.com/festy23/league_engine/internal/league/model"
	matchModel "github.com/festy23/league_engine/internal/match/model"
	matchRepository "github.com/festy23/league_engine/internal/match/repository"
	matchService "github.com/festy23/league_engine/internal/match/service"
	rankingModel "github.com/festy23/league_engine/internal/ranking/model"
	rankingRepository "github.com/festy23/league_engine/internal/ranking/repository"
	rankingService "github.com/festy23/league_engine/internal/ranking/service"
	"github.com/festy23/league_engine/internal/testutil"
	tournamentModel "github.com/festy23/league_engine/internal/tournament/model"
	"github.com/festy23/league_engine/internal/tournament/repository"
)

var scheduleStart = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db         *gorm.DB
	svc        Service
	matches    matchService.Service
	recorder   *events.Recorder
	teams      []leagueModel.Team
	league     leagueModel.League
	tournament *tournamentModel.TournamentResponse
}

// setup creates a tournament whose single league holds teamCount teams
// named "Team 01", "Team 02" and so on.
func setup(t *testing.T, teamCount int) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	logger := zap.NewNop().Sugar()

	names := make([]string, teamCount)
	for i := range names {
		names[i] = fmt.Sprintf("Team %02d", i+1)
	}
	teams := testutil.SeedTeams(t, db, names...)

	ranking := rankingService.New(rankingRepository.New(db, logger), db, logger)
	recorder := &events.Recorder{}
	svc := New(repository.New(db, logger), db, logger, ranking, recorder, 60)
	matches := matchService.New(matchRepository.New(db, logger), db, logger, ranking, svc, recorder)

	tournament, err := svc.CreateTournament(context.Background(), &tournamentModel.CreateTournamentRequest{
		Name:       "Spring Cup",
		FormatType: domain.FormatGroupsKnockout,
	})
	require.NoError(t, err)
	league := testutil.SeedLeague(t, db, "Cup league", &tournament.ID, teams...)

	return fixture{
		db:         db,
		svc:        svc,
		matches:    matches,
		recorder:   recorder,
		teams:      teams,
		league:     league,
		tournament: tournament,
	}
}

func (f fixture) assign(t *testing.T, groupCount int) *tournamentModel.TournamentResponse {
	t.Helper()
	resp, err := f.svc.AutoAssignGroups(context.Background(), f.tournament.ID, &tournamentModel.AutoAssignRequest{
		GroupCount: &groupCount,
	})
	require.NoError(t, err)
	return resp
}

func (f fixture) schedule(t *testing.T) *tournamentModel.ScheduleResponse {
	t.Helper()
	resp, err := f.svc.GenerateSchedule(context.Background(), f.tournament.ID, &tournamentModel.GenerateScheduleRequest{
		StartTimestamp: scheduleStart,
	})
	require.NoError(t, err)
	return resp
}

// finish records a final score through the match ledger, which triggers
// ranking recomputation and bracket advancement.
func (f fixture) finish(t *testing.T, matchID uint, s1, s2 int) {
	t.Helper()
	_, err := f.matches.UpdateMatch(context.Background(), matchID, &matchModel.UpdateMatchRequest{
		ScoreTeam1: testutil.Score(s1),
		ScoreTeam2: testutil.Score(s2),
	})
	require.NoError(t, err)
}

func (f fixture) matchCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&matchModel.Match{}).Count(&n).Error)
	return n
}

func (f fixture) ids(indices ...int) []uint {
	ids := make([]uint, len(indices))
	for i, idx := range indices {
		ids[i] = f.teams[idx].ID
	}
	return ids
}

func TestService_CreateTournament(t *testing.T) {
	f := setup(t, 2)
	ctx := context.Background()

	assert.Equal(t, "Spring Cup", f.tournament.Name)
	assert.True(t, f.tournament.HasKnockout)
	assert.Empty(t, f.tournament.Groups)
	assert.Equal(t, []string{events.TypeTournamentCreated}, f.recorder.Types())
	assert.Equal(t, domain.AttendanceUnknown, f.recorder.Events()[0].Payload["attendance"])

	groups, err := f.svc.CreateTournament(ctx, &tournamentModel.CreateTournamentRequest{
		Name:       "Groups only",
		FormatType: domain.FormatGroups,
	})
	require.NoError(t, err)
	assert.False(t, groups.HasKnockout)

	_, err = f.svc.CreateTournament(ctx, &tournamentModel.CreateTournamentRequest{Name: "  ", FormatType: domain.FormatGroups})
	assert.ErrorIs(t, err, tournamentModel.ErrInvalidName)

	zero := 0
	_, err = f.svc.CreateTournament(ctx, &tournamentModel.CreateTournamentRequest{
		Name:       "Bad",
		FormatType: domain.FormatGroups,
		GroupCount: &zero,
	})
	assert.ErrorIs(t, err, tournamentModel.ErrInvalidShape)

	_, err = f.svc.GetTournament(ctx, 999)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestService_AutoAssignGroups(t *testing.T) {
	ctx := context.Background()

	t.Run("round robin placement without shuffle", func(t *testing.T) {
		f := setup(t, 8)

		resp := f.assign(t, 2)

		require.Len(t, resp.Groups, 2)
		assert.Equal(t, "A", resp.Groups[0].Name)
		assert.Equal(t, f.ids(0, 2, 4, 6), resp.Groups[0].TeamIDs)
		assert.Equal(t, "B", resp.Groups[1].Name)
		assert.Equal(t, f.ids(1, 3, 5, 7), resp.Groups[1].TeamIDs)
		assert.Equal(t, 2, *resp.GroupCount)
		assert.Equal(t, 4, *resp.TeamsPerGroup)
	})

	t.Run("group count derived from group size", func(t *testing.T) {
		f := setup(t, 7)
		size := 3

		resp, err := f.svc.AutoAssignGroups(ctx, f.tournament.ID, &tournamentModel.AutoAssignRequest{TeamsPerGroup: &size})

		require.NoError(t, err)
		require.Len(t, resp.Groups, 3)
		assert.Len(t, resp.Groups[0].TeamIDs, 3)
		assert.Len(t, resp.Groups[2].TeamIDs, 2)
	})

	t.Run("same seed same groups", func(t *testing.T) {
		f := setup(t, 8)
		count := 2
		seed := int64(42)
		req := &tournamentModel.AutoAssignRequest{GroupCount: &count, Shuffle: true, Seed: &seed, ReplaceExisting: true}

		first, err := f.svc.AutoAssignGroups(ctx, f.tournament.ID, req)
		require.NoError(t, err)
		second, err := f.svc.AutoAssignGroups(ctx, f.tournament.ID, req)
		require.NoError(t, err)

		assert.Equal(t, first.Groups[0].TeamIDs, second.Groups[0].TeamIDs)
		assert.Equal(t, first.Groups[1].TeamIDs, second.Groups[1].TeamIDs)
	})

	t.Run("validation", func(t *testing.T) {
		f := setup(t, 4)

		_, err := f.svc.AutoAssignGroups(ctx, f.tournament.ID, &tournamentModel.AutoAssignRequest{})
		assert.ErrorIs(t, err, tournamentModel.ErrMissingShape)

		tooMany := 5
		_, err = f.svc.AutoAssignGroups(ctx, f.tournament.ID, &tournamentModel.AutoAssignRequest{GroupCount: &tooMany})
		assert.True(t, apperror.Is(err, apperror.KindValidation))

		count, size := 2, 1
		_, err = f.svc.AutoAssignGroups(ctx, f.tournament.ID, &tournamentModel.AutoAssignRequest{
			GroupCount:    &count,
			TeamsPerGroup: &size,
		})
		assert.ErrorIs(t, err, tournamentModel.ErrInvalidShape)

		_, err = f.svc.AutoAssignGroups(ctx, 999, &tournamentModel.AutoAssignRequest{GroupCount: &count})
		assert.ErrorIs(t, err, tournamentModel.ErrTournamentNotFound)
	})

	t.Run("existing groups conflict unless replaced", func(t *testing.T) {
		f := setup(t, 4)
		f.assign(t, 2)
		f.schedule(t)
		require.Equal(t, int64(2), f.matchCount(t))

		count := 2
		_, err := f.svc.AutoAssignGroups(ctx, f.tournament.ID, &tournamentModel.AutoAssignRequest{GroupCount: &count})
		assert.ErrorIs(t, err, tournamentModel.ErrGroupsExist)
		assert.True(t, apperror.Is(err, apperror.KindConflict))

		count = 1
		resp, err := f.svc.AutoAssignGroups(ctx, f.tournament.ID, &tournamentModel.AutoAssignRequest{
			GroupCount:      &count,
			ReplaceExisting: true,
		})
		require.NoError(t, err)
		require.Len(t, resp.Groups, 1)
		assert.Len(t, resp.Groups[0].TeamIDs, 4)
		assert.Zero(t, f.matchCount(t), "generated matches are deleted with their groups")
	})

	t.Run("tournament without teams", func(t *testing.T) {
		f := setup(t, 2)
		other, err := f.svc.CreateTournament(ctx, &tournamentModel.CreateTournamentRequest{Name: "Empty", FormatType: domain.FormatGroups})
		require.NoError(t, err)

		count := 1
		_, err = f.svc.AutoAssignGroups(ctx, other.ID, &tournamentModel.AutoAssignRequest{GroupCount: &count})
		assert.ErrorIs(t, err, tournamentModel.ErrNoTeams)
	})
}

func TestService_SetGroupTeams(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 4)
	resp := f.assign(t, 2)
	groupA, groupB := resp.Groups[0], resp.Groups[1]
	outsider := testutil.SeedTeams(t, f.db, "Outsiders")[0]

	t.Run("replaces roster", func(t *testing.T) {
		got, err := f.svc.SetGroupTeams(ctx, groupA.ID, &tournamentModel.SetGroupTeamsRequest{
			TeamIDs: []uint{groupA.TeamIDs[1], groupA.TeamIDs[0], groupA.TeamIDs[1]},
		})
		require.NoError(t, err)
		assert.Equal(t, []uint{groupA.TeamIDs[1], groupA.TeamIDs[0]}, got.TeamIDs)
	})

	t.Run("team outside tournament", func(t *testing.T) {
		_, err := f.svc.SetGroupTeams(ctx, groupA.ID, &tournamentModel.SetGroupTeamsRequest{TeamIDs: []uint{outsider.ID}})
		assert.ErrorIs(t, err, tournamentModel.ErrTeamNotInTournament)
	})

	t.Run("team in another group", func(t *testing.T) {
		_, err := f.svc.SetGroupTeams(ctx, groupA.ID, &tournamentModel.SetGroupTeamsRequest{
			TeamIDs: []uint{groupB.TeamIDs[0]},
		})
		assert.ErrorIs(t, err, tournamentModel.ErrTeamInOtherGroup)
		assert.True(t, apperror.Is(err, apperror.KindConflict))
	})

	t.Run("too many teams", func(t *testing.T) {
		_, err := f.svc.SetGroupTeams(ctx, groupB.ID, &tournamentModel.SetGroupTeamsRequest{
			TeamIDs: append(append([]uint{}, groupB.TeamIDs...), groupB.TeamIDs[0]+100),
		})
		assert.ErrorIs(t, err, tournamentModel.ErrGroupTooLarge)
	})

	t.Run("missing group", func(t *testing.T) {
		_, err := f.svc.SetGroupTeams(ctx, 999, &tournamentModel.SetGroupTeamsRequest{TeamIDs: []uint{}})
		assert.ErrorIs(t, err, tournamentModel.ErrGroupNotFound)
	})
}

func TestService_GenerateSchedule(t *testing.T) {
	ctx := context.Background()

	t.Run("circle method timeline", func(t *testing.T) {
		f := setup(t, 4)
		f.assign(t, 1)

		resp := f.schedule(t)

		require.Len(t, resp.Matches, 6)
		a, b, c, d := f.teams[0].ID, f.teams[1].ID, f.teams[2].ID, f.teams[3].ID
		want := [][2]uint{{a, d}, {b, c}, {a, c}, {d, b}, {a, b}, {c, d}}
		for k, m := range resp.Matches {
			assert.Equal(t, want[k], [2]uint{m.Team1ID, m.Team2ID}, "slot %d", k+1)
			assert.Equal(t, k+1, m.Order)
			assert.Equal(t, k/2+1, m.Round)
			assert.Equal(t, scheduleStart.Add(time.Duration(k)*time.Hour), m.Timestamp)
			assert.Equal(t, f.league.ID, m.LeagueID)
		}
		assert.Equal(t, int64(6), f.matchCount(t))

		created := 0
		for _, typ := range f.recorder.Types() {
			if typ == events.TypeMatchCreated {
				created++
			}
		}
		assert.Equal(t, 6, created)
	})

	t.Run("avoid consecutive", func(t *testing.T) {
		f := setup(t, 4)
		f.assign(t, 1)
		interval := 0

		resp, err := f.svc.GenerateSchedule(ctx, f.tournament.ID, &tournamentModel.GenerateScheduleRequest{
			StartTimestamp:   scheduleStart,
			IntervalMinutes:  &interval,
			AvoidConsecutive: true,
		})

		require.NoError(t, err)
		require.Len(t, resp.Matches, 6)
		a, b, c, d := f.teams[0].ID, f.teams[1].ID, f.teams[2].ID, f.teams[3].ID
		assert.Equal(t, [2]uint{a, d}, [2]uint{resp.Matches[0].Team1ID, resp.Matches[0].Team2ID})
		assert.Equal(t, [2]uint{b, c}, [2]uint{resp.Matches[1].Team1ID, resp.Matches[1].Team2ID})
		assert.ElementsMatch(t,
			[]string{fmt.Sprintf("%d-%d", a, d), fmt.Sprintf("%d-%d", b, c), fmt.Sprintf("%d-%d", a, c),
				fmt.Sprintf("%d-%d", b, d), fmt.Sprintf("%d-%d", a, b), fmt.Sprintf("%d-%d", c, d)},
			pairings(resp),
		)
		for _, m := range resp.Matches {
			assert.Equal(t, scheduleStart, m.Timestamp)
		}
	})

	t.Run("replace with same seed keeps pairings", func(t *testing.T) {
		f := setup(t, 6)
		f.assign(t, 2)
		seed := int64(7)
		req := &tournamentModel.GenerateScheduleRequest{StartTimestamp: scheduleStart, Randomize: true, Seed: &seed}

		first, err := f.svc.GenerateSchedule(ctx, f.tournament.ID, req)
		require.NoError(t, err)

		_, err = f.svc.GenerateSchedule(ctx, f.tournament.ID, req)
		assert.ErrorIs(t, err, tournamentModel.ErrScheduleExists)

		req.ReplaceExisting = true
		second, err := f.svc.GenerateSchedule(ctx, f.tournament.ID, req)
		require.NoError(t, err)

		assert.ElementsMatch(t, pairings(first), pairings(second))
		assert.Equal(t, int64(len(second.Matches)), f.matchCount(t))
	})

	t.Run("replace recomputes rankings", func(t *testing.T) {
		f := setup(t, 2)
		f.assign(t, 1)
		first := f.schedule(t)
		f.finish(t, first.Matches[0].MatchID, 2, 0)

		_, err := f.svc.GenerateSchedule(ctx, f.tournament.ID, &tournamentModel.GenerateScheduleRequest{
			StartTimestamp:  scheduleStart,
			ReplaceExisting: true,
		})
		require.NoError(t, err)

		var rows []rankingModel.Ranking
		require.NoError(t, f.db.Where("league_id = ?", f.league.ID).Find(&rows).Error)
		for _, row := range rows {
			assert.Zero(t, row.GamesPlayed)
			assert.Zero(t, row.Points)
		}
	})

	t.Run("groups not ready", func(t *testing.T) {
		f := setup(t, 4)

		_, err := f.svc.GenerateSchedule(ctx, f.tournament.ID, &tournamentModel.GenerateScheduleRequest{StartTimestamp: scheduleStart})
		assert.ErrorIs(t, err, tournamentModel.ErrGroupsNotReady)

		resp := f.assign(t, 2)
		_, err = f.svc.SetGroupTeams(ctx, resp.Groups[0].ID, &tournamentModel.SetGroupTeamsRequest{
			TeamIDs: resp.Groups[0].TeamIDs[:1],
		})
		require.NoError(t, err)

		_, err = f.svc.GenerateSchedule(ctx, f.tournament.ID, &tournamentModel.GenerateScheduleRequest{StartTimestamp: scheduleStart})
		assert.ErrorIs(t, err, tournamentModel.ErrGroupsNotReady)
	})

	t.Run("invalid input", func(t *testing.T) {
		f := setup(t, 2)
		negative := -5

		_, err := f.svc.GenerateSchedule(ctx, f.tournament.ID, &tournamentModel.GenerateScheduleRequest{
			StartTimestamp:  scheduleStart,
			IntervalMinutes: &negative,
		})
		assert.ErrorIs(t, err, tournamentModel.ErrNegativeInterval)

		_, err = f.svc.GenerateSchedule(ctx, f.tournament.ID, &tournamentModel.GenerateScheduleRequest{})
		assert.ErrorIs(t, err, tournamentModel.ErrInvalidStart)
	})

	t.Run("ambiguous league", func(t *testing.T) {
		f := setup(t, 2)
		f.assign(t, 1)
		testutil.SeedLeague(t, f.db, "Second", &f.tournament.ID, f.teams...)

		_, err := f.svc.GenerateSchedule(ctx, f.tournament.ID, &tournamentModel.GenerateScheduleRequest{StartTimestamp: scheduleStart})
		assert.True(t, apperror.Is(err, apperror.KindAmbiguous))
		assert.Zero(t, f.matchCount(t), "nothing is committed")

		resp, err := f.svc.GenerateSchedule(ctx, f.tournament.ID, &tournamentModel.GenerateScheduleRequest{
			StartTimestamp: scheduleStart,
			LeagueID:       &f.league.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, f.league.ID, resp.Matches[0].LeagueID)
	})
}

func pairings(resp *tournamentModel.ScheduleResponse) []string {
	out := make([]string, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		ids := []uint{m.Team1ID, m.Team2ID}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		out = append(out, fmt.Sprintf("%d-%d", ids[0], ids[1]))
	}
	return out
}

func TestService_GetStandings(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 3)
	f.assign(t, 1)
	sched := f.schedule(t)

	standings, err := f.svc.GetStandings(ctx, f.tournament.ID)
	require.NoError(t, err)
	require.Len(t, standings.Groups, 1)
	assert.False(t, standings.Groups[0].Complete)
	assert.Len(t, standings.Groups[0].Rows, 3)

	t1, t2, t3 := f.teams[0].ID, f.teams[1].ID, f.teams[2].ID
	results := map[[2]uint][2]int{
		{t1, t2}: {2, 1},
		{t2, t3}: {3, 3},
		{t1, t3}: {0, 2},
	}
	for _, m := range sched.Matches {
		if score, ok := results[[2]uint{m.Team1ID, m.Team2ID}]; ok {
			f.finish(t, m.MatchID, score[0], score[1])
			continue
		}
		score := results[[2]uint{m.Team2ID, m.Team1ID}]
		f.finish(t, m.MatchID, score[1], score[0])
	}

	standings, err = f.svc.GetStandings(ctx, f.tournament.ID)
	require.NoError(t, err)
	table := standings.Groups[0]
	assert.True(t, table.Complete)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []uint{t3, t1, t2}, []uint{table.Rows[0].TeamID, table.Rows[1].TeamID, table.Rows[2].TeamID})
	assert.Equal(t, 4, table.Rows[0].Points)
	assert.Equal(t, 3, table.Rows[1].Points)
	assert.Equal(t, 2, table.Rows[1].GoalsFor)
	assert.Equal(t, 3, table.Rows[1].GoalsAgainst)
	assert.Equal(t, 1, table.Rows[2].Points)
	assert.Equal(t, "Team 03", table.Rows[0].TeamName)

	_, err = f.svc.GetStandings(ctx, 999)
	assert.ErrorIs(t, err, tournamentModel.ErrTournamentNotFound)
}

func TestService_GetTournamentOverview(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 4)
	f.assign(t, 2)
	f.schedule(t)

	overview, err := f.svc.GetTournament(ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Len(t, overview.Groups, 2)
	assert.Len(t, overview.Standings, 2)
	assert.Nil(t, overview.Knockout)
	assert.Empty(t, overview.Bracket)
}
