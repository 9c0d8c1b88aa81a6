package service

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/festy23/league_engine/internal/bracket"
	leagueRepository "github.com/festy23/league_engine/internal/league/repository"
	matchModel "github.com/festy23/league_engine/internal/match/model"
	matchRepository "github.com/festy23/league_engine/internal/match/repository"
	tournamentModel "github.com/festy23/league_engine/internal/tournament/model"
	"github.com/festy23/league_engine/internal/tournament/repository"
)

// GetStandings returns the tables of all groups.
func (s *service) GetStandings(ctx context.Context, id uint) (*tournamentModel.StandingsResponse, error) {
	if _, err := s.repo.GetTournament(ctx, id); err != nil {
		return nil, err
	}
	tables, err := s.groupTables(ctx, s.db, id, true)
	if err != nil {
		return nil, err
	}
	return &tournamentModel.StandingsResponse{TournamentID: id, Groups: tables}, nil
}

// groupTables computes the standings of every group in group order. With
// concurrent set the match reads of the groups run in parallel, which is
// only allowed outside a transaction.
func (s *service) groupTables(
	ctx context.Context,
	db *gorm.DB,
	tournamentID uint,
	concurrent bool,
) ([]tournamentModel.GroupStandings, error) {
	repo := repository.New(db, s.logger)
	groups, rosters, err := loadGroups(ctx, repo, tournamentID)
	if err != nil {
		return nil, err
	}
	links, err := repo.ListGroupMatches(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	matchIDs := make(map[uint][]uint, len(groups))
	for _, link := range links {
		matchIDs[link.GroupID] = append(matchIDs[link.GroupID], link.MatchID)
	}

	var seated []uint
	for _, g := range groups {
		seated = append(seated, rosters[g.ID]...)
	}
	teams, err := leagueRepository.New(db, s.logger).GetTeams(ctx, seated)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(teams))
	for _, team := range teams {
		names[team.ID] = team.Name
	}

	tables := make([]tournamentModel.GroupStandings, len(groups))
	compute := func(ctx context.Context, i int) error {
		g := groups[i]
		matches, err := matchRepository.New(db, s.logger).ListByIDs(ctx, matchIDs[g.ID])
		if err != nil {
			return err
		}
		tables[i] = groupTable(g, rosters[g.ID], names, matches)
		return nil
	}

	if !concurrent {
		for i := range groups {
			if err := compute(ctx, i); err != nil {
				return nil, err
			}
		}
		return tables, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for i := range groups {
		eg.Go(func() error { return compute(egCtx, i) })
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// groupTable builds one group's table. A group is complete when all of its
// matches are completed; a group of a single team needs no matches.
func groupTable(
	group tournamentModel.Group,
	members []uint,
	names map[uint]string,
	matches []matchModel.Match,
) tournamentModel.GroupStandings {
	refs := make([]bracket.TeamRef, len(members))
	for i, id := range members {
		refs[i] = bracket.TeamRef{ID: id, Name: names[id]}
	}

	complete := len(matches) > 0 || len(members) == 1
	results := make([]bracket.Result, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		if !m.IsCompleted() {
			complete = false
			continue
		}
		s1, s2 := m.Scores()
		results = append(results, bracket.Result{
			MatchID: m.ID,
			Team1:   m.Team1ID,
			Team2:   m.Team2ID,
			Score1:  s1,
			Score2:  s2,
		})
	}

	return tournamentModel.GroupStandings{
		GroupID:  group.ID,
		Name:     group.Name,
		Complete: complete,
		Rows:     bracket.ComputeStandings(refs, results),
	}
}

func groupSeeds(tables []tournamentModel.GroupStandings) []bracket.GroupSeeds {
	seeds := make([]bracket.GroupSeeds, len(tables))
	for i, table := range tables {
		seeds[i] = bracket.GroupSeeds{
			Name:     table.Name,
			Complete: table.Complete,
			Ranked:   bracket.RankedTeamIDs(table.Rows),
		}
	}
	return seeds
}
