package service

import (
	"context"
	"fmt"
	"math/rand"

	"gorm.io/gorm"

	"github.com/festy23/league_engine/internal/bracket"
	"github.com/festy23/league_engine/internal/domain"
	"github.com/festy23/league_engine/internal/events"
	leagueRepository "github.com/festy23/league_engine/internal/league/repository"
	leagueService "github.com/festy23/league_engine/internal/league/service"
	matchModel "github.com/festy23/league_engine/internal/match/model"
	matchRepository "github.com/festy23/league_engine/internal/match/repository"
	"github.com/festy23/league_engine/internal/metrics"
	tournamentModel "github.com/festy23/league_engine/internal/tournament/model"
	"github.com/festy23/league_engine/internal/tournament/repository"
)

// GenerateSchedule builds a single-leg round robin per group and lays all
// fixtures on one timeline starting at req.StartTimestamp.
func (s *service) GenerateSchedule(
	ctx context.Context,
	id uint,
	req *tournamentModel.GenerateScheduleRequest,
) (*tournamentModel.ScheduleResponse, error) {
	if req.StartTimestamp.IsZero() {
		return nil, tournamentModel.ErrInvalidStart
	}
	interval := s.defaultInterval
	if req.IntervalMinutes != nil {
		interval = *req.IntervalMinutes
	}
	if interval < 0 {
		return nil, tournamentModel.ErrNegativeInterval
	}

	result := &tournamentModel.ScheduleResponse{TournamentID: id}
	outbox := events.NewOutbox()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)
		t, err := txRepo.GetTournamentForUpdate(ctx, id)
		if err != nil {
			return err
		}
		groups, rosters, err := loadGroups(ctx, txRepo, id)
		if err != nil {
			return err
		}
		if err := checkGroupsReady(t, groups, rosters); err != nil {
			return err
		}

		links, err := txRepo.ListGroupMatches(ctx, id)
		if err != nil {
			return err
		}
		if len(links) > 0 {
			if !req.ReplaceExisting {
				return tournamentModel.ErrScheduleExists
			}
			if err := s.deleteMatches(ctx, tx, groupMatchIDs(links)); err != nil {
				return err
			}
		}

		var rng *rand.Rand
		if req.Randomize {
			rng = newRand(req.Seed)
		}
		perGroup := make([][][]bracket.Pair, len(groups))
		for i, g := range groups {
			perGroup[i] = bracket.RoundRobin(rosters[g.ID], rng)
		}
		fixtures := bracket.OrderFixtures(perGroup, req.AvoidConsecutive)

		matches := matchRepository.New(tx, s.logger)
		resolver := leagueService.NewResolver(leagueRepository.New(tx, s.logger))
		start := req.StartTimestamp.UTC()

		result.Matches = make([]tournamentModel.ScheduledMatch, 0, len(fixtures))
		for k, f := range fixtures {
			leagueID, err := resolver.Resolve(ctx, f.Home, f.Away, req.LeagueID)
			if err != nil {
				return err
			}
			match := &matchModel.Match{
				Team1ID:   f.Home,
				Team2ID:   f.Away,
				LeagueID:  leagueID,
				Timestamp: start.Add(minutes(k * interval)),
				State:     domain.MatchStateScheduled,
			}
			if err := matches.Create(ctx, match); err != nil {
				return err
			}
			link := &tournamentModel.GroupMatch{
				GroupID: groups[f.Group].ID,
				MatchID: match.ID,
				Round:   f.Round,
				Order:   k + 1,
			}
			if err := txRepo.CreateGroupMatch(ctx, link); err != nil {
				return err
			}
			names, err := matches.Participants(ctx, match)
			if err != nil {
				return err
			}
			outbox.Add(events.TypeMatchCreated, match.CreatedPayload(names))

			result.Matches = append(result.Matches, tournamentModel.ScheduledMatch{
				MatchID:   match.ID,
				GroupID:   link.GroupID,
				Round:     link.Round,
				Order:     link.Order,
				Team1ID:   match.Team1ID,
				Team2ID:   match.Team2ID,
				LeagueID:  match.LeagueID,
				Timestamp: match.Timestamp,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MatchesCreated.WithLabelValues(metrics.SourceSchedule).Add(float64(len(result.Matches)))
	outbox.Flush(ctx, s.publisher, s.logger)
	s.logger.Infow("group schedule generated",
		"tournament_id", id,
		"matches", len(result.Matches),
		"interval_minutes", interval,
		"avoid_consecutive", req.AvoidConsecutive,
	)
	return result, nil
}

// checkGroupsReady requires at least one group, every group seating two or
// more teams and none above the configured group size. Groups are not
// required to be full: auto-assignment of a team count that does not divide
// evenly leaves some groups one short, and those still get scheduled.
func checkGroupsReady(
	t *tournamentModel.Tournament,
	groups []tournamentModel.Group,
	rosters map[uint][]uint,
) error {
	if len(groups) == 0 {
		return fmt.Errorf("tournament %d has no groups: %w", t.ID, tournamentModel.ErrGroupsNotReady)
	}
	for _, g := range groups {
		n := len(rosters[g.ID])
		if n < 2 || (t.TeamsPerGroup != nil && n > *t.TeamsPerGroup) {
			return fmt.Errorf("group %s has %d teams: %w", g.Name, n, tournamentModel.ErrGroupsNotReady)
		}
	}
	return nil
}
