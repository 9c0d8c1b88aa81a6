// Package service provides the match ledger business logic.
package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/league_engine/internal/domain"
	"github.com/festy23/league_engine/internal/events"
	leagueRepository "github.com/festy23/league_engine/internal/league/repository"
	leagueService "github.com/festy23/league_engine/internal/league/service"
	matchModel "github.com/festy23/league_engine/internal/match/model"
	"github.com/festy23/league_engine/internal/match/repository"
	"github.com/festy23/league_engine/internal/metrics"
	rankingModel "github.com/festy23/league_engine/internal/ranking/model"
)

// RankingRecomputer rebuilds a ranking row inside the caller's transaction.
type RankingRecomputer interface {
	Recompute(ctx context.Context, tx *gorm.DB, teamID, leagueID uint) (*rankingModel.Ranking, error)
}

// Advancer moves a knockout bracket forward after one of its matches
// completed. Matches that are not part of a bracket are ignored.
type Advancer interface {
	Advance(ctx context.Context, tx *gorm.DB, match *matchModel.Match, outbox *events.Outbox) error
}

// Service defines the interface for match ledger operations.
type Service interface {
	// CreateMatch schedules a match, resolving its league when omitted.
	CreateMatch(ctx context.Context, req *matchModel.CreateMatchRequest) (*matchModel.MatchResponse, error)

	// GetMatch returns a match sheet with its goals.
	GetMatch(ctx context.Context, id uint) (*matchModel.MatchResponse, error)

	// UpdateMatch applies a partial update to a match.
	UpdateMatch(ctx context.Context, id uint, req *matchModel.UpdateMatchRequest) (*matchModel.MatchResponse, error)

	// FinishMatch moves a match to FINISHED, defaulting null scores to zero.
	FinishMatch(ctx context.Context, id uint) (*matchModel.MatchResponse, error)

	// DeleteMatch removes a match that is not finished.
	DeleteMatch(ctx context.Context, id uint) error
}

type service struct {
	repo      repository.Repository
	db        *gorm.DB
	logger    *zap.SugaredLogger
	ranking   RankingRecomputer
	advancer  Advancer
	publisher events.Publisher
}

// New creates a new match service instance. advancer may be nil when no
// tournament module is wired.
func New(
	repo repository.Repository,
	db *gorm.DB,
	logger *zap.SugaredLogger,
	ranking RankingRecomputer,
	advancer Advancer,
	publisher events.Publisher,
) Service {
	return &service{
		repo:      repo,
		db:        db,
		logger:    logger,
		ranking:   ranking,
		advancer:  advancer,
		publisher: publisher,
	}
}

// CreateMatch creates a match in the SCHEDULED state with null scores.
func (s *service) CreateMatch(
	ctx context.Context,
	req *matchModel.CreateMatchRequest,
) (*matchModel.MatchResponse, error) {
	if req.Team1ID == req.Team2ID {
		return nil, matchModel.ErrSameTeam
	}
	if req.Timestamp.IsZero() {
		return nil, matchModel.ErrInvalidTimestamp
	}

	match := &matchModel.Match{
		Team1ID:   req.Team1ID,
		Team2ID:   req.Team2ID,
		Timestamp: req.Timestamp.UTC(),
		Location:  strings.TrimSpace(req.Location),
		State:     domain.MatchStateScheduled,
	}
	outbox := events.NewOutbox()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leagues := leagueRepository.New(tx, s.logger)
		teams, err := leagues.GetTeams(ctx, []uint{req.Team1ID, req.Team2ID})
		if err != nil {
			return err
		}
		if len(teams) != 2 {
			return matchModel.ErrTeamNotFound
		}

		leagueID, err := leagueService.NewResolver(leagues).Resolve(ctx, req.Team1ID, req.Team2ID, req.LeagueID)
		if err != nil {
			return err
		}
		match.LeagueID = leagueID

		txRepo := repository.New(tx, s.logger)
		if err := txRepo.Create(ctx, match); err != nil {
			return err
		}
		names, err := txRepo.Participants(ctx, match)
		if err != nil {
			return err
		}
		outbox.Add(events.TypeMatchCreated, match.CreatedPayload(names))
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MatchesCreated.WithLabelValues(metrics.SourceManual).Inc()
	outbox.Flush(ctx, s.publisher, s.logger)
	s.logger.Infow("match created",
		"match_id", match.ID,
		"league_id", match.LeagueID,
		"team1_id", match.Team1ID,
		"team2_id", match.Team2ID,
	)
	return matchModel.NewMatchResponse(match, nil), nil
}

// GetMatch returns a match with goals.
func (s *service) GetMatch(ctx context.Context, id uint) (*matchModel.MatchResponse, error) {
	match, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	goals, err := s.repo.ListGoals(ctx, id)
	if err != nil {
		return nil, err
	}
	return matchModel.NewMatchResponse(match, goals), nil
}

// UpdateMatch applies the patch, then recomputes rankings and advances the
// bracket in the same transaction.
func (s *service) UpdateMatch(
	ctx context.Context,
	id uint,
	req *matchModel.UpdateMatchRequest,
) (*matchModel.MatchResponse, error) {
	if err := validatePatch(req); err != nil {
		return nil, err
	}

	var (
		result *matchModel.MatchResponse
		outbox = events.NewOutbox()
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)
		match, err := txRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		before := *match

		goals, err := applyPatch(match, req)
		if err != nil {
			return err
		}

		if err := txRepo.Save(ctx, match); err != nil {
			return err
		}
		if goals != nil {
			if err := txRepo.ReplaceGoals(ctx, match.ID, goals); err != nil {
				return err
			}
			for i := range goals {
				outbox.Add(events.TypeGoalRecorded, map[string]any{
					"matchId":  match.ID,
					"teamId":   goals[i].TeamID,
					"playerId": goals[i].PlayerID,
					"minute":   goals[i].Minute,
				})
			}
		}

		if resultChanged(&before, match) {
			if err := s.afterResultChange(ctx, tx, match, outbox); err != nil {
				return err
			}
		}

		stored, err := txRepo.ListGoals(ctx, match.ID)
		if err != nil {
			return err
		}
		result = matchModel.NewMatchResponse(match, stored)
		return nil
	})
	if err != nil {
		return nil, err
	}

	outbox.Flush(ctx, s.publisher, s.logger)
	s.logger.Infow("match updated", "match_id", id, "state", result.State)
	return result, nil
}

// FinishMatch finishes a match.
func (s *service) FinishMatch(ctx context.Context, id uint) (*matchModel.MatchResponse, error) {
	var (
		result *matchModel.MatchResponse
		outbox = events.NewOutbox()
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)
		match, err := txRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if match.State == domain.MatchStateFinished {
			return fmt.Errorf("match %d: %w", id, matchModel.ErrAlreadyFinished)
		}

		s1, s2 := match.Scores()
		match.ScoreTeam1, match.ScoreTeam2 = &s1, &s2
		match.State = domain.MatchStateFinished

		if err := txRepo.Save(ctx, match); err != nil {
			return err
		}
		if err := s.afterResultChange(ctx, tx, match, outbox); err != nil {
			return err
		}

		goals, err := txRepo.ListGoals(ctx, match.ID)
		if err != nil {
			return err
		}
		result = matchModel.NewMatchResponse(match, goals)
		return nil
	})
	if err != nil {
		return nil, err
	}

	outbox.Flush(ctx, s.publisher, s.logger)
	s.logger.Infow("match finished", "match_id", id)
	return result, nil
}

// DeleteMatch deletes a match with its goals and back-references.
func (s *service) DeleteMatch(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)
		match, err := txRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if match.State == domain.MatchStateFinished {
			return fmt.Errorf("match %d: %w", id, matchModel.ErrDeleteFinished)
		}
		if err := txRepo.DeleteCascade(ctx, []uint{id}); err != nil {
			return err
		}
		return s.recompute(ctx, tx, match)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("match deleted", "match_id", id)
	return nil
}

// afterResultChange runs the ranking recomputer for both teams and then the
// bracket advancer.
func (s *service) afterResultChange(
	ctx context.Context,
	tx *gorm.DB,
	match *matchModel.Match,
	outbox *events.Outbox,
) error {
	if err := s.recompute(ctx, tx, match); err != nil {
		return err
	}
	if !match.IsCompleted() {
		return nil
	}

	s1, s2 := match.Scores()
	outbox.Add(events.TypeMatchResult, map[string]any{
		"matchId":    match.ID,
		"leagueId":   match.LeagueID,
		"team1Id":    match.Team1ID,
		"team2Id":    match.Team2ID,
		"scoreTeam1": s1,
		"scoreTeam2": s2,
		"state":      match.State,
	})

	if s.advancer == nil {
		return nil
	}
	if err := s.advancer.Advance(ctx, tx, match, outbox); err != nil {
		return fmt.Errorf("failed to advance bracket: %w", err)
	}
	return nil
}

func (s *service) recompute(ctx context.Context, tx *gorm.DB, match *matchModel.Match) error {
	if s.ranking == nil {
		return nil
	}
	for _, teamID := range []uint{match.Team1ID, match.Team2ID} {
		if _, err := s.ranking.Recompute(ctx, tx, teamID, match.LeagueID); err != nil {
			return fmt.Errorf("failed to recompute ranking: %w", err)
		}
	}
	return nil
}

func validatePatch(req *matchModel.UpdateMatchRequest) error {
	if (req.ScoreTeam1 != nil && *req.ScoreTeam1 < 0) || (req.ScoreTeam2 != nil && *req.ScoreTeam2 < 0) {
		return matchModel.ErrNegativeScore
	}
	if req.Timestamp != nil && req.Timestamp.IsZero() {
		return matchModel.ErrInvalidTimestamp
	}
	if req.Goals != nil {
		for _, g := range *req.Goals {
			if g.Minute != nil && *g.Minute < 0 {
				return matchModel.ErrGoalMinute
			}
		}
	}
	return nil
}

// applyPatch mutates match according to req and returns the new goal list
// when one was supplied. Goal counts set the scores unless an explicit
// score is given, which then has to agree with them.
func applyPatch(match *matchModel.Match, req *matchModel.UpdateMatchRequest) ([]matchModel.Goal, error) {
	// FINISHED is terminal. Scores stay editable so drawn knockout results
	// can be corrected.
	if match.State == domain.MatchStateFinished && req.State != nil && *req.State != domain.MatchStateFinished {
		return nil, fmt.Errorf("match %d to %s: %w", match.ID, *req.State, matchModel.ErrAlreadyFinished)
	}
	if req.Timestamp != nil {
		match.Timestamp = req.Timestamp.UTC()
	}
	if req.Location != nil {
		match.Location = strings.TrimSpace(*req.Location)
	}

	score1, score2 := req.ScoreTeam1, req.ScoreTeam2

	var goals []matchModel.Goal
	if req.Goals != nil {
		goals = make([]matchModel.Goal, 0, len(*req.Goals))
		var count1, count2 int
		for _, g := range *req.Goals {
			switch g.TeamID {
			case match.Team1ID:
				count1++
			case match.Team2ID:
				count2++
			default:
				return nil, fmt.Errorf("team %d: %w", g.TeamID, matchModel.ErrGoalTeam)
			}
			goals = append(goals, matchModel.Goal{
				TeamID:           g.TeamID,
				PlayerID:         g.PlayerID,
				PlayerName:       strings.TrimSpace(g.PlayerName),
				AssistPlayerID:   g.AssistPlayerID,
				AssistPlayerName: g.AssistPlayerName,
				Minute:           g.Minute,
			})
		}
		if (score1 != nil && *score1 != count1) || (score2 != nil && *score2 != count2) {
			return nil, matchModel.ErrScoreMismatch
		}
		score1, score2 = &count1, &count2
	}

	if score1 != nil {
		v := *score1
		match.ScoreTeam1 = &v
	}
	if score2 != nil {
		v := *score2
		match.ScoreTeam2 = &v
	}

	switch {
	case req.State != nil:
		match.State = *req.State
		if match.State == domain.MatchStateFinished {
			s1, s2 := match.Scores()
			match.ScoreTeam1, match.ScoreTeam2 = &s1, &s2
		}
	case scoresTouched(req) && match.State == domain.MatchStateScheduled &&
		match.ScoreTeam1 != nil && match.ScoreTeam2 != nil:
		match.State = domain.MatchStateFinished
	}

	return goals, nil
}

func scoresTouched(req *matchModel.UpdateMatchRequest) bool {
	return req.ScoreTeam1 != nil || req.ScoreTeam2 != nil || req.Goals != nil
}

func resultChanged(before, after *matchModel.Match) bool {
	if before.State != after.State || before.IsCompleted() != after.IsCompleted() {
		return true
	}
	return !sameScore(before.ScoreTeam1, after.ScoreTeam1) || !sameScore(before.ScoreTeam2, after.ScoreTeam2)
}

func sameScore(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
