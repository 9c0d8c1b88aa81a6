// Package service provides the tournament business logic: group assignment,
// round-robin scheduling, group standings, knockout generation and bracket
// advancement.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/league_engine/internal/domain"
	"github.com/festy23/league_engine/internal/events"
	matchModel "github.com/festy23/league_engine/internal/match/model"
	matchRepository "github.com/festy23/league_engine/internal/match/repository"
	rankingModel "github.com/festy23/league_engine/internal/ranking/model"
	tournamentModel "github.com/festy23/league_engine/internal/tournament/model"
	"github.com/festy23/league_engine/internal/tournament/repository"
)

const maxNameLength = 255

// RankingRecomputer rebuilds a ranking row inside the caller's transaction.
type RankingRecomputer interface {
	Recompute(ctx context.Context, tx *gorm.DB, teamID, leagueID uint) (*rankingModel.Ranking, error)
}

// Service defines the interface for tournament operations.
type Service interface {
	// CreateTournament creates a tournament.
	CreateTournament(
		ctx context.Context,
		req *tournamentModel.CreateTournamentRequest,
	) (*tournamentModel.TournamentResponse, error)

	// GetTournament returns a tournament with groups, standings, knockout
	// config and bracket.
	GetTournament(ctx context.Context, id uint) (*tournamentModel.OverviewResponse, error)

	// AutoAssignGroups splits the tournament teams into groups.
	AutoAssignGroups(
		ctx context.Context,
		id uint,
		req *tournamentModel.AutoAssignRequest,
	) (*tournamentModel.TournamentResponse, error)

	// SetGroupTeams replaces the roster of one group.
	SetGroupTeams(
		ctx context.Context,
		groupID uint,
		req *tournamentModel.SetGroupTeamsRequest,
	) (*tournamentModel.GroupResponse, error)

	// GenerateSchedule creates the round-robin matches of every group.
	GenerateSchedule(
		ctx context.Context,
		id uint,
		req *tournamentModel.GenerateScheduleRequest,
	) (*tournamentModel.ScheduleResponse, error)

	// GetStandings returns the table of every group.
	GetStandings(ctx context.Context, id uint) (*tournamentModel.StandingsResponse, error)

	// SetKnockoutConfig stores the knockout configuration.
	SetKnockoutConfig(
		ctx context.Context,
		id uint,
		req *tournamentModel.KnockoutConfigRequest,
	) (*tournamentModel.KnockoutConfigResponse, error)

	// GenerateKnockout creates the first knockout phase and every later
	// phase that is already decided.
	GenerateKnockout(
		ctx context.Context,
		id uint,
		req *tournamentModel.GenerateKnockoutRequest,
	) (*tournamentModel.BracketResponse, error)

	// GetBracket returns the knockout bracket by phase.
	GetBracket(ctx context.Context, id uint) (*tournamentModel.BracketResponse, error)

	// Advance moves the bracket forward after a knockout match completed.
	// Matches outside any bracket are ignored.
	Advance(ctx context.Context, tx *gorm.DB, match *matchModel.Match, outbox *events.Outbox) error
}

type service struct {
	repo            repository.Repository
	db              *gorm.DB
	logger          *zap.SugaredLogger
	ranking         RankingRecomputer
	publisher       events.Publisher
	defaultInterval int
}

// New creates a new tournament service instance. defaultInterval is the
// number of minutes between generated matches when a request gives none.
func New(
	repo repository.Repository,
	db *gorm.DB,
	logger *zap.SugaredLogger,
	ranking RankingRecomputer,
	publisher events.Publisher,
	defaultInterval int,
) Service {
	return &service{
		repo:            repo,
		db:              db,
		logger:          logger,
		ranking:         ranking,
		publisher:       publisher,
		defaultInterval: defaultInterval,
	}
}

// CreateTournament creates a tournament.
func (s *service) CreateTournament(
	ctx context.Context,
	req *tournamentModel.CreateTournamentRequest,
) (*tournamentModel.TournamentResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxNameLength {
		return nil, tournamentModel.ErrInvalidName
	}
	if (req.GroupCount != nil && *req.GroupCount <= 0) || (req.TeamsPerGroup != nil && *req.TeamsPerGroup <= 0) {
		return nil, tournamentModel.ErrInvalidShape
	}

	hasKnockout := req.FormatType == domain.FormatGroupsKnockout || req.FormatType == domain.FormatKnockout
	if req.HasKnockout != nil {
		hasKnockout = *req.HasKnockout
	}

	t := &tournamentModel.Tournament{
		Name:          name,
		FormatType:    req.FormatType,
		GroupCount:    req.GroupCount,
		TeamsPerGroup: req.TeamsPerGroup,
		HasKnockout:   hasKnockout,
	}
	if err := s.repo.CreateTournament(ctx, t); err != nil {
		return nil, err
	}

	outbox := events.NewOutbox()
	outbox.Add(events.TypeTournamentCreated, map[string]any{
		"tournamentId": t.ID,
		"name":         t.Name,
		"formatType":   t.FormatType,
		"attendance":   domain.AttendanceUnknown,
	})
	outbox.Flush(ctx, s.publisher, s.logger)

	s.logger.Infow("tournament created", "tournament_id", t.ID, "format", t.FormatType)
	return tournamentModel.NewTournamentResponse(t, nil), nil
}

// GetTournament returns the tournament overview.
func (s *service) GetTournament(ctx context.Context, id uint) (*tournamentModel.OverviewResponse, error) {
	t, err := s.repo.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	groups, err := groupResponses(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	standings, err := s.groupTables(ctx, s.db, id, true)
	if err != nil {
		return nil, err
	}
	cfg, err := s.repo.GetKnockoutConfig(ctx, id)
	if err != nil {
		return nil, err
	}
	rounds, err := s.bracketRounds(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	overview := &tournamentModel.OverviewResponse{
		TournamentResponse: *tournamentModel.NewTournamentResponse(t, groups),
		Standings:          standings,
		Bracket:            rounds,
	}
	if cfg != nil {
		overview.Knockout = tournamentModel.NewKnockoutConfigResponse(cfg)
	}
	return overview, nil
}

// deleteMatches removes generated ledger matches with their links and
// recomputes the rankings they fed.
func (s *service) deleteMatches(ctx context.Context, tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	matches := matchRepository.New(tx, s.logger)
	rows, err := matches.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if err := matches.DeleteCascade(ctx, ids); err != nil {
		return err
	}
	if s.ranking == nil {
		return nil
	}

	type key struct{ team, league uint }
	seen := make(map[key]struct{}, len(rows)*2)
	for _, m := range rows {
		for _, team := range []uint{m.Team1ID, m.Team2ID} {
			k := key{team, m.LeagueID}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			if _, err := s.ranking.Recompute(ctx, tx, team, m.LeagueID); err != nil {
				return fmt.Errorf("failed to recompute ranking: %w", err)
			}
		}
	}
	return nil
}

func newRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
