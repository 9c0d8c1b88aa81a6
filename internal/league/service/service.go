// Package service provides business logic layer for the league module.
package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	leagueModel "github.com/festy23/league_engine/internal/league/model"
	"github.com/festy23/league_engine/internal/league/repository"
)

const maxNameLength = 255

// Service defines the interface for team and league operations.
type Service interface {
	// CreateTeam creates a new team.
	CreateTeam(ctx context.Context, req *leagueModel.CreateTeamRequest) (*leagueModel.Team, error)

	// GetTeam returns a team by id.
	GetTeam(ctx context.Context, id uint) (*leagueModel.Team, error)

	// CreateLeague creates a league, assigning the next relevance order
	// within its tournament when none is given.
	CreateLeague(ctx context.Context, req *leagueModel.CreateLeagueRequest) (*leagueModel.LeagueResponse, error)

	// GetLeague returns a league with its members.
	GetLeague(ctx context.Context, id uint) (*leagueModel.LeagueResponse, error)

	// AddTeams adds teams to a league. Existing memberships are kept.
	AddTeams(ctx context.Context, leagueID uint, req *leagueModel.AddTeamsRequest) (*leagueModel.LeagueResponse, error)
}

type service struct {
	repo   repository.Repository
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new league service instance.
func New(repo repository.Repository, db *gorm.DB, logger *zap.SugaredLogger) Service {
	return &service{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// CreateTeam creates a new team.
func (s *service) CreateTeam(ctx context.Context, req *leagueModel.CreateTeamRequest) (*leagueModel.Team, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxNameLength {
		return nil, leagueModel.ErrInvalidTeamName
	}

	team, err := s.repo.CreateTeam(ctx, name)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("team created", "team_id", team.ID, "name", team.Name)
	return team, nil
}

// GetTeam returns a team by id.
func (s *service) GetTeam(ctx context.Context, id uint) (*leagueModel.Team, error) {
	return s.repo.GetTeam(ctx, id)
}

// CreateLeague creates a league in a transaction so the relevance order
// read and the insert see the same state.
func (s *service) CreateLeague(
	ctx context.Context,
	req *leagueModel.CreateLeagueRequest,
) (*leagueModel.LeagueResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxNameLength {
		return nil, leagueModel.ErrInvalidLeagueName
	}
	if req.RelevanceOrder != nil && *req.RelevanceOrder <= 0 {
		return nil, leagueModel.ErrInvalidRelevanceOrder
	}

	league := &leagueModel.League{
		Name:         name,
		Season:       strings.TrimSpace(req.Season),
		TournamentID: req.TournamentID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		if league.TournamentID != nil {
			exists, err := txRepo.TournamentExists(ctx, *league.TournamentID)
			if err != nil {
				return err
			}
			if !exists {
				return leagueModel.ErrTournamentNotFound
			}
		}

		if req.RelevanceOrder != nil {
			league.RelevanceOrder = *req.RelevanceOrder
		} else {
			maxOrder, err := txRepo.MaxRelevanceOrder(ctx, league.TournamentID)
			if err != nil {
				return err
			}
			league.RelevanceOrder = maxOrder + 1
		}

		return txRepo.CreateLeague(ctx, league)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("league created",
		"league_id", league.ID,
		"tournament_id", league.TournamentID,
		"relevance_order", league.RelevanceOrder,
	)
	return leagueModel.NewLeagueResponse(league, nil), nil
}

// GetLeague returns a league with its members.
func (s *service) GetLeague(ctx context.Context, id uint) (*leagueModel.LeagueResponse, error) {
	league, err := s.repo.GetLeague(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.ListMemberIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return leagueModel.NewLeagueResponse(league, members), nil
}

// AddTeams adds teams to a league.
func (s *service) AddTeams(
	ctx context.Context,
	leagueID uint,
	req *leagueModel.AddTeamsRequest,
) (*leagueModel.LeagueResponse, error) {
	if len(req.TeamIDs) == 0 {
		return nil, leagueModel.ErrEmptyTeamList
	}

	var result *leagueModel.LeagueResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		league, err := txRepo.GetLeague(ctx, leagueID)
		if err != nil {
			return err
		}

		unique := dedupe(req.TeamIDs)
		teams, err := txRepo.GetTeams(ctx, unique)
		if err != nil {
			return err
		}
		if len(teams) != len(unique) {
			return fmt.Errorf("league %d: %w", leagueID, leagueModel.ErrTeamNotFound)
		}

		if err := txRepo.AddMembers(ctx, leagueID, unique); err != nil {
			return err
		}

		members, err := txRepo.ListMemberIDs(ctx, leagueID)
		if err != nil {
			return err
		}
		result = leagueModel.NewLeagueResponse(league, members)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("teams added to league", "league_id", leagueID, "count", len(req.TeamIDs))
	return result, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
