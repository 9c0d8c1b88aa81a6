// Package repository provides data access layer for the league module.
package repository

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	leagueModel "github.com/festy23/league_engine/internal/league/model"
)

// Repository defines the interface for team, league and membership data access.
type Repository interface {
	// CreateTeam creates a new team.
	CreateTeam(ctx context.Context, name string) (*leagueModel.Team, error)

	// GetTeam finds a team by id.
	GetTeam(ctx context.Context, id uint) (*leagueModel.Team, error)

	// GetTeams returns the teams with the given ids ordered by id.
	GetTeams(ctx context.Context, ids []uint) ([]leagueModel.Team, error)

	// CreateLeague inserts a league. RelevanceOrder must already be set.
	CreateLeague(ctx context.Context, league *leagueModel.League) error

	// GetLeague finds a league by id.
	GetLeague(ctx context.Context, id uint) (*leagueModel.League, error)

	// MaxRelevanceOrder returns the highest relevance order among leagues of
	// the tournament (or of leagues without tournament when nil), 0 if none.
	MaxRelevanceOrder(ctx context.Context, tournamentID *uint) (int, error)

	// TournamentExists reports whether a tournament row exists.
	TournamentExists(ctx context.Context, tournamentID uint) (bool, error)

	// AddMembers adds teams to a league, ignoring existing memberships.
	AddMembers(ctx context.Context, leagueID uint, teamIDs []uint) error

	// ListMemberIDs returns team ids of a league ordered by id.
	ListMemberIDs(ctx context.Context, leagueID uint) ([]uint, error)

	// ListLeagueIDsForTeam returns the ids of all leagues the team belongs to.
	ListLeagueIDsForTeam(ctx context.Context, teamID uint) ([]uint, error)

	// ListTournamentTeamIDs returns the distinct ids of teams that belong to
	// any league of the tournament, ordered by id.
	ListTournamentTeamIDs(ctx context.Context, tournamentID uint) ([]uint, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new league repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// IsDuplicateError checks if err is a unique constraint violation.
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// CreateTeam creates a new team.
func (r *repository) CreateTeam(ctx context.Context, name string) (*leagueModel.Team, error) {
	team := &leagueModel.Team{Name: name}
	if err := r.db.WithContext(ctx).Create(team).Error; err != nil {
		if IsDuplicateError(err) {
			return nil, leagueModel.ErrTeamExists
		}
		return nil, err
	}
	return team, nil
}

// GetTeam finds a team by id.
func (r *repository) GetTeam(ctx context.Context, id uint) (*leagueModel.Team, error) {
	var team leagueModel.Team
	err := r.db.WithContext(ctx).First(&team, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leagueModel.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

// GetTeams returns the teams with the given ids ordered by id.
func (r *repository) GetTeams(ctx context.Context, ids []uint) ([]leagueModel.Team, error) {
	teams := []leagueModel.Team{}
	if len(ids) == 0 {
		return teams, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// CreateLeague inserts a league.
func (r *repository) CreateLeague(ctx context.Context, league *leagueModel.League) error {
	return r.db.WithContext(ctx).Create(league).Error
}

// GetLeague finds a league by id.
func (r *repository) GetLeague(ctx context.Context, id uint) (*leagueModel.League, error) {
	var league leagueModel.League
	err := r.db.WithContext(ctx).First(&league, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leagueModel.ErrLeagueNotFound
		}
		return nil, err
	}
	return &league, nil
}

// MaxRelevanceOrder returns the highest relevance order within a tournament.
func (r *repository) MaxRelevanceOrder(ctx context.Context, tournamentID *uint) (int, error) {
	var maxOrder int
	query := r.db.WithContext(ctx).
		Model(&leagueModel.League{}).
		Select("COALESCE(MAX(relevance_order), 0)")
	if tournamentID == nil {
		query = query.Where("tournament_id IS NULL")
	} else {
		query = query.Where("tournament_id = ?", *tournamentID)
	}
	if err := query.Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	return maxOrder, nil
}

// TournamentExists reports whether a tournament row exists.
func (r *repository) TournamentExists(ctx context.Context, tournamentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("tournaments").
		Where("id = ?", tournamentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddMembers adds teams to a league, ignoring existing memberships.
func (r *repository) AddMembers(ctx context.Context, leagueID uint, teamIDs []uint) error {
	if len(teamIDs) == 0 {
		return nil
	}
	rows := make([]leagueModel.LeagueTeam, 0, len(teamIDs))
	for _, id := range teamIDs {
		rows = append(rows, leagueModel.LeagueTeam{LeagueID: leagueID, TeamID: id})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// ListMemberIDs returns team ids of a league ordered by id.
func (r *repository) ListMemberIDs(ctx context.Context, leagueID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).
		Model(&leagueModel.LeagueTeam{}).
		Where("league_id = ?", leagueID).
		Order("team_id ASC").
		Pluck("team_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListLeagueIDsForTeam returns the ids of all leagues the team belongs to.
func (r *repository) ListLeagueIDsForTeam(ctx context.Context, teamID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).
		Model(&leagueModel.LeagueTeam{}).
		Where("team_id = ?", teamID).
		Order("league_id ASC").
		Pluck("league_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListTournamentTeamIDs returns the distinct team ids of a tournament's leagues.
func (r *repository) ListTournamentTeamIDs(ctx context.Context, tournamentID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).
		Model(&leagueModel.LeagueTeam{}).
		Distinct("league_teams.team_id").
		Joins("JOIN leagues ON leagues.id = league_teams.league_id").
		Where("leagues.tournament_id = ?", tournamentID).
		Order("league_teams.team_id ASC").
		Pluck("league_teams.team_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
