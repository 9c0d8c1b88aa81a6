// Package repository provides data access for ranking rows.
package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/festy23/league_engine/internal/bracket"
	"github.com/festy23/league_engine/internal/database/database"
	matchModel "github.com/festy23/league_engine/internal/match/model"
	rankingModel "github.com/festy23/league_engine/internal/ranking/model"
)

// Repository defines the interface for ranking data access.
type Repository interface {
	// FindForUpdate returns the ranking row, locking it where supported.
	// It returns nil without error when the row does not exist.
	FindForUpdate(ctx context.Context, teamID, leagueID uint) (*rankingModel.Ranking, error)

	// CreateIfAbsent inserts an empty row unless one already exists.
	CreateIfAbsent(ctx context.Context, teamID, leagueID uint) error

	// Save persists all counters of the row.
	Save(ctx context.Context, ranking *rankingModel.Ranking) error

	// ListCompletedMatches returns the completed league matches of a team.
	ListCompletedMatches(ctx context.Context, teamID, leagueID uint) ([]matchModel.Match, error)

	// ListByLeague returns every ranking row of a league.
	ListByLeague(ctx context.Context, leagueID uint) ([]rankingModel.Ranking, error)

	// ListLeagueTeams returns league members and teams with a ranking row
	// in the league, ordered by id.
	ListLeagueTeams(ctx context.Context, leagueID uint) ([]bracket.TeamRef, error)

	// LeagueExists checks if a league exists.
	LeagueExists(ctx context.Context, leagueID uint) (bool, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new ranking repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// FindForUpdate returns the ranking row of a team in a league.
func (r *repository) FindForUpdate(ctx context.Context, teamID, leagueID uint) (*rankingModel.Ranking, error) {
	var ranking rankingModel.Ranking
	err := database.ForUpdate(r.db.WithContext(ctx)).
		Where("team_id = ? AND league_id = ?", teamID, leagueID).
		First(&ranking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ranking, nil
}

// CreateIfAbsent inserts a zeroed ranking row.
func (r *repository) CreateIfAbsent(ctx context.Context, teamID, leagueID uint) error {
	ranking := rankingModel.Ranking{TeamID: teamID, LeagueID: leagueID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}, {Name: "league_id"}},
			DoNothing: true,
		}).
		Create(&ranking).Error
}

// Save persists the ranking row.
func (r *repository) Save(ctx context.Context, ranking *rankingModel.Ranking) error {
	return r.db.WithContext(ctx).Save(ranking).Error
}

// ListCompletedMatches returns completed matches of the team in the league.
func (r *repository) ListCompletedMatches(ctx context.Context, teamID, leagueID uint) ([]matchModel.Match, error) {
	var matches []matchModel.Match
	err := r.db.WithContext(ctx).
		Where("league_id = ? AND (team1_id = ? OR team2_id = ?)", leagueID, teamID, teamID).
		Where(matchModel.CompletedCondition).
		Order("id").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// ListByLeague returns ranking rows of a league.
func (r *repository) ListByLeague(ctx context.Context, leagueID uint) ([]rankingModel.Ranking, error) {
	var rankings []rankingModel.Ranking
	err := r.db.WithContext(ctx).
		Where("league_id = ?", leagueID).
		Order("team_id").
		Find(&rankings).Error
	if err != nil {
		return nil, err
	}
	return rankings, nil
}

// ListLeagueTeams returns teams taking part in the league table.
func (r *repository) ListLeagueTeams(ctx context.Context, leagueID uint) ([]bracket.TeamRef, error) {
	members := r.db.Table("league_teams").Select("team_id").Where("league_id = ?", leagueID)
	ranked := r.db.Model(&rankingModel.Ranking{}).Select("team_id").Where("league_id = ?", leagueID)

	var teams []bracket.TeamRef
	err := r.db.WithContext(ctx).
		Table("teams").
		Select("id, name").
		Where("id IN (?) OR id IN (?)", members, ranked).
		Order("id").
		Scan(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// LeagueExists checks if a league exists.
func (r *repository) LeagueExists(ctx context.Context, leagueID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leagues").
		Where("id = ?", leagueID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
