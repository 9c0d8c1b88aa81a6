// Package repository provides data access for the match ledger.
package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/league_engine/internal/database/database"
	matchModel "github.com/festy23/league_engine/internal/match/model"
)

// Repository defines the interface for match ledger data access.
type Repository interface {
	// Create inserts a match.
	Create(ctx context.Context, match *matchModel.Match) error

	// GetByID finds a match by id.
	GetByID(ctx context.Context, id uint) (*matchModel.Match, error)

	// GetForUpdate finds a match by id and locks it where supported.
	GetForUpdate(ctx context.Context, id uint) (*matchModel.Match, error)

	// Save persists every column of the match.
	Save(ctx context.Context, match *matchModel.Match) error

	// ListGoals returns the goals of a match in insertion order.
	ListGoals(ctx context.Context, matchID uint) ([]matchModel.Goal, error)

	// ReplaceGoals replaces the goal list of a match.
	ReplaceGoals(ctx context.Context, matchID uint, goals []matchModel.Goal) error

	// Participants returns the team and league names of a match.
	Participants(ctx context.Context, match *matchModel.Match) (matchModel.Participants, error)

	// ListByIDs returns the matches with the given ids ordered by id.
	ListByIDs(ctx context.Context, ids []uint) ([]matchModel.Match, error)

	// DeleteCascade removes matches together with their goals and any
	// group or knockout back-references.
	DeleteCascade(ctx context.Context, ids []uint) error
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new match repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a match.
func (r *repository) Create(ctx context.Context, match *matchModel.Match) error {
	return r.db.WithContext(ctx).Create(match).Error
}

// GetByID finds a match by id.
func (r *repository) GetByID(ctx context.Context, id uint) (*matchModel.Match, error) {
	return r.first(r.db.WithContext(ctx), id)
}

// GetForUpdate finds a match by id with a row lock.
func (r *repository) GetForUpdate(ctx context.Context, id uint) (*matchModel.Match, error) {
	return r.first(database.ForUpdate(r.db.WithContext(ctx)), id)
}

func (r *repository) first(db *gorm.DB, id uint) (*matchModel.Match, error) {
	var match matchModel.Match
	if err := db.First(&match, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, matchModel.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

// Save persists the match.
func (r *repository) Save(ctx context.Context, match *matchModel.Match) error {
	return r.db.WithContext(ctx).Save(match).Error
}

// ListGoals returns the goals of a match.
func (r *repository) ListGoals(ctx context.Context, matchID uint) ([]matchModel.Goal, error) {
	goals := []matchModel.Goal{}
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("id ASC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

// ReplaceGoals deletes the current goals and inserts the new list.
func (r *repository) ReplaceGoals(ctx context.Context, matchID uint, goals []matchModel.Goal) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("match_id = ?", matchID).Delete(&matchModel.Goal{}).Error; err != nil {
		return err
	}
	if len(goals) == 0 {
		return nil
	}
	for i := range goals {
		goals[i].ID = 0
		goals[i].MatchID = matchID
	}
	return db.Create(&goals).Error
}

// ListByIDs returns matches by id.
func (r *repository) ListByIDs(ctx context.Context, ids []uint) ([]matchModel.Match, error) {
	matches := []matchModel.Match{}
	if len(ids) == 0 {
		return matches, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// Participants returns the team and league names of a match.
func (r *repository) Participants(ctx context.Context, match *matchModel.Match) (matchModel.Participants, error) {
	var teams []struct {
		ID   uint
		Name string
	}
	err := r.db.WithContext(ctx).
		Table("teams").
		Select("id, name").
		Where("id IN ?", []uint{match.Team1ID, match.Team2ID}).
		Scan(&teams).Error
	if err != nil {
		return matchModel.Participants{}, err
	}

	var leagues []string
	err = r.db.WithContext(ctx).
		Table("leagues").
		Where("id = ?", match.LeagueID).
		Pluck("name", &leagues).Error
	if err != nil {
		return matchModel.Participants{}, err
	}

	var names matchModel.Participants
	for _, t := range teams {
		switch t.ID {
		case match.Team1ID:
			names.Team1 = t.Name
		case match.Team2ID:
			names.Team2 = t.Name
		}
	}
	if len(leagues) > 0 {
		names.League = leagues[0]
	}
	return names, nil
}

// DeleteCascade removes matches and everything that points at them.
func (r *repository) DeleteCascade(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	db := r.db.WithContext(ctx)
	if err := db.Where("match_id IN ?", ids).Delete(&matchModel.Goal{}).Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM tournament_group_matches WHERE match_id IN ?", ids).Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM tournament_knockout_matches WHERE match_id IN ?", ids).Error; err != nil {
		return err
	}
	if err := db.Where("id IN ?", ids).Delete(&matchModel.Match{}).Error; err != nil {
		return err
	}

	r.logger.Debugw("matches deleted", "count", len(ids))
	return nil
}
