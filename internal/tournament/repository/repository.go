// Package repository provides data access for tournaments, groups and
// knockout brackets.
package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/festy23/league_engine/internal/database/database"
	"github.com/festy23/league_engine/internal/domain"
	tournamentModel "github.com/festy23/league_engine/internal/tournament/model"
)

// Repository defines the interface for tournament data access.
type Repository interface {
	// CreateTournament inserts a tournament.
	CreateTournament(ctx context.Context, t *tournamentModel.Tournament) error

	// GetTournament finds a tournament by id.
	GetTournament(ctx context.Context, id uint) (*tournamentModel.Tournament, error)

	// GetTournamentForUpdate finds a tournament and locks it where supported,
	// serializing generators of the same tournament.
	GetTournamentForUpdate(ctx context.Context, id uint) (*tournamentModel.Tournament, error)

	// UpdateGroupShape stores the resolved group count and size.
	UpdateGroupShape(ctx context.Context, id uint, groupCount, teamsPerGroup int) error

	// ListGroups returns the groups of a tournament in group order.
	ListGroups(ctx context.Context, tournamentID uint) ([]tournamentModel.Group, error)

	// GetGroup finds a group by id.
	GetGroup(ctx context.Context, id uint) (*tournamentModel.Group, error)

	// CreateGroup inserts a group.
	CreateGroup(ctx context.Context, group *tournamentModel.Group) error

	// DeleteGroups removes all groups of a tournament with their rosters and
	// match links.
	DeleteGroups(ctx context.Context, tournamentID uint) error

	// ListGroupTeams returns the rosters of all groups of a tournament,
	// ordered by group and position.
	ListGroupTeams(ctx context.Context, tournamentID uint) ([]tournamentModel.GroupTeam, error)

	// ReplaceGroupTeams replaces the roster of a group.
	ReplaceGroupTeams(ctx context.Context, group *tournamentModel.Group, teamIDs []uint) error

	// ListGroupMatches returns the match links of all groups of a tournament
	// in schedule order.
	ListGroupMatches(ctx context.Context, tournamentID uint) ([]tournamentModel.GroupMatch, error)

	// CreateGroupMatch inserts a group match link.
	CreateGroupMatch(ctx context.Context, link *tournamentModel.GroupMatch) error

	// ListKnockoutMatches returns the bracket of a tournament ordered by
	// round and order.
	ListKnockoutMatches(ctx context.Context, tournamentID uint) ([]tournamentModel.KnockoutMatch, error)

	// ListKnockoutRound returns the slots of one knockout phase in order.
	ListKnockoutRound(
		ctx context.Context,
		tournamentID uint,
		round domain.KnockoutRound,
	) ([]tournamentModel.KnockoutMatch, error)

	// GetKnockoutByMatchID returns the bracket slot of a match, or nil when
	// the match is not part of a bracket.
	GetKnockoutByMatchID(ctx context.Context, matchID uint) (*tournamentModel.KnockoutMatch, error)

	// CreateKnockoutMatch inserts a bracket slot.
	CreateKnockoutMatch(ctx context.Context, slot *tournamentModel.KnockoutMatch) error

	// GetKnockoutConfig returns the knockout config, or nil when none is set.
	GetKnockoutConfig(ctx context.Context, tournamentID uint) (*tournamentModel.KnockoutConfig, error)

	// SaveKnockoutConfig inserts or replaces the knockout config.
	SaveKnockoutConfig(ctx context.Context, cfg *tournamentModel.KnockoutConfig) error
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new tournament repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// CreateTournament inserts a tournament.
func (r *repository) CreateTournament(ctx context.Context, t *tournamentModel.Tournament) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// GetTournament finds a tournament by id.
func (r *repository) GetTournament(ctx context.Context, id uint) (*tournamentModel.Tournament, error) {
	return firstTournament(r.db.WithContext(ctx), id)
}

// GetTournamentForUpdate finds a tournament by id with a row lock.
func (r *repository) GetTournamentForUpdate(ctx context.Context, id uint) (*tournamentModel.Tournament, error) {
	return firstTournament(database.ForUpdate(r.db.WithContext(ctx)), id)
}

func firstTournament(db *gorm.DB, id uint) (*tournamentModel.Tournament, error) {
	var t tournamentModel.Tournament
	if err := db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tournamentModel.ErrTournamentNotFound
		}
		return nil, err
	}
	return &t, nil
}

// UpdateGroupShape stores group count and size.
func (r *repository) UpdateGroupShape(ctx context.Context, id uint, groupCount, teamsPerGroup int) error {
	return r.db.WithContext(ctx).
		Model(&tournamentModel.Tournament{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"group_count":     groupCount,
			"teams_per_group": teamsPerGroup,
		}).Error
}

// ListGroups returns groups in order.
func (r *repository) ListGroups(ctx context.Context, tournamentID uint) ([]tournamentModel.Group, error) {
	groups := []tournamentModel.Group{}
	err := r.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("group_order ASC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// GetGroup finds a group by id.
func (r *repository) GetGroup(ctx context.Context, id uint) (*tournamentModel.Group, error) {
	var group tournamentModel.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tournamentModel.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

// CreateGroup inserts a group.
func (r *repository) CreateGroup(ctx context.Context, group *tournamentModel.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// DeleteGroups removes the groups of a tournament.
func (r *repository) DeleteGroups(ctx context.Context, tournamentID uint) error {
	db := r.db.WithContext(ctx)
	groupIDs := r.db.Model(&tournamentModel.Group{}).Select("id").Where("tournament_id = ?", tournamentID)

	if err := db.Where("group_id IN (?)", groupIDs).Delete(&tournamentModel.GroupMatch{}).Error; err != nil {
		return err
	}
	if err := db.Where("tournament_id = ?", tournamentID).Delete(&tournamentModel.GroupTeam{}).Error; err != nil {
		return err
	}
	return db.Where("tournament_id = ?", tournamentID).Delete(&tournamentModel.Group{}).Error
}

// ListGroupTeams returns rosters of a tournament.
func (r *repository) ListGroupTeams(ctx context.Context, tournamentID uint) ([]tournamentModel.GroupTeam, error) {
	rows := []tournamentModel.GroupTeam{}
	err := r.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("group_id ASC, position ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceGroupTeams replaces the roster of a group.
func (r *repository) ReplaceGroupTeams(ctx context.Context, group *tournamentModel.Group, teamIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("group_id = ?", group.ID).Delete(&tournamentModel.GroupTeam{}).Error; err != nil {
		return err
	}
	if len(teamIDs) == 0 {
		return nil
	}
	rows := make([]tournamentModel.GroupTeam, 0, len(teamIDs))
	for i, id := range teamIDs {
		rows = append(rows, tournamentModel.GroupTeam{
			TournamentID: group.TournamentID,
			GroupID:      group.ID,
			TeamID:       id,
			Position:     i + 1,
		})
	}
	return db.Create(&rows).Error
}

// ListGroupMatches returns group match links in schedule order.
func (r *repository) ListGroupMatches(ctx context.Context, tournamentID uint) ([]tournamentModel.GroupMatch, error) {
	groupIDs := r.db.Model(&tournamentModel.Group{}).Select("id").Where("tournament_id = ?", tournamentID)

	links := []tournamentModel.GroupMatch{}
	err := r.db.WithContext(ctx).
		Where("group_id IN (?)", groupIDs).
		Order("match_order ASC, id ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// CreateGroupMatch inserts a group match link.
func (r *repository) CreateGroupMatch(ctx context.Context, link *tournamentModel.GroupMatch) error {
	return r.db.WithContext(ctx).Create(link).Error
}

// ListKnockoutMatches returns all bracket slots of a tournament.
func (r *repository) ListKnockoutMatches(
	ctx context.Context,
	tournamentID uint,
) ([]tournamentModel.KnockoutMatch, error) {
	slots := []tournamentModel.KnockoutMatch{}
	err := r.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("round ASC, match_order ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// ListKnockoutRound returns the slots of one phase.
func (r *repository) ListKnockoutRound(
	ctx context.Context,
	tournamentID uint,
	round domain.KnockoutRound,
) ([]tournamentModel.KnockoutMatch, error) {
	slots := []tournamentModel.KnockoutMatch{}
	err := r.db.WithContext(ctx).
		Where("tournament_id = ? AND round = ?", tournamentID, round).
		Order("match_order ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// GetKnockoutByMatchID returns the bracket slot of a match.
func (r *repository) GetKnockoutByMatchID(ctx context.Context, matchID uint) (*tournamentModel.KnockoutMatch, error) {
	var slot tournamentModel.KnockoutMatch
	err := r.db.WithContext(ctx).Where("match_id = ?", matchID).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

// CreateKnockoutMatch inserts a bracket slot.
func (r *repository) CreateKnockoutMatch(ctx context.Context, slot *tournamentModel.KnockoutMatch) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

// GetKnockoutConfig returns the knockout config of a tournament.
func (r *repository) GetKnockoutConfig(
	ctx context.Context,
	tournamentID uint,
) (*tournamentModel.KnockoutConfig, error) {
	var cfg tournamentModel.KnockoutConfig
	err := r.db.WithContext(ctx).Where("tournament_id = ?", tournamentID).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

// SaveKnockoutConfig upserts the knockout config.
func (r *repository) SaveKnockoutConfig(ctx context.Context, cfg *tournamentModel.KnockoutConfig) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tournament_id"}},
			UpdateAll: true,
		}).
		Create(cfg).Error
}
