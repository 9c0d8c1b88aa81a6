// Package service provides the ranking recomputer and league tables.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/league_engine/internal/bracket"
	"github.com/festy23/league_engine/internal/metrics"
	rankingModel "github.com/festy23/league_engine/internal/ranking/model"
	"github.com/festy23/league_engine/internal/ranking/repository"
)

// Service defines the interface for ranking operations.
type Service interface {
	// Recompute rebuilds the ranking row of a team in a league from the
	// completed matches of the ledger. It runs on tx so that it commits
	// together with the ledger write that triggered it.
	Recompute(ctx context.Context, tx *gorm.DB, teamID, leagueID uint) (*rankingModel.Ranking, error)

	// RebuildLeague recomputes every team of a league and returns the table.
	RebuildLeague(ctx context.Context, leagueID uint) (*rankingModel.TableResponse, error)

	// GetTable returns the sorted ranking table of a league.
	GetTable(ctx context.Context, leagueID uint) (*rankingModel.TableResponse, error)
}

type service struct {
	repo   repository.Repository
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new ranking service instance.
func New(repo repository.Repository, db *gorm.DB, logger *zap.SugaredLogger) Service {
	return &service{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// Recompute rebuilds a single ranking row.
func (s *service) Recompute(ctx context.Context, tx *gorm.DB, teamID, leagueID uint) (*rankingModel.Ranking, error) {
	if tx == nil {
		tx = s.db
	}
	repo := repository.New(tx, s.logger)

	ranking, err := repo.FindForUpdate(ctx, teamID, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ranking: %w", err)
	}

	matches, err := repo.ListCompletedMatches(ctx, teamID, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed matches: %w", err)
	}

	var acc bracket.Row
	for i := range matches {
		s1, s2 := matches[i].Scores()
		if matches[i].Team1ID == teamID {
			acc.Apply(s1, s2)
		} else {
			acc.Apply(s2, s1)
		}
	}

	metrics.RankingRecomputes.Inc()

	if ranking == nil {
		if len(matches) == 0 {
			return &rankingModel.Ranking{TeamID: teamID, LeagueID: leagueID}, nil
		}
		if err := repo.CreateIfAbsent(ctx, teamID, leagueID); err != nil {
			return nil, fmt.Errorf("failed to create ranking: %w", err)
		}
		if ranking, err = repo.FindForUpdate(ctx, teamID, leagueID); err != nil {
			return nil, fmt.Errorf("failed to load ranking: %w", err)
		}
		if ranking == nil {
			return nil, fmt.Errorf("ranking for team %d in league %d vanished after insert", teamID, leagueID)
		}
	}

	ranking.SetFrom(acc)
	if err := repo.Save(ctx, ranking); err != nil {
		return nil, fmt.Errorf("failed to save ranking: %w", err)
	}

	s.logger.Debugw("ranking recomputed",
		"team_id", teamID,
		"league_id", leagueID,
		"played", ranking.GamesPlayed,
		"points", ranking.Points,
	)
	return ranking, nil
}

// RebuildLeague recomputes all ranking rows of a league in one transaction.
func (s *service) RebuildLeague(ctx context.Context, leagueID uint) (*rankingModel.TableResponse, error) {
	var table *rankingModel.TableResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)
		teams, err := s.leagueTeams(ctx, txRepo, leagueID)
		if err != nil {
			return err
		}
		for _, team := range teams {
			if _, err := s.Recompute(ctx, tx, team.ID, leagueID); err != nil {
				return err
			}
		}
		table, err = buildTable(ctx, txRepo, leagueID, teams)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("league ranking rebuilt", "league_id", leagueID, "teams", len(table.Rows))
	return table, nil
}

// GetTable returns the league table.
func (s *service) GetTable(ctx context.Context, leagueID uint) (*rankingModel.TableResponse, error) {
	teams, err := s.leagueTeams(ctx, s.repo, leagueID)
	if err != nil {
		return nil, err
	}
	return buildTable(ctx, s.repo, leagueID, teams)
}

func (s *service) leagueTeams(ctx context.Context, repo repository.Repository, leagueID uint) ([]bracket.TeamRef, error) {
	exists, err := repo.LeagueExists(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to check league: %w", err)
	}
	if !exists {
		return nil, rankingModel.ErrLeagueNotFound
	}
	teams, err := repo.ListLeagueTeams(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list league teams: %w", err)
	}
	return teams, nil
}

// buildTable merges stored rows with league members; members without a row
// get an empty line.
func buildTable(
	ctx context.Context,
	repo repository.Repository,
	leagueID uint,
	teams []bracket.TeamRef,
) (*rankingModel.TableResponse, error) {
	rankings, err := repo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rankings: %w", err)
	}
	byTeam := make(map[uint]*rankingModel.Ranking, len(rankings))
	for i := range rankings {
		byTeam[rankings[i].TeamID] = &rankings[i]
	}

	rows := make([]bracket.Row, 0, len(teams))
	for _, team := range teams {
		if ranking, ok := byTeam[team.ID]; ok {
			rows = append(rows, ranking.Row(team.Name))
			continue
		}
		rows = append(rows, bracket.Row{TeamID: team.ID, TeamName: team.Name})
	}
	bracket.SortRows(rows)

	return &rankingModel.TableResponse{LeagueID: leagueID, Rows: rows}, nil
}
