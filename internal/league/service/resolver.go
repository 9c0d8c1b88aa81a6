package service

import (
	"context"
	"fmt"
	"sort"

	leagueModel "github.com/festy23/league_engine/internal/league/model"
	"github.com/festy23/league_engine/internal/league/repository"
)

// Resolver picks the league a match between two teams belongs to. It caches
// team memberships for the lifetime of one operation and must not be reused
// across operations.
type Resolver struct {
	repo        repository.Repository
	memberships map[uint]map[uint]struct{}
}

// NewResolver creates a resolver reading memberships through repo.
func NewResolver(repo repository.Repository) *Resolver {
	return &Resolver{
		repo:        repo,
		memberships: make(map[uint]map[uint]struct{}),
	}
}

// LeaguesOf returns the set of league ids the team belongs to.
func (r *Resolver) LeaguesOf(ctx context.Context, teamID uint) (map[uint]struct{}, error) {
	if leagues, ok := r.memberships[teamID]; ok {
		return leagues, nil
	}
	ids, err := r.repo.ListLeagueIDsForTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	leagues := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		leagues[id] = struct{}{}
	}
	r.memberships[teamID] = leagues
	return leagues, nil
}

// Resolve returns the explicit league when both teams are members of it,
// otherwise the single league both teams share.
func (r *Resolver) Resolve(ctx context.Context, team1, team2 uint, explicit *uint) (uint, error) {
	leagues1, err := r.LeaguesOf(ctx, team1)
	if err != nil {
		return 0, err
	}
	leagues2, err := r.LeaguesOf(ctx, team2)
	if err != nil {
		return 0, err
	}

	if explicit != nil {
		_, in1 := leagues1[*explicit]
		_, in2 := leagues2[*explicit]
		if in1 && in2 {
			return *explicit, nil
		}
	}

	common := make([]uint, 0, 1)
	for id := range leagues1 {
		if _, ok := leagues2[id]; ok {
			common = append(common, id)
		}
	}
	sort.Slice(common, func(i, j int) bool { return common[i] < common[j] })

	switch len(common) {
	case 0:
		return 0, fmt.Errorf("teams %d and %d: %w", team1, team2, leagueModel.ErrNoCommonLeague)
	case 1:
		return common[0], nil
	}
	return 0, fmt.Errorf("teams %d and %d share leagues %v: %w", team1, team2, common, leagueModel.ErrAmbiguousLeague)
}
