package service

import (
	"context"
	"fmt"
	"math/rand"

	"gorm.io/gorm"

	"github.com/festy23/league_engine/internal/bracket"
	leagueRepository "github.com/festy23/league_engine/internal/league/repository"
	tournamentModel "github.com/festy23/league_engine/internal/tournament/model"
	"github.com/festy23/league_engine/internal/tournament/repository"
)

// loadGroups returns the groups of a tournament and their rosters keyed by
// group id, each roster in seating order.
func loadGroups(
	ctx context.Context,
	repo repository.Repository,
	tournamentID uint,
) ([]tournamentModel.Group, map[uint][]uint, error) {
	groups, err := repo.ListGroups(ctx, tournamentID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := repo.ListGroupTeams(ctx, tournamentID)
	if err != nil {
		return nil, nil, err
	}
	rosters := make(map[uint][]uint, len(groups))
	for _, row := range rows {
		rosters[row.GroupID] = append(rosters[row.GroupID], row.TeamID)
	}
	return groups, rosters, nil
}

func groupResponse(group tournamentModel.Group, members []uint) tournamentModel.GroupResponse {
	if members == nil {
		members = []uint{}
	}
	return tournamentModel.GroupResponse{
		ID:      group.ID,
		Name:    group.Name,
		Order:   group.Order,
		TeamIDs: members,
	}
}

func groupResponses(
	ctx context.Context,
	repo repository.Repository,
	tournamentID uint,
) ([]tournamentModel.GroupResponse, error) {
	groups, rosters, err := loadGroups(ctx, repo, tournamentID)
	if err != nil {
		return nil, err
	}
	resp := make([]tournamentModel.GroupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, groupResponse(g, rosters[g.ID]))
	}
	return resp, nil
}

// AutoAssignGroups places the tournament teams round-robin into groups.
func (s *service) AutoAssignGroups(
	ctx context.Context,
	id uint,
	req *tournamentModel.AutoAssignRequest,
) (*tournamentModel.TournamentResponse, error) {
	if (req.GroupCount != nil && *req.GroupCount <= 0) || (req.TeamsPerGroup != nil && *req.TeamsPerGroup <= 0) {
		return nil, tournamentModel.ErrInvalidShape
	}

	var result *tournamentModel.TournamentResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)
		t, err := txRepo.GetTournamentForUpdate(ctx, id)
		if err != nil {
			return err
		}

		teamIDs, err := leagueRepository.New(tx, s.logger).ListTournamentTeamIDs(ctx, id)
		if err != nil {
			return err
		}
		if len(teamIDs) == 0 {
			return tournamentModel.ErrNoTeams
		}

		groupCount, teamsPerGroup := req.GroupCount, req.TeamsPerGroup
		if groupCount == nil && teamsPerGroup == nil {
			groupCount, teamsPerGroup = t.GroupCount, t.TeamsPerGroup
		}
		if groupCount == nil && teamsPerGroup == nil {
			return tournamentModel.ErrMissingShape
		}
		gc, tpg, err := bracket.ResolveGroupShape(len(teamIDs), intOrZero(groupCount), intOrZero(teamsPerGroup))
		if err != nil {
			return err
		}
		if gc*tpg < len(teamIDs) {
			return fmt.Errorf("%d groups of %d cannot seat %d teams: %w",
				gc, tpg, len(teamIDs), tournamentModel.ErrInvalidShape)
		}

		existing, err := txRepo.ListGroups(ctx, id)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			if !req.ReplaceExisting {
				return tournamentModel.ErrGroupsExist
			}
			if err := s.clearGroups(ctx, tx, id); err != nil {
				return err
			}
		}

		var rng *rand.Rand
		if req.Shuffle {
			rng = newRand(req.Seed)
		}
		assignment, err := bracket.AssignGroups(teamIDs, gc, rng)
		if err != nil {
			return err
		}

		groups := make([]tournamentModel.GroupResponse, 0, gc)
		for i, members := range assignment {
			group := &tournamentModel.Group{
				TournamentID: id,
				Name:         bracket.GroupName(i),
				Order:        i + 1,
			}
			if err := txRepo.CreateGroup(ctx, group); err != nil {
				return err
			}
			if err := txRepo.ReplaceGroupTeams(ctx, group, members); err != nil {
				return err
			}
			groups = append(groups, groupResponse(*group, members))
		}

		if err := txRepo.UpdateGroupShape(ctx, id, gc, tpg); err != nil {
			return err
		}
		t.GroupCount, t.TeamsPerGroup = &gc, &tpg

		result = tournamentModel.NewTournamentResponse(t, groups)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("groups assigned",
		"tournament_id", id,
		"group_count", *result.GroupCount,
		"teams_per_group", *result.TeamsPerGroup,
		"shuffle", req.Shuffle,
	)
	return result, nil
}

// clearGroups deletes the groups of a tournament together with their
// generated matches.
func (s *service) clearGroups(ctx context.Context, tx *gorm.DB, tournamentID uint) error {
	txRepo := repository.New(tx, s.logger)
	links, err := txRepo.ListGroupMatches(ctx, tournamentID)
	if err != nil {
		return err
	}
	if err := s.deleteMatches(ctx, tx, groupMatchIDs(links)); err != nil {
		return err
	}
	return txRepo.DeleteGroups(ctx, tournamentID)
}

// SetGroupTeams replaces the roster of a group.
func (s *service) SetGroupTeams(
	ctx context.Context,
	groupID uint,
	req *tournamentModel.SetGroupTeamsRequest,
) (*tournamentModel.GroupResponse, error) {
	teamIDs := dedupe(req.TeamIDs)

	var result tournamentModel.GroupResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)
		group, err := txRepo.GetGroup(ctx, groupID)
		if err != nil {
			return err
		}
		t, err := txRepo.GetTournamentForUpdate(ctx, group.TournamentID)
		if err != nil {
			return err
		}
		if t.TeamsPerGroup != nil && len(teamIDs) > *t.TeamsPerGroup {
			return fmt.Errorf("%d teams, at most %d: %w", len(teamIDs), *t.TeamsPerGroup, tournamentModel.ErrGroupTooLarge)
		}

		members, err := leagueRepository.New(tx, s.logger).ListTournamentTeamIDs(ctx, t.ID)
		if err != nil {
			return err
		}
		inTournament := make(map[uint]struct{}, len(members))
		for _, id := range members {
			inTournament[id] = struct{}{}
		}
		for _, id := range teamIDs {
			if _, ok := inTournament[id]; !ok {
				return fmt.Errorf("team %d: %w", id, tournamentModel.ErrTeamNotInTournament)
			}
		}

		seated, err := txRepo.ListGroupTeams(ctx, t.ID)
		if err != nil {
			return err
		}
		requested := make(map[uint]struct{}, len(teamIDs))
		for _, id := range teamIDs {
			requested[id] = struct{}{}
		}
		for _, row := range seated {
			if _, ok := requested[row.TeamID]; ok && row.GroupID != group.ID {
				return fmt.Errorf("team %d: %w", row.TeamID, tournamentModel.ErrTeamInOtherGroup)
			}
		}

		if err := txRepo.ReplaceGroupTeams(ctx, group, teamIDs); err != nil {
			return err
		}
		result = groupResponse(*group, teamIDs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("group roster replaced", "group_id", groupID, "teams", len(teamIDs))
	return &result, nil
}

func groupMatchIDs(links []tournamentModel.GroupMatch) []uint {
	ids := make([]uint, len(links))
	for i, link := range links {
		ids[i] = link.MatchID
	}
	return ids
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

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
