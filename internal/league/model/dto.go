// Package model provides domain models and DTOs for the league module.
package model

// CreateTeamRequest represents the request to create a team.
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateLeagueRequest represents the request to create a league.
// RelevanceOrder is assigned automatically when omitted.
type CreateLeagueRequest struct {
	Name           string `json:"name"           binding:"required"`
	Season         string `json:"season"`
	RelevanceOrder *int   `json:"relevanceOrder"`
	TournamentID   *uint  `json:"tournamentId"`
}

// AddTeamsRequest represents the request to add teams to a league.
type AddTeamsRequest struct {
	TeamIDs []uint `json:"teamIds" binding:"required"`
}

// LeagueResponse represents a league with its member team ids.
type LeagueResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Season         string `json:"season"`
	RelevanceOrder int    `json:"relevanceOrder"`
	TournamentID   *uint  `json:"tournamentId,omitempty"`
	TeamIDs        []uint `json:"teamIds"`
}

// NewLeagueResponse builds the response for a league and its members.
func NewLeagueResponse(l *League, teamIDs []uint) *LeagueResponse {
	if teamIDs == nil {
		teamIDs = []uint{}
	}
	return &LeagueResponse{
		ID:             l.ID,
		Name:           l.Name,
		Season:         l.Season,
		RelevanceOrder: l.RelevanceOrder,
		TournamentID:   l.TournamentID,
		TeamIDs:        teamIDs,
	}
}
