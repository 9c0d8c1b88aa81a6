// Package model provides domain models and DTOs for the match ledger.
package model

import (
	"time"

	"github.com/festy23/league_engine/internal/domain"
)

// CreateMatchRequest represents the request to create a match.
// LeagueID is resolved from the teams' memberships when omitted.
type CreateMatchRequest struct {
	Team1ID   uint      `json:"team1Id"   binding:"required"`
	Team2ID   uint      `json:"team2Id"   binding:"required"`
	Timestamp time.Time `json:"timestamp" binding:"required"`
	LeagueID  *uint     `json:"leagueId"`
	Location  string    `json:"location"`
}

// GoalInput is a goal in an update request.
type GoalInput struct {
	TeamID           uint    `json:"teamId"           binding:"required"`
	PlayerID         uint    `json:"playerId"         binding:"required"`
	PlayerName       string  `json:"playerName"`
	AssistPlayerID   *uint   `json:"assistPlayerId"`
	AssistPlayerName *string `json:"assistPlayerName"`
	Minute           *int    `json:"minute"`
}

// UpdateMatchRequest is a partial update. Absent fields are left unchanged;
// a present goals list replaces the match sheet.
type UpdateMatchRequest struct {
	Timestamp  *time.Time         `json:"timestamp"`
	Location   *string            `json:"location"`
	ScoreTeam1 *int               `json:"scoreTeam1"`
	ScoreTeam2 *int               `json:"scoreTeam2"`
	State      *domain.MatchState `json:"state"`
	Goals      *[]GoalInput       `json:"goals"`
}

// GoalResponse is a goal in API responses.
type GoalResponse struct {
	ID               uint    `json:"id"`
	TeamID           uint    `json:"teamId"`
	PlayerID         uint    `json:"playerId"`
	PlayerName       string  `json:"playerName"`
	AssistPlayerID   *uint   `json:"assistPlayerId,omitempty"`
	AssistPlayerName *string `json:"assistPlayerName,omitempty"`
	Minute           *int    `json:"minute,omitempty"`
}

// MatchResponse is a match sheet in API responses.
type MatchResponse struct {
	ID         uint              `json:"id"`
	Team1ID    uint              `json:"team1Id"`
	Team2ID    uint              `json:"team2Id"`
	LeagueID   uint              `json:"leagueId"`
	Timestamp  time.Time         `json:"timestamp"`
	Location   string            `json:"location"`
	ScoreTeam1 *int              `json:"scoreTeam1"`
	ScoreTeam2 *int              `json:"scoreTeam2"`
	State      domain.MatchState `json:"state"`
	Completed  bool              `json:"completed"`
	Goals      []GoalResponse    `json:"goals"`
}

// NewMatchResponse builds the response for a match and its goals.
func NewMatchResponse(m *Match, goals []Goal) *MatchResponse {
	resp := &MatchResponse{
		ID:         m.ID,
		Team1ID:    m.Team1ID,
		Team2ID:    m.Team2ID,
		LeagueID:   m.LeagueID,
		Timestamp:  m.Timestamp.UTC(),
		Location:   m.Location,
		ScoreTeam1: m.ScoreTeam1,
		ScoreTeam2: m.ScoreTeam2,
		State:      m.State,
		Completed:  m.IsCompleted(),
		Goals:      make([]GoalResponse, 0, len(goals)),
	}
	for _, g := range goals {
		resp.Goals = append(resp.Goals, GoalResponse{
			ID:               g.ID,
			TeamID:           g.TeamID,
			PlayerID:         g.PlayerID,
			PlayerName:       g.PlayerName,
			AssistPlayerID:   g.AssistPlayerID,
			AssistPlayerName: g.AssistPlayerName,
			Minute:           g.Minute,
		})
	}
	return resp
}
