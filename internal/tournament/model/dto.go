// Package model provides tournament models, requests and responses.
package model

import (
	"time"

	"github.com/festy23/league_engine/internal/bracket"
	"github.com/festy23/league_engine/internal/domain"
)

// CreateTournamentRequest represents the request to create a tournament.
// HasKnockout defaults from the format type when omitted.
type CreateTournamentRequest struct {
	Name          string                      `json:"name"          binding:"required"`
	FormatType    domain.TournamentFormatType `json:"formatType"    binding:"required"`
	GroupCount    *int                        `json:"groupCount"`
	TeamsPerGroup *int                        `json:"teamsPerGroup"`
	HasKnockout   *bool                       `json:"hasKnockout"`
}

// AutoAssignRequest configures automatic group assignment. Missing shape
// values fall back to the tournament's own.
type AutoAssignRequest struct {
	GroupCount      *int   `json:"groupCount"`
	TeamsPerGroup   *int   `json:"teamsPerGroup"`
	Shuffle         bool   `json:"shuffle"`
	Seed            *int64 `json:"seed"`
	ReplaceExisting bool   `json:"replaceExisting"`
}

// SetGroupTeamsRequest replaces the roster of a group.
type SetGroupTeamsRequest struct {
	TeamIDs []uint `json:"teamIds" binding:"required"`
}

// GenerateScheduleRequest configures round-robin generation.
type GenerateScheduleRequest struct {
	StartTimestamp   time.Time `json:"startTimestamp"   binding:"required"`
	IntervalMinutes  *int      `json:"intervalMinutes"`
	Randomize        bool      `json:"randomize"`
	Seed             *int64    `json:"seed"`
	AvoidConsecutive bool      `json:"avoidConsecutive"`
	LeagueID         *uint     `json:"leagueId"`
	ReplaceExisting  bool      `json:"replaceExisting"`
}

// KnockoutConfigRequest sets the knockout configuration of a tournament.
type KnockoutConfigRequest struct {
	QualifiersPerGroup int                 `json:"qualifiersPerGroup" binding:"required"`
	PairingMode        *domain.PairingMode `json:"pairingMode"`
	PairingConfig      PairingConfig       `json:"pairingConfig"`
	ManualPairsByPhase ManualPairsByPhase  `json:"manualPairsByPhase"`
	LeagueID           *uint               `json:"leagueId"`
	IntervalMinutes    *int                `json:"intervalMinutes"`
	RandomSeed         *int64              `json:"randomSeed"`
}

// GenerateKnockoutRequest configures generation of the first knockout phase.
// Interval and league default to the knockout configuration; when given they
// are stored in it and apply to every later phase.
type GenerateKnockoutRequest struct {
	StartTimestamp  time.Time `json:"startTimestamp"  binding:"required"`
	IntervalMinutes *int      `json:"intervalMinutes"`
	LeagueID        *uint     `json:"leagueId"`
	ReplaceExisting bool      `json:"replaceExisting"`
}

// GroupResponse is a group with its members in seating order.
type GroupResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Order   int    `json:"order"`
	TeamIDs []uint `json:"teamIds"`
}

// TournamentResponse is a tournament with its groups.
type TournamentResponse struct {
	ID            uint                        `json:"id"`
	Name          string                      `json:"name"`
	FormatType    domain.TournamentFormatType `json:"formatType"`
	GroupCount    *int                        `json:"groupCount"`
	TeamsPerGroup *int                        `json:"teamsPerGroup"`
	HasKnockout   bool                        `json:"hasKnockout"`
	Groups        []GroupResponse             `json:"groups"`
}

// NewTournamentResponse builds the response for a tournament.
func NewTournamentResponse(t *Tournament, groups []GroupResponse) *TournamentResponse {
	if groups == nil {
		groups = []GroupResponse{}
	}
	return &TournamentResponse{
		ID:            t.ID,
		Name:          t.Name,
		FormatType:    t.FormatType,
		GroupCount:    t.GroupCount,
		TeamsPerGroup: t.TeamsPerGroup,
		HasKnockout:   t.HasKnockout,
		Groups:        groups,
	}
}

// ScheduledMatch is a generated group match.
type ScheduledMatch struct {
	MatchID   uint      `json:"matchId"`
	GroupID   uint      `json:"groupId"`
	Round     int       `json:"round"`
	Order     int       `json:"order"`
	Team1ID   uint      `json:"team1Id"`
	Team2ID   uint      `json:"team2Id"`
	LeagueID  uint      `json:"leagueId"`
	Timestamp time.Time `json:"timestamp"`
}

// ScheduleResponse lists generated group matches in schedule order.
type ScheduleResponse struct {
	TournamentID uint             `json:"tournamentId"`
	Matches      []ScheduledMatch `json:"matches"`
}

// GroupStandings is the sorted table of one group.
type GroupStandings struct {
	GroupID  uint          `json:"groupId"`
	Name     string        `json:"name"`
	Complete bool          `json:"complete"`
	Rows     []bracket.Row `json:"rows"`
}

// StandingsResponse holds the tables of all groups in group order.
type StandingsResponse struct {
	TournamentID uint             `json:"tournamentId"`
	Groups       []GroupStandings `json:"groups"`
}

// BracketMatch is a knockout slot with its ledger state.
type BracketMatch struct {
	Order      int               `json:"order"`
	MatchID    uint              `json:"matchId"`
	Team1ID    uint              `json:"team1Id"`
	Team2ID    uint              `json:"team2Id"`
	LeagueID   uint              `json:"leagueId"`
	ScoreTeam1 *int              `json:"scoreTeam1"`
	ScoreTeam2 *int              `json:"scoreTeam2"`
	State      domain.MatchState `json:"state"`
	Timestamp  time.Time         `json:"timestamp"`
	WinnerID   *uint             `json:"winnerId,omitempty"`
}

// BracketRound is one knockout phase.
type BracketRound struct {
	Round   domain.KnockoutRound `json:"round"`
	Matches []BracketMatch       `json:"matches"`
}

// BracketResponse is the knockout bracket by phase.
type BracketResponse struct {
	TournamentID uint           `json:"tournamentId"`
	Rounds       []BracketRound `json:"rounds"`
}

// KnockoutConfigResponse is the stored knockout configuration.
type KnockoutConfigResponse struct {
	TournamentID       uint               `json:"tournamentId"`
	QualifiersPerGroup int                `json:"qualifiersPerGroup"`
	PairingMode        domain.PairingMode `json:"pairingMode"`
	PairingConfig      PairingConfig      `json:"pairingConfig"`
	ManualPairsByPhase ManualPairsByPhase `json:"manualPairsByPhase"`
	LeagueID           *uint              `json:"leagueId,omitempty"`
	IntervalMinutes    int                `json:"intervalMinutes"`
	RandomSeed         *int64             `json:"randomSeed,omitempty"`
}

// NewKnockoutConfigResponse builds the response for a knockout config.
func NewKnockoutConfigResponse(c *KnockoutConfig) *KnockoutConfigResponse {
	pairing := c.PairingConfig.Data()
	if pairing == nil {
		pairing = PairingConfig{}
	}
	manual := c.ManualPairsByPhase.Data()
	if manual == nil {
		manual = ManualPairsByPhase{}
	}
	return &KnockoutConfigResponse{
		TournamentID:       c.TournamentID,
		QualifiersPerGroup: c.QualifiersPerGroup,
		PairingMode:        c.PairingMode,
		PairingConfig:      pairing,
		ManualPairsByPhase: manual,
		LeagueID:           c.LeagueID,
		IntervalMinutes:    c.IntervalMinutes,
		RandomSeed:         c.RandomSeed,
	}
}

// OverviewResponse is a tournament with standings and bracket.
type OverviewResponse struct {
	TournamentResponse
	Standings []GroupStandings        `json:"standings"`
	Knockout  *KnockoutConfigResponse `json:"knockoutConfig,omitempty"`
	Bracket   []BracketRound          `json:"bracket"`
}
