package model

import (
	"time"

	"github.com/festy23/league_engine/internal/domain"
)

// CompletedCondition is the SQL predicate for a completed match: finished,
// or still scheduled with both scores recorded.
const CompletedCondition = "(state = 'FINISHED' OR (state = 'SCHEDULED' AND score_team1 IS NOT NULL AND score_team2 IS NOT NULL))"

// Match is a row of the match ledger.
type Match struct {
	ID         uint              `gorm:"primaryKey;column:id"`
	Team1ID    uint              `gorm:"column:team1_id;not null;index"`
	Team2ID    uint              `gorm:"column:team2_id;not null;index"`
	LeagueID   uint              `gorm:"column:league_id;not null;index"`
	Timestamp  time.Time         `gorm:"column:timestamp;not null"`
	Location   string            `gorm:"column:location;type:varchar(255);not null"`
	ScoreTeam1 *int              `gorm:"column:score_team1"`
	ScoreTeam2 *int              `gorm:"column:score_team2"`
	State      domain.MatchState `gorm:"column:state;type:varchar(16);not null"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM.
func (Match) TableName() string {
	return "matches"
}

// IsCompleted reports whether the match counts towards standings and rankings.
func (m *Match) IsCompleted() bool {
	if m.State == domain.MatchStateFinished {
		return true
	}
	return m.State == domain.MatchStateScheduled && m.ScoreTeam1 != nil && m.ScoreTeam2 != nil
}

// Scores returns both scores, treating null as zero.
func (m *Match) Scores() (int, int) {
	var s1, s2 int
	if m.ScoreTeam1 != nil {
		s1 = *m.ScoreTeam1
	}
	if m.ScoreTeam2 != nil {
		s2 = *m.ScoreTeam2
	}
	return s1, s2
}

// HasTeam reports whether the team plays in the match.
func (m *Match) HasTeam(teamID uint) bool {
	return m.Team1ID == teamID || m.Team2ID == teamID
}

// Participants carries the display names the notification collaborator
// needs for a new match.
type Participants struct {
	Team1  string
	Team2  string
	League string
}

// CreatedPayload is the notification payload sent when the match is created.
func (m *Match) CreatedPayload(names Participants) map[string]any {
	return map[string]any{
		"matchId":   m.ID,
		"leagueId":  m.LeagueID,
		"league":    names.League,
		"team1Id":   m.Team1ID,
		"team1":     names.Team1,
		"team2Id":   m.Team2ID,
		"team2":     names.Team2,
		"timestamp": m.Timestamp.UTC(),
		"location":  m.Location,
	}
}

// Goal is a goal on a match sheet. Player names are snapshotted so the
// sheet survives player deletion.
type Goal struct {
	ID               uint    `gorm:"primaryKey;column:id"`
	MatchID          uint    `gorm:"column:match_id;not null;index"`
	TeamID           uint    `gorm:"column:team_id;not null"`
	PlayerID         uint    `gorm:"column:player_id;not null"`
	PlayerName       string  `gorm:"column:player_name;type:varchar(255);not null"`
	AssistPlayerID   *uint   `gorm:"column:assist_player_id"`
	AssistPlayerName *string `gorm:"column:assist_player_name;type:varchar(255)"`
	Minute           *int    `gorm:"column:minute"`
}

// TableName specifies the table name for GORM.
func (Goal) TableName() string {
	return "goals"
}
