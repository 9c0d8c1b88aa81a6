package model

import (
	"time"

	"gorm.io/datatypes"

	"github.com/festy23/league_engine/internal/bracket"
	"github.com/festy23/league_engine/internal/domain"
)

// Tournament is a competition made of groups and an optional knockout bracket.
type Tournament struct {
	ID            uint                        `gorm:"primaryKey;column:id"`
	Name          string                      `gorm:"column:name;type:varchar(255);not null"`
	FormatType    domain.TournamentFormatType `gorm:"column:format_type;type:varchar(32);not null"`
	GroupCount    *int                        `gorm:"column:group_count"`
	TeamsPerGroup *int                        `gorm:"column:teams_per_group"`
	HasKnockout   bool                        `gorm:"column:has_knockout;not null"`
	CreatedAt     time.Time                   `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM.
func (Tournament) TableName() string {
	return "tournaments"
}

// Group is a round-robin group of a tournament.
type Group struct {
	ID           uint   `gorm:"primaryKey;column:id"`
	TournamentID uint   `gorm:"column:tournament_id;not null;uniqueIndex:tournament_groups_order_unique;uniqueIndex:tournament_groups_name_unique"`
	Name         string `gorm:"column:name;type:varchar(64);not null;uniqueIndex:tournament_groups_name_unique"`
	Order        int    `gorm:"column:group_order;not null;uniqueIndex:tournament_groups_order_unique"`
}

// TableName specifies the table name for GORM.
func (Group) TableName() string {
	return "tournament_groups"
}

// GroupTeam places a team into a group. A team is in at most one group per
// tournament.
type GroupTeam struct {
	ID           uint `gorm:"primaryKey;column:id"`
	TournamentID uint `gorm:"column:tournament_id;not null;uniqueIndex:tournament_group_teams_one_group"`
	GroupID      uint `gorm:"column:group_id;not null;uniqueIndex:tournament_group_teams_pair_unique"`
	TeamID       uint `gorm:"column:team_id;not null;uniqueIndex:tournament_group_teams_pair_unique;uniqueIndex:tournament_group_teams_one_group"`
	Position     int  `gorm:"column:position;not null"`
}

// TableName specifies the table name for GORM.
func (GroupTeam) TableName() string {
	return "tournament_group_teams"
}

// GroupMatch links a ledger match to its group round and schedule slot.
type GroupMatch struct {
	ID      uint `gorm:"primaryKey;column:id"`
	GroupID uint `gorm:"column:group_id;not null;index"`
	MatchID uint `gorm:"column:match_id;not null;uniqueIndex"`
	Round   int  `gorm:"column:round;not null"`
	Order   int  `gorm:"column:match_order;not null"`
}

// TableName specifies the table name for GORM.
func (GroupMatch) TableName() string {
	return "tournament_group_matches"
}

// KnockoutMatch links a ledger match to a bracket slot.
type KnockoutMatch struct {
	ID           uint                 `gorm:"primaryKey;column:id"`
	TournamentID uint                 `gorm:"column:tournament_id;not null;uniqueIndex:tournament_knockout_matches_slot_unique"`
	MatchID      uint                 `gorm:"column:match_id;not null;uniqueIndex"`
	Round        domain.KnockoutRound `gorm:"column:round;type:varchar(8);not null;uniqueIndex:tournament_knockout_matches_slot_unique"`
	Order        int                  `gorm:"column:match_order;not null;uniqueIndex:tournament_knockout_matches_slot_unique"`
}

// TableName specifies the table name for GORM.
func (KnockoutMatch) TableName() string {
	return "tournament_knockout_matches"
}

// PairingConfig overrides the pairing mode per knockout phase.
type PairingConfig map[domain.KnockoutRound]domain.PairingMode

// ManualPairsByPhase holds the ordered manual pairs of MANUAL phases.
type ManualPairsByPhase map[domain.KnockoutRound][]bracket.ManualPair

// KnockoutConfig drives knockout generation and advancement.
type KnockoutConfig struct {
	TournamentID       uint                                   `gorm:"primaryKey;column:tournament_id;autoIncrement:false"`
	QualifiersPerGroup int                                    `gorm:"column:qualifiers_per_group;not null"`
	PairingMode        domain.PairingMode                     `gorm:"column:pairing_mode;type:varchar(16);not null"`
	PairingConfig      datatypes.JSONType[PairingConfig]      `gorm:"column:pairing_config;not null"`
	ManualPairsByPhase datatypes.JSONType[ManualPairsByPhase] `gorm:"column:manual_pairs_by_phase;not null"`
	LeagueID           *uint                                  `gorm:"column:league_id"`
	IntervalMinutes    int                                    `gorm:"column:interval_minutes;not null"`
	RandomSeed         *int64                                 `gorm:"column:random_seed"`
	UpdatedAt          time.Time                              `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM.
func (KnockoutConfig) TableName() string {
	return "tournament_knockout_config"
}

// ModeFor returns the pairing mode of a phase: the per-phase override, then
// the default mode, then CROSS.
func (c *KnockoutConfig) ModeFor(round domain.KnockoutRound) domain.PairingMode {
	if c == nil {
		return domain.PairingCross
	}
	if mode, ok := c.PairingConfig.Data()[round]; ok && mode != "" {
		return mode
	}
	if c.PairingMode != "" {
		return c.PairingMode
	}
	return domain.PairingCross
}

// ManualPairs returns the manual pairs configured for a phase.
func (c *KnockoutConfig) ManualPairs(round domain.KnockoutRound) []bracket.ManualPair {
	if c == nil {
		return nil
	}
	return c.ManualPairsByPhase.Data()[round]
}
