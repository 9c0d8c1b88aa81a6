package model

import "time"

// Team is a club taking part in leagues. Name is unique.
type Team struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(255);not null;uniqueIndex:teams_name_unique" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

// TableName specifies the table name for GORM.
func (Team) TableName() string {
	return "teams"
}

// League is a season context rankings are computed against.
type League struct {
	ID             uint      `gorm:"primaryKey;column:id" json:"id"`
	Name           string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Season         string    `gorm:"column:season;type:varchar(64);not null" json:"season"`
	RelevanceOrder int       `gorm:"column:relevance_order;not null" json:"relevanceOrder"`
	TournamentID   *uint     `gorm:"column:tournament_id;index" json:"tournamentId,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

// TableName specifies the table name for GORM.
func (League) TableName() string {
	return "leagues"
}

// LeagueTeam is a league membership.
type LeagueTeam struct {
	LeagueID uint `gorm:"primaryKey;column:league_id;autoIncrement:false"`
	TeamID   uint `gorm:"primaryKey;column:team_id;autoIncrement:false;index"`
}

// TableName specifies the table name for GORM.
func (LeagueTeam) TableName() string {
	return "league_teams"
}
