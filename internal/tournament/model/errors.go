package model

import "github.com/festy23/league_engine/internal/apperror"

var (
	// ErrTournamentNotFound indicates that the requested tournament does not exist.
	ErrTournamentNotFound = apperror.New(apperror.KindNotFound, "tournament not found")
	// ErrGroupNotFound indicates that the requested group does not exist.
	ErrGroupNotFound = apperror.New(apperror.KindNotFound, "group not found")
	// ErrKnockoutConfigNotFound indicates that the tournament has no knockout config.
	ErrKnockoutConfigNotFound = apperror.New(apperror.KindNotFound, "knockout config not found")
	// ErrInvalidName indicates an empty or too long tournament name.
	ErrInvalidName = apperror.New(apperror.KindValidation, "tournament name is invalid", "name")
	// ErrInvalidShape indicates a non-positive group count or group size.
	ErrInvalidShape = apperror.New(apperror.KindValidation,
		"groupCount and teamsPerGroup must be positive", "groupCount", "teamsPerGroup")
	// ErrMissingShape indicates that neither group count nor group size is known.
	ErrMissingShape = apperror.New(apperror.KindValidation,
		"groupCount or teamsPerGroup is required", "groupCount", "teamsPerGroup")
	// ErrNoTeams indicates a tournament whose leagues have no teams.
	ErrNoTeams = apperror.New(apperror.KindValidation, "tournament has no teams")
	// ErrTeamNotInTournament indicates a team outside the tournament's leagues.
	ErrTeamNotInTournament = apperror.New(apperror.KindValidation,
		"team does not belong to the tournament", "teamIds")
	// ErrTeamInOtherGroup indicates a team already seated in another group.
	ErrTeamInOtherGroup = apperror.New(apperror.KindConflict,
		"team is already in another group of the tournament", "teamIds")
	// ErrGroupTooLarge indicates more teams than teamsPerGroup.
	ErrGroupTooLarge = apperror.New(apperror.KindValidation, "too many teams for the group", "teamIds")
	// ErrGroupsExist indicates generation on top of existing groups.
	ErrGroupsExist = apperror.New(apperror.KindConflict, "groups already exist", "replaceExisting")
	// ErrScheduleExists indicates generation on top of an existing schedule.
	ErrScheduleExists = apperror.New(apperror.KindConflict, "group schedule already exists", "replaceExisting")
	// ErrGroupsNotReady indicates missing groups or groups without their full roster.
	ErrGroupsNotReady = apperror.New(apperror.KindConflict, "groups are not fully assigned")
	// ErrNegativeInterval indicates a negative interval between matches.
	ErrNegativeInterval = apperror.New(apperror.KindValidation,
		"intervalMinutes cannot be negative", "intervalMinutes")
	// ErrInvalidStart indicates a missing start timestamp.
	ErrInvalidStart = apperror.New(apperror.KindValidation, "startTimestamp is required", "startTimestamp")
)
