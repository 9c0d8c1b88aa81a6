package model

import "github.com/festy23/league_engine/internal/apperror"

var (
	// ErrMatchNotFound indicates that the requested match does not exist.
	ErrMatchNotFound = apperror.New(apperror.KindNotFound, "match not found")
	// ErrTeamNotFound indicates that a referenced team does not exist.
	ErrTeamNotFound = apperror.New(apperror.KindNotFound, "team not found")
	// ErrSameTeam indicates a match of a team against itself.
	ErrSameTeam = apperror.New(apperror.KindValidation, "team1Id and team2Id must differ", "team1Id", "team2Id")
	// ErrInvalidTimestamp indicates a missing timestamp.
	ErrInvalidTimestamp = apperror.New(apperror.KindValidation, "timestamp is required", "timestamp")
	// ErrNegativeScore indicates a negative score.
	ErrNegativeScore = apperror.New(apperror.KindValidation, "scores cannot be negative", "scoreTeam1", "scoreTeam2")
	// ErrScoreMismatch indicates that the goal list disagrees with an explicit score.
	ErrScoreMismatch = apperror.New(apperror.KindValidation,
		"goal list does not match the score", "scoreTeam1", "scoreTeam2", "goals")
	// ErrGoalTeam indicates a goal credited to a team that does not play the match.
	ErrGoalTeam = apperror.New(apperror.KindValidation, "goal team does not play in this match", "goals")
	// ErrGoalMinute indicates a negative goal minute.
	ErrGoalMinute = apperror.New(apperror.KindValidation, "goal minute cannot be negative", "goals")
	// ErrAlreadyFinished indicates a transition out of the terminal state.
	ErrAlreadyFinished = apperror.New(apperror.KindAlreadyFinished, "match is already finished")
	// ErrDeleteFinished indicates an attempt to delete a finished match.
	ErrDeleteFinished = apperror.New(apperror.KindAlreadyFinished, "finished matches cannot be deleted")
)
