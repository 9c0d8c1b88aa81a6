package model

import "github.com/festy23/league_engine/internal/apperror"

var (
	// ErrTeamNotFound indicates that the requested team does not exist.
	ErrTeamNotFound = apperror.New(apperror.KindNotFound, "team not found")
	// ErrTeamExists indicates that a team with the given name already exists.
	ErrTeamExists = apperror.New(apperror.KindConflict, "team already exists", "name")
	// ErrInvalidTeamName indicates an empty or too long team name.
	ErrInvalidTeamName = apperror.New(apperror.KindValidation, "invalid team name", "name")
	// ErrLeagueNotFound indicates that the requested league does not exist.
	ErrLeagueNotFound = apperror.New(apperror.KindNotFound, "league not found")
	// ErrInvalidLeagueName indicates an empty or too long league name.
	ErrInvalidLeagueName = apperror.New(apperror.KindValidation, "invalid league name", "name")
	// ErrInvalidRelevanceOrder indicates a non-positive relevance order.
	ErrInvalidRelevanceOrder = apperror.New(apperror.KindValidation,
		"relevanceOrder must be positive", "relevanceOrder")
	// ErrTournamentNotFound indicates that the league references a missing tournament.
	ErrTournamentNotFound = apperror.New(apperror.KindNotFound, "tournament not found")
	// ErrEmptyTeamList indicates that no team ids were supplied.
	ErrEmptyTeamList = apperror.New(apperror.KindValidation, "teamIds cannot be empty", "teamIds")
	// ErrAmbiguousLeague indicates that two teams share more than one league.
	ErrAmbiguousLeague = apperror.New(apperror.KindAmbiguous,
		"teams share more than one league, leagueId is required", "leagueId")
	// ErrNoCommonLeague indicates that two teams share no league.
	ErrNoCommonLeague = apperror.New(apperror.KindNoCommonLeague, "teams share no league", "leagueId")
)
