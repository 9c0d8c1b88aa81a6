package bracket

import "github.com/festy23/league_engine/internal/apperror"

var (
	// ErrInvalidGroupCount indicates a non-positive group count or more groups than teams.
	ErrInvalidGroupCount = apperror.New(apperror.KindValidation, "invalid group count", "groupCount")
	// ErrInvalidQualifiers indicates a non-positive qualifiers per group value.
	ErrInvalidQualifiers = apperror.New(apperror.KindValidation, "qualifiersPerGroup must be positive", "qualifiersPerGroup")
	// ErrUnsupportedParticipantCount indicates that groupCount*qualifiersPerGroup is not 2, 4, 8 or 16.
	ErrUnsupportedParticipantCount = apperror.New(apperror.KindValidation,
		"knockout participant count must be one of 2, 4, 8, 16", "qualifiersPerGroup")
	// ErrCrossUnsupported indicates CROSS pairing with an odd group count or more than two qualifiers.
	ErrCrossUnsupported = apperror.New(apperror.KindValidation,
		"CROSS pairing requires an even group count and at most two qualifiers per group", "pairingConfig")
	// ErrGroupsIncomplete indicates that the pairing policy needs final standings.
	ErrGroupsIncomplete = apperror.New(apperror.KindConflict, "group standings are not complete")
	// ErrManualPairs indicates missing, malformed or out of range manual pairs.
	ErrManualPairs = apperror.New(apperror.KindValidation, "invalid manual pairs", "manualPairsByPhase")
	// ErrOddParticipants indicates a later phase with an odd number of participants.
	ErrOddParticipants = apperror.New(apperror.KindValidation, "knockout phase needs an even number of participants")
)
