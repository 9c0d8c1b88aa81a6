// Package domain holds the closed enumerations shared by the engine modules
// and their textual encodings at the wire boundary.
package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownValue indicates that a textual encoding does not name any variant.
var ErrUnknownValue = errors.New("unknown enum value")

// normalize upper-cases s and folds spaces and dashes into underscores.
func normalize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func unknown(kind, value string) error {
	return fmt.Errorf("%w: %s %q", ErrUnknownValue, kind, value)
}

// MatchState is the lifecycle state of a ledger match.
type MatchState string

// Match states. Ordering is lexicographic on the encoding.
const (
	MatchStateFinished  MatchState = "FINISHED"
	MatchStateOngoing   MatchState = "ONGOING"
	MatchStateScheduled MatchState = "SCHEDULED"
)

// ParseMatchState decodes a match state.
func ParseMatchState(s string) (MatchState, error) {
	switch st := MatchState(normalize(s)); st {
	case MatchStateFinished, MatchStateOngoing, MatchStateScheduled:
		return st, nil
	}
	return "", unknown("match state", s)
}

// Less orders states by their encoded string.
func (s MatchState) Less(other MatchState) bool {
	return string(s) < string(other)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *MatchState) UnmarshalText(text []byte) error {
	v, err := ParseMatchState(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// CardType is a disciplinary card shown during a match.
type CardType string

// Card types.
const (
	CardYellow CardType = "YELLOW"
	CardRed    CardType = "RED"
)

// ParseCardType decodes a card type.
func ParseCardType(s string) (CardType, error) {
	switch c := CardType(normalize(s)); c {
	case CardYellow, CardRed:
		return c, nil
	}
	return "", unknown("card type", s)
}

// AttendanceStatus is a player's answer to a tournament or training invite.
type AttendanceStatus string

// Attendance statuses.
const (
	AttendanceUnknown      AttendanceStatus = "UNKNOWN"
	AttendanceAttending    AttendanceStatus = "ATTENDING"
	AttendanceNotAttending AttendanceStatus = "NOT_ATTENDING"
)

// ParseAttendanceStatus decodes an attendance status.
func ParseAttendanceStatus(s string) (AttendanceStatus, error) {
	switch a := AttendanceStatus(normalize(s)); a {
	case AttendanceUnknown, AttendanceAttending, AttendanceNotAttending:
		return a, nil
	}
	return "", unknown("attendance status", s)
}

// TournamentFormatType describes how a tournament is structured.
type TournamentFormatType string

// Tournament formats.
const (
	FormatLeague         TournamentFormatType = "LEAGUE"
	FormatGroups         TournamentFormatType = "GROUPS"
	FormatGroupsKnockout TournamentFormatType = "GROUPS_KNOCKOUT"
	FormatKnockout       TournamentFormatType = "KNOCKOUT"
)

// ParseTournamentFormatType decodes a format type. Lower case and
// space or dash separated forms are accepted.
func ParseTournamentFormatType(s string) (TournamentFormatType, error) {
	switch f := TournamentFormatType(normalize(s)); f {
	case FormatLeague, FormatGroups, FormatGroupsKnockout, FormatKnockout:
		return f, nil
	case "GROUPS_AND_KNOCKOUT", "GROUP_KNOCKOUT":
		return FormatGroupsKnockout, nil
	}
	return "", unknown("tournament format", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *TournamentFormatType) UnmarshalText(text []byte) error {
	v, err := ParseTournamentFormatType(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// PairingMode selects how a knockout phase pairs its participants.
type PairingMode string

// Pairing modes.
const (
	PairingCross  PairingMode = "CROSS"
	PairingSeeded PairingMode = "SEEDED"
	PairingRandom PairingMode = "RANDOM"
	PairingManual PairingMode = "MANUAL"
)

// ParsePairingMode decodes a pairing mode case-insensitively.
func ParsePairingMode(s string) (PairingMode, error) {
	switch m := PairingMode(normalize(s)); m {
	case PairingCross, PairingSeeded, PairingRandom, PairingManual:
		return m, nil
	}
	return "", unknown("pairing mode", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *PairingMode) UnmarshalText(text []byte) error {
	v, err := ParsePairingMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// KnockoutRound labels a knockout phase.
type KnockoutRound string

// Knockout rounds.
const (
	RoundOf16    KnockoutRound = "RO16"
	QuarterFinal KnockoutRound = "QF"
	SemiFinal    KnockoutRound = "SF"
	ThirdPlace   KnockoutRound = "3P"
	Final        KnockoutRound = "F"
)

// AllRounds lists the rounds in bracket order.
var AllRounds = []KnockoutRound{RoundOf16, QuarterFinal, SemiFinal, ThirdPlace, Final}

var legacyRounds = map[string]KnockoutRound{
	"ROUND_OF_16":   RoundOf16,
	"QUARTERFINAL":  QuarterFinal,
	"QUARTER_FINAL": QuarterFinal,
	"SEMIFINAL":     SemiFinal,
	"SEMI_FINAL":    SemiFinal,
	"THIRD_PLACE":   ThirdPlace,
	"FINAL":         Final,
}

// ParseKnockoutRound decodes a round label, mapping legacy labels such as
// "Quarterfinal" to their canonical form.
func ParseKnockoutRound(s string) (KnockoutRound, error) {
	n := normalize(s)
	switch r := KnockoutRound(n); r {
	case RoundOf16, QuarterFinal, SemiFinal, ThirdPlace, Final:
		return r, nil
	}
	if r, ok := legacyRounds[n]; ok {
		return r, nil
	}
	return "", unknown("knockout round", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *KnockoutRound) UnmarshalText(text []byte) error {
	v, err := ParseKnockoutRound(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Scan implements sql.Scanner. Rows stored with legacy labels read back in
// canonical form.
func (r *KnockoutRound) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*r = ""
		return nil
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	}
	return fmt.Errorf("knockout round: unsupported column type %T", value)
}

// Value implements driver.Valuer.
func (r KnockoutRound) Value() (driver.Value, error) {
	return string(r), nil
}

// Next returns the phase that follows r in the advancement chain
// RO16 -> QF -> SF -> F.
func (r KnockoutRound) Next() (KnockoutRound, bool) {
	switch r {
	case RoundOf16:
		return QuarterFinal, true
	case QuarterFinal:
		return SemiFinal, true
	case SemiFinal:
		return Final, true
	}
	return "", false
}

// MatchCount is the number of matches a full phase has.
func (r KnockoutRound) MatchCount() int {
	switch r {
	case RoundOf16:
		return 8
	case QuarterFinal:
		return 4
	case SemiFinal:
		return 2
	case ThirdPlace, Final:
		return 1
	}
	return 0
}

// InitialRound returns the first knockout phase for n participants.
func InitialRound(n int) (KnockoutRound, bool) {
	switch n {
	case 16:
		return RoundOf16, true
	case 8:
		return QuarterFinal, true
	case 4:
		return SemiFinal, true
	case 2:
		return Final, true
	}
	return "", false
}
