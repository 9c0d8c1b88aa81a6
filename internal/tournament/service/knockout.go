package service

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/festy23/league_engine/internal/bracket"
	"github.com/festy23/league_engine/internal/domain"
	"github.com/festy23/league_engine/internal/events"
	leagueRepository "github.com/festy23/league_engine/internal/league/repository"
	matchModel "github.com/festy23/league_engine/internal/match/model"
	matchRepository "github.com/festy23/league_engine/internal/match/repository"
	"github.com/festy23/league_engine/internal/metrics"
	tournamentModel "github.com/festy23/league_engine/internal/tournament/model"
	"github.com/festy23/league_engine/internal/tournament/repository"
)

// SetKnockoutConfig validates and stores the knockout configuration.
func (s *service) SetKnockoutConfig(
	ctx context.Context,
	id uint,
	req *tournamentModel.KnockoutConfigRequest,
) (*tournamentModel.KnockoutConfigResponse, error) {
	if req.QualifiersPerGroup <= 0 {
		return nil, bracket.ErrInvalidQualifiers
	}
	interval := s.defaultInterval
	if req.IntervalMinutes != nil {
		interval = *req.IntervalMinutes
	}
	if interval < 0 {
		return nil, tournamentModel.ErrNegativeInterval
	}
	mode := domain.PairingCross
	if req.PairingMode != nil {
		mode = *req.PairingMode
	}

	cfg := &tournamentModel.KnockoutConfig{
		TournamentID:       id,
		QualifiersPerGroup: req.QualifiersPerGroup,
		PairingMode:        mode,
		PairingConfig:      datatypes.NewJSONType(req.PairingConfig),
		ManualPairsByPhase: datatypes.NewJSONType(req.ManualPairsByPhase),
		LeagueID:           req.LeagueID,
		IntervalMinutes:    interval,
		RandomSeed:         req.RandomSeed,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)
		t, err := txRepo.GetTournamentForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if cfg.LeagueID != nil {
			if _, err := leagueRepository.New(tx, s.logger).GetLeague(ctx, *cfg.LeagueID); err != nil {
				return err
			}
		}
		if err := validateKnockoutConfig(cfg, t.GroupCount); err != nil {
			return err
		}
		return txRepo.SaveKnockoutConfig(ctx, cfg)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("knockout config saved",
		"tournament_id", id,
		"qualifiers_per_group", cfg.QualifiersPerGroup,
		"pairing_mode", cfg.PairingMode,
	)
	return tournamentModel.NewKnockoutConfigResponse(cfg), nil
}

// validateKnockoutConfig checks the participant count and the pairing
// policies of the phases that will be played. Without a known group count
// only the shape of the manual pairs is checked.
func validateKnockoutConfig(cfg *tournamentModel.KnockoutConfig, groupCount *int) error {
	var initial domain.KnockoutRound
	if groupCount != nil {
		n := *groupCount * cfg.QualifiersPerGroup
		round, ok := domain.InitialRound(n)
		if !ok {
			return fmt.Errorf("%d participants: %w", n, bracket.ErrUnsupportedParticipantCount)
		}
		initial = round
		if cfg.ModeFor(initial) == domain.PairingCross && (*groupCount%2 != 0 || cfg.QualifiersPerGroup > 2) {
			return bracket.ErrCrossUnsupported
		}
	}

	for round, pairs := range cfg.ManualPairsByPhase.Data() {
		if round == domain.ThirdPlace {
			return fmt.Errorf("third place is paired from semifinal losers: %w", bracket.ErrManualPairs)
		}
		if len(pairs) != round.MatchCount() {
			return fmt.Errorf("%s needs %d pairs, got %d: %w", round, round.MatchCount(), len(pairs), bracket.ErrManualPairs)
		}
		for _, pair := range pairs {
			for _, slot := range pair {
				if err := checkManualSlot(slot, round, initial); err != nil {
					return err
				}
			}
		}
	}

	if initial == "" {
		return nil
	}
	for round, ok := initial, true; ok; round, ok = round.Next() {
		if cfg.ModeFor(round) == domain.PairingManual && len(cfg.ManualPairs(round)) == 0 {
			return fmt.Errorf("%s is MANUAL without pairs: %w", round, bracket.ErrManualPairs)
		}
	}
	return nil
}

// checkManualSlot accepts seed labels in the initial phase and participant
// indices afterwards. With an unknown initial phase either form is accepted.
func checkManualSlot(slot bracket.ManualSlot, round, initial domain.KnockoutRound) error {
	if slot.Label != "" {
		if initial != "" && round != initial {
			return fmt.Errorf("%s slot %q must be an index: %w", round, slot.Label, bracket.ErrManualPairs)
		}
		_, _, err := bracket.ParseSeedLabel(slot.Label)
		return err
	}
	if initial != "" && round == initial {
		return fmt.Errorf("%s slot %d must be a group label: %w", round, slot.Index, bracket.ErrManualPairs)
	}
	if slot.Index < 1 || slot.Index > 2*round.MatchCount() {
		return fmt.Errorf("%s slot %d out of range: %w", round, slot.Index, bracket.ErrManualPairs)
	}
	return nil
}

// GenerateKnockout creates the initial knockout phase from the group
// standings. Existing slots are kept unless ReplaceExisting is set, so a
// repeated call only fills slots that became determined since.
func (s *service) GenerateKnockout(
	ctx context.Context,
	id uint,
	req *tournamentModel.GenerateKnockoutRequest,
) (*tournamentModel.BracketResponse, error) {
	if req.StartTimestamp.IsZero() {
		return nil, tournamentModel.ErrInvalidStart
	}
	if req.IntervalMinutes != nil && *req.IntervalMinutes < 0 {
		return nil, tournamentModel.ErrNegativeInterval
	}

	result := &tournamentModel.BracketResponse{TournamentID: id}
	outbox := events.NewOutbox()
	var created int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)
		if _, err := txRepo.GetTournamentForUpdate(ctx, id); err != nil {
			return err
		}
		cfg, err := txRepo.GetKnockoutConfig(ctx, id)
		if err != nil {
			return err
		}
		if cfg == nil {
			return tournamentModel.ErrKnockoutConfigNotFound
		}

		if req.ReplaceExisting {
			slots, err := txRepo.ListKnockoutMatches(ctx, id)
			if err != nil {
				return err
			}
			if err := s.deleteMatches(ctx, tx, knockoutMatchIDs(slots)); err != nil {
				return err
			}
		}

		tables, err := s.groupTables(ctx, tx, id, false)
		if err != nil {
			return err
		}
		if len(tables) == 0 {
			return fmt.Errorf("tournament %d has no groups: %w", id, tournamentModel.ErrGroupsNotReady)
		}

		n := len(tables) * cfg.QualifiersPerGroup
		round, ok := domain.InitialRound(n)
		if !ok {
			return fmt.Errorf("%d participants: %w", n, bracket.ErrUnsupportedParticipantCount)
		}

		if err := s.applyKnockoutOverrides(ctx, tx, cfg, req); err != nil {
			return err
		}

		w := s.newBracketWriter(tx, cfg, outbox)
		_, matchups, err := bracket.InitialPhase(groupSeeds(tables), cfg.QualifiersPerGroup, w.plan(round))
		if err != nil {
			return err
		}
		if err := w.create(ctx, round, matchups, req.StartTimestamp.UTC(), cfg.IntervalMinutes, cfg.LeagueID); err != nil {
			return err
		}
		if err := w.advanceFrom(ctx, round); err != nil {
			return err
		}
		created = w.created

		result.Rounds, err = s.bracketRounds(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	outbox.Flush(ctx, s.publisher, s.logger)
	s.logger.Infow("knockout generated", "tournament_id", id, "matches_created", created)
	return result, nil
}

// applyKnockoutOverrides stores the league and interval given on the
// generate request in the config, so later phases built by the advancer use
// the same values.
func (s *service) applyKnockoutOverrides(
	ctx context.Context,
	tx *gorm.DB,
	cfg *tournamentModel.KnockoutConfig,
	req *tournamentModel.GenerateKnockoutRequest,
) error {
	if req.LeagueID == nil && req.IntervalMinutes == nil {
		return nil
	}
	if req.LeagueID != nil {
		if _, err := leagueRepository.New(tx, s.logger).GetLeague(ctx, *req.LeagueID); err != nil {
			return err
		}
		id := *req.LeagueID
		cfg.LeagueID = &id
	}
	if req.IntervalMinutes != nil {
		cfg.IntervalMinutes = *req.IntervalMinutes
	}
	return repository.New(tx, s.logger).SaveKnockoutConfig(ctx, cfg)
}

// GetBracket returns the knockout bracket.
func (s *service) GetBracket(ctx context.Context, id uint) (*tournamentModel.BracketResponse, error) {
	if _, err := s.repo.GetTournament(ctx, id); err != nil {
		return nil, err
	}
	rounds, err := s.bracketRounds(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return &tournamentModel.BracketResponse{TournamentID: id, Rounds: rounds}, nil
}

// bracketRounds returns the bracket phases in play order with the ledger
// state of every slot. Phases without slots are omitted.
func (s *service) bracketRounds(ctx context.Context, db *gorm.DB, tournamentID uint) ([]tournamentModel.BracketRound, error) {
	slots, err := repository.New(db, s.logger).ListKnockoutMatches(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	matches, err := matchRepository.New(db, s.logger).ListByIDs(ctx, knockoutMatchIDs(slots))
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*matchModel.Match, len(matches))
	for i := range matches {
		byID[matches[i].ID] = &matches[i]
	}

	byRound := make(map[domain.KnockoutRound][]tournamentModel.BracketMatch)
	for _, slot := range slots {
		m, ok := byID[slot.MatchID]
		if !ok {
			continue
		}
		byRound[slot.Round] = append(byRound[slot.Round], bracketMatch(slot, m))
	}

	rounds := make([]tournamentModel.BracketRound, 0, len(byRound))
	for _, round := range domain.AllRounds {
		if list, ok := byRound[round]; ok {
			rounds = append(rounds, tournamentModel.BracketRound{Round: round, Matches: list})
		}
	}
	return rounds, nil
}

func bracketMatch(slot tournamentModel.KnockoutMatch, m *matchModel.Match) tournamentModel.BracketMatch {
	bm := tournamentModel.BracketMatch{
		Order:      slot.Order,
		MatchID:    m.ID,
		Team1ID:    m.Team1ID,
		Team2ID:    m.Team2ID,
		LeagueID:   m.LeagueID,
		ScoreTeam1: m.ScoreTeam1,
		ScoreTeam2: m.ScoreTeam2,
		State:      m.State,
		Timestamp:  m.Timestamp.UTC(),
	}
	if winner, _, ok := outcome(m); ok {
		bm.WinnerID = &winner
	}
	return bm
}

// outcome returns winner and loser of a completed match without a draw.
func outcome(m *matchModel.Match) (uint, uint, bool) {
	if !m.IsCompleted() {
		return 0, 0, false
	}
	s1, s2 := m.Scores()
	return bracket.Result{MatchID: m.ID, Team1: m.Team1ID, Team2: m.Team2ID, Score1: s1, Score2: s2}.Outcome()
}

func knockoutMatchIDs(slots []tournamentModel.KnockoutMatch) []uint {
	ids := make([]uint, len(slots))
	for i, slot := range slots {
		ids[i] = slot.MatchID
	}
	return ids
}

func recordAdvance(round domain.KnockoutRound) {
	metrics.BracketAdvances.WithLabelValues(string(round)).Inc()
}
