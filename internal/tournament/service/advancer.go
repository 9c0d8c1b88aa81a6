package service

import (
	"context"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/festy23/league_engine/internal/bracket"
	"github.com/festy23/league_engine/internal/domain"
	"github.com/festy23/league_engine/internal/events"
	leagueRepository "github.com/festy23/league_engine/internal/league/repository"
	leagueService "github.com/festy23/league_engine/internal/league/service"
	matchModel "github.com/festy23/league_engine/internal/match/model"
	matchRepository "github.com/festy23/league_engine/internal/match/repository"
	"github.com/festy23/league_engine/internal/metrics"
	tournamentModel "github.com/festy23/league_engine/internal/tournament/model"
	"github.com/festy23/league_engine/internal/tournament/repository"
)

// Advance generates the next phase once every match of the phase the given
// match belongs to has a strict winner. A draw leaves the bracket as is.
func (s *service) Advance(ctx context.Context, tx *gorm.DB, match *matchModel.Match, outbox *events.Outbox) error {
	if tx == nil {
		tx = s.db.WithContext(ctx)
	}
	if !match.IsCompleted() {
		return nil
	}

	txRepo := repository.New(tx, s.logger)
	slot, err := txRepo.GetKnockoutByMatchID(ctx, match.ID)
	if err != nil || slot == nil {
		return err
	}
	cfg, err := txRepo.GetKnockoutConfig(ctx, slot.TournamentID)
	if err != nil {
		return err
	}
	if cfg == nil {
		cfg = &tournamentModel.KnockoutConfig{
			TournamentID:    slot.TournamentID,
			IntervalMinutes: s.defaultInterval,
		}
	}

	return s.newBracketWriter(tx, cfg, outbox).advanceFrom(ctx, slot.Round)
}

// bracketWriter creates knockout slots within one transaction. It shares a
// league resolver and a pairing source across the phases it writes.
type bracketWriter struct {
	svc      *service
	cfg      *tournamentModel.KnockoutConfig
	repo     repository.Repository
	matches  matchRepository.Repository
	resolver *leagueService.Resolver
	outbox   *events.Outbox
	rng      *rand.Rand
	created  int
}

func (s *service) newBracketWriter(
	tx *gorm.DB,
	cfg *tournamentModel.KnockoutConfig,
	outbox *events.Outbox,
) *bracketWriter {
	var rng *rand.Rand
	if cfg.RandomSeed != nil {
		rng = newRand(cfg.RandomSeed)
	}
	return &bracketWriter{
		svc:      s,
		cfg:      cfg,
		repo:     repository.New(tx, s.logger),
		matches:  matchRepository.New(tx, s.logger),
		resolver: leagueService.NewResolver(leagueRepository.New(tx, s.logger)),
		outbox:   outbox,
		rng:      rng,
	}
}

func (w *bracketWriter) plan(round domain.KnockoutRound) bracket.PhasePlan {
	return bracket.PhasePlan{
		Mode:        w.cfg.ModeFor(round),
		ManualPairs: w.cfg.ManualPairs(round),
		Rand:        w.rng,
	}
}

// create writes the determined matchups of a phase. Orders that already
// exist are skipped; match k is scheduled at start + (k-1)*interval.
func (w *bracketWriter) create(
	ctx context.Context,
	round domain.KnockoutRound,
	matchups []bracket.Matchup,
	start time.Time,
	interval int,
	leagueID *uint,
) error {
	existing, err := w.repo.ListKnockoutRound(ctx, w.cfg.TournamentID, round)
	if err != nil {
		return err
	}
	taken := make(map[int]struct{}, len(existing))
	for _, slot := range existing {
		taken[slot.Order] = struct{}{}
	}

	for i, mu := range matchups {
		order := i + 1
		if _, ok := taken[order]; ok || !mu.Determined() {
			continue
		}
		resolved, err := w.resolver.Resolve(ctx, *mu.Team1, *mu.Team2, leagueID)
		if err != nil {
			return err
		}
		match := &matchModel.Match{
			Team1ID:   *mu.Team1,
			Team2ID:   *mu.Team2,
			LeagueID:  resolved,
			Timestamp: start.Add(minutes(i * interval)),
			State:     domain.MatchStateScheduled,
		}
		if err := w.matches.Create(ctx, match); err != nil {
			return err
		}
		slot := &tournamentModel.KnockoutMatch{
			TournamentID: w.cfg.TournamentID,
			MatchID:      match.ID,
			Round:        round,
			Order:        order,
		}
		if err := w.repo.CreateKnockoutMatch(ctx, slot); err != nil {
			return err
		}
		names, err := w.matches.Participants(ctx, match)
		if err != nil {
			return err
		}
		w.outbox.Add(events.TypeMatchCreated, match.CreatedPayload(names))
		metrics.MatchesCreated.WithLabelValues(metrics.SourceKnockout).Inc()
		w.created++
	}
	return nil
}

// advanceFrom walks the phase chain from round and generates every phase
// whose predecessor is fully decided.
func (w *bracketWriter) advanceFrom(ctx context.Context, round domain.KnockoutRound) error {
	for {
		next, err := w.advance(ctx, round)
		if err != nil || next == "" {
			return err
		}
		round = next
	}
}

// advance generates the phase after round when all of round's matches have
// strict winners and returns it. It returns "" when round is not decided
// or has no successor. Semifinals additionally produce the third place
// match from their losers.
func (w *bracketWriter) advance(ctx context.Context, round domain.KnockoutRound) (domain.KnockoutRound, error) {
	next, ok := round.Next()
	if !ok {
		return "", nil
	}
	slots, err := w.repo.ListKnockoutRound(ctx, w.cfg.TournamentID, round)
	if err != nil {
		return "", err
	}
	if len(slots) != round.MatchCount() {
		return "", nil
	}
	matches, err := w.matches.ListByIDs(ctx, knockoutMatchIDs(slots))
	if err != nil {
		return "", err
	}
	byID := make(map[uint]*matchModel.Match, len(matches))
	for i := range matches {
		byID[matches[i].ID] = &matches[i]
	}

	winners := make([]uint, 0, len(slots))
	losers := make([]uint, 0, len(slots))
	var latest time.Time
	for _, slot := range slots {
		m, ok := byID[slot.MatchID]
		if !ok {
			return "", nil
		}
		winner, loser, decided := outcome(m)
		if !decided {
			return "", nil
		}
		winners = append(winners, winner)
		losers = append(losers, loser)
		if m.Timestamp.After(latest) {
			latest = m.Timestamp
		}
	}

	matchups, err := bracket.LaterPhase(winners, w.plan(next))
	if err != nil {
		return "", err
	}

	interval := w.cfg.IntervalMinutes
	start := latest.UTC().Add(minutes(interval))
	before := w.created

	if round == domain.SemiFinal {
		third := []bracket.Matchup{bracket.ThirdPlace(losers[0], losers[1])}
		if err := w.create(ctx, domain.ThirdPlace, third, start, interval, w.cfg.LeagueID); err != nil {
			return "", err
		}
		start = start.Add(minutes(interval))
	}
	if err := w.create(ctx, next, matchups, start, interval, w.cfg.LeagueID); err != nil {
		return "", err
	}

	if w.created > before {
		recordAdvance(next)
		w.svc.logger.Infow("bracket advanced",
			"tournament_id", w.cfg.TournamentID,
			"from", round,
			"to", next,
			"matches_created", w.created-before,
		)
	}
	return next, nil
}
