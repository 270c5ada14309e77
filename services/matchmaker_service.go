package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"amora_server/models"
	"amora_server/telemetry"

	"github.com/google/uuid"
)

// QueueStore is the persistence contract for the waiting pool. ClaimPair and
// CancelEntry must be atomic conditional writes: when an entry is no longer
// waiting they return ErrEntryClaimed without side effects.
type QueueStore interface {
	InsertEntry(ctx context.Context, entry *models.QueueEntry) error
	FindWaitingByUser(ctx context.Context, userID string) (*models.QueueEntry, error)
	OldestWaiting(ctx context.Context, gender, excludeUserID string) (*models.QueueEntry, error)
	ListWaiting(ctx context.Context, gender string) ([]models.QueueEntry, error)
	ClaimPair(ctx context.Context, a, b *models.QueueEntry, conversationID, matchedAt string) error
	CancelEntry(ctx context.Context, queueID string) error
	LatestResolvedMatch(ctx context.Context, userID string, cutoff time.Time) (*models.QueueEntry, error)
}

// BalanceLedger debits the fixed match cost, atomically checking sufficiency.
type BalanceLedger interface {
	DebitForMatch(ctx context.Context, userID string) error
}

// ConversationFactory creates the persistent record for a matched pair.
type ConversationFactory interface {
	CreateConversation(ctx context.Context, conversationID, userA, userB string) error
}

// ProfileReader resolves profiles and their public match projections.
type ProfileReader interface {
	GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	GetMatchProfile(ctx context.Context, userID string) (*models.MatchedUser, error)
}

// Notifier pushes match outcomes to live connections, best-effort.
type Notifier interface {
	NotifyMatchFound(userID string, payload models.MatchFoundPayload)
	NotifyMatchError(userID, message string)
}

// MatchmakerService pairs waiting users of opposite classes. Pairing runs on
// two paths against the same queue: reactively on each successful enqueue,
// and on a periodic sweep. The queue's conditional flips are the only thing
// keeping the two paths from matching the same entry twice.
type MatchmakerService struct {
	Queue         QueueStore
	Ledger        BalanceLedger
	Conversations ConversationFactory
	Profiles      ProfileReader
	Notifier      Notifier
}

// RequestMatch enqueues a match request for a user: rejects a duplicate
// request, debits the match cost, inserts the waiting entry, and attempts an
// immediate pairing with the oldest waiting counterpart before returning.
func (ms *MatchmakerService) RequestMatch(ctx context.Context, userID string) (*models.QueueEntry, error) {
	existing, err := ms.Queue.FindWaitingByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyWaiting
	}

	profile, err := ms.Profiles.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.Gender != models.GenderMale && profile.Gender != models.GenderFemale {
		return nil, fmt.Errorf("profile for %s has no pairable gender", userID)
	}

	// The debit happens before the insert; a failed debit leaves no entry
	// behind, and canceling later does not refund it.
	if err := ms.Ledger.DebitForMatch(ctx, userID); err != nil {
		return nil, err
	}

	entry := &models.QueueEntry{
		QueueID:    uuid.NewString(),
		UserID:     userID,
		Gender:     profile.Gender,
		EnqueuedAt: time.Now().UnixMilli(),
		IsWaiting:  true,
	}
	if err := ms.Queue.InsertEntry(ctx, entry); err != nil {
		return nil, err
	}
	telemetry.EnqueuesTotal.Inc()

	ms.tryReactiveMatch(ctx, entry)
	return entry, nil
}

// tryReactiveMatch attempts to pair a fresh entry with the oldest waiting
// counterpart. Losing the claim to a concurrent sweep or another reactive
// attempt is expected and silent; the entry simply keeps waiting.
func (ms *MatchmakerService) tryReactiveMatch(ctx context.Context, entry *models.QueueEntry) {
	partner, err := ms.Queue.OldestWaiting(ctx, models.OppositeGender(entry.Gender), entry.UserID)
	if err != nil {
		log.Printf("⚠️ Reactive pairing lookup failed for %s: %v", entry.UserID, err)
		return
	}
	if partner == nil {
		return
	}

	if err := ms.pairUp(ctx, entry, partner); err != nil {
		if errors.Is(err, ErrEntryClaimed) {
			telemetry.ClaimConflictsTotal.Inc()
			return
		}
		log.Printf("⚠️ Reactive pairing failed for %s: %v", entry.UserID, err)
	}
}

// Sweep pairs the i-th oldest waiting entry of each class, oldest with
// oldest, for i in 0..min(|A|,|B|)-1. Per-pair claim losses and failures
// never abort the rest of the cycle. It returns the number of pairs matched.
func (ms *MatchmakerService) Sweep(ctx context.Context) (int, error) {
	males, err := ms.Queue.ListWaiting(ctx, models.GenderMale)
	if err != nil {
		return 0, fmt.Errorf("sweep failed to list waiting males: %w", err)
	}
	females, err := ms.Queue.ListWaiting(ctx, models.GenderFemale)
	if err != nil {
		return 0, fmt.Errorf("sweep failed to list waiting females: %w", err)
	}

	n := len(males)
	if len(females) < n {
		n = len(females)
	}

	matched := 0
	for i := 0; i < n; i++ {
		if err := ms.pairUp(ctx, &males[i], &females[i]); err != nil {
			if errors.Is(err, ErrEntryClaimed) {
				telemetry.ClaimConflictsTotal.Inc()
				continue
			}
			log.Printf("⚠️ Sweep pairing failed for %s and %s: %v", males[i].UserID, females[i].UserID, err)
			continue
		}
		matched++
	}

	telemetry.SweepCyclesTotal.Inc()
	telemetry.SweepPairsLast.Set(float64(matched))
	return matched, nil
}

// RunSweep runs Sweep on a fixed interval until ctx is canceled. A failing
// cycle is logged and never stops the next one.
func (ms *MatchmakerService) RunSweep(ctx context.Context, interval time.Duration) {
	log.Printf("🔄 Starting match sweep every %s", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Match sweep stopped")
			return
		case <-ticker.C:
			if _, err := ms.Sweep(ctx); err != nil {
				log.Printf("❌ Sweep cycle failed: %v", err)
			}
		}
	}
}

// pairUp runs the pairing transaction for two entries: one atomic claim of
// both rows, then the downstream effects. Everything after a successful claim
// is best-effort: the match stands even if the conversation write, a profile
// lookup, or a push fails, and the poll surface reconciles later.
func (ms *MatchmakerService) pairUp(ctx context.Context, a, b *models.QueueEntry) error {
	conversationID := uuid.NewString()
	matchedAt := time.Now().UTC().Format(time.RFC3339)

	if err := ms.Queue.ClaimPair(ctx, a, b, conversationID, matchedAt); err != nil {
		return err
	}
	telemetry.MatchesTotal.Inc()
	log.Printf("💘 Matched %s with %s (conversation %s)", a.UserID, b.UserID, conversationID)

	if err := ms.Conversations.CreateConversation(ctx, conversationID, a.UserID, b.UserID); err != nil {
		log.Printf("❌ Failed to create conversation %s: %v", conversationID, err)
	}

	ms.notifySide(ctx, a.UserID, b.UserID, conversationID)
	ms.notifySide(ctx, b.UserID, a.UserID, conversationID)
	return nil
}

// notifySide pushes match-found to one user with the counterpart's obscured
// projection. A dead or absent connection just means the user finds out on
// their next status check.
func (ms *MatchmakerService) notifySide(ctx context.Context, userID, counterpartID, conversationID string) {
	counterpart, err := ms.Profiles.GetMatchProfile(ctx, counterpartID)
	if err != nil {
		log.Printf("⚠️ Failed to load match profile of %s for %s: %v", counterpartID, userID, err)
		ms.Notifier.NotifyMatchError(userID, "Match found, but details are temporarily unavailable. Check your match status.")
		return
	}
	ms.Notifier.NotifyMatchFound(userID, models.MatchFoundPayload{
		MatchedUser:    counterpart,
		ConversationID: conversationID,
	})
}

// CancelMatch flips the user's waiting entry to canceled. The debited cost is
// not refunded. If a pairing transaction wins the race first, the cancel is
// reported as ErrNotWaiting: the user got matched, not canceled.
func (ms *MatchmakerService) CancelMatch(ctx context.Context, userID string) error {
	entry, err := ms.Queue.FindWaitingByUser(ctx, userID)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrNotWaiting
	}

	if err := ms.Queue.CancelEntry(ctx, entry.QueueID); err != nil {
		if errors.Is(err, ErrEntryClaimed) {
			return ErrNotWaiting
		}
		return err
	}

	telemetry.CancelsTotal.Inc()
	return nil
}

// CheckStatus reports whether the user is waiting, recently matched within
// the window, or idle. The two status surfaces pass different windows.
func (ms *MatchmakerService) CheckStatus(ctx context.Context, userID string, window time.Duration) (*models.MatchStatusPayload, error) {
	entry, err := ms.Queue.FindWaitingByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		return &models.MatchStatusPayload{IsWaiting: true, QueuedAt: entry.EnqueuedAt}, nil
	}

	recent, err := ms.Queue.LatestResolvedMatch(ctx, userID, time.Now().Add(-window))
	if err != nil {
		return nil, err
	}
	if recent == nil {
		return &models.MatchStatusPayload{IsWaiting: false}, nil
	}

	counterpart, err := ms.Profiles.GetMatchProfile(ctx, recent.MatchedWith)
	if err != nil {
		return nil, err
	}
	return &models.MatchStatusPayload{
		IsWaiting:      false,
		MatchedUser:    counterpart,
		ConversationID: recent.ConversationID,
	}, nil
}
