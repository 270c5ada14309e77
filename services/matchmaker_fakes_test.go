package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"amora_server/models"
)

// In-memory collaborators implementing the matchmaker's contracts, including
// the conditional-flip semantics of the queue store.

type fakeQueue struct {
	mu      sync.Mutex
	entries map[string]*models.QueueEntry
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{entries: make(map[string]*models.QueueEntry)}
}

func (q *fakeQueue) InsertEntry(_ context.Context, entry *models.QueueEntry) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	copied := *entry
	q.entries[entry.QueueID] = &copied
	return nil
}

func (q *fakeQueue) FindWaitingByUser(_ context.Context, userID string) (*models.QueueEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, entry := range q.entries {
		if entry.UserID == userID && entry.IsWaiting {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, nil
}

func (q *fakeQueue) OldestWaiting(_ context.Context, gender, excludeUserID string) (*models.QueueEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	waiting := q.waitingLocked(gender)
	for _, entry := range waiting {
		if entry.UserID != excludeUserID {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, nil
}

func (q *fakeQueue) ListWaiting(_ context.Context, gender string) ([]models.QueueEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var entries []models.QueueEntry
	for _, entry := range q.waitingLocked(gender) {
		entries = append(entries, *entry)
	}
	return entries, nil
}

// waitingLocked returns waiting entries of a class oldest-first. Callers hold q.mu.
func (q *fakeQueue) waitingLocked(gender string) []*models.QueueEntry {
	var waiting []*models.QueueEntry
	for _, entry := range q.entries {
		if entry.Gender == gender && entry.IsWaiting {
			waiting = append(waiting, entry)
		}
	}
	sort.Slice(waiting, func(i, j int) bool {
		if waiting[i].EnqueuedAt != waiting[j].EnqueuedAt {
			return waiting[i].EnqueuedAt < waiting[j].EnqueuedAt
		}
		return waiting[i].QueueID < waiting[j].QueueID
	})
	return waiting
}

func (q *fakeQueue) ClaimPair(_ context.Context, a, b *models.QueueEntry, conversationID, matchedAt string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	ea, okA := q.entries[a.QueueID]
	eb, okB := q.entries[b.QueueID]
	if !okA || !okB || !ea.IsWaiting || !eb.IsWaiting {
		return ErrEntryClaimed
	}
	ea.IsWaiting = false
	ea.MatchedWith = eb.UserID
	ea.ConversationID = conversationID
	ea.MatchedAt = matchedAt
	eb.IsWaiting = false
	eb.MatchedWith = ea.UserID
	eb.ConversationID = conversationID
	eb.MatchedAt = matchedAt
	return nil
}

func (q *fakeQueue) CancelEntry(_ context.Context, queueID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	entry, ok := q.entries[queueID]
	if !ok || !entry.IsWaiting {
		return ErrEntryClaimed
	}
	entry.IsWaiting = false
	entry.CanceledAt = time.Now().UTC().Format(time.RFC3339)
	return nil
}

func (q *fakeQueue) LatestResolvedMatch(_ context.Context, userID string, cutoff time.Time) (*models.QueueEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var latest *models.QueueEntry
	for _, entry := range q.entries {
		if entry.UserID != userID || entry.IsWaiting || entry.ConversationID == "" {
			continue
		}
		matchedAt, err := time.Parse(time.RFC3339, entry.MatchedAt)
		if err != nil || matchedAt.Before(cutoff) {
			continue
		}
		if latest == nil || entry.MatchedAt > latest.MatchedAt {
			latest = entry
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (q *fakeQueue) get(queueID string) *models.QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	entry, ok := q.entries[queueID]
	if !ok {
		return nil
	}
	copied := *entry
	return &copied
}

type fakeLedger struct {
	mu       sync.Mutex
	balances map[string]int64
	debits   int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: make(map[string]int64)}
}

func (l *fakeLedger) DebitForMatch(_ context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[userID] < models.MatchCost {
		return ErrInsufficientBalance
	}
	l.balances[userID] -= models.MatchCost
	l.debits++
	return nil
}

func (l *fakeLedger) balance(userID string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[userID]
}

type fakeConversations struct {
	mu      sync.Mutex
	created []string
	failErr error
}

func (c *fakeConversations) CreateConversation(_ context.Context, conversationID, _, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failErr != nil {
		return c.failErr
	}
	c.created = append(c.created, conversationID)
	return nil
}

func (c *fakeConversations) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.created)
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]*models.UserProfile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: make(map[string]*models.UserProfile)}
}

func (p *fakeProfiles) GetUserProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	profile, ok := p.profiles[userID]
	if !ok {
		return nil, errors.New("profile not found")
	}
	copied := *profile
	return &copied, nil
}

func (p *fakeProfiles) GetMatchProfile(ctx context.Context, userID string) (*models.MatchedUser, error) {
	profile, err := p.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.MatchedUser{UserID: profile.UserID, Name: profile.Name}, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	found  map[string][]models.MatchFoundPayload
	errors map[string][]string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		found:  make(map[string][]models.MatchFoundPayload),
		errors: make(map[string][]string),
	}
}

func (n *fakeNotifier) NotifyMatchFound(userID string, payload models.MatchFoundPayload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.found[userID] = append(n.found[userID], payload)
}

func (n *fakeNotifier) NotifyMatchError(userID, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors[userID] = append(n.errors[userID], message)
}

func (n *fakeNotifier) foundFor(userID string) []models.MatchFoundPayload {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.MatchFoundPayload(nil), n.found[userID]...)
}

// matchmakerFixture bundles a MatchmakerService with its fakes.
type matchmakerFixture struct {
	queue         *fakeQueue
	ledger        *fakeLedger
	conversations *fakeConversations
	profiles      *fakeProfiles
	notifier      *fakeNotifier
	svc           *MatchmakerService
}

func newMatchmakerFixture() *matchmakerFixture {
	f := &matchmakerFixture{
		queue:         newFakeQueue(),
		ledger:        newFakeLedger(),
		conversations: &fakeConversations{},
		profiles:      newFakeProfiles(),
		notifier:      newFakeNotifier(),
	}
	f.svc = &MatchmakerService{
		Queue:         f.queue,
		Ledger:        f.ledger,
		Conversations: f.conversations,
		Profiles:      f.profiles,
		Notifier:      f.notifier,
	}
	return f
}

func (f *matchmakerFixture) addUser(userID, gender string, balance int64) {
	f.profiles.mu.Lock()
	f.profiles.profiles[userID] = &models.UserProfile{UserID: userID, Name: userID, Gender: gender}
	f.profiles.mu.Unlock()

	f.ledger.mu.Lock()
	f.ledger.balances[userID] = balance
	f.ledger.mu.Unlock()
}

// seedWaiting inserts a waiting entry directly, bypassing debit and reactive
// pairing, for arrival-ordered fixtures.
func (f *matchmakerFixture) seedWaiting(queueID, userID, gender string, enqueuedAt int64) {
	f.queue.InsertEntry(context.Background(), &models.QueueEntry{
		QueueID:    queueID,
		UserID:     userID,
		Gender:     gender,
		EnqueuedAt: enqueuedAt,
		IsWaiting:  true,
	})
}
