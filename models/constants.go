package models

import "time"

// ✅ Gender classes eligible for pairing. Matches only ever cross classes.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// OppositeGender returns the counterpart class a user can be paired with.
func OppositeGender(gender string) string {
	if gender == GenderMale {
		return GenderFemale
	}
	return GenderMale
}

// MatchCost is the number of credits debited when a user joins the match queue.
// Canceling a request does not refund it.
const MatchCost = 10

// Reasons recorded in the balance log.
const (
	DebitReasonMatchRequest = "match_request"
	CreditReasonTopUp       = "top_up"
)

// Recency windows used when resolving a recent match on the two status
// surfaces. The HTTP polling API and the live socket check historically use
// different lookbacks; both are kept as-is because unifying them would change
// observable behavior.
const (
	RecentMatchWindowPoll = 7 * 24 * time.Hour
	RecentMatchWindowLive = time.Hour
)
