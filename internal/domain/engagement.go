package domain

// VoteDirection is the viewing user's vote on a deal. It is a single
// tri-state value; "upvoted" and "downvoted" can never both be true.
type VoteDirection string

const (
	VoteNone VoteDirection = "none"
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// EngagementPhase tracks where a deal's engagement record sits in the
// optimistic-update cycle.
type EngagementPhase string

const (
	// PhaseClean means the record mirrors the last server snapshot with no
	// local changes layered on top.
	PhaseClean EngagementPhase = "clean"
	// PhasePending means an optimistic change has been applied locally and
	// the confirming request is still in flight.
	PhasePending EngagementPhase = "pending"
	// PhaseConfirmed means the server acknowledged the latest issued request
	// and the record reflects its result.
	PhaseConfirmed EngagementPhase = "confirmed"
	// PhaseRolledBack means the latest request failed and the record was
	// restored to the last confirmed state.
	PhaseRolledBack EngagementPhase = "rolled_back"
)

// Engagement is the per-deal, per-viewing-user vote and save state.
// DisplayedScore always equals the last server-confirmed score plus any
// optimistic delta for a request that has not yet settled.
type Engagement struct {
	Direction      VoteDirection
	DisplayedScore int
	Saved          bool
	Phase          EngagementPhase
}
