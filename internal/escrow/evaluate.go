package escrow

import (
	"github.com/google/uuid"
	"github.com/potledger/escrow/internal/domain"
)

// EligibleVoters computes the set of user IDs whose approval is required for
// a request submitted by submitterUserID: every player in the game whose
// status is not cashed-out, excluding the submitter, plus the banker when one
// is designated and resolvable and not already counted (a banker who is the
// submitter cannot attest to their own count).
func EligibleVoters(game *domain.Game, players []domain.Player, submitterUserID uuid.UUID, banker *domain.User) map[uuid.UUID]struct{} {
	voters := make(map[uuid.UUID]struct{})
	for _, p := range players {
		if p.GameID != game.ID {
			continue
		}
		if p.Status == domain.PlayerCashedOut {
			continue
		}
		if p.UserID == submitterUserID {
			continue
		}
		voters[p.UserID] = struct{}{}
	}
	if banker != nil && game.IsBanker(banker.WalletAddress) && banker.ID != submitterUserID {
		voters[banker.ID] = struct{}{}
	}
	return voters
}

// Evaluate recomputes a request's status from the full vote set against the
// eligible voter set computed at evaluation time.
//
// Deterministic and order-independent: any dispute vote makes the result
// disputed regardless of how many approvals exist or in what order they
// arrived; otherwise the request is approved exactly when every member of
// the eligible set has an approving vote on record. Membership can drift
// while a request is open (a voter cashes out after approving, a new player
// joins), so coverage is checked per member: a stale approval from someone
// no longer in the set never stands in for a current member's missing vote.
func Evaluate(votes []domain.Approval, eligible map[uuid.UUID]struct{}) domain.RequestStatus {
	approvedBy := make(map[uuid.UUID]struct{}, len(votes))
	for _, v := range votes {
		if !v.Approved {
			return domain.RequestDisputed
		}
		approvedBy[v.VoterUserID] = struct{}{}
	}
	for voter := range eligible {
		if _, ok := approvedBy[voter]; !ok {
			return domain.RequestPending
		}
	}
	return domain.RequestApproved
}
