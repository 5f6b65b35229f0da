package core

import (
	"errors"
	"fmt"
)

// RejectReason is a stable reason code attached to a validation rejection.
// The codes are consumed by peer-penalty policy and user-facing error
// reporting, so they must not change between releases.
type RejectReason string

// Validation rejection reasons.
const (
	// ReasonBadTxFee: the fee is missing, out of the allowed range or
	// below the policy minimum.
	ReasonBadTxFee RejectReason = "bad-tx-fee"
	// ReasonTxUIDType: an identifier of a kind not accepted here.
	ReasonTxUIDType RejectReason = "txuid-type-error"
	// ReasonBadPublicKey: a sender key that is not a valid curve point.
	ReasonBadPublicKey RejectReason = "bad-publickey"
	// ReasonCandidatesOutOfRange: empty or too long candidate list.
	ReasonCandidatesOutOfRange RejectReason = "candidate-votes-out-of-range"
	// ReasonBadReadAccount: a referenced account is not in the store.
	ReasonBadReadAccount RejectReason = "bad-read-accountdb"
	// ReasonBadSignature: the transaction signature doesn't verify.
	ReasonBadSignature RejectReason = "bad-tx-signature"
	// ReasonBadVoteWeight: a vote weight outside (0, MaxCoinMoney].
	ReasonBadVoteWeight RejectReason = "bad-vote-weight"
	// ReasonDuplicateCandidate: two votes resolving to one account.
	ReasonDuplicateCandidate RejectReason = "duplication-candidate-error"
)

// Outcome is the result of the contextual transaction validation: either
// an acceptance or a rejection with a stable reason code and a
// misbehavior score for the peer-penalty policy.
type Outcome struct {
	Reason RejectReason
	Score  int
}

// Accepted returns a positive validation outcome.
func Accepted() Outcome {
	return Outcome{}
}

// Rejected returns a negative validation outcome with the given reason
// and misbehavior score. The score is clamped into [0, 100].
func Rejected(reason RejectReason, score int) Outcome {
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}
	return Outcome{Reason: reason, Score: score}
}

// OK denotes whether the transaction was accepted.
func (o Outcome) OK() bool {
	return o.Reason == ""
}

// String implements the stringer interface.
func (o Outcome) String() string {
	if o.OK() {
		return "accepted"
	}
	return fmt.Sprintf("rejected (%s, score %d)", o.Reason, o.Score)
}

// Execution errors. Every error returned by ExecuteVoteTx wraps one of
// these, their texts are the stable reason codes.
var (
	// ErrBadReadAccount is returned when a referenced account can't be
	// loaded.
	ErrBadReadAccount = errors.New("bad-read-accountdb")
	// ErrOperateAccount is returned when the fee debit fails.
	ErrOperateAccount = errors.New("operate-account-failed")
	// ErrWriteCandidateVotes is returned when the voter's vote list
	// can't be persisted.
	ErrWriteCandidateVotes = errors.New("write-candidate-votes-failed")
	// ErrOperateVote is returned when a vote mutation over- or
	// underflows the candidate's received weight.
	ErrOperateVote = errors.New("operate-vote-error")
	// ErrBadSaveAccount is returned when an account can't be persisted.
	ErrBadSaveAccount = errors.New("bad-save-accountdb")
	// ErrBadSaveDelegate is returned when the delegate index can't be
	// updated.
	ErrBadSaveDelegate = errors.New("bad-save-delegatedb")
)
