package state

import (
	"fmt"

	"github.com/tidechain/tide-go/pkg/io"
	"github.com/tidechain/tide-go/pkg/util"
)

// VoteOp is a vote operation: staking weight onto a candidate or removing
// it.
type VoteOp byte

// Possible vote operations.
const (
	OpStake   VoteOp = 1
	OpUnstake VoteOp = 2
)

// String implements the stringer interface.
func (op VoteOp) String() string {
	switch op {
	case OpStake:
		return "stake"
	case OpUnstake:
		return "unstake"
	default:
		return fmt.Sprintf("op(%d)", byte(op))
	}
}

// CandidateVote is a single vote entry of a delegate vote transaction:
// the candidate identifier, the weight and the operation to perform.
type CandidateVote struct {
	Candidate UserID
	Votes     uint64
	Op        VoteOp
}

// EncodeBinary implements the io.Serializable interface.
func (v *CandidateVote) EncodeBinary(w *io.BinWriter) {
	v.Candidate.EncodeBinary(w)
	w.WriteU64LE(v.Votes)
	w.WriteB(byte(v.Op))
}

// DecodeBinary implements the io.Serializable interface.
func (v *CandidateVote) DecodeBinary(r *io.BinReader) {
	v.Candidate.DecodeBinary(r)
	v.Votes = r.ReadU64LE()
	v.Op = VoteOp(r.ReadB())
}

// String implements the stringer interface.
func (v *CandidateVote) String() string {
	return fmt.Sprintf("candidateUid=%s, votes=%d, voteType=%s", v.Candidate, v.Votes, v.Op)
}

// MarshalJSON implements the json.Marshaler interface.
func (v CandidateVote) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"candidate_uid":%q,"voted_bcoins":%d,"vote_type":%q}`,
		v.Candidate.String(), v.Votes, v.Op.String())), nil
}

// CandidateReceivedVote is one entry of a voter's vote list: the canonical
// candidate account key and the weight currently staked onto it by this
// voter.
type CandidateReceivedVote struct {
	Candidate util.Uint160 `json:"candidate"`
	Votes     uint64       `json:"votes"`
}

// EncodeBinary implements the io.Serializable interface.
func (v *CandidateReceivedVote) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(v.Candidate.BytesBE())
	w.WriteU64LE(v.Votes)
}

// DecodeBinary implements the io.Serializable interface.
func (v *CandidateReceivedVote) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(v.Candidate[:])
	v.Votes = r.ReadU64LE()
}

// VoterVotes is the vote list owned by a single voter account, keyed in
// the DB by that voter's account key.
type VoterVotes struct {
	Votes []CandidateReceivedVote
}

// Get returns the list entry for the given candidate, if any.
func (l *VoterVotes) Get(candidate util.Uint160) (CandidateReceivedVote, bool) {
	for _, v := range l.Votes {
		if v.Candidate.Equals(candidate) {
			return v, true
		}
	}
	return CandidateReceivedVote{}, false
}

// Update inserts, updates or removes the entry for the given candidate.
// A zero votes value removes the entry.
func (l *VoterVotes) Update(candidate util.Uint160, votes uint64) {
	for i, v := range l.Votes {
		if v.Candidate.Equals(candidate) {
			if votes == 0 {
				l.Votes = append(l.Votes[:i], l.Votes[i+1:]...)
			} else {
				l.Votes[i].Votes = votes
			}
			return
		}
	}
	if votes != 0 {
		l.Votes = append(l.Votes, CandidateReceivedVote{Candidate: candidate, Votes: votes})
	}
}

// EncodeBinary implements the io.Serializable interface.
func (l *VoterVotes) EncodeBinary(w *io.BinWriter) {
	w.WriteArray(l.Votes)
}

// DecodeBinary implements the io.Serializable interface.
func (l *VoterVotes) DecodeBinary(r *io.BinReader) {
	r.ReadArray(&l.Votes)
}
