package core

import (
	"fmt"

	"github.com/tidechain/tide-go/pkg/config"
	"github.com/tidechain/tide-go/pkg/core/dao"
	"github.com/tidechain/tide-go/pkg/core/state"
	"github.com/tidechain/tide-go/pkg/core/transaction"
	"github.com/tidechain/tide-go/pkg/crypto/keys"
	"github.com/tidechain/tide-go/pkg/util"
	"go.uber.org/zap"
)

// TxProcessor validates and executes delegate vote transactions against
// the ledger state held in its DAO. Validation is read-only, execution
// commits all of its effects atomically.
type TxProcessor struct {
	cfg  config.ProtocolConfiguration
	dao  dao.DAO
	feer Feer
	log  *zap.Logger
}

// NewTxProcessor creates a TxProcessor over the given DAO. A nil logger
// is replaced with a no-op one, a nil feer with the configuration-backed
// one.
func NewTxProcessor(cfg config.ProtocolConfiguration, d dao.DAO, feer Feer, log *zap.Logger) *TxProcessor {
	if log == nil {
		log = zap.NewNop()
	}
	if feer == nil {
		feer = NewProtocolFeer(cfg)
	}
	return &TxProcessor{
		cfg:  cfg,
		dao:  d,
		feer: feer,
		log:  log,
	}
}

// reject logs a rejection and returns the matching outcome.
func (p *TxProcessor) reject(tx *transaction.Transaction, reason RejectReason, score int) Outcome {
	txRejectedCounter(reason)
	p.log.Debug("vote tx rejected",
		zap.Stringer("hash", tx.Hash()),
		zap.String("reason", string(reason)),
		zap.Int("score", score))
	return Rejected(reason, score)
}

// CheckVoteTx performs contextual validation of the given delegate vote
// transaction at the given height. It reads the ledger state but never
// modifies it, so checking the same transaction repeatedly yields the
// same outcome.
func (p *TxProcessor) CheckVoteTx(height uint32, tx *transaction.Transaction) Outcome {
	txCheckedCounter.Inc()

	if tx.Fees == 0 || tx.Fees > config.MaxCoinMoney {
		return p.reject(tx, ReasonBadTxFee, 100)
	}
	if tx.Fees < p.feer.MinimumFee(tx.Type, height) {
		return p.reject(tx, ReasonBadTxFee, 100)
	}

	switch tx.TxUID.Type() {
	case state.UserRegID:
	case state.UserPubKey:
		if !tx.TxUID.PubKey().IsValid() {
			return p.reject(tx, ReasonBadPublicKey, 100)
		}
	default:
		return p.reject(tx, ReasonTxUIDType, 100)
	}

	if len(tx.Votes) == 0 || uint32(len(tx.Votes)) > p.cfg.MaxVoteCandidateNum {
		return p.reject(tx, ReasonCandidatesOutOfRange, 100)
	}

	srcAcc, err := p.dao.GetAccount(tx.TxUID)
	if err != nil {
		return p.reject(tx, ReasonBadReadAccount, 100)
	}

	if p.cfg.ForkVersion(height) >= config.MajorVerR2 {
		// Prefer the key carried by the transaction itself, fall back to
		// the registered owner key.
		pub := srcAcc.OwnerPubKey
		if tx.TxUID.Type() == state.UserPubKey {
			pub = tx.TxUID.PubKey()
		}
		if !pub.IsValid() || !tx.VerifySignature(pub) {
			return p.reject(tx, ReasonBadSignature, 100)
		}
	}

	candidates := make(map[util.Uint160]struct{}, len(tx.Votes))
	for _, vote := range tx.Votes {
		switch vote.Candidate.Type() {
		case state.UserRegID, state.UserPubKey:
		default:
			return p.reject(tx, ReasonTxUIDType, 100)
		}
		if vote.Votes == 0 || vote.Votes > config.MaxCoinMoney {
			return p.reject(tx, ReasonBadVoteWeight, 100)
		}
		candAcc, err := p.dao.GetAccount(vote.Candidate)
		if err != nil {
			return p.reject(tx, ReasonBadReadAccount, 100)
		}
		if p.cfg.ForkVersion(height) >= config.MajorVerR2 && !candAcc.HasOwnerPubKey() {
			return p.reject(tx, ReasonBadReadAccount, 100)
		}
		candidates[candAcc.KeyID] = struct{}{}
	}
	// Distinct identifiers can still resolve to one account.
	if len(candidates) != len(tx.Votes) {
		return p.reject(tx, ReasonDuplicateCandidate, 100)
	}

	return Accepted()
}

// voteDelta captures one vote list mutation to be mirrored onto the
// candidate account and the delegate index.
type voteDelta struct {
	candidate util.Uint160
	op        state.VoteOp
	amount    uint64
	staked    uint64 // weight staked by this voter before the mutation
	delta     uint64 // absolute weight change of the list entry
}

// ExecuteVoteTx applies the given delegate vote transaction at the given
// block position. Either every effect (fee debit, vote list update,
// delegate index update, receipts) is committed or none is: on error the
// ledger state is left untouched. Execution assumes the transaction has
// passed CheckVoteTx and is not idempotent, applying one transaction
// twice accumulates its effects twice.
func (p *TxProcessor) ExecuteVoteTx(height uint32, index uint16, tx *transaction.Transaction) error {
	cache := p.dao.GetWrapped()

	srcAcc, err := cache.GetAccount(tx.TxUID)
	if err != nil {
		txAbortedCounter.Inc()
		return fmt.Errorf("%w: sender %s: %s", ErrBadReadAccount, tx.TxUID, err)
	}
	// First transaction sent from the account registers it.
	if srcAcc.RegID.IsEmpty() {
		srcAcc.RegID = state.RegID{Height: height, Index: index}
	}
	if !srcAcc.HasOwnerPubKey() && tx.TxUID.Type() == state.UserPubKey {
		srcAcc.OwnerPubKey = tx.TxUID.PubKey()
	}

	if err := srcAcc.OperateBalance(state.BaseCoin, state.SubFree, tx.Fees); err != nil {
		txAbortedCounter.Inc()
		return fmt.Errorf("%w: fee debit: %s", ErrOperateAccount, err)
	}
	receipts := []state.Receipt{{
		Account: srcAcc.KeyID,
		Type:    state.ReceiptFeeDebit,
		Amount:  tx.Fees,
	}}

	votesList, err := cache.GetVoterVotes(srcAcc.KeyID)
	if err != nil {
		txAbortedCounter.Inc()
		return fmt.Errorf("%w: voter votes of %s: %s", ErrBadReadAccount, srcAcc.KeyID, err)
	}

	deltas := make([]voteDelta, 0, len(tx.Votes))
	for _, vote := range tx.Votes {
		keyID, err := cache.ResolveKeyID(vote.Candidate)
		if err != nil {
			txAbortedCounter.Inc()
			return fmt.Errorf("%w: candidate %s: %s", ErrBadReadAccount, vote.Candidate, err)
		}
		old, _ := votesList.Get(keyID)
		var newVotes uint64
		switch vote.Op {
		case state.OpStake:
			newVotes = old.Votes + vote.Votes
			if newVotes < old.Votes {
				txAbortedCounter.Inc()
				return fmt.Errorf("%w: stake on %s overflows", ErrOperateVote, keyID)
			}
		case state.OpUnstake:
			if vote.Votes > old.Votes {
				newVotes = 0
			} else {
				newVotes = old.Votes - vote.Votes
			}
		default:
			txAbortedCounter.Inc()
			return fmt.Errorf("%w: unknown vote op %d", ErrOperateVote, vote.Op)
		}
		votesList.Update(keyID, newVotes)
		if newVotes >= old.Votes {
			receipts = append(receipts, state.Receipt{
				Account: keyID,
				Type:    state.ReceiptStakeCredit,
				Amount:  newVotes - old.Votes,
			})
		} else {
			receipts = append(receipts, state.Receipt{
				Account: keyID,
				Type:    state.ReceiptStakeDebit,
				Amount:  old.Votes - newVotes,
			})
		}
		deltas = append(deltas, voteDelta{
			candidate: keyID,
			op:        vote.Op,
			amount:    vote.Votes,
			staked:    old.Votes,
			delta:     diff(newVotes, old.Votes),
		})
	}

	if err := cache.PutVoterVotes(srcAcc.KeyID, votesList); err != nil {
		txAbortedCounter.Inc()
		return fmt.Errorf("%w: voter %s: %s", ErrWriteCandidateVotes, srcAcc.KeyID, err)
	}
	if err := cache.PutAccount(srcAcc); err != nil {
		txAbortedCounter.Inc()
		return fmt.Errorf("%w: sender %s: %s", ErrBadSaveAccount, srcAcc.KeyID, err)
	}

	for _, d := range deltas {
		candAcc, err := cache.GetAccountByKeyID(d.candidate)
		if err != nil {
			txAbortedCounter.Inc()
			return fmt.Errorf("%w: candidate %s: %s", ErrBadReadAccount, d.candidate, err)
		}
		// Removing more weight than this voter has staked is an error, not
		// a no-op, even though the vote list clamps at zero.
		if d.op == state.OpUnstake && d.amount > d.staked {
			txAbortedCounter.Inc()
			return fmt.Errorf("%w: unstake %d exceeds %d staked on %s",
				ErrOperateVote, d.amount, d.staked, d.candidate)
		}
		oldReceived := candAcc.ReceivedVotes
		if err := candAcc.StakeVotes(d.op, d.delta); err != nil {
			txAbortedCounter.Inc()
			return fmt.Errorf("%w: candidate %s: %s", ErrOperateVote, d.candidate, err)
		}
		if err := cache.EraseDelegateVote(d.candidate, oldReceived); err != nil {
			txAbortedCounter.Inc()
			return fmt.Errorf("%w: erase %s: %s", ErrBadSaveDelegate, d.candidate, err)
		}
		if candAcc.ReceivedVotes > 0 {
			if err := cache.PutDelegateVote(d.candidate, candAcc.ReceivedVotes); err != nil {
				txAbortedCounter.Inc()
				return fmt.Errorf("%w: index %s: %s", ErrBadSaveDelegate, d.candidate, err)
			}
		}
		if err := cache.PutAccount(candAcc); err != nil {
			txAbortedCounter.Inc()
			return fmt.Errorf("%w: candidate %s: %s", ErrBadSaveAccount, d.candidate, err)
		}
	}

	if err := cache.PutTxReceipts(tx.Hash(), receipts); err != nil {
		txAbortedCounter.Inc()
		return fmt.Errorf("failed to store tx receipts: %w", err)
	}

	if _, err := cache.Persist(); err != nil {
		txAbortedCounter.Inc()
		return fmt.Errorf("failed to persist vote tx changes: %w", err)
	}
	txExecutedCounter.Inc()
	p.log.Info("vote tx executed",
		zap.Stringer("hash", tx.Hash()),
		zap.Uint32("height", height),
		zap.Int("votes", len(tx.Votes)))
	return nil
}

// SenderPubKey returns the public key the transaction authenticates with:
// the one carried in the sender identifier or the registered owner key.
func (p *TxProcessor) SenderPubKey(tx *transaction.Transaction) (*keys.PublicKey, error) {
	if tx.TxUID.Type() == state.UserPubKey {
		return tx.TxUID.PubKey(), nil
	}
	acc, err := p.dao.GetAccount(tx.TxUID)
	if err != nil {
		return nil, err
	}
	if !acc.HasOwnerPubKey() {
		return nil, fmt.Errorf("account %s has no registered key", tx.TxUID)
	}
	return acc.OwnerPubKey, nil
}

func diff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
