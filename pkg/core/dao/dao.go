package dao

import (
	"fmt"

	"github.com/tidechain/tide-go/pkg/core/state"
	"github.com/tidechain/tide-go/pkg/core/storage"
	"github.com/tidechain/tide-go/pkg/io"
	"github.com/tidechain/tide-go/pkg/util"
)

// DAO is a data access object over the vote ledger state: accounts, the
// per-voter candidate vote lists, the delegate ranking index and the
// transaction receipts.
type DAO interface {
	GetAccount(uid state.UserID) (*state.Account, error)
	GetAccountByKeyID(keyID util.Uint160) (*state.Account, error)
	GetAccountOrNew(keyID util.Uint160) (*state.Account, error)
	PutAccount(acc *state.Account) error
	ResolveKeyID(uid state.UserID) (util.Uint160, error)
	GetVoterVotes(keyID util.Uint160) (*state.VoterVotes, error)
	PutVoterVotes(keyID util.Uint160, votes *state.VoterVotes) error
	PutDelegateVote(keyID util.Uint160, votes uint64) error
	EraseDelegateVote(keyID util.Uint160, votes uint64) error
	HasDelegateVote(keyID util.Uint160, votes uint64) bool
	TopDelegates(n int) ([]state.CandidateReceivedVote, error)
	GetTxReceipts(hash util.Uint256) ([]state.Receipt, error)
	PutTxReceipts(hash util.Uint256, receipts []state.Receipt) error
	GetVersion() (string, error)
	PutVersion(v string) error
	GetWrapped() DAO
	Persist() (int, error)
}

// Simple is a memCached wrapper around DB, the simple DAO implementation.
type Simple struct {
	Store *storage.MemCachedStore
}

// NewSimple creates a new simple dao using the provided backend store.
func NewSimple(backend storage.Store) *Simple {
	return &Simple{Store: storage.NewMemCachedStore(backend)}
}

// GetWrapped returns a new DAO instance with another layer of
// MemCachedStore around the current DAO Store. Changes made through the
// wrapped DAO become visible in this one only on its Persist().
func (dao *Simple) GetWrapped() DAO {
	return NewSimple(dao.Store)
}

// Persist flushes all the changes made to the DAO into the underlying
// store.
func (dao *Simple) Persist() (int, error) {
	return dao.Store.Persist()
}

// GetAndDecode performs get operation and decoding with serializable
// structures.
func (dao *Simple) GetAndDecode(entity io.Serializable, key []byte) error {
	entityBytes, err := dao.Store.Get(key)
	if err != nil {
		return err
	}
	reader := io.NewBinReaderFromBuf(entityBytes)
	entity.DecodeBinary(reader)
	return reader.Err
}

// Put performs put operation with serializable structures.
func (dao *Simple) Put(entity io.Serializable, key []byte) error {
	buf := io.NewBufBinWriter()
	entity.EncodeBinary(buf.BinWriter)
	if buf.Err != nil {
		return buf.Err
	}
	return dao.Store.Put(key, buf.Bytes())
}

// -- start accounts.

// ResolveKeyID resolves a user identifier to the canonical account key. A
// public key resolves to its derived key id directly, a registration id is
// resolved through the regid index.
func (dao *Simple) ResolveKeyID(uid state.UserID) (util.Uint160, error) {
	switch uid.Type() {
	case state.UserPubKey:
		return uid.PubKey().GetKeyID(), nil
	case state.UserRegID:
		key := storage.AppendPrefix(storage.STRegID, uid.RegID().Bytes())
		b, err := dao.Store.Get(key)
		if err != nil {
			return util.Uint160{}, err
		}
		return util.Uint160DecodeBytesBE(b)
	default:
		return util.Uint160{}, fmt.Errorf("unresolvable userid type %d", uid.Type())
	}
}

// GetAccount retrieves the Account identified by the given user
// identifier. storage.ErrKeyNotFound is returned both for an unknown
// regid and for a missing account.
func (dao *Simple) GetAccount(uid state.UserID) (*state.Account, error) {
	keyID, err := dao.ResolveKeyID(uid)
	if err != nil {
		return nil, err
	}
	return dao.GetAccountByKeyID(keyID)
}

// GetAccountByKeyID retrieves the Account by its canonical account key.
func (dao *Simple) GetAccountByKeyID(keyID util.Uint160) (*state.Account, error) {
	account := &state.Account{}
	key := storage.AppendPrefix(storage.STAccount, keyID.BytesBE())
	err := dao.GetAndDecode(account, key)
	if err != nil {
		return nil, err
	}
	return account, err
}

// GetAccountOrNew retrieves the Account by the account key or creates a
// fresh one if it's not in the store.
func (dao *Simple) GetAccountOrNew(keyID util.Uint160) (*state.Account, error) {
	account, err := dao.GetAccountByKeyID(keyID)
	if err != nil {
		if err != storage.ErrKeyNotFound {
			return nil, err
		}
		account = state.NewAccount(keyID)
	}
	return account, nil
}

// PutAccount saves the given Account and, when the account carries a
// registration id, updates the regid index.
func (dao *Simple) PutAccount(acc *state.Account) error {
	key := storage.AppendPrefix(storage.STAccount, acc.KeyID.BytesBE())
	if err := dao.Put(acc, key); err != nil {
		return err
	}
	if !acc.RegID.IsEmpty() {
		key = storage.AppendPrefix(storage.STRegID, acc.RegID.Bytes())
		return dao.Store.Put(key, acc.KeyID.BytesBE())
	}
	return nil
}

// -- start voter votes.

// GetVoterVotes returns the candidate vote list owned by the given voter,
// an empty list if the voter has none yet.
func (dao *Simple) GetVoterVotes(keyID util.Uint160) (*state.VoterVotes, error) {
	votes := &state.VoterVotes{}
	key := storage.AppendPrefix(storage.STVoterVotes, keyID.BytesBE())
	err := dao.GetAndDecode(votes, key)
	if err != nil {
		if err != storage.ErrKeyNotFound {
			return nil, err
		}
		votes.Votes = nil
	}
	return votes, nil
}

// PutVoterVotes persists the candidate vote list of the given voter. An
// empty list erases the stored one.
func (dao *Simple) PutVoterVotes(keyID util.Uint160, votes *state.VoterVotes) error {
	key := storage.AppendPrefix(storage.STVoterVotes, keyID.BytesBE())
	if len(votes.Votes) == 0 {
		return dao.Store.Delete(key)
	}
	return dao.Put(votes, key)
}

// -- start delegate index.

// PutDelegateVote inserts a (votes, candidate) entry into the delegate
// ranking index.
func (dao *Simple) PutDelegateVote(keyID util.Uint160, votes uint64) error {
	return dao.Store.Put(storage.DelegateKey(votes, keyID), []byte{1})
}

// EraseDelegateVote removes a (votes, candidate) entry from the delegate
// ranking index.
func (dao *Simple) EraseDelegateVote(keyID util.Uint160, votes uint64) error {
	return dao.Store.Delete(storage.DelegateKey(votes, keyID))
}

// HasDelegateVote checks for a (votes, candidate) entry presence in the
// delegate ranking index.
func (dao *Simple) HasDelegateVote(keyID util.Uint160, votes uint64) bool {
	_, err := dao.Store.Get(storage.DelegateKey(votes, keyID))
	return err == nil
}

// TopDelegates returns up to n candidates in the descending received-vote
// order. Ties are broken by the account key order.
func (dao *Simple) TopDelegates(n int) ([]state.CandidateReceivedVote, error) {
	var (
		res     = make([]state.CandidateReceivedVote, 0, n)
		seekErr error
	)
	dao.Store.Seek(storage.STDelegate.Bytes(), func(k, v []byte) bool {
		votes, keyID, err := storage.ParseDelegateKey(k)
		if err != nil {
			seekErr = err
			return false
		}
		res = append(res, state.CandidateReceivedVote{Candidate: keyID, Votes: votes})
		return len(res) < n
	})
	if seekErr != nil {
		return nil, seekErr
	}
	return res, nil
}

// -- start receipts.

// GetTxReceipts returns the receipts recorded for the given transaction
// hash.
func (dao *Simple) GetTxReceipts(hash util.Uint256) ([]state.Receipt, error) {
	key := storage.AppendPrefix(storage.STTxReceipts, hash.BytesBE())
	b, err := dao.Store.Get(key)
	if err != nil {
		return nil, err
	}
	var receipts []state.Receipt
	r := io.NewBinReaderFromBuf(b)
	r.ReadArray(&receipts)
	if r.Err != nil {
		return nil, r.Err
	}
	return receipts, nil
}

// PutTxReceipts stores the receipt batch of an executed transaction under
// its hash.
func (dao *Simple) PutTxReceipts(hash util.Uint256, receipts []state.Receipt) error {
	buf := io.NewBufBinWriter()
	buf.WriteArray(receipts)
	if buf.Err != nil {
		return buf.Err
	}
	key := storage.AppendPrefix(storage.STTxReceipts, hash.BytesBE())
	return dao.Store.Put(key, buf.Bytes())
}

// -- start version.

// GetVersion attempts to get the current version stored in the
// underlying store.
func (dao *Simple) GetVersion() (string, error) {
	version, err := dao.Store.Get(storage.SYSVersion.Bytes())
	return string(version), err
}

// PutVersion stores the given version in the underlying store.
func (dao *Simple) PutVersion(v string) error {
	return dao.Store.Put(storage.SYSVersion.Bytes(), []byte(v))
}
