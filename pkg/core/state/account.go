package state

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tidechain/tide-go/pkg/config"
	"github.com/tidechain/tide-go/pkg/crypto/keys"
	"github.com/tidechain/tide-go/pkg/io"
	"github.com/tidechain/tide-go/pkg/util"
)

// AssetSymbol names an asset inside account balances.
type AssetSymbol string

// BaseCoin is the symbol of the primary asset fees and votes are
// denominated in.
const BaseCoin AssetSymbol = "TIDE"

// BalanceOp is an operation over the free balance of one account asset.
type BalanceOp byte

// Possible balance operations.
const (
	AddFree BalanceOp = iota
	SubFree
)

// ErrInsufficientFunds is returned on an attempt to spend more than the
// account holds.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidVotes is returned when a received-vote mutation would under- or
// overflow the allowed range.
var ErrInvalidVotes = errors.New("votes out of range")

// Account represents the state of a ledger account. The account key id is
// stable once assigned, the registration id and the owner public key get
// assigned lazily by the first transaction the account sends.
type Account struct {
	KeyID         util.Uint160
	RegID         RegID
	OwnerPubKey   *keys.PublicKey
	Balances      map[AssetSymbol]uint64
	ReceivedVotes uint64
}

// NewAccount returns a new Account object with the given key id.
func NewAccount(keyID util.Uint160) *Account {
	return &Account{
		KeyID:    keyID,
		Balances: make(map[AssetSymbol]uint64),
	}
}

// HasOwnerPubKey denotes whether the owner public key is already known,
// i.e. the account has been registered.
func (a *Account) HasOwnerPubKey() bool {
	return a.OwnerPubKey.IsValid()
}

// GetBalance returns the free balance of the given asset.
func (a *Account) GetBalance(sym AssetSymbol) uint64 {
	return a.Balances[sym]
}

// OperateBalance adds or subtracts amount on the free balance of the given
// asset. Subtracting more than the account holds fails with
// ErrInsufficientFunds and changes nothing.
func (a *Account) OperateBalance(sym AssetSymbol, op BalanceOp, amount uint64) error {
	balance := a.Balances[sym]
	switch op {
	case AddFree:
		if balance+amount < balance {
			return fmt.Errorf("%s balance overflow", sym)
		}
		balance += amount
	case SubFree:
		if balance < amount {
			return fmt.Errorf("%w: %s balance %d, need %d", ErrInsufficientFunds, sym, balance, amount)
		}
		balance -= amount
	default:
		return fmt.Errorf("unknown balance op %d", op)
	}
	if a.Balances == nil {
		a.Balances = make(map[AssetSymbol]uint64)
	}
	a.Balances[sym] = balance
	return nil
}

// StakeVotes mutates the received vote weight of the account by the given
// vote operation. Unstaking more than is currently staked or exceeding
// MaxCoinMoney fails with ErrInvalidVotes.
func (a *Account) StakeVotes(op VoteOp, votes uint64) error {
	switch op {
	case OpStake:
		if a.ReceivedVotes+votes < a.ReceivedVotes || a.ReceivedVotes+votes > config.MaxCoinMoney {
			return fmt.Errorf("%w: %d staked over %d", ErrInvalidVotes, votes, a.ReceivedVotes)
		}
		a.ReceivedVotes += votes
	case OpUnstake:
		if a.ReceivedVotes < votes {
			return fmt.Errorf("%w: %d unstaked while %d staked", ErrInvalidVotes, votes, a.ReceivedVotes)
		}
		a.ReceivedVotes -= votes
	default:
		return fmt.Errorf("unknown vote op %d", op)
	}
	return nil
}

// EncodeBinary implements the io.Serializable interface.
func (a *Account) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(a.KeyID.BytesBE())
	a.RegID.EncodeBinary(w)
	if a.OwnerPubKey.IsValid() {
		a.OwnerPubKey.EncodeBinary(w)
	} else {
		w.WriteVarBytes(nil)
	}
	// Keep the balances order stable, the account encoding gets persisted.
	syms := make([]string, 0, len(a.Balances))
	for sym := range a.Balances {
		syms = append(syms, string(sym))
	}
	sort.Strings(syms)
	w.WriteVarUint(uint64(len(syms)))
	for _, sym := range syms {
		w.WriteString(sym)
		w.WriteU64LE(a.Balances[AssetSymbol(sym)])
	}
	w.WriteU64LE(a.ReceivedVotes)
}

// DecodeBinary implements the io.Serializable interface.
func (a *Account) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(a.KeyID[:])
	a.RegID.DecodeBinary(r)
	pub := new(keys.PublicKey)
	pub.DecodeBinary(r)
	if pub.IsValid() {
		a.OwnerPubKey = pub
	} else {
		a.OwnerPubKey = nil
	}
	count := r.ReadVarUint()
	a.Balances = make(map[AssetSymbol]uint64, count)
	for i := uint64(0); i < count && r.Err == nil; i++ {
		sym := r.ReadString()
		a.Balances[AssetSymbol(sym)] = r.ReadU64LE()
	}
	a.ReceivedVotes = r.ReadU64LE()
}
