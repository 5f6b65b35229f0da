package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tidechain/tide-go/pkg/core/storage/dbconfig"
	"github.com/tidechain/tide-go/pkg/util"
)

// KeyPrefix constants.
const (
	// STAccount is used for accounts, keyed by the account key id.
	STAccount KeyPrefix = 0x01
	// STRegID maps a registration id to the account key id it was
	// assigned to.
	STRegID KeyPrefix = 0x02
	// STVoterVotes is used for per-voter candidate vote lists, keyed by
	// the voter's account key id.
	STVoterVotes KeyPrefix = 0x03
	// STDelegate is used for the delegate ranking index. Keys are
	// composed so that a forward seek walks candidates in descending
	// received-vote order, values are placeholders.
	STDelegate KeyPrefix = 0x04
	// STTxReceipts is used for per-transaction receipt lists, keyed by
	// the transaction hash.
	STTxReceipts KeyPrefix = 0x05
	// SYSVersion is used for the DB format version.
	SYSVersion KeyPrefix = 0xf0
)

// ErrKeyNotFound is an error returned by Store implementations
// when a certain key is not found.
var ErrKeyNotFound = errors.New("key not found")

type (
	// Store is anything that can persist and retrieve the blockchain state.
	Store interface {
		Batch() Batch
		Delete(k []byte) error
		Get([]byte) ([]byte, error)
		Put(k, v []byte) error
		PutBatch(Batch) error
		// Seek calls f for all key-value pairs with the given prefix, in
		// the ascending key order, until false is returned from f. Key
		// and value slices should not be modified.
		Seek(k []byte, f func(k, v []byte) bool)
		Close() error
	}

	// Batch represents an abstraction on top of batch operations.
	// Each Store implementation is responsible of casting a Batch
	// to its appropriate type.
	Batch interface {
		Delete(k []byte)
		Put(k, v []byte)
	}

	// KeyPrefix is a constant byte added as a prefix for each key
	// stored.
	KeyPrefix uint8
)

// Bytes returns the bytes representation of KeyPrefix.
func (k KeyPrefix) Bytes() []byte {
	return []byte{byte(k)}
}

// AppendPrefix appends byteslice b to the given KeyPrefix.
func AppendPrefix(k KeyPrefix, b []byte) []byte {
	dest := make([]byte, 0, 1+len(b))
	dest = append(dest, byte(k))
	return append(dest, b...)
}

// DelegateKey composes an STDelegate index key from the given vote weight
// and candidate account key. The weight is stored inverted in big-endian
// form, so lexicographic (seek) order is the descending weight order, with
// the account key breaking ties.
func DelegateKey(votes uint64, keyID util.Uint160) []byte {
	dest := make([]byte, 0, 1+8+util.Uint160Size)
	dest = append(dest, byte(STDelegate))
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], ^votes)
	dest = append(dest, buf[:]...)
	return append(dest, keyID.BytesBE()...)
}

// ParseDelegateKey decomposes a key produced by DelegateKey back into the
// vote weight and candidate account key.
func ParseDelegateKey(key []byte) (uint64, util.Uint160, error) {
	if len(key) != 1+8+util.Uint160Size || KeyPrefix(key[0]) != STDelegate {
		return 0, util.Uint160{}, errors.New("not a delegate index key")
	}
	votes := ^binary.BigEndian.Uint64(key[1:9])
	keyID, err := util.Uint160DecodeBytesBE(key[9:])
	return votes, keyID, err
}

// NewStore creates storage with preselected in configuration database type.
func NewStore(cfg dbconfig.DBConfiguration) (Store, error) {
	var store Store
	var err error
	switch cfg.Type {
	case dbconfig.LevelDB:
		store, err = NewLevelDBStore(cfg.LevelDBOptions)
	case dbconfig.InMemoryDB:
		store = NewMemoryStore()
	case dbconfig.BoltDB:
		store, err = NewBoltDBStore(cfg.BoltDBOptions)
	default:
		return nil, fmt.Errorf("unknown storage: %s", cfg.Type)
	}
	return store, err
}
