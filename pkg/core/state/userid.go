package state

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidechain/tide-go/pkg/crypto/keys"
	"github.com/tidechain/tide-go/pkg/io"
)

// RegID is a compact account registration id assigned deterministically
// from the position of the first transaction sent from the account: the
// block height and the transaction index inside that block.
type RegID struct {
	Height uint32
	Index  uint16
}

// IsEmpty denotes whether the id is unassigned.
func (r RegID) IsEmpty() bool {
	return r.Height == 0 && r.Index == 0
}

// String implements the stringer interface.
func (r RegID) String() string {
	return strconv.FormatUint(uint64(r.Height), 10) + "-" + strconv.FormatUint(uint64(r.Index), 10)
}

// RegIDFromString decodes a "height-index" string form of RegID.
func RegIDFromString(s string) (RegID, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return RegID{}, errors.New("invalid regid format")
	}
	h, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return RegID{}, fmt.Errorf("invalid regid height: %w", err)
	}
	i, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return RegID{}, fmt.Errorf("invalid regid index: %w", err)
	}
	return RegID{Height: uint32(h), Index: uint16(i)}, nil
}

// Bytes returns the fixed 6-byte storage form of RegID.
func (r RegID) Bytes() []byte {
	b := make([]byte, 6)
	b[0] = byte(r.Height >> 24)
	b[1] = byte(r.Height >> 16)
	b[2] = byte(r.Height >> 8)
	b[3] = byte(r.Height)
	b[4] = byte(r.Index >> 8)
	b[5] = byte(r.Index)
	return b
}

// EncodeBinary implements the io.Serializable interface.
func (r *RegID) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(r.Height)
	w.WriteU16LE(r.Index)
}

// DecodeBinary implements the io.Serializable interface.
func (r *RegID) DecodeBinary(br *io.BinReader) {
	r.Height = br.ReadU32LE()
	r.Index = br.ReadU16LE()
}

// UserIDType is a tag discriminating the kinds of account identifiers a
// transaction can carry.
type UserIDType byte

// Possible UserID kinds.
const (
	// UserEmpty is an unset identifier.
	UserEmpty UserIDType = 0
	// UserRegID identifies an account by its registration id.
	UserRegID UserIDType = 1
	// UserPubKey identifies an account by its owner public key.
	UserPubKey UserIDType = 2
)

// UserID identifies a ledger account either by its registration id or by
// the raw owner public key, never both. Resolution to the canonical
// account key is an explicit operation requiring a store lookup for the
// UserRegID kind.
type UserID struct {
	typ UserIDType
	reg RegID
	pub *keys.PublicKey
}

// NewUserIDFromRegID creates an identifier of the UserRegID kind.
func NewUserIDFromRegID(reg RegID) UserID {
	return UserID{typ: UserRegID, reg: reg}
}

// NewUserIDFromPubKey creates an identifier of the UserPubKey kind.
func NewUserIDFromPubKey(pub *keys.PublicKey) UserID {
	return UserID{typ: UserPubKey, pub: pub}
}

// Type returns the identifier kind.
func (u UserID) Type() UserIDType {
	return u.typ
}

// RegID returns the registration id carried by an UserRegID identifier.
func (u UserID) RegID() RegID {
	return u.reg
}

// PubKey returns the public key carried by an UserPubKey identifier.
func (u UserID) PubKey() *keys.PublicKey {
	return u.pub
}

// IsEmpty denotes whether the identifier is unset.
func (u UserID) IsEmpty() bool {
	return u.typ == UserEmpty
}

// String implements the stringer interface.
func (u UserID) String() string {
	switch u.typ {
	case UserRegID:
		return u.reg.String()
	case UserPubKey:
		return u.pub.String()
	default:
		return ""
	}
}

// EncodeBinary implements the io.Serializable interface.
func (u *UserID) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(u.typ))
	switch u.typ {
	case UserRegID:
		u.reg.EncodeBinary(w)
	case UserPubKey:
		u.pub.EncodeBinary(w)
	}
}

// DecodeBinary implements the io.Serializable interface.
func (u *UserID) DecodeBinary(r *io.BinReader) {
	u.typ = UserIDType(r.ReadB())
	switch u.typ {
	case UserEmpty:
	case UserRegID:
		u.reg.DecodeBinary(r)
	case UserPubKey:
		u.pub = new(keys.PublicKey)
		u.pub.DecodeBinary(r)
	default:
		if r.Err == nil {
			r.Err = fmt.Errorf("unknown userid type %d", u.typ)
		}
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (u UserID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + u.String() + `"`), nil
}
