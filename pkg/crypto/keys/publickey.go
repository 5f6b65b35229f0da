package keys

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/tidechain/tide-go/pkg/crypto/hash"
	"github.com/tidechain/tide-go/pkg/encoding/address"
	"github.com/tidechain/tide-go/pkg/io"
	"github.com/tidechain/tide-go/pkg/util"
)

// CompressedKeySize is the length of a serialized compressed public key.
const CompressedKeySize = 33

// PublicKey represents a secp256k1 public key and provides an API around
// point validation, account key derivation and signature checking. The
// zero value is an empty (unset) key.
type PublicKey struct {
	k *secp256k1.PublicKey
}

// NewPublicKeyFromBytes returns a public key created from b. The encoded
// point is required to be a valid curve point, otherwise an error is
// returned.
func NewPublicKeyFromBytes(b []byte) (*PublicKey, error) {
	if len(b) != CompressedKeySize {
		return nil, fmt.Errorf("invalid key size %d", len(b))
	}
	k, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, err
	}
	return &PublicKey{k: k}, nil
}

// NewPublicKeyFromString returns a public key created from the given hex
// string.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return NewPublicKeyFromBytes(b)
}

// Bytes returns a compressed byte array representation of the public key.
func (p *PublicKey) Bytes() []byte {
	if p == nil || p.k == nil {
		return nil
	}
	return p.k.SerializeCompressed()
}

// IsValid denotes whether the key holds a proper curve point. Keys decoded
// from the wire are always valid, this only returns false for the zero
// value.
func (p *PublicKey) IsValid() bool {
	return p != nil && p.k != nil
}

// Equal returns true in case public keys are equal.
func (p *PublicKey) Equal(key *PublicKey) bool {
	if !p.IsValid() || !key.IsValid() {
		return p.IsValid() == key.IsValid()
	}
	return p.k.IsEqual(key.k)
}

// GetKeyID returns a key id (Hash160 of the compressed key bytes), the
// canonical account key for this public key.
func (p *PublicKey) GetKeyID() util.Uint160 {
	return hash.Hash160(p.Bytes())
}

// Address returns the base58-encoded ledger address for this key.
func (p *PublicKey) Address() string {
	return address.Uint160ToString(p.GetKeyID())
}

// Verify returns true if the DER-encoded signature sig is a valid signature
// of data made with the corresponding private key. Data is hashed with
// double sha256 before checking.
func (p *PublicKey) Verify(data []byte, sig []byte) bool {
	if !p.IsValid() {
		return false
	}
	s, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	digest := hash.DoubleSha256(data)
	return s.Verify(digest.BytesBE(), p.k)
}

// VerifyHashable returns true if the signature sig is a valid signature
// of the hashable item made with the corresponding private key.
func (p *PublicKey) VerifyHashable(sig []byte, hh hash.Hashable) bool {
	if !p.IsValid() {
		return false
	}
	s, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	h := hh.Hash()
	return s.Verify(h.BytesBE(), p.k)
}

// DecodeBinary decodes a PublicKey from the given BinReader.
func (p *PublicKey) DecodeBinary(r *io.BinReader) {
	b := r.ReadVarBytes(CompressedKeySize)
	if r.Err != nil {
		return
	}
	if len(b) == 0 {
		p.k = nil
		return
	}
	k, err := NewPublicKeyFromBytes(b)
	if err != nil {
		r.Err = err
		return
	}
	p.k = k.k
}

// EncodeBinary encodes a PublicKey to the given BinWriter. An unset key is
// encoded as a zero-length byte string.
func (p *PublicKey) EncodeBinary(w *io.BinWriter) {
	w.WriteVarBytes(p.Bytes())
}

// MarshalJSON implements the json.Marshaler interface.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hex.EncodeToString(p.Bytes()) + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	l := len(data)
	if l < 2 || data[0] != '"' || data[l-1] != '"' {
		return errors.New("wrong format")
	}

	bytes := make([]byte, hex.DecodedLen(l-2))
	_, err := hex.Decode(bytes, data[1:l-1])
	if err != nil {
		return err
	}
	np, err := NewPublicKeyFromBytes(bytes)
	if err != nil {
		return err
	}
	p.k = np.k

	return nil
}

// String implements the Stringer interface.
func (p *PublicKey) String() string {
	return hex.EncodeToString(p.Bytes())
}
