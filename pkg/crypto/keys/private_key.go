package keys

import (
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/tidechain/tide-go/pkg/crypto/hash"
	"github.com/tidechain/tide-go/pkg/util"
)

// PrivateKey represents a secp256k1 private key.
type PrivateKey struct {
	k *secp256k1.PrivateKey
}

// NewPrivateKey creates a new random secp256k1 private key.
func NewPrivateKey() (*PrivateKey, error) {
	k, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &PrivateKey{k: k}, nil
}

// NewPrivateKeyFromBytes returns a private key created from b.
func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("invalid key size %d", len(b))
	}
	return &PrivateKey{k: secp256k1.PrivKeyFromBytes(b)}, nil
}

// NewPrivateKeyFromHex returns a PrivateKey created from the given hex
// string.
func NewPrivateKeyFromHex(str string) (*PrivateKey, error) {
	b, err := hex.DecodeString(str)
	if err != nil {
		return nil, err
	}
	return NewPrivateKeyFromBytes(b)
}

// PublicKey derives the public key from the private key.
func (p *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{k: p.k.PubKey()}
}

// GetKeyID returns the key id of the derived public key.
func (p *PrivateKey) GetKeyID() util.Uint160 {
	return p.PublicKey().GetKeyID()
}

// Address derives the ledger address of the derived public key.
func (p *PrivateKey) Address() string {
	return p.PublicKey().Address()
}

// Bytes returns the underlying 32-byte scalar.
func (p *PrivateKey) Bytes() []byte {
	return p.k.Serialize()
}

// Sign signs arbitrary data with double sha256 prehashing and returns a
// DER-encoded signature.
func (p *PrivateKey) Sign(data []byte) []byte {
	digest := hash.DoubleSha256(data)
	return ecdsa.Sign(p.k, digest.BytesBE()).Serialize()
}

// SignHashable signs the hash of the given item and returns a DER-encoded
// signature.
func (p *PrivateKey) SignHashable(hh hash.Hashable) []byte {
	h := hh.Hash()
	return ecdsa.Sign(p.k, h.BytesBE()).Serialize()
}

// String implements the stringer interface.
func (p *PrivateKey) String() string {
	return hex.EncodeToString(p.Bytes())
}
