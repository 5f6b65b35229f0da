package transaction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidechain/tide-go/pkg/core/state"
	"github.com/tidechain/tide-go/pkg/crypto/hash"
	"github.com/tidechain/tide-go/pkg/crypto/keys"
	"github.com/tidechain/tide-go/pkg/io"
	"github.com/tidechain/tide-go/pkg/util"
)

// CurrentVersion is the transaction format version produced by this node.
const CurrentVersion = 1

// Transaction is a delegate vote transaction: the sender redistributes its
// vote weight over the listed candidates. The field order is significant
// for the canonical serialization.
type Transaction struct {
	// Type is always DelegateVoteType for this core.
	Type TxType
	// Version of the transaction format.
	Version uint8
	// TxUID identifies the sender, by registration id or by public key.
	TxUID state.UserID
	// Fees is the transaction fee in the smallest base coin units.
	Fees uint64
	// ValidHeight bounds the height the transaction may be included at.
	ValidHeight uint32
	// Votes is the candidate vote list, in submission order.
	Votes []*state.CandidateVote
	// Signature is a DER-encoded signature of the signed part.
	Signature []byte

	hash   util.Uint256
	hashed bool
}

// New returns a new delegate vote transaction for the given sender and
// vote list.
func New(uid state.UserID, fees uint64, validHeight uint32, votes []*state.CandidateVote) *Transaction {
	return &Transaction{
		Type:        DelegateVoteType,
		Version:     CurrentVersion,
		TxUID:       uid,
		Fees:        fees,
		ValidHeight: validHeight,
		Votes:       votes,
	}
}

// encodeSignedPart writes all fields covered by the signature.
func (t *Transaction) encodeSignedPart(w *io.BinWriter) {
	w.WriteB(byte(t.Type))
	w.WriteB(t.Version)
	t.TxUID.EncodeBinary(w)
	w.WriteU64LE(t.Fees)
	w.WriteU32LE(t.ValidHeight)
	w.WriteArray(t.Votes)
}

// EncodeBinary implements the io.Serializable interface.
func (t *Transaction) EncodeBinary(w *io.BinWriter) {
	t.encodeSignedPart(w)
	w.WriteVarBytes(t.Signature)
}

// DecodeBinary implements the io.Serializable interface.
func (t *Transaction) DecodeBinary(r *io.BinReader) {
	t.Type = TxType(r.ReadB())
	t.Version = r.ReadB()
	t.TxUID.DecodeBinary(r)
	t.Fees = r.ReadU64LE()
	t.ValidHeight = r.ReadU32LE()
	r.ReadArray(&t.Votes)
	t.Signature = r.ReadVarBytes()
	t.hashed = false
}

// SignedPart returns the serialized transaction fields covered by the
// signature.
func (t *Transaction) SignedPart() ([]byte, error) {
	buf := io.NewBufBinWriter()
	t.encodeSignedPart(buf.BinWriter)
	if buf.Err != nil {
		return nil, buf.Err
	}
	return buf.Bytes(), nil
}

// Sign signs the transaction with the given key, replacing any previous
// signature.
func (t *Transaction) Sign(priv *keys.PrivateKey) error {
	part, err := t.SignedPart()
	if err != nil {
		return err
	}
	t.Signature = priv.Sign(part)
	t.hashed = false
	return nil
}

// VerifySignature checks the transaction signature against the given
// public key.
func (t *Transaction) VerifySignature(pub *keys.PublicKey) bool {
	part, err := t.SignedPart()
	if err != nil {
		return false
	}
	return pub.Verify(part, t.Signature)
}

// Hash returns the hash of the canonical transaction encoding. The value
// is cached, decoding the transaction anew invalidates the cache.
func (t *Transaction) Hash() util.Uint256 {
	if !t.hashed {
		buf := io.NewBufBinWriter()
		t.EncodeBinary(buf.BinWriter)
		if buf.Err != nil {
			panic(fmt.Errorf("failed to serialize tx: %w", buf.Err))
		}
		t.hash = hash.DoubleSha256(buf.Bytes())
		t.hashed = true
	}
	return t.hash
}

// String implements the stringer interface. The format is stable for logs
// but is not a part of consensus.
func (t *Transaction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "txType=%s, hash=%s, ver=%d, txUid=%s, llFees=%d, valid_height=%d",
		t.Type, t.Hash(), t.Version, t.TxUID, t.Fees, t.ValidHeight)
	b.WriteString("vote: ")
	for _, vote := range t.Votes {
		b.WriteString(vote.String())
	}
	return b.String()
}

// MarshalJSON implements the json.Marshaler interface.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	votes := make([]state.CandidateVote, len(t.Votes))
	for i := range t.Votes {
		votes[i] = *t.Votes[i]
	}
	return json.Marshal(map[string]interface{}{
		"txtype":          t.Type.String(),
		"version":         t.Version,
		"tx_uid":          t.TxUID,
		"fees":            t.Fees,
		"valid_height":    t.ValidHeight,
		"hash":            t.Hash(),
		"candidate_votes": votes,
	})
}
