package state

import (
	"fmt"

	"github.com/tidechain/tide-go/pkg/io"
	"github.com/tidechain/tide-go/pkg/util"
)

// ReceiptType is the kind of a single state-mutation effect recorded by a
// receipt.
type ReceiptType byte

// Possible receipt types.
const (
	// ReceiptFeeDebit records the transaction fee leaving the sender's
	// balance.
	ReceiptFeeDebit ReceiptType = 1
	// ReceiptStakeCredit records vote weight staked onto a candidate.
	ReceiptStakeCredit ReceiptType = 2
	// ReceiptStakeDebit records vote weight removed from a candidate.
	ReceiptStakeDebit ReceiptType = 3
)

// String implements the stringer interface.
func (t ReceiptType) String() string {
	switch t {
	case ReceiptFeeDebit:
		return "fee-debit"
	case ReceiptStakeCredit:
		return "stake-credit"
	case ReceiptStakeDebit:
		return "stake-debit"
	default:
		return fmt.Sprintf("receipt(%d)", byte(t))
	}
}

// Receipt is an immutable record of one state-mutation effect caused by an
// executed transaction. Receipts are batched per transaction and stored
// under the transaction hash.
type Receipt struct {
	Account util.Uint160
	Type    ReceiptType
	Amount  uint64
}

// EncodeBinary implements the io.Serializable interface.
func (r *Receipt) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(r.Account.BytesBE())
	w.WriteB(byte(r.Type))
	w.WriteU64LE(r.Amount)
}

// DecodeBinary implements the io.Serializable interface.
func (r *Receipt) DecodeBinary(br *io.BinReader) {
	br.ReadBytes(r.Account[:])
	r.Type = ReceiptType(br.ReadB())
	r.Amount = br.ReadU64LE()
}

// MarshalJSON implements the json.Marshaler interface.
func (r Receipt) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"account":"0x%s","type":%q,"amount":%d}`,
		r.Account.String(), r.Type.String(), r.Amount)), nil
}
