package transaction

import "fmt"

// TxType is the type of a transaction.
type TxType byte

// Transaction types. Only the delegate vote transaction is processed by
// this core, the other values are reserved by the wire format.
const (
	RewardType       TxType = 0x01
	RegisterType     TxType = 0x02
	TransferType     TxType = 0x03
	ContractType     TxType = 0x04
	DelegateVoteType TxType = 0x06
)

// String implements the stringer interface.
func (t TxType) String() string {
	switch t {
	case RewardType:
		return "BLOCK_REWARD_TX"
	case RegisterType:
		return "ACCOUNT_REGISTER_TX"
	case TransferType:
		return "BCOIN_TRANSFER_TX"
	case ContractType:
		return "CONTRACT_INVOKE_TX"
	case DelegateVoteType:
		return "DELEGATE_VOTE_TX"
	default:
		return fmt.Sprintf("UNKNOWN_TX(%d)", byte(t))
	}
}
