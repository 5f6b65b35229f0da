package core

import (
	"github.com/tidechain/tide-go/pkg/config"
	"github.com/tidechain/tide-go/pkg/core/transaction"
)

// Feer is an interface that abstracts the implementation of the fee
// policy.
type Feer interface {
	// MinimumFee returns the minimal acceptable fee for the given
	// transaction type at the given height.
	MinimumFee(t transaction.TxType, height uint32) uint64
}

// protocolFeer is a Feer that takes the minimal fee from the protocol
// configuration regardless of height.
type protocolFeer struct {
	cfg config.ProtocolConfiguration
}

// NewProtocolFeer returns a Feer backed by the protocol configuration.
func NewProtocolFeer(cfg config.ProtocolConfiguration) Feer {
	return protocolFeer{cfg: cfg}
}

// MinimumFee implements the Feer interface.
func (f protocolFeer) MinimumFee(t transaction.TxType, height uint32) uint64 {
	return f.cfg.MinVoteTxFee
}
