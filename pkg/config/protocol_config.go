package config

import (
	"errors"
)

const (
	// BaseCoinUnit is the number of the smallest indivisible coin units
	// in one base coin.
	BaseCoinUnit = 100000000
	// MaxCoinMoney is the hard cap of the base coin, in the smallest
	// units. No fee or vote weight can exceed it.
	MaxCoinMoney = 210000000 * BaseCoinUnit
)

// ProtocolConfiguration represents the protocol config.
type ProtocolConfiguration struct {
	// Magic is the network identifier.
	Magic uint32 `yaml:"Magic"`
	// MaxVoteCandidateNum is the maximum number of candidate vote entries
	// allowed in a single delegate vote transaction.
	MaxVoteCandidateNum uint32 `yaml:"MaxVoteCandidateNum"`
	// MinVoteTxFee is the minimal fee for a delegate vote transaction in
	// the smallest coin units.
	MinVoteTxFee uint64 `yaml:"MinVoteTxFee"`
	// R2ForkHeight is the height the MAJOR_VER_R2 feature set (strong
	// transaction authentication) activates at.
	R2ForkHeight uint32 `yaml:"R2ForkHeight"`
	// R3ForkHeight is the height the MAJOR_VER_R3 feature set activates at.
	R3ForkHeight uint32 `yaml:"R3ForkHeight"`
}

// MajorVersion is the protocol feature version active at some height.
type MajorVersion byte

// Feature versions, ordered. Later versions include all earlier behaviour.
const (
	MajorVerR1 MajorVersion = 1
	MajorVerR2 MajorVersion = 2
	MajorVerR3 MajorVersion = 3
)

// ForkVersion returns the protocol feature version active at the given
// height.
func (p ProtocolConfiguration) ForkVersion(height uint32) MajorVersion {
	switch {
	case p.R3ForkHeight != 0 && height >= p.R3ForkHeight:
		return MajorVerR3
	case p.R2ForkHeight != 0 && height >= p.R2ForkHeight:
		return MajorVerR2
	default:
		return MajorVerR1
	}
}

// Validate checks ProtocolConfiguration for internal consistency.
func (p ProtocolConfiguration) Validate() error {
	if p.MaxVoteCandidateNum == 0 {
		return errors.New("MaxVoteCandidateNum can't be 0")
	}
	if p.MinVoteTxFee > MaxCoinMoney {
		return errors.New("MinVoteTxFee exceeds MaxCoinMoney")
	}
	if p.R3ForkHeight != 0 && p.R3ForkHeight < p.R2ForkHeight {
		return errors.New("R3 fork is below the R2 fork")
	}
	return nil
}
