package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidechain/tide-go/internal/testserdes"
	"github.com/tidechain/tide-go/pkg/config"
	"github.com/tidechain/tide-go/pkg/crypto/keys"
	"github.com/tidechain/tide-go/pkg/util"
)

func TestAccountEncodeDecode(t *testing.T) {
	acc := &Account{
		KeyID: util.Uint160{1, 2, 3},
		RegID: RegID{Height: 100, Index: 2},
		Balances: map[AssetSymbol]uint64{
			BaseCoin: 5000,
			"WUSD":   13,
		},
		ReceivedVotes: 100500,
	}
	testserdes.EncodeDecodeBinary(t, acc, new(Account))
}

func TestAccountEncodeDecodeWithOwnerKey(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)

	acc := NewAccount(priv.GetKeyID())
	acc.OwnerPubKey = priv.PublicKey()

	data, err := testserdes.EncodeBinary(acc)
	require.NoError(t, err)
	got := new(Account)
	require.NoError(t, testserdes.DecodeBinary(data, got))

	assert.Equal(t, acc.KeyID, got.KeyID)
	assert.True(t, got.HasOwnerPubKey())
	assert.True(t, acc.OwnerPubKey.Equal(got.OwnerPubKey))
}

func TestHasOwnerPubKey(t *testing.T) {
	acc := NewAccount(util.Uint160{1})
	assert.False(t, acc.HasOwnerPubKey())

	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	acc.OwnerPubKey = priv.PublicKey()
	assert.True(t, acc.HasOwnerPubKey())
}

func TestOperateBalance(t *testing.T) {
	acc := NewAccount(util.Uint160{1})

	require.NoError(t, acc.OperateBalance(BaseCoin, AddFree, 5000))
	assert.Equal(t, uint64(5000), acc.GetBalance(BaseCoin))

	require.NoError(t, acc.OperateBalance(BaseCoin, SubFree, 100))
	assert.Equal(t, uint64(4900), acc.GetBalance(BaseCoin))

	err := acc.OperateBalance(BaseCoin, SubFree, 5000)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	// Failed operation must leave the balance untouched.
	assert.Equal(t, uint64(4900), acc.GetBalance(BaseCoin))
}

func TestStakeVotes(t *testing.T) {
	acc := NewAccount(util.Uint160{1})

	require.NoError(t, acc.StakeVotes(OpStake, 1000))
	assert.Equal(t, uint64(1000), acc.ReceivedVotes)

	require.NoError(t, acc.StakeVotes(OpUnstake, 400))
	assert.Equal(t, uint64(600), acc.ReceivedVotes)

	err := acc.StakeVotes(OpUnstake, 601)
	require.ErrorIs(t, err, ErrInvalidVotes)
	assert.Equal(t, uint64(600), acc.ReceivedVotes)

	err = acc.StakeVotes(OpStake, config.MaxCoinMoney)
	require.ErrorIs(t, err, ErrInvalidVotes)
	assert.Equal(t, uint64(600), acc.ReceivedVotes)
}
