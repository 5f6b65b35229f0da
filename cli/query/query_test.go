package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidechain/tide-go/pkg/core/dao"
	"github.com/tidechain/tide-go/pkg/core/state"
	"github.com/tidechain/tide-go/pkg/core/storage"
	"github.com/tidechain/tide-go/pkg/crypto/keys"
	"github.com/tidechain/tide-go/pkg/encoding/address"
)

func TestParseAccountArg(t *testing.T) {
	d := dao.NewSimple(storage.NewMemoryStore())

	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	acc := state.NewAccount(priv.GetKeyID())
	acc.RegID = state.RegID{Height: 12, Index: 3}
	acc.OwnerPubKey = priv.PublicKey()
	require.NoError(t, d.PutAccount(acc))

	for _, arg := range []string{
		"12-3",
		address.Uint160ToString(acc.KeyID),
		acc.KeyID.String(),
		priv.PublicKey().String(),
	} {
		keyID, err := ParseAccountArg(d, arg)
		require.NoError(t, err, arg)
		assert.Equal(t, acc.KeyID, keyID, arg)
	}

	_, err = ParseAccountArg(d, "garbage")
	assert.Error(t, err)
}
