package transaction

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidechain/tide-go/internal/testserdes"
	"github.com/tidechain/tide-go/pkg/core/state"
	"github.com/tidechain/tide-go/pkg/crypto/keys"
)

func newTestTx() *Transaction {
	return New(
		state.NewUserIDFromRegID(state.RegID{Height: 10, Index: 1}),
		10000,
		450,
		[]*state.CandidateVote{
			{
				Candidate: state.NewUserIDFromRegID(state.RegID{Height: 2, Index: 3}),
				Votes:     1000,
				Op:        state.OpStake,
			},
			{
				Candidate: state.NewUserIDFromRegID(state.RegID{Height: 4, Index: 5}),
				Votes:     500,
				Op:        state.OpUnstake,
			},
		},
	)
}

func TestEncodeDecode(t *testing.T) {
	tx := newTestTx()
	tx.Signature = []byte{1, 2, 3}
	testserdes.EncodeDecodeBinary(t, tx, new(Transaction))
}

func TestHashStability(t *testing.T) {
	tx := newTestTx()
	h := tx.Hash()
	assert.Equal(t, h, tx.Hash())

	data, err := testserdes.EncodeBinary(tx)
	require.NoError(t, err)
	decoded := new(Transaction)
	require.NoError(t, testserdes.DecodeBinary(data, decoded))
	assert.Equal(t, h, decoded.Hash())
}

func TestSignVerify(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)

	tx := newTestTx()
	require.NoError(t, tx.Sign(priv))
	assert.True(t, tx.VerifySignature(priv.PublicKey()))

	other, err := keys.NewPrivateKey()
	require.NoError(t, err)
	assert.False(t, tx.VerifySignature(other.PublicKey()))

	// Any mutation of the signed part invalidates the signature.
	tx.Fees++
	assert.False(t, tx.VerifySignature(priv.PublicKey()))
}

func TestStringForm(t *testing.T) {
	tx := newTestTx()
	s := tx.String()
	assert.True(t, strings.HasPrefix(s, "txType=DELEGATE_VOTE_TX, hash="), s)
	assert.Contains(t, s, "ver=1")
	assert.Contains(t, s, "txUid=10-1")
	assert.Contains(t, s, "llFees=10000")
	assert.Contains(t, s, "valid_height=450")
	assert.Contains(t, s, "vote: ")
	assert.Contains(t, s, "candidateUid=2-3, votes=1000, voteType=stake")
}

func TestMarshalJSON(t *testing.T) {
	tx := newTestTx()
	data, err := json.Marshal(tx)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "DELEGATE_VOTE_TX", m["txtype"])
	assert.Equal(t, "10-1", m["tx_uid"])

	votes, ok := m["candidate_votes"].([]interface{})
	require.True(t, ok)
	require.Len(t, votes, 2)
	first, ok := votes[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2-3", first["candidate_uid"])
	assert.Equal(t, float64(1000), first["voted_bcoins"])
	assert.Equal(t, "stake", first["vote_type"])
}
