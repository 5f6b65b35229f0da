package vote

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidechain/tide-go/pkg/core/dao"
	"github.com/tidechain/tide-go/pkg/core/state"
	"github.com/tidechain/tide-go/pkg/core/storage"
	"github.com/tidechain/tide-go/pkg/core/storage/dbconfig"
	"github.com/tidechain/tide-go/pkg/crypto/keys"
	"github.com/urfave/cli"
)

func TestParseVoteEntries(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)

	votes, err := ParseVoteEntries([]string{
		"12-3:1000",
		priv.PublicKey().String() + ":500",
	}, state.OpStake)
	require.NoError(t, err)
	require.Len(t, votes, 2)
	assert.Equal(t, state.UserRegID, votes[0].Candidate.Type())
	assert.Equal(t, uint64(1000), votes[0].Votes)
	assert.Equal(t, state.OpStake, votes[0].Op)
	assert.Equal(t, state.UserPubKey, votes[1].Candidate.Type())
	assert.Equal(t, uint64(500), votes[1].Votes)

	for _, bad := range []string{"12-3", "garbage:100", "12-3:notanumber"} {
		_, err := ParseVoteEntries([]string{bad}, state.OpUnstake)
		assert.Error(t, err, bad)
	}
}

func TestCastVotePersists(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "vote.bolt")
	cfgPath := filepath.Join(tmp, "protocol.yml")
	cfgYAML := fmt.Sprintf(`ProtocolConfiguration:
  Magic: 42
  MaxVoteCandidateNum: 22
  MinVoteTxFee: 100
  R2ForkHeight: 100

ApplicationConfiguration:
  DBConfiguration:
    Type: "boltdb"
    BoltDBOptions:
      FilePath: %q
  LogLevel: "info"
`, dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))

	srcPriv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	candPriv, err := keys.NewPrivateKey()
	require.NoError(t, err)

	// Seed the DB with a funded sender and a registered candidate.
	store, err := storage.NewBoltDBStore(dbconfig.BoltDBOptions{FilePath: dbPath})
	require.NoError(t, err)
	d := dao.NewSimple(store)
	src := state.NewAccount(srcPriv.GetKeyID())
	require.NoError(t, src.OperateBalance(state.BaseCoin, state.AddFree, 5000))
	require.NoError(t, d.PutAccount(src))
	cand := state.NewAccount(candPriv.GetKeyID())
	cand.RegID = state.RegID{Height: 2, Index: 0}
	cand.OwnerPubKey = candPriv.PublicKey()
	require.NoError(t, d.PutAccount(cand))
	_, err = d.Persist()
	require.NoError(t, err)
	require.NoError(t, d.Store.Close())

	set := flag.NewFlagSet("flagSet", flag.ExitOnError)
	set.String("config-path", cfgPath, "")
	set.String("key", srcPriv.String(), "")
	set.Uint64("fee", 100, "")
	set.Uint64("height", 0, "")
	set.Uint("index", 0, "")
	stakes := cli.StringSlice{"2-0:1000"}
	set.Var(&stakes, "stake", "")
	unstakes := cli.StringSlice{}
	set.Var(&unstakes, "unstake", "")

	app := cli.NewApp()
	app.Writer = new(bytes.Buffer)
	require.NoError(t, castVote(cli.NewContext(app, set, nil)))

	// The effects must survive a store reopen.
	store, err = storage.NewBoltDBStore(dbconfig.BoltDBOptions{FilePath: dbPath})
	require.NoError(t, err)
	d = dao.NewSimple(store)
	defer d.Store.Close()

	got, err := d.GetAccountByKeyID(src.KeyID)
	require.NoError(t, err)
	assert.Equal(t, uint64(4900), got.GetBalance(state.BaseCoin))

	votes, err := d.GetVoterVotes(src.KeyID)
	require.NoError(t, err)
	require.Len(t, votes.Votes, 1)
	assert.Equal(t, cand.KeyID, votes.Votes[0].Candidate)
	assert.Equal(t, uint64(1000), votes.Votes[0].Votes)
	assert.True(t, d.HasDelegateVote(cand.KeyID, 1000))
}
