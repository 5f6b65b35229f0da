// Package vote implements commands building and applying delegate vote
// transactions against the local DB.
package vote

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidechain/tide-go/cli/options"
	"github.com/tidechain/tide-go/pkg/core"
	"github.com/tidechain/tide-go/pkg/core/dao"
	"github.com/tidechain/tide-go/pkg/core/state"
	"github.com/tidechain/tide-go/pkg/core/storage"
	"github.com/tidechain/tide-go/pkg/core/transaction"
	"github.com/tidechain/tide-go/pkg/crypto/keys"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewCommands returns the 'vote' command.
func NewCommands() []cli.Command {
	voteFlags := []cli.Flag{
		options.ConfigPath,
		cli.StringFlag{
			Name:  "key, k",
			Usage: "hex-encoded private key of the sender",
		},
		cli.Uint64Flag{
			Name:  "fee, f",
			Usage: "transaction fee in the smallest coin units (the policy minimum when omitted)",
		},
		cli.Uint64Flag{
			Name:  "height",
			Usage: "block height the transaction executes at",
		},
		cli.UintFlag{
			Name:  "index",
			Usage: "transaction index inside the block",
		},
		cli.StringSliceFlag{
			Name:  "stake, s",
			Usage: "stake entry in the <candidate>:<weight> form, repeatable",
		},
		cli.StringSliceFlag{
			Name:  "unstake, u",
			Usage: "unstake entry in the <candidate>:<weight> form, repeatable",
		},
	}
	return []cli.Command{{
		Name:   "vote",
		Usage:  "Build, validate and execute a delegate vote transaction",
		Action: castVote,
		Flags:  voteFlags,
	}}
}

// ParseUserID parses a CLI candidate reference, either a registration id
// or a hex-encoded public key.
func ParseUserID(s string) (state.UserID, error) {
	if reg, err := state.RegIDFromString(s); err == nil {
		return state.NewUserIDFromRegID(reg), nil
	}
	if pub, err := keys.NewPublicKeyFromString(s); err == nil {
		return state.NewUserIDFromPubKey(pub), nil
	}
	return state.UserID{}, fmt.Errorf("can't parse candidate id %q", s)
}

// ParseVoteEntries parses <candidate>:<weight> CLI arguments into vote
// entries with the given operation.
func ParseVoteEntries(args []string, op state.VoteOp) ([]*state.CandidateVote, error) {
	votes := make([]*state.CandidateVote, 0, len(args))
	for _, arg := range args {
		i := strings.LastIndex(arg, ":")
		if i < 0 {
			return nil, fmt.Errorf("invalid vote entry %q, expecting <candidate>:<weight>", arg)
		}
		uid, err := ParseUserID(arg[:i])
		if err != nil {
			return nil, err
		}
		weight, err := strconv.ParseUint(arg[i+1:], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid vote weight in %q: %w", arg, err)
		}
		votes = append(votes, &state.CandidateVote{Candidate: uid, Votes: weight, Op: op})
	}
	return votes, nil
}

func castVote(ctx *cli.Context) error {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log, err := options.HandleLoggingParams(cfg.ApplicationConfiguration)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	// The command prints the executed transaction itself, drop the
	// processor's own success log to keep the output clean.
	log = log.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return options.NewFilteringCore(c, func(e zapcore.Entry) bool {
			return e.Message != "vote tx executed"
		})
	}))

	priv, err := keys.NewPrivateKeyFromHex(ctx.String("key"))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid sender key: %w", err), 1)
	}
	votes, err := ParseVoteEntries(ctx.StringSlice("stake"), state.OpStake)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	unstakes, err := ParseVoteEntries(ctx.StringSlice("unstake"), state.OpUnstake)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	votes = append(votes, unstakes...)
	if len(votes) == 0 {
		return cli.NewExitError("no vote entries given", 1)
	}

	fee := ctx.Uint64("fee")
	if fee == 0 {
		fee = cfg.ProtocolConfiguration.MinVoteTxFee
	}
	height := uint32(ctx.Uint64("height"))

	tx := transaction.New(state.NewUserIDFromPubKey(priv.PublicKey()), fee, height, votes)
	if err := tx.Sign(priv); err != nil {
		return cli.NewExitError(err, 1)
	}

	store, err := storage.NewStore(cfg.ApplicationConfiguration.DBConfiguration)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	d := dao.NewSimple(store)
	defer d.Store.Close()

	proc := core.NewTxProcessor(cfg.ProtocolConfiguration, d, nil, log)
	if out := proc.CheckVoteTx(height, tx); !out.OK() {
		return cli.NewExitError(fmt.Errorf("tx %s: %s", tx.Hash(), out), 1)
	}
	if err := proc.ExecuteVoteTx(height, uint16(ctx.Uint("index")), tx); err != nil {
		return cli.NewExitError(fmt.Errorf("tx %s: %w", tx.Hash(), err), 1)
	}
	// The executor persists into the DAO's cache layer, flush it down to
	// the configured backend before closing.
	if _, err := d.Persist(); err != nil {
		return cli.NewExitError(fmt.Errorf("failed to persist tx %s: %w", tx.Hash(), err), 1)
	}
	fmt.Fprintln(ctx.App.Writer, tx.String())
	return nil
}
