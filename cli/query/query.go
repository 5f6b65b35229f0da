// Package query implements read-only inspection commands over the vote
// ledger DB.
package query

import (
	"encoding/json"
	"fmt"

	"github.com/tidechain/tide-go/cli/options"
	"github.com/tidechain/tide-go/pkg/core/dao"
	"github.com/tidechain/tide-go/pkg/core/state"
	"github.com/tidechain/tide-go/pkg/crypto/keys"
	"github.com/tidechain/tide-go/pkg/encoding/address"
	"github.com/tidechain/tide-go/pkg/util"
	"github.com/urfave/cli"
)

// NewCommands returns the 'query' command with all of its subcommands.
func NewCommands() []cli.Command {
	queryFlags := []cli.Flag{options.ConfigPath}
	return []cli.Command{{
		Name:  "query",
		Usage: "Query the vote ledger state",
		Subcommands: []cli.Command{
			{
				Name:      "account",
				Usage:     "Print the state of an account",
				UsageText: "query account <id>",
				Action:    queryAccount,
				Flags:     queryFlags,
			},
			{
				Name:      "delegates",
				Usage:     "Print top delegates in the descending received-vote order",
				UsageText: "query delegates [-n N]",
				Action:    queryDelegates,
				Flags: append(queryFlags, cli.IntFlag{
					Name:  "count, n",
					Usage: "number of delegates to print",
					Value: 21,
				}),
			},
			{
				Name:      "votes",
				Usage:     "Print the candidate vote list owned by a voter",
				UsageText: "query votes <id>",
				Action:    queryVotes,
				Flags:     queryFlags,
			},
			{
				Name:      "receipts",
				Usage:     "Print the receipts of an executed transaction",
				UsageText: "query receipts <hash>",
				Action:    queryReceipts,
				Flags:     queryFlags,
			},
		},
	}}
}

// ParseAccountArg resolves a CLI account argument to the canonical account
// key. It accepts a registration id, an address, a hex-encoded key id or a
// hex-encoded public key.
func ParseAccountArg(d dao.DAO, s string) (util.Uint160, error) {
	if reg, err := state.RegIDFromString(s); err == nil {
		return d.ResolveKeyID(state.NewUserIDFromRegID(reg))
	}
	if u, err := address.StringToUint160(s); err == nil {
		return u, nil
	}
	if u, err := util.Uint160DecodeStringBE(s); err == nil {
		return u, nil
	}
	if pub, err := keys.NewPublicKeyFromString(s); err == nil {
		return pub.GetKeyID(), nil
	}
	return util.Uint160{}, fmt.Errorf("can't parse account id %q", s)
}

func queryAccount(ctx *cli.Context) error {
	if len(ctx.Args()) != 1 {
		return cli.NewExitError("expecting exactly one account id", 1)
	}
	d, err := options.GetDAOFromContext(ctx)
	if err != nil {
		return err
	}
	defer d.Store.Close()

	keyID, err := ParseAccountArg(d, ctx.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	acc, err := d.GetAccountByKeyID(keyID)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("account %s: %w", keyID, err), 1)
	}
	res := map[string]interface{}{
		"key_id":         acc.KeyID,
		"address":        address.Uint160ToString(acc.KeyID),
		"reg_id":         acc.RegID.String(),
		"balances":       acc.Balances,
		"received_votes": acc.ReceivedVotes,
	}
	if acc.HasOwnerPubKey() {
		res["owner_pubkey"] = acc.OwnerPubKey
	}
	return printJSON(ctx, res)
}

func queryDelegates(ctx *cli.Context) error {
	d, err := options.GetDAOFromContext(ctx)
	if err != nil {
		return err
	}
	defer d.Store.Close()

	top, err := d.TopDelegates(ctx.Int("count"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return printJSON(ctx, top)
}

func queryVotes(ctx *cli.Context) error {
	if len(ctx.Args()) != 1 {
		return cli.NewExitError("expecting exactly one voter id", 1)
	}
	d, err := options.GetDAOFromContext(ctx)
	if err != nil {
		return err
	}
	defer d.Store.Close()

	keyID, err := ParseAccountArg(d, ctx.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	votes, err := d.GetVoterVotes(keyID)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return printJSON(ctx, votes.Votes)
}

func queryReceipts(ctx *cli.Context) error {
	if len(ctx.Args()) != 1 {
		return cli.NewExitError("expecting exactly one transaction hash", 1)
	}
	hash, err := util.Uint256DecodeStringBE(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid tx hash: %w", err), 1)
	}
	d, err := options.GetDAOFromContext(ctx)
	if err != nil {
		return err
	}
	defer d.Store.Close()

	receipts, err := d.GetTxReceipts(hash)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("receipts of %s: %w", hash, err), 1)
	}
	return printJSON(ctx, receipts)
}

func printJSON(ctx *cli.Context, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, string(data))
	return nil
}
