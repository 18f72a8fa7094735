// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"

	"github.com/Olovorr/near-api-js-ext/pkg/client/signing"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (a *app) cmdAccessKey() *cobra.Command {
	return &cobra.Command{
		Use:   "access-key [public key]",
		Short: "Show the nonce and permission of an access key",
		Long:  "Show an access key of the account. Without an argument, shows the signer's key.",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			acct, err := a.account()
			if err != nil {
				return err
			}

			var key *protocol.PublicKey
			if len(args) > 0 {
				key, err = protocol.ParsePublicKey(args[0])
			} else {
				key, err = acct.PublicKey(cmd.Context())
			}
			if err != nil {
				return err
			}

			v, err := a.client.ViewAccessKey(cmd.Context(), acct.ID(), key)
			if err != nil {
				return err
			}
			if a.flags.JSON {
				return printJSON(cmd, v)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Account     : %s\n", acct.ID())
			fmt.Fprintf(out, "Public key  : %v\n", key)
			fmt.Fprintf(out, "Nonce       : %s\n", humanize.Comma(int64(v.Nonce)))
			fmt.Fprintf(out, "Block       : %s (%v)\n", humanize.Comma(int64(v.BlockHeight)), v.BlockHash)
			if v.Permission.IsFullAccess() {
				fmt.Fprintf(out, "Permission  : full access\n")
				return nil
			}

			fc := v.Permission.FunctionCall
			fmt.Fprintf(out, "Permission  : function call on %s\n", fc.ReceiverID)
			if len(fc.MethodNames) > 0 {
				fmt.Fprintf(out, "Methods     : %v\n", fc.MethodNames)
			}
			if fc.Allowance != nil {
				fmt.Fprintf(out, "Allowance   : %s NEAR\n", protocol.FormatNearAmount(*fc.Allowance))
			}
			return nil
		}),
	}
}

func (a *app) cmdTxStatus() *cobra.Command {
	return &cobra.Command{
		Use:   "tx-status <hash> [sender]",
		Short: "Wait for a transaction and show its outcome",
		Long:  "Wait for a transaction and show its outcome. The sender defaults to --account.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			hash, err := protocol.ParseCryptoHash(args[0])
			if err != nil {
				return err
			}
			if len(args) > 1 {
				a.flags.Account = args[1]
			}

			acct, err := a.account()
			if err != nil {
				return err
			}
			o, err := acct.WaitForTransaction(cmd.Context(), hash, a.flags.WaitTimeout)
			return a.printOutcome(cmd, o, err)
		}),
	}
}

func (a *app) cmdKeys() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage keys",
	}

	typ := protocol.KeyTypeED25519
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate a key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := signing.GenerateKeyPair(typ)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Public key  : %v\n", key.PublicKey())
			fmt.Fprintf(out, "Secret key  : %s\n", key)

			// An ed25519 key's implicit account is the hex of its public key
			if pub := key.PublicKey(); pub.Type == protocol.KeyTypeED25519 {
				fmt.Fprintf(out, "Implicit ID : %x\n", pub.Data)
			}
			return nil
		},
	}
	generate.Flags().Var(KeyTypeFlag{&typ}, "type", "Key type, ed25519 or secp256k1")

	cmd.AddCommand(generate)
	return cmd
}

func errUnknownKeyType(name string) error {
	return errors.BadRequest.WithFormat("unknown key type %q", name)
}
