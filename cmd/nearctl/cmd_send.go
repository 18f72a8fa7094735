// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"encoding/json"
	"os"

	"github.com/Olovorr/near-api-js-ext/pkg/build"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
	"github.com/spf13/cobra"
)

func (a *app) cmdSendMoney() *cobra.Command {
	return &cobra.Command{
		Use:     "send-money <receiver> <amount>",
		Short:   "Transfer NEAR to another account",
		Example: `  nearctl send-money bob.testnet 1.5 --account alice.testnet`,
		Args:    cobra.ExactArgs(2),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			amount, err := protocol.ParseNearAmount(args[1])
			if err != nil {
				return err
			}
			acct, err := a.account()
			if err != nil {
				return err
			}

			o, err := acct.SendMoney(cmd.Context(), args[0], amount, a.sendOptions()...)
			return a.printOutcome(cmd, o, err)
		}),
	}
}

func (a *app) cmdCall() *cobra.Command {
	var flag struct {
		Gas     string
		Deposit protocol.U128
		Args    string
	}

	cmd := &cobra.Command{
		Use:   "call <contract> <method> [args]",
		Short: "Call a contract method",
		Long: "Call a contract method. Arguments are JSON, given inline, with --args-file, " +
			"or omitted for {}.",
		Args: cobra.RangeArgs(2, 3),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			var callArgs any
			switch {
			case len(args) > 2:
				callArgs = json.RawMessage(args[2])
			case flag.Args != "":
				b, err := os.ReadFile(flag.Args)
				if err != nil {
					return errors.BadRequest.WithFormat("read arguments: %w", err)
				}
				callArgs = json.RawMessage(b)
			}
			if raw, ok := callArgs.(json.RawMessage); ok && !json.Valid(raw) {
				return errors.BadRequest.With("arguments are not valid JSON")
			}

			var gas any
			if flag.Gas != "" {
				gas = flag.Gas
			}
			actions, err := build.Actions().FunctionCall(args[1], callArgs, gas, flag.Deposit).Build()
			if err != nil {
				return err
			}

			acct, err := a.account()
			if err != nil {
				return err
			}
			o, err := acct.SendTransaction(cmd.Context(), args[0], actions, a.sendOptions()...)
			return a.printOutcome(cmd, o, err)
		}),
	}

	cmd.Flags().StringVar(&flag.Gas, "gas", "", "Gas to attach, such as 30Tgas (default 30Tgas)")
	cmd.Flags().Var(AmountFlag{&flag.Deposit}, "deposit", "NEAR to attach to the call")
	cmd.Flags().StringVar(&flag.Args, "args-file", "", "Read the JSON arguments from a file")
	return cmd
}
