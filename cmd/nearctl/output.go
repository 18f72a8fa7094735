// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/Olovorr/near-api-js-ext/pkg/client/outcome"
	"github.com/Olovorr/near-api-js-ext/pkg/client/submit"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// totalGas sums the gas burnt by the transaction and its receipts. The sum
// can exceed a uint64.
func totalGas(o *protocol.FinalExecutionOutcome) *big.Int {
	gas := new(big.Int).SetUint64(o.TransactionOutcome.Outcome.GasBurnt)
	for _, r := range o.ReceiptsOutcome {
		gas.Add(gas, new(big.Int).SetUint64(r.Outcome.GasBurnt))
	}
	return gas
}

// printReceipts prints a row per visited node of the receipt graph.
func printReceipts(out io.Writer, o *protocol.FinalExecutionOutcome, v *outcome.Verdict) {
	nodes := make(map[protocol.CryptoHash]*protocol.ExecutionOutcomeWithID, len(o.ReceiptsOutcome)+1)
	nodes[o.TransactionOutcome.ID] = &o.TransactionOutcome
	for i := range o.ReceiptsOutcome {
		nodes[o.ReceiptsOutcome[i].ID] = &o.ReceiptsOutcome[i]
	}

	logs := map[protocol.CryptoHash][]string{}
	for _, l := range v.Logs {
		logs[l.ID] = append(logs[l.ID], l.Message)
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Executor", "Status", "Gas", "Logs"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, id := range v.Visited {
		n, ok := nodes[id]
		if !ok {
			continue
		}
		status := n.Outcome.Status.Kind.String()
		if n.Outcome.Status.Kind == protocol.ExecutionStatusFailure {
			status = color.RedString(status)
		}
		table.Append([]string{
			id.String(),
			n.Outcome.ExecutorID,
			status,
			humanize.Comma(int64(n.Outcome.GasBurnt / 1_000_000_000)) + " Ggas",
			strings.Join(logs[id], "; "),
		})
	}
	table.Render()
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.EncodingError.Wrap(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

// printOutcome prints the outcome of a transaction, which may be present
// even if err is not nil. A transaction that is still pending prints its
// hash so it can be checked with tx-status.
func (a *app) printOutcome(cmd *cobra.Command, o *protocol.FinalExecutionOutcome, err error) error {
	var pending *submit.PendingTimeoutError
	if errors.As(err, &pending) {
		cmd.PrintErrf("%s %v is still pending, check it with: nearctl tx-status %[2]v %s\n",
			color.YellowString("Transaction"), pending.Hash, pending.SenderID)
		return err
	}
	if o == nil {
		return err
	}

	if a.flags.JSON {
		if jerr := printJSON(cmd, o); jerr != nil {
			return jerr
		}
		return err
	}

	v, rerr := outcome.Resolve(context.Background(), o)
	if rerr != nil {
		return rerr
	}

	out := cmd.OutOrStdout()
	status := color.GreenString("succeeded")
	if !v.Success() {
		status = color.RedString("failed")
	}
	fmt.Fprintf(out, "Transaction %v %s\n", o.TransactionHash(), status)
	fmt.Fprintf(out, "  Gas burnt : %s (%d receipts)\n", humanize.BigComma(totalGas(o)), len(o.ReceiptsOutcome))

	printReceipts(out, o, v)

	if len(v.Value) > 0 {
		fmt.Fprintf(out, "  Result    : %s\n", v.Value)
	}
	if v.Failure != nil {
		fmt.Fprintf(out, "  Failure   : %s at depth %d: %v\n", v.Failure.ExecutorID, v.Failure.Depth, v.Failure.Err)
	}
	return err
}
