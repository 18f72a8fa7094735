// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package client

import (
	"context"
	"fmt"

	"github.com/Olovorr/near-api-js-ext/protocol"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// Request is one transaction of a batch.
type Request struct {
	ReceiverID string
	Actions    []protocol.Action
	Options    []Option
}

// Result is the result of one transaction of a batch.
type Result struct {
	Outcome *protocol.FinalExecutionOutcome
	Err     error
}

// SendTransactions sends the transactions concurrently. Nonces are reserved
// in whatever order the sends reach the allocator. Every transaction runs to
// completion; the error combines the failures, and each result carries its
// own.
func (a *Account) SendTransactions(ctx context.Context, reqs ...Request) ([]Result, error) {
	results := make([]Result, len(reqs))

	var g errgroup.Group
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			results[i].Outcome, results[i].Err = a.SendTransaction(ctx, req.ReceiverID, req.Actions, req.Options...)
			return nil
		})
	}
	_ = g.Wait()

	var errs *multierror.Error
	for i, r := range results {
		if r.Err != nil {
			errs = multierror.Append(errs, fmt.Errorf("transaction %d to %s: %w", i, reqs[i].ReceiverID, r.Err))
		}
	}
	return results, errs.ErrorOrNil()
}
