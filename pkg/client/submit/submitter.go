// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package submit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Olovorr/near-api-js-ext/pkg/api"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
	"github.com/sethvargo/go-retry"
)

// Client is the part of the network client the submitter uses.
type Client interface {
	api.Broadcaster
	api.TransactionQuerier
}

// Submitter broadcasts signed transactions and waits for their outcomes.
// It never re-signs: every attempt sends the same bytes, so the network sees
// at most one transaction.
type Submitter struct {
	client Client
	opts   Options
}

// New creates a submitter.
func New(client Client, opts Options) *Submitter {
	return &Submitter{client: client, opts: opts.withDefaults()}
}

// Options returns the effective options.
func (s *Submitter) Options() Options { return s.opts }

// PendingTimeoutError is returned when the wait deadline passes before the
// transaction reaches a final state. The transaction may still execute;
// callers can resume waiting with its hash.
type PendingTimeoutError struct {
	Hash     protocol.CryptoHash
	SenderID string
	Waited   time.Duration
}

func (e *PendingTimeoutError) Error() string {
	return fmt.Sprintf("transaction %v has not completed after %v", e.Hash, e.Waited)
}

func (e *PendingTimeoutError) ErrorStatus() errors.Status { return errors.PendingTimeout }

// Submit broadcasts the transaction and waits for it to reach a final state.
func (s *Submitter) Submit(ctx context.Context, tx *protocol.SignedTransaction) (*protocol.FinalExecutionOutcome, error) {
	hash, err := s.Broadcast(ctx, tx)
	if err != nil {
		return nil, err
	}
	return s.Wait(ctx, hash, tx.Transaction.SignerID, 0)
}

// Broadcast sends the transaction until the network accepts it, retrying
// transient failures with capped exponential backoff. An already-known
// response counts as accepted.
func (s *Submitter) Broadcast(ctx context.Context, tx *protocol.SignedTransaction) (protocol.CryptoHash, error) {
	b, err := tx.MarshalBinary()
	if err != nil {
		return protocol.CryptoHash{}, errors.UnknownError.Wrap(err)
	}
	hash, err := tx.Hash()
	if err != nil {
		return protocol.CryptoHash{}, errors.UnknownError.Wrap(err)
	}

	backoff, err := s.opts.broadcastBackoff()
	if err != nil {
		return hash, err
	}

	var attempt int
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		slog.DebugContext(ctx, "Broadcasting", "module", "submit", "state", "broadcasting", "hash", hash, "attempt", attempt)

		got, err := s.client.BroadcastTransaction(ctx, b)
		if err == nil {
			mBroadcasts.WithLabelValues("ok").Inc()
			if got != hash {
				slog.WarnContext(ctx, "Network returned a different transaction hash", "module", "submit", "hash", hash, "network-hash", got)
			}
			return nil
		}

		class := Classify(err)
		mBroadcasts.WithLabelValues(class.String()).Inc()
		switch class {
		case AlreadyKnown:
			slog.DebugContext(ctx, "Transaction is already known", "module", "submit", "state", "pending", "hash", hash)
			return nil

		case Transient:
			slog.DebugContext(ctx, "Broadcast failed", "module", "submit", "state", "retrying", "hash", hash, "attempt", attempt, "error", err)
			return retry.RetryableError(err)

		default:
			return err
		}
	})

	switch {
	case err == nil:
		return hash, nil

	case ctx.Err() != nil:
		return hash, errors.UnknownError.WithFormat("broadcast %v: %w", hash, ctx.Err())

	case Classify(err) == Transient:
		slog.DebugContext(ctx, "Giving up", "module", "submit", "state", "retry-exhausted", "hash", hash, "attempts", attempt)
		return hash, errors.RetryExhausted.WithCauseAndFormat(err, "broadcast %v failed after %d attempts: %v", hash, attempt, err)

	default:
		slog.DebugContext(ctx, "Broadcast rejected", "module", "submit", "state", "rejected", "hash", hash, "error", err)
		return hash, fatal(err, "broadcast %v rejected", hash)
	}
}

// Wait polls the status of a transaction until it reaches a final state or
// the timeout passes. A zero timeout means the configured WaitTimeout.
func (s *Submitter) Wait(ctx context.Context, hash protocol.CryptoHash, senderID string, timeout time.Duration) (*protocol.FinalExecutionOutcome, error) {
	if timeout <= 0 {
		timeout = s.opts.WaitTimeout
	}

	backoff, err := s.opts.pollBackoff()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var outcome *protocol.FinalExecutionOutcome
	err = retry.Do(wctx, backoff, func(ctx context.Context) error {
		o, err := s.client.TransactionStatus(ctx, hash, senderID)
		if err == nil && !o.IsComplete() {
			err = api.ErrPending
		}
		if err == nil {
			mPolls.WithLabelValues("final").Inc()
			outcome = o
			return nil
		}

		if errors.Is(err, errors.Pending) {
			mPolls.WithLabelValues("pending").Inc()
			slog.DebugContext(ctx, "Transaction is pending", "module", "submit", "state", "pending", "hash", hash)
			return retry.RetryableError(err)
		}

		class := Classify(err)
		mPolls.WithLabelValues(class.String()).Inc()
		switch class {
		case Transient, NotYetKnown, AlreadyKnown:
			slog.DebugContext(ctx, "Poll failed", "module", "submit", "state", "pending", "hash", hash, "error", err)
			return retry.RetryableError(err)
		default:
			return err
		}
	})

	switch {
	case err == nil:
		mWaitSeconds.Observe(time.Since(start).Seconds())
		slog.DebugContext(ctx, "Transaction is final", "module", "submit", "state", "final", "hash", hash, "status", outcome.Status.Kind)
		return outcome, nil

	case ctx.Err() != nil:
		return nil, errors.UnknownError.WithFormat("wait for %v: %w", hash, ctx.Err())

	case wctx.Err() != nil:
		slog.DebugContext(ctx, "Timed out waiting", "module", "submit", "state", "pending-timeout", "hash", hash, "timeout", timeout)
		return nil, errors.PendingTimeout.WithCauseAndFormat(
			&PendingTimeoutError{Hash: hash, SenderID: senderID, Waited: timeout},
			"transaction %v has not completed after %v", hash, timeout)

	default:
		return nil, fatal(err, "status of %v", hash)
	}
}

// fatal marks a rejection by the network as NetworkFatal. The RPC error stays
// reachable with errors.As. Local failures keep their own status.
func fatal(err error, format string, args ...interface{}) error {
	var rpcErr *api.RPCError
	if !errors.As(err, &rpcErr) {
		return errors.UnknownError.Wrap(err)
	}
	return errors.NetworkFatal.WithCauseAndFormat(err, "%s: %v", fmt.Sprintf(format, args...), err)
}
