package operation

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/sethvargo/go-retry"

	"github.com/onflow/flow-narwhal/module"
	"github.com/onflow/flow-narwhal/storage"
)

const (
	conflictRetryBase     = 5 * time.Millisecond
	conflictRetryMax      = 500 * time.Millisecond
	conflictRetryJitter   = 20 // percent
	conflictRetryAttempts = 10
)

// SkipDuplicates turns storage.ErrAlreadyExists of the wrapped operation into
// success.
func SkipDuplicates(collector module.StorageMetrics, op func(*badger.Txn) error) func(tx *badger.Txn) error {
	return func(tx *badger.Txn) error {
		err := op(tx)
		if errors.Is(err, storage.ErrAlreadyExists) {
			collector.SkipDuplicate()
			return nil
		}
		return err
	}
}

// RetryOnConflict runs the operation with the given transaction action (for
// example db.Update) and retries it with capped exponential backoff as long as
// badger reports a transaction conflict. Any other error is returned as is.
func RetryOnConflict(collector module.StorageMetrics, action func(func(*badger.Txn) error) error, op func(tx *badger.Txn) error) error {
	backoff, err := retry.NewExponential(conflictRetryBase)
	if err != nil {
		return fmt.Errorf("could not create retry backoff: %w", err)
	}
	backoff = retry.WithCappedDuration(conflictRetryMax, backoff)
	backoff = retry.WithJitterPercent(conflictRetryJitter, backoff)
	backoff = retry.WithMaxRetries(conflictRetryAttempts, backoff)

	return retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		err := action(op)
		if errors.Is(err, badger.ErrConflict) {
			collector.RetryOnConflict()
			return retry.RetryableError(err)
		}
		return err
	})
}

// TerminateOnFullDisk wraps the result of a write. It panics if the write
// failed because the disk is full and returns any other error unchanged.
func TerminateOnFullDisk(err error) error {
	// panic so that deferred functions still run
	if errors.Is(err, syscall.ENOSPC) {
		panic(fmt.Sprintf("disk full, terminating replica: %v", err))
	}
	return err
}
