package backup

import (
	"context"
	"errors"
	"fmt"
	"io"

	"ghostledger/internal/core"
)

var (
	ErrFileRead        = errors.New("could not read backup file")
	ErrImportCancelled = errors.New("import cancelled")
	ErrImportTimedOut  = errors.New("import timed out")
)

// MaxImportBytes bounds how much of a backup file is read.
const MaxImportBytes = 64 << 20

type readResult struct {
	data []byte
	err  error
}

// Import reads a backup from r and decodes it. The read is abandoned when
// ctx ends; the returned error then wraps ErrImportTimedOut or
// ErrImportCancelled. Nothing is applied here: the caller replaces its state
// only on success.
func Import(ctx context.Context, r io.Reader) (core.FinanceData, error) {
	done := make(chan readResult, 1)
	go func() {
		b, err := io.ReadAll(io.LimitReader(r, MaxImportBytes+1))
		done <- readResult{b, err}
	}()

	var res readResult
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return core.FinanceData{}, fmt.Errorf("%w: %w", ErrImportTimedOut, ctx.Err())
		}
		return core.FinanceData{}, fmt.Errorf("%w: %w", ErrImportCancelled, ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		return core.FinanceData{}, fmt.Errorf("%w: %w", ErrFileRead, res.err)
	}
	if len(res.data) > MaxImportBytes {
		return core.FinanceData{}, fmt.Errorf("%w: file larger than %d bytes", ErrFileRead, MaxImportBytes)
	}
	return Decode(res.data)
}
