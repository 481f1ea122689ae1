// Package storage talks to the content-addressed blob network. Two
// backends exist: an IPFS-style HTTP pin service and an S3 bucket keyed
// by content digest. Both return an opaque content identifier that
// re-fetches the same blob.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/R3yz0n/beyond-pad/internal/common"
)

// Client stores and retrieves opaque JSON blobs.
//
// Contract:
//   - Put serializes v to JSON, stores it and returns the content
//     identifier. Failures surface as ErrUploadFailed and are not
//     retried here.
//   - Get fetches the blob at cid into v. A bounded wait applies;
//     exceeding it surfaces as ErrFetchTimeout, other transport
//     failures as ErrFetchFailed.
//
// Callers must not trust owner/gate fields inside a fetched blob
// without cross-checking decrypted content.
type Client interface {
	Put(ctx context.Context, v any) (string, error)
	Get(ctx context.Context, cid string, v any) error
}

func classifyFetchErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", common.ErrFetchTimeout, err)
	}
	return fmt.Errorf("%w: %v", common.ErrFetchFailed, err)
}
