// Package domain defines the ports of the commits service
package domain

import "context"

// LookupPort resolves bug ids to the message of the commit that fixed them
// Ids without a commit are absent from the returned map
type LookupPort interface {
	Messages(ctx context.Context, ids []int64) (map[int64]string, error)
}

// WriterPort stores commit messages keyed by bug id
type WriterPort interface {
	Upsert(ctx context.Context, msgs map[int64]string) (int, error)
}
