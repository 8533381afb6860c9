// Package objectstore describes the object-store listing collaborator this
// module accelerates, but does not implement. Implementations are expected
// to wrap a real store's native paginated listing (S3 ListObjectsV2, Azure
// Blob ListBlobsFlatSegment, or similar) behind the Lister interface below.
package objectstore

import "context"

// Object is a single listed entry. Fields mirror what S3-style listing
// endpoints return per key.
type Object struct {
	Key          string
	Size         uint64
	LastModified int64 // epoch-seconds
	ETag         string
}

// Page is one page of a listing response.
type Page struct {
	Objects []Object
	// Truncated is true when the store has more keys under the prefix
	// beyond those returned in Objects.
	Truncated bool
}

// Lister is the synchronous, single-page listing operation this module
// consumes. Implementations must be safe for concurrent use: the prefetch
// planner calls List from many goroutines at once.
//
// StartAfter, when non-empty, resumes listing strictly after that key.
// MaxKeys bounds the page size; implementations may return fewer objects
// than requested even when Truncated is true.
type Lister interface {
	List(ctx context.Context, bucket, prefix, startAfter string, maxKeys int) (Page, error)
}
