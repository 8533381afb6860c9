package objectstore

import "fmt"

// NotFoundError is returned by a Lister when the bucket or prefix itself
// does not exist, as distinct from a prefix that simply has no keys (which
// is reported as an empty, non-truncated Page).
type NotFoundError struct {
	Bucket string
	Prefix string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("object store: bucket %q prefix %q not found", e.Bucket, e.Prefix)
}

// EndpointError wraps any other non-success response from the listing
// endpoint. Code is the store's native error code (e.g. "AccessDenied",
// "SlowDown"); Name is the exception/type name the store's SDK raised.
type EndpointError struct {
	Bucket  string
	Prefix  string
	Code    string
	Name    string
	Message string
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf(
		"object store: list failed for bucket %q prefix %q: %s (%s): %s",
		e.Bucket, e.Prefix, e.Name, e.Code, e.Message,
	)
}
