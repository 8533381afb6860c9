// Package azureblob adapts an Azure Blob container, via
// github.com/datatrails/go-datatrails-common/azblob, to the generic
// objectstore.Lister interface the accelerator consumes. It is optional
// wiring: the core packages' non-test code never imports it. Their unit
// tests use plain in-memory fakes, apart from one listing test that drives
// the iterator through this adapter over a fake pager.
package azureblob

import (
	"context"

	"github.com/datatrails/go-datatrails-common/azblob"

	"github.com/datatrails/go-prefixlist-accelerator/objectstore"
)

// blobLister is the subset of go-datatrails-common/azblob's reader this
// adapter needs: a single paged listing call.
type blobLister interface {
	List(ctx context.Context, opts ...azblob.Option) (*azblob.ListerResponse, error)
}

// Lister implements objectstore.Lister over an Azure Blob container.
//
// Azure's listing protocol is continuation-marker based rather than
// start-after-key based. Every call with a non-empty startAfter passes it
// through as the listing marker; the returned Page carries no continuation
// marker of its own (Azure's marker only sets Page.Truncated). Resuming
// from a key is therefore exact only where the store accepts a key as a
// marker, as for flat container listings.
type Lister struct {
	store blobLister
}

// New builds a Lister over store.
func New(store blobLister) *Lister {
	return &Lister{store: store}
}

// List implements objectstore.Lister. maxKeys is accepted for interface
// conformance but not forwarded: go-datatrails-common/azblob exposes no
// page-size option (only WithListPrefix, WithListMarker and the tag/etag
// options), so Azure's own server-side default page size governs how many
// items a single call returns.
func (l *Lister) List(ctx context.Context, bucket, prefix, startAfter string, maxKeys int) (objectstore.Page, error) {
	opts := []azblob.Option{azblob.WithListPrefix(prefix)}
	if startAfter != "" {
		opts = append(opts, azblob.WithListMarker(azblob.ListMarker(&startAfter)))
	}

	resp, err := l.store.List(ctx, opts...)
	if err != nil {
		if IsBlobNotFound(err) {
			return objectstore.Page{}, &objectstore.NotFoundError{Bucket: bucket, Prefix: prefix}
		}
		return objectstore.Page{}, &objectstore.EndpointError{
			Bucket:  bucket,
			Prefix:  prefix,
			Code:    "Unknown",
			Name:    "AzureBlobError",
			Message: err.Error(),
		}
	}

	page := objectstore.Page{Truncated: resp.Marker != nil}
	for _, item := range resp.Items {
		if item == nil || item.Name == nil {
			continue
		}
		obj := objectstore.Object{Key: *item.Name}
		if item.Properties != nil {
			if item.Properties.ContentLength != nil {
				obj.Size = uint64(*item.Properties.ContentLength)
			}
			if item.Properties.LastModified != nil {
				obj.LastModified = item.Properties.LastModified.Unix()
			}
			if item.Properties.Etag != nil {
				obj.ETag = string(*item.Properties.Etag)
			}
		}
		page.Objects = append(page.Objects, obj)
	}
	return page, nil
}

var _ objectstore.Lister = (*Lister)(nil)
