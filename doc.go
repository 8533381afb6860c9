// Package prefixlist is the root of the parallel prefix-range listing
// accelerator: a client-side speedup for object stores whose native
// listing protocol is strictly sequential (S3-style ListObjectsV2 and
// similar). See package listing for the public iterator, and
// objectstore.Lister for the collaborator this module consumes but does
// not implement.
package prefixlist
