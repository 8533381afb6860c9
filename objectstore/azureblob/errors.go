package azureblob

import (
	azStorageBlob "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

const azureBlobNotFoundCode = "BlobNotFound"

// asStorageError unwraps an Azure SDK internal error down to its
// StorageError.
func asStorageError(err error) (azStorageBlob.StorageError, bool) {
	serr := &azStorageBlob.StorageError{}
	//nolint
	ierr, ok := err.(*azStorageBlob.InternalError)
	if ierr == nil || !ok {
		return azStorageBlob.StorageError{}, false
	}
	if !ierr.As(&serr) {
		return azStorageBlob.StorageError{}, false
	}
	return *serr, true
}

// IsBlobNotFound reports whether err is Azure's not-found response for a
// blob or container.
func IsBlobNotFound(err error) bool {
	if err == nil {
		return false
	}
	serr, ok := asStorageError(err)
	if !ok {
		return false
	}
	return serr.ErrorCode == azureBlobNotFoundCode
}
