package blobstore

// Handle references a stored object.
type Handle struct {
	Bucket string
	Path   string
}

func (h Handle) String() string {
	return h.Bucket + "/" + h.Path
}
