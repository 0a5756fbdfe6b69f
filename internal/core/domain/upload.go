package domain

type StorageType string

const (
	StorageCloudinary StorageType = "cloudinary"
	StorageLocal      StorageType = "local"
)

// UploadFile is one file received from the admin upload form.
type UploadFile struct {
	Name         string
	DeclaredType string
	Size         int64
	Data         []byte
}

// StoredObject is what a storage backend returns after persisting a file.
type StoredObject struct {
	FileName  string
	URL       string
	Size      int64
	Width     *int
	Height    *int
	Duration  *float64
	PublicID  string
	Thumbnail string
	Storage   StorageType
}

// UploadResult reports the outcome for a single file; Err is set on failure.
type UploadResult struct {
	OriginalName string
	MimeType     string
	Type         MediaType
	Object       *StoredObject
	Err          error
}

func (r UploadResult) OK() bool {
	return r.Err == nil && r.Object != nil
}
