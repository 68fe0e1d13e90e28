package model

// Bucket names. Each bucket is a directory under the uploads dir; objects
// get a public URL of the form /media/{bucket}/{folder}/{name}.
const (
	BucketImages = "campaign-images"
	BucketVideos = "campaign-videos"
)

// Virtual folders recognized inside the image bucket.
var BucketFolders = []string{"", "eventos", "noticias"}

// Upload size ceilings, enforced before any disk write.
const (
	MaxImageSize = 5 * 1024 * 1024  // 5MB
	MaxVideoSize = 50 * 1024 * 1024 // 50MB
)

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypeMP4  = "video/mp4"
	MimeTypeWebM = "video/webm"
)

// ImageVariantConfig defines settings for generating image variants.
type ImageVariantConfig struct {
	Width   int
	Height  int
	Quality int
	Crop    bool // true = crop to exact size, false = fit within bounds
}

// Supported image variant types
const (
	VariantThumbnail = "thumbnail"
	VariantMedium    = "medium"
)

// ImageVariants defines the default image variant configurations.
var ImageVariants = map[string]ImageVariantConfig{
	VariantThumbnail: {Width: 150, Height: 150, Quality: 80, Crop: true},
	VariantMedium:    {Width: 800, Height: 600, Quality: 85, Crop: false},
}

// SupportedImageTypes returns the image MIME types accepted by the image bucket.
func SupportedImageTypes() []string {
	return []string{MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP}
}

// SupportedVideoTypes returns the video MIME types accepted by the video bucket.
func SupportedVideoTypes() []string {
	return []string{MimeTypeMP4, MimeTypeWebM}
}

// IsImageMime reports whether a MIME type belongs to the image bucket set.
func IsImageMime(mimeType string) bool {
	for _, t := range SupportedImageTypes() {
		if t == mimeType {
			return true
		}
	}
	return false
}

// IsVideoMime reports whether a MIME type belongs to the video bucket set.
func IsVideoMime(mimeType string) bool {
	for _, t := range SupportedVideoTypes() {
		if t == mimeType {
			return true
		}
	}
	return false
}

// MaxSizeForBucket returns the upload ceiling for a bucket.
func MaxSizeForBucket(bucket string) int64 {
	if bucket == BucketVideos {
		return MaxVideoSize
	}
	return MaxImageSize
}
