package validation

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

// PendingPhoto holds a validated upload before it reaches object storage.
type PendingPhoto struct {
	Filename    string
	SizeBytes   int64
	MimeType    string
	ImageWidth  *int
	ImageHeight *int
	Data        multipart.File
}

// ValidateAndParseMultipart enforces the size limit and parses the form.
// MaxBytesReader stops reading at the limit, so oversized uploads cannot
// exhaust the server even if the client lies about Content-Length.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		return fmt.Errorf("%w: failed to parse multipart form", ErrPayloadTooLarge)
	}
	return nil
}

// ValidatePhoto opens and checks the single "image" form file: MIME type must
// be one of allowedMimes, and dimensions are extracted when decodable.
// The caller owns closing the returned Data.
func ValidatePhoto(fileHeader *multipart.FileHeader, allowedMimes []string) (*PendingPhoto, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	mimeType, err := DetectMimeType(fileHeader)
	if err != nil {
		file.Close()
		return nil, err
	}

	allowed := false
	for _, m := range allowedMimes {
		if m == mimeType {
			allowed = true
			break
		}
	}
	if !allowed {
		file.Close()
		return nil, fmt.Errorf("%w: %s (file: %s)", ErrInvalidMimeType, mimeType, fileHeader.Filename)
	}

	width, height := ExtractImageDimensions(file, mimeType)

	return &PendingPhoto{
		Filename:    fileHeader.Filename,
		SizeBytes:   fileHeader.Size,
		MimeType:    mimeType,
		ImageWidth:  width,
		ImageHeight: height,
		Data:        file,
	}, nil
}

func DetectMimeType(fileHeader *multipart.FileHeader) (string, error) {
	mimeType := fileHeader.Header.Get("Content-Type")

	// If no Content-Type or it's generic, detect from extension
	if mimeType == "" || mimeType == "application/octet-stream" {
		ext := filepath.Ext(fileHeader.Filename)
		detectedType := mime.TypeByExtension(ext)
		if detectedType != "" {
			mimeType = detectedType
		}
	}

	if mimeType == "" {
		return "", fmt.Errorf("could not detect MIME type for file: %s", fileHeader.Filename)
	}

	return mimeType, nil
}

func ExtractImageDimensions(file multipart.File, mimeType string) (*int, *int) {
	img, _, err := image.DecodeConfig(file)
	if err != nil {
		// If we can't decode, just return nil (not a fatal error)
		file.Seek(0, 0)
		return nil, nil
	}
	file.Seek(0, 0)

	width, height := img.Width, img.Height
	return &width, &height
}
