package onboarding

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// MaxDocumentSizeBytes is the per-document upload limit (2 MB).
const MaxDocumentSizeBytes = 2 << 20

var (
	ErrFileTooLarge    = errors.New("file exceeds the maximum allowed size")
	ErrInvalidFileType = errors.New("file type is not allowed")
)

// UploadPolicy describes what a given upload surface accepts.
type UploadPolicy struct {
	MaxSizeBytes      int64
	AllowedExtensions []string // lowercase, with leading dot
	AllowedMimeTypes  []string
	// RequireImagePrefix additionally requires the mime type to start
	// with "image/" (profile/product images).
	RequireImagePrefix bool
}

// DocumentUploadPolicy governs registration document uploads.
var DocumentUploadPolicy = UploadPolicy{
	MaxSizeBytes:      MaxDocumentSizeBytes,
	AllowedExtensions: []string{".pdf", ".jpg", ".jpeg", ".png"},
	AllowedMimeTypes:  []string{"application/pdf", "image/jpeg", "image/jpg", "image/png"},
}

// ImageUploadPolicy governs image-only uploads (profile pictures, product
// photos).
var ImageUploadPolicy = UploadPolicy{
	MaxSizeBytes:       MaxDocumentSizeBytes,
	AllowedExtensions:  []string{".jpg", ".jpeg", ".png", ".webp"},
	AllowedMimeTypes:   []string{"image/jpeg", "image/jpg", "image/png", "image/webp"},
	RequireImagePrefix: true,
}

// ValidateUpload checks a candidate file against a policy. Both the filename
// extension and the declared mime type must pass; either failing rejects the
// candidate. The returned error wraps ErrFileTooLarge or ErrInvalidFileType
// and carries a human-readable reason.
func ValidateUpload(candidate UploadCandidate, policy UploadPolicy) error {
	if candidate.SizeBytes > policy.MaxSizeBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d bytes",
			ErrFileTooLarge, candidate.Filename, candidate.SizeBytes, policy.MaxSizeBytes)
	}

	ext := strings.ToLower(filepath.Ext(candidate.Filename))
	if !contains(policy.AllowedExtensions, ext) {
		return fmt.Errorf("%w: extension %q is not accepted (%s)",
			ErrInvalidFileType, ext, strings.Join(policy.AllowedExtensions, ", "))
	}

	mime := strings.ToLower(candidate.MimeType)
	if policy.RequireImagePrefix && !strings.HasPrefix(mime, "image/") {
		return fmt.Errorf("%w: %q is not an image mime type", ErrInvalidFileType, candidate.MimeType)
	}
	if !contains(policy.AllowedMimeTypes, mime) {
		return fmt.Errorf("%w: mime type %q is not accepted (%s)",
			ErrInvalidFileType, candidate.MimeType, strings.Join(policy.AllowedMimeTypes, ", "))
	}

	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
