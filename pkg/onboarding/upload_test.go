package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUploadDocuments(t *testing.T) {
	tests := []struct {
		name      string
		candidate UploadCandidate
		wantErr   error
	}{
		{
			name:      "valid pdf",
			candidate: UploadCandidate{Filename: "permit.pdf", MimeType: "application/pdf", SizeBytes: 1024},
		},
		{
			name:      "valid jpeg",
			candidate: UploadCandidate{Filename: "cor.jpg", MimeType: "image/jpeg", SizeBytes: 500_000},
		},
		{
			name:      "valid png at exact limit",
			candidate: UploadCandidate{Filename: "dti.png", MimeType: "image/png", SizeBytes: MaxDocumentSizeBytes},
		},
		{
			name:      "uppercase extension accepted",
			candidate: UploadCandidate{Filename: "PERMIT.PDF", MimeType: "application/pdf", SizeBytes: 1024},
			wantErr:   nil,
		},
		{
			name:      "one byte over the limit",
			candidate: UploadCandidate{Filename: "scan.pdf", MimeType: "application/pdf", SizeBytes: MaxDocumentSizeBytes + 1},
			wantErr:   ErrFileTooLarge,
		},
		{
			name:      "disallowed extension",
			candidate: UploadCandidate{Filename: "permit.docx", MimeType: "application/pdf", SizeBytes: 1024},
			wantErr:   ErrInvalidFileType,
		},
		{
			name:      "extension ok but mime type wrong",
			candidate: UploadCandidate{Filename: "permit.pdf", MimeType: "application/zip", SizeBytes: 1024},
			wantErr:   ErrInvalidFileType,
		},
		{
			name:      "no extension at all",
			candidate: UploadCandidate{Filename: "permit", MimeType: "application/pdf", SizeBytes: 1024},
			wantErr:   ErrInvalidFileType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.candidate, DocumentUploadPolicy)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUploadImages(t *testing.T) {
	tests := []struct {
		name      string
		candidate UploadCandidate
		wantErr   error
	}{
		{
			name:      "valid webp",
			candidate: UploadCandidate{Filename: "logo.webp", MimeType: "image/webp", SizeBytes: 1024},
		},
		{
			name:      "pdf rejected on image surface",
			candidate: UploadCandidate{Filename: "logo.pdf", MimeType: "application/pdf", SizeBytes: 1024},
			wantErr:   ErrInvalidFileType,
		},
		{
			name:      "image extension with non-image mime",
			candidate: UploadCandidate{Filename: "logo.png", MimeType: "application/octet-stream", SizeBytes: 1024},
			wantErr:   ErrInvalidFileType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.candidate, ImageUploadPolicy)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
