package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/Athulraj10/qashio-api-assignment/internal/repository/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	MaxReceiptSize   = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth  = 50
	MinReceiptHeight = 50
	ThumbnailWidth   = 200
	JPEGQuality      = 85

	// PresignExpiry is how long generated receipt URLs stay valid
	PresignExpiry = 1 * time.Hour
)

var (
	ErrReceiptTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrReceiptInvalidFormat        = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrReceiptTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrReceiptInvalidData          = errors.New("invalid image data")
	ErrReceiptStorageNotConfigured = errors.New("receipt storage is not configured")
)

// allowedReceiptExtensions maps extensions to content types
var allowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ReceiptMetadata contains presigned URLs for a stored receipt
type ReceiptMetadata struct {
	ID           string `json:"id"`
	ThumbnailURL string `json:"thumbnailUrl"`
	OriginalURL  string `json:"originalUrl"`
}

// ReceiptService processes receipt images and stores them in object storage
type ReceiptService struct {
	storage storage.ReceiptRepository
}

// NewReceiptService creates a new ReceiptService. A nil storage repository
// disables uploads (the feature is optional).
func NewReceiptService(storage storage.ReceiptRepository) *ReceiptService {
	return &ReceiptService{storage: storage}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured)
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the receipt image and returns the decoded image
func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedReceiptExtensions[ext]; !ok {
		return nil, ErrReceiptInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrReceiptInvalidData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptHeight {
		return nil, ErrReceiptTooSmall
	}

	return img, nil
}

// Upload validates a receipt image, stores the original plus a thumbnail
// variant and returns the new receipt's metadata
func (s *ReceiptService) Upload(ctx context.Context, userID uuid.UUID, data []byte, filename string) (*ReceiptMetadata, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	receiptID := uuid.New().String()

	variants := []struct {
		name     string
		maxWidth int
	}{
		{"thumb", ThumbnailWidth},
		{"original", 0}, // 0 means keep original size
	}

	var uploaded []string
	for _, variant := range variants {
		processed := img
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		objectPath := receiptObjectPath(userID, receiptID, variant.name)
		if err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
			// Best-effort cleanup of already uploaded variants
			for _, p := range uploaded {
				_ = s.storage.Delete(ctx, p)
			}
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}
		uploaded = append(uploaded, objectPath)
	}

	return s.URLs(ctx, userID, receiptID)
}

// URLs returns presigned URLs for an existing receipt
func (s *ReceiptService) URLs(ctx context.Context, userID uuid.UUID, receiptID string) (*ReceiptMetadata, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	thumbURL, err := s.storage.GeneratePresignedURL(ctx, receiptObjectPath(userID, receiptID, "thumb"), PresignExpiry)
	if err != nil {
		return nil, err
	}
	originalURL, err := s.storage.GeneratePresignedURL(ctx, receiptObjectPath(userID, receiptID, "original"), PresignExpiry)
	if err != nil {
		return nil, err
	}

	return &ReceiptMetadata{
		ID:           receiptID,
		ThumbnailURL: thumbURL,
		OriginalURL:  originalURL,
	}, nil
}

// Remove deletes all variants of a receipt
func (s *ReceiptService) Remove(ctx context.Context, userID uuid.UUID, receiptID string) error {
	if !s.IsEnabled() {
		return ErrReceiptStorageNotConfigured
	}

	var firstErr error
	for _, variant := range []string{"thumb", "original"} {
		if err := s.storage.Delete(ctx, receiptObjectPath(userID, receiptID, variant)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func receiptObjectPath(userID uuid.UUID, receiptID, variant string) string {
	return fmt.Sprintf("receipts/%s/%s/%s.jpg", userID, receiptID, variant)
}
