package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"ads_platform_backend/apperrors"
	"ads_platform_backend/models"
	"ads_platform_backend/store"
)

type ImageService struct {
	store    store.Storage
	maxBytes int64
	rec      Recorder
}

func NewImageService(s store.Storage, maxBytes int64, rec Recorder) *ImageService {
	return &ImageService{store: s, maxBytes: maxBytes, rec: recorderOrNop(rec)}
}

func (s *ImageService) MaxBytes() int64 {
	return s.maxBytes
}

// Prepare validates an uploaded payload and detects its media type from the
// content, not from the client-supplied header.
func (s *ImageService) Prepare(data []byte) (*models.Image, error) {
	if len(data) == 0 {
		return nil, apperrors.Invalid("Image is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, apperrors.TooLarge(fmt.Sprintf("Image exceeds %d bytes", s.maxBytes))
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, apperrors.Unsupported(fmt.Sprintf("Unsupported image type %s", mt.String()))
	}
	return &models.Image{MediaType: mt.String(), Data: data}, nil
}

// Authorize reports whether caller may replace the images of an ad, so
// handlers can reject a request before reading its payload.
func (s *ImageService) Authorize(ctx context.Context, caller models.Caller, adID int) error {
	ad, err := s.store.GetAd(ctx, adID)
	if err != nil {
		return storeErr(err, "Ad not found", "Failed to fetch ad")
	}
	return authorize(s.rec, caller, ad.Author, "ad")
}

// Upload stores data as the newest image of an ad. Only the ad's author or an
// admin may upload.
func (s *ImageService) Upload(ctx context.Context, caller models.Caller, adID int, data []byte) (*models.Image, error) {
	if err := s.Authorize(ctx, caller, adID); err != nil {
		return nil, err
	}

	img, err := s.Prepare(data)
	if err != nil {
		return nil, err
	}
	return s.attach(ctx, adID, img)
}

func (s *ImageService) attach(ctx context.Context, adID int, img *models.Image) (*models.Image, error) {
	img.AdID = adID
	stored, err := s.store.AddImage(ctx, img)
	if err != nil {
		return nil, storeErr(err, "Ad not found", "Failed to store image")
	}
	s.rec.ImageStored(img.Size())
	return stored, nil
}

// Latest returns the canonical (most recently uploaded) image of an ad.
func (s *ImageService) Latest(ctx context.Context, adID int) (*models.Image, error) {
	img, err := s.store.GetLatestImage(ctx, adID)
	if err != nil {
		return nil, storeErr(err, "Image not found", "Failed to fetch image")
	}
	return img, nil
}
