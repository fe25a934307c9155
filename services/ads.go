package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"ads_platform_backend/apperrors"
	"ads_platform_backend/logger"
	"ads_platform_backend/models"
	"ads_platform_backend/store"
)

type AdsService struct {
	store  store.Storage
	images *ImageService
	rec    Recorder
	log    logrus.FieldLogger
}

// NewAdsService builds the ad service. rec and log may be nil.
func NewAdsService(s store.Storage, images *ImageService, rec Recorder, log logrus.FieldLogger) *AdsService {
	if log == nil {
		log = logger.Discard()
	}
	return &AdsService{store: s, images: images, rec: recorderOrNop(rec), log: log}
}

func (s *AdsService) ListAll(ctx context.Context) ([]*models.Ad, error) {
	ads, err := s.store.ListAds(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch ads", err)
	}
	return ads, nil
}

func (s *AdsService) ListMine(ctx context.Context, caller models.Caller) ([]*models.Ad, error) {
	ads, err := s.store.ListAdsByAuthor(ctx, caller.UserID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch ads", err)
	}
	return ads, nil
}

// SearchByTitle returns the ads whose title contains query, ignoring case.
func (s *AdsService) SearchByTitle(ctx context.Context, query string) ([]*models.Ad, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.Invalid("title query parameter is required")
	}
	ads, err := s.store.SearchAdsByTitle(ctx, query)
	if err != nil {
		return nil, apperrors.Internal("Failed to search ads", err)
	}
	return ads, nil
}

func (s *AdsService) Get(ctx context.Context, id int) (*models.Ad, error) {
	ad, err := s.store.GetAd(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Ad not found", "Failed to fetch ad")
	}
	return ad, nil
}

// Create stores a new ad owned by caller. Any id on ad is discarded. When
// image is non-nil it is validated before the ad is written and attached
// afterwards.
func (s *AdsService) Create(ctx context.Context, caller models.Caller, ad *models.Ad, image []byte) (*models.Ad, error) {
	ad.ID = 0
	ad.AuthorID = caller.UserID
	ad.Title = strings.TrimSpace(ad.Title)
	if ad.Title == "" {
		return nil, apperrors.Invalid("Title is required")
	}
	if ad.Price < 0 {
		return nil, apperrors.Invalid("Price must not be negative")
	}

	var img *models.Image
	if image != nil {
		var err error
		if img, err = s.images.Prepare(image); err != nil {
			return nil, err
		}
	}

	created, err := s.store.CreateAd(ctx, ad)
	if err != nil {
		return nil, storeErr(err, "Author not found", "Failed to create ad")
	}
	s.rec.Mutation("ad", "create")

	if img == nil {
		return created, nil
	}
	if _, err := s.images.attach(ctx, created.ID, img); err != nil {
		// Leave no half-created ad behind.
		if delErr := s.store.DeleteAd(ctx, created.ID); delErr != nil {
			s.log.WithError(delErr).WithField("ad_id", created.ID).Error("failed to remove ad after image attach failed")
		}
		return nil, err
	}
	return s.Get(ctx, created.ID)
}

// Update replaces title, price and description. Identity and author are
// preserved.
func (s *AdsService) Update(ctx context.Context, caller models.Caller, id int, changes *models.Ad) (*models.Ad, error) {
	ad, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.rec, caller, ad.Author, "ad"); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(changes.Title)
	if title == "" {
		return nil, apperrors.Invalid("Title is required")
	}
	if changes.Price < 0 {
		return nil, apperrors.Invalid("Price must not be negative")
	}
	ad.Title = title
	ad.Price = changes.Price
	ad.Description = changes.Description

	updated, err := s.store.UpdateAd(ctx, ad)
	if err != nil {
		return nil, storeErr(err, "Ad not found", "Failed to update ad")
	}
	s.rec.Mutation("ad", "update")
	return updated, nil
}

func (s *AdsService) Delete(ctx context.Context, caller models.Caller, id int) error {
	ad, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(s.rec, caller, ad.Author, "ad"); err != nil {
		return err
	}
	if err := s.store.DeleteAd(ctx, id); err != nil {
		return storeErr(err, "Ad not found", "Failed to delete ad")
	}
	s.rec.Mutation("ad", "delete")
	return nil
}
