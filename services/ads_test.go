package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ads_platform_backend/apperrors"
	"ads_platform_backend/models"
	"ads_platform_backend/store/memory"
)

func TestCanModify(t *testing.T) {
	author := models.User{Username: "alice"}

	assert.True(t, CanModify(models.Caller{Username: "alice", Role: models.RoleUser}, author))
	assert.True(t, CanModify(models.Caller{Username: "root", Role: models.RoleAdmin}, author))
	assert.False(t, CanModify(models.Caller{Username: "bob", Role: models.RoleUser}, author))
}

func TestAdsService_Create_IgnoresClientID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.addAd(t, env.alice, "Bike")

	ad, err := env.ads.Create(ctx, env.alice, &models.Ad{ID: first.ID, Title: "Lamp", AuthorID: env.bob.UserID}, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, ad.ID)
	assert.Equal(t, env.alice.UserID, ad.AuthorID)

	still, err := env.ads.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bike", still.Title)
}

func TestAdsService_Create_WithImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ad, err := env.ads.Create(ctx, env.alice, &models.Ad{Title: "Camera"}, pngBytes)
	require.NoError(t, err)
	require.NotNil(t, ad.LatestImageID)

	img, err := env.images.Latest(ctx, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MediaType)
}

func TestAdsService_Create_BadImageLeavesNoAd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ads.Create(ctx, env.alice, &models.Ad{Title: "Camera"}, []byte("not an image at all"))
	assert.ErrorIs(t, err, &apperrors.Error{Kind: apperrors.KindUnsupported})

	all, err := env.ads.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAdsService_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ads.Create(ctx, env.alice, &models.Ad{Title: "   "}, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalid)

	_, err = env.ads.Create(ctx, env.alice, &models.Ad{Title: "x", Price: -1}, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalid)
}

func TestAdsService_DeleteThenGet_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ad := env.addAd(t, env.alice, "Bike")

	require.NoError(t, env.ads.Delete(ctx, env.alice, ad.ID))

	_, err := env.ads.Get(ctx, ad.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, env.ads.Delete(ctx, env.alice, ad.ID), apperrors.ErrNotFound)
}

func TestAdsService_NonAuthorRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ad := env.addAd(t, env.alice, "Bike")

	_, err := env.ads.Update(ctx, env.bob, ad.ID, &models.Ad{Title: "Stolen", Price: 1})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.ErrorIs(t, env.ads.Delete(ctx, env.bob, ad.ID), apperrors.ErrForbidden)

	got, err := env.ads.Get(ctx, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bike", got.Title)
	assert.Equal(t, 10, got.Price)
}

func TestAdsService_AdminMayModify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ad := env.addAd(t, env.alice, "Bike")

	updated, err := env.ads.Update(ctx, env.admin, ad.ID, &models.Ad{Title: "Moderated", Price: 5, Description: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "Moderated", updated.Title)
	assert.Equal(t, env.alice.UserID, updated.AuthorID)
	assert.Equal(t, ad.ID, updated.ID)

	require.NoError(t, env.ads.Delete(ctx, env.admin, ad.ID))
}

func TestAdsService_ListMine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addAd(t, env.alice, "A1")
	env.addAd(t, env.bob, "B1")
	env.addAd(t, env.alice, "A2")

	mine, err := env.ads.ListMine(ctx, env.alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, ad := range mine {
		assert.Equal(t, env.alice.UserID, ad.AuthorID)
	}
}

func TestAdsService_SearchByTitle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addAd(t, env.alice, "Mountain Bike")
	env.addAd(t, env.bob, "bike helmet")
	env.addAd(t, env.bob, "Sofa")

	found, err := env.ads.SearchByTitle(ctx, "BIKE")
	require.NoError(t, err)
	titles := []string{}
	for _, ad := range found {
		titles = append(titles, ad.Title)
	}
	assert.ElementsMatch(t, []string{"Mountain Bike", "bike helmet"}, titles)

	none, err := env.ads.SearchByTitle(ctx, "car")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = env.ads.SearchByTitle(ctx, "  ")
	assert.ErrorIs(t, err, apperrors.ErrInvalid)
}

// brokenImageStore fails every image write and ad delete.
type brokenImageStore struct {
	*memory.Store
}

func (brokenImageStore) AddImage(context.Context, *models.Image) (*models.Image, error) {
	return nil, errors.New("disk full")
}

func (brokenImageStore) DeleteAd(context.Context, int) error {
	return errors.New("connection reset")
}

func TestAdsService_Create_LogsFailedCleanup(t *testing.T) {
	env := newTestEnv(t)
	log, hook := logtest.NewNullLogger()
	s := brokenImageStore{Store: env.store}
	ads := NewAdsService(s, NewImageService(s, 1024, nil), nil, log)

	_, err := ads.Create(context.Background(), env.alice, &models.Ad{Title: "Camera"}, pngBytes)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "failed to remove ad after image attach failed", entry.Message)
	assert.NotZero(t, entry.Data["ad_id"])
	assert.EqualError(t, entry.Data[logrus.ErrorKey].(error), "connection reset")
}
