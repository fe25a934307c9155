package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ads_platform_backend/models"
	"ads_platform_backend/store"
)

// newTestStore creates a store with one user and one ad.
func newTestStore(t *testing.T) (*Store, *models.User, *models.Ad) {
	s := New()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, &models.User{Username: "alice", FirstName: "Alice", Role: models.RoleUser})
	require.NoError(t, err)

	ad, err := s.CreateAd(ctx, &models.Ad{Title: "Red bicycle", Price: 100, AuthorID: user.ID})
	require.NoError(t, err)
	return s, user, ad
}

func TestStore_CreateUser_DuplicateUsername(t *testing.T) {
	s, _, _ := newTestStore(t)

	_, err := s.CreateUser(context.Background(), &models.User{Username: "ALICE"})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestStore_CreateAd_AssignsIDAndAuthor(t *testing.T) {
	s, user, ad := newTestStore(t)
	ctx := context.Background()

	second, err := s.CreateAd(ctx, &models.Ad{ID: ad.ID, Title: "Lamp", AuthorID: user.ID})
	require.NoError(t, err)
	assert.NotEqual(t, ad.ID, second.ID)
	assert.Equal(t, "alice", second.Author.Username)
	assert.Nil(t, second.LatestImageID)

	_, err = s.CreateAd(ctx, &models.Ad{Title: "Orphan", AuthorID: 999})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_SearchAdsByTitle_IgnoresCase(t *testing.T) {
	s, user, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateAd(ctx, &models.Ad{Title: "Blue BICYCLE helmet", AuthorID: user.ID})
	require.NoError(t, err)
	_, err = s.CreateAd(ctx, &models.Ad{Title: "Sofa", AuthorID: user.ID})
	require.NoError(t, err)

	found, err := s.SearchAdsByTitle(ctx, "bicycle")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Red bicycle", found[0].Title)
	assert.Equal(t, "Blue BICYCLE helmet", found[1].Title)
}

func TestStore_ListAdsByAuthor(t *testing.T) {
	s, user, _ := newTestStore(t)
	ctx := context.Background()

	bob, err := s.CreateUser(ctx, &models.User{Username: "bob"})
	require.NoError(t, err)
	_, err = s.CreateAd(ctx, &models.Ad{Title: "Bob's chair", AuthorID: bob.ID})
	require.NoError(t, err)

	mine, err := s.ListAdsByAuthor(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Red bicycle", mine[0].Title)

	all, err := s.ListAds(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_DeleteAd_CascadesCommentsAndImages(t *testing.T) {
	s, user, ad := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateComment(ctx, &models.Comment{AdID: ad.ID, AuthorID: user.ID, Text: "still available?"})
	require.NoError(t, err)
	_, err = s.AddImage(ctx, &models.Image{AdID: ad.ID, MediaType: "image/png", Data: []byte{1}})
	require.NoError(t, err)

	require.NoError(t, s.DeleteAd(ctx, ad.ID))

	_, err = s.GetAd(ctx, ad.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetComment(ctx, ad.ID, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetLatestImage(ctx, ad.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteAd(ctx, ad.ID), store.ErrNotFound)
}

func TestStore_Comments_ScopedToAd(t *testing.T) {
	s, user, ad := newTestStore(t)
	ctx := context.Background()

	other, err := s.CreateAd(ctx, &models.Ad{Title: "Other", AuthorID: user.ID})
	require.NoError(t, err)

	c, err := s.CreateComment(ctx, &models.Comment{AdID: ad.ID, AuthorID: user.ID, Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "alice", c.Author.Username)
	assert.False(t, c.CreatedAt.IsZero())

	_, err = s.GetComment(ctx, other.ID, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.UpdateCommentText(ctx, other.ID, c.ID, "hijack")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteComment(ctx, other.ID, c.ID), store.ErrNotFound)

	listed, err := s.ListComments(ctx, ad.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "hi", listed[0].Text)

	_, err = s.CreateComment(ctx, &models.Comment{AdID: 404, AuthorID: user.ID, Text: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_UpdateCommentText_KeepsOtherFields(t *testing.T) {
	s, user, ad := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateComment(ctx, &models.Comment{AdID: ad.ID, AuthorID: user.ID, Text: "before"})
	require.NoError(t, err)

	updated, err := s.UpdateCommentText(ctx, ad.ID, c.ID, "after")
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Text)
	assert.Equal(t, c.ID, updated.ID)
	assert.Equal(t, c.AuthorID, updated.AuthorID)
	assert.Equal(t, c.AdID, updated.AdID)
	assert.Equal(t, c.CreatedAt, updated.CreatedAt)
}

func TestStore_Images_LatestWins(t *testing.T) {
	s, _, ad := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddImage(ctx, &models.Image{AdID: ad.ID, MediaType: "image/png", Data: []byte("first")})
	require.NoError(t, err)
	second, err := s.AddImage(ctx, &models.Image{AdID: ad.ID, MediaType: "image/jpeg", Data: []byte("second")})
	require.NoError(t, err)

	latest, err := s.GetLatestImage(ctx, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, []byte("second"), latest.Data)
	assert.Equal(t, "image/jpeg", latest.MediaType)

	got, err := s.GetAd(ctx, ad.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LatestImageID)
	assert.Equal(t, second.ID, *got.LatestImageID)
}

func TestStore_ReturnedValuesAreCopies(t *testing.T) {
	s, _, ad := newTestStore(t)
	ctx := context.Background()

	ad.Title = "mutated by caller"
	got, err := s.GetAd(ctx, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, "Red bicycle", got.Title)
}
