package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ads_platform_backend/models"
	"ads_platform_backend/store/memory"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

type testEnv struct {
	store    *memory.Store
	ads      *AdsService
	comments *CommentService
	images   *ImageService
	users    *UserService

	alice models.Caller
	bob   models.Caller
	admin models.Caller
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s := memory.New()
	images := NewImageService(s, 1024, nil)
	env := &testEnv{
		store:    s,
		images:   images,
		ads:      NewAdsService(s, images, nil, nil),
		comments: NewCommentService(s, nil),
		users:    NewUserService(s),
	}
	env.alice = env.addUser(t, "alice", models.RoleUser)
	env.bob = env.addUser(t, "bob", models.RoleUser)
	env.admin = env.addUser(t, "root", models.RoleAdmin)
	return env
}

func (e *testEnv) addUser(t *testing.T, username string, role models.Role) models.Caller {
	t.Helper()
	u, err := e.store.CreateUser(context.Background(), &models.User{Username: username, Role: role, FirstName: username})
	require.NoError(t, err)
	return models.Caller{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func (e *testEnv) addAd(t *testing.T, owner models.Caller, title string) *models.Ad {
	t.Helper()
	ad, err := e.ads.Create(context.Background(), owner, &models.Ad{Title: title, Price: 10, Description: "d"}, nil)
	require.NoError(t, err)
	return ad
}
