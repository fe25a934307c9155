package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ads_platform_backend/models"
	"ads_platform_backend/store"
)

// Store implements store.Storage in memory. Values are copied on the way in
// and out so callers never share state with the store.
type Store struct {
	mu       sync.RWMutex
	users    map[int]*models.User
	ads      map[int]*models.Ad
	comments map[int]*models.Comment
	images   map[int]*models.Image
	// imagesByAd holds image ids in upload order.
	imagesByAd map[int][]int
	nextID     map[string]int
	now        func() time.Time
}

var _ store.Storage = (*Store)(nil)

func New() *Store {
	return &Store{
		users:      make(map[int]*models.User),
		ads:        make(map[int]*models.Ad),
		comments:   make(map[int]*models.Comment),
		images:     make(map[int]*models.Image),
		imagesByAd: make(map[int][]int),
		nextID:     make(map[string]int),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) id(table string) int {
	s.nextID[table]++
	return s.nextID[table]
}

// === Users ===

func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, user.Username) {
			return nil, fmt.Errorf("username %s: %w", user.Username, store.ErrConflict)
		}
	}

	u := *user
	u.ID = s.id("users")
	u.CreatedAt = s.now()
	s.users[u.ID] = &u
	out := u
	return &out, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			out := *u
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[user.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.FirstName = user.FirstName
	u.LastName = user.LastName
	u.Phone = user.Phone
	out := *u
	return &out, nil
}

func (s *Store) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

// === Ads ===

func (s *Store) CreateAd(ctx context.Context, ad *models.Ad) (*models.Ad, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[ad.AuthorID]; !ok {
		return nil, fmt.Errorf("author %d: %w", ad.AuthorID, store.ErrNotFound)
	}

	a := *ad
	a.ID = s.id("ads")
	a.CreatedAt = s.now()
	a.LatestImageID = nil
	s.ads[a.ID] = &a
	return s.hydrateAd(&a), nil
}

func (s *Store) GetAd(ctx context.Context, id int) (*models.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.ads[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return s.hydrateAd(a), nil
}

func (s *Store) ListAds(ctx context.Context) ([]*models.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterAds(func(*models.Ad) bool { return true }), nil
}

func (s *Store) ListAdsByAuthor(ctx context.Context, authorID int) ([]*models.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterAds(func(a *models.Ad) bool { return a.AuthorID == authorID }), nil
}

func (s *Store) SearchAdsByTitle(ctx context.Context, query string) ([]*models.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	return s.filterAds(func(a *models.Ad) bool {
		return strings.Contains(strings.ToLower(a.Title), q)
	}), nil
}

func (s *Store) UpdateAd(ctx context.Context, ad *models.Ad) (*models.Ad, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.ads[ad.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	a.Title = ad.Title
	a.Price = ad.Price
	a.Description = ad.Description
	return s.hydrateAd(a), nil
}

func (s *Store) DeleteAd(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ads[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.ads, id)

	for cid, c := range s.comments {
		if c.AdID == id {
			delete(s.comments, cid)
		}
	}
	for _, imgID := range s.imagesByAd[id] {
		delete(s.images, imgID)
	}
	delete(s.imagesByAd, id)
	return nil
}

// filterAds returns hydrated copies ordered by id. Callers hold the lock.
func (s *Store) filterAds(keep func(*models.Ad) bool) []*models.Ad {
	out := make([]*models.Ad, 0, len(s.ads))
	for _, a := range s.ads {
		if keep(a) {
			out = append(out, s.hydrateAd(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) hydrateAd(a *models.Ad) *models.Ad {
	out := *a
	if u, ok := s.users[a.AuthorID]; ok {
		out.Author = *u
	}
	if ids := s.imagesByAd[a.ID]; len(ids) > 0 {
		latest := ids[len(ids)-1]
		out.LatestImageID = &latest
	}
	return &out
}

// === Comments ===

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ads[comment.AdID]; !ok {
		return nil, fmt.Errorf("ad %d: %w", comment.AdID, store.ErrNotFound)
	}
	if _, ok := s.users[comment.AuthorID]; !ok {
		return nil, fmt.Errorf("author %d: %w", comment.AuthorID, store.ErrNotFound)
	}

	c := *comment
	c.ID = s.id("comments")
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.comments[c.ID] = &c
	return s.hydrateComment(&c), nil
}

func (s *Store) GetComment(ctx context.Context, adID, id int) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok || c.AdID != adID {
		return nil, store.ErrNotFound
	}
	return s.hydrateComment(c), nil
}

func (s *Store) ListComments(ctx context.Context, adID int) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Comment, 0)
	for _, c := range s.comments {
		if c.AdID == adID {
			out = append(out, s.hydrateComment(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateCommentText(ctx context.Context, adID, id int, text string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok || c.AdID != adID {
		return nil, store.ErrNotFound
	}
	c.Text = text
	return s.hydrateComment(c), nil
}

func (s *Store) DeleteComment(ctx context.Context, adID, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok || c.AdID != adID {
		return store.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *Store) hydrateComment(c *models.Comment) *models.Comment {
	out := *c
	if u, ok := s.users[c.AuthorID]; ok {
		out.Author = *u
	}
	return &out
}

// === Images ===

func (s *Store) AddImage(ctx context.Context, image *models.Image) (*models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ads[image.AdID]; !ok {
		return nil, fmt.Errorf("ad %d: %w", image.AdID, store.ErrNotFound)
	}

	img := *image
	img.ID = s.id("images")
	img.CreatedAt = s.now()
	img.Data = append([]byte(nil), image.Data...)
	s.images[img.ID] = &img
	s.imagesByAd[img.AdID] = append(s.imagesByAd[img.AdID], img.ID)

	out := img
	out.Data = nil
	return &out, nil
}

func (s *Store) GetLatestImage(ctx context.Context, adID int) (*models.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.imagesByAd[adID]
	if len(ids) == 0 {
		return nil, store.ErrNotFound
	}
	img := *s.images[ids[len(ids)-1]]
	img.Data = append([]byte(nil), img.Data...)
	return &img, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}
