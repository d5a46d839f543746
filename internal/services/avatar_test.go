package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/aistudio-backend/internal/apierr"
	"github.com/yungbote/aistudio-backend/internal/repos"
	"github.com/yungbote/aistudio-backend/internal/types"
)

type avatarFixture struct {
	svc    AvatarService
	repo   repos.AvatarRepo
	bucket *fakeBucket
	openai *fakeOpenAI
}

func newAvatarFixture(t *testing.T) *avatarFixture {
	t.Helper()
	db := testDB(t)
	log := testLogger(t)
	repo := repos.NewAvatarRepo(db, log)
	bucket := newFakeBucket()
	openai := &fakeOpenAI{imageURL: "https://images.test/preview.png"}
	return &avatarFixture{
		svc:    NewAvatarService(db, log, repo, openai, bucket),
		repo:   repo,
		bucket: bucket,
		openai: openai,
	}
}

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "missing.png") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSaveAvatar(t *testing.T) {
	f := newAvatarFixture(t)
	srv := imageServer(t)
	ctx := context.Background()
	userID := uuid.New()

	avatar, err := f.svc.Save(ctx, userID, SaveAvatarInput{
		ImageURL: srv.URL + "/preview.png",
		Prompt:   "friendly podcast host",
	})
	require.NoError(t, err)
	require.NotNil(t, avatar)
	assert.Equal(t, userID, avatar.UserID)
	assert.False(t, avatar.Preferred)
	assert.True(t, strings.HasPrefix(avatar.ImageKey, "avatars/"+userID.String()+"/"))
	assert.Equal(t, f.bucket.ObjectURL(avatar.ImageKey), avatar.ImageURL)
	assert.Equal(t, []byte("png-bytes"), f.bucket.uploads[avatar.ImageKey])
}

func TestSavePreferredClearsPrevious(t *testing.T) {
	f := newAvatarFixture(t)
	srv := imageServer(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := f.svc.Save(ctx, userID, SaveAvatarInput{
		ImageURL:  srv.URL + "/a.png",
		Prompt:    "first avatar",
		Preferred: true,
	})
	require.NoError(t, err)

	second, err := f.svc.Save(ctx, userID, SaveAvatarInput{
		ImageURL:  srv.URL + "/b.png",
		Prompt:    "second avatar",
		Preferred: true,
	})
	require.NoError(t, err)

	got, err := f.repo.GetByIDForUser(ctx, nil, first.ID, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Preferred, "old preferred flag must be cleared")

	got, err = f.repo.GetByIDForUser(ctx, nil, second.ID, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Preferred)
}

func TestSaveRejectsUnfetchableImage(t *testing.T) {
	f := newAvatarFixture(t)
	srv := imageServer(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := f.svc.Save(ctx, userID, SaveAvatarInput{
		ImageURL: srv.URL + "/missing.png",
		Prompt:   "broken preview",
	})
	require.Error(t, err)
	apiErr := apierr.From(err)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, apierr.CodeValidation, apiErr.Code)

	count, err := f.repo.CountByUser(ctx, nil, userID)
	require.NoError(t, err)
	assert.Zero(t, count, "no row persisted on fetch failure")
	assert.Empty(t, f.bucket.uploads, "no object uploaded on fetch failure")
}

func TestDeleteAvatar(t *testing.T) {
	f := newAvatarFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	avatar := &types.Avatar{
		ID:       uuid.New(),
		UserID:   userID,
		Prompt:   "to delete",
		ImageURL: "https://cdn.test/video/avatars/x.png",
		ImageKey: "avatars/x.png",
	}
	require.NoError(t, f.repo.Create(ctx, nil, avatar))
	f.bucket.uploads[avatar.ImageKey] = []byte("png")

	require.NoError(t, f.svc.Delete(ctx, userID, avatar.ID))

	got, err := f.repo.GetByIDForUser(ctx, nil, avatar.ID, userID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Contains(t, f.bucket.deleted, avatar.ImageKey)
}

func TestDeleteAvatarEnforcesOwnership(t *testing.T) {
	f := newAvatarFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	avatar := &types.Avatar{
		ID:       uuid.New(),
		UserID:   owner,
		Prompt:   "owned",
		ImageURL: "https://cdn.test/video/avatars/y.png",
		ImageKey: "avatars/y.png",
	}
	require.NoError(t, f.repo.Create(ctx, nil, avatar))

	err := f.svc.Delete(ctx, uuid.New(), avatar.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apierr.From(err).Status)
	assert.Empty(t, f.bucket.deleted, "foreign delete must not touch storage")

	got, err := f.repo.GetByIDForUser(ctx, nil, avatar.ID, owner)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestListAvatarsPagination(t *testing.T) {
	f := newAvatarFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 25; i++ {
		require.NoError(t, f.repo.Create(ctx, nil, &types.Avatar{
			ID:        uuid.New(),
			UserID:    userID,
			Prompt:    fmt.Sprintf("prompt-%02d", i),
			ImageURL:  "u",
			ImageKey:  "k",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	avatars, pagination, err := f.svc.List(ctx, userID, 2, 10)
	require.NoError(t, err)
	require.Len(t, avatars, 10)
	assert.EqualValues(t, 25, pagination.Total)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 10, pagination.Limit)

	// Page two of newest-first covers the 11th through 20th newest rows.
	for i, avatar := range avatars {
		assert.Equal(t, fmt.Sprintf("prompt-%02d", 14-i), avatar.Prompt)
	}
}

func TestListAvatarsPreferredFirst(t *testing.T) {
	f := newAvatarFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// The oldest avatar is preferred; it must still lead the listing.
	for i, avatar := range []*types.Avatar{
		{Prompt: "oldest-preferred", Preferred: true},
		{Prompt: "middle"},
		{Prompt: "newest"},
	} {
		avatar.ID = uuid.New()
		avatar.UserID = userID
		avatar.ImageURL = "u"
		avatar.ImageKey = "k"
		avatar.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, f.repo.Create(ctx, nil, avatar))
	}

	avatars, _, err := f.svc.List(ctx, userID, 1, 10)
	require.NoError(t, err)
	require.Len(t, avatars, 3)
	assert.Equal(t, "oldest-preferred", avatars[0].Prompt)
	assert.Equal(t, "newest", avatars[1].Prompt)
	assert.Equal(t, "middle", avatars[2].Prompt)
}

func TestGeneratePreviewsPartialSuccess(t *testing.T) {
	f := newAvatarFixture(t)
	f.openai.failEvery = 2

	urls, err := f.svc.GeneratePreviews(context.Background(), "friendly host", 6)
	require.NoError(t, err)
	assert.Len(t, urls, 3, "failed generations are dropped, survivors returned")
}

func TestGeneratePreviewsAllFail(t *testing.T) {
	f := newAvatarFixture(t)
	f.openai.failEvery = 1

	_, err := f.svc.GeneratePreviews(context.Background(), "friendly host", 3)
	require.Error(t, err)
	assert.Equal(t, apierr.CodeUpstream, apierr.From(err).Code)
}

func TestGeneratePreviewsClampsCount(t *testing.T) {
	f := newAvatarFixture(t)

	urls, err := f.svc.GeneratePreviews(context.Background(), "friendly host", 99)
	require.NoError(t, err)
	assert.Len(t, urls, maxPreviewCount)
}
