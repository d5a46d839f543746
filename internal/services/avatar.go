package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/aistudio-backend/internal/apierr"
	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/repos"
	"github.com/yungbote/aistudio-backend/internal/types"
)

const maxPreviewCount = 6

type SaveAvatarInput struct {
	ImageURL  string
	Prompt    string
	Preferred bool
}

type AvatarService interface {
	GeneratePreview(ctx context.Context, prompt string) (string, error)
	// GeneratePreviews fans out num independent generation calls and returns
	// whichever succeed. It fails only when every call fails.
	GeneratePreviews(ctx context.Context, prompt string, num int) ([]string, error)
	// Save re-fetches the externally hosted preview and re-uploads the bytes
	// into owned storage, so the saved avatar outlives the provider URL.
	Save(ctx context.Context, userID uuid.UUID, in SaveAvatarInput) (*types.Avatar, error)
	List(ctx context.Context, userID uuid.UUID, page, limit int) ([]*types.Avatar, *Pagination, error)
	Delete(ctx context.Context, userID, avatarID uuid.UUID) error
}

type avatarService struct {
	db          *gorm.DB
	log         *logger.Logger
	avatarRepo  repos.AvatarRepo
	imageClient OpenAIClient
	bucket      BucketService
	fetchClient *http.Client
}

func NewAvatarService(db *gorm.DB, log *logger.Logger, avatarRepo repos.AvatarRepo, imageClient OpenAIClient, bucket BucketService) AvatarService {
	return &avatarService{
		db:          db,
		log:         log.With("service", "AvatarService"),
		avatarRepo:  avatarRepo,
		imageClient: imageClient,
		bucket:      bucket,
		fetchClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *avatarService) GeneratePreview(ctx context.Context, prompt string) (string, error) {
	result, err := s.imageClient.GenerateImage(ctx, prompt, ImageFormatURL)
	if err != nil {
		return "", err
	}
	return result.URL, nil
}

func (s *avatarService) GeneratePreviews(ctx context.Context, prompt string, num int) ([]string, error) {
	if num < 1 || num > maxPreviewCount {
		num = maxPreviewCount
	}

	urls := make([]string, num)
	errs := make([]error, num)
	var g errgroup.Group
	for i := 0; i < num; i++ {
		i := i
		g.Go(func() error {
			result, err := s.imageClient.GenerateImage(ctx, prompt, ImageFormatURL)
			if err != nil {
				errs[i] = err
				return nil
			}
			urls[i] = result.URL
			return nil
		})
	}
	_ = g.Wait()

	out := make([]string, 0, num)
	for _, u := range urls {
		if u != "" {
			out = append(out, u)
		}
	}
	if len(out) == 0 {
		for _, err := range errs {
			if err != nil {
				return nil, apierr.Upstream(fmt.Errorf("all preview generations failed: %w", err))
			}
		}
		return nil, apierr.Upstream(fmt.Errorf("all preview generations failed"))
	}
	return out, nil
}

func (s *avatarService) Save(ctx context.Context, userID uuid.UUID, in SaveAvatarInput) (*types.Avatar, error) {
	data, contentType, err := s.fetchImage(ctx, in.ImageURL)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%s/%d.png", userID, time.Now().UnixMilli())
	publicURL, err := s.bucket.UploadBuffer(ctx, key, data, contentType)
	if err != nil {
		return nil, err
	}

	avatar := &types.Avatar{
		ID:        uuid.New(),
		UserID:    userID,
		Prompt:    in.Prompt,
		ImageURL:  publicURL,
		ImageKey:  key,
		Preferred: in.Preferred,
	}
	// Clear-then-create runs in one transaction so at most one avatar per
	// user ends up preferred.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.Preferred {
			if err := s.avatarRepo.ClearPreferred(ctx, tx, userID); err != nil {
				return fmt.Errorf("failed to clear preferred avatars: %w", err)
			}
		}
		if err := s.avatarRepo.Create(ctx, tx, avatar); err != nil {
			return fmt.Errorf("failed to create avatar: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return avatar, nil
}

func (s *avatarService) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]*types.Avatar, *Pagination, error) {
	page, limit, offset := normalizePage(page, limit)

	var avatars []*types.Avatar
	var total int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		avatars, err = s.avatarRepo.ListByUser(gctx, nil, userID, offset, limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.avatarRepo.CountByUser(gctx, nil, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to list avatars: %w", err)
	}
	return avatars, &Pagination{Page: page, Limit: limit, Total: total}, nil
}

func (s *avatarService) Delete(ctx context.Context, userID, avatarID uuid.UUID) error {
	avatar, err := s.avatarRepo.GetByIDForUser(ctx, nil, avatarID, userID)
	if err != nil {
		return fmt.Errorf("failed to look up avatar: %w", err)
	}
	if avatar == nil {
		return apierr.NotFound("avatar not found")
	}

	// Storage first. If the row delete then fails the object is already gone
	// and the row is stranded; that is logged for out-of-band cleanup rather
	// than papered over.
	if avatar.ImageKey != "" {
		if err := s.bucket.DeleteObject(ctx, avatar.ImageKey); err != nil {
			return err
		}
	}
	if err := s.avatarRepo.Delete(ctx, nil, avatarID); err != nil {
		s.log.Warn("Stranded avatar row: storage object deleted but row delete failed",
			"avatar_id", avatarID.String(), "image_key", avatar.ImageKey, "error", err)
		return fmt.Errorf("failed to delete avatar row: %w", err)
	}
	return nil
}

func (s *avatarService) fetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", apierr.Validation("unable to fetch provided imageUrl")
	}
	resp, err := s.fetchClient.Do(req)
	if err != nil {
		return nil, "", apierr.Validation("unable to fetch provided imageUrl")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", apierr.Validation("unable to fetch provided imageUrl")
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", apierr.Validation("unable to fetch provided imageUrl")
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return data, contentType, nil
}
