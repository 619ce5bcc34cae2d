package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/remember/internal/common"
	"github.com/dmitrijs2005/remember/internal/dbx"
	"github.com/dmitrijs2005/remember/internal/server/models"
	"github.com/dmitrijs2005/remember/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/remember/internal/server/youtube"
	"github.com/dmitrijs2005/remember/internal/validation"
	"github.com/google/uuid"
)

var errVideoURLRequired = common.NewValidationError("Video URL is required")

// InfoFetcher looks up metadata for a video URL. *youtube.Client implements it.
type InfoFetcher interface {
	FetchInfo(ctx context.Context, rawURL string) (*models.VideoInfo, error)
}

type VideoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validator   *validation.Validator
	fetcher     InfoFetcher
}

func NewVideoService(db *sql.DB, m repomanager.RepositoryManager, v *validation.Validator, f InfoFetcher) *VideoService {
	return &VideoService{db: db, repomanager: m, validator: v, fetcher: f}
}

func (s *VideoService) List(ctx context.Context, userID string, filter models.VideoFilter) ([]*models.Video, error) {
	if err := s.validator.Validate(filter); err != nil {
		return nil, err
	}
	return s.repomanager.Videos(s.db).List(ctx, userID, filter)
}

func (s *VideoService) Get(ctx context.Context, userID, id string) (*models.Video, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repomanager.Videos(s.db).Get(ctx, userID, id)
}

// Create saves a video. The video id and thumbnail are derived from the URL.
func (s *VideoService) Create(ctx context.Context, userID string, req models.CreateVideoRequest) (*models.Video, error) {
	req.VideoURL = strings.TrimSpace(req.VideoURL)
	if req.VideoURL == "" {
		return nil, errVideoURLRequired
	}

	videoID := youtube.ExtractVideoID(req.VideoURL)
	if videoID == "" {
		return nil, common.ErrInvalidVideoURL
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = models.DefaultVideoTitle
	}

	ts := now()
	video := &models.Video{
		ID:            uuid.NewString(),
		UserID:        userID,
		VideoURL:      req.VideoURL,
		VideoID:       videoID,
		Title:         title,
		Thumbnail:     youtube.ThumbnailURL(videoID),
		Description:   req.Description,
		PersonalNotes: req.PersonalNotes,
		Tags:          cloneTags(req.Tags),
		WatchStatus:   models.WatchStatusNotWatched,
		Duration:      req.Duration,
		Channel:       req.Channel,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}

	if err := s.repomanager.Videos(s.db).Create(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// Update applies the provided fields. An empty title or watch status is
// ignored, as is a zero lastWatchedAt.
func (s *VideoService) Update(ctx context.Context, userID, id string, req models.UpdateVideoRequest) (*models.Video, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	req.WatchStatus = dropEmpty(req.WatchStatus)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var video *models.Video
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Videos(tx)

		var err error
		video, err = repo.Get(ctx, userID, id)
		if err != nil {
			return err
		}

		if req.Title != nil && !blank(*req.Title) {
			video.Title = strings.TrimSpace(*req.Title)
		}
		if req.PersonalNotes != nil {
			video.PersonalNotes = *req.PersonalNotes
		}
		if req.Tags != nil {
			video.Tags = cloneTags(*req.Tags)
		}
		if req.WatchStatus != nil {
			video.WatchStatus = *req.WatchStatus
		}
		if req.ClickCount != nil {
			video.ClickCount = *req.ClickCount
		}
		if req.LastWatchedAt != nil && !req.LastWatchedAt.IsZero() {
			video.LastWatchedAt = req.LastWatchedAt.Ptr()
		}
		video.UpdatedAt = now()

		return repo.Update(ctx, video)
	})
	if err != nil {
		return nil, err
	}
	return video, nil
}

func (s *VideoService) Delete(ctx context.Context, userID, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.repomanager.Videos(s.db).Delete(ctx, userID, id)
}

// FetchInfo previews the title and thumbnail of a video before saving it.
func (s *VideoService) FetchInfo(ctx context.Context, rawURL string) (*models.VideoInfo, error) {
	return s.fetcher.FetchInfo(ctx, rawURL)
}
