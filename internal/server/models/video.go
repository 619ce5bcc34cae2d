package models

import (
	"time"

	"github.com/dmitrijs2005/remember/internal/timex"
)

type WatchStatus string

const (
	WatchStatusNotWatched WatchStatus = "not-watched"
	WatchStatusInProgress WatchStatus = "in-progress"
	WatchStatusCompleted  WatchStatus = "completed"
)

// DefaultVideoTitle is used when no title was supplied or could be fetched.
const DefaultVideoTitle = "YouTube Video"

type Video struct {
	ID            string      `json:"id"`
	UserID        string      `json:"userId"`
	VideoURL      string      `json:"videoUrl"`
	VideoID       string      `json:"videoId"`
	Title         string      `json:"title"`
	Thumbnail     string      `json:"thumbnail"`
	Description   string      `json:"description"`
	PersonalNotes string      `json:"personalNotes"`
	Tags          []string    `json:"tags"`
	WatchStatus   WatchStatus `json:"watchStatus"`
	Duration      string      `json:"duration"`
	Channel       string      `json:"channel"`
	LastWatchedAt *time.Time  `json:"lastWatchedAt"`
	ClickCount    int         `json:"clickCount"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type VideoFilter struct {
	WatchStatus WatchStatus `validate:"omitempty,oneof=not-watched in-progress completed"`
}

type CreateVideoRequest struct {
	VideoURL      string   `json:"videoUrl" validate:"max=2048"`
	Title         string   `json:"title" validate:"max=300"`
	Description   string   `json:"description" validate:"max=5000"`
	PersonalNotes string   `json:"personalNotes" validate:"max=1000"`
	Tags          []string `json:"tags"`
	Duration      string   `json:"duration" validate:"max=50"`
	Channel       string   `json:"channel" validate:"max=200"`
}

type UpdateVideoRequest struct {
	Title         *string      `json:"title" validate:"omitempty,max=300"`
	PersonalNotes *string      `json:"personalNotes" validate:"omitempty,max=1000"`
	Tags          *[]string    `json:"tags"`
	WatchStatus   *WatchStatus `json:"watchStatus" validate:"omitempty,oneof=not-watched in-progress completed"`
	ClickCount    *int         `json:"clickCount" validate:"omitempty,gte=0"`
	LastWatchedAt *timex.Time  `json:"lastWatchedAt"`
}

type FetchVideoInfoRequest struct {
	URL string `json:"url"`
}

// VideoInfo is the metadata scraped for a YouTube URL. Message explains a
// fallback title and travels in the response envelope.
type VideoInfo struct {
	VideoID   string `json:"videoId"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Message   string `json:"-"`
}
