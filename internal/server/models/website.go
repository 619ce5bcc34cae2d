package models

import (
	"time"

	"github.com/dmitrijs2005/remember/internal/timex"
)

type WebsiteCategory string

const (
	WebsiteCategoryAI           WebsiteCategory = "ai"
	WebsiteCategoryProductivity WebsiteCategory = "productivity"
	WebsiteCategoryLearning     WebsiteCategory = "learning"
	WebsiteCategoryUtilities    WebsiteCategory = "utilities"
	WebsiteCategoryDevelopment  WebsiteCategory = "development"
	WebsiteCategoryDesign       WebsiteCategory = "design"
	WebsiteCategoryOther        WebsiteCategory = "other"
)

type Website struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Name        string          `json:"name"`
	URL         string          `json:"url"`
	Description string          `json:"description"`
	Category    WebsiteCategory `json:"category"`
	Tags        []string        `json:"tags"`
	IsFavorite  bool            `json:"isFavorite"`
	LastVisited *time.Time      `json:"lastVisited"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type WebsiteFilter struct {
	Category   WebsiteCategory `validate:"omitempty,oneof=ai productivity learning utilities development design other"`
	IsFavorite *bool
}

type CreateWebsiteRequest struct {
	Name        string          `json:"name" validate:"max=200"`
	URL         string          `json:"url" validate:"max=2048"`
	Description string          `json:"description" validate:"max=500"`
	Category    WebsiteCategory `json:"category" validate:"omitempty,oneof=ai productivity learning utilities development design other"`
	Tags        []string        `json:"tags"`
	IsFavorite  bool            `json:"isFavorite"`
}

type UpdateWebsiteRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=200"`
	URL         *string          `json:"url" validate:"omitempty,max=2048"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	Category    *WebsiteCategory `json:"category" validate:"omitempty,oneof=ai productivity learning utilities development design other"`
	Tags        *[]string        `json:"tags"`
	IsFavorite  *bool            `json:"isFavorite"`
	LastVisited *timex.Time      `json:"lastVisited"`
}
