package dto

import (
	"postboard/backend/app/models"
	"time"
)

type PostResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
}

// BoardResponse is the JSON form of the post list page.
type BoardResponse struct {
	Role      models.Role    `json:"role"`
	CanCreate bool           `json:"can_create"`
	Posts     []PostResponse `json:"posts"`
}

func NewPostResponse(p models.Post) PostResponse {
	out := PostResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Author:      p.Author.Username,
		CreatedAt:   p.CreatedAt,
	}
	if p.Image != nil {
		out.Image = *p.Image
	}
	return out
}
