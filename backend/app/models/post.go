package models

import "time"

type Post struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text;not null"`
	// Image is the public URL path of the uploaded file, if any.
	Image     *string `gorm:"size:512"`
	AuthorID  uint    `gorm:"index;not null"`
	Author    User    `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}
