package dto

import "postboard/backend/app/models"

// Page data for the HTML templates. Password fields are never echoed back.

type SignupPage struct {
	Errors   []string
	Username string
	Email    string
}

type LoginPage struct {
	Errors   []string
	Username string
}

type CreatePage struct {
	Errors      []string
	Title       string
	Description string
}

type IndexPage struct {
	Errors    []string
	Posts     []models.Post
	Role      models.Role
	CanCreate bool
}
