package services

import (
	"context"
	"errors"
	"postboard/backend/app/models"
	"postboard/backend/app/session"
)

type PostStore interface {
	Create(ctx context.Context, p *models.Post) error
	List(ctx context.Context) ([]models.Post, error)
}

type PostService struct {
	posts PostStore
	users *UserService
}

func NewPostService(posts PostStore, users *UserService) *PostService {
	return &PostService{posts: posts, users: users}
}

type CreatePostParams struct {
	Title       string
	Description string
	// Image is the stored public path, empty when nothing was uploaded.
	Image string
}

func (s *PostService) CreatePost(ctx context.Context, sess *session.Session, p CreatePostParams) (*models.Post, error) {
	if !sess.Authenticated() {
		return nil, ErrUnauthorized
	}
	var v validator
	v.check(p.Title != "" && p.Description != "", ErrMissingFields)
	if err := v.err(); err != nil {
		return nil, err
	}

	post := &models.Post{Title: p.Title, Description: p.Description, AuthorID: sess.UserID}
	if p.Image != "" {
		img := p.Image
		post.Image = &img
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, storageErr(ErrCreatePost, err)
	}
	return post, nil
}

// Board is what the post list page renders.
type Board struct {
	Posts      []models.Post
	ViewerRole models.Role
}

func (b *Board) CanCreate() bool { return b.ViewerRole == models.RoleAdmin }

func (s *PostService) ListPosts(ctx context.Context, sess *session.Session) (*Board, error) {
	if !sess.Authenticated() {
		return nil, ErrUnauthorized
	}
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, storageErr(ErrListPosts, err)
	}
	role, err := s.users.Role(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, err
		}
		return nil, storageErr(ErrListPosts, err)
	}
	return &Board{Posts: posts, ViewerRole: role}, nil
}
