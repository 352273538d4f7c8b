package controllers

import (
	"errors"
	"net/http"
	"postboard/backend/app/dto"
	"postboard/backend/app/middleware"
	"postboard/backend/app/services"
	"postboard/backend/app/session"
	"postboard/backend/app/upload"
	"postboard/backend/app/view"
	"postboard/backend/global"
)

type PostController struct {
	Posts          *services.PostService
	Users          *services.UserService
	Cookies        *session.Cookies
	Uploads        *upload.Store
	View           *view.Renderer
	MaxUploadBytes int64
}

func NewPostController(posts *services.PostService, users *services.UserService, cookies *session.Cookies, uploads *upload.Store, v *view.Renderer, maxUploadBytes int64) *PostController {
	return &PostController{Posts: posts, Users: users, Cookies: cookies, Uploads: uploads, View: v, MaxUploadBytes: maxUploadBytes}
}

// Index GET /
func (c *PostController) Index(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	board, err := c.Posts.ListPosts(r.Context(), sess)
	if errors.Is(err, services.ErrUnauthorized) {
		// the account behind the session is gone
		if sess != nil {
			_ = c.Users.Logout(r.Context(), sess.ID)
		}
		c.Cookies.Clear(w)
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
		return
	}
	if err != nil {
		global.Logger.Error().Err(err).Msg("failed to list posts")
		if wantsJSON(r) {
			writeJSONError(w, http.StatusInternalServerError, services.ErrListPosts.Error())
			return
		}
		render(c.View, w, http.StatusInternalServerError, "index", dto.IndexPage{Errors: services.UserMessages(err)})
		return
	}

	if wantsJSON(r) {
		resp := dto.BoardResponse{Role: board.ViewerRole, CanCreate: board.CanCreate(), Posts: make([]dto.PostResponse, 0, len(board.Posts))}
		for _, p := range board.Posts {
			resp.Posts = append(resp.Posts, dto.NewPostResponse(p))
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}
	render(c.View, w, http.StatusOK, "index", dto.IndexPage{Posts: board.Posts, Role: board.ViewerRole, CanCreate: board.CanCreate()})
}

// CreateForm GET /create
func (c *PostController) CreateForm(w http.ResponseWriter, r *http.Request) {
	render(c.View, w, http.StatusOK, "create", dto.CreatePage{})
}

// Create POST /create
func (c *PostController) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	if err := parseForm(w, r, c.MaxUploadBytes); err != nil {
		status, msgs := formError(err)
		global.Logger.Warn().Err(err).Uint("user", sess.UserID).Msg("rejected post form")
		render(c.View, w, status, "create", dto.CreatePage{Errors: msgs})
		return
	}
	defer cleanupForm(r)

	page := dto.CreatePage{Title: r.FormValue("title"), Description: r.FormValue("description")}
	image, err := c.saveImage(r)
	if err != nil {
		global.Logger.Error().Err(err).Uint("user", sess.UserID).Msg("failed to store upload")
		page.Errors = []string{services.ErrCreatePost.Error()}
		render(c.View, w, http.StatusInternalServerError, "create", page)
		return
	}

	_, err = c.Posts.CreatePost(r.Context(), sess, services.CreatePostParams{Title: page.Title, Description: page.Description, Image: image})
	if err != nil {
		if image != "" {
			if rmErr := c.Uploads.Remove(image); rmErr != nil {
				global.Logger.Warn().Err(rmErr).Str("image", image).Msg("failed to remove orphaned upload")
			}
		}
		if errors.Is(err, services.ErrStorage) {
			global.Logger.Error().Err(err).Uint("user", sess.UserID).Msg("failed to create post")
		}
		page.Errors = services.UserMessages(err)
		render(c.View, w, statusFor(err), "create", page)
		return
	}
	http.Redirect(w, r, middleware.HomePath, http.StatusFound)
}

func (c *PostController) saveImage(r *http.Request) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()
	if header.Size == 0 && header.Filename == "" {
		return "", nil
	}
	return c.Uploads.Save(file, header)
}
