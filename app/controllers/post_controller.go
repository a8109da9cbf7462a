package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/app/repositories"
	"github.com/pentshop/pentshop/pkg/bind"
	"github.com/pentshop/pentshop/pkg/response"
)

// PostController serves the CMS: devotionals, scriptures and
// announcements written by admins and read on the storefront.
type PostController struct {
	posts *repositories.PostRepository
}

func NewPostController(posts *repositories.PostRepository) *PostController {
	return &PostController{posts: posts}
}

// List handles GET /api/cms/posts (admin, all statuses).
func (c *PostController) List(w http.ResponseWriter, r *http.Request) {
	posts, err := c.posts.All(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, posts)
}

// Published handles GET /api/public/posts. Accepts ?limit=N.
func (c *PostController) Published(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			response.Error(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	posts, err := c.posts.Published(r.Context(), limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, posts)
}

// Get handles GET /api/cms/posts/{id}.
func (c *PostController) Get(w http.ResponseWriter, r *http.Request) {
	post, err := c.posts.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, post)
}

// Create handles POST /api/cms/posts.
func (c *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var post models.Post
	if errs, err := bind.JSON(r, &post); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	if err := c.posts.Create(r.Context(), &post); err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, post)
}

// Update handles PUT /api/cms/posts/{id}.
func (c *PostController) Update(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title   *string  `json:"title"`
		Content *string  `json:"content"`
		Type    *string  `json:"type"`
		Status  *string  `json:"status"`
		Author  *string  `json:"author"`
		Tags    []string `json:"tags"`
	}
	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := bson.M{}
	if body.Title != nil {
		fields["title"] = *body.Title
	}
	if body.Content != nil {
		fields["content"] = *body.Content
	}
	if body.Type != nil {
		fields["type"] = *body.Type
	}
	if body.Status != nil {
		fields["status"] = *body.Status
	}
	if body.Author != nil {
		fields["author"] = *body.Author
	}
	if body.Tags != nil {
		fields["tags"] = body.Tags
	}
	if len(fields) == 0 {
		response.Error(w, http.StatusBadRequest, "no fields to update")
		return
	}

	post, err := c.posts.Update(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, post)
}

// Like handles POST /api/public/posts/{id}/like.
func (c *PostController) Like(w http.ResponseWriter, r *http.Request) {
	post, err := c.posts.Increment(r.Context(), chi.URLParam(r, "id"), "likes")
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, post)
}

// View handles POST /api/public/posts/{id}/view.
func (c *PostController) View(w http.ResponseWriter, r *http.Request) {
	post, err := c.posts.Increment(r.Context(), chi.URLParam(r, "id"), "views")
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, post)
}

// Delete handles DELETE /api/cms/posts/{id}.
func (c *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.posts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Post deleted"})
}
