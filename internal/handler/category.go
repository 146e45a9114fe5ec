package handler

import (
	"errors"

	"family-board/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct{ cats *service.CategoryService }

func NewCategoryHandler(cats *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{cats: cats}
}

// GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.cats.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "success", list)
}

// GET /api/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	cat, err := h.cats.Get(c.Request.Context(), id)
	if errors.Is(err, service.ErrCategoryNotFound) {
		notFound(c, err)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "success", cat)
}

// POST /api/categories?name=&description=
// The fields may also arrive as a urlencoded form.
func (h *CategoryHandler) Create(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		name = c.PostForm("name")
	}
	desc := c.Query("description")
	if desc == "" {
		desc = c.PostForm("description")
	}
	cat, err := h.cats.Create(c.Request.Context(), name, desc)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "category created", cat)
}
