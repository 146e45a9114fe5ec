package handler

import (
	"errors"
	"strings"

	"family-board/internal/middleware"
	"family-board/internal/model"
	"family-board/internal/service"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct{ boards *service.BoardService }

func NewBoardHandler(boards *service.BoardService) *BoardHandler {
	return &BoardHandler{boards: boards}
}

// GET /api/boards?page=&size=&search=
func (h *BoardHandler) List(c *gin.Context) {
	w := service.Window(queryInt(c, "page", 0), queryInt(c, "size", service.DefaultPageSize))
	var (
		page model.Page[model.BoardResponse]
		err  error
	)
	if kw := c.Query("search"); strings.TrimSpace(kw) != "" {
		page, err = h.boards.Search(c.Request.Context(), kw, w)
	} else {
		page, err = h.boards.List(c.Request.Context(), w)
	}
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "success", page)
}

// GET /api/boards/:id
func (h *BoardHandler) Detail(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	b, err := h.boards.View(c.Request.Context(), id)
	if errors.Is(err, service.ErrBoardNotFound) {
		notFound(c, err)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "success", b)
}

// GET /api/boards/category/:categoryId
func (h *BoardHandler) ByCategory(c *gin.Context) {
	id, err := pathID(c, "categoryId")
	if err != nil {
		fail(c, err)
		return
	}
	w := service.Window(queryInt(c, "page", 0), queryInt(c, "size", service.DefaultPageSize))
	page, err := h.boards.ListByCategory(c.Request.Context(), id, w)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "success", page)
}

// GET /api/boards/search?keyword=
func (h *BoardHandler) Search(c *gin.Context) {
	w := service.Window(queryInt(c, "page", 0), queryInt(c, "size", service.DefaultPageSize))
	page, err := h.boards.Search(c.Request.Context(), c.Query("keyword"), w)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "success", page)
}

// POST /api/boards
func (h *BoardHandler) Create(c *gin.Context) {
	var req model.BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.boards.Create(c.Request.Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "board created", b)
}

// PUT /api/boards/:id
func (h *BoardHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var req model.BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.boards.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "board updated", b)
}

// DELETE /api/boards/:id
func (h *BoardHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.boards.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, "board deleted", nil)
}
