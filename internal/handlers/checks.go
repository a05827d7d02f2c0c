package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/myposcore/backend/internal/checks"
	"github.com/myposcore/backend/internal/collection"
	"github.com/myposcore/backend/internal/middleware"
	"github.com/myposcore/backend/internal/response"
)

// CheckStore persists check runs (checks.Repo in production).
type CheckStore interface {
	Create(ctx context.Context, run *checks.Run) error
	FindByID(ctx context.Context, id uuid.UUID) (*checks.Run, error)
	List(ctx context.Context, limit, offset int) ([]checks.Run, int64, error)
}

// CheckHandler records and serves collection check runs.
type CheckHandler struct {
	store   CheckStore
	maxBody int64
	logger  *zap.Logger
}

func NewCheckHandler(store CheckStore, maxBodyBytes int64, logger *zap.Logger) *CheckHandler {
	return &CheckHandler{store: store, maxBody: maxBodyBytes, logger: logger}
}

// Create checks the posted collection and stores the run. POST /checks?name=
// The same collection content can be recorded once (409).
func (h *CheckHandler) Create(c *gin.Context) {
	doc, ok := parseCollection(c, h.maxBody)
	if !ok {
		return
	}
	run := checks.NewRun(c.Query("name"), doc, collection.Check(doc))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Create(ctx, &run); err != nil {
		if errors.Is(err, checks.ErrDuplicate) {
			response.Conflict(c, "this collection was already checked")
			return
		}
		h.logger.Error("create check run failed",
			zap.Error(err),
			zap.String("subject", middleware.SubjectFrom(c.Request.Context())),
		)
		response.InternalError(c, "internal error")
		return
	}
	h.logger.Info("check run recorded",
		zap.String("id", run.ID.String()),
		zap.String("subject", middleware.SubjectFrom(c.Request.Context())),
		zap.Int("issues", len(run.Issues)),
	)
	response.Created(c, response.MsgCreated, run)
}

// List pages through recorded runs, newest first. GET /checks?page=&page_size=
func (h *CheckHandler) List(c *gin.Context) {
	page := response.PageRequestFrom(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	runs, total, err := h.store.List(ctx, page.Limit(), page.Offset())
	if err != nil {
		h.logger.Error("list check runs failed", zap.Error(err))
		response.InternalError(c, "internal error")
		return
	}
	if runs == nil {
		runs = []checks.Run{}
	}
	response.Paginated(c, response.MsgSuccess, runs, response.NewPagination(page, total))
}

// Get answers one run. GET /checks/:id
func (h *CheckHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	run, err := h.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, checks.ErrNotFound) {
			response.NotFound(c, "check run not found")
			return
		}
		h.logger.Error("find check run failed", zap.Error(err), zap.String("id", id.String()))
		response.InternalError(c, "internal error")
		return
	}
	response.Success(c, response.MsgSuccess, run)
}
