// Package httpapi serves the admin and guest HTTP API.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/i18n"
	"github.com/ofirte/wedding-sub001/internal/infra/docstore"
	"github.com/ofirte/wedding-sub001/internal/repository"
	"github.com/ofirte/wedding-sub001/internal/service"
)

var errInvalidBody = errors.New("invalid request body")

type Handler struct {
	catalog    CatalogService
	rsvp       RSVPService
	invitees   InviteeService
	budget     BudgetService
	tasks      TaskService
	translator *i18n.Translator
	ready      func() bool
	logger     *zap.Logger
}

func NewHandler(
	catalog CatalogService,
	rsvp RSVPService,
	invitees InviteeService,
	budget BudgetService,
	tasks TaskService,
	translator *i18n.Translator,
	ready func() bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		catalog:    catalog,
		rsvp:       rsvp,
		invitees:   invitees,
		budget:     budget,
		tasks:      tasks,
		translator: translator,
		ready:      ready,
		logger:     logger,
	}
}

// Health reports whether the document store accepts requests.
func (h *Handler) Health(c *gin.Context) {
	if h.ready != nil && !h.ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// lang returns the translation bound to the ?lang= query parameter.
// Unknown languages fall back to the translator default.
func (h *Handler) lang(c *gin.Context) i18n.Func {
	return h.translator.For(c.Query("lang"))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMissingRequiredAnswers):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrGuestNotFound),
		errors.Is(err, entities.ErrQuestionNotFound),
		errors.Is(err, repository.ErrInviteeNotFound),
		errors.Is(err, repository.ErrBudgetItemNotFound),
		errors.Is(err, repository.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, errInvalidBody),
		errors.Is(err, entities.ErrInvalidAnswer),
		errors.Is(err, entities.ErrInvalidQuestion),
		errors.Is(err, entities.ErrDuplicateQuestionID),
		errors.Is(err, entities.ErrInvalidInvitee),
		errors.Is(err, entities.ErrInvalidBudgetItem),
		errors.Is(err, entities.ErrInvalidTask),
		errors.Is(err, docstore.ErrInvalidPath):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...}. Internal errors are logged and
// their details hidden from the client.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("wedding_id", c.Param("weddingID")),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func bind(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

// ResponseView is the JSON shape of a stored RSVP response.
type ResponseView struct {
	GuestID     string         `json:"guestId"`
	Answers     map[string]any `json:"answers"`
	IsSubmitted bool           `json:"isSubmitted"`
	SubmittedAt *time.Time     `json:"submittedAt,omitempty"`
}

func newResponseView(r *entities.Response) ResponseView {
	answers := make(map[string]any, len(r.Answers))
	for id, a := range r.Answers {
		answers[id] = a.Raw()
	}
	return ResponseView{
		GuestID:     r.GuestID,
		Answers:     answers,
		IsSubmitted: r.IsSubmitted,
		SubmittedAt: r.SubmittedAt,
	}
}
