package httpapi

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/service"
)

// filterPrefix marks table filter query parameters: filter.<column>=<value>.
const filterPrefix = "filter."

type answersRequest struct {
	Answers map[string]any `json:"answers"`
	Submit  bool           `json:"submit"`
}

func (h *Handler) GetConfig(c *gin.Context) {
	cfg, err := h.catalog.Config(c.Request.Context(), c.Param("weddingID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) PutConfig(c *gin.Context) {
	var cfg entities.RSVPConfig
	if err := bind(c, &cfg); err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.catalog.SaveConfig(c.Request.Context(), c.Param("weddingID"), &cfg); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// ListQuestions returns the effective, translated question list.
func (h *Handler) ListQuestions(c *gin.Context) {
	qs, err := h.catalog.Questions(c.Request.Context(), c.Param("weddingID"), h.lang(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": qs})
}

func (h *Handler) AddQuestion(c *gin.Context) {
	var q entities.Question
	if err := bind(c, &q); err != nil {
		h.respondError(c, err)
		return
	}
	added, err := h.catalog.AddCustomQuestion(c.Request.Context(), c.Param("weddingID"), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, added)
}

func (h *Handler) UpdateQuestion(c *gin.Context) {
	var q entities.Question
	if err := bind(c, &q); err != nil {
		h.respondError(c, err)
		return
	}
	updated, err := h.catalog.UpdateCustomQuestion(c.Request.Context(), c.Param("weddingID"), c.Param("questionID"), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteQuestion(c *gin.Context) {
	if err := h.catalog.RemoveCustomQuestion(c.Request.Context(), c.Param("weddingID"), c.Param("questionID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) SetQuestionEnabled(c *gin.Context) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := bind(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.catalog.SetEnabled(c.Request.Context(), c.Param("weddingID"), c.Param("questionID"), req.Enabled); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ReorderQuestions(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := bind(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.catalog.Reorder(c.Request.Context(), c.Param("weddingID"), req.IDs); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Table serves the admin guest table. Query: sort=<column>&dir=asc|desc and
// any number of filter.<column>=<value> pairs.
func (h *Handler) Table(c *gin.Context) {
	query := service.TableQuery{
		SortBy:  c.Query("sort"),
		Desc:    strings.EqualFold(c.Query("dir"), "desc"),
		Filters: make(map[string][]string),
	}
	for key, values := range c.Request.URL.Query() {
		if col, ok := strings.CutPrefix(key, filterPrefix); ok && col != "" {
			query.Filters[col] = append(query.Filters[col], values...)
		}
	}

	view, err := h.rsvp.Table(c.Request.Context(), c.Param("weddingID"), h.lang(c), query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) Stats(c *gin.Context) {
	cards, err := h.rsvp.Stats(c.Request.Context(), c.Param("weddingID"), h.lang(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

func (h *Handler) GetGuestResponse(c *gin.Context) {
	resp, err := h.rsvp.Read(c.Request.Context(), c.Param("weddingID"), c.Param("guestID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if resp == nil {
		resp = entities.NewResponse(c.Param("guestID"))
	}
	c.JSON(http.StatusOK, newResponseView(resp))
}

// EditGuestResponse lets an admin save or submit answers for a guest.
func (h *Handler) EditGuestResponse(c *gin.Context) {
	ctx := c.Request.Context()
	weddingID, guestID := c.Param("weddingID"), c.Param("guestID")

	var req answersRequest
	if err := bind(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	answers, err := h.rsvp.ParseAnswers(ctx, weddingID, req.Answers)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var resp *entities.Response
	if req.Submit {
		resp, err = h.rsvp.Submit(ctx, weddingID, guestID, answers)
	} else {
		resp, err = h.rsvp.Write(ctx, weddingID, guestID, answers)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newResponseView(resp))
}

// Events streams change notifications of the wedding's invitees and
// responses as server-sent events until the client goes away.
func (h *Handler) Events(c *gin.Context) {
	ctx := c.Request.Context()
	events := make(chan service.ChangeEvent, 16)

	go h.rsvp.Watch(ctx, c.Param("weddingID"), func(e service.ChangeEvent) {
		select {
		case events <- e:
		default:
			// Slow client: it will refetch on the next event anyway.
		}
	})

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case e := <-events:
			c.SSEvent("change", e)
			return true
		}
	})
}

// Guest routes, keyed by the public invite code.

func (h *Handler) GuestForm(c *gin.Context) {
	ctx := c.Request.Context()
	link, err := h.rsvp.ResolveInvite(ctx, c.Param("inviteCode"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	form, _, err := h.rsvp.Form(ctx, link.WeddingID, link.GuestID, h.lang(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// GuestSave auto-saves partial answers and returns the new form state.
func (h *Handler) GuestSave(c *gin.Context) {
	h.guestWrite(c, false)
}

func (h *Handler) GuestSubmit(c *gin.Context) {
	h.guestWrite(c, true)
}

func (h *Handler) guestWrite(c *gin.Context, submit bool) {
	ctx := c.Request.Context()
	link, err := h.rsvp.ResolveInvite(ctx, c.Param("inviteCode"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	// A bare submit carries no body.
	var req answersRequest
	if c.Request.ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			h.respondError(c, err)
			return
		}
	}

	answers, err := h.rsvp.ParseAnswers(ctx, link.WeddingID, req.Answers)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if submit {
		_, err = h.rsvp.Submit(ctx, link.WeddingID, link.GuestID, answers)
	} else {
		_, err = h.rsvp.Write(ctx, link.WeddingID, link.GuestID, answers)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	form, _, err := h.rsvp.Form(ctx, link.WeddingID, link.GuestID, h.lang(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}
