package httpapi

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
)

func (h *Handler) ListInvitees(c *gin.Context) {
	invitees, err := h.invitees.List(c.Request.Context(), c.Param("weddingID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invitees": invitees})
}

func (h *Handler) CreateInvitee(c *gin.Context) {
	var inv entities.Invitee
	if err := bind(c, &inv); err != nil {
		h.respondError(c, err)
		return
	}
	created, err := h.invitees.Create(c.Request.Context(), c.Param("weddingID"), &inv)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetInvitee(c *gin.Context) {
	inv, err := h.invitees.Get(c.Request.Context(), c.Param("weddingID"), c.Param("guestID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *Handler) UpdateInvitee(c *gin.Context) {
	var in entities.Invitee
	if err := bind(c, &in); err != nil {
		h.respondError(c, err)
		return
	}
	inv, err := h.invitees.Update(c.Request.Context(), c.Param("weddingID"), c.Param("guestID"), &in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *Handler) DeleteInvitee(c *gin.Context) {
	if err := h.invitees.Delete(c.Request.Context(), c.Param("weddingID"), c.Param("guestID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkMessageSent records an invitation sent outside the system.
func (h *Handler) MarkMessageSent(c *gin.Context) {
	var req struct {
		Channel entities.Channel `json:"channel"`
	}
	if err := bind(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	if !slices.Contains(entities.Channels, req.Channel) {
		h.respondError(c, fmt.Errorf("%w: unknown channel %q", errInvalidBody, req.Channel))
		return
	}
	if err := h.invitees.MarkMessageSent(c.Request.Context(), c.Param("weddingID"), c.Param("guestID"), req.Channel); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListBudget(c *gin.Context) {
	items, err := h.budget.List(c.Request.Context(), c.Param("weddingID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) CreateBudgetItem(c *gin.Context) {
	var item entities.BudgetItem
	if err := bind(c, &item); err != nil {
		h.respondError(c, err)
		return
	}
	created, err := h.budget.Create(c.Request.Context(), c.Param("weddingID"), &item)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetBudgetItem(c *gin.Context) {
	item, err := h.budget.Get(c.Request.Context(), c.Param("weddingID"), c.Param("itemID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) UpdateBudgetItem(c *gin.Context) {
	var in entities.BudgetItem
	if err := bind(c, &in); err != nil {
		h.respondError(c, err)
		return
	}
	item, err := h.budget.Update(c.Request.Context(), c.Param("weddingID"), c.Param("itemID"), &in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteBudgetItem(c *gin.Context) {
	if err := h.budget.Delete(c.Request.Context(), c.Param("weddingID"), c.Param("itemID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) BudgetSummary(c *gin.Context) {
	sum, err := h.budget.Summary(c.Request.Context(), c.Param("weddingID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.tasks.List(c.Request.Context(), c.Param("weddingID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *Handler) CreateTask(c *gin.Context) {
	var task entities.Task
	if err := bind(c, &task); err != nil {
		h.respondError(c, err)
		return
	}
	created, err := h.tasks.Create(c.Request.Context(), c.Param("weddingID"), &task)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetTask(c *gin.Context) {
	task, err := h.tasks.Get(c.Request.Context(), c.Param("weddingID"), c.Param("taskID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	var in entities.Task
	if err := bind(c, &in); err != nil {
		h.respondError(c, err)
		return
	}
	task, err := h.tasks.Update(c.Request.Context(), c.Param("weddingID"), c.Param("taskID"), &in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	if err := h.tasks.Delete(c.Request.Context(), c.Param("weddingID"), c.Param("taskID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CompleteTask(c *gin.Context) {
	task, err := h.tasks.Complete(c.Request.Context(), c.Param("weddingID"), c.Param("taskID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) ReopenTask(c *gin.Context) {
	task, err := h.tasks.Reopen(c.Request.Context(), c.Param("weddingID"), c.Param("taskID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
