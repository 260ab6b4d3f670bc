package httpapi

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires every route. Admin routes require the bearer token.
func NewRouter(h *Handler, adminToken string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.logger), CORS())

	r.GET("/healthz", h.Health)

	guest := r.Group("/api/rsvp/:inviteCode")
	{
		guest.GET("", h.GuestForm)
		guest.PATCH("", h.GuestSave)
		guest.POST("/submit", h.GuestSubmit)
	}

	wedding := r.Group("/api/weddings/:weddingID", BearerAuth(adminToken))
	{
		wedding.GET("/events", h.Events)

		rsvp := wedding.Group("/rsvp")
		{
			rsvp.GET("/config", h.GetConfig)
			rsvp.PUT("/config", h.PutConfig)
			rsvp.GET("/questions", h.ListQuestions)
			rsvp.POST("/questions", h.AddQuestion)
			rsvp.PUT("/questions/order", h.ReorderQuestions)
			rsvp.PUT("/questions/:questionID", h.UpdateQuestion)
			rsvp.DELETE("/questions/:questionID", h.DeleteQuestion)
			rsvp.PUT("/questions/:questionID/enabled", h.SetQuestionEnabled)
			rsvp.GET("/table", h.Table)
			rsvp.GET("/stats", h.Stats)
		}

		invitees := wedding.Group("/invitees")
		{
			invitees.GET("", h.ListInvitees)
			invitees.POST("", h.CreateInvitee)
			invitees.GET("/:guestID", h.GetInvitee)
			invitees.PUT("/:guestID", h.UpdateInvitee)
			invitees.DELETE("/:guestID", h.DeleteInvitee)
			invitees.GET("/:guestID/rsvp", h.GetGuestResponse)
			invitees.PATCH("/:guestID/rsvp", h.EditGuestResponse)
			invitees.POST("/:guestID/messages", h.MarkMessageSent)
		}

		budget := wedding.Group("/budget")
		{
			budget.GET("", h.ListBudget)
			budget.POST("", h.CreateBudgetItem)
			budget.GET("/summary", h.BudgetSummary)
			budget.GET("/:itemID", h.GetBudgetItem)
			budget.PUT("/:itemID", h.UpdateBudgetItem)
			budget.DELETE("/:itemID", h.DeleteBudgetItem)
		}

		tasks := wedding.Group("/tasks")
		{
			tasks.GET("", h.ListTasks)
			tasks.POST("", h.CreateTask)
			tasks.GET("/:taskID", h.GetTask)
			tasks.PUT("/:taskID", h.UpdateTask)
			tasks.DELETE("/:taskID", h.DeleteTask)
			tasks.POST("/:taskID/complete", h.CompleteTask)
			tasks.POST("/:taskID/reopen", h.ReopenTask)
		}
	}

	return r
}
