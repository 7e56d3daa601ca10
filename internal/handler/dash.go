package handler

import (
	"net/http"
	"strconv"

	"mistressbot/internal/store"

	"github.com/gin-gonic/gin"
)

// DashHandler serves the same five listings as the !admindash chat command.
type DashHandler struct{ store *store.Store }

func NewDashHandler(st *store.Store) *DashHandler { return &DashHandler{store: st} }

func (h *DashHandler) Section(c *gin.Context) {
	ctx := c.Request.Context()
	switch c.Param("section") {
	case "users":
		rows, err := h.store.ListUsers(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list users failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": rows})
	case "tasks":
		rows, err := h.store.ListTasks(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list tasks failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tasks": rows})
	case "reminders":
		rows, err := h.store.ListReminders(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list reminders failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"reminders": rows})
	case "aftercare":
		rows, err := h.store.ListAftercare(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list aftercare failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"aftercare": rows})
	case "logs":
		limit := 10
		if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
			limit = n
		}
		rows, err := h.store.RecentLogsAll(ctx, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list logs failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"logs": rows})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "sections: users, tasks, reminders, aftercare, logs"})
	}
}
