package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
)

// DashboardController serves the home page
type DashboardController struct {
	dashboardService services.DashboardService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
	}
}

// Index shows record counts and the most recently added students
func (c *DashboardController) Index(ctx *gin.Context) {
	stats, err := c.dashboardService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	middleware.Render(ctx, http.StatusOK, "dashboard.html", gin.H{
		"Title": "Dashboard",
		"Stats": stats,
	})
}
