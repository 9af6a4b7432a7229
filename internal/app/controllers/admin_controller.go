package controllers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/admin"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// XLSXContentType is the media type of exported workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminController serves the generic record browser
type AdminController struct {
	adminService services.AdminService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

// Index lists the browsable record types
func (c *AdminController) Index(ctx *gin.Context) {
	middleware.Render(ctx, http.StatusOK, "admin_index.html", gin.H{
		"Title":    "Administration",
		"Entities": c.adminService.Entities(),
	})
}

// List shows the records of one type with its search, filters and ordering
func (c *AdminController) List(ctx *gin.Context) {
	entity := ctx.Param("entity")
	query, err := browseQuery(ctx, entity)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	result, err := c.adminService.Browse(ctx.Request.Context(), entity, query)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	exportURL := "/admin/" + entity + "/export/"
	if raw := ctx.Request.URL.RawQuery; raw != "" {
		exportURL += "?" + raw
	}

	middleware.Render(ctx, http.StatusOK, "admin_list.html", gin.H{
		"Title":     result.Title,
		"Result":    result,
		"ExportURL": template.URL(exportURL),
	})
}

// Export downloads the listed records as an XLSX workbook
func (c *AdminController) Export(ctx *gin.Context) {
	entity := ctx.Param("entity")
	query, err := browseQuery(ctx, entity)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	var buf bytes.Buffer
	if err := c.adminService.Export(ctx.Request.Context(), entity, query, &buf); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, entity))
	ctx.Data(http.StatusOK, XLSXContentType, buf.Bytes())
}

// browseQuery reads ?q= and the entity's filter parameters
func browseQuery(ctx *gin.Context, entity string) (dto.BrowseQuery, error) {
	cfg, ok := admin.Lookup(entity)
	if !ok {
		return dto.BrowseQuery{}, apperrors.NewResourceNotFoundError("unknown record type " + entity)
	}

	query := dto.BrowseQuery{
		Search:  ctx.Query("q"),
		Filters: map[string]string{},
	}
	for _, f := range cfg.ListFilter {
		if v := ctx.Query(f.Field); v != "" {
			query.Filters[f.Field] = v
		}
	}
	return query, nil
}
