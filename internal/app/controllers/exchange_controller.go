package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/app/services"
	"github.com/yigit/campusrecords/internal/middleware"
	"github.com/yigit/campusrecords/internal/pkg/helpers"
	"github.com/yigit/campusrecords/internal/pkg/spreadsheet"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExchangeController moves records in and out of xlsx workbooks
type ExchangeController struct {
	exchangeService services.ExchangeService
	maxUploadBytes  int64
}

// NewExchangeController creates a new ExchangeController. Uploads larger
// than maxUploadBytes are refused.
func NewExchangeController(exchangeService services.ExchangeService, maxUploadBytes int64) *ExchangeController {
	return &ExchangeController{
		exchangeService: exchangeService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// Export downloads the selected tables as one workbook
// @Summary Export to Excel
// @Tags exchange
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param tables query string false "Comma separated tables (student, courses, books, books_lended); all when empty"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse "Unknown table"
// @Router /exchange/export [get]
func (c *ExchangeController) Export(ctx *gin.Context) {
	var buf bytes.Buffer
	tables := helpers.SplitList(ctx.Query("tables"))
	if err := c.exchangeService.Export(ctx.Request.Context(), &buf, tables); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := fmt.Sprintf("campusrecords-%s.xlsx", time.Now().Format("20060102-150405"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Import loads an uploaded workbook. With a table, one sheet is imported
// into it; without, every sheet named after a table is imported.
// @Summary Import from Excel
// @Tags exchange
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "xlsx workbook"
// @Param table formData string false "Target table"
// @Param sheet formData string false "Sheet name (default Sheet1)"
// @Success 200 {object} dto.APIResponse{data=[]dto.ImportReport}
// @Failure 400 {object} dto.ErrorResponse "Unreadable workbook, missing sheet or column"
// @Failure 409 {object} dto.ErrorResponse "Rows rejected by the store"
// @Router /exchange/import [post]
func (c *ExchangeController) Import(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		middleware.BadRequest(ctx, "Please select a file to import.", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.BadRequest(ctx, "The uploaded file could not be read.", err.Error())
		return
	}
	defer file.Close()

	table := ctx.PostForm("table")
	if table == "" {
		reports, err := c.exchangeService.ImportWorkbook(ctx.Request.Context(), file)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(reports, "Successfully imported the data."))
		return
	}

	sheet := ctx.DefaultPostForm("sheet", spreadsheet.DefaultSheet)
	report, err := c.exchangeService.Import(ctx.Request.Context(), file, table, sheet)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse([]dto.ImportReport{*report}, "Successfully imported the data."))
}
