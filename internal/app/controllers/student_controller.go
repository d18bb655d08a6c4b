// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/app/services"
	"github.com/yigit/campusrecords/internal/middleware"
	"github.com/yigit/campusrecords/internal/pkg/helpers"
)

const enrollmentLabel = "enrollment number"

// StudentController handles admissions, student records and fees
type StudentController struct {
	studentService services.StudentService
	feeService     services.FeeService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, feeService services.FeeService) *StudentController {
	return &StudentController{
		studentService: studentService,
		feeService:     feeService,
	}
}

// Admit handles a new admission
// @Summary Admit a student
// @Description Validates the admission form and stores the student with a new enrollment number
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StudentInput true "Admission form"
// @Success 201 {object} dto.APIResponse{data=dto.AdmissionResponse} "Student admitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid form field"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) Admit(ctx *gin.Context) {
	var req dto.StudentInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(ctx, "Invalid admission data", err.Error())
		return
	}

	enrollmentNo, err := c.studentService.Admit(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.AdmissionResponse{EnrollmentNo: enrollmentNo},
		"Successfully admitted the student."))
}

// Get returns a student joined with its course
// @Summary Get student details
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param enrollmentNo path int true "Enrollment number"
// @Success 200 {object} dto.APIResponse{data=models.StudentDetail}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{enrollmentNo} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	enrollmentNo, err := helpers.ParseIDParam(ctx, "enrollmentNo", enrollmentLabel)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	student, err := c.studentService.Get(ctx.Request.Context(), enrollmentNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, ""))
}

// Update rewrites a student's record from the admission form
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param enrollmentNo path int true "Enrollment number"
// @Param request body dto.StudentInput true "Admission form"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid form field"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{enrollmentNo} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	enrollmentNo, err := helpers.ParseIDParam(ctx, "enrollmentNo", enrollmentLabel)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.StudentInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(ctx, "Invalid student data", err.Error())
		return
	}

	if err := c.studentService.Update(ctx.Request.Context(), enrollmentNo, req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Successfully updated the student."))
}

// Remove deletes a student together with its loans
// @Summary Remove a student
// @Tags students
// @Security BearerAuth
// @Param enrollmentNo path int true "Enrollment number"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{enrollmentNo} [delete]
func (c *StudentController) Remove(ctx *gin.Context) {
	enrollmentNo, err := helpers.ParseIDParam(ctx, "enrollmentNo", enrollmentLabel)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.studentService.Remove(ctx.Request.Context(), enrollmentNo); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Successfully removed the student."))
}

// FeeSummary shows what the student has paid and what remains
// @Summary Fee summary
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param enrollmentNo path int true "Enrollment number"
// @Success 200 {object} dto.APIResponse{data=dto.FeeSummary}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{enrollmentNo}/fee [get]
func (c *StudentController) FeeSummary(ctx *gin.Context) {
	enrollmentNo, err := helpers.ParseIDParam(ctx, "enrollmentNo", enrollmentLabel)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	summary, err := c.feeService.Summary(ctx.Request.Context(), enrollmentNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summary, ""))
}

// Deposit records a fee payment and returns the receipt
// @Summary Deposit fee
// @Tags fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param enrollmentNo path int true "Enrollment number"
// @Param request body dto.DepositRequest true "Amount"
// @Success 201 {object} dto.APIResponse{data=dto.FeeReceipt}
// @Failure 400 {object} dto.ErrorResponse "Invalid amount or more than the balance"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{enrollmentNo}/fee-deposits [post]
func (c *StudentController) Deposit(ctx *gin.Context) {
	enrollmentNo, err := helpers.ParseIDParam(ctx, "enrollmentNo", enrollmentLabel)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.DepositRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(ctx, "Invalid deposit data", err.Error())
		return
	}

	receipt, err := c.feeService.Deposit(ctx.Request.Context(), enrollmentNo, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(receipt, "Successfully deposited the fee."))
}
