package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/app/services"
	"github.com/yigit/campusrecords/internal/middleware"
	"github.com/yigit/campusrecords/internal/pkg/helpers"
)

// LibraryController handles books, stock and loans
type LibraryController struct {
	libraryService services.LibraryService
}

// NewLibraryController creates a new LibraryController
func NewLibraryController(libraryService services.LibraryService) *LibraryController {
	return &LibraryController{
		libraryService: libraryService,
	}
}

// AddBook handles the add-book form
// @Summary Add a book
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BookInput true "Book information"
// @Success 201 {object} dto.APIResponse{data=models.Book}
// @Failure 400 {object} dto.ErrorResponse "Invalid form field"
// @Router /books [post]
func (c *LibraryController) AddBook(ctx *gin.Context) {
	var req dto.BookInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(ctx, "Invalid book data", err.Error())
		return
	}

	book, err := c.libraryService.AddBook(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(book, "Successfully added the Book."))
}

// ListBooks returns every book
// @Summary Get all books
// @Tags library
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Book}
// @Router /books [get]
func (c *LibraryController) ListBooks(ctx *gin.Context) {
	books, err := c.libraryService.ListBooks(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(books, ""))
}

// RemoveBook deletes a book and its outstanding loans
// @Summary Remove a book
// @Tags library
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Failure 428 {object} dto.ErrorResponse "Confirmation required"
// @Router /books/{id} [delete]
func (c *LibraryController) RemoveBook(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id", "book ID")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	loans, err := c.libraryService.RemoveBook(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"bookId": id, "loansRemoved": loans},
		"Successfully removed the book."))
}

// stockRequest is the body of a stock change; the book comes from the path
type stockRequest struct {
	Delta string `json:"delta"`
}

// UpdateStock adds or removes copies of a book
// @Summary Update stock
// @Description A positive delta adds copies, a negative one removes them. Stock never drops below zero.
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param request body stockRequest true "Signed quantity"
// @Success 200 {object} dto.APIResponse{data=models.Book}
// @Failure 400 {object} dto.ErrorResponse "Invalid quantity"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id}/stock [patch]
func (c *LibraryController) UpdateStock(ctx *gin.Context) {
	var req stockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(ctx, "Invalid stock data", err.Error())
		return
	}

	book, err := c.libraryService.UpdateStock(ctx.Request.Context(), dto.StockInput{
		BookID: ctx.Param("id"),
		Delta:  req.Delta,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(book, "Successfully updated the stock."))
}

// LendableBooks lists the in-stock books of the student's course
// @Summary Lendable books
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param enrollmentNo path int true "Enrollment number"
// @Success 200 {object} dto.APIResponse{data=[]models.Book}
// @Router /students/{enrollmentNo}/lendable-books [get]
func (c *LibraryController) LendableBooks(ctx *gin.Context) {
	enrollmentNo, err := helpers.ParseIDParam(ctx, "enrollmentNo", enrollmentLabel)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	books, err := c.libraryService.LendableBooks(ctx.Request.Context(), enrollmentNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(books, ""))
}

// Loans lists the books a student holds
// @Summary Books lent to a student
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param enrollmentNo path int true "Enrollment number"
// @Success 200 {object} dto.APIResponse{data=[]models.LoanedBook}
// @Router /students/{enrollmentNo}/loans [get]
func (c *LibraryController) Loans(ctx *gin.Context) {
	enrollmentNo, err := helpers.ParseIDParam(ctx, "enrollmentNo", enrollmentLabel)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	loans, err := c.libraryService.LoansFor(ctx.Request.Context(), enrollmentNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(loans, ""))
}

// Lend hands the selected books to the student
// @Summary Lend books
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param enrollmentNo path int true "Enrollment number"
// @Param request body dto.LoanRequest true "Selected books"
// @Success 201 {object} dto.APIResponse{data=dto.LoanReceipt}
// @Failure 400 {object} dto.ErrorResponse "Empty or invalid selection"
// @Failure 409 {object} dto.ErrorResponse "Out of stock"
// @Router /students/{enrollmentNo}/loans [post]
func (c *LibraryController) Lend(ctx *gin.Context) {
	c.moveBooks(ctx, c.libraryService.Lend, http.StatusCreated, "Successfully lended the books.")
}

// Return takes the selected books back
// @Summary Return books
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param enrollmentNo path int true "Enrollment number"
// @Param request body dto.LoanRequest true "Selected books"
// @Success 200 {object} dto.APIResponse{data=dto.LoanReceipt}
// @Failure 404 {object} dto.ErrorResponse "Book not lent to this student"
// @Router /students/{enrollmentNo}/returns [post]
func (c *LibraryController) Return(ctx *gin.Context) {
	c.moveBooks(ctx, c.libraryService.Return, http.StatusOK, "Successfully returned the books.")
}

type loanFunc func(ctx context.Context, enrollmentNo int64, req dto.LoanRequest) (*dto.LoanReceipt, error)

func (c *LibraryController) moveBooks(ctx *gin.Context, move loanFunc, status int, message string) {
	enrollmentNo, err := helpers.ParseIDParam(ctx, "enrollmentNo", enrollmentLabel)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.LoanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(ctx, "Invalid book selection", err.Error())
		return
	}

	receipt, err := move(ctx.Request.Context(), enrollmentNo, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(status, dto.NewSuccessResponse(receipt, message))
}
