package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
	"github.com/yigit/campusrecords/internal/pkg/spreadsheet"
	"github.com/yigit/campusrecords/internal/pkg/validation"
)

// Exchangeable tables, in dependency order
const (
	TableCourses  = "courses"
	TableStudents = "student"
	TableBooks    = "books"
	TableLoans    = "books_lended"
)

// ExchangeTables lists every table that can be exported or imported
var ExchangeTables = []string{TableCourses, TableStudents, TableBooks, TableLoans}

const dateLayout = "2006-01-02"

var dobLayouts = []string{dateLayout, "2006/01/02", "02-01-2006", "02/01/2006", "2006-01-02 15:04:05"}

// Column headers
const (
	colEnrollmentNo = "Enrollment Number"
	colName         = "Name"
	colDOB          = "Date of Birth"
	colAddress      = "Address"
	colMobile       = "Mobile no"
	colEmail        = "Email"
	colYearOfAd     = "Year of Admission"
	colAge          = "Age"
	colGender       = "Gender"
	colPincode      = "Pincode"
	colCourseID     = "Course ID"
	colFatherName   = "Father Name"
	colClass10      = "10th Percentage"
	colClass12      = "12th Percentage"
	colFeeDeposited = "Fee Deposited"
	colCourseName   = "Course Name"
	colFee          = "Fee"
	colYear         = "Year"
	colBookID       = "Book ID"
	colQuantity     = "Quantity"
	colISBN         = "ISBN"
	colPublisher    = "Publisher"
)

var (
	studentHeader = []string{colEnrollmentNo, colName, colDOB, colAddress, colMobile, colEmail, colYearOfAd,
		colAge, colGender, colPincode, colCourseID, colFatherName, colClass10, colClass12, colFeeDeposited}
	studentRequired = []string{colName, colDOB, colAddress, colMobile, colYearOfAd, colAge, colGender,
		colPincode, colCourseID, colClass10, colClass12}

	courseHeader = []string{colCourseID, colCourseName, colFee, colYear}

	bookHeader   = []string{colBookID, colName, colQuantity, colCourseID, colISBN, colPublisher}
	bookRequired = []string{colName, colQuantity, colCourseID, colISBN, colPublisher}

	loanHeader = []string{colEnrollmentNo, colBookID}
)

// ExchangeService moves records between the store and xlsx workbooks
type ExchangeService interface {
	Export(ctx context.Context, w io.Writer, tables []string) error
	Import(ctx context.Context, r io.Reader, table, sheet string) (*dto.ImportReport, error)
	ImportWorkbook(ctx context.Context, r io.Reader) ([]dto.ImportReport, error)
}

type exchangeServiceImpl struct {
	students StudentStore
	courses  CourseStore
	books    BookStore
	loans    LoanStore
	logger   zerolog.Logger
}

// NewExchangeService creates a new ExchangeService
func NewExchangeService(students StudentStore, courses CourseStore, books BookStore, loans LoanStore, logger zerolog.Logger) ExchangeService {
	return &exchangeServiceImpl{
		students: students,
		courses:  courses,
		books:    books,
		loans:    loans,
		logger:   logger.With().Str("service", "exchange").Logger(),
	}
}

// NormalizeTables validates a table selection. An empty selection means all
// tables. The result follows dependency order without repeats.
func NormalizeTables(tables []string) ([]string, error) {
	if len(tables) == 0 {
		return ExchangeTables, nil
	}
	wanted := make(map[string]bool, len(tables))
	for _, t := range tables {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !isExchangeTable(t) {
			return nil, fieldError("tables", fmt.Sprintf("Unknown table %q.", t))
		}
		wanted[t] = true
	}
	if len(wanted) == 0 {
		return ExchangeTables, nil
	}
	var out []string
	for _, t := range ExchangeTables {
		if wanted[t] {
			out = append(out, t)
		}
	}
	return out, nil
}

func isExchangeTable(t string) bool {
	for _, known := range ExchangeTables {
		if t == known {
			return true
		}
	}
	return false
}

// Export writes one sheet per selected table, named after the table
func (s *exchangeServiceImpl) Export(ctx context.Context, w io.Writer, tables []string) error {
	tables, err := NormalizeTables(tables)
	if err != nil {
		return err
	}

	wb := spreadsheet.New()
	defer wb.Close()

	for _, table := range tables {
		header, rows, err := s.exportRows(ctx, table)
		if err != nil {
			return err
		}
		if err := wb.AddSheet(table, header, rows); err != nil {
			return err
		}
		s.logger.Debug().Str("table", table).Int("rows", len(rows)).Msg("Sheet exported")
	}

	if _, err := wb.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (s *exchangeServiceImpl) exportRows(ctx context.Context, table string) ([]string, [][]interface{}, error) {
	switch table {
	case TableStudents:
		students, err := s.students.List(ctx)
		if err != nil {
			return nil, nil, err
		}
		rows := make([][]interface{}, 0, len(students))
		for _, st := range students {
			rows = append(rows, []interface{}{
				st.EnrollmentNo, st.Name, st.DateOfBirth.Format(dateLayout), st.Address, st.PhoneNo,
				deref(st.Email), st.YearOfAdmission, st.Age, string(st.Gender), st.Pincode, st.CourseID,
				deref(st.FatherName), st.Class10Percentage, st.Class12Percentage, st.FeeDeposited,
			})
		}
		return studentHeader, rows, nil

	case TableCourses:
		courses, err := s.courses.List(ctx)
		if err != nil {
			return nil, nil, err
		}
		rows := make([][]interface{}, 0, len(courses))
		for _, c := range courses {
			rows = append(rows, []interface{}{c.ID, c.Name, c.Fee, c.Year})
		}
		return courseHeader, rows, nil

	case TableBooks:
		books, err := s.books.List(ctx)
		if err != nil {
			return nil, nil, err
		}
		rows := make([][]interface{}, 0, len(books))
		for _, b := range books {
			rows = append(rows, []interface{}{b.ID, b.Name, b.Quantity, b.CourseID, b.ISBN, b.Publisher})
		}
		return bookHeader, rows, nil

	case TableLoans:
		loans, err := s.loans.List(ctx)
		if err != nil {
			return nil, nil, err
		}
		rows := make([][]interface{}, 0, len(loans))
		for _, l := range loans {
			rows = append(rows, []interface{}{l.EnrollmentNo, l.BookID})
		}
		return loanHeader, rows, nil
	}
	return nil, nil, fieldError("tables", fmt.Sprintf("Unknown table %q.", table))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Import loads one sheet into table. Rows with a blank mandatory cell or an
// unreadable value are skipped. A row the store rejects aborts the sheet and
// nothing from it is kept.
func (s *exchangeServiceImpl) Import(ctx context.Context, r io.Reader, table, sheet string) (*dto.ImportReport, error) {
	if !isExchangeTable(table) {
		return nil, fieldError("table", fmt.Sprintf("Unknown table %q.", table))
	}
	if sheet == "" {
		sheet = spreadsheet.DefaultSheet
	}

	wb, err := spreadsheet.Open(r)
	if err != nil {
		return nil, apperrors.NewValidationError("The file is not a readable xlsx workbook.")
	}
	defer wb.Close()

	return s.importSheet(ctx, wb, table, sheet, nil)
}

// exportedIDs maps the enrollment numbers and book ids a workbook was
// exported with to the ones its rows were stored under. A nil map means the
// workbook carried no id column for that table.
type exportedIDs struct {
	students map[int64]int64
	books    map[int64]int64
}

// ImportWorkbook imports every sheet named after a table, parents first.
// A failing sheet is reported and the remaining sheets still run. Loans are
// matched to the students and books of the same workbook by their exported
// ids.
func (s *exchangeServiceImpl) ImportWorkbook(ctx context.Context, r io.Reader) ([]dto.ImportReport, error) {
	wb, err := spreadsheet.Open(r)
	if err != nil {
		return nil, apperrors.NewValidationError("The file is not a readable xlsx workbook.")
	}
	defer wb.Close()

	ids := &exportedIDs{}
	var reports []dto.ImportReport
	for _, table := range spreadsheet.SortedSheets(wb.SheetNames(), ExchangeTables) {
		if !isExchangeTable(table) {
			continue
		}
		report, err := s.importSheet(ctx, wb, table, table, ids)
		if err != nil {
			s.logger.Warn().Err(err).Str("table", table).Msg("Sheet import failed")
			reports = append(reports, dto.ImportReport{Table: table, Sheet: table, Error: err.Error()})
			continue
		}
		reports = append(reports, *report)
	}

	if len(reports) == 0 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("The workbook has no sheet named %s.",
			strings.Join(ExchangeTables, ", ")))
	}
	return reports, nil
}

func (s *exchangeServiceImpl) importSheet(ctx context.Context, wb *spreadsheet.Workbook, table, sheet string, ids *exportedIDs) (*dto.ImportReport, error) {
	data, err := wb.ReadSheet(sheet)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrSheetNotFound) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Sheet %q was not found in the workbook.", sheet))
		}
		if errors.Is(err, spreadsheet.ErrEmptySheet) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Sheet %q is empty.", sheet))
		}
		return nil, err
	}

	report := &dto.ImportReport{Table: table, Sheet: sheet}
	var imported int

	switch table {
	case TableStudents:
		if err := data.Require(studentRequired...); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		var students []models.Student
		var exported []int64
		for _, rec := range data.Records {
			st, ok := parseStudentRecord(rec)
			if !ok {
				report.Skipped++
				continue
			}
			students = append(students, *st)
			exported = append(exported, exportedID(rec, colEnrollmentNo))
		}
		if ids != nil && data.Require(colEnrollmentNo) == nil {
			ids.students = map[int64]int64{}
		}
		if len(students) > 0 {
			imported, err = s.students.CreateBatch(ctx, students)
		}
		if err == nil && ids != nil && ids.students != nil {
			for i, old := range exported {
				if old > 0 {
					ids.students[old] = students[i].EnrollmentNo
				}
			}
		}

	case TableCourses:
		if err := data.Require(courseHeader...); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		var courses []models.Course
		for _, rec := range data.Records {
			c, ok := parseCourseRecord(rec)
			if !ok {
				report.Skipped++
				continue
			}
			courses = append(courses, *c)
		}
		if len(courses) > 0 {
			imported, err = s.courses.CreateBatch(ctx, courses)
		}

	case TableBooks:
		if err := data.Require(bookRequired...); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		var books []models.Book
		var exported []int64
		for _, rec := range data.Records {
			b, ok := parseBookRecord(rec)
			if !ok {
				report.Skipped++
				continue
			}
			books = append(books, *b)
			exported = append(exported, exportedID(rec, colBookID))
		}
		if ids != nil && data.Require(colBookID) == nil {
			ids.books = map[int64]int64{}
		}
		if len(books) > 0 {
			imported, err = s.books.CreateBatch(ctx, books)
		}
		if err == nil && ids != nil && ids.books != nil {
			for i, old := range exported {
				if old > 0 {
					ids.books[old] = books[i].ID
				}
			}
		}

	case TableLoans:
		if err := data.Require(loanHeader...); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		var loans []models.Loan
		for _, rec := range data.Records {
			l, ok := parseLoanRecord(rec)
			if ok && ids != nil {
				ok = ids.remap(l)
			}
			if !ok {
				report.Skipped++
				continue
			}
			loans = append(loans, *l)
		}
		if len(loans) > 0 {
			imported, err = s.loans.CreateBatch(ctx, loans)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("import of %s aborted: %w", table, err)
	}

	report.Imported = imported
	s.logger.Info().
		Str("table", table).
		Str("sheet", sheet).
		Int("imported", report.Imported).
		Int("skipped", report.Skipped).
		Msg("Sheet imported")
	return report, nil
}

// remap points l at the rows its student and book were stored under. It
// reports false when either was exported but not imported.
func (ids *exportedIDs) remap(l *models.Loan) bool {
	if ids.students != nil {
		no, ok := ids.students[l.EnrollmentNo]
		if !ok {
			return false
		}
		l.EnrollmentNo = no
	}
	if ids.books != nil {
		id, ok := ids.books[l.BookID]
		if !ok {
			return false
		}
		l.BookID = id
	}
	return true
}

// exportedID reads an id cell, 0 when blank or unreadable
func exportedID(rec spreadsheet.Record, column string) int64 {
	id, ok := parseInt(rec.Get(column))
	if !ok || id <= 0 {
		return 0
	}
	return id
}

// present reports whether every named cell of rec is non-blank
func present(rec spreadsheet.Record, columns ...string) bool {
	for _, c := range columns {
		if rec.Get(c) == "" {
			return false
		}
	}
	return true
}

func parseInt(s string) (int64, bool) {
	// Whole numbers may come back from a sheet as "12.0"
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return int64(f), true
	}
	return 0, false
}

// parseDigits reads a code such as a phone number that must stay text, and
// accepts the numeric form a spreadsheet may have stored it in
func parseDigits(s string) (string, bool) {
	if validation.IsDigits(s) {
		return s, true
	}
	if n, ok := parseInt(s); ok && n >= 0 {
		return strconv.FormatInt(n, 10), true
	}
	return "", false
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// A date cell read raw is its serial number
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func parseStudentRecord(rec spreadsheet.Record) (*models.Student, bool) {
	if !present(rec, studentRequired...) {
		return nil, false
	}

	dob, ok := parseDate(rec.Get(colDOB))
	if !ok {
		return nil, false
	}
	phone, ok := parseDigits(rec.Get(colMobile))
	if !ok || len(phone) != validation.PhoneLength {
		return nil, false
	}
	pincode, ok := parseDigits(rec.Get(colPincode))
	if !ok || len(pincode) != validation.PincodeLength {
		return nil, false
	}
	yearOfAd, okY := parseInt(rec.Get(colYearOfAd))
	age, okA := parseInt(rec.Get(colAge))
	courseID, okC := parseInt(rec.Get(colCourseID))
	per10, ok10 := validation.ParseDecimal(rec.Get(colClass10))
	per12, ok12 := validation.ParseDecimal(rec.Get(colClass12))
	if !okY || !okA || !okC || !ok10 || !ok12 {
		return nil, false
	}

	var fee int64
	if raw := rec.Get(colFeeDeposited); raw != "" {
		if fee, ok = parseInt(raw); !ok {
			return nil, false
		}
	}

	return &models.Student{
		Name:              rec.Get(colName),
		FatherName:        optional(rec.Get(colFatherName)),
		DateOfBirth:       dob,
		Address:           rec.Get(colAddress),
		PhoneNo:           phone,
		Email:             optional(rec.Get(colEmail)),
		YearOfAdmission:   int(yearOfAd),
		Age:               int(age),
		Gender:            models.Gender(rec.Get(colGender)),
		Pincode:           pincode,
		CourseID:          courseID,
		Class10Percentage: per10,
		Class12Percentage: per12,
		FeeDeposited:      fee,
	}, true
}

func parseCourseRecord(rec spreadsheet.Record) (*models.Course, bool) {
	if !present(rec, courseHeader...) {
		return nil, false
	}
	id, okID := parseInt(rec.Get(colCourseID))
	fee, okFee := parseInt(rec.Get(colFee))
	year, okYear := parseInt(rec.Get(colYear))
	if !okID || !okFee || !okYear {
		return nil, false
	}
	return &models.Course{ID: id, Name: rec.Get(colCourseName), Fee: fee, Year: int(year)}, true
}

func parseBookRecord(rec spreadsheet.Record) (*models.Book, bool) {
	if !present(rec, bookRequired...) {
		return nil, false
	}
	qty, okQ := parseInt(rec.Get(colQuantity))
	courseID, okC := parseInt(rec.Get(colCourseID))
	isbn, okI := parseDigits(rec.Get(colISBN))
	if !okQ || !okC || !okI || len(isbn) != validation.ISBNLength {
		return nil, false
	}
	return &models.Book{
		Name:      rec.Get(colName),
		Quantity:  int(qty),
		CourseID:  courseID,
		ISBN:      isbn,
		Publisher: rec.Get(colPublisher),
	}, true
}

func parseLoanRecord(rec spreadsheet.Record) (*models.Loan, bool) {
	if !present(rec, loanHeader...) {
		return nil, false
	}
	enrollmentNo, okE := parseInt(rec.Get(colEnrollmentNo))
	bookID, okB := parseInt(rec.Get(colBookID))
	if !okE || !okB {
		return nil, false
	}
	return &models.Loan{EnrollmentNo: enrollmentNo, BookID: bookID}, true
}
