package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
)

// memStore is an in-memory stand-in for the PostgreSQL repositories. It
// mirrors the schema's keys, foreign keys and cascades so the services can
// be exercised without a database.
type memStore struct {
	mu          sync.Mutex
	students    map[int64]models.Student
	courses     map[int64]models.Course
	books       map[int64]models.Book
	loans       []models.Loan
	users       map[string]models.User
	settings    map[string]string
	nextStudent int64
	nextBook    int64
	nextLoan    int64
}

func newMemStore() *memStore {
	return &memStore{
		students:    map[int64]models.Student{},
		courses:     map[int64]models.Course{},
		books:       map[int64]models.Book{},
		users:       map[string]models.User{},
		settings:    map[string]string{models.SettingTheme: "system", models.SettingDefaultTab: "Accounts"},
		nextStudent: 1,
		nextBook:    1,
		nextLoan:    1,
	}
}

// snapshot and restore give CreateBatch all-or-nothing behaviour
type memSnapshot struct {
	students    map[int64]models.Student
	courses     map[int64]models.Course
	books       map[int64]models.Book
	loans       []models.Loan
	nextStudent int64
	nextBook    int64
	nextLoan    int64
}

func (m *memStore) snapshot() memSnapshot {
	s := memSnapshot{
		students:    map[int64]models.Student{},
		courses:     map[int64]models.Course{},
		books:       map[int64]models.Book{},
		loans:       append([]models.Loan(nil), m.loans...),
		nextStudent: m.nextStudent,
		nextBook:    m.nextBook,
		nextLoan:    m.nextLoan,
	}
	for k, v := range m.students {
		s.students[k] = v
	}
	for k, v := range m.courses {
		s.courses[k] = v
	}
	for k, v := range m.books {
		s.books[k] = v
	}
	return s
}

func (m *memStore) restore(s memSnapshot) {
	m.students, m.courses, m.books, m.loans = s.students, s.courses, s.books, s.loans
	m.nextStudent, m.nextBook, m.nextLoan = s.nextStudent, s.nextBook, s.nextLoan
}

func (m *memStore) loanCount(enrollmentNo, bookID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.loans {
		if l.EnrollmentNo == enrollmentNo && l.BookID == bookID {
			n++
		}
	}
	return n
}

func (m *memStore) studentsStore() StudentStore { return (*memStudents)(m) }
func (m *memStore) coursesStore() CourseStore   { return (*memCourses)(m) }
func (m *memStore) booksStore() BookStore       { return (*memBooks)(m) }
func (m *memStore) loansStore() LoanStore       { return (*memLoans)(m) }
func (m *memStore) usersStore() UserStore       { return (*memUsers)(m) }
func (m *memStore) settingsStore() SettingsStore {
	return (*memSettings)(m)
}
func (m *memStore) maintenanceStore() MaintenanceStore {
	return (*memMaintenance)(m)
}

// --- students ---

type memStudents memStore

func (s *memStudents) insert(st *models.Student) error {
	if _, ok := s.courses[st.CourseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	if !st.Gender.Valid() {
		return apperrors.NewConflictError("Student violates a store constraint: gender")
	}
	st.EnrollmentNo = s.nextStudent
	s.nextStudent++
	s.students[st.EnrollmentNo] = *st
	return nil
}

func (s *memStudents) Create(_ context.Context, st *models.Student) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.insert(st); err != nil {
		return 0, err
	}
	return st.EnrollmentNo, nil
}

func (s *memStudents) CreateBatch(_ context.Context, students []models.Student) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := (*memStore)(s).snapshot()
	for i := range students {
		if err := s.insert(&students[i]); err != nil {
			(*memStore)(s).restore(snap)
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return len(students), nil
}

func (s *memStudents) GetByEnrollmentNo(_ context.Context, no int64) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.students[no]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return &st, nil
}

func (s *memStudents) GetDetail(_ context.Context, no int64) (*models.StudentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.students[no]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return &models.StudentDetail{Student: st, Course: s.courses[st.CourseID]}, nil
}

func (s *memStudents) List(_ context.Context) ([]models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Student{}
	for _, st := range s.students {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrollmentNo < out[j].EnrollmentNo })
	return out, nil
}

func (s *memStudents) Update(_ context.Context, st *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.students[st.EnrollmentNo]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if _, ok := s.courses[st.CourseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	next := *st
	next.FeeDeposited = cur.FeeDeposited
	s.students[st.EnrollmentNo] = next
	return nil
}

func (s *memStudents) Delete(_ context.Context, no int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[no]; !ok {
		return apperrors.ErrStudentNotFound
	}
	(*memStore)(s).deleteStudentLocked(no)
	return nil
}

func (m *memStore) deleteStudentLocked(no int64) {
	delete(m.students, no)
	kept := m.loans[:0]
	for _, l := range m.loans {
		if l.EnrollmentNo != no {
			kept = append(kept, l)
		}
	}
	m.loans = kept
}

func (s *memStudents) account(no int64) (*models.FeeAccount, error) {
	st, ok := s.students[no]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	c := s.courses[st.CourseID]
	return &models.FeeAccount{
		EnrollmentNo: st.EnrollmentNo,
		StudentName:  st.Name,
		Address:      st.Address,
		PhoneNo:      st.PhoneNo,
		CourseID:     c.ID,
		CourseName:   c.Name,
		CourseYear:   c.Year,
		TotalFee:     c.Fee,
		FeeDeposited: st.FeeDeposited,
	}, nil
}

func (s *memStudents) FeeAccount(_ context.Context, no int64) (*models.FeeAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account(no)
}

func (s *memStudents) AddFeeDeposit(_ context.Context, no, amount int64) (*models.FeeAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.account(no)
	if err != nil {
		return nil, err
	}
	if a.FeeDeposited+amount > a.TotalFee {
		return nil, apperrors.ErrFeeExceedsBalance
	}
	st := s.students[no]
	st.FeeDeposited += amount
	s.students[no] = st
	return s.account(no)
}

// --- courses ---

type memCourses memStore

func (c *memCourses) insert(course *models.Course) error {
	if _, ok := c.courses[course.ID]; ok {
		return apperrors.ErrCourseAlreadyExists
	}
	c.courses[course.ID] = *course
	return nil
}

func (c *memCourses) Create(_ context.Context, course *models.Course) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insert(course)
}

func (c *memCourses) CreateBatch(_ context.Context, courses []models.Course) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := (*memStore)(c).snapshot()
	for i := range courses {
		if err := c.insert(&courses[i]); err != nil {
			(*memStore)(c).restore(snap)
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return len(courses), nil
}

func (c *memCourses) GetByID(_ context.Context, id int64) (*models.Course, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	course, ok := c.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return &course, nil
}

func (c *memCourses) Exists(_ context.Context, id int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.courses[id]
	return ok, nil
}

func (c *memCourses) List(_ context.Context) ([]models.Course, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []models.Course{}
	for _, course := range c.courses {
		out = append(out, course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *memCourses) Update(_ context.Context, course *models.Course) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	c.courses[course.ID] = *course
	return nil
}

func (c *memCourses) DeleteWithStudents(_ context.Context, id int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.courses[id]; !ok {
		return 0, apperrors.ErrCourseNotFound
	}
	var removed int64
	for no, st := range c.students {
		if st.CourseID == id {
			(*memStore)(c).deleteStudentLocked(no)
			removed++
		}
	}
	delete(c.courses, id)
	return removed, nil
}

// --- books ---

type memBooks memStore

func (b *memBooks) insert(book *models.Book) error {
	if book.Quantity < 0 {
		return apperrors.NewConflictError("Book violates a store constraint: quantity")
	}
	book.ID = b.nextBook
	b.nextBook++
	b.books[book.ID] = *book
	return nil
}

func (b *memBooks) Create(_ context.Context, book *models.Book) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insert(book)
}

func (b *memBooks) CreateBatch(_ context.Context, books []models.Book) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	snap := (*memStore)(b).snapshot()
	for i := range books {
		if err := b.insert(&books[i]); err != nil {
			(*memStore)(b).restore(snap)
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return len(books), nil
}

func (b *memBooks) GetByID(_ context.Context, id int64) (*models.Book, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	book, ok := b.books[id]
	if !ok {
		return nil, apperrors.ErrBookNotFound
	}
	return &book, nil
}

func (b *memBooks) filter(keep func(models.Book) bool) []models.Book {
	out := []models.Book{}
	for _, book := range b.books {
		if keep(book) {
			out = append(out, book)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *memBooks) List(_ context.Context) ([]models.Book, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter(func(models.Book) bool { return true }), nil
}

func (b *memBooks) ListLendable(_ context.Context, courseID int64) ([]models.Book, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter(func(book models.Book) bool {
		return book.CourseID == courseID && book.Quantity > 0
	}), nil
}

func (b *memBooks) AdjustStock(_ context.Context, id int64, delta int64) (*models.Book, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	book, ok := b.books[id]
	if !ok {
		return nil, apperrors.ErrBookNotFound
	}
	book.Quantity += int(delta)
	if book.Quantity < 0 {
		book.Quantity = 0
	}
	b.books[id] = book
	return &book, nil
}

func (b *memBooks) DeleteWithLoans(_ context.Context, id int64) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.books[id]; !ok {
		return 0, apperrors.ErrBookNotFound
	}
	var removed int64
	kept := b.loans[:0]
	for _, l := range b.loans {
		if l.BookID == id {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	b.loans = kept
	delete(b.books, id)
	return removed, nil
}

// --- loans ---

type memLoans memStore

func (l *memLoans) Lend(_ context.Context, no int64, ids []int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	snap := (*memStore)(l).snapshot()
	for _, id := range ids {
		book, ok := l.books[id]
		if !ok || book.Quantity <= 0 {
			(*memStore)(l).restore(snap)
			return apperrors.ErrBookUnavailable
		}
		if _, ok := l.students[no]; !ok {
			(*memStore)(l).restore(snap)
			return apperrors.NewConflictError("Loan references a missing student or book")
		}
		book.Quantity--
		l.books[id] = book
		l.loans = append(l.loans, models.Loan{ID: l.nextLoan, EnrollmentNo: no, BookID: id})
		l.nextLoan++
	}
	return nil
}

func (l *memLoans) Return(_ context.Context, no int64, ids []int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	snap := (*memStore)(l).snapshot()
	for _, id := range ids {
		idx := -1
		for i, loan := range l.loans {
			if loan.EnrollmentNo == no && loan.BookID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			(*memStore)(l).restore(snap)
			return apperrors.ErrLoanNotFound
		}
		l.loans = append(l.loans[:idx:idx], l.loans[idx+1:]...)
		book := l.books[id]
		book.Quantity++
		l.books[id] = book
	}
	return nil
}

func (l *memLoans) ListForStudent(_ context.Context, no int64) ([]models.LoanedBook, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []models.LoanedBook{}
	for _, loan := range l.loans {
		if loan.EnrollmentNo == no {
			book := l.books[loan.BookID]
			out = append(out, models.LoanedBook{LoanID: loan.ID, BookID: book.ID, Name: book.Name, Publisher: book.Publisher})
		}
	}
	return out, nil
}

func (l *memLoans) List(_ context.Context) ([]models.Loan, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Loan{}, l.loans...), nil
}

func (l *memLoans) CreateBatch(_ context.Context, loans []models.Loan) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	snap := (*memStore)(l).snapshot()
	for i, loan := range loans {
		_, okS := l.students[loan.EnrollmentNo]
		_, okB := l.books[loan.BookID]
		if !okS || !okB {
			(*memStore)(l).restore(snap)
			return 0, fmt.Errorf("row %d: %w", i+1, apperrors.NewConflictError("Loan references a missing student or book"))
		}
		loan.ID = l.nextLoan
		l.nextLoan++
		l.loans = append(l.loans, loan)
	}
	return len(loans), nil
}

// --- users ---

type memUsers memStore

func (u *memUsers) Create(_ context.Context, user *models.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.users[user.Username]; ok {
		return apperrors.ErrUsernameTaken
	}
	u.users[user.Username] = *user
	return nil
}

func (u *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[username]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &user, nil
}

func (u *memUsers) List(_ context.Context) ([]models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := []models.User{}
	for _, user := range u.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (u *memUsers) UpdatePassword(_ context.Context, username, hash string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[username]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Password = hash
	u.users[username] = user
	return nil
}

func (u *memUsers) Delete(_ context.Context, username string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.users[username]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(u.users, username)
	return nil
}

// --- settings ---

type memSettings memStore

func (s *memSettings) All(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.settings))
	for k, v := range s.settings {
		out[k] = v
	}
	return out, nil
}

func (s *memSettings) SetMany(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.settings[k] = v
	}
	return nil
}

type memMaintenance memStore

func (m *memMaintenance) Wipe(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students = map[int64]models.Student{}
	m.courses = map[int64]models.Course{}
	m.books = map[int64]models.Book{}
	m.loans = nil
	m.nextStudent, m.nextBook, m.nextLoan = 1, 1, 1
	return nil
}
