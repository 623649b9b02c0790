package service

import (
	"context"
	"errors"
	"os"
	"sort"
	"testing"

	"gorm.io/gorm"

	"learnhub-backend/internal/models"
	"learnhub-backend/internal/payments"
	"learnhub-backend/pkg/validator"
)

func TestMain(m *testing.M) {
	validator.Init()
	os.Exit(m.Run())
}

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Count() (int64, error) {
	return int64(len(r.users)), nil
}

type fakeCourseRepo struct {
	courses map[uint]*models.Course
	nextID  uint
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[uint]*models.Course), nextID: 1}
}

func (r *fakeCourseRepo) Create(course *models.Course) error {
	for _, existing := range r.courses {
		if existing.Slug == course.Slug {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	course.ID = r.nextID
	r.nextID++
	copied := *course
	r.courses[course.ID] = &copied
	return nil
}

func (r *fakeCourseRepo) GetByID(id uint) (*models.Course, error) {
	course, ok := r.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *course
	return &copied, nil
}

func (r *fakeCourseRepo) GetBySlug(slug string) (*models.Course, error) {
	for _, course := range r.courses {
		if course.Slug == slug {
			copied := *course
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCourseRepo) List() ([]models.Course, error) {
	courses := make([]models.Course, 0, len(r.courses))
	for _, course := range r.courses {
		courses = append(courses, *course)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (r *fakeCourseRepo) Count() (int64, error) {
	return int64(len(r.courses)), nil
}

type fakeModuleRepo struct {
	modules map[uint]*models.CourseModule
	nextID  uint
}

func newFakeModuleRepo() *fakeModuleRepo {
	return &fakeModuleRepo{modules: make(map[uint]*models.CourseModule), nextID: 1}
}

func (r *fakeModuleRepo) Create(module *models.CourseModule) error {
	module.ID = r.nextID
	r.nextID++
	copied := *module
	r.modules[module.ID] = &copied
	return nil
}

func (r *fakeModuleRepo) GetByID(id uint) (*models.CourseModule, error) {
	module, ok := r.modules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *module
	return &copied, nil
}

func (r *fakeModuleRepo) ListByCourse(courseID uint) ([]models.CourseModule, error) {
	var modules []models.CourseModule
	for _, module := range r.modules {
		if module.CourseID == courseID {
			modules = append(modules, *module)
		}
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Position < modules[j].Position })
	return modules, nil
}

type fakeLessonRepo struct {
	lessons map[uint]*models.Lesson
	modules *fakeModuleRepo
	nextID  uint
}

func newFakeLessonRepo(modules *fakeModuleRepo) *fakeLessonRepo {
	return &fakeLessonRepo{lessons: make(map[uint]*models.Lesson), modules: modules, nextID: 1}
}

func (r *fakeLessonRepo) Create(lesson *models.Lesson) error {
	lesson.ID = r.nextID
	r.nextID++
	copied := *lesson
	r.lessons[lesson.ID] = &copied
	return nil
}

func (r *fakeLessonRepo) GetByID(id uint) (*models.Lesson, error) {
	lesson, ok := r.lessons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *lesson
	return &copied, nil
}

func (r *fakeLessonRepo) ListByModule(moduleID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	for _, lesson := range r.lessons {
		if lesson.ModuleID == moduleID {
			lessons = append(lessons, *lesson)
		}
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Position < lessons[j].Position })
	return lessons, nil
}

func (r *fakeLessonRepo) ListByCourse(courseID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	for _, lesson := range r.lessons {
		module, err := r.modules.GetByID(lesson.ModuleID)
		if err != nil {
			continue
		}
		if module.CourseID == courseID {
			lessons = append(lessons, *lesson)
		}
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].ID < lessons[j].ID })
	return lessons, nil
}

type fakeQuizRepo struct {
	questions map[uint]*models.QuizQuestion
	nextID    uint
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{questions: make(map[uint]*models.QuizQuestion), nextID: 1}
}

func (r *fakeQuizRepo) Create(question *models.QuizQuestion) error {
	question.ID = r.nextID
	r.nextID++
	copied := *question
	r.questions[question.ID] = &copied
	return nil
}

func (r *fakeQuizRepo) ListByLesson(lessonID uint) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	for _, question := range r.questions {
		if question.LessonID == lessonID {
			questions = append(questions, *question)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].Position < questions[j].Position })
	return questions, nil
}

type fakeEnrollmentRepo struct {
	enrollments map[uint]*models.Enrollment
	nextID      uint
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{enrollments: make(map[uint]*models.Enrollment), nextID: 1}
}

func (r *fakeEnrollmentRepo) Create(enrollment *models.Enrollment) error {
	for _, existing := range r.enrollments {
		if existing.UserID == enrollment.UserID && existing.CourseID == enrollment.CourseID {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	enrollment.ID = r.nextID
	r.nextID++
	copied := *enrollment
	r.enrollments[enrollment.ID] = &copied
	return nil
}

func (r *fakeEnrollmentRepo) GetByID(id uint) (*models.Enrollment, error) {
	enrollment, ok := r.enrollments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *enrollment
	return &copied, nil
}

func (r *fakeEnrollmentRepo) GetByUserAndCourse(userID, courseID uint) (*models.Enrollment, error) {
	for _, enrollment := range r.enrollments {
		if enrollment.UserID == userID && enrollment.CourseID == courseID {
			copied := *enrollment
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEnrollmentRepo) ListByUser(userID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	for _, enrollment := range r.enrollments {
		if enrollment.UserID == userID {
			enrollments = append(enrollments, *enrollment)
		}
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].ID < enrollments[j].ID })
	return enrollments, nil
}

func (r *fakeEnrollmentRepo) Update(enrollment *models.Enrollment) error {
	if _, ok := r.enrollments[enrollment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *enrollment
	r.enrollments[enrollment.ID] = &copied
	return nil
}

type fakeProgressRepo struct {
	records map[uint]*models.Progress
	nextID  uint
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: make(map[uint]*models.Progress), nextID: 1}
}

func (r *fakeProgressRepo) Create(progress *models.Progress) error {
	progress.ID = r.nextID
	r.nextID++
	copied := *progress
	r.records[progress.ID] = &copied
	return nil
}

func (r *fakeProgressRepo) GetByUserAndLesson(userID, lessonID uint) (*models.Progress, error) {
	for _, record := range r.records {
		if record.UserID == userID && record.LessonID == lessonID {
			copied := *record
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProgressRepo) ListByUserAndLessons(userID uint, lessonIDs []uint) ([]models.Progress, error) {
	wanted := make(map[uint]bool, len(lessonIDs))
	for _, id := range lessonIDs {
		wanted[id] = true
	}
	var records []models.Progress
	for _, record := range r.records {
		if record.UserID == userID && wanted[record.LessonID] {
			records = append(records, *record)
		}
	}
	return records, nil
}

func (r *fakeProgressRepo) Update(progress *models.Progress) error {
	if _, ok := r.records[progress.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *progress
	r.records[progress.ID] = &copied
	return nil
}

type fakeOrderRepo struct {
	orders map[uint]*models.Order
	nextID uint
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*models.Order), nextID: 1}
}

func (r *fakeOrderRepo) Create(order *models.Order) error {
	order.ID = r.nextID
	r.nextID++
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) GetByID(id uint) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) GetByPaymentID(paymentID string) (*models.Order, error) {
	for _, order := range r.orders {
		if order.PaymentID == paymentID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) ListByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			orders = append(orders, *order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders, nil
}

func (r *fakeOrderRepo) Update(order *models.Order) error {
	if _, ok := r.orders[order.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

type fakeCertificateRepo struct {
	certificates map[uint]*models.Certificate
	nextID       uint
}

func newFakeCertificateRepo() *fakeCertificateRepo {
	return &fakeCertificateRepo{certificates: make(map[uint]*models.Certificate), nextID: 1}
}

func (r *fakeCertificateRepo) Create(certificate *models.Certificate) error {
	for _, existing := range r.certificates {
		if existing.UserID == certificate.UserID && existing.CourseID == certificate.CourseID {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	certificate.ID = r.nextID
	r.nextID++
	copied := *certificate
	r.certificates[certificate.ID] = &copied
	return nil
}

func (r *fakeCertificateRepo) GetByUserAndCourse(userID, courseID uint) (*models.Certificate, error) {
	for _, certificate := range r.certificates {
		if certificate.UserID == userID && certificate.CourseID == courseID {
			copied := *certificate
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCertificateRepo) ListByUser(userID uint) ([]models.Certificate, error) {
	var certificates []models.Certificate
	for _, certificate := range r.certificates {
		if certificate.UserID == userID {
			certificates = append(certificates, *certificate)
		}
	}
	sort.Slice(certificates, func(i, j int) bool { return certificates[i].ID < certificates[j].ID })
	return certificates, nil
}

type fakeReviewRepo struct {
	reviews map[uint]*models.Review
	nextID  uint
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uint]*models.Review), nextID: 1}
}

func (r *fakeReviewRepo) Create(review *models.Review) error {
	for _, existing := range r.reviews {
		if existing.UserID == review.UserID && existing.CourseID == review.CourseID {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	review.ID = r.nextID
	r.nextID++
	copied := *review
	r.reviews[review.ID] = &copied
	return nil
}

func (r *fakeReviewRepo) GetByUserAndCourse(userID, courseID uint) (*models.Review, error) {
	for _, review := range r.reviews {
		if review.UserID == userID && review.CourseID == courseID {
			copied := *review
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeReviewRepo) ListByCourse(courseID uint) ([]models.Review, error) {
	var reviews []models.Review
	for _, review := range r.reviews {
		if review.CourseID == courseID {
			reviews = append(reviews, *review)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

// fakeProvider records payment intent requests and returns canned intents.
type fakeProvider struct {
	calls  int
	fail   bool
	lastID string
}

func (p *fakeProvider) CreatePaymentIntent(ctx context.Context, params payments.IntentParams) (*payments.Intent, error) {
	p.calls++
	if p.fail {
		return nil, errors.New("provider unavailable")
	}
	p.lastID = "pi_test_1"
	return &payments.Intent{ID: p.lastID, ClientSecret: "pi_test_1_secret"}, nil
}
