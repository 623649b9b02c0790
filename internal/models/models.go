package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	LessonTypeVideo = "video"
	LessonTypeText  = "text"
	LessonTypeQuiz  = "quiz"
)

const (
	EnrollmentStatusActive    = "active"
	EnrollmentStatusCompleted = "completed"
	EnrollmentStatusPaused    = "paused"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
	OrderStatusRefunded  = "refunded"
)

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username  string `gorm:"uniqueIndex;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	Role      string `gorm:"type:varchar(32);default:'user'" json:"role"`
}

type Course struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string `gorm:"not null" json:"title"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text;not null" json:"description"`
	PriceCents  int64  `gorm:"not null" json:"price_cents"`
	ImageURL    string `json:"image_url"`
	// DurationHours is the advertised course length, not derived from lessons.
	DurationHours int    `gorm:"not null" json:"duration_hours"`
	Level         string `gorm:"type:varchar(64);not null" json:"level"`
	IsPopular     bool   `gorm:"default:false" json:"is_popular"`

	Modules []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

type CourseModule struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CourseID    uint   `gorm:"not null;index;uniqueIndex:idx_course_modules_position,priority:1" json:"course_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Position    int    `gorm:"not null;uniqueIndex:idx_course_modules_position,priority:2" json:"position"`

	Lessons []Lesson `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

type Lesson struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ModuleID    uint   `gorm:"not null;index;uniqueIndex:idx_lessons_position,priority:1" json:"module_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Type        string `gorm:"type:varchar(16);not null" json:"type"`
	Content     string `gorm:"type:text" json:"content,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	// DurationSeconds is the estimated time to finish the lesson.
	DurationSeconds int `json:"duration_seconds"`
	Position        int `gorm:"not null;uniqueIndex:idx_lessons_position,priority:2" json:"position"`
}

type QuizQuestion struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	LessonID uint        `gorm:"not null;index" json:"lesson_id"`
	Question string      `gorm:"type:text;not null" json:"question"`
	Options  StringArray `gorm:"type:jsonb;not null" json:"options"`
	// CorrectOption indexes into Options; never serialized to quiz takers.
	CorrectOption int    `gorm:"not null" json:"correct_option"`
	Explanation   string `gorm:"type:text" json:"explanation,omitempty"`
	Position      int    `gorm:"not null;default:0" json:"position"`
}

type Enrollment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID   uint   `gorm:"not null;index;uniqueIndex:idx_enrollments_user_course,priority:1" json:"user_id"`
	CourseID uint   `gorm:"not null;index;uniqueIndex:idx_enrollments_user_course,priority:2" json:"course_id"`
	Status   string `gorm:"type:varchar(16);not null;default:'active'" json:"status"`
	// Progress is a 0-100 percentage, always recomputed server side.
	Progress    int        `gorm:"not null;default:0" json:"progress"`
	EnrolledAt  time.Time  `gorm:"autoCreateTime" json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type Progress struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID         uint       `gorm:"not null;index;uniqueIndex:idx_progress_user_lesson,priority:1" json:"user_id"`
	LessonID       uint       `gorm:"not null;index;uniqueIndex:idx_progress_user_lesson,priority:2" json:"lesson_id"`
	Completed      bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
	QuizScore      *int       `json:"quiz_score,omitempty"`
}

type Order struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID   uint `gorm:"not null;index" json:"user_id"`
	CourseID uint `gorm:"not null;index" json:"course_id"`
	// AmountCents always equals the course price at the time of purchase.
	AmountCents   int64  `gorm:"not null" json:"amount_cents"`
	Status        string `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	PaymentMethod string `gorm:"type:varchar(32)" json:"payment_method"`
	PaymentID     string `gorm:"index" json:"payment_id"`
}

type Certificate struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID            uint      `gorm:"not null;index;uniqueIndex:idx_certificates_user_course,priority:1" json:"user_id"`
	CourseID          uint      `gorm:"not null;index;uniqueIndex:idx_certificates_user_course,priority:2" json:"course_id"`
	CertificateNumber string    `gorm:"uniqueIndex;not null" json:"certificate_number"`
	IssuedAt          time.Time `gorm:"autoCreateTime" json:"issued_at"`
	EmailSent         bool      `gorm:"default:false" json:"email_sent"`
	EmailSentAt       *time.Time `json:"email_sent_at,omitempty"`
}

type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID   uint   `gorm:"not null;index;uniqueIndex:idx_reviews_user_course,priority:1" json:"user_id"`
	CourseID uint   `gorm:"not null;index;uniqueIndex:idx_reviews_user_course,priority:2" json:"course_id"`
	Rating   int    `gorm:"not null" json:"rating"`
	Comment  string `gorm:"type:text" json:"comment"`
}

type Testimonial struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"not null" json:"name"`
	CourseTitle string `gorm:"not null" json:"course_title"`
	Content     string `gorm:"type:text;not null" json:"content"`
	AvatarURL   string `json:"avatar_url"`
	Rating      int    `gorm:"not null" json:"rating"`
}

type Feature struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Icon        string `json:"icon"`
}

// StringArray stores a JSON array of strings in a jsonb column.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(a))
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for StringArray")
	}

	return json.Unmarshal(data, (*[]string)(a))
}

// EnrolledCourse pairs an enrollment with its course for listing endpoints.
type EnrolledCourse struct {
	Enrollment
	Course *Course `json:"course,omitempty"`
}

// ReviewWithUser decorates a review with public reviewer details.
type ReviewWithUser struct {
	Review
	Username  string `json:"username"`
	AvatarURL string `json:"user_avatar,omitempty"`
}
