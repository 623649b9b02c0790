package models

type RegisterRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Username  string `json:"username" binding:"required,username"`
	Email     string `json:"email" binding:"required,email"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// CreateCourseRequest represents an admin request to add a catalog course
type CreateCourseRequest struct {
	Title         string `json:"title" binding:"required"`
	Slug          string `json:"slug" binding:"omitempty,slug"`
	Description   string `json:"description" binding:"required"`
	PriceCents    int64  `json:"price_cents" binding:"min=0"`
	ImageURL      string `json:"image_url"`
	DurationHours int    `json:"duration_hours" binding:"required,gt=0"`
	Level         string `json:"level" binding:"required"`
	IsPopular     bool   `json:"is_popular"`
}

// CreateModuleRequest represents an admin request to add a course module
type CreateModuleRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Position    int    `json:"position" binding:"required,gt=0"`
}

// CreateLessonRequest represents an admin request to add a lesson
type CreateLessonRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	Type            string `json:"type" binding:"required,oneof=video text quiz"`
	Content         string `json:"content"`
	VideoURL        string `json:"video_url"`
	DurationSeconds int    `json:"duration_seconds"`
	Position        int    `json:"position" binding:"required,gt=0"`
}

// CreateQuizQuestionRequest represents an admin request to add a quiz question
type CreateQuizQuestionRequest struct {
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2"`
	CorrectOption int      `json:"correct_option" binding:"min=0"`
	Explanation   string   `json:"explanation"`
	Position      int      `json:"position" binding:"required,gt=0"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required,min=3,max=500"`
}

// QuizAnswer is one submitted answer, matched to a question by id.
type QuizAnswer struct {
	QuestionID     uint `json:"question_id" binding:"required"`
	SelectedOption int  `json:"selected_option"`
}

type SubmitQuizRequest struct {
	Answers []QuizAnswer `json:"answers" binding:"dive"`
}

// QuizQuestionView is a quiz question with the answer key stripped.
type QuizQuestionView struct {
	ID       uint     `json:"id"`
	LessonID uint     `json:"lesson_id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Position int      `json:"position"`
}

// QuizAnswerResult is the per-question outcome of a graded submission.
type QuizAnswerResult struct {
	QuestionID    uint   `json:"question_id"`
	Correct       bool   `json:"correct"`
	CorrectOption int    `json:"correct_option"`
	Explanation   string `json:"explanation,omitempty"`
}

// QuizSubmissionResult is the full grading outcome returned to the caller.
type QuizSubmissionResult struct {
	Score    int                `json:"score"`
	Results  []QuizAnswerResult `json:"results"`
	Progress *Progress          `json:"progress"`
}

// PurchaseSession is returned to the client to drive the payment UI.
type PurchaseSession struct {
	ClientSecret string `json:"client_secret"`
	OrderID      uint   `json:"order_id"`
}

// UpdateEnrollmentStatusRequest pauses or resumes an enrollment.
type UpdateEnrollmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active paused"`
}
