package model

import "time"

// Enrollment links a user to a course they are taking. It anchors all
// progress records for that (user, course) pair.
type Enrollment struct {
	UUIDBase
	UserID      string           `gorm:"type:varchar(36);uniqueIndex:idx_user_course;not null" json:"userId"`
	CourseID    string           `gorm:"type:varchar(36);uniqueIndex:idx_user_course;not null" json:"courseId"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
	Lessons     []LessonProgress `gorm:"foreignKey:EnrollmentID" json:"-"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// LessonProgress tracks one enrollment's progress through one lesson. The
// completed-block set references block ids, which may outlive or predate the
// lesson's current block list.
type LessonProgress struct {
	UUIDBase
	EnrollmentID    string           `gorm:"type:varchar(36);uniqueIndex:idx_enrollment_lesson;not null" json:"-"`
	LessonID        string           `gorm:"type:varchar(36);uniqueIndex:idx_enrollment_lesson;not null" json:"lessonId"`
	Completed       bool             `gorm:"not null;default:false" json:"completed"`
	StartedAt       *time.Time       `json:"startedAt,omitempty"`
	CompletedAt     *time.Time       `json:"completedAt,omitempty"`
	CompletedBlocks []CompletedBlock `gorm:"foreignKey:LessonProgressID" json:"-"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// CompletedBlock marks one block id done for one lesson-progress record.
type CompletedBlock struct {
	UUIDBase
	LessonProgressID string `gorm:"type:varchar(36);uniqueIndex:idx_progress_block;not null" json:"-"`
	BlockID          string `gorm:"type:varchar(36);uniqueIndex:idx_progress_block;not null" json:"blockId"`
}

func (CompletedBlock) TableName() string {
	return "completed_blocks"
}
