package model

// Course is the top-level authoring unit. InstructorName is denormalized from
// the owning instructor at creation time. Unpublished courses are visible only
// to their instructor and to admin/owner accounts.
// swagger:model Course
type Course struct {
	UUIDBase
	Title          string   `gorm:"size:255;not null" json:"title"`
	Description    string   `gorm:"type:text;not null" json:"description"`
	Thumbnail      string   `gorm:"size:512" json:"thumbnail,omitempty"`
	InstructorID   string   `gorm:"type:varchar(36);index;not null" json:"instructorId"`
	InstructorName string   `gorm:"size:100;not null" json:"instructorName"`
	Tags           []string `gorm:"serializer:json;type:json" json:"tags"`
	IsPublished    bool     `gorm:"not null;default:false" json:"isPublished"`
	Lessons        []Lesson `gorm:"foreignKey:CourseID" json:"lessons"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Lesson
type Lesson struct {
	UUIDBase
	CourseID      string         `gorm:"type:varchar(36);index;not null" json:"-"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	Order         int            `gorm:"not null" json:"order"`
	Duration      *int           `json:"duration,omitempty"`
	IsPublished   bool           `gorm:"not null;default:false" json:"isPublished"`
	ContentBlocks []ContentBlock `gorm:"foreignKey:LessonID" json:"contentBlocks"`
}

func (Lesson) TableName() string {
	return "lessons"
}
