package announcements

import (
	"time"

	"github.com/eduplus/eduplus-backend/internal/courses"
	"github.com/lib/pq"
)

type Announcement struct {
	ID          string          `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"not null" json:"title"`
	Content     string          `gorm:"not null" json:"content"`
	CourseID    string          `gorm:"not null" json:"course_id"`
	Attachments pq.StringArray  `gorm:"type:text[]" json:"attachments"`
	Course      *courses.Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (Announcement) TableName() string { return "app_lms.announcements" }
