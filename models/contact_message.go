package models

import (
	"time"

	"github.com/google/uuid"
)

// Subjects offered by the public contact form. Free text is accepted too.
const (
	SubjectGeneralInquiry = "General Inquiry"
	SubjectLaserCutting   = "Laser Cutting Service"
	SubjectPatternGrading = "Pattern Grading Project"
)

// ContactSubjects lists the subjects in the order the form shows them
var ContactSubjects = []string{
	SubjectGeneralInquiry,
	SubjectLaserCutting,
	SubjectPatternGrading,
}

// ContactMessage is an inquiry submitted through the public contact form
type ContactMessage struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name      string    `json:"name" db:"name" gorm:"column:name;type:text;not null"`
	Email     string    `json:"email" db:"email" gorm:"column:email;type:text;not null"`
	Subject   string    `json:"subject" db:"subject" gorm:"column:subject;type:text;not null;default:'General Inquiry'"`
	Message   string    `json:"message" db:"message" gorm:"column:message;type:text;not null"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"column:created_at;type:timestamptz;not null"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}
