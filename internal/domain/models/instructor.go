// internal/domain/models/instructor.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Instructor is one person's instructor role in one course. A person
// teaching three courses has three Instructor records, each carrying its
// own privilege document.
type Instructor struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CourseID      string               `bson:"course_id" json:"course_id"`
	Email         string               `bson:"email" json:"email"`
	Name          string               `bson:"name" json:"name"`
	NameCI        string               `bson:"name_ci" json:"name_ci"`
	Role          string               `bson:"role" json:"role"` // owner | manager | tutor | custom
	DisplayedName string               `bson:"displayed_name,omitempty" json:"displayed_name,omitempty"`
	Privileges    InstructorPrivileges `bson:"privileges" json:"privileges"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// InstructorPrivilege is the pair of flags the UI needs for one section:
// may the instructor see student details there, and may they modify the
// student (edit enrollment, remove, resend invites).
type InstructorPrivilege struct {
	CanViewStudentInSections bool `bson:"can_view_student_in_sections" json:"can_view_student_in_sections"`
	CanModifyStudent         bool `bson:"can_modify_student" json:"can_modify_student"`
}

// InstructorPrivileges is the stored privilege document for one instructor
// in one course: course-level defaults plus optional per-section overrides.
type InstructorPrivileges struct {
	CourseLevel  InstructorPrivilege            `bson:"course_level" json:"course_level"`
	SectionLevel map[string]InstructorPrivilege `bson:"section_level,omitempty" json:"section_level,omitempty"`
}

// ForSection returns the effective privilege for a section: the
// section-level override when one exists, the course-level default
// otherwise.
func (p InstructorPrivileges) ForSection(section string) InstructorPrivilege {
	if sp, ok := p.SectionLevel[section]; ok {
		return sp
	}
	return p.CourseLevel
}

// PrivilegesForRole returns the standard privilege document for a named
// instructor role. Owners and managers get full access, tutors may view
// but not modify, and custom roles start locked down until edited.
func PrivilegesForRole(role string) InstructorPrivileges {
	switch role {
	case "owner", "manager":
		return InstructorPrivileges{
			CourseLevel: InstructorPrivilege{CanViewStudentInSections: true, CanModifyStudent: true},
		}
	case "tutor":
		return InstructorPrivileges{
			CourseLevel: InstructorPrivilege{CanViewStudentInSections: true},
		}
	default:
		return InstructorPrivileges{}
	}
}
