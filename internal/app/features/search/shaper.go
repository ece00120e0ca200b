// internal/app/features/search/shaper.go
package search

import "github.com/mdrews/courselens/internal/domain/models"

// GroupByCourse shapes a flat student result list into per-course groups.
// Courses appear in the order the list first mentions them, and students
// keep their incoming order within each course.
//
// Duplicates collapse by whole-value equality: the same record returned
// twice becomes one row, but two distinct records that merely share an
// email or name both stay. Every row starts with its permission flags off;
// ApplyPrivileges fills them in afterwards.
func GroupByCourse(students []models.Student) []CourseGroup {
	var groups []CourseGroup
	idx := make(map[string]int)
	seen := make(map[models.Student]struct{})

	for _, st := range students {
		if _, dup := seen[st]; dup {
			continue
		}
		seen[st] = struct{}{}

		i, ok := idx[st.CourseID]
		if !ok {
			groups = append(groups, CourseGroup{CourseID: st.CourseID})
			i = len(groups) - 1
			idx[st.CourseID] = i
		}
		groups[i].Rows = append(groups[i].Rows, StudentRow{Student: st})
	}
	return groups
}
