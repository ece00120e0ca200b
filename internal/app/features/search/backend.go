// internal/app/features/search/backend.go
package search

import (
	"context"

	"github.com/mdrews/courselens/internal/app/store/comments"
	"github.com/mdrews/courselens/internal/app/store/instructors"
	"github.com/mdrews/courselens/internal/app/store/students"
	"github.com/mdrews/courselens/internal/app/system/privcache"
	"github.com/mdrews/courselens/internal/domain/models"
)

// Stores bundles the data-layer handles the search feature reads from.
type Stores struct {
	Students    *students.Store
	Comments    *comments.Store
	Instructors *instructors.Store
}

// storeBackend is the production Backend. It carries the course scope and
// identity of the user it was built for.
type storeBackend struct {
	stores Stores
	cache  privcache.Cache

	email     string
	admin     bool
	courseIDs []string // nil when unscoped
}

// NewBackend builds a Backend answering for one signed-in user. Admins
// search unscoped and hold every privilege. Instructors are scoped to the
// courses they teach, resolved once here so the two search branches share
// the same view of the course list.
//
// Privilege lookups go through cache when one is provided; pass nil to hit
// the instructors store directly.
func NewBackend(ctx context.Context, st Stores, cache privcache.Cache, email string, admin bool) (Backend, error) {
	b := &storeBackend{stores: st, cache: cache, email: email, admin: admin}
	if !admin {
		ids, err := st.Instructors.CoursesFor(ctx, email)
		if err != nil {
			return nil, err
		}
		b.courseIDs = ids
	}
	return b, nil
}

func (b *storeBackend) SearchStudents(ctx context.Context, key string) ([]models.Student, error) {
	if !b.admin && len(b.courseIDs) == 0 {
		return nil, nil
	}
	return b.stores.Students.SearchByKey(ctx, key, b.courseIDs)
}

func (b *storeBackend) SearchComments(ctx context.Context, key string) ([]models.CommentSearchResult, error) {
	if !b.admin && len(b.courseIDs) == 0 {
		return nil, nil
	}
	return b.stores.Comments.SearchByKey(ctx, key, b.courseIDs)
}

func (b *storeBackend) SectionPrivilege(ctx context.Context, courseID, sectionName string) (models.InstructorPrivilege, error) {
	if b.admin {
		return models.InstructorPrivilege{CanViewStudentInSections: true, CanModifyStudent: true}, nil
	}

	if b.cache != nil {
		if p, ok := b.cache.Get(ctx, b.email, courseID, sectionName); ok {
			return p, nil
		}
	}

	p, err := b.stores.Instructors.SectionPrivilege(ctx, b.email, courseID, sectionName)
	if err != nil {
		return models.InstructorPrivilege{}, err
	}
	if b.cache != nil {
		b.cache.Set(ctx, b.email, courseID, sectionName, p)
	}
	return p, nil
}
