// internal/app/features/search/coordinator.go
package search

import (
	"context"
	"sync"

	"github.com/mdrews/courselens/internal/domain/models"
)

// Backend is everything one search run needs from the data layer. A
// Backend answers for a single signed-in user: which courses the searches
// cover and whose privileges SectionPrivilege reports are both decided by
// who the backend was built for.
type Backend interface {
	SearchStudents(ctx context.Context, key string) ([]models.Student, error)
	SearchComments(ctx context.Context, key string) ([]models.CommentSearchResult, error)
	PrivilegeFetcher
}

// Run executes one search. The student and comment branches run
// concurrently; a disabled branch contributes its empty placeholder. The
// student branch shapes its matches into course groups and resolves their
// section privileges before the run is considered done.
//
// Run waits for both branches. If either fails, the whole run fails with
// a single error and the zero Results, never a partial outcome.
func Run(ctx context.Context, backend Backend, params SearchParams) (Results, error) {
	var res Results
	var wg sync.WaitGroup
	errc := make(chan error, 2)

	if params.SearchStudents {
		wg.Add(1)
		go func() {
			defer wg.Done()
			students, err := backend.SearchStudents(ctx, params.Query)
			if err != nil {
				errc <- err
				return
			}
			groups := GroupByCourse(students)
			privs, err := ResolvePrivileges(ctx, backend, groups)
			if err != nil {
				errc <- err
				return
			}
			ApplyPrivileges(groups, privs)
			res.CourseGroups = groups
		}()
	}

	if params.SearchComments {
		wg.Add(1)
		go func() {
			defer wg.Done()
			comments, err := backend.SearchComments(ctx, params.Query)
			if err != nil {
				errc <- err
				return
			}
			res.CommentGroups = comments
		}()
	}

	wg.Wait()
	close(errc)

	if err := <-errc; err != nil {
		return Results{}, err
	}
	return res, nil
}
