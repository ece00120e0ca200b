// internal/app/features/search/resolver.go
package search

import (
	"context"
	"sync"

	"github.com/mdrews/courselens/internal/domain/models"
)

// PrivilegeFetcher performs one privilege lookup for a course section,
// answering for the signed-in instructor.
type PrivilegeFetcher interface {
	SectionPrivilege(ctx context.Context, courseID, sectionName string) (models.InstructorPrivilege, error)
}

// ResolvePrivileges fetches the effective privilege for every distinct
// (course, section) pair appearing in groups. Exactly one lookup is issued
// per pair regardless of how many rows share it, and all lookups run
// concurrently. When any lookup fails the whole resolution fails and no
// partial map is returned.
//
// With no groups the call returns an empty map without touching the
// fetcher.
func ResolvePrivileges(ctx context.Context, fetcher PrivilegeFetcher, groups []CourseGroup) (map[SectionKey]models.InstructorPrivilege, error) {
	var keys []SectionKey
	seen := make(map[SectionKey]struct{})
	for _, g := range groups {
		for _, row := range g.Rows {
			k := SectionKey{CourseID: g.CourseID, SectionName: row.Student.SectionName}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}

	out := make(map[SectionKey]models.InstructorPrivilege, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	type lookup struct {
		key  SectionKey
		priv models.InstructorPrivilege
		err  error
	}

	results := make(chan lookup, len(keys))
	var wg sync.WaitGroup
	for _, k := range keys {
		wg.Add(1)
		go func(k SectionKey) {
			defer wg.Done()
			priv, err := fetcher.SectionPrivilege(ctx, k.CourseID, k.SectionName)
			results <- lookup{key: k, priv: priv, err: err}
		}(k)
	}
	wg.Wait()
	close(results)

	for res := range results {
		if res.err != nil {
			return nil, res.err
		}
		out[res.key] = res.priv
	}
	return out, nil
}

// ApplyPrivileges copies the resolved flags onto every row by its
// (course, section) key. Rows whose key has no entry keep their current
// flags; a missing pair is not an error.
func ApplyPrivileges(groups []CourseGroup, privs map[SectionKey]models.InstructorPrivilege) {
	for gi := range groups {
		for ri := range groups[gi].Rows {
			k := SectionKey{
				CourseID:    groups[gi].CourseID,
				SectionName: groups[gi].Rows[ri].Student.SectionName,
			}
			p, ok := privs[k]
			if !ok {
				continue
			}
			groups[gi].Rows[ri].CanViewStudentInSections = p.CanViewStudentInSections
			groups[gi].Rows[ri].CanModifyStudent = p.CanModifyStudent
		}
	}
}
