// internal/app/features/search/export.go
package search

import (
	"net/http"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mdrews/courselens/internal/app/system/authz"
	"github.com/mdrews/courselens/internal/app/system/htmlsanitize"
	"github.com/mdrews/courselens/internal/app/system/statusmsg"
)

// ServeExport downloads the user's current search results as an .xlsx
// workbook: one sheet for the student table, one for comment matches.
// GET /search/export.xlsx
//
// The export reads the same page the search form writes, so what you see
// is what you download. With nothing searched yet it bounces back to the
// page with a hint instead of producing an empty workbook.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
		return
	}

	state := h.pageFor(userID).State()
	if len(state.CourseGroups) == 0 && len(state.CommentGroups) == 0 {
		h.Flash.Push(w, r, statusmsg.LevelWarning, "Nothing to export yet. Run a search first.")
		http.Redirect(w, r, "/search", http.StatusSeeOther)
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			h.Log.Error("close xlsx builder failed", zap.Error(err))
		}
	}()

	if err := h.writeWorkbook(f, state); err != nil {
		h.ErrLog.LogServerError(w, r, "build xlsx export failed", err, "Unable to build the export.", "/search")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="search_results.xlsx"`)
	if err := f.Write(w); err != nil {
		// Headers are gone at this point; all we can do is log.
		h.Log.Error("write xlsx export failed", zap.Error(err))
	}
}

func (h *Handler) writeWorkbook(f *excelize.File, state PageState) error {
	const studentSheet = "Students"
	if err := f.SetSheetName("Sheet1", studentSheet); err != nil {
		return err
	}

	studentHeader := []string{"Course", "Section", "Team", "Name", "Email", "Status", "Can view", "Can modify"}
	if err := writeRow(f, studentSheet, 1, toAny(studentHeader)); err != nil {
		return err
	}
	rowNum := 2
	for _, g := range state.CourseGroups {
		for _, row := range g.Rows {
			vals := []any{
				g.CourseID,
				row.Student.SectionName,
				row.Student.TeamName,
				row.Student.Name,
				row.Student.Email,
				row.Student.JoinState,
				yesNo(row.CanViewStudentInSections),
				yesNo(row.CanModifyStudent),
			}
			if err := writeRow(f, studentSheet, rowNum, vals); err != nil {
				return err
			}
			rowNum++
		}
	}

	if len(state.CommentGroups) == 0 {
		return nil
	}

	const commentSheet = "Comments"
	if _, err := f.NewSheet(commentSheet); err != nil {
		return err
	}
	commentHeader := []string{"Course", "Session", "Question", "Giver", "Recipient", "Comment"}
	if err := writeRow(f, commentSheet, 1, toAny(commentHeader)); err != nil {
		return err
	}
	rowNum = 2
	for _, group := range state.CommentGroups {
		for _, q := range group.Questions {
			for _, c := range q.Comments {
				vals := []any{
					group.Session.CourseID,
					group.Session.Name,
					q.QuestionNumber,
					c.GiverName,
					c.RecipientName,
					htmlsanitize.StripTags(c.CommentText),
				}
				if err := writeRow(f, commentSheet, rowNum, vals); err != nil {
					return err
				}
				rowNum++
			}
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, vals []any) error {
	for col, v := range vals {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
