// internal/app/store/comments/commentstore.go
package comments

import (
	"context"
	"regexp"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mdrews/courselens/internal/app/system/htmlsanitize"
	"github.com/mdrews/courselens/internal/domain/models"
)

// searchLimit caps how many comments a single search returns.
const searchLimit = 500

// Store provides access to feedback comments and the sessions they belong
// to. Search results are assembled across both collections.
type Store struct {
	comments *mongo.Collection
	sessions *mongo.Collection
}

// New creates a Store backed by the given database.
func New(db *mongo.Database) *Store {
	return &Store{
		comments: db.Collection("feedback_comments"),
		sessions: db.Collection("feedback_sessions"),
	}
}

// sessionKey identifies a feedback session within the result assembly.
type sessionKey struct {
	courseID string
	name     string
}

// SearchByKey finds feedback comments whose text contains the search key,
// folded for case- and diacritic-insensitive matching, and returns them
// grouped by session and question. courseIDs scopes the search the same way
// it does for students: nil is unscoped, an empty non-nil slice matches
// nothing.
//
// Sessions appear in course order; questions within a session are ordered
// by question number and comments within a question by creation time.
func (s *Store) SearchByKey(ctx context.Context, key string, courseIDs []string) ([]models.CommentSearchResult, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, nil
	}

	filter := bson.M{
		"comment_text_ci": bson.M{"$regex": regexp.QuoteMeta(text.Fold(trimmed))},
	}
	if courseIDs != nil {
		filter["course_id"] = bson.M{"$in": courseIDs}
	}

	find := options.Find().
		SetSort(bson.D{
			{Key: "course_id", Value: 1},
			{Key: "session_name", Value: 1},
			{Key: "question_number", Value: 1},
			{Key: "created_at", Value: 1},
			{Key: "_id", Value: 1},
		}).
		SetLimit(searchLimit)

	cur, err := s.comments.Find(ctx, filter, find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.FeedbackComment
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	sessions, err := s.lookupSessions(ctx, rows)
	if err != nil {
		return nil, err
	}
	return assemble(rows, sessions), nil
}

// lookupSessions fetches the session document for every distinct
// (course, session) pair referenced by the matched comments.
func (s *Store) lookupSessions(ctx context.Context, rows []models.FeedbackComment) (map[sessionKey]models.FeedbackSession, error) {
	seen := make(map[sessionKey]struct{})
	var or []bson.M
	for _, c := range rows {
		k := sessionKey{c.CourseID, c.SessionName}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		or = append(or, bson.M{"course_id": k.courseID, "name": k.name})
	}

	cur, err := s.sessions.Find(ctx, bson.M{"$or": or})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var found []models.FeedbackSession
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}

	out := make(map[sessionKey]models.FeedbackSession, len(found))
	for _, sess := range found {
		out[sessionKey{sess.CourseID, sess.Name}] = sess
	}
	return out, nil
}

// assemble groups the sorted comment rows into per-session results. The
// sort guarantees each session's rows are contiguous and question numbers
// ascend within them, so a single pass suffices. A comment whose session
// document has gone missing still shows up, under a stub session carrying
// just the course and name.
//
// Comment bodies are rich text entered through the feedback editor, so they
// pass through the HTML sanitizer here. Anything rendered downstream gets
// an already-clean value even if the stored document predates the current
// policy.
func assemble(rows []models.FeedbackComment, sessions map[sessionKey]models.FeedbackSession) []models.CommentSearchResult {
	var out []models.CommentSearchResult
	idx := make(map[sessionKey]int)

	for _, c := range rows {
		c.CommentText = htmlsanitize.Sanitize(c.CommentText)
		k := sessionKey{c.CourseID, c.SessionName}
		i, ok := idx[k]
		if !ok {
			sess, found := sessions[k]
			if !found {
				sess = models.FeedbackSession{CourseID: c.CourseID, Name: c.SessionName}
			}
			out = append(out, models.CommentSearchResult{Session: sess})
			i = len(out) - 1
			idx[k] = i
		}

		qs := out[i].Questions
		if n := len(qs); n == 0 || qs[n-1].QuestionNumber != c.QuestionNumber {
			qs = append(qs, models.QuestionComments{
				QuestionNumber: c.QuestionNumber,
				QuestionText:   c.QuestionText,
			})
		}
		qs[len(qs)-1].Comments = append(qs[len(qs)-1].Comments, c)
		out[i].Questions = qs
	}
	return out
}
