// internal/domain/models/feedback.go
package models

import (
	"html/template"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedbackSession is one feedback collection window in a course
// (e.g. "Midterm peer review"). Sessions are identified by
// (CourseID, Name).
type FeedbackSession struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID string             `bson:"course_id" json:"course_id"`
	Name     string             `bson:"name" json:"name"`
	TimeZone string             `bson:"time_zone" json:"time_zone"`
	Status   string             `bson:"status" json:"status"` // open | closed | published

	StartAt time.Time `bson:"start_at" json:"start_at"`
	EndAt   time.Time `bson:"end_at" json:"end_at"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FeedbackComment is one instructor comment left on a feedback response.
// Enough of the surrounding response is denormalized onto the comment for
// search results to be rendered without loading the response itself.
type FeedbackComment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID       string             `bson:"course_id" json:"course_id"`
	SessionName    string             `bson:"session_name" json:"session_name"`
	QuestionNumber int                `bson:"question_number" json:"question_number"`
	QuestionText   string             `bson:"question_text" json:"question_text"`
	GiverName      string             `bson:"giver_name" json:"giver_name"`
	RecipientName  string             `bson:"recipient_name" json:"recipient_name"`
	ResponseText   string             `bson:"response_text" json:"response_text"`
	CommentText    string             `bson:"comment_text" json:"comment_text"` // may contain rich-text HTML
	CommentTextCI  string             `bson:"comment_text_ci" json:"comment_text_ci"`
	CommentGiver   string             `bson:"comment_giver" json:"comment_giver"` // instructor email
	LastEditor     string             `bson:"last_editor,omitempty" json:"last_editor,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CommentHTML returns the comment body for template rendering. The comments
// store sanitizes CommentText before it leaves the data layer, so the value
// is safe to emit unescaped.
func (c FeedbackComment) CommentHTML() template.HTML {
	return template.HTML(c.CommentText)
}

// QuestionComments collects the matching comments under one question of a
// session, ordered by creation time.
type QuestionComments struct {
	QuestionNumber int               `json:"question_number"`
	QuestionText   string            `json:"question_text"`
	Comments       []FeedbackComment `json:"comments"`
}

// CommentSearchResult is one session's worth of comment search matches:
// the session the comments belong to plus the matched comments grouped by
// question. It is assembled by the comments store, not stored as-is.
type CommentSearchResult struct {
	Session   FeedbackSession    `json:"session"`
	Questions []QuestionComments `json:"questions"`
}
