// internal/app/system/statusmsg/statusmsg.go
package statusmsg

import (
	"encoding/gob"
	"net/http"

	"github.com/mdrews/courselens/internal/app/system/auth"
	"go.uber.org/zap"
)

// Message levels. Templates map these onto banner styles.
const (
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Message is one status banner queued for the user's next page render.
type Message struct {
	Level string
	Text  string
}

func init() {
	// Session flashes ride through gob encoding.
	gob.Register(Message{})
}

// Store queues status messages in the user's session as flash values:
// pushed by the handler that produced the condition, popped by the next
// full page render. Delivery is best-effort; a session save failure is
// logged and the message dropped rather than failing the request.
type Store struct {
	sm  *auth.SessionManager
	log *zap.Logger
}

// New builds a Store on top of the app's session manager.
func New(sm *auth.SessionManager, logger *zap.Logger) *Store {
	return &Store{sm: sm, log: logger}
}

// Push queues one message.
func (s *Store) Push(w http.ResponseWriter, r *http.Request, level, text string) {
	sess := s.sm.GetSession(r)
	sess.AddFlash(Message{Level: level, Text: text})
	if err := sess.Save(r, w); err != nil {
		s.log.Warn("status message save failed",
			zap.String("level", level),
			zap.Error(err))
	}
}

// Pop returns all queued messages and clears them.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	sess := s.sm.GetSession(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		s.log.Warn("status message clear failed", zap.Error(err))
	}

	msgs := make([]Message, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(Message); ok {
			msgs = append(msgs, m)
		}
	}
	return msgs
}

// RequestNotifier binds the store to one response/request pair so code
// that only knows "show the user a message" does not have to carry the
// HTTP plumbing.
type RequestNotifier struct {
	store *Store
	w     http.ResponseWriter
	r     *http.Request
}

// ForRequest returns a notifier scoped to this request.
func (s *Store) ForRequest(w http.ResponseWriter, r *http.Request) *RequestNotifier {
	return &RequestNotifier{store: s, w: w, r: r}
}

// ShowSuccess queues a success message.
func (n *RequestNotifier) ShowSuccess(text string) {
	n.store.Push(n.w, n.r, LevelSuccess, text)
}

// ShowWarning queues a warning message.
func (n *RequestNotifier) ShowWarning(text string) {
	n.store.Push(n.w, n.r, LevelWarning, text)
}

// ShowError queues an error message.
func (n *RequestNotifier) ShowError(text string) {
	n.store.Push(n.w, n.r, LevelError, text)
}
