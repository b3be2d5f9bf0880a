package client

import (
	"github.com/mayeul-docq/univia/internal/model/survey"
)

// Session is the client-side survey state: the student identity, the last
// authoritative snapshot from the backend, and everything the student has
// typed. The snapshot is always replaced wholesale, never merged.
type Session struct {
	studentID string
	state     *survey.StateSnapshot

	// comments holds the last submitted comment per university; answers is
	// a single slot→value map across the whole session, last write wins.
	comments map[string]string
	answers  map[string]string

	// pending question lists per university. The comment flow replaces a
	// university's list; the answer flow appends to it.
	pending map[string][]survey.Question

	// seq/applied order state responses so a late reply from an earlier
	// request cannot overwrite a newer snapshot.
	seq     uint64
	applied uint64
}

// NewSession returns an uninitialized session. All operations except Begin
// require a successful Begin first.
func NewSession() *Session {
	return &Session{
		comments: make(map[string]string),
		answers:  make(map[string]string),
		pending:  make(map[string][]survey.Question),
	}
}

// Active reports whether the session has been initialized.
func (s *Session) Active() bool { return s.studentID != "" }

// StudentID is the identity assigned at init, empty before then.
func (s *Session) StudentID() string { return s.studentID }

// State returns the last server snapshot, nil before init.
func (s *Session) State() *survey.StateSnapshot { return s.state }

// Begin records the server-assigned student id and initial state. The id is
// set exactly once; a second Begin only refreshes the snapshot.
func (s *Session) Begin(studentID string, state survey.StateSnapshot) {
	if s.studentID == "" {
		s.studentID = studentID
	}
	seq := s.NextRequest()
	s.ApplyState(state, seq)
}

// NextRequest hands out a sequence number to tag an outgoing request with.
// Pass it back to ApplyState when the response arrives.
func (s *Session) NextRequest() uint64 {
	s.seq++
	return s.seq
}

// ApplyState replaces the snapshot if the response is not stale. Returns
// whether the snapshot was applied.
func (s *Session) ApplyState(state survey.StateSnapshot, seq uint64) bool {
	if seq <= s.applied {
		return false
	}
	s.applied = seq
	s.state = &state
	return true
}

// RecordComment stores the comment text for a university, overwriting any
// prior text for that id. Entries are never deleted.
func (s *Session) RecordComment(uniID, text string) {
	s.comments[uniID] = text
}

// Comment returns the last recorded comment for a university.
func (s *Session) Comment(uniID string) string {
	return s.comments[uniID]
}

// RecordAnswer stores a slot answer. Slots are session-global: answering the
// same slot from another university's card overwrites the previous value.
func (s *Session) RecordAnswer(slot, value string) {
	s.answers[slot] = value
}

// Answer returns the last recorded value for a slot.
func (s *Session) Answer(slot string) string {
	return s.answers[slot]
}

// ReplaceQuestions swaps a university's pending list for the given set.
// Used by the comment flow: the server returns the full current set.
func (s *Session) ReplaceQuestions(uniID string, questions []survey.Question) {
	s.pending[uniID] = append([]survey.Question(nil), questions...)
}

// AppendQuestions adds to a university's pending list without clearing it.
// Used by the answer flow: new questions accumulate next to unanswered ones.
func (s *Session) AppendQuestions(uniID string, questions []survey.Question) {
	s.pending[uniID] = append(s.pending[uniID], questions...)
}

// Questions returns the pending list for a university in arrival order.
func (s *Session) Questions(uniID string) []survey.Question {
	return append([]survey.Question(nil), s.pending[uniID]...)
}

// OtherForPrefer resolves the opponent for a "prefer this over the first"
// action: the head of the triplet, or the second element when uid is the
// head itself. Requires a triplet of at least two; ok is false otherwise.
func (s *Session) OtherForPrefer(uniID string) (string, bool) {
	if s.state == nil || len(s.state.Triplet) < 2 {
		return "", false
	}
	if s.state.Triplet[0] != uniID {
		return s.state.Triplet[0], true
	}
	return s.state.Triplet[1], true
}
