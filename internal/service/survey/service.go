package survey

import (
	"context"
	"errors"
	"log"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mayeul-docq/univia/internal/config"
	"github.com/mayeul-docq/univia/internal/match"
	"github.com/mayeul-docq/univia/internal/model/catalog"
	"github.com/mayeul-docq/univia/internal/model/survey"
	"github.com/mayeul-docq/univia/internal/service/advisor"
)

const (
	topConfidenceTarget = 10
	confDeltaEps        = 0.015
	confMinPoints       = 3
	scoreHistoryDepth   = 5
	questionsPerComment = 3
)

// ErrSessionNotFound is returned for any operation before a successful init.
var ErrSessionNotFound = errors.New("session not found. Call /api/init first")

type session struct {
	agent   *match.Agent
	advisor *advisor.Service

	comments      map[string][]string
	questionCount map[string]int
	asked         map[string][]survey.Question
	scoreHistory  map[string][]float64
	confident     map[string]struct{}
}

// Service owns all survey sessions, keyed by student id. State is in-memory
// only: a restart ends every survey, which is acceptable for this tool.
type Service struct {
	mu sync.Mutex

	students catalog.StudentStore
	unis     catalog.UniversityStore
	aiCfg    config.AIConfig

	sessions map[string]*session
	watchers map[string]map[string]chan survey.StateSnapshot
}

// NewService builds the survey service over the catalog stores.
func NewService(students catalog.StudentStore, unis catalog.UniversityStore, aiCfg config.AIConfig) *Service {
	return &Service{
		students: students,
		unis:     unis,
		aiCfg:    aiCfg,
		sessions: make(map[string]*session),
		watchers: make(map[string]map[string]chan survey.StateSnapshot),
	}
}

// Init creates (or recreates) the session for a student. A nil student id
// falls back to the default profile, or a generated id when the store is
// empty. The optional API key enables the LLM advisor for this session.
func (s *Service) Init(ctx context.Context, studentID, apiKey *string) (string, survey.StateSnapshot, error) {
	sid := ""
	if studentID != nil {
		sid = strings.TrimSpace(*studentID)
	}
	if sid == "" {
		if def, ok := s.students.Default(); ok {
			sid = def.ID
		} else {
			sid = uuid.NewString()
		}
	}

	student, ok := s.students.FindByID(sid)
	if !ok {
		if def, hasDefault := s.students.Default(); hasDefault {
			student = def
			student.ID = sid
		} else {
			student = catalog.Student{ID: sid}
		}
	}

	key := ""
	if apiKey != nil {
		key = *apiKey
	}

	sess := &session{
		agent:         match.NewAgent(student, s.unis.List()),
		advisor:       s.newAdvisor(ctx, key),
		comments:      make(map[string][]string),
		questionCount: make(map[string]int),
		asked:         make(map[string][]survey.Question),
		scoreHistory:  make(map[string][]float64),
		confident:     make(map[string]struct{}),
	}

	s.mu.Lock()
	s.sessions[sid] = sess
	state := s.currentState(sess)
	s.mu.Unlock()

	s.notify(sid, state)
	return sid, state, nil
}

// Comment records free text about one university. The first comment for a
// university triggers follow-up questions, within the per-university quota;
// later comments still update preferences but ask nothing new.
func (s *Service) Comment(ctx context.Context, studentID, uniID, text string) ([]survey.Question, survey.StateSnapshot, error) {
	s.mu.Lock()
	sess, ok := s.sessions[studentID]
	if !ok {
		s.mu.Unlock()
		return nil, survey.StateSnapshot{}, ErrSessionNotFound
	}

	sess.comments[uniID] = append(sess.comments[uniID], text)

	questions := []survey.Question{}
	if len(sess.comments[uniID]) == 1 {
		for _, slot := range sess.advisor.SuggestSlots(ctx, sess.agent, questionsPerComment) {
			if sess.questionCount[uniID] >= match.MaxQuestionsPerUni {
				break
			}
			questions = append(questions, survey.Question{Slot: slot, Text: match.SlotPrompt[slot]})
			sess.questionCount[uniID]++
		}
		sess.asked[uniID] = append(sess.asked[uniID], questions...)
	}

	state := s.currentState(sess)
	s.mu.Unlock()

	s.notify(studentID, state)
	return questions, state, nil
}

// Answer folds a slot answer into the profile, asks at most one follow-up
// within quota, and rotates out the weakest triplet column while the survey
// has not converged.
func (s *Service) Answer(ctx context.Context, studentID, uniID, slot, value string) ([]survey.Question, survey.StateSnapshot, error) {
	s.mu.Lock()
	sess, ok := s.sessions[studentID]
	if !ok {
		s.mu.Unlock()
		return nil, survey.StateSnapshot{}, ErrSessionNotFound
	}

	sess.agent.ApplyAnswers(map[string]string{slot: value})

	questions := []survey.Question{}
	if sess.questionCount[uniID] < match.MaxQuestionsPerUni {
		if next := sess.agent.NextQuestions(1); len(next) > 0 {
			questions = append(questions, next[0])
			sess.questionCount[uniID]++
			sess.asked[uniID] = append(sess.asked[uniID], questions...)
		}
	}

	if !s.shouldStop(sess) {
		s.replaceWeakestColumn(sess)
	}

	state := s.currentState(sess)
	s.mu.Unlock()

	s.notify(studentID, state)
	return questions, state, nil
}

// Pairwise records a preference judgment between two universities.
func (s *Service) Pairwise(_ context.Context, studentID, betterID, worseID string) (survey.StateSnapshot, error) {
	s.mu.Lock()
	sess, ok := s.sessions[studentID]
	if !ok {
		s.mu.Unlock()
		return survey.StateSnapshot{}, ErrSessionNotFound
	}

	sess.agent.Feedback(betterID, worseID)
	state := s.currentState(sess)
	s.mu.Unlock()

	s.notify(studentID, state)
	return state, nil
}

// State re-computes the current snapshot without side effects on the survey
// (score history still advances, feeding the confidence rule).
func (s *Service) State(_ context.Context, studentID string) (survey.StateSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[studentID]
	if !ok {
		return survey.StateSnapshot{}, ErrSessionNotFound
	}
	return s.currentState(sess), nil
}

// Ranking returns every university ordered by hybrid score, plus the
// stopping indicator.
func (s *Service) Ranking(_ context.Context, studentID string) ([]survey.RankingEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[studentID]
	if !ok {
		return nil, false, ErrSessionNotFound
	}

	ranked := sess.agent.RankAll()
	entries := make([]survey.RankingEntry, 0, len(ranked))
	for _, id := range ranked {
		entries = append(entries, survey.RankingEntry{
			UniID: id,
			Score: math.Round(sess.agent.HybridScore(id)*1000) / 1000,
		})
	}
	return entries, s.shouldStop(sess), nil
}

// Watch subscribes to state snapshots pushed after every mutating operation.
// The returned cancel func must be called to release the subscription.
func (s *Service) Watch(studentID string) (<-chan survey.StateSnapshot, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[studentID]; !ok {
		return nil, nil, ErrSessionNotFound
	}

	id := uuid.NewString()
	ch := make(chan survey.StateSnapshot, 8)
	if s.watchers[studentID] == nil {
		s.watchers[studentID] = make(map[string]chan survey.StateSnapshot)
	}
	s.watchers[studentID][id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if subs, ok := s.watchers[studentID]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(s.watchers, studentID)
			}
		}
	}
	return ch, cancel, nil
}

func (s *Service) newAdvisor(ctx context.Context, sessionKey string) *advisor.Service {
	effective := s.aiCfg.WithSessionKey(sessionKey)
	if !effective.Enabled() {
		return nil
	}

	chatModel, err := effective.NewChatModel(ctx)
	if err != nil {
		log.Printf("[survey] chat model unavailable, using core questions: %v", err)
		return nil
	}

	svc, err := advisor.New(ctx, chatModel)
	if err != nil {
		log.Printf("[survey] advisor init failed, using core questions: %v", err)
		return nil
	}
	return svc
}

// currentState snapshots the agent and advances the convergence tracking.
// Callers must hold s.mu.
func (s *Service) currentState(sess *session) survey.StateSnapshot {
	st := sess.agent.Step()

	for uniID, sc := range st.Scores {
		hist := append(sess.scoreHistory[uniID], sc.Hybrid)
		if len(hist) > scoreHistoryDepth {
			hist = hist[len(hist)-scoreHistoryDepth:]
		}
		sess.scoreHistory[uniID] = hist
	}

	s.updateConfidence(sess)

	confident := make([]string, 0, len(sess.confident))
	for uniID := range sess.confident {
		confident = append(confident, uniID)
	}
	sort.Strings(confident)

	st.ConfidentUnis = confident
	st.ShouldStop = s.shouldStop(sess)
	return st
}

// updateConfidence marks a university confident once its recent hybrid
// scores have settled (all of the last deltas within epsilon).
func (s *Service) updateConfidence(sess *session) {
	sess.confident = make(map[string]struct{})
	for uniID, hist := range sess.scoreHistory {
		if len(hist) < confMinPoints {
			continue
		}
		deltas := make([]float64, 0, len(hist)-1)
		for i := 1; i < len(hist); i++ {
			deltas = append(deltas, math.Abs(hist[i]-hist[i-1]))
		}
		if len(deltas) < confMinPoints-1 {
			continue
		}
		recent := deltas[len(deltas)-(confMinPoints-1):]
		settled := true
		for _, d := range recent {
			if d > confDeltaEps {
				settled = false
				break
			}
		}
		if settled {
			sess.confident[uniID] = struct{}{}
		}
	}
}

// shouldStop is true once every triplet column has exhausted its question
// quota, or enough universities have settled scores.
func (s *Service) shouldStop(sess *session) bool {
	allDone := true
	for _, uniID := range sess.agent.Triplet {
		if sess.questionCount[uniID] < match.MaxQuestionsPerUni {
			allDone = false
			break
		}
	}
	if allDone {
		return true
	}

	// With a small catalog every university must settle; past ten, the
	// top-ten target is enough.
	total := len(sess.agent.UniIDs())
	need := total
	if total >= topConfidenceTarget {
		need = topConfidenceTarget
	}
	return len(sess.confident) >= need
}

// replaceWeakestColumn swaps the lowest-scoring triplet member for the best
// university not currently displayed.
func (s *Service) replaceWeakestColumn(sess *session) {
	trip := sess.agent.Triplet
	if len(trip) == 0 {
		return
	}

	worstIdx := 0
	worstScore := sess.agent.HybridScore(trip[0])
	for i, uniID := range trip[1:] {
		if sc := sess.agent.HybridScore(uniID); sc < worstScore {
			worstScore = sc
			worstIdx = i + 1
		}
	}

	inTriplet := make(map[string]struct{}, len(trip))
	for _, uniID := range trip {
		inTriplet[uniID] = struct{}{}
	}

	bestID := ""
	bestScore := math.Inf(-1)
	for _, uniID := range sess.agent.UniIDs() {
		if _, shown := inTriplet[uniID]; shown {
			continue
		}
		if sc := sess.agent.HybridScore(uniID); sc > bestScore {
			bestScore = sc
			bestID = uniID
		}
	}
	if bestID == "" {
		return
	}

	sess.agent.Triplet[worstIdx] = bestID
}

// notify pushes a snapshot to every watcher without blocking; slow consumers
// miss intermediate snapshots rather than stalling the request path.
func (s *Service) notify(studentID string, state survey.StateSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.watchers[studentID] {
		select {
		case ch <- state:
		default:
		}
	}
}
