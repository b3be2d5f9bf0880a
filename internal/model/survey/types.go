package survey

// StateSnapshot is the authoritative session state computed by the backend.
// Clients replace their copy wholesale on every response that carries one.
type StateSnapshot struct {
	Triplet       []string               `json:"triplet"`
	Scores        map[string]ScoreDetail `json:"scores"`
	Shortlist     []string               `json:"shortlist"`
	Exclusions    []Exclusion            `json:"exclusions"`
	SeenCount     int                    `json:"seen_count"`
	ConfidentUnis []string               `json:"confident_unis"`
	ShouldStop    bool                   `json:"should_stop"`
}

// ScoreDetail breaks a university's ranking score into its components.
type ScoreDetail struct {
	SoftFit float64 `json:"soft_fit"`
	Pref    float64 `json:"pref"`
	Hybrid  float64 `json:"hybrid"`
}

// Exclusion records a university ruled out of the survey with a reason.
type Exclusion struct {
	UniID  string `json:"uni_id"`
	Reason string `json:"reason"`
}

// Question is a backend-generated follow-up prompt. The slot routes the
// answer back to the profile field the question addresses.
type Question struct {
	Slot string `json:"slot"`
	Text string `json:"text"`
}

// RankingEntry is one row of the final ranking table.
type RankingEntry struct {
	UniID string  `json:"uni_id"`
	Score float64 `json:"score"`
}

// InitRequest starts or restarts a survey session. Both fields may be null:
// the server falls back to the default student and a key-less agent.
type InitRequest struct {
	StudentID    *string `json:"student_id"`
	OpenAIAPIKey *string `json:"openai_api_key"`
}

// CommentRequest submits a free-text comment about one university.
type CommentRequest struct {
	StudentID string `json:"student_id"`
	UniID     string `json:"uni_id"`
	Text      string `json:"text"`
}

// AnswerRequest submits a structured answer to a follow-up question.
type AnswerRequest struct {
	StudentID string `json:"student_id"`
	UniID     string `json:"uni_id"`
	Slot      string `json:"slot"`
	Value     string `json:"value"`
}

// PairwiseRequest records a pairwise preference judgment.
type PairwiseRequest struct {
	StudentID string `json:"student_id"`
	BetterID  string `json:"better_id"`
	WorseID   string `json:"worse_id"`
}

// InitResponse echoes the resolved student id alongside the initial state.
type InitResponse struct {
	OK        bool          `json:"ok"`
	StudentID string        `json:"student_id"`
	State     StateSnapshot `json:"state"`
}

// StateResponse carries a fresh state snapshot.
type StateResponse struct {
	OK    bool          `json:"ok"`
	State StateSnapshot `json:"state"`
}

// QuestionsResponse is returned by the comment and answer endpoints: new
// follow-up questions (possibly none) plus the updated state.
type QuestionsResponse struct {
	OK        bool          `json:"ok"`
	Questions []Question    `json:"questions"`
	State     StateSnapshot `json:"state"`
}

// RankingResponse is the full ranking table with the stopping indicator.
type RankingResponse struct {
	OK      bool           `json:"ok"`
	Stop    bool           `json:"stop"`
	Ranking []RankingEntry `json:"ranking"`
}
