package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mayeul-docq/univia/internal/client"
	"github.com/mayeul-docq/univia/internal/model/survey"
)

type phase int

const (
	phaseSetup phase = iota
	phaseSurvey
)

const requestTimeout = 30 * time.Second

type fieldKind int

const (
	fieldComment fieldKind = iota
	fieldAnswer
)

// fieldRef identifies one editable input in the survey view.
type fieldRef struct {
	kind  fieldKind
	uniID string
	slot  string
}

func (f fieldRef) key() string {
	if f.kind == fieldComment {
		return "comment/" + f.uniID
	}
	return "answer/" + f.uniID + "/" + f.slot
}

// Model drives the interactive survey session.
type Model struct {
	api     *client.Client
	session *client.Session
	theme   Theme

	phase      phase
	setup      []textinput.Model
	setupFocus int

	inputs map[string]textinput.Model
	fields []fieldRef
	focus  int

	ranking     []survey.RankingEntry
	rankingStop bool
	showRanking bool

	loading bool
	notice  string
	errText string

	width int
}

// NewModel builds the initial setup-phase model against the given API client.
func NewModel(api *client.Client) Model {
	student := textinput.New()
	student.Placeholder = "student id (blank for default)"
	student.CharLimit = 64
	student.Focus()

	apiKey := textinput.New()
	apiKey.Placeholder = "OpenAI API key (optional)"
	apiKey.CharLimit = 200
	apiKey.EchoMode = textinput.EchoPassword

	return Model{
		api:     api,
		session: client.NewSession(),
		theme:   NewTheme(),
		phase:   phaseSetup,
		setup:   []textinput.Model{student, apiKey},
		inputs:  make(map[string]textinput.Model),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

type initDoneMsg struct {
	res survey.InitResponse
	err error
}

type questionsDoneMsg struct {
	uniID   string
	replace bool
	seq     uint64
	res     survey.QuestionsResponse
	err     error
}

type stateDoneMsg struct {
	seq uint64
	res survey.StateResponse
	err error
}

type rankingDoneMsg struct {
	res survey.RankingResponse
	err error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
		if m.phase == phaseSetup {
			return m.updateSetup(msg)
		}
		return m.updateSurvey(msg)

	case initDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.session.Begin(msg.res.StudentID, msg.res.State)
		m.phase = phaseSurvey
		m.rebuildFields()
		return m, nil

	case questionsDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		if msg.replace {
			m.session.ReplaceQuestions(msg.uniID, msg.res.Questions)
		} else {
			m.session.AppendQuestions(msg.uniID, msg.res.Questions)
		}
		m.session.ApplyState(msg.res.State, msg.seq)
		m.rebuildFields()
		return m, nil

	case stateDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.session.ApplyState(msg.res.State, msg.seq)
		m.rebuildFields()
		return m, nil

	case rankingDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.ranking = msg.res.Ranking
		m.rankingStop = msg.res.Stop
		m.showRanking = true
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m Model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		if msg.String() == "shift+tab" || msg.String() == "up" {
			m.setupFocus--
		} else {
			m.setupFocus++
		}
		if m.setupFocus < 0 {
			m.setupFocus = len(m.setup) - 1
		}
		if m.setupFocus >= len(m.setup) {
			m.setupFocus = 0
		}
		for i := range m.setup {
			if i == m.setupFocus {
				m.setup[i].Focus()
			} else {
				m.setup[i].Blur()
			}
		}
		return m, nil

	case "enter":
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.notice = ""
		var studentID, apiKey *string
		if v := strings.TrimSpace(m.setup[0].Value()); v != "" {
			studentID = &v
		}
		if v := strings.TrimSpace(m.setup[1].Value()); v != "" {
			apiKey = &v
		}
		return m, m.initCmd(studentID, apiKey)
	}

	var cmd tea.Cmd
	m.setup[m.setupFocus], cmd = m.setup[m.setupFocus].Update(msg)
	return m, cmd
}

func (m Model) updateSurvey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, nil
	case "enter":
		return m.submitFocused()
	case "ctrl+p":
		return m.preferFocused()
	case "ctrl+r":
		if m.loading || !m.session.Active() {
			return m, nil
		}
		m.loading = true
		return m, m.stateCmd()
	case "ctrl+k":
		if m.showRanking {
			m.showRanking = false
			return m, nil
		}
		if m.loading || !m.session.Active() {
			return m, nil
		}
		m.loading = true
		return m, m.rankingCmd()
	}

	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.phase == phaseSetup {
		var cmd tea.Cmd
		m.setup[m.setupFocus], cmd = m.setup[m.setupFocus].Update(msg)
		return m, cmd
	}
	if len(m.fields) == 0 {
		return m, nil
	}
	key := m.fields[m.focus].key()
	in, ok := m.inputs[key]
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	m.inputs[key] = in
	return m, cmd
}

func (m *Model) moveFocus(delta int) {
	if len(m.fields) == 0 {
		return
	}
	m.focus += delta
	if m.focus < 0 {
		m.focus = len(m.fields) - 1
	}
	if m.focus >= len(m.fields) {
		m.focus = 0
	}
	m.syncFocus()
}

func (m *Model) syncFocus() {
	for i, f := range m.fields {
		in, ok := m.inputs[f.key()]
		if !ok {
			continue
		}
		if i == m.focus {
			in.Focus()
		} else {
			in.Blur()
		}
		m.inputs[f.key()] = in
	}
}

// rebuildFields recomputes the editable field list from the session state,
// keeping any input the student already typed into.
func (m *Model) rebuildFields() {
	st := m.session.State()
	m.fields = m.fields[:0]
	if st == nil {
		return
	}
	seen := make(map[string]bool)
	for _, uniID := range st.Triplet {
		f := fieldRef{kind: fieldComment, uniID: uniID}
		m.fields = append(m.fields, f)
		seen[f.key()] = true
		if _, ok := m.inputs[f.key()]; !ok {
			in := textinput.New()
			in.Placeholder = "your impression of this university"
			in.CharLimit = 500
			in.SetValue(m.session.Comment(uniID))
			m.inputs[f.key()] = in
		}
		for _, q := range m.session.Questions(uniID) {
			f := fieldRef{kind: fieldAnswer, uniID: uniID, slot: q.Slot}
			m.fields = append(m.fields, f)
			seen[f.key()] = true
			if _, ok := m.inputs[f.key()]; !ok {
				in := textinput.New()
				in.Placeholder = "answer"
				in.CharLimit = 120
				m.inputs[f.key()] = in
			}
		}
	}
	for key := range m.inputs {
		if !seen[key] {
			delete(m.inputs, key)
		}
	}
	if m.focus >= len(m.fields) {
		m.focus = 0
	}
	m.syncFocus()
}

func (m Model) submitFocused() (tea.Model, tea.Cmd) {
	if m.loading || len(m.fields) == 0 {
		return m, nil
	}
	f := m.fields[m.focus]
	in := m.inputs[f.key()]
	value := strings.TrimSpace(in.Value())
	if value == "" {
		if f.kind == fieldComment {
			m.notice = "comment cannot be empty"
		} else {
			m.notice = "answer cannot be empty"
		}
		return m, nil
	}
	m.notice = ""
	m.loading = true
	seq := m.session.NextRequest()
	if f.kind == fieldComment {
		m.session.RecordComment(f.uniID, value)
		return m, m.commentCmd(f.uniID, value, seq)
	}
	m.session.RecordAnswer(f.slot, value)
	return m, m.answerCmd(f.uniID, f.slot, value, seq)
}

func (m Model) preferFocused() (tea.Model, tea.Cmd) {
	if m.loading || len(m.fields) == 0 {
		return m, nil
	}
	better := m.fields[m.focus].uniID
	worse, ok := m.session.OtherForPrefer(better)
	if !ok {
		return m, nil
	}
	m.notice = ""
	m.loading = true
	seq := m.session.NextRequest()
	return m, m.pairwiseCmd(better, worse, seq)
}

func (m Model) initCmd(studentID, apiKey *string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := m.api.Init(ctx, studentID, apiKey)
		return initDoneMsg{res: res, err: err}
	}
}

func (m Model) commentCmd(uniID, text string, seq uint64) tea.Cmd {
	studentID := m.session.StudentID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := m.api.Comment(ctx, studentID, uniID, text)
		return questionsDoneMsg{uniID: uniID, replace: true, seq: seq, res: res, err: err}
	}
}

func (m Model) answerCmd(uniID, slot, value string, seq uint64) tea.Cmd {
	studentID := m.session.StudentID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := m.api.Answer(ctx, studentID, uniID, slot, value)
		return questionsDoneMsg{uniID: uniID, replace: false, seq: seq, res: res, err: err}
	}
}

func (m Model) pairwiseCmd(betterID, worseID string, seq uint64) tea.Cmd {
	studentID := m.session.StudentID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := m.api.Pairwise(ctx, studentID, betterID, worseID)
		return stateDoneMsg{seq: seq, res: res, err: err}
	}
}

func (m Model) stateCmd() tea.Cmd {
	studentID := m.session.StudentID()
	seq := m.session.NextRequest()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := m.api.State(ctx, studentID)
		return stateDoneMsg{seq: seq, res: res, err: err}
	}
}

func (m Model) rankingCmd() tea.Cmd {
	studentID := m.session.StudentID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := m.api.Ranking(ctx, studentID)
		return rankingDoneMsg{res: res, err: err}
	}
}

func (m Model) View() string {
	if m.phase == phaseSetup {
		return m.viewSetup()
	}
	return m.viewSurvey()
}

func (m Model) viewSetup() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("univia"))
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render("university survey · " + m.api.BaseURL()))
	b.WriteString("\n\n")
	for _, in := range m.setup {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render("enter to start · tab to switch · esc to quit"))
	if m.loading {
		b.WriteString("\n" + m.theme.Notice.Render("starting session..."))
	}
	if m.errText != "" {
		b.WriteString("\n" + m.theme.Error.Render(m.errText))
	}
	return b.String()
}

func (m Model) viewSurvey() string {
	st := m.session.State()

	var b strings.Builder
	b.WriteString(m.theme.Title.Render("univia"))
	b.WriteString("  ")
	b.WriteString(m.theme.Muted.Render("student " + m.session.StudentID()))
	b.WriteString("\n")
	b.WriteString(renderStatusLine(m.theme, st))
	b.WriteString("\n\n")

	if st != nil {
		cards := make([]string, 0, len(st.Triplet))
		for _, uniID := range st.Triplet {
			cards = append(cards, m.renderCard(uniID))
		}
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, cards...))
		b.WriteString("\n")
	}

	if m.showRanking {
		b.WriteString("\n")
		b.WriteString(renderRanking(m.theme, m.ranking, m.rankingStop))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render("enter submit · tab next field · ctrl+p prefer · ctrl+r refresh · ctrl+k ranking · esc quit"))
	if m.loading {
		b.WriteString("\n" + m.theme.Notice.Render("waiting for server..."))
	}
	if m.notice != "" {
		b.WriteString("\n" + m.theme.Notice.Render(m.notice))
	}
	if m.errText != "" {
		b.WriteString("\n" + m.theme.Error.Render(m.errText))
	}
	return b.String()
}

func (m Model) renderCard(uniID string) string {
	st := m.session.State()
	focused := len(m.fields) > 0 && m.fields[m.focus].uniID == uniID

	var b strings.Builder
	b.WriteString(m.theme.CardTitle.Render(uniID))
	b.WriteString("\n")
	b.WriteString(renderScoreBlock(m.theme, st, uniID))
	b.WriteString("\n\n")

	b.WriteString(m.theme.Muted.Render("comment"))
	b.WriteString("\n")
	if in, ok := m.inputs["comment/"+uniID]; ok {
		b.WriteString(in.View())
	}

	questions := m.session.Questions(uniID)
	if len(questions) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.theme.Muted.Render("follow-up questions"))
		for _, q := range questions {
			b.WriteString("\n")
			b.WriteString(m.theme.Subtitle.Render(q.Text))
			b.WriteString("\n")
			key := "answer/" + uniID + "/" + q.Slot
			if in, ok := m.inputs[key]; ok {
				b.WriteString(in.View())
			}
		}
	}

	style := m.theme.Card
	if focused {
		style = m.theme.CardFocused
	}
	width := m.width - 4
	if width > 86 {
		width = 86
	}
	if width > 20 {
		style = style.Width(width)
	}
	return style.Render(b.String())
}
