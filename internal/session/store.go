package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-candidate/internal/model"
)

// eventBuffer is the per-subscriber queue size. Slow subscribers lose events
// rather than stall a mutation.
const eventBuffer = 64

// Store holds the authoritative in-memory state of one exam session.
// Every exported method is atomic with respect to every other.
type Store struct {
	mu  sync.Mutex
	log zerolog.Logger

	id         uuid.UUID
	active     bool
	phase      model.Phase
	fetchError string

	questions []model.Question
	meta      model.Meta
	answers   []*int
	statuses  []model.Status
	current   int
	remaining *int

	showComprehension bool
	showSubmitModal   bool
	submission        model.SubmissionState
	submitError       string

	subs   map[int]chan model.SessionEvent
	nextID int
}

// NewStore creates an empty store. It holds no session until Initialize.
func NewStore(log zerolog.Logger) *Store {
	return &Store{
		log:        log.With().Str("component", "session_store").Logger(),
		phase:      model.PhaseClosed,
		submission: model.SubmissionIdle,
		subs:       make(map[int]chan model.SessionEvent),
	}
}

// ─── Lifecycle ──────────────────────────────────────────────────────

// SetLoading marks the session as waiting for the question set.
func (s *Store) SetLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = model.PhaseLoading
	s.fetchError = ""
}

// SetFetchError records a failed question fetch. Previous session data is
// discarded; the candidate has to reload.
func (s *Store) SetFetchError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.phase = model.PhaseFetchFailed
	s.fetchError = msg
}

// Initialize loads a new question set and resets all session state. An empty
// set leaves the store in the EMPTY phase and returns ErrEmptyQuestionSet.
func (s *Store) Initialize(questions []model.Question, meta model.Meta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	s.id = uuid.New()
	s.meta = meta

	if len(questions) == 0 {
		s.phase = model.PhaseEmpty
		return model.ErrEmptyQuestionSet
	}

	s.questions = make([]model.Question, len(questions))
	copy(s.questions, questions)

	s.answers = make([]*int, len(questions))
	s.statuses = make([]model.Status, len(questions))
	for i := range s.statuses {
		s.statuses[i] = model.StatusNotVisited
	}
	s.statuses[0] = model.StatusNotAnswered

	if meta.TotalTime > 0 {
		secs := meta.TotalTime * 60
		s.remaining = &secs
	}

	s.active = true
	s.phase = model.PhaseReady

	s.log.Info().
		Str("session_id", s.id.String()).
		Int("questions", len(questions)).
		Int("total_time_min", meta.TotalTime).
		Msg("Session initialized")

	s.emitLocked(model.EventInitialized, "")
	return nil
}

// Close tears the session down. Results that arrive later are discarded.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.emitLocked(model.EventClosed, "")
	s.log.Info().Str("session_id", s.id.String()).Msg("Session closed")
	s.resetLocked()
}

func (s *Store) resetLocked() {
	s.active = false
	s.phase = model.PhaseClosed
	s.fetchError = ""
	s.questions = nil
	s.meta = model.Meta{}
	s.answers = nil
	s.statuses = nil
	s.current = 0
	s.remaining = nil
	s.showComprehension = false
	s.showSubmitModal = false
	s.submission = model.SubmissionIdle
	s.submitError = ""
}

// ─── Candidate operations ──────────────────────────────────────────

// SelectOption records optionID as the answer for the current position. The
// id is not checked against the question's options. Returns false when no
// session is loaded.
func (s *Store) SelectOption(optionID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return false
	}

	idx := s.current
	id := optionID
	s.answers[idx] = &id
	s.statuses[idx] = afterSelect(s.statuses[idx])

	s.emitLocked(model.EventSelected, "")
	return true
}

// MarkForReview flags the current position.
func (s *Store) MarkForReview() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markLocked()
}

func (s *Store) markLocked() bool {
	if !s.active {
		return false
	}

	idx := s.current
	s.statuses[idx] = afterMark(s.answers[idx] != nil)

	s.emitLocked(model.EventReviewed, "")
	return true
}

// NavigateTo moves to position. Out-of-range positions are ignored and
// reported as false.
func (s *Store) NavigateTo(position int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigateLocked(position)
}

func (s *Store) navigateLocked(position int) bool {
	if !s.active || position < 0 || position >= len(s.questions) {
		return false
	}

	from := s.current
	s.statuses[from] = afterLeave(s.statuses[from], s.answers[from] != nil)
	s.statuses[position] = afterArrive(s.statuses[position])
	s.current = position
	s.showComprehension = false

	s.emitLocked(model.EventNavigated, "")
	return true
}

// Tick decrements a bounded, positive remaining time by one second. It
// returns true while the countdown still has time left afterwards.
func (s *Store) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.remaining == nil || *s.remaining <= 0 {
		return false
	}

	next := *s.remaining - 1
	s.remaining = &next
	s.emitLocked(model.EventTick, "")

	if next == 0 {
		s.log.Info().Str("session_id", s.id.String()).Msg("Time is up")
		s.emitLocked(model.EventExpired, "")
		return false
	}
	return true
}

// TimerBounded reports whether there is a finite, positive time left.
func (s *Store) TimerBounded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining != nil && *s.remaining > 0
}

// ShowComprehension toggles the passage panel. Opening is ignored when the
// current question has no passage.
func (s *Store) ShowComprehension(show bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return false
	}
	if show && !s.questions[s.current].HasComprehension() {
		return false
	}
	s.showComprehension = show
	s.emitLocked(model.EventPanelChanged, "")
	return true
}

// OpenSubmitModal opens the submit confirmation.
func (s *Store) OpenSubmitModal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openSubmitModalLocked()
}

func (s *Store) openSubmitModalLocked() bool {
	if !s.active {
		return false
	}
	s.showSubmitModal = true
	s.emitLocked(model.EventPanelChanged, "")
	return true
}

// CloseSubmitModal closes the confirmation. It is refused while a submission
// is outstanding.
func (s *Store) CloseSubmitModal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.submission == model.SubmissionSubmitting {
		return false
	}
	s.showSubmitModal = false
	s.emitLocked(model.EventPanelChanged, "")
	return true
}

// ─── Submission support ────────────────────────────────────────────

// BeginSubmit moves the session to SUBMITTING and returns the answer
// snapshot taken in the same critical section.
func (s *Store) BeginSubmit() (uuid.UUID, []model.AnswerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return uuid.Nil, nil, model.ErrNoActiveSession
	}
	if s.submission == model.SubmissionSubmitting {
		return uuid.Nil, nil, model.ErrSubmissionInProgress
	}

	s.submission = model.SubmissionSubmitting
	s.submitError = ""
	snapshot := s.snapshotLocked()

	s.emitLocked(model.EventSubmitStarted, "")
	return s.id, snapshot, nil
}

// FailSubmit records a failed submission for session id. Answers and
// statuses are left as they are so the candidate can retry.
func (s *Store) FailSubmit(id uuid.UUID, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.id != id {
		return model.ErrSessionClosed
	}
	s.submission = model.SubmissionFailed
	s.submitError = msg
	s.emitLocked(model.EventSubmitFailed, msg)
	return nil
}

// SucceedSubmit records a successful submission for session id, closes the
// confirmation and returns the meta and loaded question count for the
// results handoff.
func (s *Store) SucceedSubmit(id uuid.UUID) (model.Meta, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.id != id {
		return model.Meta{}, 0, model.ErrSessionClosed
	}
	s.submission = model.SubmissionSuccess
	s.submitError = ""
	s.showSubmitModal = false
	s.emitLocked(model.EventSubmitSucceeded, "")
	return s.meta, len(s.questions), nil
}

// Snapshot returns the ordered (question, selected option) pairs.
func (s *Store) Snapshot() []model.AnswerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []model.AnswerEntry {
	out := make([]model.AnswerEntry, len(s.questions))
	for i, q := range s.questions {
		out[i] = model.AnswerEntry{QuestionID: q.ID, SelectedOptionID: copyInt(s.answers[i])}
	}
	return out
}

// ─── Read side ─────────────────────────────────────────────────────

// ID returns the identifier of the loaded session, or uuid.Nil.
func (s *Store) ID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return uuid.Nil
	}
	return s.id
}

// Active reports whether a question set is loaded.
func (s *Store) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// CurrentPosition returns the current position and the question count.
func (s *Store) CurrentPosition() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, len(s.questions)
}

// Stats counts statuses for the submit confirmation.
func (s *Store) Stats() model.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked()
}

func (s *Store) statsLocked() model.Stats {
	st := model.Stats{Total: s.meta.TotalQuestions(len(s.questions))}
	for _, status := range s.statuses {
		if status.IsAnswered() {
			st.Answered++
		}
		if status.IsMarked() {
			st.Marked++
		}
		switch status {
		case model.StatusNotAnswered, model.StatusReview:
			st.NotAnswered++
		case model.StatusNotVisited:
			st.NotVisited++
		}
	}
	return st
}

// State returns a copy of the whole session suitable for rendering.
func (s *Store) State() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := model.SessionState{
		SessionID:         s.id,
		Phase:             s.phase,
		FetchError:        s.fetchError,
		Meta:              s.meta,
		CurrentPosition:   s.current,
		Statuses:          make([]model.Status, len(s.statuses)),
		Answers:           make([]*int, len(s.answers)),
		RemainingSeconds:  copyInt(s.remaining),
		RemainingDisplay:  FormatRemaining(s.remaining),
		ShowComprehension: s.showComprehension,
		ShowSubmitModal:   s.showSubmitModal,
		Submission:        s.submission,
		SubmitError:       s.submitError,
		Stats:             s.statsLocked(),
	}
	if !s.active {
		st.SessionID = uuid.Nil
	}
	copy(st.Statuses, s.statuses)
	for i, a := range s.answers {
		st.Answers[i] = copyInt(a)
	}

	if s.active {
		st.IsFirst = s.current == 0
		st.IsLast = s.current == len(s.questions)-1
		st.Current = s.viewLocked(s.current)
	}
	return st
}

func (s *Store) viewLocked(position int) *model.QuestionForCandidate {
	q := s.questions[position]
	text := q.Text
	if text == "" {
		text = fmt.Sprintf("Question %d", position+1)
	}

	view := &model.QuestionForCandidate{
		Position:      position,
		ID:            q.ID,
		Number:        q.DisplayNumber(position),
		Text:          text,
		Comprehension: q.Comprehension,
		Image:         q.Image,
		Options:       make([]model.OptionForChoice, len(q.Options)),
	}
	answer := s.answers[position]
	for i, opt := range q.Options {
		view.Options[i] = model.OptionForChoice{
			ID:       opt.ID,
			Letter:   model.OptionLetter(i),
			Text:     opt.Text,
			Selected: answer != nil && *answer == opt.ID,
		}
	}
	return view
}

// FormatRemaining renders seconds as MM:SS. Unbounded time renders as 00:00.
func FormatRemaining(secs *int) string {
	if secs == nil || *secs < 0 {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", *secs/60, *secs%60)
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ─── Observers ─────────────────────────────────────────────────────

// Subscribe registers an observer of session events. The returned cancel
// func unregisters it and closes the channel.
func (s *Store) Subscribe() (<-chan model.SessionEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan model.SessionEvent, eventBuffer)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Store) emitLocked(typ model.EventType, msg string) {
	if len(s.subs) == 0 {
		return
	}
	ev := model.SessionEvent{
		Type:             typ,
		SessionID:        s.id,
		Position:         s.current,
		RemainingSeconds: copyInt(s.remaining),
		Message:          msg,
	}
	if s.current < len(s.statuses) {
		ev.Status = s.statuses[s.current]
	}
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
