// Package quiz implements the interactive Q&A session: a linear walk over a
// fixed question set with two modes. Practice reveals the answer as soon as
// an option is chosen; exam defers feedback until the answer has been
// submitted to the backend and runs under a countdown that force-finishes
// the session when it expires.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/minpaixinyu/minpai/internal/api"
)

// Mode selects the session behavior.
type Mode string

const (
	ModePractice Mode = "practice"
	ModeExam     Mode = "exam"
)

// DefaultExamDuration matches the original 15-minute exam budget.
const DefaultExamDuration = 15 * time.Minute

// ErrFinished is returned by mutating operations after the session reached
// its results.
var ErrFinished = errors.New("quiz session already finished")

// Feedback is what the session reveals about the current question after a
// practice selection or an exam submission.
type Feedback struct {
	Correct       bool
	CorrectAnswer string // letter
	CorrectText   string
	Explanation   string
}

// Result is the session summary. It is computed purely from the local answer
// map and the immutable question set; exam submissions persist answers
// server-side but never feed the displayed score.
type Result struct {
	TotalScore   int
	CorrectCount int
	Accuracy     int // round(100 * correct / total)
	Total        int
	Answered     int
	SubmittedAll bool // every answered question was also submitted (exam)
}

// Session is one quiz run. All state is confined behind the mutex; the only
// background mutation is the exam timer forcing Finish on expiry.
type Session struct {
	ID   string
	mode Mode

	mu        sync.Mutex
	questions []api.Question
	answers   map[int]string
	submitted map[int]bool
	index     int
	deadline  time.Time
	timer     *time.Timer
	finished  bool
	result    Result

	// onExpire is invoked (outside the lock) when the exam timer forces the
	// finish, so the UI can leave the answering view.
	onExpire func(Result)
}

// Start fetches the question set and opens a session. An empty bank or a
// fetch failure means the session never starts.
func Start(ctx context.Context, client *api.Client, mode Mode, examDuration time.Duration, onExpire func(Result)) (*Session, error) {
	if mode != ModePractice && mode != ModeExam {
		return nil, fmt.Errorf("unknown quiz mode %q", mode)
	}

	questions, err := client.GetQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading questions: %w", err)
	}

	s := &Session{
		ID:        uuid.New().String(),
		mode:      mode,
		questions: questions,
		answers:   make(map[int]string),
		submitted: make(map[int]bool),
		onExpire:  onExpire,
	}

	if mode == ModeExam {
		if examDuration <= 0 {
			examDuration = DefaultExamDuration
		}
		s.deadline = time.Now().Add(examDuration)
		s.timer = time.AfterFunc(examDuration, s.expire)
	}

	return s, nil
}

// Mode returns the session mode.
func (s *Session) Mode() Mode { return s.mode }

// Len returns the number of questions.
func (s *Session) Len() int { return len(s.questions) }

// Index returns the current question index.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Current returns the question at the current index.
func (s *Session) Current() api.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions[s.index]
}

// Answer returns the recorded choice for question i, if any.
func (s *Session) Answer(i int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	letter, ok := s.answers[i]
	return letter, ok
}

// Select records the choice for the current question, overwriting any prior
// choice for that index. In practice mode the feedback is revealed
// immediately; in exam mode selection alone reveals nothing.
func (s *Session) Select(letter string) (*Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return nil, ErrFinished
	}

	q := s.questions[s.index]
	if q.Option(letter) == "" {
		return nil, fmt.Errorf("question %d has no option %q", q.ID, letter)
	}
	s.answers[s.index] = letter

	if s.mode == ModePractice {
		fb := s.feedbackLocked(s.index)
		return &fb, nil
	}
	return nil, nil
}

// Submit sends the current answer to the backend and, only then, reveals the
// feedback for that question. Exam mode only; the current question must have
// a recorded choice. A failed submission reveals nothing.
func (s *Session) Submit(ctx context.Context, client *api.Client) (*Feedback, error) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return nil, ErrFinished
	}
	if s.mode != ModeExam {
		s.mu.Unlock()
		return nil, errors.New("submit is an exam-mode action")
	}
	idx := s.index
	q := s.questions[idx]
	letter, ok := s.answers[idx]
	s.mu.Unlock()

	if !ok {
		return nil, errors.New("no answer selected")
	}

	// Network call outside the lock; the timer may expire meanwhile and the
	// session re-checks finished before revealing.
	if err := client.SubmitAnswer(ctx, q.ID, letter); err != nil {
		return nil, fmt.Errorf("submitting answer: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return nil, ErrFinished
	}
	s.submitted[idx] = true
	fb := s.feedbackLocked(idx)
	return &fb, nil
}

// Next advances to the following question. Clamped, no wraparound; any shown
// feedback is stale after this returns true.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished || s.index >= len(s.questions)-1 {
		return false
	}
	s.index++
	return true
}

// Prev steps back one question. Clamped at zero.
func (s *Session) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished || s.index == 0 {
		return false
	}
	s.index--
	return true
}

// OnLast reports whether the current question is the final one.
func (s *Session) OnLast() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index == len(s.questions)-1
}

// Remaining returns the time left on the exam clock, zero for practice mode
// or an elapsed exam.
func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeExam || s.finished {
		return 0
	}
	d := time.Until(s.deadline)
	if d < 0 {
		return 0
	}
	return d
}

// Finish stops the clock and computes the summary. Unanswered questions
// count as incorrect and score zero. Idempotent: a second call returns the
// same Result.
func (s *Session) Finish() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishLocked()
}

// Finished reports whether the session has reached its results.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// CorrectSoFar counts correctly answered questions, for the live header.
func (s *Session) CorrectSoFar() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i, letter := range s.answers {
		if letter == s.questions[i].CorrectAnswer {
			n++
		}
	}
	return n
}

// Stop discards the session without producing a result, for a restart or
// navigation away. The exam timer is released and will not fire.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *Session) expire() {
	s.mu.Lock()
	already := s.finished
	res := s.finishLocked()
	cb := s.onExpire
	s.mu.Unlock()

	if !already && cb != nil {
		cb(res)
	}
}

func (s *Session) finishLocked() Result {
	if s.finished {
		return s.result
	}
	s.finished = true
	if s.timer != nil {
		s.timer.Stop()
	}

	var res Result
	res.Total = len(s.questions)
	res.Answered = len(s.answers)
	res.SubmittedAll = s.mode != ModeExam || len(s.submitted) == len(s.answers)
	for i, letter := range s.answers {
		if letter == s.questions[i].CorrectAnswer {
			res.CorrectCount++
			res.TotalScore += s.questions[i].Score
		}
	}
	res.Accuracy = int(math.Round(float64(res.CorrectCount) / float64(res.Total) * 100))
	s.result = res
	return res
}

// feedbackLocked builds the reveal for question i against the recorded
// answer. Callers hold the mutex.
func (s *Session) feedbackLocked(i int) Feedback {
	q := s.questions[i]
	return Feedback{
		Correct:       s.answers[i] == q.CorrectAnswer,
		CorrectAnswer: q.CorrectAnswer,
		CorrectText:   q.Option(q.CorrectAnswer),
		Explanation:   q.Explanation,
	}
}
