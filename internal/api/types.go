package api

// LoginStatus is the response of GET /api/check-login.
type LoginStatus struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
}

// ExploredStatus is the response of GET /api/check-explored.
type ExploredStatus struct {
	Explored bool `json:"explored"`
}

// Explorations is the response of GET /api/get-explorations. City names are
// returned in display form; ordering is not significant.
type Explorations struct {
	Explorations []string `json:"explorations"`
}

// ChatAnswer is the response of POST /api/chat.
type ChatAnswer struct {
	Answer string `json:"answer"`
}

// Question is a single quiz question as served by GET /api/get-questions.
// Options B through D may be empty for questions with fewer choices.
type Question struct {
	ID            int    `json:"id"`
	Question      string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation,omitempty"`
	Score         int    `json:"score"`
}

// Option returns the text of the option with the given letter (A-D), or ""
// if that letter has no option.
func (q Question) Option(letter string) string {
	switch letter {
	case "A":
		return q.OptionA
	case "B":
		return q.OptionB
	case "C":
		return q.OptionC
	case "D":
		return q.OptionD
	}
	return ""
}

// Letters returns the option letters the question actually carries, in order.
func (q Question) Letters() []string {
	var out []string
	for _, l := range []string{"A", "B", "C", "D"} {
		if q.Option(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// QuestionSet is the response of GET /api/get-questions.
type QuestionSet struct {
	Questions []Question `json:"questions"`
}

// FormResult is the common {success, error} response of the mutation
// endpoints (mark-explored, upload-avatar, change-password, delete-account,
// login, register).
type FormResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
