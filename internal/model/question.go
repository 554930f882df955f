package model

// Question is a single multiple-choice question as delivered by the
// question-fetch service. It is never mutated after the session loads it.
type Question struct {
	ID            int      `json:"question_id"`
	Number        int      `json:"number"`
	Text          string   `json:"question"`
	Comprehension string   `json:"comprehension,omitempty"`
	Image         string   `json:"image,omitempty"`
	Options       []Option `json:"options"`
}

// Option is one selectable answer. Options keep their arrival order.
type Option struct {
	ID   int    `json:"id"`
	Text string `json:"option"`
}

// HasComprehension reports whether the question carries a passage.
func (q Question) HasComprehension() bool {
	return q.Comprehension != ""
}

// DisplayNumber falls back to the 1-based position when the service did not
// send a number.
func (q Question) DisplayNumber(position int) int {
	if q.Number > 0 {
		return q.Number
	}
	return position + 1
}

// OptionLetter returns the display letter for the option at index i
// (A, B, C...). Past Z it continues with AA, AB and so on.
func OptionLetter(i int) string {
	if i < 0 {
		return ""
	}
	letter := ""
	for n := i; ; n = n/26 - 1 {
		letter = string(rune('A'+n%26)) + letter
		if n < 26 {
			break
		}
	}
	return letter
}

// QuestionForCandidate is the render-ready view of the current question.
type QuestionForCandidate struct {
	Position      int               `json:"position"`
	ID            int               `json:"question_id"`
	Number        int               `json:"number"`
	Text          string            `json:"question"`
	Comprehension string            `json:"comprehension,omitempty"`
	Image         string            `json:"image,omitempty"`
	Options       []OptionForChoice `json:"options"`
}

// OptionForChoice is an option with its derived letter and selection flag.
type OptionForChoice struct {
	ID       int    `json:"id"`
	Letter   string `json:"letter"`
	Text     string `json:"option"`
	Selected bool   `json:"selected"`
}
