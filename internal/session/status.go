package session

import "github.com/stemsi/exstem-candidate/internal/model"

// The transition functions below are pure: they take the current status of a
// single position and return the next one.

// afterSelect is applied when the candidate picks an option.
func afterSelect(current model.Status) model.Status {
	if current.IsMarked() {
		return model.StatusAnsweredReview
	}
	return model.StatusAnswered
}

// afterMark is applied when the candidate flags the question for review.
func afterMark(hasAnswer bool) model.Status {
	if hasAnswer {
		return model.StatusAnsweredReview
	}
	return model.StatusReview
}

// afterLeave is applied to the position being navigated away from.
func afterLeave(current model.Status, hasAnswer bool) model.Status {
	switch current {
	case model.StatusReview:
		if hasAnswer {
			return model.StatusAnsweredReview
		}
		return model.StatusReview
	case model.StatusAnsweredReview:
		return current
	}
	if hasAnswer {
		return model.StatusAnswered
	}
	return model.StatusNotAnswered
}

// afterArrive is applied to the position being navigated to.
func afterArrive(current model.Status) model.Status {
	if current == "" || current == model.StatusNotVisited {
		return model.StatusNotAnswered
	}
	return current
}
