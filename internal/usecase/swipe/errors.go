package usecase_swipe

import "errors"

var (
	ErrNotVoting          = errors.New("session is not accepting votes")
	ErrSubmissionInFlight = errors.New("votes are already being submitted")
	ErrNothingToRetry     = errors.New("no failed submission to retry")
	ErrAlreadyStarted     = errors.New("coordinator already started")
	ErrClosed             = errors.New("coordinator closed")
	ErrNotStarted         = errors.New("coordinator not started")
)
