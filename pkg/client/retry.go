package client

import "context"

// RetryPolicy decides what happens when a request made with the session's
// token comes back INVALID_TOKEN. With RetryAnonymously set the session is
// cleared and the request is sent once more without credentials. There is
// never a third attempt.
type RetryPolicy struct {
	RetryAnonymously bool
}

// DefaultRetryPolicy retries once anonymously
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{RetryAnonymously: true}
}

// Do runs attempt with the session token and applies the policy to the result
func (p RetryPolicy) Do(ctx context.Context, session *Session, attempt func(ctx context.Context, token string) error) error {
	token := session.Token()
	err := attempt(ctx, token)
	if token == "" || !IsInvalidToken(err) {
		return err
	}

	session.Clear()
	if !p.RetryAnonymously {
		return err
	}
	return attempt(ctx, "")
}
