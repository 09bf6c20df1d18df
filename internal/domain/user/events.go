package user

import "time"

// SignedUp is raised on registration; the outbox forwards it to the mail
// dispatcher that sends the verification link.
type SignedUp struct {
	UserID    ID        `json:"user_id"`
	Email     string    `json:"email"`
	VerifyURL string    `json:"verify_url"`
	At        time.Time `json:"at"`
}

func (e SignedUp) EventName() string     { return "user.signed_up" }
func (e SignedUp) AggregateID() string   { return string(e.UserID) }
func (e SignedUp) OccurredAt() time.Time { return e.At }
