package upstream

import (
	"fmt"
	"time"

	"phoenix-web/internal/domain/user"
)

// payload is the wire form of a user inside the Phoenix data envelope.
// The id carries omitempty so the 0 sentinel of a not-yet-created record
// is never serialized as a real identifier.
type payload struct {
	ID        int64  `json:"id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	Birthdate string `json:"birthdate"`
}

// payloadFrom converts a domain record into its wire form, formatting the
// birthdate as YYYY-MM-DD.
func payloadFrom(u user.User) payload {
	return payload{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Gender:    u.Gender,
		Birthdate: u.BirthdateString(),
	}
}

// toDomain converts a wire payload into a domain record. It fails when the
// birthdate is not a parseable calendar date.
func (p payload) toDomain() (user.User, error) {
	birthdate, err := time.Parse("2006-01-02", p.Birthdate)
	if err != nil {
		return user.User{}, fmt.Errorf("invalid birthdate %q: %w", p.Birthdate, err)
	}

	return user.User{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Gender:    p.Gender,
		Birthdate: birthdate,
	}, nil
}
