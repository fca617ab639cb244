package user

import "time"

// Gender values accepted by the Phoenix API.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// User represents a user record owned by the upstream Phoenix API.
// Records are immutable once constructed: an update builds a new value,
// submits it, and receives a new record back.
type User struct {
	ID        int64     // ID is assigned by the upstream service; 0 means "not yet assigned"
	FirstName string    // FirstName is the user's first name
	LastName  string    // LastName is the user's last name
	Gender    string    // Gender is one of GenderMale or GenderFemale
	Birthdate time.Time // Birthdate carries date precision only
}

// BirthdateString returns the birthdate in the YYYY-MM-DD wire representation.
func (u User) BirthdateString() string {
	return u.Birthdate.Format("2006-01-02")
}
