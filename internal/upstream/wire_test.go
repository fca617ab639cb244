package upstream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phoenix-web/internal/domain/user"
)

func TestWireRoundTrip(t *testing.T) {
	record := user.User{
		ID:        42,
		FirstName: "JAN",
		LastName:  "KOWALSKI",
		Gender:    user.GenderMale,
		Birthdate: time.Date(1985, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	p := payloadFrom(record)
	assert.Equal(t, "1985-03-15", p.Birthdate)

	back, err := p.toDomain()
	require.NoError(t, err)
	assert.Equal(t, record, back)
}

func TestToDomainRejectsBadBirthdate(t *testing.T) {
	for _, raw := range []string{"", "not-a-date", "1985-13-45", "15-03-1985"} {
		p := payload{ID: 1, FirstName: "JAN", LastName: "KOWALSKI", Gender: "male", Birthdate: raw}
		_, err := p.toDomain()
		assert.Error(t, err, "birthdate=%q", raw)
	}
}
