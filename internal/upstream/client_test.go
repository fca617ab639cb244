package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"phoenix-web/internal/config"
	"phoenix-web/internal/domain/user"
	"phoenix-web/pkg/errors"
)

func newTestClient(t *testing.T, ts *httptest.Server) *Client {
	t.Helper()

	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return NewClient(config.PhoenixConfig{Host: host, Port: port}, zaptest.NewLogger(t))
}

func TestGetUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/users/23", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":{"id":23,"first_name":"IRYNA","last_name":"BORKOWSKA","gender":"female","birthdate":"2020-09-13"}}`))
		}))
		defer ts.Close()

		u, err := newTestClient(t, ts).GetUser(context.Background(), 23)
		require.NoError(t, err)
		assert.Equal(t, int64(23), u.ID)
		assert.Equal(t, "IRYNA", u.FirstName)
		assert.Equal(t, "BORKOWSKA", u.LastName)
		assert.Equal(t, "female", u.Gender)
		assert.Equal(t, "2020-09-13", u.BirthdateString())
	})

	t.Run("Non200Status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		_, err := newTestClient(t, ts).GetUser(context.Background(), 1)
		require.Error(t, err)
		assert.EqualError(t, err, "API returned status code: 404")

		var statusErr *errors.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.Code)
	})

	t.Run("EmptyData", func(t *testing.T) {
		for _, body := range []string{`{"data":null}`, `{"data":{}}`, `{}`, `{"data":{ }}`, `{"data": [ ] }`} {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			}))

			_, err := newTestClient(t, ts).GetUser(context.Background(), 1)
			require.Error(t, err, "body=%s", body)
			assert.EqualError(t, err, "User with ID 1 not found")

			var notFound *errors.NotFoundError
			assert.ErrorAs(t, err, &notFound)

			ts.Close()
		}
	})

	t.Run("TransportError", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		ts.Close() // refuse connections

		_, err := newTestClient(t, ts).GetUser(context.Background(), 1)
		require.Error(t, err)

		var transportErr *errors.TransportError
		assert.ErrorAs(t, err, &transportErr)
	})
}

func TestListUsers(t *testing.T) {
	t.Run("NoFiltersMeansNoQueryString", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users", r.URL.Path)
			assert.Empty(t, r.URL.RawQuery)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":[{"id":1,"first_name":"JAN","last_name":"KOWALSKI","gender":"male","birthdate":"1985-03-15"}]}`))
		}))
		defer ts.Close()

		users, err := newTestClient(t, ts).ListUsers(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, int64(1), users[0].ID)
		assert.Equal(t, "JAN", users[0].FirstName)
		assert.Equal(t, "KOWALSKI", users[0].LastName)
		assert.Equal(t, "male", users[0].Gender)
		assert.Equal(t, "1985-03-15", users[0].BirthdateString())
	})

	t.Run("RecognizedFiltersForwarded", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "first_name", q.Get("sort"))
			assert.Equal(t, "desc", q.Get("order"))
			assert.Equal(t, "JOHN", q.Get("first_name"))
			assert.Equal(t, "male", q.Get("gender"))
			assert.Len(t, q, 4)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":[]}`))
		}))
		defer ts.Close()

		users, err := newTestClient(t, ts).ListUsers(context.Background(), map[string]string{
			"first_name": "JOHN",
			"gender":     "male",
			"sort":       "first_name",
			"order":      "desc",
		})
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("UnrecognizedAndEmptyFiltersDropped", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "first_name=JOHN", r.URL.RawQuery)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":[]}`))
		}))
		defer ts.Close()

		_, err := newTestClient(t, ts).ListUsers(context.Background(), map[string]string{
			"first_name":    "JOHN",
			"last_name":     "",
			"invalid_param": "value",
			"page":          "2",
		})
		require.NoError(t, err)
	})

	t.Run("MissingOrNullDataIsFormatError", func(t *testing.T) {
		// a null data field must not pass as an empty list
		for _, body := range []string{`{"users":[]}`, `{"data":null}`} {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			}))

			users, err := newTestClient(t, ts).ListUsers(context.Background(), nil)
			require.Error(t, err, "body=%s", body)
			assert.Nil(t, users, "body=%s", body)
			assert.EqualError(t, err, "Invalid response format from API")

			var formatErr *errors.FormatError
			assert.ErrorAs(t, err, &formatErr)

			ts.Close()
		}
	})

	t.Run("NonArrayDataIsFormatError", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":"not_an_array"}`))
		}))
		defer ts.Close()

		_, err := newTestClient(t, ts).ListUsers(context.Background(), nil)
		require.Error(t, err)
		assert.EqualError(t, err, "Invalid response format from API")
	})

	t.Run("ServerError", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ts.Close()

		_, err := newTestClient(t, ts).ListUsers(context.Background(), nil)
		require.Error(t, err)
		assert.EqualError(t, err, "API returned status code: 500")
	})

	t.Run("MalformedElementAbortsWholeCall", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":[
				{"id":1,"first_name":"JAN","last_name":"KOWALSKI","gender":"male","birthdate":"1985-03-15"},
				{"id":2,"first_name":"EWA","last_name":"NOWAK","gender":"female","birthdate":"never"}
			]}`))
		}))
		defer ts.Close()

		users, err := newTestClient(t, ts).ListUsers(context.Background(), nil)
		require.Error(t, err)
		assert.Nil(t, users)
		assert.Contains(t, err.Error(), "invalid birthdate")
	})
}

func TestBuildQueryIdempotent(t *testing.T) {
	filters := map[string]string{
		"first_name":     "John",
		"last_name":      "Doe",
		"gender":         "male",
		"birthdate_from": "1990-01-01",
		"birthdate_to":   "2000-12-31",
		"sort":           "first_name",
		"order":          "desc",
	}

	first := buildQuery(filters)
	parsed, err := url.ParseQuery(first)
	require.NoError(t, err)

	again := make(map[string]string, len(parsed))
	for k := range parsed {
		again[k] = parsed.Get(k)
	}

	assert.Equal(t, first, buildQuery(again))
}

func TestCreate(t *testing.T) {
	t.Run("DropsSentinelID", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/users", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)

			var sent map[string]any
			require.NoError(t, json.Unmarshal(body, &sent))
			assert.NotContains(t, sent, "id")
			assert.Equal(t, "JAN", sent["first_name"])
			assert.Equal(t, "1985-03-15", sent["birthdate"])

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"data":{"id":101,"first_name":"JAN","last_name":"KOWALSKI","gender":"male","birthdate":"1985-03-15"}}`))
		}))
		defer ts.Close()

		record := user.User{
			FirstName: "JAN",
			LastName:  "KOWALSKI",
			Gender:    user.GenderMale,
			Birthdate: time.Date(1985, 3, 15, 0, 0, 0, 0, time.UTC),
		}

		created, err := newTestClient(t, ts).Create(context.Background(), record)
		require.NoError(t, err)
		assert.Equal(t, int64(101), created.ID)
	})

	t.Run("ValidationRejected", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"errors":{"first_name":["can't be blank"]}}`))
		}))
		defer ts.Close()

		_, err := newTestClient(t, ts).Create(context.Background(), user.User{})
		require.Error(t, err)
		assert.EqualError(t, err, "API returned status code: 422")
	})
}

func TestUpdate(t *testing.T) {
	t.Run("SendsFullRecordWithID", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/users/1", r.URL.Path)

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)

			var sent map[string]any
			require.NoError(t, json.Unmarshal(body, &sent))
			assert.Equal(t, float64(1), sent["id"])
			assert.Equal(t, "JANE", sent["first_name"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":{"id":1,"first_name":"JANE","last_name":"SMITH","gender":"female","birthdate":"1995-05-15"}}`))
		}))
		defer ts.Close()

		record := user.User{
			ID:        1,
			FirstName: "JANE",
			LastName:  "SMITH",
			Gender:    user.GenderFemale,
			Birthdate: time.Date(1995, 5, 15, 0, 0, 0, 0, time.UTC),
		}

		updated, err := newTestClient(t, ts).Update(context.Background(), record)
		require.NoError(t, err)
		assert.Equal(t, record, updated)
	})

	t.Run("NotFoundStatus", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		record := user.User{ID: 999, Birthdate: time.Date(1995, 5, 15, 0, 0, 0, 0, time.UTC)}
		_, err := newTestClient(t, ts).Update(context.Background(), record)
		require.Error(t, err)
		assert.EqualError(t, err, "API returned status code: 404")
	})
}

func TestDelete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/users/7", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer ts.Close()

		assert.NoError(t, newTestClient(t, ts).Delete(context.Background(), 7))
	})

	t.Run("UpstreamFailure", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ts.Close()

		err := newTestClient(t, ts).Delete(context.Background(), 7)
		require.Error(t, err)
		assert.EqualError(t, err, "API returned status code: 500")
	})
}
