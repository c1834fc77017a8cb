package trackman

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/golf-catalog/internal/platform/logging"
	"github.com/riskibarqy/golf-catalog/internal/platform/resilience"
	"github.com/riskibarqy/golf-catalog/internal/usecase"
	"github.com/stretchr/testify/require"
)

const coursesPayload = `{
  "data": {
    "courses": {
      "items": [
        {
          "id": "tm-1",
          "dbId": "42",
          "createdAt": "2024-05-01T08:30:00Z",
          "displayName": " Pine Valley ",
          "numbersOfHoles": 18,
          "worldLocation": {"googleMapUrl": "https://maps.example/pv", "latitude": 39.787, "longitude": -74.977},
          "courseLocation": "NJ",
          "tags": ["links", "private"],
          "holes": [
            {"name": "1", "tees": [{"distance": 421, "strokeIndex": 5, "par": 4}], "images": [{"url": "https://img.example/1.png"}, {"url": null}]}
          ],
          "difficulty": 4.5,
          "tees": [{"par": 70, "courseDistance": 7181, "courseRating": 74.1, "slope": 155, "gender": "Male", "kind": "Championship", "name": "Black"}],
          "image": {"url": "https://img.example/pv.png"},
          "video": null
        }
      ]
    }
  }
}`

func newTestClient(serverURL string, retries int) *Client {
	return NewClient(ClientConfig{
		GraphQLURL:   serverURL,
		MaxRetries:   retries,
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})
}

func TestClient_FetchCourseList_MapsCourses(t *testing.T) {
	t.Parallel()

	var gotRequest graphQLRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := sonic.Unmarshal(raw, &gotRequest); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(coursesPayload))
	}))
	defer server.Close()

	courses, err := newTestClient(server.URL, 0).FetchCourseList(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, courses, 1)

	require.Contains(t, gotRequest.Query, "getCoursesList")
	require.EqualValues(t, 8000, gotRequest.Variables["take"])
	require.EqualValues(t, 0, gotRequest.Variables["skip"])

	got := courses[0]
	require.Equal(t, "tm-1", got.ExternalID)
	require.Equal(t, "42", got.RefDBID)
	require.Equal(t, "Pine Valley", got.DisplayName)
	require.Equal(t, "NJ", got.Location)
	require.Equal(t, 18, *got.HoleCount)
	require.NotNil(t, got.CreatedAt)
	require.Equal(t, time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC), *got.CreatedAt)
	require.NotNil(t, got.WorldLocation)
	require.InDelta(t, 39.787, *got.WorldLocation.Latitude, 1e-9)
	require.Equal(t, "https://maps.example/pv", got.WorldLocation.GoogleMapURL)
	require.Equal(t, []string{"links", "private"}, got.Tags)
	require.Equal(t, "https://img.example/pv.png", got.ImageURL)
	require.Empty(t, got.VideoURL)
	require.Len(t, got.Holes, 1)
	require.Equal(t, []string{"https://img.example/1.png"}, got.Holes[0].ImageURLs)
	require.Equal(t, 5, *got.Holes[0].Tees[0].StrokeIndex)
	require.Len(t, got.Tees, 1)
	require.Equal(t, "Black", got.Tees[0].Name)
	require.InDelta(t, 7181, *got.Tees[0].CourseDistance, 1e-9)
}

func TestClient_FetchCourseList_JoinsGraphQLErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"take too large"},{"message":"rate limited"}]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 0).FetchCourseList(context.Background(), 0, 10)
	require.Error(t, err)
	require.Contains(t, err.Error(), "take too large; rate limited")
}

func TestJoinGraphQLErrors_BlankMessages(t *testing.T) {
	t.Parallel()

	if got := joinGraphQLErrors([]graphQLError{{Message: " "}}); got != "graphql errors" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestClient_FetchCourseList_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream hiccup"))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"courses":{"items":[]}}}`))
	}))
	defer server.Close()

	courses, err := newTestClient(server.URL, 2).FetchCourseList(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Empty(t, courses)
	require.EqualValues(t, 2, calls.Load())
}

func TestClient_FetchCourseList_DoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(strings.Repeat("x", 400)))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 3).FetchCourseList(context.Background(), 0, 10)
	require.Error(t, err)
	require.Contains(t, err.Error(), "trackman status=400")
	require.True(t, strings.HasSuffix(err.Error(), "..."), "long bodies must be abbreviated")
	require.EqualValues(t, 1, calls.Load())
}

func TestClient_FetchCourseList_OpensCircuitAfterTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)
	for i := 0; i < 2; i++ {
		_, err := client.FetchCourseList(context.Background(), 0, 10)
		require.Error(t, err)
		require.True(t, isTrackmanCircuitFailure(err))
	}

	_, err := client.FetchCourseList(context.Background(), 0, 10)
	require.True(t, errors.Is(err, usecase.ErrDependencyUnavailable), "expected open circuit, got %v", err)
	require.EqualValues(t, 2, calls.Load())
}

func TestClient_FetchCourseList_KeepsMalformedItemForSkipping(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"courses":{"items":[
			{"id":"tm-1","displayName":"Pine Valley","courseLocation":"NJ"},
			{"id":"tm-2","displayName":"Broken Links","courseLocation":"Fife","tees":"oops"},
			{"id":"tm-3","displayName":"Augusta","courseLocation":"GA"}
		]}}}`))
	}))
	defer server.Close()

	courses, err := newTestClient(server.URL, 0).FetchCourseList(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, courses, 3)

	require.NoError(t, courses[0].DecodeErr)
	require.NoError(t, courses[2].DecodeErr)
	require.Equal(t, "Augusta", courses[2].DisplayName)

	broken := courses[1]
	require.Error(t, broken.DecodeErr)
	require.Contains(t, broken.DecodeErr.Error(), "decode course item 1")
	require.Equal(t, "tm-2", broken.ExternalID)
	require.Equal(t, "Broken Links", broken.DisplayName)
	require.Equal(t, "Fife", broken.Location)
}

func TestClient_FetchCourseList_RejectsOversizedResponse(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data":{"courses":{"items":[{"id":"tm-1","displayName":"Pine Valley"}]}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2)
	client.responseLimit = 32

	_, err := client.FetchCourseList(context.Background(), 0, 10)
	require.Error(t, err)
	require.True(t, errors.Is(err, errResponseTooLarge), "unexpected error %v", err)
	require.Contains(t, err.Error(), "exceeds 32 bytes")
	require.EqualValues(t, 1, calls.Load())
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	if got := parseTimestamp(""); got != nil {
		t.Fatalf("expected nil for empty timestamp")
	}
	if got := parseTimestamp("not-a-date"); got != nil {
		t.Fatalf("expected nil for invalid timestamp")
	}
	got := parseTimestamp("2023-02-03")
	if got == nil || got.Year() != 2023 || got.Month() != time.February || got.Day() != 3 {
		t.Fatalf("unexpected parsed date: %v", got)
	}
}
