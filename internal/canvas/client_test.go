package canvas

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test_canvas_token"

func TestListCourses(t *testing.T) {
	var gotAuth, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `[{"id":1,"name":"Intro to CS","course_code":"CISC108"},{"id":2,"name":"Data Structures","course_code":"CISC220"}]`)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testToken)
	courses, err := client.ListCourses(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer "+testToken, gotAuth)
	assert.Equal(t, "/api/v1/courses", gotPath)
	require.Len(t, courses, 2)
	assert.Equal(t, int64(1), courses[0].ID)
	assert.Equal(t, "CISC220", courses[1].CourseCode)
}

func TestListCoursesEmptyList(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer ts.Close()

	courses, err := NewClient(ts.URL, testToken).ListCourses(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)
}

func TestListCoursesNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"Invalid access token."}]}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, "bad").ListCourses(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
}

func TestListCoursesBodyNotList(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":1}`)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, testToken).ListCourses(context.Background())
	assert.ErrorIs(t, err, ErrNotList)
}

func TestListCoursesFollowsPagination(t *testing.T) {
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		switch r.URL.Query().Get("page") {
		case "":
			assert.Equal(t, "1", r.URL.Query().Get("per_page"))
			w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/courses?page=2&per_page=1>; rel="next", <%s/api/v1/courses?page=2&per_page=1>; rel="last"`, ts.URL, ts.URL))
			fmt.Fprint(w, `[{"id":1,"name":"A"}]`)
		case "2":
			w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/courses?page=1&per_page=1>; rel="first"`, ts.URL))
			fmt.Fprint(w, `[{"id":2,"name":"B"}]`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer ts.Close()

	courses, err := NewClient(ts.URL, testToken, WithPerPage(1)).ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "B", courses[1].Name)
}

func TestListCoursesAcceptsAnyListShape(t *testing.T) {
	cases := []struct {
		body string
		want int
	}{
		{`[1,2,3]`, 0},
		{`[{"id":"abc"}]`, 0},
		{`[{"id":"abc"},{"id":5,"name":"Kept"}]`, 1},
	}
	for _, tc := range cases {
		t.Run(tc.body, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tc.body)
			}))
			defer ts.Close()

			courses, err := NewClient(ts.URL, testToken).ListCourses(context.Background())
			require.NoError(t, err)
			assert.Len(t, courses, tc.want)
		})
	}
}

func TestListCoursesStopsAtForeignNextLink(t *testing.T) {
	var foreignAuth string
	foreignHit := false
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		foreignHit = true
		foreignAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `[{"id":99}]`)
	}))
	defer foreign.Close()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/courses?page=2>; rel="next"`, foreign.URL))
		fmt.Fprint(w, `[{"id":1,"name":"A"}]`)
	}))
	defer ts.Close()

	courses, err := NewClient(ts.URL, testToken).ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.False(t, foreignHit)
	assert.Empty(t, foreignAuth)
}

func TestSameOrigin(t *testing.T) {
	c := NewClient("https://canvas.test.edu", testToken)
	cur := "https://canvas.test.edu/api/v1/courses"

	got, err := c.sameOrigin(cur, "/api/v1/courses?page=2")
	require.NoError(t, err)
	assert.Equal(t, "https://canvas.test.edu/api/v1/courses?page=2", got)

	got, err = c.sameOrigin(cur, "")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = c.sameOrigin(cur, "https://evil.example/api/v1/courses?page=2")
	assert.Error(t, err)
	_, err = c.sameOrigin(cur, "http://canvas.test.edu/api/v1/courses?page=2")
	assert.Error(t, err)
}

func TestListAssignments(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/courses/42/assignments", r.URL.Path)
		fmt.Fprint(w, `[{"id":7,"course_id":42,"name":"HW1","due_at":"2025-09-01T23:59:00Z","points_possible":10}]`)
	}))
	defer ts.Close()

	as, err := NewClient(ts.URL, testToken).ListAssignments(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, as, 1)
	assert.Equal(t, "HW1", as[0].Name)
	require.NotNil(t, as[0].DueAt)
	assert.Equal(t, 2025, as[0].DueAt.Year())
}

func TestNextLink(t *testing.T) {
	assert.Equal(t, "", nextLink(""))
	assert.Equal(t, "https://x/a?page=3", nextLink(`<https://x/a?page=1>; rel="current", <https://x/a?page=3>; rel="next"`))
	assert.Equal(t, "", nextLink(`<https://x/a?page=1>; rel="last"`))
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "https://x/a?access_token=REDACTED", redact("https://x/a?access_token=secret"))
	assert.Equal(t, "https://x/a?page=2", redact("https://x/a?page=2"))
}
