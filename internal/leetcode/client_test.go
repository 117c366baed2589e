package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
	"github.com/yourusername/leetcode-bot/internal/metrics"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

func newTestClient(rt http.RoundTripper) *Client {
	return NewClient(&http.Client{Transport: rt}, Options{
		GraphQLURL: "https://leetcode.test/graphql/",
		BaseURL:    "https://leetcode.test/",
		CSRFToken:  "csrf-value",
		Session:    "session-value",
		UserAgent:  "bot-test",
		Timeout:    5 * time.Second,
	}, metrics.New(prometheus.NewRegistry()))
}

func TestClient_FetchRandomQuestion(t *testing.T) {
	var seen graphQLRequest
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&seen))
		return jsonResponse(http.StatusOK, `{"data":{"randomQuestion":{
			"title":" Two Sum ","titleSlug":"two-sum","difficulty":"Easy","isPaidOnly":false}}}`), nil
	}))

	q, err := client.FetchRandomQuestion(context.Background(), entity.DifficultyEasy)

	require.NoError(t, err)
	assert.Equal(t, "Two Sum", q.Title, "Название должно быть без пробелов по краям")
	assert.Equal(t, "two-sum", q.Slug)
	assert.Equal(t, entity.DifficultyEasy, q.Difficulty)
	assert.False(t, q.PaidOnly)
	assert.Equal(t, "https://leetcode.test/problems/two-sum/", q.URL)

	filters, ok := seen.Variables["filters"].(map[string]interface{})
	require.True(t, ok, "В запросе должны быть фильтры")
	assert.Equal(t, "EASY", filters["difficulty"])
}

func TestClient_FetchRandomQuestion_PaidOnlyIsReported(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{"randomQuestion":{
			"title":"Paid","titleSlug":"paid","difficulty":"HARD","isPaidOnly":true}}}`), nil
	}))

	q, err := client.FetchRandomQuestion(context.Background(), entity.DifficultyHard)

	require.NoError(t, err)
	assert.True(t, q.PaidOnly)
}

func TestClient_ResolveSubmission_SendsAuth(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "csrf-value", r.Header.Get("X-CSRFToken"))
		assert.Equal(t, "bot-test", r.Header.Get("User-Agent"))
		cookie, err := r.Cookie("LEETCODE_SESSION")
		require.NoError(t, err)
		assert.Equal(t, "session-value", cookie.Value)

		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, 123456, req.Variables["submissionId"])

		return jsonResponse(http.StatusOK, `{"data":{"submissionDetails":{"question":{"titleSlug":"lru-cache"}}}}`), nil
	}))

	slug, err := client.ResolveSubmission(context.Background(), "123456")

	require.NoError(t, err)
	assert.Equal(t, "lru-cache", slug)
}

func TestClient_ResolveSubmission_NotFound(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{"submissionDetails":null}}`), nil
	}))

	_, err := client.ResolveSubmission(context.Background(), "1")

	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestClient_ResolveSubmission_Errors(t *testing.T) {
	cases := map[string]roundTripperFunc{
		"non-200": func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusBadGateway, "bad gateway"), nil
		},
		"not json": func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, "<html>"), nil
		},
		"graphql error": func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"data":null,"errors":[{"message":"boom"}]}`), nil
		},
		"transport": func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("connection reset")
		},
	}

	for name, rt := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(rt)
			_, err := client.ResolveSubmission(context.Background(), "42")
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrSubmissionNotFound)
		})
	}
}

func TestClient_ResolveSubmission_InvalidID(t *testing.T) {
	called := false
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return jsonResponse(http.StatusOK, `{}`), nil
	}))

	_, err := client.ResolveSubmission(context.Background(), "abc")

	assert.Error(t, err)
	assert.False(t, called, "Некорректный ID не должен уходить в LeetCode")
}

func TestClient_ThrottleRespectsContext(t *testing.T) {
	calls := 0
	client := NewClient(&http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(http.StatusOK, `{"data":{"submissionDetails":{"question":{"titleSlug":"a"}}}}`), nil
	})}, Options{GraphQLURL: "https://leetcode.test/graphql/", MinInterval: time.Hour}, nil)

	_, err := client.ResolveSubmission(context.Background(), "1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = client.ResolveSubmission(ctx, "2")

	require.Error(t, err, "Второй запрос не должен уйти раньше MinInterval")
	assert.NotErrorIs(t, err, ErrSubmissionNotFound)
	assert.Less(t, time.Since(start), time.Second, "Ожидание должно обрываться по контексту")
	assert.Equal(t, 1, calls)
}

func TestClient_WithoutMinIntervalDoesNotWait(t *testing.T) {
	client := NewClient(&http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{"submissionDetails":{"question":{"titleSlug":"a"}}}}`), nil
	})}, Options{GraphQLURL: "https://leetcode.test/graphql/"}, nil)

	for i := 0; i < 5; i++ {
		_, err := client.ResolveSubmission(context.Background(), strconv.Itoa(i+1))
		require.NoError(t, err)
	}
}
