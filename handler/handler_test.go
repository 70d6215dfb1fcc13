package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/emzola/cinereview/config"
	"github.com/emzola/cinereview/data"
	"github.com/emzola/cinereview/internal/jsonlog"
	"github.com/emzola/cinereview/page"
	"github.com/emzola/cinereview/service"
	"github.com/google/go-cmp/cmp"
	"github.com/jellydator/ttlcache/v3"
)

const testToken = "valid-token"

var testUser = &data.User{ID: 7, Name: "kai"}

type fakeService struct {
	searchBody json.RawMessage
	searchErr  error
	detail     data.MediaDetail
	reviews    []*data.Review
	listErr    error
	favorited  bool
	review     *data.Review
	// reads counts page loading requests.
	reads int
}

func (s *fakeService) SearchMedia(ctx context.Context, query string) (json.RawMessage, error) {
	if query == "" {
		return nil, service.ErrMissingQuery
	}
	return s.searchBody, s.searchErr
}

func (s *fakeService) GetMediaDetail(ctx context.Context, mediaType data.MediaType, mediaID data.MediaID) (data.MediaDetail, error) {
	if s.detail == nil {
		return nil, service.ErrRecordNotFound
	}
	return s.detail, nil
}

func (s *fakeService) ListReviews(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) ([]*data.Review, error) {
	s.reads++
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]*data.Review, 0, len(s.reviews))
	for _, r := range s.reviews {
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

func (s *fakeService) GetReview(ctx context.Context, sess *data.Session, reviewID int64) (*data.Review, error) {
	s.reads++
	if s.review == nil || s.review.ID != reviewID {
		return nil, service.ErrRecordNotFound
	}
	r := *s.review
	return &r, nil
}

func (s *fakeService) CreateReview(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID, draft data.ReviewDraft) (*data.Review, error) {
	return &data.Review{ID: 50, User: *sess.User, MediaType: mediaType, MediaID: mediaID, Rating: draft.Rating, Content: draft.Content}, nil
}

func (s *fakeService) UpdateReview(ctx context.Context, sess *data.Session, reviewID int64, draft data.ReviewDraft) (*data.Review, error) {
	return &data.Review{ID: reviewID, Rating: draft.Rating, Content: draft.Content}, nil
}

func (s *fakeService) DeleteReview(ctx context.Context, sess *data.Session, reviewID int64) error {
	return nil
}

func (s *fakeService) CreateComment(ctx context.Context, sess *data.Session, reviewID int64, content string) (*data.Comment, error) {
	if s.review == nil || s.review.ID != reviewID {
		return nil, service.ErrRecordNotFound
	}
	return &data.Comment{ID: 1, ReviewID: reviewID, User: *sess.User, Content: content}, nil
}

func (s *fakeService) ToggleFavorite(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) (bool, error) {
	s.favorited = !s.favorited
	return s.favorited, nil
}

func (s *fakeService) GetFavoriteStatus(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) (bool, error) {
	s.reads++
	return s.favorited, nil
}

func (s *fakeService) GetUserForToken(ctx context.Context, token string) (*data.User, error) {
	if token == "outage" {
		return nil, fmt.Errorf("%w: connection refused", service.ErrUpstream)
	}
	if token != testToken {
		return nil, service.ErrUnauthenticated
	}
	return testUser, nil
}

func newTestHandler(svc *fakeService) (*Handler, *bytes.Buffer) {
	var cfg config.Config
	cfg.Server.Env = "testing"
	cfg.Guard.TTL = time.Minute
	var buf bytes.Buffer
	cache := ttlcache.New[string, struct{}]()
	return New(cfg, jsonlog.New(&buf, jsonlog.LevelInfo), cache, svc), &buf
}

func do(t *testing.T, h http.Handler, method, target, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestSearchMediaHandler(t *testing.T) {
	svc := &fakeService{searchBody: json.RawMessage(`{"page":1,"results":[]}`)}
	h, _ := newTestHandler(svc)
	routes := h.Routes()

	tests := []struct {
		name   string
		target string
		err    error
		status int
		body   string
	}{
		{"missing query", "/api/searchMedia", nil, http.StatusBadRequest, `{"message":"検索文字がありません"}`},
		{"empty query", "/api/searchMedia?searchQuery=", nil, http.StatusBadRequest, `{"message":"検索文字がありません"}`},
		{"whitespace query", "/api/searchMedia?searchQuery=%20%20", nil, http.StatusOK, `{"page":1,"results":[]}`},
		{"passthrough", "/api/searchMedia?searchQuery=totoro", nil, http.StatusOK, `{"page":1,"results":[]}`},
		{"provider failure", "/api/searchMedia?searchQuery=totoro", service.ErrUpstream, http.StatusInternalServerError, `{"message":"エラーが発生しました"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.searchErr = tt.err
			rr := do(t, routes, http.MethodGet, tt.target, "", "")
			if rr.Code != tt.status {
				t.Fatalf("expected status %d; got %d", tt.status, rr.Code)
			}
			var got, want interface{}
			json.Unmarshal(rr.Body.Bytes(), &got)
			json.Unmarshal([]byte(tt.body), &want)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchMediaHandlerIgnoresToken(t *testing.T) {
	h, _ := newTestHandler(&fakeService{searchBody: json.RawMessage(`{"results":[]}`)})
	routes := h.Routes()
	for _, token := range []string{"stale", "outage"} {
		rr := do(t, routes, http.MethodGet, "/api/searchMedia?searchQuery=totoro", token, "")
		if rr.Code != http.StatusOK || rr.Body.String() != `{"results":[]}` {
			t.Errorf("token %q: expected 200 passthrough; got %d %s", token, rr.Code, rr.Body.String())
		}
	}
}

func TestAuthentication(t *testing.T) {
	h, _ := newTestHandler(&fakeService{})
	routes := h.Routes()

	rr := do(t, routes, http.MethodGet, "/v1/detail/movie/550", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without credentials; got %d", rr.Code)
	}
	rr = do(t, routes, http.MethodGet, "/v1/detail/movie/550", "wrong", "")
	if rr.Code != http.StatusUnauthorized || rr.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Errorf("expected 401 with a challenge for a bad token; got %d", rr.Code)
	}
}

func TestShowDetailHandler(t *testing.T) {
	svc := &fakeService{
		detail:    data.MediaDetail{"title": json.RawMessage(`"Fight Club"`), "overview": json.RawMessage(`"A ticking-time-bomb insomniac..."`)},
		reviews:   []*data.Review{{ID: 1, User: *testUser, Rating: 4}, {ID: 2, User: data.User{ID: 8}, Rating: 3}},
		favorited: true,
	}
	h, _ := newTestHandler(svc)
	rr := do(t, h.Routes(), http.MethodGet, "/v1/detail/movie/550", testToken, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d: %s", rr.Code, rr.Body.String())
	}
	body := decode(t, rr)
	media := body["media"].(map[string]interface{})
	if media["title"] != "Fight Club" {
		t.Errorf("unexpected media %v", media)
	}
	pg := body["page"].(map[string]interface{})
	if pg["average_rating"] != 3.5 || pg["is_favorited"] != true {
		t.Errorf("unexpected page %v", pg)
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("expected a request id header")
	}
}

func TestShowDetailHandlerErrors(t *testing.T) {
	tests := []struct {
		name   string
		svc    *fakeService
		target string
		status int
	}{
		{"unknown media type", &fakeService{detail: data.MediaDetail{}}, "/v1/detail/book/1", http.StatusNotFound},
		{"non numeric id", &fakeService{detail: data.MediaDetail{}}, "/v1/detail/movie/abc", http.StatusNotFound},
		{"catalog miss", &fakeService{}, "/v1/detail/movie/550", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(tt.svc)
			rr := do(t, h.Routes(), http.MethodGet, tt.target, testToken, "")
			if rr.Code != tt.status {
				t.Errorf("expected %d; got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestShowDetailHandlerJoinFailure(t *testing.T) {
	svc := &fakeService{
		detail:    data.MediaDetail{"title": json.RawMessage(`"Fight Club"`)},
		listErr:   fmt.Errorf("%w: boom", service.ErrUpstream),
		favorited: true,
	}
	h, buf := newTestHandler(svc)
	rr := do(t, h.Routes(), http.MethodGet, "/v1/detail/movie/550", testToken, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d: %s", rr.Code, rr.Body.String())
	}
	body := decode(t, rr)
	if media := body["media"].(map[string]interface{}); media["title"] != "Fight Club" {
		t.Errorf("unexpected media %v", media)
	}
	pg := body["page"].(map[string]interface{})
	if pg["loaded"] != false || len(pg["reviews"].([]interface{})) != 0 || pg["average_rating"] != nil || pg["is_favorited"] != false {
		t.Errorf("page should be in its pre-load state; got %v", pg)
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected the join failure to be logged; got %s", buf.String())
	}
}

func TestCreateReviewHandler(t *testing.T) {
	svc := &fakeService{reviews: []*data.Review{{ID: 1, User: data.User{ID: 8}, Rating: 2}}}
	h, _ := newTestHandler(svc)
	routes := h.Routes()

	rr := do(t, routes, http.MethodPost, "/v1/detail/movie/550/reviews", testToken, `{"rating":6,"content":"x"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for rating 6; got %d", rr.Code)
	}
	rr = do(t, routes, http.MethodPost, "/v1/detail/movie/550/reviews", testToken, `{"rating":4,"content":"  "}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for blank content; got %d", rr.Code)
	}
	rr = do(t, routes, http.MethodPost, "/v1/detail/movie/550/reviews", testToken, `{"rating":5,"content":"great"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201; got %d: %s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/v1/reviews/50" {
		t.Errorf("unexpected location %q", loc)
	}
	pg := decode(t, rr)["page"].(map[string]interface{})
	if pg["average_rating"] != 3.5 || pg["composer_open"] != false {
		t.Errorf("unexpected page %v", pg)
	}
}

func TestUpdateReviewHandler(t *testing.T) {
	svc := &fakeService{reviews: []*data.Review{{ID: 3, User: *testUser, Rating: 3, Content: "ok"}, {ID: 4, User: data.User{ID: 8}, Rating: 1}}}
	h, _ := newTestHandler(svc)
	routes := h.Routes()

	rr := do(t, routes, http.MethodPut, "/v1/detail/movie/550/reviews/3", testToken, `{"rating":5,"content":"great"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d: %s", rr.Code, rr.Body.String())
	}
	review := decode(t, rr)["review"].(map[string]interface{})
	if review["rating"] != float64(5) || review["content"] != "great" {
		t.Errorf("unexpected review %v", review)
	}

	rr = do(t, routes, http.MethodPut, "/v1/detail/movie/550/reviews/4", testToken, `{"rating":5,"content":"mine now"}`)
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403 for another user's review; got %d", rr.Code)
	}
	rr = do(t, routes, http.MethodPut, "/v1/detail/movie/550/reviews/99", testToken, `{"rating":5,"content":"x"}`)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a review not on the page; got %d", rr.Code)
	}
}

func TestDeleteReviewHandler(t *testing.T) {
	svc := &fakeService{reviews: []*data.Review{
		{ID: 1, User: *testUser, Rating: 2},
		{ID: 2, User: *testUser, Rating: 4},
		{ID: 3, User: *testUser, Rating: 5},
	}}
	h, _ := newTestHandler(svc)
	rr := do(t, h.Routes(), http.MethodDelete, "/v1/detail/tv/1399/reviews/2", testToken, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d: %s", rr.Code, rr.Body.String())
	}
	pg := decode(t, rr)["page"].(map[string]interface{})
	if pg["average_rating"] != 3.5 {
		t.Errorf("expected average 3.5; got %v", pg["average_rating"])
	}
	if n := len(pg["reviews"].([]interface{})); n != 2 {
		t.Errorf("expected 2 reviews; got %d", n)
	}
}

func TestToggleFavoriteHandler(t *testing.T) {
	svc := &fakeService{}
	h, _ := newTestHandler(svc)
	routes := h.Routes()
	for _, want := range []bool{true, false} {
		rr := do(t, routes, http.MethodPost, "/v1/detail/movie/550/favorite", testToken, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200; got %d", rr.Code)
		}
		if got := decode(t, rr)["is_favorited"]; got != want {
			t.Errorf("expected is_favorited=%v; got %v", want, got)
		}
	}
	if svc.reads != 0 {
		t.Errorf("toggling should not load the page; got %d reads", svc.reads)
	}
}

func TestToggleFavoriteHandlerReviewsDown(t *testing.T) {
	svc := &fakeService{listErr: fmt.Errorf("%w: boom", service.ErrUpstream)}
	h, _ := newTestHandler(svc)
	rr := do(t, h.Routes(), http.MethodPost, "/v1/detail/movie/550/favorite", testToken, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d: %s", rr.Code, rr.Body.String())
	}
	if got := decode(t, rr)["is_favorited"]; got != true || !svc.favorited {
		t.Errorf("expected the item to be favourited; got %v", got)
	}
	rr = do(t, h.Routes(), http.MethodPost, "/v1/detail/book/550/favorite", testToken, "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown media type; got %d", rr.Code)
	}
}

func TestCreateCommentHandler(t *testing.T) {
	svc := &fakeService{review: &data.Review{ID: 4, Rating: 5, Content: "great"}}
	h, _ := newTestHandler(svc)
	routes := h.Routes()

	rr := do(t, routes, http.MethodPost, "/v1/reviews/4/comments", testToken, `{"content":"agreed"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201; got %d: %s", rr.Code, rr.Body.String())
	}

	long, _ := json.Marshal(map[string]string{"content": strings.Repeat("あ", 201)})
	rr = do(t, routes, http.MethodPost, "/v1/reviews/4/comments", testToken, string(long))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422; got %d", rr.Code)
	}
	errs := decode(t, rr)["error"].(map[string]interface{})
	if errs["content"] != page.CommentTooLongMessage {
		t.Errorf("unexpected error %v", errs)
	}

	rr = do(t, routes, http.MethodPost, "/v1/reviews/4/comments", testToken, `{"content":"   "}`)
	if rr.Code != http.StatusOK || decode(t, rr)["comment"] != nil {
		t.Errorf("whitespace comment should be a no-op; got %d %s", rr.Code, rr.Body.String())
	}

	rr = do(t, routes, http.MethodPost, "/v1/reviews/9/comments", testToken, `{"content":"hi"}`)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown review; got %d", rr.Code)
	}
	if svc.reads != 0 {
		t.Errorf("commenting should not load the review; got %d reads", svc.reads)
	}
}

func TestAcquireAction(t *testing.T) {
	h, _ := newTestHandler(&fakeService{})
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = h.contextSetSession(req, &data.Session{User: testUser, Token: testToken})

	release, ok := h.acquireAction(req, page.ActionSubmitReview, "movie/550")
	if !ok {
		t.Fatal("first acquire should succeed")
	}
	if _, ok := h.acquireAction(req, page.ActionSubmitReview, "movie/550"); ok {
		t.Error("second acquire should be rejected while the first is running")
	}
	if _, ok := h.acquireAction(req, page.ActionToggleFavorite, "movie/550"); !ok {
		t.Error("a different action should not be blocked")
	}
	release()
	if _, ok := h.acquireAction(req, page.ActionSubmitReview, "movie/550"); !ok {
		t.Error("acquire should succeed after release")
	}
}

func TestHealthcheckHandler(t *testing.T) {
	h, _ := newTestHandler(&fakeService{})
	rr := do(t, h.Routes(), http.MethodGet, "/v1/healthcheck", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d", rr.Code)
	}
	if got := decode(t, rr)["status"]; got != "available" {
		t.Errorf("unexpected status %v", got)
	}
}

func TestRecoverPanic(t *testing.T) {
	h, buf := newTestHandler(&fakeService{})
	rr := httptest.NewRecorder()
	h.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError || rr.Header().Get("Connection") != "close" {
		t.Errorf("unexpected response %d", rr.Code)
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected the panic to be logged; got %s", buf.String())
	}
}
