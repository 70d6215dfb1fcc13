package page

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/emzola/cinereview/data"
	"github.com/emzola/cinereview/internal/jsonlog"
)

// CommentTooLongMessage is shown under the comment input once it passes the limit.
const CommentTooLongMessage = "コメントは200文字以内で入力してください"

// ReviewBackend is what the review page needs from the service layer.
type ReviewBackend interface {
	GetReview(ctx context.Context, sess *data.Session, reviewID int64) (*data.Review, error)
	CreateComment(ctx context.Context, sess *data.Session, reviewID int64, content string) (*data.Comment, error)
}

// Review is the state of a single review page with its comment thread.
type Review struct {
	lifecycle

	backend  ReviewBackend
	logger   *jsonlog.Logger
	session  *data.Session
	reviewID int64

	loaded   bool
	review   *data.Review
	comments []data.Comment
	input    string
}

// ReviewState is a point-in-time copy of a Review page.
type ReviewState struct {
	Loaded     bool           `json:"loaded"`
	Review     *data.Review   `json:"review"`
	Comments   []data.Comment `json:"comments"`
	Input      string         `json:"input"`
	InputError string         `json:"input_error,omitempty"`
}

func NewReview(backend ReviewBackend, logger *jsonlog.Logger, sess *data.Session, reviewID int64) *Review {
	p := &Review{
		backend:  backend,
		session:  sess,
		reviewID: reviewID,
		comments: []data.Comment{},
		logger: logger.With(map[string]string{
			"page":      "review",
			"review_id": strconv.FormatInt(reviewID, 10),
		}),
	}
	p.init()
	return p
}

// Load fetches the review and its comments.
func (p *Review) Load(ctx context.Context) error {
	p.mu.Lock()
	err := p.begin(ActionLoad)
	p.mu.Unlock()
	if err != nil {
		return err
	}
	defer p.end(ActionLoad)

	ctx, cancel := p.requestContext(ctx)
	defer cancel()
	review, err := p.backend.GetReview(ctx, p.session, p.reviewID)
	if err != nil {
		return p.fail(ActionLoad, err)
	}
	return p.commit(func() {
		comments := review.Comments
		if comments == nil {
			comments = []data.Comment{}
		}
		r := *review
		r.Comments = nil
		p.review = &r
		p.comments = comments
		p.loaded = true
	})
}

// SetInput replaces the comment input.
func (p *Review) SetInput(s string) {
	p.mu.Lock()
	p.input = s
	p.mu.Unlock()
}

// InputError returns the advisory message for the current input, if any.
func (p *Review) InputError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return inputError(p.input)
}

func inputError(s string) string {
	if utf8.RuneCountInString(s) > data.MaxCommentLength {
		return CommentTooLongMessage
	}
	return ""
}

// AddComment posts the current input. Blank input is ignored and returns a
// nil comment with no error. Input over the limit is rejected before any
// request. On success the comment is appended and the input cleared; on
// failure the input is kept. The page need not be loaded.
func (p *Review) AddComment(ctx context.Context) (*data.Comment, error) {
	p.mu.Lock()
	content := strings.TrimSpace(p.input)
	var err error
	switch {
	case p.closed:
		err = ErrPageClosed
	case content == "":
		p.mu.Unlock()
		return nil, nil
	case utf8.RuneCountInString(content) > data.MaxCommentLength:
		err = ErrInvalidInput
	default:
		err = p.begin(ActionAddComment)
	}
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	defer p.end(ActionAddComment)

	ctx, cancel := p.requestContext(ctx)
	defer cancel()
	comment, err := p.backend.CreateComment(ctx, p.session, p.reviewID, content)
	if err != nil {
		return nil, p.fail(ActionAddComment, err)
	}
	err = p.commit(func() {
		p.comments = append(p.comments, *comment)
		p.input = ""
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// State returns a copy of the page safe to hand to a renderer.
func (p *Review) State() ReviewState {
	p.mu.Lock()
	defer p.mu.Unlock()
	var review *data.Review
	if p.review != nil {
		r := *p.review
		review = &r
	}
	comments := make([]data.Comment, len(p.comments))
	copy(comments, p.comments)
	return ReviewState{
		Loaded:     p.loaded,
		Review:     review,
		Comments:   comments,
		Input:      p.input,
		InputError: inputError(p.input),
	}
}

func (p *Review) fail(action Action, err error) error {
	err = p.failure(err)
	if err == ErrPageClosed {
		return err
	}
	p.logger.PrintError(err, map[string]string{"action": action.String()})
	return err
}
