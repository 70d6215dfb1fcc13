package page

import (
	"context"
	"strconv"

	"github.com/emzola/cinereview/data"
	"github.com/emzola/cinereview/internal/jsonlog"
	"golang.org/x/sync/errgroup"
)

// DetailBackend is what the detail page needs from the service layer.
type DetailBackend interface {
	ListReviews(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) ([]*data.Review, error)
	GetFavoriteStatus(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) (bool, error)
	CreateReview(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID, draft data.ReviewDraft) (*data.Review, error)
	UpdateReview(ctx context.Context, sess *data.Session, reviewID int64, draft data.ReviewDraft) (*data.Review, error)
	DeleteReview(ctx context.Context, sess *data.Session, reviewID int64) error
	ToggleFavorite(ctx context.Context, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) (bool, error)
}

// Detail is the state of a media detail page: its reviews, their average
// rating, the favourite mark and the review composer/editor.
type Detail struct {
	lifecycle

	backend   DetailBackend
	logger    *jsonlog.Logger
	session   *data.Session
	mediaType data.MediaType
	mediaID   data.MediaID

	loaded        bool
	reviews       []*data.Review
	average       data.AverageRating
	favorited     bool
	composerOpen  bool
	draft         data.ReviewDraft
	editing       *EditState
	pendingDelete int64
}

// EditState holds the buffers of the review being edited.
type EditState struct {
	ReviewID int64  `json:"review_id"`
	Rating   int    `json:"rating"`
	Content  string `json:"content"`
}

// ReviewView is a review as displayed, with the ownership gate for its controls.
type ReviewView struct {
	data.Review
	Editable bool `json:"editable"`
}

// DetailState is a point-in-time copy of a Detail page.
type DetailState struct {
	Loaded        bool               `json:"loaded"`
	Reviews       []ReviewView       `json:"reviews"`
	AverageRating data.AverageRating `json:"average_rating"`
	IsFavorited   bool               `json:"is_favorited"`
	ComposerOpen  bool               `json:"composer_open"`
	Editing       *EditState         `json:"editing"`
	PendingDelete int64              `json:"pending_delete,omitempty"`
}

// NewDetail creates the page for one media item. The session identifies the
// user for ownership checks and is forwarded with every backend request.
func NewDetail(backend DetailBackend, logger *jsonlog.Logger, sess *data.Session, mediaType data.MediaType, mediaID data.MediaID) *Detail {
	p := &Detail{
		backend:   backend,
		session:   sess,
		mediaType: mediaType,
		mediaID:   mediaID,
		reviews:   []*data.Review{},
		logger: logger.With(map[string]string{
			"page":       "detail",
			"media_type": string(mediaType),
			"media_id":   string(mediaID),
		}),
	}
	p.init()
	return p
}

// Load fetches the reviews and the favourite mark concurrently. The page is
// populated only when both requests succeed; otherwise it stays unloaded.
func (p *Detail) Load(ctx context.Context) error {
	p.mu.Lock()
	err := p.begin(ActionLoad)
	p.mu.Unlock()
	if err != nil {
		return err
	}
	defer p.end(ActionLoad)

	ctx, cancel := p.requestContext(ctx)
	defer cancel()
	var (
		reviews   []*data.Review
		favorited bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reviews, err = p.backend.ListReviews(gctx, p.session, p.mediaType, p.mediaID)
		return err
	})
	g.Go(func() error {
		var err error
		favorited, err = p.backend.GetFavoriteStatus(gctx, p.session, p.mediaType, p.mediaID)
		return err
	})
	if err := g.Wait(); err != nil {
		return p.fail(ActionLoad, err, 0)
	}
	kept := make([]*data.Review, 0, len(reviews))
	for _, r := range reviews {
		if r != nil {
			kept = append(kept, r)
		}
	}
	return p.commit(func() {
		p.reviews = kept
		p.favorited = favorited
		p.loaded = true
		p.recompute()
	})
}

// OpenComposer opens the new-review form.
func (p *Detail) OpenComposer() {
	p.mu.Lock()
	p.composerOpen = true
	p.mu.Unlock()
}

// CloseComposer closes the new-review form, keeping the draft.
func (p *Detail) CloseComposer() {
	p.mu.Lock()
	p.composerOpen = false
	p.mu.Unlock()
}

// SetDraft replaces the composer's draft.
func (p *Detail) SetDraft(draft data.ReviewDraft) {
	p.mu.Lock()
	p.draft = draft
	p.mu.Unlock()
}

// CanSubmit reports whether the submit control should be enabled.
func (p *Detail) CanSubmit() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded && p.draft.Ready() && !p.inFlight[ActionSubmitReview]
}

// SubmitReview sends the draft. The composer closes as soon as the request is
// sent; the review is added to the page only once the backend returns it.
// The draft is cleared on success and kept on failure.
func (p *Detail) SubmitReview(ctx context.Context) (*data.Review, error) {
	p.mu.Lock()
	draft := p.draft.Trimmed()
	err := p.ready()
	if err == nil && !draft.Ready() {
		err = ErrMissingInput
	}
	if err == nil {
		err = p.begin(ActionSubmitReview)
	}
	if err == nil {
		p.composerOpen = false
	}
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	defer p.end(ActionSubmitReview)

	ctx, cancel := p.requestContext(ctx)
	defer cancel()
	review, err := p.backend.CreateReview(ctx, p.session, p.mediaType, p.mediaID, draft)
	if err != nil {
		return nil, p.fail(ActionSubmitReview, err, 0)
	}
	err = p.commit(func() {
		p.reviews = append(p.reviews, review)
		p.draft = data.ReviewDraft{}
		p.recompute()
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// BeginEdit switches a review owned by the session user into editing,
// copying its rating and content into the edit buffers. Any other review
// being edited goes back to viewing.
func (p *Detail) BeginEdit(reviewID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	review, err := p.ownedReview(reviewID)
	if err != nil {
		return err
	}
	p.editing = &EditState{ReviewID: review.ID, Rating: review.Rating, Content: review.Content}
	return nil
}

// SetEditBuffers replaces the rating and content being edited.
func (p *Detail) SetEditBuffers(draft data.ReviewDraft) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.editing == nil {
		return ErrNotEditing
	}
	p.editing.Rating = draft.Rating
	p.editing.Content = draft.Content
	return nil
}

// CanConfirmEdit reports whether the confirm control should be enabled.
func (p *Detail) CanConfirmEdit() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.editing == nil || p.inFlight[ActionConfirmEdit] {
		return false
	}
	return data.ReviewDraft{Rating: p.editing.Rating, Content: p.editing.Content}.Ready()
}

// CancelEdit discards the edit buffers; the review keeps its rating and content.
func (p *Detail) CancelEdit() {
	p.mu.Lock()
	p.editing = nil
	p.mu.Unlock()
}

// ConfirmEdit sends the edit buffers. On success only the rating and content
// of the review are replaced, from the backend's copy, and the review goes
// back to viewing. On failure the review stays in editing.
func (p *Detail) ConfirmEdit(ctx context.Context) (*data.Review, error) {
	p.mu.Lock()
	var (
		reviewID int64
		draft    data.ReviewDraft
	)
	err := p.ready()
	if err == nil && p.editing == nil {
		err = ErrNotEditing
	}
	if err == nil {
		reviewID = p.editing.ReviewID
		draft = data.ReviewDraft{Rating: p.editing.Rating, Content: p.editing.Content}.Trimmed()
		if !draft.Ready() {
			err = ErrMissingInput
		}
	}
	if err == nil {
		err = p.begin(ActionConfirmEdit)
	}
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	defer p.end(ActionConfirmEdit)

	ctx, cancel := p.requestContext(ctx)
	defer cancel()
	updated, err := p.backend.UpdateReview(ctx, p.session, reviewID, draft)
	if err != nil {
		return nil, p.fail(ActionConfirmEdit, err, reviewID)
	}
	var result *data.Review
	err = p.commit(func() {
		for _, r := range p.reviews {
			if r.ID == reviewID {
				r.Rating = updated.Rating
				r.Content = updated.Content
				result = r
				break
			}
		}
		if p.editing != nil && p.editing.ReviewID == reviewID {
			p.editing = nil
		}
		p.recompute()
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrReviewNotFound
	}
	c := *result
	return &c, nil
}

// RequestDelete asks for confirmation before deleting a review owned by the
// session user. Nothing is sent until ConfirmDelete.
func (p *Detail) RequestDelete(reviewID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.ownedReview(reviewID); err != nil {
		return err
	}
	p.pendingDelete = reviewID
	return nil
}

// CancelDelete drops the pending confirmation.
func (p *Detail) CancelDelete() {
	p.mu.Lock()
	p.pendingDelete = 0
	p.mu.Unlock()
}

// ConfirmDelete deletes the review awaiting confirmation. On success it is
// removed from the page; on failure it stays.
func (p *Detail) ConfirmDelete(ctx context.Context) error {
	p.mu.Lock()
	reviewID := p.pendingDelete
	err := p.ready()
	if err == nil && reviewID == 0 {
		err = ErrNoPendingDelete
	}
	if err == nil {
		err = p.begin(ActionDelete)
	}
	if err == nil {
		p.pendingDelete = 0
	}
	p.mu.Unlock()
	if err != nil {
		return err
	}
	defer p.end(ActionDelete)

	ctx, cancel := p.requestContext(ctx)
	defer cancel()
	err = p.backend.DeleteReview(ctx, p.session, reviewID)
	if err != nil {
		return p.fail(ActionDelete, err, reviewID)
	}
	return p.commit(func() {
		kept := make([]*data.Review, 0, len(p.reviews))
		for _, r := range p.reviews {
			if r.ID != reviewID {
				kept = append(kept, r)
			}
		}
		p.reviews = kept
		if p.editing != nil && p.editing.ReviewID == reviewID {
			p.editing = nil
		}
		p.recompute()
	})
}

// ToggleFavorite flips the favourite mark and adopts the state the backend
// reports. It does not need the review list, so it works before Load.
func (p *Detail) ToggleFavorite(ctx context.Context) (bool, error) {
	p.mu.Lock()
	err := ErrPageClosed
	if !p.closed {
		err = p.begin(ActionToggleFavorite)
	}
	p.mu.Unlock()
	if err != nil {
		return false, err
	}
	defer p.end(ActionToggleFavorite)

	ctx, cancel := p.requestContext(ctx)
	defer cancel()
	favorited, err := p.backend.ToggleFavorite(ctx, p.session, p.mediaType, p.mediaID)
	if err != nil {
		return false, p.fail(ActionToggleFavorite, err, 0)
	}
	err = p.commit(func() {
		p.favorited = favorited
	})
	if err != nil {
		return false, err
	}
	return favorited, nil
}

// AverageRating returns the average of the reviews currently on the page.
func (p *Detail) AverageRating() data.AverageRating {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.average
}

// IsFavorited reports the favourite mark as last confirmed by the backend.
func (p *Detail) IsFavorited() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.favorited
}

// State returns a copy of the page safe to hand to a renderer.
func (p *Detail) State() DetailState {
	p.mu.Lock()
	defer p.mu.Unlock()
	views := make([]ReviewView, 0, len(p.reviews))
	for _, r := range p.reviews {
		views = append(views, ReviewView{Review: *r, Editable: p.session.Owns(r)})
	}
	var editing *EditState
	if p.editing != nil {
		e := *p.editing
		editing = &e
	}
	return DetailState{
		Loaded:        p.loaded,
		Reviews:       views,
		AverageRating: p.average,
		IsFavorited:   p.favorited,
		ComposerOpen:  p.composerOpen,
		Editing:       editing,
		PendingDelete: p.pendingDelete,
	}
}

// recompute refreshes the average rating. The caller must hold p.mu.
func (p *Detail) recompute() {
	p.average = data.AverageOf(p.reviews)
}

// ready checks that the page can take actions. The caller must hold p.mu.
func (p *Detail) ready() error {
	if p.closed {
		return ErrPageClosed
	}
	if !p.loaded {
		return ErrNotLoaded
	}
	return nil
}

// ownedReview finds a review the session user may edit. The caller must hold p.mu.
func (p *Detail) ownedReview(reviewID int64) (*data.Review, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	for _, r := range p.reviews {
		if r.ID == reviewID {
			if !p.session.Owns(r) {
				return nil, ErrNotPermitted
			}
			return r, nil
		}
	}
	return nil, ErrReviewNotFound
}

// fail logs a failed request and returns the error to surface to the user.
func (p *Detail) fail(action Action, err error, reviewID int64) error {
	err = p.failure(err)
	if err == ErrPageClosed {
		return err
	}
	props := map[string]string{"action": action.String()}
	if reviewID != 0 {
		props["review_id"] = strconv.FormatInt(reviewID, 10)
	}
	p.logger.PrintError(err, props)
	return err
}
