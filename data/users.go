package data

// User defines the backend user as seen by this service.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Session carries the identity of the caller explicitly into every page and
// backend call. Token is forwarded to the backend as a bearer credential.
type Session struct {
	User  *User
	Token string
}

// AnonymousSession is used for requests without credentials.
var AnonymousSession = &Session{}

// IsAnonymous reports whether the session has no authenticated user.
func (s *Session) IsAnonymous() bool {
	return s == nil || s.User == nil
}

// Owns reports whether the session user wrote the review.
func (s *Session) Owns(review *Review) bool {
	if s.IsAnonymous() || review == nil {
		return false
	}
	return s.User.ID == review.AuthorID()
}

// FavoriteStatus values returned by the backend toggle endpoint.
const (
	FavoriteAdded   = "added"
	FavoriteRemoved = "removed"
)
