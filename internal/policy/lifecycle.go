// Package policy holds the pure article lifecycle predicates. Every screen
// that offers an action button consults these against freshly fetched
// article state; the results are never cached across a mutation.
package policy

import "github.com/godmath04/newsfront/internal/model"

// CanEdit reports whether an article in the given status may be edited by
// its author. Only drafts and flagged (rejected, returned for revision)
// articles are editable.
func CanEdit(status model.ArticleStatus) bool {
	return status == model.StatusDraft || status == model.StatusFlagged
}

// CanSendToReview reports whether an article in the given status may be
// submitted for review. Intentionally the same predicate as CanEdit:
// anything editable is also re-submittable.
func CanSendToReview(status model.ArticleStatus) bool {
	return CanEdit(status)
}

// CanDelete reports whether an article in the given status may be deleted.
// Only drafts: a flagged article cannot be deleted, only revised.
func CanDelete(status model.ArticleStatus) bool {
	return status == model.StatusDraft
}

// Owns reports whether the acting user authored the article. Ownership is
// a precondition independent of status and is checked by callers, since
// the status predicates are also used by display logic with no identity in
// scope.
func Owns(userID int64, article *model.Article) bool {
	if article == nil {
		return false
	}
	return userID != 0 && article.Author.UserID == userID
}
