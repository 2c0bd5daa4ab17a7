// Package review tracks the multi-role approval workflow for articles
// from the perspective of the reviewing role: whether this role has
// already decided, local validation of a new decision, and formatting of
// the outcome the backend reports back.
package review

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/godmath04/newsfront/internal/model"
)

// State is a role's review position on one article.
type State int

const (
	// NotReviewed: no decision by this role exists yet; the decision UI
	// is offered.
	NotReviewed State = iota
	// Reviewed: at least one decision by this role exists; the decision
	// UI is withheld and an "already reviewed" indicator shown. Final
	// enforcement stays with the backend.
	Reviewed
)

// Local validation failures; never sent over the wire.
var (
	ErrNoDecision      = errors.New("debe seleccionar una accion (Aprobar o Rechazar)")
	ErrCommentRequired = errors.New("debe proporcionar un comentario al rechazar el articulo")
)

// HistoryFetcher reads an article's approval history.
type HistoryFetcher interface {
	ApprovalHistory(ctx context.Context, articleID int64) ([]model.ApprovalDecision, error)
}

// DecisionSubmitter appends a decision through the backend.
type DecisionSubmitter interface {
	ProcessApproval(ctx context.Context, req model.ApprovalRequest) (*model.ApprovalOutcome, error)
}

// StateFor derives the role's state from an article's history.
func StateFor(history []model.ApprovalDecision, roleName string) State {
	for _, decision := range history {
		if decision.RoleName == roleName {
			return Reviewed
		}
	}
	return NotReviewed
}

// StateOf fetches the history and derives the role's state. A failed or
// empty history read means NotReviewed, not an error: an article
// legitimately has no history before its first review.
func StateOf(ctx context.Context, fetcher HistoryFetcher, articleID int64, roleName string) State {
	history, err := fetcher.ApprovalHistory(ctx, articleID)
	if err != nil {
		return NotReviewed
	}
	return StateFor(history, roleName)
}

// ReviewedMap resolves the role's state for every pending article, one
// history fetch per article issued concurrently. A failure on one
// article degrades that article to NotReviewed; the rest proceed
// normally.
func ReviewedMap(ctx context.Context, fetcher HistoryFetcher, articles []model.Article, roleName string) map[int64]bool {
	reviewed := make(map[int64]bool, len(articles))
	if len(articles) == 0 {
		return reviewed
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, article := range articles {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			state := StateOf(ctx, fetcher, id, roleName)
			mu.Lock()
			reviewed[id] = state == Reviewed
			mu.Unlock()
		}(article.ID)
	}
	wg.Wait()
	return reviewed
}

// Decision is an approver's pending decision on one article.
type Decision struct {
	ArticleID int64
	Status    model.DecisionStatus
	Comments  string
}

// Validate enforces the client-side preconditions: a decision must be
// selected, and a rejection must carry a non-empty comment after
// trimming.
func (d Decision) Validate() error {
	if d.Status != model.DecisionApproved && d.Status != model.DecisionRejected {
		return ErrNoDecision
	}
	if d.Status == model.DecisionRejected && strings.TrimSpace(d.Comments) == "" {
		return ErrCommentRequired
	}
	return nil
}

// request builds the wire payload. Comments blank after trimming are
// omitted entirely — downstream must not conflate "omitted" with
// "explicitly empty".
func (d Decision) request() model.ApprovalRequest {
	return model.ApprovalRequest{
		ArticleID: d.ArticleID,
		Status:    d.Status,
		Comments:  strings.TrimSpace(d.Comments),
	}
}

// Submit validates the decision locally and, only then, sends it. After
// a successful submission the caller must refresh the article (its
// status may have left review) and retire the decision UI.
func Submit(ctx context.Context, submitter DecisionSubmitter, d Decision) (*model.ApprovalOutcome, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return submitter.ProcessApproval(ctx, d.request())
}

// OutcomeMessage renders the confirmation shown after a processed
// decision, embedding the percentage and resulting status when the
// backend reported them.
func OutcomeMessage(status model.DecisionStatus, outcome *model.ApprovalOutcome) string {
	verb := "aprobado"
	if status == model.DecisionRejected {
		verb = "rechazado"
	}
	msg := fmt.Sprintf("Articulo %s correctamente.", verb)
	if outcome == nil {
		return msg
	}
	if outcome.CurrentApprovalPercentage != nil {
		pct := strconv.FormatFloat(*outcome.CurrentApprovalPercentage, 'f', -1, 64)
		msg += fmt.Sprintf(" Porcentaje de aprobacion: %s%%", pct)
	}
	if outcome.ArticleStatus != "" {
		msg += fmt.Sprintf(" - Estado: %s", outcome.ArticleStatus)
	}
	return msg
}
