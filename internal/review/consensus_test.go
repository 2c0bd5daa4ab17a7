package review_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godmath04/newsfront/internal/model"
	"github.com/godmath04/newsfront/internal/review"
)

// fakeHistory serves canned per-article histories and errors.
type fakeHistory struct {
	mu        sync.Mutex
	histories map[int64][]model.ApprovalDecision
	failures  map[int64]error
	calls     int
}

func (f *fakeHistory) ApprovalHistory(_ context.Context, articleID int64) ([]model.ApprovalDecision, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err, ok := f.failures[articleID]; ok {
		return nil, err
	}
	return f.histories[articleID], nil
}

// fakeSubmitter records the request it received.
type fakeSubmitter struct {
	req     *model.ApprovalRequest
	outcome *model.ApprovalOutcome
	err     error
}

func (f *fakeSubmitter) ProcessApproval(_ context.Context, req model.ApprovalRequest) (*model.ApprovalOutcome, error) {
	f.req = &req
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

func TestStateFor(t *testing.T) {
	history := []model.ApprovalDecision{
		{ApproverUsername: "epaez", RoleName: "Editor", Status: model.DecisionApproved},
	}

	assert.Equal(t, review.Reviewed, review.StateFor(history, "Editor"))
	assert.Equal(t, review.NotReviewed, review.StateFor(history, "Revisor Legal"))
	assert.Equal(t, review.NotReviewed, review.StateFor(nil, "Editor"))
}

func TestStateOf_HistoryFailureDegradesToNotReviewed(t *testing.T) {
	fetcher := &fakeHistory{failures: map[int64]error{1: errors.New("boom")}}
	assert.Equal(t, review.NotReviewed, review.StateOf(context.Background(), fetcher, 1, "Editor"))
}

func TestReviewedMap_PartialFailureIsolation(t *testing.T) {
	fetcher := &fakeHistory{
		histories: map[int64][]model.ApprovalDecision{
			1: {{RoleName: "Editor", Status: model.DecisionApproved}},
			2: {{RoleName: "Revisor Legal", Status: model.DecisionApproved}},
		},
		failures: map[int64]error{3: errors.New("historial no disponible")},
	}
	articles := []model.Article{{ID: 1}, {ID: 2}, {ID: 3}}

	reviewed := review.ReviewedMap(context.Background(), fetcher, articles, "Editor")

	assert.Equal(t, map[int64]bool{1: true, 2: false, 3: false}, reviewed)
	assert.Equal(t, 3, fetcher.calls)
}

func TestDecisionValidate(t *testing.T) {
	assert.ErrorIs(t, review.Decision{ArticleID: 1}.Validate(), review.ErrNoDecision)
	assert.ErrorIs(t, review.Decision{ArticleID: 1, Status: "MAYBE"}.Validate(), review.ErrNoDecision)
	assert.ErrorIs(t,
		review.Decision{ArticleID: 1, Status: model.DecisionRejected, Comments: "   "}.Validate(),
		review.ErrCommentRequired)

	assert.NoError(t, review.Decision{ArticleID: 1, Status: model.DecisionApproved}.Validate())
	assert.NoError(t,
		review.Decision{ArticleID: 1, Status: model.DecisionRejected, Comments: "needs sources"}.Validate())
}

func TestSubmit_ValidationFailureNeverReachesBackend(t *testing.T) {
	submitter := &fakeSubmitter{}
	_, err := review.Submit(context.Background(), submitter,
		review.Decision{ArticleID: 1, Status: model.DecisionRejected})

	assert.ErrorIs(t, err, review.ErrCommentRequired)
	assert.Nil(t, submitter.req)
}

func TestSubmit_OmitsBlankComments(t *testing.T) {
	submitter := &fakeSubmitter{outcome: &model.ApprovalOutcome{}}
	_, err := review.Submit(context.Background(), submitter,
		review.Decision{ArticleID: 5, Status: model.DecisionApproved, Comments: "  \n "})
	require.NoError(t, err)
	require.NotNil(t, submitter.req)

	assert.Equal(t, int64(5), submitter.req.ArticleID)
	assert.Equal(t, "", submitter.req.Comments) // omitempty drops it on the wire
}

func TestSubmit_TrimsComments(t *testing.T) {
	submitter := &fakeSubmitter{outcome: &model.ApprovalOutcome{}}
	_, err := review.Submit(context.Background(), submitter,
		review.Decision{ArticleID: 5, Status: model.DecisionRejected, Comments: "  faltan fuentes  "})
	require.NoError(t, err)

	assert.Equal(t, "faltan fuentes", submitter.req.Comments)
}

func TestOutcomeMessage(t *testing.T) {
	pct := 66.67
	outcome := &model.ApprovalOutcome{
		CurrentApprovalPercentage: &pct,
		ArticleStatus:             "En Revision",
	}

	assert.Equal(t,
		"Articulo aprobado correctamente. Porcentaje de aprobacion: 66.67% - Estado: En Revision",
		review.OutcomeMessage(model.DecisionApproved, outcome))

	assert.Equal(t,
		"Articulo rechazado correctamente.",
		review.OutcomeMessage(model.DecisionRejected, &model.ApprovalOutcome{}))

	assert.Equal(t,
		"Articulo aprobado correctamente.",
		review.OutcomeMessage(model.DecisionApproved, nil))
}
