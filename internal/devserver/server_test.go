package devserver_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godmath04/newsfront/internal/backend"
	"github.com/godmath04/newsfront/internal/config"
	"github.com/godmath04/newsfront/internal/devserver"
	"github.com/godmath04/newsfront/internal/logging"
	"github.com/godmath04/newsfront/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// staticToken is a fixed-credential TokenSource.
type staticToken string

func (t staticToken) Token() string { return string(t) }

// newPortal starts an in-memory emulator with the default seed and
// returns a client factory bound to it.
func newPortal(t *testing.T) (*httptest.Server, func(token string) *backend.Client) {
	t.Helper()

	store, err := devserver.OpenStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Apply(devserver.DefaultSeed()))

	srv := httptest.NewServer(devserver.NewServer(store, "test-secret", logging.Quiet()).Handler())
	t.Cleanup(srv.Close)

	clientFor := func(token string) *backend.Client {
		cfg := &config.BackendConfig{AuthURL: srv.URL, ArticleURL: srv.URL, TimeoutSec: 5}
		return backend.NewClient(cfg, staticToken(token), logging.Quiet())
	}
	return srv, clientFor
}

// loginAs authenticates a seed account and returns a client carrying its
// token.
func loginAs(t *testing.T, clientFor func(string) *backend.Client, username, password string) (*backend.Client, *model.LoginResponse) {
	t.Helper()
	resp, err := clientFor("").Login(context.Background(), username, password)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	return clientFor(resp.Token), resp
}

func TestLogin(t *testing.T) {
	_, clientFor := newPortal(t)
	ctx := context.Background()

	t.Run("success returns token and role objects", func(t *testing.T) {
		resp, err := clientFor("").Login(ctx, "mgarcia", "reportero")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "mgarcia", resp.Username)
		require.Len(t, resp.Roles, 1)
		role, ok := resp.Roles[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, model.RoleReporter, role["roleName"])
	})

	t.Run("wrong password is an authentication failure", func(t *testing.T) {
		_, err := clientFor("").Login(ctx, "mgarcia", "nope")
		var pe *backend.Error
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, backend.KindAuthentication, pe.Kind)
		assert.False(t, backend.IsInactiveAccount(err))
	})

	t.Run("unknown user is indistinguishable from wrong password", func(t *testing.T) {
		_, err := clientFor("").Login(ctx, "nadie", "nada")
		var pe *backend.Error
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, backend.KindAuthentication, pe.Kind)
	})

	t.Run("deactivated account is classified as inactive", func(t *testing.T) {
		_, err := clientFor("").Login(ctx, "inactivo", "inactivo")
		require.Error(t, err)
		assert.True(t, backend.IsInactiveAccount(err))
	})
}

func TestArticleLifecycle(t *testing.T) {
	_, clientFor := newPortal(t)
	ctx := context.Background()

	reporter, me := loginAs(t, clientFor, "mgarcia", "reportero")
	editor, _ := loginAs(t, clientFor, "epaez", "editor")
	legal, _ := loginAs(t, clientFor, "lruiz", "legal")
	chief, _ := loginAs(t, clientFor, "jsoto", "jefe")

	article, err := reporter.CreateArticle(ctx, model.ArticleInput{
		Title:   "Primer borrador del reportaje",
		Content: "Contenido inicial del reportaje, pendiente de ampliar con declaraciones.",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, article.Status.ID)
	assert.Equal(t, me.UserID, article.Author.UserID)

	t.Run("draft can be edited by its author", func(t *testing.T) {
		updated, err := reporter.UpdateArticle(ctx, article.ID, model.ArticleInput{
			Title:   "Reportaje sobre el nuevo hospital",
			Content: "Contenido ampliado con las declaraciones del consejero de sanidad.",
		})
		require.NoError(t, err)
		assert.Equal(t, "Reportaje sobre el nuevo hospital", updated.Title)
		assert.Equal(t, model.StatusDraft, updated.Status.ID)
	})

	t.Run("another author cannot edit it", func(t *testing.T) {
		_, err := editor.UpdateArticle(ctx, article.ID, model.ArticleInput{Title: "x", Content: "y"})
		require.Error(t, err)
	})

	t.Run("send to review", func(t *testing.T) {
		inReview, err := reporter.SendToReview(ctx, article.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusInReview, inReview.Status.ID)
	})

	t.Run("in-review article is no longer editable or deletable", func(t *testing.T) {
		_, err := reporter.UpdateArticle(ctx, article.ID, model.ArticleInput{Title: "tarde", Content: "demasiado tarde"})
		require.Error(t, err)
		require.Error(t, reporter.DeleteArticle(ctx, article.ID))
	})

	t.Run("three approvals publish the article", func(t *testing.T) {
		out, err := editor.ProcessApproval(ctx, model.ApprovalRequest{ArticleID: article.ID, Status: model.DecisionApproved})
		require.NoError(t, err)
		require.NotNil(t, out.CurrentApprovalPercentage)
		assert.InDelta(t, 33.33, *out.CurrentApprovalPercentage, 0.01)
		assert.Equal(t, "En Revision", out.ArticleStatus)

		out, err = legal.ProcessApproval(ctx, model.ApprovalRequest{ArticleID: article.ID, Status: model.DecisionApproved})
		require.NoError(t, err)
		assert.InDelta(t, 66.67, *out.CurrentApprovalPercentage, 0.01)

		out, err = chief.ProcessApproval(ctx, model.ApprovalRequest{ArticleID: article.ID, Status: model.DecisionApproved})
		require.NoError(t, err)
		assert.InDelta(t, 100, *out.CurrentApprovalPercentage, 0.01)
		assert.Equal(t, "Publicado", out.ArticleStatus)
	})

	t.Run("published article appears in the public list", func(t *testing.T) {
		published, err := clientFor("").ListPublished(ctx)
		require.NoError(t, err)
		var found bool
		for _, a := range published {
			if a.ID == article.ID {
				found = true
				assert.Equal(t, "mgarcia", a.Author.Username)
			}
		}
		assert.True(t, found)
	})
}

func TestRejectionOpensNewRound(t *testing.T) {
	_, clientFor := newPortal(t)
	ctx := context.Background()

	reporter, _ := loginAs(t, clientFor, "mgarcia", "reportero")
	editor, _ := loginAs(t, clientFor, "epaez", "editor")
	legal, _ := loginAs(t, clientFor, "lruiz", "legal")

	article, err := reporter.CreateArticle(ctx, model.ArticleInput{
		Title:   "Cronica del pleno municipal",
		Content: "El pleno debatio durante cuatro horas la ordenanza de movilidad.",
	})
	require.NoError(t, err)
	_, err = reporter.SendToReview(ctx, article.ID)
	require.NoError(t, err)

	t.Run("rejection flags the article", func(t *testing.T) {
		out, err := editor.ProcessApproval(ctx, model.ApprovalRequest{
			ArticleID: article.ID,
			Status:    model.DecisionRejected,
			Comments:  "Faltan las fuentes de la segunda parte",
		})
		require.NoError(t, err)
		assert.Equal(t, "Marcado", out.ArticleStatus)
	})

	t.Run("flagged article cannot be decided on", func(t *testing.T) {
		_, err := legal.ProcessApproval(ctx, model.ApprovalRequest{ArticleID: article.ID, Status: model.DecisionApproved})
		require.Error(t, err)
	})

	t.Run("author can revise and resubmit", func(t *testing.T) {
		_, err := reporter.UpdateArticle(ctx, article.ID, model.ArticleInput{
			Title:   "Cronica del pleno municipal",
			Content: "El pleno debatio la ordenanza de movilidad. Fuentes: acta de la sesion.",
		})
		require.NoError(t, err)
		inReview, err := reporter.SendToReview(ctx, article.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusInReview, inReview.Status.ID)
	})

	t.Run("the rejecting role may decide again in the new round", func(t *testing.T) {
		out, err := editor.ProcessApproval(ctx, model.ApprovalRequest{ArticleID: article.ID, Status: model.DecisionApproved})
		require.NoError(t, err)
		require.NotNil(t, out.CurrentApprovalPercentage)
		assert.InDelta(t, 33.33, *out.CurrentApprovalPercentage, 0.01)
	})

	t.Run("but not twice in the same round", func(t *testing.T) {
		_, err := editor.ProcessApproval(ctx, model.ApprovalRequest{ArticleID: article.ID, Status: model.DecisionApproved})
		require.Error(t, err)
	})

	t.Run("history spans every round", func(t *testing.T) {
		history, err := editor.ApprovalHistory(ctx, article.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, model.DecisionRejected, history[0].Status)
		assert.Equal(t, "Faltan las fuentes de la segunda parte", history[0].Comments)
		assert.Equal(t, model.DecisionApproved, history[1].Status)
	})
}

func TestApprovalGuards(t *testing.T) {
	_, clientFor := newPortal(t)
	ctx := context.Background()

	reporter, _ := loginAs(t, clientFor, "mgarcia", "reportero")
	editor, _ := loginAs(t, clientFor, "epaez", "editor")

	article, err := reporter.CreateArticle(ctx, model.ArticleInput{
		Title:   "Nota breve de agenda",
		Content: "Actividades culturales programadas para el fin de semana.",
	})
	require.NoError(t, err)
	_, err = reporter.SendToReview(ctx, article.ID)
	require.NoError(t, err)

	t.Run("a reporter cannot decide", func(t *testing.T) {
		_, err := reporter.ProcessApproval(ctx, model.ApprovalRequest{ArticleID: article.ID, Status: model.DecisionApproved})
		require.Error(t, err)
	})

	t.Run("rejection without comments is refused", func(t *testing.T) {
		_, err := editor.ProcessApproval(ctx, model.ApprovalRequest{ArticleID: article.ID, Status: model.DecisionRejected})
		require.Error(t, err)
	})

	t.Run("history of a missing article is not found", func(t *testing.T) {
		_, err := editor.ApprovalHistory(ctx, 9999)
		require.Error(t, err)
		assert.True(t, backend.IsNotFound(err))
	})

	t.Run("pending list requires authentication", func(t *testing.T) {
		_, err := clientFor("").ListPending(ctx)
		require.Error(t, err)
	})
}

func TestAdminUsers(t *testing.T) {
	_, clientFor := newPortal(t)
	ctx := context.Background()

	admin, _ := loginAs(t, clientFor, "admin", "admin")
	reporter, _ := loginAs(t, clientFor, "mgarcia", "reportero")

	t.Run("only administrators reach the surface", func(t *testing.T) {
		_, err := reporter.ListUsers(ctx)
		require.Error(t, err)
	})

	t.Run("create, deactivate and delete", func(t *testing.T) {
		created, err := admin.CreateUser(ctx, model.UserInput{
			Username: "nuevo",
			Password: "secreta",
			Role:     model.RoleReporter,
		})
		require.NoError(t, err)
		assert.True(t, created.Active)

		inactive := false
		updated, err := admin.UpdateUser(ctx, created.UserID, model.UserInput{Active: &inactive})
		require.NoError(t, err)
		assert.False(t, updated.Active)

		_, err = clientFor("").Login(ctx, "nuevo", "secreta")
		require.Error(t, err)
		assert.True(t, backend.IsInactiveAccount(err))

		require.NoError(t, admin.DeleteUser(ctx, created.UserID))
		_, err = clientFor("").Login(ctx, "nuevo", "secreta")
		var pe *backend.Error
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, backend.KindAuthentication, pe.Kind)
	})

	t.Run("seed users are listed", func(t *testing.T) {
		users, err := admin.ListUsers(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(users), 6)
	})
}
