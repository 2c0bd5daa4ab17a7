package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godmath04/newsfront/internal/backend"
	"github.com/godmath04/newsfront/internal/config"
	"github.com/godmath04/newsfront/internal/logging"
	"github.com/godmath04/newsfront/internal/model"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func clientAgainst(srv *httptest.Server, token string) *backend.Client {
	cfg := &config.BackendConfig{AuthURL: srv.URL, ArticleURL: srv.URL, TimeoutSec: 5}
	return backend.NewClient(cfg, staticToken(token), logging.Quiet())
}

func TestErrorNormalization(t *testing.T) {
	ctx := context.Background()

	t.Run("payload message is surfaced verbatim", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message": "La base de datos no responde"}`))
		}))
		defer srv.Close()

		_, err := clientAgainst(srv, "tok").GetArticle(ctx, 1)
		var pe *backend.Error
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "La base de datos no responde", pe.Message)
		assert.Equal(t, http.StatusInternalServerError, pe.StatusCode)
	})

	t.Run("bare string bodies are accepted too", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("algo fallo en el servidor"))
		}))
		defer srv.Close()

		_, err := clientAgainst(srv, "tok").GetArticle(ctx, 1)
		var pe *backend.Error
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "algo fallo en el servidor", pe.Message)
	})

	t.Run("empty body falls back to the generic message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := clientAgainst(srv, "tok").GetArticle(ctx, 1)
		require.EqualError(t, err, "Error al procesar la solicitud")
	})

	t.Run("rejected credential outside login expires the session", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message": "token invalido"}`))
		}))
		defer srv.Close()

		_, err := clientAgainst(srv, "expired").ListPending(ctx)
		assert.True(t, backend.IsSessionExpired(err))
		require.EqualError(t, err, "Su sesión ha expirado. Inicie sesión nuevamente")
	})

	t.Run("401 on login is bad credentials, never session expiry", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message": "Usuario o contraseña incorrectos"}`))
		}))
		defer srv.Close()

		_, err := clientAgainst(srv, "").Login(ctx, "u", "p")
		var pe *backend.Error
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, backend.KindAuthentication, pe.Kind)
		assert.False(t, backend.IsSessionExpired(err))
	})

	t.Run("missing and forbidden resources are not found", func(t *testing.T) {
		for _, status := range []int{http.StatusNotFound, http.StatusForbidden} {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			_, err := clientAgainst(srv, "tok").GetArticle(ctx, 1)
			assert.True(t, backend.IsNotFound(err), "status %d", status)
			srv.Close()
		}
	})

	t.Run("unreachable backend is a transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // nothing listens anymore

		_, err := clientAgainst(srv, "").ListPublished(ctx)
		var pe *backend.Error
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, backend.KindTransport, pe.Kind)
		assert.Equal(t, "No se pudo conectar con el servidor", pe.Message)
		assert.Zero(t, pe.StatusCode)
	})
}

func TestInactiveAccountClassification(t *testing.T) {
	ctx := context.Background()

	t.Run("structured code is authoritative", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message": "Cuenta suspendida", "code": "ACCOUNT_INACTIVE"}`))
		}))
		defer srv.Close()

		_, err := clientAgainst(srv, "").Login(ctx, "u", "p")
		assert.True(t, backend.IsInactiveAccount(err))
	})

	t.Run("message substring is the fallback", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message": "Su cuenta ha sido desactivada"}`))
		}))
		defer srv.Close()

		_, err := clientAgainst(srv, "").Login(ctx, "u", "p")
		assert.True(t, backend.IsInactiveAccount(err))
	})

	t.Run("plain bad credentials are not inactive", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message": "Usuario o contraseña incorrectos"}`))
		}))
		defer srv.Close()

		_, err := clientAgainst(srv, "").Login(ctx, "u", "p")
		assert.False(t, backend.IsInactiveAccount(err))
	})
}

func TestAuthorizationHeader(t *testing.T) {
	ctx := context.Background()

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	t.Run("bearer token on authenticated calls", func(t *testing.T) {
		_, err := clientAgainst(srv, "abc123").ListPending(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Bearer abc123", got)
	})

	t.Run("no header without a token", func(t *testing.T) {
		_, err := clientAgainst(srv, "").ListPending(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("public calls never send the credential", func(t *testing.T) {
		_, err := clientAgainst(srv, "abc123").ListPublished(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestRequestShapes(t *testing.T) {
	ctx := context.Background()

	t.Run("send to review is a bodyless PUT", func(t *testing.T) {
		var method, path string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method, path = r.Method, r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"idArticle": 7, "status": {"idArticleStatus": 3, "statusName": "En Revision"}}`))
		}))
		defer srv.Close()

		article, err := clientAgainst(srv, "tok").SendToReview(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, method)
		assert.Equal(t, "/api/v1/articles/7/send-to-review", path)
		assert.Equal(t, model.StatusInReview, article.Status.ID)
	})

	t.Run("blank comments are omitted from the approval payload", func(t *testing.T) {
		var body string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			buf := make([]byte, 1024)
			n, _ := r.Body.Read(buf)
			body = string(buf[:n])
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		_, err := clientAgainst(srv, "tok").ProcessApproval(ctx, model.ApprovalRequest{
			ArticleID: 7,
			Status:    model.DecisionApproved,
		})
		require.NoError(t, err)
		assert.NotContains(t, body, "comments")
	})
}
