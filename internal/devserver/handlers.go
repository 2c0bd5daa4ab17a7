package devserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/godmath04/newsfront/internal/model"
)

// toUser converts a row to its wire shape (passwords never leave the
// emulator).
func toUser(u *UserRecord) model.User {
	return model.User{
		UserID:    u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Active:    u.Active,
	}
}

// toArticle converts a row to its wire shape, resolving the author ref.
func (s *Server) toArticle(a *ArticleRecord) model.Article {
	author := model.AuthorRef{UserID: a.AuthorID}
	if user, err := s.store.GetUser(a.AuthorID); err == nil {
		author.Username = user.Username
		author.FirstName = user.FirstName
		author.LastName = user.LastName
	}
	status := model.ArticleStatus(a.Status)
	return model.Article{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Author:    author,
		Status:    model.StatusRef{ID: status, Name: status.Name()},
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *Server) toArticles(records []ArticleRecord) []model.Article {
	articles := make([]model.Article, 0, len(records))
	for i := range records {
		articles = append(articles, s.toArticle(&records[i]))
	}
	return articles
}

func toDecision(d *DecisionRecord) model.ApprovalDecision {
	return model.ApprovalDecision{
		ArticleID:        d.ArticleID,
		ApproverUsername: d.ApproverUsername,
		RoleName:         d.RoleName,
		Status:           model.DecisionStatus(d.Status),
		Comments:         d.Comments,
		Timestamp:        d.CreatedAt.Format(time.RFC3339),
	}
}

// fail maps domain errors to the contract's error payloads.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Usuario o contraseña incorrectos"})
	case errors.Is(err, ErrInactiveAccount):
		c.JSON(http.StatusForbidden, gin.H{"message": "Su cuenta ha sido desactivada", "code": "ACCOUNT_INACTIVE"})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Recurso no encontrado"})
	case errors.Is(err, ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"message": "El articulo pertenece a otro autor"})
	case errors.Is(err, ErrNotApprover):
		c.JSON(http.StatusForbidden, gin.H{"message": "Su rol no puede aprobar articulos"})
	case errors.Is(err, ErrNotEditable),
		errors.Is(err, ErrNotDeletable),
		errors.Is(err, ErrNotInReview),
		errors.Is(err, ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"message": capitalize(err.Error())})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al procesar la solicitud"})
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identificador invalido"})
		return 0, false
	}
	return id, true
}

func (s *Server) login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Solicitud invalida"})
		return
	}

	user, err := s.store.Authenticate(req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"userId":   user.ID,
		"username": user.Username,
		"roles":    []gin.H{{"roleName": user.Role}},
	})
}

func (s *Server) getUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := s.store.GetUser(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUser(user))
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.store.ListUsers()
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]model.User, 0, len(users))
	for i := range users {
		out = append(out, toUser(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createUser(c *gin.Context) {
	var input model.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Solicitud invalida"})
		return
	}
	if input.Username == "" || input.Password == "" || input.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Usuario, contraseña y rol son obligatorios"})
		return
	}

	record := &UserRecord{
		Username:  input.Username,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      input.Role,
		Active:    true,
	}
	if input.Active != nil {
		record.Active = *input.Active
	}
	if err := s.store.CreateUser(record); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUser(record))
}

func (s *Server) updateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input model.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Solicitud invalida"})
		return
	}
	user, err := s.store.UpdateUser(id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUser(user))
}

func (s *Server) deleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteUser(id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listPublished(c *gin.Context) {
	records, err := s.store.ListByStatus(model.StatusPublished)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.toArticles(records))
}

func (s *Server) listPending(c *gin.Context) {
	records, err := s.store.ListByStatus(model.StatusInReview)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.toArticles(records))
}

func (s *Server) listByAuthor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	records, err := s.store.ListByAuthor(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.toArticles(records))
}

func (s *Server) getArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	article, err := s.store.GetArticle(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.toArticle(article))
}

func (s *Server) createArticle(c *gin.Context) {
	var input model.ArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Solicitud invalida"})
		return
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Titulo y contenido son obligatorios"})
		return
	}
	article, err := s.store.CreateArticle(c.GetInt64(ctxUserID), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.toArticle(article))
}

func (s *Server) updateArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input model.ArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Solicitud invalida"})
		return
	}
	article, err := s.store.UpdateArticle(id, c.GetInt64(ctxUserID), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.toArticle(article))
}

func (s *Server) deleteArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteArticle(id, c.GetInt64(ctxUserID)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) sendToReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	article, err := s.store.SendToReview(id, c.GetInt64(ctxUserID))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.toArticle(article))
}

func (s *Server) approvalHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	decisions, err := s.store.History(id)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]model.ApprovalDecision, 0, len(decisions))
	for i := range decisions {
		out = append(out, toDecision(&decisions[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) processApproval(c *gin.Context) {
	var req model.ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Solicitud invalida"})
		return
	}
	if req.Status != model.DecisionApproved && req.Status != model.DecisionRejected {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Decision invalida"})
		return
	}
	if req.Status == model.DecisionRejected && strings.TrimSpace(req.Comments) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Un rechazo requiere comentarios"})
		return
	}

	approver, err := s.store.GetUser(c.GetInt64(ctxUserID))
	if err != nil {
		fail(c, err)
		return
	}
	outcome, err := s.store.ProcessDecision(req.ArticleID, approver, string(req.Status), req.Comments)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}
