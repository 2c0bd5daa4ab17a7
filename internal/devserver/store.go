// Package devserver is a local, sqlite-backed emulator of the portal's
// backend services. It exists for offline development and for
// integration-testing the client against the real contract: it owns the
// authoritative status transitions and the approval-percentage
// computation the production backend performs.
package devserver

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/godmath04/newsfront/internal/model"
)

// Domain failures the handlers map to HTTP responses.
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrBadCredentials  = errors.New("usuario o contraseña incorrectos")
	ErrInactiveAccount = errors.New("su cuenta ha sido desactivada")
	ErrNotOwner        = errors.New("el articulo pertenece a otro autor")
	ErrNotEditable     = errors.New("el articulo no puede modificarse en su estado actual")
	ErrNotDeletable    = errors.New("solo los borradores pueden eliminarse")
	ErrNotInReview     = errors.New("el articulo no esta en revision")
	ErrAlreadyReviewed = errors.New("su rol ya ha revisado este articulo")
	ErrNotApprover     = errors.New("su rol no puede aprobar articulos")
)

// approverQuorum is how many distinct approver roles must approve before
// an article publishes.
const approverQuorum = 3

// UserRecord is an account row.
type UserRecord struct {
	ID        int64  `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:64;not null"`
	Password  string `gorm:"size:128;not null"` // plaintext; emulator only
	FirstName string `gorm:"size:64"`
	LastName  string `gorm:"size:64"`
	Role      string `gorm:"size:32;not null"`
	Active    bool   `gorm:"not null;default:true"`
}

func (UserRecord) TableName() string { return "users" }

// ArticleRecord is an article row. ReviewRound increments every time the
// article re-enters review, so one role may decide once per round.
type ArticleRecord struct {
	ID          int64  `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null"`
	Content     string `gorm:"type:text;not null"`
	AuthorID    int64  `gorm:"index;not null"`
	Status      int    `gorm:"not null"`
	ReviewRound int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ArticleRecord) TableName() string { return "articles" }

// DecisionRecord is one approval-history entry. Append-only.
type DecisionRecord struct {
	ID               int64  `gorm:"primaryKey"`
	ArticleID        int64  `gorm:"index;not null"`
	Round            int    `gorm:"not null"`
	ApproverUsername string `gorm:"size:64;not null"`
	RoleName         string `gorm:"size:32;not null"`
	Status           string `gorm:"size:16;not null"`
	Comments         string `gorm:"type:text"`
	CreatedAt        time.Time
}

func (DecisionRecord) TableName() string { return "approval_decisions" }

// Store wraps the emulator's database.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (and migrates) the sqlite database at path. Use
// ":memory:" for an ephemeral store.
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&UserRecord{}, &ArticleRecord{}, &DecisionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// Authenticate checks a credential pair. Deactivated accounts fail with
// ErrInactiveAccount so the client can distinguish the two login
// failures.
func (s *Store) Authenticate(username, password string) (*UserRecord, error) {
	var user UserRecord
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.Password != password {
		return nil, ErrBadCredentials
	}
	if !user.Active {
		return nil, ErrInactiveAccount
	}
	return &user, nil
}

// GetUser fetches one account.
func (s *Store) GetUser(id int64) (*UserRecord, error) {
	var user UserRecord
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &user, err
}

// ListUsers returns every account.
func (s *Store) ListUsers() ([]UserRecord, error) {
	var users []UserRecord
	err := s.db.Order("id").Find(&users).Error
	return users, err
}

// CreateUser inserts an account.
func (s *Store) CreateUser(user *UserRecord) error {
	return s.db.Create(user).Error
}

// UpdateUser applies the non-zero fields of input to an account.
func (s *Store) UpdateUser(id int64, input model.UserInput) (*UserRecord, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Password != "" {
		user.Password = input.Password
	}
	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Role != "" {
		user.Role = input.Role
	}
	if input.Active != nil {
		user.Active = *input.Active
	}
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account.
func (s *Store) DeleteUser(id int64) error {
	res := s.db.Delete(&UserRecord{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetArticle fetches one article.
func (s *Store) GetArticle(id int64) (*ArticleRecord, error) {
	var article ArticleRecord
	err := s.db.First(&article, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &article, err
}

// ListByStatus returns articles in the given status, oldest first.
func (s *Store) ListByStatus(status model.ArticleStatus) ([]ArticleRecord, error) {
	var articles []ArticleRecord
	err := s.db.Where("status = ?", int(status)).Order("id").Find(&articles).Error
	return articles, err
}

// ListByAuthor returns an author's articles, oldest first.
func (s *Store) ListByAuthor(authorID int64) ([]ArticleRecord, error) {
	var articles []ArticleRecord
	err := s.db.Where("author_id = ?", authorID).Order("id").Find(&articles).Error
	return articles, err
}

// CreateArticle inserts a new draft for the given author.
func (s *Store) CreateArticle(authorID int64, input model.ArticleInput) (*ArticleRecord, error) {
	article := &ArticleRecord{
		Title:    input.Title,
		Content:  input.Content,
		AuthorID: authorID,
		Status:   int(model.StatusDraft),
	}
	if err := s.db.Create(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

// UpdateArticle rewrites title and content. Only the author may edit,
// and only in an editable status.
func (s *Store) UpdateArticle(id, actorID int64, input model.ArticleInput) (*ArticleRecord, error) {
	article, err := s.GetArticle(id)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != actorID {
		return nil, ErrNotOwner
	}
	if !editable(article.Status) {
		return nil, ErrNotEditable
	}
	article.Title = input.Title
	article.Content = input.Content
	if err := s.db.Save(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

// DeleteArticle removes a draft. Flagged articles cannot be deleted,
// only revised.
func (s *Store) DeleteArticle(id, actorID int64) error {
	article, err := s.GetArticle(id)
	if err != nil {
		return err
	}
	if article.AuthorID != actorID {
		return ErrNotOwner
	}
	if article.Status != int(model.StatusDraft) {
		return ErrNotDeletable
	}
	return s.db.Delete(article).Error
}

// SendToReview moves a draft or flagged article into review and opens a
// new review round.
func (s *Store) SendToReview(id, actorID int64) (*ArticleRecord, error) {
	article, err := s.GetArticle(id)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != actorID {
		return nil, ErrNotOwner
	}
	if !editable(article.Status) {
		return nil, ErrNotEditable
	}
	article.Status = int(model.StatusInReview)
	article.ReviewRound++
	if err := s.db.Save(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

// History returns an article's full decision history, all rounds, oldest
// first.
func (s *Store) History(articleID int64) ([]DecisionRecord, error) {
	if _, err := s.GetArticle(articleID); err != nil {
		return nil, err
	}
	var decisions []DecisionRecord
	err := s.db.Where("article_id = ?", articleID).Order("id").Find(&decisions).Error
	return decisions, err
}

// ProcessDecision appends a decision and applies the authoritative
// transition: any rejection flags the article; a full quorum of approver
// roles publishes it. The reported percentage is the share of the quorum
// that has approved in the current round.
func (s *Store) ProcessDecision(articleID int64, approver *UserRecord, status, comments string) (*model.ApprovalOutcome, error) {
	if !model.IsApproverRole(approver.Role) {
		return nil, ErrNotApprover
	}

	article, err := s.GetArticle(articleID)
	if err != nil {
		return nil, err
	}
	if article.Status != int(model.StatusInReview) {
		return nil, ErrNotInReview
	}

	var outcome *model.ApprovalOutcome
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&DecisionRecord{}).
			Where("article_id = ? AND round = ? AND role_name = ?", articleID, article.ReviewRound, approver.Role).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyReviewed
		}

		decision := &DecisionRecord{
			ArticleID:        articleID,
			Round:            article.ReviewRound,
			ApproverUsername: approver.Username,
			RoleName:         approver.Role,
			Status:           status,
			Comments:         comments,
		}
		if err := tx.Create(decision).Error; err != nil {
			return err
		}

		var approvals int64
		err = tx.Model(&DecisionRecord{}).
			Where("article_id = ? AND round = ? AND status = ?", articleID, article.ReviewRound, string(model.DecisionApproved)).
			Count(&approvals).Error
		if err != nil {
			return err
		}

		switch {
		case status == string(model.DecisionRejected):
			article.Status = int(model.StatusFlagged)
		case approvals >= approverQuorum:
			article.Status = int(model.StatusPublished)
		}
		if err := tx.Save(article).Error; err != nil {
			return err
		}

		pct := math.Round(float64(approvals)/approverQuorum*10000) / 100
		outcome = &model.ApprovalOutcome{
			CurrentApprovalPercentage: &pct,
			ArticleStatus:             model.ArticleStatus(article.Status).Name(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func editable(status int) bool {
	return status == int(model.StatusDraft) || status == int(model.StatusFlagged)
}
