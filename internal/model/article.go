package model

// ArticleStatus identifies one of the four lifecycle states an article
// moves through. The backend owns all transitions; the client only reads
// the value and maps it to permitted actions.
type ArticleStatus int

const (
	StatusDraft     ArticleStatus = 1 // Borrador
	StatusPublished ArticleStatus = 2 // Publicado
	StatusInReview  ArticleStatus = 3 // En Revision
	StatusFlagged   ArticleStatus = 4 // Marcado
)

// Name returns the display name of the status in the portal's language.
func (s ArticleStatus) Name() string {
	switch s {
	case StatusDraft:
		return "Borrador"
	case StatusPublished:
		return "Publicado"
	case StatusInReview:
		return "En Revision"
	case StatusFlagged:
		return "Marcado"
	default:
		return "Desconocido"
	}
}

// StatusRef is the status object as the article service serializes it.
type StatusRef struct {
	ID   ArticleStatus `json:"idArticleStatus"`
	Name string        `json:"statusName,omitempty"`
}

// DisplayName prefers the server-provided name over the local mapping.
func (s StatusRef) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID.Name()
}

// AuthorRef is the author subobject embedded in an article.
type AuthorRef struct {
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// DisplayName renders "firstName lastName", falling back to the username.
func (a AuthorRef) DisplayName() string {
	name := a.FirstName
	if a.LastName != "" {
		if name != "" {
			name += " "
		}
		name += a.LastName
	}
	if name != "" {
		return name
	}
	if a.Username != "" {
		return a.Username
	}
	return "Desconocido"
}

// Article is the client-side copy of an article. It is always re-fetched,
// never cached across navigations.
//
// Timestamps stay as raw strings: the article service emits them without a
// fixed zone format and the client only ever formats them for display.
type Article struct {
	ID        int64     `json:"idArticle"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    AuthorRef `json:"author"`
	Status    StatusRef `json:"status"`
	CreatedAt string    `json:"createdAt,omitempty"`
	UpdatedAt string    `json:"updatedAt,omitempty"`
}

// ArticleInput is the payload for creating or updating an article.
type ArticleInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
