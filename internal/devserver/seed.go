package devserver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/godmath04/newsfront/internal/model"
)

// SeedFile is the YAML fixture format the emulator loads at startup.
type SeedFile struct {
	Users    []SeedUser    `yaml:"users"`
	Articles []SeedArticle `yaml:"articles"`
}

// SeedUser describes one account.
type SeedUser struct {
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
	Role      string `yaml:"role"`
	Inactive  bool   `yaml:"inactive"`
}

// SeedArticle describes one article; Author refers to a seed user by
// username.
type SeedArticle struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
	Author  string `yaml:"author"`
	Status  int    `yaml:"status"`
}

// DefaultSeed is the fixture used when no seed file is configured: one
// account per role plus a couple of articles to click through.
func DefaultSeed() *SeedFile {
	return &SeedFile{
		Users: []SeedUser{
			{Username: "mgarcia", Password: "reportero", FirstName: "María", LastName: "García", Role: model.RoleReporter},
			{Username: "epaez", Password: "editor", FirstName: "Ernesto", LastName: "Páez", Role: model.RoleEditor},
			{Username: "lruiz", Password: "legal", FirstName: "Lucía", LastName: "Ruiz", Role: model.RoleLegalReviewer},
			{Username: "jsoto", Password: "jefe", FirstName: "Julián", LastName: "Soto", Role: model.RoleChiefEditor},
			{Username: "admin", Password: "admin", Role: model.RoleAdministrator},
			{Username: "inactivo", Password: "inactivo", Role: model.RoleReporter, Inactive: true},
		},
		Articles: []SeedArticle{
			{
				Title:   "La feria del libro vuelve al centro",
				Content: "Tras dos años de pausa, la feria del libro regresa con más de cien expositores.",
				Author:  "mgarcia",
				Status:  int(model.StatusDraft),
			},
			{
				Title:   "El ayuntamiento aprueba el presupuesto",
				Content: "El pleno aprobó ayer el presupuesto municipal con los votos de la mayoría.",
				Author:  "mgarcia",
				Status:  int(model.StatusInReview),
			},
			{
				Title:   "Resultados de la liga regional",
				Content: "La jornada dejó sorpresas en la parte alta de la clasificación.",
				Author:  "mgarcia",
				Status:  int(model.StatusPublished),
			},
		},
	}
}

// LoadSeedFile parses a YAML fixture from disk.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &seed, nil
}

// Apply loads the fixture into the store. Articles in review start at
// round one so decisions can be recorded against them.
func (s *Store) Apply(seed *SeedFile) error {
	authors := make(map[string]int64, len(seed.Users))
	for _, u := range seed.Users {
		record := &UserRecord{
			Username:  u.Username,
			Password:  u.Password,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Role:      u.Role,
			Active:    !u.Inactive,
		}
		if err := s.CreateUser(record); err != nil {
			return fmt.Errorf("failed to seed user %q: %w", u.Username, err)
		}
		authors[u.Username] = record.ID
	}

	for _, a := range seed.Articles {
		authorID, ok := authors[a.Author]
		if !ok {
			return fmt.Errorf("seed article %q references unknown author %q", a.Title, a.Author)
		}
		status := a.Status
		if status == 0 {
			status = int(model.StatusDraft)
		}
		record := &ArticleRecord{
			Title:    a.Title,
			Content:  a.Content,
			AuthorID: authorID,
			Status:   status,
		}
		if status == int(model.StatusInReview) {
			record.ReviewRound = 1
		}
		if err := s.db.Create(record).Error; err != nil {
			return fmt.Errorf("failed to seed article %q: %w", a.Title, err)
		}
	}
	return nil
}
