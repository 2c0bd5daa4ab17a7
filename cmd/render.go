/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/godmath04/newsfront/internal/model"
	"github.com/godmath04/newsfront/internal/policy"
)

// statusBadge colors a status name the way the web portal styles its
// badges.
func statusBadge(status model.StatusRef) string {
	name := status.DisplayName()
	switch status.ID {
	case model.StatusDraft:
		return color.New(color.FgYellow).Sprint(name)
	case model.StatusPublished:
		return color.New(color.FgGreen).Sprint(name)
	case model.StatusInReview:
		return color.New(color.FgCyan).Sprint(name)
	case model.StatusFlagged:
		return color.New(color.FgRed).Sprint(name)
	default:
		return name
	}
}

// formatDate renders a backend timestamp for display; the raw value is
// shown when it does not parse.
func formatDate(value string) string {
	if value == "" {
		return "N/A"
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("02/01/2006 15:04")
		}
	}
	return value
}

// renderArticleTable prints an article list. actionsFor may be nil; when
// set, its result fills an extra column per article.
func renderArticleTable(articles []model.Article, actionsColumn string, actionsFor func(model.Article) string) {
	header := []string{"ID", "Titulo", "Autor", "Estado", "Fecha"}
	if actionsFor != nil {
		header = append(header, actionsColumn)
	}

	table := tablewriter.NewWriter(os.Stdout)
	_ = table.Append(header)
	for _, a := range articles {
		row := []string{
			strconv.FormatInt(a.ID, 10),
			truncate(a.Title, 48),
			a.Author.DisplayName(),
			statusBadge(a.Status),
			formatDate(a.CreatedAt),
		}
		if actionsFor != nil {
			row = append(row, actionsFor(a))
		}
		_ = table.Append(row)
	}
	_ = table.Render()
}

// ownActions summarizes what the author may currently do with an
// article, straight from the lifecycle predicates.
func ownActions(a model.Article) string {
	var actions []string
	if policy.CanEdit(a.Status.ID) {
		actions = append(actions, "editar")
	}
	if policy.CanSendToReview(a.Status.ID) {
		actions = append(actions, "enviar a revision")
	}
	if policy.CanDelete(a.Status.ID) {
		actions = append(actions, "eliminar")
	}
	if len(actions) == 0 {
		return "-"
	}
	out := actions[0]
	for _, a := range actions[1:] {
		out += ", " + a
	}
	return out
}

// renderArticle prints one article in full.
func renderArticle(a *model.Article) {
	title := color.New(color.Bold).Sprint(a.Title)
	fmt.Printf("%s  [%s]\n", title, statusBadge(a.Status))
	fmt.Printf("Autor: %s\n", a.Author.DisplayName())
	fmt.Printf("Fecha de creacion: %s\n", formatDate(a.CreatedAt))
	fmt.Println()
	fmt.Println(a.Content)
}

// renderHistory prints an article's approval history timeline.
func renderHistory(history []model.ApprovalDecision) {
	if len(history) == 0 {
		fmt.Println("Sin historial de aprobaciones.")
		return
	}
	fmt.Println("Historial de aprobaciones:")
	for _, d := range history {
		mark := color.New(color.FgGreen).Sprint("✓ Aprobado")
		if d.Status == model.DecisionRejected {
			mark = color.New(color.FgRed).Sprint("✗ Rechazado")
		}
		approver := d.ApproverUsername
		if approver == "" {
			approver = "Usuario"
		}
		role := d.RoleName
		if role == "" {
			role = "Rol desconocido"
		}
		fmt.Printf("  %s — %s (%s) %s\n", mark, approver, role, formatDate(d.Timestamp))
		if d.Comments != "" {
			fmt.Printf("    Comentarios: %s\n", d.Comments)
		}
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
