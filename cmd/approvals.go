/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/godmath04/newsfront/internal/auth"
	"github.com/godmath04/newsfront/internal/model"
	"github.com/godmath04/newsfront/internal/review"
)

var approvalsCmd = &cobra.Command{
	Use:   "approvals",
	Short: "Revisión y aprobación de artículos",
}

var approvalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Listar artículos pendientes de aprobación",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctr, err := newContainer(cmd)
		if err != nil {
			return err
		}
		if err := auth.Guard(ctr.Session(), model.ApproverRoles...); err != nil {
			return err
		}

		pending, err := ctr.Client().ListPending(cmd.Context())
		if err != nil {
			return checkSessionExpiry(ctr, err)
		}
		if len(pending) == 0 {
			fmt.Println("No hay artículos pendientes de aprobación.")
			return nil
		}

		role := ctr.Session().CurrentIdentity().PrimaryRole()
		reviewed := review.ReviewedMap(cmd.Context(), ctr.Client(), pending, role)
		renderArticleTable(pending, "Revisión", func(a model.Article) string {
			if reviewed[a.ID] {
				return color.New(color.FgGreen).Sprint("Ya revisado")
			}
			return "Pendiente"
		})
		return nil
	},
}

var approvalsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Ver un artículo con su historial de aprobaciones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctr, err := newContainer(cmd)
		if err != nil {
			return err
		}
		if err := auth.Guard(ctr.Session(), model.ApproverRoles...); err != nil {
			return err
		}

		article, err := ctr.Client().GetArticle(cmd.Context(), id)
		if err != nil {
			return checkSessionExpiry(ctr, err)
		}
		renderArticle(article)
		fmt.Println()

		history, err := ctr.Client().ApprovalHistory(cmd.Context(), id)
		if err != nil {
			// History is supplementary; the article view stands without it.
			history = nil
		}
		renderHistory(history)

		role := ctr.Session().CurrentIdentity().PrimaryRole()
		if review.StateFor(history, role) == review.Reviewed {
			fmt.Printf("\nUsted ya revisó este artículo como %s.\n", role)
		} else if article.Status.ID == model.StatusInReview {
			fmt.Printf("\nPendiente de su revisión. Decida con: newsfront approvals decide %d --approve|--reject\n", id)
		}
		return nil
	},
}

var approvalsDecideCmd = &cobra.Command{
	Use:   "decide <id>",
	Short: "Aprobar o rechazar un artículo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		approve, _ := cmd.Flags().GetBool("approve")
		reject, _ := cmd.Flags().GetBool("reject")
		comments, _ := cmd.Flags().GetString("comments")
		if approve && reject {
			return errors.New("indique solo una acción: --approve o --reject")
		}

		var status model.DecisionStatus
		switch {
		case approve:
			status = model.DecisionApproved
		case reject:
			status = model.DecisionRejected
		}

		ctr, err := newContainer(cmd)
		if err != nil {
			return err
		}
		if err := auth.Guard(ctr.Session(), model.ApproverRoles...); err != nil {
			return err
		}

		article, err := ctr.Client().GetArticle(cmd.Context(), id)
		if err != nil {
			return checkSessionExpiry(ctr, err)
		}
		if article.Status.ID != model.StatusInReview {
			return fmt.Errorf("el artículo no está en revisión (estado actual: %s)", article.Status.DisplayName())
		}

		role := ctr.Session().CurrentIdentity().PrimaryRole()
		if review.StateOf(cmd.Context(), ctr.Client(), id, role) == review.Reviewed {
			return fmt.Errorf("usted ya revisó este artículo como %s", role)
		}

		outcome, err := review.Submit(cmd.Context(), ctr.Client(), review.Decision{
			ArticleID: id,
			Status:    status,
			Comments:  comments,
		})
		if err != nil {
			return checkSessionExpiry(ctr, err)
		}

		fmt.Println(review.OutcomeMessage(status, outcome))
		return nil
	},
}

func init() {
	approvalsDecideCmd.Flags().Bool("approve", false, "Aprobar el artículo")
	approvalsDecideCmd.Flags().Bool("reject", false, "Rechazar el artículo (requiere --comments)")
	approvalsDecideCmd.Flags().StringP("comments", "c", "", "Comentarios de la revisión")

	approvalsCmd.AddCommand(approvalsListCmd)
	approvalsCmd.AddCommand(approvalsShowCmd)
	approvalsCmd.AddCommand(approvalsDecideCmd)
	rootCmd.AddCommand(approvalsCmd)
}
