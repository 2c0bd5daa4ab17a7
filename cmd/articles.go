/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/godmath04/newsfront/internal/auth"
	"github.com/godmath04/newsfront/internal/container"
	"github.com/godmath04/newsfront/internal/model"
	"github.com/godmath04/newsfront/internal/policy"
)

// Form limits mirrored from the portal's article form.
const (
	titleMinLen   = 5
	titleMaxLen   = 200
	contentMinLen = 20
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Gestión de artículos propios",
}

var articlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Listar mis artículos",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctr, err := newContainer(cmd)
		if err != nil {
			return err
		}
		if err := auth.Guard(ctr.Session()); err != nil {
			return err
		}

		identity := ctr.Session().CurrentIdentity()
		articles, err := ctr.Client().ListByAuthor(cmd.Context(), identity.UserID)
		if err != nil {
			return checkSessionExpiry(ctr, err)
		}
		if len(articles) == 0 {
			fmt.Println("No tiene artículos todavía. Cree uno con: newsfront articles create")
			return nil
		}
		renderArticleTable(articles, "Acciones", ownActions)
		return nil
	},
}

var articlesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Ver un artículo propio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctr, err := newContainer(cmd)
		if err != nil {
			return err
		}
		if err := auth.Guard(ctr.Session()); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		article, err := ctr.Client().GetArticle(cmd.Context(), id)
		if err != nil {
			return checkSessionExpiry(ctr, err)
		}
		renderArticle(article)

		if policy.Owns(ctr.Session().CurrentIdentity().UserID, article) {
			if actions := ownActions(*article); actions != "-" {
				fmt.Printf("\nAcciones disponibles: %s\n", actions)
			}
		}
		return nil
	},
}

var articlesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Crear un artículo en borrador",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")
		input, err := articleInput(title, content)
		if err != nil {
			return err
		}

		ctr, err := newContainer(cmd)
		if err != nil {
			return err
		}
		if err := auth.Guard(ctr.Session()); err != nil {
			return err
		}

		article, err := ctr.Client().CreateArticle(cmd.Context(), input)
		if err != nil {
			return checkSessionExpiry(ctr, err)
		}
		fmt.Printf("Artículo creado correctamente (ID %d, estado %s).\n", article.ID, article.Status.DisplayName())
		return nil
	},
}

var articlesEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Editar un artículo en borrador o marcado",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")
		input, err := articleInput(title, content)
		if err != nil {
			return err
		}

		ctr, err := newContainer(cmd)
		if err != nil {
			return err
		}
		if err := auth.Guard(ctr.Session()); err != nil {
			return err
		}

		// Permissions are decided against fresh state, never a cached
		// copy.
		article, err := ctr.Client().GetArticle(cmd.Context(), id)
		if err != nil {
			return checkSessionExpiry(ctr, err)
		}
		if err := requireOwnership(ctr, article); err != nil {
			return err
		}
		if !policy.CanEdit(article.Status.ID) {
			return fmt.Errorf("el artículo no puede editarse en su estado actual (%s)", article.Status.DisplayName())
		}

		updated, err := ctr.Client().UpdateArticle(cmd.Context(), id, input)
		if err != nil {
			return checkSessionExpiry(ctr, err)
		}
		fmt.Printf("Artículo %d actualizado correctamente (estado %s).\n", updated.ID, updated.Status.DisplayName())
		return nil
	},
}

var articlesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Eliminar un borrador",
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
		if err := auth.Guard(ctr.Session()); err != nil {
			return err
		}

		article, err := ctr.Client().GetArticle(cmd.Context(), id)
		if err != nil {
			return checkSessionExpiry(ctr, err)
		}
		if err := requireOwnership(ctr, article); err != nil {
			return err
		}
		if !policy.CanDelete(article.Status.ID) {
			return fmt.Errorf("solo los borradores pueden eliminarse; el artículo está en estado %s", article.Status.DisplayName())
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			if !confirm(fmt.Sprintf("¿Eliminar el artículo %q?", article.Title)) {
				fmt.Println("Operación cancelada.")
				return nil
			}
		}

		if err := ctr.Client().DeleteArticle(cmd.Context(), id); err != nil {
			return checkSessionExpiry(ctr, err)
		}
		fmt.Println("Artículo eliminado correctamente.")
		return nil
	},
}

var articlesSendCmd = &cobra.Command{
	Use:   "send-to-review <id>",
	Short: "Enviar un artículo a revisión",
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
		if err := auth.Guard(ctr.Session()); err != nil {
			return err
		}

		article, err := ctr.Client().GetArticle(cmd.Context(), id)
		if err != nil {
			return checkSessionExpiry(ctr, err)
		}
		if err := requireOwnership(ctr, article); err != nil {
			return err
		}
		if !policy.CanSendToReview(article.Status.ID) {
			return fmt.Errorf("el artículo no puede enviarse a revisión en su estado actual (%s)", article.Status.DisplayName())
		}

		updated, err := ctr.Client().SendToReview(cmd.Context(), id)
		if err != nil {
			return checkSessionExpiry(ctr, err)
		}
		fmt.Printf("Artículo enviado a revisión (estado %s).\n", updated.Status.DisplayName())
		return nil
	},
}

// articleInput validates the form fields locally; a failure never
// reaches the backend.
func articleInput(title, content string) (model.ArticleInput, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	switch {
	case title == "":
		return model.ArticleInput{}, errors.New("el título es requerido (--title)")
	case len([]rune(title)) < titleMinLen:
		return model.ArticleInput{}, fmt.Errorf("título: mínimo %d caracteres", titleMinLen)
	case len([]rune(title)) > titleMaxLen:
		return model.ArticleInput{}, fmt.Errorf("título: máximo %d caracteres", titleMaxLen)
	case content == "":
		return model.ArticleInput{}, errors.New("el contenido es requerido (--content)")
	case len([]rune(content)) < contentMinLen:
		return model.ArticleInput{}, fmt.Errorf("contenido: mínimo %d caracteres", contentMinLen)
	}
	return model.ArticleInput{Title: title, Content: content}, nil
}

func requireOwnership(ctr *container.Container, article *model.Article) error {
	if !policy.Owns(ctr.Session().CurrentIdentity().UserID, article) {
		return errors.New("solo puede modificar sus propios artículos")
	}
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("identificador de artículo inválido: %q", arg)
	}
	return id, nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [s/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "s" || answer == "si" || answer == "sí"
}

func init() {
	articlesCreateCmd.Flags().String("title", "", "Título del artículo")
	articlesCreateCmd.Flags().String("content", "", "Contenido del artículo")
	articlesEditCmd.Flags().String("title", "", "Nuevo título")
	articlesEditCmd.Flags().String("content", "", "Nuevo contenido")
	articlesDeleteCmd.Flags().BoolP("yes", "y", false, "No pedir confirmación")

	articlesCmd.AddCommand(articlesListCmd)
	articlesCmd.AddCommand(articlesShowCmd)
	articlesCmd.AddCommand(articlesCreateCmd)
	articlesCmd.AddCommand(articlesEditCmd)
	articlesCmd.AddCommand(articlesDeleteCmd)
	articlesCmd.AddCommand(articlesSendCmd)
	rootCmd.AddCommand(articlesCmd)
}
