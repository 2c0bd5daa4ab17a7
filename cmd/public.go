/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// The public surface needs no session: anyone can read what is
// published.
var publicCmd = &cobra.Command{
	Use:   "public",
	Short: "Artículos publicados (sin autenticación)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctr, err := newContainer(cmd)
		if err != nil {
			return err
		}
		articles, err := ctr.Client().ListPublished(cmd.Context())
		if err != nil {
			return err
		}
		if len(articles) == 0 {
			fmt.Println("Aún no hay artículos publicados.")
			return nil
		}
		renderArticleTable(articles, "", nil)
		return nil
	},
}

var publicShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Leer un artículo publicado",
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
		article, err := ctr.Client().GetPublicArticle(cmd.Context(), id)
		if err != nil {
			return err
		}
		renderArticle(article)
		return nil
	},
}

func init() {
	publicCmd.AddCommand(publicShowCmd)
	rootCmd.AddCommand(publicCmd)
}
