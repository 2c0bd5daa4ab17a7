/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/godmath04/newsfront/internal/auth"
	"github.com/godmath04/newsfront/internal/backend"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Iniciar sesión en el portal",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		if username == "" || password == "" {
			return errors.New("por favor ingrese usuario y contraseña (--username, --password)")
		}

		ctr, err := newContainer(cmd)
		if err != nil {
			return err
		}

		identity, err := ctr.Session().Login(cmd.Context(), username, password)
		if err != nil {
			// An inactive account gets its own explanation; every other
			// authentication failure collapses to bad credentials.
			if backend.IsInactiveAccount(err) {
				return errors.New("usuario inactivo: su cuenta ha sido desactivada, por favor contacte al administrador")
			}
			var pe *backend.Error
			if errors.As(err, &pe) && pe.Kind == backend.KindAuthentication {
				return errors.New("usuario o contraseña incorrectos")
			}
			return err
		}

		fmt.Printf("Bienvenido, %s\n", identity.Subject)
		if role := identity.PrimaryRole(); role != "" {
			fmt.Printf("Rol: %s\n", role)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Cerrar la sesión actual",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctr, err := newContainer(cmd)
		if err != nil {
			return err
		}
		if err := ctr.Session().Logout(); err != nil {
			return err
		}
		fmt.Println("Sesión cerrada.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Mostrar la identidad autenticada",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctr, err := newContainer(cmd)
		if err != nil {
			return err
		}
		if err := auth.Guard(ctr.Session()); err != nil {
			return err
		}

		identity := ctr.Session().CurrentIdentity()
		fmt.Printf("Usuario: %s\n", identity.Subject)
		fmt.Printf("ID de usuario: %s\n", strconv.FormatInt(identity.UserID, 10))
		for i, role := range identity.Roles {
			label := "Rol"
			if i > 0 {
				label = "Rol adicional"
			}
			fmt.Printf("%s: %s\n", label, role.Name)
		}
		if identity.ExpiresAt != nil {
			fmt.Printf("La sesión expira: %s\n", identity.ExpiresAt.Format("02/01/2006 15:04"))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("username", "u", "", "Usuario")
	loginCmd.Flags().StringP("password", "p", "", "Contraseña")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
