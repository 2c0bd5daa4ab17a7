/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/godmath04/newsfront/internal/auth"
	"github.com/godmath04/newsfront/internal/model"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administración del portal",
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Gestión de usuarios",
}

var adminUsersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Listar usuarios del sistema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctr, err := newContainer(cmd)
		if err != nil {
			return err
		}
		if err := auth.Guard(ctr.Session(), model.RoleAdministrator); err != nil {
			return err
		}

		users, err := ctr.Client().ListUsers(cmd.Context())
		if err != nil {
			return checkSessionExpiry(ctr, err)
		}

		table := tablewriter.NewWriter(os.Stdout)
		_ = table.Append([]string{"ID", "Usuario", "Nombre", "Rol", "Estado"})
		for _, u := range users {
			state := color.New(color.FgGreen).Sprint("Activo")
			if !u.Active {
				state = color.New(color.FgRed).Sprint("Inactivo")
			}
			_ = table.Append([]string{
				strconv.FormatInt(u.UserID, 10),
				u.Username,
				fullName(u),
				u.Role,
				state,
			})
		}
		_ = table.Render()
		return nil
	},
}

var adminUsersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Crear un usuario",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := userInputFromFlags(cmd, true)
		if err != nil {
			return err
		}
		ctr, err := newContainer(cmd)
		if err != nil {
			return err
		}
		if err := auth.Guard(ctr.Session(), model.RoleAdministrator); err != nil {
			return err
		}

		user, err := ctr.Client().CreateUser(cmd.Context(), input)
		if err != nil {
			return checkSessionExpiry(ctr, err)
		}
		fmt.Printf("Usuario %s creado correctamente (ID %d).\n", user.Username, user.UserID)
		return nil
	},
}

var adminUsersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Actualizar un usuario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		input, err := userInputFromFlags(cmd, false)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("active") {
			active, _ := cmd.Flags().GetBool("active")
			input.Active = &active
		}

		ctr, err := newContainer(cmd)
		if err != nil {
			return err
		}
		if err := auth.Guard(ctr.Session(), model.RoleAdministrator); err != nil {
			return err
		}

		user, err := ctr.Client().UpdateUser(cmd.Context(), id, input)
		if err != nil {
			return checkSessionExpiry(ctr, err)
		}
		state := "activo"
		if !user.Active {
			state = "inactivo"
		}
		fmt.Printf("Usuario %s actualizado correctamente (%s).\n", user.Username, state)
		return nil
	},
}

var adminUsersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Eliminar un usuario",
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
		if err := auth.Guard(ctr.Session(), model.RoleAdministrator); err != nil {
			return err
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			if !confirm(fmt.Sprintf("¿Eliminar el usuario %d?", id)) {
				fmt.Println("Operación cancelada.")
				return nil
			}
		}

		if err := ctr.Client().DeleteUser(cmd.Context(), id); err != nil {
			return checkSessionExpiry(ctr, err)
		}
		fmt.Println("Usuario eliminado correctamente.")
		return nil
	},
}

// userInputFromFlags collects the user fields. Username and role are
// mandatory on create; updates may send any subset.
func userInputFromFlags(cmd *cobra.Command, creating bool) (model.UserInput, error) {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	firstName, _ := cmd.Flags().GetString("first-name")
	lastName, _ := cmd.Flags().GetString("last-name")
	role, _ := cmd.Flags().GetString("role")

	if creating {
		if username == "" {
			return model.UserInput{}, errors.New("el nombre de usuario es requerido (--username)")
		}
		if password == "" {
			return model.UserInput{}, errors.New("la contraseña es requerida (--password)")
		}
		if role == "" {
			return model.UserInput{}, errors.New("el rol es requerido (--role)")
		}
	}
	if role != "" && !knownRole(role) {
		return model.UserInput{}, fmt.Errorf("rol desconocido: %q", role)
	}

	return model.UserInput{
		Username:  username,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}, nil
}

func knownRole(role string) bool {
	switch role {
	case model.RoleReporter, model.RoleEditor, model.RoleLegalReviewer,
		model.RoleChiefEditor, model.RoleAdministrator:
		return true
	}
	return false
}

func fullName(u model.User) string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return "-"
	}
}

func init() {
	for _, c := range []*cobra.Command{adminUsersCreateCmd, adminUsersUpdateCmd} {
		c.Flags().String("username", "", "Nombre de usuario")
		c.Flags().String("password", "", "Contraseña")
		c.Flags().String("first-name", "", "Nombre")
		c.Flags().String("last-name", "", "Apellido")
		c.Flags().String("role", "", "Rol del usuario")
	}
	adminUsersUpdateCmd.Flags().Bool("active", true, "Activar o desactivar la cuenta")
	adminUsersDeleteCmd.Flags().BoolP("yes", "y", false, "No pedir confirmación")

	adminUsersCmd.AddCommand(adminUsersListCmd)
	adminUsersCmd.AddCommand(adminUsersCreateCmd)
	adminUsersCmd.AddCommand(adminUsersUpdateCmd)
	adminUsersCmd.AddCommand(adminUsersDeleteCmd)
	adminCmd.AddCommand(adminUsersCmd)
	rootCmd.AddCommand(adminCmd)
}
