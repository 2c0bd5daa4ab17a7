/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/godmath04/newsfront/internal/auth"
	"github.com/godmath04/newsfront/internal/model"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Resumen personalizado según el rol",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctr, err := newContainer(cmd)
		if err != nil {
			return err
		}
		if err := auth.Guard(ctr.Session()); err != nil {
			return err
		}

		identity := ctr.Session().CurrentIdentity()
		role := identity.PrimaryRole()

		fmt.Printf("Bienvenido, %s\n", color.New(color.Bold).Sprint(identity.Subject))
		fmt.Printf("ID de usuario: %d\n", identity.UserID)
		fmt.Printf("Rol: %s\n", color.New(color.FgCyan).Sprint(role))
		fmt.Printf("Descripción: %s\n", roleDescription(role))

		if perms := rolePermissions(role); len(perms) > 0 {
			fmt.Println("\nPermisos y capacidades:")
			for _, p := range perms {
				fmt.Printf("  ✓ %s\n", p)
			}
		}

		// Sections are personalized by the primary role, but access is
		// always decided against the full role set.
		fmt.Println("\nSecciones disponibles:")
		if ctr.Session().HasRole(model.RoleReporter) {
			fmt.Println("  - newsfront articles      (Mis Articulos)")
		}
		if ctr.Session().HasAnyRole(model.ApproverRoles) {
			fmt.Println("  - newsfront approvals     (Aprobaciones)")
		}
		if ctr.Session().HasRole(model.RoleAdministrator) {
			fmt.Println("  - newsfront admin users   (Gestionar Usuarios)")
		}
		fmt.Println("  - newsfront public        (Artículos publicados)")
		return nil
	},
}

func roleDescription(role string) string {
	switch role {
	case model.RoleReporter:
		return "Puede crear y enviar artículos para revisión"
	case model.RoleEditor:
		return "Puede revisar y aprobar artículos desde perspectiva editorial"
	case model.RoleLegalReviewer:
		return "Puede revisar y aprobar artículos desde perspectiva legal"
	case model.RoleChiefEditor:
		return "Puede dar la aprobación final a los artículos"
	case model.RoleAdministrator:
		return "Puede gestionar usuarios y configuración del sistema"
	default:
		return "Usuario del sistema"
	}
}

func rolePermissions(role string) []string {
	switch role {
	case model.RoleReporter:
		return []string{
			"Crear nuevos artículos",
			"Editar artículos propios",
			"Enviar artículos a revisión",
			"Ver estado de sus artículos",
		}
	case model.RoleEditor, model.RoleLegalReviewer, model.RoleChiefEditor:
		return []string{
			"Ver artículos pendientes de aprobación",
			"Aprobar o rechazar artículos",
			"Ver historial de aprobaciones",
			"Agregar comentarios a artículos",
		}
	case model.RoleAdministrator:
		return []string{
			"Gestionar usuarios del sistema",
			"Crear nuevos usuarios",
			"Activar/desactivar usuarios",
			"Ver todos los artículos del sistema",
		}
	default:
		return nil
	}
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
