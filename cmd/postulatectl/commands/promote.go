package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"postulate-api/cmd/postulatectl/output"
	"postulate-api/models"
	"postulate-api/repository"
	"postulate-api/utils"

	"github.com/spf13/cobra"
)

var promoteRole string

var promoteCmd = &cobra.Command{
	Use:   "promote <email>",
	Short: "Change a user's role",
	Long: `Change the role of an existing user. There is no API for creating admins,
so this is how the first ADMIN account is made.

Examples:
  postulatectl promote ops@trypostulate.com
  postulatectl promote founder@acme.com --role COMPANY`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPromote(cmd.Context(), args[0], promoteRole)
	},
}

func init() {
	promoteCmd.Flags().StringVar(&promoteRole, "role", string(models.RoleAdmin), "Role to assign: CREATOR, COMPANY or ADMIN")
	rootCmd.AddCommand(promoteCmd)
}

// roleSetter is satisfied by repository.UserRepo.
type roleSetter interface {
	SetRole(ctx context.Context, email string, role models.Role) error
}

func parsePromotion(email, role string) (string, models.Role, error) {
	email = utils.NormalizeEmail(email)
	if !utils.ValidateEmail(email) {
		return "", "", fmt.Errorf("invalid email %q", email)
	}
	r := models.Role(strings.ToUpper(strings.TrimSpace(role)))
	if !r.Valid() {
		return "", "", fmt.Errorf("invalid role %q", role)
	}
	return email, r, nil
}

func promote(ctx context.Context, users roleSetter, email string, role models.Role) error {
	err := users.SetRole(ctx, email, role)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("no user with email %s", email)
	}
	return err
}

func runPromote(ctx context.Context, email, role string) error {
	email, r, err := parsePromotion(email, role)
	if err != nil {
		return err
	}

	db, closeDB, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := promote(ctx, repository.NewUserRepo(db), email, r); err != nil {
		output.Error("%v", err)
		return err
	}
	output.Success("%s is now %s", email, r)
	return nil
}
