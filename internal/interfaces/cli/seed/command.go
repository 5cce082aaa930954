package seed

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gorm.io/gorm"

	"github.com/candor-hq/candor/internal/application/profile/usecases"
	"github.com/candor-hq/candor/internal/infrastructure/auth"
	"github.com/candor-hq/candor/internal/infrastructure/config"
	"github.com/candor-hq/candor/internal/infrastructure/database"
	"github.com/candor-hq/candor/internal/infrastructure/persistence/seeds"
	"github.com/candor-hq/candor/internal/infrastructure/repository"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/db"
	"github.com/candor-hq/candor/internal/shared/logger"
)

var (
	env           string
	configPath    string
	dataFile      string
	adminEmail    string
	adminName     string
	adminPassword string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data and optionally create an admin account",
		Long: `Insert the departments and issue categories shipped with the binary (or
read from --file), skipping names that already exist. With --admin-email an
admin account is created, or an existing account is promoted to admin.`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&dataFile, "file", "f", "", "YAML file with departments and categories")
	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "E-mail of the admin account to create or promote")
	cmd.Flags().StringVar(&adminName, "admin-name", "Administrator", "Full name for a new admin account")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "Password for a new admin account (prompted when omitted)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := loadReferenceData(dataFile)
	if err != nil {
		return err
	}
	result, err := seeds.SeedReferenceData(ctx, repository.NewReferenceRepository(database.Get()), data, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Departments: %d created, %d skipped\nCategories:  %d created, %d skipped\n",
		result.DepartmentsCreated, result.DepartmentsSkipped, result.CategoriesCreated, result.CategoriesSkipped)

	if adminEmail == "" {
		return nil
	}

	password := adminPassword
	if password == "" {
		password, err = promptPassword(cmd)
		if err != nil {
			return err
		}
	}

	admin := NewAdminSeeder(database.Get(), cfg, log)
	created, err := admin.Ensure(ctx, adminEmail, adminName, password)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Admin account %s created\n", adminEmail)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Account %s promoted to admin\n", adminEmail)
	}
	return nil
}

func loadReferenceData(path string) (*seeds.ReferenceData, error) {
	if path == "" {
		return seeds.DefaultReferenceData()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return seeds.ParseReferenceData(raw)
}

// promptPassword reads the password without echo when stdin is a terminal,
// and as a plain line otherwise so the command can be scripted.
func promptPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(cmd.OutOrStdout(), "Admin password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}

// AdminSeeder creates the first admin through the normal sign-up path.
type AdminSeeder struct {
	signUp   *usecases.SignUpUseCase
	accounts *repository.AccountRepository
	profiles *repository.ProfileRepository
	log      logger.Interface
}

func NewAdminSeeder(gdb *gorm.DB, cfg *config.Config, log logger.Interface) *AdminSeeder {
	accounts := repository.NewAccountRepository(gdb)
	profiles := repository.NewProfileRepository(gdb)
	jwtSvc := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes, cfg.Auth.JWT.RefreshExpDays)
	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)

	return &AdminSeeder{
		signUp:   usecases.NewSignUpUseCase(accounts, profiles, hasher, jwtSvc, db.NewTransactionManager(gdb), log),
		accounts: accounts,
		profiles: profiles,
		log:      log,
	}
}

// Ensure makes the account with email an admin, creating it when missing.
// It reports whether a new account was created.
func (s *AdminSeeder) Ensure(ctx context.Context, email, fullName, password string) (bool, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to look up account: %w", err)
	}

	var profileID string
	created := false
	if account == nil {
		result, err := s.signUp.Execute(ctx, usecases.SignUpCommand{
			Email:    email,
			Password: password,
			FullName: fullName,
		})
		if err != nil {
			return false, err
		}
		profileID = result.Profile.ID
		created = true
	} else {
		profileID = account.ID()
	}

	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return false, fmt.Errorf("failed to load profile: %w", err)
	}
	if p == nil {
		return false, fmt.Errorf("account %s has no profile", email)
	}
	if p.Role() == authorization.RoleAdmin {
		return created, nil
	}
	if err := p.ChangeRole(authorization.RoleAdmin); err != nil {
		return false, err
	}
	if err := s.profiles.Update(ctx, p); err != nil {
		return false, fmt.Errorf("failed to update role: %w", err)
	}

	s.log.Infow("admin account ensured", "user_id", p.ID(), "created", created)
	return created, nil
}
