package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vibast-solutions/ms-go-hydration/app/entity"
	"github.com/vibast-solutions/ms-go-hydration/app/repository"
	"github.com/vibast-solutions/ms-go-hydration/app/service"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var quickAccessCmd = &cobra.Command{
	Use:   "quick-access",
	Short: "Manage account quick-access tokens",
}

var quickAccessIssueCmd = &cobra.Command{
	Use:   "issue <email>",
	Short: "Issue a new quick-access token for an account, replacing any previous one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabaseForQuickAccessCommands()
		if err != nil {
			return err
		}
		defer db.Close()

		account, err := issueQuickAccess(cmd.Context(), newQuickAccessCommandDeps(db), args[0])
		if err != nil {
			return err
		}

		printQuickAccess(cmd.OutOrStdout(), account)
		return nil
	},
}

var quickAccessRevokeCmd = &cobra.Command{
	Use:   "revoke <email>",
	Short: "Revoke the quick-access token of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabaseForQuickAccessCommands()
		if err != nil {
			return err
		}
		defer db.Close()

		account, err := revokeQuickAccess(cmd.Context(), newQuickAccessCommandDeps(db), args[0])
		if err != nil {
			return err
		}

		printQuickAccess(cmd.OutOrStdout(), account)
		return nil
	},
}

func init() {
	quickAccessCmd.AddCommand(quickAccessIssueCmd)
	quickAccessCmd.AddCommand(quickAccessRevokeCmd)
	rootCmd.AddCommand(quickAccessCmd)
}

type quickAccessCommandDeps struct {
	accountRepo        *repository.AccountRepository
	quickAccessService service.QuickAccessService
}

func newQuickAccessCommandDeps(db *sql.DB, opts ...service.Option) quickAccessCommandDeps {
	accountRepo := repository.NewAccountRepository(db)
	return quickAccessCommandDeps{
		accountRepo:        accountRepo,
		quickAccessService: service.NewQuickAccessService(db, accountRepo, opts...),
	}
}

func issueQuickAccess(ctx context.Context, deps quickAccessCommandDeps, email string) (*entity.SafeAccount, error) {
	account, err := findAccountByEmail(ctx, deps.accountRepo, email)
	if err != nil {
		return nil, err
	}
	return deps.quickAccessService.IssueToken(ctx, account.ID)
}

func revokeQuickAccess(ctx context.Context, deps quickAccessCommandDeps, email string) (*entity.SafeAccount, error) {
	account, err := findAccountByEmail(ctx, deps.accountRepo, email)
	if err != nil {
		return nil, err
	}
	return deps.quickAccessService.RevokeToken(ctx, account.ID)
}

func findAccountByEmail(ctx context.Context, accountRepo *repository.AccountRepository, email string) (*entity.Account, error) {
	account, err := accountRepo.FindByCanonicalEmail(ctx, service.CanonicalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("no account found for %q", email)
		}
		return nil, err
	}
	return account, nil
}

func printQuickAccess(w io.Writer, account *entity.SafeAccount) {
	fmt.Fprintf(w, "user_id: %s\n", account.ID)
	fmt.Fprintf(w, "email: %s\n", account.Email)
	if account.QuickAccessToken == nil {
		fmt.Fprintln(w, "quick_access_token: none")
		return
	}
	fmt.Fprintf(w, "quick_access_token: %s\n", *account.QuickAccessToken)
}

func openDatabaseForQuickAccessCommands() (*sql.DB, error) {
	_ = godotenv.Load()

	dsn := strings.TrimSpace(os.Getenv("MYSQL_DSN"))
	if dsn == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
