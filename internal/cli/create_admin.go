package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/PotatoCodder/library-management-backend/internal/auth"
	"github.com/PotatoCodder/library-management-backend/internal/config"
	"github.com/PotatoCodder/library-management-backend/internal/database"
)

// CreateAdminCommand creates an administrator account. Administrators have
// no registration endpoint, so this is the only way to add one.
type CreateAdminCommand struct {
	Username string
	Password string

	Database config.Database
	Auth     config.Auth

	// Overridable for tests
	stdin  io.Reader
	stdout io.Writer
}

func NewCreateAdminCommand(cfg *config.Config) *CreateAdminCommand {
	return &CreateAdminCommand{
		Database: cfg.Database,
		Auth:     cfg.Auth,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
	}
}

func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)

	fs.StringVar(&cmd.Username, "username", "", "Administrator username (required)")
	fs.StringVar(&cmd.Password, "password", "", "Administrator password (prompted when omitted)")
	fs.StringVar(&cmd.Database.Driver, "driver", cmd.Database.Driver, "Database driver: sqlite, mysql or postgres")
	fs.StringVar(&cmd.Database.Path, "db", cmd.Database.Path, "Path to the SQLite database file")
	fs.StringVar(&cmd.Database.DSN, "dsn", cmd.Database.DSN, "MySQL/PostgreSQL connection string")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin -username <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an administrator account in the admins table.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-admin -username librarian\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  echo \"$ADMIN_PASSWORD\" | %s create-admin -username librarian -db ./library.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.Username = strings.TrimSpace(cmd.Username)
	if cmd.Username == "" {
		return fmt.Errorf("required flag -username not provided")
	}
	return nil
}

func (cmd *CreateAdminCommand) Run() error {
	if cmd.Password == "" {
		password, err := cmd.readPassword()
		if err != nil {
			return err
		}
		cmd.Password = password
	}

	// Keep SQL logging out of the terminal
	cmd.Database.LogQueries = false

	db, err := database.NewDatabase(cmd.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := auth.NewService(db.DB, cmd.Auth).CreateAdmin(ctx, cmd.Username, cmd.Password)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateUsername) {
			return fmt.Errorf("administrator %q already exists", cmd.Username)
		}
		return err
	}

	fmt.Fprintf(cmd.stdout, "Administrator %q created (id %d)\n", admin.Username, admin.ID)
	return nil
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func (cmd *CreateAdminCommand) readPassword() (string, error) {
	if f, ok := cmd.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		fmt.Fprint(cmd.stdout, "Password: ")
		first, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.stdout)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}

		fmt.Fprint(cmd.stdout, "Confirm password: ")
		second, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.stdout)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}

		if string(first) != string(second) {
			return "", fmt.Errorf("passwords do not match")
		}
		return string(first), nil
	}

	line, err := bufio.NewReader(cmd.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
