package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
	"github.com/noah-isme/school-portal-api/pkg/config"
	"github.com/noah-isme/school-portal-api/pkg/database"
)

// Interactive bootstrap for the first admin account. Regular staff and
// student accounts are provisioned through the API.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	users := repository.NewUserRepository(db)
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Admin Account ===")

	fullName := prompt(reader, "Full name")
	if fullName == "" {
		fmt.Fprintln(os.Stderr, "full name is required")
		os.Exit(1)
	}

	email := strings.ToLower(prompt(reader, "Email"))
	if email == "" {
		fmt.Fprintln(os.Stderr, "email is required")
		os.Exit(1)
	}

	username := strings.ToLower(prompt(reader, "Username"))
	if username == "" {
		fmt.Fprintln(os.Stderr, "username is required")
		os.Exit(1)
	}

	role := strings.ToUpper(prompt(reader, "Role (ADMIN or SUPERADMIN, default ADMIN)"))
	if role == "" {
		role = string(models.RoleAdmin)
	}
	if role != string(models.RoleAdmin) && role != string(models.RoleSuperAdmin) {
		fmt.Fprintln(os.Stderr, "role must be ADMIN or SUPERADMIN")
		os.Exit(1)
	}

	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read password: %v\n", err)
		os.Exit(1)
	}
	if len(raw) < 6 {
		fmt.Fprintln(os.Stderr, "password must be at least 6 characters")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword(raw, bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         models.UserRole(role),
		Active:       true,
	}

	if err := users.Create(context.Background(), user); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create account: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("created %s account %q (%s) with id %s\n", user.Role, user.Username, user.Email, user.ID)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
