package seeder

import (
	"context"
	"errors"
	"fmt"

	"resume-screener/internal/database"
	"resume-screener/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UsersSeeder struct {
	Password string
}

func (UsersSeeder) Name() string { return "users" }

func (s UsersSeeder) Run(ctx context.Context, db database.DB) error {
	if len(s.Password) < 8 {
		return errors.New("seed password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	items := []struct {
		Email string
		Role  user.Role
	}{
		{Email: DemoHREmail, Role: user.RoleHR},
		{Email: DemoJobSeekerEmail, Role: user.RoleJobSeeker},
	}

	return database.InTx(ctx, db, func(q database.Querier) error {
		for _, it := range items {
			if _, err := q.Exec(
				ctx,
				`INSERT INTO users (id, email, password_hash, role) VALUES ($1, $2, $3, $4) ON CONFLICT (email) DO NOTHING`,
				uuid.New(),
				it.Email,
				string(hash),
				string(it.Role),
			); err != nil {
				return err
			}
		}
		return nil
	})
}
