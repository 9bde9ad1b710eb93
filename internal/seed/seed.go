// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"newsdesk/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	NumJobs     int
	ShouldClean bool
	// SkipBcrypt uses a plaintext placeholder password for faster dev seeding.
	SkipBcrypt bool
}

var categoryNames = []string{
	"News", "Opinion", "Engineering", "Product", "Design",
	"Culture", "Interviews", "Tutorials", "Releases", "Events",
}

// Seed populates the database with demo editorial data.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding: %d users, %d posts, %d jobs", opts.NumUsers, opts.NumPosts, opts.NumJobs)
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway")
		}
	}

	f := NewFactory(db, opts)

	admin, err := f.CreateUser(func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@newsdesk.local"
		u.Role = models.RoleAdmin
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	users := []*models.User{admin}
	for i := 1; i < opts.NumUsers; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("seed user %d: %w", i, err)
		}
		users = append(users, u)
	}

	org, err := f.CreateOrganization()
	if err != nil {
		return fmt.Errorf("seed organization: %w", err)
	}

	categories, err := f.CreateCategories()
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	for i := 0; i < opts.NumPosts; i++ {
		author := users[rand.Intn(len(users))]
		if _, err := f.CreatePost(author, org, categories); err != nil {
			return fmt.Errorf("seed post %d: %w", i, err)
		}
	}

	for i := 0; i < opts.NumJobs; i++ {
		author := users[rand.Intn(len(users))]
		if _, err := f.CreateJob(author, org); err != nil {
			return fmt.Errorf("seed job %d: %w", i, err)
		}
	}

	log.Println("Seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	// Order matters for foreign keys.
	for _, table := range []string{"post_categories", "posts", "jobs", "media", "categories", "organizations", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func hashPassword(skipBcrypt bool) string {
	if skipBcrypt {
		return "password123"
	}
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	return string(hashed)
}
