package cmd

import (
	"fmt"
	"log"

	"github.com/campusworks/complaint-management/internal/auth"
	"github.com/campusworks/complaint-management/internal/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the bootstrap SuperAdmin account",
	Long:  `Create the bootstrap SuperAdmin account (id 1) used for first login. Safe to run repeatedly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, _, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		adminEmail := "admin@anits.edu.in"

		var exists int
		row := db.Raw("SELECT 1 FROM users WHERE id = ?", user.BootstrapUserID).Row()
		if err := row.Scan(&exists); err == nil {
			fmt.Println("bootstrap SuperAdmin already exists, nothing to do")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash default password: %v", err)
		}

		err = db.Exec(
			"INSERT INTO users (id, email, password_hash, name, role, department, require_password_change, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)",
			user.BootstrapUserID, adminEmail, string(hash), "Super Admin", auth.RoleSuperAdmin, "ADMIN", true,
		).Error
		if err != nil {
			log.Fatalf("failed to insert bootstrap SuperAdmin: %v", err)
		}

		fmt.Println("Seeded bootstrap SuperAdmin:", adminEmail)
		fmt.Println("Default password must be changed after first login")
	},
}
