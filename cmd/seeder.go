package cmd

import (
	"fmt"
	"log"

	"github.com/frahmantamala/claim-management/internal/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedSampleData bool

var permissionCatalog = []struct {
	Name string
	Desc string
}{
	{"admin", "full administrator"},
	{"submit_claims", "Can submit own claims"},
	{"view_own_claims", "Can view own claims"},
	{"approve_claims", "Can approve claims"},
	{"reject_claims", "Can reject claims"},
	{"view_all_claims", "Can view all claims"},
	{"export_reports", "Can export HR reports"},
	{"manage_users", "Can manage user accounts"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with permissions and initial accounts",
	Long:  `Seed the permission catalog, an admin account, and optionally sample lecturer and coordinator accounts.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		seedPermissions(db)

		adminID := seedUser(db, "admin@university.edu", "System Admin", "HR", "admin123!")
		grantPermissions(db, adminID, user.RolePermissions[user.RoleAdmin])
		fmt.Println("Seeded admin account: admin@university.edu")

		if seedSampleData {
			lecturerID := seedUser(db, "lecturer@university.edu", "Lena Lecturer", "Computer Science", "password")
			grantPermissions(db, lecturerID, user.RolePermissions[user.RoleLecturer])
			fmt.Println("Seeded sample lecturer: lecturer@university.edu")

			coordinatorID := seedUser(db, "coordinator@university.edu", "Colin Coordinator", "Computer Science", "password")
			grantPermissions(db, coordinatorID, user.RolePermissions[user.RoleCoordinator])
			fmt.Println("Seeded sample coordinator: coordinator@university.edu")
		}

		fmt.Println("Seeding finished")
	},
}

func seedPermissions(db *gorm.DB) {
	for _, p := range permissionCatalog {
		var pid int64
		row := db.Raw("SELECT id FROM permissions WHERE name = ?", p.Name).Row()
		if err := row.Scan(&pid); err != nil {
			if err := db.Exec("INSERT INTO permissions (name, description, created_at) VALUES (?, ?, now())", p.Name, p.Desc).Error; err != nil {
				log.Fatalf("failed to insert permission %s: %v", p.Name, err)
			}
			fmt.Printf("Seeded permission: %s\n", p.Name)
		}
	}
}

// seedUser inserts the account when missing and returns its id either way.
func seedUser(db *gorm.DB, email, name, department, password string) int64 {
	var id int64
	row := db.Raw("SELECT id FROM users WHERE email = ?", email).Row()
	if err := row.Scan(&id); err == nil {
		return id
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password for %s: %v", email, err)
	}

	if err := db.Exec("INSERT INTO users (email, name, password_hash, department, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())", email, name, string(hash), department).Error; err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}

	if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&id); err != nil {
		log.Fatalf("failed to lookup user %s after insert: %v", email, err)
	}
	return id
}

func grantPermissions(db *gorm.DB, userID int64, permissions []string) {
	for _, permName := range permissions {
		var pid int64
		if err := db.Raw("SELECT id FROM permissions WHERE name = ?", permName).Row().Scan(&pid); err != nil {
			log.Fatalf("permission not found %s: %v", permName, err)
		}

		var exists int
		if err := db.Raw("SELECT 1 FROM user_permissions WHERE user_id = ? AND permission_id = ?", userID, pid).Row().Scan(&exists); err == nil {
			continue
		}

		if err := db.Exec("INSERT INTO user_permissions (user_id, permission_id, granted_by, created_at) VALUES (?, ?, NULL, now())", userID, pid).Error; err != nil {
			log.Fatalf("failed to grant permission %s to user %d: %v", permName, userID, err)
		}
	}
}
