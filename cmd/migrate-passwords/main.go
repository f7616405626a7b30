// One-off backfill: bcrypt-hash any user passwords still stored in plaintext.
// cmd/migrate-passwords/main.go
package main

import (
	"log"
	"strings"

	"payroll-compliance-api/config"
	"payroll-compliance-api/models"
	"payroll-compliance-api/utils"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitDB()

	var users []models.User
	if err := config.DB.Find(&users).Error; err != nil {
		log.Fatal("Failed to fetch users:", err)
	}

	var updated, skipped, failed int
	for _, user := range users {
		// bcrypt hashes start with $2; anything else is plaintext
		if strings.HasPrefix(user.Password, "$2") {
			skipped++
			continue
		}

		hashed, err := utils.HashPassword(user.Password)
		if err != nil {
			log.Printf("Failed to hash password for %s: %v", user.Email, err)
			failed++
			continue
		}

		if err := config.DB.Model(&user).Update("password", hashed).Error; err != nil {
			log.Printf("Failed to update password for %s: %v", user.Email, err)
			failed++
			continue
		}
		updated++
	}

	log.Printf("Password backfill done: %d updated, %d already hashed, %d failed", updated, skipped, failed)
}
