package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"legajo_app_go/config"
	"legajo_app_go/db"
	"legajo_app_go/models"
	"legajo_app_go/services"

	"golang.org/x/term"
	"gorm.io/gorm"
)

// Bootstraps an RRHH administrator: person, profile assignment and login
// user in one shot.
func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.Person{},
		&models.Profile{},
		&models.ProfileAssignment{},
		&models.LegajoEstado{},
		&models.LegajoHistorial{},
		&models.User{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := services.SeedProfiles(db.DB); err != nil {
		log.Fatalf("Failed to seed profiles: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create RRHH Administrator ===")
	fmt.Println()

	fmt.Print("Nombre: ")
	nombre, _ := reader.ReadString('\n')
	nombre = strings.TrimSpace(nombre)

	fmt.Print("Apellido: ")
	apellido, _ := reader.ReadString('\n')
	apellido = strings.TrimSpace(apellido)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	password := string(passwordBytes)
	fmt.Println()

	if nombre == "" || apellido == "" || email == "" || password == "" {
		log.Fatal("Nombre, apellido, email and password are required")
	}
	if len(password) < 8 {
		log.Fatal("Password must be at least 8 characters long")
	}

	var existingUser models.User
	if err := db.DB.Where("email = ?", email).First(&existingUser).Error; err == nil {
		log.Fatalf("User with email %s already exists", email)
	}

	hashedPassword, err := services.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	var user *models.User
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		person := &models.Person{
			Nombre:   nombre,
			Apellido: apellido,
			Email:    &email,
		}
		if err := tx.Create(person).Error; err != nil {
			return err
		}

		var profile models.Profile
		if err := tx.First(&profile, "codigo = ?", models.ProfileRRHH).Error; err != nil {
			return err
		}
		assignment := &models.ProfileAssignment{
			PersonID:  person.ID,
			ProfileID: profile.ID,
			Vigente:   true,
		}
		if err := tx.Create(assignment).Error; err != nil {
			return err
		}

		user = &models.User{
			Email:        email,
			Nombre:       fmt.Sprintf("%s %s", nombre, apellido),
			PasswordHash: hashedPassword,
			PersonID:     &person.ID,
			IsActive:     true,
		}
		return tx.Create(user).Error
	})
	if err != nil {
		log.Fatalf("Failed to create administrator: %v", err)
	}

	fmt.Println()
	fmt.Println("✓ Administrator created successfully!")
	fmt.Printf("  ID: %s\n", user.ID)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Println()
	fmt.Println("Pass the user id in the X-Actor-Id header to act as this administrator.")
}
