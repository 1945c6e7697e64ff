package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/minegocio/backend/config"
	"github.com/minegocio/backend/internal/app/model"
	"github.com/minegocio/backend/internal/db"
	"github.com/minegocio/backend/pkg/util"
	"gorm.io/gorm"
)

// Seeds the platform admin account. Every negocio gets a membership for
// this usuario at creation time, so it must exist before the API serves
// traffic. Re-running is a no-op when the account is already present.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	database := db.GetDB()

	var existing model.Usuario
	err = database.First(&existing, cfg.Admin.UserID).Error
	if err == nil {
		fmt.Printf("Admin usuario already exists (id=%d, nombre_usuario=%s)\n",
			existing.ID, existing.NombreUsuario)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatal("Failed to check admin usuario:", err)
	}

	password := cfg.Admin.Password
	if password == "" {
		password, err = util.GeneratePassword(util.GeneratedPasswordLength)
		if err != nil {
			log.Fatal("Failed to generate admin password:", err)
		}
		fmt.Printf("Generated admin password: %s\n", password)
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}

	admin := &model.Usuario{
		ID:             cfg.Admin.UserID,
		NombreUsuario:  "admin",
		Nombre:         "Administrador de plataforma",
		DNI:            "00000000A",
		Email:          "admin@minegocio.es",
		PasswordHash:   hash,
		Consentimiento: true,
		Validado:       true,
	}
	if err := database.Create(admin).Error; err != nil {
		log.Fatal("Failed to create admin usuario:", err)
	}

	fmt.Printf("Admin usuario created (id=%d)\n", admin.ID)
}
