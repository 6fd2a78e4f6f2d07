package main

import (
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"warboard/models"
	"warboard/repository"
)

var (
	db    *gorm.DB
	store *repository.Store
)

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Explicit pool limits; every repository call borrows one connection for
	// its own duration and nothing holds one across requests.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Printf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.Guild{}); err != nil {
			log.Printf("migration warning (guilds): %v", err)
		}
		if err := db.AutoMigrate(&models.Member{}); err != nil {
			log.Printf("migration warning (members): %v", err)
		}
		if err := db.AutoMigrate(&models.Submission{}); err != nil {
			log.Printf("migration warning (submissions): %v", err)
		}
		if err := db.AutoMigrate(&models.Kudo{}); err != nil {
			log.Printf("migration warning (kudos): %v", err)
		}
	}

	store = repository.New(db)
	seedDB()
	ensureFailsDir()
}

func closeDB() {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func seedDB() {
	// Seed an admin API account so the bot can authenticate on first run.
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin := models.User{Username: "admin", HashedPassword: hashedPassword, Staff: true}
		if err := db.Create(&admin).Error; err != nil {
			log.Printf("failed to seed admin user: %v", err)
			return
		}
		log.Println("Seeded admin user: username=admin, password=admin123")
	}
}
