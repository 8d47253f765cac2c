package main

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/eadebayo/delicioso/config"
	"github.com/eadebayo/delicioso/pkg/helpers"
)

type seedStore struct {
	name        string
	slug        string
	description string
	tags        []string
	lng, lat    float64
	address     string
}

var sampleStores = []seedStore{
	{
		name:        "Federal Delicatessen",
		slug:        "federal-delicatessen",
		description: "Classic deli fare done right, open late.",
		tags:        []string{"wifi", "open-late", "licensed"},
		lng:         174.7612, lat: -36.8485,
		address: "86 Federal St, Auckland",
	},
	{
		name:        "Mount Atkinson Coffee",
		slug:        "mount-atkinson-coffee",
		description: "Single-origin roasts and a quiet mezzanine to work from.",
		tags:        []string{"wifi", "family-friendly"},
		lng:         174.7387, lat: -36.8621,
		address: "19 Richmond Rd, Grey Lynn",
	},
	{
		name:        "Giapo Ice Cream",
		slug:        "giapo-ice-cream",
		description: "Extravagant handmade ice cream sculptures.",
		tags:        []string{"family-friendly", "vegetarian"},
		lng:         174.7654, lat: -36.8509,
		address: "12 Gore St, Auckland CBD",
	},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@delicioso.dev"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (name, email, role, password_hash, active)
		VALUES ($1, lower($2), 'admin', $3, TRUE)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, "Admin", email, hash).Scan(&adminID)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", adminID, email, password)

	for _, s := range sampleStores {
		var id string
		// database/sql can't bind a []string, so the array goes in as its
		// postgres literal form.
		tags := "{" + strings.Join(s.tags, ",") + "}"
		err = db.QueryRow(`
			INSERT INTO stores (name, slug, description, tags, lng, lat, address, author_id)
			VALUES ($1, $2, $3, $4::text[], $5, $6, $7, $8)
			ON CONFLICT (slug) DO UPDATE SET description = EXCLUDED.description
			RETURNING id
		`, s.name, s.slug, s.description, tags, s.lng, s.lat, s.address, adminID).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed store %q: %v", s.name, err)
		}
		fmt.Printf("seeded store: id=%s slug=%s\n", id, s.slug)
	}
}
