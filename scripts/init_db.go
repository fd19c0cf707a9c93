//go:build ignore
// +build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("=== Database Initialization Script ===")
	fmt.Println()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  Warning: Could not load .env file: %v\n", err)
	}

	// Get database URL
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		fmt.Println("❌ DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// First connect to default 'postgres' database to create our database
	postgresURL := strings.Replace(databaseURL, "/insurance_advisor", "/postgres", 1)
	fmt.Println("📡 Connecting to PostgreSQL server...")

	adminConn, err := pgx.Connect(ctx, postgresURL)
	if err != nil {
		fmt.Printf("❌ Failed to connect to PostgreSQL: %v\n", err)
		os.Exit(1)
	}

	// Check if database exists
	var exists bool
	err = adminConn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = 'insurance_advisor')").Scan(&exists)
	if err != nil {
		fmt.Printf("❌ Failed to check database existence: %v\n", err)
		adminConn.Close(ctx)
		os.Exit(1)
	}

	if !exists {
		fmt.Println("📦 Creating 'insurance_advisor' database...")
		_, err = adminConn.Exec(ctx, "CREATE DATABASE insurance_advisor")
		if err != nil {
			fmt.Printf("❌ Failed to create database: %v\n", err)
			adminConn.Close(ctx)
			os.Exit(1)
		}
		fmt.Println("✅ Database 'insurance_advisor' created!")
	} else {
		fmt.Println("✅ Database 'insurance_advisor' already exists")
	}
	adminConn.Close(ctx)

	// Now connect to the insurance_advisor database
	fmt.Println("📡 Connecting to insurance_advisor database...")
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		fmt.Printf("❌ Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	fmt.Println("✅ Connected to database successfully!")
	fmt.Println()

	// Read SQL file
	fmt.Println("📖 Reading SQL schema file...")
	sqlBytes, err := os.ReadFile("scripts/init_database.sql")
	if err != nil {
		fmt.Printf("❌ Failed to read SQL file: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ SQL file loaded successfully!")
	fmt.Println()

	// Execute SQL
	fmt.Println("🚀 Executing database schema...")
	_, err = conn.Exec(ctx, string(sqlBytes))
	if err != nil {
		fmt.Printf("❌ Failed to execute SQL: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Database schema executed successfully!")
	fmt.Println()

	// Verify by counting seeded policies
	fmt.Println("🔍 Verifying database setup...")

	var policyCount int
	err = conn.QueryRow(ctx, "SELECT COUNT(*) FROM policies").Scan(&policyCount)
	if err != nil {
		fmt.Printf("⚠️  Warning: Could not count policies: %v\n", err)
	} else {
		fmt.Printf("   📦 Policies in database: %d\n", policyCount)
	}

	// List policies
	rows, err := conn.Query(ctx, "SELECT id, name, category, provider, premium, coverage, is_government_policy FROM policies ORDER BY id")
	if err != nil {
		fmt.Printf("⚠️  Warning: Could not fetch policies: %v\n", err)
	} else {
		defer rows.Close()
		fmt.Println()
		fmt.Println("   📋 Policy Catalog:")
		fmt.Println("   ─────────────────────────────────────────────────────────")
		for rows.Next() {
			var id int
			var name, category, provider string
			var premium, coverage *int64
			var government bool
			if err := rows.Scan(&id, &name, &category, &provider, &premium, &coverage, &government); err == nil {
				kind := "Private"
				if government {
					kind = "Government"
				}
				fmt.Printf("   %d. %s (%s, %s)\n", id, name, category, kind)
				if premium != nil && coverage != nil {
					fmt.Printf("      Premium: ₹%d/year | Coverage: ₹%d\n", *premium, *coverage)
				}
			}
		}
		fmt.Println("   ─────────────────────────────────────────────────────────")
	}

	fmt.Println()
	fmt.Println("🎉 Database initialization completed successfully!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Test the connection: go run scripts/test_connection.go")
	fmt.Println("  2. Run the server locally: go run cmd/server/main.go")
}
