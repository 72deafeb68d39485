package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"folio/internal/casestudy/render"
	"folio/internal/casestudy/schema"
	"folio/internal/config"
	"folio/internal/domain/services"
	"folio/internal/repository/postgres"
	"folio/internal/service"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo content")
	clearData := flag.Bool("clear-data", false, "Clear all content (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *clearData {
		log.Printf("🧹 Clearing content only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	// Exit early if schema-only mode
	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	// Clear existing content
	log.Println("🧹 Clearing existing content...")
	if err := clearContent(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to clear content: %v", err)
	}

	// Exit early if clear-data mode
	if *clearData {
		log.Println("✅ Content cleared successfully")
		return
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	caseStudyRepo := postgres.NewCaseStudyRepository(repoConfig)
	storyRepo := postgres.NewStoryRepository(repoConfig)
	carouselRepo := postgres.NewCarouselRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create services (the seed flows through the service layer so rendered
	// content and slugs come out exactly as a real save produces them)
	sections := schema.MustLoad()
	renderers, err := render.NewRegistry(sections)
	if err != nil {
		log.Fatalf("Failed to build renderer registry: %v", err)
	}
	caseStudyService := service.NewCaseStudyService(caseStudyRepo, txManager, sections, renderers, md.NewConverter("", true, nil), logger)
	storyService := service.NewStoryService(storyRepo, logger)
	carouselService := service.NewCarouselService(carouselRepo, logger)

	// Seed demo case study
	log.Println("📝 Seeding demo case study...")
	cs, err := caseStudyService.Create(ctx, &services.CreateCaseStudyRequest{
		Title:    "Wayfinder App Redesign",
		Template: "ghibli",
	})
	if err != nil {
		log.Fatalf("Failed to create case study: %v", err)
	}

	for name, fields := range demoSections() {
		if _, err := caseStudyService.UpdateSection(ctx, cs.ID, name, &services.UpdateSectionRequest{
			Fields: fields,
		}); err != nil {
			log.Fatalf("Failed to fill section '%s': %v", name, err)
		}
	}
	enabled := true
	if _, err := caseStudyService.UpdateSection(ctx, cs.ID, "links", &services.UpdateSectionRequest{
		Enabled: &enabled,
		Fields: map[string]any{
			"title": "Related Links",
			"items": "Live prototype | https://example.com/prototype\nPress coverage | https://example.com/press",
		},
	}); err != nil {
		log.Fatalf("Failed to fill section 'links': %v", err)
	}

	if _, err := caseStudyService.Save(ctx, cs.ID); err != nil {
		log.Fatalf("Failed to save case study: %v", err)
	}
	if _, err := caseStudyService.SetPublished(ctx, cs.ID, true); err != nil {
		log.Fatalf("Failed to publish case study: %v", err)
	}
	log.Printf("✅ Created case study: %s (slug: %s)", cs.Title, cs.Slug)

	// Seed story page
	log.Println("📝 Seeding story page...")
	if _, err := storyService.Upsert(ctx, &services.UpsertStoryRequest{
		Headline: "Designer, builder, occasional cartographer",
		Body:     "I design products that help people find their way. The work below spans mobile, web, and the odd physical installation.",
	}); err != nil {
		log.Fatalf("Failed to seed story: %v", err)
	}

	// Seed carousel
	log.Println("📝 Seeding carousel...")
	item, err := carouselService.Create(ctx, &services.CarouselItemRequest{
		Title:    "Wayfinder App Redesign",
		Caption:  "Navigation that gets out of the way",
		ImageURL: "https://example.com/assets/wayfinder-hero.png",
		LinkURL:  "https://example.com/case-studies/" + cs.Slug,
	})
	if err != nil {
		log.Fatalf("Failed to seed carousel: %v", err)
	}
	log.Printf("✅ Created carousel item: %s (sort_order: %d)", item.Title, item.SortOrder)

	log.Println("🎉 Seeding complete!")
}

// demoSections returns raw field values for the default-enabled sections.
func demoSections() map[string]map[string]any {
	return map[string]map[string]any{
		"hero": {
			"headline": "Wayfinder App Redesign",
			"subtext":  "Rebuilding a transit navigation app around the moments when people are actually lost.",
			"imageUrl": "https://example.com/assets/wayfinder-hero.png",
		},
		"overview": {
			"title":   "Overview",
			"summary": "A six-month redesign of Wayfinder's core navigation flows, shipped to 1.2M monthly riders.",
			"metrics": "Role: Lead Product Designer\nTimeline: 6 months\nPlatform: iOS and Android",
		},
		"problem": {
			"title":       "The Problem",
			"description": "Riders opened the app most often when a trip had already gone wrong. The old design assumed calm planning, not a missed transfer on a crowded platform.",
		},
		"process": {
			"title": "Process",
			"steps": "Shadowed 14 riders through real commutes\nMapped the recovery moments where the old app failed\nPrototyped three navigation models and tested weekly\nShipped behind a staged rollout with live metrics",
		},
		"showcase": {
			"title":       "The Result",
			"description": "A navigation screen that leads with the next physical action rather than the full route.",
			"features":    "One-glance next step card\nOffline station maps\nLive disruption rerouting",
		},
		"reflection": {
			"title":     "Reflection",
			"summary":   "The biggest wins came from removing information, not adding it.",
			"learnings": "Design for the worst moment, not the average one\nStaged rollouts beat big reveals\nField research earns its cost back tenfold",
		},
	}
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"")
	if err != nil {
		return err
	}

	// Create case studies table
	createCaseStudies := `
		CREATE TABLE IF NOT EXISTS ` + tables.CaseStudies + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			slug TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			template TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			is_published BOOLEAN NOT NULL DEFAULT FALSE,
			published_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createCaseStudies); err != nil {
		return err
	}

	// Create section rows table
	createSections := `
		CREATE TABLE IF NOT EXISTS ` + tables.CaseStudySections + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			case_study_id UUID NOT NULL REFERENCES ` + tables.CaseStudies + `(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			enabled BOOLEAN NOT NULL DEFAULT FALSE,
			fields JSONB NOT NULL DEFAULT '{}',
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(case_study_id, name)
		)
	`
	if _, err := pool.Exec(ctx, createSections); err != nil {
		return err
	}

	// Create stories table
	createStories := `
		CREATE TABLE IF NOT EXISTS ` + tables.Stories + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			headline TEXT NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createStories); err != nil {
		return err
	}

	// Create carousel items table
	createCarousel := `
		CREATE TABLE IF NOT EXISTS ` + tables.CarouselItems + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			title TEXT NOT NULL,
			caption TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL,
			link_url TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createCarousel); err != nil {
		return err
	}

	// Create settings table
	createSettings := `
		CREATE TABLE IF NOT EXISTS ` + tables.Settings + ` (
			id TEXT PRIMARY KEY,
			model TEXT NOT NULL,
			default_tone TEXT NOT NULL DEFAULT '',
			max_tokens INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createSettings); err != nil {
		return err
	}

	// Create indexes
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `case_study_sections_case_study ON ` + tables.CaseStudySections + `(case_study_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `case_studies_published ON ` + tables.CaseStudies + `(is_published, published_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `carousel_items_sort ON ` + tables.CarouselItems + `(sort_order)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.CaseStudySections,
		tables.CaseStudies,
		tables.Stories,
		tables.CarouselItems,
		tables.Settings,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}

// clearContent removes all rows without touching the schema. Section rows
// cascade from their case studies. AI settings are preserved.
func clearContent(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{tables.CaseStudies, tables.Stories, tables.CarouselItems} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
