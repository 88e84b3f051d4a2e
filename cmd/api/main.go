// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quickspark/quickspark-backend/internal/auth"
	"github.com/quickspark/quickspark-backend/internal/common/database"
	"github.com/quickspark/quickspark-backend/internal/common/ratelimit"
	"github.com/quickspark/quickspark-backend/internal/compatibility"
	"github.com/quickspark/quickspark-backend/internal/config"
	"github.com/quickspark/quickspark-backend/internal/member"
	"github.com/quickspark/quickspark-backend/internal/ratings"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting QuickSpark Matching API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	log.Println("✅ Configuration loaded")

	// 3. Validate configuration
	log.Println("\n✔️  Step 3: Validating configuration...")
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration is valid")

	// 4. Connect to PostgreSQL
	log.Println("\n🗄️  Step 4: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("❌ Failed to ping PostgreSQL:", err)
	}
	log.Println("✅ Connected to PostgreSQL successfully")

	// 5. Connect to Redis (optional, rate limiting only)
	log.Println("\n📮 Step 5: Connecting to Redis...")
	var redisClient *redis.Client

	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without Redis", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 6. Run database migrations
	log.Println("\n🔨 Step 6: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Printf("❌ Migration error: %v", err)
		log.Fatal("Failed to run migrations")
	}
	log.Println("✅ Database migrations completed")

	sqlxDB := sqlx.NewDb(db, "postgres")

	// 7. Initialize compatibility module
	log.Println("\n💞 Step 7: Initializing compatibility module...")
	compatRepo := compatibility.NewPostgresRepository(sqlxDB)
	compatService := compatibility.NewService(compatRepo, cfg.MatchScoreFloor)
	compatHandler := compatibility.NewHandler(compatService, cfg.CronSecret, cfg.MatchPageSizeCap)
	compatAdminHandler := compatibility.NewAdminHandler(compatService)
	log.Println("✅ Compatibility module initialized")

	// 8. Initialize member module
	log.Println("\n👤 Step 8: Initializing member module...")
	memberRepo := member.NewPostgresRepository(sqlxDB)
	memberService := member.NewService(memberRepo, compatService)
	memberHandler := member.NewHandler(memberService)
	log.Println("✅ Member module initialized")

	// 9. Initialize ratings module
	log.Println("\n⭐ Step 9: Initializing ratings module...")
	ratingsRepo := ratings.NewPostgresRepository(sqlxDB)
	ratingsService := ratings.NewService(ratingsRepo, compatService)
	ratingsHandler := ratings.NewHandler(ratingsService)
	log.Println("✅ Ratings module initialized")

	// 10. Setup routes
	log.Println("\n🛣️  Step 10: Setting up routes...")
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)

	compatibility.RegisterRoutes(router, compatHandler, compatAdminHandler, authMiddleware)
	log.Println("   ✅ Compatibility routes registered")

	member.RegisterRoutes(router, memberHandler, authMiddleware)
	log.Println("   ✅ Member routes registered")

	ratings.RegisterRoutes(router, ratingsHandler, authMiddleware)
	log.Println("   ✅ Ratings routes registered")

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	limiter := ratelimit.NewLimiter(redisClient, cfg.APIRateLimitMax, cfg.APIRateLimitWindow)
	router.Use(limiter.Middleware)

	// 11. Start in-process schedulers
	schedulerCtx, stopSchedulers := context.WithCancel(context.Background())
	defer stopSchedulers()

	scheduler := compatibility.NewScheduler(compatService, cfg.NightlyRecomputeHour, cfg.TasteRefreshHour)
	scheduler.Start(schedulerCtx)
	log.Printf("   ✅ Schedulers started (recompute %02d:00, taste refresh %02d:00)",
		cfg.NightlyRecomputeHour, cfg.TasteRefreshHour)

	// 12. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")
	stopSchedulers()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","uptime":"%s"}`, time.Since(startTime).Round(time.Second))
}

// Middleware functions

var startTime = time.Now()

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log.Printf("→ %s %s from %s", r.Method, r.RequestURI, r.RemoteAddr)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// runMigrations executes database migrations
func runMigrations(db *sql.DB) error {
	log.Println("   - Checking existing tables...")

	var tableCount int
	err := db.QueryRow(`
        SELECT COUNT(*)
        FROM information_schema.tables
        WHERE table_schema = 'public'
          AND table_name IN ('members', 'compatibility_profiles', 'compatibility_scores')
    `).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("failed to check existing tables: %w", err)
	}

	if tableCount == 3 {
		log.Println("   - Core tables already exist, applying any new migrations...")
	}

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS members (
            id BIGSERIAL PRIMARY KEY,
            email VARCHAR(255) UNIQUE NOT NULL,
            display_name VARCHAR(100) NOT NULL,
            date_of_birth DATE,
            gender VARCHAR(20),
            city VARCHAR(120),
            religion VARCHAR(64),
            faith_importance SMALLINT CHECK (faith_importance BETWEEN 1 AND 5),
            practice_frequency SMALLINT CHECK (practice_frequency BETWEEN 1 AND 5),
            wants_children VARCHAR(10) CHECK (wants_children IN ('yes', 'no', 'open', 'unsure')),
            education_level SMALLINT CHECK (education_level BETWEEN 1 AND 5),
            subscription_tier VARCHAR(20) NOT NULL DEFAULT 'free',
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            last_active TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS compatibility_profiles (
            user_id BIGINT PRIMARY KEY REFERENCES members(id) ON DELETE CASCADE,
            emotional_expressiveness SMALLINT NOT NULL CHECK (emotional_expressiveness BETWEEN 1 AND 5),
            conflict_approach SMALLINT NOT NULL CHECK (conflict_approach BETWEEN 1 AND 5),
            reassurance_need SMALLINT NOT NULL CHECK (reassurance_need BETWEEN 1 AND 5),
            stress_reaction SMALLINT NOT NULL CHECK (stress_reaction BETWEEN 1 AND 5),
            lifestyle_pace SMALLINT NOT NULL CHECK (lifestyle_pace BETWEEN 1 AND 5),
            social_energy SMALLINT NOT NULL CHECK (social_energy BETWEEN 1 AND 5),
            weekend_preference SMALLINT NOT NULL CHECK (weekend_preference BETWEEN 1 AND 5),
            structure_spontaneity SMALLINT NOT NULL CHECK (structure_spontaneity BETWEEN 1 AND 5),
            career_ambition SMALLINT NOT NULL CHECK (career_ambition BETWEEN 1 AND 5),
            financial_goals SMALLINT NOT NULL CHECK (financial_goals BETWEEN 1 AND 5),
            growth_drive SMALLINT NOT NULL CHECK (growth_drive BETWEEN 1 AND 5),
            work_life_balance SMALLINT NOT NULL CHECK (work_life_balance BETWEEN 1 AND 5),
            parenting_style SMALLINT NOT NULL CHECK (parenting_style BETWEEN 1 AND 5),
            family_involvement SMALLINT NOT NULL CHECK (family_involvement BETWEEN 1 AND 5),
            relationship_timeline SMALLINT NOT NULL CHECK (relationship_timeline BETWEEN 1 AND 5),
            living_preference SMALLINT NOT NULL CHECK (living_preference BETWEEN 1 AND 5),
            conversation_depth SMALLINT NOT NULL CHECK (conversation_depth BETWEEN 1 AND 5),
            affection_style SMALLINT NOT NULL CHECK (affection_style BETWEEN 1 AND 5),
            decision_making SMALLINT NOT NULL CHECK (decision_making BETWEEN 1 AND 5),
            novelty_need SMALLINT NOT NULL CHECK (novelty_need BETWEEN 1 AND 5),
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS dealbreaker_preferences (
            user_id BIGINT PRIMARY KEY REFERENCES members(id) ON DELETE CASCADE,
            min_age SMALLINT,
            max_age SMALLINT,
            religion_must_match BOOLEAN NOT NULL DEFAULT FALSE,
            acceptable_religions TEXT[],
            must_want_children BOOLEAN NOT NULL DEFAULT FALSE,
            min_education_level SMALLINT,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS compatibility_scores (
            user_a BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
            user_b BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
            final_score DOUBLE PRECISION NOT NULL,
            breakdown JSONB NOT NULL DEFAULT '{}',
            explanation TEXT NOT NULL DEFAULT '',
            premium_breakdown JSONB,
            computed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            PRIMARY KEY (user_a, user_b),
            CHECK (user_a < user_b)
        )`,

		`CREATE INDEX IF NOT EXISTS idx_scores_user_a_score ON compatibility_scores(user_a, final_score DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_user_b_score ON compatibility_scores(user_b, final_score DESC)`,

		`CREATE TABLE IF NOT EXISTS match_weight_config (
            id SMALLINT PRIMARY KEY CHECK (id = 1),
            life_alignment DOUBLE PRECISION NOT NULL,
            psychological DOUBLE PRECISION NOT NULL,
            chemistry DOUBLE PRECISION NOT NULL,
            taste_learning DOUBLE PRECISION NOT NULL,
            profile_completeness DOUBLE PRECISION NOT NULL,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,

		`INSERT INTO match_weight_config (id, life_alignment, psychological, chemistry, taste_learning, profile_completeness)
         VALUES (1, 0.30, 0.30, 0.20, 0.10, 0.10)
         ON CONFLICT (id) DO NOTHING`,

		`CREATE TABLE IF NOT EXISTS taste_vectors (
            user_id BIGINT PRIMARY KEY REFERENCES members(id) ON DELETE CASCADE,
            vector DOUBLE PRECISION[] NOT NULL,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS date_ratings (
            id BIGSERIAL PRIMARY KEY,
            event_id UUID NOT NULL,
            rater_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
            ratee_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
            chemistry_rating SMALLINT NOT NULL CHECK (chemistry_rating BETWEEN 1 AND 5),
            would_meet_again BOOLEAN NOT NULL,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            UNIQUE (event_id, rater_id, ratee_id),
            CHECK (rater_id <> ratee_id)
        )`,

		`CREATE INDEX IF NOT EXISTS idx_date_ratings_pair ON date_ratings(rater_id, ratee_id)`,

		`CREATE TABLE IF NOT EXISTS event_feedback (
            id BIGSERIAL PRIMARY KEY,
            event_id UUID NOT NULL,
            user_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
            event_rating SMALLINT NOT NULL CHECK (event_rating BETWEEN 1 AND 5),
            comments TEXT,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            UNIQUE (event_id, user_id)
        )`,
	}

	for i, migration := range migrations {
		log.Printf("   - Running migration %d/%d...", i+1, len(migrations))
		if _, err := db.Exec(migration); err != nil {
			if strings.Contains(err.Error(), "already exists") {
				log.Printf("   - Migration %d skipped (already applied)", i+1)
				continue
			}
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
