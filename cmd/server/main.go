package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"farmroute-backend/internal/config"
	"farmroute-backend/internal/database"
	"farmroute-backend/internal/handlers"
	"farmroute-backend/internal/middleware"
	"farmroute-backend/internal/models"
	"farmroute-backend/internal/services"
	"farmroute-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 FARMROUTE BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	cfg, err := config.Load()
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: invalid configuration")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Println("❌ FATAL ERROR: Database connection failed")
		log.Fatal(err)
	}
	defer db.Close()

	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Println("❌ FATAL ERROR: Database migrations failed")
		log.Fatal(err)
	}

	log.Println("🌱 Seeding database with initial data...")
	if err := database.SeedUsers(db); err != nil {
		log.Println("❌ FATAL ERROR: User seeding failed")
		log.Fatal(err)
	}
	if err := database.SeedMarketplace(db); err != nil {
		log.Println("❌ FATAL ERROR: Marketplace seeding failed")
		log.Fatal(err)
	}

	orderStore := database.NewOrderStore(db)
	userStore := database.NewUserStore(db)

	// Geocoding
	httpClient := &http.Client{Timeout: 30 * time.Second}
	var (
		geocoder services.Geocoder
		reverser handlers.ReverseGeocoder
	)
	switch cfg.GeocodingProvider {
	case config.ProviderHERE:
		geocoder = services.NewHEREGeocoder(cfg.HEREAPIKey, cfg.GeocodeRatePerSecond, httpClient)
	default:
		google := services.NewGoogleGeocoder(cfg.GoogleMapsAPIKey, cfg.GeocodeRatePerSecond, httpClient)
		geocoder, reverser = google, google
	}
	log.Printf("✅ Geocoding provider: %s", cfg.GeocodingProvider)

	var (
		geocodeCache *services.GeocodeCache
		cacheStats   handlers.CacheStatsReporter
	)
	if cfg.GeocodeCacheTTL > 0 {
		geocodeCache = services.NewGeocodeCache(cfg.GeocodeCacheSize, cfg.GeocodeCacheTTL)
		cacheStats = geocodeCache
	}
	resolver := services.NewLocationResolver(geocoder, cfg.GeocodeTimeout, geocodeCache)

	// Routing
	var optimizer services.RouteOptimizer
	switch cfg.RoutingProvider {
	case config.ProviderHERE:
		optimizer = services.NewHEREWaypointsOptimizer(cfg.HEREAPIKey, httpClient)
	default:
		optimizer = services.NewGoogleDirectionsOptimizer(cfg.GoogleMapsAPIKey, httpClient)
	}
	log.Printf("✅ Routing provider: %s", cfg.RoutingProvider)

	planner := services.NewDeliveryRouteService(
		services.NewStopCollector(orderStore, resolver),
		services.NewRouteBuilder(optimizer, cfg.RoutingTimeout),
	)

	// Firebase Cloud Messaging, optional
	var notifier handlers.Notifier
	if fcmService := initFCM(cfg); fcmService != nil {
		notifier = fcmService
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Post("/api/auth/login", handlers.Login(userStore, cfg.JWTSecret))

	// Token comes from the query string
	r.Get("/ws", websocket.HandleWebSocket(wsHub, cfg.JWTSecret))

	r.Route("/api", func(r chi.Router) {
		r.Post("/geocoding/forward", handlers.Geocode(resolver))
		r.Post("/geocoding/reverse", handlers.ReverseGeocode(reverser))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))
			r.Use(middleware.RequireRole(models.RoleDriver))

			r.Get("/driver/orders", handlers.GetDriverOrders(orderStore))
			r.Get("/driver/route", handlers.GetDriverRoute(orderStore, planner))
			r.Post("/driver/fcm-token", handlers.RegisterFCMToken(userStore))
			r.Post("/routes/build", handlers.BuildRoute(orderStore, planner))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/manager/orders/assign", handlers.AssignOrders(orderStore, userStore, notifier, wsHub))
			r.Get("/manager/diagnostics/geocode-cache", handlers.GeocodeCacheStats(cacheStats))
		})
	})

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", cfg.Port)
	log.Println("═══════════════════════════════════════════════════════════════════")

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Println("❌ FATAL ERROR: Server failed to start")
		log.Printf("   Port: %s", cfg.Port)
		log.Fatal(err)
	}
}

// initFCM returns nil when no usable credentials are configured
func initFCM(cfg *config.Config) *services.FCMService {
	ctx := context.Background()

	if cfg.FirebaseCredentialsBase64 != "" {
		fcmService, err := services.NewFCMServiceFromBase64(ctx, cfg.FirebaseCredentialsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			return nil
		}
		log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		return fcmService
	}

	fcmService, err := services.NewFCMService(ctx, cfg.FirebaseCredentialsFile)
	if err != nil {
		log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
		return nil
	}
	log.Println("✅ Firebase Cloud Messaging initialized from file")
	return fcmService
}
