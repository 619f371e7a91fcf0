package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"LIBRIS-backend/internal/library/books"
	"LIBRIS-backend/internal/library/loans"
	"LIBRIS-backend/internal/library/users"
	"LIBRIS-backend/internal/platform/auth"
	"LIBRIS-backend/internal/platform/db"
)

func main() {
	// 設定読み込み（ファイルが無ければデフォルト：port 3000, data/library.db）
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	log.Printf("[INFO] mode:%s\n", cfg.Mode)

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	// テーブルは初回起動時に自動作成
	if err := db.Migrate(conn); err != nil {
		panic(err)
	}
	log.Printf("[INFO] store: %s", cfg.DB.Path)

	// アカウントが0件なら初期管理者をシードする
	authService := auth.NewService(conn)
	seeded, err := authService.EnsureDefaultAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		panic(err)
	}
	if seeded {
		log.Printf("[WARN] seeded default admin %q — change the password immediately", cfg.Admin.Username)
	}

	sessions := auth.NewManager(auth.NewMemoryStore(), time.Duration(cfg.Session.MaxAgeHours)*time.Hour)
	authHandler := auth.NewHandler(authService, sessions)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == "dev" {
		// CORS（開発中のみ必要。Cookieを通すので AllowCredentials 必須）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// /api
	api := r.Group("/api")
	authHandler.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(auth.RequireAuth(sessions))
	{
		authHandler.RegisterProtectedRoutes(protected)
		books.RegisterRoutes(protected, books.NewService(conn))
		users.RegisterRoutes(protected, users.NewService(conn))
		loans.RegisterRoutes(protected, loans.NewService(conn))

		admin := protected.Group("")
		admin.Use(auth.RequireAdmin())
		authHandler.RegisterAdminRoutes(admin)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		var err error
		if cfg.Certificate.Cert != "" && cfg.Certificate.Key != "" {
			log.Printf("[INFO] listening on https://0.0.0.0:%d", cfg.Server.Port)
			err = srv.ListenAndServeTLS(cfg.Certificate.Cert, cfg.Certificate.Key)
		} else {
			log.Printf("[INFO] listening on http://0.0.0.0:%d", cfg.Server.Port)
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
