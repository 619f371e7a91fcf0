package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"
)

const driverName = "sqlite3"

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type SessionConfig struct {
	MaxAgeHours int `yaml:"max_age_hours"`
}

type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type Config struct {
	Version     string         `yaml:"version"`
	Mode        string         `yaml:"mode"`
	Server      ServerConfig   `yaml:"server"`
	DB          DatabaseConfig `yaml:"database"`
	Session     SessionConfig  `yaml:"session"`
	Admin       AdminConfig    `yaml:"admin"`
	Certificate Certs          `yaml:"certificate"`
}

// 設定ファイルが無い環境（初回起動・テスト）でも動くようデフォルトを持つ
func defaultConfig() *Config {
	return &Config{
		Mode: "dev",
		Server: ServerConfig{
			Port: 3000,
		},
		DB: DatabaseConfig{
			Path: "data/library.db",
		},
		Session: SessionConfig{
			MaxAgeHours: 24,
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: "changeme",
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込み失敗: %w", err)
	}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルのパース失敗: %w", err)
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.DB.Path == "" {
		cfg.DB.Path = "data/library.db"
	}
	if cfg.Session.MaxAgeHours <= 0 {
		cfg.Session.MaxAgeHours = 24
	}
	return cfg, nil
}

// Connect はDBファイルを開く（無ければ作られる）
func Connect(c DatabaseConfig) (*sql.DB, error) {
	if dir := filepath.Dir(c.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("データディレクトリの作成に失敗: %w", err)
		}
	}

	db, err := sql.Open(driverName, c.Path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("接続準備に失敗: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("DB接続に失敗: %w", err)
	}

	// sqliteは書き込みが単一なので開きすぎない
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Migrate は未作成のテーブルを作る（初回起動時に全テーブルが揃う）
func Migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			is_admin INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS books (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			author TEXT,
			isbn TEXT UNIQUE,
			added_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT,
			phone TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS loans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			loan_ulid TEXT UNIQUE NOT NULL,
			book_id INTEGER,
			user_id INTEGER,
			checkout_date TEXT,
			due_date TEXT,
			return_date TEXT,
			FOREIGN KEY(book_id) REFERENCES books(id),
			FOREIGN KEY(user_id) REFERENCES users(id)
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("マイグレーション失敗: %w", err)
		}
	}
	return nil
}
