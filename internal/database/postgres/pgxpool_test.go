package postgres

import (
	"testing"
	"time"

	"resume-screener/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		DBHost:     " db ",
		DBPort:     "5432",
		DBUser:     "screener",
		DBPassword: "p a'ss",
		DBName:     "resumes",
	}
	want := `host=db port=5432 user=screener password='p a\'ss' dbname=resumes sslmode=disable`
	if got := DSN(cfg); got != want {
		t.Fatalf("DSN() = %q, want %q", got, want)
	}

	pcfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if pcfg.ConnConfig.Password != "p a'ss" {
		t.Fatalf("password not round-tripped: %q", pcfg.ConnConfig.Password)
	}
}

func TestApplyPoolConfig(t *testing.T) {
	pcfg, err := pgxpool.ParseConfig("host=localhost dbname=x")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	applyPoolConfig(pcfg, config.DatabaseConfig{
		ConnectTimeout: 3 * time.Second,
		PoolMaxConns:   7,
		PoolMinConns:   2,
	})
	if pcfg.MaxConns != 7 || pcfg.MinConns != 2 || pcfg.ConnConfig.ConnectTimeout != 3*time.Second {
		t.Fatalf("pool config not applied: max=%d min=%d timeout=%s", pcfg.MaxConns, pcfg.MinConns, pcfg.ConnConfig.ConnectTimeout)
	}
}
