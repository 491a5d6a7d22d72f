package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigDir(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestMustLoad(t *testing.T) {
	dir := writeConfigDir(t,
		"jwt_ttl: 24h\ndefault_page_size: 10\nmax_page_size: 30\ninvite_ttl: 48h\n",
		"jwt_key: 'k'\npg:\n  host: localhost\n  port: 5432\n  user: u\n  password: p\n  dbname: daygram\n",
	)

	cfg := MustLoad(dir)
	if cfg.JwtKey() != "k" {
		t.Errorf("jwt key = %q, want k", cfg.JwtKey())
	}
	if cfg.JwtTTL() != 24*time.Hour {
		t.Errorf("jwt ttl = %v, want 24h", cfg.JwtTTL())
	}
	if cfg.Public.DefaultPageSize != 10 || cfg.Public.MaxPageSize != 30 {
		t.Errorf("page sizes = %d/%d", cfg.Public.DefaultPageSize, cfg.Public.MaxPageSize)
	}
	if cfg.Private.Pg.Dbname != "daygram" {
		t.Errorf("dbname = %q", cfg.Private.Pg.Dbname)
	}
}

func TestMustLoad_Defaults(t *testing.T) {
	dir := writeConfigDir(t, "jwt_ttl: 1h\n", "jwt_key: 'k'\n")

	cfg := MustLoad(dir)
	if cfg.Public.DefaultPageSize != 20 {
		t.Errorf("default page size = %d, want 20", cfg.Public.DefaultPageSize)
	}
	if cfg.Public.MaxPageSize != 50 {
		t.Errorf("max page size = %d, want 50", cfg.Public.MaxPageSize)
	}
	if cfg.Public.InviteTTL != 7*24*time.Hour {
		t.Errorf("invite ttl = %v, want 168h", cfg.Public.InviteTTL)
	}
	if len(cfg.Public.AllowedImageMimeTypes) == 0 {
		t.Error("expected default image mime types")
	}
}

func TestMustLoad_MissingFile(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for missing config dir, got none")
		}
	}()
	_ = MustLoad(filepath.Join(t.TempDir(), "nope"))
}
