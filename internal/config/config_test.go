package config

import (
	"os"
	"testing"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is unset")
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/followup")
	defer os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %q", cfg.Port)
	}
	if cfg.RecruitersGroup != "Recruiters" {
		t.Errorf("expected default recruiters group, got %q", cfg.RecruitersGroup)
	}
	if cfg.AssignableGroup != "Assignable Users" {
		t.Errorf("expected default assignable group, got %q", cfg.AssignableGroup)
	}
	if cfg.OverdueDays != 30 {
		t.Errorf("expected default overdue days 30, got %d", cfg.OverdueDays)
	}
	if !cfg.IsDev() {
		t.Error("expected development mode by default")
	}
}

func TestValidate_ProductionRequiresAuth(t *testing.T) {
	cfg := &Config{
		Env:             "production",
		RecruitersGroup: "Recruiters",
		AssignableGroup: "Assignable Users",
		OverdueDays:     30,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for production without auth configuration")
	}

	cfg.AuthSigningKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_GroupNames(t *testing.T) {
	cfg := &Config{
		Env:             "development",
		RecruitersGroup: "",
		AssignableGroup: "Assignable Users",
		OverdueDays:     30,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty recruiters group")
	}
}

func TestValidate_OverdueDays(t *testing.T) {
	cfg := &Config{
		Env:             "development",
		RecruitersGroup: "Recruiters",
		AssignableGroup: "Assignable Users",
		OverdueDays:     0,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive overdue days")
	}
}
