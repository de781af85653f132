package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Storage.DefaultFile != "" {
		t.Errorf("default file = %q, want empty", cfg.Storage.DefaultFile)
	}
	if cfg.Storage.Autoload {
		t.Error("autoload should default to false")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("default log format = %q, want %q", cfg.Log.Format, "text")
	}
	if cfg.Log.File != os.DevNull {
		t.Errorf("default log file = %q, want %q", cfg.Log.File, os.DevNull)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(`
storage:
  default_file: contacts.txt
  autoload: true
log:
  level: debug
  format: json
  file: "-"
`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.DefaultFile != "contacts.txt" {
		t.Errorf("default file = %q, want %q", cfg.Storage.DefaultFile, "contacts.txt")
	}
	if !cfg.Storage.Autoload {
		t.Error("autoload = false, want true")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log format = %q, want %q", cfg.Log.Format, "json")
	}
	if cfg.Log.File != "-" {
		t.Errorf("log file = %q, want %q", cfg.Log.File, "-")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("Load() should return defaults for missing file, got error: %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(missing) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("Load(invalid YAML) should return error")
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(`
log:
  level: info
`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want %q", cfg.Log.Level, "info")
	}
	// Unset fields should retain defaults.
	if cfg.Log.Format != "text" {
		t.Errorf("log format = %q, want default %q", cfg.Log.Format, "text")
	}
	if cfg.Log.File != os.DevNull {
		t.Errorf("log file = %q, want default %q", cfg.Log.File, os.DevNull)
	}
}

func TestLoad_LayeredPriority(t *testing.T) {
	// Setup: user config sets the default file, project config overrides the log level.
	userDir := t.TempDir()
	projectDir := t.TempDir()

	userCfg := filepath.Join(userDir, "config.yaml")
	if err := os.WriteFile(userCfg, []byte(`
storage:
  default_file: /home/me/contacts.txt
log:
  level: warn
`), 0o644); err != nil {
		t.Fatal(err)
	}

	projectCfg := filepath.Join(projectDir, "config.yaml")
	if err := os.WriteFile(projectCfg, []byte(`
log:
  level: debug
`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadLayered(userCfg, projectCfg)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}
	// Default file from user config (project doesn't set it).
	if cfg.Storage.DefaultFile != "/home/me/contacts.txt" {
		t.Errorf("default file = %q, want %q", cfg.Storage.DefaultFile, "/home/me/contacts.txt")
	}
	// Level from project config (overrides user).
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want %q", cfg.Log.Level, "debug")
	}
	// Format retains default when neither layer sets it.
	if cfg.Log.Format != "text" {
		t.Errorf("log format = %q, want default %q", cfg.Log.Format, "text")
	}
}

func TestLoadLayered_LaterFalseOverridesTrue(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yaml")
	second := filepath.Join(dir, "second.yaml")
	if err := os.WriteFile(first, []byte("storage:\n  autoload: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("storage:\n  autoload: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadLayered(first, second)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}
	if cfg.Storage.Autoload {
		t.Error("autoload = true, want explicit false from later layer")
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name  string
		envs  map[string]string
		check func(*testing.T, Config)
	}{
		{
			name: "PHONEBOOK_FILE overrides default file",
			envs: map[string]string{"PHONEBOOK_FILE": "/data/book.txt"},
			check: func(t *testing.T, c Config) {
				if c.Storage.DefaultFile != "/data/book.txt" {
					t.Errorf("default file = %q, want %q", c.Storage.DefaultFile, "/data/book.txt")
				}
			},
		},
		{
			name: "PHONEBOOK_LOG_LEVEL overrides level",
			envs: map[string]string{"PHONEBOOK_LOG_LEVEL": "error"},
			check: func(t *testing.T, c Config) {
				if c.Log.Level != "error" {
					t.Errorf("log level = %q, want %q", c.Log.Level, "error")
				}
			},
		},
		{
			name: "PHONEBOOK_LOG_FORMAT and PHONEBOOK_LOG_FILE override logging",
			envs: map[string]string{"PHONEBOOK_LOG_FORMAT": "json", "PHONEBOOK_LOG_FILE": "/tmp/pb.log"},
			check: func(t *testing.T, c Config) {
				if c.Log.Format != "json" {
					t.Errorf("log format = %q, want %q", c.Log.Format, "json")
				}
				if c.Log.File != "/tmp/pb.log" {
					t.Errorf("log file = %q, want %q", c.Log.File, "/tmp/pb.log")
				}
			},
		},
		{
			name: "unset variables keep defaults",
			envs: map[string]string{},
			check: func(t *testing.T, c Config) {
				if c != DefaultConfig() {
					t.Errorf("config = %+v, want defaults", c)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"PHONEBOOK_FILE", "PHONEBOOK_LOG_LEVEL", "PHONEBOOK_LOG_FORMAT", "PHONEBOOK_LOG_FILE"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.envs {
				t.Setenv(k, v)
			}
			cfg := DefaultConfig()
			cfg.ApplyEnv()
			tt.check(t, cfg)
		})
	}
}

func TestLoad_UnknownField(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(`
storage:
  defualt_file: contacts.txt
`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("Load() should return error for unknown field 'defualt_file'")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:   "upper-case level",
			modify: func(c *Config) { c.Log.Level = "DEBUG" },
		},
		{
			name:    "unknown level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "autoload without default file",
			modify:  func(c *Config) { c.Storage.Autoload = true },
			wantErr: true,
		},
		{
			name: "autoload with default file",
			modify: func(c *Config) {
				c.Storage.Autoload = true
				c.Storage.DefaultFile = "contacts.txt"
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_CommentOnlyFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("# just a comment\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(comment-only) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(comment-only) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoadLayered_AllMissing(t *testing.T) {
	cfg, err := LoadLayered("/no/user.yaml", "/no/project.yaml")
	if err != nil {
		t.Fatalf("LoadLayered(all missing) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("got %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(empty) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(empty) = %+v, want defaults %+v", *cfg, want)
	}
}
