package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tenderkit.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "TenderAnalysisSystem", cfg.App.Name)
	assert.Equal(t, "ar", cfg.App.Language)
	assert.Equal(t, 50, cfg.KWIC.Window)
	assert.Equal(t, "ريال", cfg.Format.Currency)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[app]
language = "en"

[logging]
level = "debug"
stdout = false

[format]
currency = "SAR"

[kwic]
window = 20

[export]
sheet_name = "العطاءات"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "en", cfg.App.Language)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Stdout)
	assert.Equal(t, "logs/app.log", cfg.Logging.File)
	assert.Equal(t, "SAR", cfg.Format.Currency)
	assert.Equal(t, 20, cfg.KWIC.Window)
	assert.Equal(t, "العطاءات", cfg.Export.SheetName)
	assert.Equal(t, "1.0.0", cfg.App.Version)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TENDERKIT_LOG_LEVEL", "warn")
	t.Setenv("TENDERKIT_BASE_DIR", "/srv/tenders")
	t.Setenv("TENDERKIT_LANGUAGE", "en_US.UTF-8")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/srv/tenders", cfg.Paths.Base)
	assert.Equal(t, "en", cfg.App.Language)
	assert.Equal(t, filepath.Join("/srv/tenders", "data", "uploads"), cfg.Path(cfg.Paths.Uploads))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"syntax", "[app\nname = 1", "parsing"},
		{"bad level", "[logging]\nlevel = \"loud\"", "logging.level"},
		{"negative window", "[kwic]\nwindow = -1", "kwic.window"},
		{"unsupported language", "[app]\nlanguage = \"xx\"", "app.language"},
		{"empty sheet", "[export]\nsheet_name = \" \"", "export.sheet_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.App.Name = ""
	cfg.Logging.MaxSizeMB = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, "app.name is required; logging.max_size_mb must be positive", err.Error())
}

func TestPath(t *testing.T) {
	cfg := Defaults()
	cfg.Paths.Base = "work"

	assert.Equal(t, filepath.Join("work", "reports"), cfg.Path("reports"))
	assert.Equal(t, "/abs/reports", cfg.Path("/abs/reports"))
	assert.Equal(t, "", cfg.Path(""))
}
