package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// Each scenario lives in its own test function: t.Setenv cleans up at
// function scope, so sharing one function would leak overrides between
// scenarios.

func TestLoadDefaults(t *testing.T) {
	Convey("With no file and no environment overrides", t, func() {
		cfg, err := Load(context.Background(), "")

		So(err, ShouldBeNil)
		So(cfg.Addr, ShouldEqual, ":5001")
		So(cfg.StoreDriver, ShouldEqual, StorePostgres)
		So(cfg.MaxUploadBytes, ShouldEqual, int64(5<<20))
		So(cfg.DefaultTopLimit, ShouldEqual, 10)
		So(cfg.GeminiModel, ShouldEqual, "gemini-2.5-flash")
		So(cfg.CORSOrigins, ShouldResemble, []string{"http://localhost:5173"})
	})
}

func TestLoadFromFile(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		path := filepath.Join(t.TempDir(), "config.yaml")
		So(os.WriteFile(path, []byte(
			"addr: \":9000\"\n"+
				"store_driver: memory\n"+
				"scorer_timeout_ms: 15000\n",
		), 0o600), ShouldBeNil)

		cfg, err := Load(context.Background(), path)

		Convey("file values override the defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9000")
			So(cfg.StoreDriver, ShouldEqual, StoreMemory)
			So(cfg.ScorerTimeoutMS, ShouldEqual, 15000)

			Convey("while untouched keys keep their defaults", func() {
				So(cfg.MaxLeaderboardLimit, ShouldEqual, 100)
			})
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BB_ADDR", ":7777")
	t.Setenv("BB_STORE_DRIVER", "memory")
	t.Setenv("BB_GEMINI_API_KEY", "test-key")

	Convey("Environment values take effect", t, func() {
		cfg, err := Load(context.Background(), "")

		So(err, ShouldBeNil)
		So(cfg.Addr, ShouldEqual, ":7777")
		So(cfg.StoreDriver, ShouldEqual, StoreMemory)
		So(cfg.GeminiAPIKey, ShouldEqual, "test-key")
	})
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9000\"\nstore_driver: memory\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("BB_ADDR", ":7777")

	Convey("Environment wins over the file", t, func() {
		cfg, err := Load(context.Background(), path)

		So(err, ShouldBeNil)
		So(cfg.Addr, ShouldEqual, ":7777")
		So(cfg.StoreDriver, ShouldEqual, StoreMemory)
	})
}

func TestLoadConfigPathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":8800\"\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("BB_CONFIG", path)

	Convey("Load picks up the file referenced by BB_CONFIG", t, func() {
		cfg, err := Load(context.Background(), "")

		So(err, ShouldBeNil)
		So(cfg.Addr, ShouldEqual, ":8800")
	})
}

func TestLoadMissingFile(t *testing.T) {
	Convey("A missing config file path fails with ErrLoadConfig", t, func() {
		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
		So(err, ShouldWrap, ErrLoadConfig)
	})
}

func TestLoadValidation(t *testing.T) {
	// Every case sets the full group of related keys so earlier cases
	// cannot bleed into later ones.
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"empty addr", map[string]string{
			"BB_ADDR": "",
		}},
		{"unknown store driver", map[string]string{
			"BB_ADDR":         ":5001",
			"BB_STORE_DRIVER": "redis",
		}},
		{"postgres without dsn", map[string]string{
			"BB_ADDR":         ":5001",
			"BB_STORE_DRIVER": "postgres",
			"BB_POSTGRES_DSN": "",
		}},
		{"empty scorer url", map[string]string{
			"BB_ADDR":         ":5001",
			"BB_STORE_DRIVER": "memory",
			"BB_SCORER_URL":   "",
		}},
		{"non-positive upload cap", map[string]string{
			"BB_ADDR":             ":5001",
			"BB_STORE_DRIVER":     "memory",
			"BB_SCORER_URL":       "http://localhost:8000/predict",
			"BB_MAX_UPLOAD_BYTES": "0",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			Convey("Load rejects "+tt.name, t, func() {
				_, err := Load(context.Background(), "")
				So(err, ShouldWrap, ErrInvalidConfig)
			})
		})
	}
}
