package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/venkman/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":4444")
				convey.So(cfg.LogWritePauseMS, convey.ShouldEqual, 5000)
				convey.So(cfg.MonitorEnabled, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("VENKMAN_ADDR", ":5555")
			_ = os.Setenv("VENKMAN_LOG_DIR", "/tmp/venkman-logs")
			_ = os.Setenv("VENKMAN_LOG_ITEMS_TO_BUFFER", "10")
			_ = os.Setenv("VENKMAN_RANDOM_SEED", "42")
			_ = os.Setenv("VENKMAN_SESSION_ID_FORMAT", "uuid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":5555")
				convey.So(cfg.LogDir, convey.ShouldEqual, "/tmp/venkman-logs")
				convey.So(cfg.LogItemsToBuffer, convey.ShouldEqual, 10)
				convey.So(cfg.RandomSeed, convey.ShouldEqual, 42)
				convey.So(cfg.SessionIDFormat, convey.ShouldEqual, config.SessionIDUUID)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
# rig 2
addr: ":6666"
work_dir: /data/venkman
log_write_pause_ms: 250
monitor_enabled: false
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("VENKMAN_CONFIG", tmpFile)
			_ = os.Setenv("VENKMAN_ADDR", ":7777")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7777")
				convey.So(cfg.WorkDir, convey.ShouldEqual, "/data/venkman")
				convey.So(cfg.LogWritePauseMS, convey.ShouldEqual, 250)
				convey.So(cfg.MonitorEnabled, convey.ShouldBeFalse)
				convey.So(cfg.OpsAddr, convey.ShouldEqual, ":9080")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("VENKMAN_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a config file error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(errors.Is(err, config.ErrConfigFile), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "VENKMAN_CONFIG")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("VENKMAN_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a config file error", func() {
				convey.So(errors.Is(err, config.ErrConfigFile), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid values", func() {
			cases := [][2]string{
				{"VENKMAN_ADDR", ""},
				{"VENKMAN_SESSION_ID_FORMAT", "counter"},
				{"VENKMAN_LOG_FORMAT", "xml"},
				{"VENKMAN_LOG_WRITE_PAUSE_MS", "-1"},
				{"VENKMAN_SHUTDOWN_TIMEOUT_MS", "0"},
			}

			convey.Convey("Then each is a validation error", func() {
				for _, c := range cases {
					_ = os.Setenv(c[0], c[1])
					cfg, err := config.Load(ctx)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(cfg, convey.ShouldBeNil)
					clearConfigEnvVars()
				}
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("VENKMAN_RANDOM_SEED", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"VENKMAN_CONFIG",
		"VENKMAN_ADDR",
		"VENKMAN_LOG_DIR",
		"VENKMAN_LOG_FORMAT",
		"VENKMAN_LOG_ITEMS_TO_BUFFER",
		"VENKMAN_LOG_WRITE_PAUSE_MS",
		"VENKMAN_RANDOM_SEED",
		"VENKMAN_SESSION_ID_FORMAT",
		"VENKMAN_SHUTDOWN_TIMEOUT_MS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "venkman-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
