package internal_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/maintenance-management/internal"
)

var _ = Describe("Config", func() {
	valid := func() internal.Config {
		cfg := internal.Config{
			Database: internal.DatabaseConfig{Source: "postgres://localhost/maintenance"},
			Security: internal.SecurityConfig{
				JWTSecret: "0123456789abcdef0123456789abcdef",
				Issuer:    "maintenance-management",
				Audience:  "maintenance-management-api",
			},
		}
		cfg.ApplyDefaults()
		return cfg
	}

	Describe("ApplyDefaults", func() {
		It("should fill zero values", func() {
			cfg := valid()

			Expect(cfg.Server.Port).To(Equal(8080))
			Expect(cfg.Server.ReadHeaderTimeout).To(Equal(5 * time.Second))
			Expect(cfg.Security.BCryptCost).To(Equal(12))
			Expect(cfg.Security.TokenExpiry()).To(Equal(24 * time.Hour))
			Expect(cfg.Observability.Metrics.Path).To(Equal("/metrics"))
			Expect(cfg.Notifier.MaxWorkers).To(Equal(4))
		})

		It("should keep explicit values", func() {
			cfg := internal.Config{Server: internal.ServerConfig{Port: 9090}}
			cfg.ApplyDefaults()
			Expect(cfg.Server.Port).To(Equal(9090))
		})
	})

	Describe("Validate", func() {
		It("should accept a complete config", func() {
			cfg := valid()
			Expect(cfg.Validate()).To(Succeed())
		})

		It("should report every broken section", func() {
			cfg := valid()
			cfg.Database.Source = ""
			cfg.Security.JWTSecret = "short"

			err := cfg.Validate()

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("database config: source is required"))
			Expect(err.Error()).To(ContainSubstring("security config: jwt_secret must be at least 32 characters"))
		})

		It("should reject a bcrypt cost out of range", func() {
			cfg := valid()
			cfg.Security.BCryptCost = 4
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("bcrypt_cost")))
		})

		It("should reject a relative webhook url", func() {
			cfg := valid()
			cfg.Notifier.WebhookURL = "hooks/maintenance"
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("webhook_url")))
		})
	})

	Describe("Origins", func() {
		It("should split and trim the origin list", func() {
			server := internal.ServerConfig{AllowedOrigins: " http://a.local , ,http://b.local"}
			Expect(server.Origins()).To(Equal([]string{"http://a.local", "http://b.local"}))
		})
	})
})
