package config_test

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"code.cloudfoundry.org/k8s-policy-controller/internal/config"
	"code.cloudfoundry.org/k8s-policy-controller/internal/policy"
)

func setEnvWithCleanup(k, v string) {
	original := os.Getenv(k)
	Expect(os.Setenv(k, v)).To(Succeed())
	DeferCleanup(func() {
		if original == "" {
			Expect(os.Unsetenv(k)).To(Succeed())
		} else {
			Expect(os.Setenv(k, original)).To(Succeed())
		}
	})
}

var _ = Describe("Config", func() {
	Describe("Load", func() {
		It("applies the documented defaults", func() {
			cfg, err := config.Load()
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.AdminAddr).To(Equal("0.0.0.0:8080"))
			Expect(cfg.GrpcAddr).To(Equal("0.0.0.0:8090"))
			Expect(cfg.AdmissionAddr).To(Equal("0.0.0.0:8443"))
			Expect(cfg.ClusterNetworkStrings()).To(Equal([]string{
				"10.0.0.0/8",
				"100.64.0.0/10",
				"172.16.0.0/12",
				"192.168.0.0/16",
			}))
			Expect(cfg.IdentityDomain).To(Equal("cluster.local"))
			Expect(cfg.DefaultAllow).To(Equal(policy.AllowAllUnauthenticated))
			Expect(cfg.TLSCertPath).To(Equal(config.DefaultTLSCertPath))
			Expect(cfg.TLSKeyPath).To(Equal(config.DefaultTLSKeyPath))
		})

		It("honors overrides from the environment", func() {
			setEnvWithCleanup("ADMIN_ADDR", "127.0.0.1:9990")
			setEnvWithCleanup("GRPC_ADDR", "127.0.0.1:9991")
			setEnvWithCleanup("ADMISSION_ADDR", "127.0.0.1:9992")
			setEnvWithCleanup("CLUSTER_NETWORKS", "10.1.0.0/16")
			setEnvWithCleanup("IDENTITY_DOMAIN", "prod.example.com")
			setEnvWithCleanup("DEFAULT_ALLOW", "deny")
			setEnvWithCleanup("TLS_CERT_PATH", "/custom/cert")
			setEnvWithCleanup("TLS_KEY_PATH", "/custom/key")

			cfg, err := config.Load()
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.AdminAddr).To(Equal("127.0.0.1:9990"))
			Expect(cfg.GrpcAddr).To(Equal("127.0.0.1:9991"))
			Expect(cfg.AdmissionAddr).To(Equal("127.0.0.1:9992"))
			Expect(cfg.ClusterNetworkStrings()).To(Equal([]string{"10.1.0.0/16"}))
			Expect(cfg.IdentityDomain).To(Equal("prod.example.com"))
			Expect(cfg.DefaultAllow).To(Equal(policy.AllowDeny))
			Expect(cfg.TLSCertPath).To(Equal("/custom/cert"))
			Expect(cfg.TLSKeyPath).To(Equal("/custom/key"))
		})

		Describe("cluster network parsing", func() {
			It("preserves entry order", func() {
				setEnvWithCleanup("CLUSTER_NETWORKS", "10.0.0.0/8,192.168.0.0/16")

				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.ClusterNetworkStrings()).To(Equal([]string{"10.0.0.0/8", "192.168.0.0/16"}))
			})

			It("tolerates whitespace around entries", func() {
				setEnvWithCleanup("CLUSTER_NETWORKS", " 10.0.0.0/8 , 192.168.0.0/16 ")

				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.ClusterNetworkStrings()).To(Equal([]string{"10.0.0.0/8", "192.168.0.0/16"}))
			})

			DescribeTable("rejects the whole list when any entry is invalid",
				func(value string) {
					setEnvWithCleanup("CLUSTER_NETWORKS", value)

					cfg, err := config.Load()
					Expect(err).To(MatchError(ContainSubstring("cluster networks")))
					Expect(cfg).To(BeNil())
				},
				Entry("trailing garbage entry", "10.0.0.0/8,bad"),
				Entry("prefix length out of range", "10.0.0.0/33"),
				Entry("valid prefix after the invalid one", "10.0.0.0/33,192.168.0.0/16"),
				Entry("bare host without prefix", "10.0.0.0/8,10.1.2.3"),
				Entry("empty entry between commas", "10.0.0.0/8,,192.168.0.0/16"),
			)
		})

		Describe("default-allow parsing", func() {
			It("accepts every documented posture", func() {
				for _, value := range []string{
					"all-authenticated",
					"all-unauthenticated",
					"cluster-authenticated",
					"cluster-unauthenticated",
					"deny",
				} {
					setEnvWithCleanup("DEFAULT_ALLOW", value)
					cfg, err := config.Load()
					Expect(err).NotTo(HaveOccurred())
					Expect(cfg.DefaultAllow.String()).To(Equal(value))
				}
			})

			It("rejects unknown postures", func() {
				setEnvWithCleanup("DEFAULT_ALLOW", "mostly-allowed")

				cfg, err := config.Load()
				Expect(err).To(MatchError(ContainSubstring("mostly-allowed")))
				Expect(cfg).To(BeNil())
			})
		})
	})
})
