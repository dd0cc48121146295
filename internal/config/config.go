package config

import (
	"fmt"
	"net"
	"os"
	"strings"

	"code.cloudfoundry.org/k8s-policy-controller/internal/policy"

	utilnet "k8s.io/utils/net"
)

const (
	DefaultAdminAddr       = "0.0.0.0:8080"
	DefaultGrpcAddr        = "0.0.0.0:8090"
	DefaultAdmissionAddr   = "0.0.0.0:8443"
	DefaultClusterNetworks = "10.0.0.0/8,100.64.0.0/10,172.16.0.0/12,192.168.0.0/16"
	DefaultIdentityDomain  = "cluster.local"
	DefaultAllowPolicy     = "all-unauthenticated"
	DefaultTLSCertPath     = "/etc/ssl/certs/policy-controller/tls.crt"
	DefaultTLSKeyPath      = "/etc/ssl/certs/policy-controller/tls.key"
)

type Config struct {
	AdminAddr       string
	GrpcAddr        string
	AdmissionAddr   string
	ClusterNetworks []*net.IPNet
	IdentityDomain  string
	DefaultAllow    policy.DefaultAllow
	TLSCertPath     string
	TLSKeyPath      string
}

// Load reads the environment. Values that change policy semantics (the
// cluster network list, the default-allow posture) reject the whole
// configuration when malformed instead of falling back to defaults.
func Load() (*Config, error) {
	networks, err := parseClusterNetworks(getEnvOrDefault("CLUSTER_NETWORKS", DefaultClusterNetworks))
	if err != nil {
		return nil, err
	}

	defaultAllow, err := policy.ParseDefaultAllow(getEnvOrDefault("DEFAULT_ALLOW", DefaultAllowPolicy))
	if err != nil {
		return nil, err
	}

	return &Config{
		AdminAddr:       getEnvOrDefault("ADMIN_ADDR", DefaultAdminAddr),
		GrpcAddr:        getEnvOrDefault("GRPC_ADDR", DefaultGrpcAddr),
		AdmissionAddr:   getEnvOrDefault("ADMISSION_ADDR", DefaultAdmissionAddr),
		ClusterNetworks: networks,
		IdentityDomain:  getEnvOrDefault("IDENTITY_DOMAIN", DefaultIdentityDomain),
		DefaultAllow:    defaultAllow,
		TLSCertPath:     getEnvOrDefault("TLS_CERT_PATH", DefaultTLSCertPath),
		TLSKeyPath:      getEnvOrDefault("TLS_KEY_PATH", DefaultTLSKeyPath),
	}, nil
}

// ClusterNetworkStrings renders the parsed networks in their original order
// for logging and for the derived policy views.
func (c *Config) ClusterNetworkStrings() []string {
	rendered := make([]string, 0, len(c.ClusterNetworks))
	for _, network := range c.ClusterNetworks {
		rendered = append(rendered, network.String())
	}
	return rendered
}

func parseClusterNetworks(value string) ([]*net.IPNet, error) {
	entries := strings.Split(value, ",")
	for i, entry := range entries {
		entries[i] = strings.TrimSpace(entry)
	}

	networks, err := utilnet.ParseCIDRs(entries)
	if err != nil {
		return nil, fmt.Errorf("parsing cluster networks %q: %w", value, err)
	}

	return networks, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
