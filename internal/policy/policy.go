package policy

import (
	"fmt"
)

const (
	// DefaultAllowAnnotation overrides the configured default posture on a
	// workload or, when set on a namespace, on every workload in it.
	DefaultAllowAnnotation = "policy.cloudfoundry.org/default-allow"

	// ManagedByLabelKey marks cluster objects written by this control plane.
	ManagedByLabelKey   = "app.kubernetes.io/managed-by"
	ManagedByLabelValue = "policy-controller"
)

// DefaultAllow is the authorization posture applied to traffic that no
// policy explicitly authorizes.
type DefaultAllow string

const (
	AllowAllAuthenticated       DefaultAllow = "all-authenticated"
	AllowAllUnauthenticated     DefaultAllow = "all-unauthenticated"
	AllowClusterAuthenticated   DefaultAllow = "cluster-authenticated"
	AllowClusterUnauthenticated DefaultAllow = "cluster-unauthenticated"
	AllowDeny                   DefaultAllow = "deny"
)

func ParseDefaultAllow(value string) (DefaultAllow, error) {
	switch allow := DefaultAllow(value); allow {
	case AllowAllAuthenticated,
		AllowAllUnauthenticated,
		AllowClusterAuthenticated,
		AllowClusterUnauthenticated,
		AllowDeny:
		return allow, nil
	default:
		return "", fmt.Errorf("unrecognized default-allow policy %q", value)
	}
}

func (a DefaultAllow) String() string {
	return string(a)
}

// RequiresAuthentication reports whether the posture only admits
// mesh-authenticated clients.
func (a DefaultAllow) RequiresAuthentication() bool {
	return a == AllowAllAuthenticated || a == AllowClusterAuthenticated
}

// ClusterOnly reports whether the posture restricts clients to the
// configured cluster networks.
func (a DefaultAllow) ClusterOnly() bool {
	return a == AllowClusterAuthenticated || a == AllowClusterUnauthenticated
}

// WorkloadPolicy is the derived inbound-policy view of a single workload.
type WorkloadPolicy struct {
	Namespace      string          `json:"namespace"`
	Name           string          `json:"name"`
	IP             string          `json:"ip,omitempty"`
	Allow          DefaultAllow    `json:"allow"`
	Networks       []string        `json:"networks,omitempty"`
	Authorizations []Authorization `json:"authorizations,omitempty"`
}

// Authorization is one grant contributed by a policy object whose selector
// matches the workload.
type Authorization struct {
	Name       string         `json:"name"`
	Networks   []string       `json:"networks,omitempty"`
	Ports      []PortProtocol `json:"ports,omitempty"`
	Identities []string       `json:"identities,omitempty"`
}

type PortProtocol struct {
	Port     int32  `json:"port"`
	EndPort  int32  `json:"endPort,omitempty"`
	Protocol string `json:"protocol,omitempty"`
}
