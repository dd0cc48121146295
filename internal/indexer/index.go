package indexer

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"code.cloudfoundry.org/k8s-policy-controller/internal/config"
	"code.cloudfoundry.org/k8s-policy-controller/internal/metrics"
	"code.cloudfoundry.org/k8s-policy-controller/internal/policy"

	"code.cloudfoundry.org/lager/v3"
	ciliumv2 "github.com/cilium/cilium/pkg/k8s/apis/cilium.io/v2"
	slimv1 "github.com/cilium/cilium/pkg/k8s/slim/k8s/apis/meta/v1"
	ciliumapi "github.com/cilium/cilium/pkg/policy/api"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
)

// serviceAccountLabel is the identity label cilium attaches to endpoint
// selectors; policies that authorize by service account carry it in
// FromEndpoints.
const serviceAccountLabel = "io.cilium.k8s.policy.serviceaccount"

// Index is the in-memory view of cluster policy state. Writes arrive from
// informer event handlers; reads come from the query service. Derivation
// happens on read so a policy change never leaves a stale precomputed view
// behind.
type Index struct {
	defaultAllow    policy.DefaultAllow
	identityDomain  string
	clusterNetworks []string
	logger          lager.Logger

	mu        sync.RWMutex
	workloads map[types.NamespacedName]*workload
	policies  map[types.NamespacedName]ciliumapi.Rules
}

type workload struct {
	labels      map[string]string
	annotations map[string]string
	ip          string
}

func NewIndex(cfg *config.Config, logger lager.Logger) *Index {
	return &Index{
		defaultAllow:    cfg.DefaultAllow,
		identityDomain:  cfg.IdentityDomain,
		clusterNetworks: cfg.ClusterNetworkStrings(),
		logger:          logger,
		workloads:       map[types.NamespacedName]*workload{},
		policies:        map[types.NamespacedName]ciliumapi.Rules{},
	}
}

func (ix *Index) UpsertPod(pod *corev1.Pod) {
	key := types.NamespacedName{Namespace: pod.Namespace, Name: pod.Name}

	ix.mu.Lock()
	ix.workloads[key] = &workload{
		labels:      pod.Labels,
		annotations: pod.Annotations,
		ip:          pod.Status.PodIP,
	}
	metrics.WorkloadsIndexed.Set(float64(len(ix.workloads)))
	ix.mu.Unlock()
}

func (ix *Index) DeletePod(namespace, name string) {
	ix.mu.Lock()
	delete(ix.workloads, types.NamespacedName{Namespace: namespace, Name: name})
	metrics.WorkloadsIndexed.Set(float64(len(ix.workloads)))
	ix.mu.Unlock()
}

func (ix *Index) UpsertPolicy(cnp *ciliumv2.CiliumNetworkPolicy) {
	key := types.NamespacedName{Namespace: cnp.Namespace, Name: cnp.Name}

	ix.mu.Lock()
	ix.policies[key] = flattenRules(cnp)
	metrics.PoliciesIndexed.Set(float64(len(ix.policies)))
	ix.mu.Unlock()
}

func (ix *Index) DeletePolicy(namespace, name string) {
	ix.mu.Lock()
	delete(ix.policies, types.NamespacedName{Namespace: namespace, Name: name})
	metrics.PoliciesIndexed.Set(float64(len(ix.policies)))
	ix.mu.Unlock()
}

func (ix *Index) WorkloadCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.workloads)
}

func (ix *Index) PolicyCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.policies)
}

// WorkloadPolicy derives the inbound-policy view of one workload.
func (ix *Index) WorkloadPolicy(namespace, name string) (policy.WorkloadPolicy, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	key := types.NamespacedName{Namespace: namespace, Name: name}
	w, ok := ix.workloads[key]
	if !ok {
		return policy.WorkloadPolicy{}, false
	}

	return ix.deriveLocked(key, w), true
}

// Workloads derives the view of every indexed workload, ordered by
// namespace and name.
func (ix *Index) Workloads() []policy.WorkloadPolicy {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	keys := make([]types.NamespacedName, 0, len(ix.workloads))
	for key := range ix.workloads {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Namespace != keys[j].Namespace {
			return keys[i].Namespace < keys[j].Namespace
		}
		return keys[i].Name < keys[j].Name
	})

	derived := make([]policy.WorkloadPolicy, 0, len(keys))
	for _, key := range keys {
		derived = append(derived, ix.deriveLocked(key, ix.workloads[key]))
	}
	return derived
}

func (ix *Index) deriveLocked(key types.NamespacedName, w *workload) policy.WorkloadPolicy {
	allow := ix.defaultAllow
	if raw, ok := w.annotations[policy.DefaultAllowAnnotation]; ok {
		parsed, err := policy.ParseDefaultAllow(raw)
		if err != nil {
			ix.logger.Error("ignoring invalid default-allow annotation", err, lager.Data{
				"namespace": key.Namespace,
				"pod":       key.Name,
			})
		} else {
			allow = parsed
		}
	}

	derived := policy.WorkloadPolicy{
		Namespace: key.Namespace,
		Name:      key.Name,
		IP:        w.ip,
		Allow:     allow,
		Networks:  ix.approvedNetworks(allow),
	}

	for _, pkey := range ix.policyKeysLocked(key.Namespace) {
		for _, rule := range ix.policies[pkey] {
			if rule == nil || !selectorMatches(rule.EndpointSelector.LabelSelector, w.labels) {
				continue
			}
			derived.Authorizations = append(derived.Authorizations,
				ingressAuthorizations(pkey.Name, pkey.Namespace, ix.identityDomain, rule.Ingress)...)
		}
	}

	return derived
}

func (ix *Index) policyKeysLocked(namespace string) []types.NamespacedName {
	keys := make([]types.NamespacedName, 0, len(ix.policies))
	for key := range ix.policies {
		if key.Namespace == namespace {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })
	return keys
}

func (ix *Index) approvedNetworks(allow policy.DefaultAllow) []string {
	switch {
	case allow == policy.AllowDeny:
		return nil
	case allow.ClusterOnly():
		return append([]string(nil), ix.clusterNetworks...)
	default:
		return []string{"0.0.0.0/0", "::/0"}
	}
}

func flattenRules(cnp *ciliumv2.CiliumNetworkPolicy) ciliumapi.Rules {
	var rules ciliumapi.Rules
	if cnp.Spec != nil {
		rules = append(rules, cnp.Spec)
	}
	return append(rules, cnp.Specs...)
}

func ingressAuthorizations(name, namespace, identityDomain string, ingress []ciliumapi.IngressRule) []policy.Authorization {
	var authorizations []policy.Authorization

	for _, rule := range ingress {
		authorization := policy.Authorization{Name: name}

		for _, cidr := range rule.FromCIDR {
			authorization.Networks = append(authorization.Networks, string(cidr))
		}
		for _, cidrRule := range rule.FromCIDRSet {
			authorization.Networks = append(authorization.Networks, string(cidrRule.Cidr))
		}

		for _, portRule := range rule.ToPorts {
			for _, port := range portRule.Ports {
				converted, ok := convertPort(port)
				if !ok {
					continue
				}
				authorization.Ports = append(authorization.Ports, converted)
			}
		}

		for _, endpoint := range rule.FromEndpoints {
			if endpoint.LabelSelector == nil {
				continue
			}
			if account := string(endpoint.LabelSelector.MatchLabels[serviceAccountLabel]); account != "" {
				authorization.Identities = append(authorization.Identities,
					fmt.Sprintf("%s.%s.serviceaccount.%s", account, namespace, identityDomain))
			}
		}

		if len(authorization.Networks) == 0 && len(authorization.Ports) == 0 && len(authorization.Identities) == 0 {
			continue
		}
		authorizations = append(authorizations, authorization)
	}

	return authorizations
}

// convertPort translates a cilium port entry; named ports carry no numeric
// value and are skipped.
func convertPort(port ciliumapi.PortProtocol) (policy.PortProtocol, bool) {
	number, err := strconv.ParseInt(port.Port, 10, 32)
	if err != nil {
		return policy.PortProtocol{}, false
	}

	return policy.PortProtocol{
		Port:     int32(number),
		EndPort:  port.EndPort,
		Protocol: string(port.Protocol),
	}, true
}

func selectorMatches(selector *slimv1.LabelSelector, labels map[string]string) bool {
	if selector == nil {
		return true
	}

	for key, value := range selector.MatchLabels {
		if labels[key] != string(value) {
			return false
		}
	}

	for _, requirement := range selector.MatchExpressions {
		actual, exists := labels[requirement.Key]
		switch requirement.Operator {
		case slimv1.LabelSelectorOpExists:
			if !exists {
				return false
			}
		case slimv1.LabelSelectorOpDoesNotExist:
			if exists {
				return false
			}
		case slimv1.LabelSelectorOpIn:
			if !exists || !containsValue(requirement.Values, actual) {
				return false
			}
		case slimv1.LabelSelectorOpNotIn:
			if exists && containsValue(requirement.Values, actual) {
				return false
			}
		default:
			return false
		}
	}

	return true
}

func containsValue(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
