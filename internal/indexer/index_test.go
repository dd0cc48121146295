package indexer_test

import (
	"io"
	"net"

	"code.cloudfoundry.org/lager/v3"
	ciliumv2 "github.com/cilium/cilium/pkg/k8s/apis/cilium.io/v2"
	slimv1 "github.com/cilium/cilium/pkg/k8s/slim/k8s/apis/meta/v1"
	ciliumapi "github.com/cilium/cilium/pkg/policy/api"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"code.cloudfoundry.org/k8s-policy-controller/internal/config"
	"code.cloudfoundry.org/k8s-policy-controller/internal/indexer"
	"code.cloudfoundry.org/k8s-policy-controller/internal/policy"
)

func clusterConfig(allow policy.DefaultAllow) *config.Config {
	var networks []*net.IPNet
	for _, cidr := range []string{"10.0.0.0/8", "192.168.0.0/16"} {
		_, network, err := net.ParseCIDR(cidr)
		Expect(err).NotTo(HaveOccurred())
		networks = append(networks, network)
	}
	return &config.Config{
		ClusterNetworks: networks,
		IdentityDomain:  "cluster.local",
		DefaultAllow:    allow,
	}
}

func testPod(namespace, name, ip string, labels map[string]string, annotations map[string]string) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Namespace:   namespace,
			Name:        name,
			Labels:      labels,
			Annotations: annotations,
		},
		Status: corev1.PodStatus{PodIP: ip},
	}
}

var _ = Describe("Index", func() {
	var (
		logger lager.Logger
		index  *indexer.Index
	)

	BeforeEach(func() {
		logger = lager.NewLogger("index-test")
		logger.RegisterSink(lager.NewWriterSink(io.Discard, lager.DEBUG))
		index = indexer.NewIndex(clusterConfig(policy.AllowAllUnauthenticated), logger)
	})

	Describe("WorkloadPolicy", func() {
		It("reports a miss for a workload that was never indexed", func() {
			_, found := index.WorkloadPolicy("apps", "missing")
			Expect(found).To(BeFalse())
		})

		It("derives the configured default posture when no annotation is set", func() {
			index.UpsertPod(testPod("apps", "web-1", "10.2.0.9", nil, nil))

			derived, found := index.WorkloadPolicy("apps", "web-1")
			Expect(found).To(BeTrue())
			Expect(derived.Namespace).To(Equal("apps"))
			Expect(derived.Name).To(Equal("web-1"))
			Expect(derived.IP).To(Equal("10.2.0.9"))
			Expect(derived.Allow).To(Equal(policy.AllowAllUnauthenticated))
			Expect(derived.Networks).To(Equal([]string{"0.0.0.0/0", "::/0"}))
			Expect(derived.Authorizations).To(BeEmpty())
		})

		It("lets a workload annotation override the default posture", func() {
			index.UpsertPod(testPod("apps", "web-1", "10.2.0.9", nil, map[string]string{
				policy.DefaultAllowAnnotation: "deny",
			}))

			derived, _ := index.WorkloadPolicy("apps", "web-1")
			Expect(derived.Allow).To(Equal(policy.AllowDeny))
			Expect(derived.Networks).To(BeEmpty())
		})

		It("keeps the configured posture when the annotation does not parse", func() {
			index.UpsertPod(testPod("apps", "web-1", "10.2.0.9", nil, map[string]string{
				policy.DefaultAllowAnnotation: "allow-everyone",
			}))

			derived, _ := index.WorkloadPolicy("apps", "web-1")
			Expect(derived.Allow).To(Equal(policy.AllowAllUnauthenticated))
		})

		It("restricts approved networks to the cluster ranges for cluster postures", func() {
			index = indexer.NewIndex(clusterConfig(policy.AllowClusterUnauthenticated), logger)
			index.UpsertPod(testPod("apps", "web-1", "10.2.0.9", nil, nil))

			derived, _ := index.WorkloadPolicy("apps", "web-1")
			Expect(derived.Networks).To(Equal([]string{"10.0.0.0/8", "192.168.0.0/16"}))
		})

		It("drops the workload once its pod is deleted", func() {
			index.UpsertPod(testPod("apps", "web-1", "10.2.0.9", nil, nil))
			index.DeletePod("apps", "web-1")

			_, found := index.WorkloadPolicy("apps", "web-1")
			Expect(found).To(BeFalse())
		})
	})

	Describe("authorization derivation", func() {
		appLabels := map[string]string{"app": "web"}

		policyFor := func(namespace, name string, rule *ciliumapi.Rule) *ciliumv2.CiliumNetworkPolicy {
			return &ciliumv2.CiliumNetworkPolicy{
				ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: name},
				Spec:       rule,
			}
		}

		BeforeEach(func() {
			index.UpsertPod(testPod("apps", "web-1", "10.2.0.9", appLabels, nil))
		})

		It("derives network, port, and identity authorizations from a matching policy", func() {
			index.UpsertPolicy(policyFor("apps", "allow-ops", &ciliumapi.Rule{
				EndpointSelector: ciliumapi.EndpointSelector{
					LabelSelector: &slimv1.LabelSelector{
						MatchLabels: map[string]string{"app": "web"},
					},
				},
				Ingress: []ciliumapi.IngressRule{
					{
						IngressCommonRule: ciliumapi.IngressCommonRule{
							FromCIDR: ciliumapi.CIDRSlice{"10.9.0.0/16"},
							FromCIDRSet: ciliumapi.CIDRRuleSlice{
								{Cidr: "192.168.4.0/24"},
							},
							FromEndpoints: []ciliumapi.EndpointSelector{
								{
									LabelSelector: &slimv1.LabelSelector{
										MatchLabels: map[string]string{
											"io.cilium.k8s.policy.serviceaccount": "ops",
										},
									},
								},
							},
						},
						ToPorts: ciliumapi.PortRules{
							{
								Ports: []ciliumapi.PortProtocol{
									{Port: "8080", Protocol: ciliumapi.ProtoTCP},
									{Port: "9000", EndPort: 9100, Protocol: ciliumapi.ProtoTCP},
								},
							},
						},
					},
				},
			}))

			derived, _ := index.WorkloadPolicy("apps", "web-1")
			Expect(derived.Authorizations).To(HaveLen(1))

			authorization := derived.Authorizations[0]
			Expect(authorization.Name).To(Equal("allow-ops"))
			Expect(authorization.Networks).To(ConsistOf("10.9.0.0/16", "192.168.4.0/24"))
			Expect(authorization.Ports).To(ConsistOf(
				policy.PortProtocol{Port: 8080, Protocol: "TCP"},
				policy.PortProtocol{Port: 9000, EndPort: 9100, Protocol: "TCP"},
			))
			Expect(authorization.Identities).To(ConsistOf("ops.apps.serviceaccount.cluster.local"))
		})

		It("skips named ports", func() {
			index.UpsertPolicy(policyFor("apps", "named-port", &ciliumapi.Rule{
				EndpointSelector: ciliumapi.EndpointSelector{
					LabelSelector: &slimv1.LabelSelector{},
				},
				Ingress: []ciliumapi.IngressRule{
					{
						ToPorts: ciliumapi.PortRules{
							{
								Ports: []ciliumapi.PortProtocol{
									{Port: "http", Protocol: ciliumapi.ProtoTCP},
									{Port: "443", Protocol: ciliumapi.ProtoTCP},
								},
							},
						},
					},
				},
			}))

			derived, _ := index.WorkloadPolicy("apps", "web-1")
			Expect(derived.Authorizations).To(HaveLen(1))
			Expect(derived.Authorizations[0].Ports).To(ConsistOf(
				policy.PortProtocol{Port: 443, Protocol: "TCP"},
			))
		})

		It("ignores policies whose selector does not match the workload", func() {
			index.UpsertPolicy(policyFor("apps", "other-app", &ciliumapi.Rule{
				EndpointSelector: ciliumapi.EndpointSelector{
					LabelSelector: &slimv1.LabelSelector{
						MatchLabels: map[string]string{"app": "api"},
					},
				},
				Ingress: []ciliumapi.IngressRule{
					{IngressCommonRule: ciliumapi.IngressCommonRule{FromCIDR: ciliumapi.CIDRSlice{"10.9.0.0/16"}}},
				},
			}))

			derived, _ := index.WorkloadPolicy("apps", "web-1")
			Expect(derived.Authorizations).To(BeEmpty())
		})

		It("ignores policies from other namespaces", func() {
			index.UpsertPolicy(policyFor("other", "allow-all", &ciliumapi.Rule{
				EndpointSelector: ciliumapi.EndpointSelector{
					LabelSelector: &slimv1.LabelSelector{},
				},
				Ingress: []ciliumapi.IngressRule{
					{IngressCommonRule: ciliumapi.IngressCommonRule{FromCIDR: ciliumapi.CIDRSlice{"10.9.0.0/16"}}},
				},
			}))

			derived, _ := index.WorkloadPolicy("apps", "web-1")
			Expect(derived.Authorizations).To(BeEmpty())
		})

		It("evaluates match expressions against workload labels", func() {
			index.UpsertPolicy(policyFor("apps", "tiered", &ciliumapi.Rule{
				EndpointSelector: ciliumapi.EndpointSelector{
					LabelSelector: &slimv1.LabelSelector{
						MatchExpressions: []slimv1.LabelSelectorRequirement{
							{Key: "app", Operator: slimv1.LabelSelectorOpIn, Values: []string{"web", "api"}},
							{Key: "legacy", Operator: slimv1.LabelSelectorOpDoesNotExist},
						},
					},
				},
				Ingress: []ciliumapi.IngressRule{
					{IngressCommonRule: ciliumapi.IngressCommonRule{FromCIDR: ciliumapi.CIDRSlice{"10.9.0.0/16"}}},
				},
			}))

			derived, _ := index.WorkloadPolicy("apps", "web-1")
			Expect(derived.Authorizations).To(HaveLen(1))

			index.UpsertPod(testPod("apps", "web-1", "10.2.0.9", map[string]string{"app": "web", "legacy": "true"}, nil))
			derived, _ = index.WorkloadPolicy("apps", "web-1")
			Expect(derived.Authorizations).To(BeEmpty())
		})

		It("collects rules from both the single spec and the spec list", func() {
			index.UpsertPolicy(&ciliumv2.CiliumNetworkPolicy{
				ObjectMeta: metav1.ObjectMeta{Namespace: "apps", Name: "combined"},
				Spec: &ciliumapi.Rule{
					EndpointSelector: ciliumapi.EndpointSelector{LabelSelector: &slimv1.LabelSelector{}},
					Ingress: []ciliumapi.IngressRule{
						{IngressCommonRule: ciliumapi.IngressCommonRule{FromCIDR: ciliumapi.CIDRSlice{"10.1.0.0/16"}}},
					},
				},
				Specs: ciliumapi.Rules{
					{
						EndpointSelector: ciliumapi.EndpointSelector{LabelSelector: &slimv1.LabelSelector{}},
						Ingress: []ciliumapi.IngressRule{
							{IngressCommonRule: ciliumapi.IngressCommonRule{FromCIDR: ciliumapi.CIDRSlice{"10.2.0.0/16"}}},
						},
					},
				},
			})

			derived, _ := index.WorkloadPolicy("apps", "web-1")
			Expect(derived.Authorizations).To(HaveLen(2))
			Expect(derived.Authorizations[0].Networks).To(ConsistOf("10.1.0.0/16"))
			Expect(derived.Authorizations[1].Networks).To(ConsistOf("10.2.0.0/16"))
		})

		It("drops ingress entries that authorize nothing", func() {
			index.UpsertPolicy(policyFor("apps", "empty", &ciliumapi.Rule{
				EndpointSelector: ciliumapi.EndpointSelector{LabelSelector: &slimv1.LabelSelector{}},
				Ingress:          []ciliumapi.IngressRule{{}},
			}))

			derived, _ := index.WorkloadPolicy("apps", "web-1")
			Expect(derived.Authorizations).To(BeEmpty())
		})

		It("stops applying a policy once it is deleted", func() {
			index.UpsertPolicy(policyFor("apps", "short-lived", &ciliumapi.Rule{
				EndpointSelector: ciliumapi.EndpointSelector{LabelSelector: &slimv1.LabelSelector{}},
				Ingress: []ciliumapi.IngressRule{
					{IngressCommonRule: ciliumapi.IngressCommonRule{FromCIDR: ciliumapi.CIDRSlice{"10.9.0.0/16"}}},
				},
			}))
			index.DeletePolicy("apps", "short-lived")

			derived, _ := index.WorkloadPolicy("apps", "web-1")
			Expect(derived.Authorizations).To(BeEmpty())
		})

		It("orders authorizations by policy name", func() {
			for _, name := range []string{"zeta", "alpha"} {
				index.UpsertPolicy(policyFor("apps", name, &ciliumapi.Rule{
					EndpointSelector: ciliumapi.EndpointSelector{LabelSelector: &slimv1.LabelSelector{}},
					Ingress: []ciliumapi.IngressRule{
						{IngressCommonRule: ciliumapi.IngressCommonRule{FromCIDR: ciliumapi.CIDRSlice{"10.9.0.0/16"}}},
					},
				}))
			}

			derived, _ := index.WorkloadPolicy("apps", "web-1")
			Expect(derived.Authorizations).To(HaveLen(2))
			Expect(derived.Authorizations[0].Name).To(Equal("alpha"))
			Expect(derived.Authorizations[1].Name).To(Equal("zeta"))
		})
	})

	Describe("Workloads", func() {
		It("lists every workload ordered by namespace and name", func() {
			index.UpsertPod(testPod("billing", "worker-1", "10.3.0.4", nil, nil))
			index.UpsertPod(testPod("apps", "web-2", "10.2.0.10", nil, nil))
			index.UpsertPod(testPod("apps", "web-1", "10.2.0.9", nil, nil))

			workloads := index.Workloads()
			Expect(workloads).To(HaveLen(3))
			Expect(workloads[0].Name).To(Equal("web-1"))
			Expect(workloads[1].Name).To(Equal("web-2"))
			Expect(workloads[2].Namespace).To(Equal("billing"))
		})
	})
})
