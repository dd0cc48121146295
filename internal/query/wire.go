package query

import "code.cloudfoundry.org/k8s-policy-controller/internal/policy"

// Wire payloads for the policy query API. The service speaks JSON over
// gRPC so the responses stay inspectable with generic tooling.

type GetWorkloadPolicyRequest struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

type GetWorkloadPolicyResponse struct {
	Policy policy.WorkloadPolicy `json:"policy"`
}

type ListWorkloadsRequest struct {
	Namespace string `json:"namespace,omitempty"`
}

type ListWorkloadsResponse struct {
	Policies []policy.WorkloadPolicy `json:"policies"`
}
