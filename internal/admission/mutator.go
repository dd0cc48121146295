package admission

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"code.cloudfoundry.org/k8s-policy-controller/internal/policy"

	"code.cloudfoundry.org/lager/v3"
	jsonpatch "gomodules.xyz/jsonpatch/v2"
	admissionv1 "k8s.io/api/admission/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

//counterfeiter:generate . Mutator

// Mutator turns an admission request into the JSON patch the webhook
// response carries. A nil patch admits the object unchanged.
type Mutator interface {
	Mutate(ctx context.Context, request *admissionv1.AdmissionRequest) ([]jsonpatch.Operation, error)
}

// Annotator stamps pods with a default-allow annotation so the indexer can
// derive their posture without consulting the namespace on every query.
// Precedence: an annotation already on the pod wins, then the namespace
// annotation, then the configured default.
type Annotator struct {
	reader       client.Reader
	defaultAllow policy.DefaultAllow
	logger       lager.Logger
}

func NewAnnotator(reader client.Reader, defaultAllow policy.DefaultAllow, logger lager.Logger) *Annotator {
	return &Annotator{
		reader:       reader,
		defaultAllow: defaultAllow,
		logger:       logger,
	}
}

func (a *Annotator) Mutate(ctx context.Context, request *admissionv1.AdmissionRequest) ([]jsonpatch.Operation, error) {
	if request.Kind.Kind != "Pod" {
		return nil, nil
	}

	var pod corev1.Pod
	if err := json.Unmarshal(request.Object.Raw, &pod); err != nil {
		return nil, fmt.Errorf("decoding pod: %w", err)
	}

	if _, ok := pod.Annotations[policy.DefaultAllowAnnotation]; ok {
		return nil, nil
	}

	allow := a.namespaceDefault(ctx, request.Namespace)

	var operations []jsonpatch.Operation
	if pod.Annotations == nil {
		operations = append(operations, jsonpatch.NewOperation("add", "/metadata/annotations", map[string]string{}))
	}
	operations = append(operations, jsonpatch.NewOperation(
		"add",
		"/metadata/annotations/"+escapeJSONPointer(policy.DefaultAllowAnnotation),
		allow.String(),
	))

	return operations, nil
}

func (a *Annotator) namespaceDefault(ctx context.Context, name string) policy.DefaultAllow {
	var namespace corev1.Namespace
	if err := a.reader.Get(ctx, types.NamespacedName{Name: name}, &namespace); err != nil {
		a.logger.Error("reading namespace for admission review", err, lager.Data{"namespace": name})
		return a.defaultAllow
	}

	raw, ok := namespace.Annotations[policy.DefaultAllowAnnotation]
	if !ok {
		return a.defaultAllow
	}

	parsed, err := policy.ParseDefaultAllow(raw)
	if err != nil {
		a.logger.Error("ignoring invalid namespace default-allow annotation", err, lager.Data{"namespace": name})
		return a.defaultAllow
	}
	return parsed
}

// escapeJSONPointer applies RFC 6901 escaping; annotation keys contain "/".
func escapeJSONPointer(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
