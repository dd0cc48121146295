package query

import (
	"context"

	"code.cloudfoundry.org/k8s-policy-controller/internal/policy"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "policy.v1.PolicyQuery"

//counterfeiter:generate . PolicyReader

// PolicyReader is the slice of the index the query service reads.
type PolicyReader interface {
	WorkloadPolicy(namespace, name string) (policy.WorkloadPolicy, bool)
	Workloads() []policy.WorkloadPolicy
}

type policyQueryServer interface {
	GetWorkloadPolicy(context.Context, *GetWorkloadPolicyRequest) (*GetWorkloadPolicyResponse, error)
	ListWorkloads(context.Context, *ListWorkloadsRequest) (*ListWorkloadsResponse, error)
}

type service struct {
	reader PolicyReader
}

func (s *service) GetWorkloadPolicy(ctx context.Context, req *GetWorkloadPolicyRequest) (*GetWorkloadPolicyResponse, error) {
	if req.Namespace == "" || req.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "namespace and name are required")
	}

	derived, found := s.reader.WorkloadPolicy(req.Namespace, req.Name)
	if !found {
		return nil, status.Errorf(codes.NotFound, "no workload %s/%s", req.Namespace, req.Name)
	}

	return &GetWorkloadPolicyResponse{Policy: derived}, nil
}

func (s *service) ListWorkloads(ctx context.Context, req *ListWorkloadsRequest) (*ListWorkloadsResponse, error) {
	var policies []policy.WorkloadPolicy
	for _, derived := range s.reader.Workloads() {
		if req.Namespace != "" && derived.Namespace != req.Namespace {
			continue
		}
		policies = append(policies, derived)
	}

	return &ListWorkloadsResponse{Policies: policies}, nil
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*policyQueryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetWorkloadPolicy",
			Handler:    getWorkloadPolicyHandler,
		},
		{
			MethodName: "ListWorkloads",
			Handler:    listWorkloadsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "policy/v1/query",
}

func getWorkloadPolicyHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetWorkloadPolicyRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(policyQueryServer).GetWorkloadPolicy(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/GetWorkloadPolicy",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(policyQueryServer).GetWorkloadPolicy(ctx, req.(*GetWorkloadPolicyRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func listWorkloadsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListWorkloadsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(policyQueryServer).ListWorkloads(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/ListWorkloads",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(policyQueryServer).ListWorkloads(ctx, req.(*ListWorkloadsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// PolicyQueryClient mirrors the server surface for callers. Every call pins
// the JSON content-subtype so it works against this server regardless of the
// connection's default codec.
type PolicyQueryClient struct {
	cc grpc.ClientConnInterface
}

func NewPolicyQueryClient(cc grpc.ClientConnInterface) *PolicyQueryClient {
	return &PolicyQueryClient{cc: cc}
}

func (c *PolicyQueryClient) GetWorkloadPolicy(ctx context.Context, in *GetWorkloadPolicyRequest, opts ...grpc.CallOption) (*GetWorkloadPolicyResponse, error) {
	out := new(GetWorkloadPolicyResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/GetWorkloadPolicy", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PolicyQueryClient) ListWorkloads(ctx context.Context, in *ListWorkloadsRequest, opts ...grpc.CallOption) (*ListWorkloadsResponse, error) {
	out := new(ListWorkloadsResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/ListWorkloads", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
