package nbi

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/linkbudget/model"
)

// Client is a typed wrapper over a LinkBudgetService connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// WithRequestID tags outgoing calls made with ctx so server logs can be
// correlated with the caller's.
func WithRequestID(ctx context.Context, id string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, RequestIDMetadataKey, id)
}

// Evaluate runs sc on the server.
func (c *Client) Evaluate(ctx context.Context, sc *model.Scenario, opts ...grpc.CallOption) (*Evaluation, error) {
	if sc == nil {
		return nil, fmt.Errorf("%w: scenario is nil", ErrInvalidRequest)
	}
	req, err := encodeStruct(sc)
	if err != nil {
		return nil, err
	}
	var out Evaluation
	if err := c.call(ctx, EvaluateFullMethod, req, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

// EvaluateScenario runs a catalogue scenario by name.
func (c *Client) EvaluateScenario(ctx context.Context, name string, opts ...grpc.CallOption) (*Evaluation, error) {
	req, err := structpb.NewStruct(map[string]any{"name": name})
	if err != nil {
		return nil, err
	}
	var out Evaluation
	if err := c.call(ctx, EvaluateScenarioFullMethod, req, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListScenarios returns the server's catalogue.
func (c *Client) ListScenarios(ctx context.Context, opts ...grpc.CallOption) ([]ScenarioSummary, error) {
	var out struct {
		Scenarios []ScenarioSummary `json:"scenarios"`
	}
	if err := c.call(ctx, ListScenariosFullMethod, &structpb.Struct{}, &out, opts...); err != nil {
		return nil, err
	}
	return out.Scenarios, nil
}

func (c *Client) call(ctx context.Context, method string, req *structpb.Struct, out any, opts ...grpc.CallOption) error {
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, resp, opts...); err != nil {
		return err
	}
	raw, err := protojson.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func encodeStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return out, nil
}
