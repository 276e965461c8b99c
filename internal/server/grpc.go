package server

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"

	"github.com/thraizz/realms-server-go/internal/config"
	"github.com/thraizz/realms-server-go/internal/game"
	"github.com/thraizz/realms-server-go/internal/game/rules"
	"github.com/thraizz/realms-server-go/internal/game/zone"
)

// JSONCodecName is the content subtype clients select with
// grpc.CallContentSubtype to talk to MatchService.
const JSONCodecName = "json"

// MatchServiceName is the fully qualified gRPC service name.
const MatchServiceName = "realms.v1.MatchService"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return JSONCodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// CreateMatchRequest seats two players.
type CreateMatchRequest struct {
	First  SeatRequest `json:"first"`
	Second SeatRequest `json:"second"`
}

// MatchRequest addresses one match.
type MatchRequest struct {
	MatchID string `json:"match_id"`
}

// ActionRequest submits one player action.
type ActionRequest struct {
	MatchID string      `json:"match_id"`
	Player  string      `json:"player"`
	Action  string      `json:"action"`
	Params  game.Params `json:"params"`
}

// ZoneRequest asks for the contents of one zone.
type ZoneRequest struct {
	MatchID string `json:"match_id"`
	Player  string `json:"player"`
	Zone    string `json:"zone"`
}

// ZoneResponse lists the cards of a zone, top first.
type ZoneResponse struct {
	Cards []game.CardView `json:"cards"`
}

// MatchServer is the gRPC surface over the registry.
type MatchServer interface {
	CreateMatch(context.Context, *CreateMatchRequest) (*game.MatchSnapshot, error)
	ExecuteAction(context.Context, *ActionRequest) (*game.ActionResult, error)
	PassPhase(context.Context, *MatchRequest) (*game.ActionResult, error)
	GetSnapshot(context.Context, *MatchRequest) (*game.MatchSnapshot, error)
	SeeCards(context.Context, *ZoneRequest) (*ZoneResponse, error)
}

type matchService struct {
	registry *Registry
	logger   *zap.Logger
}

// NewMatchService returns the default MatchServer.
func NewMatchService(registry *Registry, logger *zap.Logger) MatchServer {
	return &matchService{registry: registry, logger: logger}
}

// CreateMatch starts a match and returns its first snapshot.
func (s *matchService) CreateMatch(_ context.Context, req *CreateMatchRequest) (*game.MatchSnapshot, error) {
	m, err := s.registry.Create(req.First, req.Second)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "create match: %v", err)
	}
	snap := m.Snapshot()
	return &snap, nil
}

// ExecuteAction applies one action. Rule rejections are reported in the
// result, not as RPC errors.
func (s *matchService) ExecuteAction(_ context.Context, req *ActionRequest) (*game.ActionResult, error) {
	m, err := s.resolve(req.MatchID)
	if err != nil {
		return nil, err
	}
	action, err := rules.ParseActionType(req.Action)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	result := m.ExecuteAction(req.Player, action, req.Params)
	return &result, nil
}

// PassPhase passes for whoever currently acts.
func (s *matchService) PassPhase(_ context.Context, req *MatchRequest) (*game.ActionResult, error) {
	m, err := s.resolve(req.MatchID)
	if err != nil {
		return nil, err
	}
	result := m.PassPhase()
	return &result, nil
}

// GetSnapshot returns the current state of a match.
func (s *matchService) GetSnapshot(_ context.Context, req *MatchRequest) (*game.MatchSnapshot, error) {
	m, err := s.resolve(req.MatchID)
	if err != nil {
		return nil, err
	}
	snap := m.Snapshot()
	return &snap, nil
}

// SeeCards returns one zone of one player.
func (s *matchService) SeeCards(_ context.Context, req *ZoneRequest) (*ZoneResponse, error) {
	m, err := s.resolve(req.MatchID)
	if err != nil {
		return nil, err
	}
	name, err := zone.ParseName(req.Zone)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	views, err := m.PublicCards(req.Player, name)
	if errors.Is(err, game.ErrHiddenZone) {
		return nil, status.Error(codes.PermissionDenied, err.Error())
	}
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return &ZoneResponse{Cards: views}, nil
}

func (s *matchService) resolve(matchID string) (*game.Match, error) {
	if matchID == "" {
		return nil, status.Errorf(codes.InvalidArgument, "match_id is required")
	}
	m, err := s.registry.Get(matchID)
	if errors.Is(err, ErrMatchNotFound) {
		return nil, status.Errorf(codes.NotFound, "match %s not found", matchID)
	}
	return m, err
}

func unaryHandler[Req any, Resp any](call func(MatchServer, context.Context, *Req) (*Resp, error), method string) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MatchServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + MatchServiceName + "/" + method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MatchServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// MatchServiceDesc describes MatchService for grpc.Server.RegisterService.
var MatchServiceDesc = grpc.ServiceDesc{
	ServiceName: MatchServiceName,
	HandlerType: (*MatchServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateMatch", Handler: unaryHandler(MatchServer.CreateMatch, "CreateMatch")},
		{MethodName: "ExecuteAction", Handler: unaryHandler(MatchServer.ExecuteAction, "ExecuteAction")},
		{MethodName: "PassPhase", Handler: unaryHandler(MatchServer.PassPhase, "PassPhase")},
		{MethodName: "GetSnapshot", Handler: unaryHandler(MatchServer.GetSnapshot, "GetSnapshot")},
		{MethodName: "SeeCards", Handler: unaryHandler(MatchServer.SeeCards, "SeeCards")},
	},
	Metadata: "realms/v1/match.json",
}

// RegisterMatchService registers srv on s.
func RegisterMatchService(s grpc.ServiceRegistrar, srv MatchServer) {
	s.RegisterService(&MatchServiceDesc, srv)
}

// NewGRPCServer builds a server with the recovery and logging interceptors.
func NewGRPCServer(cfg config.GRPCConfig, logger *zap.Logger) *grpc.Server {
	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(logger),
			LoggingInterceptor(logger),
		),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 10 * time.Second,
		}),
	}
	if cfg.MaxConcurrentStreams > 0 {
		opts = append(opts, grpc.MaxConcurrentStreams(uint32(cfg.MaxConcurrentStreams)))
	}
	return grpc.NewServer(opts...)
}
