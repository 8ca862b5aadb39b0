package handlers

import (
	"context"

	"github.com/gartstein/jobboard/internal/jobboard/auth"
	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const savedItemServiceName = "jobboard.v1.SavedItemService"

// Full method names, as matched by the auth interceptor.
const (
	SaveItemMethod   = "/" + savedItemServiceName + "/SaveItem"
	UnsaveItemMethod = "/" + savedItemServiceName + "/UnsaveItem"
	ToggleItemMethod = "/" + savedItemServiceName + "/ToggleItem"
)

// SavedController is the bookmark logic behind both transports.
type SavedController interface {
	Save(ctx context.Context, identity *models.Identity, itemID uuid.UUID) error
	Unsave(ctx context.Context, identity *models.Identity, itemID uuid.UUID) error
	Toggle(ctx context.Context, identity *models.Identity, itemID uuid.UUID, alreadySaved bool) (bool, error)
	ListSavedJobs(ctx context.Context, identity *models.Identity) ([]models.SavedJob, error)
	ListSavedInternships(ctx context.Context, identity *models.Identity) ([]models.SavedInternship, error)
}

// SavedItemServer is the server API for jobboard.v1.SavedItemService.
// SaveItem and UnsaveItem take the item id; ToggleItem takes
// {"item_id": string, "saved": bool}. Every call answers with the
// bookmark state after the call.
type SavedItemServer interface {
	SaveItem(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	UnsaveItem(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	ToggleItem(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error)
}

// RegisterSavedItemServer attaches srv to s.
func RegisterSavedItemServer(s grpc.ServiceRegistrar, srv SavedItemServer) {
	s.RegisterService(&savedItemServiceDesc, srv)
}

var savedItemServiceDesc = grpc.ServiceDesc{
	ServiceName: savedItemServiceName,
	HandlerType: (*SavedItemServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SaveItem", Handler: saveItemHandler},
		{MethodName: "UnsaveItem", Handler: unsaveItemHandler},
		{MethodName: "ToggleItem", Handler: toggleItemHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jobboard/v1/saved.proto",
}

func saveItemHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SavedItemServer).SaveItem(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SaveItemMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SavedItemServer).SaveItem(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func unsaveItemHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SavedItemServer).UnsaveItem(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: UnsaveItemMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SavedItemServer).UnsaveItem(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func toggleItemHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SavedItemServer).ToggleItem(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ToggleItemMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SavedItemServer).ToggleItem(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// SavedItemClient calls jobboard.v1.SavedItemService.
type SavedItemClient struct {
	cc grpc.ClientConnInterface
}

func NewSavedItemClient(cc grpc.ClientConnInterface) *SavedItemClient {
	return &SavedItemClient{cc: cc}
}

func (c *SavedItemClient) SaveItem(ctx context.Context, itemID string, opts ...grpc.CallOption) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, SaveItemMethod, wrapperspb.String(itemID), out, opts...); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *SavedItemClient) UnsaveItem(ctx context.Context, itemID string, opts ...grpc.CallOption) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, UnsaveItemMethod, wrapperspb.String(itemID), out, opts...); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *SavedItemClient) ToggleItem(ctx context.Context, itemID string, saved bool, opts ...grpc.CallOption) (bool, error) {
	in, err := structpb.NewStruct(map[string]interface{}{"item_id": itemID, "saved": saved})
	if err != nil {
		return false, err
	}
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, ToggleItemMethod, in, out, opts...); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

// SavedItemHandler provides the gRPC saved-item methods, mapping requests
// to a SavedController.
type SavedItemHandler struct {
	service SavedController
	logger  *zap.Logger
}

// NewSavedItemHandler constructs a new SavedItemHandler.
func NewSavedItemHandler(service SavedController, logger *zap.Logger) *SavedItemHandler {
	return &SavedItemHandler{
		service: service,
		logger:  logger.Named("grpc_handler"),
	}
}

func (h *SavedItemHandler) identity(ctx context.Context) (*models.Identity, error) {
	identity := auth.IdentityFromContext(ctx)
	if identity == nil {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	return identity, nil
}

// SaveItem bookmarks the item for the caller.
func (h *SavedItemHandler) SaveItem(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	identity, err := h.identity(ctx)
	if err != nil {
		return nil, err
	}
	itemID, err := uuid.Parse(req.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid item ID")
	}
	if err := h.service.Save(ctx, identity, itemID); err != nil {
		h.logger.Error("Save item failed", zap.Error(err), zap.String("item_id", itemID.String()))
		return nil, grpcError(err)
	}
	return wrapperspb.Bool(true), nil
}

// UnsaveItem removes the caller's bookmark.
func (h *SavedItemHandler) UnsaveItem(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	identity, err := h.identity(ctx)
	if err != nil {
		return nil, err
	}
	itemID, err := uuid.Parse(req.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid item ID")
	}
	if err := h.service.Unsave(ctx, identity, itemID); err != nil {
		h.logger.Error("Unsave item failed", zap.Error(err), zap.String("item_id", itemID.String()))
		return nil, grpcError(err)
	}
	return wrapperspb.Bool(false), nil
}

// ToggleItem flips the bookmark from the state the caller last saw.
func (h *SavedItemHandler) ToggleItem(ctx context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error) {
	identity, err := h.identity(ctx)
	if err != nil {
		return nil, err
	}
	fields := req.GetFields()
	itemID, err := uuid.Parse(fields["item_id"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid item ID")
	}
	saved, err := h.service.Toggle(ctx, identity, itemID, fields["saved"].GetBoolValue())
	if err != nil {
		h.logger.Error("Toggle item failed", zap.Error(err), zap.String("item_id", itemID.String()))
		return nil, grpcError(err)
	}
	return wrapperspb.Bool(saved), nil
}
