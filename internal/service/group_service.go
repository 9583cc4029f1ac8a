package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpay/internal/auth"
	"github.com/mmynk/splitpay/internal/calculator"
	"github.com/mmynk/splitpay/internal/metrics"
	"github.com/mmynk/splitpay/internal/middleware"
	"github.com/mmynk/splitpay/internal/models"
	"github.com/mmynk/splitpay/internal/storage"
	"github.com/mmynk/splitpay/internal/wallet"
	"github.com/mmynk/splitpay/pkg/api"
)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// callerAddress returns the signed-in address set by the auth interceptor.
func callerAddress(ctx context.Context) (string, error) {
	address := middleware.GetAddress(ctx)
	if address == "" {
		return "", auth.ErrMissingToken
	}
	return address, nil
}

// groupForParticipant loads a group the caller belongs to. Non-participants
// get a permission error.
func groupForParticipant(ctx context.Context, store storage.Store, groupID, caller string) (*models.Group, error) {
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasParticipant(caller) {
		return nil, permissionDenied("%s is not a participant of group %s", wallet.Short(caller), groupID)
	}
	return group, nil
}

// CreateGroup creates a new group. The caller is always its first participant.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"participants_count", len(req.Msg.Participants),
	)

	caller, err := callerAddress(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.EndDate != 0 && req.Msg.StartDate != 0 && req.Msg.EndDate < req.Msg.StartDate {
		return nil, toConnectError(invalidArgument("endDate is before startDate"))
	}

	group := &models.Group{
		Name:             req.Msg.Name,
		Description:      req.Msg.Description,
		Category:         req.Msg.Category,
		Participants:     []string{caller},
		ParticipantNames: map[string]string{},
		StartDate:        req.Msg.StartDate,
		EndDate:          req.Msg.EndDate,
		CreatedBy:        caller,
	}
	if name := middleware.GetDisplayName(ctx); name != "" {
		group.ParticipantNames[caller] = name
	}

	for _, p := range req.Msg.Participants {
		address := wallet.Normalize(p.Address)
		if address != caller && group.HasParticipant(address) {
			return nil, toConnectError(invalidArgument("duplicate participant %s", address))
		}
		if address != caller {
			group.Participants = append(group.Participants, address)
		}
		if p.DisplayName != "" {
			group.ParticipantNames[address] = p.DisplayName
		}
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID, "participants", len(group.Participants))

	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	caller, err := callerAddress(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	group, err := groupForParticipant(ctx, s.store, req.Msg.GroupID, caller)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups retrieves the caller's groups, newest first.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	caller, err := callerAddress(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	groups, err := s.store.ListGroupsByParticipant(ctx, caller)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	apiGroups := make([]*api.Group, len(groups))
	for i, group := range groups {
		apiGroups[i] = toAPIGroup(group)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: apiGroups}), nil
}

// UpdateGroup updates the descriptive fields and status of a group.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	slog.Info("UpdateGroup request received",
		"group_id", req.Msg.GroupID,
		"name", req.Msg.Name,
		"status", req.Msg.Status,
	)

	caller, err := callerAddress(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	group, err := groupForParticipant(ctx, s.store, req.Msg.GroupID, caller)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.EndDate != 0 && req.Msg.EndDate < group.StartDate {
		return nil, toConnectError(invalidArgument("endDate is before startDate"))
	}

	group.Name = req.Msg.Name
	group.Description = req.Msg.Description
	group.Category = req.Msg.Category
	group.EndDate = req.Msg.EndDate
	if req.Msg.Status != "" {
		status, err := models.ParseGroupStatus(req.Msg.Status)
		if err != nil {
			return nil, toConnectError(invalidArgument("%v", err))
		}
		group.Status = status
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group updated", "group_id", group.ID)

	return connect.NewResponse(&api.UpdateGroupResponse{Group: toAPIGroup(group)}), nil
}

// DeleteGroup removes a group and its records. Only the creator may delete it.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	caller, err := callerAddress(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if group.CreatedBy != caller {
		return nil, toConnectError(permissionDenied("only the creator can delete group %s", group.ID))
	}

	if err := s.store.DeleteGroup(ctx, group.ID); err != nil {
		slog.Error("DeleteGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group deleted", "group_id", group.ID)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddParticipant adds an address to the group, or renames an existing participant.
func (s *GroupService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	slog.Info("AddParticipant request received",
		"group_id", req.Msg.GroupID,
		"address", wallet.Short(req.Msg.Address),
	)

	caller, err := callerAddress(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	group, err := groupForParticipant(ctx, s.store, req.Msg.GroupID, caller)
	if err != nil {
		return nil, toConnectError(err)
	}

	address := wallet.Normalize(req.Msg.Address)
	if err := s.store.AddParticipant(ctx, group.ID, address, req.Msg.DisplayName); err != nil {
		slog.Error("AddParticipant failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	updated, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Participant added", "group_id", group.ID, "participants", len(updated.Participants))

	return connect.NewResponse(&api.AddParticipantResponse{Group: toAPIGroup(updated)}), nil
}

// GetGroupBalances computes member balances, the settlement and the viewer's
// summary from one consistent snapshot of the group.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetGroupBalances request received", "group_id", groupID)

	caller, err := callerAddress(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	snapshot, err := s.store.Snapshot(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances failed - could not load group", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	if !snapshot.Group.HasParticipant(caller) {
		return nil, toConnectError(permissionDenied("%s is not a participant of group %s", wallet.Short(caller), groupID))
	}

	start := time.Now()
	result, err := calculator.CalculateGroupBalances(snapshot)
	if err != nil {
		slog.Error("GetGroupBalances failed - calculation error", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	metrics.ObserveSettlement(start, len(result.Debts))

	viewer := caller
	if req.Msg.Viewer != "" {
		viewer = req.Msg.Viewer
	}
	summary := calculator.Project(result.Debts, viewer)

	slog.Info("GetGroupBalances successful",
		"group_id", groupID,
		"expenses_count", len(snapshot.Expenses),
		"payments_count", len(snapshot.Payments),
		"debts_count", len(result.Debts),
	)

	return connect.NewResponse(toAPIBalances(&snapshot.Group, result, summary)), nil
}
