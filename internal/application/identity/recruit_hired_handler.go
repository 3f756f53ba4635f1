package identity

import (
	"context"
	"fmt"

	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/recruiting"
	"github.com/salespulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RecruitHiredHandler reacts to a recruit being hired by issuing an
// agent invite for the recruit's email, so the new hire can create
// their account without a manager typing their address in again.
type RecruitHiredHandler struct {
	inviteRepo identity.InviteRepository
	userRepo   identity.UserRepository
	logger     *zap.Logger
}

// NewRecruitHiredHandler creates a handler for recruit hired events
func NewRecruitHiredHandler(
	inviteRepo identity.InviteRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *RecruitHiredHandler {
	return &RecruitHiredHandler{
		inviteRepo: inviteRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *RecruitHiredHandler) EventTypes() []string {
	return []string{recruiting.EventTypeRecruitHired}
}

// Handle issues an invite for a hired recruit. Hires without an email
// on file are skipped; their manager invites them manually.
func (h *RecruitHiredHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	hired, ok := event.(*recruiting.RecruitHiredEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", recruiting.EventTypeRecruitHired),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			recruiting.EventTypeRecruitHired, event.EventType())
	}

	if hired.Email == "" {
		h.logger.Info("Hired recruit has no email, skipping invite",
			zap.String("recruit_id", hired.AggregateID().String()),
			zap.String("team_id", hired.TeamID().String()))
		return nil
	}

	pending, err := h.inviteRepo.HasPendingForEmail(ctx, hired.TeamID(), hired.Email)
	if err != nil {
		return err
	}
	if pending {
		h.logger.Info("Pending invite already exists for hired recruit",
			zap.String("recruit_id", hired.AggregateID().String()))
		return nil
	}

	owner, err := h.userRepo.FindByID(ctx, hired.OwnerID)
	if err != nil {
		h.logger.Error("Failed to load recruit owner",
			zap.String("owner_id", hired.OwnerID.String()),
			zap.Error(err))
		return err
	}

	// New hires come in as agents. Agents recruit too, so when the
	// owner cannot hold reports the new hire lands under the owner's
	// own manager.
	managerID := &owner.ID
	if !owner.Role.CanManage(identity.RoleAgent) {
		managerID = owner.ManagerID
	}

	invite, err := identity.NewInvite(hired.TeamID(), hired.Email, identity.RoleAgent, managerID, owner.ID)
	if err != nil {
		return err
	}
	if err := h.inviteRepo.Create(ctx, invite); err != nil {
		h.logger.Error("Failed to create invite for hired recruit",
			zap.String("recruit_id", hired.AggregateID().String()),
			zap.Error(err))
		return err
	}

	h.logger.Info("Invite issued for hired recruit",
		zap.String("recruit_id", hired.AggregateID().String()),
		zap.String("invite_id", invite.ID.String()),
		zap.String("team_id", hired.TeamID().String()))
	return nil
}

// Ensure RecruitHiredHandler implements shared.EventHandler
var _ shared.EventHandler = (*RecruitHiredHandler)(nil)
