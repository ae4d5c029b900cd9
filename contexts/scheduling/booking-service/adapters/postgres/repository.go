package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"atelier/contexts/scheduling/booking-service/domain/entities"
	domainerrors "atelier/contexts/scheduling/booking-service/domain/errors"
	"atelier/contexts/scheduling/booking-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AutoMigrate creates the booking tables. Local development only; shared
// environments run the versioned migrations instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&proposalModel{}, &outboxModel{})
}

func (r *Repository) CreateProposal(ctx context.Context, proposal entities.Proposal) error {
	row, err := proposalModelFromEntity(proposal)
	if err != nil {
		return r.logError("booking_repo_create_proposal_encode_failed", err,
			"proposal_id", strings.TrimSpace(proposal.ProposalID),
		)
	}
	create := r.db.WithContext(ctx).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("booking_repo_create_proposal_failed", create.Error,
			"proposal_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) GetProposal(ctx context.Context, proposalID string) (entities.Proposal, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(proposalID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, domainerrors.ErrProposalNotFound
		}
		return entities.Proposal{}, r.logError("booking_repo_get_proposal_failed", err,
			"proposal_id", strings.TrimSpace(proposalID),
		)
	}
	return row.toEntity()
}

func (r *Repository) GetProposalByToken(ctx context.Context, linkToken string) (entities.Proposal, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).
		Where("link_token = ?", strings.TrimSpace(linkToken)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, domainerrors.ErrProposalNotFound
		}
		return entities.Proposal{}, r.logError("booking_repo_get_proposal_by_token_failed", err)
	}
	return row.toEntity()
}

func (r *Repository) ListProposalsByOwner(ctx context.Context, ownerPrincipal string) ([]entities.Proposal, error) {
	var rows []proposalModel
	if err := r.db.WithContext(ctx).
		Where("owner_principal = ?", strings.TrimSpace(ownerPrincipal)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("booking_repo_list_proposals_by_owner_failed", err,
			"owner_principal", strings.TrimSpace(ownerPrincipal),
		)
	}
	return toProposalEntities(rows)
}

func (r *Repository) ListRecentProposals(ctx context.Context, limit int) ([]entities.Proposal, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []proposalModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("booking_repo_list_recent_proposals_failed", err, "limit", limit)
	}
	return toProposalEntities(rows)
}

func (r *Repository) DeleteProposal(ctx context.Context, proposalID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(proposalID)).
		Delete(&proposalModel{})
	if result.Error != nil {
		return r.logError("booking_repo_delete_proposal_failed", result.Error,
			"proposal_id", strings.TrimSpace(proposalID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrProposalNotFound
	}
	return nil
}

// SelectSlotIf is the single-winner write: the UPDATE carries the expected
// status in its WHERE clause, so of two racing selections exactly one sees
// RowsAffected == 1.
func (r *Repository) SelectSlotIf(
	ctx context.Context,
	proposalID string,
	slot entities.SlotWindow,
	from entities.Status,
	to entities.Status,
	now time.Time,
) (entities.Proposal, bool, error) {
	selected, err := json.Marshal(slot)
	if err != nil {
		return entities.Proposal{}, false, r.logError("booking_repo_select_slot_encode_failed", err,
			"proposal_id", strings.TrimSpace(proposalID),
		)
	}
	result := r.db.WithContext(ctx).
		Model(&proposalModel{}).
		Where("id = ?", strings.TrimSpace(proposalID)).
		Where("status = ?", string(from)).
		Updates(map[string]any{
			"status":        string(to),
			"selected_slot": string(selected),
			"updated_at":    now.UTC(),
		})
	if result.Error != nil {
		return entities.Proposal{}, false, r.logError("booking_repo_select_slot_failed", result.Error,
			"proposal_id", strings.TrimSpace(proposalID),
		)
	}
	proposal, err := r.GetProposal(ctx, proposalID)
	if err != nil {
		return entities.Proposal{}, false, err
	}
	return proposal, result.RowsAffected > 0, nil
}

func (r *Repository) TransitionStatusIf(
	ctx context.Context,
	proposalID string,
	from []entities.Status,
	to entities.Status,
	now time.Time,
) (entities.Proposal, bool, error) {
	statuses := make([]string, 0, len(from))
	for _, status := range from {
		statuses = append(statuses, string(status))
	}
	updates := map[string]any{
		"status":     string(to),
		"updated_at": now.UTC(),
	}
	if to == entities.StatusCancelled {
		updates["selected_slot"] = nil
	}
	result := r.db.WithContext(ctx).
		Model(&proposalModel{}).
		Where("id = ?", strings.TrimSpace(proposalID)).
		Where("status IN ?", statuses).
		Updates(updates)
	if result.Error != nil {
		return entities.Proposal{}, false, r.logError("booking_repo_transition_status_failed", result.Error,
			"proposal_id", strings.TrimSpace(proposalID),
			"to_status", string(to),
		)
	}
	proposal, err := r.GetProposal(ctx, proposalID)
	if err != nil {
		return entities.Proposal{}, false, err
	}
	return proposal, result.RowsAffected > 0, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("booking_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	row := outboxModel{
		OutboxID:  strings.TrimSpace(envelope.EventID),
		EventType: strings.TrimSpace(envelope.EventType),
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("booking_repo_append_outbox_insert_failed", create.Error,
			"outbox_id", row.OutboxID,
		)
	}
	if create.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).Error; err != nil {
		return r.logError("booking_repo_append_outbox_load_existing_failed", err,
			"outbox_id", row.OutboxID,
		)
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("booking_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   append([]byte(nil), row.Payload...),
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("booking_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "scheduling/booking-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("booking repository operation failed", fields...)
	return err
}

type proposalModel struct {
	ID               string     `gorm:"column:id;primaryKey"`
	LinkToken        string     `gorm:"column:link_token;uniqueIndex"`
	OwnerPrincipal   string     `gorm:"column:owner_principal;index"`
	Title            string     `gorm:"column:title"`
	DurationMinutes  int        `gorm:"column:duration_minutes"`
	CandidateSlots   string     `gorm:"column:candidate_slots;type:text"`
	SelectedSlot     *string    `gorm:"column:selected_slot;type:text"`
	Status           string     `gorm:"column:status"`
	RequiresApproval bool       `gorm:"column:requires_approval"`
	ExpiresAt        *time.Time `gorm:"column:expires_at"`
	GuestName        string     `gorm:"column:guest_name"`
	GuestEmail       string     `gorm:"column:guest_email"`
	GuestPhone       string     `gorm:"column:guest_phone"`
	LinkedProjectID  string     `gorm:"column:linked_project_id"`
	Notes            string     `gorm:"column:notes"`
	ZoomEnabled      bool       `gorm:"column:zoom_enabled"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (proposalModel) TableName() string {
	return "meeting_slot_proposals"
}

func proposalModelFromEntity(proposal entities.Proposal) (proposalModel, error) {
	candidates, err := json.Marshal(proposal.CandidateSlots)
	if err != nil {
		return proposalModel{}, err
	}
	row := proposalModel{
		ID:               strings.TrimSpace(proposal.ProposalID),
		LinkToken:        strings.TrimSpace(proposal.LinkToken),
		OwnerPrincipal:   strings.TrimSpace(proposal.OwnerPrincipal),
		Title:            strings.TrimSpace(proposal.Title),
		DurationMinutes:  proposal.DurationMinutes,
		CandidateSlots:   string(candidates),
		Status:           string(proposal.Status),
		RequiresApproval: proposal.RequiresApproval,
		GuestName:        strings.TrimSpace(proposal.GuestName),
		GuestEmail:       strings.TrimSpace(proposal.GuestEmail),
		GuestPhone:       strings.TrimSpace(proposal.GuestPhone),
		LinkedProjectID:  strings.TrimSpace(proposal.LinkedProjectID),
		Notes:            proposal.Notes,
		ZoomEnabled:      proposal.ZoomEnabled,
		CreatedAt:        proposal.CreatedAt.UTC(),
		UpdatedAt:        proposal.UpdatedAt.UTC(),
	}
	if proposal.SelectedSlot != nil {
		selected, err := json.Marshal(*proposal.SelectedSlot)
		if err != nil {
			return proposalModel{}, err
		}
		encoded := string(selected)
		row.SelectedSlot = &encoded
	}
	if !proposal.ExpiresAt.IsZero() {
		expiresAt := proposal.ExpiresAt.UTC()
		row.ExpiresAt = &expiresAt
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row, nil
}

func (m proposalModel) toEntity() (entities.Proposal, error) {
	var candidates []entities.SlotWindow
	if strings.TrimSpace(m.CandidateSlots) != "" {
		if err := json.Unmarshal([]byte(m.CandidateSlots), &candidates); err != nil {
			return entities.Proposal{}, err
		}
	}
	proposal := entities.Proposal{
		ProposalID:       m.ID,
		LinkToken:        m.LinkToken,
		OwnerPrincipal:   m.OwnerPrincipal,
		Title:            m.Title,
		DurationMinutes:  m.DurationMinutes,
		CandidateSlots:   candidates,
		Status:           entities.Status(m.Status),
		RequiresApproval: m.RequiresApproval,
		GuestName:        m.GuestName,
		GuestEmail:       m.GuestEmail,
		GuestPhone:       m.GuestPhone,
		LinkedProjectID:  m.LinkedProjectID,
		Notes:            m.Notes,
		ZoomEnabled:      m.ZoomEnabled,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
	if m.SelectedSlot != nil && strings.TrimSpace(*m.SelectedSlot) != "" {
		var selected entities.SlotWindow
		if err := json.Unmarshal([]byte(*m.SelectedSlot), &selected); err != nil {
			return entities.Proposal{}, err
		}
		proposal.SelectedSlot = &selected
	}
	if m.ExpiresAt != nil {
		proposal.ExpiresAt = m.ExpiresAt.UTC()
	}
	return proposal, nil
}

type outboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "booking_outbox"
}

func toProposalEntities(rows []proposalModel) ([]entities.Proposal, error) {
	items := make([]entities.Proposal, 0, len(rows))
	for _, row := range rows {
		proposal, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, proposal)
	}
	return items, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.ProposalRepository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
