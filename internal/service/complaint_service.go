package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/events"
	"github.com/spec-kit/complaint-portal/internal/geo"
	"github.com/spec-kit/complaint-portal/internal/lifecycle"
	"github.com/spec-kit/complaint-portal/internal/observability"
	"github.com/spec-kit/complaint-portal/internal/policy"
	"github.com/spec-kit/complaint-portal/internal/repository"
	"github.com/spec-kit/complaint-portal/internal/stats"
	apperrors "github.com/spec-kit/complaint-portal/pkg/util"
)

// ComplaintService coordinates complaint intake, browsing and the status/priority
// workflow. Every call re-derives the caller's scope from the account it is given.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	history    repository.ComplaintHistoryRepository
	feedback   repository.FeedbackRepository
	catalog    *CatalogService
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	HistoryRepo   repository.ComplaintHistoryRepository
	FeedbackRepo  repository.FeedbackRepository
	Catalog       *CatalogService
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// ComplaintCreateInput describes a citizen submission.
type ComplaintCreateInput struct {
	Title         string
	Description   string
	Category      string
	CitizenName   string
	CitizenEmail  string
	CitizenPhone  string
	Location      *domain.GeoPoint
	Address       string
	AttachmentRef string
	Priority      domain.ComplaintPriority
}

// FeedbackInput describes a satisfaction rating.
type FeedbackInput struct {
	Rating         int
	Comments       string
	WouldRecommend bool
}

// ComplaintPage is one page of a listing plus the total match count.
type ComplaintPage struct {
	Items []domain.Complaint
	Total int
}

// NearbyComplaint pairs a complaint with its distance from the search point.
type NearbyComplaint struct {
	Complaint  domain.Complaint
	DistanceKm float64
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		history:    deps.HistoryRepo,
		feedback:   deps.FeedbackRepo,
		catalog:    deps.Catalog,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateComplaint files a complaint. Callers may be anonymous. The department comes
// from the category mapping and the status always starts as pending.
func (s *ComplaintService) CreateComplaint(ctx context.Context, caller *domain.Account, input ComplaintCreateInput) (*domain.Complaint, error) {
	if err := validateComplaintInput(input); err != nil {
		return nil, err
	}
	category, err := s.catalog.Category(ctx, input.Category)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("priority", "unknown priority", map[string]any{"value": priority})
	}

	now := s.now().UTC()
	complaint := &domain.Complaint{
		Reference:     generateComplaintReference(now),
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Category:      category.Name,
		CitizenName:   strings.TrimSpace(input.CitizenName),
		CitizenEmail:  strings.TrimSpace(input.CitizenEmail),
		CitizenPhone:  strings.TrimSpace(input.CitizenPhone),
		Location:      input.Location,
		Address:       strings.TrimSpace(input.Address),
		AttachmentRef: strings.TrimSpace(input.AttachmentRef),
		Status:        domain.StatusPending,
		Priority:      priority,
		Department:    category.Department,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}

	s.metrics.ComplaintCreated(complaint.Category)
	s.logger.Info("complaint filed",
		zap.String("reference", complaint.Reference),
		zap.String("category", complaint.Category),
		zap.String("department", complaint.Department))

	s.publishEvent(ctx, events.Event{
		Type:    events.EventComplaintCreated,
		Subject: complaint.Reference,
		Actor:   handleOf(caller),
		Payload: events.ComplaintCreatedPayload{
			Title:        complaint.Title,
			Category:     complaint.Category,
			Department:   complaint.Department,
			Priority:     complaint.Priority,
			CitizenName:  complaint.CitizenName,
			CitizenEmail: complaint.CitizenEmail,
			Address:      complaint.Address,
		},
	})

	return complaint, nil
}

// ListComplaints returns the page of complaints visible to the caller.
func (s *ComplaintService) ListComplaints(ctx context.Context, caller *domain.Account, filter domain.ComplaintFilter) (ComplaintPage, error) {
	scope := policy.ScopeOf(caller)
	filter, ok, err := s.constrain(ctx, scope, filter)
	if err != nil || !ok {
		return ComplaintPage{}, err
	}

	total, err := s.complaints.Count(ctx, filter)
	if err != nil {
		return ComplaintPage{}, fmt.Errorf("count complaints: %w", err)
	}
	items, err := s.complaints.List(ctx, filter)
	if err != nil {
		return ComplaintPage{}, fmt.Errorf("list complaints: %w", err)
	}
	return ComplaintPage{Items: redactAll(scope, items), Total: total}, nil
}

// GetComplaint tracks a single complaint by reference.
func (s *ComplaintService) GetComplaint(ctx context.Context, caller *domain.Account, reference string) (*domain.Complaint, error) {
	scope := policy.ScopeOf(caller)
	complaint, err := s.loadVisible(ctx, scope, caller, reference, "get_complaint")
	if err != nil {
		return nil, err
	}
	redacted := redact(scope, *complaint)
	return &redacted, nil
}

// UpdateComplaintField sets status or priority. Authorization runs first so an
// out-of-scope caller learns nothing about the complaint or the requested value.
func (s *ComplaintService) UpdateComplaintField(ctx context.Context, caller *domain.Account, reference, field, value string) (*domain.Complaint, error) {
	scope := policy.ScopeOf(caller)
	if !policy.CanTransition(scope.Role(), scope.Department()) {
		return nil, s.deny("update_complaint", scope, caller, reference)
	}

	complaint, err := s.complaints.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.missing(scope, "update_complaint", caller, reference)
		}
		return nil, fmt.Errorf("load complaint: %w", err)
	}
	if !scope.Mutable(*complaint) {
		return nil, s.deny("update_complaint", scope, caller, reference)
	}

	change, err := lifecycle.Parse(field, value)
	if err != nil {
		return nil, err
	}

	updated, previous, err := s.complaints.UpdateField(ctx, repository.FieldUpdate{
		Reference:  reference,
		Change:     change,
		Department: scope.Department(),
		At:         s.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The department moved between the check and the write.
			return nil, s.missing(scope, "update_complaint", caller, reference)
		}
		return nil, fmt.Errorf("update complaint %s: %w", change.Field, err)
	}

	s.metrics.FieldUpdated(string(change.Field))
	s.logger.Info("complaint updated",
		zap.String("reference", reference),
		zap.String("field", string(change.Field)),
		zap.String("old_value", previous),
		zap.String("new_value", change.Value()),
		zap.String("handle", handleOf(caller)),
		zap.String("role", string(scope.Role())))

	if previous != change.Value() {
		eventType := events.EventComplaintPriorityChanged
		if change.Field == domain.FieldStatus {
			eventType = events.EventComplaintStatusChanged
		}
		s.publishEvent(ctx, events.Event{
			Type:    eventType,
			Subject: reference,
			Actor:   handleOf(caller),
			Payload: events.ComplaintFieldChangedPayload{
				Field:        change.Field,
				OldValue:     previous,
				NewValue:     change.Value(),
				Title:        updated.Title,
				CitizenName:  updated.CitizenName,
				CitizenEmail: updated.CitizenEmail,
			},
		})
	}

	return updated, nil
}

// Statistics aggregates the caller's visible complaint set, recomputed on every call.
func (s *ComplaintService) Statistics(ctx context.Context, caller *domain.Account, filter domain.ComplaintFilter) (stats.Statistics, error) {
	scope := policy.ScopeOf(caller)
	filter.Limit, filter.Offset = 0, 0
	filter, ok, err := s.constrain(ctx, scope, filter)
	if err != nil {
		return stats.Statistics{}, err
	}
	if !ok {
		return stats.Aggregate(nil), nil
	}

	complaints, err := s.complaints.List(ctx, filter)
	if err != nil {
		return stats.Statistics{}, fmt.Errorf("list complaints: %w", err)
	}
	return stats.Aggregate(complaints), nil
}

// Nearby lists visible complaints within radiusKm of point, nearest first.
func (s *ComplaintService) Nearby(ctx context.Context, caller *domain.Account, point domain.GeoPoint, radiusKm float64) ([]NearbyComplaint, error) {
	if !geo.ValidPoint(point) {
		return nil, apperrors.NewValidationError("location", "latitude or longitude out of range", nil)
	}
	if radiusKm <= 0 {
		radiusKm = geo.DefaultRadiusKm
	}

	scope := policy.ScopeOf(caller)
	filter, ok, err := s.constrain(ctx, scope, domain.ComplaintFilter{})
	if err != nil || !ok {
		return nil, err
	}
	complaints, err := s.complaints.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}

	var result []NearbyComplaint
	for _, complaint := range complaints {
		if complaint.Location == nil {
			continue
		}
		distance := geo.DistanceKm(point, *complaint.Location)
		if distance <= radiusKm {
			result = append(result, NearbyComplaint{Complaint: redact(scope, complaint), DistanceKm: distance})
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].DistanceKm < result[j].DistanceKm })
	return result, nil
}

// SubmitFeedback records the single satisfaction rating of a resolved or closed complaint.
func (s *ComplaintService) SubmitFeedback(ctx context.Context, caller *domain.Account, reference string, input FeedbackInput) (*domain.Feedback, error) {
	scope := policy.ScopeOf(caller)
	complaint, err := s.loadVisible(ctx, scope, caller, reference, "submit_feedback")
	if err != nil {
		return nil, err
	}
	if complaint.Status != domain.StatusResolved && complaint.Status != domain.StatusClosed {
		return nil, apperrors.NewValidationError("status", "feedback can only be submitted for resolved or closed complaints",
			map[string]any{"value": complaint.Status})
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.NewValidationError("rating", "rating must be between 1 and 5", map[string]any{"value": input.Rating})
	}

	feedback := &domain.Feedback{
		Reference:      reference,
		Rating:         input.Rating,
		Comments:       strings.TrimSpace(input.Comments),
		WouldRecommend: input.WouldRecommend,
	}
	if err := s.feedback.Create(ctx, feedback); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("feedback already submitted for this complaint", map[string]any{"reference": reference})
		}
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return feedback, nil
}

// History returns the recorded status and priority changes of a visible complaint.
func (s *ComplaintService) History(ctx context.Context, caller *domain.Account, reference string) ([]domain.ComplaintHistory, error) {
	scope := policy.ScopeOf(caller)
	if _, err := s.loadVisible(ctx, scope, caller, reference, "complaint_history"); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// constrain narrows the filter to the scope and normalizes the requested department.
// ok is false when nothing can match.
func (s *ComplaintService) constrain(ctx context.Context, scope policy.Scope, filter domain.ComplaintFilter) (domain.ComplaintFilter, bool, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return filter, false, apperrors.NewValidationError("status", "unknown status", map[string]any{"value": filter.Status})
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return filter, false, apperrors.NewValidationError("priority", "unknown priority", map[string]any{"value": filter.Priority})
	}
	if filter.Department != "" {
		departments, err := s.catalog.Departments(ctx)
		if err != nil {
			return filter, false, err
		}
		filter.Department, _ = domain.NormalizeDepartment(filter.Department, departments)
	}
	if filter.Category != "" {
		categories, err := s.catalog.Categories(ctx)
		if err != nil {
			return filter, false, err
		}
		if category, found := domain.FindCategory(categories, filter.Category); found {
			filter.Category = category.Name
		}
	}
	constrained, ok := scope.Constrain(filter)
	return constrained, ok, nil
}

// loadVisible fetches a complaint the caller may read. Department-bound callers get the
// same generic refusal for missing and foreign complaints.
func (s *ComplaintService) loadVisible(ctx context.Context, scope policy.Scope, caller *domain.Account, reference, operation string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if scope.Role() == policy.RoleDepartmentStaff {
				return nil, s.deny(operation, scope, caller, reference)
			}
			return nil, apperrors.NewNotFound("complaint", map[string]any{"reference": reference})
		}
		return nil, fmt.Errorf("load complaint: %w", err)
	}
	if !scope.Visible(*complaint) {
		return nil, s.deny(operation, scope, caller, reference)
	}
	return complaint, nil
}

// missing reports an absent complaint: administrators may learn it does not exist,
// everyone else gets the generic refusal.
func (s *ComplaintService) missing(scope policy.Scope, operation string, caller *domain.Account, reference string) error {
	if scope.Role() == policy.RoleAdministrator {
		return apperrors.NewNotFound("complaint", map[string]any{"reference": reference})
	}
	return s.deny(operation, scope, caller, reference)
}

func (s *ComplaintService) deny(operation string, scope policy.Scope, caller *domain.Account, reference string) error {
	s.metrics.AuthorizationDenied(operation)
	s.logger.Info("operation denied",
		zap.String("operation", operation),
		zap.String("handle", handleOf(caller)),
		zap.String("role", string(scope.Role())),
		zap.String("reference", reference))
	return apperrors.NewAuthorizationError()
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event subscriber failed",
			zap.String("event_type", string(event.Type)),
			zap.String("subject", event.Subject),
			zap.Error(err))
	}
}

func validateComplaintInput(input ComplaintCreateInput) error {
	required := []struct{ field, value string }{
		{"title", input.Title},
		{"description", input.Description},
		{"category", input.Category},
		{"citizen_name", input.CitizenName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return apperrors.NewValidationError(r.field, r.field+" is required", nil)
		}
	}
	if email := strings.TrimSpace(input.CitizenEmail); email != "" {
		if err := validateEmail("citizen_email", email); err != nil {
			return err
		}
	}
	if input.Location != nil && !geo.ValidPoint(*input.Location) {
		return apperrors.NewValidationError("location", "latitude or longitude out of range", nil)
	}
	return nil
}

// generateComplaintReference issues CMP-YYYYMMDD-XXXXXXXXXXXX; the suffix is random.
func generateComplaintReference(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	return "CMP-" + now.Format("20060102") + "-" + suffix
}

// redact hides citizen contact details from callers without a staff scope.
func redact(scope policy.Scope, c domain.Complaint) domain.Complaint {
	if scope.SeesContactDetails() {
		return c
	}
	c.CitizenEmail = ""
	c.CitizenPhone = ""
	return c
}

func redactAll(scope policy.Scope, complaints []domain.Complaint) []domain.Complaint {
	if scope.SeesContactDetails() {
		return complaints
	}
	for i := range complaints {
		complaints[i] = redact(scope, complaints[i])
	}
	return complaints
}

func handleOf(account *domain.Account) string {
	if account == nil {
		return ""
	}
	return account.Handle
}
