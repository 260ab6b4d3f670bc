package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/i18n"
	"github.com/ofirte/wedding-sub001/internal/infra/docstore"
	"github.com/ofirte/wedding-sub001/internal/repository"
)

var (
	ErrMissingRequiredAnswers = errors.New("missing required answers")
	ErrGuestNotFound          = errors.New("guest not found")
)

// DecodeResponse reconciles stored response fields with the question list.
// Fields of unknown questions and values of the wrong type are ignored.
func DecodeResponse(guestID string, fields map[string]any, questions []entities.Question) *entities.Response {
	r := entities.NewResponse(guestID)

	for _, q := range questions {
		raw, ok := fields[q.ID]
		if !ok || raw == nil {
			continue
		}
		a, err := entities.DecodeAnswer(q, raw)
		if err != nil {
			continue
		}
		r.Answers[q.ID] = a
	}

	if v, ok := fields[entities.FieldIsSubmitted].(bool); ok {
		r.IsSubmitted = v
	}
	if at, ok := docstore.Time(fields[entities.FieldSubmittedAt]); ok {
		r.SubmittedAt = &at
	}

	return r
}

// RSVPService reads and writes guest responses against the wedding's
// current question catalog.
type RSVPService struct {
	catalog   *CatalogService
	responses ResponseRepository
	invitees  InviteeRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewRSVPService(
	catalog *CatalogService,
	responses ResponseRepository,
	invitees InviteeRepository,
	logger *zap.Logger,
) *RSVPService {
	return &RSVPService{
		catalog:   catalog,
		responses: responses,
		invitees:  invitees,
		logger:    logger,
		now:       time.Now,
	}
}

// Questions returns the effective questions of a wedding translated by t.
func (s *RSVPService) Questions(ctx context.Context, weddingID string, t i18n.Func) ([]entities.Question, error) {
	return s.catalog.Questions(ctx, weddingID, t)
}

// ParseAnswers validates raw answer values against the wedding's catalog.
func (s *RSVPService) ParseAnswers(ctx context.Context, weddingID string, raw map[string]any) (entities.Answers, error) {
	questions, err := s.catalog.Questions(ctx, weddingID, i18n.Identity)
	if err != nil {
		return nil, err
	}
	return entities.ParseAnswers(questions, raw)
}

// Read returns the guest's response, or nil when the guest never answered.
func (s *RSVPService) Read(ctx context.Context, weddingID, guestID string) (*entities.Response, error) {
	questions, err := s.catalog.Questions(ctx, weddingID, i18n.Identity)
	if err != nil {
		return nil, err
	}

	rec, err := s.responses.Get(ctx, weddingID, guestID)
	if err != nil {
		if errors.Is(err, repository.ErrResponseNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read response: %w", err)
	}

	return DecodeResponse(guestID, rec.Fields, questions), nil
}

// Write auto-saves partial answers, merging them into the stored response.
// Answers to questions outside the catalog are dropped.
func (s *RSVPService) Write(ctx context.Context, weddingID, guestID string, partial entities.Answers) (*entities.Response, error) {
	return s.write(ctx, weddingID, guestID, partial, false)
}

// Submit saves answers like Write and marks the response submitted. It fails
// with ErrMissingRequiredAnswers when a visible required question is still
// unanswered after the merge.
func (s *RSVPService) Submit(ctx context.Context, weddingID, guestID string, answers entities.Answers) (*entities.Response, error) {
	return s.write(ctx, weddingID, guestID, answers, true)
}

func (s *RSVPService) write(
	ctx context.Context,
	weddingID, guestID string,
	partial entities.Answers,
	submit bool,
) (*entities.Response, error) {
	if _, err := s.invitees.Get(ctx, weddingID, guestID); err != nil {
		if errors.Is(err, repository.ErrInviteeNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, fmt.Errorf("get invitee: %w", err)
	}

	questions, err := s.catalog.Questions(ctx, weddingID, i18n.Identity)
	if err != nil {
		return nil, err
	}

	accepted, err := acceptAnswers(questions, partial)
	if err != nil {
		return nil, err
	}

	var stored map[string]any
	rec, err := s.responses.Get(ctx, weddingID, guestID)
	switch {
	case err == nil:
		stored = rec.Fields
	case errors.Is(err, repository.ErrResponseNotFound):
		stored = map[string]any{}
	default:
		return nil, fmt.Errorf("read response: %w", err)
	}

	current := DecodeResponse(guestID, stored, questions)
	merged := current.Answers.Merge(accepted)

	if submit {
		missing := MissingRequired(VisibleQuestions(questions, merged), merged)
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingRequiredAnswers, strings.Join(missing, ", "))
		}
	}

	patch := buildResponsePatch(questions, stored, accepted, merged)
	if submit {
		patch.Set(entities.FieldIsSubmitted, true).Set(entities.FieldSubmittedAt, s.now().UTC())
	}

	if err := s.responses.Apply(ctx, weddingID, guestID, patch); err != nil {
		s.logger.Error("failed to save response",
			zap.String("wedding_id", weddingID),
			zap.String("guest_id", guestID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("save response: %w", err)
	}

	next := docstore.Clone(stored)
	patch.ApplyTo(next)
	return DecodeResponse(guestID, next, questions), nil
}

// acceptAnswers keeps answers to catalog questions and checks their type.
func acceptAnswers(questions []entities.Question, partial entities.Answers) (entities.Answers, error) {
	out := make(entities.Answers, len(partial))
	for _, q := range questions {
		a, ok := partial[q.ID]
		if !ok {
			continue
		}
		if _, err := entities.ParseAnswer(q, a.Raw()); err != nil {
			return nil, err
		}
		if string(a.Kind) != string(q.Type) {
			return nil, fmt.Errorf("%w: %s expects %s", entities.ErrInvalidAnswer, q.ID, q.Type)
		}
		out[q.ID] = a
	}
	return out, nil
}

// buildResponsePatch turns accepted answers into a patch. A declining guest
// keeps only the attendance answer: every other stored key and catalog id is
// cleared in the same patch.
func buildResponsePatch(
	questions []entities.Question,
	stored map[string]any,
	accepted, merged entities.Answers,
) entities.Patch {
	patch := entities.Patch{}

	if hasQuestion(questions, entities.QuestionAttendance) && merged[entities.QuestionAttendance].IsFalse() {
		for k := range stored {
			if k != entities.FieldIsSubmitted && k != entities.FieldSubmittedAt {
				patch.Clear(k)
			}
		}
		for _, q := range questions {
			patch.Clear(q.ID)
		}
		patch.Set(entities.QuestionAttendance, false)
		return patch
	}

	for id, a := range accepted {
		if a.IsEmpty() {
			patch.Clear(id)
			continue
		}
		patch.Set(id, a.Raw())
	}
	return patch
}

// List returns every stored response of the wedding.
func (s *RSVPService) List(ctx context.Context, weddingID string) ([]*entities.Response, error) {
	questions, err := s.catalog.Questions(ctx, weddingID, i18n.Identity)
	if err != nil {
		return nil, err
	}

	recs, err := s.responses.List(ctx, weddingID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	return decodeAll(recs, questions), nil
}

func decodeAll(recs []*repository.ResponseRecord, questions []entities.Question) []*entities.Response {
	out := make([]*entities.Response, 0, len(recs))
	for _, rec := range recs {
		out = append(out, DecodeResponse(rec.GuestID, rec.Fields, questions))
	}
	return out
}

// ResolveInvite maps a public invite code to its wedding and guest.
func (s *RSVPService) ResolveInvite(ctx context.Context, code string) (*entities.InviteLink, error) {
	link, err := s.invitees.GetByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrInviteNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, fmt.Errorf("resolve invite: %w", err)
	}
	return link, nil
}

// GuestForm is the derived questionnaire state shown to a guest.
type GuestForm struct {
	WeddingID   string              `json:"weddingId"`
	GuestID     string              `json:"guestId"`
	GuestName   string              `json:"guestName"`
	Questions   []entities.Question `json:"questions"` // visible questions
	State       FormState           `json:"state"`
	Answers     map[string]any      `json:"answers"`
	IsDone      bool                `json:"isDone"`
	CanSubmit   bool                `json:"canSubmit"`
	IsSubmitted bool                `json:"isSubmitted"`
	SubmittedAt *time.Time          `json:"submittedAt,omitempty"`
}

// Form loads a guest's questionnaire. The state is derived from the stored
// answers, so reloading always lands on the same question.
func (s *RSVPService) Form(ctx context.Context, weddingID, guestID string, t i18n.Func) (*GuestForm, *FormSession, error) {
	inv, err := s.invitees.Get(ctx, weddingID, guestID)
	if err != nil {
		if errors.Is(err, repository.ErrInviteeNotFound) {
			return nil, nil, ErrGuestNotFound
		}
		return nil, nil, fmt.Errorf("get invitee: %w", err)
	}

	questions, err := s.catalog.Questions(ctx, weddingID, t)
	if err != nil {
		return nil, nil, err
	}

	resp := entities.NewResponse(guestID)
	rec, err := s.responses.Get(ctx, weddingID, guestID)
	switch {
	case err == nil:
		resp = DecodeResponse(guestID, rec.Fields, questions)
	case !errors.Is(err, repository.ErrResponseNotFound):
		s.logger.Error("failed to read response",
			zap.String("wedding_id", weddingID),
			zap.String("guest_id", guestID),
			zap.Error(err),
		)
	}

	session := NewFormSession(questions, resp.Answers)
	return NewGuestForm(weddingID, inv, resp, session), session, nil
}

// NewGuestForm renders a session into its JSON shape.
func NewGuestForm(weddingID string, inv *entities.Invitee, resp *entities.Response, session *FormSession) *GuestForm {
	answers := make(map[string]any, len(resp.Answers))
	for id, a := range session.Answers() {
		answers[id] = a.Raw()
	}

	return &GuestForm{
		WeddingID:   weddingID,
		GuestID:     inv.ID,
		GuestName:   inv.Name,
		Questions:   session.Visible(),
		State:       session.State(),
		Answers:     answers,
		IsDone:      session.IsDone(),
		CanSubmit:   session.CanSubmit(),
		IsSubmitted: resp.IsSubmitted,
		SubmittedAt: resp.SubmittedAt,
	}
}

// TableView is the admin guest table.
type TableView struct {
	Columns []ColumnDescriptor `json:"columns"`
	Rows    []RenderedRow      `json:"rows"`
	Total   int                `json:"total"`
}

// Table builds the admin table of every invitee and their response.
// Read failures degrade to empty collections.
func (s *RSVPService) Table(ctx context.Context, weddingID string, t i18n.Func, query TableQuery) (*TableView, error) {
	questions, err := s.catalog.Questions(ctx, weddingID, t)
	if err != nil {
		return nil, err
	}

	invitees, responses := s.loadGuests(ctx, weddingID, questions)

	byGuest := make(map[string]*entities.Response, len(responses))
	for _, r := range responses {
		byGuest[r.GuestID] = r
	}

	rows := make([]TableRow, 0, len(invitees))
	for _, inv := range invitees {
		rows = append(rows, TableRow{Invitee: inv, Response: byGuest[inv.ID]})
	}

	columns := BuildColumns(questions, t)
	filtered := BuildTable(columns, rows, query)

	return &TableView{
		Columns: columns,
		Rows:    RenderRows(columns, filtered),
		Total:   len(rows),
	}, nil
}

// Stats computes the dashboard cards of a wedding.
func (s *RSVPService) Stats(ctx context.Context, weddingID string, t i18n.Func) ([]entities.StatCard, error) {
	questions, err := s.catalog.Questions(ctx, weddingID, t)
	if err != nil {
		return nil, err
	}

	_, responses := s.loadGuests(ctx, weddingID, questions)
	return ComputeStats(questions, responses), nil
}

func (s *RSVPService) loadGuests(
	ctx context.Context,
	weddingID string,
	questions []entities.Question,
) ([]*entities.Invitee, []*entities.Response) {
	invitees, err := s.invitees.List(ctx, weddingID)
	if err != nil {
		s.logger.Error("failed to list invitees", zap.String("wedding_id", weddingID), zap.Error(err))
		invitees = []*entities.Invitee{}
	}

	recs, err := s.responses.List(ctx, weddingID)
	if err != nil {
		s.logger.Error("failed to list responses", zap.String("wedding_id", weddingID), zap.Error(err))
		recs = nil
	}

	return invitees, decodeAll(recs, questions)
}

// ChangeEvent reports that a watched wedding collection changed.
type ChangeEvent struct {
	Collection string `json:"collection"`
	Count      int    `json:"count"`
}

// Watch calls onEvent whenever the wedding's invitees or responses change,
// until ctx is done. Subscription errors are logged.
func (s *RSVPService) Watch(ctx context.Context, weddingID string, onEvent func(ChangeEvent)) {
	onError := func(err error) {
		s.logger.Warn("subscription error", zap.String("wedding_id", weddingID), zap.Error(err))
	}

	stopResponses := s.responses.Watch(ctx, weddingID, func(recs []*repository.ResponseRecord) {
		onEvent(ChangeEvent{Collection: "responses", Count: len(recs)})
	}, onError)
	stopInvitees := s.invitees.Watch(ctx, weddingID, func(invs []*entities.Invitee) {
		onEvent(ChangeEvent{Collection: "invitees", Count: len(invs)})
	}, onError)

	<-ctx.Done()
	stopResponses()
	stopInvitees()
}
