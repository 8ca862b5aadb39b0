package controller

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/gartstein/jobboard/internal/jobboard/db"
	e "github.com/gartstein/jobboard/internal/jobboard/errors"
	"github.com/gartstein/jobboard/internal/jobboard/events"
	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/google/uuid"
)

var (
	candidate = &models.Identity{UserID: "cand-1", Name: "Cara Candidate", Role: models.RoleCandidate}
	recruiter = &models.Identity{UserID: "rec-1", Name: "Rex Recruiter", Role: models.RoleRecruiter}
)

type producedEvent struct {
	Type    events.EventType
	Key     string
	Payload interface{}
}

// MockProducer records produced events.
type MockProducer struct {
	mu     sync.Mutex
	events []producedEvent
}

func (m *MockProducer) Produce(eventType events.EventType, key string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, producedEvent{Type: eventType, Key: key, Payload: payload})
}

func (m *MockProducer) types() []events.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]events.EventType, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, ev.Type)
	}
	return out
}

// MockSavedStore is an in-memory saved item store with injectable failures.
type MockSavedStore struct {
	mu        sync.Mutex
	items     map[uuid.UUID]bool
	postings  map[uuid.UUID]bool
	existsErr error
	insertErr error
	deleteErr error
	inserts   int
}

func newMockSavedStore(postings ...uuid.UUID) *MockSavedStore {
	s := &MockSavedStore{items: map[uuid.UUID]bool{}, postings: map[uuid.UUID]bool{}}
	for _, id := range postings {
		s.postings[id] = true
	}
	return s
}

func (s *MockSavedStore) Exists(_ context.Context, itemID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[itemID], s.existsErr
}

func (s *MockSavedStore) ItemExists(_ context.Context, itemID uuid.UUID) (bool, error) {
	return s.postings[itemID], nil
}

func (s *MockSavedStore) Insert(_ context.Context, itemID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.insertErr != nil {
		return s.insertErr
	}
	if s.items[itemID] {
		return e.ErrDuplicate
	}
	s.items[itemID] = true
	return nil
}

func (s *MockSavedStore) Delete(_ context.Context, itemID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if !s.items[itemID] {
		return e.ErrNotFound
	}
	delete(s.items, itemID)
	return nil
}

func (s *MockSavedStore) SavedIDs(_ context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[uuid.UUID]bool{}
	for _, id := range itemIDs {
		if s.items[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (s *MockSavedStore) Jobs(context.Context) ([]models.SavedJob, error) {
	return []models.SavedJob{}, nil
}

func (s *MockSavedStore) Internships(context.Context) ([]models.SavedInternship, error) {
	return []models.SavedInternship{}, nil
}

func (s *MockSavedStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// MockRepository implements the service repository interfaces for testing.
type MockRepository struct {
	store *MockSavedStore

	listJobs            func(context.Context, models.JobFilter) ([]models.Job, error)
	listJobsByRecruiter func(context.Context, string) ([]models.Job, error)
	getJob              func(context.Context, uuid.UUID) (*models.Job, error)
	createJob           func(context.Context, *models.Job) error
	updateHiringStatus  func(context.Context, uuid.UUID, bool) error
	deleteJob           func(context.Context, uuid.UUID) error
	listInternships     func(context.Context, models.JobFilter) ([]models.Internship, error)
	getInternship       func(context.Context, uuid.UUID) (*models.Internship, error)
	createInternship    func(context.Context, *models.Internship) error

	listCompanies func(context.Context) ([]models.Company, error)
	getCompany    func(context.Context, uuid.UUID) (*models.Company, error)
	createCompany func(context.Context, *models.Company) error

	createApplication            func(context.Context, *models.Application) error
	getApplication               func(context.Context, uuid.UUID) (*models.Application, error)
	listApplicationsByCandidate  func(context.Context, string) ([]models.Application, error)
	listApplicationsForRecruiter func(context.Context, string) ([]models.Application, error)
	updateApplicationStatus      func(context.Context, uuid.UUID, string) error
	upsertProfileContact         func(context.Context, *models.Profile) error

	createAppointment       func(context.Context, *models.Appointment) error
	getAppointment          func(context.Context, uuid.UUID) (*models.Appointment, error)
	listAppointments        func(context.Context, string, bool) ([]models.Appointment, error)
	updateAppointmentStatus func(context.Context, uuid.UUID, string) error

	getProfile    func(context.Context, string) (*models.Profile, error)
	createProfile func(context.Context, *models.Profile) error
}

func (m *MockRepository) SavedItems(string) db.SavedItemStore {
	if m.store == nil {
		m.store = newMockSavedStore()
	}
	return m.store
}

func (m *MockRepository) ListJobs(ctx context.Context, f models.JobFilter) ([]models.Job, error) {
	return m.listJobs(ctx, f)
}

func (m *MockRepository) ListJobsByRecruiter(ctx context.Context, id string) ([]models.Job, error) {
	return m.listJobsByRecruiter(ctx, id)
}

func (m *MockRepository) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return m.getJob(ctx, id)
}

func (m *MockRepository) CreateJob(ctx context.Context, job *models.Job) error {
	return m.createJob(ctx, job)
}

func (m *MockRepository) UpdateHiringStatus(ctx context.Context, id uuid.UUID, isOpen bool) error {
	return m.updateHiringStatus(ctx, id, isOpen)
}

func (m *MockRepository) DeleteJob(ctx context.Context, id uuid.UUID) error {
	return m.deleteJob(ctx, id)
}

func (m *MockRepository) ListInternships(ctx context.Context, f models.JobFilter) ([]models.Internship, error) {
	return m.listInternships(ctx, f)
}

func (m *MockRepository) GetInternship(ctx context.Context, id uuid.UUID) (*models.Internship, error) {
	return m.getInternship(ctx, id)
}

func (m *MockRepository) CreateInternship(ctx context.Context, i *models.Internship) error {
	return m.createInternship(ctx, i)
}

func (m *MockRepository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return m.listCompanies(ctx)
}

func (m *MockRepository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return m.getCompany(ctx, id)
}

func (m *MockRepository) CreateCompany(ctx context.Context, c *models.Company) error {
	return m.createCompany(ctx, c)
}

func (m *MockRepository) CreateApplication(ctx context.Context, a *models.Application) error {
	return m.createApplication(ctx, a)
}

func (m *MockRepository) GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return m.getApplication(ctx, id)
}

func (m *MockRepository) ListApplicationsByCandidate(ctx context.Context, id string) ([]models.Application, error) {
	return m.listApplicationsByCandidate(ctx, id)
}

func (m *MockRepository) ListApplicationsForRecruiter(ctx context.Context, id string) ([]models.Application, error) {
	return m.listApplicationsForRecruiter(ctx, id)
}

func (m *MockRepository) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string) error {
	return m.updateApplicationStatus(ctx, id, status)
}

func (m *MockRepository) UpsertProfileContact(ctx context.Context, p *models.Profile) error {
	if m.upsertProfileContact == nil {
		return nil
	}
	return m.upsertProfileContact(ctx, p)
}

func (m *MockRepository) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	return m.createAppointment(ctx, a)
}

func (m *MockRepository) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	return m.getAppointment(ctx, id)
}

func (m *MockRepository) ListAppointments(ctx context.Context, id string, asRecruiter bool) ([]models.Appointment, error) {
	return m.listAppointments(ctx, id, asRecruiter)
}

func (m *MockRepository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status string) error {
	return m.updateAppointmentStatus(ctx, id, status)
}

func (m *MockRepository) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	return m.getProfile(ctx, id)
}

func (m *MockRepository) CreateProfile(ctx context.Context, p *models.Profile) error {
	return m.createProfile(ctx, p)
}

// MockBlobStore records uploads.
type MockBlobStore struct {
	err     error
	uploads map[string]string
}

func (m *MockBlobStore) Upload(_ context.Context, bucket, name string, r io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if m.uploads == nil {
		m.uploads = map[string]string{}
	}
	m.uploads[bucket+"/"+name] = string(body)
	return "http://blobs/" + bucket + "/" + name, nil
}

var errStore = errors.New("database error")
