package handlers

import (
	"context"
	"os"

	"github.com/gartstein/jobboard/internal/jobboard/controller"
	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/gartstein/jobboard/internal/jobboard/video"
	"github.com/google/uuid"
)

type mockJobs struct {
	listJobsFunc           func(ctx context.Context, identity *models.Identity, filter models.JobFilter) ([]models.JobListing, error)
	getJobFunc             func(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.JobListing, error)
	createJobFunc          func(ctx context.Context, identity *models.Identity, input controller.PostingInput) (*models.Job, error)
	updateHiringStatusFunc func(ctx context.Context, identity *models.Identity, id uuid.UUID, isOpen bool) (*models.Job, error)
	deleteJobFunc          func(ctx context.Context, identity *models.Identity, id uuid.UUID) error
	myJobsFunc             func(ctx context.Context, identity *models.Identity) ([]models.Job, error)
	listInternshipsFunc    func(ctx context.Context, identity *models.Identity, filter models.JobFilter) ([]models.InternshipListing, error)
	getInternshipFunc      func(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.InternshipListing, error)
	createInternshipFunc   func(ctx context.Context, identity *models.Identity, input controller.PostingInput) (*models.Internship, error)
}

func (m *mockJobs) ListJobs(ctx context.Context, identity *models.Identity, filter models.JobFilter) ([]models.JobListing, error) {
	return m.listJobsFunc(ctx, identity, filter)
}

func (m *mockJobs) GetJob(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.JobListing, error) {
	return m.getJobFunc(ctx, identity, id)
}

func (m *mockJobs) CreateJob(ctx context.Context, identity *models.Identity, input controller.PostingInput) (*models.Job, error) {
	return m.createJobFunc(ctx, identity, input)
}

func (m *mockJobs) UpdateHiringStatus(ctx context.Context, identity *models.Identity, id uuid.UUID, isOpen bool) (*models.Job, error) {
	return m.updateHiringStatusFunc(ctx, identity, id, isOpen)
}

func (m *mockJobs) DeleteJob(ctx context.Context, identity *models.Identity, id uuid.UUID) error {
	return m.deleteJobFunc(ctx, identity, id)
}

func (m *mockJobs) MyJobs(ctx context.Context, identity *models.Identity) ([]models.Job, error) {
	return m.myJobsFunc(ctx, identity)
}

func (m *mockJobs) ListInternships(ctx context.Context, identity *models.Identity, filter models.JobFilter) ([]models.InternshipListing, error) {
	return m.listInternshipsFunc(ctx, identity, filter)
}

func (m *mockJobs) GetInternship(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.InternshipListing, error) {
	return m.getInternshipFunc(ctx, identity, id)
}

func (m *mockJobs) CreateInternship(ctx context.Context, identity *models.Identity, input controller.PostingInput) (*models.Internship, error) {
	return m.createInternshipFunc(ctx, identity, input)
}

type mockCompanies struct {
	listCompaniesFunc func(ctx context.Context) ([]models.Company, error)
	createCompanyFunc func(ctx context.Context, identity *models.Identity, input controller.CompanyInput) (*models.Company, error)
}

func (m *mockCompanies) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return m.listCompaniesFunc(ctx)
}

func (m *mockCompanies) CreateCompany(ctx context.Context, identity *models.Identity, input controller.CompanyInput) (*models.Company, error) {
	return m.createCompanyFunc(ctx, identity, input)
}

type mockApplications struct {
	applyFunc            func(ctx context.Context, identity *models.Identity, jobID uuid.UUID, input controller.ApplicationInput) (*models.Application, error)
	listForCandidateFunc func(ctx context.Context, identity *models.Identity) ([]models.Application, error)
	listForRecruiterFunc func(ctx context.Context, identity *models.Identity) ([]models.Application, error)
	updateStatusFunc     func(ctx context.Context, identity *models.Identity, id uuid.UUID, status string) (*models.Application, error)
}

func (m *mockApplications) Apply(ctx context.Context, identity *models.Identity, jobID uuid.UUID, input controller.ApplicationInput) (*models.Application, error) {
	return m.applyFunc(ctx, identity, jobID, input)
}

func (m *mockApplications) ListForCandidate(ctx context.Context, identity *models.Identity) ([]models.Application, error) {
	return m.listForCandidateFunc(ctx, identity)
}

func (m *mockApplications) ListForRecruiter(ctx context.Context, identity *models.Identity) ([]models.Application, error) {
	return m.listForRecruiterFunc(ctx, identity)
}

func (m *mockApplications) UpdateStatus(ctx context.Context, identity *models.Identity, id uuid.UUID, status string) (*models.Application, error) {
	return m.updateStatusFunc(ctx, identity, id, status)
}

type mockAppointments struct {
	scheduleFunc     func(ctx context.Context, identity *models.Identity, input controller.AppointmentInput) (*models.Appointment, error)
	listFunc         func(ctx context.Context, identity *models.Identity) ([]models.Appointment, error)
	getFunc          func(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Appointment, error)
	updateStatusFunc func(ctx context.Context, identity *models.Identity, id uuid.UUID, status string) (*models.Appointment, error)
}

func (m *mockAppointments) Schedule(ctx context.Context, identity *models.Identity, input controller.AppointmentInput) (*models.Appointment, error) {
	return m.scheduleFunc(ctx, identity, input)
}

func (m *mockAppointments) List(ctx context.Context, identity *models.Identity) ([]models.Appointment, error) {
	return m.listFunc(ctx, identity)
}

func (m *mockAppointments) Get(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Appointment, error) {
	return m.getFunc(ctx, identity, id)
}

func (m *mockAppointments) UpdateStatus(ctx context.Context, identity *models.Identity, id uuid.UUID, status string) (*models.Appointment, error) {
	return m.updateStatusFunc(ctx, identity, id, status)
}

type mockSaved struct {
	saveFunc                 func(ctx context.Context, identity *models.Identity, itemID uuid.UUID) error
	unsaveFunc               func(ctx context.Context, identity *models.Identity, itemID uuid.UUID) error
	toggleFunc               func(ctx context.Context, identity *models.Identity, itemID uuid.UUID, alreadySaved bool) (bool, error)
	listSavedJobsFunc        func(ctx context.Context, identity *models.Identity) ([]models.SavedJob, error)
	listSavedInternshipsFunc func(ctx context.Context, identity *models.Identity) ([]models.SavedInternship, error)
}

func (m *mockSaved) Save(ctx context.Context, identity *models.Identity, itemID uuid.UUID) error {
	return m.saveFunc(ctx, identity, itemID)
}

func (m *mockSaved) Unsave(ctx context.Context, identity *models.Identity, itemID uuid.UUID) error {
	return m.unsaveFunc(ctx, identity, itemID)
}

func (m *mockSaved) Toggle(ctx context.Context, identity *models.Identity, itemID uuid.UUID, alreadySaved bool) (bool, error) {
	return m.toggleFunc(ctx, identity, itemID, alreadySaved)
}

func (m *mockSaved) ListSavedJobs(ctx context.Context, identity *models.Identity) ([]models.SavedJob, error) {
	return m.listSavedJobsFunc(ctx, identity)
}

func (m *mockSaved) ListSavedInternships(ctx context.Context, identity *models.Identity) ([]models.SavedInternship, error) {
	return m.listSavedInternshipsFunc(ctx, identity)
}

type mockProfiles struct {
	selectRoleFunc func(ctx context.Context, identity *models.Identity, role models.Role) (*models.Profile, error)
}

func (m *mockProfiles) SelectRole(ctx context.Context, identity *models.Identity, role models.Role) (*models.Profile, error) {
	return m.selectRoleFunc(ctx, identity, role)
}

type mockRooms struct {
	joinFunc     func(roomID, participantID, displayName string) (*video.Session, error)
	leaveFunc    func(roomID, participantID string) error
	setMediaFunc func(roomID, participantID string, mic, camera bool) (*video.Participant, error)
}

func (m *mockRooms) Join(roomID, participantID, displayName string) (*video.Session, error) {
	return m.joinFunc(roomID, participantID, displayName)
}

func (m *mockRooms) Leave(roomID, participantID string) error {
	return m.leaveFunc(roomID, participantID)
}

func (m *mockRooms) SetMedia(roomID, participantID string, mic, camera bool) (*video.Participant, error) {
	return m.setMediaFunc(roomID, participantID, mic, camera)
}

type mockObjects struct {
	openFunc func(bucket, name string) (*os.File, error)
}

func (m *mockObjects) Open(bucket, name string) (*os.File, error) {
	return m.openFunc(bucket, name)
}
