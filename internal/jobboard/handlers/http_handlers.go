package handlers

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/gartstein/jobboard/internal/jobboard/auth"
	"github.com/gartstein/jobboard/internal/jobboard/controller"
	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/gartstein/jobboard/internal/jobboard/video"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

// JobController is the job and internship logic behind the HTTP routes.
type JobController interface {
	ListJobs(ctx context.Context, identity *models.Identity, filter models.JobFilter) ([]models.JobListing, error)
	GetJob(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.JobListing, error)
	CreateJob(ctx context.Context, identity *models.Identity, input controller.PostingInput) (*models.Job, error)
	UpdateHiringStatus(ctx context.Context, identity *models.Identity, id uuid.UUID, isOpen bool) (*models.Job, error)
	DeleteJob(ctx context.Context, identity *models.Identity, id uuid.UUID) error
	MyJobs(ctx context.Context, identity *models.Identity) ([]models.Job, error)
	ListInternships(ctx context.Context, identity *models.Identity, filter models.JobFilter) ([]models.InternshipListing, error)
	GetInternship(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.InternshipListing, error)
	CreateInternship(ctx context.Context, identity *models.Identity, input controller.PostingInput) (*models.Internship, error)
}

type CompanyController interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	CreateCompany(ctx context.Context, identity *models.Identity, input controller.CompanyInput) (*models.Company, error)
}

type ApplicationController interface {
	Apply(ctx context.Context, identity *models.Identity, jobID uuid.UUID, input controller.ApplicationInput) (*models.Application, error)
	ListForCandidate(ctx context.Context, identity *models.Identity) ([]models.Application, error)
	ListForRecruiter(ctx context.Context, identity *models.Identity) ([]models.Application, error)
	UpdateStatus(ctx context.Context, identity *models.Identity, id uuid.UUID, status string) (*models.Application, error)
}

type AppointmentController interface {
	Schedule(ctx context.Context, identity *models.Identity, input controller.AppointmentInput) (*models.Appointment, error)
	List(ctx context.Context, identity *models.Identity) ([]models.Appointment, error)
	Get(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, identity *models.Identity, id uuid.UUID, status string) (*models.Appointment, error)
}

type ProfileController interface {
	SelectRole(ctx context.Context, identity *models.Identity, role models.Role) (*models.Profile, error)
}

// RoomLauncher admits callers into interview rooms.
type RoomLauncher interface {
	Join(roomID, participantID, displayName string) (*video.Session, error)
	Leave(roomID, participantID string) error
	SetMedia(roomID, participantID string, mic, camera bool) (*video.Participant, error)
}

// ObjectStore serves uploaded files.
type ObjectStore interface {
	Open(bucket, name string) (*os.File, error)
}

// Services bundles the controllers the HTTP routes call into.
type Services struct {
	Jobs         JobController
	Companies    CompanyController
	Applications ApplicationController
	Appointments AppointmentController
	Saved        SavedController
	Profiles     ProfileController
	Rooms        RoomLauncher
	Objects      ObjectStore
}

const defaultMaxUploadBytes = 10 << 20

// HTTPHandler serves the REST API.
type HTTPHandler struct {
	svc            Services
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewHTTPHandler constructs an HTTPHandler. maxUploadBytes <= 0 selects
// the default limit.
func NewHTTPHandler(svc Services, maxUploadBytes int64, logger *zap.Logger) *HTTPHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &HTTPHandler{
		svc:            svc,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.Named("http_handler"),
	}
}

type route struct {
	method  string
	pattern string
	handler runtime.HandlerFunc
}

func (h *HTTPHandler) routes() []route {
	return []route{
		{http.MethodGet, "/healthz", h.health},
		{http.MethodGet, "/v1/navigation", h.navigation},
		{http.MethodPost, "/v1/onboarding/role", h.selectRole},

		{http.MethodGet, "/v1/companies", h.listCompanies},
		{http.MethodPost, "/v1/companies", h.createCompany},

		{http.MethodGet, "/v1/jobs", h.listJobs},
		{http.MethodPost, "/v1/jobs", h.createJob},
		{http.MethodGet, "/v1/jobs/{id}", h.getJob},
		{http.MethodDelete, "/v1/jobs/{id}", h.deleteJob},
		{http.MethodPatch, "/v1/jobs/{id}/hiring-status", h.updateHiringStatus},
		{http.MethodPost, "/v1/jobs/{id}/applications", h.apply},
		{http.MethodGet, "/v1/my/jobs", h.myJobs},

		{http.MethodGet, "/v1/internships", h.listInternships},
		{http.MethodPost, "/v1/internships", h.createInternship},
		{http.MethodGet, "/v1/internships/{id}", h.getInternship},

		{http.MethodGet, "/v1/my/applications", h.myApplications},
		{http.MethodGet, "/v1/recruiter/applications", h.recruiterApplications},
		{http.MethodPatch, "/v1/applications/{id}/status", h.updateApplicationStatus},

		{http.MethodGet, "/v1/saved/jobs", h.savedJobs},
		{http.MethodGet, "/v1/saved/internships", h.savedInternships},
		{http.MethodPut, "/v1/saved/{item_id}", h.saveItem},
		{http.MethodDelete, "/v1/saved/{item_id}", h.unsaveItem},
		{http.MethodPost, "/v1/saved/{item_id}/toggle", h.toggleItem},

		{http.MethodGet, "/v1/appointments", h.listAppointments},
		{http.MethodPost, "/v1/appointments", h.scheduleAppointment},
		{http.MethodGet, "/v1/appointments/{id}", h.getAppointment},
		{http.MethodPatch, "/v1/appointments/{id}/status", h.updateAppointmentStatus},

		{http.MethodPost, "/v1/video/rooms/{room_id}/join", h.joinRoom},
		{http.MethodPost, "/v1/video/rooms/{room_id}/leave", h.leaveRoom},
		{http.MethodPost, "/v1/video/rooms/{room_id}/media", h.setMedia},

		{http.MethodGet, "/storage/v1/object/public/{bucket}/{name}", h.serveObject},
	}
}

// Register adds every route to mux.
func (h *HTTPHandler) Register(mux *runtime.ServeMux) error {
	for _, rt := range h.routes() {
		if err := mux.HandlePath(rt.method, rt.pattern, rt.handler); err != nil {
			return err
		}
	}
	return nil
}

// caller returns the authenticated identity. The auth middleware has
// already rejected anonymous callers on every route that uses it.
func caller(r *http.Request) *models.Identity {
	if identity := auth.IdentityFromContext(r.Context()); identity != nil {
		return identity
	}
	return &models.Identity{}
}

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if httpStatus(err) == http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err), zap.String("path", r.URL.Path))
	}
	writeServiceError(w, err)
}

func (h *HTTPHandler) health(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "jobboard"})
}

type navigationResponse struct {
	State    auth.State    `json:"state"`
	Home     string        `json:"home"`
	Decision auth.Decision `json:"decision"`
	Links    []auth.Link   `json:"links"`
}

func (h *HTTPHandler) navigation(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	state := auth.StateOf(auth.IdentityFromContext(r.Context()))
	path := r.URL.Query().Get("path")
	if path == "" {
		path = auth.RouteHome
	}
	writeJSON(w, http.StatusOK, navigationResponse{
		State:    state,
		Home:     auth.HomeFor(state),
		Decision: auth.Gate(state, path),
		Links:    auth.Links(state),
	})
}

type roleRequest struct {
	Role models.Role `json:"role"`
}

type roleResponse struct {
	Profile  *models.Profile `json:"profile"`
	Redirect string          `json:"redirect"`
}

func (h *HTTPHandler) selectRole(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	identity := caller(r)
	profile, err := h.svc.Profiles.SelectRole(r.Context(), identity, req.Role)
	if err != nil {
		h.fail(w, r, "Select role failed", err)
		return
	}
	writeJSON(w, http.StatusOK, roleResponse{
		Profile:  profile,
		Redirect: auth.HomeFor(auth.StateOf(identity)),
	})
}

func (h *HTTPHandler) listCompanies(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	companies, err := h.svc.Companies.ListCompanies(r.Context())
	if err != nil {
		h.fail(w, r, "List companies failed", err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

// createCompany accepts a multipart form with "name" and an optional
// "logo" file.
func (h *HTTPHandler) createCompany(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		badRequest(w, "invalid multipart form")
		return
	}
	name, contentType, logo, closeLogo, err := multipartFile(r, "logo")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	defer closeLogo()

	company, err := h.svc.Companies.CreateCompany(r.Context(), caller(r), controller.CompanyInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		LogoName:    name,
		ContentType: contentType,
		Logo:        logo,
	})
	if err != nil {
		h.fail(w, r, "Create company failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, company)
}

func (h *HTTPHandler) listJobs(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	jobs, err := h.svc.Jobs.ListJobs(r.Context(), caller(r), filter)
	if err != nil {
		h.fail(w, r, "List jobs failed", err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *HTTPHandler) createJob(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var input controller.PostingInput
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, err.Error())
		return
	}
	job, err := h.svc.Jobs.CreateJob(r.Context(), caller(r), input)
	if err != nil {
		h.fail(w, r, "Create job failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (h *HTTPHandler) getJob(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := pathUUID(params, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	job, err := h.svc.Jobs.GetJob(r.Context(), caller(r), id)
	if err != nil {
		h.fail(w, r, "Get job failed", err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *HTTPHandler) deleteJob(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := pathUUID(params, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := h.svc.Jobs.DeleteJob(r.Context(), caller(r), id); err != nil {
		h.fail(w, r, "Delete job failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type hiringStatusRequest struct {
	IsOpen bool `json:"isOpen"`
}

func (h *HTTPHandler) updateHiringStatus(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := pathUUID(params, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req hiringStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	job, err := h.svc.Jobs.UpdateHiringStatus(r.Context(), caller(r), id, req.IsOpen)
	if err != nil {
		h.fail(w, r, "Update hiring status failed", err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *HTTPHandler) myJobs(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	jobs, err := h.svc.Jobs.MyJobs(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, "List my jobs failed", err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *HTTPHandler) listInternships(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	internships, err := h.svc.Jobs.ListInternships(r.Context(), caller(r), filter)
	if err != nil {
		h.fail(w, r, "List internships failed", err)
		return
	}
	writeJSON(w, http.StatusOK, internships)
}

func (h *HTTPHandler) createInternship(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var input controller.PostingInput
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, err.Error())
		return
	}
	internship, err := h.svc.Jobs.CreateInternship(r.Context(), caller(r), input)
	if err != nil {
		h.fail(w, r, "Create internship failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, internship)
}

func (h *HTTPHandler) getInternship(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := pathUUID(params, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	internship, err := h.svc.Jobs.GetInternship(r.Context(), caller(r), id)
	if err != nil {
		h.fail(w, r, "Get internship failed", err)
		return
	}
	writeJSON(w, http.StatusOK, internship)
}

// apply accepts a multipart form with experience, skills, education and a
// "resume" file.
func (h *HTTPHandler) apply(w http.ResponseWriter, r *http.Request, params map[string]string) {
	jobID, err := pathUUID(params, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		badRequest(w, "invalid multipart form")
		return
	}
	experience, err := formInt(r, "experience")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	name, contentType, resume, closeResume, err := multipartFile(r, "resume")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	defer closeResume()

	app, err := h.svc.Applications.Apply(r.Context(), caller(r), jobID, controller.ApplicationInput{
		Experience:  experience,
		Skills:      strings.TrimSpace(r.FormValue("skills")),
		Education:   strings.TrimSpace(r.FormValue("education")),
		ResumeName:  name,
		ContentType: contentType,
		Resume:      resume,
	})
	if err != nil {
		h.fail(w, r, "Apply failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// myApplications lists the caller's applications; ?group=status groups
// them by status.
func (h *HTTPHandler) myApplications(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	apps, err := h.svc.Applications.ListForCandidate(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, "List applications failed", err)
		return
	}
	if r.URL.Query().Get("group") == "status" {
		writeJSON(w, http.StatusOK, controller.GroupByStatus(apps))
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// recruiterApplications lists applications to the caller's jobs;
// ?group=job groups them by job id.
func (h *HTTPHandler) recruiterApplications(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	apps, err := h.svc.Applications.ListForRecruiter(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, "List recruiter applications failed", err)
		return
	}
	if r.URL.Query().Get("group") == "job" {
		writeJSON(w, http.StatusOK, controller.GroupByJob(apps))
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *HTTPHandler) updateApplicationStatus(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := pathUUID(params, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	app, err := h.svc.Applications.UpdateStatus(r.Context(), caller(r), id, req.Status)
	if err != nil {
		h.fail(w, r, "Update application status failed", err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *HTTPHandler) savedJobs(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	jobs, err := h.svc.Saved.ListSavedJobs(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, "List saved jobs failed", err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *HTTPHandler) savedInternships(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	internships, err := h.svc.Saved.ListSavedInternships(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, "List saved internships failed", err)
		return
	}
	writeJSON(w, http.StatusOK, internships)
}

type savedResponse struct {
	ItemID uuid.UUID `json:"item_id"`
	Saved  bool      `json:"saved"`
}

func (h *HTTPHandler) saveItem(w http.ResponseWriter, r *http.Request, params map[string]string) {
	itemID, err := pathUUID(params, "item_id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := h.svc.Saved.Save(r.Context(), caller(r), itemID); err != nil {
		h.fail(w, r, "Save item failed", err)
		return
	}
	writeJSON(w, http.StatusOK, savedResponse{ItemID: itemID, Saved: true})
}

func (h *HTTPHandler) unsaveItem(w http.ResponseWriter, r *http.Request, params map[string]string) {
	itemID, err := pathUUID(params, "item_id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := h.svc.Saved.Unsave(r.Context(), caller(r), itemID); err != nil {
		h.fail(w, r, "Unsave item failed", err)
		return
	}
	writeJSON(w, http.StatusOK, savedResponse{ItemID: itemID, Saved: false})
}

type toggleRequest struct {
	Saved bool `json:"saved"`
}

func (h *HTTPHandler) toggleItem(w http.ResponseWriter, r *http.Request, params map[string]string) {
	itemID, err := pathUUID(params, "item_id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req toggleRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	saved, err := h.svc.Saved.Toggle(r.Context(), caller(r), itemID, req.Saved)
	if err != nil {
		h.fail(w, r, "Toggle item failed", err)
		return
	}
	writeJSON(w, http.StatusOK, savedResponse{ItemID: itemID, Saved: saved})
}

func (h *HTTPHandler) listAppointments(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	appointments, err := h.svc.Appointments.List(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, "List appointments failed", err)
		return
	}
	writeJSON(w, http.StatusOK, appointments)
}

func (h *HTTPHandler) scheduleAppointment(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var input controller.AppointmentInput
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, err.Error())
		return
	}
	appointment, err := h.svc.Appointments.Schedule(r.Context(), caller(r), input)
	if err != nil {
		h.fail(w, r, "Schedule appointment failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, appointment)
}

func (h *HTTPHandler) getAppointment(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := pathUUID(params, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	appointment, err := h.svc.Appointments.Get(r.Context(), caller(r), id)
	if err != nil {
		h.fail(w, r, "Get appointment failed", err)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

func (h *HTTPHandler) updateAppointmentStatus(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := pathUUID(params, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	appointment, err := h.svc.Appointments.UpdateStatus(r.Context(), caller(r), id, req.Status)
	if err != nil {
		h.fail(w, r, "Update appointment status failed", err)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

func displayName(identity *models.Identity) string {
	if identity.Name != "" {
		return identity.Name
	}
	if name := strings.TrimSpace(identity.FirstName + " " + identity.LastName); name != "" {
		return name
	}
	return identity.UserID
}

func (h *HTTPHandler) joinRoom(w http.ResponseWriter, r *http.Request, params map[string]string) {
	identity := caller(r)
	session, err := h.svc.Rooms.Join(params["room_id"], identity.UserID, displayName(identity))
	if err != nil {
		h.fail(w, r, "Join room failed", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *HTTPHandler) leaveRoom(w http.ResponseWriter, r *http.Request, params map[string]string) {
	if err := h.svc.Rooms.Leave(params["room_id"], caller(r).UserID); err != nil {
		h.fail(w, r, "Leave room failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"redirect": auth.RouteVideoCallEnded})
}

type mediaRequest struct {
	Mic    bool `json:"mic"`
	Camera bool `json:"camera"`
}

func (h *HTTPHandler) setMedia(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var req mediaRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	participant, err := h.svc.Rooms.SetMedia(params["room_id"], caller(r).UserID, req.Mic, req.Camera)
	if err != nil {
		h.fail(w, r, "Set media failed", err)
		return
	}
	writeJSON(w, http.StatusOK, participant)
}

func (h *HTTPHandler) serveObject(w http.ResponseWriter, r *http.Request, params map[string]string) {
	f, err := h.svc.Objects.Open(params["bucket"], params["name"])
	if err != nil {
		h.fail(w, r, "Open object failed", err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.fail(w, r, "Stat object failed", err)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
