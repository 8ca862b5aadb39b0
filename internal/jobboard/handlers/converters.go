package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	e "github.com/gartstein/jobboard/internal/jobboard/errors"
	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/gartstein/jobboard/internal/jobboard/validation"
	"github.com/gartstein/jobboard/internal/pkg/utils"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// grpcError translates service errors into gRPC status codes.
func grpcError(err error) error {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, e.ErrDuplicate),
		errors.Is(err, e.ErrAlreadyApplied),
		errors.Is(err, e.ErrRoleAlreadySet):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, e.ErrRoomFull):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, e.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, e.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}

// httpStatus translates service errors into HTTP status codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, e.ErrDuplicate),
		errors.Is(err, e.ErrAlreadyApplied),
		errors.Is(err, e.ErrRoleAlreadySet),
		errors.Is(err, e.ErrRoomFull):
		return http.StatusConflict
	case errors.Is(err, e.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, e.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError writes err with its mapped status. Validation failures
// carry their per-field messages.
func writeServiceError(w http.ResponseWriter, err error) {
	code := httpStatus(err)
	body := errorBody{Error: err.Error()}
	if code == http.StatusInternalServerError {
		body.Error = "internal server error"
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		body.Error = "validation failed"
		body.Fields = verrs
	}
	writeJSON(w, code, body)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func pathUUID(params map[string]string, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(params[key])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s", key)
	}
	return id, nil
}

// filterFromQuery builds a listing filter from ?q=&location=&company_id=.
func filterFromQuery(q url.Values) (models.JobFilter, error) {
	filter := models.JobFilter{
		TextMatch:     strings.TrimSpace(q.Get("q")),
		LocationMatch: strings.TrimSpace(q.Get("location")),
	}
	if raw := q.Get("company_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid company_id")
		}
		filter.CompanyID = utils.Ptr(id)
	}
	return filter, nil
}

// multipartFile pulls one optional file field out of a parsed multipart
// form. The returned closer is a no-op when the field is absent.
func multipartFile(r *http.Request, field string) (name, contentType string, body io.Reader, closer func(), err error) {
	closer = func() {}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", "", nil, closer, nil
	}
	if err != nil {
		return "", "", nil, closer, fmt.Errorf("invalid %s upload: %w", field, err)
	}
	return header.Filename, header.Header.Get("Content-Type"), file, func() { _ = file.Close() }, nil
}

func formInt(r *http.Request, field string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", field)
	}
	return n, nil
}
