package http

import (
	"net/http"
	"strconv"
	"strings"

	apperrors "hotelops/pkg/errors"
	"hotelops/pkg/model"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// ActorFromRequest reads the caller identity set by the upstream gateway.
// Requests without a role are treated as guests.
func ActorFromRequest(r *http.Request) model.Actor {
	role := model.Role(strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole))))
	if role == "" {
		role = model.RoleGuest
	}
	return model.Actor{
		ID:   strings.TrimSpace(r.Header.Get(HeaderUserID)),
		Role: role,
	}
}

func QueryDate(r *http.Request, key string) (model.Date, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return model.Date{}, apperrors.InvalidInput(key + " query parameter is required")
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, apperrors.InvalidInput(err.Error())
	}
	return d, nil
}

func QueryInt(r *http.Request, key string, fallback int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid " + key + " parameter: " + s)
	}
	return v, nil
}
