package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/diegoclair/shift-board/internal/domain"
	"github.com/diegoclair/shift-board/internal/domain/contract"
	"github.com/diegoclair/shift-board/internal/domain/entity"
)

// shiftList accepts a bare array or a {"shifts"} / {"data"} envelope.
type shiftList []entity.Shift

func (l *shiftList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var shifts []entity.Shift
		if err := json.Unmarshal(data, &shifts); err != nil {
			return err
		}
		*l = shifts
		return nil
	}

	var envelope struct {
		Shifts []entity.Shift `json:"shifts"`
		Data   []entity.Shift `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if envelope.Shifts != nil {
		*l = envelope.Shifts
	} else {
		*l = envelope.Data
	}
	return nil
}

// ListShifts returns the shifts of the week starting at weekStart.
func (c *Client) ListShifts(ctx context.Context, auth *Auth, weekStart time.Time) ([]entity.Shift, error) {
	query := url.Values{}
	query.Set("week", weekStart.Format(domain.DayKeyLayout))

	var list shiftList
	if err := c.authorized(ctx, auth, http.MethodGet, "/schedules/shifts", query, nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		return []entity.Shift{}, nil
	}
	return list, nil
}

type updateStartRequest struct {
	StartTime string `json:"start_time"`
}

// UpdateShiftStart moves a shift to start. The returned record is nil when
// the server answers without a body.
func (c *Client) UpdateShiftStart(ctx context.Context, auth *Auth, shiftID int64, start time.Time) (*entity.Shift, error) {
	path := "/schedules/shifts/" + strconv.FormatInt(shiftID, 10)
	req := updateStartRequest{StartTime: start.UTC().Format(time.RFC3339)}

	var raw json.RawMessage
	if err := c.authorized(ctx, auth, http.MethodPatch, path, nil, req, &raw); err != nil {
		return nil, err
	}
	return decodeShift(raw), nil
}

// decodeShift reads a shift from a bare object or a {"shift"} envelope and
// returns nil when neither holds one.
func decodeShift(raw json.RawMessage) *entity.Shift {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var envelope struct {
		Shift *entity.Shift `json:"shift"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Shift != nil {
		return envelope.Shift
	}
	var shift entity.Shift
	if err := json.Unmarshal(raw, &shift); err != nil || shift.ID == 0 {
		return nil
	}
	return &shift
}

// Schedule binds the shift endpoints to one user's session.
type Schedule struct {
	client *Client
	auth   *Auth
}

// Schedule returns the shift endpoints acting as auth.
func (c *Client) Schedule(auth *Auth) *Schedule {
	return &Schedule{client: c, auth: auth}
}

func (s *Schedule) ListShifts(ctx context.Context, weekStart time.Time) ([]entity.Shift, error) {
	return s.client.ListShifts(ctx, s.auth, weekStart)
}

func (s *Schedule) UpdateShiftStart(ctx context.Context, shiftID int64, start time.Time) (*entity.Shift, error) {
	return s.client.UpdateShiftStart(ctx, s.auth, shiftID, start)
}

var _ contract.ScheduleAPI = (*Schedule)(nil)
