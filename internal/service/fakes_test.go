package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
	"github.com/H0M10/NovaGuardianBackend/internal/repository"
)

// fakeDevicesRepo in-memory DevicesRepository for service tests.
type fakeDevicesRepo struct {
	devices map[string]*domain.Device
	err     error
}

func newFakeDevicesRepo() *fakeDevicesRepo {
	return &fakeDevicesRepo{devices: make(map[string]*domain.Device)}
}

var _ repository.DevicesRepository = (*fakeDevicesRepo)(nil)

func (f *fakeDevicesRepo) ListDevices(ctx context.Context, status string) ([]*domain.Device, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Device
	for _, d := range f.devices {
		if status == "" || d.Status == status {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeDevicesRepo) GetDevice(ctx context.Context, id string) (*domain.Device, error) {
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.devices[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDevicesRepo) DeviceExists(ctx context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.devices[id]
	return ok, nil
}

func (f *fakeDevicesRepo) CreateDevice(ctx context.Context, p repository.DeviceParams) error {
	if f.err != nil {
		return f.err
	}
	d := &domain.Device{ID: p.ID, Status: p.Status, Battery: p.Battery}
	if p.UserID != nil {
		d.UserID = sql.NullInt64{Int64: *p.UserID, Valid: true}
	}
	f.devices[p.ID] = d
	return nil
}

func (f *fakeDevicesRepo) UpdateDevice(ctx context.Context, id string, p repository.DeviceParams) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	d, ok := f.devices[id]
	if !ok {
		return false, nil
	}
	d.Status = p.Status
	d.Battery = p.Battery
	d.UserID = sql.NullInt64{}
	if p.UserID != nil {
		d.UserID = sql.NullInt64{Int64: *p.UserID, Valid: true}
	}
	d.LastSeen = sql.NullTime{}
	if p.LastSeen != nil {
		d.LastSeen = sql.NullTime{Time: *p.LastSeen, Valid: true}
	}
	return true, nil
}

func (f *fakeDevicesRepo) ReassignDevice(ctx context.Context, id string, userID *int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	d, ok := f.devices[id]
	if !ok {
		return false, nil
	}
	d.UserID = sql.NullInt64{}
	if userID != nil {
		d.UserID = sql.NullInt64{Int64: *userID, Valid: true}
	}
	return true, nil
}

func (f *fakeDevicesRepo) DeactivateDevice(ctx context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	d, ok := f.devices[id]
	if !ok {
		return false, nil
	}
	d.Status = domain.DeviceStatusInactive
	d.UserID = sql.NullInt64{}
	return true, nil
}

func (f *fakeDevicesRepo) DeleteDevice(ctx context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.devices[id]; !ok {
		return false, nil
	}
	delete(f.devices, id)
	return true, nil
}

func (f *fakeDevicesRepo) ListLowBattery(ctx context.Context, threshold int) ([]*domain.Device, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Device
	for _, d := range f.devices {
		if d.Status == domain.DeviceStatusActive && d.Battery <= threshold {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Battery < out[j].Battery })
	return out, nil
}

func (f *fakeDevicesRepo) CountActiveDevices(ctx context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, d := range f.devices {
		if d.Status == domain.DeviceStatusActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeDevicesRepo) CountDevicesByStatus(ctx context.Context) (map[string]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]int{
		domain.DeviceStatusActive:      0,
		domain.DeviceStatusInactive:    0,
		domain.DeviceStatusMaintenance: 0,
	}
	for _, d := range f.devices {
		out[d.Status]++
	}
	return out, nil
}

// fakeUsersRepo in-memory UsersRepository.
type fakeUsersRepo struct {
	users  map[int64]*domain.User
	nextID int64
	err    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: make(map[int64]*domain.User), nextID: 1}
}

var _ repository.UsersRepository = (*fakeUsersRepo)(nil)

func (f *fakeUsersRepo) addUser(name string) *domain.User {
	u := &domain.User{ID: f.nextID, FullName: name, Status: "active"}
	f.users[u.ID] = u
	f.nextID++
	return u
}

func (f *fakeUsersRepo) ListUsers(ctx context.Context, search string, limit, offset int) ([]*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.User
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsersRepo) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) CreateUser(ctx context.Context, p repository.UserParams) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	u := f.addUser(p.FullName)
	u.Status = p.Status
	return u.ID, nil
}

func (f *fakeUsersRepo) UpdateUser(ctx context.Context, id int64, p repository.UserParams) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return false, nil
	}
	u.FullName = p.FullName
	u.Status = p.Status
	return true, nil
}

func (f *fakeUsersRepo) DeleteUser(ctx context.Context, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.users[id]; !ok {
		return false, nil
	}
	delete(f.users, id)
	return true, nil
}

func (f *fakeUsersRepo) CountActiveUsers(ctx context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, u := range f.users {
		if u.Status == "active" {
			n++
		}
	}
	return n, nil
}

// fakeEventsRepo in-memory EventsRepository.
type fakeEventsRepo struct {
	events  map[int64]*domain.Event
	nextID  int64
	lastFil repository.EventFilters
	err     error
}

func newFakeEventsRepo() *fakeEventsRepo {
	return &fakeEventsRepo{events: make(map[int64]*domain.Event), nextID: 1}
}

var _ repository.EventsRepository = (*fakeEventsRepo)(nil)

func (f *fakeEventsRepo) CreateEvent(ctx context.Context, p repository.EventParams) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	e := &domain.Event{
		ID:        f.nextID,
		UserID:    p.UserID,
		Type:      p.Type,
		Status:    p.Status,
		CreatedAt: time.Now(),
	}
	if p.DeviceID != nil {
		e.DeviceID = sql.NullString{String: *p.DeviceID, Valid: true}
	}
	if p.Description != nil {
		e.Description = sql.NullString{String: *p.Description, Valid: true}
	}
	f.events[e.ID] = e
	f.nextID++
	return e.ID, nil
}

func (f *fakeEventsRepo) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventsRepo) ListEvents(ctx context.Context, filters repository.EventFilters, limit, offset int) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastFil = filters
	var out []*domain.Event
	for _, e := range f.events {
		if filters.UserID != nil && e.UserID != *filters.UserID {
			continue
		}
		if filters.Status != nil && e.Status != *filters.Status {
			continue
		}
		if filters.Type != nil && e.Type != *filters.Type {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEventsRepo) UpdateEventStatus(ctx context.Context, id int64, status string, attendedBy *int64, attendedAt *time.Time) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	e, ok := f.events[id]
	if !ok {
		return false, nil
	}
	e.Status = status
	e.AttendedBy = sql.NullInt64{}
	e.AttendedAt = sql.NullTime{}
	if attendedBy != nil {
		e.AttendedBy = sql.NullInt64{Int64: *attendedBy, Valid: true}
	}
	if attendedAt != nil {
		e.AttendedAt = sql.NullTime{Time: *attendedAt, Valid: true}
	}
	return true, nil
}

func (f *fakeEventsRepo) DeleteEvent(ctx context.Context, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.events[id]; !ok {
		return false, nil
	}
	delete(f.events, id)
	return true, nil
}

func (f *fakeEventsRepo) CountPendingEvents(ctx context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, e := range f.events {
		if e.Status == domain.EventStatusPending {
			n++
		}
	}
	return n, nil
}

func (f *fakeEventsRepo) CountEventsToday(ctx context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.events), nil
}

func (f *fakeEventsRepo) CountEventsByType(ctx context.Context, days int) ([]repository.TypeCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	counts := make(map[string]int)
	for _, e := range f.events {
		counts[e.Type]++
	}
	var out []repository.TypeCount
	for t, n := range counts {
		out = append(out, repository.TypeCount{Type: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

func (f *fakeEventsRepo) CountEventsByDay(ctx context.Context, days int) ([]repository.DayCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []repository.DayCount{}, nil
}

// fakeAdminsRepo in-memory AdminsRepository.
type fakeAdminsRepo struct {
	admins      map[string]*domain.Admin
	sessionHits int64
	err         error
}

func newFakeAdminsRepo() *fakeAdminsRepo {
	return &fakeAdminsRepo{admins: make(map[string]*domain.Admin)}
}

var _ repository.AdminsRepository = (*fakeAdminsRepo)(nil)

func (f *fakeAdminsRepo) GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.admins[email]
	if !ok || !a.Active {
		return nil, sql.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAdminsRepo) GetAdmin(ctx context.Context, id int64) (*domain.Admin, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.admins {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAdminsRepo) UpdateLastSession(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.sessionHits++
	return nil
}
