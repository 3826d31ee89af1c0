// Package repotest provides in-memory repositories for tests of the layers
// above internal/repository. They follow the Postgres implementations'
// contract: lookups miss with pgx.ErrNoRows, emails are stored as given and
// a second account with the same email (ignoring case) is a conflict.
package repotest

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/commerce-gateway/internal/domain"
	"github.com/spec-kit/commerce-gateway/internal/repository"
	apperrors "github.com/spec-kit/commerce-gateway/pkg/util/errorutil"
)

func errDuplicateEmail() error {
	return apperrors.NewConflict("email already registered", nil)
}

// Customers is an in-memory repository.CustomerRepository.
type Customers struct {
	mu      sync.Mutex
	records map[string]*domain.Customer
	seq     int
}

// NewCustomers returns an empty store. Generated ids are c1, c2, ...
func NewCustomers() *Customers {
	return &Customers{records: map[string]*domain.Customer{}}
}

func (m *Customers) Create(_ context.Context, c *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.records {
		if strings.EqualFold(existing.Email, c.Email) {
			return errDuplicateEmail()
		}
	}
	m.seq++
	if c.ID == "" {
		c.ID = "c" + strconv.Itoa(m.seq)
	}
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	copied := *c
	m.records[c.ID] = &copied
	return nil
}

func (m *Customers) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.records[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *Customers) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.records {
		if c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *Customers) SetActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.records[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.Active = active
	return nil
}

// Vendors is an in-memory repository.VendorRepository.
type Vendors struct {
	mu      sync.Mutex
	records map[string]*domain.Vendor
	seq     int
}

// NewVendors returns an empty store. Generated ids are v1, v2, ...
func NewVendors() *Vendors {
	return &Vendors{records: map[string]*domain.Vendor{}}
}

func (m *Vendors) Create(_ context.Context, v *domain.Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.records {
		if strings.EqualFold(existing.Email, v.Email) {
			return errDuplicateEmail()
		}
	}
	m.seq++
	if v.ID == "" {
		v.ID = "v" + strconv.Itoa(m.seq)
	}
	v.CreatedAt, v.UpdatedAt = time.Now(), time.Now()
	copied := *v
	m.records[v.ID] = &copied
	return nil
}

func (m *Vendors) GetByID(_ context.Context, id string) (*domain.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.records[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *Vendors) GetByEmail(_ context.Context, email string) (*domain.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.records {
		if v.Email == email {
			copied := *v
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *Vendors) UpdateStatus(_ context.Context, id string, status domain.VendorStatus, reason *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.records[id]
	if !ok {
		return pgx.ErrNoRows
	}
	v.Status = status
	v.StatusReason = reason
	v.UpdatedAt = time.Now()
	return nil
}

// List returns matching vendors ordered by id.
func (m *Vendors) List(_ context.Context, filter repository.VendorFilter) ([]domain.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Vendor, 0, len(m.records))
	for _, v := range m.records {
		if filter.Status == nil || v.Status == *filter.Status {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []domain.Vendor{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Admins is an in-memory repository.AdminRepository.
type Admins struct {
	mu      sync.Mutex
	records map[string]*domain.Admin
	seq     int
}

// NewAdmins returns an empty store. Generated ids are a1, a2, ...
func NewAdmins() *Admins {
	return &Admins{records: map[string]*domain.Admin{}}
}

func (m *Admins) Create(_ context.Context, a *domain.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.records {
		if strings.EqualFold(existing.Email, a.Email) {
			return errDuplicateEmail()
		}
	}
	m.seq++
	if a.ID == "" {
		a.ID = "a" + strconv.Itoa(m.seq)
	}
	a.CreatedAt, a.UpdatedAt = time.Now(), time.Now()
	copied := *a
	m.records[a.ID] = &copied
	return nil
}

func (m *Admins) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.records[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *Admins) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.records {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *Admins) SetActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.records[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Active = active
	return nil
}

// Denylist is an in-memory auth.Denylist that ignores expiry.
type Denylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewDenylist() *Denylist {
	return &Denylist{revoked: map[string]time.Time{}}
}

func (d *Denylist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[tokenID] = expiresAt
	return nil
}

func (d *Denylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[tokenID]
	return ok, nil
}

var (
	_ repository.CustomerRepository = (*Customers)(nil)
	_ repository.VendorRepository   = (*Vendors)(nil)
	_ repository.AdminRepository    = (*Admins)(nil)
)
