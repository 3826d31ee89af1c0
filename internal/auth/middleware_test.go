package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/commerce-gateway/internal/domain"
	"github.com/spec-kit/commerce-gateway/internal/observability"
	apperrors "github.com/spec-kit/commerce-gateway/pkg/util/errorutil"
)

type fakeCustomers struct {
	records map[string]*domain.Customer
	err     error
	calls   int
}

func (f *fakeCustomers) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.records[id]; ok {
		return c, nil
	}
	return nil, pgx.ErrNoRows
}

type fakeVendors struct {
	records map[string]*domain.Vendor
	err     error
	calls   int
}

func (f *fakeVendors) GetByID(_ context.Context, id string) (*domain.Vendor, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.records[id]; ok {
		return v, nil
	}
	return nil, pgx.ErrNoRows
}

type fakeAdmins struct {
	records map[string]*domain.Admin
	err     error
	calls   int
}

func (f *fakeAdmins) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if a, ok := f.records[id]; ok {
		return a, nil
	}
	return nil, pgx.ErrNoRows
}

type fakeDenylist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeDenylist) Revoke(_ context.Context, tokenID string, _ time.Time) error {
	f.revoked[tokenID] = true
	return nil
}

func (f *fakeDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[tokenID], nil
}

type fixture struct {
	app       *fiber.App
	tokens    *TokenManager
	customers *fakeCustomers
	vendors   *fakeVendors
	admins    *fakeAdmins
	denylist  *fakeDenylist
	metrics   *observability.Metrics
}

type response struct {
	status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Role    string `json:"role"`
	ID      string `json:"id"`
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		tokens: newTestTokens(t),
		customers: &fakeCustomers{records: map[string]*domain.Customer{
			"c1": {ID: "c1", Name: "Ada", Email: "ada@example.com", Active: true},
			"c2": {ID: "c2", Name: "Bob", Email: "bob@example.com", Active: false},
		}},
		vendors: &fakeVendors{records: map[string]*domain.Vendor{
			"v1": {ID: "v1", StoreName: "Acme", Email: "acme@example.com", Status: domain.VendorStatusApproved},
		}},
		admins: &fakeAdmins{records: map[string]*domain.Admin{
			"a1": {ID: "a1", Name: "Root", Email: "root@example.com", Active: true},
			"a2": {ID: "a2", Name: "Gone", Email: "gone@example.com", Active: false},
		}},
		denylist: &fakeDenylist{revoked: map[string]bool{}},
		metrics:  observability.NewMetrics(),
	}

	authn := NewAuthenticator(f.tokens, Dependencies{
		Customers: f.customers,
		Vendors:   f.vendors,
		Admins:    f.admins,
		Denylist:  f.denylist,
		Metrics:   f.metrics,
	})

	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		de := apperrors.ToDomainError(err)
		return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code, "message": de.Message})
	}})
	ok := func(c *fiber.Ctx) error {
		principal, found := PrincipalFromContext(c)
		if !found {
			return errors.New("principal missing")
		}
		fromCtx, found := FromContext(c.UserContext())
		if !found || fromCtx != principal {
			return errors.New("principal not propagated to user context")
		}
		return c.JSON(fiber.Map{"role": principal.Role, "id": principal.SubjectID()})
	}
	app.Get("/customer", authn.RequireCustomer(), IsUser(), ok)
	app.Get("/vendor", authn.RequireVendor(), IsVendor(), ok)
	app.Get("/admin", authn.RequireAdmin(), IsAdmin(), ok)
	app.Get("/any", authn.Authenticate(), ok)
	app.Get("/admin-gate", authn.Authenticate(), IsAdmin(), ok)
	app.Get("/admin-gate-twice", authn.Authenticate(), IsAdmin(), IsAdmin(), ok)
	app.Get("/admin-or-vendor", authn.Authenticate(), IsAdminOrVendor(), ok)
	app.Get("/ungated", IsAdmin(), ok)
	f.app = app
	return f
}

func (f *fixture) token(t *testing.T, id string, role domain.Role) string {
	t.Helper()
	token, _, err := f.tokens.GenerateToken(id, role)
	require.NoError(t, err)
	return token
}

func (f *fixture) get(t *testing.T, path, authorization string) response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	out.status = resp.StatusCode
	return out
}

func (f *fixture) lookups() int {
	return f.customers.calls + f.vendors.calls + f.admins.calls
}

func TestCustomerPipeline(t *testing.T) {
	f := newFixture(t)

	res := f.get(t, "/customer", "Bearer "+f.token(t, "c1", domain.RoleCustomer))
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "c1", res.ID)
	assert.Equal(t, "customer", res.Role)

	expiredIssuer := newTestTokens(t, WithClock(func() time.Time { return time.Now().Add(-3 * time.Hour) }))
	expired, _, err := expiredIssuer.GenerateToken("c1", domain.RoleCustomer)
	require.NoError(t, err)

	cases := []struct {
		name  string
		token string
		code  string
	}{
		{"expired", expired, apperrors.CodeInvalidToken},
		{"inactive", f.token(t, "c2", domain.RoleCustomer), apperrors.CodeAccountInactive},
		{"unknown", f.token(t, "c404", domain.RoleCustomer), apperrors.CodeIdentityNotFound},
		{"vendor token", f.token(t, "v1", domain.RoleVendor), apperrors.CodeRoleMismatch},
		{"admin token", f.token(t, "a1", domain.RoleAdmin), apperrors.CodeRoleMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := f.get(t, "/customer", "Bearer "+tc.token)
			assert.Equal(t, http.StatusUnauthorized, res.status)
			assert.Equal(t, tc.code, res.Code)
			assert.NotEmpty(t, res.Message)
		})
	}
}

func TestVendorStatusMessages(t *testing.T) {
	cases := []struct {
		status  domain.VendorStatus
		code    string
		message string
	}{
		{domain.VendorStatusPending, apperrors.CodePendingApproval, "awaiting admin approval"},
		{domain.VendorStatusRejected, apperrors.CodeApplicationRejected, "application rejected"},
		{domain.VendorStatusSuspended, apperrors.CodeAccountSuspended, "account suspended"},
		{domain.VendorStatus("archived"), apperrors.CodeNotApproved, "not approved"},
	}
	for _, path := range []string{"/vendor", "/any"} {
		for _, tc := range cases {
			t.Run(path+"/"+string(tc.status), func(t *testing.T) {
				f := newFixture(t)
				f.vendors.records["v2"] = &domain.Vendor{ID: "v2", StoreName: "Beta", Status: tc.status}

				res := f.get(t, path, "Bearer "+f.token(t, "v2", domain.RoleVendor))
				assert.Equal(t, http.StatusUnauthorized, res.status)
				assert.Equal(t, tc.code, res.Code)
				assert.Contains(t, res.Message, tc.message)
			})
		}
	}

	t.Run("missing vendor", func(t *testing.T) {
		f := newFixture(t)
		res := f.get(t, "/vendor", "Bearer "+f.token(t, "v404", domain.RoleVendor))
		assert.Equal(t, http.StatusUnauthorized, res.status)
		assert.Equal(t, apperrors.CodeIdentityNotFound, res.Code)
		assert.Contains(t, res.Message, "not approved")
	})
}

func TestVendorApprovalScenario(t *testing.T) {
	f := newFixture(t)
	f.vendors.records["v1"].Status = domain.VendorStatusPending
	token := "Bearer " + f.token(t, "v1", domain.RoleVendor)

	res := f.get(t, "/vendor", token)
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Contains(t, res.Message, "approval")

	f.vendors.records["v1"].Status = domain.VendorStatusApproved
	res = f.get(t, "/vendor", token)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "v1", res.ID)
	assert.Equal(t, "vendor", res.Role)
}

func TestVendorTokenOnAdminPipelineNeverHitsAdminStore(t *testing.T) {
	f := newFixture(t)

	res := f.get(t, "/admin", "Bearer "+f.token(t, "v1", domain.RoleVendor))
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, apperrors.CodeRoleMismatch, res.Code)
	assert.Zero(t, f.admins.calls)
	assert.Zero(t, f.vendors.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AuthFailures().WithLabelValues(apperrors.CodeRoleMismatch)))
}

func TestAdminPipeline(t *testing.T) {
	f := newFixture(t)

	res := f.get(t, "/admin", "Bearer "+f.token(t, "a1", domain.RoleAdmin))
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "a1", res.ID)

	res = f.get(t, "/admin", "Bearer "+f.token(t, "a2", domain.RoleAdmin))
	assert.Equal(t, apperrors.CodeAccountInactive, res.Code)
}

func TestMalformedAuthorizationHeaders(t *testing.T) {
	f := newFixture(t)
	valid := f.token(t, "c1", domain.RoleCustomer)

	for _, header := range []string{"", "Bearer", "Bearer ", "Token " + valid, valid, "Basic dXNlcjpwYXNz", "Bearer a b"} {
		res := f.get(t, "/any", header)
		assert.Equal(t, http.StatusUnauthorized, res.status, header)
		assert.Equal(t, apperrors.CodeMissingOrMalformedToken, res.Code, header)
	}
	assert.Zero(t, f.lookups())

	res := f.get(t, "/any", "bearer "+valid)
	assert.Equal(t, http.StatusOK, res.status)
}

func TestTamperedSignatureNeverResolvesIdentity(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, "a1", domain.RoleAdmin)
	last := token[len(token)-2]
	replacement := byte('x')
	if last == 'x' {
		replacement = 'y'
	}
	tampered := token[:len(token)-2] + string(replacement) + token[len(token)-1:]

	res := f.get(t, "/any", "Bearer "+tampered)
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, apperrors.CodeInvalidToken, res.Code)
	assert.Zero(t, f.lookups())
}

func TestForgedTokensAreInvalid(t *testing.T) {
	f := newFixture(t)

	forged := signRaw(t, jwt.SigningMethodHS256, []byte("some-other-secret-some-other-sec"), jwt.MapClaims{"id": "a1", "role": "admin"})
	res := f.get(t, "/any", "Bearer "+forged)
	assert.Equal(t, apperrors.CodeInvalidToken, res.Code)

	unknownRole := signRaw(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "a1", "role": "root"})
	res = f.get(t, "/any", "Bearer "+unknownRole)
	assert.Equal(t, apperrors.CodeInvalidToken, res.Code)
	assert.Zero(t, f.lookups())
}

func TestLegacyRoleAliasIsAccepted(t *testing.T) {
	f := newFixture(t)
	legacy := signRaw(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "c1", "role": "user"})

	res := f.get(t, "/customer", "Bearer "+legacy)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "customer", res.Role)
}

func TestStoreFailuresAreGeneric(t *testing.T) {
	for _, storeErr := range []error{errors.New("connection refused"), context.DeadlineExceeded, context.Canceled} {
		f := newFixture(t)
		f.customers.err = storeErr

		res := f.get(t, "/customer", "Bearer "+f.token(t, "c1", domain.RoleCustomer))
		assert.Equal(t, http.StatusUnauthorized, res.status)
		assert.Equal(t, apperrors.CodeInvalidToken, res.Code)
		assert.Equal(t, MsgAuthFailed, res.Message)
		assert.NotContains(t, res.Message, storeErr.Error())
	}
}

func TestRevokedTokensAreRejected(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, "c1", domain.RoleCustomer)
	claims, err := f.tokens.ParseToken(token)
	require.NoError(t, err)

	require.NoError(t, f.denylist.Revoke(context.Background(), claims.TokenID(), claims.Expiry()))
	res := f.get(t, "/any", "Bearer "+token)
	assert.Equal(t, apperrors.CodeInvalidToken, res.Code)
	assert.Zero(t, f.lookups())

	f.denylist.err = errors.New("redis down")
	res = f.get(t, "/any", "Bearer "+f.token(t, "c1", domain.RoleCustomer))
	assert.Equal(t, apperrors.CodeInvalidToken, res.Code)
	assert.Equal(t, MsgAuthFailed, res.Message)
}

func TestGates(t *testing.T) {
	f := newFixture(t)
	admin := "Bearer " + f.token(t, "a1", domain.RoleAdmin)
	vendor := "Bearer " + f.token(t, "v1", domain.RoleVendor)
	customer := "Bearer " + f.token(t, "c1", domain.RoleCustomer)

	res := f.get(t, "/ungated", "")
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, apperrors.CodeUnauthenticated, res.Code)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, f.get(t, "/admin-gate", admin).status)
		assert.Equal(t, http.StatusOK, f.get(t, "/admin-gate-twice", admin).status)

		res = f.get(t, "/admin-gate", customer)
		assert.Equal(t, http.StatusForbidden, res.status)
		assert.Equal(t, apperrors.CodeForbidden, res.Code)
	}

	assert.Equal(t, http.StatusOK, f.get(t, "/admin-or-vendor", admin).status)
	assert.Equal(t, http.StatusOK, f.get(t, "/admin-or-vendor", vendor).status)
	assert.Equal(t, http.StatusForbidden, f.get(t, "/admin-or-vendor", customer).status)
}

func TestCheckRolesIsOrderIndependent(t *testing.T) {
	admin := &Principal{Role: domain.RoleAdmin, Admin: &AdminIdentity{ID: "a1"}}
	customer := &Principal{Role: domain.RoleCustomer, Customer: &CustomerIdentity{ID: "c1"}}

	for i := 0; i < 3; i++ {
		assert.NoError(t, CheckRoles(admin, domain.RoleAdmin))
		assert.True(t, apperrors.HasCode(CheckRoles(customer, domain.RoleAdmin), apperrors.CodeForbidden))
		assert.NoError(t, CheckRoles(customer, domain.RoleCustomer))
	}
	assert.True(t, apperrors.HasCode(CheckRoles(nil, domain.RoleAdmin), apperrors.CodeUnauthenticated))
	assert.Equal(t, "a1", admin.SubjectID())
	assert.Equal(t, admin.Admin, admin.Identity())
}
