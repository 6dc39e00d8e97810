package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"notes-service/internal/model"
	"notes-service/internal/store"
	"notes-service/pkg/config"
	"notes-service/pkg/jwtutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAuthStore struct {
	usersByEmail  map[string]*model.User
	tenantsBySlug map[string]*model.Tenant
	createdTenant *model.Tenant
	createdAdmin  *model.User
}

func newFakeAuthStore() *fakeAuthStore {
	return &fakeAuthStore{
		usersByEmail:  map[string]*model.User{},
		tenantsBySlug: map[string]*model.Tenant{},
	}
}

func (f *fakeAuthStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if u, ok := f.usersByEmail[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeAuthStore) FindTenantBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	if t, ok := f.tenantsBySlug[slug]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeAuthStore) CreateTenantWithAdmin(ctx context.Context, tenant *model.Tenant, admin *model.User) error {
	tenant.ID = 1
	admin.ID = 1
	admin.TenantID = tenant.ID
	admin.Role = model.RoleAdmin
	f.createdTenant = tenant
	f.createdAdmin = admin
	f.tenantsBySlug[tenant.Slug] = tenant
	f.usersByEmail[admin.Email] = admin
	return nil
}

func testJWTCodec() *jwtutil.Codec {
	return jwtutil.NewCodec(&config.JWTConfig{
		SigningKey:      "test-signing-key",
		ExpirationHours: 1,
		Issuer:          "notes-service",
	})
}

func TestRegisterCreatesTenantAndAdmin(t *testing.T) {
	s := newFakeAuthStore()
	h := NewAuthHandler(s, testJWTCodec())

	c, rec := jsonContext(http.MethodPost, "/",
		`{"tenant_name":"Acme","tenant_slug":"acme","email":"Admin@Acme.test","password":"secret"}`)

	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, s.createdTenant)
	require.NotNil(t, s.createdAdmin)
	assert.Equal(t, model.PlanFree, s.createdTenant.Plan)
	assert.Equal(t, 3, s.createdTenant.MaxNotes)
	assert.Equal(t, model.RoleAdmin, s.createdAdmin.Role)
	assert.Equal(t, "admin@acme.test", s.createdAdmin.Email)
	assert.NotEqual(t, "secret", s.createdAdmin.Password)
}

func TestRegisterRejectsBadSlug(t *testing.T) {
	h := NewAuthHandler(newFakeAuthStore(), testJWTCodec())

	c, rec := jsonContext(http.MethodPost, "/",
		`{"tenant_name":"Acme","tenant_slug":"Not A Slug","email":"a@b.test","password":"secret"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateSlug(t *testing.T) {
	s := newFakeAuthStore()
	s.tenantsBySlug["acme"] = &model.Tenant{ID: 1, Slug: "acme"}
	h := NewAuthHandler(s, testJWTCodec())

	c, rec := jsonContext(http.MethodPost, "/",
		`{"tenant_name":"Acme","tenant_slug":"acme","email":"a@b.test","password":"secret"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func seedLoginUser(s *fakeAuthStore, active bool) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	s.usersByEmail["user@acme.test"] = &model.User{
		ID:       2,
		Email:    "user@acme.test",
		Password: string(hashed),
		Role:     model.RoleMember,
		TenantID: 1,
		IsActive: active,
		Tenant:   model.Tenant{ID: 1, Slug: "acme", Name: "Acme", Plan: model.PlanFree},
	}
}

func TestLoginIssuesToken(t *testing.T) {
	s := newFakeAuthStore()
	seedLoginUser(s, true)
	codec := testJWTCodec()
	h := NewAuthHandler(s, codec)

	c, rec := jsonContext(http.MethodPost, "/", `{"email":"User@Acme.test","password":"secret"}`)

	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)

	claims, err := codec.Verify(body.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(2), claims.UserID)
	assert.Equal(t, "acme", claims.TenantSlug)
	assert.Equal(t, model.RoleMember, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	s := newFakeAuthStore()
	seedLoginUser(s, true)
	h := NewAuthHandler(s, testJWTCodec())

	c, rec := jsonContext(http.MethodPost, "/", `{"email":"user@acme.test","password":"wrong"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginDeactivatedUser(t *testing.T) {
	s := newFakeAuthStore()
	seedLoginUser(s, false)
	h := NewAuthHandler(s, testJWTCodec())

	c, rec := jsonContext(http.MethodPost, "/", `{"email":"user@acme.test","password":"secret"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	h := NewAuthHandler(newFakeAuthStore(), testJWTCodec())

	c, rec := jsonContext(http.MethodPost, "/", `{"email":"ghost@acme.test","password":"secret"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
