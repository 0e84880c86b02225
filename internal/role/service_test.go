package role

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jkowalski/ExpenseTracker/internal/apperror"
)

type mockRoleRepository struct {
	roles  map[int64]*Role
	nextID int64
}

func newMockRoleRepository() *mockRoleRepository {
	return &mockRoleRepository{roles: map[int64]*Role{}, nextID: 1}
}

func (m *mockRoleRepository) save(role *Role) error {
	role.ID = m.nextID
	m.nextID++
	copied := *role
	m.roles[role.ID] = &copied
	return nil
}

func (m *mockRoleRepository) findByID(id int64) (*Role, error) {
	role, ok := m.roles[id]
	if !ok {
		return nil, apperror.NewNotFound("role not found for id: %d", id)
	}
	copied := *role
	return &copied, nil
}

func (m *mockRoleRepository) findAll() ([]Role, error) {
	var roles []Role
	for _, role := range m.roles {
		roles = append(roles, *role)
	}
	return roles, nil
}

func (m *mockRoleRepository) existsByName(name string) (bool, error) {
	for _, role := range m.roles {
		if role.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRoleRepository) update(role *Role) error {
	copied := *role
	m.roles[role.ID] = &copied
	return nil
}

func TestCreateRole_Success(t *testing.T) {
	service := NewRoleService(newMockRoleRepository())

	role, err := service.CreateRole("ROLE_ADMIN")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), role.ID)
	assert.Equal(t, "ROLE_ADMIN", role.Name)
}

func TestCreateRole_EmptyName(t *testing.T) {
	service := NewRoleService(newMockRoleRepository())

	_, err := service.CreateRole("")
	assert.True(t, apperror.IsValidation(err))
}

func TestCreateRole_Duplicate(t *testing.T) {
	service := NewRoleService(newMockRoleRepository())

	_, err := service.CreateRole("ROLE_ADMIN")
	assert.NoError(t, err)

	_, err = service.CreateRole("ROLE_ADMIN")
	assert.True(t, apperror.IsConflict(err))
}

func TestUpdateRole(t *testing.T) {
	service := NewRoleService(newMockRoleRepository())

	created, err := service.CreateRole("ROLE_MANAGER")
	assert.NoError(t, err)

	renamed := "ROLE_SUPERVISOR"
	updated, err := service.UpdateRole(created.ID, Patch{Name: &renamed})
	assert.NoError(t, err)
	assert.Equal(t, "ROLE_SUPERVISOR", updated.Name)

	_, err = service.UpdateRole(999, Patch{Name: &renamed})
	assert.True(t, apperror.IsNotFound(err))
}

func TestReadAllRoles_EmptyStore(t *testing.T) {
	service := NewRoleService(newMockRoleRepository())

	roles, err := service.ReadAllRoles()
	assert.NoError(t, err)
	assert.NotNil(t, roles)
	assert.Empty(t, roles)
}
