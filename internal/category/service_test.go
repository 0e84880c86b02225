package category

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jkowalski/ExpenseTracker/internal/apperror"
	"github.com/jkowalski/ExpenseTracker/internal/auth"
)

type mockCategoryRepository struct {
	categories map[int64]*Category
	nextID     int64
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: map[int64]*Category{}, nextID: 1}
}

func (m *mockCategoryRepository) owned(userID string) []Category {
	var owned []Category
	for id := int64(1); id < m.nextID; id++ {
		if category, ok := m.categories[id]; ok && category.UserID == userID {
			owned = append(owned, *category)
		}
	}
	return owned
}

func (m *mockCategoryRepository) findPageByUserID(userID string, limit, offset int) ([]Category, bool, error) {
	owned := m.owned(userID)
	if offset >= len(owned) {
		return nil, false, nil
	}
	end := offset + limit
	hasNext := end < len(owned)
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], hasNext, nil
}

func (m *mockCategoryRepository) findByUserIDAndID(userID string, id int64) (*Category, error) {
	category, ok := m.categories[id]
	if !ok || category.UserID != userID {
		return nil, apperror.NewNotFound("category is not found")
	}
	copied := *category
	return &copied, nil
}

func (m *mockCategoryRepository) findByNameAndUserID(name, userID string) (*Category, error) {
	for _, category := range m.categories {
		if category.UserID == userID && category.Name == name {
			copied := *category
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("category is not found")
}

func (m *mockCategoryRepository) existsByNameAndUserID(name, userID string) (bool, error) {
	_, err := m.findByNameAndUserID(name, userID)
	return err == nil, nil
}

func (m *mockCategoryRepository) save(category *Category) error {
	category.ID = m.nextID
	m.nextID++
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepository) update(category *Category) error {
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepository) delete(userID string, id int64) error {
	return m.deleteAll(userID, []int64{id})
}

func (m *mockCategoryRepository) deleteAll(userID string, ids []int64) error {
	for _, id := range ids {
		if category, ok := m.categories[id]; ok && category.UserID == userID {
			delete(m.categories, id)
		}
	}
	return nil
}

var owner = auth.Principal{UserID: "user-1", Email: "john@example.com", Authorities: []string{"ROLE_USER"}}
var stranger = auth.Principal{UserID: "user-2", Email: "jane@example.com", Authorities: []string{"ROLE_USER"}}

func TestSaveCategory_Success(t *testing.T) {
	service := NewCategoryService(newMockCategoryRepository())

	category, err := service.SaveCategory(owner, "Groceries", "weekly shopping")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), category.ID)
	assert.Equal(t, "Groceries", category.Name)
	assert.Equal(t, owner.UserID, category.UserID)
}

func TestSaveCategory_Validation(t *testing.T) {
	service := NewCategoryService(newMockCategoryRepository())

	_, err := service.SaveCategory(owner, "ab", "")
	assert.True(t, apperror.IsValidation(err))
}

func TestSaveCategory_DuplicateNameForOwner(t *testing.T) {
	service := NewCategoryService(newMockCategoryRepository())

	_, err := service.SaveCategory(owner, "Groceries", "")
	assert.NoError(t, err)

	_, err = service.SaveCategory(owner, "Groceries", "")
	assert.True(t, apperror.IsConflict(err))

	// same name under a different owner is fine
	_, err = service.SaveCategory(stranger, "Groceries", "")
	assert.NoError(t, err)
}

func TestUpdateCategory_RenameToExistingName(t *testing.T) {
	service := NewCategoryService(newMockCategoryRepository())

	_, err := service.SaveCategory(owner, "Groceries", "")
	assert.NoError(t, err)
	second, err := service.SaveCategory(owner, "Travel", "")
	assert.NoError(t, err)

	groceries := "Groceries"
	_, err = service.UpdateCategory(owner, second.ID, Patch{Name: &groceries})
	assert.True(t, apperror.IsConflict(err))
}

func TestUpdateCategory_PatchSemantics(t *testing.T) {
	service := NewCategoryService(newMockCategoryRepository())

	created, err := service.SaveCategory(owner, "Groceries", "weekly shopping")
	assert.NoError(t, err)

	description := "daily shopping"
	updated, err := service.UpdateCategory(owner, created.ID, Patch{Description: &description})
	assert.NoError(t, err)
	assert.Equal(t, "Groceries", updated.Name)
	assert.Equal(t, "daily shopping", updated.Description)
}

func TestDeleteCategoryByID_OwnershipScoped(t *testing.T) {
	service := NewCategoryService(newMockCategoryRepository())

	created, err := service.SaveCategory(owner, "Groceries", "")
	assert.NoError(t, err)

	// somebody else's row reads as absent
	err = service.DeleteCategoryByID(stranger, created.ID)
	assert.True(t, apperror.IsNotFound(err))

	assert.NoError(t, service.DeleteCategoryByID(owner, created.ID))
}

func TestDeleteAllCategoriesForUser_RemovesEveryPage(t *testing.T) {
	repo := newMockCategoryRepository()
	service := NewCategoryService(repo)

	// more rows than one bulk delete page
	for i := 0; i < bulkDeletePageSize*2+3; i++ {
		_, err := service.SaveCategory(owner, fmt.Sprintf("Category %02d", i), "")
		assert.NoError(t, err)
	}
	kept, err := service.SaveCategory(stranger, "Groceries", "")
	assert.NoError(t, err)

	assert.NoError(t, service.DeleteAllCategoriesForUser(owner))
	assert.Empty(t, repo.owned(owner.UserID))

	// the other owner's row survives
	_, err = service.GetCategoryByName(stranger, kept.Name)
	assert.NoError(t, err)
}

func TestDeleteAllCategoriesForUser_NothingToDelete(t *testing.T) {
	service := NewCategoryService(newMockCategoryRepository())

	err := service.DeleteAllCategoriesForUser(owner)
	assert.True(t, apperror.IsNotFound(err))
}

func TestResolveCategory_CreatesOnceThenReuses(t *testing.T) {
	repo := newMockCategoryRepository()
	service := NewCategoryService(repo)

	first, err := service.ResolveCategory(owner, "Groceries", "weekly shopping")
	assert.NoError(t, err)

	second, err := service.ResolveCategory(owner, "Groceries", "something else")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	// the existing category keeps its original description
	assert.Equal(t, "weekly shopping", second.Description)
	assert.Len(t, repo.owned(owner.UserID), 1)
}
