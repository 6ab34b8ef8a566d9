// Package lists manages operator-defined lists and their member groups.
package lists

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/pbittencourt/herald/internal/models"
)

var (
	// ErrNameRequired is returned for an empty or blank list name.
	ErrNameRequired = errors.New("lists: name is required")
	// ErrDuplicateName is returned when another list already uses the name,
	// ignoring case.
	ErrDuplicateName = errors.New("lists: a list with that name already exists")
	// ErrListNotFound is returned when the list id does not exist.
	ErrListNotFound = errors.New("lists: list not found")
	// ErrGroupNotFound is returned when the group id does not exist.
	ErrGroupNotFound = errors.New("lists: group not found")
	// ErrRoomIDRequired is returned for an empty external room id.
	ErrRoomIDRequired = errors.New("lists: external room id is required")
)

// All returns every list, name-ordered.
func All(db *gorm.DB) ([]models.List, error) {
	var out []models.List
	if err := db.Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("lists: query all: %w", err)
	}
	return out, nil
}

// Get returns one list by id.
func Get(db *gorm.DB, id uint) (*models.List, error) {
	var list models.List
	err := db.First(&list, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrListNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lists: get %d: %w", id, err)
	}
	return &list, nil
}

// Create inserts a new list after checking the name is present and unique
// ignoring case.
func Create(db *gorm.DB, name string) (*models.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	existing, err := byName(db, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}
	list := models.List{Name: name}
	if err := db.Create(&list).Error; err != nil {
		return nil, fmt.Errorf("lists: create %q: %w", name, err)
	}
	return &list, nil
}

// Rename changes a list's name. Renaming a list to its own current name is
// a no-op success, not a duplicate conflict against itself.
func Rename(db *gorm.DB, id uint, name string) (*models.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	list, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	existing, err := byName(db, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, ErrDuplicateName
	}
	if err := db.Model(list).Update("name", name).Error; err != nil {
		return nil, fmt.Errorf("lists: rename %d: %w", id, err)
	}
	list.Name = name
	return list, nil
}

// Delete removes a list. Member groups go with it via the FK cascade;
// history rows keep their name snapshot with the list id nulled.
func Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.List{}, id)
	if result.Error != nil {
		return fmt.Errorf("lists: delete %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrListNotFound
	}
	return nil
}

// byName finds a list by name ignoring case, or nil if absent.
func byName(db *gorm.DB, name string) (*models.List, error) {
	var list models.List
	err := db.Where("LOWER(name) = LOWER(?)", name).First(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lists: lookup %q: %w", name, err)
	}
	return &list, nil
}

// Groups returns the member groups of a list, name-ordered. The order is
// what broadcast iterates, so it must be stable.
func Groups(db *gorm.DB, listID uint) ([]models.Group, error) {
	if _, err := Get(db, listID); err != nil {
		return nil, err
	}
	var out []models.Group
	if err := db.Where("list_id = ?", listID).Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("lists: query groups of %d: %w", listID, err)
	}
	return out, nil
}

// AddGroup links a room to a list. The insert is unscoped: adding the same
// room to a list twice is allowed and broadcast will send to it twice.
func AddGroup(db *gorm.DB, listID uint, externalRoomID, name string) (*models.Group, error) {
	if strings.TrimSpace(externalRoomID) == "" {
		return nil, ErrRoomIDRequired
	}
	if _, err := Get(db, listID); err != nil {
		return nil, err
	}
	group := models.Group{
		ListID:         listID,
		ExternalRoomID: externalRoomID,
		Name:           name,
	}
	if err := db.Create(&group).Error; err != nil {
		return nil, fmt.Errorf("lists: add group to %d: %w", listID, err)
	}
	return &group, nil
}

// RemoveGroup deletes one group membership, independent of its list.
func RemoveGroup(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Group{}, id)
	if result.Error != nil {
		return fmt.Errorf("lists: remove group %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}
	return nil
}
