package lists

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pbittencourt/herald/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := gdb.AutoMigrate(&models.List{}, &models.Group{}, &models.MessageLog{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

func TestCreate(t *testing.T) {
	db := openTestDB(t)

	list, err := Create(db, "Clients")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if list.ID == 0 {
		t.Error("expected list ID to be set")
	}
	if list.Name != "Clients" {
		t.Errorf("Name = %q, want %q", list.Name, "Clients")
	}
}

func TestCreate_EmptyName(t *testing.T) {
	db := openTestDB(t)

	for _, name := range []string{"", "   "} {
		if _, err := Create(db, name); !errors.Is(err, ErrNameRequired) {
			t.Errorf("Create(%q) error = %v, want ErrNameRequired", name, err)
		}
	}
}

func TestCreate_DuplicateIgnoresCase(t *testing.T) {
	db := openTestDB(t)

	if _, err := Create(db, "Clients"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := Create(db, "CLIENTS"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Create duplicate error = %v, want ErrDuplicateName", err)
	}
	if _, err := Create(db, "clients"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Create duplicate error = %v, want ErrDuplicateName", err)
	}
}

func TestAll_NameOrdered(t *testing.T) {
	db := openTestDB(t)

	for _, name := range []string{"Zulu", "Alpha", "Mike"} {
		if _, err := Create(db, name); err != nil {
			t.Fatalf("Create(%q): %v", name, err)
		}
	}
	all, err := All(db)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	want := []string{"Alpha", "Mike", "Zulu"}
	if len(all) != len(want) {
		t.Fatalf("len(All()) = %d, want %d", len(all), len(want))
	}
	for i, name := range want {
		if all[i].Name != name {
			t.Errorf("All()[%d].Name = %q, want %q", i, all[i].Name, name)
		}
	}
}

func TestRename(t *testing.T) {
	db := openTestDB(t)

	list, _ := Create(db, "Old")
	renamed, err := Rename(db, list.ID, "New")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if renamed.Name != "New" {
		t.Errorf("Name = %q, want %q", renamed.Name, "New")
	}
}

func TestRename_SelfIsNoOp(t *testing.T) {
	db := openTestDB(t)

	list, _ := Create(db, "Clients")
	if _, err := Rename(db, list.ID, "Clients"); err != nil {
		t.Errorf("Rename to own name: %v, want no-op success", err)
	}
	// Same but only differing in case: still the same list, still allowed.
	if _, err := Rename(db, list.ID, "CLIENTS"); err != nil {
		t.Errorf("Rename to own name (case change): %v, want success", err)
	}
}

func TestRename_DuplicateOtherList(t *testing.T) {
	db := openTestDB(t)

	Create(db, "First")
	second, _ := Create(db, "Second")
	if _, err := Rename(db, second.ID, "first"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Rename error = %v, want ErrDuplicateName", err)
	}
}

func TestRename_MissingList(t *testing.T) {
	db := openTestDB(t)

	if _, err := Rename(db, 999, "Anything"); !errors.Is(err, ErrListNotFound) {
		t.Errorf("Rename error = %v, want ErrListNotFound", err)
	}
}

func TestDelete_CascadesGroups(t *testing.T) {
	db := openTestDB(t)

	list, _ := Create(db, "Clients")
	other, _ := Create(db, "Others")
	if _, err := AddGroup(db, list.ID, "room-1@g.us", "Room One"); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	AddGroup(db, list.ID, "room-2@g.us", "Room Two")
	AddGroup(db, other.ID, "room-3@g.us", "Room Three")

	if err := Delete(db, list.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var count int64
	db.Model(&models.Group{}).Count(&count)
	if count != 1 {
		t.Errorf("groups remaining = %d, want 1 (cascade should remove the list's two)", count)
	}
	if _, err := Get(db, list.ID); !errors.Is(err, ErrListNotFound) {
		t.Errorf("Get after delete error = %v, want ErrListNotFound", err)
	}
}

func TestDelete_Missing(t *testing.T) {
	db := openTestDB(t)

	if err := Delete(db, 42); !errors.Is(err, ErrListNotFound) {
		t.Errorf("Delete error = %v, want ErrListNotFound", err)
	}
}

func TestGroups_NameOrdered(t *testing.T) {
	db := openTestDB(t)

	list, _ := Create(db, "Clients")
	AddGroup(db, list.ID, "c@g.us", "Charlie")
	AddGroup(db, list.ID, "a@g.us", "Alpha")
	AddGroup(db, list.ID, "b@g.us", "Bravo")

	groups, err := Groups(db, list.ID)
	if err != nil {
		t.Fatalf("Groups: %v", err)
	}
	want := []string{"Alpha", "Bravo", "Charlie"}
	if len(groups) != len(want) {
		t.Fatalf("len(Groups()) = %d, want %d", len(groups), len(want))
	}
	for i, name := range want {
		if groups[i].Name != name {
			t.Errorf("Groups()[%d].Name = %q, want %q", i, groups[i].Name, name)
		}
	}
}

func TestGroups_MissingList(t *testing.T) {
	db := openTestDB(t)

	if _, err := Groups(db, 7); !errors.Is(err, ErrListNotFound) {
		t.Errorf("Groups error = %v, want ErrListNotFound", err)
	}
}

func TestAddGroup_MissingList(t *testing.T) {
	db := openTestDB(t)

	if _, err := AddGroup(db, 7, "room@g.us", "Room"); !errors.Is(err, ErrListNotFound) {
		t.Errorf("AddGroup error = %v, want ErrListNotFound", err)
	}
}

func TestAddGroup_EmptyRoomID(t *testing.T) {
	db := openTestDB(t)

	list, _ := Create(db, "Clients")
	if _, err := AddGroup(db, list.ID, "  ", "Room"); !errors.Is(err, ErrRoomIDRequired) {
		t.Errorf("AddGroup error = %v, want ErrRoomIDRequired", err)
	}
}

func TestAddGroup_DuplicateRoomAllowed(t *testing.T) {
	db := openTestDB(t)

	list, _ := Create(db, "Clients")
	if _, err := AddGroup(db, list.ID, "room@g.us", "Room"); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	if _, err := AddGroup(db, list.ID, "room@g.us", "Room"); err != nil {
		t.Errorf("second AddGroup of same room: %v, want allowed", err)
	}
	groups, _ := Groups(db, list.ID)
	if len(groups) != 2 {
		t.Errorf("len(Groups()) = %d, want 2", len(groups))
	}
}

func TestAddGroup_EmptyNameAllowed(t *testing.T) {
	db := openTestDB(t)

	list, _ := Create(db, "Clients")
	group, err := AddGroup(db, list.ID, "room@g.us", "")
	if err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	if group.Name != "" {
		t.Errorf("Name = %q, want empty", group.Name)
	}
}

func TestRemoveGroup(t *testing.T) {
	db := openTestDB(t)

	list, _ := Create(db, "Clients")
	group, _ := AddGroup(db, list.ID, "room@g.us", "Room")

	if err := RemoveGroup(db, group.ID); err != nil {
		t.Fatalf("RemoveGroup: %v", err)
	}
	if err := RemoveGroup(db, group.ID); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("second RemoveGroup error = %v, want ErrGroupNotFound", err)
	}
}
