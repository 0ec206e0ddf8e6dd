package user

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/honeyshop-backend/internal/data/repos/testutil"
	"github.com/yungbote/honeyshop-backend/internal/domain/user"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	created, err := repo.Create(dbc, []*user.User{
		{
			Username:  "beekeeper",
			Email:     "userrepo@example.com",
			Password:  "pw",
			FirstName: "A",
			LastName:  "B",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == 0 {
		t.Fatalf("Create: unexpected result: %+v", created)
	}

	gotByIDs, err := repo.GetByIDs(dbc, []uint{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(gotByIDs) != 1 || gotByIDs[0].ID != created[0].ID {
		t.Fatalf("GetByIDs: unexpected result: %+v", gotByIDs)
	}

	byName, err := repo.GetByUsername(dbc, " beekeeper ")
	if err != nil || byName.ID != created[0].ID {
		t.Fatalf("GetByUsername: err=%v got=%+v", err, byName)
	}

	exists, err := repo.EmailExists(dbc, "USERREPO@example.com")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Fatalf("EmailExists: expected true")
	}

	exists, err = repo.UsernameExists(dbc, "nobody")
	if err != nil {
		t.Fatalf("UsernameExists (missing): %v", err)
	}
	if exists {
		t.Fatalf("UsernameExists (missing): expected false")
	}

	names, err := repo.UsernamesByIDs(dbc, []uint{created[0].ID, 9999})
	if err != nil {
		t.Fatalf("UsernamesByIDs: %v", err)
	}
	if len(names) != 1 || names[created[0].ID] != "beekeeper" {
		t.Fatalf("UsernamesByIDs: got=%v", names)
	}

	if err := repo.UpdateProfile(dbc, created[0].ID, map[string]interface{}{"phone": "05551234567"}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	got, err := repo.GetByID(dbc, created[0].ID)
	if err != nil || got.Phone != "05551234567" {
		t.Fatalf("GetByID after update: err=%v got=%+v", err, got)
	}

	if err := repo.UpdatePassword(dbc, 9999, "x"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("UpdatePassword (missing): want ErrRecordNotFound got=%v", err)
	}

	locked, err := repo.LockByID(dbc, created[0].ID)
	if err != nil || locked.ID != created[0].ID {
		t.Fatalf("LockByID: err=%v got=%+v", err, locked)
	}
}
