package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/application"
	"github.com/AuthsManager/AuthManager-Src-sub000/internal/domain"
)

func TestCreateAppTierLimit(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	owner := f.seedOwner("hugo", "hugo@example.com", domain.PlanStarter)
	cap := f.capability(owner, false)

	first, err := f.service.CreateApp(ctx, cap, application.CreateAppRequest{Name: "first"})
	if err != nil {
		t.Fatalf("create app failed: %v", err)
	}
	if first.Secret == "" || first.Version != "1.0" || !first.Active {
		t.Fatalf("unexpected new app defaults: %+v", first)
	}

	if _, err := f.service.CreateApp(ctx, cap, application.CreateAppRequest{Name: "second"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("tier 0 must be limited to one app, got %v", err)
	}

	// A raised tier lifts the limit.
	raised := owner
	raised.SubTier = 1
	f.owners.byID[owner.ID] = raised
	if _, err := f.service.CreateApp(ctx, f.capability(raised, false), application.CreateAppRequest{Name: "second"}); err != nil {
		t.Fatalf("tier 1 create failed: %v", err)
	}
}

func TestRenameApp(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	owner := f.seedOwner("iris", "iris@example.com", domain.PlanStarter)
	cap := f.capability(owner, false)
	app := f.seedApp(owner.ID, "old-name")
	f.seedApp(owner.ID, "taken")

	if _, err := f.service.RenameApp(ctx, cap, app.ID, "old-name"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("rename to same name must fail, got %v", err)
	}
	if _, err := f.service.RenameApp(ctx, cap, app.ID, "taken"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("rename to occupied name must conflict, got %v", err)
	}
	if _, err := f.service.RenameApp(ctx, cap, app.ID, "bad name!"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("invalid name must be rejected, got %v", err)
	}

	item, err := f.service.RenameApp(ctx, cap, app.ID, "new-name")
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if item.Name != "new-name" {
		t.Fatalf("expected new name, got %s", item.Name)
	}
}

func TestUpdateApp(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	owner := f.seedOwner("jack", "jack@example.com", domain.PlanStarter)
	cap := f.capability(owner, false)
	app := f.seedApp(owner.ID, "game")

	if err := f.service.UpdateApp(ctx, cap, app.ID, application.UpdateAppRequest{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("empty update must fail, got %v", err)
	}

	version := "2.1"
	active := false
	if err := f.service.UpdateApp(ctx, cap, app.ID, application.UpdateAppRequest{Version: &version, Active: &active}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, _ := f.apps.GetByID(ctx, app.ID)
	if got.Version != "2.1" || got.Active {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestDeleteAppCascades(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	owner := f.seedOwner("kira", "kira@example.com", domain.PlanStarter)
	cap := f.capability(owner, false)
	app := f.seedApp(owner.ID, "doomed")
	keepApp := f.seedApp(owner.ID, "kept")

	f.seedLicense(owner.ID, app.ID, "lic-1", time.Now().UTC(), time.Now().UTC().Add(time.Hour))
	f.seedLicense(owner.ID, app.ID, "lic-2", time.Now().UTC(), time.Now().UTC().Add(time.Hour))
	kept := f.seedLicense(owner.ID, keepApp.ID, "lic-kept", time.Now().UTC(), time.Now().UTC().Add(time.Hour))

	if err := f.service.RegisterByLicense(ctx, application.RegisterByLicenseRequest{
		OwnerID: owner.ID, License: "lic-1", Username: "player1", Password: "pw", HWID: "HW",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := f.service.DeleteApp(ctx, cap, app.ID); err != nil {
		t.Fatalf("delete app failed: %v", err)
	}

	if _, err := f.apps.GetByID(ctx, app.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected app gone, got %v", err)
	}
	licenses, _ := f.licenses.ListByOwner(ctx, owner.ID)
	if len(licenses) != 1 || licenses[0].ID != kept.ID {
		t.Fatalf("expected only the other app's license to survive, got %d", len(licenses))
	}
	users, _ := f.subusers.ListByOwner(ctx, owner.ID)
	if len(users) != 0 {
		t.Fatalf("expected cascaded sub-user deletion, got %d", len(users))
	}
}

func TestDeleteAppForeignOwner(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	owner := f.seedOwner("lena", "lena@example.com", domain.PlanStarter)
	app := f.seedApp(owner.ID, "game")
	other := f.seedOwner("marc", "marc@example.com", domain.PlanStarter)

	if err := f.service.DeleteApp(ctx, f.capability(other, false), app.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
