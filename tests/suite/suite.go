package suite

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"sunami_park/internal/realtime"
	"sunami_park/internal/repository"
	adminservice "sunami_park/internal/services/admin_service"
	editservice "sunami_park/internal/services/edit_service"
	parkservice "sunami_park/internal/services/park_service"
	stateservice "sunami_park/internal/services/state_service"
	filestorage "sunami_park/internal/storage/filestorage"
	"sunami_park/internal/storage/memstore"
)

const (
	testJWTSecret = "functional-test-secret"
	testChecksum  = "39c43b7d" // h("admin123")
)

// Suite собирает полный сервисный граф на in-memory хранилищах:
// сценарии гоняются без postgres и redis.
type Suite struct {
	*testing.T
	Park  *parkservice.ParkService
	State *stateservice.StateService
	Edit  *editservice.EditService
	Admin *adminservice.AdminService
	Feed  *realtime.Broker
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()
	t.Parallel()

	log := slog.Default()

	ctx, cancelCtx := context.WithTimeout(context.Background(), time.Hour)
	t.Cleanup(cancelCtx)

	store := memstore.New()

	files, err := filestorage.NewLocalFileStorage(t.TempDir(), "http://localhost:8080/uploads", 10<<20, 50<<20)
	if err != nil {
		t.Fatalf("file storage: %v", err)
	}

	feed := realtime.NewBroker(log)

	park := parkservice.NewParkService(log, store, store, files, feed)
	if err := park.EnsureSeeded(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	state := stateservice.NewStateService(log, park, feed, false)
	if err := state.Load(ctx); err != nil {
		t.Fatalf("load state: %v", err)
	}

	edit := editservice.NewEditService(log, state)

	admin := adminservice.NewAdminService(log, repository.NewMemoryGateRepo(), adminservice.Credentials{
		Username:         "admin",
		PasswordChecksum: testChecksum,
	}, testJWTSecret, time.Hour)

	return ctx, &Suite{
		T:     t,
		Park:  park,
		State: state,
		Edit:  edit,
		Admin: admin,
		Feed:  feed,
	}
}
