package service

import (
	"testing"

	"github.com/marlanuera/CA1-Code/internal/events"
	"github.com/marlanuera/CA1-Code/internal/repo"
	"github.com/marlanuera/CA1-Code/internal/testutil"
)

type testEnv struct {
	Repo   *repo.GormRepo
	Events *events.MemoryPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		Repo:   repo.New(testutil.InitTestDB(t)),
		Events: &events.MemoryPublisher{},
	}
}
