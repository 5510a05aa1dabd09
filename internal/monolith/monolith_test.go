package monolith

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/fd1az/bestprice/internal/config"
	"github.com/fd1az/bestprice/internal/di"
	"github.com/fd1az/bestprice/internal/logger"
)

type recordingModule struct {
	name  string
	calls *[]string
}

func (m recordingModule) RegisterServices(c di.Container) error {
	*m.calls = append(*m.calls, "register:"+m.name)
	return nil
}

func (m recordingModule) Startup(ctx context.Context, mono Monolith) error {
	if mono.AssetRegistry() == nil || ConfigFrom(mono.Services()) != mono.Config() {
		return errors.New("shared services not available")
	}
	*m.calls = append(*m.calls, "start:"+m.name)
	return nil
}

func newApp(t *testing.T) *App {
	t.Helper()
	t.Chdir(t.TempDir())
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	app, err := New(cfg, logger.New(io.Discard, logger.LevelError, "test", nil))
	if err != nil {
		t.Fatalf("new monolith: %v", err)
	}
	return app
}

func TestApp_ModulesInOrder(t *testing.T) {
	app := newApp(t)

	var calls []string
	modules := []Module{
		recordingModule{name: "exchange", calls: &calls},
		recordingModule{name: "quote", calls: &calls},
	}

	if err := app.RegisterModules(modules...); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := app.StartModules(context.Background(), modules...); err != nil {
		t.Fatalf("start: %v", err)
	}

	want := []string{"register:exchange", "register:quote", "start:exchange", "start:quote"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestApp_CloseRunsInReverse(t *testing.T) {
	app := newApp(t)

	var order []int
	app.OnClose(func() error { order = append(order, 1); return nil })
	app.OnClose(func() error { order = append(order, 2); return errors.New("second failed") })

	err := app.Close()
	if err == nil || err.Error() != "second failed" {
		t.Errorf("Close() = %v, want second failed", err)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("order = %v, want [2 1]", order)
	}
}
