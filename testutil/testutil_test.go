package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/kbukum/resultkit/component"
)

type counter struct {
	started, stopped int
}

func (c *counter) Name() string { return "counter" }

func (c *counter) Start(context.Context) error {
	c.started++
	return nil
}

func (c *counter) Stop(context.Context) error {
	c.stopped++
	return nil
}

func (c *counter) Health(context.Context) component.Health {
	return component.Health{Name: "counter", Status: component.StatusHealthy}
}

func TestStartStopsOnCleanup(t *testing.T) {
	c := &counter{}
	t.Run("inner", func(t *testing.T) {
		Start(t, c)
		if c.started != 1 || c.stopped != 0 {
			t.Fatalf("during test: %+v", c)
		}
	})
	if c.stopped != 1 {
		t.Errorf("expected stop after subtest, got %+v", c)
	}
}

type row struct {
	ID   int
	Name string
}

func TestOpenDB(t *testing.T) {
	a := OpenDB(t, &row{})
	b := OpenDB(t, &row{})
	if err := a.GormDB.Create(&row{Name: "x"}).Error; err != nil {
		t.Fatal(err)
	}
	var n int64
	if err := b.GormDB.Model(&row{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("databases must be isolated, found %d rows", n)
	}
}

func TestMemoryDSN(t *testing.T) {
	a, b := MemoryDSN("x"), MemoryDSN("x")
	if a == b || !strings.HasPrefix(a, "file:x_") || !strings.HasSuffix(a, "mode=memory&cache=shared") {
		t.Errorf("MemoryDSN = %q, %q", a, b)
	}
	if FreePort(t) <= 0 {
		t.Error("expected a port")
	}
}
