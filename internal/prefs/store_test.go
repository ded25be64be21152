package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/SimoKiihamaki/dashtabs/internal/tabs"
)

var _ tabs.Store = (*FileStore)(nil)

func TestOpenMissingFileIsEmpty(t *testing.T) {
	is := is.New(t)
	s := Open(filepath.Join(t.TempDir(), "state.yaml"), nil)
	_, ok := s.Get("activeTab")
	is.True(!ok)
}

func TestSetSurvivesReopen(t *testing.T) {
	is := is.New(t)
	p := filepath.Join(t.TempDir(), "nested", "state.yaml")

	s := Open(p, nil)
	is.NoErr(s.Set("activeTab", "compare"))

	reopened := Open(p, nil)
	v, ok := reopened.Get("activeTab")
	is.True(ok)
	is.Equal(v, "compare")

	info, err := os.Stat(p)
	is.NoErr(err)
	is.Equal(info.Mode().Perm(), os.FileMode(0o600))
	_, err = os.Stat(p + ".tmp")
	is.True(os.IsNotExist(err))
}

func TestSetOverwritesOtherSessionsValue(t *testing.T) {
	is := is.New(t)
	p := filepath.Join(t.TempDir(), "state.yaml")
	a := Open(p, nil)
	b := Open(p, nil)

	is.NoErr(a.Set("activeTab", "compare"))
	is.NoErr(b.Set("activeTab", "metrics"))
	is.NoErr(a.Set("activeTab", "compare")) // a's cache still says compare

	v, ok := Open(p, nil).Get("activeTab")
	is.True(ok)
	is.Equal(v, "compare")
}

func TestSetKeepsKeysWrittenElsewhere(t *testing.T) {
	is := is.New(t)
	p := filepath.Join(t.TempDir(), "state.yaml")
	a := Open(p, nil)
	b := Open(p, nil)

	is.NoErr(b.Set("theme", "dark"))
	is.NoErr(a.Set("activeTab", "summary"))

	reopened := Open(p, nil)
	v, _ := reopened.Get("theme")
	is.Equal(v, "dark")
	v, _ = reopened.Get("activeTab")
	is.Equal(v, "summary")
}

func TestCorruptFileIsIgnored(t *testing.T) {
	is := is.New(t)
	p := filepath.Join(t.TempDir(), "state.yaml")
	is.NoErr(os.WriteFile(p, []byte("activeTab: [oops"), 0o600))

	s := Open(p, nil)
	_, ok := s.Get("activeTab")
	is.True(!ok)

	is.NoErr(s.Set("activeTab", "summary"))
	v, _ := Open(p, nil).Get("activeTab")
	is.Equal(v, "summary")
}

func TestReloadReportsChangedKeys(t *testing.T) {
	is := is.New(t)
	p := filepath.Join(t.TempDir(), "state.yaml")
	a := Open(p, nil)
	b := Open(p, nil)

	is.NoErr(a.Set("activeTab", "metrics"))
	changed, err := b.Reload()
	is.NoErr(err)
	is.Equal(changed, map[string]string{"activeTab": "metrics"})

	changed, err = b.Reload()
	is.NoErr(err)
	is.Equal(len(changed), 0)
}

func TestWatchSeesExternalWrites(t *testing.T) {
	is := is.New(t)
	p := filepath.Join(t.TempDir(), "state.yaml")
	watched := Open(p, nil)
	writer := Open(p, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 4)
	is.NoErr(watched.Watch(ctx, func(key, value string) {
		if key == "activeTab" {
			got <- value
		}
	}))

	is.NoErr(writer.Set("activeTab", "summary"))

	select {
	case v := <-got:
		is.Equal(v, "summary")
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the external write")
	}
	v, _ := watched.Get("activeTab")
	is.Equal(v, "summary")
}

func TestControllerRestoresFromFileStore(t *testing.T) {
	is := is.New(t)
	p := filepath.Join(t.TempDir(), "state.yaml")
	names := []string{"visual", "metrics", "compare", "summary"}

	registry := func() []tabs.Tab {
		out := make([]tabs.Tab, len(names))
		for i, n := range names {
			out[i] = tabs.Tab{Name: n}
		}
		return out
	}

	first, err := tabs.New(registry(), tabs.WithStore(Open(p, nil)), tabs.WithPolicy(tabs.PersistingPolicy("visual")))
	is.NoErr(err)
	first.Initialize()
	is.NoErr(first.Activate("compare"))

	second, err := tabs.New(registry(), tabs.WithStore(Open(p, nil)), tabs.WithPolicy(tabs.PersistingPolicy("visual")))
	is.NoErr(err)
	second.Initialize()
	active, ok := second.Active()
	is.True(ok)
	is.Equal(active, "compare")
}
