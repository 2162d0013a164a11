package plugin

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type stubPlugin struct {
	name string
}

func (p *stubPlugin) Name() string                            { return p.name }
func (p *stubPlugin) RegisterTools(*Registration) error       { return nil }
func (p *stubPlugin) RegisterResources(*Registration) error   { return nil }
func (p *stubPlugin) RegisterPrompts(reg *Registration) error { return nil }

func stubFactory(name string) Factory {
	return func() (Plugin, error) {
		return &stubPlugin{name: name}, nil
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Register("zeta", stubFactory("zeta"))
	r.Register("alpha", stubFactory("alpha"))
	r.Register("mid", stubFactory("mid"))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	r.Register("ssh", stubFactory("ssh"))

	f := r.Lookup("ssh")
	require.NotNil(t, f)

	p, err := f()
	require.NoError(t, err)
	assert.Equal(t, "ssh", p.Name())

	assert.Nil(t, r.Lookup("missing"))
}

func TestRegistryDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register("ssh", stubFactory("ssh"))

	assert.Panics(t, func() {
		r.Register("ssh", stubFactory("ssh"))
	})
}

func TestRegistryEmptyNamePanics(t *testing.T) {
	r := NewRegistry()
	assert.Panics(t, func() {
		r.Register("", stubFactory(""))
	})
}

func TestRegistryNilFactoryPanics(t *testing.T) {
	r := NewRegistry()
	assert.Panics(t, func() {
		r.Register("ssh", nil)
	})
}

// Names must return the same sorted order no matter the registration order.
func TestRegistryOrderDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfNDistinct(
			rapid.StringMatching(`[a-z]{1,8}`), 1, 16,
			func(s string) string { return s },
		).Draw(t, "names")

		r := NewRegistry()
		for _, name := range names {
			r.Register(name, stubFactory(name))
		}

		want := append([]string(nil), names...)
		sort.Strings(want)

		if got := r.Names(); !assert.Equal(t, want, got) {
			t.Fatalf("unexpected order: %v", got)
		}
	})
}

func TestRegistrationStaging(t *testing.T) {
	reg := NewRegistration()
	assert.Empty(t, reg.Tools())
	assert.Empty(t, reg.Resources())
	assert.Empty(t, reg.Prompts())
}
