package entropy

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMAC(t *testing.T, s string) net.HardwareAddr {
	t.Helper()
	mac, err := net.ParseMAC(s)
	require.NoError(t, err)
	return mac
}

func newTestMachineSource(ifaces []net.Interface, files map[string]string) *MachineSource {
	paths := make([]string, 0, 2)
	paths = append(paths, "/first", "/second")
	return &MachineSource{
		idPaths:    paths,
		interfaces: func() ([]net.Interface, error) { return ifaces, nil },
		readFile: func(path string) ([]byte, error) {
			v, ok := files[path]
			if !ok {
				return nil, os.ErrNotExist
			}
			return []byte(v), nil
		},
	}
}

func TestMachineSource_Pepper_ConcatenatesMACAndID(t *testing.T) {
	ifaces := []net.Interface{
		{Index: 1, Name: "lo", Flags: net.FlagLoopback | net.FlagUp},
		{Index: 3, Name: "wlan0", HardwareAddr: mustMAC(t, "aa:bb:cc:dd:ee:03")},
		{Index: 2, Name: "eth0", HardwareAddr: mustMAC(t, "aa:bb:cc:dd:ee:02")},
	}
	src := newTestMachineSource(ifaces, map[string]string{
		"/first": "0123456789abcdef0123456789abcdef\n",
	})

	p, err := src.Pepper(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "aa:bb:cc:dd:ee:02"+"01234567-89ab-cdef-0123-456789abcdef", string(p))
}

func TestMachineSource_Pepper_Deterministic(t *testing.T) {
	ifaces := []net.Interface{{Index: 2, Name: "eth0", HardwareAddr: mustMAC(t, "02:00:00:00:00:01")}}
	src := newTestMachineSource(ifaces, map[string]string{"/second": "host-identifier"})

	p1, err := src.Pepper(context.Background())
	require.NoError(t, err)
	p2, err := src.Pepper(context.Background())
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, "02:00:00:00:00:01host-identifier", string(p1))
}

func TestMachineSource_Pepper_SkipsZeroAndLoopback(t *testing.T) {
	ifaces := []net.Interface{
		{Index: 1, Name: "lo", Flags: net.FlagLoopback, HardwareAddr: mustMAC(t, "00:00:00:00:00:01")},
		{Index: 2, Name: "dummy", HardwareAddr: mustMAC(t, "00:00:00:00:00:00")},
		{Index: 3, Name: "eth0", HardwareAddr: mustMAC(t, "de:ad:be:ef:00:01")},
	}
	src := newTestMachineSource(ifaces, map[string]string{"/first": "id"})

	p, err := src.Pepper(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "de:ad:be:ef:00:01id", string(p))
}

func TestMachineSource_Pepper_Errors(t *testing.T) {
	goodIfaces := []net.Interface{{Index: 2, Name: "eth0", HardwareAddr: []byte{2, 0, 0, 0, 0, 1}}}

	tests := []struct {
		name string
		src  *MachineSource
	}{
		{
			name: "no usable interface",
			src: newTestMachineSource([]net.Interface{
				{Index: 1, Name: "lo", Flags: net.FlagLoopback},
			}, map[string]string{"/first": "id"}),
		},
		{
			name: "no machine id file",
			src:  newTestMachineSource(goodIfaces, map[string]string{}),
		},
		{
			name: "blank machine id",
			src:  newTestMachineSource(goodIfaces, map[string]string{"/first": "  \n", "/second": ""}),
		},
		{
			name: "interface listing fails",
			src: &MachineSource{
				idPaths:    []string{"/first"},
				interfaces: func() ([]net.Interface, error) { return nil, errors.New("netlink down") },
				readFile:   func(string) ([]byte, error) { return []byte("id"), nil },
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.src.Pepper(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrEntropySource)
			assert.Nil(t, p)
		})
	}
}

func TestMachineSource_Pepper_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMachineSource().Pepper(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewMachineSource_ReadsRealFiles(t *testing.T) {
	dir := t.TempDir()
	idPath := filepath.Join(dir, "machine-id")
	require.NoError(t, os.WriteFile(idPath, []byte("not-a-uuid\n"), 0o600))

	src := NewMachineSource(idPath)
	assert.Equal(t, []string{idPath}, src.idPaths)

	id, err := src.machineID()
	require.NoError(t, err)
	assert.Equal(t, "not-a-uuid", id)
}

func TestNewMachineSource_Defaults(t *testing.T) {
	src := NewMachineSource()
	assert.Equal(t, DefaultMachineIDPaths, src.idPaths)
}

func TestStaticSource_Pepper(t *testing.T) {
	value := []byte("fixed-pepper")
	src := NewStaticSource(value)

	p, err := src.Pepper(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed-pepper", string(p))

	// caller wiping its copy must not affect later calls
	for i := range p {
		p[i] = 0
	}
	value[0] = 'X'

	p2, err := src.Pepper(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed-pepper", string(p2))
}

func TestStaticSource_Empty(t *testing.T) {
	_, err := NewStaticSource(nil).Pepper(context.Background())
	assert.ErrorIs(t, err, ErrEntropySource)
}
