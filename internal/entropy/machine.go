// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package entropy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// DefaultMachineIDPaths lists the files consulted, in order, for the machine
// identifier.
var DefaultMachineIDPaths = []string{
	"/etc/machine-id",
	"/var/lib/dbus/machine-id",
}

// MachineSource is the production [Source]. The pepper is the textual
// hardware address of the first eligible network interface followed by the
// canonical machine identifier.
type MachineSource struct {
	idPaths    []string
	interfaces func() ([]net.Interface, error)
	readFile   func(string) ([]byte, error)
}

// NewMachineSource builds a [MachineSource] that reads the machine identifier
// from idPaths, or from [DefaultMachineIDPaths] when idPaths is empty.
func NewMachineSource(idPaths ...string) *MachineSource {
	if len(idPaths) == 0 {
		idPaths = DefaultMachineIDPaths
	}
	return &MachineSource{
		idPaths:    idPaths,
		interfaces: net.Interfaces,
		readFile:   os.ReadFile,
	}
}

// Pepper implements [Source].
func (m *MachineSource) Pepper(ctx context.Context) (Pepper, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mac, err := m.hardwareAddr()
	if err != nil {
		return nil, err
	}

	id, err := m.machineID()
	if err != nil {
		return nil, err
	}

	return Pepper(mac + id), nil
}

// hardwareAddr returns the MAC of the lowest-index interface that is not a
// loopback and has a non-zero hardware address.
func (m *MachineSource) hardwareAddr() (string, error) {
	ifaces, err := m.interfaces()
	if err != nil {
		return "", fmt.Errorf("%w: list network interfaces: %w", ErrEntropySource, err)
	}

	sort.Slice(ifaces, func(i, j int) bool { return ifaces[i].Index < ifaces[j].Index })

	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if len(iface.HardwareAddr) == 0 || isZero(iface.HardwareAddr) {
			continue
		}
		return iface.HardwareAddr.String(), nil
	}

	return "", fmt.Errorf("%w: no interface with a hardware address", ErrEntropySource)
}

// machineID returns the first readable identifier in canonical UUID form.
// Identifiers that are not UUIDs are returned trimmed, unchanged.
func (m *MachineSource) machineID() (string, error) {
	var errs []error
	for _, path := range m.idPaths {
		raw, err := m.readFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		id := strings.TrimSpace(string(raw))
		if id == "" {
			errs = append(errs, fmt.Errorf("%s is empty", path))
			continue
		}

		if parsed, err := uuid.Parse(id); err == nil {
			return parsed.String(), nil
		}
		return id, nil
	}

	return "", fmt.Errorf("%w: read machine identifier: %w", ErrEntropySource, errors.Join(errs...))
}

func isZero(b []byte) bool {
	return bytes.Count(b, []byte{0}) == len(b)
}
