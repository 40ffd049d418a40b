package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another instance already holds the relay port.
var ErrAlreadyRunning = errors.New("instance already running")

// InstanceGuard holds the relay listener that doubles as the single-instance lock.
type InstanceGuard struct {
	listener net.Listener
	address  string
}

// ClaimRelayListener binds the relay port on localhost. A zero port is
// derived from appName so that every instance agrees on it.
func ClaimRelayListener(appName string, port int) (*InstanceGuard, error) {
	address := RelayAddress(appName, port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, address)
	}
	return &InstanceGuard{listener: listener, address: listener.Addr().String()}, nil
}

// RelayAddress returns the localhost address the relay listens on.
func RelayAddress(appName string, port int) string {
	if port <= 0 {
		port = portFromName(appName)
	}
	return fmt.Sprintf("127.0.0.1:%d", port)
}

// Listener returns the bound listener for the relay server.
func (guard *InstanceGuard) Listener() net.Listener {
	if guard == nil {
		return nil
	}
	return guard.listener
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	err := guard.listener.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
