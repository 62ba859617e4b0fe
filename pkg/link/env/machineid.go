package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

const appID = "seclink"

// MachineID retrieves an ID identifying the machine. The raw machine id is
// hashed with the application name so it's not exposed on the wire.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err == nil {
		return id[:16]
	}
	glog.Warningf("machine id unavailable: %v", err)
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "unknown"
}
