// internal/serialport/enumerate.go
package serialport

import (
	"fmt"

	"go.bug.st/serial/enumerator"
)

// SystemEnumerator lists devices with go.bug.st/serial/enumerator.
// USB devices carry VID/PID and product details; others (virtual ports,
// on-board UARTs) report only their path.
type SystemEnumerator struct{}

func (SystemEnumerator) List() ([]Device, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("serialport: enumerate: %w", err)
	}

	devs := make([]Device, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		devs = append(devs, Device{
			Path:         d.Name,
			USB:          d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	return devs, nil
}
